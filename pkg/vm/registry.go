package vm

import (
	"github.com/zurustar/funk/pkg/value"
)

// Registry maps function names to their overloads, in declaration order.
// It stores FuncIDs only; definitions live in the Arena.
type Registry struct {
	arena     *Arena
	functions map[string][]FuncID
}

// NewRegistry creates a registry resolving definitions through arena.
func NewRegistry(arena *Arena) *Registry {
	return &Registry{
		arena:     arena,
		functions: make(map[string][]FuncID),
	}
}

// Add appends an overload. Duplicates are not detected.
func (r *Registry) Add(name string, id FuncID) {
	r.functions[name] = append(r.functions[name], id)
}

// Has reports whether any overload is registered under name.
func (r *Registry) Has(name string) bool {
	return len(r.functions[name]) > 0
}

// Overloads returns the overloads registered under name.
func (r *Registry) Overloads(name string) []FuncID {
	return r.functions[name]
}

// Lookup selects the overload for a call. Pattern overloads are tried
// first, in declaration order: one matches when it has as many patterns
// as there are arguments and every pattern equals its argument. Failing
// that, the first regular overload with a matching parameter count wins.
func (r *Registry) Lookup(name string, args []value.Value) (FuncID, bool) {
	overloads := r.functions[name]

	for _, id := range overloads {
		fn := r.arena.Function(id)
		if !fn.IsPattern() || len(fn.Patterns) != len(args) {
			continue
		}
		matched := true
		for i, pattern := range fn.Patterns {
			if !value.Matches(pattern.Value, args[i]) {
				matched = false
				break
			}
		}
		if matched {
			return id, true
		}
	}

	for _, id := range overloads {
		fn := r.arena.Function(id)
		if !fn.IsPattern() && len(fn.Params) == len(args) {
			return id, true
		}
	}
	return NoFunc, false
}
