package vm

import (
	"github.com/ahrtr/gocontainer/set"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
)

// MaxScopeDepth is the default limit on nested scope frames.
const MaxScopeDepth = 1000

// Scope is the stack of lexical frames. The global frame sits at depth
// zero and is never popped. Frames map names to arena handles; the Scope
// never owns or frees bindings itself.
type Scope struct {
	frames   []map[string]Handle
	maxDepth int
	builtins set.Interface
}

// NewScope creates a scope stack holding only the global frame. Names in
// builtins can never be declared.
func NewScope(maxDepth int, builtins ...string) *Scope {
	if maxDepth <= 0 {
		maxDepth = MaxScopeDepth
	}
	s := &Scope{
		frames:   []map[string]Handle{make(map[string]Handle)},
		maxDepth: maxDepth,
		builtins: set.New(),
	}
	for _, name := range builtins {
		s.builtins.Add(name)
	}
	return s
}

// Depth returns the number of frames above the global one.
func (s *Scope) Depth() int {
	return len(s.frames) - 1
}

// Push opens a new innermost frame.
func (s *Scope) Push() error {
	if s.Depth() >= s.maxDepth {
		return funkerr.Runtimef(token.Position{}, "Scope stack overflow, max depth is %d", s.maxDepth)
	}
	s.frames = append(s.frames, make(map[string]Handle))
	return nil
}

// Pop closes the innermost frame and returns the handles it held so the
// caller can release them.
func (s *Scope) Pop() ([]Handle, error) {
	if s.Depth() == 0 {
		return nil, funkerr.Runtimef(token.Position{}, "Scope stack underflow, can't go below 0")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	handles := make([]Handle, 0, len(top))
	for _, h := range top {
		handles = append(handles, h)
	}
	return handles, nil
}

// Add binds name in the innermost frame.
func (s *Scope) Add(name string, h Handle) error {
	if s.IsBuiltin(name) {
		return funkerr.Runtimef(token.Position{}, "Cannot overwrite built-in function: %s", name)
	}
	if s.ContainsInCurrentScope(name) {
		return funkerr.Runtimef(token.Position{}, "Variable '%s' is already declared in this scope", name)
	}
	s.frames[len(s.frames)-1][name] = h
	return nil
}

// Get resolves name from the innermost frame outwards.
func (s *Scope) Get(name string) (Handle, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if h, ok := s.frames[i][name]; ok {
			return h, true
		}
	}
	return 0, false
}

// Contains reports whether name is visible from the innermost frame.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// ContainsInCurrentScope checks the innermost frame only.
func (s *Scope) ContainsInCurrentScope(name string) bool {
	_, ok := s.frames[len(s.frames)-1][name]
	return ok
}

// IsBuiltin reports whether name is reserved for a built-in function.
func (s *Scope) IsBuiltin(name string) bool {
	return s.builtins.Contains(name)
}

// Reserve marks name as a built-in function name.
func (s *Scope) Reserve(name string) {
	s.builtins.Add(name)
}
