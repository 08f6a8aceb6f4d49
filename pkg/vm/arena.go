package vm

import (
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/value"
)

// Handle addresses a Binding stored in an Arena.
type Handle int

// FuncID addresses a function definition stored in an Arena.
type FuncID int

// NoFunc marks a binding that does not name a function.
const NoFunc FuncID = -1

// Binding is the runtime state behind a declared name.
type Binding struct {
	Name    string
	Mutable bool
	Type    value.Kind
	Value   value.Value

	// Elements holds the items of a list binding; IsList tells an empty
	// list apart from a scalar.
	Elements []value.Value
	IsList   bool

	// Func is the definition a function binding was declared with.
	Func FuncID
}

// IsFunction reports whether the binding names a function.
func (b *Binding) IsFunction() bool {
	return b.Func != NoFunc
}

// Arena owns every binding and function definition of a VM. Scope frames
// and the Registry refer to them by Handle and FuncID only.
type Arena struct {
	bindings  []*Binding
	free      []Handle
	functions []*ast.Function
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc stores b and returns its handle, reusing released slots.
func (a *Arena) Alloc(b *Binding) Handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.bindings[h] = b
		return h
	}
	a.bindings = append(a.bindings, b)
	return Handle(len(a.bindings) - 1)
}

// Binding returns the binding for h, or nil for a released handle.
func (a *Arena) Binding(h Handle) *Binding {
	if h < 0 || int(h) >= len(a.bindings) {
		return nil
	}
	return a.bindings[h]
}

// Release frees the slot of h. Function definitions the binding referred
// to stay alive; overloads remain callable through the Registry.
func (a *Arena) Release(h Handle) {
	if a.Binding(h) == nil {
		return
	}
	a.bindings[h] = nil
	a.free = append(a.free, h)
}

// Live returns the number of bindings currently allocated.
func (a *Arena) Live() int {
	return len(a.bindings) - len(a.free)
}

// AddFunction stores a function definition for the lifetime of the VM.
func (a *Arena) AddFunction(fn *ast.Function) FuncID {
	a.functions = append(a.functions, fn)
	return FuncID(len(a.functions) - 1)
}

// Function returns the definition for id, or nil for an unknown id.
func (a *Arena) Function(id FuncID) *ast.Function {
	if id < 0 || int(id) >= len(a.functions) {
		return nil
	}
	return a.functions[id]
}
