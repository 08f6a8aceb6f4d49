package vm

import (
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/value"
)

type listMethod func(elements []value.Value, args []value.Value, pos token.Position) (value.Value, error)

// listMethods are the methods available on list literals and on variables
// initialised from one.
var listMethods = map[string]listMethod{
	// length(): number of elements
	"length": func(elements []value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("length", args, 0, pos); err != nil {
			return value.None(), err
		}
		return value.Numb(int64(len(elements))), nil
	},

	// get(i): element at zero-based index i
	"get": func(elements []value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("get", args, 1, pos); err != nil {
			return value.None(), err
		}
		i, err := args[0].AsNumb()
		if err != nil {
			return value.None(), funkerr.At(err, pos)
		}
		if i < 0 || i >= int64(len(elements)) {
			return value.None(), funkerr.Runtimef(pos, "Index %d out of range for list of length %d", i, len(elements))
		}
		return elements[i], nil
	},
}

// evalMethodCall dispatches on the receiver: list bindings and list
// literals get list methods, text values get text methods.
func (vm *VM) evalMethodCall(m *ast.MethodCall) (value.Value, error) {
	elements, isList, recv, err := vm.receiver(m.Receiver)
	if err != nil {
		return value.None(), err
	}
	args, err := vm.evalArgs(m.Arguments)
	if err != nil {
		return value.None(), err
	}

	vm.log.Debug("Calling method", "method", m.Method, "receiver", m.Receiver.String(), "list", isList)

	if isList {
		if fn, ok := listMethods[m.Method]; ok {
			return fn(elements, args, m.Pos())
		}
	} else if recv.Is(value.KindText) {
		if fn, ok := textMethods[m.Method]; ok {
			return fn(recv.String(), args, m.Pos())
		}
	}
	return value.None(), funkerr.Runtimef(m.Pos(), "Unknown method '%s' for object %s", m.Method, m.Receiver.String())
}

// receiver evaluates the object of a method call, keeping list elements
// when the object is a list.
func (vm *VM) receiver(expr ast.Expression) ([]value.Value, bool, value.Value, error) {
	switch e := expr.(type) {
	case *ast.List:
		elements, err := vm.evalElements(e)
		if err != nil {
			return nil, false, value.None(), err
		}
		return elements, true, renderList(elements), nil
	case *ast.Variable:
		if b, ok := vm.Lookup(e.Name); ok && b.IsList {
			return b.Elements, true, b.Value, nil
		}
	}
	v, err := vm.eval(expr)
	if err != nil {
		return nil, false, value.None(), err
	}
	return nil, false, v, nil
}

func methodArity(name string, args []value.Value, want int, pos token.Position) error {
	if len(args) != want {
		return funkerr.Runtimef(pos, "Method '%s' expects %d arguments, but got %d", name, want, len(args))
	}
	return nil
}
