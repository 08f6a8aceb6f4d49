package vm

import (
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/value"
)

func (vm *VM) evalCall(c *ast.Call) (value.Value, error) {
	args, err := vm.evalArgs(c.Arguments)
	if err != nil {
		return value.None(), err
	}
	return vm.invoke(c.Name, args, c.Pos())
}

// evalArgs evaluates arguments left to right, each exactly once.
func (vm *VM) evalArgs(exprs []ast.Expression) ([]value.Value, error) {
	args := make([]value.Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := vm.eval(e)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// invoke resolves name against the registry, then the built-ins.
func (vm *VM) invoke(name string, args []value.Value, pos token.Position) (value.Value, error) {
	if err := vm.checkContext(pos); err != nil {
		return value.None(), err
	}

	if id, ok := vm.registry.Lookup(name, args); ok {
		vm.log.Debug("Calling function", "name", name, "args", len(args), "depth", vm.scope.Depth())
		return vm.callFunction(id, args, pos)
	}

	if fn, ok := vm.builtins[name]; ok {
		vm.log.Debug("Calling built-in function", "name", name, "args", len(args))
		result, err := fn(vm, args)
		if err != nil {
			return value.None(), funkerr.At(err, pos)
		}
		return result, nil
	}

	return value.None(), funkerr.Runtimef(pos, "Unknown function '%s' for %d argument(s)", name, len(args))
}

// callFunction runs one overload in a new frame. The frame is popped on
// every exit path.
func (vm *VM) callFunction(id FuncID, args []value.Value, pos token.Position) (value.Value, error) {
	fn := vm.arena.Function(id)

	if err := vm.pushScope(pos); err != nil {
		return value.None(), err
	}
	defer vm.popScope()

	if !fn.IsPattern() {
		if len(args) != len(fn.Params) {
			return value.None(), funkerr.Runtimef(pos, "Function '%s' expects %d arguments, but got %d", fn.Name, len(fn.Params), len(args))
		}
		for i, param := range fn.Params {
			b := &Binding{
				Name:  param.Name,
				Type:  param.Type,
				Value: args[i],
				Func:  NoFunc,
			}
			if err := vm.bind(b, param.Token.Pos); err != nil {
				return value.None(), err
			}
		}
	}

	f, err := vm.execStatements(fn.Body.Statements)
	if err != nil {
		return value.None(), err
	}
	return f.value, nil
}

// evalPipe calls the target with the source value as first argument.
func (vm *VM) evalPipe(p *ast.Pipe) (value.Value, error) {
	source, err := vm.eval(p.Source)
	if err != nil {
		return value.None(), err
	}

	switch target := p.Target.(type) {
	case *ast.Call:
		rest, err := vm.evalArgs(target.Arguments)
		if err != nil {
			return value.None(), err
		}
		args := append([]value.Value{source}, rest...)
		return vm.invoke(target.Name, args, target.Pos())
	case *ast.Variable:
		if vm.isCallable(target.Name) {
			return vm.invoke(target.Name, []value.Value{source}, target.Pos())
		}
	}
	return value.None(), funkerr.Runtimef(p.Pos(), "Pipe target must be a function or function identifier")
}

// isCallable reports whether name refers to a user function or a built-in.
func (vm *VM) isCallable(name string) bool {
	if _, ok := vm.builtins[name]; ok {
		return true
	}
	if b, ok := vm.Lookup(name); ok && b.IsFunction() {
		return true
	}
	return vm.registry.Has(name)
}
