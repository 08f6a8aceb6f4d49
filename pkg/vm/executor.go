package vm

import (
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/value"
)

// flow is the outcome of evaluating a statement. returned is set once a
// return statement has run and stays set until the enclosing function
// call, or the top level, consumes it.
type flow struct {
	value    value.Value
	returned bool
}

func normal(v value.Value) flow {
	return flow{value: v}
}

// exec evaluates one statement.
func (vm *VM) exec(node ast.Node) (flow, error) {
	switch n := node.(type) {
	case *ast.Declaration:
		return vm.execDeclaration(n)
	case *ast.Function:
		return vm.execFunction(n)
	case *ast.Block:
		return vm.execBlock(n)
	case *ast.If:
		return vm.execIf(n)
	case *ast.While:
		return vm.execWhile(n)
	case *ast.Return:
		return vm.execReturn(n)
	case *ast.Include:
		vm.log.Warn("include is not supported, ignoring", "target", n.Target, "pos", n.Pos().String())
		return normal(value.None()), nil
	case ast.Expression:
		v, err := vm.eval(n)
		if err != nil {
			return flow{}, err
		}
		return normal(v), nil
	}
	return flow{}, funkerr.Runtimef(node.Pos(), "Cannot evaluate %s", node.String())
}

// execStatements runs stmts in the current frame. The result is that of
// the last statement evaluated.
func (vm *VM) execStatements(stmts []ast.Node) (flow, error) {
	result := normal(value.None())
	for _, stmt := range stmts {
		f, err := vm.exec(stmt)
		if err != nil {
			return flow{}, err
		}
		result = f
		if f.returned {
			break
		}
	}
	return result, nil
}

// execBlock runs a block, in a frame of its own when it declares names.
func (vm *VM) execBlock(b *ast.Block) (flow, error) {
	if !b.NeedsScope() {
		return vm.execStatements(b.Statements)
	}
	if err := vm.pushScope(b.Pos()); err != nil {
		return flow{}, err
	}
	defer vm.popScope()
	return vm.execStatements(b.Statements)
}

func (vm *VM) execIf(n *ast.If) (flow, error) {
	cond, err := vm.condition(n.Condition)
	if err != nil {
		return flow{}, err
	}
	if cond {
		return vm.execBlock(n.Consequence)
	}
	if n.Alternative != nil {
		return vm.exec(n.Alternative)
	}
	return normal(value.None()), nil
}

func (vm *VM) execWhile(n *ast.While) (flow, error) {
	for {
		if err := vm.checkContext(n.Pos()); err != nil {
			return flow{}, err
		}
		cond, err := vm.condition(n.Condition)
		if err != nil {
			return flow{}, err
		}
		if !cond {
			return normal(value.None()), nil
		}
		f, err := vm.execBlock(n.Body)
		if err != nil {
			return flow{}, err
		}
		if f.returned {
			return f, nil
		}
	}
}

// condition evaluates expr and casts the result to bool.
func (vm *VM) condition(expr ast.Expression) (bool, error) {
	v, err := vm.eval(expr)
	if err != nil {
		return false, err
	}
	b, err := v.Cast(value.KindBool)
	if err != nil {
		return false, funkerr.At(err, expr.Pos())
	}
	return b.Truthy(), nil
}

func (vm *VM) execReturn(n *ast.Return) (flow, error) {
	if n.Value == nil {
		return flow{value: value.None(), returned: true}, nil
	}
	v, err := vm.eval(n.Value)
	if err != nil {
		return flow{}, err
	}
	return flow{value: v, returned: true}, nil
}

// execDeclaration binds a new variable in the innermost frame. An
// initializer must produce exactly the declared kind; list initializers
// produce text and keep their elements on the binding.
func (vm *VM) execDeclaration(d *ast.Declaration) (flow, error) {
	b := &Binding{
		Name:    d.Name,
		Mutable: d.Mutable,
		Type:    d.Type,
		Value:   value.None(),
		Func:    NoFunc,
	}

	if d.Value != nil {
		if list, ok := d.Value.(*ast.List); ok {
			elements, err := vm.evalElements(list)
			if err != nil {
				return flow{}, err
			}
			b.Elements, b.IsList = elements, true
			b.Value = renderList(elements)
		} else {
			v, err := vm.eval(d.Value)
			if err != nil {
				return flow{}, err
			}
			b.Value = v
		}
		if b.Value.Kind() != d.Type {
			return flow{}, funkerr.Runtimef(d.Pos(), "Initializer for '%s' is not type %s", d.Name, d.Type)
		}
	}

	if err := vm.bind(b, d.Pos()); err != nil {
		return flow{}, err
	}
	vm.log.Debug("Declared variable", "name", d.Name, "type", d.Type.String(), "mutable", d.Mutable, "depth", vm.scope.Depth())
	return normal(b.Value), nil
}

// execFunction registers an overload. The name is bound in the innermost
// frame unless that frame already binds it to a function, in which case
// the new overload only joins the registry.
func (vm *VM) execFunction(fn *ast.Function) (flow, error) {
	if vm.scope.IsBuiltin(fn.Name) {
		return flow{}, funkerr.Runtimef(fn.Pos(), "Cannot overwrite built-in function: %s", fn.Name)
	}

	id := vm.arena.AddFunction(fn)
	if !vm.boundToFunctionHere(fn.Name) {
		b := &Binding{
			Name:    fn.Name,
			Mutable: fn.Mutable,
			Type:    value.KindNone,
			Value:   value.None(),
			Func:    id,
		}
		if err := vm.bind(b, fn.Pos()); err != nil {
			return flow{}, err
		}
	}
	vm.registry.Add(fn.Name, id)

	vm.log.Debug("Declared function", "name", fn.Name, "arity", fn.Arity(), "pattern", fn.IsPattern(), "overloads", len(vm.registry.Overloads(fn.Name)))
	return normal(value.None()), nil
}

func (vm *VM) boundToFunctionHere(name string) bool {
	if !vm.scope.ContainsInCurrentScope(name) {
		return false
	}
	h, _ := vm.scope.Get(name)
	b := vm.arena.Binding(h)
	return b != nil && b.IsFunction()
}
