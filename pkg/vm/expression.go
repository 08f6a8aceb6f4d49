package vm

import (
	"strings"

	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/value"
)

var binaryOps = map[token.TokenType]value.BinaryFunc{
	token.PLUS:     value.Add,
	token.MINUS:    value.Sub,
	token.ASTERISK: value.Mul,
	token.SLASH:    value.Div,
	token.PERCENT:  value.Mod,
	token.CARET:    value.Pow,
	token.EQ:       value.Equal,
	token.NOT_EQ:   value.NotEqual,
	token.LT:       value.Less,
	token.LTE:      value.LessEqual,
	token.GT:       value.Greater,
	token.GTE:      value.GreaterEqual,
	token.AND:      value.And,
	token.OR:       value.Or,
}

// compound assignment operator -> arithmetic operator
var compoundOps = map[token.TokenType]value.BinaryFunc{
	token.PLUS_ASSIGN:  value.Add,
	token.MINUS_ASSIGN: value.Sub,
	token.MULT_ASSIGN:  value.Mul,
	token.DIV_ASSIGN:   value.Div,
}

// eval evaluates an expression. Nothing is cached; every visit computes
// the value again.
func (vm *VM) eval(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Variable:
		return vm.evalVariable(e)
	case *ast.Unary:
		return vm.evalUnary(e)
	case *ast.Binary:
		return vm.evalBinary(e)
	case *ast.Assign:
		return vm.evalAssign(e)
	case *ast.Call:
		return vm.evalCall(e)
	case *ast.MethodCall:
		return vm.evalMethodCall(e)
	case *ast.List:
		elements, err := vm.evalElements(e)
		if err != nil {
			return value.None(), err
		}
		return renderList(elements), nil
	case *ast.Pipe:
		return vm.evalPipe(e)
	}
	return value.None(), funkerr.Runtimef(expr.Pos(), "Cannot evaluate %s", expr.String())
}

func (vm *VM) evalVariable(v *ast.Variable) (value.Value, error) {
	b, ok := vm.Lookup(v.Name)
	if !ok {
		return value.None(), funkerr.Runtimef(v.Pos(), "Undefined variable '%s'", v.Name)
	}
	if b.IsFunction() {
		return value.None(), funkerr.Runtimef(v.Pos(), "'%s' is a function, not a value", v.Name)
	}
	return b.Value, nil
}

func (vm *VM) evalUnary(u *ast.Unary) (value.Value, error) {
	right, err := vm.eval(u.Right)
	if err != nil {
		return value.None(), err
	}
	var result value.Value
	switch u.Operator {
	case token.MINUS:
		result, err = value.Neg(right)
	case token.BANG:
		result, err = value.Not(right)
	default:
		return value.None(), funkerr.Runtimef(u.Pos(), "Unknown unary operator '%s'", u.Token.Literal)
	}
	if err != nil {
		return value.None(), funkerr.At(err, u.Pos())
	}
	return result, nil
}

// evalBinary evaluates both operands, left first, before applying the
// operator. && and || do not short-circuit.
func (vm *VM) evalBinary(b *ast.Binary) (value.Value, error) {
	op, ok := binaryOps[b.Operator]
	if !ok {
		return value.None(), funkerr.Runtimef(b.Pos(), "Unknown binary operator '%s'", b.Token.Literal)
	}
	left, err := vm.eval(b.Left)
	if err != nil {
		return value.None(), err
	}
	right, err := vm.eval(b.Right)
	if err != nil {
		return value.None(), err
	}
	result, err := op(left, right)
	if err != nil {
		return value.None(), funkerr.At(err, b.Pos())
	}
	return result, nil
}

func (vm *VM) evalAssign(a *ast.Assign) (value.Value, error) {
	b, ok := vm.Lookup(a.Target.Name)
	if !ok {
		return value.None(), funkerr.Runtimef(a.Target.Pos(), "Undefined variable '%s'", a.Target.Name)
	}
	if b.IsFunction() {
		return value.None(), funkerr.Runtimef(a.Target.Pos(), "Cannot assign to function '%s'", a.Target.Name)
	}
	if !b.Mutable {
		return value.None(), funkerr.Runtimef(a.Pos(), "Cannot assign to immutable variable '%s'", a.Target.Name)
	}

	var elements []value.Value
	var isList bool
	var v value.Value
	var err error
	if list, ok := a.Value.(*ast.List); ok && a.Operator == token.ASSIGN {
		elements, err = vm.evalElements(list)
		if err != nil {
			return value.None(), err
		}
		v, isList = renderList(elements), true
	} else {
		v, err = vm.eval(a.Value)
		if err != nil {
			return value.None(), err
		}
	}

	if op, ok := compoundOps[a.Operator]; ok {
		v, err = op(b.Value, v)
		if err != nil {
			return value.None(), funkerr.At(err, a.Pos())
		}
	}

	if v.Kind() != b.Type {
		return value.None(), funkerr.Typef(a.Pos(), "Cannot assign %s to '%s' of type %s", v.Kind(), a.Target.Name, b.Type)
	}

	b.Value = v
	b.Elements, b.IsList = elements, isList
	return v, nil
}

// evalElements evaluates the elements of a list literal. All elements
// must be of one kind.
func (vm *VM) evalElements(l *ast.List) ([]value.Value, error) {
	elements := make([]value.Value, 0, len(l.Elements))
	for i, e := range l.Elements {
		v, err := vm.eval(e)
		if err != nil {
			return nil, err
		}
		if i > 0 && v.Kind() != elements[0].Kind() {
			return nil, funkerr.Typef(e.Pos(), "Inconsistent list types: %s and %s", elements[0].Kind(), v.Kind())
		}
		elements = append(elements, v)
	}
	return elements, nil
}

// renderList is the text value of a list.
func renderList(elements []value.Value) value.Value {
	if len(elements) == 0 {
		return value.Text("[ ]")
	}
	parts := make([]string, len(elements))
	for i, v := range elements {
		parts[i] = v.Literal()
	}
	return value.Text("[ " + strings.Join(parts, ", ") + " ]")
}
