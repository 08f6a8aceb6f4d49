package value

import (
	"fmt"
	"math"
)

// ErrorKind classifies failures of value operations.
type ErrorKind int

const (
	// TypeMismatch means the operand kinds do not fit the operation.
	TypeMismatch ErrorKind = iota
	// Arithmetic covers well-typed operations that cannot produce a result,
	// such as a zero divisor.
	Arithmetic
)

// Error is returned by value operations. It carries no source position;
// the evaluator attaches one.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func typeErrorf(format string, args ...any) error {
	return &Error{Kind: TypeMismatch, Message: fmt.Sprintf(format, args...)}
}

func arithmeticErrorf(format string, args ...any) error {
	return &Error{Kind: Arithmetic, Message: fmt.Sprintf(format, args...)}
}

// BinaryFunc is the signature shared by all binary operators.
type BinaryFunc func(a, b Value) (Value, error)

// numeric applies an arithmetic operator. Two numbs stay numb, any other
// numeric pair is widened to real.
func numeric(a, b Value, op string, ints func(x, y int64) int64, reals func(x, y float64) float64) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, typeErrorf("Cannot apply '%s' to %s and %s", op, a.kind, b.kind)
	}
	if a.kind == KindNumb && b.kind == KindNumb {
		return Numb(ints(a.n, b.n)), nil
	}
	return Real(reals(a.float(), b.float())), nil
}

// float widens a numeric value. Callers check IsNumeric first.
func (v Value) float() float64 {
	if v.kind == KindNumb {
		return float64(v.n)
	}
	return v.r
}

func (v Value) isZero() bool {
	return (v.kind == KindNumb && v.n == 0) || (v.kind == KindReal && v.r == 0)
}

// Add implements '+'. Text operands are concatenated.
func Add(a, b Value) (Value, error) {
	if a.kind == KindText && b.kind == KindText {
		return Text(a.s + b.s), nil
	}
	return numeric(a, b, "+",
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub implements '-'.
func Sub(a, b Value) (Value, error) {
	return numeric(a, b, "-",
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul implements '*'.
func Mul(a, b Value) (Value, error) {
	return numeric(a, b, "*",
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div implements '/'. A zero divisor is rejected before any type check.
// Numb division truncates toward zero.
func Div(a, b Value) (Value, error) {
	if b.isZero() {
		return Value{}, arithmeticErrorf("Division by zero")
	}
	return numeric(a, b, "/",
		func(x, y int64) int64 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// Mod implements '%', defined for numb operands only. The result takes the
// sign of the dividend.
func Mod(a, b Value) (Value, error) {
	if a.kind != KindNumb || b.kind != KindNumb {
		return Value{}, typeErrorf("Modulo operation requires integer operands")
	}
	if b.n == 0 {
		return Value{}, arithmeticErrorf("Modulo by zero")
	}
	return Numb(a.n % b.n), nil
}

// Pow implements '^'.
func Pow(a, b Value) (Value, error) {
	return numeric(a, b, "^", ipow, math.Pow)
}

// ipow raises x to y by squaring. Negative exponents truncate the real
// result toward zero.
func ipow(x, y int64) int64 {
	if y < 0 {
		return int64(math.Pow(float64(x), float64(y)))
	}
	result := int64(1)
	for y > 0 {
		if y&1 == 1 {
			result *= x
		}
		x *= x
		y >>= 1
	}
	return result
}

// compare orders two values of the same kind, or two numeric values. It
// returns -1, 0 or 1.
func compare(a, b Value, op string) (int, error) {
	if a.kind != b.kind {
		if a.IsNumeric() && b.IsNumeric() {
			return cmpOrdered(a.float(), b.float()), nil
		}
		return 0, typeErrorf("Cannot compare %s and %s with '%s'", a.kind, b.kind, op)
	}
	switch a.kind {
	case KindNumb:
		return cmpOrdered(a.n, b.n), nil
	case KindReal:
		return cmpOrdered(a.r, b.r), nil
	case KindBool:
		return cmpOrdered(boolToInt(a.b), boolToInt(b.b)), nil
	case KindChar:
		return cmpOrdered(a.c, b.c), nil
	case KindText:
		return cmpOrdered(a.s, b.s), nil
	}
	return 0, typeErrorf("Cannot compare %s and %s with '%s'", a.kind, b.kind, op)
}

func cmpOrdered[T int64 | float64 | rune | string](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Equal implements '=='. None equals only none and never raises.
func Equal(a, b Value) (Value, error) {
	if a.kind == KindNone || b.kind == KindNone {
		return Bool(a.kind == b.kind), nil
	}
	if a.kind == KindReal || b.kind == KindReal {
		if a.IsNumeric() && b.IsNumeric() {
			return Bool(a.float() == b.float()), nil
		}
	}
	c, err := compare(a, b, "==")
	if err != nil {
		return Value{}, err
	}
	return Bool(c == 0), nil
}

// NotEqual implements '!=' as the negation of Equal.
func NotEqual(a, b Value) (Value, error) {
	eq, err := Equal(a, b)
	if err != nil {
		return Value{}, err
	}
	return Bool(!eq.b), nil
}

// Less implements '<'.
func Less(a, b Value) (Value, error) {
	c, err := compare(a, b, "<")
	if err != nil {
		return Value{}, err
	}
	return Bool(c < 0), nil
}

// LessEqual implements '<='.
func LessEqual(a, b Value) (Value, error) {
	c, err := compare(a, b, "<=")
	if err != nil {
		return Value{}, err
	}
	return Bool(c <= 0), nil
}

// Greater implements '>'.
func Greater(a, b Value) (Value, error) {
	c, err := compare(a, b, ">")
	if err != nil {
		return Value{}, err
	}
	return Bool(c > 0), nil
}

// GreaterEqual implements '>='.
func GreaterEqual(a, b Value) (Value, error) {
	c, err := compare(a, b, ">=")
	if err != nil {
		return Value{}, err
	}
	return Bool(c >= 0), nil
}

// logical checks that the operands are comparable and combines their
// truthiness.
func logical(a, b Value, op string, combine func(x, y bool) bool) (Value, error) {
	if _, err := compare(a, b, op); err != nil {
		return Value{}, err
	}
	return Bool(combine(a.Truthy(), b.Truthy())), nil
}

// And implements '&&'. Both operands are already evaluated.
func And(a, b Value) (Value, error) {
	return logical(a, b, "&&", func(x, y bool) bool { return x && y })
}

// Or implements '||'.
func Or(a, b Value) (Value, error) {
	return logical(a, b, "||", func(x, y bool) bool { return x || y })
}

// Neg implements unary '-'.
func Neg(v Value) (Value, error) {
	switch v.kind {
	case KindNumb:
		return Numb(-v.n), nil
	case KindReal:
		return Real(-v.r), nil
	}
	return Value{}, typeErrorf("Cannot negate non-numeric value")
}

// Not implements unary '!'.
func Not(v Value) (Value, error) {
	if v.kind != KindBool {
		return Value{}, typeErrorf("Cannot apply logical NOT to non-boolean value")
	}
	return Bool(!v.b), nil
}

// Matches reports whether a pattern value selects an argument. Values of
// kinds that cannot be compared never match.
func Matches(pattern, arg Value) bool {
	eq, err := Equal(pattern, arg)
	return err == nil && eq.b
}

// IsTypeError reports whether err is a TypeMismatch Error.
func IsTypeError(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == TypeMismatch
}
