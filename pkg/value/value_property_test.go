package value

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: numb division and remainder agree with Go's truncated
// integer arithmetic and keep the numb kind.
func TestProperty_IntegerDivisionMatchesHost(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a / b stays numb and truncates", prop.ForAll(
		func(a, b int64) bool {
			if b == 0 {
				return true
			}
			got, err := Div(Numb(a), Numb(b))
			return err == nil && got == Numb(a/b)
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(-1000, 1000),
	))

	properties.Property("a % b stays numb", prop.ForAll(
		func(a, b int64) bool {
			if b == 0 {
				return true
			}
			got, err := Mod(Numb(a), Numb(b))
			return err == nil && got == Numb(a%b)
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(-1000, 1000),
	))

	// ゼロ除算は型に関係なくランタイムエラー
	properties.Property("zero divisor is an arithmetic error", prop.ForAll(
		func(a int64) bool {
			_, divErr := Div(Numb(a), Numb(0))
			_, modErr := Mod(Numb(a), Numb(0))
			d, ok1 := divErr.(*Error)
			m, ok2 := modErr.(*Error)
			return ok1 && ok2 && d.Kind == Arithmetic && m.Kind == Arithmetic
		},
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: any arithmetic involving a real operand yields a real.
func TestProperty_MixedArithmeticIsReal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	ops := []BinaryFunc{Add, Sub, Mul, Pow}

	properties.Property("numb op real is real", prop.ForAll(
		func(a int64, b float64, i int) bool {
			got, err := ops[i](Numb(a), Real(b))
			return err == nil && got.Is(KindReal)
		},
		gen.Int64Range(-1000, 1000),
		gen.Float64Range(-100, 100),
		gen.IntRange(0, len(ops)-1),
	))

	properties.Property("real op numb is real", prop.ForAll(
		func(a float64, b int64, i int) bool {
			got, err := ops[i](Real(a), Numb(b))
			return err == nil && got.Is(KindReal)
		},
		gen.Float64Range(-100, 100),
		gen.Int64Range(-10, 10),
		gen.IntRange(0, len(ops)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: none is equal only to none, and equality with none never fails.
func TestProperty_NoneEquality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("none == x is false for any non-none x", prop.ForAll(
		func(n int64, s string, b bool) bool {
			for _, v := range []Value{Numb(n), Text(s), Bool(b), Real(float64(n)), Char(rune(n & 0x7f))} {
				eq, err := Equal(None(), v)
				if err != nil || eq != Bool(false) {
					return false
				}
				ne, err := NotEqual(v, None())
				if err != nil || ne != Bool(true) {
					return false
				}
			}
			eq, err := Equal(None(), None())
			return err == nil && eq == Bool(true)
		},
		gen.Int64(),
		gen.AnyString(),
		gen.Bool(),
	))

	properties.Property("text compared with numb is a type error", prop.ForAll(
		func(s string, n int64) bool {
			_, err := Equal(Text(s), Numb(n))
			return IsTypeError(err)
		},
		gen.AnyString(),
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: unary operators reject the wrong kinds.
func TestProperty_UnaryKinds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("! on non-bool is a type error", prop.ForAll(
		func(n int64, s string) bool {
			_, e1 := Not(Numb(n))
			_, e2 := Not(Text(s))
			_, e3 := Not(None())
			return IsTypeError(e1) && IsTypeError(e2) && IsTypeError(e3)
		},
		gen.Int64(),
		gen.AnyString(),
	))

	properties.Property("- on bool is a type error", prop.ForAll(
		func(b bool) bool {
			_, err := Neg(Bool(b))
			return IsTypeError(err)
		},
		gen.Bool(),
	))

	properties.Property("double negation is identity for numb", prop.ForAll(
		func(n int64) bool {
			once, err := Neg(Numb(n))
			if err != nil {
				return false
			}
			twice, err := Neg(once)
			return err == nil && twice == Numb(n)
		},
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
