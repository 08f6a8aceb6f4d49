package value

import (
	"math"
	"testing"
)

func TestCast(t *testing.T) {
	tests := []struct {
		name    string
		in      Value
		to      Kind
		want    Value
		wantErr bool
	}{
		{"numb to text", Numb(42), KindText, Text("42"), false},
		{"real to text", Real(2.5), KindText, Text("2.5"), false},
		{"integral real to text", Real(3), KindText, Text("3.0"), false},
		{"bool to text", Bool(true), KindText, Text("true"), false},
		{"char to text", Char('x'), KindText, Text("x"), false},
		{"none to text", None(), KindText, Text("none"), false},
		{"real to numb truncates", Real(-2.9), KindNumb, Numb(-2), false},
		{"bool to numb", Bool(true), KindNumb, Numb(1), false},
		{"char to numb", Char('A'), KindNumb, Numb(65), false},
		{"text to numb", Text("12"), KindNumb, Value{}, true},
		{"none to numb", None(), KindNumb, Value{}, true},
		{"numb to real", Numb(7), KindReal, Real(7), false},
		{"bool to real", Bool(false), KindReal, Real(0), false},
		{"char to real", Char('a'), KindReal, Real(97), false},
		{"text to real", Text("1.5"), KindReal, Value{}, true},
		{"numb zero to bool", Numb(0), KindBool, Bool(false), false},
		{"real to bool", Real(0.1), KindBool, Bool(true), false},
		{"char nul to bool", Char(0), KindBool, Bool(false), false},
		{"empty text to bool", Text(""), KindBool, Bool(false), false},
		{"text to bool", Text("no"), KindBool, Bool(true), false},
		{"none to bool", None(), KindBool, Bool(false), false},
		{"numb to char", Numb(66), KindChar, Char('B'), false},
		{"real to char", Real(66), KindChar, Value{}, true},
		{"text to char", Text("B"), KindChar, Value{}, true},
		{"none to none", None(), KindNone, None(), false},
		{"numb to none", Numb(1), KindNone, Value{}, true},
		{"same kind", Text("a"), KindText, Text("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Cast(tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Cast(%#v, %s) expected error, got %#v", tt.in, tt.to, got)
				}
				if !IsTypeError(err) {
					t.Errorf("expected type error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Cast(%#v, %s) unexpected error: %v", tt.in, tt.to, err)
			}
			if got != tt.want {
				t.Errorf("Cast(%#v, %s) = %#v, want %#v", tt.in, tt.to, got, tt.want)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	if n, err := Numb(3).AsNumb(); err != nil || n != 3 {
		t.Errorf("AsNumb() = %d, %v", n, err)
	}
	if _, err := Real(3).AsNumb(); err == nil {
		t.Error("AsNumb() on real should fail")
	}
	if s, err := Text("hi").AsText(); err != nil || s != "hi" {
		t.Errorf("AsText() = %q, %v", s, err)
	}
	if _, err := Char('h').AsText(); err == nil {
		t.Error("AsText() on char should fail")
	}
	if !None().Is(KindNone) || Numb(0).Is(KindNone) {
		t.Error("Is(KindNone) mismatch")
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   BinaryFunc
		a, b Value
		want Value
	}{
		{"numb add", Add, Numb(2), Numb(3), Numb(5)},
		{"mixed add", Add, Numb(2), Real(0.5), Real(2.5)},
		{"text concat", Add, Text("foo"), Text("bar"), Text("foobar")},
		{"numb sub", Sub, Numb(2), Numb(5), Numb(-3)},
		{"real mul", Mul, Real(1.5), Real(2), Real(3)},
		{"numb div truncates", Div, Numb(7), Numb(2), Numb(3)},
		{"negative numb div", Div, Numb(-7), Numb(2), Numb(-3)},
		{"real div", Div, Numb(7), Real(2), Real(3.5)},
		{"mod", Mod, Numb(7), Numb(3), Numb(1)},
		{"negative mod", Mod, Numb(-7), Numb(3), Numb(-1)},
		{"numb pow", Pow, Numb(2), Numb(10), Numb(1024)},
		{"negative exponent", Pow, Numb(2), Numb(-1), Numb(0)},
		{"real pow", Pow, Real(4), Real(0.5), Real(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		name     string
		op       BinaryFunc
		a, b     Value
		wantKind ErrorKind
		wantMsg  string
	}{
		{"division by numb zero", Div, Numb(10), Numb(0), Arithmetic, "Division by zero"},
		{"division by real zero", Div, Real(1), Real(0), Arithmetic, "Division by zero"},
		{"zero divisor checked before types", Div, Text("a"), Numb(0), Arithmetic, "Division by zero"},
		{"modulo by zero", Mod, Numb(10), Numb(0), Arithmetic, "Modulo by zero"},
		{"modulo on real", Mod, Real(10), Numb(3), TypeMismatch, "Modulo operation requires integer operands"},
		{"text plus numb", Add, Text("a"), Numb(1), TypeMismatch, "Cannot apply '+' to text and numb"},
		{"bool times numb", Mul, Bool(true), Numb(1), TypeMismatch, "Cannot apply '*' to bool and numb"},
		{"text minus text", Sub, Text("a"), Text("b"), TypeMismatch, "Cannot apply '-' to text and text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op(tt.a, tt.b)
			if err == nil {
				t.Fatal("expected error")
			}
			verr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", verr.Kind, tt.wantKind)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", verr.Message, tt.wantMsg)
			}
		})
	}
}

func TestComparison(t *testing.T) {
	tests := []struct {
		name    string
		op      BinaryFunc
		a, b    Value
		want    bool
		wantErr bool
	}{
		{"none equals none", Equal, None(), None(), true, false},
		{"none not equal numb", Equal, None(), Numb(0), false, false},
		{"text not equal none", Equal, Text(""), None(), false, false},
		{"none != none", NotEqual, None(), None(), false, false},
		{"none != numb", NotEqual, None(), Numb(1), true, false},
		{"numb equals real", Equal, Numb(2), Real(2), true, false},
		{"text equality", Equal, Text("a"), Text("a"), true, false},
		{"char less", Less, Char('a'), Char('b'), true, false},
		{"text order", Greater, Text("b"), Text("a"), true, false},
		{"mixed numeric", LessEqual, Numb(2), Real(2.5), true, false},
		{"bool order", GreaterEqual, Bool(true), Bool(false), true, false},
		{"text vs numb", Equal, Text("1"), Numb(1), false, true},
		{"char vs numb", Less, Char('a'), Numb(1), false, true},
		{"bool vs text", NotEqual, Bool(true), Text("true"), false, true},
		{"and", And, Bool(true), Bool(false), false, false},
		{"or", Or, Bool(true), Bool(false), true, false},
		{"and on numbs", And, Numb(1), Numb(2), true, false},
		{"or with mismatched kinds", Or, Bool(true), Numb(1), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", got)
				}
				if !IsTypeError(err) {
					t.Errorf("expected type error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != Bool(tt.want) {
				t.Errorf("got %#v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnary(t *testing.T) {
	if v, err := Neg(Numb(3)); err != nil || v != Numb(-3) {
		t.Errorf("Neg(3) = %#v, %v", v, err)
	}
	if v, err := Neg(Real(1.5)); err != nil || v != Real(-1.5) {
		t.Errorf("Neg(1.5) = %#v, %v", v, err)
	}
	if _, err := Neg(Bool(true)); err == nil || err.Error() != "Cannot negate non-numeric value" {
		t.Errorf("Neg(true) error = %v", err)
	}
	if v, err := Not(Bool(false)); err != nil || v != Bool(true) {
		t.Errorf("Not(false) = %#v, %v", v, err)
	}
	if _, err := Not(Numb(0)); err == nil || err.Error() != "Cannot apply logical NOT to non-boolean value" {
		t.Errorf("Not(0) error = %v", err)
	}
}

func TestMatches(t *testing.T) {
	if !Matches(Numb(0), Numb(0)) {
		t.Error("0 should match 0")
	}
	if Matches(Numb(0), Numb(1)) {
		t.Error("0 should not match 1")
	}
	if Matches(Numb(0), Text("0")) {
		t.Error("incomparable kinds should not match")
	}
	if !Matches(Text("a"), Text("a")) {
		t.Error("text pattern should match")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Numb(-12), "-12"},
		{Real(0.1), "0.1"},
		{Real(1e21), "1000000000000000000000.0"},
		{Real(math.Inf(1)), "+Inf"},
		{Bool(false), "false"},
		{Char('é'), "é"},
		{Text("hi"), "hi"},
		{None(), "none"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := Text("a\"b").Literal(); got != `"a\"b"` {
		t.Errorf("Literal() = %s", got)
	}
	if got := Char('c').Literal(); got != `'c'` {
		t.Errorf("Literal() = %s", got)
	}
}
