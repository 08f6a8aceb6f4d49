// Package value implements the runtime values of Funk programs: a tagged
// union over none, numb, real, bool, char and text, the coercion table
// between them and the operator rules.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the active variant of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindNumb
	KindReal
	KindBool
	KindChar
	KindText
)

var kindNames = map[Kind]string{
	KindNone: "none",
	KindNumb: "numb",
	KindReal: "real",
	KindBool: "bool",
	KindChar: "char",
	KindText: "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is an immutable tagged value. The zero Value is none.
type Value struct {
	kind Kind
	n    int64
	r    float64
	b    bool
	c    rune
	s    string
}

// None returns the absent value.
func None() Value { return Value{} }

// Numb wraps an integer.
func Numb(n int64) Value { return Value{kind: KindNumb, n: n} }

// Real wraps a floating point number.
func Real(r float64) Value { return Value{kind: KindReal, r: r} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Char wraps a single character.
func Char(c rune) Value { return Value{kind: KindChar, c: c} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is none.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Is reports whether v currently holds the given kind.
func (v Value) Is(k Kind) bool {
	return v.kind == k
}

// IsNumeric reports whether v is a numb or a real.
func (v Value) IsNumeric() bool {
	return v.kind == KindNumb || v.kind == KindReal
}

func (v Value) wrongKind(want Kind) error {
	return typeErrorf("Expected %s value, got %s", want, v.kind)
}

// AsNumb returns the integer payload. It fails unless v is exactly a numb.
func (v Value) AsNumb() (int64, error) {
	if v.kind != KindNumb {
		return 0, v.wrongKind(KindNumb)
	}
	return v.n, nil
}

// AsReal returns the float payload of a real.
func (v Value) AsReal() (float64, error) {
	if v.kind != KindReal {
		return 0, v.wrongKind(KindReal)
	}
	return v.r, nil
}

// AsBool returns the payload of a bool.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.wrongKind(KindBool)
	}
	return v.b, nil
}

// AsChar returns the payload of a char.
func (v Value) AsChar() (rune, error) {
	if v.kind != KindChar {
		return 0, v.wrongKind(KindChar)
	}
	return v.c, nil
}

// AsText returns the payload of a text.
func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", v.wrongKind(KindText)
	}
	return v.s, nil
}

// Cast converts v to the requested kind following the coercion table.
// Casting a value to its own kind returns it unchanged.
func (v Value) Cast(k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}
	switch k {
	case KindText:
		return Text(v.String()), nil
	case KindNumb:
		switch v.kind {
		case KindReal:
			return Numb(int64(v.r)), nil
		case KindBool:
			return Numb(boolToInt(v.b)), nil
		case KindChar:
			return Numb(int64(v.c)), nil
		}
	case KindReal:
		switch v.kind {
		case KindNumb:
			return Real(float64(v.n)), nil
		case KindBool:
			return Real(float64(boolToInt(v.b))), nil
		case KindChar:
			return Real(float64(v.c)), nil
		}
	case KindBool:
		return Bool(v.Truthy()), nil
	case KindChar:
		if v.kind == KindNumb {
			return Char(rune(v.n)), nil
		}
	}
	return Value{}, typeErrorf("Cannot cast %s to %s", v.kind, k)
}

// Truthy is the bool coercion of v: numbers and chars are true when
// nonzero, text when nonempty, none is always false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumb:
		return v.n != 0
	case KindReal:
		return v.r != 0
	case KindBool:
		return v.b
	case KindChar:
		return v.c != 0
	case KindText:
		return v.s != ""
	}
	return false
}

// String is the text coercion of v.
func (v Value) String() string {
	switch v.kind {
	case KindNumb:
		return strconv.FormatInt(v.n, 10)
	case KindReal:
		return formatReal(v.r)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindChar:
		return string(v.c)
	case KindText:
		return v.s
	}
	return "none"
}

// Literal renders v the way it would be written in source code.
func (v Value) Literal() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.s)
	case KindChar:
		return strconv.QuoteRune(v.c)
	}
	return v.String()
}

// GoString supports %#v in test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Literal())
}

// formatReal renders the shortest representation that round-trips, always
// keeping a fractional part so reals stay distinguishable from numbs.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
