package vm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/value"
)

type textMethod func(s string, args []value.Value, pos token.Position) (value.Value, error)

// textMethods are the methods available on text values.
var textMethods = map[string]textMethod{
	// length(): number of characters, not bytes
	"length": func(s string, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("length", args, 0, pos); err != nil {
			return value.None(), err
		}
		return value.Numb(int64(utf8.RuneCountInString(s))), nil
	},
	"upper": func(s string, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("upper", args, 0, pos); err != nil {
			return value.None(), err
		}
		return value.Text(cases.Upper(language.Und).String(s)), nil
	},
	"lower": func(s string, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("lower", args, 0, pos); err != nil {
			return value.None(), err
		}
		return value.Text(cases.Lower(language.Und).String(s)), nil
	},
	"trim": func(s string, args []value.Value, pos token.Position) (value.Value, error) {
		if err := methodArity("trim", args, 0, pos); err != nil {
			return value.None(), err
		}
		return value.Text(strings.TrimSpace(s)), nil
	},
}
