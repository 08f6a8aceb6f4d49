// Package token defines the tokens produced by the Funk scanner.
package token

import (
	"fmt"

	"github.com/zurustar/funk/pkg/value"
)

type TokenType string

// Position is a 1-based location in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position points into a source.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "<input>"
	}
	if !p.IsValid() {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
}

type Token struct {
	Type    TokenType
	Literal string      // lexeme as written
	Value   value.Value // literal value, none for everything else
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d\t%-10s %q", t.Pos.Line, t.Pos.Column, t.Type, t.Literal)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	COMMENT = "COMMENT"

	// Identifiers + Literals
	IDENT   = "IDENT"   // fact, ARGS
	NUMB    = "NUMB"    // 123
	REAL    = "REAL"    // 1.5
	TEXT    = "TEXT"    // "abc"
	CHAR    = "CHAR"    // 'a'
	BOOLEAN = "BOOLEAN" // true, false

	// Operators
	ASSIGN       = "="
	PLUS_ASSIGN  = "+="
	MINUS_ASSIGN = "-="
	MULT_ASSIGN  = "*="
	DIV_ASSIGN   = "/="
	PLUS         = "+"
	MINUS        = "-"
	ASTERISK     = "*"
	SLASH        = "/"
	PERCENT      = "%"
	CARET        = "^"
	BANG         = "!"
	EQ           = "=="
	NOT_EQ       = "!="
	LT           = "<"
	GT           = ">"
	LTE          = "<="
	GTE          = ">="
	AND          = "&&"
	OR           = "||"
	PIPE         = ">>"

	// Delimiters
	COMMA     = ","
	DOT       = "."
	SEMICOLON = ";"
	COLON     = ":"
	QUESTION  = "?"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	// Keywords
	FUNK    = "FUNK"
	DATA    = "DATA"
	MUT     = "MUT"
	IF      = "IF"
	ELSE    = "ELSE"
	WHILE   = "WHILE"
	MATCH   = "MATCH"
	CASE    = "CASE"
	NONE    = "NONE"
	RETURN  = "RETURN"
	INCLUDE = "INCLUDE"

	// Type keywords
	NUMB_TYPE = "NUMB_TYPE"
	REAL_TYPE = "REAL_TYPE"
	BOOL_TYPE = "BOOL_TYPE"
	CHAR_TYPE = "CHAR_TYPE"
	TEXT_TYPE = "TEXT_TYPE"
)

var keywords = map[string]TokenType{
	"funk":    FUNK,
	"data":    DATA,
	"mut":     MUT,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"match":   MATCH,
	"case":    CASE,
	"none":    NONE,
	"return":  RETURN,
	"include": INCLUDE,
	"numb":    NUMB_TYPE,
	"real":    REAL_TYPE,
	"bool":    BOOL_TYPE,
	"char":    CHAR_TYPE,
	"text":    TEXT_TYPE,
	"true":    BOOLEAN,
	"false":   BOOLEAN,
}

// LookupIdent returns the keyword type for ident, or IDENT. Keywords are
// case sensitive.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// typeKinds maps type keywords to the value kind they declare.
var typeKinds = map[TokenType]value.Kind{
	NUMB_TYPE: value.KindNumb,
	REAL_TYPE: value.KindReal,
	BOOL_TYPE: value.KindBool,
	CHAR_TYPE: value.KindChar,
	TEXT_TYPE: value.KindText,
}

// IsType reports whether t is one of the type keywords.
func (t TokenType) IsType() bool {
	_, ok := typeKinds[t]
	return ok
}

// Kind returns the value kind named by a type keyword.
func (t TokenType) Kind() (value.Kind, bool) {
	k, ok := typeKinds[t]
	return k, ok
}

// IsLiteral reports whether t carries a literal value.
func (t TokenType) IsLiteral() bool {
	switch t {
	case NUMB, REAL, TEXT, CHAR, BOOLEAN, NONE:
		return true
	}
	return false
}
