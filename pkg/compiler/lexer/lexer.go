// Package lexer turns Funk source text into tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/value"
)

// Lexer tokenizes Funk source code.
type Lexer struct {
	input        string
	file         string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           rune // current char, 0 at end of input
	line         int  // line of ch
	column       int  // column of ch, counted in runes
	lastError    string
}

// New creates a new Lexer. file is only used for positions.
func New(input, file string) *Lexer {
	l := &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token, EOF at the end of input and ILLEGAL
// for anything that cannot be scanned (see Err).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.pos()
	tok := token.Token{Pos: pos}

	switch l.ch {
	case '=':
		tok = l.either('=', token.EQ, token.ASSIGN)
	case '+':
		tok = l.either('=', token.PLUS_ASSIGN, token.PLUS)
	case '-':
		tok = l.either('=', token.MINUS_ASSIGN, token.MINUS)
	case '*':
		tok = l.either('=', token.MULT_ASSIGN, token.ASTERISK)
	case '/':
		tok = l.either('=', token.DIV_ASSIGN, token.SLASH)
	case '!':
		tok = l.either('=', token.NOT_EQ, token.BANG)
	case '<':
		tok = l.either('=', token.LTE, token.LT)
	case '>':
		if l.peekChar() == '>' {
			tok = l.pair(token.PIPE)
		} else {
			tok = l.either('=', token.GTE, token.GT)
		}
	case '&':
		if l.peekChar() != '&' {
			return l.illegal(pos, "Unexpected character '&'")
		}
		tok = l.pair(token.AND)
	case '|':
		if l.peekChar() != '|' {
			return l.illegal(pos, "Unexpected character '|'")
		}
		tok = l.pair(token.OR)
	case '%':
		tok = l.newToken(token.PERCENT)
	case '^':
		tok = l.newToken(token.CARET)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case ',':
		tok = l.newToken(token.COMMA)
	case '.':
		tok = l.newToken(token.DOT)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case ':':
		tok = l.newToken(token.COLON)
	case '?':
		tok = l.newToken(token.QUESTION)
	case '#':
		return l.readComment(pos)
	case '"':
		return l.readText(pos)
	case '\'':
		return l.readCharLiteral(pos)
	case 0:
		if l.position >= len(l.input) {
			tok.Type = token.EOF
			return tok
		}
		return l.illegal(pos, "Unexpected character '\\0'")
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			tok.Type = token.LookupIdent(literal)
			tok.Literal = literal
			if tok.Type == token.BOOLEAN {
				tok.Value = value.Bool(literal == "true")
			}
			return tok
		} else if isDigit(l.ch) {
			return l.readNumber(pos)
		}
		return l.illegal(pos, "Unexpected character '"+string(l.ch)+"'")
	}

	l.readChar()
	return tok
}

// Tokenize scans the whole input. The returned slice always ends with an
// EOF token unless an error is returned.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, funkerr.Lexerf(tok.Pos, "%s", l.lastError)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += size
	l.column++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	return token.Position{File: l.file, Line: l.line, Column: l.column}
}

// either returns the two-character token when the next char is second,
// the single-character token otherwise. It leaves ch on the last char of
// the token.
func (l *Lexer) either(second rune, double, single token.TokenType) token.Token {
	if l.peekChar() == second {
		return l.pair(double)
	}
	return l.newToken(single)
}

func (l *Lexer) pair(tokenType token.TokenType) token.Token {
	pos := l.pos()
	first := l.ch
	l.readChar()
	return token.Token{Type: tokenType, Literal: string(first) + string(l.ch), Pos: pos}
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a numb or, when a '.' is followed by a digit, a real.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	position := l.position
	isReal := false

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isReal = true
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	literal := l.input[position:l.position]
	if isReal {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return l.illegal(pos, "Invalid real literal "+literal)
		}
		return token.Token{Type: token.REAL, Literal: literal, Value: value.Real(f), Pos: pos}
	}
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return l.illegal(pos, "Number literal out of range "+literal)
	}
	return token.Token{Type: token.NUMB, Literal: literal, Value: value.Numb(n), Pos: pos}
}

// readText reads a double quoted text literal, resolving escapes.
func (l *Lexer) readText(pos token.Position) token.Token {
	start := l.position
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			l.readChar()
			return token.Token{Type: token.TEXT, Literal: l.input[start:l.position], Value: value.Text(sb.String()), Pos: pos}
		case 0:
			if l.position >= len(l.input) {
				return l.illegal(pos, "Unterminated text literal")
			}
		case '\\':
			r, ok := l.readEscape()
			if !ok {
				return l.illegal(l.pos(), "Unknown escape sequence '\\"+string(l.ch)+"'")
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(l.ch)
	}
}

// readCharLiteral reads a single quoted char literal.
func (l *Lexer) readCharLiteral(pos token.Position) token.Token {
	start := l.position
	l.readChar()

	var r rune
	switch l.ch {
	case '\'':
		return l.illegal(pos, "Empty char literal")
	case 0, '\n':
		return l.illegal(pos, "Unterminated char literal")
	case '\\':
		var ok bool
		if r, ok = l.readEscape(); !ok {
			return l.illegal(l.pos(), "Unknown escape sequence '\\"+string(l.ch)+"'")
		}
	default:
		r = l.ch
	}

	l.readChar()
	if l.ch != '\'' {
		return l.illegal(pos, "Unterminated char literal")
	}
	l.readChar()
	return token.Token{Type: token.CHAR, Literal: l.input[start:l.position], Value: value.Char(r), Pos: pos}
}

// readEscape consumes the char after a backslash and returns what it
// stands for.
func (l *Lexer) readEscape() (rune, bool) {
	l.readChar()
	switch l.ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '"', '\'':
		return l.ch, true
	}
	return 0, false
}

// readComment reads a '#' line comment or a '## ... ##' block comment.
func (l *Lexer) readComment(pos token.Position) token.Token {
	position := l.position
	if l.peekChar() == '#' {
		l.readChar()
		l.readChar()
		for {
			if l.ch == 0 && l.position >= len(l.input) {
				return l.illegal(pos, "Unterminated block comment")
			}
			if l.ch == '#' && l.peekChar() == '#' {
				l.readChar()
				l.readChar()
				break
			}
			l.readChar()
		}
	} else {
		for l.ch != '\n' && !(l.ch == 0 && l.position >= len(l.input)) {
			l.readChar()
		}
	}
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	return token.Token{Type: token.COMMENT, Literal: l.input[position:end], Pos: pos}
}

// skipWhitespace skips whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// newToken creates a single-character token for the current char.
func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	return token.Token{Type: tokenType, Literal: string(l.ch), Pos: l.pos()}
}

func (l *Lexer) illegal(pos token.Position, msg string) token.Token {
	l.lastError = msg
	lit := ""
	if l.ch != 0 {
		lit = string(l.ch)
	}
	return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
