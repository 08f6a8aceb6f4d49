// Package parser builds Funk syntax trees by recursive descent.
package parser

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/edwingeng/deque"
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/logger"
	"github.com/zurustar/funk/pkg/value"
)

// ArgsName is the variable that receives the script arguments.
const ArgsName = "ARGS"

// Parser parses a token sequence into an *ast.Program. Parsing stops at
// the first error.
type Parser struct {
	tokens deque.Deque // tokens not yet looked at
	file   string
	args   []string
	log    *slog.Logger

	prevToken token.Token
	curToken  token.Token
	peekToken token.Token

	incomplete bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithArgs makes the parsed program start with a declaration of ARGS
// holding args. Without arguments no declaration is added, so a script
// may declare ARGS itself.
func WithArgs(args []string) Option {
	return func(p *Parser) {
		p.args = args
	}
}

// WithLogger sets the logger for parse diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// New creates a parser over tokens, normally the output of
// lexer.Tokenize. Comment tokens are skipped.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		tokens: deque.NewDeque(),
		log:    logger.GetLogger(),
	}
	for _, tok := range tokens {
		if tok.Type == token.COMMENT {
			continue
		}
		p.tokens.PushBack(tok)
	}
	if len(tokens) > 0 {
		p.file = tokens[0].Pos.File
	}
	for _, opt := range opts {
		opt(p)
	}

	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Incomplete reports whether the last parse failed because the input
// ended early. An interactive reader can ask for more input then.
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

// ParseProgram parses statements until end of input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{File: p.file}
	if len(p.args) > 0 {
		program.Statements = append(program.Statements, p.argsDeclaration())
	}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	p.log.Debug("Parsed program", "file", p.file, "statements", len(program.Statements))
	return program, nil
}

// argsDeclaration builds `mut text ARGS = [ ... ];`.
func (p *Parser) argsDeclaration() *ast.Declaration {
	pos := token.Position{File: p.file}
	list := &ast.List{Token: token.Token{Type: token.LBRACKET, Literal: "[", Pos: pos}}
	for _, arg := range p.args {
		list.Elements = append(list.Elements, &ast.Literal{
			Token: token.Token{Type: token.TEXT, Literal: fmt.Sprintf("%q", arg), Value: value.Text(arg), Pos: pos},
			Value: value.Text(arg),
		})
	}
	return &ast.Declaration{
		Token:   token.Token{Type: token.TEXT_TYPE, Literal: "text", Pos: pos},
		Mutable: true,
		Type:    value.KindText,
		Name:    ArgsName,
		Value:   list,
	}
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.curToken.Type {
	case token.SEMICOLON:
		tok := p.nextToken()
		return &ast.Literal{Token: tok, Value: value.None()}, nil
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.INCLUDE:
		return p.parseIncludeStatement()
	case token.MUT, token.FUNK:
		return p.parseDeclaration()
	}
	if p.curToken.Type.IsType() {
		return p.parseDeclaration()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseDeclaration parses `[mut] type name [= expr];` and
// `[mut] funk name = (...) {...}`.
func (p *Parser) parseDeclaration() (ast.Node, error) {
	mutable := false
	if p.curTokenIs(token.MUT) {
		mutable = true
		p.nextToken()
	}

	if p.curTokenIs(token.FUNK) {
		return p.parseFunctionDeclaration(mutable)
	}

	kind, ok := p.curToken.Type.Kind()
	if !ok {
		return nil, p.errorf(p.curToken.Pos, "Expected type or 'funk' after 'mut', got %s", describe(p.curToken))
	}
	typeTok := p.nextToken()

	nameTok, err := p.expect(token.IDENT, "Expected identifier after type '%s'", typeTok.Literal)
	if err != nil {
		return nil, err
	}

	decl := &ast.Declaration{Token: typeTok, Mutable: mutable, Type: kind, Name: nameTok.Literal}
	if p.curTokenIs(token.ASSIGN) {
		p.nextToken()
		if decl.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	p.log.Debug("Parsed declaration", "name", decl.Name, "type", kind.String(), "line", typeTok.Pos.Line)
	return decl, nil
}

func (p *Parser) parseFunctionDeclaration(mutable bool) (ast.Node, error) {
	p.nextToken() // funk

	nameTok, err := p.expect(token.IDENT, "Expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "Expected '=' after function name"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "Expected '('"); err != nil {
		return nil, err
	}

	fn := &ast.Function{Token: nameTok, Mutable: mutable, Name: nameTok.Literal}
	if p.atPattern() {
		if fn.Patterns, err = p.parsePatterns(); err != nil {
			return nil, err
		}
	} else if fn.Params, err = p.parseParameters(); err != nil {
		return nil, err
	}

	if fn.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}

	p.log.Debug("Parsed function", "name", fn.Name, "arity", fn.Arity(), "pattern", fn.IsPattern())
	return fn, nil
}

// atPattern reports whether the parameter list starts with a literal.
func (p *Parser) atPattern() bool {
	if p.curToken.Type.IsLiteral() {
		return true
	}
	return p.curTokenIs(token.MINUS) && (p.peekTokenIs(token.NUMB) || p.peekTokenIs(token.REAL))
}

func (p *Parser) parsePatterns() ([]*ast.Literal, error) {
	patterns := []*ast.Literal{}
	for {
		lit, err := p.parsePatternLiteral()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, lit)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(token.RPAREN, "Expected ')' after pattern"); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (p *Parser) parsePatternLiteral() (*ast.Literal, error) {
	if p.curTokenIs(token.MINUS) && (p.peekTokenIs(token.NUMB) || p.peekTokenIs(token.REAL)) {
		minus := p.nextToken()
		tok := p.nextToken()
		v, err := value.Neg(tok.Value)
		if err != nil {
			return nil, funkerr.At(err, tok.Pos)
		}
		tok.Literal = "-" + tok.Literal
		tok.Pos = minus.Pos
		return &ast.Literal{Token: tok, Value: v}, nil
	}
	if !p.curToken.Type.IsLiteral() {
		return nil, p.errorf(p.curToken.Pos, "Expected literal pattern, got %s", describe(p.curToken))
	}
	tok := p.nextToken()
	return &ast.Literal{Token: tok, Value: tok.Value}, nil
}

func (p *Parser) parseParameters() ([]*ast.Param, error) {
	params := []*ast.Param{}
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return params, nil
	}
	for {
		kind, ok := p.curToken.Type.Kind()
		if !ok {
			return nil, p.errorf(p.curToken.Pos, "Expected parameter type")
		}
		p.nextToken()
		nameTok, err := p.expect(token.IDENT, "Expected parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Token: nameTok, Type: kind, Name: nameTok.Literal})
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(token.RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE, "Expected '{'")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Token: lbrace, Statements: []ast.Node{}}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.expect(token.RBRACE, "Expected '}'"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIfStatement() (ast.Node, error) {
	stmt := &ast.If{Token: p.nextToken()}

	if _, err := p.expect(token.LPAREN, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond
	if _, err := p.expect(token.RPAREN, "Expected ')' after condition"); err != nil {
		return nil, err
	}
	if stmt.Consequence, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.ELSE) {
		return stmt, nil
	}
	p.nextToken()
	if p.curTokenIs(token.IF) {
		stmt.Alternative, err = p.parseIfStatement()
	} else {
		stmt.Alternative, err = p.parseBlock()
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Node, error) {
	stmt := &ast.While{Token: p.nextToken()}

	if _, err := p.expect(token.LPAREN, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond
	if _, err := p.expect(token.RPAREN, "Expected ')' after condition"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseReturnStatement() (ast.Node, error) {
	stmt := &ast.Return{Token: p.nextToken()}
	if !p.curTokenIs(token.SEMICOLON) {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = v
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseIncludeStatement() (ast.Node, error) {
	stmt := &ast.Include{Token: p.nextToken()}
	switch p.curToken.Type {
	case token.IDENT:
		stmt.Target = p.curToken.Literal
	case token.TEXT:
		stmt.Target = p.curToken.Value.String()
	default:
		return nil, p.errorf(p.curToken.Pos, "Expected name after 'include'")
	}
	p.nextToken()
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) nextToken() token.Token {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if p.tokens.Empty() {
		p.peekToken = token.Token{Type: token.EOF, Pos: p.curToken.Pos}
	} else {
		p.peekToken = p.tokens.PopFront().(token.Token)
	}
	return p.prevToken
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has type t and fails with the
// formatted message otherwise.
func (p *Parser) expect(t token.TokenType, format string, args ...any) (token.Token, error) {
	if !p.curTokenIs(t) {
		return token.Token{}, p.errorf(p.curToken.Pos, format, args...)
	}
	return p.nextToken(), nil
}

// expectSemicolon requires a ';' and reports a missing one right after
// the previous token.
func (p *Parser) expectSemicolon() error {
	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
		return nil
	}
	pos := p.prevToken.Pos
	pos.Column += utf8.RuneCountInString(p.prevToken.Literal)
	return p.errorf(pos, "Expected ';'")
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) error {
	p.incomplete = p.curTokenIs(token.EOF)
	return funkerr.Syntaxf(pos, format, args...)
}

// describe names a token for error messages.
func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	if tok.Literal != "" {
		return "'" + tok.Literal + "'"
	}
	return string(tok.Type)
}
