package parser

import (
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/value"
)

// Binary operator levels, lowest precedence first. Each level folds left
// to right over the next one.
var (
	logicalOrOps      = []token.TokenType{token.OR}
	logicalAndOps     = []token.TokenType{token.AND}
	equalityOps       = []token.TokenType{token.EQ, token.NOT_EQ}
	comparisonOps     = []token.TokenType{token.LT, token.LTE, token.GT, token.GTE}
	additiveOps       = []token.TokenType{token.PLUS, token.MINUS}
	multiplicativeOps = []token.TokenType{token.ASTERISK, token.SLASH, token.PERCENT, token.CARET}
)

var assignOps = map[token.TokenType]bool{
	token.ASSIGN:       true,
	token.PLUS_ASSIGN:  true,
	token.MINUS_ASSIGN: true,
	token.MULT_ASSIGN:  true,
	token.DIV_ASSIGN:   true,
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

// parseAssignment is right associative: a = b = c assigns c to b first.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	expr, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if !assignOps[p.curToken.Type] {
		return expr, nil
	}

	opTok := p.nextToken()
	target, ok := expr.(*ast.Variable)
	if !ok {
		return nil, p.errorf(opTok.Pos, "Invalid assignment target %s", expr.String())
	}
	rhs, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Token: opTok, Target: target, Operator: opTok.Type, Value: rhs}, nil
}

// parsePipe parses `source >> f(args)` and `source >> f`, chaining left
// to right.
func (p *Parser) parsePipe() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	for p.curTokenIs(token.PIPE) {
		pipeTok := p.nextToken()
		nameTok, err := p.expect(token.IDENT, "Expected function or function call after pipe operator")
		if err != nil {
			return nil, err
		}

		var target ast.Expression = &ast.Variable{Token: nameTok, Name: nameTok.Literal}
		if p.curTokenIs(token.LPAREN) {
			p.nextToken()
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			target = &ast.Call{Token: nameTok, Name: nameTok.Literal, Arguments: args}
		}
		left = &ast.Pipe{Token: pipeTok, Source: left, Target: target}
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	return p.parseBinary(p.parseLogicalAnd, logicalOrOps)
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	return p.parseBinary(p.parseEquality, logicalAndOps)
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinary(p.parseComparison, equalityOps)
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	return p.parseBinary(p.parseAdditive, comparisonOps)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinary(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinary(p.parseUnary, multiplicativeOps)
}

func (p *Parser) parseBinary(next func() (ast.Expression, error), ops []token.TokenType) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.curTokenIn(ops) {
		opTok := p.nextToken()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Token: opTok, Left: left, Operator: opTok.Type, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.curTokenIs(token.MINUS) || p.curTokenIs(token.BANG) {
		opTok := p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Token: opTok, Operator: opTok.Type, Right: right}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any number of method calls.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(token.DOT) {
		p.nextToken()
		nameTok, err := p.expect(token.IDENT, "Expected method name after '.'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN, "Expected '(' after method name"); err != nil {
			return nil, err
		}
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		expr = &ast.MethodCall{Token: nameTok, Receiver: expr, Method: nameTok.Literal, Arguments: args}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.IDENT:
		tok := p.nextToken()
		if !p.curTokenIs(token.LPAREN) {
			return &ast.Variable{Token: tok, Name: tok.Literal}, nil
		}
		p.nextToken()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.Call{Token: tok, Name: tok.Literal, Arguments: args}, nil

	case token.NUMB, token.REAL, token.TEXT, token.CHAR, token.BOOLEAN, token.NONE:
		tok := p.nextToken()
		return &ast.Literal{Token: tok, Value: tok.Value}, nil

	case token.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "Expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.LBRACKET:
		return p.parseList()
	}
	return nil, p.errorf(p.curToken.Pos, "Expected expression, got %s", describe(p.curToken))
}

// parseArguments parses a comma separated argument list. The opening '('
// has been consumed.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	args := []ast.Expression{}
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(token.RPAREN, "Expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseList parses `[e1, e2, ...]`. Literal elements must all be of the
// same kind.
func (p *Parser) parseList() (ast.Expression, error) {
	list := &ast.List{Token: p.nextToken(), Elements: []ast.Expression{}}

	first := value.KindNone
	seen := false
	for !p.curTokenIs(token.RBRACKET) {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if lit, ok := elem.(*ast.Literal); ok {
			if !seen {
				first, seen = lit.Value.Kind(), true
			} else if lit.Value.Kind() != first {
				return nil, p.errorf(lit.Pos(), "Inconsistent list types")
			}
		}
		list.Elements = append(list.Elements, elem)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(token.RBRACKET, "Expected ']'"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) curTokenIn(types []token.TokenType) bool {
	for _, t := range types {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}
