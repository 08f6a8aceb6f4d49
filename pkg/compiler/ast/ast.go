// Package ast defines the syntax tree produced by the Funk parser.
//
// The node set is closed: every node implements the unexported node method,
// so the evaluator can switch over the concrete types exhaustively.
package ast

import (
	"bytes"
	"strings"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/value"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
	String() string
	node()
}

// Expression is a node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node.
type Program struct {
	File       string
	Statements []Node
}

func (p *Program) node() {}
func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{File: p.File}
}
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(statementString(s))
		out.WriteString("\n")
	}
	return out.String()
}

// Block is a braced statement sequence.
type Block struct {
	Token      token.Token // '{'
	Statements []Node
}

func (b *Block) node()               {}
func (b *Block) Pos() token.Position { return b.Token.Pos }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(statementString(s))
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// NeedsScope reports whether the block declares names of its own.
func (b *Block) NeedsScope() bool {
	for _, s := range b.Statements {
		switch s.(type) {
		case *Declaration, *Function:
			return true
		}
	}
	return false
}

// Literal is a constant value written in the source.
type Literal struct {
	Token token.Token
	Value value.Value
}

func (l *Literal) node()               {}
func (l *Literal) expressionNode()     {}
func (l *Literal) Pos() token.Position { return l.Token.Pos }
func (l *Literal) String() string      { return l.Value.Literal() }

// Variable is a reference to a bound name.
type Variable struct {
	Token token.Token // token.IDENT
	Name  string
}

func (v *Variable) node()               {}
func (v *Variable) expressionNode()     {}
func (v *Variable) Pos() token.Position { return v.Token.Pos }
func (v *Variable) String() string      { return v.Name }

// Unary is a prefix operation: -x or !x.
type Unary struct {
	Token    token.Token // the operator
	Operator token.TokenType
	Right    Expression
}

func (u *Unary) node()               {}
func (u *Unary) expressionNode()     {}
func (u *Unary) Pos() token.Position { return u.Token.Pos }
func (u *Unary) String() string {
	return "(" + u.Token.Literal + u.Right.String() + ")"
}

// Binary is an infix operation.
type Binary struct {
	Token    token.Token // the operator
	Left     Expression
	Operator token.TokenType
	Right    Expression
}

func (b *Binary) node()               {}
func (b *Binary) expressionNode()     {}
func (b *Binary) Pos() token.Position { return b.Token.Pos }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Token.Literal + " " + b.Right.String() + ")"
}

// Assign stores into an existing variable. Operator is ASSIGN or one of
// the compound assignment operators.
type Assign struct {
	Token    token.Token // the operator
	Target   *Variable
	Operator token.TokenType
	Value    Expression
}

func (a *Assign) node()               {}
func (a *Assign) expressionNode()     {}
func (a *Assign) Pos() token.Position { return a.Token.Pos }
func (a *Assign) String() string {
	return a.Target.String() + " " + a.Token.Literal + " " + a.Value.String()
}

// Call invokes a function by name.
type Call struct {
	Token     token.Token // the function name
	Name      string
	Arguments []Expression
}

func (c *Call) node()               {}
func (c *Call) expressionNode()     {}
func (c *Call) Pos() token.Position { return c.Token.Pos }
func (c *Call) String() string {
	return c.Name + "(" + joinExpressions(c.Arguments) + ")"
}

// MethodCall invokes a method on the value of Receiver.
type MethodCall struct {
	Token     token.Token // the method name
	Receiver  Expression
	Method    string
	Arguments []Expression
}

func (m *MethodCall) node()               {}
func (m *MethodCall) expressionNode()     {}
func (m *MethodCall) Pos() token.Position { return m.Token.Pos }
func (m *MethodCall) String() string {
	return m.Receiver.String() + "." + m.Method + "(" + joinExpressions(m.Arguments) + ")"
}

// List is a bracketed list literal.
type List struct {
	Token    token.Token // '['
	Elements []Expression
}

func (l *List) node()               {}
func (l *List) expressionNode()     {}
func (l *List) Pos() token.Position { return l.Token.Pos }
func (l *List) String() string {
	if len(l.Elements) == 0 {
		return "[ ]"
	}
	return "[ " + joinExpressions(l.Elements) + " ]"
}

// Pipe feeds Source into Target, which is a *Call or a *Variable naming a
// function.
type Pipe struct {
	Token  token.Token // '>>'
	Source Expression
	Target Expression
}

func (p *Pipe) node()               {}
func (p *Pipe) expressionNode()     {}
func (p *Pipe) Pos() token.Position { return p.Token.Pos }
func (p *Pipe) String() string {
	return "(" + p.Source.String() + " >> " + p.Target.String() + ")"
}

// Declaration introduces a typed variable in the current scope.
type Declaration struct {
	Token   token.Token // the type keyword
	Mutable bool
	Type    value.Kind
	Name    string
	Value   Expression // nil when uninitialised
}

func (d *Declaration) node()               {}
func (d *Declaration) Pos() token.Position { return d.Token.Pos }
func (d *Declaration) String() string {
	var out bytes.Buffer
	if d.Mutable {
		out.WriteString("mut ")
	}
	out.WriteString(d.Type.String())
	out.WriteString(" ")
	out.WriteString(d.Name)
	if d.Value != nil {
		out.WriteString(" = ")
		out.WriteString(d.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// Param is a typed parameter of a regular function.
type Param struct {
	Token token.Token // the parameter name
	Type  value.Kind
	Name  string
}

func (p *Param) String() string { return p.Type.String() + " " + p.Name }

// Function declares a function overload. Exactly one of Params and
// Patterns is used: a pattern function matches its arguments against
// literal values and binds nothing.
type Function struct {
	Token    token.Token // the function name
	Mutable  bool
	Name     string
	Params   []*Param
	Patterns []*Literal
	Body     *Block
}

func (f *Function) node()               {}
func (f *Function) Pos() token.Position { return f.Token.Pos }

// IsPattern reports whether the function dispatches on literal arguments.
func (f *Function) IsPattern() bool { return f.Patterns != nil }

// Arity is the number of arguments the function accepts.
func (f *Function) Arity() int {
	if f.IsPattern() {
		return len(f.Patterns)
	}
	return len(f.Params)
}

func (f *Function) String() string {
	var out bytes.Buffer
	if f.Mutable {
		out.WriteString("mut ")
	}
	out.WriteString("funk ")
	out.WriteString(f.Name)
	out.WriteString(" = (")
	parts := []string{}
	if f.IsPattern() {
		for _, p := range f.Patterns {
			parts = append(parts, p.String())
		}
	} else {
		for _, p := range f.Params {
			parts = append(parts, p.String())
		}
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// If is a conditional. Alternative is nil, a *Block or an *If.
type If struct {
	Token       token.Token
	Condition   Expression
	Consequence *Block
	Alternative Node
}

func (i *If) node()               {}
func (i *If) Pos() token.Position { return i.Token.Pos }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(i.Condition.String())
	out.WriteString(") ")
	out.WriteString(i.Consequence.String())
	if i.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternative.String())
	}
	return out.String()
}

type While struct {
	Token     token.Token
	Condition Expression
	Body      *Block
}

func (w *While) node()               {}
func (w *While) Pos() token.Position { return w.Token.Pos }
func (w *While) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

// Return leaves the enclosing function. Value is nil for a bare return.
type Return struct {
	Token token.Token
	Value Expression
}

func (r *Return) node()               {}
func (r *Return) Pos() token.Position { return r.Token.Pos }
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// Include names another source to pull in. It is parsed but not resolved.
type Include struct {
	Token  token.Token
	Target string
}

func (i *Include) node()               {}
func (i *Include) Pos() token.Position { return i.Token.Pos }
func (i *Include) String() string      { return "include " + i.Target + ";" }

func joinExpressions(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// statementString renders a node in statement position, adding the ';'
// that expression statements are written with.
func statementString(n Node) string {
	if _, ok := n.(Expression); ok {
		return n.String() + ";"
	}
	return n.String()
}
