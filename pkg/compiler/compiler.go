// Package compiler provides the front end pipeline for Funk sources:
// 1. Lexer: Tokenization
// 2. Parser: AST generation
//
// - Tokenize: scans source text
// - Parse: scans and parses source text
// - ParseFile: reads a file in a given encoding, then parses it
// - ParseInteractive: parses input that may continue on further lines
package compiler

import (
	"errors"
	"strings"

	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/lexer"
	"github.com/zurustar/funk/pkg/compiler/parser"
	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/fileutil"
	"github.com/zurustar/funk/pkg/funkerr"
)

// Tokenize scans source. file is recorded in every token position.
func Tokenize(source, file string) ([]token.Token, error) {
	return lexer.New(source, file).Tokenize()
}

// Parse scans and parses source. The first Lexer or Syntax error stops
// the pipeline.
//
// Parameters:
//   - source: UTF-8 encoded source code string
//   - file: name used in error positions
//   - opts: parser options such as parser.WithArgs
//
// Returns:
//   - *ast.Program: the syntax tree
//   - error: a *funkerr.Error on failure
func Parse(source, file string, opts ...parser.Option) (*ast.Program, error) {
	tokens, err := Tokenize(source, file)
	if err != nil {
		return nil, err
	}
	return parser.New(tokens, opts...).ParseProgram()
}

// ParseFile reads path, converts it from encoding to UTF-8 and parses it.
// The decoded source is returned as well, for error traces.
func ParseFile(path, encoding string, opts ...parser.Option) (*ast.Program, string, error) {
	source, err := fileutil.ReadSource(path, encoding)
	if err != nil {
		return nil, "", err
	}
	program, err := Parse(source, path, opts...)
	return program, source, err
}

// ParseInteractive parses source typed so far. more is true when the
// error only means the input stopped early: a construct left open at the
// end, an unterminated text literal or block comment.
func ParseInteractive(source, file string, opts ...parser.Option) (program *ast.Program, more bool, err error) {
	tokens, err := Tokenize(source, file)
	if err != nil {
		var ferr *funkerr.Error
		more = errors.As(err, &ferr) &&
			(strings.HasPrefix(ferr.Message, "Unterminated text") || strings.HasPrefix(ferr.Message, "Unterminated block"))
		return nil, more, err
	}
	p := parser.New(tokens, opts...)
	program, err = p.ParseProgram()
	if err != nil {
		return nil, p.Incomplete(), err
	}
	return program, false, nil
}
