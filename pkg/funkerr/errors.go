// Package funkerr defines the errors reported while loading, scanning,
// parsing and evaluating Funk programs.
package funkerr

import (
	"errors"
	"fmt"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/value"
)

// Kind is the error category shown to the user.
type Kind string

const (
	File    Kind = "File error"
	Lexer   Kind = "Lexer error"
	Syntax  Kind = "Syntax error"
	Type    Kind = "Type error"
	Runtime Kind = "Runtime error"
)

// Error is a categorised failure with the source position it refers to.
// Pos is the zero Position when no location is known yet.
type Error struct {
	Kind    Kind
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
}

func newf(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Filef creates a File error.
func Filef(pos token.Position, format string, args ...any) *Error {
	return newf(File, pos, format, args...)
}

// Lexerf creates a Lexer error.
func Lexerf(pos token.Position, format string, args ...any) *Error {
	return newf(Lexer, pos, format, args...)
}

// Syntaxf creates a Syntax error.
func Syntaxf(pos token.Position, format string, args ...any) *Error {
	return newf(Syntax, pos, format, args...)
}

// Typef creates a Type error.
func Typef(pos token.Position, format string, args ...any) *Error {
	return newf(Type, pos, format, args...)
}

// Runtimef creates a Runtime error.
func Runtimef(pos token.Position, format string, args ...any) *Error {
	return newf(Runtime, pos, format, args...)
}

// At positions err. Value operation errors become Type or Runtime errors
// at pos, errors that already carry a position keep it, and anything else
// is wrapped as a Runtime error.
func At(err error, pos token.Position) error {
	if err == nil {
		return nil
	}
	var ferr *Error
	if errors.As(err, &ferr) {
		if !ferr.Pos.IsValid() {
			ferr.Pos = pos
		}
		return ferr
	}
	var verr *value.Error
	if errors.As(err, &verr) {
		if verr.Kind == value.TypeMismatch {
			return Typef(pos, "%s", verr.Message)
		}
		return Runtimef(pos, "%s", verr.Message)
	}
	return Runtimef(pos, "%v", err)
}

// KindOf returns the category of err, or "" when err is not a Funk error.
func KindOf(err error) Kind {
	var ferr *Error
	if errors.As(err, &ferr) {
		return ferr.Kind
	}
	return ""
}
