package otp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors found while reading or compiling a source.
type ErrorKind int

const (
	// LexError is a malformed token, e.g. an unterminated character literal.
	LexError ErrorKind = iota
	// ParseError is a grammar violation.
	ParseError
	// ReferenceError is a reference to an undefined alias, table or state.
	ReferenceError
	// CycleError is a chain of aliases referring to itself.
	CycleError
	// CodegenError is a pattern too complex to encode, or a value exceeding
	// the argument bit width.
	CodegenError
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case ReferenceError:
		return "unknown reference"
	case CycleError:
		return "alias cycle"
	case CodegenError:
		return "code generation error"
	default:
		return "error"
	}
}

// Position is a location in source text. Lines and columns count from 1;
// the zero value denotes an unknown position.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position is known.
func (pos Position) IsValid() bool {
	return pos.Line > 0
}

func (pos Position) String() string {
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}

// Error is the error type for all source level errors. Every error is fatal
// for the operation in progress.
type Error struct {
	Kind ErrorKind // class of the error
	Pos  Position  // source position, if known
	Msg  string    // human-readable description of the issue
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("OCP %s at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("OCP %s: %s", e.Kind, e.Msg)
}

// KindOf returns the kind of an OCP source error. The second return value
// is false if err does not wrap an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func errorf(kind ErrorKind, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
