package expr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by Compile or Evaluate matches
// exactly one of these with errors.Is.
var (
	// ErrSyntax indicates malformed source: an unexpected token, an
	// unterminated string, a mismatched bracket or trailing input.
	ErrSyntax = errors.New("syntax error")

	// ErrLookup indicates a missing variable, an out-of-range index or a
	// missing field along a variable path.
	ErrLookup = errors.New("lookup error")

	// ErrType indicates an operand of the wrong kind for an operator,
	// modifier or path step.
	ErrType = errors.New("type error")

	// ErrArithmetic indicates division or modulo by zero.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrUnsupportedOperator indicates a Binary node whose operator is not
	// one of the built-in operators. The parser never produces one.
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// ParseError reports where compilation failed.
type ParseError struct {
	// Pos is the byte offset of the failure in the source.
	Pos int
	// Near is the source text starting at Pos, truncated.
	Near string
	// Msg describes what the parser expected or found.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error at position %d near %q: %s", e.Pos, e.Near, e.Msg)
}

// Unwrap returns ErrSyntax for errors.Is support.
func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// EvalError is returned when evaluation of a node fails.
type EvalError struct {
	// Kind is one of ErrLookup, ErrType, ErrArithmetic or ErrUnsupportedOperator.
	Kind error
	// Node is the rendering of the node that failed, if known.
	Node string
	// Msg describes the failure.
	Msg string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%v: %s (in %s)", e.Kind, e.Msg, e.Node)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

// Unwrap returns the error kind for errors.Is support.
func (e *EvalError) Unwrap() error {
	return e.Kind
}

func lookupErrorf(format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrLookup, Msg: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrType, Msg: fmt.Sprintf(format, args...)}
}

func arithmeticErrorf(format string, args ...any) *EvalError {
	return &EvalError{Kind: ErrArithmetic, Msg: fmt.Sprintf(format, args...)}
}

// withNode attaches the failing node to err if it is an EvalError that
// does not name one yet. Innermost nodes win.
func withNode(err error, n Node) error {
	var evalErr *EvalError
	if errors.As(err, &evalErr) && evalErr.Node == "" {
		evalErr.Node = n.String()
	}
	return err
}
