package boolexpr

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine calls.
var (
	// ErrNilContext indicates a nil context.Context was passed.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNilExpression indicates EvaluateCompiled was called with nil.
	ErrNilExpression = errors.New("expression cannot be nil")
)

// Sentinel errors for rule sets.
var (
	// ErrNoRules indicates a rule-set document defines no rules.
	ErrNoRules = errors.New("rule set has no rules")

	// ErrInvalidRuleSet indicates the rules section is not a mapping.
	ErrInvalidRuleSet = errors.New("invalid rule set")

	// ErrInvalidRule indicates a rule entry is neither an expression string
	// nor a mapping with a non-empty expr.
	ErrInvalidRule = errors.New("invalid rule definition")

	// ErrRuleNotFound indicates EvaluateRule was asked for an unknown name.
	ErrRuleNotFound = errors.New("rule not found")
)

// RuleError wraps an error with the name of the rule that caused it.
type RuleError struct {
	// Rule is the rule name.
	Rule string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RuleError) Unwrap() error {
	return e.Err
}
