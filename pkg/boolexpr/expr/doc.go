/*
Package expr compiles and evaluates boolean/arithmetic condition expressions.

# Overview

An expression is parsed once into an immutable tree and then evaluated any
number of times against a context map. Evaluation is pure: the same
Expression may be evaluated concurrently against different maps.

	e, err := expr.Compile("user.age >= 18 and user.country in ['de', 'fr']")
	if err != nil {
	    return err
	}
	ok, err := e.EvaluateBool(map[string]any{
	    "user": map[string]any{"age": 30, "country": "de"},
	})

# Expression Syntax

	<expr>           := <not> (('and' | 'or' | 'AND' | 'OR') <not>)*
	<not>            := ('not' | 'NOT')? <comparison>
	<comparison>     := <additive> (<cmp-op> <additive>)*
	<cmp-op>         := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'in'
	<additive>       := <multiplicative> (('+' | '-') <multiplicative>)*
	<multiplicative> := <atom> (('*' | '/' | '%') <atom>)*
	<atom>           := (<string> | <variable>) '|' <modifier>
	                  | <constant> | <variable> | <array> | '(' <expr> ')'
	<modifier>       := 'upper' | 'lower' | 'split(' <string>? ')' | 'strip(' <string>? ')'
	<constant>       := ('+' | '-')? digits ('.' digits)? | 'True' | 'False' | <string>
	<array>          := '[' (<constant> (',' <constant>)* ','?)? ']'
	<variable>       := name ('[' int ']')* ('.' name ('[' int ']')*)*

'and' and 'or' share one precedence level. Operators of equal precedence
associate to the left unless WithRightAssociative is given.

Strings use single or double quotes; a backslash escapes the next character.
Variable paths contain no whitespace: "a[1].b" is a path, "a [1]" is not.

# Values

Evaluation produces a Value of kind Bool, Int, Float, String or List.
Context data may also yield Map (for dotted access) and Null.

  - Arithmetic needs two numbers. Int op Int stays Int; any Float makes the
    result Float. Division is true division: 7 / 2 is 3.5, 6 / 2 is 3.
    % is floored, as in Python. Int results that overflow int64 are an
    ErrArithmetic error.
  - == and != compare numbers numerically (5 == 5.0, True == 1) and other
    values structurally. Values of unrelated kinds are unequal.
  - < > <= >= order numbers, strings and lists; other kinds are an error.
  - 'in' tests list membership, substring containment or map keys.
  - 'and', 'or' and 'not' use truthiness: zero, empty and False are false.
    Both sides of 'and' and 'or' are always evaluated.

# Errors

Compile returns a *ParseError (matching ErrSyntax). Evaluate returns an
*EvalError whose Kind is ErrLookup, ErrType, ErrArithmetic or
ErrUnsupportedOperator:

	_, err := expr.MustCompile("1 / n").Evaluate(map[string]any{"n": 0})
	errors.Is(err, expr.ErrArithmetic) // true
*/
package expr
