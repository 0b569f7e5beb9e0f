package expr

// Expression is a compiled expression. It is immutable and safe for
// concurrent use; each Evaluate call reads only its own vars.
type Expression struct {
	source string
	root   Node
}

// Compile parses source into an Expression.
// Malformed source returns a *ParseError.
//
// Example:
//
//	e, err := expr.Compile("score >= 80 and region in ['eu', 'us']")
//	if err != nil {
//	    return err
//	}
//	v, err := e.Evaluate(map[string]any{"score": 91, "region": "eu"})
//	// v: True
func Compile(source string, opts ...CompileOption) (*Expression, error) {
	cfg := defaultCompileConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	root, err := parse(source, cfg)
	if err != nil {
		return nil, err
	}
	return &Expression{source: source, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string, opts ...CompileOption) *Expression {
	e, err := Compile(source, opts...)
	if err != nil {
		panic("expr: Compile(" + source + "): " + err.Error())
	}
	return e
}

// Evaluate evaluates the expression against vars. A nil map is treated as
// empty. Errors wrap ErrLookup, ErrType, ErrArithmetic or
// ErrUnsupportedOperator.
func (e *Expression) Evaluate(vars map[string]any) (Value, error) {
	return evaluate(e.root, vars)
}

// EvaluateBool evaluates the expression and returns the truthiness of the
// result.
func (e *Expression) EvaluateBool(vars map[string]any) (bool, error) {
	v, err := e.Evaluate(vars)
	if err != nil {
		return false, err
	}
	b, err := v.Truthy()
	if err != nil {
		return false, withNode(err, e.root)
	}
	return b, nil
}

// Source returns the text the expression was compiled from.
func (e *Expression) Source() string { return e.source }

// Root returns the root of the expression tree.
func (e *Expression) Root() Node { return e.root }

// String renders the parsed tree fully parenthesized.
func (e *Expression) String() string { return e.root.String() }

// Evaluate evaluates a tree built by hand or obtained from Root.
func Evaluate(n Node, vars map[string]any) (Value, error) {
	return evaluate(n, vars)
}

// Eval is a convenience function that compiles source with default
// options and evaluates it once.
func Eval(source string, vars map[string]any) (Value, error) {
	e, err := Compile(source)
	if err != nil {
		return Value{}, err
	}
	return e.Evaluate(vars)
}
