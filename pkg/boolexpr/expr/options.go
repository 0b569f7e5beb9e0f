package expr

// DefaultMaxDepth is the default nesting limit for parenthesized and
// right-associative sub-expressions.
const DefaultMaxDepth = 256

// compileConfig holds parser settings.
type compileConfig struct {
	rightAssociative bool
	maxDepth         int
}

func defaultCompileConfig() compileConfig {
	return compileConfig{
		maxDepth: DefaultMaxDepth,
	}
}

// CompileOption configures compilation.
type CompileOption func(*compileConfig)

// WithRightAssociative makes operators of equal precedence group from the
// right, so "10 - 4 - 3" parses as "10 - (4 - 3)".
// Default: false (left associative, "(10 - 4) - 3").
//
// Right association reproduces rule files written for the legacy
// right-recursive grammar.
func WithRightAssociative(enabled bool) CompileOption {
	return func(c *compileConfig) {
		c.rightAssociative = enabled
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Default: DefaultMaxDepth. Values <= 0 are ignored.
func WithMaxDepth(n int) CompileOption {
	return func(c *compileConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}
