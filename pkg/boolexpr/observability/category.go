package observability

import (
	"context"
	"errors"

	"github.com/randalmurphal/boolexpr/pkg/boolexpr/expr"
)

// Error kinds reported in the error_kind log field and the error.kind
// metric attribute.
const (
	KindSyntax      = "syntax"
	KindLookup      = "lookup"
	KindType        = "type"
	KindArithmetic  = "arithmetic"
	KindUnsupported = "unsupported_operator"
	KindCancelled   = "cancelled"
	KindUnknown     = "unknown"
)

// ErrorKind classifies err by the sentinel it wraps. nil yields "".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, expr.ErrSyntax):
		return KindSyntax
	case errors.Is(err, expr.ErrLookup):
		return KindLookup
	case errors.Is(err, expr.ErrType):
		return KindType
	case errors.Is(err, expr.ErrArithmetic):
		return KindArithmetic
	case errors.Is(err, expr.ErrUnsupportedOperator):
		return KindUnsupported
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindUnknown
	}
}
