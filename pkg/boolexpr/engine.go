package boolexpr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/boolexpr/pkg/boolexpr/expr"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/observability"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/registry"
)

// Engine compiles and evaluates expressions with logging, metrics, tracing
// and an optional compiled-expression cache.
//
// An Engine is safe for concurrent use.
type Engine struct {
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	cache       *registry.Registry[string, *expr.Expression]
	compileOpts []expr.CompileOption
}

// New creates an Engine.
//
// Example:
//
//	engine := boolexpr.New(
//	    boolexpr.WithCache(512),
//	    boolexpr.WithMetrics(true),
//	)
//	ok, err := engine.EvaluateBool(ctx, "age >= 18", map[string]any{"age": 21})
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		spans:       cfg.spans,
		compileOpts: cfg.compileOpts,
	}
	if cfg.cacheSize > 0 {
		e.cache = registry.NewBounded[string, *expr.Expression](cfg.cacheSize)
	}
	return e
}

// Compile parses source. With the cache enabled, a source compiled before
// returns the same *expr.Expression; failures are never cached.
func (e *Engine) Compile(ctx context.Context, source string) (*expr.Expression, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if e.cache == nil {
		return e.compile(ctx, source)
	}

	compiled, hit, err := e.cache.GetOrLoad(source, func() (*expr.Expression, error) {
		return e.compile(ctx, source)
	})
	e.metrics.RecordCacheLookup(ctx, hit)
	if hit {
		observability.LogCacheHit(e.logger, source)
	}
	return compiled, err
}

func (e *Engine) compile(ctx context.Context, source string) (compiled *expr.Expression, err error) {
	_, span := e.spans.StartCompileSpan(ctx, source)
	defer func() {
		e.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	compiled, err = expr.Compile(source, e.compileOpts...)
	duration := time.Since(start)

	e.metrics.RecordCompile(ctx, duration, err)
	if err != nil {
		observability.LogCompileError(e.logger, source, err)
		return nil, err
	}
	observability.LogCompile(e.logger, source, durationMs(duration))
	return compiled, nil
}

// Evaluate compiles source (through the cache, if enabled) and evaluates
// it against vars.
func (e *Engine) Evaluate(ctx context.Context, source string, vars map[string]any) (expr.Value, error) {
	compiled, err := e.Compile(ctx, source)
	if err != nil {
		return expr.Value{}, err
	}
	return e.EvaluateCompiled(ctx, compiled, vars)
}

// EvaluateBool is Evaluate followed by a truthiness test of the result.
// A null result is an expr.ErrType error.
func (e *Engine) EvaluateBool(ctx context.Context, source string, vars map[string]any) (bool, error) {
	v, err := e.Evaluate(ctx, source, vars)
	if err != nil {
		return false, err
	}
	return v.Truthy()
}

// EvaluateCompiled evaluates a compiled expression against vars. Each call
// gets its own evaluation ID for log and span correlation.
func (e *Engine) EvaluateCompiled(ctx context.Context, compiled *expr.Expression, vars map[string]any) (expr.Value, error) {
	return e.evaluate(ctx, compiled, vars, newEvalID(), "")
}

// evaluate runs one evaluation. rule is empty for ad-hoc expressions.
func (e *Engine) evaluate(ctx context.Context, compiled *expr.Expression, vars map[string]any, evalID, rule string) (result expr.Value, err error) {
	if ctx == nil {
		return expr.Value{}, ErrNilContext
	}
	if compiled == nil {
		return expr.Value{}, ErrNilExpression
	}
	if err := ctx.Err(); err != nil {
		return expr.Value{}, err
	}

	source := compiled.Source()
	ctx, span := e.spans.StartEvaluateSpan(ctx, evalID, source, rule)
	defer func() {
		e.spans.EndSpanWithError(span, err)
	}()

	start := time.Now()
	result, err = compiled.Evaluate(vars)
	duration := time.Since(start)

	e.metrics.RecordEvaluation(ctx, rule, duration, err)
	if err != nil {
		observability.LogEvaluateError(e.logger, evalID, source, err, durationMs(duration))
		return expr.Value{}, err
	}
	if e.logger != nil {
		observability.LogEvaluate(e.logger, evalID, source, result.String(), durationMs(duration))
	}
	return result, nil
}

// CacheLen returns the number of cached expressions, or 0 when the cache
// is disabled.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// ResetCache drops every cached expression.
func (e *Engine) ResetCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func newEvalID() string {
	return fmt.Sprintf("eval-%s", uuid.New().String()[:8])
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
