package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records expression engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records a compilation with its duration and error status.
	RecordCompile(ctx context.Context, duration time.Duration, err error)

	// RecordEvaluation records an evaluation. rule is the rule name, or
	// empty for ad-hoc expressions.
	RecordEvaluation(ctx context.Context, rule string, duration time.Duration, err error)

	// RecordCacheLookup records a compiled-expression cache lookup.
	RecordCacheLookup(ctx context.Context, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles       metric.Int64Counter
	compileLatency metric.Float64Histogram
	compileErrors  metric.Int64Counter
	evals          metric.Int64Counter
	evalLatency    metric.Float64Histogram
	evalErrors     metric.Int64Counter
	cacheLookups   metric.Int64Counter
}

// newOtelMetrics creates instruments on the current global meter provider.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("boolexpr")

	compiles, err := meter.Int64Counter("boolexpr.compile.count",
		metric.WithDescription("Number of expression compilations"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("boolexpr.compile.latency_ms",
		metric.WithDescription("Compilation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("boolexpr.compile.errors",
		metric.WithDescription("Number of failed compilations"),
	)
	if err != nil {
		return nil, err
	}

	evals, err := meter.Int64Counter("boolexpr.eval.count",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("boolexpr.eval.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("boolexpr.eval.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter("boolexpr.cache.lookups",
		metric.WithDescription("Compiled expression cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:       compiles,
		compileLatency: compileLatency,
		compileErrors:  compileErrors,
		evals:          evals,
		evalLatency:    evalLatency,
		evalErrors:     evalErrors,
		cacheLookups:   cacheLookups,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// Instruments are bound to the global OTel meter provider at call time.
// Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := newOtelMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// RecordCompile records a compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.compiles.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, durationMs(duration), attrs)
	if err != nil {
		m.compileErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", ErrorKind(err))))
	}
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, rule string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("rule", rule))
	m.evals.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, durationMs(duration), attrs)
	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("rule", rule),
			attribute.String("error.kind", ErrorKind(err)),
		))
	}
}

// RecordCacheLookup records a cache lookup.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}
