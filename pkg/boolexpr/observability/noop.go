package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCompile does nothing.
func (NoopMetrics) RecordCompile(_ context.Context, _ time.Duration, _ error) {}

// RecordEvaluation does nothing.
func (NoopMetrics) RecordEvaluation(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordCacheLookup does nothing.
func (NoopMetrics) RecordCacheLookup(_ context.Context, _ bool) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartCompileSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartCompileSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartEvaluateSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartEvaluateSpan(ctx context.Context, _, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartRuleSetSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRuleSetSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
