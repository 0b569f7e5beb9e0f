package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCompileSpan starts a span for compiling source.
	StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span)

	// StartEvaluateSpan starts a span for one evaluation. rule is empty
	// for ad-hoc expressions.
	StartEvaluateSpan(ctx context.Context, evalID, source, rule string) (context.Context, trace.Span)

	// StartRuleSetSpan starts a span for evaluating a whole rule set.
	// Rule evaluation spans should be children of it.
	StartRuleSetSpan(ctx context.Context, evalID string, ruleCount int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The tracer is taken from the global OTel tracer provider at call time.
// Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: otel.Tracer("boolexpr")}
}

// StartCompileSpan starts a span for a compilation.
func (m *otelSpanManager) StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "boolexpr.compile",
		trace.WithAttributes(
			attribute.String("expr.source", source),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEvaluateSpan starts a span for an evaluation.
func (m *otelSpanManager) StartEvaluateSpan(ctx context.Context, evalID, source, rule string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("eval.id", evalID),
		attribute.String("expr.source", source),
	}
	if rule != "" {
		attrs = append(attrs, attribute.String("rule.name", rule))
	}
	return m.tracer.Start(ctx, "boolexpr.evaluate",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRuleSetSpan starts a span for a rule set evaluation.
func (m *otelSpanManager) StartRuleSetSpan(ctx context.Context, evalID string, ruleCount int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "boolexpr.ruleset",
		trace.WithAttributes(
			attribute.String("eval.id", evalID),
			attribute.Int("ruleset.size", ruleCount),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
