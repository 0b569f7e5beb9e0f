// Package observability provides structured logging, metrics and tracing
// for expression compilation and evaluation.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with eval_id and expression fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "eval-1a2b3c4d", "score > 10")
//	enriched.Debug("evaluating") // includes eval_id, expression
func EnrichLogger(logger *slog.Logger, evalID, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
		slog.String("expression", source),
	)
}

// LogCompile logs a successful compilation.
func LogCompile(logger *slog.Logger, source string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression compiled",
		slog.String("expression", source),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompileError logs a compilation failure.
func LogCompileError(logger *slog.Logger, source string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("expression compile failed",
		slog.String("expression", source),
		slog.String("error", err.Error()),
		slog.String("error_kind", ErrorKind(err)),
	)
}

// LogCacheHit logs a compiled expression served from cache.
func LogCacheHit(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Debug("expression cache hit",
		slog.String("expression", source),
	)
}

// LogEvaluate logs a successful evaluation.
func LogEvaluate(logger *slog.Logger, evalID, source, result string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression evaluated",
		slog.String("eval_id", evalID),
		slog.String("expression", source),
		slog.String("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluateError logs an evaluation failure.
func LogEvaluateError(logger *slog.Logger, evalID, source string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("expression evaluation failed",
		slog.String("eval_id", evalID),
		slog.String("expression", source),
		slog.String("error", err.Error()),
		slog.String("error_kind", ErrorKind(err)),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRuleSetLoaded logs a compiled rule set.
func LogRuleSetLoaded(logger *slog.Logger, ruleCount int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("rule set loaded",
		slog.Int("rules", ruleCount),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRuleSetEvaluated logs the outcome of evaluating every rule in a set.
func LogRuleSetEvaluated(logger *slog.Logger, evalID string, ruleCount, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("rule set evaluated",
		slog.String("eval_id", evalID),
		slog.Int("rules", ruleCount),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds with microsecond resolution.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
