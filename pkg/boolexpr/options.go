package boolexpr

import (
	"log/slog"

	"github.com/randalmurphal/boolexpr/pkg/boolexpr/config"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/expr"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/observability"
)

// DefaultCacheSize is the cache capacity used by OptionsFromConfig when
// caching is enabled without a cache_size.
const DefaultCacheSize = 1024

// engineConfig holds Engine configuration.
type engineConfig struct {
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	cacheSize   int
	compileOpts []expr.CompileOption
}

// defaultEngineConfig returns the default configuration: slog.Default(),
// no metrics, no tracing, no cache.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the logger for compile and evaluation events.
// A nil logger disables logging.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	engine := boolexpr.New(boolexpr.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
// Default: disabled
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithCache keeps up to size compiled expressions, keyed by source, and
// evicts the least recently used one when full. size <= 0 disables the
// cache.
// Default: disabled
func WithCache(size int) Option {
	return func(c *engineConfig) {
		c.cacheSize = size
	}
}

// WithCompileOptions sets the options passed to expr.Compile.
//
// Example:
//
//	engine := boolexpr.New(boolexpr.WithCompileOptions(
//	    expr.WithRightAssociative(true),
//	    expr.WithMaxDepth(64),
//	))
func WithCompileOptions(opts ...expr.CompileOption) Option {
	return func(c *engineConfig) {
		c.compileOpts = append(c.compileOpts, opts...)
	}
}

// OptionsFromConfig translates engine settings into options. Recognized
// keys: cache (bool), cache_size (int), right_associative (bool),
// max_depth (int), metrics (bool), tracing (bool). Missing keys keep the
// defaults.
//
// Example:
//
//	cfg, err := config.FromFile("engine.yaml")
//	if err != nil {
//	    return err
//	}
//	engine := boolexpr.New(boolexpr.OptionsFromConfig(cfg)...)
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if cfg.Bool("cache", false) {
		opts = append(opts, WithCache(cfg.Int("cache_size", DefaultCacheSize)))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}

	var compileOpts []expr.CompileOption
	if cfg.Has("right_associative") {
		compileOpts = append(compileOpts, expr.WithRightAssociative(cfg.Bool("right_associative", false)))
	}
	if cfg.Has("max_depth") {
		compileOpts = append(compileOpts, expr.WithMaxDepth(cfg.Int("max_depth", expr.DefaultMaxDepth)))
	}
	if len(compileOpts) > 0 {
		opts = append(opts, WithCompileOptions(compileOpts...))
	}
	return opts
}
