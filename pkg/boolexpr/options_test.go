package boolexpr

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/boolexpr/pkg/boolexpr/config"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/expr"
	"github.com/randalmurphal/boolexpr/pkg/boolexpr/observability"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := defaultEngineConfig()
	assert.Equal(t, slog.Default(), cfg.logger)
	assert.IsType(t, observability.NoopMetrics{}, cfg.metrics)
	assert.IsType(t, observability.NoopSpanManager{}, cfg.spans)
	assert.Equal(t, 0, cfg.cacheSize)
}

func TestOptions(t *testing.T) {
	t.Run("WithLogger nil disables logging", func(t *testing.T) {
		cfg := defaultEngineConfig()
		WithLogger(nil)(&cfg)
		assert.Nil(t, cfg.logger)
	})

	t.Run("WithMetrics toggles recorder", func(t *testing.T) {
		cfg := defaultEngineConfig()
		WithMetrics(true)(&cfg)
		_, isNoop := cfg.metrics.(observability.NoopMetrics)
		assert.False(t, isNoop)

		WithMetrics(false)(&cfg)
		assert.IsType(t, observability.NoopMetrics{}, cfg.metrics)
	})

	t.Run("WithTracing toggles span manager", func(t *testing.T) {
		cfg := defaultEngineConfig()
		WithTracing(true)(&cfg)
		_, isNoop := cfg.spans.(observability.NoopSpanManager)
		assert.False(t, isNoop)

		WithTracing(false)(&cfg)
		assert.IsType(t, observability.NoopSpanManager{}, cfg.spans)
	})

	t.Run("WithCompileOptions appends", func(t *testing.T) {
		cfg := defaultEngineConfig()
		WithCompileOptions(expr.WithMaxDepth(4))(&cfg)
		WithCompileOptions(expr.WithRightAssociative(true))(&cfg)
		assert.Len(t, cfg.compileOpts, 2)
	})
}

func TestOptionsFromConfig(t *testing.T) {
	doc, err := config.FromYAML([]byte(`
cache: true
cache_size: 2
right_associative: true
max_depth: 3
`))
	require.NoError(t, err)

	engine := New(append(OptionsFromConfig(doc), WithLogger(nil))...)
	ctx := context.Background()

	got, err := engine.Evaluate(ctx, "10 - 4 - 3", nil)
	require.NoError(t, err)
	assert.True(t, expr.Equal(expr.Int(9), got), "right associative from config")

	_, err = engine.Compile(ctx, "((((1))))")
	assert.ErrorIs(t, err, expr.ErrSyntax, "max_depth from config")

	for _, src := range []string{"1", "2", "3"} {
		_, err := engine.Compile(ctx, src)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, engine.CacheLen())
}

func TestOptionsFromConfig_Defaults(t *testing.T) {
	assert.Empty(t, OptionsFromConfig(config.New(nil)))

	cfg := defaultEngineConfig()
	for _, opt := range OptionsFromConfig(config.New(map[string]any{"cache": true})) {
		opt(&cfg)
	}
	assert.Equal(t, DefaultCacheSize, cfg.cacheSize)
}
