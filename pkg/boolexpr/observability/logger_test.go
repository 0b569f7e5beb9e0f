package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf    *bytes.Buffer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	// Build a map from the record
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	// Add pre-configured attrs
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}

	// Add record attrs
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	// Encode as JSON
	enc := json.NewEncoder(h.buf)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(name string) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
	return newH
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func (h *testHandler) getAllRecords() []map[string]any {
	var records []map[string]any
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for _, line := range lines {
		if len(line) > 0 {
			var m map[string]any
			if err := json.Unmarshal(line, &m); err == nil {
				records = append(records, m)
			}
		}
	}
	return records
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds eval_id and expression", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "eval-1", "a == 1")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "eval-1", record["eval_id"])
		assert.Equal(t, "a == 1", record["expression"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "eval-1", "a"))
	})
}

func TestLogCompile(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCompile(logger, "x > 1", 0.25)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "expression compiled", record["msg"])
	assert.Equal(t, "x > 1", record["expression"])
	assert.Equal(t, 0.25, record["duration_ms"])
}

func TestLogCompileError(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCompileError(logger, "1 +", errors.New("syntax error"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "expression compile failed", record["msg"])
	assert.Equal(t, "1 +", record["expression"])
	assert.Equal(t, "syntax error", record["error"])
	assert.Equal(t, KindUnknown, record["error_kind"])
}

func TestLogCacheHit(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCacheHit(logger, "a")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "expression cache hit", record["msg"])
}

func TestLogEvaluate(t *testing.T) {
	t.Run("success at DEBUG", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogEvaluate(logger, "eval-7", "a and b", "True", 1.5)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "expression evaluated", record["msg"])
		assert.Equal(t, "eval-7", record["eval_id"])
		assert.Equal(t, "True", record["result"])
		assert.Equal(t, 1.5, record["duration_ms"])
	})

	t.Run("failure at WARN", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogEvaluateError(logger, "eval-8", "1 / 0", errors.New("division by zero"), 0.1)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "expression evaluation failed", record["msg"])
		assert.Equal(t, "eval-8", record["eval_id"])
		assert.Equal(t, "division by zero", record["error"])
	})
}

func TestLogRuleSet(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogRuleSetLoaded(logger, 3, 2.0)
	LogRuleSetEvaluated(logger, "eval-9", 3, 1, 4.0)

	records := h.getAllRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "rule set loaded", records[0]["msg"])
	assert.Equal(t, float64(3), records[0]["rules"])
	assert.Equal(t, "rule set evaluated", records[1]["msg"])
	assert.Equal(t, float64(1), records[1]["failed"])
	assert.Equal(t, "eval-9", records[1]["eval_id"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogCompile(nil, "a", 0)
		LogCompileError(nil, "a", errors.New("x"))
		LogCacheHit(nil, "a")
		LogEvaluate(nil, "id", "a", "True", 0)
		LogEvaluateError(nil, "id", "a", errors.New("x"), 0)
		LogRuleSetLoaded(nil, 0, 0)
		LogRuleSetEvaluated(nil, "id", 0, 0, 0)
	})
}

func TestLogHelpers_LevelFiltering(t *testing.T) {
	h := newTestHandler()
	h.level = slog.LevelInfo
	logger := slog.New(h)

	LogCompile(logger, "a", 0)
	LogEvaluate(logger, "id", "a", "True", 0)
	assert.Empty(t, h.getAllRecords(), "debug records are filtered at INFO")

	LogRuleSetLoaded(logger, 1, 0)
	assert.Len(t, h.getAllRecords(), 1)
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed, 5.0)
	assert.Less(t, elapsed, 1000.0)
}
