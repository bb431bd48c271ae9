package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sample-app/internal/config"
	"github.com/turtacn/sample-app/pkg/constants"
	"github.com/turtacn/sample-app/pkg/logger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zapcore"
)

func newTestLogger(t *testing.T, level string) (*zapLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l, err := newZapLogger(&config.LogConfig{Level: level}, zapcore.AddSync(buf))
	require.NoError(t, err)
	return l, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestZapLoggerWritesStructuredJSON(t *testing.T) {
	l, buf := newTestLogger(t, "info")
	scoped := l.WithFields(logger.Fields{"request_id": "req-1"})
	ctx := context.Background()

	scoped.Info(ctx, "Request received", logger.Fields{"route": "/"})
	l.Error(ctx, "Something failed", errors.New("boom"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Request received", entries[0]["msg"])
	assert.Equal(t, "/", entries[0]["route"])
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Contains(t, entries[0], "timestamp")
	assert.Equal(t, "boom", entries[1]["error"])
	assert.NotContains(t, entries[1], "request_id")
}

func TestZapLoggerAddsTraceIDFromSpan(t *testing.T) {
	l, buf := newTestLogger(t, "info")
	provider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "GET /")
	l.Info(ctx, "inside span")
	span.End()
	l.Info(context.Background(), "outside span")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestZapLoggerLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(t, "warn")
	l.Info(context.Background(), "dropped")
	l.Warn(context.Background(), "kept")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
}

func TestZapLoggerSetLevelAffectsChildren(t *testing.T) {
	l, buf := newTestLogger(t, "info")
	child := l.WithFields(logger.Fields{"component": "http"})

	child.Debug(context.Background(), "hidden")
	require.NoError(t, l.SetLevel("debug"))
	child.Debug(context.Background(), "visible")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible", entries[0]["msg"])
	assert.Equal(t, "http", entries[0]["component"])

	assert.Error(t, l.SetLevel("loud"))
}

func TestZapLoggerInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newTestLogger(t, "nonsense")
	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestForContext(t *testing.T) {
	l, _ := newTestLogger(t, "info")
	scoped := logger.NewNoopLogger()

	ctx := context.WithValue(context.Background(), constants.ContextKeyLogger, scoped)
	assert.Same(t, scoped, l.ForContext(ctx))
	assert.Same(t, l, l.ForContext(context.Background()))
}
