package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

//nolint:paralleltest // mutates the process environment
func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		prefixed string
		fallback string
		want     slog.Level
	}{
		{name: "unset", want: slog.LevelInfo},
		{name: "prefixed debug", prefixed: "debug", want: slog.LevelDebug},
		{name: "fallback warning", fallback: "WARNING", want: slog.LevelWarn},
		{name: "prefixed wins", prefixed: "error", fallback: "debug", want: slog.LevelError},
		{name: "invalid", prefixed: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TOURGUIDE_LOG_LEVEL", tt.prefixed)
			t.Setenv("LOG_LEVEL", tt.fallback)
			assert.Equal(t, tt.want, getLogLevel())
		})
	}
}

func TestTraceHandlerAddsSpanContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.With("component", "test").InfoContext(ctx, "traced")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, traceID.String(), record["trace_id"])
	assert.Equal(t, spanID.String(), record["span_id"])
	assert.Equal(t, "test", record["component"])

	buf.Reset()
	logger.Info("untraced")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, buf.String(), "trace_id")
}
