package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/logger"
)

func TestInitTracingWithoutExporter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "test", GetTraceID)

	tp, shutdown, err := InitTracing(log, Config{ServiceName: "test", Exporter: ExporterNone, Probability: 1.0})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "op")
	defer span.End()

	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.True(t, span.SpanContext().IsSampled())
	assert.Contains(t, buf.String(), "tracing initialized")
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	log := logger.New(&bytes.Buffer{}, logger.LevelInfo, "test", nil)
	_, _, err := InitTracing(log, Config{ServiceName: "test", Exporter: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestGetTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestAddSpanFallsBackToGlobalTracer(t *testing.T) {
	ctx, span := AddSpan(context.Background(), "op")
	defer span.End()
	assert.NotNil(t, ctx)
}
