package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/wmsbridge/backend/internal/infrastructure/telemetry"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := setupRecorder(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "wms", "search_orders",
		telemetry.SpanAttrOrg, "ACME",
		telemetry.SpanAttrWildcard, true,
		42, "ignored",
	)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderCount, 3)
	telemetry.SetOK(span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "wms.search_orders", got.Name())
	assert.Equal(t, codes.Ok, got.Status().Code)

	attrs := map[string]any{}
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "ACME", attrs[telemetry.SpanAttrOrg])
	assert.Equal(t, true, attrs[telemetry.SpanAttrWildcard])
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrOrderCount])
	assert.Len(t, attrs, 3)
}

func TestRecordError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "wms", "authenticate")
	telemetry.RecordError(span, errors.New("boom"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}
