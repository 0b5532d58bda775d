package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"unires/infras/otel"
)

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "reservation.sweep")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"reservation.id": "r-1",
		"hours":          1.5,
		"count":          3,
		"at":             time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("row locked"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "r-1", attrs["reservation.id"])
	assert.Equal(t, "1.5", attrs["hours"])
	assert.Equal(t, "3", attrs["count"])
	assert.Equal(t, "2026-10-19T09:00:00Z", attrs["at"])
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "row locked", spans[0].Status().Description)
}
