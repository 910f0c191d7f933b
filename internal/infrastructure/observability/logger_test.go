package observability

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/trace"
)

type recordingLogger struct {
	noop.Logger
	records []otellog.Record
}

func (l *recordingLogger) Emit(_ context.Context, r otellog.Record) {
	l.records = append(l.records, r)
}

func TestOTLPHook_ForwardsRecords(t *testing.T) {
	rec := &recordingLogger{}
	logger := zerolog.New(io.Discard).Hook(otlpHook{logger: rec})

	logger.Warn().Msg("redis unavailable")

	if assert.Len(t, rec.records, 1) {
		assert.Equal(t, "redis unavailable", rec.records[0].Body().AsString())
		assert.Equal(t, otellog.SeverityWarn, rec.records[0].Severity())
	}
}

func TestLoggerFromContext_AddsTraceIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	assert.NotNil(t, LoggerFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, otellog.SeverityInfo, severityFor(zerolog.InfoLevel))
	assert.Equal(t, otellog.SeverityError, severityFor(zerolog.ErrorLevel))
	assert.Equal(t, otellog.SeverityFatal, severityFor(zerolog.PanicLevel))
}
