package apm

import (
	"bytes"
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTraceID(t *testing.T) {
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(background) = %q, want empty", got)
	}

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	if got := TraceID(ctx); got != span.SpanContext().TraceID().String() || got == "" {
		t.Errorf("TraceID = %q, want %q", got, span.SpanContext().TraceID().String())
	}
}

func TestNewTraceProvider_Console(t *testing.T) {
	var buf bytes.Buffer
	tp, err := NewTraceProvider("bestprice-test", useConsole(&buf))
	if err != nil {
		t.Fatalf("NewTraceProvider: %v", err)
	}

	_, span := NewTracer("test").StartSpanFromContext(context.Background(), "quote.run")
	span.End()

	if err := tp.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("quote.run")) {
		t.Error("expected exported span in console output")
	}
}

func TestNewTraceProvider_Empty(t *testing.T) {
	tp, err := NewTraceProvider("bestprice-test", useEmpty())
	if err != nil {
		t.Fatalf("NewTraceProvider: %v", err)
	}
	if _, ok := tp.(emptyTraceProvider); !ok {
		t.Errorf("provider = %T, want empty", tp)
	}
}
