package tracing

import (
	"context"
	"errors"
	"testing"
)

func TestInitTracingWithoutEndpointStaysNoop(t *testing.T) {
	t.Setenv("OTLP_ENDPOINT", "")

	shutdown, err := InitTracing(context.Background(), "test")
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "test-span")
	if span == nil {
		t.Fatal("expected a non-nil span from the no-op tracer")
	}
	if span.IsRecording() {
		t.Error("expected the default no-op tracer's span not to record")
	}
	_ = ctx
}

func TestRecordErrorIgnoresNilErrAndMissingSpan(t *testing.T) {
	// Neither call should panic: the first passes a nil error on a context
	// with no span started, and the second records an error on a no-op span.
	RecordError(context.Background(), nil)

	ctx, _ := StartSpan(context.Background(), "test-span")
	RecordError(ctx, errors.New("boom"))
}
