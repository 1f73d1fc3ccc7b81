// Package tracing provides the OpenTelemetry span helpers Decode and
// candidate nomination report through, adapted from the
// module family's pkg/tracing: same OTLP-gRPC exporter wiring and
// no-op-until-configured default tracer, relabeled to this module's
// service name and span attributes.
package tracing

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// ServiceName identifies this module's spans in a shared trace backend.
	ServiceName = "openlr-dereferencer"
	// TracerName is this module's OpenTelemetry tracer name.
	TracerName = "github.com/NERVsystems/openlr-dereferencer"
)

// Attribute keys for decode spans.
const (
	AttrLRPIndex       = "openlr.lrp_index"
	AttrLRPCount       = "openlr.lrp_count"
	AttrCandidateCount = "openlr.candidate_count"
	AttrLineCount      = "openlr.line_count"
	AttrRouteLength    = "openlr.route_length_m"
	AttrDecodeStatus   = "openlr.decode_status"
)

// Tracer is the package-wide tracer. It is a no-op until InitTracing
// configures a real exporter, so Decode can unconditionally start spans
// without every caller needing to set up OpenTelemetry first.
var Tracer trace.Tracer = noop.NewTracerProvider().Tracer(TracerName)

// InitTracing wires Tracer to an OTLP/gRPC exporter when the OTLP_ENDPOINT
// environment variable is set, mirroring the module family's opt-in
// tracing setup. With no endpoint configured it leaves Tracer as a no-op.
func InitTracing(ctx context.Context, version string) (shutdown func(context.Context) error, err error) {
	endpoint := os.Getenv("OTLP_ENDPOINT")
	if endpoint == "" {
		Tracer = noop.NewTracerProvider().Tracer(TracerName)
		return func(context.Context) error { return nil }, nil
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("tracing: creating OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	Tracer = tp.Tracer(TracerName)

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(shutdownCtx)
	}, nil
}

// StartSpan starts a span on Tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer.Start(ctx, name, opts...)
}

// RecordError records err on the span carried by ctx, if any, and marks it
// as failed.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
