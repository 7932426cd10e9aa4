package tracing

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracerWithoutEndpoint(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	orig := newExporterFunc
	defer func() { newExporterFunc = orig }()
	newExporterFunc = func(context.Context, string, bool) (sdktrace.SpanExporter, error) {
		t.Fatal("exporter must not be created without an endpoint")
		return nil, nil
	}

	tp, tracer, err := InitTracer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tp.Shutdown(context.Background())
	if tracer == nil {
		t.Fatal("expected tracer")
	}
}

func TestInitTracerWithEndpoint(t *testing.T) {
	t.Setenv(EndpointEnv, "http://collector:4317")
	t.Setenv(insecureEnv, "")
	orig := newExporterFunc
	defer func() { newExporterFunc = orig }()

	exporter := tracetest.NewInMemoryExporter()
	var gotEndpoint string
	var gotInsecure bool
	newExporterFunc = func(_ context.Context, endpoint string, insecure bool) (sdktrace.SpanExporter, error) {
		gotEndpoint, gotInsecure = endpoint, insecure
		return exporter, nil
	}

	tp, tracer, err := InitTracer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, span := tracer.Start(context.Background(), "probe")
	span.End()
	defer tp.Shutdown(context.Background())
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if gotEndpoint != "collector:4317" || !gotInsecure {
		t.Fatalf("unexpected exporter args: %q insecure=%v", gotEndpoint, gotInsecure)
	}
	if len(exporter.GetSpans()) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(exporter.GetSpans()))
	}
}

func TestInitTracerExporterError(t *testing.T) {
	t.Setenv(EndpointEnv, "collector:4317")
	orig := newExporterFunc
	defer func() { newExporterFunc = orig }()
	newExporterFunc = func(context.Context, string, bool) (sdktrace.SpanExporter, error) {
		return nil, errors.New("boom")
	}

	if _, _, err := InitTracer(context.Background()); err == nil {
		t.Fatal("expected exporter error")
	}
}
