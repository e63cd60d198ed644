// Package telemetry configures OpenTelemetry tracing for the replay tool.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceVersion = "0.1.0"

// Setup registers a global tracer provider exporting over OTLP HTTP.
// Exporter endpoint and headers come from the standard OTEL_* environment variables.
// The returned function flushes and stops the provider.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("tictactoe-reducer/" + name)
}

func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("tictactoe-reducer/noop")
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
