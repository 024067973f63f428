// Package telemetry wires the OpenTelemetry SDK into the service and the
// shared tracing helpers.
package telemetry

import (
	"context"

	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Init configures the global tracer provider and registers the tracer used
// by repository and engine spans. The returned shutdown func flushes any
// pending spans and must be called on exit.
func Init(serviceName string) (func(context.Context) error, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(serviceName))

	return tp.Shutdown, nil
}

// Middleware returns the echo middleware that opens a server span per
// request.
func Middleware(serviceName string) echo.MiddlewareFunc {
	return otelecho.Middleware(serviceName)
}
