// Package telemetry bootstraps OpenTelemetry tracing for outbound API calls.
//
// Tracing is off unless OTEL_EXPORTER_OTLP_ENDPOINT is set. The transport
// wraps its HTTP client with otelhttp, so once a provider is installed every
// API request becomes a client span.
package telemetry

import (
	"context"
	"os"

	"github.com/dmitrijs2005/gophboard/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
)

const (
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	InsecureEnv = "OTEL_EXPORTER_OTLP_INSECURE"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider exporting over OTLP/gRPC. It never
// fails: exporter problems are logged and tracing stays disabled.
func Setup(ctx context.Context, serviceName, version string, log logging.Logger) Shutdown {
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(serviceName + "/" + version)),
	}
	if os.Getenv(InsecureEnv) == "true" {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		log.Warn(ctx, "otel exporter error, tracing disabled", "error", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		log.Warn(ctx, "otel resource error", "error", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	log.Debug(ctx, "tracing enabled", "endpoint", endpoint)

	return provider.Shutdown
}
