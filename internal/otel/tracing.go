// Package otel wires the global OpenTelemetry tracer provider from the
// standard OTEL_* environment variables.
package otel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "tabgate"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// settings is the tracing configuration read from the environment.
type settings struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

func settingsFromEnv() settings {
	s := settings{
		Disabled:    os.Getenv("OTEL_SDK_DISABLED") == "true",
		ServiceName: getEnv("OTEL_SERVICE_NAME", defaultServiceName),
		Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		Sampler:     getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
		SamplerArg:  getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
	}
	if s.Endpoint == "" {
		s.Endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	return s
}

// Init installs the W3C propagators and, unless OTEL_SDK_DISABLED=true, a
// batching OTLP tracer provider. An exporter that cannot be built degrades to
// the global no-op provider rather than failing startup.
func Init(ctx context.Context, log *slog.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	s := settingsFromEnv()
	if s.Disabled {
		log.Info("tracing_configured", "tracing_enabled", false)
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(s.ServiceName)),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(ctx, s.Protocol)
	if err != nil {
		log.Error("tracing_init_failed", "error", err)
		return noopShutdown, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(parseSampler(s.Sampler, s.SamplerArg)),
	)
	otel.SetTracerProvider(tp)

	log.Info("tracing_configured",
		"tracing_enabled", true,
		"otlp_protocol", s.Protocol,
		"otlp_endpoint", s.Endpoint,
		"sampler", s.Sampler,
		"sampler_arg", s.SamplerArg,
	)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, protocol string) (*otlptrace.Exporter, error) {
	switch protocol {
	case "grpc":
		return otlptracegrpc.New(ctx)
	case "http/protobuf":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseRatio(arg string) float64 {
	r, err := strconv.ParseFloat(arg, 64)
	if err != nil || r < 0 || r > 1 {
		return 1.0
	}
	return r
}

// parseSampler maps OTEL_TRACES_SAMPLER names to SDK samplers.
// Unknown names sample everything under a parent-based policy.
func parseSampler(name, arg string) trace.Sampler {
	switch name {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(parseRatio(arg))
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(parseRatio(arg)))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}
