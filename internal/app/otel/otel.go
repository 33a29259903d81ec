package otel

import (
	"context"
	"errors"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Config struct {
	// ServiceName is reported as service.name on every span
	ServiceName string `conf:"default:graphql-persist" yaml:"service_name"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "graphql-persist",
	}
}

// SetupOTelSDK installs a global tracer provider whose exporter is picked by the
// OTEL_TRACES_EXPORTER environment variable. The returned function flushes and stops it.
func SetupOTelSDK(ctx context.Context, cfg Config, version string) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	handleErr := func(inErr error) {
		err = errors.Join(inErr, shutdown(ctx))
	}

	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	tracerProvider, err := newTraceProvider(ctx, cfg, version)
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	return
}

func newTraceProvider(ctx context.Context, cfg Config, version string) (*trace.TracerProvider, error) {
	traceExporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, err
	}

	traceProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(newResource(cfg, version)),
	)
	return traceProvider, nil
}

func newResource(cfg Config, version string) *resource.Resource {
	name := cfg.ServiceName
	if name == "" {
		name = DefaultConfig().ServiceName
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersionKey.String(version),
	)
}
