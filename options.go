package gameplaytags

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Registry.
type Option func(*registryConfig)

// registryConfig holds configuration for a Registry instance.
type registryConfig struct {
	source        Source
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
}

// WithSource sets the tag universe used by Reload and by the lazy build
// triggered when the registry is queried before any Build.
func WithSource(src Source) Option {
	return func(c *registryConfig) {
		c.source = src
	}
}

// WithPaths is shorthand for WithSource(StaticSource(paths...)).
func WithPaths(paths ...string) Option {
	return WithSource(StaticSource(paths))
}

// WithLogger sets a custom logger for the registry.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Each build is recorded as a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *registryConfig) {
		c.tracer = tracer
	}
}

// WithMeterProvider enables build metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *registryConfig) {
		c.meterProvider = mp
	}
}
