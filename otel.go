package gameplaytags

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mkislenko/com.radiodecadance.gameplaytags"

// otelMetrics holds the metric instruments for registry builds.
// They are created once in NewRegistry and reused for every build.
type otelMetrics struct {
	// buildCounter increments for each completed build
	buildCounter metric.Int64Counter

	// buildDuration records build duration in milliseconds
	buildDuration metric.Float64Histogram

	// tagGauge reports the tag count of the latest build, split by kind
	tagGauge metric.Int64Gauge

	// collisionCounter counts registrations dropped on hash collision
	collisionCounter metric.Int64Counter
}

// initOTelMetrics creates the metric instruments. It returns nil when no
// MeterProvider was configured.
func initOTelMetrics(mp metric.MeterProvider) (*otelMetrics, error) {
	if mp == nil {
		return nil, nil
	}

	meter := mp.Meter(instrumentationName)
	m := &otelMetrics{}
	var err error

	m.buildCounter, err = meter.Int64Counter(
		"gameplaytags.build.count",
		metric.WithDescription("Number of registry builds performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create build counter: %w", err)
	}

	m.buildDuration, err = meter.Float64Histogram(
		"gameplaytags.build.duration",
		metric.WithDescription("Registry build duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create build duration histogram: %w", err)
	}

	m.tagGauge, err = meter.Int64Gauge(
		"gameplaytags.tags",
		metric.WithDescription("Number of tags known to the registry"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tag gauge: %w", err)
	}

	m.collisionCounter, err = meter.Int64Counter(
		"gameplaytags.collisions",
		metric.WithDescription("Tag registrations dropped because of a hash collision"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create collision counter: %w", err)
	}

	return m, nil
}

// startBuildSpan opens the build span if a tracer is configured.
func (r *Registry) startBuildSpan(ctx context.Context, inputs int) (context.Context, trace.Span) {
	if r.cfg.tracer == nil {
		return ctx, nil
	}
	ctx, span := r.cfg.tracer.Start(ctx, "gameplaytags.build")
	span.SetAttributes(attribute.Int("gameplaytags.input_paths", inputs))
	return ctx, span
}

// recordBuild finishes the build span and records metrics. Both halves
// are skipped silently when not configured.
func (r *Registry) recordBuild(ctx context.Context, span trace.Span, stats Stats, elapsed time.Duration, buildErr error) {
	if span != nil {
		span.SetAttributes(
			attribute.String("gameplaytags.generation", stats.Generation.String()),
			attribute.Int("gameplaytags.explicit", stats.Explicit),
			attribute.Int("gameplaytags.implicit", stats.Implicit),
			attribute.Int("gameplaytags.collisions", stats.Collisions),
		)
		if buildErr != nil {
			span.RecordError(buildErr)
			span.SetStatus(codes.Error, buildErr.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	if r.metrics == nil {
		return
	}

	r.metrics.buildCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("error", buildErr != nil)))
	r.metrics.buildDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0)
	r.metrics.tagGauge.Record(ctx, int64(stats.Explicit),
		metric.WithAttributes(attribute.String("kind", "explicit")))
	r.metrics.tagGauge.Record(ctx, int64(stats.Implicit),
		metric.WithAttributes(attribute.String("kind", "implicit")))
	if stats.Collisions > 0 {
		r.metrics.collisionCounter.Add(ctx, int64(stats.Collisions))
	}
}
