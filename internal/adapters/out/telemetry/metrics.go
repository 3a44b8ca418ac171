package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// MeterName is the instrumentation scope of every ephemera instrument.
const MeterName = "github.com/bnema/ephemera"

var _ out.LifecycleRecorder = (*Metrics)(nil)

// Metrics holds the ephemera OTel instruments.
type Metrics struct {
	// Container lifecycle
	ContainerStarts   metric.Int64Counter
	StartErrors       metric.Int64Counter
	StartDuration     metric.Float64Histogram
	ReadinessDuration metric.Float64Histogram
	RunningContainers metric.Int64UpDownCounter
	ContainersRemoved metric.Int64Counter
	LeakedResources   metric.Int64Counter

	// Events
	EventsProcessed metric.Int64Counter
	EventsDropped   metric.Int64Counter
}

// NewMetrics registers the instruments on the global MeterProvider.
// OTel hands out noop instruments until a provider is installed, so the
// returned Metrics is always usable.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(MeterName))
}

// NewMetricsWithMeter registers the instruments on meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ContainerStarts, err = meter.Int64Counter("ephemera.container.starts",
		metric.WithDescription("Containers that reached the ready state")); err != nil {
		return nil, err
	}
	if m.StartErrors, err = meter.Int64Counter("ephemera.container.start_errors",
		metric.WithDescription("Container starts that failed, by stage")); err != nil {
		return nil, err
	}
	if m.StartDuration, err = meter.Float64Histogram("ephemera.container.start.duration_seconds",
		metric.WithDescription("Time from start request to ready"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120)); err != nil {
		return nil, err
	}
	if m.ReadinessDuration, err = meter.Float64Histogram("ephemera.container.readiness.duration_seconds",
		metric.WithDescription("Time spent in wait strategies"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60)); err != nil {
		return nil, err
	}
	if m.RunningContainers, err = meter.Int64UpDownCounter("ephemera.container.running",
		metric.WithDescription("Containers currently ready and not yet removed")); err != nil {
		return nil, err
	}
	if m.ContainersRemoved, err = meter.Int64Counter("ephemera.container.removed",
		metric.WithDescription("Containers removed after use")); err != nil {
		return nil, err
	}
	if m.LeakedResources, err = meter.Int64Counter("ephemera.teardown.leaked",
		metric.WithDescription("Resources teardown failed to reclaim")); err != nil {
		return nil, err
	}
	if m.EventsProcessed, err = meter.Int64Counter("ephemera.events.processed",
		metric.WithDescription("Total events processed")); err != nil {
		return nil, err
	}
	if m.EventsDropped, err = meter.Int64Counter("ephemera.events.dropped",
		metric.WithDescription("Total events dropped")); err != nil {
		return nil, err
	}

	return m, nil
}

// ContainerReady records a container that passed its readiness checks.
func (m *Metrics) ContainerReady(ctx context.Context, image string, startup, readiness time.Duration) {
	attrs := metric.WithAttributes(attribute.String("image", image))
	m.ContainerStarts.Add(ctx, 1, attrs)
	m.StartDuration.Record(ctx, startup.Seconds(), attrs)
	m.ReadinessDuration.Record(ctx, readiness.Seconds(), attrs)
	m.RunningContainers.Add(ctx, 1, attrs)
}

// ContainerFailed records a start that failed at stage.
func (m *Metrics) ContainerFailed(ctx context.Context, image string, stage domain.State) {
	m.StartErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("image", image),
		attribute.String("stage", string(stage)),
	))
}

// ContainerRemoved records the removal of a ready container.
func (m *Metrics) ContainerRemoved(ctx context.Context, image string) {
	attrs := metric.WithAttributes(attribute.String("image", image))
	m.ContainersRemoved.Add(ctx, 1, attrs)
	m.RunningContainers.Add(ctx, -1, attrs)
}

// ResourcesLeaked records resources a teardown could not reclaim.
func (m *Metrics) ResourcesLeaked(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.LeakedResources.Add(ctx, int64(count))
}
