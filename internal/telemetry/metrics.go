package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// TrackingMetricsMeterName is the meter name for location tracking instruments
	TrackingMetricsMeterName = "github.com/stacklok/tourguide/tracking"

	// TrackingTracerName is the tracer name for batch and cycle spans
	TrackingTracerName = "github.com/stacklok/tourguide/tracking"

	// CycleSpanName names the span of one scheduled tracker cycle
	CycleSpanName = "tracker.cycle"

	// BatchSpanName names the span of one tracking batch
	BatchSpanName = "tracking.TrackAll"
)

// TrackingMetrics holds the instruments recorded by tracking batches.
// A nil *TrackingMetrics is valid and records nothing.
type TrackingMetrics struct {
	cycleDuration  metric.Float64Histogram
	usersTracked   metric.Int64Counter
	rewardsGranted metric.Int64Counter
}

// NewTrackingMetrics creates the tracking instruments. A nil provider yields nil metrics.
func NewTrackingMetrics(provider metric.MeterProvider) (*TrackingMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(TrackingMetricsMeterName)

	cycleDuration, err := meter.Float64Histogram(
		"tourguide_cycle_duration_seconds",
		metric.WithDescription("Duration of a tracking batch in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 900, 1200),
	)
	if err != nil {
		return nil, err
	}

	usersTracked, err := meter.Int64Counter(
		"tourguide_users_tracked_total",
		metric.WithDescription("Number of users processed by tracking batches"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	rewardsGranted, err := meter.Int64Counter(
		"tourguide_rewards_granted_total",
		metric.WithDescription("Number of rewards granted"),
		metric.WithUnit("{reward}"),
	)
	if err != nil {
		return nil, err
	}

	return &TrackingMetrics{
		cycleDuration:  cycleDuration,
		usersTracked:   usersTracked,
		rewardsGranted: rewardsGranted,
	}, nil
}

// RecordCycleDuration records how long a batch took. success is false when any user failed.
func (m *TrackingMetrics) RecordCycleDuration(ctx context.Context, duration time.Duration, success bool) {
	if m == nil || m.cycleDuration == nil {
		return
	}
	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordUsersTracked adds count users with the given outcome
func (m *TrackingMetrics) RecordUsersTracked(ctx context.Context, count int, success bool) {
	if m == nil || m.usersTracked == nil || count <= 0 {
		return
	}
	m.usersTracked.Add(ctx, int64(count), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordRewardsGranted adds newly granted rewards
func (m *TrackingMetrics) RecordRewardsGranted(ctx context.Context, count int) {
	if m == nil || m.rewardsGranted == nil || count <= 0 {
		return
	}
	m.rewardsGranted.Add(ctx, int64(count))
}
