package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewTrackingMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewTrackingMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("nil metrics record nothing", func(t *testing.T) {
		t.Parallel()

		var metrics *TrackingMetrics
		metrics.RecordCycleDuration(context.Background(), time.Second, true)
		metrics.RecordUsersTracked(context.Background(), 3, true)
		metrics.RecordRewardsGranted(context.Background(), 2)
	})
}

func TestTrackingMetrics_Record(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewTrackingMetrics(mp)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	metrics.RecordCycleDuration(ctx, 1500*time.Millisecond, true)
	metrics.RecordUsersTracked(ctx, 8, true)
	metrics.RecordUsersTracked(ctx, 2, false)
	metrics.RecordUsersTracked(ctx, 0, false)
	metrics.RecordRewardsGranted(ctx, 5)
	metrics.RecordRewardsGranted(ctx, 0)

	got := collect(t, reader)

	hist, ok := got["tourguide_cycle_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 1.5, hist.DataPoints[0].Sum, 1e-9)

	users, ok := got["tourguide_users_tracked_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	bySuccess := map[bool]int64{}
	for _, dp := range users.DataPoints {
		v, found := dp.Attributes.Value(attribute.Key("success"))
		require.True(t, found)
		bySuccess[v.AsBool()] = dp.Value
	}
	assert.Equal(t, map[bool]int64{true: 8, false: 2}, bySuccess)

	rewards, ok := got["tourguide_rewards_granted_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rewards.DataPoints, 1)
	assert.Equal(t, int64(5), rewards.DataPoints[0].Value)
}
