package rewardcentral

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_GetAttractionRewardPoints(t *testing.T) {
	t.Parallel()

	sim := NewSimulator()
	for range 500 {
		points, err := sim.GetAttractionRewardPoints(context.Background(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, points, minRewardPoints)
		assert.LessOrEqual(t, points, maxRewardPoints)
	}
}

func TestSimulator_LatencyHonoursContext(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.GetAttractionRewardPoints(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_Latency(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(WithLatency(20 * time.Millisecond))
	start := time.Now()
	_, err := sim.GetAttractionRewardPoints(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
