package tracker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/tourguide/internal/tracker/mocks"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/user"
)

func staticRoster(users ...*user.User) RosterFunc {
	return func(context.Context) ([]*user.User, error) {
		return users, nil
	}
}

func resultFor(users []*user.User) *tracking.BatchResult {
	r := &tracking.BatchResult{Outcomes: make([]tracking.Outcome, len(users))}
	for i, u := range users {
		r.Outcomes[i] = tracking.Outcome{UserID: u.ID, UserName: u.UserName}
	}
	return r
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestTracker_RunsFirstCycleImmediately(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jon := user.New(uuid.New(), "jon", "000", "jon@tourGuide.com")
	batch := mocks.NewMockBatchTracker(ctrl)
	batch.EXPECT().TrackAll(gomock.Any(), []*user.User{jon}).DoAndReturn(
		func(_ context.Context, users []*user.User) *tracking.BatchResult {
			return resultFor(users)
		},
	).MinTimes(1)

	tr := New(staticRoster(jon), batch, WithInterval(time.Hour))
	assert.Equal(t, time.Hour, tr.Interval())
	assert.Equal(t, StateIdle, tr.State())
	assert.False(t, tr.IsCycleComplete())
	assert.Nil(t, tr.LastResult())

	require.NoError(t, tr.Start(context.Background()))
	assert.Equal(t, StateRunning, tr.State())

	require.Eventually(t, tr.IsCycleComplete, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), tr.CycleCount())
	require.NotNil(t, tr.LastResult())
	assert.Equal(t, 1, tr.LastResult().Len())

	tr.Stop()
	assert.Equal(t, StateStopped, tr.State())
	select {
	case <-tr.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

func TestTracker_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("start is idempotent while running", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var calls atomic.Int32
		batch := mocks.NewMockBatchTracker(ctrl)
		batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, []*user.User) *tracking.BatchResult {
				calls.Add(1)
				return &tracking.BatchResult{}
			},
		).AnyTimes()

		tr := New(staticRoster(), batch, WithInterval(time.Hour))
		require.NoError(t, tr.Start(context.Background()))
		require.NoError(t, tr.Start(context.Background()))
		require.Eventually(t, tr.IsCycleComplete, time.Second, 5*time.Millisecond)
		tr.Stop()

		assert.Equal(t, int32(1), calls.Load(), "a second Start must not launch a second loop")
	})

	t.Run("stopped tracker cannot restart", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := New(staticRoster(), mocks.NewMockBatchTracker(ctrl))
		tr.Stop()
		tr.Stop()

		assert.ErrorIs(t, tr.Start(context.Background()), ErrTrackerStopped)
		assert.Equal(t, StateStopped, tr.State())
	})

	t.Run("stop before start closes done", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tr := New(staticRoster(), mocks.NewMockBatchTracker(ctrl))
		tr.Stop()

		select {
		case <-tr.Done():
		case <-time.After(time.Second):
			t.Fatal("Done should be closed")
		}
	})

	t.Run("parent context cancellation ends the loop", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		batch := mocks.NewMockBatchTracker(ctrl)
		batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).Return(&tracking.BatchResult{}).AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())
		tr := New(staticRoster(), batch, WithInterval(time.Hour))
		require.NoError(t, tr.Start(ctx))
		cancel()

		select {
		case <-tr.Done():
		case <-time.After(time.Second):
			t.Fatal("loop should exit when the parent context ends")
		}
		assert.Equal(t, StateStopped, tr.State())
		assert.ErrorIs(t, tr.Start(context.Background()), ErrTrackerStopped)
		tr.Stop()
		assert.Equal(t, StateStopped, tr.State())
	})

	t.Run("repeated stop ends the schedule", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		batch := mocks.NewMockBatchTracker(ctrl)
		batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, []*user.User) *tracking.BatchResult {
				return &tracking.BatchResult{}
			},
		).MinTimes(1)

		const interval = 5 * time.Millisecond
		tr := New(staticRoster(), batch, WithInterval(interval))
		require.NoError(t, tr.Start(context.Background()))
		require.Eventually(t, func() bool {
			return tr.CycleCount() >= 1
		}, time.Second, time.Millisecond)

		tr.Stop()
		tr.Stop()
		tr.Stop()
		assert.Equal(t, StateStopped, tr.State())

		last := tr.LastResult()
		cycles := tr.CycleCount()
		time.Sleep(10 * interval)

		assert.Same(t, last, tr.LastResult())
		assert.Equal(t, cycles, tr.CycleCount())
	})
}

func TestTracker_KeepsScheduleAfterFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var rosterCalls atomic.Int32
	roster := func(context.Context) ([]*user.User, error) {
		if rosterCalls.Add(1) == 1 {
			return nil, errors.New("roster unavailable")
		}
		return nil, nil
	}

	var batchCalls atomic.Int32
	batch := mocks.NewMockBatchTracker(ctrl)
	batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []*user.User) *tracking.BatchResult {
			if batchCalls.Add(1) == 1 {
				panic("batch exploded")
			}
			return &tracking.BatchResult{}
		},
	).AnyTimes()

	tr := New(roster, batch, WithInterval(5*time.Millisecond))
	require.NoError(t, tr.Start(context.Background()))
	defer tr.Stop()

	require.Eventually(t, func() bool { return tr.CycleCount() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, rosterCalls.Load(), int32(4), "roster error and panic cycles are not counted")
}

func TestTracker_CyclesDoNotOverlap(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var running, overlaps atomic.Int32
	batch := mocks.NewMockBatchTracker(ctrl)
	batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []*user.User) *tracking.BatchResult {
			if running.Add(1) > 1 {
				overlaps.Add(1)
			}
			// each cycle overruns several intervals
			time.Sleep(15 * time.Millisecond)
			running.Add(-1)
			return &tracking.BatchResult{}
		},
	).AnyTimes()

	tr := New(staticRoster(), batch, WithInterval(2*time.Millisecond))
	require.NoError(t, tr.Start(context.Background()))
	require.Eventually(t, func() bool { return tr.CycleCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	tr.Stop()

	assert.Zero(t, overlaps.Load())
}

func TestTracker_StopLetsRunningCycleFinish(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entered := make(chan struct{})
	release := make(chan struct{})
	var ctxLive atomic.Bool

	batch := mocks.NewMockBatchTracker(ctrl)
	batch.EXPECT().TrackAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ []*user.User) *tracking.BatchResult {
			close(entered)
			<-release
			ctxLive.Store(ctx.Err() == nil)
			return &tracking.BatchResult{}
		},
	).Times(1)

	tr := New(staticRoster(), batch, WithInterval(time.Hour))
	require.NoError(t, tr.Start(context.Background()))
	<-entered

	stopped := make(chan struct{})
	go func() {
		tr.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a cycle was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the cycle finished")
	}

	assert.True(t, ctxLive.Load(), "the cycle context is not cancelled by Stop")
	assert.Equal(t, uint64(1), tr.CycleCount())
}
