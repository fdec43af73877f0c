// Package tracking fans location tracking for many users out over a shared
// worker pool and joins the per-user outcomes.
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/otel"
	"github.com/stacklok/tourguide/internal/telemetry"
	"github.com/stacklok/tourguide/internal/user"
	"github.com/stacklok/tourguide/internal/workerpool"
)

// RewardMatcher grants rewards for a user's visited locations.
// *rewards.Service implements it.
type RewardMatcher interface {
	CalculateRewards(ctx context.Context, u *user.User) (int, error)
	MatchLocked(ctx context.Context, l *user.Locked, attractions []gps.Attraction) (int, error)
}

// Coordinator tracks users one at a time or in pooled batches.
type Coordinator struct {
	pool     *workerpool.Pool
	provider gps.Provider
	rewards  RewardMatcher
	metrics  *telemetry.TrackingMetrics
	tracer   trace.Tracer
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithTrackingMetrics records batch metrics
func WithTrackingMetrics(m *telemetry.TrackingMetrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithTracer records a span per batch
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = t
	}
}

// NewCoordinator creates a Coordinator that runs batch tasks on pool.
func NewCoordinator(pool *workerpool.Pool, provider gps.Provider, rewards RewardMatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		pool:     pool,
		provider: provider,
		rewards:  rewards,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TrackUser fetches the user's current location, appends it to the history
// and evaluates rewards over the full history. It runs on the caller's goroutine.
func (c *Coordinator) TrackUser(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	visited, err := c.provider.GetUserLocation(ctx, u.ID)
	if err != nil {
		return gps.VisitedLocation{}, newTaskError(u, StageLocate, err)
	}
	u.AddVisitedLocation(visited)

	granted, err := c.rewards.CalculateRewards(ctx, u)
	c.metrics.RecordRewardsGranted(ctx, granted)
	if err != nil {
		return visited, newTaskError(u, StageReward, err)
	}
	return visited, nil
}

// TrackAll tracks every user concurrently on the pool and blocks until each
// submitted task has settled. Per-user failures are reported in the result
// and never stop the other users.
//
// One attraction snapshot is taken per batch and shared by every task. If the
// pool is force-closed while the batch is waiting, unsettled users are
// reported as failed with workerpool.ErrShutdownTimeout and late results are
// discarded.
func (c *Coordinator) TrackAll(ctx context.Context, users []*user.User) *BatchResult {
	result := newBatchResult(users)
	if len(users) == 0 {
		return result
	}

	start := time.Now()
	ctx, span := otel.StartSpan(ctx, c.tracer, telemetry.BatchSpanName,
		trace.WithAttributes(otel.AttrUserCount.Int(len(users))),
	)
	defer span.End()

	attractions, err := c.provider.GetAttractions(ctx)
	if err != nil {
		err = fmt.Errorf("failed to get attractions: %w", err)
		for i, u := range users {
			result.settle(i, gps.VisitedLocation{}, 0, newTaskError(u, StageAttractions, err))
		}
		otel.RecordError(span, err)
		c.finish(ctx, span, result, start)
		return result
	}
	span.SetAttributes(otel.AttrAttractionSize.Int(len(attractions)))

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		submitErr := c.pool.Submit(ctx, func(taskCtx context.Context) {
			defer wg.Done()
			runCtx, cancel := mergeCancel(ctx, taskCtx)
			defer cancel()

			visited, granted, err := c.trackWithSnapshot(runCtx, u, attractions)
			result.settle(i, visited, granted, err)
		})
		if submitErr != nil {
			wg.Done()
			result.settle(i, gps.VisitedLocation{}, 0, newTaskError(u, StageSubmit, submitErr))
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-c.pool.Abandoned():
		abandoned := result.abandon(workerpool.ErrShutdownTimeout)
		slog.Warn("Tracking batch abandoned by pool shutdown", "unsettled_users", abandoned)
	}

	c.finish(ctx, span, result, start)
	return result
}

func (c *Coordinator) trackWithSnapshot(
	ctx context.Context,
	u *user.User,
	attractions []gps.Attraction,
) (visited gps.VisitedLocation, granted int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newTaskError(u, StagePanic, fmt.Errorf("panic: %v", r))
		}
	}()

	visited, err = c.provider.GetUserLocation(ctx, u.ID)
	if err != nil {
		return gps.VisitedLocation{}, 0, newTaskError(u, StageLocate, err)
	}

	err = u.WithLock(func(l *user.Locked) error {
		l.AddVisitedLocation(visited)
		var matchErr error
		granted, matchErr = c.rewards.MatchLocked(ctx, l, attractions)
		return matchErr
	})
	if err != nil {
		return visited, granted, newTaskError(u, StageReward, err)
	}
	return visited, granted, nil
}

func (c *Coordinator) finish(ctx context.Context, span trace.Span, result *BatchResult, start time.Time) {
	result.seal(time.Since(start))

	failed := len(result.Failed())
	succeeded := result.Succeeded()
	granted := result.RewardsGranted()

	span.SetAttributes(
		otel.AttrFailedCount.Int(failed),
		otel.AttrRewardCount.Int(granted),
	)

	c.metrics.RecordCycleDuration(ctx, result.Duration, failed == 0)
	c.metrics.RecordUsersTracked(ctx, succeeded, true)
	c.metrics.RecordUsersTracked(ctx, failed, false)
	c.metrics.RecordRewardsGranted(ctx, granted)

	slog.Debug("Tracking batch complete",
		"users", result.Len(),
		"failed", failed,
		"rewards_granted", granted,
		"duration", result.Duration,
	)
}

// mergeCancel returns a context derived from parent that is also cancelled when other is.
func mergeCancel(parent, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
