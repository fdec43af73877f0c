// Package tracker runs tracking batches over the user roster on a fixed schedule.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/tourguide/internal/otel"
	"github.com/stacklok/tourguide/internal/telemetry"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/user"
)

// DefaultInterval is the time between cycle starts
const DefaultInterval = time.Minute

// ErrTrackerStopped is returned by Start once the tracker has been stopped
var ErrTrackerStopped = errors.New("tracker is stopped")

// RosterFunc returns the users to track in a cycle
type RosterFunc func(ctx context.Context) ([]*user.User, error)

// BatchTracker tracks a batch of users and joins the outcomes.
//
//go:generate mockgen -destination=mocks/mock_batch_tracker.go -package=mocks -source=tracker.go BatchTracker
type BatchTracker interface {
	TrackAll(ctx context.Context, users []*user.User) *tracking.BatchResult
}

// State is the lifecycle state of a Tracker
type State int32

// Tracker states
const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Tracker runs one tracking cycle immediately on Start and then one per
// interval. Cycles never overlap: ticks that arrive while a cycle runs are
// coalesced, so an overrunning cycle is followed at once by the next.
type Tracker struct {
	roster   RosterFunc
	batch    BatchTracker
	interval time.Duration
	tracer   trace.Tracer

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	inCycle atomic.Bool
	cycles  atomic.Uint64
	last    atomic.Pointer[tracking.BatchResult]
}

// Option configures a Tracker
type Option func(*Tracker)

// WithInterval sets the time between cycle starts. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTracer records a span per cycle
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Tracker) {
		t.tracer = tracer
	}
}

// New creates an idle Tracker
func New(roster RosterFunc, batch BatchTracker, opts ...Option) *Tracker {
	t := &Tracker{
		roster:   roster,
		batch:    batch,
		interval: DefaultInterval,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start launches the schedule and returns immediately. Calling Start on a
// running tracker does nothing; a stopped tracker cannot be restarted.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateRunning:
		return nil
	case StateStopped:
		return ErrTrackerStopped
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.state = StateRunning
	go t.loop(loopCtx)
	return nil
}

// Stop ends the schedule and waits for the loop to exit. A cycle in progress
// is allowed to finish its batch first. Stop may be called repeatedly, and
// before Start.
func (t *Tracker) Stop() {
	t.mu.Lock()
	prev := t.state
	t.state = StateStopped
	if prev == StateIdle {
		close(t.done)
	} else if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()

	<-t.done
}

func (t *Tracker) loop(ctx context.Context) {
	defer close(t.done)
	defer func() {
		// a loop that exited is never restarted
		t.mu.Lock()
		t.state = StateStopped
		t.mu.Unlock()
		slog.Info("Tracker stopped", "cycles", t.cycles.Load())
	}()
	slog.Info("Tracker started", "interval", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.runCycle(ctx)
	for {
		// a pending stop wins over a pending tick
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ticker.C:
			t.runCycle(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (t *Tracker) runCycle(ctx context.Context) {
	t.inCycle.Store(true)
	defer t.inCycle.Store(false)

	cycle := t.cycles.Load() + 1
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tracker cycle panicked", "cycle", cycle, "panic", r)
		}
	}()

	// Stop must not cut the batch join short
	cycleCtx, span := otel.StartSpan(context.WithoutCancel(ctx), t.tracer, telemetry.CycleSpanName,
		trace.WithAttributes(otel.AttrCycle.Int64(int64(cycle))),
	)
	defer span.End()

	start := time.Now()
	users, err := t.roster(cycleCtx)
	if err != nil {
		otel.RecordError(span, err)
		slog.Error("Tracker failed to load roster", "cycle", cycle, "error", err)
		return
	}

	slog.Debug("Tracker cycle starting", "cycle", cycle, "users", len(users))
	result := t.batch.TrackAll(cycleCtx, users)
	if result == nil {
		result = &tracking.BatchResult{}
	}
	t.last.Store(result)
	t.cycles.Add(1)

	failed := len(result.Failed())
	if failed > 0 {
		otel.RecordError(span, result.Err())
	}
	slog.Info("Tracker cycle complete",
		"cycle", cycle,
		"users", result.Len(),
		"failed", failed,
		"rewards_granted", result.RewardsGranted(),
		"duration", time.Since(start),
	)
}

// State returns the current lifecycle state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Interval returns the configured time between cycle starts
func (t *Tracker) Interval() time.Duration {
	return t.interval
}

// IsCycleComplete reports whether at least one cycle has completed and none is running
func (t *Tracker) IsCycleComplete() bool {
	return t.cycles.Load() > 0 && !t.inCycle.Load()
}

// CycleCount returns the number of completed cycles
func (t *Tracker) CycleCount() uint64 {
	return t.cycles.Load()
}

// LastResult returns the result of the most recent completed cycle, or nil
func (t *Tracker) LastResult() *tracking.BatchResult {
	return t.last.Load()
}

// Done is closed when the tracker loop has exited
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}
