// Package workerpool provides a fixed-size pool of goroutines shared by
// tracking tasks, with graceful-then-forced shutdown.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrPoolClosed is returned by Submit once shutdown has begun
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrShutdownTimeout is returned by Shutdown when running tasks outlive the grace period
	ErrShutdownTimeout = errors.New("worker pool shutdown grace period elapsed")
)

// Task is a unit of work. The context is cancelled when the pool is force-closed.
type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of workers.
//
// The hand-off channel is unbuffered: Submit blocks until a worker is free
// to take the task, so the pool never queues work it cannot start.
type Pool struct {
	size  int
	tasks chan Task

	// quit is closed when shutdown begins
	quit chan struct{}
	// abandoned is closed if shutdown had to cancel running tasks
	abandoned chan struct{}

	taskCtx     context.Context
	cancelTasks context.CancelFunc

	wg       sync.WaitGroup
	inFlight atomic.Int64

	shutdownOnce sync.Once
	shutdownErr  error
}

// New starts a pool with size workers. A size <= 0 uses runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	taskCtx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		size:        size,
		tasks:       make(chan Task),
		quit:        make(chan struct{}),
		abandoned:   make(chan struct{}),
		taskCtx:     taskCtx,
		cancelTasks: cancel,
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	slog.Debug("Worker pool started", "workers", size)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			p.run(task)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(task Task) {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Worker pool task panicked", "panic", r)
		}
	}()
	task(p.taskCtx)
}

// Submit hands task to a free worker, blocking until one accepts it.
// It returns ErrPoolClosed after shutdown began, or ctx.Err() if ctx ends first.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-p.quit:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits up to grace for running tasks to
// finish. If the grace period elapses, the task context is cancelled, the
// remaining tasks are abandoned and ErrShutdownTimeout is returned.
// Subsequent calls return the result of the first call.
func (p *Pool) Shutdown(grace time.Duration) error {
	p.shutdownOnce.Do(func() {
		close(p.quit)

		finished := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(finished)
		}()

		timer := time.NewTimer(grace)
		defer timer.Stop()

		select {
		case <-finished:
			slog.Debug("Worker pool drained")
		case <-timer.C:
			running := p.inFlight.Load()
			close(p.abandoned)
			p.shutdownErr = fmt.Errorf("%w after %s: %d tasks abandoned", ErrShutdownTimeout, grace, running)
			slog.Warn("Worker pool forced closed", "grace_period", grace, "abandoned_tasks", running)
		}
		p.cancelTasks()
	})
	return p.shutdownErr
}

// Abandoned is closed when Shutdown gave up on running tasks
func (p *Pool) Abandoned() <-chan struct{} {
	return p.abandoned
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// InFlight returns the number of tasks currently running
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}
