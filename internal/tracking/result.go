package tracking

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/user"
)

// Stage names the step of a tracking task that failed
type Stage string

// Tracking task stages
const (
	StageAttractions Stage = "attractions"
	StageSubmit      Stage = "submit"
	StageLocate      Stage = "locate"
	StageReward      Stage = "reward"
	StagePanic       Stage = "panic"
	StageAbandoned   Stage = "abandoned"
)

// TaskError is the failure of one user's tracking task
type TaskError struct {
	UserID   uuid.UUID
	UserName string
	Stage    Stage
	Err      error
}

func newTaskError(u *user.User, stage Stage, err error) *TaskError {
	return &TaskError{UserID: u.ID, UserName: u.UserName, Stage: stage, Err: err}
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("tracking user %s failed at %s: %v", e.UserName, e.Stage, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Outcome is the settled result for one user of a batch
type Outcome struct {
	UserID         uuid.UUID
	UserName       string
	Location       gps.VisitedLocation
	RewardsGranted int
	Err            error
}

// BatchResult holds one Outcome per input user, in input order.
// It is safe to read once TrackAll has returned.
type BatchResult struct {
	Outcomes []Outcome
	Duration time.Duration

	mu      sync.Mutex
	settled []bool
	sealed  bool
}

func newBatchResult(users []*user.User) *BatchResult {
	r := &BatchResult{
		Outcomes: make([]Outcome, len(users)),
		settled:  make([]bool, len(users)),
	}
	for i, u := range users {
		r.Outcomes[i] = Outcome{UserID: u.ID, UserName: u.UserName}
	}
	return r
}

func (r *BatchResult) settle(i int, visited gps.VisitedLocation, granted int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed || r.settled[i] {
		return
	}
	r.settled[i] = true
	r.Outcomes[i].Location = visited
	r.Outcomes[i].RewardsGranted = granted
	r.Outcomes[i].Err = err
}

// abandon fails every unsettled outcome with err and returns how many there were.
func (r *BatchResult) abandon(err error) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.Outcomes {
		if r.settled[i] {
			continue
		}
		r.settled[i] = true
		r.Outcomes[i].Err = &TaskError{
			UserID:   r.Outcomes[i].UserID,
			UserName: r.Outcomes[i].UserName,
			Stage:    StageAbandoned,
			Err:      err,
		}
		n++
	}
	r.sealed = true
	return n
}

func (r *BatchResult) seal(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	r.Duration = d
}

// Len returns the number of users in the batch
func (r *BatchResult) Len() int {
	return len(r.Outcomes)
}

// Succeeded returns the number of users tracked without error
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error
func (r *BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// RewardsGranted returns the number of rewards granted across the batch
func (r *BatchResult) RewardsGranted() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.RewardsGranted
	}
	return total
}

// Err joins every per-user failure, or returns nil when all users succeeded
func (r *BatchResult) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
