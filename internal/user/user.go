// Package user holds tracked users and their location and reward history.
//
// A User owns its mutable state behind a per-user mutex. Readers receive
// copies; multi-step read-check-append sequences go through WithLock so that
// the lock scope is explicit at the call site.
package user

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stacklok/tourguide/internal/gps"
)

// Reward is granted once per attraction name for a user
type Reward struct {
	VisitedLocation gps.VisitedLocation `json:"visitedLocation"`
	Attraction      gps.Attraction      `json:"attraction"`
	RewardPoints    int                 `json:"rewardPoints"`
}

// User is a tracked subject
type User struct {
	ID           uuid.UUID
	UserName     string
	PhoneNumber  string
	EmailAddress string

	mu               sync.Mutex
	visitedLocations []gps.VisitedLocation
	rewards          []Reward
}

// New creates a user with empty history
func New(id uuid.UUID, userName, phoneNumber, emailAddress string) *User {
	return &User{
		ID:           id,
		UserName:     userName,
		PhoneNumber:  phoneNumber,
		EmailAddress: emailAddress,
	}
}

// AddVisitedLocation appends a location to the user's history
func (u *User) AddVisitedLocation(v gps.VisitedLocation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visitedLocations = append(u.visitedLocations, v)
}

// VisitedLocations returns a copy of the history in insertion order
func (u *User) VisitedLocations() []gps.VisitedLocation {
	u.mu.Lock()
	defer u.mu.Unlock()
	return cloneLocations(u.visitedLocations)
}

// LastVisitedLocation returns the most recent location, if any
func (u *User) LastVisitedLocation() (gps.VisitedLocation, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.visitedLocations) == 0 {
		return gps.VisitedLocation{}, false
	}
	return u.visitedLocations[len(u.visitedLocations)-1], true
}

// Rewards returns a copy of the granted rewards
func (u *User) Rewards() []Reward {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Reward, len(u.rewards))
	copy(out, u.rewards)
	return out
}

// AddReward appends r unless a reward for the same attraction name exists.
// It reports whether the reward was added.
func (u *User) AddReward(r Reward) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.addRewardLocked(r)
}

// TotalRewardPoints sums the points of all granted rewards
func (u *User) TotalRewardPoints() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	total := 0
	for _, r := range u.rewards {
		total += r.RewardPoints
	}
	return total
}

// WithLock runs fn while holding the user's exclusive lock.
// The Locked handle must not be retained after fn returns.
func (u *User) WithLock(fn func(l *Locked) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(&Locked{u: u})
}

func (u *User) hasRewardForLocked(attractionName string) bool {
	for _, r := range u.rewards {
		if r.Attraction.Name == attractionName {
			return true
		}
	}
	return false
}

func (u *User) addRewardLocked(r Reward) bool {
	if u.hasRewardForLocked(r.Attraction.Name) {
		return false
	}
	u.rewards = append(u.rewards, r)
	return true
}

// Locked is a view of a User valid only inside WithLock
type Locked struct {
	u *User
}

// User returns the locked user
func (l *Locked) User() *User {
	return l.u
}

// AddVisitedLocation appends to the history
func (l *Locked) AddVisitedLocation(v gps.VisitedLocation) {
	l.u.visitedLocations = append(l.u.visitedLocations, v)
}

// VisitedLocations returns a copy of the history
func (l *Locked) VisitedLocations() []gps.VisitedLocation {
	return cloneLocations(l.u.visitedLocations)
}

// HasRewardFor reports whether a reward exists for the attraction name
func (l *Locked) HasRewardFor(attractionName string) bool {
	return l.u.hasRewardForLocked(attractionName)
}

// AddReward appends r unless a reward for the same attraction name exists
func (l *Locked) AddReward(r Reward) bool {
	return l.u.addRewardLocked(r)
}

// RewardCount returns the number of granted rewards
func (l *Locked) RewardCount() int {
	return len(l.u.rewards)
}

func cloneLocations(in []gps.VisitedLocation) []gps.VisitedLocation {
	out := make([]gps.VisitedLocation, len(in))
	copy(out, in)
	return out
}
