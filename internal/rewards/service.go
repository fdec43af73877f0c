// Package rewards grants attraction rewards to users based on their visited locations.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/stacklok/tourguide/internal/geo"
	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/rewardcentral"
	"github.com/stacklok/tourguide/internal/user"
)

const (
	// DefaultProximityBufferMiles is the distance under which a visit counts as being at an attraction
	DefaultProximityBufferMiles = 10.0

	// DefaultAttractionProximityRangeMiles bounds IsWithinAttractionProximity
	DefaultAttractionProximityRangeMiles = 200.0
)

// AttractionSource supplies the attraction catalog
type AttractionSource interface {
	GetAttractions(ctx context.Context) ([]gps.Attraction, error)
}

// LookupError is returned when the reward-points service fails for a user/attraction pair
type LookupError struct {
	UserID         uuid.UUID
	AttractionID   uuid.UUID
	AttractionName string
	Err            error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("reward points lookup failed for user %s at %q: %v", e.UserID, e.AttractionName, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Option configures a Service
type Option func(*Service)

// WithProximityBuffer sets the default proximity buffer in miles
func WithProximityBuffer(miles float64) Option {
	return func(s *Service) {
		s.defaultBuffer = miles
	}
}

// WithAttractionProximityRange sets the range used by IsWithinAttractionProximity
func WithAttractionProximityRange(miles float64) Option {
	return func(s *Service) {
		s.attractionRange = miles
	}
}

// Service matches visited locations against attractions and records rewards
type Service struct {
	source          AttractionSource
	scorer          rewardcentral.Scorer
	defaultBuffer   float64
	attractionRange float64

	// buffer holds the float64 bits of the current proximity buffer
	buffer atomic.Uint64
}

// NewService creates a rewards service
func NewService(source AttractionSource, scorer rewardcentral.Scorer, opts ...Option) *Service {
	s := &Service{
		source:          source,
		scorer:          scorer,
		defaultBuffer:   DefaultProximityBufferMiles,
		attractionRange: DefaultAttractionProximityRangeMiles,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buffer.Store(math.Float64bits(s.defaultBuffer))
	return s
}

// SetProximityBuffer changes the buffer used by subsequent evaluations
func (s *Service) SetProximityBuffer(miles float64) {
	s.buffer.Store(math.Float64bits(miles))
}

// ResetProximityBuffer restores the configured default buffer
func (s *Service) ResetProximityBuffer() {
	s.buffer.Store(math.Float64bits(s.defaultBuffer))
}

// ProximityBuffer returns the current buffer in miles
func (s *Service) ProximityBuffer() float64 {
	return math.Float64frombits(s.buffer.Load())
}

// CalculateRewards evaluates the user's full history against a freshly
// fetched catalog. It returns the number of rewards granted.
func (s *Service) CalculateRewards(ctx context.Context, u *user.User) (int, error) {
	attractions, err := s.source.GetAttractions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get attractions: %w", err)
	}
	return s.MatchRewards(ctx, u, attractions)
}

// MatchRewards evaluates the user's history against a caller-supplied
// attraction snapshot while holding the user's lock.
func (s *Service) MatchRewards(ctx context.Context, u *user.User, attractions []gps.Attraction) (int, error) {
	var granted int
	err := u.WithLock(func(l *user.Locked) error {
		var matchErr error
		granted, matchErr = s.MatchLocked(ctx, l, attractions)
		return matchErr
	})
	return granted, err
}

// MatchLocked grants rewards for a user whose lock is already held.
//
// Positions form the outer loop and attractions the inner loop. The name
// dedup check runs before the distance check, so the first qualifying
// position wins for each attraction. A failed points lookup skips that
// attraction; the remaining attractions are still evaluated and all failures
// are returned joined.
func (s *Service) MatchLocked(ctx context.Context, l *user.Locked, attractions []gps.Attraction) (int, error) {
	buffer := s.ProximityBuffer()
	u := l.User()

	var (
		granted int
		errs    []error
	)
	failed := make(map[string]bool)

	for _, visited := range l.VisitedLocations() {
		for _, attraction := range attractions {
			if failed[attraction.Name] || l.HasRewardFor(attraction.Name) {
				continue
			}
			if !geo.WithinRange(visited.Location, attraction.Location, buffer) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return granted, errors.Join(append(errs, err)...)
			}

			points, err := s.scorer.GetAttractionRewardPoints(ctx, attraction.ID, u.ID)
			if err != nil {
				failed[attraction.Name] = true
				errs = append(errs, &LookupError{
					UserID:         u.ID,
					AttractionID:   attraction.ID,
					AttractionName: attraction.Name,
					Err:            err,
				})
				continue
			}

			if l.AddReward(user.Reward{
				VisitedLocation: visited,
				Attraction:      attraction,
				RewardPoints:    points,
			}) {
				granted++
			}
		}
	}

	return granted, errors.Join(errs...)
}

// NearAttraction reports whether visited lies within the current proximity buffer of attraction
func (s *Service) NearAttraction(visited gps.VisitedLocation, attraction gps.Attraction) bool {
	return geo.WithinRange(visited.Location, attraction.Location, s.ProximityBuffer())
}

// IsWithinAttractionProximity reports whether location lies within the attraction proximity range
func (s *Service) IsWithinAttractionProximity(attraction gps.Attraction, location gps.Location) bool {
	return geo.WithinRange(attraction.Location, location, s.attractionRange)
}

// RewardPoints looks up the points the user would earn at attraction
func (s *Service) RewardPoints(ctx context.Context, attraction gps.Attraction, u *user.User) (int, error) {
	points, err := s.scorer.GetAttractionRewardPoints(ctx, attraction.ID, u.ID)
	if err != nil {
		return 0, &LookupError{
			UserID:         u.ID,
			AttractionID:   attraction.ID,
			AttractionName: attraction.Name,
			Err:            err,
		}
	}
	return points, nil
}
