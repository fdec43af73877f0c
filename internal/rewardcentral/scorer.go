// Package rewardcentral provides the reward-points lookup service.
package rewardcentral

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	minRewardPoints = 1
	maxRewardPoints = 1000
)

// Scorer returns the number of reward points a user earns for an attraction.
//
//go:generate mockgen -destination=mocks/mock_scorer.go -package=mocks -source=scorer.go Scorer
type Scorer interface {
	GetAttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLatency makes every lookup wait for the given duration
func WithLatency(d time.Duration) Option {
	return func(s *Simulator) {
		s.latency = d
	}
}

// Simulator is an in-process Scorer returning pseudo-random point values
type Simulator struct {
	latency time.Duration
}

var _ Scorer = (*Simulator)(nil)

// NewSimulator creates a simulated reward-points service
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAttractionRewardPoints returns a value between 1 and 1000
func (s *Simulator) GetAttractionRewardPoints(ctx context.Context, _, _ uuid.UUID) (int, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	//nolint:gosec // G404: point values are not security sensitive
	return minRewardPoints + rand.IntN(maxRewardPoints-minRewardPoints+1), nil
}
