package gps

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	// maxLatitude bounds generated latitudes to the Web Mercator range
	maxLatitude  = 85.05112878
	maxLongitude = 180.0
)

// SimulatorOption configures a Simulator
type SimulatorOption func(*Simulator)

// WithLatency makes every lookup wait for the given duration
func WithLatency(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.latency = d
	}
}

// WithAttractions replaces the built-in attraction catalog
func WithAttractions(attractions []Attraction) SimulatorOption {
	return func(s *Simulator) {
		s.attractions = attractions
	}
}

// Simulator is an in-process Provider that reports random positions
// and serves a fixed attraction catalog.
type Simulator struct {
	latency     time.Duration
	attractions []Attraction
	now         func() time.Time
}

var _ Provider = (*Simulator)(nil)

// NewSimulator creates a simulated positioning source
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		attractions: DefaultAttractions(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUserLocation returns a random location for the user
func (s *Simulator) GetUserLocation(ctx context.Context, userID uuid.UUID) (VisitedLocation, error) {
	if err := s.wait(ctx); err != nil {
		return VisitedLocation{}, err
	}
	return VisitedLocation{
		UserID:      userID,
		Location:    RandomLocation(),
		TimeVisited: s.now(),
	}, nil
}

// GetAttractions returns a copy of the attraction catalog
func (s *Simulator) GetAttractions(ctx context.Context) ([]Attraction, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]Attraction, len(s.attractions))
	copy(out, s.attractions)
	return out, nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RandomLocation returns a uniformly random location within the mapped latitude range
func RandomLocation() Location {
	//nolint:gosec // G404: simulated positions do not need cryptographic randomness
	return Location{
		Latitude:  -maxLatitude + rand.Float64()*(2*maxLatitude),
		Longitude: -maxLongitude + rand.Float64()*(2*maxLongitude),
	}
}
