package rewards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/tourguide/internal/gps"
	gpsmocks "github.com/stacklok/tourguide/internal/gps/mocks"
	"github.com/stacklok/tourguide/internal/rewardcentral/mocks"
	"github.com/stacklok/tourguide/internal/user"
)

var (
	disneyland = gps.Attraction{
		ID:       uuid.New(),
		Name:     "Disneyland",
		Location: gps.Location{Latitude: 33.817595, Longitude: -117.922008},
	}
	bronxZoo = gps.Attraction{
		ID:       uuid.New(),
		Name:     "Bronx Zoo",
		Location: gps.Location{Latitude: 40.852905, Longitude: -73.872971},
	}
)

// fixedScorer grants the same points for every attraction
type fixedScorer int

func (f fixedScorer) GetAttractionRewardPoints(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return int(f), nil
}

type staticSource []gps.Attraction

func (s staticSource) GetAttractions(context.Context) ([]gps.Attraction, error) {
	return s, nil
}

func newUserAt(locs ...gps.Location) *user.User {
	u := user.New(uuid.New(), "jon", "000", "jon@tourGuide.com")
	for _, loc := range locs {
		u.AddVisitedLocation(gps.VisitedLocation{UserID: u.ID, Location: loc, TimeVisited: time.Now()})
	}
	return u
}

func TestService_CalculateRewards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		visits        []gps.Location
		setupMock     func(m *mocks.MockScorer, u *user.User)
		expectedNames []string
	}{
		{
			name:   "visit at an attraction grants its reward",
			visits: []gps.Location{disneyland.Location},
			setupMock: func(m *mocks.MockScorer, u *user.User) {
				m.EXPECT().GetAttractionRewardPoints(gomock.Any(), disneyland.ID, u.ID).Return(250, nil)
			},
			expectedNames: []string{"Disneyland"},
		},
		{
			name:          "visit far from every attraction grants nothing",
			visits:        []gps.Location{{Latitude: 0, Longitude: 0}},
			setupMock:     func(*mocks.MockScorer, *user.User) {},
			expectedNames: nil,
		},
		{
			name: "repeated visits grant one reward per attraction",
			visits: []gps.Location{
				disneyland.Location,
				{Latitude: disneyland.Location.Latitude + 0.01, Longitude: disneyland.Location.Longitude},
				bronxZoo.Location,
			},
			setupMock: func(m *mocks.MockScorer, _ *user.User) {
				m.EXPECT().GetAttractionRewardPoints(gomock.Any(), disneyland.ID, gomock.Any()).Return(10, nil).Times(1)
				m.EXPECT().GetAttractionRewardPoints(gomock.Any(), bronxZoo.ID, gomock.Any()).Return(20, nil).Times(1)
			},
			expectedNames: []string{"Disneyland", "Bronx Zoo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			scorer := mocks.NewMockScorer(ctrl)
			u := newUserAt(tt.visits...)
			tt.setupMock(scorer, u)

			svc := NewService(staticSource{disneyland, bronxZoo}, scorer)
			granted, err := svc.CalculateRewards(context.Background(), u)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expectedNames), granted)

			var names []string
			for _, r := range u.Rewards() {
				names = append(names, r.Attraction.Name)
			}
			assert.Equal(t, tt.expectedNames, names)

			// a second pass over the same history grants nothing new
			granted, err = svc.CalculateRewards(context.Background(), u)
			require.NoError(t, err)
			assert.Zero(t, granted)
		})
	}
}

func TestService_CalculateRewards_SourceError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := gpsmocks.NewMockProvider(ctrl)
	source.EXPECT().GetAttractions(gomock.Any()).Return(nil, errors.New("catalog unavailable"))

	svc := NewService(source, fixedScorer(1))
	_, err := svc.CalculateRewards(context.Background(), newUserAt(disneyland.Location))
	assert.ErrorContains(t, err, "catalog unavailable")
}

func TestService_MatchRewards_LookupFailureKeepsOtherRewards(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lookupErr := errors.New("reward central down")
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().GetAttractionRewardPoints(gomock.Any(), disneyland.ID, gomock.Any()).Return(0, lookupErr).Times(1)
	scorer.EXPECT().GetAttractionRewardPoints(gomock.Any(), bronxZoo.ID, gomock.Any()).Return(75, nil)

	svc := NewService(staticSource{}, scorer)
	u := newUserAt(disneyland.Location, disneyland.Location, bronxZoo.Location)

	granted, err := svc.MatchRewards(context.Background(), u, []gps.Attraction{disneyland, bronxZoo})
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)

	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, u.ID, le.UserID)
	assert.Equal(t, disneyland.ID, le.AttractionID)

	assert.Equal(t, 1, granted)
	rewards := u.Rewards()
	require.Len(t, rewards, 1)
	assert.Equal(t, "Bronx Zoo", rewards[0].Attraction.Name)
	assert.Equal(t, 75, rewards[0].RewardPoints)
}

func TestService_MatchRewards_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(staticSource{}, fixedScorer(1))
	u := newUserAt(disneyland.Location)

	granted, err := svc.MatchRewards(ctx, u, []gps.Attraction{disneyland})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, granted)
	assert.Empty(t, u.Rewards())
}

func TestService_ProximityBuffer(t *testing.T) {
	t.Parallel()

	svc := NewService(staticSource{}, fixedScorer(1), WithProximityBuffer(5))
	assert.Equal(t, 5.0, svc.ProximityBuffer())

	near := gps.VisitedLocation{Location: gps.Location{
		Latitude:  disneyland.Location.Latitude + 0.1,
		Longitude: disneyland.Location.Longitude,
	}}
	assert.False(t, svc.NearAttraction(near, disneyland), "0.1 degree is about 6.9 miles")

	svc.SetProximityBuffer(10)
	assert.True(t, svc.NearAttraction(near, disneyland))

	svc.ResetProximityBuffer()
	assert.Equal(t, 5.0, svc.ProximityBuffer())
}

func TestService_IsWithinAttractionProximity(t *testing.T) {
	t.Parallel()

	svc := NewService(staticSource{}, fixedScorer(1))
	sanDiego := gps.Location{Latitude: 32.735317, Longitude: -117.149048}

	assert.True(t, svc.IsWithinAttractionProximity(disneyland, sanDiego))
	assert.False(t, svc.IsWithinAttractionProximity(bronxZoo, sanDiego))

	narrow := NewService(staticSource{}, fixedScorer(1), WithAttractionProximityRange(50))
	assert.False(t, narrow.IsWithinAttractionProximity(disneyland, sanDiego))
}

func TestService_RewardPoints(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	u := newUserAt()
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().GetAttractionRewardPoints(gomock.Any(), disneyland.ID, u.ID).Return(42, nil)
	scorer.EXPECT().GetAttractionRewardPoints(gomock.Any(), bronxZoo.ID, u.ID).Return(0, errors.New("nope"))

	svc := NewService(staticSource{}, scorer)

	points, err := svc.RewardPoints(context.Background(), disneyland, u)
	require.NoError(t, err)
	assert.Equal(t, 42, points)

	_, err = svc.RewardPoints(context.Background(), bronxZoo, u)
	var le *LookupError
	assert.ErrorAs(t, err, &le)
}

func TestService_ConcurrentMatchGrantsOnce(t *testing.T) {
	t.Parallel()

	svc := NewService(staticSource{}, fixedScorer(3))
	u := newUserAt(disneyland.Location, bronxZoo.Location)
	attractions := []gps.Attraction{disneyland, bronxZoo}

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MatchRewards(context.Background(), u, attractions)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, u.Rewards(), 2)
	assert.Equal(t, 6, u.TotalRewardPoints())
}

func TestService_Properties(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	catalog := gps.DefaultAttractions()

	properties.Property("an unbounded buffer rewards every attraction exactly once", prop.ForAll(
		func(k, visits int) bool {
			svc := NewService(staticSource{}, fixedScorer(1))
			svc.SetProximityBuffer(math.Inf(1))

			locs := make([]gps.Location, visits)
			for i := range locs {
				locs[i] = gps.RandomLocation()
			}
			u := newUserAt(locs...)

			granted, err := svc.MatchRewards(context.Background(), u, catalog[:k])
			if err != nil || granted != k || len(u.Rewards()) != k {
				return false
			}
			again, err := svc.MatchRewards(context.Background(), u, catalog[:k])
			return err == nil && again == 0
		},
		gen.IntRange(0, len(catalog)),
		gen.IntRange(1, 5),
	))

	properties.Property("reward names are unique", prop.ForAll(
		func(buffer float64, visits int) bool {
			svc := NewService(staticSource(catalog), fixedScorer(1), WithProximityBuffer(buffer))
			locs := make([]gps.Location, visits)
			for i := range locs {
				// visits land on catalog entries, wrapping around, so duplicates are offered
				locs[i] = catalog[i%len(catalog)].Location
			}
			u := newUserAt(locs...)

			if _, err := svc.CalculateRewards(context.Background(), u); err != nil {
				return false
			}
			seen := make(map[string]bool)
			for _, r := range u.Rewards() {
				if seen[r.Attraction.Name] {
					return false
				}
				seen[r.Attraction.Name] = true
			}
			return true
		},
		gen.Float64Range(0, 3000),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

func TestLookupError(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	err := &LookupError{UserID: uuid.New(), AttractionID: uuid.New(), AttractionName: "Disneyland", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), fmt.Sprintf("%q", "Disneyland"))
}
