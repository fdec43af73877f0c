package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/tourguide/internal/geo"
	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/rewards"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/user"
)

const (
	internalUserLocations = 3
	internalUserMaxAge    = 30 * 24 * time.Hour
)

// Tracker tracks a single user or a batch of users.
// *tracking.Coordinator implements it.
type Tracker interface {
	TrackUser(ctx context.Context, u *user.User) (gps.VisitedLocation, error)
	TrackAll(ctx context.Context, users []*user.User) *tracking.BatchResult
}

// TourGuide is the in-memory implementation of Service
type TourGuide struct {
	users    *user.Store
	provider gps.Provider
	rewards  *rewards.Service
	tracker  Tracker
	now      func() time.Time
}

var _ Service = (*TourGuide)(nil)

// Option configures a TourGuide
type Option func(*TourGuide)

// WithUserStore uses store as the roster
func WithUserStore(store *user.Store) Option {
	return func(g *TourGuide) {
		g.users = store
	}
}

// New creates a TourGuide with an empty roster
func New(provider gps.Provider, rewardsSvc *rewards.Service, tracker Tracker, opts ...Option) *TourGuide {
	g := &TourGuide{
		users:    user.NewStore(),
		provider: provider,
		rewards:  rewardsSvc,
		tracker:  tracker,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddUser implements Service.AddUser
func (g *TourGuide) AddUser(u *user.User) bool {
	return g.users.Add(u)
}

// GetUser implements Service.GetUser
func (g *TourGuide) GetUser(userName string) (*user.User, error) {
	u, err := g.users.Get(userName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, userName)
	}
	return u, nil
}

// GetAllUsers implements Service.GetAllUsers
func (g *TourGuide) GetAllUsers() []*user.User {
	return g.users.All()
}

// Roster returns every registered user. It matches tracker.RosterFunc.
func (g *TourGuide) Roster(context.Context) ([]*user.User, error) {
	return g.users.All(), nil
}

// GetUserLocation implements Service.GetUserLocation
func (g *TourGuide) GetUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	if last, ok := u.LastVisitedLocation(); ok {
		return last, nil
	}
	return g.TrackUserLocation(ctx, u)
}

// GetUserRewards implements Service.GetUserRewards
func (*TourGuide) GetUserRewards(u *user.User) []user.Reward {
	return u.Rewards()
}

// GetNearByAttractions implements Service.GetNearByAttractions. Every
// attraction is ranked regardless of distance, so the result always holds
// NearbyAttractionCount entries when the catalog is large enough.
func (g *TourGuide) GetNearByAttractions(
	ctx context.Context,
	u *user.User,
	visited gps.VisitedLocation,
) ([]NearbyAttraction, error) {
	attractions, err := g.provider.GetAttractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get attractions: %w", err)
	}

	type ranked struct {
		attraction gps.Attraction
		distance   float64
	}
	candidates := make([]ranked, len(attractions))
	for i, a := range attractions {
		candidates[i] = ranked{attraction: a, distance: geo.Distance(a.Location, visited.Location)}
	}
	slices.SortStableFunc(candidates, func(a, b ranked) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})
	if len(candidates) > NearbyAttractionCount {
		candidates = candidates[:NearbyAttractionCount]
	}

	nearby := make([]NearbyAttraction, 0, len(candidates))
	for _, c := range candidates {
		points, err := g.rewards.RewardPoints(ctx, c.attraction, u)
		if err != nil {
			return nil, err
		}
		nearby = append(nearby, NearbyAttraction{
			Name:                c.attraction.Name,
			AttractionLatitude:  c.attraction.Location.Latitude,
			AttractionLongitude: c.attraction.Location.Longitude,
			UserLatitude:        visited.Location.Latitude,
			UserLongitude:       visited.Location.Longitude,
			Distance:            c.distance,
			RewardPoints:        points,
		})
	}
	return nearby, nil
}

// TrackUserLocation implements Service.TrackUserLocation
func (g *TourGuide) TrackUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	return g.tracker.TrackUser(ctx, u)
}

// TrackAllUserLocations implements Service.TrackAllUserLocations
func (g *TourGuide) TrackAllUserLocations(ctx context.Context) *tracking.BatchResult {
	users := g.users.All()
	slog.Info("Tracking all users", "users", len(users))
	return g.tracker.TrackAll(ctx, users)
}

// AddInternalUsers registers count generated users named internalUser0..N-1,
// each with a short random location history. Existing names are skipped.
// It returns the number of users added.
func (g *TourGuide) AddInternalUsers(count int) int {
	added := 0
	for i := range count {
		name := fmt.Sprintf("internalUser%d", i)
		u := user.New(uuid.New(), name, "000", name+"@tourGuide.com")
		for range internalUserLocations {
			u.AddVisitedLocation(gps.VisitedLocation{
				UserID:      u.ID,
				Location:    gps.RandomLocation(),
				TimeVisited: g.randomRecentTime(),
			})
		}
		if g.users.Add(u) {
			added++
		}
	}
	slog.Debug("Created internal test users", "count", added)
	return added
}

// randomRecentTime returns a whole number of days before now, within internalUserMaxAge
func (g *TourGuide) randomRecentTime() time.Time {
	days := int(internalUserMaxAge / (24 * time.Hour))
	//nolint:gosec // G404: generated history does not need cryptographic randomness
	return g.now().UTC().AddDate(0, 0, -rand.IntN(days))
}
