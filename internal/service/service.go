// Package service provides the tour guide operations served by the HTTP API
// and driven by the tracker.
package service

import (
	"context"

	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/user"
)

// NearbyAttractionCount is the number of attractions returned by GetNearByAttractions
const NearbyAttractionCount = 5

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service defines the tour guide operations
type Service interface {
	// AddUser registers a user unless the name is taken
	AddUser(u *user.User) bool

	// GetUser returns the user registered under userName
	GetUser(userName string) (*user.User, error)

	// GetAllUsers returns every registered user
	GetAllUsers() []*user.User

	// GetUserLocation returns the user's latest location, tracking it now when there is none
	GetUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error)

	// GetUserRewards returns the rewards granted to the user
	GetUserRewards(u *user.User) []user.Reward

	// GetNearByAttractions returns the closest attractions to visited, nearest first
	GetNearByAttractions(ctx context.Context, u *user.User, visited gps.VisitedLocation) ([]NearbyAttraction, error)

	// TrackUserLocation fetches, records and rewards the user's current location
	TrackUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error)

	// TrackAllUserLocations tracks every registered user as one batch
	TrackAllUserLocations(ctx context.Context) *tracking.BatchResult
}

// NearbyAttraction describes an attraction relative to a user's location
type NearbyAttraction struct {
	Name                string  `json:"name"`
	AttractionLatitude  float64 `json:"attractionLatitude"`
	AttractionLongitude float64 `json:"attractionLongitude"`
	UserLatitude        float64 `json:"userLatitude"`
	UserLongitude       float64 `json:"userLongitude"`
	Distance            float64 `json:"distance"`
	RewardPoints        int     `json:"rewardPoints"`
}
