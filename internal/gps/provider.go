package gps

import (
	"context"

	"github.com/google/uuid"
)

// Provider is the positioning data source.
//
//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks -source=provider.go Provider
type Provider interface {
	// GetUserLocation returns the current position of the user.
	GetUserLocation(ctx context.Context, userID uuid.UUID) (VisitedLocation, error)
	// GetAttractions returns the attraction catalog.
	GetAttractions(ctx context.Context) ([]Attraction, error)
}
