// Package gps defines locations, attractions and the positioning data source.
package gps

import (
	"time"

	"github.com/google/uuid"
)

// Location is a latitude/longitude pair in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VisitedLocation records where a user was seen at a point in time
type VisitedLocation struct {
	UserID      uuid.UUID `json:"userId"`
	Location    Location  `json:"location"`
	TimeVisited time.Time `json:"timeVisited"`
}

// Attraction is a point of interest that can earn reward points.
// Attractions are shared read-only between tracking tasks.
type Attraction struct {
	ID       uuid.UUID `json:"attractionId"`
	Name     string    `json:"attractionName"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Location Location  `json:"location"`
}
