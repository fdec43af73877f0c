// Package geo provides great-circle distance and proximity checks between locations.
package geo

import (
	"math"

	"github.com/stacklok/tourguide/internal/gps"
)

// StatuteMilesPerNauticalMile converts nautical miles to statute miles
const StatuteMilesPerNauticalMile = 1.15077945

// Distance returns the great-circle distance between a and b in statute miles.
//
// The central angle is computed with the spherical law of cosines. The cosine
// argument is clamped to [-1, 1] so identical locations yield 0 rather than NaN.
func Distance(a, b gps.Location) float64 {
	lat1 := toRadians(a.Latitude)
	lon1 := toRadians(a.Longitude)
	lat2 := toRadians(b.Latitude)
	lon2 := toRadians(b.Longitude)

	cosAngle := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)
	angle := math.Acos(clamp(cosAngle, -1, 1))

	nauticalMiles := 60 * toDegrees(angle)
	return StatuteMilesPerNauticalMile * nauticalMiles
}

// WithinRange reports whether a and b are at most thresholdMiles apart.
// The boundary is inclusive.
func WithinRange(a, b gps.Location, thresholdMiles float64) bool {
	return Distance(a, b) <= thresholdMiles
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
