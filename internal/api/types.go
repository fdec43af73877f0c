// Package api provides common API types and responses.
package api

import (
	"time"

	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/user"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status       string `json:"status"`
	TrackerState string `json:"tracker_state,omitempty"`
}

// VersionResponse represents the version information response
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// LocationResponse is a user's latest visited location
type LocationResponse struct {
	UserName string              `json:"userName"`
	Visited  gps.VisitedLocation `json:"visitedLocation"`
}

// RewardsResponse lists the rewards granted to a user
type RewardsResponse struct {
	UserName    string        `json:"userName"`
	TotalPoints int           `json:"totalPoints"`
	Rewards     []user.Reward `json:"rewards"`
}

// BatchSummary summarizes a finished tracking batch
type BatchSummary struct {
	Users          int      `json:"users"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	RewardsGranted int      `json:"rewards_granted"`
	Duration       string   `json:"duration"`
	Errors         []string `json:"errors,omitempty"`
}

// TrackerResponse reports the periodic tracker status
type TrackerResponse struct {
	State         string        `json:"state"`
	Interval      string        `json:"interval"`
	CycleCount    uint64        `json:"cycle_count"`
	CycleComplete bool          `json:"cycle_complete"`
	LastBatch     *BatchSummary `json:"last_batch,omitempty"`
}

// durationString renders d rounded to milliseconds
func durationString(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
