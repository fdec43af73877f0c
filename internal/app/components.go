package app

import (
	"github.com/stacklok/tourguide/internal/service"
	"github.com/stacklok/tourguide/internal/telemetry"
	"github.com/stacklok/tourguide/internal/tracker"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/workerpool"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Pool runs every tracking task
	Pool *workerpool.Pool

	// Coordinator fans batches out over Pool
	Coordinator *tracking.Coordinator

	// Service provides the tour guide operations
	Service *service.TourGuide

	// Tracker drives the periodic tracking cycle
	Tracker *tracker.Tracker

	// Telemetry owns the tracer and meter providers
	Telemetry *telemetry.Telemetry
}
