// Package api provides the REST API server for the tour guide.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/tourguide/internal/service"
	"github.com/stacklok/tourguide/internal/tracker"
	"github.com/stacklok/tourguide/internal/tracking"
)

// TrackerStatus exposes the periodic tracker's progress.
// *tracker.Tracker implements it.
type TrackerStatus interface {
	State() tracker.State
	Interval() time.Duration
	CycleCount() uint64
	IsCycleComplete() bool
	LastResult() *tracking.BatchResult
}

// ServerOption configures the tour guide API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	tracker        TrackerStatus
	metricsHandler http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithTrackerStatus serves the tracker status and gates readiness on it.
// Without it the server is ready as soon as it is listening.
func WithTrackerStatus(t TrackerStatus) ServerOption {
	return func(cfg *serverConfig) {
		cfg.tracker = t
	}
}

// WithMetricsHandler mounts h at /metrics. A nil handler is ignored.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc service.Service, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	h := &handlers{svc: svc, tracker: cfg.tracker}

	r.Get("/health", h.health)
	r.Get("/readiness", h.readiness)
	r.Get("/version", h.version)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users/{userName}", func(r chi.Router) {
			r.Get("/location", h.userLocation)
			r.Get("/rewards", h.userRewards)
			r.Get("/nearby-attractions", h.nearbyAttractions)
		})
		if cfg.tracker != nil {
			r.Get("/tracker", h.trackerStatus)
		}
	})

	if cfg.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metricsHandler)
	}

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
