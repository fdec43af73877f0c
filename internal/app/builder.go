package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/tourguide/internal/api"
	"github.com/stacklok/tourguide/internal/config"
	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/rewardcentral"
	"github.com/stacklok/tourguide/internal/rewards"
	"github.com/stacklok/tourguide/internal/service"
	"github.com/stacklok/tourguide/internal/telemetry"
	"github.com/stacklok/tourguide/internal/tracker"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/workerpool"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// TourGuideAppOptions is a function that configures the tour guide app builder
type TourGuideAppOptions func(*tourGuideAppConfig) error

// tourGuideAppConfig collects the builder inputs. Collaborators left nil are
// built from the configuration.
type tourGuideAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	provider  gps.Provider
	scorer    rewardcentral.Scorer
	telemetry *telemetry.Telemetry

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...TourGuideAppOptions) (*tourGuideAppConfig, error) {
	cfg := &tourGuideAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = &config.Config{}
	}
	if cfg.address == "" {
		cfg.address = cfg.config.Server.GetAddress()
	}

	return cfg, nil
}

// NewTourGuideApp wires the worker pool, tracking, rewards, tracker, telemetry
// and HTTP server described by the configuration.
func NewTourGuideApp(ctx context.Context, opts ...TourGuideAppOptions) (*TourGuideApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.telemetry == nil {
		cfg.telemetry, err = telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.config.Telemetry))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	components, err := buildTrackingComponents(cfg)
	if err != nil {
		_ = cfg.telemetry.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build tracking components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, components)
	if err != nil {
		_ = components.Pool.Shutdown(0)
		_ = cfg.telemetry.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	return &TourGuideApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress overrides the configured HTTP server address
func WithAddress(addr string) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("address is not a valid host:port: %w", err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		switch host {
		case "localhost":
			host = "127.0.0.1"
		case "":
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(net.JoinHostPort(host, port)); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithGPSProvider replaces the simulated positioning service
func WithGPSProvider(p gps.Provider) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		cfg.provider = p
		return nil
	}
}

// WithScorer replaces the simulated reward-points service
func WithScorer(s rewardcentral.Scorer) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		cfg.scorer = s
		return nil
	}
}

// WithTelemetry uses t instead of building telemetry from the configuration.
// The app takes ownership and shuts it down on Stop.
func WithTelemetry(t *telemetry.Telemetry) TourGuideAppOptions {
	return func(cfg *tourGuideAppConfig) error {
		cfg.telemetry = t
		return nil
	}
}

// buildTrackingComponents builds the pool, collaborators, coordinator, service and tracker
func buildTrackingComponents(b *tourGuideAppConfig) (*AppComponents, error) {
	slog.Info("Initializing tracking components")

	if b.provider == nil {
		b.provider = gps.NewSimulator(gps.WithLatency(b.config.Simulation.GetGPSLatency()))
	}
	if b.scorer == nil {
		b.scorer = rewardcentral.NewSimulator(rewardcentral.WithLatency(b.config.Simulation.GetRewardLatency()))
	}

	trackingMetrics, err := telemetry.NewTrackingMetrics(b.telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking metrics: %w", err)
	}
	tracer := b.telemetry.TracerProvider().Tracer(telemetry.TrackingTracerName)

	rewardsSvc := rewards.NewService(b.provider, b.scorer,
		rewards.WithProximityBuffer(b.config.Rewards.GetProximityBufferMiles()),
		rewards.WithAttractionProximityRange(b.config.Rewards.GetAttractionProximityRangeMiles()),
	)

	pool := workerpool.New(b.config.Pool.Workers)
	coordinator := tracking.NewCoordinator(pool, b.provider, rewardsSvc,
		tracking.WithTrackingMetrics(trackingMetrics),
		tracking.WithTracer(tracer),
	)

	guide := service.New(b.provider, rewardsSvc, coordinator)
	if n := b.config.Simulation.InternalUserCount; n > 0 {
		added := guide.AddInternalUsers(n)
		slog.Info("Registered internal users", "count", added)
	}

	tr := tracker.New(guide.Roster, coordinator,
		tracker.WithInterval(b.config.Tracker.GetInterval()),
		tracker.WithTracer(tracer),
	)

	slog.Info("Tracking components initialized",
		"workers", pool.Size(),
		"interval", tr.Interval(),
		"proximity_buffer_miles", rewardsSvc.ProximityBuffer(),
	)

	return &AppComponents{
		Pool:        pool,
		Coordinator: coordinator,
		Service:     guide,
		Tracker:     tr,
		Telemetry:   b.telemetry,
	}, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *tourGuideAppConfig, components *AppComponents) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// metrics and tracing wrap everything so that rejected and panicking
	// requests are still observed
	httpMetrics, err := telemetry.NewHTTPMetrics(components.Telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}
	b.middlewares = append([]func(http.Handler) http.Handler{
		telemetry.TracingMiddleware(components.Telemetry.TracerProvider()),
		httpMetrics.Middleware,
	}, b.middlewares...)

	serverOpts := []api.ServerOption{
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(components.Telemetry.MetricsHandler()),
	}
	if !b.config.Tracker.Disabled {
		serverOpts = append(serverOpts, api.WithTrackerStatus(components.Tracker))
	}

	router := api.NewServer(components.Service, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
