// Package app provides application lifecycle management for the tour guide server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/tourguide/internal/config"
)

// TourGuideApp encapsulates all components needed to run the tour guide server.
// It provides lifecycle management and graceful shutdown capabilities.
type TourGuideApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server
}

// Start listens on the configured address, starts the tracker and serves HTTP.
// It blocks until the HTTP server stops or encounters an error.
func (app *TourGuideApp) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.httpServer.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve starts the tracker and serves HTTP on ln until Stop is called.
func (app *TourGuideApp) Serve(ctx context.Context, ln net.Listener) error {
	if app.config.Tracker.Disabled {
		slog.Info("Periodic tracking disabled")
	} else if err := app.components.Tracker.Start(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to start tracker: %w", err)
	}

	slog.Info("Server listening", "address", ln.Addr().String())
	if err := app.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application. The tracker and worker pool are
// stopped first, with running tasks given the configured grace period, then
// the HTTP server is shut down within timeout and telemetry is flushed.
func (app *TourGuideApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	grace := app.config.Pool.GetShutdownGracePeriod()

	// the tracker waits for its running cycle, which the pool releases once
	// its tasks finish or the grace period forces them closed
	var g errgroup.Group
	g.Go(func() error {
		app.components.Tracker.Stop()
		return nil
	})
	g.Go(func() error {
		return app.components.Pool.Shutdown(grace)
	})

	var errs []error
	if err := g.Wait(); err != nil {
		slog.Warn("Tracking tasks did not finish within the grace period", "error", err)
		errs = append(errs, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	if err := app.components.Telemetry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown telemetry: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *TourGuideApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server
func (app *TourGuideApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// Components returns the wired application components
func (app *TourGuideApp) Components() *AppComponents {
	return app.components
}
