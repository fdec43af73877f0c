package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	tourguide "github.com/stacklok/tourguide/internal/app"
)

// defaultGracefulTimeout bounds the HTTP server shutdown after tracking has stopped
const defaultGracefulTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tour guide server",
		Long: `Start the tour guide server: the periodic tracker and the REST API.

Configuration is read from --config, or from tourguide/config.yaml in the XDG
config directories. Without a configuration file the built-in defaults apply.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	cmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	cmd.Flags().Duration("shutdown-timeout", defaultGracefulTimeout, "Time allowed for the HTTP server to drain on shutdown")

	v := newCommandViper(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(v.GetString("config"))
		if err != nil {
			return err
		}

		opts := []tourguide.TourGuideAppOptions{tourguide.WithConfig(cfg)}
		if addr := v.GetString("address"); addr != "" {
			opts = append(opts, tourguide.WithAddress(addr))
		}

		app, err := tourguide.NewTourGuideApp(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create tour guide app: %w", err)
		}

		return runUntilSignal(ctx, app, v.GetDuration("shutdown-timeout"))
	}
	return cmd
}

// runUntilSignal serves app until ctx is cancelled or the server fails, then stops it.
func runUntilSignal(ctx context.Context, app *tourguide.TourGuideApp, timeout time.Duration) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if stopErr := app.Stop(timeout); stopErr != nil {
			slog.Error("Failed to stop after server error", "error", stopErr)
		}
		return err
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	if err := app.Stop(timeout); err != nil {
		return err
	}
	return <-errChan
}
