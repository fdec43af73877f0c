package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	tourguide "github.com/stacklok/tourguide/internal/app"
	"github.com/stacklok/tourguide/internal/tracking"
)

const defaultTrackUsers = 10

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run one tracking cycle over generated users and print the outcome",
		Long: `Run a single tracking batch over generated internal users, using the same
worker pool, rewards and simulated collaborators as the server, and print one
row per user.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	cmd.Flags().Int("users", defaultTrackUsers, "Number of generated users to track (overrides simulation.internalUserCount)")

	v := newCommandViper(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		users := v.GetInt("users")
		if users < 0 {
			return fmt.Errorf("users must not be negative, got %d", users)
		}

		cfg, err := loadConfig(v.GetString("config"))
		if err != nil {
			return err
		}
		cfg.Simulation.InternalUserCount = users
		cfg.Tracker.Disabled = true

		app, err := tourguide.NewTourGuideApp(cmd.Context(), tourguide.WithConfig(cfg))
		if err != nil {
			return fmt.Errorf("failed to create tour guide app: %w", err)
		}

		result := app.Components().Service.TrackAllUserLocations(cmd.Context())
		if err := app.Stop(defaultGracefulTimeout); err != nil {
			return err
		}

		return renderBatch(cmd.OutOrStdout(), result)
	}
	return cmd
}

// renderBatch prints one row per outcome followed by a summary line
func renderBatch(w io.Writer, result *tracking.BatchResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("User", "Latitude", "Longitude", "Rewards", "Error")
	for _, o := range result.Outcomes {
		row := []string{o.UserName, "", "", strconv.Itoa(o.RewardsGranted), ""}
		if o.Err != nil {
			row[4] = o.Err.Error()
		} else {
			row[1] = strconv.FormatFloat(o.Location.Location.Latitude, 'f', 6, 64)
			row[2] = strconv.FormatFloat(o.Location.Location.Longitude, 'f', 6, 64)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintf(w, "tracked %d users in %s: %d succeeded, %d failed, %d rewards granted\n",
		result.Len(), result.Duration, result.Succeeded(), len(result.Failed()), result.RewardsGranted())
	return err
}
