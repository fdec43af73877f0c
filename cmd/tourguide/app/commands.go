// Package app provides the command line interface for the tour guide server.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/tourguide/internal/config"
	"github.com/stacklok/tourguide/pkg/versions"
)

// LogLevel is the level of the process logger. --debug lowers it to debug.
var LogLevel = new(slog.LevelVar)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tourguide",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Tour guide location tracking and rewards server",
		Long: `Tour guide tracks the location of every registered user on a fixed
interval, grants rewards for visits near attractions and serves the results
over a REST API.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			LogLevel.Set(slog.LevelDebug)
		}
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("error retrieving format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

// newCommandViper binds cmd's flags to a viper instance that also reads
// TOURGUIDE_-prefixed environment variables, e.g. TOURGUIDE_CONFIG.
func newCommandViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		slog.Error("Failed to bind flags", "command", cmd.Name(), "error", err)
	}
	return v
}

// loadConfig loads path, or the XDG default location when path is empty.
// Without any configuration file the built-in defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.DefaultConfigPath()
		if err != nil {
			slog.Info("No configuration file found, using defaults", "searched", config.DefaultConfigFile)
			return config.LoadConfig()
		}
		path = found
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration", "path", path)
	return cfg, nil
}
