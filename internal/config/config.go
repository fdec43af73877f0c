// Package config loads and validates the tour guide service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/tourguide/internal/telemetry"
)

const (
	// EnvPrefix prefixes environment variables read by the command line tools
	EnvPrefix = "TOURGUIDE"

	// DefaultConfigFile is the path searched under the XDG config directories
	DefaultConfigFile = "tourguide/config.yaml"

	// DefaultTrackerInterval is the time between tracking cycles
	DefaultTrackerInterval = time.Minute

	// DefaultShutdownGracePeriod bounds how long the pool waits for running tasks
	DefaultShutdownGracePeriod = 60 * time.Second

	// DefaultServerAddress is the HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultProximityBufferMiles is the distance under which a visit earns an attraction's reward
	DefaultProximityBufferMiles = 10.0

	// DefaultAttractionProximityRangeMiles bounds the attraction proximity check
	DefaultAttractionProximityRangeMiles = 200.0
)

// Option configures how the configuration is loaded
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// EvalSymlinks also cleans the path
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config is the root configuration
type Config struct {
	Tracker    TrackerConfig     `yaml:"tracker"`
	Pool       PoolConfig        `yaml:"pool"`
	Rewards    RewardsConfig     `yaml:"rewards"`
	Simulation SimulationConfig  `yaml:"simulation"`
	Server     ServerConfig      `yaml:"server"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// TrackerConfig controls the periodic tracking cycle
type TrackerConfig struct {
	// Disabled keeps the tracker from starting with the server
	Disabled bool `yaml:"disabled,omitempty"`

	// Interval between cycle starts, e.g. "1m". Defaults to one minute.
	Interval string `yaml:"interval,omitempty"`
}

// PoolConfig sizes the shared worker pool
type PoolConfig struct {
	// Workers is the number of concurrent tracking tasks. Zero uses the CPU count.
	Workers int `yaml:"workers,omitempty" validate:"gte=0,lte=10000"`

	// ShutdownGracePeriod is how long shutdown waits for running tasks, e.g. "60s"
	ShutdownGracePeriod string `yaml:"shutdownGracePeriod,omitempty"`
}

// RewardsConfig tunes reward matching
type RewardsConfig struct {
	ProximityBufferMiles          float64 `yaml:"proximityBufferMiles,omitempty" validate:"gte=0"`
	AttractionProximityRangeMiles float64 `yaml:"attractionProximityRangeMiles,omitempty" validate:"gte=0"`
}

// SimulationConfig controls the in-process collaborators and generated users
type SimulationConfig struct {
	// InternalUserCount generated users are registered at startup
	InternalUserCount int `yaml:"internalUserCount,omitempty" validate:"gte=0,lte=1000000"`

	// GPSLatency is added to every simulated position lookup
	GPSLatency string `yaml:"gpsLatency,omitempty"`

	// RewardLatency is added to every simulated reward points lookup
	RewardLatency string `yaml:"rewardLatency,omitempty"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Address string `yaml:"address,omitempty" validate:"omitempty,hostname_port"`
}

// DefaultConfigPath returns the first tourguide/config.yaml found in the XDG
// config directories.
func DefaultConfigPath() (string, error) {
	return xdg.SearchConfigFile(DefaultConfigFile)
}

// LoadConfig reads and validates the configuration. Without WithConfigPath
// the built-in defaults are returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	var errs []error
	for _, d := range []struct {
		field string
		value string
	}{
		{"tracker.interval", c.Tracker.Interval},
		{"pool.shutdownGracePeriod", c.Pool.ShutdownGracePeriod},
		{"simulation.gpsLatency", c.Simulation.GPSLatency},
		{"simulation.rewardLatency", c.Simulation.RewardLatency},
	} {
		if err := validateDuration(d.field, d.value); err != nil {
			errs = append(errs, err)
		}
	}
	if interval, err := time.ParseDuration(c.Tracker.Interval); err == nil && interval == 0 {
		errs = append(errs, fmt.Errorf("tracker.interval must be positive"))
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid duration (e.g., '30s', '1m'): %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

// parseDuration returns the parsed value, or def when value is empty.
// Values are validated at load time.
func parseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// GetInterval returns the tracker interval
func (c *TrackerConfig) GetInterval() time.Duration {
	return parseDuration(c.Interval, DefaultTrackerInterval)
}

// GetShutdownGracePeriod returns the pool shutdown grace period
func (c *PoolConfig) GetShutdownGracePeriod() time.Duration {
	return parseDuration(c.ShutdownGracePeriod, DefaultShutdownGracePeriod)
}

// GetProximityBufferMiles returns the proximity buffer, treating zero as unset
func (c *RewardsConfig) GetProximityBufferMiles() float64 {
	if c.ProximityBufferMiles == 0 {
		return DefaultProximityBufferMiles
	}
	return c.ProximityBufferMiles
}

// GetAttractionProximityRangeMiles returns the attraction range, treating zero as unset
func (c *RewardsConfig) GetAttractionProximityRangeMiles() float64 {
	if c.AttractionProximityRangeMiles == 0 {
		return DefaultAttractionProximityRangeMiles
	}
	return c.AttractionProximityRangeMiles
}

// GetGPSLatency returns the simulated position lookup latency
func (c *SimulationConfig) GetGPSLatency() time.Duration {
	return parseDuration(c.GPSLatency, 0)
}

// GetRewardLatency returns the simulated reward lookup latency
func (c *SimulationConfig) GetRewardLatency() time.Duration {
	return parseDuration(c.RewardLatency, 0)
}

// GetAddress returns the listen address
func (c *ServerConfig) GetAddress() string {
	if c.Address == "" {
		return DefaultServerAddress
	}
	return c.Address
}
