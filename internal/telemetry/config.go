// Package telemetry wires OpenTelemetry tracing and metrics for the tour guide
// service. Exporters are OTLP over HTTP, with an optional Prometheus pull reader.
package telemetry

import (
	"errors"
	"fmt"
)

const (
	// DefaultServiceName identifies the service in exported telemetry
	DefaultServiceName = "tourguide"

	// DefaultEndpoint is the OTLP collector endpoint used when none is configured
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the trace sampling ratio used when none is configured
	DefaultSampling = 0.05
)

// Config is the telemetry section of the service configuration
type Config struct {
	// Enabled turns every telemetry provider on or off
	Enabled bool `yaml:"enabled"`

	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector in "host:port" form
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends OTLP over plain HTTP. Development only.
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of traces kept, between 0 and 1.
	// Zero means DefaultSampling.
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// OTLP pushes metrics to the collector endpoint
	OTLP bool `yaml:"otlp,omitempty"`

	// Prometheus exposes metrics for scraping on the HTTP server's /metrics route
	Prometheus bool `yaml:"prometheus,omitempty"`
}

// GetServiceName returns the configured service name or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the configured service version or "unknown"
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns the configured endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetSampling returns the sampling ratio, treating zero as unset.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// Validate checks the telemetry configuration. A nil or disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if c.Tracing != nil {
		if err := c.Tracing.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}
	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the sampling ratio
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Sampling < 0 || c.Sampling > 1.0 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	return nil
}

// Validate requires at least one metric reader when metrics are enabled
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if !c.OTLP && !c.Prometheus {
		return errors.New("at least one of otlp or prometheus must be enabled")
	}
	return nil
}
