// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and CONTACTS_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Environments recognised by the service.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// Environment gates development-only surfaces such as the API docs.
	Environment string `koanf:"environment" validate:"oneof=development staging production"`

	// HTTP server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms" validate:"min=1"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms" validate:"min=1"`
	IdleTimeoutMS     int `koanf:"idle_timeout_ms" validate:"min=1"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"min=1"`

	// MaxBodyBytes caps request bodies accepted by the contact endpoints.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1"`

	// MetricsEnabled turns Prometheus observations on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		Environment:       EnvDevelopment,
		ReadTimeoutMS:     10_000,
		WriteTimeoutMS:    10_000,
		IdleTimeoutMS:     60_000,
		ShutdownTimeoutMS: 30_000,
		MaxBodyBytes:      1 << 20,
		MetricsEnabled:    true,
	}
}

// DocsEnabled reports whether the interactive API documentation is exposed.
func (c *Config) DocsEnabled() bool {
	return c.Environment != EnvProduction
}

// ReadTimeout returns the HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// IdleTimeout returns the HTTP keep-alive idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
