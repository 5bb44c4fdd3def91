// Package api provides the HTTP API server for phacts. It exposes the
// aggregation pipeline as JSON endpoints under /api/v1.
package api

import (
	"fmt"
	"net"
	"time"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout       = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultBodyLimit         = "1M"
)

// Config holds the HTTP server configuration.
type Config struct {
	Listen string // host:port to bind

	// MetricsListen serves /metrics on its own listener when set; otherwise
	// /metrics is served by the API server.
	MetricsListen  string
	MetricsEnabled bool

	AllowedOrigins []string // CORS allowed origins

	// Timeouts. There is no write timeout: similarity results are streamed
	// and annotation batches can run for minutes.
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BodyLimit string // maximum request body size, e.g. "1M"

	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:          conf.DefaultAPIListen,
		MetricsEnabled:  true,
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     DefaultReadTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       DefaultBodyLimit,
	}
}

// ConfigFromSettings creates a Config from the application settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()
	if settings.API.Listen != "" {
		cfg.Listen = settings.API.Listen
	}
	if settings.API.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = settings.API.ShutdownTimeout
	}
	cfg.MetricsEnabled = settings.Metrics.Enabled
	cfg.MetricsListen = settings.Metrics.Listen
	cfg.Debug = settings.Debug
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.MetricsListen != "" {
		if _, _, err := net.SplitHostPort(c.MetricsListen); err != nil {
			return fmt.Errorf("invalid metrics listen address %q: %w", c.MetricsListen, err)
		}
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	metrics := "disabled"
	switch {
	case c.MetricsEnabled && c.MetricsListen != "":
		metrics = c.MetricsListen
	case c.MetricsEnabled:
		metrics = "shared"
	}
	return fmt.Sprintf("Server Config: address=%s, metrics=%s, debug=%v", c.Listen, metrics, c.Debug)
}
