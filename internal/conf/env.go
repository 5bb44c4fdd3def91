// env.go - Environment variable configuration and validation for phacts
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		// Linked data API
		{"openphacts.endpoint", "PHACTS_ENDPOINT", validateEnvURL},
		{"openphacts.appid", "PHACTS_APP_ID", nil},
		{"openphacts.appkey", "PHACTS_APP_KEY", nil},
		{"openphacts.appkeyfile", "PHACTS_APP_KEY_FILE", nil},
		{"openphacts.conceptbase", "PHACTS_CONCEPT_BASE", validateEnvURL},
		{"openphacts.ratelimit", "PHACTS_RATE_LIMIT", validateEnvRateLimit},
		{"openphacts.timeout", "PHACTS_TIMEOUT", validateEnvDuration},

		// Runtime
		{"debug", "PHACTS_DEBUG", validateEnvBool},
		{"prefs.backend", "PHACTS_PREFS_BACKEND", validateEnvPrefsBackend},
		{"prefs.path", "PHACTS_PREFS_PATH", nil},
		{"sentry.dsn", "PHACTS_SENTRY_DSN", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host, got '%s'", value)
	}
	return nil
}

func validateEnvRateLimit(value string) error {
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid rate limit: %w", err)
	}
	if rate < 0 {
		return fmt.Errorf("rate limit must not be negative, got %g", rate)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration (expected e.g. '30s'): %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return nil
}

func validateEnvPrefsBackend(value string) error {
	switch strings.ToLower(value) {
	case PrefsBackendMemory, PrefsBackendFile, PrefsBackendSQLite:
		return nil
	default:
		return fmt.Errorf("prefs backend must be one of memory, file, sqlite, got '%s'", value)
	}
}
