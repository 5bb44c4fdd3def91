// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct and normalizes
// values that have a canonical form, such as trailing slashes on base URLs.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateOpenPHACTSSettings(&settings.OpenPHACTS); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Annotation.MaxActivities < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("annotation.maxactivities must be at least 1, got %d", settings.Annotation.MaxActivities))
	}

	if t := settings.Similarity.Threshold; t <= 0 || t > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("similarity.threshold must be in (0, 1], got %g", t))
	}

	if err := validatePrefsSettings(&settings.Prefs); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	switch strings.ToLower(settings.Output) {
	case "json", "yaml", "text":
		settings.Output = strings.ToLower(settings.Output)
	default:
		ve.Errors = append(ve.Errors, fmt.Sprintf("output must be one of json, yaml, text, got '%s'", settings.Output))
	}

	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "sentry.dsn is required when sentry is enabled")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateOpenPHACTSSettings validates the linked data API settings
func validateOpenPHACTSSettings(settings *OpenPHACTSSettings) error {
	var errs []string

	endpoint, err := normalizeBaseURL(settings.Endpoint)
	if err != nil {
		errs = append(errs, "openphacts.endpoint: "+err.Error())
	} else {
		settings.Endpoint = endpoint
	}

	base, err := normalizeBaseURL(settings.ConceptBase)
	if err != nil {
		errs = append(errs, "openphacts.conceptbase: "+err.Error())
	} else {
		settings.ConceptBase = base
	}

	if settings.AppID == "" || settings.AppKey == "" {
		errs = append(errs, "openphacts.appid and openphacts.appkey must be set")
	}
	if settings.Timeout <= 0 {
		errs = append(errs, "openphacts.timeout must be positive")
	}
	if settings.RateLimit < 0 {
		errs = append(errs, "openphacts.ratelimit must not be negative")
	}
	if settings.Burst < 1 {
		settings.Burst = DefaultBurst
	}
	if settings.UserAgent == "" {
		settings.UserAgent = DefaultUserAgent
	}

	if len(errs) > 0 {
		return fmt.Errorf("openphacts settings errors: %v", errs)
	}
	return nil
}

func validatePrefsSettings(settings *PrefsSettings) error {
	settings.Backend = strings.ToLower(settings.Backend)
	switch settings.Backend {
	case "":
		settings.Backend = PrefsBackendMemory
	case PrefsBackendMemory:
	case PrefsBackendFile, PrefsBackendSQLite:
		if settings.Path == "" {
			return fmt.Errorf("prefs.path is required for the %s backend", settings.Backend)
		}
	default:
		return fmt.Errorf("prefs.backend must be one of memory, file, sqlite, got '%s'", settings.Backend)
	}
	return nil
}

// normalizeBaseURL checks that raw is an absolute http(s) URL and ensures it ends with '/'.
func normalizeBaseURL(raw string) (string, error) {
	if err := validateEnvURL(raw); err != nil {
		return "", err
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}
