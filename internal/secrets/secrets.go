// Package secrets resolves credentials that may be given literally, as
// environment references or as files (Docker/Kubernetes secrets). Secret
// values are never logged.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

// maxFileSize bounds secret file reads; app keys are a few dozen bytes.
const maxFileSize = 64 * 1024

func configError(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("secrets").
		Category(errors.CategoryConfiguration).
		Build()
}

// Expand replaces ${VAR} and ${VAR:-default} references in s. A reference
// without a default to an unset variable is an error.
func Expand(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	expanded := os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		if hasFallback {
			return fallback
		}
		missing = append(missing, name)
		return ""
	})

	if len(missing) > 0 {
		return "", configError("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// ReadFile reads a secret from path with trailing newlines trimmed. Files
// readable by group or others are accepted with a warning.
func ReadFile(path string) (string, error) {
	if path == "" {
		return "", configError("secret file path is empty")
	}
	clean := filepath.Clean(path)

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return "", configError("secret file not found: %s", clean)
		}
		return "", errors.New(fmt.Errorf("failed to stat secret file %s: %w", clean, err)).
			Component("secrets").
			Category(errors.CategoryFileIO).
			Build()
	}
	if !info.Mode().IsRegular() {
		return "", configError("secret path is not a regular file: %s", clean)
	}
	if info.Size() > maxFileSize {
		return "", configError("secret file too large (max %d bytes): %s", maxFileSize, clean)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Global().Module("secrets").Warn("secret file is readable by group or others",
			logger.String("path", clean),
			logger.String("mode", fmt.Sprintf("%04o", perm)))
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return "", errors.New(fmt.Errorf("failed to read secret file %s: %w", clean, err)).
			Component("secrets").
			Category(errors.CategoryFileIO).
			Build()
	}

	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", configError("secret file is empty: %s", clean)
	}
	return secret, nil
}

// Resolve returns the secret from filePath when set, otherwise value with
// environment references expanded.
func Resolve(filePath, value string) (string, error) {
	if filePath != "" {
		return ReadFile(filePath)
	}
	return Expand(value)
}
