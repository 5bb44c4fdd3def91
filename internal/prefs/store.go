// Package prefs persists user preferences such as the API endpoint. Values are
// read on every call so changes take effect without a restart.
package prefs

import (
	"strings"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

// Preference keys.
const (
	KeyEndpoint    = "openphacts.prefs.endpoint"
	KeyConceptBase = "conceptwiki.prefs.endpoint"
)

// Store reads and writes string preferences.
type Store interface {
	// Get returns the value stored under key, or def when none is stored.
	Get(key, def string) string
	Put(key, value string) error
}

// New opens the store selected by settings.
func New(settings conf.PrefsSettings) (Store, error) {
	switch strings.ToLower(settings.Backend) {
	case "", conf.PrefsBackendMemory:
		return NewMemoryStore(), nil
	case conf.PrefsBackendFile:
		return NewFileStore(settings.Path)
	case conf.PrefsBackendSQLite:
		return NewDBStore(settings.Path)
	default:
		return nil, errors.Newf("unknown preference backend %q", settings.Backend).
			Component("prefs").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// Close releases resources held by s when it has any.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func getLogger() logger.Logger {
	return logger.Global().Module("prefs")
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.Newf("preference key must not be empty").
			Component("prefs").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
