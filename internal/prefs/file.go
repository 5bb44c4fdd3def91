package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

// FileStore keeps preferences in a YAML file. Dotted keys become nested maps.
type FileStore struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// NewFileStore opens the YAML file at path. A missing file is created on the first Put.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.Newf("file preference store requires a path").
			Component("prefs").
			Category(errors.CategoryConfiguration).
			Build()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(err).
				Component("prefs").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.New(err).
			Component("prefs").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	getLogger().Debug("opened preference file", logger.String("path", path))
	return &FileStore{path: path, v: v}, nil
}

func (s *FileStore) Get(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetString(key)
}

// Put stores value and rewrites the file.
func (s *FileStore) Put(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.New(err).
			Component("prefs").
			Category(errors.CategoryFileIO).
			Context("path", s.path).
			Build()
	}

	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return errors.New(err).
			Component("prefs").
			Category(errors.CategoryFileIO).
			Context("path", s.path).
			Context("key", key).
			Build()
	}
	return nil
}
