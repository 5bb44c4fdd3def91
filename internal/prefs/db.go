package prefs

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Preference is one stored key/value pair.
type Preference struct {
	Key       string `gorm:"column:pref_key;primaryKey;size:255"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// DBStore keeps preferences in a SQLite database.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore opens or creates the SQLite database at path. ":memory:" gives a
// private in-memory database.
func NewDBStore(path string) (*DBStore, error) {
	if path == "" {
		return nil, errors.Newf("sqlite preference store requires a path").
			Component("prefs").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.New(err).
				Component("prefs").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(getLogger(), slowQueryThreshold),
	})
	if err != nil {
		closeDB(db)
		return nil, dbError(err, "open").Context("path", path).Build()
	}

	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(&Preference{}); err != nil {
		closeDB(db)
		return nil, dbError(err, "migrate").Context("path", path).Build()
	}
	return &DBStore{db: db}, nil
}

// Get returns the stored value, or def when the key is unset or the lookup fails.
func (s *DBStore) Get(key, def string) string {
	var p Preference
	err := s.db.Where("pref_key = ?", key).First(&p).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			getLogger().Warn("preference lookup failed, using default",
				logger.String("key", key),
				logger.Error(err))
		}
		return def
	}
	return p.Value
}

func (s *DBStore) Put(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Preference{Key: key, Value: value, UpdatedAt: time.Now()}).Error
	if err != nil {
		return dbError(err, "put").Context("key", key).Build()
	}
	return nil
}

// Close closes the underlying database.
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "close").Build()
	}
	return sqlDB.Close()
}

// closeDB releases the connection pool of a store that failed to initialize.
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func dbError(err error, operation string) *errors.ErrorBuilder {
	return errors.New(err).
		Component("prefs").
		Category(errors.CategoryDatabase).
		Context("operation", operation)
}
