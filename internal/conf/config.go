// Package conf provides configuration management for phacts.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/secrets"
)

// OpenPHACTSSettings contains the linked data API connection settings.
type OpenPHACTSSettings struct {
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`       // base URL of the OPS linked data API, ends with '/'
	AppID       string        `mapstructure:"appid" yaml:"appid"`             // application identifier sent with every call
	AppKey      string        `mapstructure:"appkey" yaml:"appkey"`           // application key sent with every call; may hold ${VAR} references
	AppKeyFile  string        `mapstructure:"appkeyfile" yaml:"appkeyfile"`   // file holding the key, takes precedence over appkey
	ConceptBase string        `mapstructure:"conceptbase" yaml:"conceptbase"` // prefix that turns a concept ID into a URI
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`         // per-request timeout
	RateLimit   float64       `mapstructure:"ratelimit" yaml:"ratelimit"`     // requests per second, 0 disables limiting
	Burst       int           `mapstructure:"burst" yaml:"burst"`
	UserAgent   string        `mapstructure:"useragent" yaml:"useragent"`
}

// AnnotationSettings controls the per-entity aggregation stage.
type AnnotationSettings struct {
	MaxActivities int `mapstructure:"maxactivities" yaml:"maxactivities"` // cap on pharmacology records fetched per compound
}

// SimilaritySettings controls structure similarity searches.
type SimilaritySettings struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"` // default Tanimoto cutoff
}

// PrefsSettings selects where endpoint preferences are persisted.
type PrefsSettings struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // memory, file or sqlite
	Path    string `mapstructure:"path" yaml:"path"`
}

// MetricsSettings controls the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"` // separate listener; empty serves /metrics on the API server
}

// SentrySettings controls optional error telemetry.
type SentrySettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// APISettings controls the HTTP API server.
type APISettings struct {
	Listen          string        `mapstructure:"listen" yaml:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout" yaml:"shutdowntimeout"`
}

// Settings contains all configuration options.
type Settings struct {
	Debug      bool                 `mapstructure:"debug" yaml:"debug"`
	Output     string               `mapstructure:"output" yaml:"output"` // json, yaml or text
	OpenPHACTS OpenPHACTSSettings   `mapstructure:"openphacts" yaml:"openphacts"`
	Annotation AnnotationSettings   `mapstructure:"annotation" yaml:"annotation"`
	Similarity SimilaritySettings   `mapstructure:"similarity" yaml:"similarity"`
	Prefs      PrefsSettings        `mapstructure:"prefs" yaml:"prefs"`
	Logging    logger.LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics    MetricsSettings      `mapstructure:"metrics" yaml:"metrics"`
	Sentry     SentrySettings       `mapstructure:"sentry" yaml:"sentry"`
	API        APISettings          `mapstructure:"api" yaml:"api"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables.
// An empty configFile searches the default config paths; a missing file is not an error.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Category(errors.CategoryConfiguration).
			Component("configuration").
			Build()
	}

	if err := resolveCredentials(&settings.OpenPHACTS); err != nil {
		return nil, err
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// resolveCredentials expands the app ID and key, reading the key from
// AppKeyFile when one is configured.
func resolveCredentials(s *OpenPHACTSSettings) error {
	appID, err := secrets.Expand(s.AppID)
	if err != nil {
		return fmt.Errorf("openphacts.appid: %w", err)
	}
	appKey, err := secrets.Resolve(s.AppKeyFile, s.AppKey)
	if err != nil {
		return fmt.Errorf("openphacts.appkey: %w", err)
	}
	s.AppID, s.AppKey = appID, appKey
	return nil
}

// initViper sets defaults, binds the environment and reads the config file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		// Invalid environment values are reported but do not stop startup;
		// ValidateSettings rejects anything that would break a request.
		GetLogger().Warn("environment configuration issues", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, path := range GetDefaultConfigPaths() {
			viper.AddConfigPath(path)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			GetLogger().Debug("no config file found, using defaults")
			return nil
		}
		return errors.New(fmt.Errorf("fatal error reading config file: %w", err)).
			Category(errors.CategoryConfiguration).
			Component("configuration").
			Build()
	}

	GetLogger().Debug("loaded config file", logger.String("path", viper.ConfigFileUsed()))
	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "phacts"))
	}
	return append(paths, "/etc/phacts")
}

// GetSettings returns the current settings instance, nil before Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings, loading defaults on first use.
func Setting() *Settings {
	if s := GetSettings(); s != nil {
		return s
	}
	s, err := Load("")
	if err != nil {
		GetLogger().Error("failed to load settings, using built-in defaults", logger.Error(err))
		return Defaults()
	}
	return s
}

// Defaults returns settings populated only from built-in defaults.
func Defaults() *Settings {
	return &Settings{
		Output: DefaultOutput,
		OpenPHACTS: OpenPHACTSSettings{
			Endpoint:    DefaultEndpoint,
			AppID:       DefaultAppID,
			AppKey:      DefaultAppKey,
			ConceptBase: DefaultConceptBase,
			Timeout:     DefaultTimeout,
			RateLimit:   DefaultRateLimit,
			Burst:       DefaultBurst,
			UserAgent:   DefaultUserAgent,
		},
		Annotation: AnnotationSettings{MaxActivities: DefaultMaxActivities},
		Similarity: SimilaritySettings{Threshold: DefaultSimilarityThreshold},
		Prefs:      PrefsSettings{Backend: PrefsBackendMemory},
		Logging:    logger.LoggingConfig{DefaultLevel: logger.DefaultLogLevel},
		API:        APISettings{Listen: DefaultAPIListen, ShutdownTimeout: DefaultShutdownTimeout},
	}
}
