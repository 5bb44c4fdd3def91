// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultEndpoint            = "https://beta.openphacts.org/1.3/"
	DefaultAppID               = "5dea5f60"
	DefaultAppKey              = "064e38c33ad32e925cd7a6e78b7c4996"
	DefaultConceptBase         = "http://www.conceptwiki.org/concept/"
	DefaultTimeout             = 60 * time.Second
	DefaultRateLimit           = 0.0
	DefaultBurst               = 1
	DefaultUserAgent           = "phacts"
	DefaultMaxActivities       = 100
	DefaultSimilarityThreshold = 0.8
	DefaultOutput              = "text"
	DefaultAPIListen           = "127.0.0.1:8087"
	DefaultShutdownTimeout     = 10 * time.Second

	PrefsBackendMemory = "memory"
	PrefsBackendFile   = "file"
	PrefsBackendSQLite = "sqlite"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("output", DefaultOutput)

	viper.SetDefault("openphacts.endpoint", DefaultEndpoint)
	viper.SetDefault("openphacts.appid", DefaultAppID)
	viper.SetDefault("openphacts.appkey", DefaultAppKey)
	viper.SetDefault("openphacts.conceptbase", DefaultConceptBase)
	viper.SetDefault("openphacts.timeout", DefaultTimeout)
	viper.SetDefault("openphacts.ratelimit", DefaultRateLimit)
	viper.SetDefault("openphacts.burst", DefaultBurst)
	viper.SetDefault("openphacts.useragent", DefaultUserAgent)

	viper.SetDefault("annotation.maxactivities", DefaultMaxActivities)
	viper.SetDefault("similarity.threshold", DefaultSimilarityThreshold)

	viper.SetDefault("prefs.backend", PrefsBackendMemory)
	viper.SetDefault("prefs.path", "")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.console.stderr", true)
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/phacts.log")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.listen", "")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")

	viper.SetDefault("api.listen", DefaultAPIListen)
	viper.SetDefault("api.shutdowntimeout", DefaultShutdownTimeout)
}
