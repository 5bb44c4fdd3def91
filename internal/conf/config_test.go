package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears global viper state so each test starts from defaults.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, settings.OpenPHACTS.Endpoint)
	assert.Equal(t, DefaultAppID, settings.OpenPHACTS.AppID)
	assert.Equal(t, DefaultAppKey, settings.OpenPHACTS.AppKey)
	assert.Equal(t, DefaultConceptBase, settings.OpenPHACTS.ConceptBase)
	assert.Equal(t, DefaultTimeout, settings.OpenPHACTS.Timeout)
	assert.Equal(t, DefaultMaxActivities, settings.Annotation.MaxActivities)
	assert.InDelta(t, DefaultSimilarityThreshold, settings.Similarity.Threshold, 1e-9)
	assert.Equal(t, PrefsBackendMemory, settings.Prefs.Backend)
	assert.Same(t, settings, GetSettings())
}

func TestLoadConfigFile(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `
openphacts:
  endpoint: https://ops.example.org/2.1
  timeout: 5s
  ratelimit: 2.5
annotation:
  maxactivities: 10
similarity:
  threshold: 0.9
prefs:
  backend: SQLite
  path: /tmp/prefs.db
output: JSON
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ops.example.org/2.1/", settings.OpenPHACTS.Endpoint, "endpoint gains a trailing slash")
	assert.Equal(t, 5*time.Second, settings.OpenPHACTS.Timeout)
	assert.InDelta(t, 2.5, settings.OpenPHACTS.RateLimit, 1e-9)
	assert.Equal(t, 10, settings.Annotation.MaxActivities)
	assert.InDelta(t, 0.9, settings.Similarity.Threshold, 1e-9)
	assert.Equal(t, PrefsBackendSQLite, settings.Prefs.Backend)
	assert.Equal(t, "json", settings.Output)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, "openphacts:\n  endpoint: https://file.example.org/\n")
	t.Setenv("PHACTS_ENDPOINT", "https://env.example.org/api/")
	t.Setenv("PHACTS_APP_ID", "id-from-env")
	t.Setenv("PHACTS_TIMEOUT", "15s")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.org/api/", settings.OpenPHACTS.Endpoint)
	assert.Equal(t, "id-from-env", settings.OpenPHACTS.AppID)
	assert.Equal(t, 15*time.Second, settings.OpenPHACTS.Timeout)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-http endpoint", "openphacts:\n  endpoint: ftp://ops.example.org/\n"},
		{"zero threshold", "similarity:\n  threshold: 0\n"},
		{"threshold above one", "similarity:\n  threshold: 1.5\n"},
		{"zero activity cap", "annotation:\n  maxactivities: 0\n"},
		{"unknown prefs backend", "prefs:\n  backend: redis\n"},
		{"file backend without path", "prefs:\n  backend: file\n"},
		{"unknown output", "output: xml\n"},
		{"sentry without dsn", "sentry:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			var ve ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	resetViper(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSettings(Defaults()))
}

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fn      func(string) error
		value   string
		wantErr bool
	}{
		{"bool true", validateEnvBool, "true", false},
		{"bool yes", validateEnvBool, "yes", true},
		{"https url", validateEnvURL, "https://beta.openphacts.org/1.3/", false},
		{"url without host", validateEnvURL, "https:///path", true},
		{"file url", validateEnvURL, "file:///etc/passwd", true},
		{"rate", validateEnvRateLimit, "4", false},
		{"negative rate", validateEnvRateLimit, "-1", true},
		{"duration", validateEnvDuration, "30s", false},
		{"bare number duration", validateEnvDuration, "30", true},
		{"zero duration", validateEnvDuration, "0s", true},
		{"prefs sqlite", validateEnvPrefsBackend, "SQLITE", false},
		{"prefs redis", validateEnvPrefsBackend, "redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.fn(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadResolvesAppKey(t *testing.T) {
	resetViper(t)
	t.Setenv("PHACTS_TEST_APP_ID", "expanded-id")
	keyFile := filepath.Join(t.TempDir(), "appkey")
	require.NoError(t, os.WriteFile(keyFile, []byte("key-from-file\n"), 0o600))

	path := writeConfig(t, `
openphacts:
  appid: ${PHACTS_TEST_APP_ID}
  appkey: ignored-literal
  appkeyfile: `+keyFile+`
`)

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-id", settings.OpenPHACTS.AppID)
	assert.Equal(t, "key-from-file", settings.OpenPHACTS.AppKey)
}

func TestLoadRejectsMissingAppKeyFile(t *testing.T) {
	resetViper(t)
	t.Setenv("PHACTS_APP_KEY_FILE", filepath.Join(t.TempDir(), "missing"))

	_, err := Load(writeConfig(t, "debug: false\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openphacts.appkey")
}
