package runtime

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/buildinfo"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/prefs"
)

func TestInitWiresService(t *testing.T) {
	settings := conf.Defaults()
	settings.Metrics.Enabled = true
	settings.Prefs = conf.PrefsSettings{Backend: conf.PrefsBackendFile, Path: filepath.Join(t.TempDir(), "prefs.yaml")}

	c := New(buildinfo.NewContext("1.2.3", ""))
	require.NoError(t, c.InitWithSettings(settings, Options{Debug: true, Output: "json"}))
	t.Cleanup(func() { _ = c.Close() })

	svc, err := c.RequireService()
	require.NoError(t, err)
	assert.Same(t, svc, phacts.Default())
	assert.NotNil(t, c.Metrics)
	assert.Equal(t, output.FormatJSON, c.Format)
	assert.True(t, c.Settings.Debug)
	assert.Equal(t, "debug", c.Settings.Logging.DefaultLevel)
	assert.Equal(t, "phacts/1.2.3", c.Settings.OpenPHACTS.UserAgent)
	assert.Equal(t, conf.DefaultEndpoint, svc.Endpoint())

	require.NoError(t, svc.SetEndpoint("https://ops.example.org/2.0/"))
	store, err := prefs.New(settings.Prefs)
	require.NoError(t, err)
	assert.Equal(t, "https://ops.example.org/2.0/", store.Get(prefs.KeyEndpoint, ""))

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, []string{"a"}))
	assert.JSONEq(t, `["a"]`, buf.String())
}

func TestInitRejectsUnknownOutput(t *testing.T) {
	c := New(nil)
	err := c.InitWithSettings(conf.Defaults(), Options{Output: "xml"})
	require.Error(t, err)

	_, err = c.RequireService()
	assert.ErrorIs(t, err, phacts.ErrNoService)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.InitWithSettings(conf.Defaults(), Options{}))
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.Metrics)
	assert.Equal(t, output.FormatText, c.Format)
}
