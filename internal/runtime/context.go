// Package runtime holds the collaborators a command needs once configuration
// has been loaded: settings, logging, telemetry, metrics and the query service.
package runtime

import (
	"fmt"
	"io"
	"time"

	"github.com/ops4go/phacts/internal/buildinfo"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/prefs"
	"github.com/ops4go/phacts/internal/telemetry"
)

const telemetryFlushTimeout = 2 * time.Second

// Options are the command-line overrides applied on top of the loaded settings.
type Options struct {
	ConfigFile string
	Debug      bool
	Output     string // empty keeps the configured format
}

// Context contains runtime state that is not user-configurable. It is
// populated by Init before a subcommand runs.
type Context struct {
	Build    *buildinfo.Context
	Settings *conf.Settings
	Service  *phacts.Service
	Metrics  *observability.Metrics
	Format   output.Format

	logger *logger.CentralLogger
}

// New returns an uninitialized context for build.
func New(build *buildinfo.Context) *Context {
	if build == nil {
		build = buildinfo.Current()
	}
	return &Context{Build: build}
}

// Init loads settings and wires logging, telemetry, metrics, preferences and
// the query service. The service becomes the process-wide default.
func (c *Context) Init(opts Options) error {
	settings, err := conf.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	return c.InitWithSettings(settings, opts)
}

// InitWithSettings is Init with already loaded settings.
func (c *Context) InitWithSettings(settings *conf.Settings, opts Options) error {
	if opts.Debug {
		settings.Debug = true
	}
	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
	}
	if opts.Output != "" {
		settings.Output = opts.Output
	}
	if settings.OpenPHACTS.UserAgent == conf.DefaultUserAgent {
		settings.OpenPHACTS.UserAgent = c.Build.UserAgent()
	}

	format, err := output.ParseFormat(settings.Output)
	if err != nil {
		return err
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(cl)

	if err := telemetry.InitSentry(settings, c.Build.GetVersion()); err != nil {
		// Telemetry is optional; a bad DSN must not stop queries.
		cl.Module("telemetry").Warn("sentry disabled", logger.Error(err))
	}

	var opsMetrics *metrics.OPSMetrics
	if settings.Metrics.Enabled {
		m, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		c.Metrics = m
		opsMetrics = m.OPS
	}

	store, err := prefs.New(settings.Prefs)
	if err != nil {
		return err
	}

	svc, err := phacts.NewService(phacts.Config{
		Settings: settings,
		Prefs:    store,
		Metrics:  opsMetrics,
	})
	if err != nil {
		_ = prefs.Close(store)
		return err
	}
	phacts.SetDefault(svc)

	c.Settings = settings
	c.Service = svc
	c.Format = format
	c.logger = cl

	cl.Module("runtime").Debug("initialized",
		logger.String("version", c.Build.GetVersion()),
		logger.String("instance_id", c.Build.InstanceID),
		logger.String("endpoint", svc.Endpoint()),
		logger.String("output", string(format)))
	return nil
}

// RequireService returns the initialized service or phacts.ErrNoService.
func (c *Context) RequireService() (*phacts.Service, error) {
	if c == nil || c.Service == nil {
		return nil, phacts.ErrNoService
	}
	return c.Service, nil
}

// Write renders v to w in the configured output format.
func (c *Context) Write(w io.Writer, v any) error {
	return output.Write(w, c.Format, v)
}

// Close releases the service, flushes telemetry and closes log files. It is
// safe to call more than once.
func (c *Context) Close() error {
	var errs []error
	if c.Service != nil {
		phacts.SetDefault(nil)
		errs = append(errs, c.Service.Close())
		c.Service = nil
	}
	if telemetry.IsInitialized() {
		telemetry.Flush(telemetryFlushTimeout)
	}
	if c.logger != nil {
		errs = append(errs, c.logger.Close())
		c.logger = nil
	}
	return errors.Join(errs...)
}
