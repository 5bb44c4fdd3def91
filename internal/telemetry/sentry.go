// Package telemetry provides opt-in, privacy-preserving error reporting to Sentry.
package telemetry

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

var sentryInitialized atomic.Bool

// Option customizes InitSentry.
type Option func(*sentry.ClientOptions)

// WithTransport replaces the Sentry transport, e.g. with a MockTransport in tests.
func WithTransport(t sentry.Transport) Option {
	return func(o *sentry.ClientOptions) {
		o.Transport = t
	}
}

// InitSentry initializes the Sentry SDK and installs the error reporter.
// It does nothing unless Sentry is explicitly enabled in settings.
func InitSentry(settings *conf.Settings, version string, opts ...Option) error {
	if !settings.Sentry.Enabled {
		getLogger().Debug("sentry telemetry is disabled (opt-in required)")
		errors.SetTelemetryReporter(errors.NewSentryReporter(false))
		return nil
	}

	options := sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "", // never send the hostname
		Release:          fmt.Sprintf("phacts@%s", version),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	if err := sentry.Init(options); err != nil {
		return errors.New(fmt.Errorf("sentry initialization failed: %w", err)).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
	})

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	sentryInitialized.Store(true)

	getLogger().Info("sentry telemetry initialized", logger.String("release", options.Release))
	return nil
}

// IsInitialized reports whether InitSentry enabled reporting.
func IsInitialized() bool {
	return sentryInitialized.Load()
}

// Flush waits up to timeout for queued events to be sent.
func Flush(timeout time.Duration) bool {
	if !sentryInitialized.Load() {
		return true
	}
	return sentry.Flush(timeout)
}

// ScrubMessage removes OPS credentials and other sensitive values from a message.
func ScrubMessage(message string) string {
	return logger.RedactSensitiveData(message)
}

// applyPrivacyFilters strips identifying data and credentials from an event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
	}
	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	event.Message = ScrubMessage(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = ScrubMessage(event.Exception[i].Value)
	}
	return event
}

func getLogger() logger.Logger {
	return logger.Global().Module("telemetry")
}
