// Package buildinfo contains build-time metadata kept separate from user configuration.
package buildinfo

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
)

// UnknownValue is reported for metadata that was not injected at build time.
const UnknownValue = "unknown"

// Set with -ldflags "-X github.com/ops4go/phacts/internal/buildinfo.version=..."
var (
	version   string
	buildDate string
)

// Context contains build-time metadata that is not user-configurable.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// InstanceID identifies this process in telemetry and request headers
	InstanceID string
}

// NewContext creates a Context with a fresh instance ID.
func NewContext(version, buildDate string) *Context {
	return &Context{
		Version:    version,
		BuildDate:  buildDate,
		InstanceID: uuid.NewString(),
	}
}

// Current returns the Context of the running binary.
func Current() *Context {
	return NewContext(version, buildDate)
}

// GetVersion returns the build version, or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date, or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// UserAgent is the User-Agent sent to the linked data API.
func (c *Context) UserAgent() string {
	return "phacts/" + c.GetVersion()
}

// String renders the context for `phacts --version`.
func (c *Context) String() string {
	return fmt.Sprintf("%s (built %s, %s %s/%s)",
		c.GetVersion(), c.GetBuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
