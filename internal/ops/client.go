// Package ops is the client for the Open PHACTS linked data API. Each method
// performs exactly one GET and returns the raw Turtle payload; interpreting the
// payload is left to the caller.
package ops

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/httpclient"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability/metrics"
)

const (
	// DefaultMaxPayloadBytes bounds a single response body.
	DefaultMaxPayloadBytes = 64 << 20
	// maxErrorBodyBytes bounds the body snippet kept in a RemoteError message.
	maxErrorBodyBytes = 512

	turtleFormat = "ttl"
)

// EndpointSource supplies the API base URL. It is consulted on every call so
// endpoint changes take effect immediately.
type EndpointSource interface {
	Endpoint() string
}

// StaticEndpoint is an EndpointSource with a fixed URL.
type StaticEndpoint string

func (s StaticEndpoint) Endpoint() string { return string(s) }

// Config holds the dependencies of a Client.
type Config struct {
	Endpoint EndpointSource
	AppID    string
	AppKey   string
	HTTP     *httpclient.Client  // nil uses a default client
	Metrics  *metrics.OPSMetrics // nil disables metrics
	Logger   logger.Logger       // nil uses the global "ops" module logger

	MaxPayloadBytes int // <1 uses DefaultMaxPayloadBytes
}

// Client calls the linked data API. It is safe for concurrent use.
type Client struct {
	endpoint EndpointSource
	appID    string
	appKey   string
	http     *httpclient.Client
	metrics  *metrics.OPSMetrics
	log      logger.Logger

	maxPayloadBytes int
}

// New creates a Client. An endpoint source is required.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == nil {
		return nil, errors.Newf("ops client requires an endpoint source").
			Component("ops").
			Category(errors.CategoryConfiguration).
			Build()
	}
	c := &Client{
		endpoint: cfg.Endpoint,
		appID:    cfg.AppID,
		appKey:   cfg.AppKey,
		http:     cfg.HTTP,
		metrics:  cfg.Metrics,
		log:      cfg.Logger,

		maxPayloadBytes: cfg.MaxPayloadBytes,
	}
	if c.maxPayloadBytes < 1 {
		c.maxPayloadBytes = DefaultMaxPayloadBytes
	}
	if c.http == nil {
		c.http = httpclient.New(nil)
	}
	if c.log == nil {
		c.log = logger.Global().Module("ops")
	}
	return c, nil
}

// requestURL joins the current endpoint, path and parameters, adding credentials and format.
func (c *Client) requestURL(path string, params url.Values) (string, error) {
	base := strings.TrimSpace(c.endpoint.Endpoint())
	if base == "" {
		return "", errors.Newf("no API endpoint configured").
			Component("ops").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base + path)
	if err != nil {
		return "", errors.New(err).
			Component("ops").
			Category(errors.CategoryConfiguration).
			Context("endpoint", base).
			Build()
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("_format", turtleFormat)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get performs one call and returns the response body.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values) (string, error) {
	target, err := c.requestURL(path, params)
	if err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, requestID)
	log := c.log.WithContext(ctx).With(logger.String("operation", operation))

	header := http.Header{}
	header.Set("Accept", "text/turtle")
	header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Get(ctx, target, header)
	if err != nil {
		err = scrubTransportError(err, target)
		c.metrics.RecordRequest(operation, metrics.StatusTransportError, time.Since(start))
		log.Warn("request failed", logger.Error(err), logger.Duration("elapsed", time.Since(start)))
		return "", c.remoteError(operation, path, time.Since(start), &RemoteError{
			Operation: operation,
			Message:   logger.RedactSensitiveData(err.Error()),
			Err:       err,
		})
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug("failed to close response body", logger.Error(cerr))
		}
	}()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.metrics.RecordRequest(operation, status, time.Since(start))
		log.Debug("remote error", logger.Int("status", resp.StatusCode), logger.Duration("elapsed", time.Since(start)))
		message := http.StatusText(resp.StatusCode)
		if s := strings.TrimSpace(string(snippet)); s != "" {
			message += ": " + s
		}
		return "", c.remoteError(operation, path, time.Since(start), &RemoteError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    message,
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxPayloadBytes)+1))
	c.metrics.RecordRequest(operation, status, time.Since(start))
	if err != nil {
		err = scrubTransportError(err, target)
		return "", c.remoteError(operation, path, time.Since(start), &RemoteError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    "reading body: " + logger.RedactSensitiveData(err.Error()),
			Err:        err,
		})
	}
	if len(body) > c.maxPayloadBytes {
		log.Warn("response payload too large", logger.Int("limit_bytes", c.maxPayloadBytes))
		return "", c.remoteError(operation, path, time.Since(start), &RemoteError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    "payload exceeds " + strconv.Itoa(c.maxPayloadBytes) + " bytes",
			Err:        ErrPayloadTooLarge,
		})
	}
	c.metrics.RecordResponseSize(operation, len(body))

	log.Debug("request completed",
		logger.String("url", redactURL(target)),
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", time.Since(start)))
	return string(body), nil
}

// remoteError categorizes a failed call. The request URL is recorded only as
// its path since the query carries the credentials.
func (c *Client) remoteError(operation, path string, elapsed time.Duration, re *RemoteError) error {
	category := errors.CategoryNetwork
	switch {
	case re.StatusCode == http.StatusNotFound:
		category = errors.CategoryNotFound
	case errors.Is(re.Err, context.DeadlineExceeded):
		category = errors.CategoryTimeout
	case errors.Is(re.Err, context.Canceled):
		category = errors.CategoryCancellation
	}
	eb := errors.New(re).
		Component("ops").
		Category(category).
		NetworkContext(c.endpoint.Endpoint(), c.http.Timeout()).
		Timing(operation, elapsed).
		Context("path", path).
		Context("status_code", re.StatusCode)
	if re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden {
		// Rejected credentials fail every call until the configuration changes.
		eb = eb.Priority(errors.PriorityHigh)
	}
	return eb.Build()
}

// redactURL drops the query string of target.
func redactURL(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// scrubTransportError replaces the URL recorded in a *url.Error with its
// query-less form, keeping the underlying cause for errors.Is.
func scrubTransportError(err error, target string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: redactURL(target), Err: urlErr.Err}
	}
	return err
}

func invalidArgument(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("ops").
		Category(errors.CategoryValidation).
		Build()
}
