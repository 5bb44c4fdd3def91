package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jarcoal/httpmock"
)

// testTurtle is a minimal payload in the format the linked data API returns.
const testTurtle = "@prefix ex: <http://example.org/> .\nex:s ex:p \"o\" .\n"

// newTestClient creates a Client with default configuration and registers cleanup.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	return newTestClientWithConfig(t, &cfg)
}

// newTestClientWithConfig creates a Client with custom configuration and registers cleanup.
func newTestClientWithConfig(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

// newMockedClient creates a Client for cfg whose requests go to a mock
// transport instead of the network.
func newMockedClient(t *testing.T, cfg Config) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	cfg.Transport = transport
	return newTestClientWithConfig(t, &cfg), transport
}

// turtleResponder answers with body as a Turtle document.
func turtleResponder(body string) httpmock.Responder {
	return httpmock.NewStringResponder(http.StatusOK, body).
		HeaderSet(http.Header{"Content-Type": {"text/turtle"}})
}

// newTestServer creates a test HTTP server and registers cleanup.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// closeResponseBody closes a response body, logging a failure.
func closeResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		t.Logf("failed to close response body: %v", err)
	}
}
