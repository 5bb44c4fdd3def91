//go:build ruleguard

// Package gorules contains custom linting rules for golangci-lint via ruleguard.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// DefaultHTTPClient flags requests that bypass internal/httpclient and with it
// the request timeout, rate limiter and request ID header.
func DefaultHTTPClient(m dsl.Matcher) {
	m.Import("net/http")

	m.Match(`http.DefaultClient`, `http.Get($*_)`, `http.Post($*_)`, `http.Head($*_)`).
		Where(!m.File().Name.Matches(`_test\.go$`) && !m.File().PkgPath.Matches(`/internal/httpclient$`)).
		Report("use internal/httpclient instead of the default HTTP client")
}

// TestContext suggests t.Context() over a background context in tests so
// work is cancelled when the test ends.
func TestContext(m dsl.Matcher) {
	m.Match(`context.Background()`, `context.TODO()`).
		Where(m.File().Name.Matches(`_test\.go$`)).
		Report("use t.Context() in tests")
}

// WaitGroupModernize detects old WaitGroup patterns that can use wg.Go().
func WaitGroupModernize(m dsl.Matcher) {
	m.Match(`go func() { defer $wg.Done(); $*_ }()`).
		Where(m["wg"].Type.Is("*sync.WaitGroup")).
		Report("Use $wg.Go(func() { ... }) instead of go func() { defer $wg.Done(); ... }()").
		Suggest("$wg.Go(func() { $*_ })")
}

// LoggerFieldCount flags slog-style key/value pairs passed to the module
// logger, which takes typed logger.Field values.
func LoggerFieldCount(m dsl.Matcher) {
	m.Match(`$log.$method($msg, $key, $val, $*_)`).
		Where(m["key"].Type.Is("string") &&
			m["method"].Text.Matches(`^(Trace|Debug|Info|Warn|Error)$`) &&
			m["log"].Type.Implements("github.com/ops4go/phacts/internal/logger.Logger")).
		Report("logger.Logger takes logger.Field values, not key/value pairs")
}
