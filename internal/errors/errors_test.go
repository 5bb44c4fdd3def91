package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
)

type recordingReporter struct {
	enabled  bool
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func (r *recordingReporter) IsEnabled() bool { return r.enabled }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}
	if ee.GetComponent() != ComponentUnknown {
		t.Errorf("Expected component 'unknown' in fast path, got '%s'", ee.GetComponent())
	}
	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic' in fast path, got '%s'", ee.Category)
	}
}

func TestCategoryInheritedFromWrappedError(t *testing.T) {
	SetTelemetryReporter(nil)

	inner := Newf("remote returned 404").Category(CategoryNotFound).Component("ops").Build()
	outer := New(fmt.Errorf("info lookup for 12345: %w", inner)).Build()

	if outer.Category != CategoryNotFound {
		t.Errorf("Expected inherited category 'not-found', got '%s'", outer.Category)
	}
	if !IsNotFound(outer) {
		t.Error("Expected IsNotFound to see through the wrapper")
	}
}

func TestIsCategoryWalksChain(t *testing.T) {
	inner := Newf("bad column").Category(CategoryRDFParse).Build()
	outer := New(fmt.Errorf("annotate: %w", inner)).Category(CategoryProcessing).Build()

	if !IsCategory(outer, CategoryProcessing) {
		t.Error("Expected outer category to match")
	}
	if !IsCategory(outer, CategoryRDFParse) {
		t.Error("Expected inner category to match through the chain")
	}
	if IsInvalidArgument(outer) {
		t.Error("Did not expect validation category")
	}
	if IsCategory(fmt.Errorf("plain"), CategoryGeneric) {
		t.Error("Plain errors carry no category")
	}
}

func TestReporterReceivesErrors(t *testing.T) {
	reporter := &recordingReporter{enabled: true}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := Newf("connection refused").Component("ops").Build()

	if len(reporter.reported) != 1 {
		t.Fatalf("Expected 1 reported error, got %d", len(reporter.reported))
	}
	if ee.Category != CategoryNetwork {
		t.Errorf("Expected detected category 'network', got '%s'", ee.Category)
	}
	if !ee.IsReported() {
		t.Error("Expected error to be marked reported")
	}
}

func TestDisabledReporterKeepsFastPath(t *testing.T) {
	reporter := &recordingReporter{enabled: false}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	_ = Newf("anything").Build()

	if len(reporter.reported) != 0 {
		t.Errorf("Disabled reporter should not receive errors, got %d", len(reporter.reported))
	}
}

func TestScrubMessageForPrivacy(t *testing.T) {
	msg := "GET https://beta.openphacts.org/1.3/compound?uri=x&app_id=5dea5f60&app_key=064e38c33ad32e925cd7a6e78b7c4996 failed"
	scrubbed := scrubMessageForPrivacy(msg)

	if strings.Contains(scrubbed, "5dea5f60") || strings.Contains(scrubbed, "064e38c3") {
		t.Errorf("Credentials still present: %s", scrubbed)
	}
	if !strings.Contains(scrubbed, "https://beta.openphacts.org/1.3/compound?[REDACTED]") {
		t.Errorf("Expected URL with redacted query, got: %s", scrubbed)
	}

	bare := scrubMessageForPrivacy("config: app_key=secret123 rejected")
	if !strings.Contains(bare, "[CREDENTIAL_REDACTED]") {
		t.Errorf("Expected bare credential redaction, got: %s", bare)
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	ee := Newf("boom").
		Component("ops").
		Category(CategoryRDFParse).
		Context("operation", "compound_info").
		Build()

	if got := generateErrorTitle(ee); got != "Ops RDF Parse Error Compound Info" {
		t.Errorf("Unexpected title: %s", got)
	}
}

func TestNetworkContextAnonymizesURL(t *testing.T) {
	ee := Newf("dial failed").
		NetworkContext("https://beta.openphacts.org/1.3/compound?app_key=secret", 30*time.Second).
		Timing("compound_info", 1500*time.Millisecond).
		Build()

	ctx := ee.GetContext()
	if ctx["url_category"] != "https-endpoint" {
		t.Errorf("Expected url_category 'https-endpoint', got %v", ctx["url_category"])
	}
	if ctx["timeout_seconds"] != 30.0 {
		t.Errorf("Expected timeout_seconds 30, got %v", ctx["timeout_seconds"])
	}
	if ctx["operation"] != "compound_info" {
		t.Errorf("Expected operation 'compound_info', got %v", ctx["operation"])
	}
	if ctx["duration_ms"] != int64(1500) {
		t.Errorf("Expected duration_ms 1500, got %v", ctx["duration_ms"])
	}
	for key, value := range ctx {
		if s, ok := value.(string); ok && strings.Contains(s, "secret") {
			t.Errorf("Context %q leaks the URL: %s", key, s)
		}
	}
}

func TestPriorityOverridesCategoryLevel(t *testing.T) {
	tests := []struct {
		name     string
		priority string
		category ErrorCategory
		want     sentry.Level
		wantPrio string
	}{
		{"category only", "", CategoryNetwork, sentry.LevelWarning, ""},
		{"high network", PriorityHigh, CategoryNetwork, sentry.LevelError, PriorityHigh},
		{"critical", PriorityCritical, CategoryGeneric, sentry.LevelFatal, PriorityCritical},
		{"low", PriorityLow, CategoryConfiguration, sentry.LevelInfo, PriorityLow},
		{"unknown falls back to medium", "urgent", CategoryValidation, sentry.LevelInfo, PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ee := Newf("x").Category(tt.category).Priority(tt.priority).Build()
			if ee.GetPriority() != tt.wantPrio {
				t.Errorf("Expected priority %q, got %q", tt.wantPrio, ee.GetPriority())
			}
			if got := getErrorLevel(ee); got != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTimestampIsSetOnBuild(t *testing.T) {
	before := time.Now()
	ee := Newf("x").Build()
	if ts := ee.GetTimestamp(); ts.Before(before) || ts.After(time.Now()) {
		t.Errorf("Unexpected timestamp %v", ts)
	}
}
