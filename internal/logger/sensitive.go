package logger

import (
	"regexp"
	"strings"
)

// SensitiveDataPatterns match credentials that must never reach log output.
// OPS requests carry app_id/app_key in the query string, so URLs logged at
// debug level are the main concern.
var SensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(app_(?:id|key)=)([^&\s"]+)`),
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9-._~+/]+=*)`),
	regexp.MustCompile(`(?i)((?:api|access|auth|secret|passw(?:or)?d)[0-9a-z\-_.]*[\s:=]+)([^;,&\s]{5,})`),
	regexp.MustCompile(`(?i)(dsn[\s:=]+https?://)([^@\s]+)`),
}

// SensitiveKeywords are field keys whose values are always redacted.
var SensitiveKeywords = []string{
	"password", "secret", "token", "app_key", "appkey", "api_key", "dsn", "authorization",
}

// RedactSensitiveData replaces credential values with "[REDACTED]".
func RedactSensitiveData(input string) string {
	if input == "" || !strings.ContainsAny(input, "=: ") {
		return input
	}
	for _, pattern := range SensitiveDataPatterns {
		input = pattern.ReplaceAllString(input, "${1}[REDACTED]")
	}
	return input
}

// IsSensitiveKey reports whether a field key names a credential.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, sensitive := range SensitiveKeywords {
		if strings.Contains(keyLower, sensitive) {
			return true
		}
	}
	return false
}
