package logger

import (
	"regexp"
	"strings"
)

// RedactSecret masks a credential for safe logging, keeping a short prefix
// so distinct keys can still be told apart in logs.
// "4f3a9b2c7d1e" → "4f3a***"
// Short values (≤4 chars) are fully masked.
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}

// Field names that carry credentials outright.
var secretKeyHints = []string{"key", "secret", "password", "token"}

// The Cookiebot stats endpoint carries the API key as a URL path segment:
// /api/v1/{apiKey}/json/... — mask that segment wherever a URL is logged.
var cookiebotKeyPattern = regexp.MustCompile(`(/api/v1/)([^/]+)(/json/)`)

// RedactValue applies the same masking the logger applies to a field value,
// for callers that write to streams outside the structured log path.
func RedactValue(key, val string) string {
	return redactSecretValue(key, val)
}

func redactSecretValue(key, val string) string {
	lower := strings.ToLower(key)
	for _, hint := range secretKeyHints {
		if strings.Contains(lower, hint) {
			return RedactSecret(val)
		}
	}
	// Redact any embedded API-key path segments in generic fields
	return cookiebotKeyPattern.ReplaceAllStringFunc(val, func(m string) string {
		sub := cookiebotKeyPattern.FindStringSubmatch(m)
		return sub[1] + RedactSecret(sub[2]) + sub[3]
	})
}
