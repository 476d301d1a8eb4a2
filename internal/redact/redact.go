package redact

import (
	"net/http"
	"strings"

	"faultline/internal/constants"
)

// Headers stripped regardless of configuration.
var builtinSensitiveHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"X-Api-Key":     true,
	"X-Csrf-Token":  true,
}

// SanitizeMap returns a copy of m with every value whose key matches an
// entry of sensitive (case-insensitively) replaced by the redaction marker.
// Nested string-keyed maps are sanitized recursively; scalar and array
// values pass through unchanged. The input is never mutated.
func SanitizeMap(m map[string]interface{}, sensitive []string) map[string]interface{} {
	if m == nil {
		return nil
	}

	lookup := make(map[string]bool, len(sensitive))
	for _, key := range sensitive {
		lookup[strings.ToLower(key)] = true
	}

	return sanitize(m, lookup)
}

func sanitize(m map[string]interface{}, sensitive map[string]bool) map[string]interface{} {
	out := make(map[string]interface{}, len(m))

	for key, value := range m {
		if sensitive[strings.ToLower(key)] {
			out[key] = constants.RedactionMarker
			continue
		}

		switch nested := value.(type) {
		case map[string]interface{}:
			out[key] = sanitize(nested, sensitive)
		case map[string]string:
			out[key] = sanitizeStringMap(nested, sensitive)
		default:
			out[key] = value
		}
	}

	return out
}

func sanitizeStringMap(m map[string]string, sensitive map[string]bool) map[string]string {
	out := make(map[string]string, len(m))
	for key, value := range m {
		if sensitive[strings.ToLower(key)] {
			out[key] = constants.RedactionMarker
			continue
		}
		out[key] = value
	}
	return out
}

// SanitizeHeaders flattens multi-valued headers to their first value and
// redacts the built-in sensitive set (authorization, cookies, API keys,
// CSRF tokens) regardless of configuration.
func SanitizeHeaders(h http.Header) map[string]string {
	if h == nil {
		return nil
	}

	out := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}

		canonical := http.CanonicalHeaderKey(key)
		if builtinSensitiveHeaders[canonical] {
			out[canonical] = constants.RedactionMarker
			continue
		}
		out[canonical] = values[0]
	}

	return out
}
