package report

import (
	"net"
	"net/http"
	"strings"

	"faultline/internal/redact"
)

// FromRequest builds the request sub-object of a payload from an active HTTP
// request, sanitizing input values and headers.
func FromRequest(r *http.Request, sensitive []string) *Request {
	if r == nil {
		return nil
	}

	return &Request{
		URL:       requestURL(r),
		Method:    r.Method,
		Input:     redact.SanitizeMap(requestInput(r), sensitive),
		Headers:   redact.SanitizeHeaders(r.Header),
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// requestInput merges query and form parameters, flattening single-valued
// entries for readability.
func requestInput(r *http.Request) map[string]interface{} {
	values := r.URL.Query()

	if r.Form != nil {
		for key, formValues := range r.Form {
			values[key] = formValues
		}
	}

	if len(values) == 0 {
		return map[string]interface{}{}
	}

	input := make(map[string]interface{}, len(values))
	for key, entry := range values {
		if len(entry) == 1 {
			input[key] = entry[0]
		} else {
			input[key] = entry
		}
	}
	return input
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
