package llm

import (
	"errors"
	"strings"
)

// Sentinel errors for invocation failure classification.
// Callers check these with errors.Is.
var (
	// ErrRateLimited indicates the model provider throttled the request.
	// The retry executor backs off and retries these.
	ErrRateLimited = errors.New("model rate limited")

	// ErrEmptyResponse indicates the model returned no usable payload.
	ErrEmptyResponse = errors.New("empty model response")
)

// rateLimitMarkers are message fragments that identify throttling failures
// raised by layers that don't return typed errors (transport errors, proxy
// bodies, provider SDKs).
var rateLimitMarkers = []string{
	"429",
	"RESOURCE_EXHAUSTED",
	"Too Many Requests",
}

// IsRateLimit reports whether err represents a provider throttling failure.
// It prefers the typed sentinel and falls back to message markers for errors
// that originate outside this package.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := err.Error()
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
