package models

import "time"

// Envelope wraps every successful API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Count     *int   `json:"count,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Stack     string `json:"stack,omitempty"`
}

// RateLimitEnvelope is the body of a 429 produced by the local limiter.
type RateLimitEnvelope struct {
	ErrorEnvelope
	RetryAfter int `json:"retryAfter"`
}

// CacheClearResult reports a cache clear.
type CacheClearResult struct {
	Removed int    `json:"removed"`
	Pattern string `json:"pattern,omitempty"`
}

// CacheReport groups the stats of both cache layers.
type CacheReport struct {
	Response CacheStats `json:"response"`
	Upstream CacheStats `json:"upstream"`
}

// TimestampLayout renders UTC instants with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t for envelopes.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
