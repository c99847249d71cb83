package models

import "time"

// RequestRecord is one served API request.
type RequestRecord struct {
	ID         int64     `json:"id"`
	ClientKey  string    `json:"client_key"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	CacheHit   bool      `json:"cache_hit"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// EndpointSummary aggregates requests per path.
type EndpointSummary struct {
	Path         string  `json:"path"`
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	CacheHits    int64   `json:"cache_hits"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
