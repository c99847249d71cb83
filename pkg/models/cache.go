package models

import "time"

// CacheEntry is a stored response body.
type CacheEntry struct {
	Key      string        `json:"key"`
	Payload  []byte        `json:"payload"`
	StoredAt time.Time     `json:"stored_at"`
	TTL      time.Duration `json:"ttl"`
}

// Expired reports whether the entry is past its TTL at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.Sub(e.StoredAt) >= e.TTL
}

// CacheStats is a diagnostic snapshot of a cache backend.
type CacheStats struct {
	Backend                string `json:"backend"`
	Total                  int64  `json:"total"`
	Active                 int64  `json:"active"`
	Expired                int64  `json:"expired"`
	ApproximateMemoryBytes int64  `json:"approximateMemoryBytes"`
	MaxEntries             int    `json:"maxEntries"`
	Hits                   int64  `json:"hits"`
	Misses                 int64  `json:"misses"`
	Evictions              int64  `json:"evictions"`
}
