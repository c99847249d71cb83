// Package cache implements the HTTP response cache: a key normalisation
// scheme, pluggable stores, a background janitor and the middleware that
// serves hits.
package cache

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

// Store holds cached payloads by key.
//
// Get never returns an entry older than its TTL, even if it has not been
// swept yet.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	// Put stores payload under key. A ttl <= 0 selects the store default.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Clear removes entries whose key contains pattern, or all entries when
	// pattern is empty, and returns how many were removed.
	Clear(ctx context.Context, pattern string) (int, error)
	// Sweep physically removes expired entries.
	Sweep(ctx context.Context) (int, error)
	Stats(ctx context.Context) (models.CacheStats, error)
	Close() error
}

// Key derives the cache key of a request from its path and query. Query keys
// are sorted, and so are repeated values of a key.
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	first := true
	for _, k := range keys {
		vals := append([]string(nil), query[k]...)
		sort.Strings(vals)
		ek := url.QueryEscape(k)
		for _, v := range vals {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
