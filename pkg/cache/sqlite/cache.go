package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cosmoscope/cosmoscope/pkg/cache"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

var _ cache.Store = (*Cache)(nil)

// Cache is a response cache backed by SQLite. Entries survive restarts.
type Cache struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	hits       atomic.Int64
	misses     atomic.Int64
	evictions  atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS response_cache (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	stored_at_ms INTEGER NOT NULL,
	ttl_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_response_cache_stored ON response_cache(stored_at_ms);
`

// New creates a Cache with the given database path, default TTL and entry
// bound (0 for unbounded).
func New(dbPath string, ttl time.Duration, maxEntries int) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath+sharedPragmas(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One connection keeps writes serialised.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, ttl: ttl, maxEntries: maxEntries, now: time.Now}, nil
}

// Get retrieves a cached payload. Returns false if not found or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	var storedAt, ttlMs int64

	err := c.db.QueryRowContext(ctx,
		`SELECT payload, stored_at_ms, ttl_ms FROM response_cache WHERE key = ?`,
		key,
	).Scan(&payload, &storedAt, &ttlMs)

	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	if c.now().UnixMilli()-storedAt >= ttlMs {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return payload, true
}

// Put stores a payload, trimming the oldest rows beyond the entry bound.
func (c *Cache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO response_cache (key, payload, stored_at_ms, ttl_ms) VALUES (?, ?, ?, ?)`,
		key, payload, c.now().UnixMilli(), ttl.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	if c.maxEntries > 0 {
		res, err := c.db.ExecContext(ctx,
			`DELETE FROM response_cache WHERE key IN (
				SELECT key FROM response_cache ORDER BY stored_at_ms DESC LIMIT -1 OFFSET ?
			)`,
			c.maxEntries,
		)
		if err != nil {
			return fmt.Errorf("cache trim: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			c.evictions.Add(n)
		}
	}
	return nil
}

// Clear removes entries whose key contains pattern, or all entries.
func (c *Cache) Clear(ctx context.Context, pattern string) (int, error) {
	var res sql.Result
	var err error
	if pattern == "" {
		res, err = c.db.ExecContext(ctx, `DELETE FROM response_cache`)
	} else {
		res, err = c.db.ExecContext(ctx, `DELETE FROM response_cache WHERE instr(key, ?) > 0`, pattern)
	}
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return int(n), nil
}

// Sweep removes expired entries.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE ? - stored_at_ms >= ttl_ms`, c.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Stats returns cache metrics.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var total, expired, size int64
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN ? - stored_at_ms >= ttl_ms THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(length(key) + length(payload)), 0)
		 FROM response_cache`,
		c.now().UnixMilli(),
	).Scan(&total, &expired, &size)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Backend:                "sqlite",
		Total:                  total,
		Active:                 total - expired,
		Expired:                expired,
		ApproximateMemoryBytes: size,
		MaxEntries:             c.maxEntries,
		Hits:                   c.hits.Load(),
		Misses:                 c.misses.Load(),
		Evictions:              c.evictions.Load(),
	}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// sharedPragmas enables WAL and a busy timeout so the cache and the tracker
// can share one database file.
func sharedPragmas(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
