package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

// Tracker records served API requests and aggregates them.
type Tracker interface {
	// Record stores a request record.
	Record(ctx context.Context, rec models.RequestRecord) error
	// Summary aggregates requests per path since a given time.
	Summary(ctx context.Context, since time.Time) ([]models.EndpointSummary, error)
	// Recent returns the newest records, newest first.
	Recent(ctx context.Context, limit int) ([]models.RequestRecord, error)
	// Prune deletes records created before the given time.
	Prune(ctx context.Context, before time.Time) (int64, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_key TEXT NOT NULL,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL,
	created_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_time ON requests(created_at_ms);
CREATE INDEX IF NOT EXISTS idx_requests_path_time ON requests(path, created_at_ms);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath+sharedPragmas(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}
	return &SQLiteTracker{db: db}, nil
}

// Record stores a request record. A zero CreatedAt is stamped with the
// current time.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.RequestRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO requests (client_key, method, path, status_code, cache_hit, latency_ms, created_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ClientKey, rec.Method, rec.Path, rec.StatusCode, rec.CacheHit, rec.LatencyMs, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// Summary returns request counts grouped by path, busiest first.
func (t *SQLiteTracker) Summary(ctx context.Context, since time.Time) ([]models.EndpointSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT path, COUNT(*),
		        SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END),
		        SUM(cache_hit),
		        AVG(latency_ms)
		 FROM requests WHERE created_at_ms >= ?
		 GROUP BY path ORDER BY COUNT(*) DESC, path`,
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.EndpointSummary
	for rows.Next() {
		var s models.EndpointSummary
		if err := rows.Scan(&s.Path, &s.Requests, &s.Errors, &s.CacheHits, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Recent returns up to limit records, newest first.
func (t *SQLiteTracker) Recent(ctx context.Context, limit int) ([]models.RequestRecord, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, client_key, method, path, status_code, cache_hit, latency_ms, created_at_ms
		 FROM requests ORDER BY created_at_ms DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent requests: %w", err)
	}
	defer rows.Close()

	var records []models.RequestRecord
	for rows.Next() {
		var r models.RequestRecord
		var createdMs int64
		if err := rows.Scan(&r.ID, &r.ClientKey, &r.Method, &r.Path, &r.StatusCode, &r.CacheHit, &r.LatencyMs, &createdMs); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes records older than before and returns how many were removed.
func (t *SQLiteTracker) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := t.db.ExecContext(ctx, `DELETE FROM requests WHERE created_at_ms < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune requests: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}

// StartRetention prunes records older than retention every interval until
// ctx is done.
func StartRetention(ctx context.Context, t Tracker, retention, every time.Duration, logger *slog.Logger) {
	if retention <= 0 || every <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := t.Prune(ctx, now.Add(-retention))
				if err != nil {
					logger.Warn("tracker prune failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("tracker pruned", "removed", n)
				}
			}
		}
	}()
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
