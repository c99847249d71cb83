package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
	"github.com/cosmoscope/cosmoscope/pkg/tracker"
)

func newTestCache(t *testing.T, ttl time.Duration, maxEntries int) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	c, err := New(dbPath, ttl, maxEntries)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutAndGet(t *testing.T) {
	c := newTestCache(t, time.Hour, 0)
	ctx := context.Background()

	if err := c.Put(ctx, "/api/v1/apod?date=2025-08-14", []byte(`{"title":"X"}`), 0); err != nil {
		t.Fatal(err)
	}

	data, ok := c.Get(ctx, "/api/v1/apod?date=2025-08-14")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"title":"X"}` {
		t.Errorf("unexpected payload: %s", data)
	}

	if _, ok := c.Get(ctx, "/api/v1/apod?date=2025-08-15"); ok {
		t.Error("expected cache miss for different key")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t, time.Hour, 0)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, "k", []byte("data"), time.Minute); err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Minute)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected cache miss after TTL expiration")
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Expired != 1 || stats.Active != 0 {
		t.Errorf("unexpected stats before sweep: %+v", stats)
	}

	n, err := c.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 swept entry, got %d", n)
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t, time.Hour, 0)
	ctx := context.Background()

	_ = c.Put(ctx, "h1", []byte("data"), 0)
	c.Get(ctx, "h1") // hit
	c.Get(ctx, "h2") // miss

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Total)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.ApproximateMemoryBytes != int64(len("h1")+len("data")) {
		t.Errorf("unexpected size %d", stats.ApproximateMemoryBytes)
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t, time.Hour, 0)
	ctx := context.Background()

	_ = c.Put(ctx, "/api/v1/apod?date=1", []byte("data"), 0)
	_ = c.Put(ctx, "/api/v1/apod?date=2", []byte("data"), 0)
	_ = c.Put(ctx, "/api/v1/epic/natural", []byte("data"), 0)

	n, err := c.Clear(ctx, "apod")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	n, err = c.Clear(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}

	stats, _ := c.Stats(ctx)
	if stats.Total != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Total)
	}
}

func TestMaxEntriesTrimsOldest(t *testing.T) {
	c := newTestCache(t, time.Hour, 2)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Put(ctx, k, []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
		now = now.Add(time.Second)
	}

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected oldest entry to be trimmed")
	}
	stats, _ := c.Stats(ctx)
	if stats.Total != 2 || stats.Evictions != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSharedFileWithTracker(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cosmoscope.db")
	c, err := New(dbPath, time.Hour, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	tr, err := tracker.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	var putErrs, recordErrs atomic.Int64
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if err := c.Put(ctx, fmt.Sprintf("/api/v1/neo/%d-%d", w, i), []byte(`{}`), 0); err != nil {
					putErrs.Add(1)
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rec := models.RequestRecord{Method: "GET", Path: "/api/v1/neo/{id}", StatusCode: 200, LatencyMs: 1}
				if err := tr.Record(ctx, rec); err != nil {
					recordErrs.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if n := putErrs.Load(); n != 0 {
		t.Errorf("expected no cache put errors, got %d", n)
	}
	if n := recordErrs.Load(); n != 0 {
		t.Errorf("expected no tracker record errors, got %d", n)
	}
	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 100 {
		t.Errorf("expected 100 entries after trimming, got %d", st.Total)
	}
}
