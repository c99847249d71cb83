package tracker

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

func newTestTracker(t *testing.T) *SQLiteTracker {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	tr, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestRecordAndRecent(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	rec := models.RequestRecord{
		ClientKey:  "10.0.0.1",
		Method:     "GET",
		Path:       "/api/v1/apod",
		StatusCode: 200,
		CacheHit:   true,
		LatencyMs:  12,
		CreatedAt:  now,
	}
	if err := tr.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	records, err := tr.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Path != "/api/v1/apod" || !got.CacheHit || got.LatencyMs != 12 {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}
}

func TestSummary(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, status := range []int{200, 200, 404} {
		_ = tr.Record(ctx, models.RequestRecord{
			ClientKey: "a", Method: "GET", Path: "/api/v1/neo/feed",
			StatusCode: status, CacheHit: i == 1, LatencyMs: int64(10 * (i + 1)), CreatedAt: now,
		})
	}
	_ = tr.Record(ctx, models.RequestRecord{
		ClientKey: "b", Method: "GET", Path: "/api/v1/apod", StatusCode: 200, LatencyMs: 5, CreatedAt: now,
	})
	_ = tr.Record(ctx, models.RequestRecord{
		ClientKey: "b", Method: "GET", Path: "/api/v1/apod", StatusCode: 200, LatencyMs: 5, CreatedAt: now.Add(-48 * time.Hour),
	})

	summaries, err := tr.Summary(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	feed := summaries[0]
	if feed.Path != "/api/v1/neo/feed" {
		t.Fatalf("expected busiest path first, got %s", feed.Path)
	}
	if feed.Requests != 3 || feed.Errors != 1 || feed.CacheHits != 1 {
		t.Errorf("unexpected feed summary %+v", feed)
	}
	if feed.AvgLatencyMs != 20 {
		t.Errorf("expected avg latency 20, got %v", feed.AvgLatencyMs)
	}
	if summaries[1].Requests != 1 {
		t.Errorf("old records should be excluded, got %d", summaries[1].Requests)
	}
}

func TestPrune(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = tr.Record(ctx, models.RequestRecord{ClientKey: "a", Method: "GET", Path: "/x", StatusCode: 200, CreatedAt: now.Add(-40 * 24 * time.Hour)})
	_ = tr.Record(ctx, models.RequestRecord{ClientKey: "a", Method: "GET", Path: "/x", StatusCode: 200, CreatedAt: now})

	n, err := tr.Prune(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}
	records, _ := tr.Recent(ctx, 10)
	if len(records) != 1 {
		t.Errorf("expected 1 remaining, got %d", len(records))
	}
}

func TestAsyncFlushesOnClose(t *testing.T) {
	tr := newTestTracker(t)
	a := NewAsync(tr, 16, nil)

	for range 5 {
		a.Enqueue(models.RequestRecord{ClientKey: "a", Method: "GET", Path: "/api/v1/apod", StatusCode: 200})
	}
	a.Close()
	a.Close()

	records, err := tr.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records after flush, got %d", len(records))
	}
	if a.Dropped() != 0 {
		t.Errorf("expected no drops, got %d", a.Dropped())
	}
}

func TestAsyncEnqueueAfterClose(t *testing.T) {
	tr := newTestTracker(t)
	a := NewAsync(tr, 16, nil)
	a.Close()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Enqueue(models.RequestRecord{ClientKey: "late", Method: "GET", Path: "/api/v1/apod", StatusCode: 200})
		}()
	}
	wg.Wait()

	if a.Dropped() != 8 {
		t.Errorf("expected 8 dropped records, got %d", a.Dropped())
	}
	records, err := tr.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records written after close, got %d", len(records))
	}
}

func TestStartRetention(t *testing.T) {
	tr := newTestTracker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = tr.Record(ctx, models.RequestRecord{ClientKey: "a", Method: "GET", Path: "/x", StatusCode: 200, CreatedAt: time.Now().Add(-time.Hour)})
	StartRetention(ctx, tr, time.Minute, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		records, err := tr.Recent(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("retention loop did not prune old records")
}
