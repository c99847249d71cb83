package cache

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestKeySortsQuery(t *testing.T) {
	q1 := url.Values{"end_date": {"2025-08-20"}, "start_date": {"2025-08-14"}}
	q2 := url.Values{"start_date": {"2025-08-14"}, "end_date": {"2025-08-20"}}

	assert.Equal(t, Key("/api/v1/neo/feed", q1), Key("/api/v1/neo/feed", q2))
	assert.Equal(t, "/api/v1/neo/feed?end_date=2025-08-20&start_date=2025-08-14", Key("/api/v1/neo/feed", q1))
	assert.Equal(t, "/api/v1/apod", Key("/api/v1/apod", nil))
	assert.Equal(t, "/x?camera=FHAZ&camera=MAST", Key("/x", url.Values{"camera": {"MAST", "FHAZ"}}))
}

func TestMemoryPutGetWithinTTL(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	payload := []byte(`{"success":true}`)
	require.NoError(t, m.Put(ctx, "k", payload, 0))

	clock.Advance(59 * time.Second)
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestMemoryExpiredIsAbsentBeforeSweep(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", []byte("v"), 0))
	clock.Advance(time.Minute)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok, "expired entry must not be served")

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 1, stats.Expired)
	assert.EqualValues(t, 0, stats.Active)

	n, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, _ = m.Stats(ctx)
	assert.EqualValues(t, 0, stats.Total)
	assert.EqualValues(t, 0, stats.ApproximateMemoryBytes)
}

func TestMemoryPerEntryTTL(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, m.Put(ctx, "long", []byte("v"), 0))
	clock.Advance(2 * time.Second)

	_, ok := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "long")
	assert.True(t, ok)
}

func TestMemoryOverwriteKeepsOneEntry(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", []byte("old"), 0))
	require.NoError(t, m.Put(ctx, "k", []byte("newer"), 0))

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "newer", string(got))

	stats, _ := m.Stats(ctx)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, len("k")+len("newer"), stats.ApproximateMemoryBytes)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	m := NewMemory(time.Hour, WithMaxEntries(2))
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Put(ctx, "b", []byte("2"), 0))
	_, _ = m.Get(ctx, "a")
	require.NoError(t, m.Put(ctx, "c", []byte("3"), 0))

	_, ok := m.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used and should be evicted")
	_, ok = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "c")
	assert.True(t, ok)

	stats, _ := m.Stats(ctx)
	assert.EqualValues(t, 1, stats.Evictions)
	assert.EqualValues(t, 2, stats.Total)
	assert.Equal(t, 2, stats.MaxEntries)
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	for _, k := range []string{"/api/v1/apod?date=1", "/api/v1/apod?date=2", "/api/v1/neo/feed"} {
		require.NoError(t, m.Put(ctx, k, []byte("v"), 0))
	}

	n, err := m.Clear(ctx, "apod")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, _ := m.Stats(ctx)
	assert.EqualValues(t, 0, stats.Total)
}

func TestMemoryHitMissCounters(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	_ = m.Put(ctx, "k", []byte("v"), 0)
	m.Get(ctx, "k")
	m.Get(ctx, "other")

	stats, _ := m.Stats(ctx)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.Equal(t, "memory", stats.Backend)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(time.Hour, WithMaxEntries(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := string(rune('a' + (i+j)%26))
				_ = m.Put(ctx, key, []byte("v"), 0)
				m.Get(ctx, key)
				if j%50 == 0 {
					_, _ = m.Sweep(ctx)
				}
			}
		}(i)
	}
	wg.Wait()

	stats, _ := m.Stats(ctx)
	assert.LessOrEqual(t, stats.Total, int64(16))
}

func TestStartJanitorSweeps(t *testing.T) {
	m := NewMemory(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, m.Put(ctx, "k", []byte("v"), 0))
	StartJanitor(ctx, m, 5*time.Millisecond, nil)

	assert.Eventually(t, func() bool {
		stats, _ := m.Stats(ctx)
		return stats.Total == 0
	}, time.Second, 5*time.Millisecond)
}
