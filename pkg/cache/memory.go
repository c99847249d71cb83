package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

// Memory is an in-process Store bounded by entry count with LRU eviction.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[string]*list.Element
	// lru front is the most recently used entry.
	lru   *list.List
	bytes int64
	now   func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type MemoryOption func(*Memory)

// WithMaxEntries bounds the number of entries; 0 disables the bound.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) { m.maxEntries = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a Memory store whose entries default to ttl.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		ttl:   ttl,
		items: make(map[string]*list.Element),
		lru:   list.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func entrySize(e *models.CacheEntry) int64 {
	return int64(len(e.Key) + len(e.Payload))
}

// Get returns the payload stored under key if it has not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	ent := el.Value.(*models.CacheEntry)
	if ent.Expired(now) {
		m.misses.Add(1)
		return nil, false
	}
	m.lru.MoveToFront(el)
	m.hits.Add(1)
	return ent.Payload, true
}

// Put stores payload under key, evicting the least recently used entry when
// the store is full.
func (m *Memory) Put(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}
	ent := &models.CacheEntry{Key: key, Payload: payload, StoredAt: m.now(), TTL: ttl}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.bytes -= entrySize(el.Value.(*models.CacheEntry))
		el.Value = ent
		m.bytes += entrySize(ent)
		m.lru.MoveToFront(el)
		return nil
	}

	m.items[key] = m.lru.PushFront(ent)
	m.bytes += entrySize(ent)

	for m.maxEntries > 0 && m.lru.Len() > m.maxEntries {
		m.removeElement(m.lru.Back())
		m.evictions.Add(1)
	}
	return nil
}

func (m *Memory) removeElement(el *list.Element) {
	ent := el.Value.(*models.CacheEntry)
	m.lru.Remove(el)
	delete(m.items, ent.Key)
	m.bytes -= entrySize(ent)
}

// Clear removes entries whose key contains pattern; an empty pattern clears
// everything.
func (m *Memory) Clear(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern == "" {
		n := m.lru.Len()
		m.items = make(map[string]*list.Element)
		m.lru.Init()
		m.bytes = 0
		return n, nil
	}

	removed := 0
	for key, el := range m.items {
		if strings.Contains(key, pattern) {
			m.removeElement(el)
			removed++
		}
	}
	return removed, nil
}

// Sweep removes expired entries.
func (m *Memory) Sweep(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, el := range m.items {
		if el.Value.(*models.CacheEntry).Expired(now) {
			m.removeElement(el)
			removed++
		}
	}
	return removed, nil
}

// Stats returns a snapshot of the store.
func (m *Memory) Stats(_ context.Context) (models.CacheStats, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var expired int64
	for _, el := range m.items {
		if el.Value.(*models.CacheEntry).Expired(now) {
			expired++
		}
	}
	total := int64(m.lru.Len())
	return models.CacheStats{
		Backend:                "memory",
		Total:                  total,
		Active:                 total - expired,
		Expired:                expired,
		ApproximateMemoryBytes: m.bytes,
		MaxEntries:             m.maxEntries,
		Hits:                   m.hits.Load(),
		Misses:                 m.misses.Load(),
		Evictions:              m.evictions.Load(),
	}, nil
}

func (m *Memory) Close() error { return nil }
