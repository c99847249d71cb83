package tracker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

// Async records requests on a background goroutine so the request path never
// waits on SQLite. Records are dropped when the buffer is full.
type Async struct {
	t       Tracker
	ch      chan models.RequestRecord
	logger  *slog.Logger
	dropped atomic.Int64
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts the background writer for t.
func NewAsync(t Tracker, buffer int, logger *slog.Logger) *Async {
	if buffer < 1 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Async{t: t, ch: make(chan models.RequestRecord, buffer), logger: logger}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) run() {
	defer a.wg.Done()
	for rec := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.t.Record(ctx, rec); err != nil {
			a.logger.Warn("tracker record failed", "path", rec.Path, "error", err)
		}
		cancel()
	}
}

// Enqueue schedules rec for recording. It never blocks. Records enqueued
// after Close are dropped.
func (a *Async) Enqueue(rec models.RequestRecord) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- rec:
	default:
		if a.dropped.Add(1) == 1 {
			a.logger.Warn("tracker buffer full, dropping records")
		}
	}
}

// Dropped returns how many records were discarded.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Close flushes pending records. It is safe to call more than once.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	a.wg.Wait()
}
