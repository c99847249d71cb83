package cache

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired entries.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// StartJanitor sweeps s every interval until ctx is done. A non-positive
// interval disables the janitor.
func StartJanitor(ctx context.Context, s Sweeper, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := s.Sweep(ctx)
				if err != nil {
					logger.Warn("cache sweep failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("cache sweep", "removed", n)
				}
			}
		}
	}()
}
