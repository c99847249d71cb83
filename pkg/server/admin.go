package server

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	now := s.now()
	writeJSON(w, http.StatusOK, models.Health{
		Status:      "ok",
		Version:     s.version,
		Timestamp:   models.Timestamp(now),
		Uptime:      now.Sub(s.started).Seconds(),
		Environment: s.cfg.Environment,
		Memory: models.MemoryStats{
			Alloc:      ms.Alloc,
			TotalAlloc: ms.TotalAlloc,
			Sys:        ms.Sys,
			HeapInuse:  ms.HeapInuse,
			NumGC:      ms.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
	})
	return nil
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) error {
	report := models.CacheReport{Response: models.CacheStats{Backend: "disabled"}}
	if s.cache != nil {
		st, err := s.cache.Stats(r.Context())
		if err != nil {
			return fmt.Errorf("response cache stats: %w", err)
		}
		report.Response = st
	}
	up, err := s.upstream.CacheStats(r.Context())
	if err != nil {
		return fmt.Errorf("upstream cache stats: %w", err)
	}
	report.Upstream = up
	return s.writeData(w, report)
}

// handleCacheClear empties both cache layers, or only the keys containing
// the pattern query parameter.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) error {
	pattern := r.URL.Query().Get("pattern")

	removed := 0
	if s.cache != nil {
		n, err := s.cache.Clear(r.Context(), pattern)
		if err != nil {
			return fmt.Errorf("clear response cache: %w", err)
		}
		removed += n
	}
	n, err := s.upstream.ClearCache(r.Context(), pattern)
	if err != nil {
		return fmt.Errorf("clear upstream cache: %w", err)
	}
	removed += n

	s.logger.Info("cache cleared", "pattern", pattern, "removed", removed)
	return s.writeData(w, models.CacheClearResult{Removed: removed, Pattern: pattern})
}
