package models

// MemoryStats is a subset of runtime.MemStats.
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heapInuse"`
	NumGC      uint32 `json:"numGC"`
	Goroutines int    `json:"goroutines"`
}

// Health is the body of GET /health.
type Health struct {
	Status      string      `json:"status"`
	Version     string      `json:"version"`
	Timestamp   string      `json:"timestamp"`
	Uptime      float64     `json:"uptime"`
	Environment string      `json:"environment"`
	Memory      MemoryStats `json:"memory"`
}
