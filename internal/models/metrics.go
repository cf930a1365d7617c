package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot for the dashboard,
// complementing the Prometheus scrape endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StoreWrites              uint64    `json:"store_writes"`
	AverageStoreWriteMs      float64   `json:"average_store_write_ms"`
	MirrorFlushes            uint64    `json:"mirror_flushes"`
	MirrorFailures           uint64    `json:"mirror_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
