package dto

import "time"

// SystemMetrics is a JSON snapshot of gateway health counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	BackendCalls             uint64    `json:"backendCalls"`
	BackendErrors            uint64    `json:"backendErrors"`
	AverageBackendDurationMs float64   `json:"averageBackendDurationMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
