package models

import "time"

// SystemMetrics is a JSON friendly digest of the Prometheus instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	QuizSessionsStarted      uint64    `json:"quiz_sessions_started"`
	QuizSessionsCompleted    uint64    `json:"quiz_sessions_completed"`
	QuizAnswers              uint64    `json:"quiz_answers"`
	NomenclaturesSynced      uint64    `json:"nomenclatures_synced"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
