package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/synergo-api/internal/models"
)

// Quiz session lifecycle events.
const (
	QuizEventStarted   = "started"
	QuizEventCompleted = "completed"
	QuizEventAbandoned = "abandoned"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	quizSessions    *prometheus.CounterVec
	quizAnswers     *prometheus.CounterVec
	quizScore       prometheus.Histogram
	syncAdded       prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	quizStartedCount     uint64
	quizCompletedCount   uint64
	quizAnswerCount      uint64
	syncAddedCount       uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	quizSessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_sessions_total",
		Help: "Quiz session lifecycle events",
	}, []string{"event"})

	quizAnswers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_answers_total",
		Help: "Quiz answers by question type and outcome",
	}, []string{"type", "outcome"})

	quizScore := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_score_percentage",
		Help:    "Final percentage of completed quiz sessions",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	syncAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nomenclature_sync_added_total",
		Help: "Nomenclatures created by vocabulary sync",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		quizSessions, quizAnswers, quizScore, syncAdded, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		quizSessions:    quizSessions,
		quizAnswers:     quizAnswers,
		quizScore:       quizScore,
		syncAdded:       syncAdded,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordQuizSession counts a session lifecycle event.
func (m *MetricsService) RecordQuizSession(event string) {
	if m == nil {
		return
	}
	m.quizSessions.WithLabelValues(event).Inc()
	switch event {
	case QuizEventStarted:
		atomic.AddUint64(&m.quizStartedCount, 1)
	case QuizEventCompleted:
		atomic.AddUint64(&m.quizCompletedCount, 1)
	}
}

// RecordQuizAnswer counts an answered or skipped question.
func (m *MetricsService) RecordQuizAnswer(questionType string, correct, skipped bool) {
	if m == nil {
		return
	}
	outcome := "incorrect"
	switch {
	case skipped:
		outcome = "skipped"
	case correct:
		outcome = "correct"
	}
	m.quizAnswers.WithLabelValues(questionType, outcome).Inc()
	atomic.AddUint64(&m.quizAnswerCount, 1)
}

// ObserveQuizScore records the final percentage of a completed session.
func (m *MetricsService) ObserveQuizScore(percentage int) {
	if m == nil {
		return
	}
	m.quizScore.Observe(float64(percentage))
}

// RecordNomenclatureSync counts vocabulary entries created by sync.
func (m *MetricsService) RecordNomenclatureSync(added int) {
	if m == nil || added <= 0 {
		return
	}
	m.syncAdded.Add(float64(added))
	atomic.AddUint64(&m.syncAddedCount, uint64(added))
}

// Snapshot returns aggregated metrics.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		QuizSessionsStarted:      atomic.LoadUint64(&m.quizStartedCount),
		QuizSessionsCompleted:    atomic.LoadUint64(&m.quizCompletedCount),
		QuizAnswers:              atomic.LoadUint64(&m.quizAnswerCount),
		NomenclaturesSynced:      atomic.LoadUint64(&m.syncAddedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
