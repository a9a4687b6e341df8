// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

// Package metrics defines the Prometheus collectors for the server.
// Collectors are registered at package load via promauto and shared
// across components:
//   - API endpoint latency and throughput
//   - Recommendation pipeline (strategy selection, fallbacks, candidates)
//   - Interaction log query performance (DuckDB)
//   - Document store and response cache efficiency
//   - Download event pipeline
//   - WebSocket connections
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Pipeline Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by winning strategy",
		},
		[]string{"strategy"}, // collaborative_filtering, content_based, hybrid, age_based_popularity
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallbacks_total",
			Help: "Total number of strategy fallbacks (strategy yielded nothing or failed)",
		},
		[]string{"strategy", "reason"}, // reason: "empty", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	RecommendCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Number of raw candidates produced by the winning strategy",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"strategy"},
	)

	RecommendConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_confidence",
			Help:    "Confidence reported by the winning strategy",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"strategy"},
	)

	// Interaction Log Metrics (DuckDB)
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Document Store Metrics (Badger)
	DocStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"operation", "collection"}, // operation: "get", "set", "delete", "scan"
	)

	DocStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_errors_total",
			Help: "Total number of document store errors",
		},
		[]string{"operation", "collection"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommend", "search"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Download Event Pipeline Metrics
	DownloadEventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "download_events_published_total",
			Help: "Total number of download events published to the bus",
		},
	)

	DownloadEventsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "download_events_processed_total",
			Help: "Total number of download events successfully processed",
		},
	)

	DownloadEventsParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "download_events_parse_failed_total",
			Help: "Total number of download events that failed to parse",
		},
	)

	DownloadEventsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "download_events_deduplicated_total",
			Help: "Total number of download events skipped as duplicates",
		},
	)

	DownloadEventProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "download_event_processing_duration_seconds",
			Help:    "Duration of download event processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DownloadLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "download_limit_rejections_total",
			Help: "Total number of downloads rejected by the daily allowance",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// Search Metrics
	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of character search queries by outcome",
		},
		[]string{"outcome"}, // "hit", "miss", "rejected"
	)

	SearchIndexCharacters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_index_characters",
			Help: "Number of characters in the search index",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Character search duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// Newsletter Metrics
	NewsletterSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsletter_subscriptions",
			Help: "Current number of newsletter subscriptions by status",
		},
		[]string{"status"}, // "active", "unsubscribed"
	)

	NewsletterDigestsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsletter_digests_generated_total",
			Help: "Total number of digest issues generated",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome of a recommendation request.
func RecordRecommendation(strategy string, candidates int, confidence float64, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(strategy).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendCandidates.WithLabelValues(strategy).Observe(float64(candidates))
	RecommendConfidence.WithLabelValues(strategy).Observe(confidence)
}

// RecordFallback records a strategy yielding nothing or failing, which
// hands the request to the next strategy in the chain.
func RecordFallback(strategy, reason string) {
	RecommendFallbacks.WithLabelValues(strategy, reason).Inc()
}

// RecordDBQuery records an interaction log query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to keep label cardinality sane
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordDocStoreOp records a document store operation
func RecordDocStoreOp(operation, collection string, err error) {
	DocStoreOperations.WithLabelValues(operation, collection).Inc()
	if err != nil {
		DocStoreErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordCacheHit records a cache hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordDownloadEvent records a processed download event
func RecordDownloadEvent(duration time.Duration, err error) {
	if err != nil {
		return
	}
	DownloadEventsProcessed.Inc()
	DownloadEventProcessingDuration.Observe(duration.Seconds())
}

// RecordEventPublished records a download event put on the bus
func RecordEventPublished() {
	DownloadEventsPublished.Inc()
}

// RecordEventParseFailed records a message the consumer could not decode
func RecordEventParseFailed() {
	DownloadEventsParseFailed.Inc()
}

// RecordEventDeduplicated records an event skipped as a duplicate
func RecordEventDeduplicated() {
	DownloadEventsDeduplicated.Inc()
}

// RecordSearch records a character search query and its latency.
func RecordSearch(outcome string, duration time.Duration) {
	SearchQueries.WithLabelValues(outcome).Inc()
	SearchDuration.Observe(duration.Seconds())
}

// SetSearchIndexSize publishes the indexed character count after a rebuild.
func SetSearchIndexSize(n int) {
	SearchIndexCharacters.Set(float64(n))
}

// SetAppInfo publishes the build information gauge once at startup.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// UpdateUptime refreshes the uptime gauge from the process start time.
func UpdateUptime(start time.Time) {
	AppUptime.Set(time.Since(start).Seconds())
}
