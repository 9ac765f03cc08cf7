// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Retrieval queries (similar-to-item, semantic search)
// - Index builds and the shape of the current index
// - Embedding encoder calls and embedding caches
// - Circuit breakers around remote encoders

var (
	// API Metrics
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
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
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

	// Retrieval Metrics
	RetrievalQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrieval_queries_total",
			Help: "Total number of retrieval queries",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "unknown_id", "invalid", "not_ready", "error"
	)

	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrieval_duration_seconds",
			Help:    "Duration of retrieval queries in seconds, including query encoding",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	RetrievalResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retrieval_results",
			Help:    "Number of rows returned per retrieval query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	// Index Metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "index_build_duration_seconds",
			Help:    "Duration of retrieval context builds (encoding and clustering) in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	IndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_builds_total",
			Help: "Total number of retrieval context builds",
		},
		[]string{"result"}, // "success", "failure"
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_items",
			Help: "Number of catalog items in the serving index",
		},
	)

	IndexClusters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_clusters",
			Help: "Number of clusters (nlist) in the serving index",
		},
	)

	IndexProbes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_probes",
			Help: "Number of clusters probed per query (nprobe) in the serving index",
		},
	)

	IndexLastBuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_last_build_timestamp",
			Help: "Unix timestamp of the last successful build",
		},
	)

	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of encoder calls",
		},
		[]string{"encoder", "result"},
	)

	EmbeddingTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Total number of texts encoded",
		},
		[]string{"encoder"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Duration of encoder calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10, 30},
		},
		[]string{"encoder"},
	)

	EmbeddingCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total number of embedding cache hits",
		},
		[]string{"tier"}, // "memory", "store"
	)

	EmbeddingCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Total number of embedding cache misses",
		},
		[]string{"tier"},
	)

	// Catalog Metrics
	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_books",
			Help: "Number of books in the loaded catalog",
		},
	)

	CurriculumAlignments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curriculum_alignments",
			Help: "Number of loaded curriculum alignment rows",
		},
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
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

// RecordRetrieval records one retrieval query. outcome is one of "success",
// "unknown_id", "invalid", "not_ready" or "error"; result counts are only
// observed for answered queries.
func RecordRetrieval(operation, outcome string, duration time.Duration, results int) {
	RetrievalQueries.WithLabelValues(operation, outcome).Inc()
	RetrievalDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if outcome == "success" || outcome == "unknown_id" {
		RetrievalResults.WithLabelValues(operation).Observe(float64(results))
	}
}

// RecordIndexBuild records a retrieval context build. The index gauges are
// only updated on success since the previous index keeps serving otherwise.
func RecordIndexBuild(duration time.Duration, items, nlist, nprobe int, err error) {
	IndexBuildDuration.Observe(duration.Seconds())
	if err != nil {
		IndexBuilds.WithLabelValues("failure").Inc()
		return
	}
	IndexBuilds.WithLabelValues("success").Inc()
	IndexItems.Set(float64(items))
	IndexClusters.Set(float64(nlist))
	IndexProbes.Set(float64(nprobe))
	IndexLastBuild.Set(float64(time.Now().Unix()))
}

// RecordEncode records one encoder call over texts inputs.
func RecordEncode(encoder string, texts int, duration time.Duration, err error) {
	EmbeddingDuration.WithLabelValues(encoder).Observe(duration.Seconds())
	if err != nil {
		EmbeddingRequests.WithLabelValues(encoder, "failure").Inc()
		return
	}
	EmbeddingRequests.WithLabelValues(encoder, "success").Inc()
	EmbeddingTexts.WithLabelValues(encoder).Add(float64(texts))
}

// RecordEmbeddingCache records a lookup in an embedding cache tier.
func RecordEmbeddingCache(tier string, hit bool) {
	if hit {
		EmbeddingCacheHits.WithLabelValues(tier).Inc()
	} else {
		EmbeddingCacheMisses.WithLabelValues(tier).Inc()
	}
}
