// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Retrieval Metrics:
  - retrieval_queries_total{operation,outcome}
    operation: similar, search
    outcome: success, unknown_id, invalid, not_ready, error
  - retrieval_duration_seconds{operation}
  - retrieval_results{operation}

Index Metrics:
  - index_build_duration_seconds
  - index_builds_total{result}
  - index_items, index_clusters, index_probes
  - index_last_build_timestamp

Data Metrics:
  - catalog_books
  - curriculum_alignments

Embedding Metrics:
  - embedding_requests_total{encoder,result}
  - embedding_texts_total{encoder}
  - embedding_duration_seconds{encoder}
  - embedding_cache_hits_total{tier}, embedding_cache_misses_total{tier}
    tier: memory (query cache), store (persistent vector store)

Circuit Breaker Metrics:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Example Alerts

  - alert: IndexBuildFailing
    expr: increase(index_builds_total{result="failure"}[30m]) > 0
    for: 5m

  - alert: EncoderCircuitOpen
    expr: circuit_breaker_state{name="ollama-embed"} == 2
    for: 2m
*/
package metrics
