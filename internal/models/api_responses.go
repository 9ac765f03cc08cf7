// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package models

import (
	"time"
)

// APIResponse wraps every HTTP response body.
//
// Example success:
//
//	{
//	  "success": true,
//	  "data": [{"id": "12", "title": "The River Between", "similarity_score": 0.81}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4, "count": 1}
//	}
//
// Example error:
//
//	{
//	  "success": false,
//	  "error": {"code": "VALIDATION_ERROR", "message": "q must not be empty"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata describes how a response was produced.
//
// Count is set for list responses. Model and IndexBuiltAt identify the
// retrieval context that answered, so clients can tell results from two
// different index builds apart.
type Metadata struct {
	Timestamp    time.Time  `json:"timestamp"`
	RequestID    string     `json:"request_id,omitempty"`
	QueryTimeMS  int64      `json:"query_time_ms,omitempty"`
	Cached       bool       `json:"cached,omitempty"`
	Count        *int       `json:"count,omitempty"`
	Model        string     `json:"model,omitempty"`
	IndexBuiltAt *time.Time `json:"index_built_at,omitempty"`
}

// APIError is the error body.
//
// Codes:
//   - VALIDATION_ERROR: invalid client input (400)
//   - NOT_READY: no retrieval context has been built yet (503)
//   - RATE_LIMIT_EXCEEDED: too many requests (429)
//   - INTERNAL_ERROR: anything else (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness endpoint.
type HealthStatus struct {
	Status        string     `json:"status"` // "ready" or "not_ready"
	Ready         bool       `json:"ready"`
	Version       string     `json:"version"`
	Books         int        `json:"books"`
	Alignments    int        `json:"alignments"`
	Model         string     `json:"model,omitempty"`
	IndexBuiltAt  *time.Time `json:"index_built_at,omitempty"`
	EncoderState  string     `json:"encoder_state,omitempty"`
	UptimeSeconds float64    `json:"uptime_seconds"`
}
