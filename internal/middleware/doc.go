// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package middleware provides HTTP middleware for the Kitabu API.

Components:

  - RequestID: X-Request-ID propagation into the logging context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality
  - Compression: gzip for clients that accept it

All middleware has the http.HandlerFunc -> http.HandlerFunc shape; the api
package adapts it for chi's r.Use.

Typical order, outermost first:

	RequestID -> AccessLog -> PrometheusMetrics -> Compression -> handler
*/
package middleware
