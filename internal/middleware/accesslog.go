// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kitabu/internal/logging"
)

// slowRequest is the latency above which a request is logged at warn level.
const slowRequest = 2 * time.Second

// AccessLog writes one log line per request with the request-scoped logger,
// so the line carries request_id and correlation_id. It must run inside
// RequestID. Health probes log at debug level.
func AccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next(rec, r)

		duration := time.Since(start)
		logger := logging.Ctx(r.Context())

		var event *zerolog.Event
		switch {
		case rec.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case duration > slowRequest:
			event = logger.Warn()
		case isProbe(r.URL.Path):
			event = logger.Debug()
		default:
			event = logger.Info()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rec.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	}
}

func isProbe(path string) bool {
	switch path {
	case "/api/v1/health/live", "/api/v1/health/ready", "/metrics":
		return true
	}
	return false
}
