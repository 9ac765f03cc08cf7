// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/kitabu/internal/models"
)

// HealthLive handles GET /api/v1/health/live. It only proves the process
// serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready: 200 once a retrieval
// context is installed, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:        "not_ready",
		Version:       Version,
		Alignments:    h.alignments.Len(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.encoderState != nil {
		status.EncoderState = h.encoderState()
	}

	rw := NewResponseWriter(w, r)
	rc := h.engine.Current()
	if rc == nil {
		rw.writeJSON(http.StatusServiceUnavailable, &models.APIResponse{
			Success:  false,
			Data:     status,
			Error:    &models.APIError{Code: ErrCodeNotReady, Message: "The retrieval index is not ready yet"},
			Metadata: rw.metadata(nil),
		})
		return
	}

	builtAt := rc.BuiltAt
	status.Status = "ready"
	status.Ready = true
	status.Books = rc.Catalog.Len()
	status.Model = rc.Model
	status.IndexBuiltAt = &builtAt
	rw.Success(status)
}
