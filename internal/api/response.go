// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/validation"
)

// ResponseWriter writes models.APIResponse envelopes.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer; query time is measured from
// this call.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 response.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.SuccessWithMeta(data, nil)
}

// SuccessWithMeta writes a 200 response with caller-provided metadata; the
// timestamp, request ID and query time are filled in.
func (rw *ResponseWriter) SuccessWithMeta(data interface{}, meta *models.Metadata) {
	rw.writeJSON(http.StatusOK, &models.APIResponse{
		Success:  true,
		Data:     data,
		Metadata: rw.metadata(meta),
	})
}

// List writes a 200 response whose metadata carries the item count.
func (rw *ResponseWriter) List(data interface{}, count int, meta *models.Metadata) {
	if meta == nil {
		meta = &models.Metadata{}
	}
	meta.Count = &count
	rw.SuccessWithMeta(data, meta)
}

// Error writes an error response.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error response with details.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details map[string]interface{}) {
	rw.writeJSON(status, &models.APIResponse{
		Success: false,
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: rw.metadata(nil),
	})
}

// ValidationError writes a 400 VALIDATION_ERROR response.
func (rw *ResponseWriter) ValidationError(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

func (rw *ResponseWriter) metadata(meta *models.Metadata) models.Metadata {
	if meta == nil {
		meta = &models.Metadata{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.RequestID = logging.RequestIDFromContext(rw.r.Context())
	if !meta.Cached {
		meta.QueryTimeMS = time.Since(rw.startTime).Milliseconds()
	}
	return *meta
}

// writeJSON marshals before writing headers so an encoding failure can
// still become a 500.
func (rw *ResponseWriter) writeJSON(status int, resp *models.APIResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(rw.w, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"response encoding failed"}}`, http.StatusInternalServerError)
		return
	}

	h := rw.w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	rw.w.WriteHeader(status)
	if _, err := rw.w.Write(append(data, '\n')); err != nil {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}
