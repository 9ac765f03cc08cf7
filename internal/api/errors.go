// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/recommend"
	"github.com/tomtom215/kitabu/internal/validation"
)

// Error codes.
const (
	ErrCodeValidation       = validation.ErrorCode
	ErrCodeNotReady         = "NOT_READY"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// writeServiceError maps an error from the retrieval layer to a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError(verr)
	case errors.Is(err, recommend.ErrInvalidInput):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrNotReady):
		rw.Error(http.StatusServiceUnavailable, ErrCodeNotReady, "The retrieval index is not ready yet")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		rw.Error(http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred")
	}
}
