// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/recommend"
)

// Recommend handles GET /api/v1/recommend?book_id=&limit=.
// An unknown book_id is not an error: the response is an empty list.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, verr := parseRecommendRequest(r, h.engine.Config().DefaultLimit)
	if verr != nil {
		rw.ValidationError(verr)
		return
	}

	rc := h.engine.Current()
	results, err := h.engine.SimilarToItemIn(r.Context(), rc, req.BookID, req.Limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rw.List(results, len(results), contextMeta(rc))
}

// Search handles GET /api/v1/search?q=&top_k=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, verr := parseSearchRequest(r, h.engine.Config().DefaultTopK)
	if verr != nil {
		rw.ValidationError(verr)
		return
	}

	rc := h.engine.Current()
	results, err := h.engine.SemanticSearchIn(r.Context(), rc, req.Q, req.TopK)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rw.List(results, len(results), contextMeta(rc))
}

// Books handles GET /api/v1/books.
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	rc := h.engine.Current()
	if rc == nil {
		writeServiceError(w, r, recommend.ErrNotReady)
		return
	}
	books := rc.Catalog.Books()
	NewResponseWriter(w, r).List(books, len(books), contextMeta(rc))
}

// Themes handles GET /api/v1/themes.
func (h *Handler) Themes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.engine.Themes()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(themes, len(themes), nil)
}

// IndexStats handles GET /api/v1/index/stats.
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	rc := h.engine.Current()
	if rc == nil {
		writeServiceError(w, r, recommend.ErrNotReady)
		return
	}
	NewResponseWriter(w, r).SuccessWithMeta(rc.Info(), contextMeta(rc))
}

// Rebuild handles POST /api/v1/admin/rebuild. The rebuild is detached from
// the client connection so a disconnect does not abort it halfway; it is
// bounded by the rebuild timeout instead.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.rebuildTimeout)
	defer cancel()

	logging.Ctx(ctx).Info().Str("remote_addr", r.RemoteAddr).Msg("Rebuild requested")

	rc, err := h.engine.Rebuild(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).SuccessWithMeta(rc.Info(), contextMeta(rc))
}
