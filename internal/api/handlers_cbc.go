// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"net/http"

	"github.com/tomtom215/kitabu/internal/cache"
	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/models"
)

// CBC handles GET /api/v1/cbc: every alignment joined to its catalog book.
func (h *Handler) CBC(w http.ResponseWriter, r *http.Request) {
	h.writeAligned(w, r, curriculum.Filter{})
}

// CBCFilter handles GET /api/v1/cbc/filter. Parameters are optional and
// combine with AND; competencies matches one entry of an alignment's list.
func (h *Handler) CBCFilter(w http.ResponseWriter, r *http.Request) {
	req, verr := parseCBCFilterRequest(r)
	if verr != nil {
		NewResponseWriter(w, r).ValidationError(verr)
		return
	}
	h.writeAligned(w, r, req.Filter())
}

// CBCFramework handles GET /api/v1/cbc/framework.
func (h *Handler) CBCFramework(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.framework)
}

// writeAligned serves merged alignments, cached per filter. Alignments are
// still returned, with empty book columns, before the catalog is loaded.
func (h *Handler) writeAligned(w http.ResponseWriter, r *http.Request, f curriculum.Filter) {
	rw := NewResponseWriter(w, r)
	key := cache.GenerateKey("cbc", f)

	if cached, ok := h.cache.Get(key); ok {
		if rows, ok := cached.([]models.AlignedBook); ok {
			rw.List(rows, len(rows), &models.Metadata{Cached: true})
			return
		}
	}

	var alignments []models.Alignment
	if f.IsEmpty() {
		alignments = h.alignments.All()
	} else {
		alignments = h.alignments.Filter(f)
	}

	rc := h.engine.Current()
	var rows []models.AlignedBook
	if rc != nil {
		rows = curriculum.Merge(alignments, rc.Catalog)
	} else {
		rows = curriculum.Merge(alignments, nil)
	}

	// Results computed before the first index build would outlive it.
	if rc != nil {
		h.cache.Set(key, rows)
	}
	rw.List(rows, len(rows), contextMeta(rc))
}
