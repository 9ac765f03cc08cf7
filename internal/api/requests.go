// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/validation"
)

// RecommendRequest holds the parameters of GET /api/v1/recommend. An
// absent limit is filled with the configured default; an explicit one must
// be positive.
type RecommendRequest struct {
	BookID string `query:"book_id" validate:"notblank,max=256"`
	Limit  int    `query:"limit" validate:"min=1"`
}

// SearchRequest holds the parameters of GET /api/v1/search. An absent top_k
// is filled with the configured default.
type SearchRequest struct {
	Q    string `query:"q" validate:"notblank,max=1000"`
	TopK int    `query:"top_k" validate:"min=1"`
}

// CBCFilterRequest holds the parameters of GET /api/v1/cbc/filter.
type CBCFilterRequest struct {
	Grade        string `query:"grade" validate:"omitempty,max=64"`
	LearningArea string `query:"learning_area" validate:"omitempty,max=64"`
	Strand       string `query:"strand" validate:"omitempty,max=64"`
	SubStrand    string `query:"sub_strand" validate:"omitempty,max=64"`
	Competency   string `query:"competencies" validate:"omitempty,max=128"`
}

// Filter converts the request to a curriculum filter.
func (c CBCFilterRequest) Filter() curriculum.Filter {
	return curriculum.Filter{
		Grade:        c.Grade,
		LearningArea: c.LearningArea,
		Strand:       c.Strand,
		SubStrand:    c.SubStrand,
		Competency:   c.Competency,
	}.Normalize()
}

func parseRecommendRequest(r *http.Request, defaultLimit int) (RecommendRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := RecommendRequest{BookID: strings.TrimSpace(q.Get("book_id"))}

	limit, present, verr := intParam(r, "limit")
	if verr != nil {
		return req, verr
	}
	req.Limit = defaultLimit
	if present {
		req.Limit = limit
	}
	return req, validation.ValidateStruct(&req)
}

func parseSearchRequest(r *http.Request, defaultTopK int) (SearchRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := SearchRequest{Q: q.Get("q")}

	topK, present, verr := intParam(r, "top_k")
	if verr != nil {
		return req, verr
	}
	req.TopK = defaultTopK
	if present {
		req.TopK = topK
	}
	return req, validation.ValidateStruct(&req)
}

func parseCBCFilterRequest(r *http.Request) (CBCFilterRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := CBCFilterRequest{
		Grade:        q.Get("grade"),
		LearningArea: q.Get("learning_area"),
		Strand:       q.Get("strand"),
		SubStrand:    q.Get("sub_strand"),
		Competency:   q.Get("competencies"),
	}
	return req, validation.ValidateStruct(&req)
}

// intParam parses an optional integer query parameter. present is false
// when the parameter is missing or blank.
func intParam(r *http.Request, name string) (n int, present bool, verr *validation.RequestValidationError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, validation.NewRequestValidationError(name, "numeric", name+" must be an integer", raw)
	}
	return n, true, nil
}
