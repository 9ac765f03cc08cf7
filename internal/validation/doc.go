// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package validation validates API request parameters with
// go-playground/validator v10.
//
// A single validator instance is shared (it caches struct metadata and is
// safe for concurrent use). Field names in errors come from the "query" or
// "json" struct tag, so messages name the parameter the client sent:
//
//	type SearchRequest struct {
//	    Q    string `query:"q" validate:"notblank"`
//	    TopK int    `query:"top_k" validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 with apiErr.Code == "VALIDATION_ERROR"
//	}
//
// Custom validators:
//   - notblank: string is not empty after trimming whitespace
//   - grade: a curriculum grade label such as "Grade 4" or "PP1"
package validation
