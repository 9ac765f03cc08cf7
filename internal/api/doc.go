// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package api provides the HTTP API for Kitabu.

Endpoints (all JSON, wrapped in models.APIResponse):

	GET  /api/v1/recommend?book_id=&limit=      similar books, self excluded
	GET  /api/v1/search?q=&top_k=               semantic search
	GET  /api/v1/books                          full catalog, NaN as null
	GET  /api/v1/themes                         sorted unique themes
	GET  /api/v1/cbc                            curriculum alignments joined to books
	GET  /api/v1/cbc/filter?grade=&learning_area=&strand=&sub_strand=&competencies=
	GET  /api/v1/cbc/framework                  competency framework
	GET  /api/v1/index/stats                    retrieval context and index layout
	POST /api/v1/admin/rebuild                  rebuild from the catalog source
	GET  /api/v1/health/live                    liveness
	GET  /api/v1/health/ready                   readiness (503 until the index is built)
	GET  /metrics                               Prometheus

Error mapping:

  - validation failures and recommend.ErrInvalidInput: 400 VALIDATION_ERROR
  - recommend.ErrNotReady: 503 NOT_READY
  - rate limit: 429 RATE_LIMIT_EXCEEDED
  - anything else: 500 INTERNAL_ERROR, with the cause logged, not returned

Curriculum responses are cached per retrieval context; the cache is cleared
whenever a new context is installed.
*/
package api
