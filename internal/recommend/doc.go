// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package recommend serves the two retrieval operations of the catalog:
// item-to-item recommendation and free-text semantic search.
//
// # Architecture
//
// Everything a query needs is bundled in a RetrievalContext: the catalog
// (with its id-to-row index), the IVF index holding the embedding matrix,
// and the name of the model that produced it. A context is built once by
// Build and never modified.
//
// The Engine holds the current context behind an atomic pointer. Queries
// load the pointer once and work on that snapshot without locks. Rebuild
// loads the catalog again, builds a fresh context off to the side and
// swaps it in; queries already running finish on the old one, and a failed
// rebuild leaves the old one serving.
//
// # Errors
//
// ErrInvalidInput marks caller mistakes (blank query, out-of-range limit).
// ErrNotReady means no context has been installed yet. Anything else is an
// internal failure.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, enc, recommend.WithSource(src))
//	if _, err := engine.Rebuild(ctx); err != nil {
//	    logging.Fatal().Err(err).Msg("initial index build failed")
//	}
//	similar, err := engine.SimilarToItem(ctx, "42", 0)
//	found, err := engine.SemanticSearch(ctx, "coming of age in colonial Kenya", 0)
package recommend
