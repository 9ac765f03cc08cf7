// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"time"

	"github.com/tomtom215/kitabu/internal/cache"
	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/recommend"
)

// Version is reported by the readiness endpoint; set at build time.
var Version = "dev"

// Handler serves the API endpoints.
//
// Handler methods are split across files:
//   - handlers_recommend.go: retrieval, catalog and index endpoints
//   - handlers_cbc.go: curriculum endpoints
//   - handlers_health.go: liveness and readiness
type Handler struct {
	engine         *recommend.Engine
	alignments     *curriculum.Set
	framework      curriculum.Framework
	cache          *cache.Cache
	startTime      time.Time
	encoderState   func() string
	rebuildTimeout time.Duration
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCacheTTL sets how long derived curriculum responses are cached.
func WithCacheTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		if ttl > 0 {
			h.cache.Close()
			h.cache = cache.New(ttl, ttl)
		}
	}
}

// WithEncoderState reports the embedding encoder state (e.g. the circuit
// breaker) on the readiness endpoint.
func WithEncoderState(fn func() string) HandlerOption {
	return func(h *Handler) { h.encoderState = fn }
}

// WithRebuildTimeout bounds an admin-triggered rebuild.
func WithRebuildTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.rebuildTimeout = d
		}
	}
}

// NewHandler creates a handler over engine. alignments may be nil when no
// curriculum file is configured. The response cache is cleared on every
// retrieval context swap.
//
//	h := api.NewHandler(engine, alignments, api.WithCacheTTL(cfg.API.CacheTTL))
//	defer h.Close()
//	router := api.NewRouter(h, api.NewChiMiddleware(mwCfg), cfg.Server.Timeout)
func NewHandler(engine *recommend.Engine, alignments *curriculum.Set, opts ...HandlerOption) *Handler {
	if alignments == nil {
		alignments = curriculum.NewSet(nil)
	}
	h := &Handler{
		engine:         engine,
		alignments:     alignments,
		framework:      curriculum.DefaultFramework(),
		cache:          cache.New(5*time.Minute, time.Minute),
		startTime:      time.Now(),
		rebuildTimeout: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	engine.OnSwap(func(*recommend.RetrievalContext) { h.cache.Clear() })
	return h
}

// Close stops the cache sweeper.
func (h *Handler) Close() {
	h.cache.Close()
}

// contextMeta describes the retrieval context that answered a request.
func contextMeta(rc *recommend.RetrievalContext) *models.Metadata {
	meta := &models.Metadata{}
	if rc != nil {
		builtAt := rc.BuiltAt
		meta.Model = rc.Model
		meta.IndexBuiltAt = &builtAt
	}
	return meta
}
