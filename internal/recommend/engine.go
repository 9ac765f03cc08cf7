// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/embedding"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/metrics"
	"github.com/tomtom215/kitabu/internal/models"
)

// Retrieval operation names used in metrics and logs.
const (
	OpSimilar = "similar"
	OpSearch  = "search"
)

// Engine answers retrieval queries against the current RetrievalContext.
// It is safe for concurrent use.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	// queryEnc encodes free-text queries; catalogEnc encodes catalog rows
	// during Rebuild. Both wrap the same model.
	queryEnc   embedding.Encoder
	catalogEnc embedding.Encoder
	source     catalog.Source

	current atomic.Pointer[RetrievalContext]

	rebuildMu sync.Mutex

	hooksMu sync.RWMutex
	hooks   []func(*RetrievalContext)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSource sets where Rebuild loads the catalog from.
func WithSource(src catalog.Source) EngineOption {
	return func(e *Engine) { e.source = src }
}

// WithCatalogEncoder uses enc, rather than the query encoder, to encode
// catalog rows during Rebuild. It must produce the same vectors, e.g. the
// query encoder's model behind a persistent vector store.
func WithCatalogEncoder(enc embedding.Encoder) EngineOption {
	return func(e *Engine) { e.catalogEnc = enc }
}

// WithSwapHook registers fn to run after every swap, with the new context.
func WithSwapHook(fn func(*RetrievalContext)) EngineOption {
	return func(e *Engine) { e.hooks = append(e.hooks, fn) }
}

// NewEngine creates an engine with no context installed. Call Rebuild or
// Swap before serving.
func NewEngine(cfg *Config, enc embedding.Encoder, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if enc == nil {
		return nil, errors.New("encoder is required")
	}

	e := &Engine{
		cfg:      cfg,
		logger:   logging.WithComponent("recommend"),
		queryEnc: enc,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalogEnc == nil {
		e.catalogEnc = enc
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config { return e.cfg }

// Current returns the installed context, or nil before the first swap.
func (e *Engine) Current() *RetrievalContext {
	return e.current.Load()
}

// Ready reports whether a context is installed.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Swap installs rc and returns the previous context. Queries that already
// loaded the previous context keep using it.
func (e *Engine) Swap(rc *RetrievalContext) *RetrievalContext {
	old := e.current.Swap(rc)
	metrics.CatalogBooks.Set(float64(rc.Catalog.Len()))
	e.logger.Info().
		Int("books", rc.Catalog.Len()).
		Time("built_at", rc.BuiltAt).
		Bool("replaced", old != nil).
		Msg("Retrieval context installed")
	e.hooksMu.RLock()
	hooks := e.hooks
	e.hooksMu.RUnlock()
	for _, hook := range hooks {
		hook(rc)
	}
	return old
}

// OnSwap registers fn to run after every later swap, like WithSwapHook, for
// components created after the engine.
func (e *Engine) OnSwap(fn func(*RetrievalContext)) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks[:len(e.hooks):len(e.hooks)], fn)
}

// Rebuild loads the catalog from the configured source, builds a new
// context and swaps it in. Concurrent calls are serialized. On failure the
// current context stays installed.
func (e *Engine) Rebuild(ctx context.Context) (*RetrievalContext, error) {
	if e.source == nil {
		return nil, errors.New("no catalog source configured")
	}

	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	log := logging.Ctx(ctx)
	log.Info().Str("source", e.source.String()).Msg("Rebuilding retrieval context")

	cat, err := catalog.Load(ctx, e.source)
	if err != nil {
		log.Error().Err(err).Msg("Catalog load failed, keeping current context")
		return nil, err
	}

	rc, err := Build(ctx, cat, e.catalogEnc, e.cfg)
	if err != nil {
		log.Error().Err(err).Msg("Index build failed, keeping current context")
		return nil, err
	}

	e.Swap(rc)
	return rc, nil
}

// SimilarToItem returns up to limit books most similar to the book with the
// given id, excluding the book itself, against the current context. limit
// must be in [1, MaxLimit]. An unknown id yields an empty result, not an
// error.
func (e *Engine) SimilarToItem(ctx context.Context, id string, limit int) ([]models.ScoredBook, error) {
	return e.SimilarToItemIn(ctx, e.current.Load(), id, limit)
}

// SimilarToItemIn is SimilarToItem against rc, for callers that report
// metadata of the context that answered. A nil rc is ErrNotReady.
func (e *Engine) SimilarToItemIn(ctx context.Context, rc *RetrievalContext, id string, limit int) ([]models.ScoredBook, error) {
	start := time.Now()

	if err := e.checkLimit(limit, "limit"); err != nil {
		e.record(OpSimilar, "invalid", start, 0)
		return nil, err
	}
	if rc == nil {
		e.record(OpSimilar, "not_ready", start, 0)
		return nil, ErrNotReady
	}

	row, ok := rc.Catalog.Lookup(strings.TrimSpace(id))
	if !ok {
		logging.Ctx(ctx).Debug().Str("book_id", logging.SanitizeQuery(id)).Msg("Unknown book id")
		e.record(OpSimilar, "unknown_id", start, 0)
		return []models.ScoredBook{}, nil
	}

	hits, err := rc.Index.Search(rc.Index.Vector(row), limit+1)
	if err != nil {
		e.record(OpSimilar, "error", start, 0)
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]models.ScoredBook, 0, limit)
	for _, h := range hits {
		if h.Row == row {
			continue
		}
		if len(results) == limit {
			break
		}
		results = append(results, models.ScoredBook{Book: rc.Catalog.Row(h.Row), Score: float64(h.Score)})
	}

	e.record(OpSimilar, "success", start, len(results))
	return results, nil
}

// SemanticSearch encodes query and returns up to topK books closest to it
// in the current context. topK must be in [1, MaxLimit]. A blank query is
// rejected before the index is touched.
func (e *Engine) SemanticSearch(ctx context.Context, query string, topK int) ([]models.ScoredBook, error) {
	return e.SemanticSearchIn(ctx, e.current.Load(), query, topK)
}

// SemanticSearchIn is SemanticSearch against rc. A nil rc is ErrNotReady.
func (e *Engine) SemanticSearchIn(ctx context.Context, rc *RetrievalContext, query string, topK int) ([]models.ScoredBook, error) {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		e.record(OpSearch, "invalid", start, 0)
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}
	if err := e.checkLimit(topK, "top_k"); err != nil {
		e.record(OpSearch, "invalid", start, 0)
		return nil, err
	}
	if rc == nil {
		e.record(OpSearch, "not_ready", start, 0)
		return nil, ErrNotReady
	}
	if rc.Catalog.Len() == 0 {
		e.record(OpSearch, "success", start, 0)
		return []models.ScoredBook{}, nil
	}

	vectors, err := e.queryEnc.Encode(ctx, []string{query})
	if err != nil {
		e.record(OpSearch, "error", start, 0)
		logging.Ctx(ctx).Warn().Err(err).Str("query", logging.SanitizeQuery(query)).Msg("Query encoding failed")
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(vectors) != 1 {
		e.record(OpSearch, "error", start, 0)
		return nil, fmt.Errorf("encode query: %w", embedding.ErrEmptyResponse)
	}

	hits, err := rc.Index.Search(vectors[0], topK)
	if err != nil {
		e.record(OpSearch, "error", start, 0)
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]models.ScoredBook, len(hits))
	for i, h := range hits {
		results[i] = models.ScoredBook{Book: rc.Catalog.Row(h.Row), Score: float64(h.Score)}
	}

	e.record(OpSearch, "success", start, len(results))
	return results, nil
}

// Books returns every catalog row in order.
func (e *Engine) Books() ([]models.Book, error) {
	rc := e.current.Load()
	if rc == nil {
		return nil, ErrNotReady
	}
	return rc.Catalog.Books(), nil
}

// Themes returns the sorted unique themes of the catalog.
func (e *Engine) Themes() ([]string, error) {
	rc := e.current.Load()
	if rc == nil {
		return nil, ErrNotReady
	}
	return rc.Catalog.Themes(), nil
}

// Catalog returns the catalog of the current context.
func (e *Engine) Catalog() (*catalog.Catalog, error) {
	rc := e.current.Load()
	if rc == nil {
		return nil, ErrNotReady
	}
	return rc.Catalog, nil
}

// checkLimit rejects n outside [1, MaxLimit].
func (e *Engine) checkLimit(n int, name string) error {
	if n < 1 || n > e.cfg.MaxLimit {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidInput, name, e.cfg.MaxLimit, n)
	}
	return nil
}

func (e *Engine) record(op, outcome string, start time.Time, results int) {
	metrics.RecordRetrieval(op, outcome, time.Since(start), results)
}
