// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/kitabu/internal/cache"
	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/config"
	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/embedding"
	"github.com/tomtom215/kitabu/internal/index"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/recommend"
)

// modelLoadTimeout covers a first-use model pull on the Ollama server.
const modelLoadTimeout = 5 * time.Minute

// encoders holds the query and catalog encoders. Both wrap the same model;
// they differ only in how vectors are memoized.
type encoders struct {
	base    embedding.Encoder
	query   embedding.Encoder
	catalog embedding.Encoder
	store   *embedding.Store
}

// Close releases the vector store.
func (e *encoders) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// initEncoders builds and loads the configured model. Failure to load is
// returned to the caller, which treats it as fatal.
func initEncoders(ctx context.Context, cfg *config.EmbeddingConfig) (*encoders, error) {
	base, err := embedding.New(cfg)
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, modelLoadTimeout)
	defer cancel()
	if err := embedding.Load(loadCtx, base); err != nil {
		return nil, err
	}

	enc := &encoders{base: base, query: base, catalog: base}

	if cfg.QueryCacheSize > 0 {
		enc.query = embedding.Cached(base, cache.NewLRU[[]float32](cfg.QueryCacheSize, cfg.QueryCacheTTL))
	}

	if cfg.StorePath != "" {
		store, err := embedding.OpenStore(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		enc.store = store
		enc.catalog = embedding.Persistent(base, store)

		if n, err := store.Len(); err == nil {
			logging.Info().Str("path", cfg.StorePath).Int("vectors", n).Msg("Vector store opened")
		}
	}

	logging.Info().
		Str("model", base.Model()).
		Int("dimension", base.Dimension()).
		Int("query_cache", cfg.QueryCacheSize).
		Bool("persistent", enc.store != nil).
		Msg("Embedding encoder ready")
	return enc, nil
}

// engineConfig maps configuration onto the retrieval engine. A positive
// INDEX_NLIST pins the index shape instead of deriving it from catalog size.
func engineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.DefaultLimit = cfg.Recommend.DefaultLimit
	rc.DefaultTopK = cfg.Recommend.DefaultTopK
	rc.MaxLimit = cfg.Recommend.MaxLimit
	rc.BatchSize = cfg.Embedding.BatchSize
	rc.Parallelism = cfg.Embedding.Parallelism
	rc.Seed = cfg.Index.Seed
	rc.MaxIterations = cfg.Index.MaxIterations
	rc.Workers = cfg.Index.Workers

	if cfg.Index.NList > 0 {
		nprobe := cfg.Index.NProbe
		if nprobe <= 0 {
			nprobe = max(1, min(8, cfg.Index.NList/2))
		}
		rc.Policy = index.Fixed(cfg.Index.NList, nprobe)
	}
	return rc
}

// initEngine creates the engine and installs the first retrieval context.
func initEngine(ctx context.Context, cfg *config.Config, enc *encoders, alignments *curriculum.Set) (*recommend.Engine, error) {
	src, err := catalog.NewSource(&cfg.Catalog)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(engineConfig(cfg), enc.query,
		recommend.WithSource(src),
		recommend.WithCatalogEncoder(enc.catalog),
		recommend.WithSwapHook(func(rc *recommend.RetrievalContext) {
			curriculum.LogUnmatched(alignments, rc.Catalog)
		}),
	)
	if err != nil {
		return nil, err
	}

	rc, err := engine.Rebuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial index build from %s: %w", src, err)
	}

	info := rc.Info()
	logging.Info().
		Int("books", info.Books).
		Int("nlist", info.Index.NList).
		Int("nprobe", info.Index.NProbe).
		Str("duration", info.BuildDuration).
		Bool("synthetic_ids", info.SyntheticIDs).
		Msg("Retrieval index built")
	return engine, nil
}
