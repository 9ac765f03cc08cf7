// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/embedding"
	"github.com/tomtom215/kitabu/internal/index"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/metrics"
)

var (
	// ErrInvalidInput marks a request the caller must fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady is returned before the first retrieval context is installed.
	ErrNotReady = errors.New("retrieval index not ready")
)

// RetrievalContext is an immutable snapshot of everything a query reads.
type RetrievalContext struct {
	Catalog       *catalog.Catalog
	Index         *index.IVF
	Model         string
	BuiltAt       time.Time
	BuildDuration time.Duration
}

// Info summarizes a context for status endpoints.
type Info struct {
	Books         int         `json:"books"`
	Model         string      `json:"model"`
	BuiltAt       time.Time   `json:"built_at"`
	BuildDuration string      `json:"build_duration"`
	SyntheticIDs  bool        `json:"synthetic_ids"`
	Index         index.Stats `json:"index"`
}

// Info describes rc.
func (rc *RetrievalContext) Info() Info {
	return Info{
		Books:         rc.Catalog.Len(),
		Model:         rc.Model,
		BuiltAt:       rc.BuiltAt,
		BuildDuration: rc.BuildDuration.String(),
		SyntheticIDs:  rc.Catalog.SyntheticIDs(),
		Index:         rc.Index.Stats(),
	}
}

// Build encodes every book's combined text with enc and indexes the vectors.
// The encoder must already be loaded.
func Build(ctx context.Context, cat *catalog.Catalog, enc embedding.Encoder, cfg *Config) (*RetrievalContext, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if enc.Dimension() == 0 {
		return nil, embedding.ErrModelNotLoaded
	}

	start := time.Now()
	log := logging.Ctx(ctx)

	vectors, err := embedding.EncodeBatched(ctx, enc, cat.CombinedTexts(), cfg.BatchSize, cfg.Parallelism)
	if err != nil {
		metrics.RecordIndexBuild(time.Since(start), cat.Len(), 0, 0, err)
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	encoded := time.Since(start)

	idx, err := index.Build(ctx, vectors, cfg.indexOptions()...)
	if err != nil {
		metrics.RecordIndexBuild(time.Since(start), cat.Len(), 0, 0, err)
		return nil, fmt.Errorf("build index: %w", err)
	}

	duration := time.Since(start)
	params := idx.Params()
	metrics.RecordIndexBuild(duration, idx.Len(), params.NList, params.NProbe, nil)

	log.Info().
		Int("books", cat.Len()).
		Str("model", enc.Model()).
		Int("dimension", idx.Dimension()).
		Int("nlist", params.NList).
		Int("nprobe", params.NProbe).
		Dur("encode_duration", encoded).
		Dur("duration", duration).
		Msg("Retrieval context built")

	return &RetrievalContext{
		Catalog:       cat,
		Index:         idx,
		Model:         enc.Model(),
		BuiltAt:       time.Now().UTC(),
		BuildDuration: duration,
	}, nil
}
