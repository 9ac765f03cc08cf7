// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/kitabu/internal/cache"
	"github.com/tomtom215/kitabu/internal/metrics"
)

// VectorCache is the lookup side of a vector memo. Both the in-memory LRU
// and the badger Store satisfy it.
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Add(key string, vector []float32)
}

// cached memoizes vectors per (model, text). Misses within one call are
// encoded with a single inner Encode so batching is preserved.
type cached struct {
	inner Encoder
	store VectorCache
	tier  string
}

// Cached memoizes vectors in an in-memory LRU. Repeated queries skip the
// model entirely.
func Cached(enc Encoder, lru *cache.LRU[[]float32]) Encoder {
	return &cached{inner: enc, store: lruCache{lru}, tier: "memory"}
}

// Persistent memoizes vectors in a badger Store so an index rebuild only
// encodes texts that changed since the last build.
func Persistent(enc Encoder, store *Store) Encoder {
	return &cached{inner: enc, store: store, tier: "store"}
}

// CacheKey identifies text under model. Vectors from different models
// never share a key.
func CacheKey(model, text string) string {
	return model + ":" + strconv.FormatUint(xxhash.Sum64String(text), 16)
}

func (c *cached) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	model := c.inner.Model()
	out := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if v, ok := c.store.Get(CacheKey(model, text)); ok && len(v) == c.inner.Dimension() {
			metrics.RecordEmbeddingCache(c.tier, true)
			out[i] = v
			continue
		}
		metrics.RecordEmbeddingCache(c.tier, false)
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := checkVectors(vectors, len(missTexts), c.inner.Dimension()); err != nil {
		return nil, err
	}
	for j, v := range vectors {
		out[missIdx[j]] = v
		c.store.Add(CacheKey(model, missTexts[j]), v)
	}
	return out, nil
}

func (c *cached) Dimension() int  { return c.inner.Dimension() }
func (c *cached) Model() string   { return c.inner.Model() }
func (c *cached) Unwrap() Encoder { return c.inner }

func (c *cached) Load(ctx context.Context) error {
	return Load(ctx, c.inner)
}

type lruCache struct {
	lru *cache.LRU[[]float32]
}

func (l lruCache) Get(key string) ([]float32, bool) { return l.lru.Get(key) }
func (l lruCache) Add(key string, v []float32)      { l.lru.Add(key, v) }
