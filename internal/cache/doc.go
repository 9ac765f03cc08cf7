// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package cache provides thread-safe in-memory caches.

Two structures are provided:

  - Cache: a TTL map of arbitrary values with a background sweeper. The API
    layer caches derived responses here and calls Clear whenever a new
    retrieval context is installed.
  - LRU: a generic, capacity-bounded least recently used cache with lazy TTL
    expiration. The embedding package memoizes query vectors in it so that a
    repeated search skips the model.

# Usage Example

	c := cache.New(5*time.Minute, time.Minute)
	defer c.Close()

	key := cache.GenerateKey("cbc_filter", filter)
	if v, ok := c.Get(key); ok {
	    return v.([]models.AlignedBook)
	}
	c.Set(key, rows)

	vectors := cache.NewLRU[[]float32](4096, time.Hour)
	vectors.Add("all-minilm:colonial kenya", vec)
*/
package cache
