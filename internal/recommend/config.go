// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package recommend

import (
	"fmt"

	"github.com/tomtom215/kitabu/internal/index"
)

// Config holds retrieval limits and index build parameters.
type Config struct {
	// DefaultLimit is the SimilarToItem limit callers use when none is given.
	DefaultLimit int `json:"default_limit"`

	// DefaultTopK is the SemanticSearch topK callers use when none is given.
	DefaultTopK int `json:"default_top_k"`

	// MaxLimit bounds both limit and topK.
	MaxLimit int `json:"max_limit"`

	// BatchSize is the number of texts per encoder call during a build.
	BatchSize int `json:"batch_size"`

	// Parallelism is the number of encoder batches in flight during a build.
	Parallelism int `json:"parallelism"`

	// Seed fixes k-means initialization. Equal catalogs and seeds give equal
	// indexes.
	Seed int64 `json:"seed"`

	// MaxIterations bounds k-means rounds.
	MaxIterations int `json:"max_iterations"`

	// Workers is the k-means assignment parallelism; 0 uses GOMAXPROCS.
	Workers int `json:"workers"`

	// Policy picks nlist and nprobe from the catalog size. Nil means
	// index.DefaultPolicy.
	Policy index.Policy `json:"-"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:  6,
		DefaultTopK:   10,
		MaxLimit:      100,
		BatchSize:     64,
		Parallelism:   4,
		Seed:          42,
		MaxIterations: 25,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxLimit < 1 {
		return fmt.Errorf("max_limit must be positive, got %d", c.MaxLimit)
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit must be in [1, %d], got %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.DefaultTopK < 1 || c.DefaultTopK > c.MaxLimit {
		return fmt.Errorf("default_top_k must be in [1, %d], got %d", c.MaxLimit, c.DefaultTopK)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

func (c *Config) indexOptions() []index.Option {
	opts := []index.Option{
		index.WithSeed(c.Seed),
		index.WithMaxIterations(c.MaxIterations),
		index.WithWorkers(c.Workers),
	}
	if c.Policy != nil {
		opts = append(opts, index.WithPolicy(c.Policy))
	}
	return opts
}
