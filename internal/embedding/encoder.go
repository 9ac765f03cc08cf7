// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package embedding maps text to fixed-dimension, L2-normalized vectors.
//
// Catalog items are encoded once per build and free-text queries once per
// request, through the same Encoder, so inner products between catalog and
// query vectors are cosine similarities on a common scale.
//
// Providers:
//   - ollama: a pretrained sentence-embedding model served over HTTP
//     (all-MiniLM-L6-v2 as "all-minilm" by default, 384 dimensions).
//   - hash: a deterministic feature-hashing encoder over normalized tokens.
//     It needs no model and is the lexical feature path.
//
// Wrappers add behavior without changing vectors: Serialized (one inference
// at a time), Cached (query memoization), Persistent (badger-backed vector
// store for rebuilds) and Instrumented (Prometheus).
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/kitabu/internal/config"
)

// Provider identifies an embedding backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderHash   Provider = "hash"
)

// DefaultDimension matches all-MiniLM-L6-v2.
const DefaultDimension = 384

var (
	// ErrModelNotLoaded is returned when Encode is called before Load.
	ErrModelNotLoaded = errors.New("embedding model not loaded")

	// ErrDimensionMismatch is returned when a vector has the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyResponse is returned when the model returns fewer vectors than
	// inputs.
	ErrEmptyResponse = errors.New("embedding model returned no vectors")
)

// Encoder maps texts to unit vectors. Implementations must be safe for
// concurrent use unless documented otherwise; wrap them with Serialized if
// not.
type Encoder interface {
	// Encode returns one L2-normalized vector of length Dimension() per text,
	// in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is fixed by the loaded model.
	Dimension() int

	// Model identifies the model, e.g. "ollama/all-minilm".
	Model() string
}

// Loader is implemented by encoders whose model must be loaded (or probed)
// before use. Load is called once at startup and a failure is fatal.
type Loader interface {
	Load(ctx context.Context) error
}

// Load loads enc if it needs loading.
func Load(ctx context.Context, enc Encoder) error {
	if l, ok := enc.(Loader); ok {
		if err := l.Load(ctx); err != nil {
			return fmt.Errorf("load embedding model %s: %w", enc.Model(), err)
		}
	}
	return nil
}

// New builds the configured encoder with instrumentation and, when
// requested, serialization. The model is not loaded; call Load.
func New(cfg *config.EmbeddingConfig) (Encoder, error) {
	var enc Encoder
	switch Provider(cfg.Provider) {
	case ProviderOllama:
		enc = NewOllamaEncoder(cfg)
	case ProviderHash:
		enc = NewHashEncoder(cfg.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}

	enc = Instrumented(enc)
	if cfg.Serialize {
		enc = Serialized(enc)
	}
	return enc, nil
}

// Normalize scales v to unit L2 norm in place and returns it. A zero vector
// is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// checkVectors verifies count and dimension of an encoder response.
func checkVectors(vectors [][]float32, want, dim int) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmptyResponse, len(vectors), want)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return nil
}
