// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/kitabu/internal/textnorm"
)

// bigramWeight is the contribution of a word pair relative to a single word.
const bigramWeight = 0.5

// HashEncoder is a deterministic feature-hashing encoder. Each normalized
// unigram and bigram is hashed into one of Dimension() signed buckets and
// the result is L2-normalized. Identical texts always give identical
// vectors, across processes and restarts.
//
// It is stateless and safe for concurrent use.
type HashEncoder struct {
	dim int
}

// NewHashEncoder creates a hash encoder; dim <= 0 selects DefaultDimension.
func NewHashEncoder(dim int) *HashEncoder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEncoder{dim: dim}
}

// Encode implements Encoder. Texts without any word map to the zero vector.
func (h *HashEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.encodeOne(text)
	}
	return out, nil
}

func (h *HashEncoder) encodeOne(text string) []float32 {
	vec := make([]float32, h.dim)
	tokens := textnorm.Tokens(text)

	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	return Normalize(vec)
}

func (h *HashEncoder) add(vec []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Dimension implements Encoder.
func (h *HashEncoder) Dimension() int {
	return h.dim
}

// Model implements Encoder.
func (h *HashEncoder) Model() string {
	return "hash/" + strconv.Itoa(h.dim)
}
