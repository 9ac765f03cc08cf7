// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EncodeBatched encodes texts in chunks of batchSize with at most
// parallelism chunks in flight. Output order matches input order. The first
// failing chunk cancels the rest.
func EncodeBatched(ctx context.Context, enc Encoder, texts []string, batchSize, parallelism int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 64
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		g.Go(func() error {
			vectors, err := enc.Encode(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("encode texts %d-%d: %w", start, end-1, err)
			}
			if err := checkVectors(vectors, end-start, enc.Dimension()); err != nil {
				return err
			}
			copy(out[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
