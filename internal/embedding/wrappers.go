// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/kitabu/internal/metrics"
)

// serialized admits one Encode call at a time.
type serialized struct {
	mu    sync.Mutex
	inner Encoder
}

// Serialized wraps an encoder that is not safe for concurrent inference so
// that callers may share it. Calls block in arrival order on a mutex.
func Serialized(enc Encoder) Encoder {
	if _, ok := enc.(*serialized); ok {
		return enc
	}
	return &serialized{inner: enc}
}

func (s *serialized) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Encode(ctx, texts)
}

func (s *serialized) Dimension() int  { return s.inner.Dimension() }
func (s *serialized) Model() string   { return s.inner.Model() }
func (s *serialized) Unwrap() Encoder { return s.inner }

func (s *serialized) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(ctx, s.inner)
}

// instrumented records Prometheus metrics for every Encode call.
type instrumented struct {
	inner Encoder
	label string
}

// Instrumented wraps enc with encode counters and latency histograms
// labeled by the encoder's model.
func Instrumented(enc Encoder) Encoder {
	return &instrumented{inner: enc, label: enc.Model()}
}

func (i *instrumented) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := i.inner.Encode(ctx, texts)
	metrics.RecordEncode(i.label, len(texts), time.Since(start), err)
	return vectors, err
}

func (i *instrumented) Dimension() int  { return i.inner.Dimension() }
func (i *instrumented) Model() string   { return i.inner.Model() }
func (i *instrumented) Unwrap() Encoder { return i.inner }

func (i *instrumented) Load(ctx context.Context) error {
	return Load(ctx, i.inner)
}

// BreakerState reports the circuit breaker state of the first encoder in
// enc's wrapper chain that has one, or "" when no provider in the chain
// uses a breaker.
func BreakerState(enc Encoder) string {
	for enc != nil {
		if b, ok := enc.(interface{ BreakerState() string }); ok {
			return b.BreakerState()
		}
		u, ok := enc.(interface{ Unwrap() Encoder })
		if !ok {
			return ""
		}
		enc = u.Unwrap()
	}
	return ""
}
