// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kitabu/internal/embedding"
)

var _ GarbageCollector = (*embedding.Store)(nil)

type countingGC struct {
	runs  atomic.Int32
	ratio atomic.Value
}

func (c *countingGC) RunGC(ratio float64) (int, error) {
	c.runs.Add(1)
	c.ratio.Store(ratio)
	return 1, errors.New("value log busy")
}

func TestStoreGCService(t *testing.T) {
	t.Parallel()

	store := &countingGC{}
	svc := NewStoreGCService(store, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Errors do not stop the loop.
	waitFor(t, func() bool { return store.runs.Load() >= 2 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if r, _ := store.ratio.Load().(float64); r != defaultDiscardRatio {
		t.Errorf("discard ratio = %v", r)
	}
}

func TestNewStoreGCService_Defaults(t *testing.T) {
	t.Parallel()
	svc := NewStoreGCService(&countingGC{}, 0, zerolog.Nop())
	if svc.interval != 10*time.Minute || svc.String() != "vector-store-gc" {
		t.Errorf("service = %+v", svc)
	}
}
