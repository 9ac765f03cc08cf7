// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// defaultDiscardRatio is badger's recommended value log rewrite threshold.
const defaultDiscardRatio = 0.5

// GarbageCollector is implemented by *embedding.Store.
type GarbageCollector interface {
	RunGC(discardRatio float64) (int, error)
}

// StoreGCService runs vector store garbage collection on a fixed interval.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewStoreGCService creates the service. interval <= 0 selects 10m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStoreGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "store-gc").Logger(),
		name:     "vector-store-gc",
	}
}

// Serve implements suture.Service. GC errors are logged, not returned; a
// restart would not help.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.store.RunGC(defaultDiscardRatio)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Vector store GC failed")
				continue
			}
			if n > 0 {
				s.logger.Debug().Int("rewritten", n).Msg("Vector store GC reclaimed value log files")
			}
		}
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *StoreGCService) String() string {
	return s.name
}
