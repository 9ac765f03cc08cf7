// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kitabu/internal/recommend"
)

// Rebuilder rebuilds and installs a retrieval context.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*recommend.RetrievalContext, error)
}

// Fingerprint identifies the current version of the catalog inputs. Two
// equal fingerprints mean no rebuild is needed.
type Fingerprint func() (string, error)

// FileFingerprint fingerprints files by size and modification time. Empty
// paths are skipped.
func FileFingerprint(paths ...string) Fingerprint {
	return func() (string, error) {
		var b strings.Builder
		for _, p := range paths {
			if p == "" {
				continue
			}
			info, err := os.Stat(p)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s:%d:%d;", p, info.Size(), info.ModTime().UnixNano())
		}
		return b.String(), nil
	}
}

// CatalogWatcherConfig configures CatalogWatcher.
type CatalogWatcherConfig struct {
	// Interval between fingerprint checks. Default: 1m
	Interval time.Duration

	// RebuildTimeout bounds one rebuild. Default: 30m
	RebuildTimeout time.Duration

	// Baseline is the fingerprint of the inputs the running index was built
	// from, taken before that build started. Empty means fingerprint at the
	// first Serve.
	Baseline string
}

// CatalogWatcher rebuilds the index when the catalog changes on disk.
//
// The server fingerprints the catalog before its initial build and passes
// that as Baseline, so an edit landing during the build is still seen on the
// first check. A failed rebuild keeps the old baseline so the next tick
// retries; the engine keeps serving the previous context meanwhile.
type CatalogWatcher struct {
	engine      Rebuilder
	fingerprint Fingerprint
	config      CatalogWatcherConfig
	logger      zerolog.Logger
	name        string

	last string
}

// NewCatalogWatcher creates a watcher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogWatcher(engine Rebuilder, fp Fingerprint, cfg CatalogWatcherConfig, logger zerolog.Logger) *CatalogWatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 30 * time.Minute
	}
	return &CatalogWatcher{
		engine:      engine,
		fingerprint: fp,
		config:      cfg,
		logger:      logger.With().Str("service", "catalog-watcher").Logger(),
		name:        "catalog-watcher",
		last:        cfg.Baseline,
	}
}

// Serve implements suture.Service.
func (w *CatalogWatcher) Serve(ctx context.Context) error {
	if w.last == "" {
		fp, err := w.fingerprint()
		if err != nil {
			w.logger.Warn().Err(err).Msg("Cannot fingerprint catalog, the first successful check will rebuild")
		}
		w.last = fp
	}

	w.logger.Info().Dur("interval", w.config.Interval).Msg("Catalog watcher started")

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *CatalogWatcher) check(ctx context.Context) {
	fp, err := w.fingerprint()
	if err != nil {
		w.logger.Warn().Err(err).Msg("Catalog fingerprint failed")
		return
	}
	if fp == w.last {
		return
	}

	w.logger.Info().Msg("Catalog changed, rebuilding index")
	rebuildCtx, cancel := context.WithTimeout(ctx, w.config.RebuildTimeout)
	defer cancel()

	rc, err := w.engine.Rebuild(rebuildCtx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Index rebuild failed, still serving the previous index")
		return
	}
	w.last = fp
	w.logger.Info().
		Int("books", rc.Catalog.Len()).
		Dur("duration", rc.BuildDuration).
		Msg("Index rebuilt from changed catalog")
}

// String implements fmt.Stringer for suture's logs.
func (w *CatalogWatcher) String() string {
	return w.name
}
