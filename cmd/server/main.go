// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/kitabu/internal/api"
	"github.com/tomtom215/kitabu/internal/config"
	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/embedding"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/supervisor"
	"github.com/tomtom215/kitabu/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("catalog", cfg.Catalog.Path).
		Str("provider", cfg.Embedding.Provider).
		Msg("Starting Kitabu")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin outside development; set CORS_ORIGINS")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enc, err := initEncoders(ctx, &cfg.Embedding)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load embedding model")
	}

	alignments, err := curriculum.Load(ctx, cfg.Curriculum.Path)
	if err != nil {
		closeEncoders(enc)
		logging.Fatal().Err(err).Msg("Failed to load CBC alignments")
	}

	// Fingerprint before the initial build so edits made during it are not
	// mistaken for the built version.
	fingerprint := services.FileFingerprint(cfg.Catalog.Path, cfg.Catalog.DuckDBPath)
	baseline, err := fingerprint()
	if err != nil {
		logging.Warn().Err(err).Msg("Cannot fingerprint catalog before the initial build")
	}

	engine, err := initEngine(ctx, cfg, enc, alignments)
	if err != nil {
		closeEncoders(enc)
		logging.Fatal().Err(err).Msg("Failed to build retrieval index")
	}

	handler := api.NewHandler(engine, alignments,
		api.WithCacheTTL(cfg.API.CacheTTL),
		api.WithEncoderState(func() string { return embedding.BreakerState(enc.base) }),
	)
	defer handler.Close()

	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, chiMW, cfg.Server.Timeout)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		closeEncoders(enc)
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Catalog.WatchInterval > 0 {
		tree.AddIndexService(services.NewCatalogWatcher(
			engine,
			fingerprint,
			services.CatalogWatcherConfig{Interval: cfg.Catalog.WatchInterval, Baseline: baseline},
			logging.Logger(),
		))
	}
	if enc.store != nil && cfg.Embedding.StoreGCInterval > 0 {
		tree.AddIndexService(services.NewStoreGCService(enc.store, cfg.Embedding.StoreGCInterval, logging.Logger()))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	// The channel delivers Serve's result once and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	closeEncoders(enc)
	logging.Info().Msg("Kitabu stopped")
}

func closeEncoders(enc *encoders) {
	if err := enc.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing vector store")
	}
}
