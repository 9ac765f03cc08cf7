// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package logging provides centralized zerolog-based structured logging for Kitabu.
//
// JSON output is meant for production, console output for development.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup
//   - Context-aware logging with request and correlation ID propagation
//   - An slog adapter for Suture v4 (sutureslog)
//   - Sanitizers for client-supplied text copied into log fields
//
// # Quick Start
//
//	import "github.com/tomtom215/kitabu/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("books", n).Msg("Catalog loaded")
//	logging.Error().Err(err).Msg("Rebuild failed")
//
//	// Request-scoped: carries request_id and correlation_id
//	logging.Ctx(ctx).Info().Msg("Processing")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Structured Logging
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Prefer fields over formatting:
//
//	logging.Info().
//	    Int("rows", n).
//	    Dur("elapsed", d).
//	    Msg("Index built")
//
// # Component Loggers
//
//	logger := logging.WithComponent("recommend")
//	logger.Info().Msg("Swapped retrieval context")
//
// # Correlation IDs
//
// Background operations such as index rebuilds attach a short correlation ID
// so that all log lines of one rebuild can be grouped:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("Rebuild started")
//
// # Client Input
//
// Search queries and identifiers come from clients. Pass them through
// SanitizeQuery before logging.
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Server starting","port":8080}
//
// Console Format (Development):
//
//	10:30:00 INF Server starting port=8080
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/middleware: Request ID middleware for correlation
package logging
