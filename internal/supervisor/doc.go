// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package supervisor runs the long-lived parts of the server under a suture
// supervisor tree.
//
// The tree has two layers so that a failing background job never takes the
// HTTP listener down with it:
//
//	kitabu (root)
//	├── index-layer   catalog watcher, vector store GC
//	└── api-layer     HTTP server
//
// Services restart with suture's backoff after a failure. Supervisor events
// are logged through sutureslog on top of the zerolog adapter in
// internal/logging.
//
// The service implementations live in the services subpackage.
package supervisor
