// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package services adapts Kitabu components to suture.Service.
//
// Every service blocks in Serve until its context is canceled and returns
// ctx.Err() on a clean stop, so suture does not count shutdown as a failure.
// An error return means the service failed and should be restarted.
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully.
//   - CatalogWatcher polls the catalog file and rebuilds the retrieval index
//     when it changes.
//   - StoreGCService compacts the BadgerDB vector store periodically.
package services
