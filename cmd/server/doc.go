// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package main is the entry point for the Kitabu server.

Kitabu serves item-to-item recommendations and free-text semantic search
over a literary catalog, plus curriculum (CBC) alignment lookups for the
same books.

# Startup

The server starts in this order and exits on the first failure:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Embedding model: loaded (or probed) once
 4. Catalog: read from CSV or DuckDB, encoded and indexed
 5. Curriculum alignments: optional CSV
 6. Supervisor tree and HTTP server

A catalog that cannot be loaded or a model that cannot be reached is fatal:
the server never starts without an index.

# Supervision

	kitabu
	├── index-layer
	│   ├── catalog-watcher   (CATALOG_WATCH_INTERVAL > 0)
	│   └── vector-store-gc   (EMBEDDING_STORE_PATH set)
	└── api-layer
	    └── http-server

# Signals

SIGINT and SIGTERM stop the tree. The HTTP server gets
SHUTDOWN_TIMEOUT to drain in-flight requests; the vector store is
closed after the tree has stopped.

# Example

	export CATALOG_PATH=data/books.csv
	export CBC_ALIGNMENT_PATH=data/cbc_alignment.csv
	export OLLAMA_URL=http://localhost:11434
	./kitabu

Without a model server, the deterministic hash encoder needs nothing else:

	EMBEDDING_PROVIDER=hash CATALOG_PATH=data/books.csv ./kitabu
*/
package main
