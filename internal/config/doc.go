// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package config loads the service configuration.
//
// Configuration is layered with koanf, later layers overriding earlier
// ones:
//
//  1. Struct defaults (defaultConfig)
//  2. A YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths found
//  3. Environment variables, through an explicit name mapping
//
// Unmapped environment variables are ignored. Comma-separated values are
// split for slice fields such as security.cors_origins.
//
// Environment variables:
//
//	HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
//	CORS_ORIGINS, TRUSTED_PROXIES, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
//	DISABLE_RATE_LIMIT, ADMIN_RATE_LIMIT_REQUESTS
//	CATALOG_PATH, CATALOG_FORMAT, CATALOG_DUCKDB_PATH, CATALOG_DUCKDB_TABLE,
//	CATALOG_DUCKDB_THREADS, CATALOG_WATCH_INTERVAL
//	EMBEDDING_PROVIDER, EMBEDDING_MODEL, EMBEDDING_DIMENSION, OLLAMA_URL,
//	EMBEDDING_TIMEOUT, EMBEDDING_RATE_LIMIT, EMBEDDING_RATE_BURST,
//	EMBEDDING_SERIALIZE, EMBEDDING_BATCH_SIZE, EMBEDDING_PARALLELISM,
//	EMBEDDING_QUERY_CACHE_SIZE, EMBEDDING_QUERY_CACHE_TTL, EMBEDDING_STORE_PATH,
//	EMBEDDING_STORE_GC_INTERVAL
//	INDEX_SEED, INDEX_MAX_ITERATIONS, INDEX_WORKERS, INDEX_NLIST, INDEX_NPROBE
//	RECOMMEND_DEFAULT_LIMIT, SEARCH_DEFAULT_TOP_K, RETRIEVAL_MAX_LIMIT
//	CBC_ALIGNMENT_PATH
//	API_CACHE_TTL
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
package config
