// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Index      IndexConfig      `koanf:"index"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Curriculum CurriculumConfig `koanf:"curriculum"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds request-facing protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`

	// AdminRateLimitReqs bounds POST /admin/rebuild per window and IP.
	AdminRateLimitReqs int `koanf:"admin_rate_limit_reqs"`
}

// CatalogConfig describes where the book catalog comes from.
type CatalogConfig struct {
	// Path is the catalog CSV file. Required.
	Path string `koanf:"path"`

	// Format selects the reader: "csv" (default) or "duckdb".
	Format string `koanf:"format"`

	// DuckDBPath, when set with format duckdb, reads DuckDBTable from that
	// database file instead of scanning Path.
	DuckDBPath    string `koanf:"duckdb_path"`
	DuckDBTable   string `koanf:"duckdb_table"`
	DuckDBThreads int    `koanf:"duckdb_threads"`

	// WatchInterval is how often the catalog file is checked for changes.
	// Zero disables the watcher.
	WatchInterval time.Duration `koanf:"watch_interval"`
}

// EmbeddingConfig selects and tunes the text encoder.
type EmbeddingConfig struct {
	// Provider is "ollama" or "hash".
	Provider string `koanf:"provider"`

	// Model is the Ollama model name.
	Model string `koanf:"model"`

	// Dimension is the hash encoder width, or for ollama the expected model
	// dimension (0 accepts whatever the model returns).
	Dimension int `koanf:"dimension"`

	OllamaURL      string        `koanf:"ollama_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RateLimit is encoder requests per second; 0 is unlimited.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Serialize admits one inference at a time.
	Serialize bool `koanf:"serialize"`

	BatchSize   int `koanf:"batch_size"`
	Parallelism int `koanf:"parallelism"`

	// QueryCacheSize is the number of query vectors memoized; 0 disables it.
	QueryCacheSize int           `koanf:"query_cache_size"`
	QueryCacheTTL  time.Duration `koanf:"query_cache_ttl"`

	// StorePath is a BadgerDB directory for catalog vectors. Empty disables
	// persistence and every rebuild re-encodes the whole catalog.
	StorePath string `koanf:"store_path"`

	// StoreGCInterval is how often the vector store's value log is
	// compacted. Zero disables collection.
	StoreGCInterval time.Duration `koanf:"store_gc_interval"`

	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
}

// IndexConfig tunes the IVF build.
type IndexConfig struct {
	Seed          int64 `koanf:"seed"`
	MaxIterations int   `koanf:"max_iterations"`
	Workers       int   `koanf:"workers"`

	// NList and NProbe override the size-based policy when NList > 0.
	NList  int `koanf:"nlist"`
	NProbe int `koanf:"nprobe"`
}

// RecommendConfig holds retrieval defaults and bounds.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	DefaultTopK  int `koanf:"default_top_k"`
	MaxLimit     int `koanf:"max_limit"`
}

// CurriculumConfig locates the CBC alignment file. A missing file disables
// curriculum endpoints without failing startup.
type CurriculumConfig struct {
	Path string `koanf:"path"`
}

// APIConfig holds response caching settings.
type APIConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file and line in log lines.
	Caller bool `koanf:"caller"`
}
