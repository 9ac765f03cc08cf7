// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks every section.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateCatalog,
		c.validateEmbedding,
		c.validateIndex,
		c.validateRecommend,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	if c.Security.AdminRateLimitReqs < 1 {
		return fmt.Errorf("ADMIN_RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.AdminRateLimitReqs)
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard origin outside development.
func (c *Config) ShouldWarnAboutCORS() bool {
	if c.Server.Environment == "development" {
		return false
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateCatalog() error {
	cat := c.Catalog
	switch cat.Format {
	case "csv", "":
		if cat.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required")
		}
	case "duckdb":
		if cat.Path == "" && cat.DuckDBPath == "" {
			return fmt.Errorf("CATALOG_PATH or CATALOG_DUCKDB_PATH is required")
		}
		if cat.DuckDBPath != "" && cat.DuckDBTable == "" {
			return fmt.Errorf("CATALOG_DUCKDB_TABLE is required with CATALOG_DUCKDB_PATH")
		}
	default:
		return fmt.Errorf("CATALOG_FORMAT must be csv or duckdb, got %q", cat.Format)
	}
	if cat.DuckDBThreads < 0 {
		return fmt.Errorf("CATALOG_DUCKDB_THREADS must be non-negative, got %d", cat.DuckDBThreads)
	}
	if cat.WatchInterval < 0 {
		return fmt.Errorf("CATALOG_WATCH_INTERVAL must be non-negative, got %v", cat.WatchInterval)
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := c.Embedding
	switch e.Provider {
	case "ollama":
		if e.Model == "" {
			return fmt.Errorf("EMBEDDING_MODEL is required for the ollama provider")
		}
		if err := validateHTTPURL(e.OllamaURL, "OLLAMA_URL"); err != nil {
			return err
		}
		if e.RequestTimeout <= 0 {
			return fmt.Errorf("EMBEDDING_TIMEOUT must be positive, got %v", e.RequestTimeout)
		}
		if e.BreakerFailureRatio <= 0 || e.BreakerFailureRatio > 1 {
			return fmt.Errorf("embedding.breaker_failure_ratio must be in (0, 1], got %v", e.BreakerFailureRatio)
		}
	case "hash":
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be ollama or hash, got %q", e.Provider)
	}
	if e.Dimension < 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be non-negative, got %d", e.Dimension)
	}
	if e.RateLimit < 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must be non-negative, got %v", e.RateLimit)
	}
	if e.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", e.BatchSize)
	}
	if e.Parallelism < 1 {
		return fmt.Errorf("EMBEDDING_PARALLELISM must be positive, got %d", e.Parallelism)
	}
	if e.QueryCacheSize < 0 {
		return fmt.Errorf("EMBEDDING_QUERY_CACHE_SIZE must be non-negative, got %d", e.QueryCacheSize)
	}
	if e.StoreGCInterval < 0 {
		return fmt.Errorf("EMBEDDING_STORE_GC_INTERVAL must be non-negative, got %v", e.StoreGCInterval)
	}
	return nil
}

func (c *Config) validateIndex() error {
	if c.Index.MaxIterations < 1 {
		return fmt.Errorf("INDEX_MAX_ITERATIONS must be positive, got %d", c.Index.MaxIterations)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("INDEX_WORKERS must be non-negative, got %d", c.Index.Workers)
	}
	if c.Index.NList < 0 || c.Index.NProbe < 0 {
		return fmt.Errorf("INDEX_NLIST and INDEX_NPROBE must be non-negative")
	}
	if c.Index.NList > 0 && c.Index.NProbe > c.Index.NList {
		return fmt.Errorf("INDEX_NPROBE (%d) must not exceed INDEX_NLIST (%d)", c.Index.NProbe, c.Index.NList)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxLimit < 1 {
		return fmt.Errorf("RETRIEVAL_MAX_LIMIT must be positive, got %d", r.MaxLimit)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be in [1, %d], got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.DefaultTopK < 1 || r.DefaultTopK > r.MaxLimit {
		return fmt.Errorf("SEARCH_DEFAULT_TOP_K must be in [1, %d], got %d", r.MaxLimit, r.DefaultTopK)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks for an http(s) base URL with a host and no path
// or query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsed.Path)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}
