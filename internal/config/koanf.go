// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kitabu/config.yaml",
	"/etc/kitabu/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			CORSOrigins:        []string{"*"},
			TrustedProxies:     []string{},
			AdminRateLimitReqs: 2,
		},
		Catalog: CatalogConfig{
			Path:          "data/kenyan_works_augmented.csv",
			Format:        "csv",
			DuckDBTable:   "books",
			DuckDBThreads: 0,
			WatchInterval: 0,
		},
		Embedding: EmbeddingConfig{
			Provider:            "ollama",
			Model:               "all-minilm",
			Dimension:           384,
			OllamaURL:           "http://127.0.0.1:11434",
			RequestTimeout:      30 * time.Second,
			RateLimit:           0,
			RateBurst:           4,
			Serialize:           false,
			BatchSize:           64,
			Parallelism:         2,
			QueryCacheSize:      1024,
			QueryCacheTTL:       10 * time.Minute,
			StorePath:           "",
			StoreGCInterval:     10 * time.Minute,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      30 * time.Second,
		},
		Index: IndexConfig{
			Seed:          42,
			MaxIterations: 25,
			Workers:       0,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 6,
			DefaultTopK:  10,
			MaxLimit:     100,
		},
		Curriculum: CurriculumConfig{
			Path: "data/cbc_alignment.csv",
		},
		API: APIConfig{
			CacheTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads defaults, the config file and the environment, then validates.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns $CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields splits comma-separated strings (from env vars) for
// slice fields. Values already loaded as lists from YAML are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"cors_origins":              "security.cors_origins",
	"trusted_proxies":           "security.trusted_proxies",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"admin_rate_limit_requests": "security.admin_rate_limit_reqs",

	"catalog_path":           "catalog.path",
	"catalog_format":         "catalog.format",
	"catalog_duckdb_path":    "catalog.duckdb_path",
	"catalog_duckdb_table":   "catalog.duckdb_table",
	"catalog_duckdb_threads": "catalog.duckdb_threads",
	"catalog_watch_interval": "catalog.watch_interval",

	"embedding_provider":          "embedding.provider",
	"embedding_model":             "embedding.model",
	"embedding_dimension":         "embedding.dimension",
	"ollama_url":                  "embedding.ollama_url",
	"embedding_timeout":           "embedding.request_timeout",
	"embedding_rate_limit":        "embedding.rate_limit",
	"embedding_rate_burst":        "embedding.rate_burst",
	"embedding_serialize":         "embedding.serialize",
	"embedding_batch_size":        "embedding.batch_size",
	"embedding_parallelism":       "embedding.parallelism",
	"embedding_query_cache_size":  "embedding.query_cache_size",
	"embedding_query_cache_ttl":   "embedding.query_cache_ttl",
	"embedding_store_path":        "embedding.store_path",
	"embedding_store_gc_interval": "embedding.store_gc_interval",

	"index_seed":           "index.seed",
	"index_max_iterations": "index.max_iterations",
	"index_workers":        "index.workers",
	"index_nlist":          "index.nlist",
	"index_nprobe":         "index.nprobe",

	"recommend_default_limit": "recommend.default_limit",
	"search_default_top_k":    "recommend.default_top_k",
	"retrieval_max_limit":     "recommend.max_limit",

	"cbc_alignment_path": "curriculum.path",

	"api_cache_ttl": "api.cache_ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// "" to skip it.
//
//	OLLAMA_URL   -> embedding.ollama_url
//	CATALOG_PATH -> catalog.path
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
