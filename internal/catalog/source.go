// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package catalog

import (
	"fmt"

	"github.com/tomtom215/kitabu/internal/config"
)

// Supported catalog source formats.
const (
	FormatCSV    = "csv"
	FormatDuckDB = "duckdb"
)

// NewSource returns the Source described by the catalog configuration.
func NewSource(cfg *config.CatalogConfig) (Source, error) {
	switch cfg.Format {
	case FormatCSV, "":
		return NewCSVSource(cfg.Path), nil
	case FormatDuckDB:
		return &DuckDBSource{
			CSVPath:      cfg.Path,
			DatabasePath: cfg.DuckDBPath,
			Table:        cfg.DuckDBTable,
			Threads:      cfg.DuckDBThreads,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", cfg.Format)
	}
}
