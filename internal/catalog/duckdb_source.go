// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDBSource reads the catalog through DuckDB. With Table empty it scans
// CSVPath using read_csv_auto, which gives typed columns (numeric years,
// NULL for empty cells). With Table set it reads that table from the DuckDB
// database file at DatabasePath.
type DuckDBSource struct {
	CSVPath      string
	DatabasePath string
	Table        string
	Threads      int
}

func (s *DuckDBSource) String() string {
	if s.Table != "" {
		return "duckdb:" + s.DatabasePath + "#" + s.Table
	}
	return "duckdb:" + s.CSVPath
}

func (s *DuckDBSource) query() (string, error) {
	if s.Table != "" {
		if s.DatabasePath == "" {
			return "", errors.New("duckdb table source requires a database path")
		}
		return fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.Table)), nil
	}
	if s.CSVPath == "" {
		return "", errors.New("duckdb csv source requires a csv path")
	}
	// read_csv_auto fails with an opaque binder error on a missing file.
	if _, err := os.Stat(s.CSVPath); err != nil {
		return "", fmt.Errorf("open catalog: %w", err)
	}
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header = true)", quoteLiteral(s.CSVPath)), nil
}

func (s *DuckDBSource) dsn() string {
	threads := s.Threads
	if threads <= 0 {
		threads = 1
	}
	path := ""
	mode := "read_write"
	if s.Table != "" {
		path = s.DatabasePath
		mode = "read_only"
	}
	return fmt.Sprintf("%s?access_mode=%s&threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, mode, threads)
}

// Load runs the query and materializes every row.
func (s *DuckDBSource) Load(ctx context.Context) (*Table, error) {
	query, err := s.query()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}

	return table, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
