// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Command cbcgen writes a sample curriculum alignment CSV for the configured
// catalog, for development and demos.
//
// The catalog is read through the same configuration layers as the server
// (defaults, CONFIG_PATH YAML, environment), so CATALOG_PATH and
// CATALOG_FORMAT apply here too.
//
//	CATALOG_PATH=./data/books.csv cbcgen -n 50 -seed 42 -o ./data/cbc.csv
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/config"
	"github.com/tomtom215/kitabu/internal/curriculum"
	"github.com/tomtom215/kitabu/internal/logging"
)

func main() {
	n := flag.Int("n", 50, "number of books to align")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("o", "-", "output file, - for stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := catalog.NewSource(&cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create catalog source")
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}

	rows := curriculum.Sample(cat.Books(), *n, *seed, curriculum.DefaultFramework())

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logging.Fatal().Err(err).Str("path", *out).Msg("Failed to create output file")
		}
		defer f.Close()
		w = f
	}

	if err := curriculum.WriteCSV(w, rows); err != nil {
		logging.Error().Err(err).Msg("Failed to write alignments")
		return
	}
	logging.Info().Int("rows", len(rows)).Int("books", cat.Len()).Str("output", *out).Msg("Sample alignments written")
}
