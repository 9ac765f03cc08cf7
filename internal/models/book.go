// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package models

import (
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// Core catalog column names. Every other column lands in Book.Fields.
const (
	ColumnID          = "id"
	ColumnTitle       = "title"
	ColumnAuthor      = "author"
	ColumnDescription = "description"
	ColumnThemes      = "themes"

	// ColumnSimilarityScore is added to every retrieval result row.
	ColumnSimilarityScore = "similarity_score"
)

// missingMarkers are the cell values tabular sources use for "no value".
var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NAN":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
}

// Book is one literary work in the catalog.
//
// ID, Title, Author and Description feed the embedding text. Fields carries
// every other original column unmodified, with missing values already
// mapped to nil by CleanValue.
type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	Themes      []string
	Fields      map[string]any
}

// Record flattens the book into one row keyed by column name.
func (b Book) Record() map[string]any {
	rec := make(map[string]any, len(b.Fields)+5)
	for k, v := range b.Fields {
		rec[k] = CleanValue(v)
	}

	rec[ColumnID] = b.ID
	rec[ColumnTitle] = b.Title
	rec[ColumnAuthor] = b.Author
	rec[ColumnDescription] = b.Description

	themes := b.Themes
	if themes == nil {
		themes = []string{}
	}
	rec[ColumnThemes] = themes

	return rec
}

// MarshalJSON encodes the book as its flattened record.
func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Record())
}

// Field returns an extra column value, or nil when absent.
func (b Book) Field(name string) any {
	if b.Fields == nil {
		return nil
	}
	return b.Fields[name]
}

// ScoredBook is a retrieval result: a catalog row plus its similarity to the
// query. Higher is more similar; for unit vectors the score is the cosine.
type ScoredBook struct {
	Book
	Score float64
}

// MarshalJSON encodes all original columns plus similarity_score. A NaN or
// infinite score is encoded as null.
func (s ScoredBook) MarshalJSON() ([]byte, error) {
	rec := s.Record()
	rec[ColumnSimilarityScore] = CleanValue(s.Score)
	return json.Marshal(rec)
}

// CleanValue maps missing-value markers to nil: nil itself, NaN and infinite
// floats, and blank or "NaN"-like strings. Other values pass through, with
// byte slices converted to strings.
func CleanValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return val
	case string:
		if IsMissing(val) {
			return nil
		}
		return val
	case []byte:
		if IsMissing(string(val)) {
			return nil
		}
		return string(val)
	default:
		return v
	}
}

// IsMissing reports whether a raw cell value means "no value".
func IsMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}
