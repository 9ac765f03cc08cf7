// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

/*
Package models defines the data structures shared across Kitabu.

Key Components:

  - Book: one literary work from the catalog, with every original column kept
  - ScoredBook: a Book annotated with its similarity score for a query
  - Alignment: one curriculum alignment row (grade, learning area, strand)
  - AlignedBook: an Alignment joined with the catalog book it refers to

Missing values:

Catalog sources are tabular and may contain empty cells, "NaN" markers or
floating-point NaN. CleanValue maps all of these to nil once at load time so
that nothing downstream has to re-check them, and ScoredBook serializes a NaN
score as JSON null. NaN never reaches an encoded response.

Usage Example:

	book := models.Book{
	    ID:     "b-17",
	    Title:  "Weep Not, Child",
	    Author: "Ngugi wa Thiong'o",
	    Fields: map[string]any{"year": "1964", "genre": nil},
	}
	hit := models.ScoredBook{Book: book, Score: 0.83}
	data, _ := json.Marshal(hit)
	// {"author":"Ngugi wa Thiong'o","genre":null,...,"similarity_score":0.83}
*/
package models
