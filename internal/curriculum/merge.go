// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package curriculum

import (
	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/textnorm"
)

// Merge joins each alignment to the catalog book whose title matches its
// book_id, compared case-insensitively after trimming. Every alignment is
// kept; unmatched ones carry a nil Book. When several books share a title
// the first in catalog order is used.
func Merge(alignments []models.Alignment, cat *catalog.Catalog) []models.AlignedBook {
	out := make([]models.AlignedBook, len(alignments))
	if len(alignments) == 0 {
		return out
	}

	var titles map[string]int
	if cat != nil {
		titles = cat.FindByTitle()
	}

	for i, a := range alignments {
		out[i] = models.AlignedBook{Alignment: a}
		if row, ok := titles[textnorm.MatchKey(a.BookID)]; ok {
			b := cat.Row(row)
			out[i].Book = &b
		}
	}
	return out
}

// Unmatched returns the book_ids that name no catalog title, in order.
func Unmatched(alignments []models.Alignment, cat *catalog.Catalog) []string {
	titles := cat.FindByTitle()
	var out []string
	for _, a := range alignments {
		if _, ok := titles[textnorm.MatchKey(a.BookID)]; !ok {
			out = append(out, a.BookID)
		}
	}
	return out
}

// LogUnmatched reports alignments whose work is missing from cat.
func LogUnmatched(s *Set, cat *catalog.Catalog) {
	if !s.Enabled() || s.Len() == 0 {
		return
	}
	unmatched := Unmatched(s.rows, cat)
	if len(unmatched) == 0 {
		logging.Info().Int("alignments", s.Len()).Msg("All CBC alignments matched catalog titles")
		return
	}
	logging.Warn().
		Int("unmatched", len(unmatched)).
		Strs("book_ids", unmatched).
		Msg("CBC alignments reference titles not in the catalog")
}
