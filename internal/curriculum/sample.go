// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package curriculum

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/tomtom215/kitabu/internal/models"
)

// Sample draws up to n random alignments for books, one per book, for
// seeding a development alignment file. Each picks a grade band, one of its
// categories, one or two competencies from it, and a learning area, strand
// and sub-strand.
func Sample(books []models.Book, n int, seed int64, fw Framework) []models.Alignment {
	//nolint:gosec // G404: sample data, not security sensitive
	rng := rand.New(rand.NewSource(seed))

	picked := make([]models.Book, len(books))
	copy(picked, books)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if n < len(picked) {
		picked = picked[:n]
	}

	out := make([]models.Alignment, 0, len(picked))
	for _, b := range picked {
		if b.Title == "" || len(fw.Bands) == 0 {
			continue
		}
		band := fw.Bands[rng.Intn(len(fw.Bands))]
		cat := band.Categories[rng.Intn(len(band.Categories))]

		comps := make([]string, len(cat.Competencies))
		copy(comps, cat.Competencies)
		rng.Shuffle(len(comps), func(i, j int) { comps[i], comps[j] = comps[j], comps[i] })
		comps = comps[:min(len(comps), 1+rng.Intn(2))]

		out = append(out, models.Alignment{
			BookID:       b.Title,
			Grade:        band.Grade,
			LearningArea: pick(rng, fw.LearningAreas),
			Strand:       pick(rng, fw.Strands),
			SubStrand:    pick(rng, fw.SubStrands),
			Competencies: comps,
			Notes:        fmt.Sprintf("%s: %s", cat.Name, strings.Join(comps, ", ")),
		})
	}
	return out
}

func pick(rng *rand.Rand, from []string) string {
	if len(from) == 0 {
		return ""
	}
	return from[rng.Intn(len(from))]
}

// WriteCSV writes alignments in the format Load reads, competencies as a
// bracketed, quoted list.
func WriteCSV(w io.Writer, rows []models.Alignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, a := range rows {
		quoted := make([]string, len(a.Competencies))
		for i, c := range a.Competencies {
			quoted[i] = "'" + c + "'"
		}
		record := []string{
			a.BookID, a.Grade, a.LearningArea, a.Strand, a.SubStrand,
			"[" + strings.Join(quoted, ", ") + "]",
			a.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
