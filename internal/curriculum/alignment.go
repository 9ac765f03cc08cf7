// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package curriculum

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/metrics"
	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/textnorm"
)

// Alignment CSV columns.
const (
	colBookID       = "book_id"
	colGrade        = "grade"
	colLearningArea = "learning_area"
	colStrand       = "strand"
	colSubStrand    = "sub_strand"
	colCompetencies = "competencies"
	colNotes        = "notes"
)

// Columns is the alignment CSV header in canonical order.
var Columns = []string{colBookID, colGrade, colLearningArea, colStrand, colSubStrand, colCompetencies, colNotes}

// Set is a loaded, immutable list of alignments.
type Set struct {
	rows    []models.Alignment
	enabled bool
}

// Load reads alignments from a CSV file. A missing file is not an error:
// the returned set is disabled and every query on it yields nothing.
func Load(ctx context.Context, path string) (*Set, error) {
	if path == "" {
		logging.Warn().Msg("CBC alignment path not configured, curriculum features disabled")
		return &Set{}, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Warn().Str("path", path).Msg("CBC alignment file not found, curriculum features disabled")
		return &Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open alignments: %w", err)
	}
	defer f.Close()

	table, err := catalog.ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read alignments %s: %w", path, err)
	}
	set, err := FromTable(table)
	if err != nil {
		return nil, fmt.Errorf("read alignments %s: %w", path, err)
	}

	logging.Info().Str("path", path).Int("alignments", set.Len()).Msg("CBC alignments loaded")
	return set, nil
}

// FromTable converts a table with at least a book_id column. Missing cells
// become empty strings.
func FromTable(t *catalog.Table) (*Set, error) {
	cols := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		cols[strings.ToLower(strings.TrimSpace(c))] = i
	}
	if _, ok := cols[colBookID]; !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrMissingColumn, colBookID)
	}

	rows := make([]models.Alignment, 0, len(t.Rows))
	for _, values := range t.Rows {
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(values) {
				return ""
			}
			s, _ := models.CleanValue(values[i]).(string)
			return strings.TrimSpace(s)
		}
		rows = append(rows, models.Alignment{
			BookID:       cell(colBookID),
			Grade:        cell(colGrade),
			LearningArea: cell(colLearningArea),
			Strand:       cell(colStrand),
			SubStrand:    cell(colSubStrand),
			Competencies: textnorm.ParseList(cell(colCompetencies)),
			Notes:        cell(colNotes),
		})
	}

	metrics.CurriculumAlignments.Set(float64(len(rows)))
	return &Set{rows: rows, enabled: true}, nil
}

// NewSet wraps alignments already in memory.
func NewSet(rows []models.Alignment) *Set {
	return &Set{rows: rows, enabled: true}
}

// Enabled reports whether an alignment file was loaded.
func (s *Set) Enabled() bool { return s.enabled }

// Len is the number of alignments.
func (s *Set) Len() int { return len(s.rows) }

// All returns a copy of every alignment in file order.
func (s *Set) All() []models.Alignment {
	out := make([]models.Alignment, len(s.rows))
	copy(out, s.rows)
	return out
}

// Filter selects alignments. Empty fields match everything.
type Filter struct {
	Grade        string `json:"grade,omitempty" validate:"omitempty,max=64"`
	LearningArea string `json:"learning_area,omitempty" validate:"omitempty,max=64"`
	Strand       string `json:"strand,omitempty" validate:"omitempty,max=64"`
	SubStrand    string `json:"sub_strand,omitempty" validate:"omitempty,max=64"`
	Competency   string `json:"competencies,omitempty" validate:"omitempty,max=128"`
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Match applies f to one alignment. Grade, learning area, strand and
// sub-strand compare exactly; the competency must equal one entry of the
// alignment's list.
func (f Filter) Match(a *models.Alignment) bool {
	if f.Grade != "" && a.Grade != f.Grade {
		return false
	}
	if f.LearningArea != "" && a.LearningArea != f.LearningArea {
		return false
	}
	if f.Strand != "" && a.Strand != f.Strand {
		return false
	}
	if f.SubStrand != "" && a.SubStrand != f.SubStrand {
		return false
	}
	if f.Competency != "" {
		for _, c := range a.Competencies {
			if c == f.Competency {
				return true
			}
		}
		return false
	}
	return true
}

// Normalize trims every field.
func (f Filter) Normalize() Filter {
	return Filter{
		Grade:        strings.TrimSpace(f.Grade),
		LearningArea: strings.TrimSpace(f.LearningArea),
		Strand:       strings.TrimSpace(f.Strand),
		SubStrand:    strings.TrimSpace(f.SubStrand),
		Competency:   strings.TrimSpace(f.Competency),
	}
}

// Filter returns the alignments matching f in file order.
func (s *Set) Filter(f Filter) []models.Alignment {
	f = f.Normalize()
	out := make([]models.Alignment, 0)
	for i := range s.rows {
		if f.Match(&s.rows[i]) {
			out = append(out, s.rows[i])
		}
	}
	return out
}
