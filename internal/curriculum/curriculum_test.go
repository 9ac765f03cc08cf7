// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package curriculum

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/models"
)

const sampleAlignments = `# CBC alignment sample
book_id,grade,learning_area,strand,sub_strand,competencies,notes
Things Fall Apart,Form 1-2,English,Literature,Literary Analysis,"['Character development', 'Theme identification']",Core text
  the river between ,Form 3-4,English,Literature,Cultural Context,"['Historical context']",
Weep Not Child,Grade 7-9,Kiswahili,Reading,Comprehension,"['Advanced literacy']",Unmatched title
Things Fall Apart,Grade 7-9,English,Reading,Theme Analysis,"Leadership skills, Ethical decision making",Second band
`

func writeAlignments(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cbc.csv")
	if err := os.WriteFile(path, []byte(sampleAlignments), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Book{
		{ID: "1", Title: "Things Fall Apart", Author: "Chinua Achebe", Fields: map[string]any{"year": int64(1958), "publisher": "Heinemann"}},
		{ID: "2", Title: "The River Between", Author: "Ngugi wa Thiongo"},
		{ID: "3", Title: "things fall apart", Author: "Duplicate"},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestLoad(t *testing.T) {
	t.Parallel()

	set, err := Load(context.Background(), writeAlignments(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !set.Enabled() || set.Len() != 4 {
		t.Fatalf("Enabled=%v Len=%d", set.Enabled(), set.Len())
	}

	first := set.All()[0]
	if first.Grade != "Form 1-2" || len(first.Competencies) != 2 || first.Competencies[1] != "Theme identification" {
		t.Errorf("first alignment = %+v", first)
	}
	if set.All()[1].BookID != "the river between" {
		t.Errorf("book_id not trimmed: %q", set.All()[1].BookID)
	}
	if last := set.All()[3]; len(last.Competencies) != 2 || last.Competencies[0] != "Leadership skills" {
		t.Errorf("plain list not parsed: %+v", last.Competencies)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.csv")} {
		set, err := Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if set.Enabled() || set.Len() != 0 {
			t.Errorf("Load(%q) should be disabled and empty", path)
		}
		if got := set.Filter(Filter{Grade: "Form 1-2"}); len(got) != 0 {
			t.Errorf("disabled set filtered %d rows", len(got))
		}
	}
}

func TestFromTable_MissingBookID(t *testing.T) {
	t.Parallel()

	_, err := FromTable(&catalog.Table{Columns: []string{"grade"}, Rows: [][]any{{"Form 1-2"}}})
	if !errors.Is(err, catalog.ErrMissingColumn) {
		t.Errorf("got %v, want ErrMissingColumn", err)
	}
}

func TestSet_Filter(t *testing.T) {
	t.Parallel()

	set, err := Load(context.Background(), writeAlignments(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter", Filter{}, []string{"Form 1-2", "Form 3-4", "Grade 7-9", "Grade 7-9"}},
		{"grade", Filter{Grade: "Grade 7-9"}, []string{"Grade 7-9", "Grade 7-9"}},
		{"grade and area", Filter{Grade: "Grade 7-9", LearningArea: "English"}, []string{"Grade 7-9"}},
		{"strand", Filter{Strand: "Literature"}, []string{"Form 1-2", "Form 3-4"}},
		{"sub strand", Filter{SubStrand: "Cultural Context"}, []string{"Form 3-4"}},
		{"competency", Filter{Competency: " Theme identification "}, []string{"Form 1-2"}},
		{"competency is exact", Filter{Competency: "Theme"}, nil},
		{"grade is exact", Filter{Grade: "form 1-2"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := set.Filter(tt.filter)
			if got == nil {
				t.Fatal("Filter returned nil")
			}
			grades := make([]string, len(got))
			for i, a := range got {
				grades[i] = a.Grade
			}
			if strings.Join(grades, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", grades, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	set, err := Load(context.Background(), writeAlignments(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cat := testCatalog(t)

	merged := Merge(set.All(), cat)
	if len(merged) != 4 {
		t.Fatalf("got %d merged rows, want 4 (left join)", len(merged))
	}
	if merged[0].Book == nil || merged[0].Book.ID != "1" {
		t.Errorf("first title should match the first catalog row, got %+v", merged[0].Book)
	}
	if merged[1].Book == nil || merged[1].Book.ID != "2" {
		t.Errorf("case and space insensitive match failed: %+v", merged[1].Book)
	}
	if merged[2].Book != nil {
		t.Errorf("unmatched alignment got book %+v", merged[2].Book)
	}

	data, err := json.Marshal(merged[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec["author"] != "Chinua Achebe" || rec["publisher"] != "Heinemann" {
		t.Errorf("book columns missing: %s", data)
	}
	if rec["book_id"] != "Things Fall Apart" || rec["grade"] != "Form 1-2" {
		t.Errorf("alignment columns missing: %s", data)
	}
	if rec["isbn13"] != "" {
		t.Errorf("absent book column should be empty string: %s", data)
	}

	if got := Unmatched(set.All(), cat); len(got) != 1 || got[0] != "Weep Not Child" {
		t.Errorf("Unmatched = %v", got)
	}
	LogUnmatched(set, cat)
}

func TestMerge_NilCatalog(t *testing.T) {
	t.Parallel()

	merged := Merge([]models.Alignment{{BookID: "x"}}, nil)
	if len(merged) != 1 || merged[0].Book != nil {
		t.Errorf("Merge with nil catalog = %+v", merged)
	}
}

func TestDefaultFramework(t *testing.T) {
	t.Parallel()

	fw := DefaultFramework()
	grades := fw.Grades()
	want := []string{"Grade 1-3", "Grade 4-6", "Grade 7-9", "Form 1-2", "Form 3-4"}
	if strings.Join(grades, ",") != strings.Join(want, ",") {
		t.Errorf("Grades = %v", grades)
	}

	band, ok := fw.Band("Form 3-4")
	if !ok {
		t.Fatal("Form 3-4 missing")
	}
	comps := band.Competencies()
	if len(comps) != 9 || comps[0] != "Literary criticism" || comps[8] != "Social justice" {
		t.Errorf("Competencies = %v", comps)
	}
	if _, ok := fw.Band("Grade 12"); ok {
		t.Error("unexpected band")
	}
	if len(fw.LearningAreas) != 7 || len(fw.Strands) != 7 || len(fw.SubStrands) != 6 {
		t.Errorf("framework lists: %d %d %d", len(fw.LearningAreas), len(fw.Strands), len(fw.SubStrands))
	}

	fw.Bands[0].Grade = "changed"
	if DefaultFramework().Bands[0].Grade != "Grade 1-3" {
		t.Error("DefaultFramework shares state between calls")
	}
}

func TestSampleRoundTrip(t *testing.T) {
	t.Parallel()

	books := []models.Book{
		{ID: "1", Title: "Things Fall Apart"},
		{ID: "2", Title: "The River Between"},
		{ID: "3", Title: "Petals of Blood"},
	}
	fw := DefaultFramework()
	rows := Sample(books, 2, 7, fw)
	if len(rows) != 2 {
		t.Fatalf("Sample returned %d rows, want 2", len(rows))
	}
	for _, a := range rows {
		band, ok := fw.Band(a.Grade)
		if !ok {
			t.Fatalf("unknown grade %q", a.Grade)
		}
		if len(a.Competencies) < 1 || len(a.Competencies) > 2 {
			t.Errorf("competencies = %v", a.Competencies)
		}
		all := strings.Join(band.Competencies(), "|")
		for _, c := range a.Competencies {
			if !strings.Contains(all, c) {
				t.Errorf("competency %q not in band %s", c, a.Grade)
			}
		}
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	table, err := catalog.ReadCSV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	set, err := FromTable(table)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	back := set.All()
	for i := range rows {
		if back[i].BookID != rows[i].BookID || strings.Join(back[i].Competencies, "|") != strings.Join(rows[i].Competencies, "|") {
			t.Errorf("row %d: got %+v, want %+v", i, back[i], rows[i])
		}
	}

	if again := Sample(books, 2, 7, fw); again[0].BookID != rows[0].BookID || again[0].Grade != rows[0].Grade {
		t.Error("Sample is not deterministic for a fixed seed")
	}
}
