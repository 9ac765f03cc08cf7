// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package catalog loads the literary works catalog and maintains the
// identifier index (external id -> row offset).
//
// A Catalog is immutable once built. Row order is fixed at load time and the
// identifier index is kept in bijective correspondence with it; any change to
// the underlying source requires building a new Catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/textnorm"
)

var (
	// ErrDuplicateID is returned when two rows share an external id.
	ErrDuplicateID = errors.New("duplicate book id")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")

	// ErrMissingID is returned by New when a book has no id.
	ErrMissingID = errors.New("book has no id")
)

// Table is the raw tabular form produced by a Source.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Source loads the raw catalog table.
type Source interface {
	Load(ctx context.Context) (*Table, error)
	String() string
}

// Catalog is the loaded, immutable set of books.
type Catalog struct {
	books       []models.Book
	rows        map[string]int
	themes      []string
	syntheticID bool
}

// Load reads the table from src and builds a Catalog from it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	table, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", src, err)
	}
	return FromTable(table)
}

// schema holds the column offsets resolved once per table.
type schema struct {
	id, title, author, description, themes int
	extra                                  []int
}

func resolveSchema(columns []string) (schema, error) {
	s := schema{id: -1, title: -1, author: -1, description: -1, themes: -1}
	for i, raw := range columns {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case models.ColumnID:
			s.id = i
		case models.ColumnTitle:
			s.title = i
		case models.ColumnAuthor:
			s.author = i
		case models.ColumnDescription:
			s.description = i
		case models.ColumnThemes:
			s.themes = i
		default:
			s.extra = append(s.extra, i)
		}
	}
	if s.title < 0 {
		return s, fmt.Errorf("%w: %s", ErrMissingColumn, models.ColumnTitle)
	}
	return s, nil
}

// FromTable resolves the table schema and builds a Catalog. When the table
// has no id column every row gets a synthetic sequential id equal to its row
// offset. Rows with an id column but a blank id cell get their row offset
// too, or the next larger integer no explicit or earlier synthetic id
// holds.
func FromTable(t *Table) (*Catalog, error) {
	if len(t.Columns) == 0 && len(t.Rows) == 0 {
		c, _ := New(nil)
		c.syntheticID = true
		return c, nil
	}

	sc, err := resolveSchema(t.Columns)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(t.Rows))
	if sc.id >= 0 {
		for _, values := range t.Rows {
			if sc.id < len(values) {
				if id := stringValue(models.CleanValue(values[sc.id])); id != "" {
					taken[id] = struct{}{}
				}
			}
		}
	}

	books := make([]models.Book, 0, len(t.Rows))
	for row, values := range t.Rows {
		cell := func(col int) any {
			if col < 0 || col >= len(values) {
				return nil
			}
			return models.CleanValue(values[col])
		}

		b := models.Book{
			ID:          stringValue(cell(sc.id)),
			Title:       stringValue(cell(sc.title)),
			Author:      stringValue(cell(sc.author)),
			Description: stringValue(cell(sc.description)),
			Themes:      listValue(cell(sc.themes)),
		}
		if b.ID == "" {
			b.ID = syntheticID(row, taken)
		}
		if len(sc.extra) > 0 {
			b.Fields = make(map[string]any, len(sc.extra))
			for _, col := range sc.extra {
				b.Fields[t.Columns[col]] = cell(col)
			}
		}
		books = append(books, b)
	}

	c, err := New(books)
	if err != nil {
		return nil, err
	}
	c.syntheticID = sc.id < 0
	return c, nil
}

// syntheticID returns the first decimal id >= row not in taken and reserves
// it.
func syntheticID(row int, taken map[string]struct{}) string {
	for n := row; ; n++ {
		id := strconv.Itoa(n)
		if _, used := taken[id]; !used {
			taken[id] = struct{}{}
			return id
		}
	}
}

// New builds a Catalog from books in the given order. Every book must have a
// unique, non-empty id.
func New(books []models.Book) (*Catalog, error) {
	c := &Catalog{
		books: books,
		rows:  make(map[string]int, len(books)),
	}

	seen := make(map[string]struct{})
	for i, b := range books {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: row %d", ErrMissingID, i)
		}
		if prev, dup := c.rows[b.ID]; dup {
			return nil, fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateID, b.ID, prev, i)
		}
		c.rows[b.ID] = i

		for _, theme := range b.Themes {
			seen[theme] = struct{}{}
		}
	}

	c.themes = make([]string, 0, len(seen))
	for theme := range seen {
		c.themes = append(c.themes, theme)
	}
	sort.Strings(c.themes)

	return c, nil
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Lookup returns the row offset for an external id.
func (c *Catalog) Lookup(id string) (int, bool) {
	row, ok := c.rows[id]
	return row, ok
}

// Row returns the book at a row offset. It panics when row is out of range,
// like a slice index.
func (c *Catalog) Row(row int) models.Book {
	return c.books[row]
}

// Books returns a copy of the book list in row order.
func (c *Catalog) Books() []models.Book {
	out := make([]models.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Themes returns the sorted unique themes across all books.
func (c *Catalog) Themes() []string {
	out := make([]string, len(c.themes))
	copy(out, c.themes)
	return out
}

// SyntheticIDs reports whether ids were generated because the source had no
// id column.
func (c *Catalog) SyntheticIDs() bool {
	return c.syntheticID
}

// CombinedTexts returns the embedding text of every book in row order.
func (c *Catalog) CombinedTexts() []string {
	texts := make([]string, len(c.books))
	for i, b := range c.books {
		texts[i] = textnorm.CombinedText(b.Title, b.Author, b.Description)
	}
	return texts
}

// FindByTitle indexes books by textnorm.MatchKey(title). When two books share
// a title the first in row order wins.
func (c *Catalog) FindByTitle() map[string]int {
	out := make(map[string]int, len(c.books))
	for i, b := range c.books {
		key := textnorm.MatchKey(b.Title)
		if key == "" {
			continue
		}
		if _, ok := out[key]; !ok {
			out[key] = i
		}
	}
	return out
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		// Numeric ids read by typed sources ("17" parsed as 17.0).
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func listValue(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(models.CleanValue(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return textnorm.ParseList(stringValue(val))
	}
}
