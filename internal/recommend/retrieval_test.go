// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/embedding"
	"github.com/tomtom215/kitabu/internal/index"
	"github.com/tomtom215/kitabu/internal/models"
)

var shelfWords = []string{
	"river", "village", "drought", "harvest", "school", "mission", "market", "railway",
	"forest", "city", "exile", "letter", "mother", "soldier", "priest", "drum",
	"ocean", "island", "prison", "court", "wedding", "famine", "rain", "lion",
	"teacher", "trader", "chief", "orphan", "song", "fever", "border", "mine",
	"garden", "storm", "ghost", "journey", "memory", "war", "dance", "bridge",
}

// shelf returns n books whose descriptions mix three vocabulary words each,
// enough variety for k-means to form several non-trivial lists.
func shelf(n int) []models.Book {
	books := make([]models.Book, n)
	w := len(shelfWords)
	for i := range books {
		books[i] = models.Book{
			ID:          fmt.Sprintf("b%d", i),
			Title:       fmt.Sprintf("Volume %d", i),
			Author:      fmt.Sprintf("Author %d", i%17),
			Description: fmt.Sprintf("%s %s %s", shelfWords[i%w], shelfWords[(i*7+3)%w], shelfWords[(i*13+5)%w]),
			Themes:      []string{shelfWords[(i/w)%w]},
		}
	}
	return books
}

func buildWithPolicy(t *testing.T, books []models.Book, policy index.Policy) (*Engine, *RetrievalContext) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Policy = policy
	enc := embedding.NewHashEncoder(128)
	e, err := NewEngine(cfg, enc)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	cat, err := catalog.New(books)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	rc, err := Build(context.Background(), cat, enc, e.Config())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e.Swap(rc)
	return e, rc
}

// checkNeighbors runs SimilarToItem for every book and returns the number of
// results shorter than limit.
func checkNeighbors(t *testing.T, e *Engine, rc *RetrievalContext, limit int) int {
	t.Helper()

	short := 0
	for row, b := range rc.Catalog.Books() {
		results, err := e.SimilarToItem(context.Background(), b.ID, limit)
		if err != nil {
			t.Fatalf("SimilarToItem(%q): %v", b.ID, err)
		}
		if len(results) > limit {
			t.Fatalf("SimilarToItem(%q) returned %d results, limit %d", b.ID, len(results), limit)
		}
		if len(results) < limit {
			short++
		}
		assertSorted(t, results)

		seen := make(map[string]bool, len(results))
		for _, r := range results {
			if r.ID == b.ID {
				t.Fatalf("SimilarToItem(%q) returned the query book", b.ID)
			}
			if seen[r.ID] {
				t.Fatalf("SimilarToItem(%q) returned %q twice", b.ID, r.ID)
			}
			seen[r.ID] = true
		}

		// Results are exactly the index hits minus self; nothing is padded in.
		hits, err := rc.Index.Search(rc.Index.Vector(row), limit+1)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		want := 0
		for _, h := range hits {
			if h.Row != row && want < limit {
				want++
			}
		}
		if len(results) != want {
			t.Fatalf("SimilarToItem(%q) returned %d results, index offers %d", b.ID, len(results), want)
		}
	}
	return short
}

func TestSimilarToItem_MultiListIndex(t *testing.T) {
	t.Parallel()

	e, rc := buildWithPolicy(t, shelf(600), nil)

	stats := rc.Index.Stats()
	if stats.NList < 2 || stats.NProbe >= stats.NList {
		t.Fatalf("index params = %+v, want several lists, not all scanned", stats.Params)
	}

	checkNeighbors(t, e, rc, 6)

	for _, q := range []string{"river village", "prison letter", "war soldier drum"} {
		results, err := e.SemanticSearch(context.Background(), q, 10)
		if err != nil {
			t.Fatalf("SemanticSearch(%q): %v", q, err)
		}
		if len(results) == 0 || len(results) > 10 {
			t.Errorf("SemanticSearch(%q) returned %d results, want 1..10", q, len(results))
		}
		assertSorted(t, results)
	}
}

func TestSimilarToItem_SingleListScan(t *testing.T) {
	t.Parallel()

	books := shelf(600)
	e, rc := buildWithPolicy(t, books, index.Fixed(60, 1))

	if p := rc.Index.Params(); p.NList != 60 || p.NProbe != 1 {
		t.Fatalf("index params = %+v, want 60 lists with one scanned", p)
	}

	// Sixty lists over 600 rows average ten rows each, so a limit of 20 cannot
	// be met from a single scanned list for most books.
	short := checkNeighbors(t, e, rc, 20)
	if short == 0 {
		t.Error("expected some results shorter than the limit with one scanned list")
	}
}

func TestSimilarToItemIn_PinnedContext(t *testing.T) {
	t.Parallel()

	e, enc := newTestEngine(t, testBooks)
	first := e.Current()

	cat, err := catalog.New(shelf(20))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	second, err := Build(context.Background(), cat, enc, e.Config())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e.Swap(second)

	// The current context no longer knows book 1.
	results, err := e.SimilarToItem(context.Background(), "1", 3)
	if err != nil {
		t.Fatalf("SimilarToItem: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("SimilarToItem against swapped context = %d results, want 0", len(results))
	}

	results, err = e.SimilarToItemIn(context.Background(), first, "1", 3)
	if err != nil {
		t.Fatalf("SimilarToItemIn: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("SimilarToItemIn = %d results, want 3", len(results))
	}
	for _, r := range results {
		if _, ok := first.Catalog.Lookup(r.ID); !ok {
			t.Errorf("result %q is not in the pinned catalog", r.ID)
		}
	}

	found, err := e.SemanticSearchIn(context.Background(), first, "colonial village", 50)
	if err != nil {
		t.Fatalf("SemanticSearchIn: %v", err)
	}
	if len(found) != first.Catalog.Len() {
		t.Errorf("SemanticSearchIn = %d results, want %d", len(found), first.Catalog.Len())
	}
	for _, r := range found {
		if _, ok := first.Catalog.Lookup(r.ID); !ok {
			t.Errorf("search result %q is not in the pinned catalog", r.ID)
		}
	}

	if _, err := e.SimilarToItemIn(context.Background(), nil, "1", 3); !errors.Is(err, ErrNotReady) {
		t.Errorf("SimilarToItemIn(nil) error = %v, want ErrNotReady", err)
	}
	if _, err := e.SemanticSearchIn(context.Background(), nil, "war", 3); !errors.Is(err, ErrNotReady) {
		t.Errorf("SemanticSearchIn(nil) error = %v, want ErrNotReady", err)
	}
}
