// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package index

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"
)

func unit(v []float32) []float32 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	inv := float32(1 / math.Sqrt(s))
	for i := range v {
		v[i] *= inv
	}
	return v
}

func randomVectors(n, dim int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for d := range v {
			v[d] = float32(rng.NormFloat64())
		}
		out[i] = unit(v)
	}
	return out
}

// clusteredVectors draws rows around k well-separated axis directions.
func clusteredVectors(n, dim, k int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		v[i%k] = 10
		for d := range v {
			v[d] += float32(rng.NormFloat64() * 0.3)
		}
		out[i] = unit(v)
	}
	return out
}

func bruteForce(vectors [][]float32, q []float32, k int) []Hit {
	hits := make([]Hit, len(vectors))
	for i, v := range vectors {
		hits[i] = Hit{Row: i, Score: dot(q, v)}
	}
	sort.Slice(hits, func(i, j int) bool { return worse(hits[j], hits[i]) })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

func sameHits(t *testing.T, got, want []Hit) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d hits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hit %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	idx, err := Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hits, err := idx.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits on empty index", len(hits))
	}
	if idx.Len() != 0 || idx.Dimension() != 0 {
		t.Errorf("Len=%d Dimension=%d", idx.Len(), idx.Dimension())
	}
}

func TestBuild_DimensionMismatch(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), [][]float32{{1, 0}, {0, 1, 0}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ragged rows: got %v", err)
	}

	_, err = Build(context.Background(), [][]float32{{}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("empty row: got %v", err)
	}
}

func TestSearch_Errors(t *testing.T) {
	t.Parallel()

	idx, err := Build(context.Background(), randomVectors(10, 4, 1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := idx.Search([]float32{1, 0, 0}, 3); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short query: got %v", err)
	}
	for _, k := range []int{0, -1} {
		if _, err := idx.Search([]float32{1, 0, 0, 0}, k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("k=%d: got %v", k, err)
		}
	}
}

func TestSearch_ExhaustiveMatchesBruteForce(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(60, 12, 7)
	idx, err := Build(context.Background(), vectors)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Params().NList != 1 {
		t.Fatalf("60 rows should build a single list, got %+v", idx.Params())
	}

	for _, q := range randomVectors(10, 12, 8) {
		got, err := idx.Search(q, 7)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		sameHits(t, got, bruteForce(vectors, q, 7))
	}
}

func TestSearch_FullProbeMatchesBruteForce(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(300, 16, 3)
	idx, err := Build(context.Background(), vectors, WithPolicy(Fixed(8, 8)), WithWorkers(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, q := range randomVectors(5, 16, 4) {
		got, err := idx.Search(q, 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		sameHits(t, got, bruteForce(vectors, q, 10))
	}
}

func TestSearch_KLargerThanN(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(5, 3, 9)
	idx, err := Build(context.Background(), vectors)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hits, err := idx.Search(vectors[0], 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 5 {
		t.Errorf("got %d hits, want 5", len(hits))
	}
	if hits[0].Row != 0 {
		t.Errorf("self should rank first, got row %d", hits[0].Row)
	}
}

func TestSearch_TiesByRow(t *testing.T) {
	t.Parallel()

	vectors := [][]float32{{1, 0}, {0, 1}, {1, 0}, {1, 0}}
	idx, err := Build(context.Background(), vectors)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hits, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []Hit{{Row: 0, Score: 1}, {Row: 2, Score: 1}, {Row: 3, Score: 1}}
	sameHits(t, hits, want)
}

func TestBuild_Clustered(t *testing.T) {
	t.Parallel()

	vectors := clusteredVectors(800, 16, 8, 11)
	idx, err := Build(context.Background(), vectors, WithSeed(5))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	stats := idx.Stats()
	if stats.NList != 20 || stats.NProbe != 8 {
		t.Fatalf("unexpected params %+v", stats.Params)
	}
	if stats.Rows != 800 || stats.Dimension != 16 {
		t.Errorf("stats = %+v", stats)
	}

	seen := make([]int, len(vectors))
	total := 0
	for _, list := range idx.lists {
		for _, row := range list {
			seen[row]++
		}
		total += len(list)
	}
	if total != len(vectors) {
		t.Errorf("posting lists hold %d rows, want %d", total, len(vectors))
	}
	for row, c := range seen {
		if c != 1 {
			t.Fatalf("row %d appears in %d lists", row, c)
		}
	}
	if stats.MinList < 1 {
		t.Errorf("empty posting list: %v", stats.ListSizes)
	}

	for row := 0; row < len(vectors); row += 37 {
		hits, err := idx.Search(vectors[row], 5)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if hits[0].Row != row {
			t.Errorf("row %d: top hit %+v", row, hits[0])
		}
		for i := 1; i < len(hits); i++ {
			if worse(hits[i-1], hits[i]) {
				t.Fatalf("hits not sorted: %+v", hits)
			}
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(400, 8, 21)
	a, err := Build(context.Background(), vectors, WithSeed(9), WithWorkers(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(context.Background(), vectors, WithSeed(9), WithWorkers(4))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sa, sb := a.Stats(), b.Stats()
	for i := range sa.ListSizes {
		if sa.ListSizes[i] != sb.ListSizes[i] {
			t.Fatalf("list sizes differ: %v vs %v", sa.ListSizes, sb.ListSizes)
		}
	}
}

func TestBuild_NListClampedToRows(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(4, 3, 2)
	idx, err := Build(context.Background(), vectors, WithPolicy(Fixed(10, 10)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p := idx.Params(); p.NList != 4 || p.NProbe != 4 {
		t.Errorf("Params = %+v, want 4/4", p)
	}
	for _, size := range idx.Stats().ListSizes {
		if size != 1 {
			t.Errorf("list sizes = %v, want all 1", idx.Stats().ListSizes)
			break
		}
	}
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, randomVectors(200, 4, 1), WithPolicy(Fixed(4, 2)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSearch_Concurrent(t *testing.T) {
	t.Parallel()

	vectors := randomVectors(500, 8, 13)
	idx, err := Build(context.Background(), vectors)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := g; i < len(vectors); i += 8 {
				if _, err := idx.Search(vectors[i], 6); err != nil {
					t.Errorf("Search: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
