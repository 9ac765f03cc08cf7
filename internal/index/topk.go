// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package index

import (
	"container/heap"
	"sort"
)

// Hit is one search result: a row of the indexed matrix and its inner
// product with the query.
type Hit struct {
	Row   int     `json:"row"`
	Score float32 `json:"score"`
}

// worse orders hits for the result list: lower score first, and on equal
// scores the higher row.
func worse(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Row > b.Row
}

// topK keeps the k best hits seen so far. The root is the worst kept hit.
type topK struct {
	k    int
	hits []Hit
}

func newTopK(k int) *topK {
	return &topK{k: k, hits: make([]Hit, 0, k)}
}

func (t *topK) Len() int           { return len(t.hits) }
func (t *topK) Less(i, j int) bool { return worse(t.hits[i], t.hits[j]) }
func (t *topK) Swap(i, j int)      { t.hits[i], t.hits[j] = t.hits[j], t.hits[i] }
func (t *topK) Push(x any)         { t.hits = append(t.hits, x.(Hit)) }

func (t *topK) Pop() any {
	old := t.hits
	last := old[len(old)-1]
	t.hits = old[:len(old)-1]
	return last
}

func (t *topK) offer(h Hit) {
	if len(t.hits) < t.k {
		heap.Push(t, h)
		return
	}
	if worse(t.hits[0], h) {
		t.hits[0] = h
		heap.Fix(t, 0)
	}
}

// sorted returns the kept hits best first.
func (t *topK) sorted() []Hit {
	out := make([]Hit, len(t.hits))
	copy(out, t.hits)
	sort.Slice(out, func(i, j int) bool {
		return worse(out[j], out[i])
	})
	return out
}
