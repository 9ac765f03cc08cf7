// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package index implements an inverted-file (IVF) index for inner-product
// search over L2-normalized vectors.
//
// Build partitions the rows with spherical k-means into NList posting lists.
// Search scores the query against every centroid, scans the rows of the
// NProbe best lists and keeps the k highest inner products in a bounded
// heap. With NList == 1 the single list holds every row and Search is an
// exact exhaustive scan.
//
// An IVF is immutable once built. Search takes no locks and may be called
// from any number of goroutines.
package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
)

var (
	// ErrDimensionMismatch is returned when rows differ in length or a query
	// does not match the indexed dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidK is returned for k <= 0.
	ErrInvalidK = errors.New("k must be positive")
)

// IVF is a built inverted-file index.
type IVF struct {
	dim       int
	n         int
	data      []float32 // n*dim, row-major
	centroids []float32 // NList*dim
	lists     [][]int32
	params    Params
	iters     int
}

type options struct {
	policy   Policy
	seed     int64
	maxIters int
	workers  int
}

// Option configures Build.
type Option func(*options)

// WithPolicy replaces DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithSeed fixes the k-means seed. Equal seeds and inputs give equal indexes.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithMaxIterations bounds the number of k-means rounds.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIters = n
		}
	}
}

// WithWorkers sets the number of goroutines used for the assignment step.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Build indexes vectors. Rows are copied; the caller may reuse the input.
// An empty input yields an index on which every Search returns no hits.
func Build(ctx context.Context, vectors [][]float32, opts ...Option) (*IVF, error) {
	o := options{
		policy:   DefaultPolicy,
		seed:     42,
		maxIters: 25,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}

	n := len(vectors)
	if n == 0 {
		return &IVF{params: Params{NList: 1, NProbe: 1}, lists: [][]int32{{}}}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: row 0 is empty", ErrDimensionMismatch)
	}
	data := make([]float32, n*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		copy(data[i*dim:], v)
	}

	idx := &IVF{
		dim:    dim,
		n:      n,
		data:   data,
		params: o.policy(n).clamp(n),
	}

	if idx.params.NList == 1 {
		all := make([]int32, n)
		for i := range all {
			all[i] = int32(i)
		}
		idx.lists = [][]int32{all}
		return idx, nil
	}

	km := newKMeans(data, n, dim, idx.params.NList, o.seed, o.workers)
	iters, err := km.run(ctx, o.maxIters)
	if err != nil {
		return nil, err
	}
	idx.centroids = km.centroids
	idx.lists = km.postingLists()
	idx.iters = iters
	return idx, nil
}

// Search returns up to k rows with the highest inner product with query,
// best first, ties broken by ascending row.
func (x *IVF) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if x.n == 0 {
		return []Hit{}, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), x.dim)
	}

	top := newTopK(min(k, x.n))
	for _, list := range x.probe(query) {
		for _, row := range x.lists[list] {
			top.offer(Hit{Row: int(row), Score: dot(query, x.Vector(int(row)))})
		}
	}
	return top.sorted(), nil
}

// probe returns the NProbe lists whose centroids are nearest the query.
func (x *IVF) probe(query []float32) []int {
	nlist := x.params.NList
	if nlist == 1 {
		return []int{0}
	}

	scores := make([]float32, nlist)
	order := make([]int, nlist)
	for c := 0; c < nlist; c++ {
		scores[c] = dot(query, x.centroids[c*x.dim:(c+1)*x.dim])
		order[c] = c
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	})
	return order[:x.params.NProbe]
}

// Vector returns the stored row. The slice aliases index memory and must not
// be modified.
func (x *IVF) Vector(row int) []float32 {
	return x.data[row*x.dim : (row+1)*x.dim : (row+1)*x.dim]
}

// Len is the number of indexed rows.
func (x *IVF) Len() int { return x.n }

// Dimension is the row length, 0 for an empty index.
func (x *IVF) Dimension() int { return x.dim }

// Params reports the clamped parameters in use.
func (x *IVF) Params() Params { return x.params }

// Stats describes the shape of an index.
type Stats struct {
	Params
	Rows       int   `json:"rows"`
	Dimension  int   `json:"dimension"`
	Iterations int   `json:"kmeans_iterations"`
	ListSizes  []int `json:"list_sizes"`
	MinList    int   `json:"min_list"`
	MaxList    int   `json:"max_list"`
}

// Stats summarizes the index.
func (x *IVF) Stats() Stats {
	s := Stats{
		Params:     x.params,
		Rows:       x.n,
		Dimension:  x.dim,
		Iterations: x.iters,
		ListSizes:  make([]int, len(x.lists)),
	}
	for i, l := range x.lists {
		s.ListSizes[i] = len(l)
		if i == 0 || len(l) < s.MinList {
			s.MinList = len(l)
		}
		if len(l) > s.MaxList {
			s.MaxList = len(l)
		}
	}
	return s
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
