// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package index

import (
	"context"
	"math"
	"math/rand"
	"sync"
)

// kMeans clusters unit vectors by inner product. Centroids are kept at unit
// length (the renormalized mean of their members).
type kMeans struct {
	data      []float32
	n, dim, k int
	workers   int
	rng       *rand.Rand

	centroids []float32
	assign    []int
	sims      []float32
}

func newKMeans(data []float32, n, dim, k int, seed int64, workers int) *kMeans {
	//nolint:gosec // G404: math/rand is acceptable for clustering (not security)
	rng := rand.New(rand.NewSource(seed))
	return &kMeans{
		data:      data,
		n:         n,
		dim:       dim,
		k:         k,
		workers:   max(1, workers),
		rng:       rng,
		centroids: make([]float32, k*dim),
		assign:    make([]int, n),
		sims:      make([]float32, n),
	}
}

func (km *kMeans) row(i int) []float32 { return km.data[i*km.dim : (i+1)*km.dim] }

func (km *kMeans) centroid(c int) []float32 { return km.centroids[c*km.dim : (c+1)*km.dim] }

// run seeds, then alternates assignment and update until no row moves or
// maxIters rounds have run. A last assignment against the final centroids
// places each row in the list of its nearest centroid.
func (km *kMeans) run(ctx context.Context, maxIters int) (int, error) {
	km.seed()

	for i := range km.assign {
		km.assign[i] = -1
	}

	iters := 0
	for iters < maxIters {
		if err := ctx.Err(); err != nil {
			return iters, err
		}
		iters++

		moved := km.assignAll()
		km.reseedEmpty()
		if moved == 0 && iters > 1 {
			break
		}
		km.update()
	}

	if err := ctx.Err(); err != nil {
		return iters, err
	}
	for range 3 {
		km.assignAll()
		if !km.reseedEmpty() {
			break
		}
	}
	return iters, nil
}

// seed picks initial centroids k-means++ style: each next centroid is a row
// drawn with probability proportional to its squared distance from the
// nearest centroid chosen so far.
func (km *kMeans) seed() {
	chosen := make([]bool, km.n)
	first := km.rng.Intn(km.n)
	chosen[first] = true
	copy(km.centroid(0), km.row(first))

	best := make([]float32, km.n)
	for i := range best {
		best[i] = dot(km.row(i), km.centroid(0))
	}

	for c := 1; c < km.k; c++ {
		var total float64
		weights := make([]float64, km.n)
		for i := range weights {
			if chosen[i] {
				continue
			}
			w := math.Max(0, 2-2*float64(best[i]))
			weights[i] = w
			total += w
		}

		pick := -1
		if total > 0 {
			r := km.rng.Float64() * total
			for i, w := range weights {
				if w == 0 {
					continue
				}
				r -= w
				pick = i
				if r <= 0 {
					break
				}
			}
		}
		if pick < 0 {
			// All remaining rows coincide with a centroid.
			for i := range chosen {
				if !chosen[i] {
					pick = i
					break
				}
			}
		}

		chosen[pick] = true
		copy(km.centroid(c), km.row(pick))
		for i := range best {
			if s := dot(km.row(i), km.centroid(c)); s > best[i] {
				best[i] = s
			}
		}
	}
}

// assignAll moves every row to its nearest centroid, in parallel chunks, and
// returns how many rows changed cluster.
func (km *kMeans) assignAll() int {
	chunk := (km.n + km.workers - 1) / km.workers
	moved := make([]int, km.workers)

	var wg sync.WaitGroup
	for w := 0; w < km.workers; w++ {
		start := w * chunk
		end := min(start+chunk, km.n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				c, s := km.nearest(km.row(i))
				if c != km.assign[i] {
					moved[w]++
				}
				km.assign[i] = c
				km.sims[i] = s
			}
		}(w, start, end)
	}
	wg.Wait()

	total := 0
	for _, m := range moved {
		total += m
	}
	return total
}

// nearest returns the centroid with the highest inner product, lowest index
// on ties.
func (km *kMeans) nearest(v []float32) (int, float32) {
	best, bestSim := 0, float32(math.Inf(-1))
	for c := 0; c < km.k; c++ {
		if s := dot(v, km.centroid(c)); s > bestSim {
			best, bestSim = c, s
		}
	}
	return best, bestSim
}

// reseedEmpty gives every empty cluster the row farthest from its current
// centroid, taken from a cluster that can spare it.
// It reports whether any cluster was reseeded.
func (km *kMeans) reseedEmpty() bool {
	sizes := make([]int, km.k)
	for _, c := range km.assign {
		sizes[c]++
	}

	reseeded := false
	for c := 0; c < km.k; c++ {
		if sizes[c] > 0 {
			continue
		}

		far := -1
		for i := 0; i < km.n; i++ {
			if sizes[km.assign[i]] < 2 {
				continue
			}
			if far < 0 || km.sims[i] < km.sims[far] {
				far = i
			}
		}
		if far < 0 {
			return reseeded
		}

		sizes[km.assign[far]]--
		sizes[c]++
		km.assign[far] = c
		km.sims[far] = 1
		copy(km.centroid(c), km.row(far))
		reseeded = true
	}
	return reseeded
}

// update recomputes each centroid as the renormalized mean of its members.
// A centroid whose members sum to zero keeps its previous position.
func (km *kMeans) update() {
	sums := make([]float64, km.k*km.dim)
	for i, c := range km.assign {
		row := km.row(i)
		base := c * km.dim
		for d, x := range row {
			sums[base+d] += float64(x)
		}
	}

	for c := 0; c < km.k; c++ {
		sum := sums[c*km.dim : (c+1)*km.dim]
		var sq float64
		for _, x := range sum {
			sq += x * x
		}
		if sq == 0 {
			continue
		}
		inv := 1 / math.Sqrt(sq)
		cen := km.centroid(c)
		for d, x := range sum {
			cen[d] = float32(x * inv)
		}
	}
}

// postingLists groups row ids by cluster in ascending row order.
func (km *kMeans) postingLists() [][]int32 {
	lists := make([][]int32, km.k)
	for i, c := range km.assign {
		lists[c] = append(lists[c], int32(i))
	}
	return lists
}
