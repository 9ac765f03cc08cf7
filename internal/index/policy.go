// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package index

// Params are the two IVF knobs: how many clusters to partition the rows into
// and how many of them to scan per query.
type Params struct {
	NList  int `json:"nlist"`
	NProbe int `json:"nprobe"`
}

// Policy chooses Params for a catalog of n rows.
type Policy func(n int) Params

// rowsPerList is the minimum average posting-list length the default policy
// allows before adding another cluster.
const rowsPerList = 39

// DefaultPolicy scales the number of clusters with catalog size, capped by
// size band, and probes half of them up to eight. Catalogs under 78 rows get
// a single list and every query is an exhaustive scan.
//
//	n=40     -> nlist 1,  nprobe 1
//	n=1000   -> nlist 25, nprobe 8
//	n=10000  -> nlist 50, nprobe 8
func DefaultPolicy(n int) Params {
	maxNList := max(1, n/rowsPerList)

	var limit int
	switch {
	case n < 100:
		limit = 10
	case n < 500:
		limit = 15
	case n < 1000:
		limit = 25
	default:
		limit = 50
	}

	nlist := max(1, min(limit, maxNList))
	return Params{
		NList:  nlist,
		NProbe: max(1, min(8, nlist/2)),
	}
}

// Exhaustive always builds a single list, so every query is exact.
func Exhaustive(int) Params {
	return Params{NList: 1, NProbe: 1}
}

// Fixed returns a policy that ignores n. Build still clamps NList to n.
func Fixed(nlist, nprobe int) Policy {
	return func(int) Params {
		return Params{NList: nlist, NProbe: nprobe}
	}
}

// clamp keeps 1 <= NList <= n and 1 <= NProbe <= NList.
func (p Params) clamp(n int) Params {
	p.NList = max(1, min(p.NList, n))
	p.NProbe = max(1, min(p.NProbe, p.NList))
	return p
}
