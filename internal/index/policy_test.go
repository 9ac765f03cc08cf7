// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package index

import "testing"

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n      int
		nlist  int
		nprobe int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{40, 1, 1},
		{77, 1, 1},
		{78, 2, 1},
		{99, 2, 1},
		{400, 10, 5},
		{600, 15, 7},
		{999, 25, 8},
		{1000, 25, 8},
		{10000, 50, 8},
		{1000000, 50, 8},
	}

	for _, tt := range tests {
		got := DefaultPolicy(tt.n)
		if got.NList != tt.nlist || got.NProbe != tt.nprobe {
			t.Errorf("DefaultPolicy(%d) = %+v, want nlist=%d nprobe=%d", tt.n, got, tt.nlist, tt.nprobe)
		}
	}
}

func TestParamsClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Params
		n    int
		want Params
	}{
		{Params{NList: 50, NProbe: 8}, 10, Params{NList: 10, NProbe: 8}},
		{Params{NList: 4, NProbe: 8}, 10, Params{NList: 4, NProbe: 4}},
		{Params{NList: 0, NProbe: 0}, 10, Params{NList: 1, NProbe: 1}},
		{Params{NList: 3, NProbe: 2}, 1, Params{NList: 1, NProbe: 1}},
	}

	for _, tt := range tests {
		if got := tt.in.clamp(tt.n); got != tt.want {
			t.Errorf("%+v.clamp(%d) = %+v, want %+v", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFixedAndExhaustive(t *testing.T) {
	t.Parallel()

	if got := Fixed(7, 3)(1000); got != (Params{NList: 7, NProbe: 3}) {
		t.Errorf("Fixed = %+v", got)
	}
	if got := Exhaustive(1000); got != (Params{NList: 1, NProbe: 1}) {
		t.Errorf("Exhaustive = %+v", got)
	}
}
