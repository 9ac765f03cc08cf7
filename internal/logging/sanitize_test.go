// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "things fall apart", 50, "things fall apart"},
		{"trimmed", "  achebe \t", 50, "achebe"},
		{"newline injection", "a\nlevel=error msg=forged", 50, "a level=error msg=forged"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"multibyte", "ngũgĩ wa thiong'o", 5, "ngũgĩ..."},
		{"exact length", "abcd", 4, "abcd"},
		{"no limit", "abcd", 0, "abcd"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.in, tt.max); got != tt.want {
				t.Errorf("SanitizeText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeQuery(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", MaxLoggedText+10)
	got := SanitizeQuery(long)
	if want := strings.Repeat("x", MaxLoggedText) + "..."; got != want {
		t.Errorf("SanitizeQuery kept %d bytes, want %d", len(got), len(want))
	}
}
