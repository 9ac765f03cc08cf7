// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package logging

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLoggedText bounds user-supplied text copied into log fields.
const MaxLoggedText = 120

// SanitizeText prepares client input for a log field: control characters
// become spaces (no forged log lines in console output) and the result is
// cut to at most maxRunes runes with a "..." marker.
func SanitizeText(s string, maxRunes int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return truncateRunes(s, maxRunes)
}

// SanitizeQuery is SanitizeText with MaxLoggedText.
func SanitizeQuery(q string) string {
	return SanitizeText(q, MaxLoggedText)
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
