// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

// Package textnorm turns raw catalog fields into canonical text.
//
// Two paths exist:
//   - CombinedText keeps the raw casing and punctuation of title, author and
//     description. This is what the sentence-embedding model sees.
//   - Normalize and Tokens produce the lowercase, punctuation-free form used
//     by the lexical (feature hashing) path and by join keys.
//
// Every function here is pure and safe for concurrent use.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, replaces punctuation with spaces and collapses
// whitespace runs to a single space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// Punctuation and whitespace both become a separator.
		pendingSpace = true
	}

	return b.String()
}

// NormalizeOptional is Normalize for a value that may be absent.
func NormalizeOptional(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}

// Tokens splits the normalized form of s into words.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// CombinedText builds the embedding text for one catalog item:
// "<title> by <author>. <description>". Empty parts are dropped together
// with their connective.
func CombinedText(title, author, description string) string {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	description = strings.TrimSpace(description)

	var b strings.Builder
	b.Grow(len(title) + len(author) + len(description) + 6)

	b.WriteString(title)
	if author != "" {
		if b.Len() > 0 {
			b.WriteString(" by ")
		}
		b.WriteString(author)
	}
	if description != "" {
		if b.Len() > 0 {
			b.WriteString(". ")
		}
		b.WriteString(description)
	}

	return b.String()
}

// ParseList parses a list-literal cell such as "['Identity', \"Exile\"]" or
// a plain "a, b" into its trimmed, unquoted, non-empty items.
func ParseList(cell string) []string {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, "[")
	cell = strings.TrimSuffix(cell, "]")
	if strings.TrimSpace(cell) == "" {
		return nil
	}

	parts := strings.Split(cell, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// MatchKey is the join key used to match curriculum rows to catalog titles.
func MatchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
