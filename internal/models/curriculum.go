// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package models

import "github.com/goccy/go-json"

// Alignment links a catalog work (by title, in BookID) to a place in the
// Competency Based Curriculum.
type Alignment struct {
	BookID       string   `json:"book_id"`
	Grade        string   `json:"grade"`
	LearningArea string   `json:"learning_area"`
	Strand       string   `json:"strand"`
	SubStrand    string   `json:"sub_strand"`
	Competencies []string `json:"competencies"`
	Notes        string   `json:"notes"`
}

// alignedBookColumns are the catalog columns carried into an AlignedBook.
var alignedBookColumns = []string{
	"title", "author", "publisher", "isbn10", "isbn13", "language", "pubdate",
	"ol_work_key", "image_url", "source", "description", "year", "genre", "cover_url",
}

// AlignedBook is an Alignment joined with its catalog book. Book is nil when
// no catalog title matched; the alignment is still returned.
type AlignedBook struct {
	Alignment
	Book *Book
}

// MarshalJSON encodes the book columns followed by the alignment columns.
// Alignment columns win where names overlap. Book columns the catalog does
// not have are encoded as empty strings.
func (a AlignedBook) MarshalJSON() ([]byte, error) {
	rec := make(map[string]any, len(alignedBookColumns)+7)

	var bookRec map[string]any
	if a.Book != nil {
		bookRec = a.Book.Record()
	}
	for _, col := range alignedBookColumns {
		v := any("")
		if bookRec != nil {
			if bv, ok := bookRec[col]; ok && bv != nil {
				v = bv
			}
		}
		rec[col] = v
	}

	competencies := a.Competencies
	if competencies == nil {
		competencies = []string{}
	}
	rec["book_id"] = a.BookID
	rec["grade"] = a.Grade
	rec["learning_area"] = a.LearningArea
	rec["strand"] = a.Strand
	rec["sub_strand"] = a.SubStrand
	rec["competencies"] = competencies
	rec["notes"] = a.Notes

	return json.Marshal(rec)
}
