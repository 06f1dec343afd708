/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package qa

import (
	"strings"

	"gobookstudio/internal/domain"
)

// Placement records where a pool question appears in the book and whether it
// has a non-empty answer element next to it.
type Placement struct {
	QuestionID string
	PageIndex  int
	Answered   bool
}

// AssignmentReport relates a question pool to the elements of a book.
type AssignmentReport struct {
	Placements []Placement
	// Unplaced lists pool question IDs that appear on no page.
	Unplaced []string
	// Unknown lists RefIDs found on pages that match no pool entry.
	Unknown []string
}

// Assignments scans the book (preview pages excluded) for question elements
// whose RefID matches a pool entry, and checks each for an answered answer
// element with the same RefID on the same page.
func Assignments(p Pool, b *domain.Book) AssignmentReport {
	var rep AssignmentReport
	placed := map[string]bool{}
	unknown := map[string]bool{}

	for i := range b.Pages {
		pg := &b.Pages[i]
		if pg.IsPreview {
			continue
		}
		answered := map[string]bool{}
		for j := range pg.Elements {
			el := &pg.Elements[j]
			if el.Kind == domain.KindAnswer && el.RefID != "" && strings.TrimSpace(el.Text) != "" {
				answered[el.RefID] = true
			}
		}
		for j := range pg.Elements {
			el := &pg.Elements[j]
			if el.Kind != domain.KindQuestion || el.RefID == "" {
				continue
			}
			if _, ok := p.Find(el.RefID); !ok {
				if !unknown[el.RefID] {
					unknown[el.RefID] = true
					rep.Unknown = append(rep.Unknown, el.RefID)
				}
				continue
			}
			placed[el.RefID] = true
			rep.Placements = append(rep.Placements, Placement{
				QuestionID: el.RefID,
				PageIndex:  i,
				Answered:   answered[el.RefID],
			})
		}
	}

	for _, q := range p.All() {
		if !placed[q.ID] {
			rep.Unplaced = append(rep.Unplaced, q.ID)
		}
	}
	return rep
}

// NextUnplaced returns the first pool question not yet placed in the book, in
// source order, or false when every question is placed.
func NextUnplaced(p Pool, b *domain.Book) (Question, bool) {
	rep := Assignments(p, b)
	if len(rep.Unplaced) == 0 {
		return Question{}, false
	}
	return p.Find(rep.Unplaced[0])
}
