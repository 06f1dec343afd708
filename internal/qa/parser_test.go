/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package qa

import (
	"reflect"
	"testing"

	"gobookstudio/internal/domain"
)

const sampleList = `# Childhood
Where were you born? @origins
What games did you play?
  And who did you play them with? @friends

; editors: keep this section short

Category: Work
What was your first job? @work
What was your first job? @work

No heading here either
`

func TestParseCategoriesAndQuestions(t *testing.T) {
	p, errs := Parse(sampleList)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(p.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(p.Categories))
	}
	if p.Categories[0].Title != "Childhood" || p.Categories[1].Title != "Work" {
		t.Fatalf("wrong titles: %q %q", p.Categories[0].Title, p.Categories[1].Title)
	}
	if n := len(p.Categories[0].Questions); n != 2 {
		t.Fatalf("childhood should have 2 questions, got %d", n)
	}
	// "No heading here either" trails the Work category.
	if n := len(p.Categories[1].Questions); n != 3 {
		t.Fatalf("work should have 3 questions, got %d", n)
	}
}

func TestParseContinuationAndTags(t *testing.T) {
	p, _ := Parse(sampleList)
	q := p.Categories[0].Questions[1]
	if q.Text != "What games did you play? And who did you play them with? @friends" {
		t.Fatalf("continuation not merged: %q", q.Text)
	}
	if len(q.Tags) != 1 || q.Tags[0] != "friends" {
		t.Fatalf("continuation tags not merged: %v", q.Tags)
	}
	if q.LineNo != 3 {
		t.Fatalf("line number wrong: %d", q.LineNo)
	}
}

func TestParseTagOrderIsDeterministic(t *testing.T) {
	const list = "What do you remember? @winter @autumn @summer\n  More detail. @spring @autumn\n"
	want := []string{"autumn", "spring", "summer", "winter"}
	for i := 0; i < 5; i++ {
		p, _ := Parse(list)
		got := p.Categories[0].Questions[0].Tags
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("parse %d: tags %v, want %v", i, got, want)
		}
	}
}

func TestParseStableDedupedIDs(t *testing.T) {
	p, _ := Parse(sampleList)
	work := p.Categories[1].Questions
	if work[0].ID != "what-was-your-first-job" {
		t.Fatalf("slug id wrong: %q", work[0].ID)
	}
	if work[1].ID != "what-was-your-first-job-2" {
		t.Fatalf("duplicate not suffixed: %q", work[1].ID)
	}
	// Reparsing yields identical IDs.
	p2, _ := Parse(sampleList)
	if p2.Categories[1].Questions[1].ID != work[1].ID {
		t.Fatalf("ids not stable across parses")
	}
}

func TestParseImplicitCategory(t *testing.T) {
	p, _ := Parse("Just one question?\n")
	if len(p.Categories) != 1 || p.Categories[0].Title != "General" {
		t.Fatalf("implicit category missing: %+v", p.Categories)
	}
}

func TestSummarize(t *testing.T) {
	p, _ := Parse(sampleList)
	st := Summarize(p)
	if st.Categories != 2 || st.Questions != 5 {
		t.Fatalf("wrong totals: %+v", st)
	}
	if st.ByCategory["Childhood"] != 2 {
		t.Fatalf("wrong category count: %+v", st.ByCategory)
	}
	if st.ByTag["work"] != 2 || st.ByTag["origins"] != 1 {
		t.Fatalf("wrong tag counts: %+v", st.ByTag)
	}
}

func TestAssignments(t *testing.T) {
	p, _ := Parse(sampleList)
	b := domain.Book{Pages: []domain.Page{
		{
			ID: "p1",
			Elements: []domain.Element{
				{ID: "q1", Kind: domain.KindQuestion, RefID: "where-were-you-born"},
				{ID: "a1", Kind: domain.KindAnswer, RefID: "where-were-you-born", Text: "In a small town"},
				{ID: "q2", Kind: domain.KindQuestion, RefID: "what-was-your-first-job"},
				{ID: "a2", Kind: domain.KindAnswer, RefID: "what-was-your-first-job", Text: "   "},
				{ID: "q3", Kind: domain.KindQuestion, RefID: "not-in-pool"},
			},
		},
		{ID: "scratch", IsPreview: true, Elements: []domain.Element{
			{ID: "qx", Kind: domain.KindQuestion, RefID: "no-heading-here-either"},
		}},
	}}

	rep := Assignments(p, &b)
	if len(rep.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %+v", rep.Placements)
	}
	byID := map[string]Placement{}
	for _, pl := range rep.Placements {
		byID[pl.QuestionID] = pl
	}
	if !byID["where-were-you-born"].Answered {
		t.Fatalf("answered question not detected")
	}
	if byID["what-was-your-first-job"].Answered {
		t.Fatalf("blank answer counted as answered")
	}
	if len(rep.Unknown) != 1 || rep.Unknown[0] != "not-in-pool" {
		t.Fatalf("unknown refs wrong: %v", rep.Unknown)
	}
	// The preview page must not count as placement.
	for _, id := range rep.Unplaced {
		if id == "no-heading-here-either" {
			return
		}
	}
	t.Fatalf("preview page counted as placement: %v", rep.Unplaced)
}

func TestNextUnplaced(t *testing.T) {
	p, _ := Parse(sampleList)
	b := domain.Book{Pages: []domain.Page{{ID: "p1", Elements: []domain.Element{
		{ID: "q1", Kind: domain.KindQuestion, RefID: "where-were-you-born"},
	}}}}
	q, ok := NextUnplaced(p, &b)
	if !ok || q.ID != "what-games-did-you-play" {
		t.Fatalf("wrong next question: %+v ok=%v", q, ok)
	}
}
