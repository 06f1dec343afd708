/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"gobookstudio/internal/domain"
)

func indexBook() domain.Book {
	return domain.Book{
		Title:    "Grandpa Stories",
		Metadata: domain.Metadata{Author: "The Kids", Notes: "family keepsake"},
		Settings: domain.BookSettings{PageWidth: 595, PageHeight: 842, DPI: 150},
		Pages: []domain.Page{
			{
				ID: "p1",
				Elements: []domain.Element{
					{ID: "q1", Kind: domain.KindQuestion, Text: "What was your first job?", RefID: "pool-17"},
					{ID: "a1", Kind: domain.KindAnswer, Text: "Delivering newspapers in the rain", RefID: "pool-17"},
					{ID: "t1", Kind: domain.KindText, Text: "Chapter one"},
					{ID: "img1", Kind: domain.KindImage, ImageRef: "assets/old.jpg"},
				},
			},
			{
				ID: "p2",
				Elements: []domain.Element{
					{ID: "t2", Kind: domain.KindText, Text: "The newspaper route"},
				},
			},
			{ID: "preview-1", IsPreview: true, Elements: []domain.Element{
				{ID: "scratch", Kind: domain.KindText, Text: "never indexed"},
			}},
		},
	}
}

func TestBuildIndexAndSearch(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := BuildIndexIfEmpty(ctx, root, indexBook()); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}

	res, err := Search(ctx, root, SearchQuery{Text: "newspapers"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 hit for 'newspapers', got %d", len(res))
	}
	if res[0].Type != "answer" || res[0].PageID != 1 {
		t.Fatalf("wrong hit: %+v", res[0])
	}
	if res[0].Snippet == "" {
		t.Fatalf("expected a highlighted snippet")
	}

	// Book metadata is indexed too.
	res, err = Search(ctx, root, SearchQuery{Text: "keepsake"})
	if err != nil {
		t.Fatalf("search notes: %v", err)
	}
	if len(res) != 1 || res[0].Type != "book_notes" {
		t.Fatalf("notes not indexed: %+v", res)
	}

	// The scratch page must never be indexed.
	res, err = Search(ctx, root, SearchQuery{Text: "indexed"})
	if err != nil {
		t.Fatalf("search scratch: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("preview page content leaked into index: %+v", res)
	}
}

func TestSearchFilters(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if err := BuildIndexIfEmpty(ctx, root, indexBook()); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}

	res, err := Search(ctx, root, SearchQuery{Kinds: []string{"text"}})
	if err != nil {
		t.Fatalf("kind filter: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 text docs, got %d", len(res))
	}

	res, err = Search(ctx, root, SearchQuery{Kinds: []string{"text"}, PageFrom: 2, PageTo: 2})
	if err != nil {
		t.Fatalf("page filter: %v", err)
	}
	if len(res) != 1 || res[0].PageID != 2 {
		t.Fatalf("page range filter wrong: %+v", res)
	}
}

func TestAnswersForQuestion(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if err := BuildIndexIfEmpty(ctx, root, indexBook()); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}

	res, err := AnswersForPath(ctx, root, "page:1/element:q1", 0, 0)
	if err != nil {
		t.Fatalf("AnswersForPath: %v", err)
	}
	if len(res) != 1 || res[0].Type != "answer" {
		t.Fatalf("expected the linked answer, got %+v", res)
	}

	// Unknown path yields empty, not an error.
	res, err = AnswersForPath(ctx, root, "page:9/element:none", 0, 0)
	if err != nil || len(res) != 0 {
		t.Fatalf("unknown path should be empty: %v %+v", err, res)
	}
}

func TestUpdateIndexReplacesContent(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	b := indexBook()
	if err := BuildIndexIfEmpty(ctx, root, b); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}
	b.Pages[1].Elements[0].Text = "The bicycle years"
	if err := UpdateIndex(ctx, root, b); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	res, err := Search(ctx, root, SearchQuery{Text: "bicycle"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("updated content not searchable")
	}
	res, err = Search(ctx, root, SearchQuery{Text: "route"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("stale content still indexed: %+v", res)
	}
}

func TestDetectAndRebuildIndexOnCorruption(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	b := indexBook()
	if err := BuildIndexIfEmpty(ctx, root, b); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}
	// Clobber the database file.
	if err := os.WriteFile(IndexPath(root), []byte("garbage bytes, not sqlite"), 0o644); err != nil {
		t.Fatalf("corrupt index: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, root, b)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatalf("corruption not detected")
	}
	res, err := Search(ctx, root, SearchQuery{Text: "newspapers"})
	if err != nil {
		t.Fatalf("search after rebuild: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("rebuilt index incomplete")
	}
}

func TestDetectAndRebuildIndexHealthyNoop(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	b := indexBook()
	if err := BuildIndexIfEmpty(ctx, root, b); err != nil {
		t.Fatalf("BuildIndexIfEmpty: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, root, b)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if rebuilt {
		t.Fatalf("healthy index should not be rebuilt")
	}
}
