/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"testing"
	"time"

	"gobookstudio/internal/domain"
)

func TestHistorySnapshotRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()

	b := ph.Book
	b.Pages = append(b.Pages, domain.Page{ID: "preview-z", IsPreview: true})
	id, err := SaveHistorySnapshot(ctx, ph, "Apply Page Theme: scrapbook", b, time.Now())
	if err != nil {
		t.Fatalf("SaveHistorySnapshot: %v", err)
	}

	got, err := LoadHistorySnapshot(ctx, ph, id)
	if err != nil {
		t.Fatalf("LoadHistorySnapshot: %v", err)
	}
	if got.Title != "Family Memories" {
		t.Fatalf("wrong title: %q", got.Title)
	}
	for _, pg := range got.Pages {
		if pg.ID == "preview-z" {
			t.Fatalf("preview page persisted in snapshot")
		}
	}
}

func TestListHistorySnapshotsNewestFirst(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, label := range []string{"first", "second", "third"} {
		if _, err := SaveHistorySnapshot(ctx, ph, label, ph.Book, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("save %s: %v", label, err)
		}
	}
	list, err := ListHistorySnapshots(ctx, ph, 2)
	if err != nil {
		t.Fatalf("ListHistorySnapshots: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("limit ignored: %d", len(list))
	}
	if list[0].Label != "third" || list[1].Label != "second" {
		t.Fatalf("wrong order: %q %q", list[0].Label, list[1].Label)
	}
}

func TestPruneHistorySnapshots(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := SaveHistorySnapshot(ctx, ph, "step", ph.Book, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	deleted, err := PruneHistorySnapshots(ctx, ph, 2)
	if err != nil {
		t.Fatalf("PruneHistorySnapshots: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted %d, want 3", deleted)
	}
	list, err := ListHistorySnapshots(ctx, ph, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("kept %d, want 2", len(list))
	}
}
