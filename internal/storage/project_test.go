/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gobookstudio/internal/domain"
)

func testBook() domain.Book {
	return domain.Book{
		Title:    "Family Memories",
		Metadata: domain.Metadata{Author: "Jane"},
		Settings: domain.BookSettings{PageWidth: 595, PageHeight: 842, DPI: 150},
		Pages: []domain.Page{
			{
				ID:         "p1",
				Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
				Elements: []domain.Element{
					{ID: "t1", Kind: domain.KindText, Frame: domain.Rect{X: 10, Y: 10, Width: 100, Height: 40}, Text: "Hello"},
				},
			},
		},
	}
}

func TestInitProjectScaffoldsAndWritesManifest(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	for _, d := range standardSubDirs {
		if st, err := os.Stat(filepath.Join(root, d)); err != nil || !st.IsDir() {
			t.Fatalf("subdir %s missing: %v", d, err)
		}
	}
	if _, err := os.Stat(ph.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := InitProject(root, testBook()); err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ph, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ph.Book.Title != "Family Memories" || len(ph.Book.Pages) != 1 {
		t.Fatalf("round trip lost data: %+v", ph.Book)
	}
}

func TestSaveCreatesBackupAndStripsPreviewPage(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ph.Book.Pages = append(ph.Book.Pages, domain.Page{ID: "preview-x", IsPreview: true})
	ph.Book.Title = "Updated"
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	found := false
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ManifestFileName+".") && strings.HasSuffix(e.Name(), ".bak") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no timestamped backup written")
	}

	data, err := os.ReadFile(ph.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var persisted domain.Book
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(persisted.Pages) != 1 {
		t.Fatalf("preview page reached disk: %d pages", len(persisted.Pages))
	}
	if persisted.Title != "Updated" {
		t.Fatalf("title not persisted")
	}
}

func TestOpenFallsBackToLatestBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	// Second save produces a backup of the valid manifest.
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Corrupt the current manifest.
	if err := os.WriteFile(ph.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover from backup: %v", err)
	}
	if got.Book.Title != "Family Memories" {
		t.Fatalf("backup content wrong: %q", got.Book.Title)
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(ph, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if ph.Root != newRoot {
		t.Fatalf("handle root not updated")
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest missing at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testBook())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ph.Book.Pages = append(ph.Book.Pages, domain.Page{ID: "preview-y", IsPreview: true})
	path, err := AutosaveCrashSnapshot(ph)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var b domain.Book
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	if len(b.Pages) != 1 {
		t.Fatalf("preview page leaked into crash snapshot")
	}
}
