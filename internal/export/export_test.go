/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"gobookstudio/internal/domain"
	"gobookstudio/internal/render"
)

func exportBook() domain.Book {
	return domain.Book{
		Title:    "Grandma's Kitchen Stories!",
		Metadata: domain.Metadata{Author: "The Family"},
		Settings: domain.BookSettings{PageWidth: 200, PageHeight: 200, DPI: 72},
		Pages: []domain.Page{
			{
				ID:         "p1",
				Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
				Elements: []domain.Element{
					{ID: "t1", Kind: domain.KindText, Frame: domain.Rect{X: 10, Y: 10, Width: 180, Height: 60}, Text: "Once upon a time"},
					{ID: "s1", Kind: domain.KindShape, Frame: domain.Rect{X: 20, Y: 100, Width: 50, Height: 50},
						Fill: domain.Color{R: 10, G: 20, B: 30, A: 255}},
				},
			},
			{ID: "p2", Background: domain.Background{Type: domain.BackgroundColor, Value: "#eeeeee"}},
			{ID: "scratch", IsPreview: true},
		},
	}
}

func TestBaseNameSlugsTitle(t *testing.T) {
	b := exportBook()
	if got := BaseName(&b); got != "grandma-s-kitchen-stories" {
		t.Fatalf("bad base name %q", got)
	}
	empty := domain.Book{}
	if got := BaseName(&empty); got != "book" {
		t.Fatalf("empty title should fall back, got %q", got)
	}
}

func TestExportBookPDFSkipsPreviewPage(t *testing.T) {
	b := exportBook()
	out := filepath.Join(t.TempDir(), "out", "book.pdf")
	if err := ExportBookPDF(&b, out, PDFOptions{}); err != nil {
		t.Fatalf("ExportBookPDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(data) == 0 || string(data[:5]) != "%PDF-" {
		t.Fatalf("output is not a PDF")
	}
}

func TestExportBookPNGPages(t *testing.T) {
	b := exportBook()
	dir := t.TempDir()
	ras := render.New(nil, nil)
	if err := ExportBookPNGPages(&b, ras, dir, PNGOptions{}); err != nil {
		t.Fatalf("ExportBookPNGPages: %v", err)
	}
	for _, name := range []string{"grandma-s-kitchen-stories-page-1.png", "grandma-s-kitchen-stories-page-2.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing page file %s: %v", name, err)
		}
	}
	// The preview page must not be exported.
	if _, err := os.Stat(filepath.Join(dir, "grandma-s-kitchen-stories-page-3.png")); err == nil {
		t.Fatalf("preview page was exported")
	}
}

func TestExportBookArchive(t *testing.T) {
	b := exportBook()
	out := filepath.Join(t.TempDir(), "book") // extension added automatically
	ras := render.New(nil, nil)
	if err := ExportBookArchive(&b, ras, out, ArchiveOptions{}); err != nil {
		t.Fatalf("ExportBookArchive: %v", err)
	}
	r, err := zip.OpenReader(out + ".zip")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = r.Close() }()
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	if !names["1.png"] || !names["2.png"] || !names["book-info.json"] {
		t.Fatalf("archive contents wrong: %v", names)
	}
	if names["3.png"] {
		t.Fatalf("preview page leaked into archive")
	}
}

func TestBatchExportPrintPreset(t *testing.T) {
	b := exportBook()
	root := t.TempDir()
	ras := render.New(nil, nil)
	if err := BatchExport(&b, ras, root, BatchOptions{Preset: PresetPrint, DPIOverride: 72}); err != nil {
		t.Fatalf("BatchExport: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "exports", "print", "grandma-s-kitchen-stories.pdf")); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "exports", "print", "png", "grandma-s-kitchen-stories-page-1.png")); err != nil {
		t.Fatalf("png missing: %v", err)
	}
}

func TestBatchExportRejectsUnknownFormat(t *testing.T) {
	b := exportBook()
	ras := render.New(nil, nil)
	if err := BatchExport(&b, ras, t.TempDir(), BatchOptions{Formats: []string{"docx"}}); err == nil {
		t.Fatalf("unknown format should fail")
	}
}
