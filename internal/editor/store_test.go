/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package editor

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
)

func testBook() domain.Book {
	return domain.Book{
		Title:    "Family Stories",
		Settings: domain.BookSettings{PageWidth: 600, PageHeight: 800, DPI: 150},
		Pages: []domain.Page{
			{
				ID:         "p1",
				Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
				Elements: []domain.Element{
					{ID: "q1", Kind: domain.KindQuestion, Text: "Where were you born?"},
					{ID: "a1", Kind: domain.KindAnswer, Text: "In a small town."},
				},
			},
			{
				ID:         "p2",
				Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
				Elements: []domain.Element{
					{ID: "img1", Kind: domain.KindImage, ImageRef: "assets/granny.jpg"},
				},
			},
		},
	}
}

func TestStorePageAccess(t *testing.T) {
	s := NewStore(testBook())
	if s.PageCount() != 2 {
		t.Fatalf("page count %d", s.PageCount())
	}
	pg, err := s.Page(1)
	if err != nil || pg.ID != "p2" {
		t.Fatalf("Page(1): %v %v", pg, err)
	}
	if _, err := s.Page(2); !errors.Is(err, ErrPageIndex) {
		t.Fatalf("expected ErrPageIndex, got %v", err)
	}
	if _, err := s.Page(-1); !errors.Is(err, ErrPageIndex) {
		t.Fatalf("expected ErrPageIndex for negative index")
	}
	if err := s.SetActivePage(1); err != nil || s.ActivePageIndex() != 1 {
		t.Fatalf("SetActivePage: %v", err)
	}
	if err := s.SetActivePage(5); !errors.Is(err, ErrPageIndex) {
		t.Fatalf("out-of-range active page accepted")
	}
}

func TestSkipHistoryControlsDirtyFlag(t *testing.T) {
	s := NewStore(testBook())
	if s.Dirty() {
		t.Fatalf("fresh store should be clean")
	}
	if err := s.SetPageTheme(0, "classic", true); err != nil {
		t.Fatalf("SetPageTheme: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("skipHistory mutation must not dirty the store")
	}
	if err := s.SetPageTheme(0, "scrapbook", false); err != nil {
		t.Fatalf("SetPageTheme: %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("recorded mutation must dirty the store")
	}
	s.SaveHistory("Set Page Theme: scrapbook")
	if s.Dirty() {
		t.Fatalf("SaveHistory should clear the dirty flag")
	}
	if s.History().Len() != 1 {
		t.Fatalf("exactly one snapshot expected, got %d", s.History().Len())
	}
}

func TestMutationsNeverAutoSaveHistory(t *testing.T) {
	s := NewStore(testBook())
	pal, _ := catalog.Builtin().Palette("warm-earth")
	if err := s.ApplyColorPalette(pal, BookTarget(), false); err != nil {
		t.Fatalf("ApplyColorPalette: %v", err)
	}
	s.SetBookColorPalette("warm-earth", false)
	if s.History().Len() != 0 {
		t.Fatalf("primitives must not append history, got %d snapshots", s.History().Len())
	}
}

func TestGoToHistoryRestoresDocument(t *testing.T) {
	s := NewStore(testBook())
	s.SaveHistory("baseline")
	s.SetBookTheme("night", false)
	s.SaveHistory("Set Book Theme: night")

	if err := s.GoToHistory(0); err != nil {
		t.Fatalf("GoToHistory: %v", err)
	}
	if s.Book().Settings.ThemeID != "" {
		t.Fatalf("baseline restore should drop theme, got %q", s.Book().Settings.ThemeID)
	}
	if err := s.GoToHistory(7); !errors.Is(err, ErrHistoryIndex) {
		t.Fatalf("expected ErrHistoryIndex, got %v", err)
	}
}

func TestPreviewPageLifecycle(t *testing.T) {
	s := NewStore(testBook())
	idx, err := s.CreatePreviewPage(0)
	if err != nil {
		t.Fatalf("CreatePreviewPage: %v", err)
	}
	if idx != 1 || s.PageCount() != 3 {
		t.Fatalf("preview should sit after source: idx=%d count=%d", idx, s.PageCount())
	}
	pg, _ := s.Page(idx)
	if !pg.IsPreview {
		t.Fatalf("inserted page not flagged as preview")
	}
	if pg.ID == "p1" {
		t.Fatalf("preview must get its own id")
	}
	if len(pg.Elements) != 2 || pg.Elements[0].Text != "Where were you born?" {
		t.Fatalf("preview should be seeded from the source page")
	}

	// Creating again is a no-op returning the existing index.
	idx2, err := s.CreatePreviewPage(2)
	if err != nil || idx2 != idx {
		t.Fatalf("second create should return existing preview: %d %v", idx2, err)
	}
	if s.PageCount() != 3 {
		t.Fatalf("at most one preview page allowed")
	}

	if !s.DeletePreviewPage() {
		t.Fatalf("delete should report removal")
	}
	if s.PageCount() != 2 || s.Book().PreviewPageIndex() != -1 {
		t.Fatalf("preview not removed")
	}
	if s.DeletePreviewPage() {
		t.Fatalf("second delete should be a no-op")
	}
}

func TestPreviewPageNeverEntersHistory(t *testing.T) {
	s := NewStore(testBook())
	if _, err := s.CreatePreviewPage(0); err != nil {
		t.Fatalf("CreatePreviewPage: %v", err)
	}
	s.SaveHistory("with preview live")
	b, err := s.History().GoTo(0)
	if err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	if len(b.Pages) != 2 {
		t.Fatalf("snapshot must exclude the preview page, got %d pages", len(b.Pages))
	}
	for _, pg := range b.Pages {
		if pg.IsPreview {
			t.Fatalf("preview flag leaked into a snapshot")
		}
	}
}

func TestApplyLayoutTemplateReportsOrphans(t *testing.T) {
	s := NewStore(testBook())
	tpl, ok := catalog.Builtin().Template("question-answer")
	if !ok {
		t.Fatalf("builtin template missing")
	}
	// Page 1 holds only an image; the question-answer template has no image
	// slot, so the image must be orphaned, not silently dropped.
	report, err := s.ApplyLayoutTemplate(tpl, PageTarget(1), false)
	if err != nil {
		t.Fatalf("ApplyLayoutTemplate: %v", err)
	}
	if !report.HasOrphans() {
		t.Fatalf("expected the image to be orphaned")
	}
	if report.Orphans[0].ElementID != "img1" || report.Orphans[0].PageIndex != 1 {
		t.Fatalf("bad orphan record: %+v", report.Orphans[0])
	}
	pg, _ := s.Page(1)
	if len(pg.Elements) != len(tpl.Slots) {
		t.Fatalf("page should carry one element per slot, got %d", len(pg.Elements))
	}
	for _, el := range pg.Elements {
		if el.Kind == domain.KindImage {
			t.Fatalf("orphaned image still on page")
		}
	}
	if pg.LayoutTemplateID != tpl.ID {
		t.Fatalf("template id not recorded on page")
	}
}

func TestOrphanSnippetKeepsRuneBoundary(t *testing.T) {
	b := domain.Book{
		Settings: domain.BookSettings{PageWidth: 600, PageHeight: 800},
		Pages: []domain.Page{{
			ID: "p1",
			Elements: []domain.Element{{
				// "x" plus 3-byte runes puts byte 60 inside a rune.
				ID:       "img1",
				Kind:     domain.KindImage,
				ImageRef: "x" + strings.Repeat("写", 30),
			}},
		}},
	}
	s := NewStore(b)
	tpl, _ := catalog.Builtin().Template("question-answer")
	report, err := s.ApplyLayoutTemplate(tpl, PageTarget(0), false)
	if err != nil {
		t.Fatalf("ApplyLayoutTemplate: %v", err)
	}
	if !report.HasOrphans() {
		t.Fatalf("expected the image to be orphaned")
	}
	sn := report.Orphans[0].Snippet
	if !utf8.ValidString(sn) {
		t.Fatalf("snippet split a rune: %q", sn)
	}
	if len(sn) == 0 || len(sn) > 60 {
		t.Fatalf("bad snippet length %d", len(sn))
	}
}

func TestApplyLayoutTemplatePreservesMatchingContent(t *testing.T) {
	s := NewStore(testBook())
	tpl, _ := catalog.Builtin().Template("question-answer")
	report, err := s.ApplyLayoutTemplate(tpl, PageTarget(0), false)
	if err != nil {
		t.Fatalf("ApplyLayoutTemplate: %v", err)
	}
	if report.HasOrphans() {
		t.Fatalf("question+answer content fits the template: %+v", report.Orphans)
	}
	pg, _ := s.Page(0)
	var gotQuestion, gotAnswer bool
	for _, el := range pg.Elements {
		if el.ID == "q1" {
			gotQuestion = true
			if el.Frame.Width == 0 {
				t.Fatalf("matched element not repositioned")
			}
		}
		if el.ID == "a1" {
			gotAnswer = true
		}
	}
	if !gotQuestion || !gotAnswer {
		t.Fatalf("existing content lost: %+v", pg.Elements)
	}
}

func TestApplyLayoutTemplateBookTarget(t *testing.T) {
	s := NewStore(testBook())
	tpl, _ := catalog.Builtin().Template("full-text")
	if _, err := s.ApplyLayoutTemplate(tpl, BookTarget(), false); err != nil {
		t.Fatalf("ApplyLayoutTemplate: %v", err)
	}
	if s.Book().Settings.LayoutTemplateID != tpl.ID {
		t.Fatalf("book-level template id not recorded")
	}
	for i := 0; i < s.PageCount(); i++ {
		pg, _ := s.Page(i)
		if pg.LayoutTemplateID != tpl.ID {
			t.Fatalf("page %d missing template id", i)
		}
	}
}

func TestCheckLayoutCompatibilityDoesNotMutate(t *testing.T) {
	s := NewStore(testBook())
	tpl, _ := catalog.Builtin().Template("question-answer")
	pg, _ := s.Page(1)
	before := len(pg.Elements)
	report := CheckLayoutCompatibility(tpl, pg, 1)
	if !report.HasOrphans() {
		t.Fatalf("image page should report an orphan")
	}
	if len(pg.Elements) != before {
		t.Fatalf("compatibility check mutated the page")
	}
}

func TestMoveElementSnapsToNeighborEdge(t *testing.T) {
	b := domain.Book{
		Settings: domain.BookSettings{PageWidth: 600, PageHeight: 800},
		Pages: []domain.Page{{
			ID: "p1",
			Elements: []domain.Element{
				{ID: "anchor", Kind: domain.KindText, Frame: domain.Rect{X: 100, Y: 100, Width: 200, Height: 50}},
				{ID: "moving", Kind: domain.KindText, Frame: domain.Rect{X: 300, Y: 300, Width: 120, Height: 40}},
			},
		}},
	}
	s := NewStore(b)
	// 4 units off the anchor's left edge: inside the default threshold.
	guides, err := s.MoveElement(0, "moving", 104, 300, true, false)
	if err != nil {
		t.Fatalf("MoveElement: %v", err)
	}
	if len(guides) == 0 {
		t.Fatalf("expected a guide for the snapped edge")
	}
	pg, _ := s.Page(0)
	fr := pg.Elements[1].Frame
	if fr.X != 100 || fr.Y != 300 {
		t.Fatalf("frame not snapped to the anchor edge: %+v", fr)
	}
	if fr.Width != 120 || fr.Height != 40 {
		t.Fatalf("move changed the element size: %+v", fr)
	}
	if !s.Dirty() {
		t.Fatalf("move should dirty the store")
	}

	// Without snapping the position lands exactly where asked.
	if _, err := s.MoveElement(0, "moving", 250, 250, false, false); err != nil {
		t.Fatalf("MoveElement: %v", err)
	}
	pg, _ = s.Page(0)
	if fr := pg.Elements[1].Frame; fr.X != 250 || fr.Y != 250 {
		t.Fatalf("unsnapped move misplaced the element: %+v", fr)
	}

	if _, err := s.MoveElement(0, "no-such-element", 0, 0, true, false); err == nil {
		t.Fatalf("unknown element id should fail")
	}
}

func TestApplyColorPaletteRespectsOverrides(t *testing.T) {
	s := NewStore(testBook())
	pg, _ := s.Page(0)
	custom := domain.Color{R: 1, G: 2, B: 3, A: 255}
	pg.Elements[0].FontColor = custom
	pg.Elements[0].ColorOverrides = map[domain.ColorAttr]bool{domain.AttrFont: true}

	pal, _ := catalog.Builtin().Palette("ocean-calm")
	if err := s.ApplyColorPalette(pal, PageTarget(0), false); err != nil {
		t.Fatalf("ApplyColorPalette: %v", err)
	}
	pg, _ = s.Page(0)
	if pg.Elements[0].FontColor != custom {
		t.Fatalf("override ignored: %+v", pg.Elements[0].FontColor)
	}
	if pg.Elements[1].FontColor != pal.Secondary {
		t.Fatalf("answer font should take palette secondary")
	}
	if pg.Background.Type != domain.BackgroundColor || pg.Background.Value != pal.Background.Hex() {
		t.Fatalf("page background not recolored: %+v", pg.Background)
	}
}

func TestApplyColorPaletteAfterOverrideReset(t *testing.T) {
	s := NewStore(testBook())
	pg, _ := s.Page(0)
	pg.Elements[0].ColorOverrides = map[domain.ColorAttr]bool{domain.AttrFont: true}

	if err := s.ResetColorOverrides(0, []string{"q1"}, false); err != nil {
		t.Fatalf("ResetColorOverrides: %v", err)
	}
	pal, _ := catalog.Builtin().Palette("forest-mist")
	if err := s.ApplyColorPalette(pal, PageTarget(0), false); err != nil {
		t.Fatalf("ApplyColorPalette: %v", err)
	}
	pg, _ = s.Page(0)
	if pg.Elements[0].FontColor != pal.Primary {
		t.Fatalf("reset override should allow palette to recolor the font")
	}
}

func TestApplyThemeToElements(t *testing.T) {
	s := NewStore(testBook())
	th, _ := catalog.Builtin().Theme("classic")
	if err := s.ApplyThemeToElements(0, th, false); err != nil {
		t.Fatalf("ApplyThemeToElements: %v", err)
	}
	pg, _ := s.Page(0)
	want := th.DefaultsFor(domain.KindQuestion)[domain.AttrFont]
	if pg.Elements[0].FontColor != want {
		t.Fatalf("theme default not applied: got %+v want %+v", pg.Elements[0].FontColor, want)
	}
	if err := s.ApplyThemeToElements(9, th, false); !errors.Is(err, ErrPageIndex) {
		t.Fatalf("expected ErrPageIndex")
	}
}

func TestUpdatePageBackground(t *testing.T) {
	s := NewStore(testBook())
	bg := domain.Background{Type: domain.BackgroundPattern, Value: "dots", Opacity: 0.5}
	if err := s.UpdatePageBackground(1, bg, false); err != nil {
		t.Fatalf("UpdatePageBackground: %v", err)
	}
	pg, _ := s.Page(1)
	if pg.Background != bg {
		t.Fatalf("background not replaced: %+v", pg.Background)
	}
}
