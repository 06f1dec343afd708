/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor provides the document store: the single mutation surface
// over the in-memory book, plus the history ledger it reconciles into.
//
// All presentation-state changes funnel through Store primitives so the
// "skip history" bypass and the color-override rules are applied in one
// place. Mutations never append history themselves; skipHistory=false marks
// the document dirty and the change is reconciled into the ledger by the
// next SaveHistory call, while skipHistory=true leaves even the dirty flag
// untouched (preview-only churn is invisible to autosave).
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
	applog "gobookstudio/internal/log"
	"gobookstudio/internal/vector"
)

// ErrPageIndex is returned for out-of-range page indexes. Index validity is
// the caller's responsibility; the store rejects rather than clamps.
var ErrPageIndex = errors.New("page index out of range")

// Target scopes a mutation to one page or to every page of the book.
type Target struct {
	all  bool
	page int
}

// PageTarget scopes a mutation to the page at index i.
func PageTarget(i int) Target { return Target{page: i} }

// BookTarget scopes a mutation to all pages and the book-level settings.
func BookTarget() Target { return Target{all: true} }

// AllPages reports whether the target covers the whole book.
func (t Target) AllPages() bool { return t.all }

// PageIndex returns the single targeted page index (meaningless for book targets).
func (t Target) PageIndex() int { return t.page }

// Store owns the live document and its history ledger. It is not safe for
// concurrent use; the application drives it from a single event loop.
type Store struct {
	book    domain.Book
	history *History
	active  int
	dirty   bool
	log     *slog.Logger
}

// NewStore creates a store around the given book. The active page starts at 0.
func NewStore(b domain.Book) *Store {
	return &Store{
		book:    b,
		history: NewHistory(),
		log:     applog.WithComponent("editor"),
	}
}

// Book returns the live document. Callers must treat it as read-only and go
// through store primitives for mutation.
func (s *Store) Book() *domain.Book { return &s.book }

// PageCount returns the number of pages including any preview page.
func (s *Store) PageCount() int { return len(s.book.Pages) }

// Page returns a pointer to the page at index i.
func (s *Store) Page(i int) (*domain.Page, error) {
	if i < 0 || i >= len(s.book.Pages) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrPageIndex, i, len(s.book.Pages))
	}
	return &s.book.Pages[i], nil
}

// ActivePageIndex returns the index of the page currently shown.
func (s *Store) ActivePageIndex() int { return s.active }

// SetActivePage moves the active page pointer.
func (s *Store) SetActivePage(i int) error {
	if i < 0 || i >= len(s.book.Pages) {
		return fmt.Errorf("%w: %d (have %d)", ErrPageIndex, i, len(s.book.Pages))
	}
	s.active = i
	return nil
}

// Dirty reports whether non-preview mutations happened since the last
// SaveHistory / MarkClean.
func (s *Store) Dirty() bool { return s.dirty }

// MarkClean clears the dirty flag (after a successful manifest save).
func (s *Store) MarkClean() { s.dirty = false }

// History exposes the ledger for inspection (Len/Index/Labels).
func (s *Store) History() *History { return s.history }

// SaveHistory appends a snapshot of the current document under label and
// returns its index. The snapshot is taken without preview pages: scratch
// state never enters the ledger.
func (s *Store) SaveHistory(label string) int {
	idx := s.history.Save(label, s.book.WithoutPreviewPages())
	s.dirty = false
	s.log.Debug("history snapshot", slog.String("label", label), slog.Int("index", idx))
	return idx
}

// GoToHistory replaces the live document with the snapshot at index. The
// active page pointer is clamped to the restored document's page range (the
// pointer is a view concern, not part of the snapshot contract).
func (s *Store) GoToHistory(index int) error {
	b, err := s.history.GoTo(index)
	if err != nil {
		return err
	}
	s.book = b
	s.dirty = false
	if s.active >= len(s.book.Pages) {
		s.active = len(s.book.Pages) - 1
	}
	if s.active < 0 {
		s.active = 0
	}
	s.log.Debug("history jump", slog.Int("index", index))
	return nil
}

func (s *Store) markMutated(skipHistory bool) {
	if !skipHistory {
		s.dirty = true
	}
}

// ApplyLayoutTemplate replaces/repositions elements on the targeted page(s)
// to match the template's slots. Existing content is preserved where the
// template declares compatible slots; content with no matching slot is
// removed from the page but reported, never silently dropped. Unfilled slots
// receive kind-appropriate placeholder elements.
func (s *Store) ApplyLayoutTemplate(tpl catalog.PageTemplate, target Target, skipHistory bool) (ApplyReport, error) {
	var report ApplyReport
	w, h := s.book.Settings.PageWidth, s.book.Settings.PageHeight
	if target.AllPages() {
		for i := range s.book.Pages {
			applyTemplateToPage(&s.book.Pages[i], tpl, w, h, i, &report)
		}
		s.book.Settings.LayoutTemplateID = tpl.ID
	} else {
		pg, err := s.Page(target.PageIndex())
		if err != nil {
			return report, err
		}
		applyTemplateToPage(pg, tpl, w, h, target.PageIndex(), &report)
	}
	s.markMutated(skipHistory)
	return report, nil
}

// ApplyThemeToElements applies the theme's per-kind default colors to every
// element on the page. Attributes listed in an element's ColorOverrides are
// left untouched.
func (s *Store) ApplyThemeToElements(pageIndex int, theme catalog.Theme, skipHistory bool) error {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return err
	}
	applyThemeToPage(pg, theme)
	s.markMutated(skipHistory)
	return nil
}

// ApplyColorPalette pushes the palette's named colors into each element's
// category-appropriate attributes on the targeted page(s), respecting
// overrides, and sets the page background to the palette background color.
func (s *Store) ApplyColorPalette(p catalog.ColorPalette, target Target, skipHistory bool) error {
	if target.AllPages() {
		for i := range s.book.Pages {
			applyPaletteToPage(&s.book.Pages[i], p)
		}
	} else {
		pg, err := s.Page(target.PageIndex())
		if err != nil {
			return err
		}
		applyPaletteToPage(pg, p)
	}
	s.markMutated(skipHistory)
	return nil
}

// SetPageColorPalette records the chosen palette id on a page. Empty id
// means "inherit theme default colors, no palette override".
func (s *Store) SetPageColorPalette(pageIndex int, paletteID string, skipHistory bool) error {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return err
	}
	pg.ColorPaletteID = paletteID
	s.markMutated(skipHistory)
	return nil
}

// SetBookColorPalette records the book-level palette id.
func (s *Store) SetBookColorPalette(paletteID string, skipHistory bool) {
	s.book.Settings.ColorPaletteID = paletteID
	s.markMutated(skipHistory)
}

// SetPageTheme records the chosen theme id on a page.
func (s *Store) SetPageTheme(pageIndex int, themeID string, skipHistory bool) error {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return err
	}
	pg.ThemeID = themeID
	s.markMutated(skipHistory)
	return nil
}

// SetBookTheme records the book-level theme id.
func (s *Store) SetBookTheme(themeID string, skipHistory bool) {
	s.book.Settings.ThemeID = themeID
	s.markMutated(skipHistory)
}

// UpdatePageBackground atomically replaces the page's background descriptor.
func (s *Store) UpdatePageBackground(pageIndex int, bg domain.Background, skipHistory bool) error {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return err
	}
	pg.Background = bg
	s.markMutated(skipHistory)
	return nil
}

// ResetColorOverrides clears the override map for the given elements so a
// subsequent theme/palette application can take effect again. Unknown ids
// are ignored.
func (s *Store) ResetColorOverrides(pageIndex int, elementIDs []string, skipHistory bool) error {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(elementIDs))
	for _, id := range elementIDs {
		want[id] = true
	}
	for i := range pg.Elements {
		if want[pg.Elements[i].ID] {
			pg.Elements[i].ColorOverrides = nil
		}
	}
	s.markMutated(skipHistory)
	return nil
}

// MoveElement repositions an element's frame to (x, y). With snap set, the
// frame is aligned against smart guides built from the page bounds and the
// other elements' frames; the returned guide lines are for visual feedback
// during a drag. Size is never changed.
func (s *Store) MoveElement(pageIndex int, elementID string, x, y float64, snap bool, skipHistory bool) ([]vector.GuideLine, error) {
	pg, err := s.Page(pageIndex)
	if err != nil {
		return nil, err
	}
	var el *domain.Element
	for i := range pg.Elements {
		if pg.Elements[i].ID == elementID {
			el = &pg.Elements[i]
			break
		}
	}
	if el == nil {
		return nil, fmt.Errorf("element %q not on page %d", elementID, pageIndex)
	}
	moved := vector.FromDomain(el.Frame)
	moved.X, moved.Y = float32(x), float32(y)
	var guides []vector.GuideLine
	if snap {
		anchors := vector.PageAnchors(pg, s.book.Settings.PageWidth, s.book.Settings.PageHeight, elementID)
		moved, guides = vector.ComputeSmartGuides(moved, anchors, vector.SnapOptions{SnapToEdges: true, SnapToCenters: true})
	}
	el.Frame = moved.ToDomain()
	s.markMutated(skipHistory)
	return guides, nil
}

// UpdateToolDefaults replaces the book's tool defaults.
func (s *Store) UpdateToolDefaults(d domain.ToolDefaults, skipHistory bool) {
	s.book.Settings.Tools = d
	s.markMutated(skipHistory)
}

// CreatePreviewPage inserts the single scratch page after afterIndex,
// seeded with a copy of that page's content, and returns the preview page
// index. If a preview page already exists the call is a no-op returning the
// existing index — the document invariant is at most one preview page.
func (s *Store) CreatePreviewPage(afterIndex int) (int, error) {
	if idx := s.book.PreviewPageIndex(); idx >= 0 {
		return idx, nil
	}
	src, err := s.Page(afterIndex)
	if err != nil {
		return -1, err
	}
	scratch := src.Clone()
	scratch.ID = "preview-" + uuid.NewString()
	scratch.IsPreview = true
	at := afterIndex + 1
	s.book.Pages = append(s.book.Pages, domain.Page{})
	copy(s.book.Pages[at+1:], s.book.Pages[at:])
	s.book.Pages[at] = scratch
	if s.active >= at {
		s.active++
	}
	s.log.Debug("preview page created", slog.Int("index", at))
	return at, nil
}

// DeletePreviewPage removes the scratch page if present and reports whether
// one was removed. The active page pointer is adjusted to stay in range.
func (s *Store) DeletePreviewPage() bool {
	idx := s.book.PreviewPageIndex()
	if idx < 0 {
		return false
	}
	s.book.Pages = append(s.book.Pages[:idx], s.book.Pages[idx+1:]...)
	if s.active > idx {
		s.active--
	}
	if s.active >= len(s.book.Pages) {
		s.active = len(s.book.Pages) - 1
	}
	if s.active < 0 {
		s.active = 0
	}
	s.log.Debug("preview page deleted", slog.Int("index", idx))
	return true
}
