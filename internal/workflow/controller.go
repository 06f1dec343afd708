/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package workflow drives the try-before-commit selection cycle for layout
// templates, themes, and color palettes.
//
// A selection session moves Idle → BaselineCaptured → Previewing and ends in
// a commit or a cancel, both of which return to Idle. The baseline history
// snapshot taken on Enter is the rollback anchor: every mutation between
// Enter and Commit goes through the store with skipHistory=true, so Cancel
// is a single exact jump back to the baseline, and Commit re-applies the
// selection permanently on top of the restored baseline so the ledger gains
// exactly one entry per committed choice.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
	"gobookstudio/internal/editor"
	applog "gobookstudio/internal/log"
)

// Kind names what is being tried out. The values double as the human words
// used in history labels.
type Kind string

const (
	KindLayoutTemplate Kind = "Layout Template"
	KindTheme          Kind = "Theme"
	KindColorPalette   Kind = "Color Palette"
)

// Scope says whether a commit applies to the current page or the whole book.
type Scope string

const (
	ScopePage Scope = "page"
	ScopeBook Scope = "book"
)

// State is the controller's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateBaselineCaptured
	StatePreviewing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBaselineCaptured:
		return "baseline-captured"
	case StatePreviewing:
		return "previewing"
	}
	return "unknown"
}

var (
	// ErrNotEntered is returned when Select/Preview/Commit/Cancel run
	// without an active selection session.
	ErrNotEntered = errors.New("no selection session active")
	// ErrSelectionActive is returned when Enter is called for a different
	// kind while a session is already running.
	ErrSelectionActive = errors.New("another selection session is active")
	// ErrNoSelection is returned when Preview or Commit run before any
	// candidate was selected.
	ErrNoSelection = errors.New("no candidate selected")
	// ErrUnknownSelection is returned for candidate ids missing from the
	// catalog.
	ErrUnknownSelection = errors.New("unknown selection id")
)

// Renderer rasterizes one page to an encoded preview image. RenderPage is
// synchronous: when it returns, the bytes are the committed frame for the
// page as it currently stands. Scale is a 0..1 size factor, quality the JPEG
// quality.
type Renderer interface {
	RenderPage(book *domain.Book, pageIndex int, scale float64, quality int) ([]byte, error)
}

// CommitRecord describes a committed selection for downstream persistence.
type CommitRecord struct {
	Scope       Scope
	Kind        Kind
	SelectionID string
	Label       string
}

// Persister pushes committed selections to the collaboration backend.
type Persister interface {
	PersistCommit(ctx context.Context, rec CommitRecord) error
}

// Options tunes the preview rasterization.
type Options struct {
	PreviewScale   float64 // 0..1, default 0.5
	PreviewQuality int     // JPEG quality, default 60
}

func (o Options) withDefaults() Options {
	if o.PreviewScale <= 0 || o.PreviewScale > 1 {
		o.PreviewScale = 0.5
	}
	if o.PreviewQuality <= 0 || o.PreviewQuality > 100 {
		o.PreviewQuality = 60
	}
	return o
}

// Controller runs one selection session at a time over a store. It is not
// safe for concurrent use; the UI drives it from its event loop.
type Controller struct {
	store     *editor.Store
	cat       *catalog.Catalog
	renderer  Renderer
	persister Persister
	opts      Options
	log       *slog.Logger

	state         State
	kind          Kind
	selectionID   string
	baselineIndex int
	originalPage  int
	basePage      domain.Page
	previewIndex  int
	previewImage  []byte
	report        editor.ApplyReport
}

// New creates a controller. Renderer and persister may be nil: without a
// renderer previews produce no image, without a persister commits stay local.
func New(store *editor.Store, cat *catalog.Catalog, renderer Renderer, persister Persister, opts Options) *Controller {
	return &Controller{
		store:        store,
		cat:          cat,
		renderer:     renderer,
		persister:    persister,
		opts:         opts.withDefaults(),
		log:          applog.WithComponent("workflow"),
		previewIndex: -1,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// SelectionID returns the currently selected candidate id, empty when none.
func (c *Controller) SelectionID() string { return c.selectionID }

// PreviewImage returns the latest rendered preview, nil when rendering
// failed or never ran.
func (c *Controller) PreviewImage() []byte { return c.previewImage }

// CompatibilityReport returns the layout compatibility report for the
// current candidate. Zero-valued for theme and palette sessions.
func (c *Controller) CompatibilityReport() editor.ApplyReport { return c.report }

// Enter starts a selection session of the given kind: it captures the
// baseline snapshot and remembers the page the user is on. Calling Enter
// again for the same kind is a no-op; for a different kind it fails.
func (c *Controller) Enter(kind Kind) error {
	if c.state != StateIdle {
		if c.kind == kind {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrSelectionActive, c.kind)
	}
	c.kind = kind
	c.originalPage = c.store.ActivePageIndex()
	pg, err := c.store.Page(c.originalPage)
	if err != nil {
		return err
	}
	c.basePage = pg.Clone()
	c.baselineIndex = c.store.SaveHistory(fmt.Sprintf("Before %s selection", kind))
	c.state = StateBaselineCaptured
	c.log.Debug("selection session started",
		slog.String("kind", string(kind)),
		slog.Int("baseline", c.baselineIndex),
		slog.Int("page", c.originalPage))
	return nil
}

// Select tries a candidate on the current page without touching history.
// Re-selecting the current candidate is a no-op. Selecting a different
// candidate first restores the page to its Enter-time content, so the new
// candidate's effects replace — never stack on — the previous one's.
func (c *Controller) Select(id string) error {
	if c.state == StateIdle {
		return ErrNotEntered
	}
	if id == c.selectionID {
		return nil
	}
	if err := c.resolve(id); err != nil {
		return err
	}
	if err := c.resetPageFromBase(c.originalPage); err != nil {
		return err
	}
	c.selectionID = id
	c.report = editor.ApplyReport{}
	if c.kind == KindLayoutTemplate {
		pg, err := c.store.Page(c.originalPage)
		if err != nil {
			return err
		}
		tpl, _ := c.cat.Template(id)
		c.report = editor.CheckLayoutCompatibility(tpl, pg, c.originalPage)
	}
	if err := c.applyToPage(c.originalPage, true); err != nil {
		return err
	}
	if c.state == StatePreviewing && c.previewIndex >= 0 {
		if err := c.refreshPreviewPage(); err != nil {
			return err
		}
		c.renderPreview()
	}
	c.log.Debug("candidate selected", slog.String("kind", string(c.kind)), slog.String("id", id))
	return nil
}

// Preview creates the scratch page after the original page (first call
// only), applies the selection to it, points the active page at it, and
// rasterizes it at reduced scale. Render failures leave the image nil and
// never fail the call; the user can still commit.
func (c *Controller) Preview(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.state == StateIdle {
		return nil, ErrNotEntered
	}
	if c.selectionID == "" {
		return nil, ErrNoSelection
	}
	if c.previewIndex < 0 {
		idx, err := c.store.CreatePreviewPage(c.originalPage)
		if err != nil {
			return nil, err
		}
		c.previewIndex = idx
	}
	if err := c.refreshPreviewPage(); err != nil {
		return nil, err
	}
	if err := c.store.SetActivePage(c.previewIndex); err != nil {
		return nil, err
	}
	c.state = StatePreviewing
	c.renderPreview()
	return c.previewImage, nil
}

// RefreshPreview re-renders the existing preview page without re-applying
// the selection.
func (c *Controller) RefreshPreview() ([]byte, error) {
	if c.state != StatePreviewing || c.previewIndex < 0 {
		return nil, ErrNotEntered
	}
	c.renderPreview()
	return c.previewImage, nil
}

// CommitPage commits the selection to the original page only.
func (c *Controller) CommitPage(ctx context.Context) error {
	return c.commit(ctx, ScopePage)
}

// CommitBook commits the selection to every page and the book settings.
func (c *Controller) CommitBook(ctx context.Context) error {
	return c.commit(ctx, ScopeBook)
}

// commit tears down the preview, restores the baseline, re-applies the
// selection permanently, records the preset id, and appends exactly one
// history snapshot. The selection is deliberately re-applied on top of the
// restored baseline rather than promoted from the scratch state.
func (c *Controller) commit(ctx context.Context, scope Scope) error {
	if c.state == StateIdle {
		return ErrNotEntered
	}
	if c.selectionID == "" {
		return ErrNoSelection
	}
	c.store.DeletePreviewPage()
	if err := c.store.GoToHistory(c.baselineIndex); err != nil {
		return fmt.Errorf("restore baseline: %w", err)
	}
	if err := c.store.SetActivePage(c.originalPage); err != nil {
		return fmt.Errorf("restore active page: %w", err)
	}

	var err error
	if scope == ScopeBook {
		err = c.applyToBook()
	} else {
		err = c.applyToPage(c.originalPage, false)
		if err == nil {
			err = c.recordPagePreset()
		}
	}
	if err != nil {
		return fmt.Errorf("apply %s to %s: %w", c.kind, scope, err)
	}

	var label string
	if scope == ScopeBook {
		label = fmt.Sprintf("Apply Book %s: %s", c.kind, c.selectionID)
	} else {
		label = fmt.Sprintf("Apply Page %s: %s", c.kind, c.selectionID)
	}
	c.store.SaveHistory(label)
	rec := CommitRecord{Scope: scope, Kind: c.kind, SelectionID: c.selectionID, Label: label}
	c.log.Info("selection committed",
		slog.String("kind", string(c.kind)),
		slog.String("id", c.selectionID),
		slog.String("scope", string(scope)))
	c.reset()

	if c.persister != nil {
		if err := c.persister.PersistCommit(ctx, rec); err != nil {
			return fmt.Errorf("persist commit: %w", err)
		}
	}
	return nil
}

// Cancel tears down the preview and jumps back to the baseline snapshot.
// The restored document is structurally identical to the state at Enter.
func (c *Controller) Cancel() error {
	if c.state == StateIdle {
		return ErrNotEntered
	}
	c.store.DeletePreviewPage()
	if err := c.store.GoToHistory(c.baselineIndex); err != nil {
		return fmt.Errorf("rollback to baseline: %w", err)
	}
	if err := c.store.SetActivePage(c.originalPage); err != nil {
		return fmt.Errorf("restore active page: %w", err)
	}
	c.log.Debug("selection cancelled", slog.String("kind", string(c.kind)))
	c.reset()
	return nil
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.kind = ""
	c.selectionID = ""
	c.baselineIndex = 0
	c.originalPage = 0
	c.basePage = domain.Page{}
	c.previewIndex = -1
	c.previewImage = nil
	c.report = editor.ApplyReport{}
}

func (c *Controller) resolve(id string) error {
	var ok bool
	switch c.kind {
	case KindLayoutTemplate:
		_, ok = c.cat.Template(id)
	case KindTheme:
		_, ok = c.cat.Theme(id)
	case KindColorPalette:
		_, ok = c.cat.Palette(id)
	}
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownSelection, c.kind, id)
	}
	return nil
}

// resetPageFromBase restores the page at index to the Enter-time content,
// keeping the page's own identity fields intact.
func (c *Controller) resetPageFromBase(index int) error {
	pg, err := c.store.Page(index)
	if err != nil {
		return err
	}
	fresh := c.basePage.Clone()
	fresh.ID = pg.ID
	fresh.IsPreview = pg.IsPreview
	*pg = fresh
	return nil
}

func (c *Controller) refreshPreviewPage() error {
	if err := c.resetPageFromBase(c.previewIndex); err != nil {
		return err
	}
	return c.applyToPage(c.previewIndex, true)
}

func (c *Controller) applyToPage(index int, skipHistory bool) error {
	switch c.kind {
	case KindLayoutTemplate:
		tpl, _ := c.cat.Template(c.selectionID)
		_, err := c.store.ApplyLayoutTemplate(tpl, editor.PageTarget(index), skipHistory)
		return err
	case KindTheme:
		th, _ := c.cat.Theme(c.selectionID)
		return c.store.ApplyThemeToElements(index, th, skipHistory)
	case KindColorPalette:
		p, _ := c.cat.Palette(c.selectionID)
		return c.store.ApplyColorPalette(p, editor.PageTarget(index), skipHistory)
	}
	return fmt.Errorf("unhandled selection kind %q", c.kind)
}

func (c *Controller) applyToBook() error {
	switch c.kind {
	case KindLayoutTemplate:
		tpl, _ := c.cat.Template(c.selectionID)
		_, err := c.store.ApplyLayoutTemplate(tpl, editor.BookTarget(), false)
		return err
	case KindTheme:
		th, _ := c.cat.Theme(c.selectionID)
		for i := 0; i < c.store.PageCount(); i++ {
			if err := c.store.ApplyThemeToElements(i, th, false); err != nil {
				return err
			}
			if err := c.store.SetPageTheme(i, c.selectionID, false); err != nil {
				return err
			}
		}
		c.store.SetBookTheme(c.selectionID, false)
		return nil
	case KindColorPalette:
		p, _ := c.cat.Palette(c.selectionID)
		if err := c.store.ApplyColorPalette(p, editor.BookTarget(), false); err != nil {
			return err
		}
		// A book commit stamps every page, same as the layout path does, so
		// each page reports the committed palette without an inheritance
		// lookup.
		for i := 0; i < c.store.PageCount(); i++ {
			if err := c.store.SetPageColorPalette(i, c.selectionID, false); err != nil {
				return err
			}
		}
		c.store.SetBookColorPalette(c.selectionID, false)
		return nil
	}
	return fmt.Errorf("unhandled selection kind %q", c.kind)
}

func (c *Controller) recordPagePreset() error {
	switch c.kind {
	case KindLayoutTemplate:
		// ApplyLayoutTemplate already records the template id on the page.
		return nil
	case KindTheme:
		return c.store.SetPageTheme(c.originalPage, c.selectionID, false)
	case KindColorPalette:
		return c.store.SetPageColorPalette(c.originalPage, c.selectionID, false)
	}
	return nil
}

// renderPreview rasterizes the preview page. Failures are logged and leave
// the image nil; preview rendering must never block a commit.
func (c *Controller) renderPreview() {
	c.previewImage = nil
	if c.renderer == nil || c.previewIndex < 0 {
		return
	}
	img, err := c.renderer.RenderPage(c.store.Book(), c.previewIndex, c.opts.PreviewScale, c.opts.PreviewQuality)
	if err != nil {
		c.log.Warn("preview render failed", slog.Any("err", err))
		return
	}
	c.previewImage = img
}
