//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gobookstudio/internal/backend"
	"gobookstudio/internal/catalog"
	"gobookstudio/internal/config"
	"gobookstudio/internal/crash"
	"gobookstudio/internal/domain"
	"gobookstudio/internal/editor"
	"gobookstudio/internal/export"
	applog "gobookstudio/internal/log"
	"gobookstudio/internal/qa"
	"gobookstudio/internal/render"
	"gobookstudio/internal/storage"
	"gobookstudio/internal/textlayout"
	"gobookstudio/internal/workflow"
)

const maxRecentProjects = 8

// Run starts the Fyne-based studio shell. An optional project directory is
// opened immediately.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	cfg, backendToken, err := config.Load()
	if err != nil {
		l.Warn("load config", slog.Any("err", err))
	}

	fyneApp := app.NewWithID("gobookstudio")
	w := fyneApp.NewWindow("Go Book Studio")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	// Editing session state. The store, catalog, rasterizer, and workflow
	// controller are rebuilt whenever a project is opened or created.
	var (
		store *editor.Store
		cat   *catalog.Catalog
		ras   *render.Rasterizer
		ctrl  *workflow.Controller
	)

	// Page view (center): the active page rendered through the rasterizer.
	pageImage := canvas.NewImageFromImage(nil)
	pageImage.FillMode = canvas.ImageFillContain
	pageImage.SetMinSize(fyne.NewSize(400, 560))

	renderActivePage := func() {
		if store == nil || ras == nil || store.PageCount() == 0 {
			pageImage.Image = nil
			pageImage.Refresh()
			return
		}
		idx := store.ActivePageIndex()
		img, err := ras.Render(store.Book(), idx, 0.75)
		if err != nil {
			l.Warn("page render failed", slog.Int("page", idx), slog.Any("err", err))
			return
		}
		pageImage.Image = img
		pageImage.Refresh()
	}

	// Page navigation (left). Preview scratch pages never appear here.
	pagesDisplay := []string{}
	pageIdxMap := []int{}
	pagesList := widget.NewList(
		func() int { return len(pagesDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(pagesDisplay) {
				o.(*widget.Label).SetText(pagesDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)

	var refreshElementsUI func()

	refreshPagesList := func() {
		pagesDisplay = pagesDisplay[:0]
		pageIdxMap = pageIdxMap[:0]
		if store == nil {
			pagesList.Refresh()
			return
		}
		b := store.Book()
		n := 0
		for i := range b.Pages {
			if b.Pages[i].IsPreview {
				continue
			}
			n++
			pagesDisplay = append(pagesDisplay, fmt.Sprintf("Page %d", n))
			pageIdxMap = append(pageIdxMap, i)
		}
		pagesList.Refresh()
		for vi, pi := range pageIdxMap {
			if pi == store.ActivePageIndex() {
				pagesList.Select(vi)
				break
			}
		}
	}
	pagesList.OnSelected = func(id widget.ListItemID) {
		if store == nil || id < 0 || int(id) >= len(pageIdxMap) {
			return
		}
		if err := store.SetActivePage(pageIdxMap[id]); err != nil {
			l.Warn("set active page", slog.Any("err", err))
			return
		}
		refreshElementsUI()
		renderActivePage()
	}

	btnAddPage := widget.NewButton("Add Page", func() {
		if store == nil {
			return
		}
		b := store.Book()
		b.Pages = append(b.Pages, domain.Page{
			ID:         fmt.Sprintf("page-%d", len(b.Pages)+1),
			Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
			Elements:   []domain.Element{},
		})
		_ = store.SetActivePage(len(b.Pages) - 1)
		store.SaveHistory(fmt.Sprintf("Add page %d", len(b.Pages)))
		refreshPagesList()
		refreshElementsUI()
		renderActivePage()
		status.SetText("Page added.")
	})
	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Pages"), widget.NewSeparator()),
		btnAddPage, nil, nil, pagesList)

	// Element inspector (right).
	elementDisplay := []string{}
	elementIdxMap := []int{}
	selectedElement := -1
	elementFilter := ""
	elementList := widget.NewList(
		func() int { return len(elementDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(elementDisplay[i]) },
	)
	elementHeader := widget.NewLabel("Elements")
	refreshElementsUI = func() {
		elementDisplay = elementDisplay[:0]
		elementIdxMap = elementIdxMap[:0]
		selectedElement = -1
		if store == nil || store.PageCount() == 0 {
			elementList.Refresh()
			elementHeader.SetText("Elements")
			return
		}
		pg, err := store.Page(store.ActivePageIndex())
		if err != nil {
			elementList.Refresh()
			return
		}
		for i := range pg.Elements {
			el := &pg.Elements[i]
			d := string(el.Kind)
			if s := strings.TrimSpace(el.Text); s != "" {
				if len(s) > 60 {
					cut := 60
					for cut > 0 && !utf8.RuneStart(s[cut]) {
						cut--
					}
					s = s[:cut] + "…"
				}
				d += ": " + s
			} else if el.ImageRef != "" {
				d += ": " + el.ImageRef
			}
			if ef := strings.ToLower(strings.TrimSpace(elementFilter)); ef != "" && !strings.Contains(strings.ToLower(d), ef) {
				continue
			}
			elementDisplay = append(elementDisplay, d)
			elementIdxMap = append(elementIdxMap, i)
		}
		elementList.Refresh()
		elementHeader.SetText(fmt.Sprintf("Elements (%d)", len(pg.Elements)))
	}
	elementList.OnSelected = func(id widget.ListItemID) {
		if id < 0 || int(id) >= len(elementIdxMap) {
			selectedElement = -1
			return
		}
		selectedElement = elementIdxMap[id]
	}
	elementFilterEntry := widget.NewEntry()
	elementFilterEntry.SetPlaceHolder("Filter elements…")
	elementFilterEntry.OnChanged = func(s string) {
		elementFilter = s
		refreshElementsUI()
	}
	btnSnapAlign := widget.NewButton("Snap to Guides", func() {
		if store == nil || selectedElement < 0 {
			return
		}
		idx := store.ActivePageIndex()
		pg, err := store.Page(idx)
		if err != nil || selectedElement >= len(pg.Elements) {
			return
		}
		el := &pg.Elements[selectedElement]
		guides, err := store.MoveElement(idx, el.ID, el.Frame.X, el.Frame.Y, true, false)
		if err != nil {
			l.Warn("snap element", slog.Any("err", err))
			return
		}
		if len(guides) == 0 {
			status.SetText("No guide within snapping range.")
			return
		}
		store.SaveHistory(fmt.Sprintf("Align %s", el.Kind))
		renderActivePage()
		status.SetText(fmt.Sprintf("Snapped to %d guide(s).", len(guides)))
	})

	// Styles panel (right): the try-before-commit selection cycle.
	styleKinds := []string{
		string(workflow.KindLayoutTemplate),
		string(workflow.KindTheme),
		string(workflow.KindColorPalette),
	}
	candidateIDs := []string{}
	candidateNames := []string{}
	candidateList := widget.NewList(
		func() int { return len(candidateNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(candidateNames[i]) },
	)
	sessionLabel := widget.NewLabel("No selection session")

	refreshCandidates := func(kind workflow.Kind) {
		candidateIDs = candidateIDs[:0]
		candidateNames = candidateNames[:0]
		if cat == nil {
			candidateList.Refresh()
			return
		}
		switch kind {
		case workflow.KindLayoutTemplate:
			for _, t := range cat.ListTemplates() {
				candidateIDs = append(candidateIDs, t.ID)
				candidateNames = append(candidateNames, t.Name)
			}
		case workflow.KindTheme:
			for _, t := range cat.ListThemes() {
				candidateIDs = append(candidateIDs, t.ID)
				candidateNames = append(candidateNames, t.Name)
			}
		case workflow.KindColorPalette:
			for _, p := range cat.ListPalettes() {
				candidateIDs = append(candidateIDs, p.ID)
				candidateNames = append(candidateNames, p.Name)
			}
		}
		candidateList.UnselectAll()
		candidateList.Refresh()
	}

	kindSelect := widget.NewSelect(styleKinds, nil)
	kindSelect.PlaceHolder = "Choose style kind"
	kindSelect.OnChanged = func(s string) {
		if ctrl == nil || s == "" {
			return
		}
		kind := workflow.Kind(s)
		if err := ctrl.Enter(kind); err != nil {
			dialog.ShowError(err, w)
			return
		}
		sessionLabel.SetText("Trying: " + s)
		refreshCandidates(kind)
	}
	candidateList.OnSelected = func(id widget.ListItemID) {
		if ctrl == nil || id < 0 || int(id) >= len(candidateIDs) {
			return
		}
		if err := ctrl.Select(candidateIDs[id]); err != nil {
			dialog.ShowError(err, w)
			return
		}
		renderActivePage()
		refreshElementsUI()
		status.SetText("Selected: " + candidateNames[id])
	}

	endSession := func() {
		kindSelect.ClearSelected()
		sessionLabel.SetText("No selection session")
		candidateIDs = candidateIDs[:0]
		candidateNames = candidateNames[:0]
		candidateList.Refresh()
		refreshPagesList()
		refreshElementsUI()
		renderActivePage()
	}

	btnPreview := widget.NewButton("Preview", func() {
		if ctrl == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		img, err := ctrl.Preview(ctx)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if img == nil {
			status.SetText("Preview applied (no image rendered).")
			return
		}
		pv := canvas.NewImageFromReader(bytes.NewReader(img), "preview.jpg")
		pv.FillMode = canvas.ImageFillContain
		pv.SetMinSize(fyne.NewSize(480, 640))
		dialog.ShowCustom("Preview", "Close", pv, w)
	})

	// commitWith surfaces the orphan warning for layout templates before the
	// commit removes content, then saves the manifest, the durable history
	// snapshot, and the search index.
	commitWith := func(scope workflow.Scope) {
		if ctrl == nil || ph == nil {
			return
		}
		doCommit := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			var err error
			if scope == workflow.ScopeBook {
				err = ctrl.CommitBook(ctx)
			} else {
				err = ctrl.CommitPage(ctx)
			}
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			ph.Book = *store.Book()
			if err := storage.Save(ph); err != nil {
				dialog.ShowError(err, w)
				return
			}
			if _, err := storage.SaveHistorySnapshot(ctx, ph, "Committed style selection", ph.Book, time.Now()); err != nil {
				l.Warn("persist history snapshot", slog.Any("err", err))
			}
			go func(root string, b domain.Book) {
				uctx, ucancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer ucancel()
				if err := storage.UpdateIndex(uctx, root, b); err != nil {
					l.Warn("index update after commit", slog.Any("err", err))
				}
			}(ph.Root, ph.Book.WithoutPreviewPages())
			endSession()
			status.SetText("Style committed and saved.")
		}
		rep := ctrl.CompatibilityReport()
		if rep.HasOrphans() {
			msg := fmt.Sprintf("This layout has no slot for %d element(s); they will be removed:\n", len(rep.Orphans))
			for _, o := range rep.Orphans {
				msg += fmt.Sprintf("  • page %d, %s %q\n", o.PageIndex+1, o.Kind, o.Snippet)
			}
			dialog.ShowConfirm("Content will be removed", msg, func(ok bool) {
				if ok {
					doCommit()
				}
			}, w)
			return
		}
		doCommit()
	}
	btnCommitPage := widget.NewButton("Apply to Page", func() { commitWith(workflow.ScopePage) })
	btnCommitBook := widget.NewButton("Apply to Book", func() { commitWith(workflow.ScopeBook) })
	btnCancel := widget.NewButton("Cancel", func() {
		if ctrl == nil {
			return
		}
		if err := ctrl.Cancel(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		endSession()
		status.SetText("Selection cancelled, document restored.")
	})

	stylesBox := container.NewVBox(
		widget.NewLabel("Styles"), kindSelect, sessionLabel,
		candidateList,
		container.NewHBox(btnPreview, btnCancel),
		container.NewHBox(btnCommitPage, btnCommitBook),
	)

	// Search (omnibox + results).
	searchItems := []string{}
	var searchResults []storage.SearchResult
	searchList := widget.NewList(
		func() int { return len(searchItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(searchItems[i]) },
	)
	navigateToResult := func(r storage.SearchResult) {
		if store == nil {
			return
		}
		// Paths look like "page:<n>/element:<id>"; book-level hits carry no
		// page component.
		page := r.PageID
		for _, part := range strings.Split(r.Path, "/") {
			if strings.HasPrefix(part, "page:") {
				if v, err := strconv.Atoi(strings.TrimPrefix(part, "page:")); err == nil {
					page = v
				}
			}
		}
		if page <= 0 || page > len(pageIdxMap) {
			return
		}
		if err := store.SetActivePage(pageIdxMap[page-1]); err != nil {
			return
		}
		refreshPagesList()
		refreshElementsUI()
		renderActivePage()
	}
	omniBox := widget.NewEntry()
	omniBox.SetPlaceHolder("Search book (Ctrl+K)…")
	runSearch := func(q string) {
		qq := strings.TrimSpace(q)
		if qq == "" || ph == nil {
			searchItems = searchItems[:0]
			searchResults = searchResults[:0]
			searchList.Refresh()
			return
		}
		status.SetText("Searching…")
		go func(root, text string) {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			res, err := storage.Search(ctx, root, storage.SearchQuery{Text: text, Limit: 200})
			fyne.Do(func() {
				if err != nil {
					l.Error("search failed", slog.Any("err", err))
					status.SetText("Search failed.")
					return
				}
				searchResults = res
				searchItems = searchItems[:0]
				for _, r := range res {
					page := "-"
					if r.PageID > 0 {
						page = strconv.Itoa(r.PageID)
					}
					sn := strings.TrimSpace(r.Snippet)
					if sn == "" {
						sn = r.Path
					}
					if len(sn) > 120 {
						sn = sn[:120] + "…"
					}
					searchItems = append(searchItems, fmt.Sprintf("p.%s — %s — %s", page, r.Type, sn))
				}
				searchList.Refresh()
				status.SetText(fmt.Sprintf("%d results", len(res)))
			})
		}(ph.Root, qq)
	}
	omniBox.OnSubmitted = func(s string) { runSearch(s) }
	searchList.OnSelected = func(id widget.ListItemID) {
		if id < 0 || int(id) >= len(searchResults) {
			return
		}
		navigateToResult(searchResults[id])
	}

	right := container.NewVBox(
		widget.NewLabel("Search Results"), searchList, widget.NewSeparator(),
		stylesBox, widget.NewSeparator(),
		elementHeader, elementFilterEntry, elementList, btnSnapAlign,
	)
	topBar := container.NewBorder(nil, nil, nil, nil, container.NewHBox(omniBox))
	canvasPane := container.NewBorder(topBar, nil, left, right, container.NewMax(pageImage))

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyK, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		w.Canvas().Focus(omniBox)
	})

	// Questions tab: the plain-text pool with a live outline and per-question
	// placement status.
	questionsEntry := widget.NewMultiLineEntry()
	questionsEntry.SetPlaceHolder("One question per line. Group with \"# Category\" headers; tag with @tags; indent continuation lines with two spaces.")
	outlineData := []string{}
	outlineList := widget.NewList(
		func() int { return len(outlineData) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(outlineData[i]) },
	)
	questionsErr := widget.NewLabel("")
	questionsErr.Wrapping = fyne.TextWrapWord

	updateQuestionOutline := func(txt string) {
		pool, errs := qa.Parse(txt)
		var rep qa.AssignmentReport
		if store != nil {
			rep = qa.Assignments(pool, *store.Book())
		}
		placed := map[string]qa.Placement{}
		for _, p := range rep.Placements {
			placed[p.QuestionID] = p
		}
		outlineData = outlineData[:0]
		for _, c := range pool.Categories {
			outlineData = append(outlineData, "Category: "+c.Title)
			for _, q := range c.Questions {
				line := "  " + q.Text
				if p, ok := placed[q.ID]; ok {
					if p.Answered {
						line += "  ✓ answered"
					} else {
						line += fmt.Sprintf("  (page %d, unanswered)", p.PageIndex+1)
					}
				} else {
					line += "  — not placed"
				}
				outlineData = append(outlineData, line)
			}
		}
		outlineList.Refresh()
		if len(errs) > 0 {
			questionsErr.SetText(fmt.Sprintf("line %d: %s", errs[0].Line, errs[0].Message))
		} else {
			questionsErr.SetText("")
		}
		st := qa.Summarize(pool)
		status.SetText(fmt.Sprintf("Question pool: %d questions in %d categories", st.Questions, st.Categories))
	}
	questionsEntry.OnChanged = func(s string) { updateQuestionOutline(s) }

	questionsSplit := container.NewHSplit(questionsEntry,
		container.NewBorder(widget.NewLabel("Pool Outline"), nil, nil, nil, outlineList))
	questionsSplit.Offset = 0.6
	questionsPane := container.NewBorder(nil, questionsErr, nil, nil, questionsSplit)

	// History tab: the in-session ledger with jump-to restore.
	historyData := []string{}
	selectedHistory := -1
	historyList := widget.NewList(
		func() int { return len(historyData) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(historyData[i]) },
	)
	historyList.OnSelected = func(id widget.ListItemID) { selectedHistory = int(id) }
	refreshHistory := func() {
		historyData = historyData[:0]
		if store != nil {
			for i, lbl := range store.History().Labels() {
				marker := "  "
				if i == store.History().Index() {
					marker = "▶ "
				}
				historyData = append(historyData, fmt.Sprintf("%s%d. %s", marker, i+1, lbl))
			}
		}
		selectedHistory = -1
		historyList.Refresh()
	}
	btnJump := widget.NewButton("Restore Selected", func() {
		if store == nil || selectedHistory < 0 || selectedHistory >= store.History().Len() {
			return
		}
		if ctrl != nil && ctrl.State() != workflow.StateIdle {
			dialog.ShowInformation("History", "Finish or cancel the style selection first.", w)
			return
		}
		if err := store.GoToHistory(selectedHistory); err != nil {
			dialog.ShowError(err, w)
			return
		}
		refreshHistory()
		refreshPagesList()
		refreshElementsUI()
		renderActivePage()
		status.SetText("Restored history snapshot.")
	})
	historyPane := container.NewBorder(widget.NewLabel("History"), btnJump, nil, nil, historyList)

	tabs := container.NewAppTabs(
		container.NewTabItem("Pages", canvasPane),
		container.NewTabItem("Questions", questionsPane),
		container.NewTabItem("History", historyPane),
	)
	tabs.OnSelected = func(ti *container.TabItem) {
		if ti.Text == "History" {
			refreshHistory()
		}
	}
	editorContent := container.NewBorder(nil, status, nil, nil, tabs)
	root := container.NewMax(editorContent)
	w.SetContent(root)

	var showEditor func()
	var showDashboard func()

	// bindProject rebuilds the editing session around a freshly opened
	// handle.
	bindProject := func(h *storage.ProjectHandle) {
		ph = h
		store = editor.NewStore(h.Book)
		cat = catalog.Builtin()
		if n, err := catalog.LoadCustomStyles(cat, filepath.Join(h.Root, "styles")); err != nil {
			l.Warn("load custom styles", slog.Any("err", err))
		} else if n > 0 {
			l.Info("custom styles loaded", slog.Int("count", n))
		}
		ras = render.New(textlayout.BasicProvider{}, render.ProjectImageSource{Root: h.Root})
		var persister workflow.Persister
		if cfg.General.EnableBackend && cfg.Backend.SharedBookID > 0 {
			bc := backend.NewClient(cfg.Backend.BaseURL, backendToken)
			bc.BookID = cfg.Backend.SharedBookID
			persister = bc
			l.Info("backend commit persistence enabled",
				slog.String("base_url", cfg.Backend.BaseURL),
				slog.Int64("book_id", cfg.Backend.SharedBookID))
		}
		ctrl = workflow.New(store, cat, ras, persister, workflow.Options{
			PreviewScale:   cfg.Preview.Scale,
			PreviewQuality: cfg.Preview.Quality,
		})
		store.SaveHistory("Opened " + h.Book.Title)

		go func(rootDir string, b domain.Book) {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if rebuilt, err := storage.DetectAndRebuildIndex(ctx, rootDir, b); err != nil {
				l.Warn("index health check", slog.Any("err", err))
			} else if rebuilt {
				l.Info("search index rebuilt")
			}
			if err := storage.BuildIndexIfEmpty(ctx, rootDir, b); err != nil {
				l.Warn("initial index build", slog.Any("err", err))
			}
		}(h.Root, h.Book)

		if txt, err := storage.ReadQuestionList(h); err == nil {
			questionsEntry.SetText(txt)
			updateQuestionOutline(txt)
		} else {
			l.Error("read question list", slog.Any("err", err))
		}
		w.SetTitle("Go Book Studio — " + h.Book.Title)
		endSession()
		refreshHistory()
	}

	var closeProjItem *fyne.MenuItem
	newItem := fyne.NewMenuItem("New…", func() {
		l.Info("menu: new project")
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				l.Error("new dialog error", slog.Any("err", err))
				return
			}
			if uri == nil {
				return
			}
			abs := uri.Path()
			titleEntry := widget.NewEntry()
			titleEntry.SetPlaceHolder("Book Title")
			authorEntry := widget.NewEntry()
			authorEntry.SetPlaceHolder("Author")
			form := dialog.NewForm("New Book", "Create", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Title", titleEntry),
				widget.NewFormItem("Author", authorEntry),
			}, func(ok bool) {
				if !ok {
					return
				}
				title := strings.TrimSpace(titleEntry.Text)
				if title == "" {
					dialog.ShowInformation("New Book", "Please enter a book title.", w)
					return
				}
				b := domain.Book{
					Title:    title,
					Metadata: domain.Metadata{Author: strings.TrimSpace(authorEntry.Text)},
					Settings: domain.BookSettings{PageWidth: 595, PageHeight: 842, DPI: 300},
					Pages: []domain.Page{{
						ID:         "page-1",
						Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
						Elements:   []domain.Element{},
					}},
				}
				h, ierr := storage.InitProject(abs, b)
				if ierr != nil {
					l.Error("init project failed", slog.Any("err", ierr))
					dialog.ShowError(ierr, w)
					return
				}
				bindProject(h)
				closeProjItem.Disabled = false
				addRecentProject(prefs, abs)
				status.SetText("Created book project: " + abs)
				showEditor()
			}, w)
			form.Show()
		}, w)
		fd.Show()
	})

	openAt := func(abs string) {
		h, err := storage.Open(abs)
		if err != nil {
			l.Error("open project failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		bindProject(h)
		closeProjItem.Disabled = false
		addRecentProject(prefs, abs)
		status.SetText("Opened: " + h.Book.Title)
		showEditor()
	}

	openItem := fyne.NewMenuItem("Open…", func() {
		l.Info("menu: open project")
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				l.Error("open dialog error", slog.Any("err", err))
				return
			}
			if uri == nil {
				return
			}
			openAt(uri.Path())
		}, w)
		fd.Show()
	})

	saveItem := fyne.NewMenuItem("Save", func() {
		l.Info("menu: save")
		if ph == nil || store == nil {
			dialog.ShowInformation("Save", "No project open.", w)
			return
		}
		ph.Book = *store.Book()
		if err := storage.Save(ph); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		if err := storage.WriteQuestionList(ph, questionsEntry.Text); err != nil {
			l.Error("save question list failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		store.MarkClean()
		go func(rootDir string, b domain.Book) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, rootDir, b); err != nil {
				l.Warn("index update after save", slog.Any("err", err))
			}
		}(ph.Root, ph.Book.WithoutPreviewPages())
		status.SetText("Saved project (manifest + questions).")
	})

	exportWith := func(format string) {
		if ph == nil || store == nil {
			dialog.ShowInformation("Export", "No project open.", w)
			return
		}
		if ctrl != nil && ctrl.State() != workflow.StateIdle {
			dialog.ShowInformation("Export", "Finish or cancel the style selection first.", w)
			return
		}
		b := store.Book().WithoutPreviewPages()
		rootDir := ph.Root
		status.SetText("Exporting " + format + "…")
		go func() {
			err := export.BatchExport(&b, ras, rootDir, export.BatchOptions{
				Preset:  export.PresetPrint,
				Formats: []string{format},
				Images:  render.ProjectImageSource{Root: rootDir},
			})
			fyne.Do(func() {
				if err != nil {
					l.Error("export failed", slog.String("format", format), slog.Any("err", err))
					dialog.ShowError(err, w)
					return
				}
				status.SetText("Exported " + format + " to the exports folder.")
			})
		}()
	}
	exportPDFItem := fyne.NewMenuItem("Export PDF", func() { exportWith("pdf") })
	exportPNGItem := fyne.NewMenuItem("Export PNG Pages", func() { exportWith("png") })
	exportZipItem := fyne.NewMenuItem("Export Archive (ZIP)", func() { exportWith("zip") })

	closeProjItem = fyne.NewMenuItem("Close Project", func() {
		if ph == nil {
			return
		}
		l.Info("menu: close project")
		ph = nil
		store = nil
		ctrl = nil
		ras = nil
		cat = nil
		w.SetTitle("Go Book Studio")
		questionsEntry.SetText("")
		updateQuestionOutline("")
		endSession()
		refreshHistory()
		closeProjItem.Disabled = true
		status.SetText("Project closed.")
		showDashboard()
	})
	closeProjItem.Disabled = true

	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	closeProjItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}

	showEditor = func() {
		root.Objects = []fyne.CanvasObject{editorContent}
		root.Refresh()
		refreshPagesList()
		refreshElementsUI()
		renderActivePage()
	}

	buildDashboard := func() fyne.CanvasObject {
		title := widget.NewLabel("Book Studio Dashboard")
		title.TextStyle = fyne.TextStyle{Bold: true}
		newBtn := widget.NewButton("New Book…", func() { newItem.Action() })
		openBtn := widget.NewButton("Open Book…", func() { openItem.Action() })

		recent := loadRecentProjects(prefs)
		recList := widget.NewList(
			func() int { return len(recent) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) {
				if i >= 0 && int(i) < len(recent) {
					o.(*widget.Label).SetText(recent[i])
				} else {
					o.(*widget.Label).SetText("")
				}
			},
		)
		recList.OnSelected = func(id widget.ListItemID) {
			if id < 0 || int(id) >= len(recent) {
				return
			}
			openAt(recent[id])
		}
		return container.NewBorder(
			container.NewVBox(title, widget.NewSeparator(), container.NewHBox(newBtn, openBtn)),
			nil, nil, nil,
			container.NewBorder(widget.NewLabel("Recent Books"), nil, nil, nil, recList),
		)
	}
	var dashboard fyne.CanvasObject
	showDashboard = func() {
		if dashboard == nil {
			dashboard = buildDashboard()
		}
		root.Objects = []fyne.CanvasObject{dashboard}
		root.Refresh()
	}

	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem,
		fyne.NewMenuItemSeparator(),
		exportPDFItem, exportPNGItem, exportZipItem,
		fyne.NewMenuItemSeparator(), closeProjItem)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if strings.TrimSpace(projectDir) != "" {
		openAt(projectDir)
	} else {
		showDashboard()
	}

	w.ShowAndRun()
	return nil
}

func loadRecentProjects(prefs fyne.Preferences) []string {
	raw := prefs.StringWithFallback("recent.projects", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func addRecentProject(prefs fyne.Preferences, path string) {
	list := []string{path}
	for _, p := range loadRecentProjects(prefs) {
		if p != path && len(list) < maxRecentProjects {
			list = append(list, p)
		}
	}
	prefs.SetString("recent.projects", strings.Join(list, "\n"))
}
