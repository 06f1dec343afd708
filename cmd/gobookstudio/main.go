/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gobookstudio/internal/backend"
	"gobookstudio/internal/catalog"
	"gobookstudio/internal/config"
	"gobookstudio/internal/crash"
	"gobookstudio/internal/domain"
	"gobookstudio/internal/export"
	applog "gobookstudio/internal/log"
	"gobookstudio/internal/qa"
	"gobookstudio/internal/render"
	"gobookstudio/internal/storage"
	"gobookstudio/internal/textlayout"
	"gobookstudio/internal/ui"
	"gobookstudio/internal/version"
)

func usage() {
	fmt.Println("Go Book Studio")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gobookstudio version|-v|--version          Show version")
	fmt.Println("  gobookstudio init <dir> <title>            Create a new book project at <dir>")
	fmt.Println("  gobookstudio open <dir>                    Open project at <dir> and print summary")
	fmt.Println("  gobookstudio save <dir>                    Save project at <dir> (creates backup)")
	fmt.Println("  gobookstudio search <dir> <text>           Full-text search across the book")
	fmt.Println("  gobookstudio questions <dir>               Show question pool and placement status")
	fmt.Println("  gobookstudio export <dir> [pdf|png|zip]    Export the book (default pdf)")
	fmt.Println("  gobookstudio reindex <dir>                 Rebuild the search index from the manifest")
	fmt.Println("  gobookstudio answers <dir> <doc-path>      List indexed answers linked to a question element")
	fmt.Println("  gobookstudio pack export <dir> <zip>       Bundle the project's custom styles into a pack")
	fmt.Println("  gobookstudio pack install <dir> <zip>      Install a style pack into the project")
	fmt.Println("  gobookstudio login <subject>               Get a backend token and store it in the keyring")
	fmt.Println("  gobookstudio logout                        Remove the stored backend token")
	fmt.Println("  gobookstudio config                        Print the effective configuration")
	fmt.Println("  gobookstudio ui [<dir>]                    Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Book Studio")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <title>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			title := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init project", slog.String("root", abs), slog.String("title", title))
			b := domain.Book{
				Title:    title,
				Settings: domain.BookSettings{PageWidth: 595, PageHeight: 842, DPI: 300},
				Pages: []domain.Page{{
					ID:         "page-1",
					Background: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff"},
					Elements:   []domain.Element{},
				}},
			}
			h, err := storage.InitProject(abs, b)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created book project at", abs)
			return
		case "open":
			h := mustOpen(l, args)
			ph = h
			fmt.Printf("Opened book: %s\n", h.Book.Title)
			if h.Book.Metadata.Author != "" {
				fmt.Println("Author:", h.Book.Metadata.Author)
			}
			fmt.Printf("Pages: %d\n", len(h.Book.Pages))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			h := mustOpen(l, args)
			ph = h
			h.Book.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, h.Root, h.Book); err != nil {
				l.Warn("index update after save", slog.Any("err", err))
			}
			fmt.Println("Saved project and created a backup of previous manifest (if any).")
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <text>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args)
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Book); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			res, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: args[3], Limit: 50})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range res {
				page := "-"
				if r.PageID > 0 {
					page = fmt.Sprintf("%d", r.PageID)
				}
				sn := r.Snippet
				if sn == "" {
					sn = r.Path
				}
				fmt.Printf("p.%s  %-10s %s\n", page, r.Type, sn)
			}
			fmt.Printf("%d result(s)\n", len(res))
			return
		case "questions":
			h := mustOpen(l, args)
			ph = h
			txt, err := storage.ReadQuestionList(h)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			pool, errs := qa.Parse(txt)
			for _, e := range errs {
				fmt.Printf("warning: line %d: %s\n", e.Line, e.Message)
			}
			rep := qa.Assignments(pool, &h.Book)
			placed := map[string]qa.Placement{}
			for _, p := range rep.Placements {
				placed[p.QuestionID] = p
			}
			for _, c := range pool.Categories {
				fmt.Println("#", c.Title)
				for _, q := range c.Questions {
					state := "not placed"
					if p, ok := placed[q.ID]; ok {
						if p.Answered {
							state = "answered"
						} else {
							state = fmt.Sprintf("page %d, unanswered", p.PageIndex+1)
						}
					}
					fmt.Printf("  %-50s [%s]\n", q.Text, state)
				}
			}
			st := qa.Summarize(pool)
			fmt.Printf("%d questions in %d categories, %d unplaced\n", st.Questions, st.Categories, len(rep.Unplaced))
			return
		case "export":
			h := mustOpen(l, args)
			ph = h
			format := "pdf"
			if len(args) >= 4 {
				format = args[3]
			}
			ras := render.New(textlayout.BasicProvider{}, render.ProjectImageSource{Root: h.Root})
			b := h.Book.WithoutPreviewPages()
			err := export.BatchExport(&b, ras, h.Root, export.BatchOptions{
				Preset:  export.PresetPrint,
				Formats: []string{format},
				Images:  render.ProjectImageSource{Root: h.Root},
			})
			if err != nil {
				l.Error("export failed", slog.String("format", format), slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Exported %s under %s\n", format, filepath.Join(h.Root, "exports"))
			return
		case "reindex":
			h := mustOpen(l, args)
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()
			if err := storage.RebuildIndex(ctx, h.Root, h.Book); err != nil {
				l.Error("reindex failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Search index rebuilt.")
			return
		case "answers":
			if len(args) < 4 {
				fmt.Println("answers requires <dir> and <doc-path> (like \"page:1/element:q1\")")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args)
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Book); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			res, err := storage.AnswersForPath(ctx, h.Root, args[3], 50, 0)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range res {
				fmt.Printf("p.%d  %s\n", r.PageID, r.Path)
			}
			fmt.Printf("%d answer(s)\n", len(res))
			return
		case "pack":
			if len(args) < 5 {
				fmt.Println("pack requires export|install, <dir>, and <zip>")
				usage()
				os.Exit(2)
			}
			dir, _ := filepath.Abs(args[3])
			zipPath, _ := filepath.Abs(args[4])
			switch args[2] {
			case "export":
				if err := catalog.ExportStylePack(dir, zipPath); err != nil {
					l.Error("pack export failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Style pack written to", zipPath)
			case "install":
				n, err := catalog.InstallStylePack(dir, zipPath)
				if err != nil {
					l.Error("pack install failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Printf("Installed %d style file(s).\n", n)
			default:
				fmt.Println("pack requires export or install")
				os.Exit(2)
			}
			return
		case "login":
			if len(args) < 3 {
				fmt.Println("login requires <subject>")
				usage()
				os.Exit(2)
			}
			cfg, _, err := config.Load()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			c := backend.NewClient(cfg.Backend.BaseURL, "")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := c.Authenticate(ctx, args[2]); err != nil {
				l.Error("login failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := config.Save(cfg, c.Token); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Logged in against", cfg.Backend.BaseURL)
			return
		case "logout":
			if err := config.ClearToken(); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Token removed from keyring.")
			return
		case "config":
			cfg, tok, err := config.Load()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			path, _ := config.ConfigPath()
			fmt.Println("Config file:", path)
			fmt.Println("Backend URL:", cfg.Backend.BaseURL)
			fmt.Println("Backend enabled:", cfg.General.EnableBackend)
			fmt.Println("Shared book id:", cfg.Backend.SharedBookID)
			fmt.Printf("Preview: scale=%.2f quality=%d\n", cfg.Preview.Scale, cfg.Preview.Quality)
			fmt.Println("Logged in:", tok != "")
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// mustOpen opens the project named by args[2] or exits with a usage error.
func mustOpen(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 3 {
		fmt.Printf("%s requires <dir>\n", args[1])
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}
