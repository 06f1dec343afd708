/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gobookstudio/internal/domain"
	"gobookstudio/internal/render"
)

// ArchiveOptions controls the page-archive export.
type ArchiveOptions struct {
	DPI   int
	Pages []int
}

// archiveInfo is the book-info.json manifest placed next to the page images
// so readers and the backend can identify the archive without rendering it.
type archiveInfo struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Subtitle  string `json:"subtitle,omitempty"`
	PageCount int    `json:"pageCount"`
}

// ExportBookArchive rasterizes the selected pages and packages them as a ZIP
// archive of zero-padded PNGs plus a book-info.json manifest.
func ExportBookArchive(b *domain.Book, ras *render.Rasterizer, outPath string, opt ArchiveOptions) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if ras == nil {
		return fmt.Errorf("rasterizer is nil")
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() { _ = f.Close() }()
	zw := zip.NewWriter(f)

	dpi := b.Settings.DPI
	if opt.DPI > 0 {
		dpi = opt.DPI
	}
	if dpi <= 0 {
		dpi = 150
	}
	scale := float64(dpi) / 72.0

	pages := exportablePages(b, opt.Pages)
	pad := 1
	for n := len(pages); n >= 10; n /= 10 {
		pad++
	}

	var imgBuf bytes.Buffer
	for i, pidx := range pages {
		frame, err := ras.Render(b, pidx, scale)
		if err != nil {
			return fmt.Errorf("render page %d: %w", pidx+1, err)
		}
		imgBuf.Reset()
		if err := png.Encode(&imgBuf, frame); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		if err := addZipFile(zw, fmt.Sprintf("%0*d.png", pad, i+1), imgBuf.Bytes()); err != nil {
			return fmt.Errorf("zip add image: %w", err)
		}
	}

	info, err := json.MarshalIndent(archiveInfo{
		Title:     b.Title,
		Author:    b.Metadata.Author,
		Subtitle:  b.Metadata.Subtitle,
		PageCount: len(pages),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if err := addZipFile(zw, "book-info.json", info); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
