/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"gobookstudio/internal/domain"
	"gobookstudio/internal/render"
)

// PNGOptions controls PNG export behavior. A DPI override > 0 replaces the
// book's DPI for the output pixel size.
type PNGOptions struct {
	DPI   int
	Pages []int // zero-based page indexes; empty exports all pages
}

// ExportBookPNGPages rasterizes each selected page to a PNG file under
// outDir, named <title-slug>-page-<n>.png (1-based page numbers).
func ExportBookPNGPages(b *domain.Book, ras *render.Rasterizer, outDir string, opt PNGOptions) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if ras == nil {
		return fmt.Errorf("rasterizer is nil")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	dpi := b.Settings.DPI
	if opt.DPI > 0 {
		dpi = opt.DPI
	}
	if dpi <= 0 {
		dpi = 300
	}
	scale := float64(dpi) / 72.0
	base := BaseName(b)

	for _, pidx := range exportablePages(b, opt.Pages) {
		frame, err := ras.Render(b, pidx, scale)
		if err != nil {
			return fmt.Errorf("render page %d: %w", pidx+1, err)
		}
		name := filepath.Join(outDir, fmt.Sprintf("%s-page-%d.png", base, pidx+1))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, frame); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}
