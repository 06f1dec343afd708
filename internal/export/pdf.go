/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes books out as PDF, per-page PNG, and page archives.
// Preview pages are always skipped: exports cover the committed document.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jung-kurt/gofpdf"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
	"gobookstudio/internal/render"
)

// PDFOptions controls PDF export behavior. Units are points for a 1:1
// mapping from the model. Text uses built-in Helvetica so files stay
// portable without font embedding.
type PDFOptions struct {
	Pages  []int // zero-based page indexes; empty exports all pages
	Images render.ImageSource
}

// BaseName derives the export file stem from the book title.
func BaseName(b *domain.Book) string {
	s := slug.Make(b.Title)
	if s == "" {
		s = "book"
	}
	return s
}

// ExportBookPDF writes the whole book (or the selected pages) as one
// multi-page PDF at outPath. Photos that cannot be loaded are drawn as
// bordered placeholders.
func ExportBookPDF(b *domain.Book, outPath string, opt PDFOptions) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	w := b.Settings.PageWidth
	h := b.Settings.PageHeight
	if w <= 0 || h <= 0 {
		return fmt.Errorf("degenerate page size %gx%g", w, h)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	pdf.SetTitle(b.Title, true)
	if b.Metadata.Author != "" {
		pdf.SetAuthor(b.Metadata.Author, true)
	}
	pdf.SetFont("Helvetica", "", 12)

	pages := exportablePages(b, opt.Pages)
	for _, pidx := range pages {
		pg := &b.Pages[pidx]
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
		drawPDFBackground(pdf, pg.Background, w, h)
		for i := range pg.Elements {
			drawPDFElement(pdf, &pg.Elements[i], opt.Images)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// exportablePages resolves the page selection, always excluding the preview
// page.
func exportablePages(b *domain.Book, specific []int) []int {
	var out []int
	if len(specific) == 0 {
		for i := range b.Pages {
			if !b.Pages[i].IsPreview {
				out = append(out, i)
			}
		}
		return out
	}
	for _, i := range specific {
		if i >= 0 && i < len(b.Pages) && !b.Pages[i].IsPreview {
			out = append(out, i)
		}
	}
	return out
}

func drawPDFBackground(pdf *gofpdf.Fpdf, bg domain.Background, w, h float64) {
	if bg.Type != domain.BackgroundColor {
		return
	}
	c, err := catalog.ParseHexColor(bg.Value)
	if err != nil {
		return
	}
	setFillColor(pdf, c)
	pdf.Rect(0, 0, w, h, "F")
}

func drawPDFElement(pdf *gofpdf.Fpdf, el *domain.Element, images render.ImageSource) {
	r := el.Frame
	switch el.Kind {
	case domain.KindShape:
		style := ""
		if !el.Fill.IsZero() {
			setFillColor(pdf, el.Fill)
			style += "F"
		}
		if !el.Stroke.Color.IsZero() {
			setDrawColor(pdf, el.Stroke.Color)
			pdf.SetLineWidth(lineWidth(el.Stroke.Width))
			style += "D"
		}
		if style != "" {
			pdf.Rect(r.X, r.Y, r.Width, r.Height, style)
		}
	case domain.KindLine, domain.KindBrush:
		if len(el.Points) < 2 {
			return
		}
		setDrawColor(pdf, el.Stroke.Color)
		pdf.SetLineWidth(lineWidth(el.Stroke.Width))
		for i := 1; i < len(el.Points); i++ {
			pdf.Line(el.Points[i-1].X, el.Points[i-1].Y, el.Points[i].X, el.Points[i].Y)
		}
	case domain.KindImage:
		if !drawPDFImage(pdf, el, images) {
			// Placeholder keeps the layout readable in proofs.
			setFillColor(pdf, domain.Color{R: 238, G: 238, B: 238, A: 255})
			pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")
		}
		if !el.BorderColor.IsZero() {
			setDrawColor(pdf, el.BorderColor)
			pdf.SetLineWidth(1)
			pdf.Rect(r.X, r.Y, r.Width, r.Height, "D")
		}
	case domain.KindText, domain.KindQuestion, domain.KindAnswer:
		if !el.BackgroundColor.IsZero() {
			setFillColor(pdf, el.BackgroundColor)
			pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")
		}
		size := el.FontSize
		if size <= 0 {
			size = 12
		}
		col := el.FontColor
		if col.IsZero() {
			col = domain.Color{R: 33, G: 33, B: 33, A: 255}
		}
		pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
		pdf.SetFont("Helvetica", "", size)
		pdf.SetXY(r.X, r.Y)
		pdf.MultiCell(r.Width, size*1.3, el.Text, "", "L", false)
		if !el.BorderColor.IsZero() {
			setDrawColor(pdf, el.BorderColor)
			pdf.SetLineWidth(1)
			pdf.Rect(r.X, r.Y, r.Width, r.Height, "D")
		}
	}
}

// drawPDFImage embeds the photo when the source can load it; reports whether
// the image was placed.
func drawPDFImage(pdf *gofpdf.Fpdf, el *domain.Element, images render.ImageSource) bool {
	if images == nil || el.ImageRef == "" {
		return false
	}
	img, err := images.Load(el.ImageRef)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return false
	}
	name := "img-" + sanitizeImageName(el.ImageRef)
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	r := el.Frame
	pdf.ImageOptions(name, r.X, r.Y, r.Width, r.Height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return true
}

func sanitizeImageName(ref string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '-'
	}, ref)
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
