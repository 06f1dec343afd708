/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render rasterizes book pages: page background, shapes, lines,
// brush strokes, placed photos, and text. One rasterizer serves both the
// full-resolution export path and the reduced-scale preview path.
//
// Individual image failures degrade to a placeholder and never fail the
// page; a render must always produce a frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
	applog "gobookstudio/internal/log"
	"gobookstudio/internal/textlayout"
)

// Rasterizer draws pages into RGBA frames. Safe for sequential reuse; not
// safe for concurrent renders because font faces are stateful.
type Rasterizer struct {
	fonts  textlayout.Provider
	images ImageSource
	log    *slog.Logger
}

// New creates a rasterizer. A nil fonts provider falls back to the
// deterministic basic face; a nil image source turns every photo into a
// placeholder.
func New(fonts textlayout.Provider, images ImageSource) *Rasterizer {
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	return &Rasterizer{fonts: fonts, images: images, log: applog.WithComponent("render")}
}

// Render rasterizes the page at pxPerUnit pixels per page unit (page units
// are points; full resolution is DPI/72).
func (r *Rasterizer) Render(book *domain.Book, pageIndex int, pxPerUnit float64) (*image.RGBA, error) {
	if pageIndex < 0 || pageIndex >= len(book.Pages) {
		return nil, fmt.Errorf("render: page index %d out of range (have %d)", pageIndex, len(book.Pages))
	}
	if pxPerUnit <= 0 {
		pxPerUnit = 1
	}
	pg := &book.Pages[pageIndex]
	w := int(math.Round(book.Settings.PageWidth * pxPerUnit))
	h := int(math.Round(book.Settings.PageHeight * pxPerUnit))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: degenerate page size %dx%d", w, h)
	}
	frame := image.NewRGBA(image.Rect(0, 0, w, h))

	r.drawBackground(frame, pg.Background)
	for i := range pg.Elements {
		r.drawElement(frame, &pg.Elements[i], pxPerUnit)
	}
	return frame, nil
}

func (r *Rasterizer) drawBackground(dst *image.RGBA, bg domain.Background) {
	fill := color.RGBA{255, 255, 255, 255}
	switch bg.Type {
	case domain.BackgroundColor:
		if c, err := catalog.ParseHexColor(bg.Value); err == nil {
			fill = rgba(c)
		}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	case domain.BackgroundPattern:
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		r.drawPattern(dst, bg.Value)
	case domain.BackgroundImage:
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		img, err := r.loadImage(bg.Value)
		if err != nil {
			r.log.Warn("background image unavailable", slog.String("ref", bg.Value), slog.Any("err", err))
			return
		}
		b := dst.Bounds()
		fitted := imaging.Fill(img, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(dst, b, fitted, image.Point{}, draw.Over)
	default:
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}
}

// drawPattern renders a light dot grid; the pattern name only selects the
// spacing for now.
func (r *Rasterizer) drawPattern(dst *image.RGBA, name string) {
	step := 24
	if name == "kraft" {
		step = 16
	}
	dot := color.RGBA{0, 0, 0, 24}
	b := dst.Bounds()
	for y := b.Min.Y + step/2; y < b.Max.Y; y += step {
		for x := b.Min.X + step/2; x < b.Max.X; x += step {
			dst.Set(x, y, dot)
		}
	}
}

func (r *Rasterizer) drawElement(dst *image.RGBA, el *domain.Element, s float64) {
	rect := scaleRect(el.Frame, s)
	switch el.Kind {
	case domain.KindShape:
		fillRect(dst, rect, el.Fill)
		strokeRect(dst, rect, el.Stroke.Color, strokePx(el.Stroke.Width, s))
	case domain.KindImage:
		r.drawImage(dst, el, rect)
	case domain.KindLine:
		r.drawPolyline(dst, el.Points, s, el.Stroke)
	case domain.KindBrush:
		r.drawPolyline(dst, el.Points, s, el.Stroke)
	case domain.KindText, domain.KindQuestion, domain.KindAnswer:
		fillRect(dst, rect, el.BackgroundColor)
		r.drawText(dst, el, rect, s)
		strokeRect(dst, rect, el.BorderColor, strokePx(1, s))
	}
}

func (r *Rasterizer) drawImage(dst *image.RGBA, el *domain.Element, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	var img image.Image
	var err error
	if el.ImageRef != "" && r.images != nil {
		img, err = r.images.Load(el.ImageRef)
	}
	if img == nil {
		if err != nil {
			r.log.Warn("image unavailable, drawing placeholder",
				slog.String("ref", el.ImageRef), slog.Any("err", err))
		}
		drawImagePlaceholder(dst, rect)
	} else {
		fitted := imaging.Fill(img, rect.Dx(), rect.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(dst, rect, fitted, image.Point{}, draw.Over)
	}
	strokeRect(dst, rect, el.BorderColor, 2)
}

func (r *Rasterizer) drawText(dst *image.RGBA, el *domain.Element, rect image.Rectangle, s float64) {
	if el.Text == "" || rect.Empty() {
		return
	}
	size := el.FontSize
	if size <= 0 {
		size = 14
	}
	spec := textlayout.FontSpec{Family: el.FontFamily, SizePt: float32(size * s)}
	box := textlayout.Wrap(r.fonts, spec, el.Text, float32(rect.Dx()))
	face, met := r.fonts.Resolve(spec)

	col := el.FontColor
	if col.IsZero() {
		col = domain.Color{R: 33, G: 33, B: 33, A: 255}
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(rgba(col)),
		Face: face,
	}
	y := float32(rect.Min.Y) + met.Ascent
	for _, line := range box.Lines {
		if int(y) > rect.Max.Y {
			break
		}
		d.Dot = fixed.P(rect.Min.X, int(y))
		d.DrawString(line.Text)
		y += met.LineHeight()
	}
}

func (r *Rasterizer) drawPolyline(dst *image.RGBA, pts []domain.Point, s float64, stroke domain.Stroke) {
	if len(pts) < 2 {
		return
	}
	col := stroke.Color
	if col.IsZero() {
		col = domain.Color{R: 33, G: 33, B: 33, A: 255}
	}
	width := strokePx(stroke.Width, s)
	for i := 1; i < len(pts); i++ {
		drawSegment(dst,
			int(math.Round(pts[i-1].X*s)), int(math.Round(pts[i-1].Y*s)),
			int(math.Round(pts[i].X*s)), int(math.Round(pts[i].Y*s)),
			rgba(col), width)
	}
}

func (r *Rasterizer) loadImage(ref string) (image.Image, error) {
	if r.images == nil {
		return nil, fmt.Errorf("no image source configured")
	}
	return r.images.Load(ref)
}

// Pixel-level helpers.

func rgba(c domain.Color) color.RGBA { return color.RGBA{c.R, c.G, c.B, c.A} }

func scaleRect(r domain.Rect, s float64) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X*s)), int(math.Round(r.Y*s)),
		int(math.Round((r.X+r.Width)*s)), int(math.Round((r.Y+r.Height)*s)))
}

func strokePx(w float64, s float64) int {
	px := int(math.Round(w * s))
	if px < 1 {
		px = 1
	}
	return px
}

func fillRect(dst *image.RGBA, rect image.Rectangle, c domain.Color) {
	if c.IsZero() || rect.Empty() {
		return
	}
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(rgba(c)), image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, rect image.Rectangle, c domain.Color, width int) {
	if c.IsZero() || rect.Empty() {
		return
	}
	src := image.NewUniform(rgba(c))
	b := dst.Bounds()
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y)
	right := image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, edge.Intersect(b), src, image.Point{}, draw.Over)
	}
}

func drawImagePlaceholder(dst *image.RGBA, rect image.Rectangle) {
	fillRect(dst, rect, domain.Color{R: 238, G: 238, B: 238, A: 255})
	c := color.RGBA{189, 189, 189, 255}
	drawSegment(dst, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, c, 1)
	drawSegment(dst, rect.Min.X, rect.Max.Y-1, rect.Max.X-1, rect.Min.Y, c, 1)
}

// drawSegment draws a straight line with the DDA walk, thickening by a
// square pen of the given width.
func drawSegment(dst *image.RGBA, x0, y0, x1, y1 int, c color.RGBA, width int) {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		setPen(dst, x0, y0, c, width)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPen(dst, x0+int(math.Round(t*dx)), y0+int(math.Round(t*dy)), c, width)
	}
}

func setPen(dst *image.RGBA, x, y int, c color.RGBA, width int) {
	half := width / 2
	b := dst.Bounds()
	for py := y - half; py <= y+half; py++ {
		for px := x - half; px <= x+half; px++ {
			if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
				dst.Set(px, py, c)
			}
		}
	}
}
