/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and wraps element text for the rasterizer and
// the exporters. Measurement is isolated behind the Provider interface so
// tests run against the deterministic basicfont face while real rendering
// resolves OpenType faces from a FontLibrary.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	SizePt float32
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// LineHeight returns the vertical advance between baselines.
func (m Metrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

// Line is one wrapped line of element text.
type Line struct {
	Text  string
	Width float32
}

// TextBox is the result of wrapping a text element's content into a frame
// width.
type TextBox struct {
	Lines   []Line
	Width   float32
	Height  float32
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image basicfont Face7x13 for deterministic tests and
// as the last-resort fallback when no font file could be loaded.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Wrap breaks text into lines no wider than maxWidth, breaking on spaces and
// hard newlines. A word wider than maxWidth gets a line of its own rather
// than being split mid-word. maxWidth <= 0 disables wrapping.
func Wrap(provider Provider, spec FontSpec, text string, maxWidth float32) TextBox {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	drawer := &font.Drawer{Face: face}

	box := TextBox{Metrics: met}
	flush := func(line string) {
		w := advance(drawer, line)
		box.Lines = append(box.Lines, Line{Text: line, Width: w})
		if w > box.Width {
			box.Width = w
		}
		box.Height += met.LineHeight()
	}

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			flush("")
			continue
		}
		cur := words[0]
		for _, word := range words[1:] {
			cand := cur + " " + word
			if maxWidth > 0 && advance(drawer, cand) > maxWidth {
				flush(cur)
				cur = word
				continue
			}
			cur = cand
		}
		flush(cur)
	}
	return box
}

// MeasureString returns the width of s in pixels for the given spec.
func MeasureString(provider Provider, spec FontSpec, s string) float32 {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, _ := provider.Resolve(spec)
	return advance(&font.Drawer{Face: face}, s)
}

func advance(d *font.Drawer, s string) float32 {
	return float32(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}
