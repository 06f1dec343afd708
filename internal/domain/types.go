/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model for a book project.
// A Book owns an ordered sequence of Pages; each Page owns an ordered
// sequence of Elements whose slice order is the draw order (z-order).
// The model serializes to a human-readable JSON manifest (book.json).
package domain

import "fmt"

// Book is the root of the document model. One live instance exists per
// editing session.
type Book struct {
	Title    string       `json:"title"`
	Metadata Metadata     `json:"metadata,omitempty"`
	Settings BookSettings `json:"settings"`
	Pages    []Page       `json:"pages"`
}

// Metadata contains optional descriptive metadata for a book.
type Metadata struct {
	Author   string `json:"author,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// BookSettings captures book-wide configuration, including the optional
// book-level preset identifiers that pages inherit unless overridden.
type BookSettings struct {
	PageWidth        float64      `json:"pageWidth"`  // points
	PageHeight       float64      `json:"pageHeight"` // points
	DPI              int          `json:"dpi"`
	ThemeID          string       `json:"themeId,omitempty"`
	ColorPaletteID   string       `json:"colorPaletteId,omitempty"`
	LayoutTemplateID string       `json:"layoutTemplateId,omitempty"`
	Tools            ToolDefaults `json:"tools,omitempty"`
}

// ToolDefaults holds the colors and sizes new elements are created with.
type ToolDefaults struct {
	BrushColor  Color   `json:"brushColor,omitempty"`
	BrushWidth  float64 `json:"brushWidth,omitempty"`
	ShapeFill   Color   `json:"shapeFill,omitempty"`
	ShapeStroke Color   `json:"shapeStroke,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontColor   Color   `json:"fontColor,omitempty"`
}

// Page is a single page of the book. Per-page preset identifiers override
// the book-level ones when set.
//
// IsPreview marks a disposable scratch page owned by the selection workflow.
// At most one page may carry the flag at any time; preview pages are never
// serialized and never appear in normal navigation.
type Page struct {
	ID               string     `json:"id"`
	ThemeID          string     `json:"themeId,omitempty"`
	ColorPaletteID   string     `json:"colorPaletteId,omitempty"`
	LayoutTemplateID string     `json:"layoutTemplateId,omitempty"`
	Background       Background `json:"background"`
	Elements         []Element  `json:"elements"`
	IsPreview        bool       `json:"-"`
}

// BackgroundType discriminates the page background descriptor.
type BackgroundType string

const (
	BackgroundColor   BackgroundType = "color"
	BackgroundPattern BackgroundType = "pattern"
	BackgroundImage   BackgroundType = "image"
)

// Background is the structured page background descriptor. Value holds a
// hex color for BackgroundColor, a pattern name for BackgroundPattern, or an
// asset/URL reference for BackgroundImage.
type Background struct {
	Type    BackgroundType `json:"type"`
	Value   string         `json:"value"`
	Opacity float64        `json:"opacity,omitempty"`
}

// ElementKind classifies a drawable unit.
type ElementKind string

const (
	KindText     ElementKind = "text"
	KindQuestion ElementKind = "question"
	KindAnswer   ElementKind = "answer"
	KindImage    ElementKind = "image"
	KindShape    ElementKind = "shape"
	KindBrush    ElementKind = "brush"
	KindLine     ElementKind = "line"
)

// ColorAttr names a themeable color attribute of an element. The names
// double as keys of Element.ColorOverrides.
type ColorAttr string

const (
	AttrFont       ColorAttr = "font"
	AttrFill       ColorAttr = "fill"
	AttrStroke     ColorAttr = "stroke"
	AttrBorder     ColorAttr = "border"
	AttrBackground ColorAttr = "background"
)

// Attrs lists all themeable attributes in stable order.
func Attrs() []ColorAttr {
	return []ColorAttr{AttrFont, AttrFill, AttrStroke, AttrBorder, AttrBackground}
}

// Element is a drawable unit on a page: text, question, answer, image
// placeholder, shape, brush stroke, or straight line.
//
// ColorOverrides records which color attributes the user customized by hand.
// Theme and palette application must leave overridden attributes untouched
// until the override is explicitly reset.
type Element struct {
	ID    string      `json:"id"`
	Kind  ElementKind `json:"kind"`
	Frame Rect        `json:"frame"`

	// Text content (text/question/answer); for question and answer
	// elements RefID links back to the question pool entry.
	Text  string `json:"text,omitempty"`
	RefID string `json:"refId,omitempty"`

	// Image reference (asset path or URL) for image elements.
	ImageRef string `json:"imageRef,omitempty"`

	// Geometry for brush strokes and lines.
	Points []Point `json:"points,omitempty"`

	// Presentation attributes.
	FontFamily      string  `json:"fontFamily,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	FontColor       Color   `json:"fontColor,omitempty"`
	Fill            Color   `json:"fill,omitempty"`
	Stroke          Stroke  `json:"stroke,omitempty"`
	BorderColor     Color   `json:"borderColor,omitempty"`
	BackgroundColor Color   `json:"backgroundColor,omitempty"`

	ColorOverrides map[ColorAttr]bool `json:"colorOverrides,omitempty"`
}

// Overridden reports whether the given attribute was manually customized.
func (e *Element) Overridden(attr ColorAttr) bool {
	return e.ColorOverrides[attr]
}

// SetColor assigns the color for attr unless the attribute is overridden.
// It returns true when the value was applied.
func (e *Element) SetColor(attr ColorAttr, c Color) bool {
	if e.Overridden(attr) {
		return false
	}
	switch attr {
	case AttrFont:
		e.FontColor = c
	case AttrFill:
		e.Fill = c
	case AttrStroke:
		e.Stroke.Color = c
	case AttrBorder:
		e.BorderColor = c
	case AttrBackground:
		e.BackgroundColor = c
	default:
		return false
	}
	return true
}

// ColorFor returns the current color value for attr.
func (e *Element) ColorFor(attr ColorAttr) Color {
	switch attr {
	case AttrFont:
		return e.FontColor
	case AttrFill:
		return e.Fill
	case AttrStroke:
		return e.Stroke.Color
	case AttrBorder:
		return e.BorderColor
	case AttrBackground:
		return e.BackgroundColor
	}
	return Color{}
}

// Geometry and rendering primitives.

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// IsZero reports whether the color is the zero value (fully transparent black).
func (c Color) IsZero() bool { return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0 }

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}
