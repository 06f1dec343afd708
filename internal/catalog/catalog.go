/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog holds the immutable preset catalogs: page layout templates,
// color palettes, and themes. Entries are looked up by id and never mutated
// at runtime. Custom entries can be loaded from a project's styles directory.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gobookstudio/internal/domain"
)

// TemplateSlot is one content slot of a layout template. Coordinates are
// fractions of the page size (0..1) so templates apply to any page format.
type TemplateSlot struct {
	Kind domain.ElementKind `yaml:"kind" validate:"required,oneof=text question answer image shape brush line"`
	X    float64            `yaml:"x" validate:"gte=0,lte=1"`
	Y    float64            `yaml:"y" validate:"gte=0,lte=1"`
	W    float64            `yaml:"w" validate:"gt=0,lte=1"`
	H    float64            `yaml:"h" validate:"gt=0,lte=1"`
}

// Frame scales the slot to a concrete page size.
func (s TemplateSlot) Frame(pageW, pageH float64) domain.Rect {
	return domain.Rect{X: s.X * pageW, Y: s.Y * pageH, Width: s.W * pageW, Height: s.H * pageH}
}

// PageTemplate is a named page layout: an ordered list of content slots.
type PageTemplate struct {
	ID    string         `yaml:"id" validate:"required"`
	Name  string         `yaml:"name" validate:"required"`
	Slots []TemplateSlot `yaml:"slots" validate:"required,min=1,dive"`
}

// SlotCount returns the number of slots accepting the given kind, counting
// text-family slots (text/question/answer) as compatible with each other.
func (t PageTemplate) SlotCount(kind domain.ElementKind) int {
	n := 0
	for _, s := range t.Slots {
		if SlotAccepts(s.Kind, kind) {
			n++
		}
	}
	return n
}

// SlotAccepts reports whether a slot of slotKind can hold content of kind.
// Text, question, and answer content are interchangeable across text-family
// slots; all other kinds require an exact match.
func SlotAccepts(slotKind, kind domain.ElementKind) bool {
	if slotKind == kind {
		return true
	}
	return isTextFamily(slotKind) && isTextFamily(kind)
}

func isTextFamily(k domain.ElementKind) bool {
	return k == domain.KindText || k == domain.KindQuestion || k == domain.KindAnswer
}

// ColorPalette is a named set of coordinated colors.
type ColorPalette struct {
	ID         string       `yaml:"id" validate:"required"`
	Name       string       `yaml:"name" validate:"required"`
	Primary    domain.Color `yaml:"primary"`
	Secondary  domain.Color `yaml:"secondary"`
	Accent     domain.Color `yaml:"accent"`
	Background domain.Color `yaml:"background"`
	Surface    domain.Color `yaml:"surface"`
}

// ColorFor maps a palette color onto a category-appropriate element
// attribute. The bool result is false when the palette does not drive the
// given kind/attribute combination.
func (p ColorPalette) ColorFor(kind domain.ElementKind, attr domain.ColorAttr) (domain.Color, bool) {
	switch kind {
	case domain.KindText:
		switch attr {
		case domain.AttrFont:
			return p.Primary, true
		case domain.AttrBackground:
			return p.Surface, true
		}
	case domain.KindQuestion:
		switch attr {
		case domain.AttrFont:
			return p.Primary, true
		case domain.AttrBorder:
			return p.Accent, true
		}
	case domain.KindAnswer:
		if attr == domain.AttrFont {
			return p.Secondary, true
		}
	case domain.KindImage:
		if attr == domain.AttrBorder {
			return p.Accent, true
		}
	case domain.KindShape:
		switch attr {
		case domain.AttrFill:
			return p.Secondary, true
		case domain.AttrStroke:
			return p.Primary, true
		}
	case domain.KindBrush:
		if attr == domain.AttrStroke {
			return p.Accent, true
		}
	case domain.KindLine:
		if attr == domain.AttrStroke {
			return p.Primary, true
		}
	}
	return domain.Color{}, false
}

// Theme bundles per-kind default colors and a page background.
type Theme struct {
	ID             string
	Name           string
	Defaults       map[domain.ElementKind]map[domain.ColorAttr]domain.Color
	PageBackground domain.Background
}

// DefaultsFor returns the theme's color defaults for an element kind.
func (t Theme) DefaultsFor(kind domain.ElementKind) map[domain.ColorAttr]domain.Color {
	return t.Defaults[kind]
}

// Catalog is the lookup surface over builtin plus optionally loaded custom
// presets. The zero value is unusable; construct via Builtin().
type Catalog struct {
	templates map[string]PageTemplate
	palettes  map[string]ColorPalette
	themes    map[string]Theme
}

// Builtin returns a catalog populated with the builtin presets.
func Builtin() *Catalog {
	c := &Catalog{
		templates: make(map[string]PageTemplate, len(builtinTemplates)),
		palettes:  make(map[string]ColorPalette, len(builtinPalettes)),
		themes:    make(map[string]Theme, len(builtinThemes)),
	}
	for _, t := range builtinTemplates {
		c.templates[t.ID] = t
	}
	for _, p := range builtinPalettes {
		c.palettes[p.ID] = p
	}
	for _, th := range builtinThemes {
		c.themes[th.ID] = th
	}
	return c
}

// Template looks up a layout template by id.
func (c *Catalog) Template(id string) (PageTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Palette looks up a color palette by id.
func (c *Catalog) Palette(id string) (ColorPalette, bool) {
	p, ok := c.palettes[id]
	return p, ok
}

// Theme looks up a theme by id.
func (c *Catalog) Theme(id string) (Theme, bool) {
	t, ok := c.themes[id]
	return t, ok
}

// ListTemplates returns all templates sorted by id for stable UI order.
func (c *Catalog) ListTemplates() []PageTemplate {
	out := make([]PageTemplate, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListPalettes returns all palettes sorted by id.
func (c *Catalog) ListPalettes() []ColorPalette {
	out := make([]ColorPalette, 0, len(c.palettes))
	for _, p := range c.palettes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListThemes returns all themes sorted by id.
func (c *Catalog) ListThemes() []Theme {
	out := make([]Theme, 0, len(c.themes))
	for _, t := range c.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into a Color.
func ParseHexColor(s string) (domain.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c domain.Color
	c.A = 255
	switch len(s) {
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("parse hex color %q: %w", s, err)
		}
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return c, fmt.Errorf("parse hex color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return c, fmt.Errorf("parse hex color %q: %w", s, err)
		}
	default:
		return c, fmt.Errorf("parse hex color %q: bad length", s)
	}
	return c, nil
}
