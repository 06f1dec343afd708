/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"gobookstudio/internal/catalog"
	"gobookstudio/internal/domain"
)

// OrphanContent describes an element that a layout template application had
// no slot for. Orphans are removed from the page but always reported so the
// UI can warn before a commit.
type OrphanContent struct {
	PageIndex int
	ElementID string
	Kind      domain.ElementKind
	Snippet   string
}

// ApplyReport summarizes a layout template application: how many elements
// were repositioned into slots, how many placeholders were created for
// unfilled slots, and which elements lost their slot.
type ApplyReport struct {
	Moved        int
	Placeholders int
	Orphans      []OrphanContent
}

// HasOrphans reports whether the application would drop (or did drop) content.
func (r ApplyReport) HasOrphans() bool { return len(r.Orphans) > 0 }

// CheckLayoutCompatibility computes the report ApplyLayoutTemplate would
// produce for one page without mutating anything. Used to surface "content
// will be removed" warnings while a template is merely previewed.
func CheckLayoutCompatibility(tpl catalog.PageTemplate, pg *domain.Page, pageIndex int) ApplyReport {
	var report ApplyReport
	matched := matchElementsToSlots(pg.Elements, tpl.Slots)
	for i := range pg.Elements {
		if matched[i] >= 0 {
			report.Moved++
		} else {
			report.Orphans = append(report.Orphans, orphanFor(&pg.Elements[i], pageIndex))
		}
	}
	used := make(map[int]bool, len(pg.Elements))
	for _, s := range matched {
		if s >= 0 {
			used[s] = true
		}
	}
	report.Placeholders = len(tpl.Slots) - len(used)
	return report
}

// applyTemplateToPage rearranges pg's elements into tpl's slots. Each slot
// takes at most one element; exact kind matches win over text-family
// matches; leftover elements are removed and reported; empty slots receive
// placeholder elements sized to the page.
func applyTemplateToPage(pg *domain.Page, tpl catalog.PageTemplate, pageW, pageH float64, pageIndex int, report *ApplyReport) {
	matched := matchElementsToSlots(pg.Elements, tpl.Slots)

	slotFilledBy := make(map[int]int, len(tpl.Slots)) // slot index -> element index
	for ei, si := range matched {
		if si >= 0 {
			slotFilledBy[si] = ei
		}
	}

	kept := make([]domain.Element, 0, len(tpl.Slots))
	for si, slot := range tpl.Slots {
		if ei, ok := slotFilledBy[si]; ok {
			el := pg.Elements[ei]
			el.Frame = slot.Frame(pageW, pageH)
			kept = append(kept, el)
			report.Moved++
			continue
		}
		kept = append(kept, placeholderElement(slot, pageW, pageH))
		report.Placeholders++
	}
	for ei := range pg.Elements {
		if matched[ei] < 0 {
			report.Orphans = append(report.Orphans, orphanFor(&pg.Elements[ei], pageIndex))
		}
	}
	pg.Elements = kept
	pg.LayoutTemplateID = tpl.ID
}

// matchElementsToSlots assigns elements to slots, returning for each element
// the slot index it landed in or -1. Two passes keep the assignment
// deterministic: exact kind matches in element order first, then text-family
// fallbacks into the remaining text slots.
func matchElementsToSlots(elements []domain.Element, slots []catalog.TemplateSlot) []int {
	matched := make([]int, len(elements))
	for i := range matched {
		matched[i] = -1
	}
	taken := make([]bool, len(slots))

	for ei := range elements {
		for si := range slots {
			if taken[si] || slots[si].Kind != elements[ei].Kind {
				continue
			}
			matched[ei] = si
			taken[si] = true
			break
		}
	}
	for ei := range elements {
		if matched[ei] >= 0 {
			continue
		}
		for si := range slots {
			if taken[si] || !catalog.SlotAccepts(slots[si].Kind, elements[ei].Kind) {
				continue
			}
			matched[ei] = si
			taken[si] = true
			break
		}
	}
	return matched
}

func placeholderElement(slot catalog.TemplateSlot, pageW, pageH float64) domain.Element {
	el := domain.Element{
		ID:    uuid.NewString(),
		Kind:  slot.Kind,
		Frame: slot.Frame(pageW, pageH),
	}
	switch slot.Kind {
	case domain.KindText:
		el.Text = "Add text"
	case domain.KindQuestion:
		el.Text = "Add a question"
	case domain.KindAnswer:
		el.Text = "Write your answer"
	}
	return el
}

func orphanFor(el *domain.Element, pageIndex int) OrphanContent {
	snippet := el.Text
	if snippet == "" {
		snippet = el.ImageRef
	}
	if len(snippet) > 60 {
		cut := 60
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	return OrphanContent{PageIndex: pageIndex, ElementID: el.ID, Kind: el.Kind, Snippet: snippet}
}

// applyThemeToPage writes the theme's per-kind color defaults into every
// element, honoring overrides, and replaces the page background when the
// theme declares one.
func applyThemeToPage(pg *domain.Page, theme catalog.Theme) {
	for i := range pg.Elements {
		defaults := theme.DefaultsFor(pg.Elements[i].Kind)
		for _, attr := range domain.Attrs() {
			if c, ok := defaults[attr]; ok {
				pg.Elements[i].SetColor(attr, c)
			}
		}
	}
	if theme.PageBackground.Type != "" {
		pg.Background = theme.PageBackground
	}
}

// applyPaletteToPage recolors every element with the palette's mapping for
// its kind, honoring overrides, and sets the page background to the palette
// background color.
func applyPaletteToPage(pg *domain.Page, p catalog.ColorPalette) {
	for i := range pg.Elements {
		for _, attr := range domain.Attrs() {
			if c, ok := p.ColorFor(pg.Elements[i].Kind, attr); ok {
				pg.Elements[i].SetColor(attr, c)
			}
		}
	}
	pg.Background = domain.Background{Type: domain.BackgroundColor, Value: p.Background.Hex(), Opacity: 1}
}
