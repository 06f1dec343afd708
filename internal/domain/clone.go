/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package domain

// Clone returns a deep copy of the book. History snapshots and the preview
// workflow depend on copies sharing no mutable state with the live document.
func (b Book) Clone() Book {
	out := b
	out.Pages = make([]Page, len(b.Pages))
	for i := range b.Pages {
		out.Pages[i] = b.Pages[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	out.Elements = make([]Element, len(p.Elements))
	for i := range p.Elements {
		out.Elements[i] = p.Elements[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Points != nil {
		out.Points = make([]Point, len(e.Points))
		copy(out.Points, e.Points)
	}
	if e.ColorOverrides != nil {
		out.ColorOverrides = make(map[ColorAttr]bool, len(e.ColorOverrides))
		for k, v := range e.ColorOverrides {
			out.ColorOverrides[k] = v
		}
	}
	return out
}

// PreviewPageIndex returns the index of the page flagged as preview, or -1.
func (b *Book) PreviewPageIndex() int {
	for i := range b.Pages {
		if b.Pages[i].IsPreview {
			return i
		}
	}
	return -1
}

// WithoutPreviewPages returns a copy of the book with any preview page
// stripped. Persistence must never serialize preview pages.
func (b Book) WithoutPreviewPages() Book {
	out := b
	out.Pages = make([]Page, 0, len(b.Pages))
	for i := range b.Pages {
		if b.Pages[i].IsPreview {
			continue
		}
		out.Pages = append(out.Pages, b.Pages[i].Clone())
	}
	return out
}
