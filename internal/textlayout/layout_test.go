/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package textlayout

import (
	"strings"
	"testing"
)

func TestWrapBreaksOnWidth(t *testing.T) {
	// basicfont Face7x13 advances 7px per glyph.
	box := Wrap(BasicProvider{}, FontSpec{}, "one two three", 7*8)
	if len(box.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(box.Lines), box.Lines)
	}
	for _, l := range box.Lines {
		if l.Width > 7*8 {
			t.Fatalf("line %q exceeds max width: %v", l.Text, l.Width)
		}
	}
}

func TestWrapKeepsHardNewlines(t *testing.T) {
	box := Wrap(nil, FontSpec{}, "a\n\nb", 0)
	if len(box.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(box.Lines))
	}
	if box.Lines[1].Text != "" {
		t.Fatalf("blank paragraph lost")
	}
}

func TestWrapOverlongWordGetsOwnLine(t *testing.T) {
	box := Wrap(nil, FontSpec{}, "hi extraordinarily hi", 7*5)
	var found bool
	for _, l := range box.Lines {
		if strings.Contains(l.Text, "extraordinarily") {
			found = true
			if l.Text != "extraordinarily" {
				t.Fatalf("overlong word should sit alone, got %q", l.Text)
			}
		}
	}
	if !found {
		t.Fatalf("overlong word dropped: %+v", box.Lines)
	}
}

func TestWrapHeightTracksLineCount(t *testing.T) {
	box := Wrap(nil, FontSpec{}, "a b c", 7*1)
	want := float32(len(box.Lines)) * box.Metrics.LineHeight()
	if box.Height != want {
		t.Fatalf("height %v want %v", box.Height, want)
	}
}

func TestMeasureString(t *testing.T) {
	if w := MeasureString(nil, FontSpec{}, "abcd"); w != 28 {
		t.Fatalf("expected 28px for 4 glyphs, got %v", w)
	}
}

func TestOTProviderFallsBack(t *testing.T) {
	p := OTProvider{Lib: NewFontLibrary()}
	face, met := p.Resolve(FontSpec{Family: "Missing", SizePt: 14})
	if face == nil {
		t.Fatalf("fallback face missing")
	}
	if met.Ascent <= 0 {
		t.Fatalf("bad fallback metrics: %+v", met)
	}
}
