/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/h2non/filetype"

	"gobookstudio/internal/domain"
)

type failingSource struct{}

func (failingSource) Load(string) (image.Image, error) { return nil, errors.New("no such asset") }

type solidSource struct{ c color.RGBA }

func (s solidSource) Load(string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, s.c)
		}
	}
	return img, nil
}

func renderBook() domain.Book {
	return domain.Book{
		Settings: domain.BookSettings{PageWidth: 100, PageHeight: 100, DPI: 72},
		Pages: []domain.Page{
			{
				ID:         "p1",
				Background: domain.Background{Type: domain.BackgroundColor, Value: "#336699"},
				Elements: []domain.Element{
					{
						ID: "s1", Kind: domain.KindShape,
						Frame:  domain.Rect{X: 10, Y: 10, Width: 30, Height: 30},
						Fill:   domain.Color{R: 200, G: 50, B: 50, A: 255},
						Stroke: domain.Stroke{Color: domain.Color{R: 0, G: 0, B: 0, A: 255}, Width: 1},
					},
					{
						ID: "t1", Kind: domain.KindText,
						Frame:     domain.Rect{X: 10, Y: 50, Width: 80, Height: 40},
						Text:      "Hello",
						FontColor: domain.Color{R: 255, G: 255, B: 255, A: 255},
					},
				},
			},
		},
	}
}

func TestRenderBackgroundAndShape(t *testing.T) {
	r := New(nil, nil)
	b := renderBook()
	frame, err := r.Render(&b, 0, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := frame.Bounds(); got.Dx() != 100 || got.Dy() != 100 {
		t.Fatalf("bad frame size %v", got)
	}
	if c := frame.RGBAAt(2, 2); c != (color.RGBA{0x33, 0x66, 0x99, 255}) {
		t.Fatalf("background pixel wrong: %+v", c)
	}
	if c := frame.RGBAAt(25, 25); c != (color.RGBA{200, 50, 50, 255}) {
		t.Fatalf("shape fill pixel wrong: %+v", c)
	}
}

func TestRenderRejectsBadPageIndex(t *testing.T) {
	r := New(nil, nil)
	b := renderBook()
	if _, err := r.Render(&b, 3, 1); err == nil {
		t.Fatalf("expected error for out-of-range page")
	}
}

func TestImageFailureDrawsPlaceholder(t *testing.T) {
	r := New(nil, failingSource{})
	b := renderBook()
	b.Pages[0].Elements = []domain.Element{{
		ID: "img", Kind: domain.KindImage,
		Frame:    domain.Rect{X: 20, Y: 20, Width: 40, Height: 40},
		ImageRef: "assets/missing.jpg",
	}}
	frame, err := r.Render(&b, 0, 1)
	if err != nil {
		t.Fatalf("image failure must not fail the render: %v", err)
	}
	if c := frame.RGBAAt(40, 30); c != (color.RGBA{238, 238, 238, 255}) {
		t.Fatalf("placeholder fill missing: %+v", c)
	}
}

func TestPlacedImageIsDrawn(t *testing.T) {
	red := color.RGBA{250, 10, 10, 255}
	r := New(nil, solidSource{c: red})
	b := renderBook()
	b.Pages[0].Elements = []domain.Element{{
		ID: "img", Kind: domain.KindImage,
		Frame:    domain.Rect{X: 20, Y: 20, Width: 40, Height: 40},
		ImageRef: "assets/photo.jpg",
	}}
	frame, err := r.Render(&b, 0, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	c := frame.RGBAAt(40, 40)
	if c.R < 200 || c.G > 60 {
		t.Fatalf("photo pixels not drawn: %+v", c)
	}
}

func TestRenderPageEncodesJPEG(t *testing.T) {
	r := New(nil, nil)
	b := renderBook()
	data, err := r.RenderPage(&b, 0, 0.5, 60)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	kind, err := filetype.Match(data)
	if err != nil || kind.MIME.Value != "image/jpeg" {
		t.Fatalf("preview is not a JPEG: %v %v", kind, err)
	}
}

func TestRenderPageDefaultsBadKnobs(t *testing.T) {
	r := New(nil, nil)
	b := renderBook()
	if _, err := r.RenderPage(&b, 0, -1, 999); err != nil {
		t.Fatalf("bad knobs should fall back to defaults: %v", err)
	}
}

func TestTextIsRendered(t *testing.T) {
	r := New(nil, nil)
	b := renderBook()
	frame, err := r.Render(&b, 0, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Some pixel inside the text frame must carry the white font color.
	found := false
	for y := 50; y < 90 && !found; y++ {
		for x := 10; x < 90; x++ {
			if frame.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("no text pixels found")
	}
}
