/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package render

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"gobookstudio/internal/domain"
)

// RenderPage rasterizes the page at a reduced scale and encodes it as JPEG.
// Scale is a 0..1 factor of full export resolution (DPI/72); quality is the
// JPEG quality 1..100. This is the synchronous preview contract used by the
// selection workflow: when it returns, the bytes are the committed frame.
func (r *Rasterizer) RenderPage(book *domain.Book, pageIndex int, scale float64, quality int) ([]byte, error) {
	if scale <= 0 || scale > 1 {
		scale = 0.5
	}
	if quality <= 0 || quality > 100 {
		quality = 60
	}
	dpi := book.Settings.DPI
	if dpi <= 0 {
		dpi = 150
	}
	pxPerUnit := float64(dpi) / 72.0 * scale
	frame, err := r.Render(book, pageIndex, pxPerUnit)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
