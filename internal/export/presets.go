/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gobookstudio/internal/domain"
	"gobookstudio/internal/render"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - OutDir is the base directory; empty means "<preset>" and relative
//     paths are created under <projectRoot>/exports/.
//   - PDF and ZIP produce one file named after the title slug; PNG pages go
//     into a png/ subfolder.
type BatchOptions struct {
	Preset      PresetName
	Formats     []string // allowed: pdf, png, zip; empty means preset defaults
	Pages       []int    // zero-based indexes; empty means all pages
	DPIOverride int
	OutDir      string
	Images      render.ImageSource
}

// BatchExport runs exports according to the given preset.
func BatchExport(b *domain.Book, ras *render.Rasterizer, projectRoot string, opt BatchOptions) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(projectRoot, "exports", baseOut)
	}
	base := BaseName(b)

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, base+".pdf")
			if err := ExportBookPDF(b, out, PDFOptions{Pages: opt.Pages, Images: opt.Images}); err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
		case "png":
			po := PNGOptions{Pages: opt.Pages, DPI: presetDPI(opt.Preset)}
			if opt.DPIOverride > 0 {
				po.DPI = opt.DPIOverride
			}
			if err := ExportBookPNGPages(b, ras, filepath.Join(baseOut, "png"), po); err != nil {
				return fmt.Errorf("png export: %w", err)
			}
		case "zip":
			ao := ArchiveOptions{Pages: opt.Pages, DPI: presetDPI(opt.Preset)}
			if opt.DPIOverride > 0 {
				ao.DPI = opt.DPIOverride
			}
			out := filepath.Join(baseOut, base+".zip")
			if err := ExportBookArchive(b, ras, out, ao); err != nil {
				return fmt.Errorf("archive export: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "zip"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

// presetDPI returns the raster DPI a preset implies when no override is set.
func presetDPI(p PresetName) int {
	if p == PresetPrint {
		return 300
	}
	return 150
}
