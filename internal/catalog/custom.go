/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	applog "gobookstudio/internal/log"
)

// Custom presets are loaded from YAML files in the project's styles
// directory. Palette colors are written as hex strings for hand-editing;
// templates use the same fractional slot syntax as the builtins.

type customPalette struct {
	ID         string `yaml:"id" validate:"required,min=2,max=64"`
	Name       string `yaml:"name" validate:"required"`
	Primary    string `yaml:"primary" validate:"required,hexcolor"`
	Secondary  string `yaml:"secondary" validate:"required,hexcolor"`
	Accent     string `yaml:"accent" validate:"required,hexcolor"`
	Background string `yaml:"background" validate:"required,hexcolor"`
	Surface    string `yaml:"surface" validate:"required,hexcolor"`
}

type customStylesFile struct {
	Palettes  []customPalette `yaml:"palettes" validate:"dive"`
	Templates []PageTemplate  `yaml:"templates" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadCustomStyles reads every *.yaml file under stylesDir and merges valid
// palettes and templates into the catalog. Invalid files are skipped with a
// warning; builtin entries cannot be shadowed.
func LoadCustomStyles(c *Catalog, stylesDir string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("catalog"), "load_custom").With(slog.String("dir", stylesDir))
	ents, err := os.ReadDir(stylesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read styles dir: %w", err)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") || strings.HasSuffix(n, ".yml") {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	loaded := 0
	for _, name := range names {
		path := filepath.Join(stylesDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			l.Warn("skip unreadable style file", slog.String("file", name), slog.Any("err", err))
			continue
		}
		var f customStylesFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			l.Warn("skip malformed style file", slog.String("file", name), slog.Any("err", err))
			continue
		}
		if err := validate.Struct(&f); err != nil {
			l.Warn("skip invalid style file", slog.String("file", name), slog.Any("err", err))
			continue
		}
		for _, cp := range f.Palettes {
			p, err := cp.toPalette()
			if err != nil {
				l.Warn("skip palette", slog.String("id", cp.ID), slog.Any("err", err))
				continue
			}
			if _, exists := c.palettes[p.ID]; exists {
				l.Warn("palette id taken", slog.String("id", p.ID))
				continue
			}
			c.palettes[p.ID] = p
			loaded++
		}
		for _, t := range f.Templates {
			if _, exists := c.templates[t.ID]; exists {
				l.Warn("template id taken", slog.String("id", t.ID))
				continue
			}
			c.templates[t.ID] = t
			loaded++
		}
	}
	if loaded > 0 {
		l.Info("custom styles loaded", slog.Int("count", loaded))
	}
	return loaded, nil
}

func (cp customPalette) toPalette() (ColorPalette, error) {
	out := ColorPalette{ID: cp.ID, Name: cp.Name}
	var err error
	if out.Primary, err = ParseHexColor(cp.Primary); err != nil {
		return out, err
	}
	if out.Secondary, err = ParseHexColor(cp.Secondary); err != nil {
		return out, err
	}
	if out.Accent, err = ParseHexColor(cp.Accent); err != nil {
		return out, err
	}
	if out.Background, err = ParseHexColor(cp.Background); err != nil {
		return out, err
	}
	if out.Surface, err = ParseHexColor(cp.Surface); err != nil {
		return out, err
	}
	return out, nil
}
