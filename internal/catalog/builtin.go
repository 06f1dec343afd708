/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package catalog

import "gobookstudio/internal/domain"

func rgb(r, g, b uint8) domain.Color { return domain.Color{R: r, G: g, B: b, A: 255} }

var builtinTemplates = []PageTemplate{
	{
		ID:   "full-text",
		Name: "Full Page Text",
		Slots: []TemplateSlot{
			{Kind: domain.KindText, X: 0.1, Y: 0.08, W: 0.8, H: 0.1},
			{Kind: domain.KindText, X: 0.1, Y: 0.22, W: 0.8, H: 0.7},
		},
	},
	{
		ID:   "photo-top",
		Name: "Photo Top, Text Below",
		Slots: []TemplateSlot{
			{Kind: domain.KindImage, X: 0.1, Y: 0.08, W: 0.8, H: 0.42},
			{Kind: domain.KindText, X: 0.1, Y: 0.55, W: 0.8, H: 0.37},
		},
	},
	{
		ID:   "question-answer",
		Name: "Question and Answer",
		Slots: []TemplateSlot{
			{Kind: domain.KindQuestion, X: 0.1, Y: 0.08, W: 0.8, H: 0.14},
			{Kind: domain.KindAnswer, X: 0.1, Y: 0.26, W: 0.8, H: 0.44},
			{Kind: domain.KindImage, X: 0.3, Y: 0.74, W: 0.4, H: 0.2},
		},
	},
	{
		ID:   "photo-grid",
		Name: "Photo Grid",
		Slots: []TemplateSlot{
			{Kind: domain.KindImage, X: 0.08, Y: 0.08, W: 0.4, H: 0.4},
			{Kind: domain.KindImage, X: 0.52, Y: 0.08, W: 0.4, H: 0.4},
			{Kind: domain.KindImage, X: 0.08, Y: 0.52, W: 0.4, H: 0.4},
			{Kind: domain.KindImage, X: 0.52, Y: 0.52, W: 0.4, H: 0.4},
		},
	},
}

var builtinPalettes = []ColorPalette{
	{
		ID: "warm-earth", Name: "Warm Earth",
		Primary:    rgb(121, 85, 72),
		Secondary:  rgb(161, 136, 127),
		Accent:     rgb(255, 138, 101),
		Background: rgb(251, 247, 240),
		Surface:    rgb(239, 235, 233),
	},
	{
		ID: "ocean-calm", Name: "Ocean Calm",
		Primary:    rgb(2, 62, 88),
		Secondary:  rgb(69, 123, 157),
		Accent:     rgb(230, 57, 70),
		Background: rgb(241, 250, 238),
		Surface:    rgb(224, 239, 235),
	},
	{
		ID: "forest-mist", Name: "Forest Mist",
		Primary:    rgb(45, 74, 34),
		Secondary:  rgb(106, 139, 87),
		Accent:     rgb(212, 175, 55),
		Background: rgb(248, 250, 244),
		Surface:    rgb(234, 240, 228),
	},
	{
		ID: "mono-ink", Name: "Mono Ink",
		Primary:    rgb(33, 33, 33),
		Secondary:  rgb(97, 97, 97),
		Accent:     rgb(0, 121, 107),
		Background: rgb(255, 255, 255),
		Surface:    rgb(245, 245, 245),
	},
}

var builtinThemes = []Theme{
	{
		ID:   "classic",
		Name: "Classic",
		Defaults: map[domain.ElementKind]map[domain.ColorAttr]domain.Color{
			domain.KindText:     {domain.AttrFont: rgb(33, 33, 33), domain.AttrBackground: rgb(255, 255, 255)},
			domain.KindQuestion: {domain.AttrFont: rgb(13, 71, 161), domain.AttrBorder: rgb(13, 71, 161)},
			domain.KindAnswer:   {domain.AttrFont: rgb(33, 33, 33)},
			domain.KindImage:    {domain.AttrBorder: rgb(189, 189, 189)},
			domain.KindShape:    {domain.AttrFill: rgb(224, 224, 224), domain.AttrStroke: rgb(117, 117, 117)},
			domain.KindBrush:    {domain.AttrStroke: rgb(33, 33, 33)},
			domain.KindLine:     {domain.AttrStroke: rgb(33, 33, 33)},
		},
		PageBackground: domain.Background{Type: domain.BackgroundColor, Value: "#ffffff", Opacity: 1},
	},
	{
		ID:   "scrapbook",
		Name: "Scrapbook",
		Defaults: map[domain.ElementKind]map[domain.ColorAttr]domain.Color{
			domain.KindText:     {domain.AttrFont: rgb(78, 52, 46), domain.AttrBackground: rgb(255, 248, 225)},
			domain.KindQuestion: {domain.AttrFont: rgb(191, 54, 12), domain.AttrBorder: rgb(191, 54, 12)},
			domain.KindAnswer:   {domain.AttrFont: rgb(78, 52, 46)},
			domain.KindImage:    {domain.AttrBorder: rgb(141, 110, 99)},
			domain.KindShape:    {domain.AttrFill: rgb(255, 224, 178), domain.AttrStroke: rgb(141, 110, 99)},
			domain.KindBrush:    {domain.AttrStroke: rgb(121, 85, 72)},
			domain.KindLine:     {domain.AttrStroke: rgb(121, 85, 72)},
		},
		PageBackground: domain.Background{Type: domain.BackgroundPattern, Value: "kraft", Opacity: 1},
	},
	{
		ID:   "night",
		Name: "Night",
		Defaults: map[domain.ElementKind]map[domain.ColorAttr]domain.Color{
			domain.KindText:     {domain.AttrFont: rgb(236, 239, 241), domain.AttrBackground: rgb(38, 50, 56)},
			domain.KindQuestion: {domain.AttrFont: rgb(128, 222, 234), domain.AttrBorder: rgb(128, 222, 234)},
			domain.KindAnswer:   {domain.AttrFont: rgb(207, 216, 220)},
			domain.KindImage:    {domain.AttrBorder: rgb(84, 110, 122)},
			domain.KindShape:    {domain.AttrFill: rgb(55, 71, 79), domain.AttrStroke: rgb(144, 164, 174)},
			domain.KindBrush:    {domain.AttrStroke: rgb(236, 239, 241)},
			domain.KindLine:     {domain.AttrStroke: rgb(144, 164, 174)},
		},
		PageBackground: domain.Background{Type: domain.BackgroundColor, Value: "#263238", Opacity: 1},
	},
}
