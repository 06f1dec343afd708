/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping for dragging elements on a page canvas. The
// helpers are UI-agnostic and deterministic so they unit-test cleanly and
// work under any frontend.

import (
	"math"

	"gobookstudio/internal/domain"
)

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (in page units) at which snapping
	// occurs. Typical UI values are 6–8 points.
	Threshold float32
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// Anchor is a static reference rect: another element's frame or the page
// bounds. Weight biases selection when distances tie (higher = preferred).
type Anchor struct {
	Rect   Rect
	Weight float32
}

// PageAnchors builds the anchor set for dragging the element with movingID:
// the page bounds (weighted up so page alignment wins ties) plus every other
// element's frame.
func PageAnchors(pg *domain.Page, pageW, pageH float64, movingID string) []Anchor {
	anchors := []Anchor{{Rect: R(0, 0, float32(pageW), float32(pageH)), Weight: 2}}
	for i := range pg.Elements {
		if pg.Elements[i].ID == movingID {
			continue
		}
		anchors = append(anchors, Anchor{Rect: FromDomain(pg.Elements[i].Frame), Weight: 1})
	}
	return anchors
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate; From and To are
// the extents for rendering. Values are rounded to 3 decimal places for
// deterministic behavior.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float32
	From        Pt
	To          Pt
}

// ComputeSmartGuides computes snapping adjustments for a moving rectangle
// against a set of anchors. It returns the snapped rectangle and any guide
// lines to render for visual feedback. Snapping happens independently in X and Y.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var guides []GuideLine

	// Best candidate per axis: edges and center lines compete on weighted
	// distance.
	bestDX, bestDXDist, bestDXGuide := float32(0), float32(+1e9), (GuideLine{})
	bestDY, bestDYDist, bestDYGuide := float32(0), float32(+1e9), (GuideLine{})

	mxL, mxR, mxT, mxB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mxCX, mxCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		axL, axR, axT, axB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		axCX, axCY := a.Rect.X+a.Rect.W/2, a.Rect.Y+a.Rect.H/2

		if opts.SnapToEdges {
			// Same-edge alignments plus abutting edges.
			considerAxis(&bestDX, &bestDXDist, &bestDXGuide, mxL-axL, opts.Threshold, a.Weight, guideForVertical(axL, moving, a.Rect, "edge"))
			considerAxis(&bestDX, &bestDXDist, &bestDXGuide, mxR-axR, opts.Threshold, a.Weight, guideForVertical(axR, moving, a.Rect, "edge"))
			considerAxis(&bestDX, &bestDXDist, &bestDXGuide, mxL-axR, opts.Threshold, a.Weight, guideForVertical(axR, moving, a.Rect, "edge"))
			considerAxis(&bestDX, &bestDXDist, &bestDXGuide, mxR-axL, opts.Threshold, a.Weight, guideForVertical(axL, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			considerAxis(&bestDX, &bestDXDist, &bestDXGuide, mxCX-axCX, opts.Threshold, a.Weight, guideForVertical(axCX, moving, a.Rect, "center"))
		}

		if opts.SnapToEdges {
			considerAxis(&bestDY, &bestDYDist, &bestDYGuide, mxT-axT, opts.Threshold, a.Weight, guideForHorizontal(axT, moving, a.Rect, "edge"))
			considerAxis(&bestDY, &bestDYDist, &bestDYGuide, mxB-axB, opts.Threshold, a.Weight, guideForHorizontal(axB, moving, a.Rect, "edge"))
			considerAxis(&bestDY, &bestDYDist, &bestDYGuide, mxT-axB, opts.Threshold, a.Weight, guideForHorizontal(axB, moving, a.Rect, "edge"))
			considerAxis(&bestDY, &bestDYDist, &bestDYGuide, mxB-axT, opts.Threshold, a.Weight, guideForHorizontal(axT, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			considerAxis(&bestDY, &bestDYDist, &bestDYGuide, mxCY-axCY, opts.Threshold, a.Weight, guideForHorizontal(axCY, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	if bestDXDist <= opts.Threshold {
		snapped.X = FloatRound(moving.X-bestDX, 3)
		guides = append(guides, bestDXGuide)
	}
	if bestDYDist <= opts.Threshold {
		snapped.Y = FloatRound(moving.Y-bestDY, 3)
		guides = append(guides, bestDYGuide)
	}
	return snapped, guides
}

func considerAxis(bestDelta *float32, bestDist *float32, bestGuide *GuideLine, delta float32, threshold float32, weight float32, g GuideLine) {
	dist := float32(math.Abs(float64(delta)))
	if dist > threshold {
		return
	}
	score := dist / max(1, weight)
	if score < *bestDist {
		*bestDist = dist
		*bestDelta = delta
		*bestGuide = g
	}
}

func guideForVertical(x float32, a Rect, b Rect, kind string) GuideLine {
	minY := min(a.Y, b.Y)
	maxY := max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func guideForHorizontal(y float32, a Rect, b Rect, kind string) GuideLine {
	minX := min(a.X, b.X)
	maxX := max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
