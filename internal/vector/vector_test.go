/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package vector

import (
	"testing"

	"gobookstudio/internal/domain"
)

func TestRectRoundTripThroughDomain(t *testing.T) {
	r := R(10, 20, 300, 400)
	got := FromDomain(r.ToDomain())
	if got != r {
		t.Fatalf("round trip changed rect: %+v vs %+v", got, r)
	}
}

func TestRectUnionAndContains(t *testing.T) {
	u := R(0, 0, 10, 10).Union(R(5, 5, 10, 10))
	if u != R(0, 0, 15, 15) {
		t.Fatalf("bad union: %+v", u)
	}
	if !u.Contains(Pt{15, 15}) || u.Contains(Pt{16, 0}) {
		t.Fatalf("contains broken")
	}
}

func TestAffineComposition(t *testing.T) {
	m := Translate(10, 0).Mul(Scale(2, 2))
	p := m.Apply(Pt{3, 4})
	if p.X != 16 || p.Y != 8 {
		t.Fatalf("bad transform: %+v", p)
	}
}

func TestSnapToAnchorEdge(t *testing.T) {
	moving := R(102, 50, 40, 20)
	anchors := []Anchor{{Rect: R(100, 0, 60, 40), Weight: 1}}
	snapped, guides := ComputeSmartGuides(moving, anchors, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped.X != 100 {
		t.Fatalf("left edge should snap to 100, got %v", snapped.X)
	}
	if len(guides) != 1 || guides[0].Orientation != "vertical" || guides[0].Kind != "edge" {
		t.Fatalf("bad guides: %+v", guides)
	}
}

func TestSnapBeyondThresholdIsNoop(t *testing.T) {
	moving := R(120, 50, 40, 20)
	anchors := []Anchor{{Rect: R(100, 0, 60, 40), Weight: 1}}
	snapped, guides := ComputeSmartGuides(moving, anchors, SnapOptions{Threshold: 6, SnapToEdges: true})
	if snapped != moving || len(guides) != 0 {
		t.Fatalf("snap fired outside threshold: %+v %+v", snapped, guides)
	}
}

func TestSnapToCenters(t *testing.T) {
	moving := R(28, 10, 40, 20) // center x = 48
	anchors := []Anchor{{Rect: R(0, 0, 100, 100), Weight: 1}}
	snapped, guides := ComputeSmartGuides(moving, anchors, SnapOptions{Threshold: 6, SnapToCenters: true})
	if snapped.X != 30 { // center snapped from 48 to 50
		t.Fatalf("center snap expected x=30, got %v", snapped.X)
	}
	if len(guides) == 0 || guides[0].Kind != "center" {
		t.Fatalf("center guide missing: %+v", guides)
	}
}

func TestPageAnchorsSkipMovingElement(t *testing.T) {
	pg := &domain.Page{Elements: []domain.Element{
		{ID: "a", Frame: domain.Rect{X: 1, Y: 1, Width: 10, Height: 10}},
		{ID: "b", Frame: domain.Rect{X: 20, Y: 20, Width: 10, Height: 10}},
	}}
	anchors := PageAnchors(pg, 600, 800, "a")
	if len(anchors) != 2 {
		t.Fatalf("expected page bounds + element b, got %d anchors", len(anchors))
	}
	if anchors[0].Weight <= anchors[1].Weight {
		t.Fatalf("page bounds should outweigh element anchors")
	}
}
