// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

func Test_validate_subpartedge01(tst *testing.T) {

	chk.PrintTitle("validate_subpartedge01")

	c := &Config{PartitionEdgeLength: 1.0, NumSubpartitionsPerPartiton: 4, RxRadius3D: 0.5}
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected a ConfigInconsistent error when subpart edge <= rx_radius_3d")
	}
}

func Test_validate_negativeprob01(tst *testing.T) {

	chk.PrintTitle("validate_negativeprob01")

	c := &Config{
		PartitionEdgeLength:         1.0,
		NumSubpartitionsPerPartiton: 4,
		RxRadius3D:                  0.01,
		Rxns: []RxnClassDef{
			{Reactants: []int{1, 2}, Pathways: []PathwayDef{{Probability: -1}}},
		},
	}
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected a ConfigInconsistent error for a negative pathway probability")
	}
}

func Test_buildspecies01(tst *testing.T) {

	chk.PrintTitle("buildspecies01")

	c := &Config{BaseTimeStep: 1e-6, Species: []SpeciesDef{
		{Id: 1, Name: "A", D: 1e-6, CanDiffuse: true, TimeStepFactor: 1},
	}}
	p := part.NewPartition(geom.Vec3{}, 1.0, 4, 0.01, false)
	c.BuildSpecies(p)

	sp := p.SpeciesById[1]
	if sp == nil {
		tst.Fatalf("expected species 1 to be registered")
	}
	chk.Scalar(tst, "dt_s", 1e-15, sp.DtS, 1e-6)
	if sp.Sigma <= 0 {
		tst.Fatalf("expected a positive sigma for a diffusing species, got %v", sp.Sigma)
	}
}

func Test_buildcatalogue01(tst *testing.T) {

	chk.PrintTitle("buildcatalogue01")

	c := &Config{Rxns: []RxnClassDef{
		{Reactants: []int{1}, Pathways: []PathwayDef{{Probability: 0.5}}, Kind: "standard"},
		{Reactants: []int{1, 2}, Pathways: []PathwayDef{{Probability: 1.0}}, Kind: "reflect"},
	}}
	cat := c.BuildCatalogue()

	if cat.UnimolOf(1) == nil {
		tst.Fatalf("expected a unimolecular class for species 1")
	}
	rc := cat.Bimol[[2]int{1, 2}]
	if rc == nil {
		tst.Fatalf("expected a bimolecular class for (1,2)")
	}
	chk.IntAssert(int(rc.Kind), 2) // rxn.Reflect
}

// Test_buildgeometry_sharededge01 reproduces spec 3's shared-edge
// invariant and spec 4.1 traverse_surface: two triangles sharing an edge
// must come out of BuildGeometry with that edge's NeighborWall/Xform
// populated on both sides, and crossing it via geom.TraverseSurface must
// land exactly on the neighbor's corresponding edge point.
func Test_buildgeometry_sharededge01(tst *testing.T) {

	chk.PrintTitle("buildgeometry_sharededge01")

	// two unit right triangles sharing the edge (1,0,0)-(1,1,0), folded
	// along that edge like an open book (second triangle rotated 90° out
	// of the first's xy plane).
	c := &Config{
		Geom: GeometryDef{
			Vertices: []VertexDef{
				{X: 0, Y: 0, Z: 0}, // 0
				{X: 1, Y: 0, Z: 0}, // 1
				{X: 1, Y: 1, Z: 0}, // 2
				{X: 0, Y: 1, Z: 0}, // 3
				{X: 1, Y: 1, Z: 1}, // 4: v2 of the second triangle, off-plane
			},
			Triangles: []TriangleDef{
				{V0: 0, V1: 1, V2: 2}, // edge (1,2) shared
				{V0: 2, V1: 1, V2: 4}, // same edge, opposite winding
			},
		},
	}
	p := part.NewPartition(geom.Vec3{}, 10.0, 4, 0.01, false)
	c.BuildGeometry(p)

	wa, wb := p.Walls[0], p.Walls[1]
	findShared := func(w *part.Wall) (int, *part.Edge) {
		for i := range w.Edges {
			if w.Edges[i].NeighborWall >= 0 {
				return i, &w.Edges[i]
			}
		}
		return -1, nil
	}
	idxA, edgeA := findShared(wa)
	if edgeA == nil {
		tst.Fatalf("expected wall 0 to have one shared edge")
	}
	idxB, edgeB := findShared(wb)
	if edgeB == nil {
		tst.Fatalf("expected wall 1 to have one shared edge")
	}
	if edgeA.NeighborWall != 1 || edgeB.NeighborWall != 0 {
		tst.Fatalf("expected walls 0 and 1 to be mutual neighbors, got %d and %d", edgeA.NeighborWall, edgeB.NeighborWall)
	}
	if edgeA.NeighborIdx != idxB || edgeB.NeighborIdx != idxA {
		tst.Fatalf("expected NeighborIdx to point back at the matching edge slot")
	}
	if !edgeA.Forward || edgeB.Forward {
		tst.Fatalf("expected the first-registered side to carry the forward transform")
	}

	// crossing wall A's shared-edge endpoint (global vertex 2) into wall
	// B's frame via the stored transform must land exactly on the uv
	// point wall B itself computes for that same physical vertex.
	_, _, cA := wa.LocalTriangle()
	wantInB := geom.XYZtoUV(p.Vertices[2].Pos, wb.Frame)
	gotInB := geom.TraverseSurface(cA, edgeA.Xform, edgeA.Forward)
	if gotInB.Sub(wantInB).Len() > 1e-9 {
		tst.Fatalf("expected traverse_surface to land on vertex 2 in B's frame, got %v want %v", gotInB, wantInB)
	}

	// and crossing back (backward transform) must return to A's frame.
	backInA := geom.TraverseSurface(gotInB, edgeB.Xform, edgeB.Forward)
	if backInA.Sub(cA).Len() > 1e-9 {
		tst.Fatalf("expected the backward crossing to return to A's frame, got %v want %v", backInA, cA)
	}
}

func Test_piecewiseschedule01(tst *testing.T) {

	chk.PrintTitle("piecewiseschedule01")

	s := &PiecewiseSchedule{Times: []float64{1, 2, 3}, Rates: []float64{10, 20, 30}}
	chk.Scalar(tst, "before first breakpoint", 1e-12, s.F(0.5, nil), 10)
	chk.Scalar(tst, "between first and second", 1e-12, s.F(1.5, nil), 10)
	chk.Scalar(tst, "after last breakpoint", 1e-12, s.F(10, nil), 30)
}
