// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surf

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/reactex"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

func newTestWallWithGrid() *part.Wall {
	v0 := geom.Vec3{X: 0, Y: 0, Z: 0}
	v1 := geom.Vec3{X: 10, Y: 0, Z: 0}
	v2 := geom.Vec3{X: 0, Y: 10, Z: 0}
	w := part.NewWall(v0, v1, v2)
	_, _, c := w.LocalTriangle()
	w.Grid = part.NewGrid(4, c.V, geom.Vec2{})
	for i := range w.Edges {
		w.Edges[i].NeighborWall = -1
	}
	return w
}

// Test_step_insidetriangle01 reproduces spec 8 scenario-style behavior: a
// tiny displacement that stays well inside the triangle must simply move
// the molecule's uv position and keep it on the same wall.
func Test_step_insidetriangle01(tst *testing.T) {

	chk.PrintTitle("step_insidetriangle01")

	p := part.NewPartition(geom.Vec3{}, 100.0, 2, 0.01, false)
	sp := &part.Species{Id: 1, IsSurf: true, CanDiffuse: true, DtS: 1e-6, Sigma: 1e-4}
	p.AddSpecies(sp)

	w := newTestWallWithGrid()
	p.Vertices = []part.Vertex{{Pos: geom.Vec3{X: 0, Y: 0, Z: 0}}, {Pos: geom.Vec3{X: 10, Y: 0, Z: 0}}, {Pos: geom.Vec3{X: 0, Y: 10, Z: 0}}}
	w.Verts = [3]int{0, 1, 2}
	wallIdx := p.AddWall(w)

	surf := part.SurfacePos{WallIdx: wallIdx, TileIdx: 0, UV: geom.Vec2{U: 2, V: 2}, Orientation: 1}
	m := part.NewSurfaceMolecule(0, 1, surf)
	m.ActNewbie = false
	m.UnimolRxTime = 1e9
	id := p.AddMolecule(m)
	w.Grid.Place(0, id, -1)

	cat := rxn.NewCatalogue()
	rng := rngx.NewStream(3)
	placer := &reactex.Placer{Partition: p, Rng: rng}
	stepper := NewStepper(p, cat, rng, placer)

	_, alive, err := stepper.Step(id, 1e-6, 0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !alive {
		tst.Fatalf("expected the surface molecule to survive a plain diffusion step")
	}
	if p.Molecules[id].Surf.WallIdx != wallIdx {
		tst.Fatalf("expected the molecule to remain on the same wall for a tiny displacement")
	}
}

// Test_reflectacrossedge01 checks that reflecting a vector across an edge
// preserves its length (a pure geometric mirror).
func Test_reflectacrossedge01(tst *testing.T) {

	chk.PrintTitle("reflectacrossedge01")

	tri := [3]geom.Vec2{{U: 0, V: 0}, {U: 1, V: 0}, {U: 0, V: 1}}
	v := geom.Vec2{U: 0.3, V: 0.7}
	r := reflectAcrossEdge(v, tri, 0) // edge (0,0)-(1,0): the u axis

	chk.Scalar(tst, "|v|", 1e-12, r.Len(), v.Len())
	chk.Scalar(tst, "reflected v (sign flips)", 1e-12, r.V, -v.V)
	chk.Scalar(tst, "reflected u (unchanged)", 1e-12, r.U, v.U)
}
