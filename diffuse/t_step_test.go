// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffuse

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/reactex"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

// Test_step_freediffusion01 reproduces spec 8 scenario 1: a molecule alone
// in an empty partition must simply take its sampled displacement, land at
// a new position, and update its cached subpart index.
func Test_step_freediffusion01(tst *testing.T) {

	chk.PrintTitle("step_freediffusion01")

	p := part.NewPartition(geom.Vec3{}, 10.0, 4, 0.01, false)
	sp := &part.Species{Id: 1, IsVol: true, CanDiffuse: true, DtS: 1e-6, Sigma: 0.01}
	p.AddSpecies(sp)

	idx0, _ := p.SubpartIndex(geom.Vec3{X: 5, Y: 5, Z: 5})
	m := part.NewVolumeMolecule(0, 1, geom.Vec3{X: 5, Y: 5, Z: 5}, idx0)
	id := p.AddMolecule(m)

	cat := rxn.NewCatalogue()
	rng := rngx.NewStream(1)
	placer := &reactex.Placer{Partition: p, Rng: rng}
	stepper := NewStepper(p, cat, rng, placer)

	prods, alive, err := stepper.Step(id, 1e-6, 0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !alive {
		tst.Fatalf("expected the molecule to survive a collision-free step")
	}
	if len(prods) != 0 {
		tst.Fatalf("expected no products from a collision-free step")
	}

	moved := p.Molecules[id]
	if moved.Pos.Sub(geom.Vec3{X: 5, Y: 5, Z: 5}).Len() < 1e-12 {
		tst.Fatalf("expected the molecule to have been displaced")
	}
	wantIdx, werr := p.SubpartIndex(moved.Pos)
	if werr != nil {
		tst.Fatalf("unexpected out-of-domain after a small step: %v", werr)
	}
	chk.IntAssert(moved.SubpartIndex, wantIdx)
}

// Test_step_reflection01 reproduces spec 8 scenario 3 end-to-end through
// Stepper.Step: a non-reactive wall at z=5 must reflect a molecule crossing
// it, landing it back on the starting side.
func Test_step_reflection01(tst *testing.T) {

	chk.PrintTitle("step_reflection01")

	p := part.NewPartition(geom.Vec3{}, 10.0, 4, 0.01, false)
	sp := &part.Species{Id: 1, IsVol: true, CanDiffuse: true, DtS: 1e-6, Sigma: 1.0}
	p.AddSpecies(sp)

	p.Vertices = []part.Vertex{
		{Pos: geom.Vec3{X: -10, Y: -10, Z: 5}},
		{Pos: geom.Vec3{X: 20, Y: -10, Z: 5}},
		{Pos: geom.Vec3{X: -10, Y: 20, Z: 5}},
	}
	w := part.NewWall(p.Vertices[0].Pos, p.Vertices[1].Pos, p.Vertices[2].Pos)
	w.Verts = [3]int{0, 1, 2}
	p.AddWall(w)

	// start a hair below the wall: any sampled displacement either moves
	// further away (still below) or crosses and must be reflected back.
	startPos := geom.Vec3{X: 5, Y: 5, Z: 5 - 1e-9}
	idx0, _ := p.SubpartIndex(startPos)
	m := part.NewVolumeMolecule(0, 1, startPos, idx0)
	m.ActNewbie = false
	m.UnimolRxTime = 1e9
	id := p.AddMolecule(m)

	cat := rxn.NewCatalogue()
	rng := rngx.NewStream(7)
	placer := &reactex.Placer{Partition: p, Rng: rng}
	stepper := NewStepper(p, cat, rng, placer)

	_, alive, err := stepper.Step(id, 1e-6, 0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !alive {
		tst.Fatalf("expected the molecule to survive a reflective wall hit")
	}

	moved := p.Molecules[id]
	if moved.Pos.Z >= 5 {
		tst.Fatalf("expected the molecule to stay on the starting side of the wall, got z=%v", moved.Pos.Z)
	}
}

// Test_step_unimolecular01 reproduces spec 8 scenario 5 ("unimolecular
// decay"): once a molecule's scheduled unimolecular clock has elapsed,
// Step must fire the reaction unconditionally, place its product, and
// defunct the reactant, rather than silently doing nothing.
func Test_step_unimolecular01(tst *testing.T) {

	chk.PrintTitle("step_unimolecular01")

	p := part.NewPartition(geom.Vec3{}, 10.0, 4, 0.01, false)
	spA := &part.Species{Id: 1, IsVol: true, CanDiffuse: true, DtS: 1e-6, Sigma: 0.01}
	spB := &part.Species{Id: 2, IsVol: true, CanDiffuse: true, DtS: 1e-6, Sigma: 0.01}
	p.AddSpecies(spA)
	p.AddSpecies(spB)

	cat := rxn.NewCatalogue()
	rc := rxn.NewRxnClass([]int{1}, []rxn.Pathway{
		{Probability: 1.0, Products: []rxn.Product{{SpeciesId: 2}}},
	}, rxn.Standard)
	cat.AddUnimol(rc)

	idx0, _ := p.SubpartIndex(geom.Vec3{X: 5, Y: 5, Z: 5})
	m := part.NewVolumeMolecule(0, 1, geom.Vec3{X: 5, Y: 5, Z: 5}, idx0)
	m.ActNewbie = false
	m.UnimolRxTime = 0 // already elapsed by the time Step is called below
	id := p.AddMolecule(m)

	rng := rngx.NewStream(5)
	placer := &reactex.Placer{Partition: p, Rng: rng}
	stepper := NewStepper(p, cat, rng, placer)

	prods, alive, err := stepper.Step(id, 1e-6, 0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if alive {
		tst.Fatalf("expected the reactant to be consumed by its unimolecular decay")
	}
	if len(prods) != 1 {
		tst.Fatalf("expected exactly one product, got %d", len(prods))
	}
	if !p.Molecules[id].Defunct {
		tst.Fatalf("expected the reactant to be defuncted")
	}
	prod := p.Molecules[prods[0]]
	chk.IntAssert(prod.SpeciesId, 2)
}
