// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/config"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

func newTestConfig() *config.Config {
	return &config.Config{
		PartitionEdgeLength:         10.0,
		NumSubpartitionsPerPartiton: 4,
		RxRadius3D:                  0.01,
		BaseTimeStep:                1e-6,
		CalendarStep:                1e-6,
		Seed:                        11,
		Species: []config.SpeciesDef{
			{Id: 1, Name: "A", D: 1e-6, CanDiffuse: true, TimeStepFactor: 1},
		},
	}
}

// Test_kernel_freediffusion01 drives one molecule through a whole
// Kernel.Run with no walls at all: the scheduler must dequeue the single
// diffuse action, move the molecule, and drain to an empty calendar.
func Test_kernel_freediffusion01(tst *testing.T) {

	chk.PrintTitle("kernel_freediffusion01")

	cfg := newTestConfig()
	k := New(cfg)

	idx0, _ := k.Partition.SubpartIndex(geom.Vec3{X: 5, Y: 5, Z: 5})
	m := part.NewVolumeMolecule(0, 1, geom.Vec3{X: 5, Y: 5, Z: 5}, idx0)
	m.ActNewbie = false
	m.UnimolRxTime = math.Inf(1)
	id := k.Partition.AddMolecule(m)
	k.ScheduleMolecule(id, 0, cfg.BaseTimeStep)

	if err := k.Run(100); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if k.Calendar.Len() != 0 {
		tst.Fatalf("expected the calendar to drain, got %d actions left", k.Calendar.Len())
	}

	moved := k.Partition.Molecules[id]
	if moved.Defunct {
		tst.Fatalf("expected the molecule to survive a collision-free diffusion step")
	}
	if moved.Pos.Sub(geom.Vec3{X: 5, Y: 5, Z: 5}).Len() < 1e-12 {
		tst.Fatalf("expected the molecule to have moved")
	}
}

// spySnapshot counts how many times OnMolecule fires, used to check that
// Run wires the optional snapshot seam through without requiring one.
type spySnapshot struct{ calls int }

func (s *spySnapshot) OnMolecule(iteration int, id part.MoleculeId, speciesId int, pos geom.Vec3) {
	s.calls++
}

func Test_kernel_snapshot01(tst *testing.T) {

	chk.PrintTitle("kernel_snapshot01")

	cfg := newTestConfig()
	k := New(cfg)
	spy := &spySnapshot{}
	k.Snapshot = spy

	idx0, _ := k.Partition.SubpartIndex(geom.Vec3{X: 5, Y: 5, Z: 5})
	m := part.NewVolumeMolecule(0, 1, geom.Vec3{X: 5, Y: 5, Z: 5}, idx0)
	m.ActNewbie = false
	m.UnimolRxTime = math.Inf(1)
	id := k.Partition.AddMolecule(m)
	k.ScheduleMolecule(id, 0, cfg.BaseTimeStep)

	if err := k.Run(100); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if spy.calls == 0 {
		tst.Fatalf("expected the attached snapshot observer to be called at least once")
	}
}

// Test_kernel_release01 reproduces spec 8's scenario setup ("Release N
// molecules at position X"): a config.Config carrying a release site
// must, by the time New returns, already have created and scheduled
// those molecules — no hand-built part.Molecule required.
func Test_kernel_release01(tst *testing.T) {

	chk.PrintTitle("kernel_release01")

	cfg := newTestConfig()
	cfg.Releases = []config.ReleaseDef{
		{SpeciesId: 1, Count: 3, X: 5, Y: 5, Z: 5},
	}
	k := New(cfg)

	live := 0
	for _, m := range k.Partition.Molecules {
		if !m.Defunct {
			live++
		}
	}
	chk.IntAssert(live, 3)
	if k.Calendar.Len() != 3 {
		tst.Fatalf("expected 3 scheduled diffuse actions, got %d", k.Calendar.Len())
	}

	if err := k.Run(100); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if k.Calendar.Len() != 0 {
		tst.Fatalf("expected the calendar to drain, got %d actions left", k.Calendar.Len())
	}
}
