// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
)

// MoleculeId is the stable, never-reused integer id of a molecule record
// (spec 3 "Molecule": "ids are never reused").
type MoleculeId int

// SurfacePos is the (wall, tile, uv, orientation) tuple that locates a
// surface molecule (spec 3 "Molecule").
type SurfacePos struct {
	WallIdx     int
	TileIdx     int
	UV          geom.Vec2
	Orientation int // +1 or -1, the side of the wall the molecule faces
}

// Molecule is one particle record, volume or surface (spec 3 "Molecule").
type Molecule struct {
	Id           MoleculeId
	SpeciesId    int
	SubpartIndex int // only meaningful for volume molecules; spec 3 invariant
	Pos          geom.Vec3  // volume position; zero-value when IsSurface
	IsSurface    bool
	Surf         SurfacePos // valid iff IsSurface

	UnimolRxTime float64 // absolute scheduled time of next unimolecular event; +Inf if none
	ActNewbie    bool    // true until the unimolecular clock has been sampled once
	Defunct      bool    // tombstoned; never reused
}

// NewVolumeMolecule creates a newly-born volume molecule. Its unimolecular
// clock is not yet sampled (ActNewbie=true); the diffusion step samples it
// on first touch per spec 4.5 step 1.
func NewVolumeMolecule(id MoleculeId, speciesId int, pos geom.Vec3, subpart int) *Molecule {
	return &Molecule{
		Id:           id,
		SpeciesId:    speciesId,
		SubpartIndex: subpart,
		Pos:          pos,
		UnimolRxTime: math.Inf(1),
		ActNewbie:    true,
	}
}

// NewSurfaceMolecule creates a newly-born surface molecule anchored to a
// wall tile.
func NewSurfaceMolecule(id MoleculeId, speciesId int, surf SurfacePos) *Molecule {
	return &Molecule{
		Id:           id,
		SpeciesId:    speciesId,
		IsSurface:    true,
		Surf:         surf,
		UnimolRxTime: math.Inf(1),
		ActNewbie:    true,
	}
}
