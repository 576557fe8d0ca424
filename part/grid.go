// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
)

// Grid is the triangular tile decomposition of a wall used for
// surface-molecule occupancy (spec 3 "Wall", component C, spec 4.7
// "uv->tile"). The wall is cut into N strips along v and each strip into N
// equal-width stripes of two tiles (one upright, one inverted), giving 2N^2
// tile slots; tiles in different strips differ in area.
type Grid struct {
	N            int          // tiles per edge
	Vert0        geom.Vec2    // grid-local origin; stored only, never subtracted from uv coordinates
	InvStripW    float64      // 1 / (strip width in v)
	Occupant     []MoleculeId // occupant[tile] = molecule id, or -1 if empty
	EmptyMarker  MoleculeId
}

// NewGrid builds an empty grid of 2N^2 tile slots for a wall whose local triangle has
// height vHeight (the v-extent of the triangle, vertex2's v coordinate at
// full height).
func NewGrid(n int, vHeight float64, vert0 geom.Vec2) *Grid {
	occ := make([]MoleculeId, 2*n*n)
	for i := range occ {
		occ[i] = -1
	}
	return &Grid{
		N:           n,
		Vert0:       vert0,
		InvStripW:   float64(n) / vHeight,
		Occupant:    occ,
		EmptyMarker: -1,
	}
}

// UVtoTile implements uv->tile (spec 4.7): strip index
// strip = N - floor(v*inv_strip_width) - 1; within-strip position yields
// stripe and flip bits; final index = strip*2N + 2*stripe + flip.
func (g *Grid) UVtoTile(p geom.Vec2, uvVert1U float64, uvVert2 geom.Vec2) int {
	n := g.N
	strip := n - int(math.Floor(p.V*g.InvStripW)) - 1
	if strip < 0 {
		strip = 0
	}
	if strip >= n {
		strip = n - 1
	}

	// width of the triangle's base at this strip's lower v-bound, by
	// linear interpolation between the base (v=0, width=uvVert1U) and the
	// apex (v=uvVert2.V, width=0); the strip subdivides [0,1] fractional
	// width into n stripes of 2 tiles each (one upright, one inverted).
	vLow := float64(n-strip-1) / float64(n) * uvVert2.V
	frac := 1.0
	if uvVert2.V > geom.EPS {
		frac = 1 - vLow/uvVert2.V
	}
	baseWidth := uvVert1U * frac
	stripeWidth := baseWidth / float64(n)

	u0 := uvVert2.U * (vLow / maxNonZero(uvVert2.V)) // horizontal offset of strip's left edge at apex-ward interpolation
	localU := p.U - u0
	stripe := int(math.Floor(localU / maxNonZero(stripeWidth)))
	if stripe < 0 {
		stripe = 0
	}
	if stripe >= n {
		stripe = n - 1
	}

	// flip bit: within a stripe, the tile is inverted (apex-down) in the
	// upper triangular half.
	stripeU0 := u0 + float64(stripe)*stripeWidth
	flip := 0
	relU := (p.U - stripeU0) / maxNonZero(stripeWidth)
	relV := (p.V - vLow) / maxNonZero(uvVert2.V-vLow)
	if relU+relV > 1 {
		flip = 1
	}

	return strip*2*n + 2*stripe + flip
}

func maxNonZero(v float64) float64 {
	if math.Abs(v) < geom.EPS {
		return geom.EPS
	}
	return v
}

// Occupied reports whether tile i already holds a molecule.
func (g *Grid) Occupied(tile int) bool {
	return g.Occupant[tile] != g.EmptyMarker
}

// Place assigns molecule id to tile, clearing any previous tile the
// molecule held (oldTile, or -1 if none). Per spec 3 invariant, tiles
// hold at most one molecule; callers must check Occupied first.
func (g *Grid) Place(tile int, id MoleculeId, oldTile int) {
	if oldTile >= 0 {
		g.Occupant[oldTile] = g.EmptyMarker
	}
	g.Occupant[tile] = id
}

// Clear empties a tile (the molecule there became defunct or moved off
// this wall).
func (g *Grid) Clear(tile int) {
	g.Occupant[tile] = g.EmptyMarker
}
