// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package trace implements the ray-subpart tracer (spec 4.3, component E):
// enumerating the subpartitions a proposed displacement crosses, plus a
// safety halo for molecule collision testing.
package trace

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

// Result is the output contract of the ray-subpart tracer (spec 4.3): an
// ordered list of subparts to test for wall collisions (only those the
// open segment pierces, including the start), an unordered set of
// subparts to test for molecule collisions (including the neighbor halo),
// and the destination subpart index.
type Result struct {
	WallOrder  []int       // ordered, for wall testing
	MolSet     map[int]bool // unordered, for molecule testing (includes halo)
	Dest       int
	LeftDomain bool // an axis index left the domain mid-walk; the walk stops there and Dest and the destination halo are not set
}

const sqrt2 = 1.4142135623730951

// Walk implements the "slab" walker of spec 4.3. pos is the molecule's
// starting position (in subpartition i0), d the proposed displacement,
// r the interaction radius.
func Walk(p *part.Partition, pos, d geom.Vec3, r float64) *Result {
	res := &Result{MolSet: make(map[int]bool)}

	ix, iy, iz := p.Subpart3D(pos)
	if !p.InDomain(ix, iy, iz) {
		res.LeftDomain = true
		return res
	}
	i0 := p.Index3D(ix, iy, iz)
	res.WallOrder = append(res.WallOrder, i0)
	res.MolSet[i0] = true
	addHalo(p, res, ix, iy, iz, pos, r)

	edge := p.SubpartEdge
	sign := [3]int{signum(d.X), signum(d.Y), signum(d.Z)}
	idx := [3]int{ix, iy, iz}
	cur := pos

	// plane coordinate of the next crossing along each axis, from the
	// subpartition's own low/high face given the current index.
	nextPlane := func(axis int) float64 {
		lo := p.Origin.Component(axis) + float64(idx[axis])*edge
		if sign[axis] > 0 {
			return lo + edge
		}
		return lo
	}

	remaining := 1.0 // parametric distance left to travel along d, in [0,1]
	for remaining > geom.EPS {
		var tAxis [3]float64
		for axis := 0; axis < 3; axis++ {
			dk := d.Component(axis)
			if sign[axis] == 0 || math.Abs(dk) < geom.EPS {
				tAxis[axis] = math.Inf(1)
				continue
			}
			plane := nextPlane(axis)
			t := (plane - cur.Component(axis)) / dk
			if t < 0 {
				t = 0
			}
			tAxis[axis] = t
		}

		// pick smallest non-negative t, ties broken x->y->z
		best := -1
		bestT := math.Inf(1)
		for axis := 0; axis < 3; axis++ {
			if tAxis[axis] < bestT-geom.EPS {
				best = axis
				bestT = tAxis[axis]
			}
		}
		if best == -1 || bestT >= remaining {
			break // destination subpart reached within this subpart
		}

		cur = cur.Add(d.Scale(bestT))
		remaining -= bestT
		idx[best] += sign[best]

		if !p.InDomain(idx[0], idx[1], idx[2]) {
			res.LeftDomain = true
			break
		}
		i := p.Index3D(idx[0], idx[1], idx[2])
		res.WallOrder = append(res.WallOrder, i)
		res.MolSet[i] = true
		addHalo(p, res, idx[0], idx[1], idx[2], cur, r)
	}

	if !res.LeftDomain {
		res.Dest = p.Index3D(idx[0], idx[1], idx[2])
		addHalo(p, res, idx[0], idx[1], idx[2], pos.Add(d), r)
	}
	return res
}

// addHalo implements spec 4.3 step 3: for each axis, if the point is
// within r*sqrt2 of the low/high face of the current subpart, include the
// neighboring subpart; also include edge- and corner-adjacent
// subpartitions whose axis flags were all triggered.
func addHalo(p *part.Partition, res *Result, ix, iy, iz int, at geom.Vec3, r float64) {
	margin := r * sqrt2
	edge := p.SubpartEdge

	var lowFlag, highFlag [3]bool
	idx := [3]int{ix, iy, iz}
	for axis := 0; axis < 3; axis++ {
		lo := p.Origin.Component(axis) + float64(idx[axis])*edge
		hi := lo + edge
		c := at.Component(axis)
		if c-lo <= margin {
			lowFlag[axis] = true
		}
		if hi-c <= margin {
			highFlag[axis] = true
		}
	}

	// enumerate the (at most) 3^3 offsets but only along axes whose flag
	// fired, satisfying "4 edge-adjacent and 1 corner-adjacent" coverage
	// when multiple axis flags are set simultaneously.
	offsets := func(axis int) []int {
		o := []int{0}
		if lowFlag[axis] {
			o = append(o, -1)
		}
		if highFlag[axis] {
			o = append(o, 1)
		}
		return o
	}

	for _, ox := range offsets(0) {
		for _, oy := range offsets(1) {
			for _, oz := range offsets(2) {
				if ox == 0 && oy == 0 && oz == 0 {
					continue
				}
				nx, ny, nz := ix+ox, iy+oy, iz+oz
				if !p.InDomain(nx, ny, nz) {
					continue
				}
				res.MolSet[p.Index3D(nx, ny, nz)] = true
			}
		}
	}
}

func signum(v float64) int {
	if v > geom.EPS {
		return 1
	}
	if v < -geom.EPS {
		return -1
	}
	return 0
}
