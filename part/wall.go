// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
)

// Edge is one of a wall's three edges: the adjacent wall on the other
// side (-1 if this is a mesh boundary edge with no neighbor) and the
// rigid-body transform that, applied as Forward says, re-expresses a point
// in this wall's local uv frame in the neighbor's frame (spec 3 "Wall").
type Edge struct {
	NeighborWall int // -1 if boundary edge
	NeighborIdx  int // which edge index in the neighbor's own frame
	Xform        geom.EdgeXform
	Forward      bool // orientation bit: true if crossing this edge applies Xform forward
}

// Wall is a triangle of the static mesh (spec 3 "Wall").
type Wall struct {
	Verts  [3]int // vertex indices
	Normal geom.Vec3
	D      float64 // signed distance to origin along Normal
	Frame  geom.Frame
	Edges  [3]Edge
	Grid   *Grid // optional N^2 tile decomposition for surface molecules
	Regions []int // region ids this wall belongs to
}

// PlaneCoord returns n.pos for a point pos, the dp term used by the
// ray-triangle test (spec 4.4).
func (w *Wall) PlaneCoord(pos geom.Vec3) float64 {
	return w.Normal.Dot(pos)
}

// LocalTriangle returns the wall's three vertices expressed in its own
// local uv frame: (0,0), (uvVert1U,0), uvVert2.
func (w *Wall) LocalTriangle() (a, b, c geom.Vec2) {
	a = geom.Vec2{U: 0, V: 0}
	b = geom.Vec2{U: w.Frame.UVVert1U, V: 0}
	c = w.Frame.UVVert2
	return
}

// NewWall builds a Wall from three vertex positions (in the order given),
// computing its plane and local frame the way the reference initializer
// does: unit_u along (v1-v0), unit_v completing an orthonormal frame in
// the triangle's plane.
func NewWall(v0, v1, v2 geom.Vec3) *Wall {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	normal := e1.Cross(e2)
	area2 := normal.Len()
	if area2 < geom.EPS {
		chk.Panic("degenerate triangle: zero area (InvalidGeometry)")
	}
	normal = normal.Scale(1 / area2)

	unitU := e1.Unit()
	unitV := normal.Cross(unitU)

	frame := geom.Frame{
		V0:       v0,
		UnitU:    unitU,
		UnitV:    unitV,
		UVVert1U: e1.Len(),
		UVVert2:  geom.XYZtoUV(v2, geom.Frame{V0: v0, UnitU: unitU, UnitV: unitV}),
	}

	w := &Wall{
		Normal: normal,
		D:      normal.Dot(v0),
		Frame:  frame,
	}
	for i := range w.Edges {
		w.Edges[i].NeighborWall = -1
	}
	return w
}

// AABB returns the wall's axis-aligned bounding box, given its resolved
// vertex positions.
func (w *Wall) AABB(v0, v1, v2 geom.Vec3) (lo, hi geom.Vec3) {
	lo = geom.Vec3{X: min3(v0.X, v1.X, v2.X), Y: min3(v0.Y, v1.Y, v2.Y), Z: min3(v0.Z, v1.Z, v2.Z)}
	hi = geom.Vec3{X: max3(v0.X, v1.X, v2.X), Y: max3(v0.Y, v1.Y, v2.Y), Z: max3(v0.Z, v1.Z, v2.Z)}
	return
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
