// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Frame holds the 2D local coordinate basis of a wall: unit_u and unit_v
// are orthonormal vectors in the plane of the triangle, anchored at vertex
// 0 (v0). Vertex 1 sits at (uvVert1U, 0) and vertex 2 at uvVert2 in this
// frame (spec 3, Wall).
type Frame struct {
	V0       Vec3
	UnitU    Vec3
	UnitV    Vec3
	UVVert1U float64
	UVVert2  Vec2
}

// UVtoXYZ implements uv→xyz(a; w, v0) = v0 + a.u·unit_u + a.v·unit_v.
func UVtoXYZ(a Vec2, f Frame) Vec3 {
	return f.V0.Add(f.UnitU.Scale(a.U)).Add(f.UnitV.Scale(a.V))
}

// XYZtoUV implements xyz→uv(p; w): projects p onto the wall's local frame.
// No grid origin (Grid.Vert0) is subtracted, here or by any caller (spec
// 4.1).
func XYZtoUV(p Vec3, f Frame) Vec2 {
	d := p.Sub(f.V0)
	return Vec2{d.Dot(f.UnitU), d.Dot(f.UnitV)}
}

// EdgeXform is the rigid-body transform stored on a shared wall edge.
// Applied as TraverseSurface applies it (forward or inverted by the edge's
// orientation bit), it re-expresses a point in this wall's local uv frame
// in the neighbor wall's frame. Rotation is stored as (cos θ, sin θ) per
// spec 3.
type EdgeXform struct {
	Cos, Sin     float64
	Translate    Vec2
	NeighborWall int // wall index on the other side of the edge
	NeighborEdge int // which edge index in the neighbor's frame
}

// TraverseSurface implements traverse_surface (spec 4.1): re-expresses loc,
// currently in the local frame of wall w, in the local frame of the wall on
// the other side of edge `which`, given the forward transform xf stored on
// that edge. forward indicates crossing in the edge's stored orientation;
// backward crossings apply the inverse transform.
func TraverseSurface(loc Vec2, xf EdgeXform, forward bool) Vec2 {
	if forward {
		return loc.Rotate(xf.Cos, xf.Sin).Add(xf.Translate)
	}
	// inverse of rotate-then-translate: subtract translation, rotate by -θ
	d := loc.Sub(xf.Translate)
	return d.Rotate(xf.Cos, -xf.Sin)
}
