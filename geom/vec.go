// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements the pure geometric primitives used by the
// diffuse-and-react kernel: 3D/2D vector algebra, triangle containment and
// closest-point queries, and the wall-local uv frame transforms used for
// surface diffusion.
package geom

import "math"

// Vec3 is a point or free vector in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a point or free vector in a wall's local uv frame.
type Vec2 struct {
	U, V float64
}

// Add returns a+b
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a-b
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a*s
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns a.b
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a×b
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len2 returns |a|²
func (a Vec3) Len2() float64 { return a.Dot(a) }

// Len returns |a|
func (a Vec3) Len() float64 { return math.Sqrt(a.Len2()) }

// Unit returns a/|a|; a zero-length vector is not guarded here (the result
// is NaN, no panic), callers must ensure a is not (numerically) zero.
func (a Vec3) Unit() Vec3 {
	l := a.Len()
	return a.Scale(1 / l)
}

// Component returns the i-th component (0=x,1=y,2=z); used by code that
// walks axes in a loop, such as the ray-subpart tracer.
func (a Vec3) Component(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// MaxAbs returns max(|x|,|y|,|z|)
func (a Vec3) MaxAbs() float64 {
	m := math.Abs(a.X)
	if v := math.Abs(a.Y); v > m {
		m = v
	}
	if v := math.Abs(a.Z); v > m {
		m = v
	}
	return m
}

// Add returns a+b
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.U + b.U, a.V + b.V} }

// Sub returns a-b
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.U - b.U, a.V - b.V} }

// Scale returns a*s
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.U * s, a.V * s} }

// Dot returns a.b
func (a Vec2) Dot(b Vec2) float64 { return a.U*b.U + a.V*b.V }

// Len2 returns |a|²
func (a Vec2) Len2() float64 { return a.Dot(a) }

// Len returns |a|
func (a Vec2) Len() float64 { return math.Sqrt(a.Len2()) }

// Rotate returns a rotated by the (cos,sin) pair of an edge transform
func (a Vec2) Rotate(cos, sin float64) Vec2 {
	return Vec2{a.U*cos - a.V*sin, a.U*sin + a.V*cos}
}

// Cross2D computes u.v*v.u - u.u*v.v, the scalar 2D cross product used by
// point_in_triangle_2D. Per spec 4.1: cross2D(u,v) = u.v·v.u − u.u·v.v (note
// the sign convention matches the reference implementation's winding test,
// not the naive u×v determinant).
func Cross2D(u, v Vec2) float64 {
	return u.V*v.U - u.U*v.V
}
