// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package collide implements the collision detectors of spec 4.4
// (component F): the volume-volume disk test, ray-triangle wall test with
// edge/corner jump-away disambiguation, and the moving-wall vs segment
// test kept for interface completeness.
package collide

import "github.com/mcellgo/rxkernel/geom"

// MolHit is the result of a successful disk test: the collision time
// (fraction of d) and point.
type MolHit struct {
	Tau   float64
	Point geom.Vec3
}

// MolMol implements the volume-volume disk test (spec 4.4): for mover
// with displacement d starting at pos, and target at targetPos with
// interaction radius sigma, reports whether they collide within this
// step and, if so, at what fractional time and point.
func MolMol(pos, d, targetPos geom.Vec3, sigma float64) (MolHit, bool) {
	r := targetPos.Sub(pos)
	d2 := d.Len2()
	if d2 < geom.EPS {
		return MolHit{}, false
	}
	rd := r.Dot(d)
	if rd < 0 {
		return MolHit{}, false // target behind mover
	}
	if rd > d2 {
		return MolHit{}, false // beyond this step
	}
	r2 := r.Len2()
	lhs := d2*r2 - rd*rd
	rhs := d2 * sigma * sigma
	if lhs > rhs {
		return MolHit{}, false // closest approach farther than sigma
	}
	tau := rd / d2
	point := pos.Add(d.Scale(tau))
	return MolHit{Tau: tau, Point: point}, true
}
