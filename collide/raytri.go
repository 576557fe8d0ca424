// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

// EpsD is the plane-side slack tolerance (spec 4.4 "same side... with
// slack ε_d").
const EpsD = 1e-10

// EpsC is the triangle-edge tie tolerance that triggers jump_away_line
// (spec 4.4 "Ties with tolerance EPS_C").
const EpsC = 1e-10

// Outcome tags a collision test result (spec 9 "Polymorphism": a small
// tagged variant, not a class hierarchy).
type Outcome int

const (
	Miss Outcome = iota
	Front
	Back
	Redo
)

// WallHit is the result of RayTriangle.
type WallHit struct {
	Outcome Outcome
	Tau     float64   // hit parameter a, valid when Outcome is Front or Back
	Point   geom.Vec3 // hit point in world space
	UV      geom.Vec2 // hit point in the wall's local frame
	NewD    geom.Vec3 // perturbed displacement, valid when Outcome is Redo
}

// RayTriangle implements the ray-triangle wall collision test (spec 4.4).
// pos is the ray origin, d the displacement, w the candidate wall.
// updateMove controls whether a coplanar/ambiguous hit perturbs d and
// requests a Redo, or is simply reported as a Miss (used by non-mutating
// callers such as region containment tests, which must never Redo per
// spec 4.4 "REDO semantics").
func RayTriangle(pos, d geom.Vec3, w *part.Wall, updateMove bool, rng geom.SignSource) WallHit {
	n := w.Normal
	D := w.D

	dp := n.Dot(pos)
	dv := n.Dot(d)
	dd := dp - D

	if math.Abs(dv) < geom.EPS {
		// path parallel to the plane
		if math.Abs(dd) < EpsD {
			// coplanar
			if !updateMove {
				return WallHit{Outcome: Miss}
			}
			sign := rng.Sign()
			var newD geom.Vec3
			if sign < 0 {
				newD = d.Sub(n.Scale(EpsC * (pos.MaxAbs() + d.MaxAbs() + 1)))
			} else {
				newD = d.Scale(1 - EpsC)
			}
			return WallHit{Outcome: Redo, NewD: newD}
		}
		return WallHit{Outcome: Miss}
	}

	ddEnd := dd + dv
	if sameSign(dd, ddEnd, EpsD) {
		return WallHit{Outcome: Miss}
	}

	a := -dd / dv
	hit := pos.Add(d.Scale(a))
	uv := geom.XYZtoUV(hit, w.Frame)

	va, vb, vc := w.LocalTriangle()
	inside, ambiguous := pointInTriangleTied(uv, va, vb, vc)
	if ambiguous {
		if !updateMove {
			return WallHit{Outcome: Miss}
		}
		A, B := edgeEndpoints(w, uv, va, vb, vc)
		newD := geom.JumpAwayLine(pos, d, A, B, n, 1, rng)
		return WallHit{Outcome: Redo, NewD: newD}
	}
	if !inside {
		return WallHit{Outcome: Miss}
	}

	outcome := Front
	if dv > 0 {
		outcome = Back
	}
	return WallHit{Outcome: outcome, Tau: a, Point: hit, UV: uv}
}

func sameSign(a, b, eps float64) bool {
	if math.Abs(a) < eps || math.Abs(b) < eps {
		return false
	}
	return (a > 0) == (b > 0)
}

// pointInTriangleTied runs the three 2D sign tests of
// geom.PointInTriangle2D but additionally reports when any cross product
// lies within EpsC of zero (a tie that must be disambiguated by
// jump_away_line rather than silently classified as inside/outside).
func pointInTriangleTied(p, a, b, c geom.Vec2) (inside, ambiguous bool) {
	d1 := geom.Cross2D(b.Sub(a), p.Sub(a))
	d2 := geom.Cross2D(c.Sub(b), p.Sub(b))
	d3 := geom.Cross2D(a.Sub(c), p.Sub(c))

	tie := math.Abs(d1) < EpsC || math.Abs(d2) < EpsC || math.Abs(d3) < EpsC
	hasNeg := d1 < -EpsC || d2 < -EpsC || d3 < -EpsC
	hasPos := d1 > EpsC || d2 > EpsC || d3 > EpsC
	inside = !(hasNeg && hasPos)
	// a genuine tie only matters when it could flip the inside/outside
	// verdict, i.e. when the other two tests don't already agree cleanly.
	ambiguous = tie && hasNeg && hasPos
	return
}

// edgeEndpoints returns the world-space endpoints of the triangle edge
// closest to the tied uv point, for jump_away_line's (A,B) arguments.
func edgeEndpoints(w *part.Wall, p, a, b, c geom.Vec2) (geom.Vec3, geom.Vec3) {
	edges := [3][2]geom.Vec2{{a, b}, {b, c}, {c, a}}
	best := 0
	bestDist := math.Inf(1)
	for i, e := range edges {
		dist := math.Abs(geom.Cross2D(e[1].Sub(e[0]), p.Sub(e[0])))
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	e := edges[best]
	return geom.UVtoXYZ(e[0], w.Frame), geom.UVtoXYZ(e[1], w.Frame)
}
