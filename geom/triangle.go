// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// EPS is the default absolute tolerance used throughout the geometric
// routines of this package, matching the reference kernel's EPS constant.
const EPS = 1e-10

// PointInTriangle2D implements point_in_triangle_2D (spec 4.1): sign
// agreement of three 2D cross products of p against the triangle (a,b,c).
// Points exactly on an edge are reported as inside (boundary-inclusive).
func PointInTriangle2D(p, a, b, c Vec2) bool {
	d1 := Cross2D(b.Sub(a), p.Sub(a))
	d2 := Cross2D(c.Sub(b), p.Sub(b))
	d3 := Cross2D(a.Sub(c), p.Sub(c))
	hasNeg := d1 < -EPS || d2 < -EPS || d3 < -EPS
	hasPos := d1 > EPS || d2 > EPS || d3 > EPS
	return !(hasNeg && hasPos)
}

// ClosestPointOnTriangle implements closest_point_on_triangle (spec 4.1):
// the exact Voronoi-region algorithm of Ericson, "Real-Time Collision
// Detection" §5.1.5. Returns the closest point on triangle (a,b,c) to p.
func ClosestPointOnTriangle(p, a, b, c Vec3) Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a // vertex region a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v)) // edge ab
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w)) // edge ac
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w)) // edge bc
	}

	// face region
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

// EdgeHit is the result tag of FindEdgePoint.
type EdgeHit int

const (
	// EdgeNone means the displaced point stays inside the triangle.
	EdgeNone EdgeHit = -1
	// EdgeAmbiguous means more than one edge reported a crossing at the
	// same parametric distance; the caller must perturb and retry.
	EdgeAmbiguous EdgeHit = -2
)

// FindEdgePoint implements find_edge_point (spec 4.1). loc is the mover's
// current 2D position inside the triangle (a at origin, b at (uvB,0), c at
// uvC, in the wall's local frame); disp is the proposed 2D displacement.
// Returns the index (0, 1 or 2) of the first edge crossed, EdgeNone if the
// displaced point remains inside, or EdgeAmbiguous if the test cannot
// disambiguate within EPS and the caller must retry with a perturbed disp.
func FindEdgePoint(loc, disp, a, b, c Vec2) EdgeHit {
	edges := [3][2]Vec2{{a, b}, {b, c}, {c, a}}

	type hit struct {
		edge int
		t    float64
	}
	var hits []hit

	for i, e := range edges {
		p0, p1 := e[0], e[1]
		edgeDir := p1.Sub(p0)
		// solve loc + t*disp = p0 + s*edgeDir for t,s
		denom := Cross2D(disp, edgeDir)
		if math.Abs(denom) < EPS {
			continue // parallel to this edge: never the first crossing
		}
		w := p0.Sub(loc)
		t := Cross2D(w, edgeDir) / denom
		if t <= EPS || t >= 1-EPS {
			continue
		}
		s := Cross2D(w, disp) / denom
		if s < -EPS || s > 1+EPS {
			continue
		}
		hits = append(hits, hit{i, t})
	}

	if len(hits) == 0 {
		return EdgeNone
	}

	best := hits[0]
	ambiguous := false
	for _, h := range hits[1:] {
		if h.t < best.t-EPS {
			best = h
			ambiguous = false
		} else if math.Abs(h.t-best.t) <= EPS {
			ambiguous = true
		}
	}
	if ambiguous {
		return EdgeAmbiguous
	}
	return EdgeHit(best.edge)
}
