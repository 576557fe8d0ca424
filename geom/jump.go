// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// SignSource supplies one random sign bit, consuming exactly one RNG draw.
// Implemented by rngx.Stream; kept as a local interface so geom does not
// import the rng package.
type SignSource interface {
	Sign() float64 // returns -1 or +1
}

// JumpAwayLine implements jump_away_line (spec 4.1): on an ambiguous
// corner/edge hit, perturbs displacement d by a tiny vector of magnitude
// EPS·(max|p|+max|v|+1)/(k·max|f|), where f = n × (B−A)/|B−A|, with a
// random sign drawn from rng. p is the ray origin, d the current
// displacement, A,B the endpoints of the offending edge, n the wall
// normal, and k a caller-supplied scale (1 unless the caller knows a
// tighter bound).
func JumpAwayLine(p, d, A, B, n Vec3, k float64, rng SignSource) Vec3 {
	edgeDir := B.Sub(A)
	edgeLen := edgeDir.Len()
	f := n.Cross(edgeDir.Scale(1 / edgeLen))

	maxF := f.MaxAbs()
	if maxF < EPS {
		maxF = EPS
	}
	mag := EPS * (p.MaxAbs() + d.MaxAbs() + 1) / (k * maxF)

	sign := rng.Sign()
	perturb := f.Scale(sign * mag)
	return d.Add(perturb)
}

// AbsTol reports whether |a-b| <= tol.
func AbsTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
