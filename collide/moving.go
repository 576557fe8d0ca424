// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
)

// MovingEdge describes one edge (k,m)->(l,n) moving linearly in time,
// parametrized by t in [0,1] (spec 4.4 "Moving-wall vs segment"). Kept
// only for interface completeness: the kernel's core treats geometry as
// static (spec 9 "Dynamic geometry"); no caller constructs a MovingEdge
// today.
type MovingEdge struct {
	K, M geom.Vec3 // edge endpoints at t=0
	L, N geom.Vec3 // edge endpoints at t=1
}

func (e MovingEdge) at(t float64) (o geom.Vec3, p geom.Vec3) {
	o = e.K.Add(e.L.Sub(e.K).Scale(t))
	p = e.M.Add(e.N.Sub(e.M).Scale(t))
	return
}

// MovingWallVsSegment Newton-iterates to find the time t at which a
// moving edge and a molecule's traced segment (from e to f) share a
// plane (spec 4.4), and returns that time; no static line test is run on
// it here. Returns ok=false if the iteration fails to converge, leaves
// [0,1], or hits df=0 & f!=0 (no crossing).
func MovingWallVsSegment(edge MovingEdge, e, f geom.Vec3) (t float64, ok bool) {
	fn := func(t float64) float64 {
		o, p := edge.at(t)
		ef := e.Sub(f)
		op := o.Sub(f)
		pf := p.Sub(f)
		return ef.Cross(op).Dot(pf)
	}

	t = 0.5
	const maxIter = 50
	const dt = 1e-6
	converged := false
	for i := 0; i < maxIter; i++ {
		fv := fn(t)
		df := (fn(t+dt) - fn(t-dt)) / (2 * dt)
		if math.Abs(df) < geom.EPS {
			if math.Abs(fv) < geom.EPS {
				return t, true
			}
			return 0, false // df=0 & f!=0: no crossing
		}
		tNext := t - fv/df
		if math.Abs(tNext-t) < geom.EPS {
			t = tNext
			converged = true
			break
		}
		t = tNext
		if t < 0 || t > 1 {
			return 0, false
		}
	}
	if !converged || t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
