// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "github.com/mcellgo/rxkernel/geom"
import "github.com/mcellgo/rxkernel/part"

// IsPointInsideWalls implements spec 4.9 "point inside closed surface":
// casts an axis-parallel ray of length edgeLen from p, counts ray-triangle
// non-REDO hits against the given walls, and reports inside iff the count
// is odd. REDO outcomes must never occur here (no caller may request
// update_move/Redo for a containment test, spec 4.4 "REDO semantics"), so
// RayTriangle is always called with updateMove=false.
func IsPointInsideWalls(p geom.Vec3, walls []*part.Wall, edgeLen float64) bool {
	d := geom.Vec3{X: edgeLen, Y: 0, Z: 0}
	count := 0
	for _, w := range walls {
		hit := RayTriangle(p, d, w, false, nil)
		switch hit.Outcome {
		case Front, Back:
			if hit.Tau >= 0 && hit.Tau <= 1 {
				count++
			}
		}
	}
	return count%2 == 1
}
