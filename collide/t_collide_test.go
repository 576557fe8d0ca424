// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

func Test_molmol01(tst *testing.T) {

	chk.PrintTitle("molmol01")

	pos := geom.Vec3{X: 0, Y: 0, Z: 0}
	d := geom.Vec3{X: 1, Y: 0, Z: 0}
	target := geom.Vec3{X: 0.5, Y: 0.005, Z: 0}

	hit, ok := MolMol(pos, d, target, 0.01)
	if !ok {
		tst.Fatalf("expected a collision")
	}
	chk.Scalar(tst, "tau", 1e-12, hit.Tau, 0.5)
}

func Test_molmol_behind01(tst *testing.T) {

	chk.PrintTitle("molmol_behind01")

	pos := geom.Vec3{X: 1, Y: 0, Z: 0}
	d := geom.Vec3{X: 1, Y: 0, Z: 0}
	target := geom.Vec3{X: 0, Y: 0, Z: 0}

	_, ok := MolMol(pos, d, target, 0.01)
	if ok {
		tst.Fatalf("target behind mover must not collide")
	}
}

// Test_raytri_reflection01 reproduces spec 8 scenario 3: a wall at z=0.5,
// molecule at (0.5,0.5,0.4) displaced by (0,0,0.2); the reflected
// remainder should land at z=0.4 (mirror about the wall).
func Test_raytri_reflection01(tst *testing.T) {

	chk.PrintTitle("raytri_reflection01")

	v0 := geom.Vec3{X: 0, Y: 0, Z: 0.5}
	v1 := geom.Vec3{X: 1, Y: 0, Z: 0.5}
	v2 := geom.Vec3{X: 0, Y: 1, Z: 0.5}
	w := part.NewWall(v0, v1, v2)

	pos := geom.Vec3{X: 0.5, Y: 0.5, Z: 0.4}
	d := geom.Vec3{X: 0, Y: 0, Z: 0.2}

	hit := RayTriangle(pos, d, w, false, nil)
	if hit.Outcome != Front && hit.Outcome != Back {
		tst.Fatalf("expected a wall hit, got %v", hit.Outcome)
	}
	chk.Scalar(tst, "tau", 1e-9, hit.Tau, 0.5)

	n := w.Normal
	dDot := d.Dot(n)
	reflected := d.Sub(n.Scale(2 * dDot)).Scale(1 - hit.Tau)
	finalPos := hit.Point.Add(reflected)
	chk.Scalar(tst, "z", 1e-9, finalPos.Z, 0.4)
}
