// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

func Test_walk01(tst *testing.T) {

	chk.PrintTitle("walk01")

	p := part.NewPartition(geom.Vec3{}, 1.0, 4, 0.01, false)
	pos := geom.Vec3{X: 0.05, Y: 0.05, Z: 0.05}
	d := geom.Vec3{X: 0.5, Y: 0, Z: 0}

	res := Walk(p, pos, d, 0.01)
	if res.LeftDomain {
		tst.Fatalf("should not leave domain")
	}
	if len(res.WallOrder) < 2 {
		tst.Fatalf("expected the ray to cross at least 2 subparts, got %d", len(res.WallOrder))
	}
	// starting subpart must be first in the ordered list
	i0, _ := p.SubpartIndex(pos)
	if res.WallOrder[0] != i0 {
		tst.Fatalf("expected first entry to be the starting subpart")
	}
	destExpected, _ := p.SubpartIndex(pos.Add(d))
	if res.Dest != destExpected {
		tst.Fatalf("expected dest=%d got %d", destExpected, res.Dest)
	}
}

func Test_walk_outofdomain01(tst *testing.T) {

	chk.PrintTitle("walk_outofdomain01")

	p := part.NewPartition(geom.Vec3{}, 1.0, 4, 0.01, false)
	pos := geom.Vec3{X: 0.9, Y: 0.5, Z: 0.5}
	d := geom.Vec3{X: 0.5, Y: 0, Z: 0}

	res := Walk(p, pos, d, 0.01)
	if !res.LeftDomain {
		tst.Fatalf("expected LeftDomain=true when the ray exits the box")
	}
}
