// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactex

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

func Test_unimollifetime01(tst *testing.T) {

	chk.PrintTitle("unimollifetime01")

	s := rngx.NewStream(1)
	lifetime := ScheduleUnimolLifetime(nil, s)
	if !isInf(lifetime) {
		tst.Fatalf("expected +Inf lifetime with no unimolecular class")
	}

	rc := rxn.NewRxnClass([]int{1}, []rxn.Pathway{{Probability: 0.693147180560}}, rxn.Standard)
	t := ScheduleUnimolLifetime(rc, s)
	if t <= 0 {
		tst.Fatalf("expected a positive lifetime, got %v", t)
	}
}

func isInf(v float64) bool {
	return v > 1e300
}

func Test_testbimolecular01(tst *testing.T) {

	chk.PrintTitle("testbimolecular01")

	rc := rxn.NewRxnClass([]int{1, 2}, []rxn.Pathway{{Probability: 1.0}}, rxn.Standard)

	// p_min=1.0, scaling=10 => p_min<scaling branch; u=0 => p=0 < p_min => fire
	res := TestBimolecular(rc, 10, 1, 0)
	if !res.Fire {
		tst.Fatalf("expected a reaction to fire with u=0")
	}

	// u close to 1: p = 0.99*10 = 9.9 >= p_min=1 => no reaction
	res = TestBimolecular(rc, 10, 1, 0.99)
	if res.Fire {
		tst.Fatalf("expected no reaction with a near-1 draw and large scaling")
	}
}
