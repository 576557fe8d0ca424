// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rxn

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_rxnclass01(tst *testing.T) {

	chk.PrintTitle("rxnclass01")

	rc := NewRxnClass([]int{1, 2}, []Pathway{
		{Probability: 0.2, Products: []Product{{SpeciesId: 3}}},
		{Probability: 0.3, Products: []Product{{SpeciesId: 4}}},
	}, Standard)

	chk.Scalar(tst, "min_noreaction_p", 1e-15, rc.MinNoReactionP, 0.2)
	chk.Scalar(tst, "max_fixed_p", 1e-15, rc.MaxFixedP, 0.5)
	chk.Vector(tst, "cum_probs", 1e-15, rc.CumProbs, []float64{0.2, 0.5})

	// cum_probs non-decreasing and last == max_fixed_p (spec invariants)
	for i := 1; i < len(rc.CumProbs); i++ {
		if rc.CumProbs[i] < rc.CumProbs[i-1] {
			tst.Fatalf("cum_probs not non-decreasing")
		}
	}
	if rc.CumProbs[len(rc.CumProbs)-1] != rc.MaxFixedP {
		tst.Fatalf("cum_probs last element must equal max_fixed_p")
	}
}

func Test_rxnclass_binarysearch01(tst *testing.T) {

	chk.PrintTitle("rxnclass_binarysearch01")

	cum := []float64{0.2, 0.5, 1.0}
	chk.IntAssert(BinarySearch(cum, 0.1, 1), 0)
	chk.IntAssert(BinarySearch(cum, 0.2, 1), 0)
	chk.IntAssert(BinarySearch(cum, 0.25, 1), 1)
	chk.IntAssert(BinarySearch(cum, 0.9, 1), 2)
}

func Test_rxnclass_panics01(tst *testing.T) {

	chk.PrintTitle("rxnclass_panics01")

	defer func() {
		if r := recover(); r == nil {
			tst.Fatalf("expected panic for empty reactant tuple")
		}
	}()
	NewRxnClass(nil, []Pathway{{Probability: 0.1}}, Standard)
}
