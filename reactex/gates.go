// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package reactex implements the reaction probability gates and the
// reaction executor of spec 4.6 (component H): unimolecular clock
// scheduling, the single- and multi-class bimolecular gates, pathway
// selection, and product placement / reactant defunction.
package reactex

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

// ScheduleUnimolLifetime implements spec 4.6 "Unimolecular time": on first
// touch (ACT_NEWBIE), t = -ln(U)/k_tot where k_tot = rxn_class.max_fixed_p.
// Returns +Inf if rc is nil (no unimolecular reaction exists for this
// species).
func ScheduleUnimolLifetime(rc *rxn.RxnClass, rng *rngx.Stream) float64 {
	if rc == nil || rc.MaxFixedP <= 0 {
		return math.Inf(1)
	}
	return rng.ExpDraw(rc.MaxFixedP)
}

// FireUnimolecular implements the firing half of spec 4.6's unimolecular
// reaction: by the time the caller gets here, rc's scheduled clock (see
// ScheduleUnimolLifetime) has already elapsed, so the reaction is certain
// to fire — the only remaining decision is which pathway, chosen with
// the same cum_probs binary search the bimolecular gate uses, weighted
// by each pathway's share of rc.MaxFixedP. point/wallIdx/uv locate the
// reacting molecule itself (its own position, for a unimolecular
// reaction has no collision point). If placement fails (spec 7
// TileFull), the reactant is left alive and untouched so the caller can
// retry it on the next event.
func FireUnimolecular(pl *Placer, rc *rxn.RxnClass, rng *rngx.Stream, id part.MoleculeId, point geom.Vec3, wallIdx int, uv geom.Vec2) ([]part.MoleculeId, error) {
	u := rng.Float64()
	pathway := rxn.BinarySearch(rc.CumProbs, u*rc.MaxFixedP, 1)
	prods, err := pl.ApplyPathway(rc.Pathways[pathway], point, wallIdx, uv)
	if err != nil {
		return nil, err
	}
	pl.DefunctReactant(id)
	return prods, nil
}

// GateResult is the outcome of a bimolecular probability gate: whether a
// reaction fires and, if so, which pathway within the class was chosen.
type GateResult struct {
	Fire    bool
	Pathway int
}

// TestBimolecular implements test_bimolecular (spec 4.6): the single
// bimolecular gate. scaling is the local Monte Carlo time-step scaling
// factor, localFactor accounts for local concentration/volume corrections
// (1 when none apply), u is one uniform draw in [0,1) already consumed
// from the shared RNG by the caller (spec 4.6 "Determinism": exactly one
// draw per decision, charged regardless of outcome).
func TestBimolecular(rc *rxn.RxnClass, scaling, localFactor, u float64) GateResult {
	pMin := rc.MinNoReactionP * math.Max(1, localFactor)

	if pMin < scaling {
		p := u * scaling
		if p >= pMin {
			return GateResult{Fire: false}
		}
		return GateResult{Fire: true, Pathway: rxn.BinarySearch(rc.CumProbs, p, localFactor)}
	}

	pMax := rc.MaxFixedP * math.Max(1, localFactor)
	if pMax >= scaling {
		p := u * pMax
		return GateResult{Fire: true, Pathway: rxn.BinarySearch(rc.CumProbs, p, localFactor)}
	}
	p := u * scaling
	if p >= pMax {
		return GateResult{Fire: false}
	}
	return GateResult{Fire: true, Pathway: rxn.BinarySearch(rc.CumProbs, p, localFactor)}
}

// ManyGateResult is the outcome of test_many_bimolecular: which class (if
// any) fired and which pathway within it.
type ManyGateResult struct {
	Fire      bool
	ClassIdx  int
	Pathway   int
}

// TestManyBimolecular implements test_many_bimolecular (spec 4.6): builds
// the cumulative array C[i] = C[i-1] + rxn_i.max_fixed_p*localFactor/scaling_i
// across candidate classes, draws against it, then pathway-picks within
// the chosen class using the residual probability rescaled by that
// class's own scaling.
func TestManyBimolecular(classes []*rxn.RxnClass, scalings []float64, localFactor, u float64) ManyGateResult {
	n := len(classes)
	cum := make([]float64, n)
	sum := 0.0
	for i, rc := range classes {
		sum += rc.MaxFixedP * localFactor / scalings[i]
		cum[i] = sum
	}

	var p float64
	if cum[n-1] > 1 {
		p = u * cum[n-1]
	} else {
		p = u
		if p > cum[n-1] {
			return ManyGateResult{Fire: false}
		}
	}

	idx := 0
	for idx < n-1 && p > cum[idx] {
		idx++
	}
	prev := 0.0
	if idx > 0 {
		prev = cum[idx-1]
	}
	residual := (p - prev) * scalings[idx]
	pathway := rxn.BinarySearch(classes[idx].CumProbs, residual, localFactor)
	return ManyGateResult{Fire: true, ClassIdx: idx, Pathway: pathway}
}
