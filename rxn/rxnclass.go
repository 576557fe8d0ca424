// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rxn implements the reaction catalogue (spec 3 "RxnClass",
// component D): per-species unimolecular classes, per-(species,species)
// bimolecular classes, each with one or more pathways and precomputed
// cumulative pathway probabilities.
package rxn

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Type is the reaction class type tag (spec 3 "RxnClass").
type Type int

const (
	Standard Type = iota
	Transparent
	Reflect
	AbsorbRegionBorder
)

// Product is one product species with its orientation relative to a wall
// (meaningful for surface products only; ignored for volume products).
type Product struct {
	SpeciesId   int
	Orientation int
}

// Pathway is one specific outcome within a class: a product list and the
// unscaled probability (or rate, for unimolecular classes) assigned to it.
type Pathway struct {
	Probability float64
	Products    []Product
}

// RxnClass is a reaction class keyed by an ordered reactant tuple (spec 3
// "RxnClass"). MinNoReactionP is the first pathway's probability;
// MaxFixedP is the sum over all pathways; CumProbs is the non-decreasing
// cumulative array used by binary-search pathway selection.
type RxnClass struct {
	Reactants []int // ordered reactant species ids (may include reserved "ALL_*" ids)
	Pathways  []Pathway
	Kind      Type

	MinNoReactionP float64
	MaxFixedP      float64
	CumProbs       []float64

	// Schedule is the optional variable-rate schedule of spec 6: an
	// increasing sequence of (time, rate) evaluated via gosl/fun.Func,
	// replacing the class's effective rate at those times (SPEC_FULL 12).
	Schedule fun.Func
	baseProbabilities []float64 // the unscaled pathway probabilities, kept to recompute CumProbs on Rescale
}

// NewRxnClass builds a class from an ordered reactant tuple and pathway
// list, validating and precomputing cum_probs (spec 7
// "ConfigInconsistent": empty reactant tuple or negative rates are
// fatal at initialization).
func NewRxnClass(reactants []int, pathways []Pathway, kind Type) *RxnClass {
	if len(reactants) == 0 {
		chk.Panic("ConfigInconsistent: reaction class has an empty reactant tuple")
	}
	if len(pathways) == 0 {
		chk.Panic("ConfigInconsistent: reaction class %v has no pathways", reactants)
	}
	rc := &RxnClass{
		Reactants: reactants,
		Pathways:  pathways,
		Kind:      kind,
	}
	rc.baseProbabilities = make([]float64, len(pathways))
	for i, pw := range pathways {
		if pw.Probability < 0 {
			chk.Panic("ConfigInconsistent: negative pathway probability %v in class %v", pw.Probability, reactants)
		}
		rc.baseProbabilities[i] = pw.Probability
	}
	rc.recompute(1)
	return rc
}

// recompute rebuilds CumProbs, MinNoReactionP and MaxFixedP from the base
// probabilities scaled by factor (1 at construction; Rescale passes the
// ratio of the scheduled rate to the base total).
func (rc *RxnClass) recompute(factor float64) {
	rc.CumProbs = make([]float64, len(rc.baseProbabilities))
	sum := 0.0
	for i, p := range rc.baseProbabilities {
		sum += p * factor
		rc.CumProbs[i] = sum
	}
	rc.MaxFixedP = sum
	if len(rc.baseProbabilities) > 0 {
		rc.MinNoReactionP = rc.baseProbabilities[0] * factor
	}
}

// Rescale applies the variable-rate schedule at time t (SPEC_FULL 12):
// if Schedule is set, its value at t becomes the class's total rate
// MaxFixedP, each pathway keeping its share of the base probabilities,
// and CumProbs/MinNoReactionP are rebuilt. A class with no Schedule, or
// whose base probabilities sum to zero, never changes.
func (rc *RxnClass) Rescale(t float64) {
	if rc.Schedule == nil {
		return
	}
	base := 0.0
	for _, p := range rc.baseProbabilities {
		base += p
	}
	if base <= 0 {
		return
	}
	rc.recompute(rc.Schedule.F(t, nil) / base)
}

// BinarySearch implements the pathway-selection rule of spec 4.6: returns
// the smallest index i with p <= cum_probs[i]*localFactor.
func BinarySearch(cumProbs []float64, p, localFactor float64) int {
	return sort.Search(len(cumProbs), func(i int) bool {
		return p <= cumProbs[i]*localFactor
	})
}
