// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rxn

import "github.com/mcellgo/rxkernel/part"

// Catalogue is the read-only, post-initialization reaction catalogue: one
// unimolecular class per species (at most), and one bimolecular class per
// ordered (species,species) pair (spec 3 "RxnClass").
type Catalogue struct {
	Unimol   map[int]*RxnClass         // speciesId -> class
	Bimol    map[[2]int]*RxnClass      // [reactantA,reactantB] -> class, keyed by the literal (possibly sentinel) ids used at config time
	bimolAll []*RxnClass               // classes keyed with a reserved sentinel on either side; scanned explicitly since map keys are literal
}

// NewCatalogue builds an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{
		Unimol: make(map[int]*RxnClass),
		Bimol:  make(map[[2]int]*RxnClass),
	}
}

// AddUnimol registers rc as the unimolecular class of the species in
// rc.Reactants[0].
func (c *Catalogue) AddUnimol(rc *RxnClass) {
	c.Unimol[rc.Reactants[0]] = rc
}

// AddBimol registers rc as the bimolecular class for the ordered pair
// rc.Reactants[0],rc.Reactants[1]. Classes keyed with a reserved sentinel
// species id (ALL_MOLECULES etc.) are kept in a side list since they must
// be matched by predicate, not by literal map key.
func (c *Catalogue) AddBimol(rc *RxnClass) {
	a, b := rc.Reactants[0], rc.Reactants[1]
	key := [2]int{a, b}
	c.Bimol[key] = rc
	if a < 0 || b < 0 {
		c.bimolAll = append(c.bimolAll, rc)
	}
}

// UnimolOf returns the unimolecular class of speciesId, or nil if the
// species has none (spec 4.6: "If no unimolecular reaction exists, the
// lifetime is +Inf").
func (c *Catalogue) UnimolOf(speciesId int) *RxnClass {
	return c.Unimol[speciesId]
}

// BimolOf returns the bimolecular class matching the ordered pair of
// concrete species (spAId,spBId), resolving both literal matches and
// reserved-sentinel classes (spec 6 "Reserved species ids").
func (c *Catalogue) BimolOf(spA, spB *part.Species) *RxnClass {
	if rc, ok := c.Bimol[[2]int{spA.Id, spB.Id}]; ok {
		return rc
	}
	for _, rc := range c.bimolAll {
		if part.MatchesSpecies(rc.Reactants[0], spA) && part.MatchesSpecies(rc.Reactants[1], spB) {
			return rc
		}
		if part.MatchesSpecies(rc.Reactants[0], spB) && part.MatchesSpecies(rc.Reactants[1], spA) {
			return rc
		}
	}
	return nil
}

// AllBimolFor returns every bimolecular class that could apply to a
// molecule of species spA (used by test_many_bimolecular, spec 4.6, to
// build the multi-class cumulative array when more than one partner
// species reacts with spA in range).
func (c *Catalogue) AllBimolFor(spA *part.Species, partners []*part.Species) []*RxnClass {
	var out []*RxnClass
	seen := make(map[*RxnClass]bool)
	for _, spB := range partners {
		if rc := c.BimolOf(spA, spB); rc != nil && !seen[rc] {
			seen[rc] = true
			out = append(out, rc)
		}
	}
	return out
}
