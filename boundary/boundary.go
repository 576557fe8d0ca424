// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package boundary defines the two output seams of SPEC_FULL §11: a
// periodic position snapshot and a per-reaction event record. Neither
// has a concrete writer here; a caller attaches whatever sink it needs
// (a visualization file, a counts table, a test spy) by implementing
// these interfaces, the way fem.Domain accepts an out.Ips writer
// without committing to one.
package boundary

import (
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
)

// Snapshot receives one molecule's position every time the kernel emits
// a snapshot (spec.md §11 "iteration, species, position").
type Snapshot interface {
	OnMolecule(iteration int, id part.MoleculeId, speciesId int, pos geom.Vec3)
}

// RxnEvent receives one firing of a reaction pathway (spec.md §11 "time,
// class, reactant ids, product ids, location").
type RxnEvent interface {
	OnReaction(time float64, reactants, products []part.MoleculeId, pos geom.Vec3)
}
