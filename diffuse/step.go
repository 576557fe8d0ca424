// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diffuse implements the per-molecule volume diffusion step of
// spec 4.5 (component G): sampling a displacement, walking subpartitions,
// gathering and time-sorting collisions, and applying the first outcome.
package diffuse

import (
	"math"
	"sort"

	"github.com/mcellgo/rxkernel/collide"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kerrors"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/reactex"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
	"github.com/mcellgo/rxkernel/trace"
)

// EpsC is the clamp tolerance applied to the fractional-step count (spec
// 4.5 step 3: "clamped to [EPS_C, 1]").
const EpsC = 1e-10

// DefaultMaxReflections is the default bound (Stepper.MaxReflections) on
// the number of in-step wall reflections a single
// molecule may undergo before the kernel gives up and stops it at its
// last reflection point (spec 4.5 step 6, "up to a configurable
// reflection count").
const DefaultMaxReflections = 16

// Stepper owns the collaborators a diffusion step needs: the partition
// it walks, the reaction catalogue it consults for wall/molecule
// reactivity, the shared RNG, and the product placer.
type Stepper struct {
	Partition      *part.Partition
	Catalogue      *rxn.Catalogue
	Rng            *rngx.Stream
	Placer         *reactex.Placer
	MaxReflections int
}

// NewStepper builds a Stepper with the default reflection limit.
func NewStepper(p *part.Partition, cat *rxn.Catalogue, rng *rngx.Stream, placer *reactex.Placer) *Stepper {
	return &Stepper{Partition: p, Catalogue: cat, Rng: rng, Placer: placer, MaxReflections: DefaultMaxReflections}
}

// candidate is one time-sorted collision candidate gathered during a
// single displacement trace (spec 4.5 step 6).
type candidate struct {
	tau     float64
	seq     int // insertion order, for tie-breaking (spec 5 ordering guarantee 4)
	isWall  bool
	wallIdx int
	wallHit collide.WallHit
	molId   part.MoleculeId
	molHit  collide.MolHit
}

// Step runs one diffusion event for molecule id, ending at or before
// eventTime+tauLeft (spec 4.5). It returns the list of newly-created
// product molecule ids (which the caller appends to its in-event FIFO,
// spec 4.5 "Atomicity") and whether the molecule itself is still
// alive at the end of the step.
func (s *Stepper) Step(id part.MoleculeId, tauLeft, eventTime float64) (products []part.MoleculeId, alive bool, err error) {
	m := s.Partition.Molecules[id]
	if m.Defunct {
		return nil, false, nil
	}
	sp := s.Partition.SpeciesById[m.SpeciesId]

	// spec 4.5 step 1: sample the unimolecular clock on first touch.
	if m.ActNewbie {
		rc := s.Catalogue.UnimolOf(m.SpeciesId)
		lifetime := reactex.ScheduleUnimolLifetime(rc, s.Rng)
		m.UnimolRxTime = eventTime + lifetime
		m.ActNewbie = false
	}

	// spec 4.5 step 2: adjust remaining step to land on the earlier of
	// tauLeft or the scheduled unimolecular event.
	remaining := tauLeft
	toUnimol := m.UnimolRxTime - eventTime
	if toUnimol < remaining {
		remaining = toUnimol
	}
	if remaining <= 0 {
		if toUnimol > 0 {
			return nil, true, nil // tauLeft itself expired; no event due yet
		}
		// spec 4.6 "Unimolecular time": the scheduled clock has elapsed,
		// so the reaction fires unconditionally; only the pathway remains
		// to be chosen.
		rc := s.Catalogue.UnimolOf(m.SpeciesId)
		if rc == nil {
			return nil, true, nil
		}
		prods, perr := reactex.FireUnimolecular(s.Placer, rc, s.Rng, id, m.Pos, -1, geom.Vec2{})
		if perr != nil {
			return nil, true, nil // spec 7 TileFull: rejected, reactant survives, retried next event
		}
		return prods, false, nil
	}

	// spec 4.5 step 3: sample the 3D displacement.
	steps := remaining / sp.DtS
	if steps > 1 {
		steps = 1
	}
	if steps < EpsC {
		steps = EpsC
	}
	dx, dy, dz := s.Rng.Normal3D()
	d := geom.Vec3{X: dx, Y: dy, Z: dz}.Scale(math.Sqrt(steps) * sp.Sigma)

	excludeWall := -1
	reflections := 0
	pos := m.Pos

outer:
	for {
		walk := trace.Walk(s.Partition, pos, d, s.Partition.RxRadius3D)
		if walk.LeftDomain {
			return nil, false, kerrors.New(kerrors.RuntimeOutOfDomain, "molecule %d left the partition", id)
		}

		var cands []candidate
		redo := false
		seq := 0

		for _, subIdx := range walk.WallOrder {
			for _, wi := range s.Partition.WallsInSubpart(subIdx) {
				if wi == excludeWall {
					continue
				}
				w := s.Partition.Walls[wi]
				hit := collide.RayTriangle(pos, d, w, true, s.Rng)
				switch hit.Outcome {
				case collide.Redo:
					d = hit.NewD
					redo = true
				case collide.Front, collide.Back:
					if hit.Tau >= 0 && hit.Tau <= 1 {
						cands = append(cands, candidate{tau: hit.Tau, seq: seq, isWall: true, wallIdx: wi, wallHit: hit})
						seq++
					}
				}
				if redo {
					break
				}
			}
			if redo {
				break
			}
		}
		if redo {
			continue outer // spec 4.4 "REDO semantics": restart wall iteration for this ray
		}

		for subIdx := range walk.MolSet {
			bc := s.Catalogue.AllBimolFor(sp, s.partnersInSubpart(subIdx))
			for _, rc := range bc {
				partnerSpId := rc.Reactants[1]
				if rc.Reactants[0] != m.SpeciesId && rc.Reactants[1] == m.SpeciesId {
					partnerSpId = rc.Reactants[0]
				}
				for _, otherId := range s.reactantIdsMatching(subIdx, partnerSpId) {
					if otherId == id {
						continue
					}
					other := s.Partition.Molecules[otherId]
					if other.Defunct {
						continue
					}
					hit, ok := collide.MolMol(pos, d, other.Pos, s.Partition.RxRadius3D)
					if ok {
						cands = append(cands, candidate{tau: hit.Tau, seq: seq, molId: otherId, molHit: hit})
						seq++
					}
				}
			}
		}

		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].tau != cands[j].tau {
				return cands[i].tau < cands[j].tau
			}
			return cands[i].seq < cands[j].seq
		})

		for _, c := range cands {
			if c.tau < geom.EPS {
				continue // spec 4.5 step 6: "Skip any with τ < EPS (immediate)"
			}
			if !c.isWall {
				other := s.Partition.Molecules[c.molId]
				if other.Defunct {
					continue
				}
				rc := s.Catalogue.BimolOf(sp, s.Partition.SpeciesById[other.SpeciesId])
				if rc == nil {
					continue
				}
				u := s.Rng.Float64()
				gate := reactex.TestBimolecular(rc, 1, 1, u)
				if !gate.Fire {
					continue
				}
				prods, perr := s.Placer.ApplyPathway(rc.Pathways[gate.Pathway], c.molHit.Point, -1, geom.Vec2{})
				if perr != nil {
					continue // spec 7 TileFull: reaction rejected, reactants survive
				}
				s.Placer.DefunctReactant(id)
				s.Placer.DefunctReactant(c.molId)
				return prods, false, nil
			}

			w := s.Partition.Walls[c.wallIdx]
			rc := s.wallRxnClass(w, sp)
			if rc != nil {
				u := s.Rng.Float64()
				gate := reactex.TestBimolecular(rc, 1, 1, u)
				if gate.Fire {
					switch rc.Kind {
					case rxn.Transparent:
						// pass through: continue tracing from the hit point
					case rxn.AbsorbRegionBorder:
						s.Placer.DefunctReactant(id)
						return nil, false, nil
					default:
						prods, perr := s.Placer.ApplyPathway(rc.Pathways[gate.Pathway], c.wallHit.Point, c.wallIdx, c.wallHit.UV)
						if perr == nil {
							s.Placer.DefunctReactant(id)
							return prods, false, nil
						}
					}
				}
			}

			// reflective (non-reactive wall, or reactive class did not
			// fire, or a Transparent pass-through): spec 4.5 step 6.
			if rc != nil && rc.Kind == rxn.Transparent {
				pos = c.wallHit.Point
				d = d.Scale(1 - c.tau)
				excludeWall = -1
				continue outer
			}
			reflections++
			if reflections > s.MaxReflections {
				pos = c.wallHit.Point
				break outer
			}
			n := w.Normal
			dDot := d.Dot(n)
			d = d.Sub(n.Scale(2 * dDot)).Scale(1 - c.tau)
			pos = c.wallHit.Point
			excludeWall = c.wallIdx
			continue outer
		}

		// spec 4.5 step 7: no event fired, commit the full displacement.
		pos = pos.Add(d)
		break outer
	}

	newIdx, serr := s.Partition.SubpartIndex(pos)
	if serr != nil {
		return nil, false, serr
	}
	m.Pos = pos
	s.Partition.ChangeMoleculeSubpart(id, newIdx)
	return nil, true, nil
}

// partnersInSubpart returns every species present as a potential
// bimolecular partner of sp within subIdx (used to build the candidate
// class list for test_many_bimolecular-style gathering).
func (s *Stepper) partnersInSubpart(subIdx int) []*part.Species {
	var out []*part.Species
	for spId := range s.Partition.SpeciesById {
		if len(s.Partition.ReactantsInSubpart(subIdx, spId)) > 0 {
			out = append(out, s.Partition.SpeciesById[spId])
		}
	}
	return out
}

func (s *Stepper) reactantIdsMatching(subIdx, speciesReactantId int) []part.MoleculeId {
	if speciesReactantId >= 0 {
		return s.Partition.ReactantsInSubpart(subIdx, speciesReactantId)
	}
	var out []part.MoleculeId
	for spId, sp := range s.Partition.SpeciesById {
		if part.MatchesSpecies(speciesReactantId, sp) {
			out = append(out, s.Partition.ReactantsInSubpart(subIdx, spId)...)
		}
	}
	return out
}

// wallRxnClass resolves the reactive class (if any) for a volume
// molecule of species sp crossing wall w, via the wall's region surface
// class (spec 3 "Region", spec 4.5 step 6 "wall hit (reactive
// front/back)").
func (s *Stepper) wallRxnClass(w *part.Wall, sp *part.Species) *rxn.RxnClass {
	for _, regionId := range w.Regions {
		region := s.Partition.Regions[regionId]
		if !region.Reactive {
			continue
		}
		surfSp := s.Partition.SpeciesById[region.SurfaceClassSp]
		if surfSp == nil {
			continue
		}
		if rc := s.Catalogue.BimolOf(sp, surfSp); rc != nil {
			return rc
		}
	}
	return nil
}
