// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package surf implements the 2D surface diffusion step of spec 4.7
// (component J): sampling a Marsaglia-polar Gaussian displacement inside
// a wall's local uv frame, walking across triangle edges via find_edge_point
// and traverse_surface, applying optional surface-region reactions at
// shared edges, and resolving the destination tile.
package surf

import (
	"math"

	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kerrors"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/reactex"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

// DefaultMaxEdgeCrossings bounds the number of edge crossings (reflections,
// neighbor traversals and ambiguous-edge retries together) a single step
// may perform, mirroring diffuse.DefaultMaxReflections for the surface
// case. A reflection or traversal past the limit commits the molecule at
// its last edge hit point; an ambiguous retry past it makes Step return an
// AmbiguousCollision error without moving the molecule.
const DefaultMaxEdgeCrossings = 32

// Stepper owns the collaborators a surface diffusion step needs.
type Stepper struct {
	Partition        *part.Partition
	Catalogue        *rxn.Catalogue
	Rng              *rngx.Stream
	Placer           *reactex.Placer
	MaxEdgeCrossings int
}

// NewStepper builds a Stepper with the default edge-crossing limit.
func NewStepper(p *part.Partition, cat *rxn.Catalogue, rng *rngx.Stream, placer *reactex.Placer) *Stepper {
	return &Stepper{Partition: p, Catalogue: cat, Rng: rng, Placer: placer, MaxEdgeCrossings: DefaultMaxEdgeCrossings}
}

// Step runs one surface diffusion event for molecule id (spec 4.7).
func (s *Stepper) Step(id part.MoleculeId, tauLeft, eventTime float64) (products []part.MoleculeId, alive bool, err error) {
	m := s.Partition.Molecules[id]
	if m.Defunct {
		return nil, false, nil
	}
	sp := s.Partition.SpeciesById[m.SpeciesId]

	if m.ActNewbie {
		rc := s.Catalogue.UnimolOf(m.SpeciesId)
		lifetime := reactex.ScheduleUnimolLifetime(rc, s.Rng)
		m.UnimolRxTime = eventTime + lifetime
		m.ActNewbie = false
	}

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
		point := geom.UVtoXYZ(m.Surf.UV, s.Partition.Walls[m.Surf.WallIdx].Frame)
		prods, perr := reactex.FireUnimolecular(s.Placer, rc, s.Rng, id, point, m.Surf.WallIdx, m.Surf.UV)
		if perr != nil {
			return nil, true, nil // spec 7 TileFull: rejected, reactant survives, retried next event
		}
		return prods, false, nil
	}

	steps := remaining / sp.DtS
	if steps > 1 {
		steps = 1
	}
	const epsC = 1e-10
	if steps < epsC {
		steps = epsC
	}
	du, dv := s.Rng.Normal2DPolar(math.Sqrt(steps) * sp.Sigma)
	disp := geom.Vec2{U: du, V: dv}

	wallIdx := m.Surf.WallIdx
	loc := m.Surf.UV
	orientation := m.Surf.Orientation
	crossings := 0

outer:
	for {
		w := s.Partition.Walls[wallIdx]
		a, b, c := w.LocalTriangle()
		hit := geom.FindEdgePoint(loc, disp, a, b, c)

		if hit == geom.EdgeNone {
			loc = loc.Add(disp)
			break outer
		}
		if hit == geom.EdgeAmbiguous {
			crossings++
			if crossings > s.MaxEdgeCrossings {
				return nil, false, kerrors.New(kerrors.AmbiguousCollision, "molecule %d: too many ambiguous edge hits on wall %d", id, wallIdx)
			}
			// perturb the displacement by a tiny fraction and retry this
			// triangle, as the 3D ray-triangle test does for coplanar REDOs.
			disp = disp.Scale(1 - 1e-9)
			continue
		}

		edgeIdx := int(hit)
		t, point := edgeHitPoint(loc, disp, [3]geom.Vec2{a, b, c}, edgeIdx)
		edge := w.Edges[edgeIdx]

		rc := s.edgeRxnClass(w, sp)
		if rc != nil {
			u := s.Rng.Float64()
			gate := reactex.TestBimolecular(rc, 1, 1, u)
			if gate.Fire {
				switch rc.Kind {
				case rxn.AbsorbRegionBorder:
					s.Placer.DefunctReactant(id)
					return nil, false, nil
				case rxn.Transparent:
					// pass through: fall to the neighbor-traversal logic below
				case rxn.Reflect:
					crossings++
					if crossings > s.MaxEdgeCrossings {
						loc = point
						break outer
					}
					remaining2D := disp.Scale(1 - t)
					disp = reflectAcrossEdge(remaining2D, [3]geom.Vec2{a, b, c}, edgeIdx)
					loc = point
					continue outer
				default:
					prods, perr := s.Placer.ApplyPathway(rc.Pathways[gate.Pathway], geom.UVtoXYZ(point, w.Frame), wallIdx, point)
					if perr == nil {
						s.Placer.DefunctReactant(id)
						return prods, false, nil
					}
				}
			}
		}

		if edge.NeighborWall < 0 {
			// mesh boundary with no reactive class decided otherwise:
			// reflect the 2D velocity across the edge and keep tracing the
			// same triangle (spec 4.7 step 2 "reflect/miss border").
			crossings++
			if crossings > s.MaxEdgeCrossings {
				loc = point
				break
			}
			remaining2D := disp.Scale(1 - t)
			disp = reflectAcrossEdge(remaining2D, [3]geom.Vec2{a, b, c}, edgeIdx)
			loc = point
			continue
		}

		// pass through to the neighbor wall (spec 4.1 traverse_surface).
		crossings++
		if crossings > s.MaxEdgeCrossings {
			loc = point
			break
		}
		newLoc := geom.TraverseSurface(point, edge.Xform, edge.Forward)
		remaining2D := disp.Scale(1 - t)
		newDisp := rotateVector(remaining2D, edge.Xform, edge.Forward)
		wallIdx = edge.NeighborWall
		loc = newLoc
		disp = newDisp
	}

	return s.commitTile(id, m, wallIdx, loc, orientation)
}

// commitTile resolves the destination tile for the final uv location
// (spec 4.7 step 3): if occupied, the molecule stays on its current tile
// this step ("pick again/full here"); otherwise the old tile is cleared
// and the new one claimed.
func (s *Stepper) commitTile(id part.MoleculeId, m *part.Molecule, wallIdx int, loc geom.Vec2, orientation int) ([]part.MoleculeId, bool, error) {
	w := s.Partition.Walls[wallIdx]
	if w.Grid == nil {
		return nil, false, kerrors.New(kerrors.InvalidGeometry, "wall %d has no surface grid", wallIdx)
	}
	_, b, c := w.LocalTriangle()
	newTile := w.Grid.UVtoTile(loc, b.U, c)

	if wallIdx == m.Surf.WallIdx && newTile == m.Surf.TileIdx {
		m.Surf.UV = loc
		return nil, true, nil
	}
	if w.Grid.Occupied(newTile) {
		return nil, true, nil // tile full: molecule stays put this step
	}

	oldWall := s.Partition.Walls[m.Surf.WallIdx]
	oldTile := -1
	if oldWall == w {
		oldTile = m.Surf.TileIdx
	} else if oldWall.Grid != nil {
		oldWall.Grid.Clear(m.Surf.TileIdx)
	}
	w.Grid.Place(newTile, id, oldTile)
	m.Surf = part.SurfacePos{WallIdx: wallIdx, TileIdx: newTile, UV: loc, Orientation: orientation}
	return nil, true, nil
}

// edgeHitPoint recomputes the parametric distance t and world uv point of
// the crossing FindEdgePoint already located on edges[edgeIdx], following
// the same segment-intersection algebra (spec 4.1 find_edge_point).
func edgeHitPoint(loc, disp geom.Vec2, tri [3]geom.Vec2, edgeIdx int) (t float64, point geom.Vec2) {
	edges := [3][2]geom.Vec2{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}}
	p0, p1 := edges[edgeIdx][0], edges[edgeIdx][1]
	edgeDir := p1.Sub(p0)
	denom := geom.Cross2D(disp, edgeDir)
	w := p0.Sub(loc)
	t = geom.Cross2D(w, edgeDir) / denom
	point = loc.Add(disp.Scale(t))
	return
}

// reflectAcrossEdge mirrors v about the line carrying edges[edgeIdx].
func reflectAcrossEdge(v geom.Vec2, tri [3]geom.Vec2, edgeIdx int) geom.Vec2 {
	edges := [3][2]geom.Vec2{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}}
	p0, p1 := edges[edgeIdx][0], edges[edgeIdx][1]
	dir := p1.Sub(p0)
	l := dir.Len()
	if l < geom.EPS {
		return v
	}
	unit := dir.Scale(1 / l)
	normal := geom.Vec2{U: -unit.V, V: unit.U}
	d := v.Dot(normal)
	return v.Sub(normal.Scale(2 * d))
}

// edgeRxnClass resolves the reactive class (if any) governing wall w's
// edges for a surface molecule of species sp, via w's region surface
// class (spec 3 "Region", spec 4.7 step 2 "optional surface-region
// reactions").
func (s *Stepper) edgeRxnClass(w *part.Wall, sp *part.Species) *rxn.RxnClass {
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

// rotateVector applies the edge transform's rotation (no translation) to a
// free vector, used to carry the remaining displacement into the
// neighbor's frame alongside traverse_surface's point transform.
func rotateVector(v geom.Vec2, xf geom.EdgeXform, forward bool) geom.Vec2 {
	if forward {
		return v.Rotate(xf.Cos, xf.Sin)
	}
	return v.Rotate(xf.Cos, -xf.Sin)
}
