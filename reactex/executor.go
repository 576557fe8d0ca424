// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactex

import (
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kerrors"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
)

// Placer applies a chosen reaction pathway: it places products and
// defuncts consumed reactants (spec 4.5 step 6 "mol-mol hit", spec 4.6
// product placement, spec 7 "TileFull").
type Placer struct {
	Partition          *part.Partition
	Rng                *rngx.Stream
	VacancySearchDist2 float64
	RandomizeSmolPos   bool
}

// PlaceVolumeProduct creates a new volume molecule of speciesId at pos.
func (pl *Placer) PlaceVolumeProduct(speciesId int, pos geom.Vec3) (part.MoleculeId, error) {
	idx, err := pl.Partition.SubpartIndex(pos)
	if err != nil {
		return 0, err
	}
	m := part.NewVolumeMolecule(0, speciesId, pos, idx)
	return pl.Partition.AddMolecule(m), nil
}

// PlaceSurfaceProduct creates a new surface molecule of speciesId on
// wallIdx near uv (spec 4.7 step 3, spec 7 "TileFull"). If the natural
// tile is occupied, a local spiral search over neighboring tiles within
// vacancy_search_dist2 looks for a free one; if none is found the
// reaction is rejected (kerrors.TileFull) and the caller must leave the
// reactants intact.
func (pl *Placer) PlaceSurfaceProduct(speciesId, wallIdx int, uv geom.Vec2, orientation int) (part.MoleculeId, error) {
	w := pl.Partition.Walls[wallIdx]
	if w.Grid == nil {
		return 0, kerrors.New(kerrors.InvalidGeometry, "wall %d has no surface grid", wallIdx)
	}
	a, b, c := w.LocalTriangle()

	tile := w.Grid.UVtoTile(uv, b.U, c)
	finalUV := uv
	if w.Grid.Occupied(tile) {
		found := false
		tile, finalUV, found = pl.searchVacantTile(w, uv, a, b, c)
		if !found {
			return 0, kerrors.New(kerrors.TileFull, "no free tile within vacancy_search_dist2 of wall %d", wallIdx)
		}
	}
	if pl.RandomizeSmolPos {
		finalUV = pl.randomizeWithinTile(finalUV, w)
	}

	surf := part.SurfacePos{WallIdx: wallIdx, TileIdx: tile, UV: finalUV, Orientation: orientation}
	m := part.NewSurfaceMolecule(0, speciesId, surf)
	id := pl.Partition.AddMolecule(m)
	w.Grid.Place(tile, id, -1)
	return id, nil
}

// searchVacantTile performs a bounded spiral search over tile centroids
// within vacancy_search_dist2 of uv, returning the first free one found.
func (pl *Placer) searchVacantTile(w *part.Wall, uv, a, b, c geom.Vec2) (int, geom.Vec2, bool) {
	n := w.Grid.N
	for ring := 1; ring <= n; ring++ {
		for du := -ring; du <= ring; du++ {
			for dv := -ring; dv <= ring; dv++ {
				if du == 0 && dv == 0 {
					continue
				}
				cand := geom.Vec2{U: uv.U + float64(du)*b.U/float64(n), V: uv.V + float64(dv)*c.V/float64(n)}
				if cand.Sub(uv).Len2() > pl.VacancySearchDist2 {
					continue
				}
				if !geom.PointInTriangle2D(cand, a, b, c) {
					continue
				}
				tile := w.Grid.UVtoTile(cand, b.U, c)
				if !w.Grid.Occupied(tile) {
					return tile, cand, true
				}
			}
		}
	}
	return 0, geom.Vec2{}, false
}

// randomizeWithinTile places the molecule at a uniformly random point
// inside its tile rather than the tile centroid (config
// randomize_smol_pos, spec 6). The centroid is kept as a reasonable
// anchor; the random offset is bounded by the tile's approximate radius.
func (pl *Placer) randomizeWithinTile(uv geom.Vec2, w *part.Wall) geom.Vec2 {
	n := w.Grid.N
	_, b, c := w.LocalTriangle()
	radius := 0.5 / float64(n) * (b.Len() + c.Len())
	ox, oy := pl.Rng.Normal2DPolar(radius * 0.3)
	return geom.Vec2{U: uv.U + ox, V: uv.V + oy}
}

// DefunctReactant tombstones a consumed reactant (spec 4.5 step 6 "both
// reactants are defuncted").
func (pl *Placer) DefunctReactant(id part.MoleculeId) {
	pl.Partition.Defunct(id)
}

// ApplyPathway places every product listed in pw at a single location
// (the collision point for a bimolecular/wall reaction, or the reacting
// molecule's own position for a unimolecular one). Volume products are
// placed in space; surface products are placed on the given wall, using
// the pathway product's orientation. If any surface product cannot find
// a free tile, the whole pathway is rejected (kerrors.TileFull) and no
// product placed so far survives (reactants are left untouched by the
// caller, matching spec 7's "reaction is rejected, reactants survive").
func (pl *Placer) ApplyPathway(pw rxn.Pathway, point geom.Vec3, wallIdx int, uv geom.Vec2) ([]part.MoleculeId, error) {
	var placed []part.MoleculeId
	for _, prod := range pw.Products {
		sp := pl.Partition.SpeciesById[prod.SpeciesId]
		if sp != nil && sp.IsSurf {
			id, err := pl.PlaceSurfaceProduct(prod.SpeciesId, wallIdx, uv, prod.Orientation)
			if err != nil {
				pl.rollback(placed)
				return nil, err
			}
			placed = append(placed, id)
			continue
		}
		id, err := pl.PlaceVolumeProduct(prod.SpeciesId, point)
		if err != nil {
			pl.rollback(placed)
			return nil, err
		}
		placed = append(placed, id)
	}
	return placed, nil
}

func (pl *Placer) rollback(placed []part.MoleculeId) {
	for _, id := range placed {
		pl.Partition.Defunct(id)
	}
}
