// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kerrors"
)

// Partition is the 3D box subdivided into N_sp^3 uniform cubic
// subpartitions (spec 3 "Partition", component B). It owns the vertex
// array, the wall array plus per-subpart wall id sets, the molecule table
// plus per-subpart "reactants of species S" sets, and the region list.
type Partition struct {
	Origin      geom.Vec3 // low corner of the simulation box
	EdgeLength  float64   // side of the cubic box
	Nsp         int       // subpartitions per side
	SubpartEdge float64   // EdgeLength / Nsp

	RxRadius3D      float64 // sigma for volume-volume interaction
	UseExpandedList bool    // inflate wall-subpart registration by RxRadius3D

	Vertices []Vertex
	Walls    []*Wall

	// per-subpart wall id sets (spec 4.2 register_wall)
	wallsInSubpart [][]int

	SpeciesById map[int]*Species
	Regions     []*Region

	Molecules []*Molecule // indexed by MoleculeId; ids never reused

	// per-subpart, per-species reactant molecule id lists (spec 4.2
	// reactants_in_subpart)
	reactantsInSubpart []map[int][]MoleculeId
}

// NewPartition validates configuration (spec 7 "ConfigInconsistent": the
// subpart edge must exceed rx_radius_3d) and builds an empty Partition.
func NewPartition(origin geom.Vec3, edgeLength float64, nsp int, rxRadius3D float64, useExpandedList bool) *Partition {
	if nsp <= 0 {
		chk.Panic("ConfigInconsistent: num_subpartitions_per_partition must be positive, got %d", nsp)
	}
	subpartEdge := edgeLength / float64(nsp)
	if subpartEdge <= rxRadius3D {
		chk.Panic("ConfigInconsistent: subpart edge (%v) must exceed rx_radius_3d (%v)", subpartEdge, rxRadius3D)
	}
	n3 := nsp * nsp * nsp
	p := &Partition{
		Origin:             origin,
		EdgeLength:         edgeLength,
		Nsp:                nsp,
		SubpartEdge:        subpartEdge,
		RxRadius3D:         rxRadius3D,
		UseExpandedList:    useExpandedList,
		SpeciesById:        make(map[int]*Species),
		wallsInSubpart:     make([][]int, n3),
		reactantsInSubpart: make([]map[int][]MoleculeId, n3),
	}
	for i := range p.reactantsInSubpart {
		p.reactantsInSubpart[i] = make(map[int][]MoleculeId)
	}
	return p
}

// AddSpecies registers a species definition.
func (p *Partition) AddSpecies(s *Species) {
	p.SpeciesById[s.Id] = s
}

// Subpart3D maps a 3D point to its (ix,iy,iz) subpartition coordinate,
// without bounds checking.
func (p *Partition) Subpart3D(pos geom.Vec3) (ix, iy, iz int) {
	d := pos.Sub(p.Origin)
	ix = int(math.Floor(d.X / p.SubpartEdge))
	iy = int(math.Floor(d.Y / p.SubpartEdge))
	iz = int(math.Floor(d.Z / p.SubpartEdge))
	return
}

// InDomain reports whether (ix,iy,iz) is a valid subpartition coordinate.
func (p *Partition) InDomain(ix, iy, iz int) bool {
	return ix >= 0 && ix < p.Nsp && iy >= 0 && iy < p.Nsp && iz >= 0 && iz < p.Nsp
}

// Index3D flattens a subpartition coordinate into a dense index.
func (p *Partition) Index3D(ix, iy, iz int) int {
	return (ix*p.Nsp+iy)*p.Nsp + iz
}

// Index3DOf inflates a dense subpartition index back to (ix,iy,iz).
func (p *Partition) Index3DOf(index int) (ix, iy, iz int) {
	iz = index % p.Nsp
	rest := index / p.Nsp
	iy = rest % p.Nsp
	ix = rest / p.Nsp
	return
}

// SubpartIndex implements subpart_index(pos): maps a 3D point to its dense
// subpartition index, returning a RuntimeOutOfDomain error if pos has left
// the box (spec 7: "the reference does not handle cross-partition
// molecules").
func (p *Partition) SubpartIndex(pos geom.Vec3) (int, error) {
	ix, iy, iz := p.Subpart3D(pos)
	if !p.InDomain(ix, iy, iz) {
		return 0, kerrors.New(kerrors.RuntimeOutOfDomain, "point %+v outside partition box", pos)
	}
	return p.Index3D(ix, iy, iz), nil
}

// WallsInSubpart returns the set of wall indices registered in
// subpartition i (spec 4.2 walls_in_subpart).
func (p *Partition) WallsInSubpart(i int) []int {
	return p.wallsInSubpart[i]
}

// ReactantsInSubpart returns the molecule ids of species speciesId
// currently located in subpartition i (spec 4.2 reactants_in_subpart).
func (p *Partition) ReactantsInSubpart(i int, speciesId int) []MoleculeId {
	return p.reactantsInSubpart[i][speciesId]
}

// vertexPos resolves a wall's i-th vertex position.
func (p *Partition) vertexPos(w *Wall, i int) geom.Vec3 {
	return p.Vertices[w.Verts[i]].Pos
}

// AddWall appends w to the partition, links it into its vertices'
// back-indices, and registers it into every subpartition its inflated
// AABB overlaps (spec 4.2 register_wall).
func (p *Partition) AddWall(w *Wall) int {
	idx := len(p.Walls)
	p.Walls = append(p.Walls, w)
	for _, vi := range w.Verts {
		p.Vertices[vi].Walls = append(p.Vertices[vi].Walls, idx)
	}
	p.registerWall(idx)
	return idx
}

// registerWall implements spec 4.2's register_wall: inflate the wall's
// AABB by eps + max(|llf|,|urb|)*eps + rx_radius_3d (the radius term only
// when UseExpandedList is set), then insert the wall into every
// subpartition the inflated AABB overlaps.
func (p *Partition) registerWall(wallIdx int) {
	const eps = geom.EPS
	w := p.Walls[wallIdx]
	v0 := p.vertexPos(w, 0)
	v1 := p.vertexPos(w, 1)
	v2 := p.vertexPos(w, 2)
	lo, hi := w.AABB(v0, v1, v2)

	maxAbs := lo.MaxAbs()
	if h := hi.MaxAbs(); h > maxAbs {
		maxAbs = h
	}
	inflate := eps + maxAbs*eps
	if p.UseExpandedList {
		inflate += p.RxRadius3D
	}

	lo = geom.Vec3{X: lo.X - inflate, Y: lo.Y - inflate, Z: lo.Z - inflate}
	hi = geom.Vec3{X: hi.X + inflate, Y: hi.Y + inflate, Z: hi.Z + inflate}

	ixLo, iyLo, izLo := p.Subpart3D(lo)
	ixHi, iyHi, izHi := p.Subpart3D(hi)
	ixLo, iyLo, izLo = clampIdx(ixLo, p.Nsp), clampIdx(iyLo, p.Nsp), clampIdx(izLo, p.Nsp)
	ixHi, iyHi, izHi = clampIdx(ixHi, p.Nsp), clampIdx(iyHi, p.Nsp), clampIdx(izHi, p.Nsp)

	for ix := ixLo; ix <= ixHi; ix++ {
		for iy := iyLo; iy <= iyHi; iy++ {
			for iz := izLo; iz <= izHi; iz++ {
				i := p.Index3D(ix, iy, iz)
				p.wallsInSubpart[i] = append(p.wallsInSubpart[i], wallIdx)
			}
		}
	}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// AddMolecule appends a newly-created molecule, assigns it a dense,
// never-reused id, and (for volume molecules) registers it into its
// subpartition's reactant set.
func (p *Partition) AddMolecule(m *Molecule) MoleculeId {
	id := MoleculeId(len(p.Molecules))
	m.Id = id
	p.Molecules = append(p.Molecules, m)
	if !m.IsSurface {
		p.insertReactant(m.SubpartIndex, m.SpeciesId, id)
	}
	return id
}

func (p *Partition) insertReactant(subpart, speciesId int, id MoleculeId) {
	p.reactantsInSubpart[subpart][speciesId] = append(p.reactantsInSubpart[subpart][speciesId], id)
}

func (p *Partition) removeReactant(subpart, speciesId int, id MoleculeId) {
	list := p.reactantsInSubpart[subpart][speciesId]
	for i, v := range list {
		if v == id {
			list[i] = list[len(list)-1]
			p.reactantsInSubpart[subpart][speciesId] = list[:len(list)-1]
			return
		}
	}
}

// ChangeMoleculeSubpart implements change_molecule_subpart (spec 4.2):
// removes m from its old subpartition's reactant set and inserts it into
// the new one, updating the molecule's cached SubpartIndex (spec 3
// invariant: subpart_index(m.pos) == m.subpart_index).
func (p *Partition) ChangeMoleculeSubpart(id MoleculeId, newIndex int) {
	m := p.Molecules[id]
	if m.IsSurface {
		return
	}
	if m.SubpartIndex != newIndex {
		p.removeReactant(m.SubpartIndex, m.SpeciesId, id)
		p.insertReactant(newIndex, m.SpeciesId, id)
	}
	m.SubpartIndex = newIndex
}

// Defunct tombstones a molecule, removing it from its subpartition's
// reactant set (or its wall's grid tile, for a surface molecule). Its id
// is never reused (spec 3 "Lifecycle").
func (p *Partition) Defunct(id MoleculeId) {
	m := p.Molecules[id]
	if m.Defunct {
		return
	}
	m.Defunct = true
	if m.IsSurface {
		if w := p.Walls[m.Surf.WallIdx]; w.Grid != nil {
			w.Grid.Clear(m.Surf.TileIdx)
		}
		return
	}
	p.removeReactant(m.SubpartIndex, m.SpeciesId, id)
}
