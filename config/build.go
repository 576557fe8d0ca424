// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/rxn"
)

// PiecewiseSchedule implements gosl/fun.Func's F(t,x) contract (the same
// interface inp.Stage.Control.DtFunc satisfies) for the variable-rate
// schedule of spec.md §6: "an increasing sequence of (time, rate) that
// replaces the class rate at those times". Before the first breakpoint
// the rate is the first entry's; after the last, the last entry's;
// between two breakpoints the step holds the earlier rate (no
// interpolation — the reference schedule is a step function, not a
// ramp).
type PiecewiseSchedule struct {
	Times []float64
	Rates []float64
}

// F returns the schedule's rate at time t. x is unused (kept to satisfy
// fun.Func's signature).
func (p *PiecewiseSchedule) F(t float64, x []float64) float64 {
	idx := sort.Search(len(p.Times), func(i int) bool { return p.Times[i] > t })
	if idx == 0 {
		return p.Rates[0]
	}
	return p.Rates[idx-1]
}

// Grad returns 0: the schedule is piecewise-constant, so its derivative
// is zero everywhere it is defined (satisfies fun.Func alongside F).
func (p *PiecewiseSchedule) Grad(t float64, x []float64) float64 {
	return 0
}

// DefaultSurfaceGridN is the tile grid resolution applied to a wall when
// config.SurfaceGridN is unset (spec 3 "Wall", component C "N^2 tile
// decomposition"; no particular N is mandated by spec.md §6, so this
// mirrors the N=... scale used by the reference implementation's default
// scene resolution).
const DefaultSurfaceGridN = 10

func kindOf(s string) rxn.Type {
	switch s {
	case "transparent":
		return rxn.Transparent
	case "reflect":
		return rxn.Reflect
	case "absorb_region_border":
		return rxn.AbsorbRegionBorder
	default:
		return rxn.Standard
	}
}

// BuildSpecies derives each species' Δt_s and σ from its diffusion
// constant and the configured base timestep (spec.md §6: "the engine
// derives Δt_s and σ from D and the global base timestep"), then
// registers every species on p.
func (c *Config) BuildSpecies(p *part.Partition) {
	for _, sd := range c.Species {
		factor := sd.TimeStepFactor
		if factor <= 0 {
			factor = 1
		}
		dtS := c.BaseTimeStep / factor
		sigma := 0.0
		if sd.D > 0 {
			sigma = math.Sqrt(4 * sd.D * dtS)
		}
		sp := &part.Species{
			Id:             sd.Id,
			Name:           sd.Name,
			D:              sd.D,
			DtS:            dtS,
			Sigma:          sigma,
			IsVol:          !sd.IsSurf,
			IsSurf:         sd.IsSurf,
			CanDiffuse:     sd.CanDiffuse,
			CanReactSurf:   sd.CanReactSurf,
			TimeStepFactor: factor,
		}
		p.AddSpecies(sp)
	}
}

// BuildCatalogue builds the reaction catalogue from the configuration,
// wiring each class's optional variable-rate schedule (SPEC_FULL §12)
// and splitting unimolecular (single-reactant) from bimolecular
// (two-reactant) classes the way rxn.Catalogue expects.
func (c *Config) BuildCatalogue() *rxn.Catalogue {
	cat := rxn.NewCatalogue()
	for _, rd := range c.Rxns {
		pathways := make([]rxn.Pathway, len(rd.Pathways))
		for i, pwd := range rd.Pathways {
			prods := make([]rxn.Product, len(pwd.Products))
			for j, pd := range pwd.Products {
				prods[j] = rxn.Product{SpeciesId: pd.SpeciesId, Orientation: pd.Orientation}
			}
			pathways[i] = rxn.Pathway{Probability: pwd.Probability, Products: prods}
		}
		rc := rxn.NewRxnClass(rd.Reactants, pathways, kindOf(rd.Kind))
		if rd.Schedule != nil {
			rc.Schedule = scheduleFunc(rd.Schedule)
		}
		switch len(rd.Reactants) {
		case 1:
			cat.AddUnimol(rc)
		case 2:
			cat.AddBimol(rc)
		default:
			chk.Panic("ConfigInconsistent: reaction class %v has %d reactants, expected 1 or 2", rd.Reactants, len(rd.Reactants))
		}
	}
	return cat
}

// scheduleFunc builds the fun.Func backing a class's variable-rate
// schedule: a fun.Cte-equivalent when the schedule is a single constant
// breakpoint, or the general PiecewiseSchedule step function otherwise.
func scheduleFunc(sd *ScheduleDef) fun.Func {
	if len(sd.Times) == 1 {
		return fun.Cte(sd.Rates[0])
	}
	return &PiecewiseSchedule{Times: sd.Times, Rates: sd.Rates}
}

// BuildGeometry constructs the vertex/wall/region arrays from the
// configured geometry input (spec.md §6 "Geometry input") and registers
// every wall into p (spec 4.2 register_wall).
func (c *Config) BuildGeometry(p *part.Partition) {
	p.Vertices = make([]part.Vertex, len(c.Geom.Vertices))
	for i, vd := range c.Geom.Vertices {
		p.Vertices[i] = part.Vertex{Pos: geom.Vec3{X: vd.X, Y: vd.Y, Z: vd.Z}}
	}

	gridN := c.SurfaceGridN
	if gridN <= 0 {
		gridN = DefaultSurfaceGridN
	}

	wallOfTriangle := make([]int, len(c.Geom.Triangles))
	for i, td := range c.Geom.Triangles {
		v0 := p.Vertices[td.V0].Pos
		v1 := p.Vertices[td.V1].Pos
		v2 := p.Vertices[td.V2].Pos
		w := part.NewWall(v0, v1, v2)
		w.Verts = [3]int{td.V0, td.V1, td.V2}
		_, _, uvVert2 := w.LocalTriangle()
		w.Grid = part.NewGrid(gridN, uvVert2.V, geom.Vec2{})
		wallOfTriangle[i] = p.AddWall(w)
	}

	for regionId, rd := range c.Geom.Regions {
		region := &part.Region{Name: rd.Name, Reactive: rd.Reactive, SurfaceClassSp: rd.SurfaceClassSp}
		for _, ti := range rd.TriangleIdx {
			wallIdx := wallOfTriangle[ti]
			region.WallIndices = append(region.WallIndices, wallIdx)
			p.Walls[wallIdx].Regions = append(p.Walls[wallIdx].Regions, regionId)
		}
		p.Regions = append(p.Regions, region)
	}

	linkSharedEdges(p)
}

// edgeSlot locates one triangle edge: its wall and which of the wall's
// three Edges entries (0: verts[0]-verts[1], 1: verts[1]-verts[2], 2:
// verts[2]-verts[0]) it is.
type edgeSlot struct {
	wallIdx int
	edgeIdx int
}

// edgeKey identifies an edge by its unordered pair of global vertex
// indices, so two triangles sharing an edge (regardless of winding) hash
// to the same key.
type edgeKey struct{ lo, hi int }

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// linkSharedEdges implements spec 3's shared-edge invariant and spec 4.1
// register_wall's adjacency step: every mesh edge touched by exactly two
// triangles gets its Edges[i].NeighborWall/NeighborIdx/Xform/Forward
// populated on both sides, so surf.Stepper's traverse_surface can carry a
// surface molecule across it (spec 4.1 "traverse_surface"). Edges touched
// by only one triangle stay mesh boundaries (NeighborWall -1, set by
// part.NewWall); an edge touched by more than two is a non-manifold mesh
// and is a configuration error.
func linkSharedEdges(p *part.Partition) {
	byEdge := make(map[edgeKey][]edgeSlot)
	for wi, w := range p.Walls {
		verts := [3]int{w.Verts[0], w.Verts[1], w.Verts[2]}
		for ei := 0; ei < 3; ei++ {
			a, b := verts[ei], verts[(ei+1)%3]
			k := keyOf(a, b)
			byEdge[k] = append(byEdge[k], edgeSlot{wallIdx: wi, edgeIdx: ei})
		}
	}

	for k, slots := range byEdge {
		switch len(slots) {
		case 1:
			// mesh boundary, already -1 from part.NewWall.
		case 2:
			linkEdgePair(p, k, slots[0], slots[1])
		default:
			chk.Panic("ConfigInconsistent: edge (%d,%d) is shared by %d triangles, expected at most 2", k.lo, k.hi, len(slots))
		}
	}
}

// linkEdgePair computes the rigid-body 2D transform between the two
// walls' local uv frames (spec 3 "store rotation as (cosθ,sinθ)") from
// the shared edge's two endpoints, expressed in each wall's own frame,
// and populates both walls' Edge entries with it.
func linkEdgePair(p *part.Partition, k edgeKey, sa, sb edgeSlot) {
	wallA, wallB := p.Walls[sa.wallIdx], p.Walls[sb.wallIdx]
	posLo, posHi := p.Vertices[k.lo].Pos, p.Vertices[k.hi].Pos

	aLo, aHi := geom.XYZtoUV(posLo, wallA.Frame), geom.XYZtoUV(posHi, wallA.Frame)
	bLo, bHi := geom.XYZtoUV(posLo, wallB.Frame), geom.XYZtoUV(posHi, wallB.Frame)

	edgeA := aHi.Sub(aLo)
	edgeB := bHi.Sub(bLo)
	l2 := edgeA.Len2()
	if l2 < geom.EPS {
		chk.Panic("InvalidGeometry: degenerate shared edge (%d,%d)", k.lo, k.hi)
	}
	cos := edgeA.Dot(edgeB) / l2
	sin := (edgeA.U*edgeB.V - edgeA.V*edgeB.U) / l2
	translate := bLo.Sub(aLo.Rotate(cos, sin))

	xf := geom.EdgeXform{Cos: cos, Sin: sin, Translate: translate, NeighborWall: sb.wallIdx, NeighborEdge: sb.edgeIdx}

	wallA.Edges[sa.edgeIdx] = part.Edge{NeighborWall: sb.wallIdx, NeighborIdx: sb.edgeIdx, Xform: xf, Forward: true}
	wallB.Edges[sb.edgeIdx] = part.Edge{NeighborWall: sa.wallIdx, NeighborIdx: sa.edgeIdx, Xform: xf, Forward: false}
}
