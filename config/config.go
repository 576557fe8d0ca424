// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the JSON-tagged configuration read from a
// kernel input file (SPEC_FULL §10, mirroring inp.Data's style):
// the items of spec.md §6 "Configuration (enumerated)", plus species,
// reaction class, and geometry definitions.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Config holds every item enumerated in spec.md §6, read from a single
// JSON input file the way inp.ReadSim reads a .sim file.
type Config struct {

	// partition geometry
	PartitionEdgeLength         float64 `json:"partition_edge_length"`          // side of the cubic simulation box
	NumSubpartitionsPerPartiton int     `json:"num_subpartitions_per_partition"` // N_sp; subpart edge = edge/N_sp
	RxRadius3D                  float64 `json:"rx_radius_3d"`                   // sigma for volume-volume interaction
	UseExpandedList             bool    `json:"use_expanded_list"`              // inflate wall-subpart registration by rx_radius_3d

	// product placement
	VacancySearchDist2 float64 `json:"vacancy_search_dist2"` // distance^2 allowed when searching for a free surface tile
	RandomizeSmolPos   bool    `json:"randomize_smol_pos"`   // add a random offset to a surface product's uv; when false the product keeps its requested (or searched) uv, not the tile centroid

	// timing
	BaseTimeStep float64 `json:"base_time_step"` // global Delta_t used to derive each species' Delta_t_s
	CalendarStep float64 `json:"calendar_step"`  // calendar bucket width (default: base_time_step)

	// RNG
	Seed int `json:"seed"` // deterministic RNG seed (spec 6 "Determinism")

	// surface tiling
	SurfaceGridN int `json:"surface_grid_n"` // tiles per wall edge; 0 means DefaultSurfaceGridN

	Species  []SpeciesDef  `json:"species"`
	Rxns     []RxnClassDef `json:"reactions"`
	Geom     GeometryDef   `json:"geometry"`
	Releases []ReleaseDef  `json:"releases"`
}

// ReleaseDef is one release site (spec.md §3 "Lifecycle": molecules are
// "created by release sites or by reactions"; spec.md §8 scenarios open
// with "Release N molecules at position X"). A volume release names a
// 3D point; a surface release names a wall (triangle index into
// geometry.triangles) and a local uv point on it, resolved to a tile by
// that wall's grid the same way reactex.Placer resolves product
// placement.
type ReleaseDef struct {
	SpeciesId int `json:"species_id"`
	Count     int `json:"count"`

	// volume release position; ignored for a surface species
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// surface release: wall (triangle index) and local uv on it
	WallIdx     int     `json:"wall_idx"`
	U           float64 `json:"u"`
	V           float64 `json:"v"`
	Orientation int     `json:"orientation"`
}

// SpeciesDef is the external species input of spec.md §6: "Name,
// diffusion constant D (cm²/s), is-surface flag; the engine derives
// Δt_s and σ from D and the global base timestep."
type SpeciesDef struct {
	Id             int     `json:"id"`               // dense species id (reserved negative ids are never used here)
	Name           string  `json:"name"`              // display name
	D              float64 `json:"d"`                 // diffusion constant (cm^2/s)
	IsSurf         bool    `json:"is_surf"`           // surface species
	CanDiffuse     bool    `json:"can_diffuse"`       // participates in diffusion steps
	CanReactSurf   bool    `json:"can_react_surf"`    // can react with a surface
	TimeStepFactor float64 `json:"time_step_factor"` // per-species Delta_t_s scale factor, default 1
}

// ProductDef is one product species with its orientation (spec.md §6
// "product list with orientations").
type ProductDef struct {
	SpeciesId   int `json:"species_id"`
	Orientation int `json:"orientation"`
}

// PathwayDef is one reaction outcome: a probability/rate and product list.
type PathwayDef struct {
	Probability float64      `json:"probability"`
	Products    []ProductDef `json:"products"`
}

// ScheduleDef is the optional variable-rate schedule of spec.md §6: "an
// increasing sequence of (time, rate) that replaces the class rate at
// those times."
type ScheduleDef struct {
	Times []float64 `json:"times"`
	Rates []float64 `json:"rates"`
}

// RxnClassDef is the external reaction input of spec.md §6: "For each
// ordered reactant tuple, an RxnClass with one or more pathways... Type
// tag (Standard/Transparent/Reflect/AbsorbRegionBorder)."
type RxnClassDef struct {
	Reactants []int         `json:"reactants"` // ordered reactant species ids; reserved ALL_* ids allowed
	Pathways  []PathwayDef  `json:"pathways"`
	Kind      string        `json:"kind"` // "standard", "transparent", "reflect", "absorb_region_border"
	Schedule  *ScheduleDef  `json:"schedule,omitempty"`
}

// VertexDef is one mesh vertex (spec.md §6 "Geometry input").
type VertexDef struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TriangleDef is one mesh triangle: three 0-based vertex indices.
type TriangleDef struct {
	V0 int `json:"v0"`
	V1 int `json:"v1"`
	V2 int `json:"v2"`
}

// RegionDef is a named subset of an object's triangles, with an optional
// surface-class species (spec.md §6 "optional named regions carrying
// lists of triangle indices and an optional surface-class species").
type RegionDef struct {
	Name           string `json:"name"`
	TriangleIdx    []int  `json:"triangles"`
	Reactive       bool   `json:"reactive"`
	SurfaceClassSp int    `json:"surface_class_species"`
}

// GeometryDef is the full geometry input of spec.md §6.
type GeometryDef struct {
	Vertices  []VertexDef   `json:"vertices"`
	Triangles []TriangleDef `json:"triangles"`
	Regions   []RegionDef   `json:"regions"`
}

// Load reads and parses a JSON configuration file the way inp.ReadSim
// reads a .sim file, then validates it (spec 7 "ConfigInconsistent":
// fatal at initialization).
func Load(path string) (*Config, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("config: cannot read %q: %v", path, err)
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, chk.Err("config: cannot parse %q: %v", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the invariants spec 7 requires to be fatal at
// initialization: a positive subpart count, subpart edge exceeding
// rx_radius_3d, non-negative pathway probabilities, and non-empty
// reactant tuples. Partition.NewPartition and rxn.NewRxnClass re-check
// the geometric/probability invariants with chk.Panic at construction
// time; Validate lets config.Load report the same conditions as a plain
// error before any panic-based construction begins.
func (c *Config) Validate() error {
	if c.NumSubpartitionsPerPartiton <= 0 {
		return chk.Err("ConfigInconsistent: num_subpartitions_per_partition must be positive, got %d", c.NumSubpartitionsPerPartiton)
	}
	subpartEdge := c.PartitionEdgeLength / float64(c.NumSubpartitionsPerPartiton)
	if subpartEdge <= c.RxRadius3D {
		return chk.Err("ConfigInconsistent: subpart edge (%v) must exceed rx_radius_3d (%v)", subpartEdge, c.RxRadius3D)
	}
	for _, rc := range c.Rxns {
		if len(rc.Reactants) == 0 {
			return chk.Err("ConfigInconsistent: a reaction class has an empty reactant tuple")
		}
		for _, pw := range rc.Pathways {
			if pw.Probability < 0 {
				return chk.Err("ConfigInconsistent: negative pathway probability %v in class %v", pw.Probability, rc.Reactants)
			}
		}
	}
	return nil
}
