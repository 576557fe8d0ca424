// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package part implements the spatial Partition (spec 4.2, component B):
// the 3D box subdivided into uniform subpartitions, and the data model it
// owns (vertices, walls with optional surface grids, molecules, species,
// regions).
package part

// Reserved species ids (spec 6 "Reserved species ids"); these match any
// molecule of the respective family when used as a bimolecular or
// surface-class reactant.
const (
	AllMolecules       = -1
	AllVolumeMolecules = -2
	AllSurfaceMolecules = -3
)

// Species carries the diffusion parameters and flags of spec 3 "Species".
type Species struct {
	Id             int     // dense species id; sentinels use the reserved negative ids above
	Name           string  // display name
	D              float64 // diffusion constant (cm^2/s)
	DtS            float64 // species time-step Δt_s, derived from D and the global base timestep
	Sigma          float64 // space-step σ, derived from D and Δt_s
	IsVol          bool    // volume species
	IsSurf         bool    // surface species
	CanDiffuse     bool    // participates in diffusion steps
	CanReactSurf   bool    // can react with a surface (volume species crossing a wall)
	TimeStepFactor float64 // per-species Δt_s scale factor (config "time_step_factor", default 1)
}

// MatchesSpecies reports whether a concrete species id matches a
// (possibly sentinel) reactant species id, per the reserved-id semantics
// of spec 6.
func MatchesSpecies(reactant int, concrete *Species) bool {
	switch reactant {
	case AllMolecules:
		return true
	case AllVolumeMolecules:
		return concrete.IsVol
	case AllSurfaceMolecules:
		return concrete.IsSurf
	}
	return reactant == concrete.Id
}
