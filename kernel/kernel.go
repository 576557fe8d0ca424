// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kernel implements the top-level diffuse-and-react control loop
// of spec 2 "Control flow" and the orchestration struct that wires
// Partition + Catalogue + Calendar + RNG + Config, playing the role of
// fem.FEM/fem.Run in the teacher.
package kernel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/boundary"
	"github.com/mcellgo/rxkernel/calendar"
	"github.com/mcellgo/rxkernel/config"
	"github.com/mcellgo/rxkernel/diffuse"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kerrors"
	"github.com/mcellgo/rxkernel/part"
	"github.com/mcellgo/rxkernel/reactex"
	"github.com/mcellgo/rxkernel/rngx"
	"github.com/mcellgo/rxkernel/rxn"
	"github.com/mcellgo/rxkernel/surf"
)

// Kernel holds everything one partition's diffuse-and-react run needs:
// the spatial partition, the reaction catalogue, the scheduler, the
// shared RNG, the product placer, and the volume/surface steppers built
// on top of them.
type Kernel struct {
	Config    *config.Config
	Partition *part.Partition
	Catalogue *rxn.Catalogue
	Calendar  *calendar.Calendar
	Rng       *rngx.Stream
	Placer    *reactex.Placer

	VolStepper  *diffuse.Stepper
	SurfStepper *surf.Stepper

	// Iteration is the current discrete timestep index (spec 2 "advances
	// discrete timesteps").
	Iteration int

	// AmbiguousCount tallies AmbiguousCollision conditions bumped by REDO
	// exhaustion (spec 7): recoverable, never fatal.
	AmbiguousCount int
	// TileFullCount tallies TileFull errors returned by a stepper (spec 7).
	// Neither stepper returns one: both handle a rejected product placement
	// inside Step, so such rejections are not counted here.
	TileFullCount int

	// Snapshot and Events are the optional output seams of SPEC_FULL §11;
	// nil means "no observer attached" and is always safe to call through.
	Snapshot boundary.Snapshot
	Events   boundary.RxnEvent

	Verbose bool
}

// New builds a Kernel from a loaded configuration: the partition
// geometry, species, reaction catalogue, and a calendar bucketed at
// config.CalendarStep (defaulting to BaseTimeStep).
func New(cfg *config.Config) *Kernel {
	p := part.NewPartition(geom.Vec3{}, cfg.PartitionEdgeLength, cfg.NumSubpartitionsPerPartiton, cfg.RxRadius3D, cfg.UseExpandedList)
	cfg.BuildSpecies(p)
	cfg.BuildGeometry(p)
	cat := cfg.BuildCatalogue()

	rng := rngx.NewStream(cfg.Seed)
	placer := &reactex.Placer{Partition: p, Rng: rng, VacancySearchDist2: cfg.VacancySearchDist2, RandomizeSmolPos: cfg.RandomizeSmolPos}

	bucketWidth := cfg.CalendarStep
	if bucketWidth <= 0 {
		bucketWidth = cfg.BaseTimeStep
	}
	cal := calendar.New(bucketWidth)

	k := &Kernel{
		Config:      cfg,
		Partition:   p,
		Catalogue:   cat,
		Calendar:    cal,
		Rng:         rng,
		Placer:      placer,
		VolStepper:  diffuse.NewStepper(p, cat, rng, placer),
		SurfStepper: surf.NewStepper(p, cat, rng, placer),
	}
	for _, rd := range cfg.Releases {
		k.Release(rd)
	}
	return k
}

// ScheduleMolecule inserts a diffuse-step action for id at time t into the
// calendar (spec 4.8: "diffuse-step events per (species, timestep)").
func (k *Kernel) ScheduleMolecule(id part.MoleculeId, t, tauLeft float64) {
	k.Calendar.Insert(calendar.Action{Time: t, Kind: calendar.DiffuseAction, Mol: id, TauLeft: tauLeft})
}

// Release creates rd.Count molecules of rd's species and schedules each
// into the calendar at time 0 (spec 3 "Lifecycle": molecules are
// "created by release sites or by reactions"; spec 8 scenarios open with
// "Release N molecules at position X"). A surface species is placed on
// rd.WallIdx at rd.U,rd.V via the same Placer.PlaceSurfaceProduct path a
// surface reaction product takes; any other species is placed at
// rd.X,rd.Y,rd.Z as a volume molecule. Called by New for every
// config.Config.Releases entry, so a config-driven scenario can run
// end-to-end without the caller hand-building molecules.
func (k *Kernel) Release(rd config.ReleaseDef) {
	sp := k.Partition.SpeciesById[rd.SpeciesId]
	if sp == nil {
		chk.Panic("ConfigInconsistent: release site names unknown species %d", rd.SpeciesId)
	}
	for i := 0; i < rd.Count; i++ {
		var (
			id  part.MoleculeId
			err error
		)
		if sp.IsSurf {
			id, err = k.Placer.PlaceSurfaceProduct(rd.SpeciesId, rd.WallIdx, geom.Vec2{U: rd.U, V: rd.V}, rd.Orientation)
		} else {
			id, err = k.Placer.PlaceVolumeProduct(rd.SpeciesId, geom.Vec3{X: rd.X, Y: rd.Y, Z: rd.Z})
		}
		if err != nil {
			chk.Panic("ConfigInconsistent: release site for species %d: %v", rd.SpeciesId, err)
		}
		k.ScheduleMolecule(id, 0, k.Config.BaseTimeStep)
	}
}

// RunEvent processes one dequeued calendar action to completion (spec 2
// "Control flow": the scheduler dequeues the next diffuse-and-react
// event; G draws a displacement... H may schedule follow-up diffuse
// actions back into I"). Newly created products are driven through an
// in-event FIFO queue (spec 5 guarantee 3) so they are processed before
// the scheduler moves on to the next calendar bucket, matching the
// reference ordering exactly.
func (k *Kernel) RunEvent(a calendar.Action) error {
	var fifo calendar.FIFOQueue
	fifo.Push(a)

	for !fifo.Empty() {
		act, _ := fifo.Pop()
		m := k.Partition.Molecules[act.Mol]
		if m.Defunct {
			continue
		}

		var prods []part.MoleculeId
		var alive bool
		var err error
		if m.IsSurface {
			prods, alive, err = k.SurfStepper.Step(act.Mol, act.TauLeft, act.Time)
		} else {
			prods, alive, err = k.VolStepper.Step(act.Mol, act.TauLeft, act.Time)
		}

		if err != nil {
			if kerrors.Is(err, kerrors.AmbiguousCollision) {
				k.AmbiguousCount++
				continue
			}
			if kerrors.Is(err, kerrors.TileFull) {
				k.TileFullCount++
				continue
			}
			return err
		}

		if k.Events != nil && len(prods) > 0 {
			loc := k.Partition.Molecules[prods[0]].Pos
			k.Events.OnReaction(act.Time, []part.MoleculeId{act.Mol}, prods, loc)
		}

		for _, pid := range prods {
			fifo.Push(calendar.Action{Time: act.Time, Kind: calendar.DiffuseAction, Mol: pid, TauLeft: act.TauLeft})
		}
		_ = alive // survival without products needs no further action this event
	}
	return nil
}

// Step runs exactly one scheduler dequeue-and-process cycle (spec 2
// "Control flow"). Before the action runs, every reaction class is
// rescaled to the action's time (RxnClass.Rescale; a no-op without a
// schedule). ok is false once the calendar is empty.
func (k *Kernel) Step() (ok bool, err error) {
	a, has := k.Calendar.PopNext()
	if !has {
		return false, nil
	}
	for _, rc := range k.Catalogue.Unimol {
		rc.Rescale(a.Time)
	}
	for _, rc := range k.Catalogue.Bimol {
		rc.Rescale(a.Time)
	}
	return true, k.RunEvent(a)
}

// Run drains the calendar one dequeued action at a time, advancing
// Iteration after each, until no actions remain or a fatal error unwinds
// (spec 7: RuntimeOutOfDomain, MissedUnimolecular).
func (k *Kernel) Run(maxIterations int) error {
	for k.Iteration = 0; maxIterations <= 0 || k.Iteration < maxIterations; k.Iteration++ {
		if k.Calendar.Len() == 0 {
			k.logf("> calendar drained at iteration %d (%d ambiguous, %d tile-full)\n", k.Iteration, k.AmbiguousCount, k.TileFullCount)
			return nil
		}
		ok, err := k.Step()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if k.Snapshot != nil {
			k.emitSnapshot()
		}
	}
	return nil
}

func (k *Kernel) emitSnapshot() {
	for _, m := range k.Partition.Molecules {
		if m.Defunct || m.IsSurface {
			continue
		}
		k.Snapshot.OnMolecule(k.Iteration, m.Id, m.SpeciesId, m.Pos)
	}
}
