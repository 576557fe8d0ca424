// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/mcellgo/rxkernel/boundary"
	"github.com/mcellgo/rxkernel/config"
	"github.com/mcellgo/rxkernel/geom"
	"github.com/mcellgo/rxkernel/kernel"
	"github.com/mcellgo/rxkernel/part"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// message
	io.PfWhite("\nrxkernel -- a spatial stochastic reaction-diffusion engine\n\n")

	// configuration filenamepath
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a configuration filename. Ex.: scenario.json")
	}

	// check extension
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".json"
	}

	// profiling?
	defer utl.DoProf(false)()

	// load and validate configuration
	cfg, err := config.Load(fnamepath)
	if err != nil {
		chk.Panic("Start failed: %v", err)
	}

	// build the kernel and attach a console snapshot printer
	k := kernel.New(cfg)
	k.Snapshot = consoleSnapshot{}

	// run to completion (the calendar drains when every molecule's final
	// unimolecular or diffuse action has fired; spec 2 "Control flow")
	if err := k.Run(0); err != nil {
		chk.Panic("Run failed: %v", err)
	}

	io.Pf("\nfinished at iteration %d (%d ambiguous, %d tile-full)\n", k.Iteration, k.AmbiguousCount, k.TileFullCount)
}

// consoleSnapshot is the default boundary.Snapshot: it prints one line per
// molecule per emitted snapshot, standing in until a caller wires a real
// output sink (SPEC_FULL §11).
type consoleSnapshot struct{}

func (consoleSnapshot) OnMolecule(iteration int, id part.MoleculeId, speciesId int, pos geom.Vec3) {
	io.Pf("%6d  mol=%-8d sp=%-4d pos=(%g,%g,%g)\n", iteration, id, speciesId, pos.X, pos.Y, pos.Z)
}

var _ boundary.Snapshot = consoleSnapshot{}
