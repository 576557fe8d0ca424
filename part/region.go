// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

// Region is a named subset of walls on an object (spec 3 "Region"). A
// reactive region carries a surface-class species id used for
// volume-crosses-surface reactions. Inside/outside tests are done by
// collide.IsPointInsideWalls on a wall list; Region has no method for
// them (SPEC_FULL 12).
type Region struct {
	Name            string
	WallIndices     []int
	Reactive        bool
	SurfaceClassSp  int // species id of the surface class, if Reactive
}
