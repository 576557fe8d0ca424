// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import "github.com/mcellgo/rxkernel/geom"

// Vertex is a shared 3D point, indexed by a dense integer (spec 3
// "Vertex"). Walls is the back-index mapping this vertex to every wall
// that uses it.
type Vertex struct {
	Pos   geom.Vec3
	Walls []int // back-index: wall indices using this vertex
}
