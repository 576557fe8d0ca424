// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rngx implements the single shared, per-partition deterministic
// random source described in spec 5 "Shared resources": every probabilistic
// decision in the kernel consumes draws from one serial stream so that
// identical seeds reproduce identical runs bit-exactly (spec 4.6
// "Determinism", spec 8).
package rngx

import (
	"math"

	"github.com/cpmech/gosl/rnd"
)

// Stream is the mutable, process-wide RNG state owned by a Partition.
// It is never copied; all draws go through its methods so that the
// sequence of values consumed is fully determined by the seed.
type Stream struct {
	seed  int
	draws uint64 // total number of uniform draws consumed; diagnostic only
}

// NewStream seeds a new deterministic stream, mirroring the way
// inp.Simulation.AdjRandom-style configuration seeds teacher-side
// distributions via gosl/rnd.
func NewStream(seed int) *Stream {
	rnd.Init(seed)
	return &Stream{seed: seed}
}

// Draws returns the number of uniform draws consumed so far.
func (s *Stream) Draws() uint64 { return s.draws }

// Float64 draws one uniform value in [0,1). This is the base "one RNG
// draw" unit charged by every probabilistic decision in the kernel (spec
// 4.6 "Determinism").
func (s *Stream) Float64() float64 {
	s.draws++
	return rnd.Float64(0, 1)
}

// Uint32 draws one 32-bit uniform value, used by the Marsaglia polar
// sampler (spec 4.7 step 1) which needs two independent 16-bit halves of a
// single 32-bit draw.
func (s *Stream) Uint32() uint32 {
	s.draws++
	return uint32(rnd.Float64(0, 1) * 4294967296.0)
}

// Sign draws one random sign bit, consuming exactly one RNG draw. Used by
// jump_away_line (spec 4.1) and by REDO perturbation in the ray-triangle
// test (spec 4.4). Implements geom.SignSource.
func (s *Stream) Sign() float64 {
	if s.Float64() < 0.5 {
		return -1
	}
	return 1
}

// NormalZiggurat draws one standard-normal deviate using the Ziggurat
// algorithm (Marsaglia & Tsang 2000), as required by spec 4.5 step 3 for
// the volume diffusion displacement sampler.
func (s *Stream) NormalZiggurat() float64 {
	for {
		u := s.Float64()
		sign := 1.0
		if u < 0.5 {
			sign = -1
			u *= 2
		} else {
			u = (u - 0.5) * 2
		}
		i := int(u * zigN)
		if i >= zigN {
			i = zigN - 1
		}
		x := s.Float64() * zigX[i]
		if x < zigX[i+1] {
			return sign * x
		}
		if i == 0 {
			// base strip: sample from the tail using the standard
			// exponential-tail fallback.
			var x0, y0 float64
			for {
				x0 = -math.Log(s.Float64()+1e-300) / zigX[1]
				y0 = -math.Log(s.Float64() + 1e-300)
				if 2*y0 > x0*x0 {
					break
				}
			}
			return sign * (zigX[1] + x0)
		}
		y := s.Float64() * (zigY[i-1] - zigY[i])
		f := math.Exp(-0.5 * x * x)
		if zigY[i]+y < f {
			return sign * x
		}
	}
}

// zigN is the number of Ziggurat layers (Marsaglia & Tsang's N=128
// construction); zigX/zigY are computed once at init from the standard
// tail value r.
const zigN = 128

var zigX [zigN + 1]float64
var zigY [zigN + 1]float64

func init() {
	const r = 3.442619855899
	const v = 9.91256303526217e-3
	zigX[zigN] = r
	zigY[zigN] = math.Exp(-0.5 * r * r)
	for i := zigN - 1; i >= 1; i-- {
		zigX[i] = math.Sqrt(-2 * math.Log(v/zigX[i+1]+zigY[i+1]))
		zigY[i] = math.Exp(-0.5 * zigX[i] * zigX[i])
	}
	zigX[0] = v / zigY[1]
	zigY[0] = 1
}

// Normal3D draws a 3D standard-normal displacement scaled the way spec 4.5
// step 3 requires: d = sqrt(steps)*sigma*Z where Z's components are each a
// Ziggurat normal scaled by 1/sqrt(2).
func (s *Stream) Normal3D() (x, y, z float64) {
	const invSqrt2 = 0.70710678118654752440
	x = s.NormalZiggurat() * invSqrt2
	y = s.NormalZiggurat() * invSqrt2
	z = s.NormalZiggurat() * invSqrt2
	return
}

// Normal2DPolar draws a 2D Gaussian displacement using the Marsaglia polar
// method exactly as spec 4.7 step 1 describes: repeatedly draw two 16-bit
// halves of a 32-bit uniform, map to (-1,1)^2, reject outside the open
// unit disk, then scale by sigma*sqrt(-ln(f)/f).
func (s *Stream) Normal2DPolar(sigma float64) (u, v float64) {
	for {
		bits := s.Uint32()
		hi := uint16(bits >> 16)
		lo := uint16(bits)
		x := float64(hi)/32768.0 - 1
		y := float64(lo)/32768.0 - 1
		f := x*x + y*y
		if f >= 1 || f == 0 {
			continue
		}
		scale := sigma * math.Sqrt(-math.Log(f)/f)
		return x * scale, y * scale
	}
}

// ExpDraw draws t = -ln(U)/rate, the exponential inter-event time used for
// scheduling unimolecular reaction lifetimes (spec 4.5 step 1, spec 4.6
// "Unimolecular time"). rate <= 0 means "no reaction"; callers must treat
// that as +Inf before calling.
func (s *Stream) ExpDraw(rate float64) float64 {
	u := s.Float64()
	for u <= 0 {
		u = s.Float64()
	}
	return -math.Log(u) / rate
}
