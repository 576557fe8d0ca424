// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package calendar implements the scheduler of spec 4.8 (component I): a
// deque of fixed-width time buckets holding diffuse-step actions (each of
// which also carries its molecule's due unimolecular check, spec 4.6
// "Unimolecular time"), plus the per-event in-event FIFO queue used while
// one diffuse event is being processed (spec 5 "Ordering guarantees").
package calendar

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/mcellgo/rxkernel/part"
)

// Kind tags the action varieties the calendar carries (spec 4.8). There is
// presently one: a diffuse-step action. Each diffuse/surface Step call
// checks its own molecule's unimolecular clock inline (spec 4.6) rather
// than the scheduler dispatching a separate kind for it, mirroring how
// the reference simulator folds the unimolecular check into diffuse_3D
// rather than scheduling it as its own event.
type Kind int

const (
	DiffuseAction Kind = iota
)

// Action is one scheduled unit of work: diffuse molecule Mol for up to
// TauLeft starting at Time, or fire Mol's due unimolecular reaction at
// Time. Seq is the insertion sequence stamped by Insert; actions that share
// a bucket are popped in insertion order (spec 5 guarantee 4, spec 8
// "Calendar... preserves FIFO per bucket").
type Action struct {
	Time    float64
	Kind    Kind
	Mol     part.MoleculeId
	TauLeft float64
	Seq     uint64
}

// Calendar is the bucketed deque of spec 4.8: bucket width Delta (one
// whole timestep by default), indexed by floor(time/Delta). Empty front
// buckets are trimmed so Len stays proportional to the live action span,
// not to elapsed time.
type Calendar struct {
	Delta   float64
	buckets [][]Action // buckets[0] is the earliest live bucket
	base    int        // bucket index of buckets[0]
	seq     uint64
	popped  bool // whether PopNext has returned an action yet
	lastPop int  // bucket index of the most recently popped action
}

// New builds an empty calendar with bucket width delta.
func New(delta float64) *Calendar {
	if delta <= 0 {
		chk.Panic("ConfigInconsistent: calendar bucket width must be positive, got %v", delta)
	}
	return &Calendar{Delta: delta}
}

func (c *Calendar) bucketOf(t float64) int {
	return int(math.Floor(t / c.Delta))
}

// Insert implements insert(action) (spec 4.8): finds or creates the
// bucket for floor(time/Delta) and appends the action, stamping it with
// the next insertion sequence number. An action whose bucket precedes the
// bucket of the most recently popped action is a fatal MissedUnimolecular
// condition.
func (c *Calendar) Insert(a Action) {
	a.Seq = c.seq
	c.seq++

	idx := c.bucketOf(a.Time)
	if c.popped && idx < c.lastPop {
		chk.Panic("MissedUnimolecular: action scheduled at time %v precedes the last popped bucket (%v)", a.Time, c.lastPop)
	}
	if len(c.buckets) == 0 {
		c.base = idx
		c.buckets = append(c.buckets, nil)
	}
	if idx < c.base {
		c.buckets = append(make([][]Action, c.base-idx), c.buckets...)
		c.base = idx
	}
	for idx-c.base >= len(c.buckets) {
		c.buckets = append(c.buckets, nil)
	}
	c.buckets[idx-c.base] = append(c.buckets[idx-c.base], a)
}

// PopNext implements pop_next() (spec 4.8): returns the earliest action in
// the earliest non-empty bucket, in FIFO order among same-bucket actions;
// trims empty front buckets. ok is false when the calendar is empty.
func (c *Calendar) PopNext() (a Action, ok bool) {
	for len(c.buckets) > 0 && len(c.buckets[0]) == 0 {
		c.buckets = c.buckets[1:]
		c.base++
	}
	if len(c.buckets) == 0 {
		return Action{}, false
	}
	bucket := c.buckets[0]
	a = bucket[0]
	c.buckets[0] = bucket[1:]
	c.popped, c.lastPop = true, c.base
	for len(c.buckets) > 0 && len(c.buckets[0]) == 0 {
		c.buckets = c.buckets[1:]
		c.base++
	}
	return a, true
}

// Len reports the total number of live actions across all buckets.
func (c *Calendar) Len() int {
	n := 0
	for _, b := range c.buckets {
		n += len(b)
	}
	return n
}

// FIFOQueue is the in-event queue of spec 4.8: within one diffuse event,
// freshly spawned products and unimolecular reactions due inside the
// current window are processed in insertion order, not by time (spec 5
// guarantee 3, "Newly spawned diffuse actions are appended to the end of
// the in-event FIFO").
type FIFOQueue struct {
	items []Action
}

// Push appends an action to the back of the queue.
func (q *FIFOQueue) Push(a Action) {
	q.items = append(q.items, a)
}

// Pop removes and returns the action at the front of the queue.
func (q *FIFOQueue) Pop() (a Action, ok bool) {
	if len(q.items) == 0 {
		return Action{}, false
	}
	a = q.items[0]
	q.items = q.items[1:]
	return a, true
}

// Empty reports whether the queue has no pending actions.
func (q *FIFOQueue) Empty() bool {
	return len(q.items) == 0
}
