// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calendar

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_calendar01 reproduces spec 8's "insert-then-pop-smallest yields
// actions in non-decreasing time; inserting duplicates preserves FIFO
// per bucket".
func Test_calendar01(tst *testing.T) {

	chk.PrintTitle("calendar01")

	c := New(1.0)
	c.Insert(Action{Time: 2.5, Mol: 20})
	c.Insert(Action{Time: 0.1, Mol: 1})
	c.Insert(Action{Time: 0.2, Mol: 2}) // same bucket as the one above, inserted second
	c.Insert(Action{Time: 1.5, Mol: 10})

	var order []float64
	var mols []int
	for {
		a, ok := c.PopNext()
		if !ok {
			break
		}
		order = append(order, a.Time)
		mols = append(mols, int(a.Mol))
	}

	for i := 1; i < len(order); i++ {
		if order[i] < order[i-1] {
			tst.Fatalf("expected non-decreasing pop order, got %v", order)
		}
	}
	// the two actions sharing bucket 0 (times 0.1 and 0.2) must come out
	// in their insertion order: molecule 1 before molecule 2.
	if mols[0] != 1 || mols[1] != 2 {
		tst.Fatalf("expected FIFO order within a bucket, got %v", mols)
	}
}

func Test_calendar_trims_empty_front01(tst *testing.T) {

	chk.PrintTitle("calendar_trims_empty_front01")

	c := New(1.0)
	c.Insert(Action{Time: 0.1, Mol: 1})
	c.Insert(Action{Time: 5.1, Mol: 2})

	_, ok := c.PopNext()
	if !ok {
		tst.Fatalf("expected a first action")
	}
	if len(c.buckets) != 1 {
		tst.Fatalf("expected the empty leading buckets to be trimmed, got %d buckets", len(c.buckets))
	}
}

func Test_fifoqueue01(tst *testing.T) {

	chk.PrintTitle("fifoqueue01")

	var q FIFOQueue
	if !q.Empty() {
		tst.Fatalf("expected a new queue to be empty")
	}
	q.Push(Action{Mol: 1})
	q.Push(Action{Mol: 2})

	a, ok := q.Pop()
	if !ok || a.Mol != 1 {
		tst.Fatalf("expected molecule 1 first, got %+v ok=%v", a, ok)
	}
	a, ok = q.Pop()
	if !ok || a.Mol != 2 {
		tst.Fatalf("expected molecule 2 second, got %+v ok=%v", a, ok)
	}
	if !q.Empty() {
		tst.Fatalf("expected the queue to be empty after draining")
	}
}
