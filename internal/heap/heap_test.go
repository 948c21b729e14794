// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package heap

import (
	"testing"

	"github.com/nojima/nscheme/internal/nslog"
	"github.com/nojima/nscheme/internal/value"
)

func newTestHeap() *Heap {
	return New(nslog.Discard())
}

func TestAllocPairTrace(t *testing.T) {
	h := newTestHeap()
	p := h.AllocPair(value.NewInteger(1), value.NewInteger(2))
	if p.Kind != value.KindPair {
		t.Fatalf("AllocPair returned Kind %v, want KindPair", p.Kind)
	}
	if h.Size() == 0 {
		t.Fatal("Size() should account for the newly allocated pair")
	}
}

func TestMaybeCollectBelowThreshold(t *testing.T) {
	h := newTestHeap()
	h.AllocPair(value.NewInteger(1), value.NewInteger(2))
	before := h.Size()
	h.MaybeCollect(Roots{})
	if h.Size() != before {
		t.Fatalf("collection ran below threshold: size changed from %d to %d", before, h.Size())
	}
}

func TestCollectFreesUnreachable(t *testing.T) {
	h := newTestHeap()
	h.SetThreshold(0) // force every MaybeCollect call to run

	reachable := h.AllocPair(value.NewInteger(1), value.Nil)
	garbage := h.AllocPair(value.NewInteger(2), value.Nil)
	_ = garbage

	h.MaybeCollect(Roots{ValueStack: []value.Value{value.NewPointer(reachable)}})

	if garbage.Marked() {
		t.Fatal("unreachable object should not remain marked after sweep")
	}

	// The reachable object must still be usable: walk the surviving list
	// to confirm it is present.
	found := false
	for o := h.head; o != nil; o = o.HeapNext() {
		if o == reachable {
			found = true
		}
	}
	if !found {
		t.Fatal("reachable object was incorrectly collected")
	}
}

func TestCollectHandlesCycles(t *testing.T) {
	h := newTestHeap()
	h.SetThreshold(0)

	a := h.AllocPair(value.Nil, value.Nil)
	b := h.AllocPair(value.NewPointer(a), value.Nil)
	a.Car = value.NewPointer(b) // a -> b -> a, a cycle

	h.MaybeCollect(Roots{ValueStack: []value.Value{value.NewPointer(a)}})

	liveCount := 0
	for o := h.head; o != nil; o = o.HeapNext() {
		liveCount++
	}
	if liveCount != 2 {
		t.Fatalf("expected both cyclic objects to survive (rooted via a), got %d live objects", liveCount)
	}
}

func TestThresholdDoublesUntilSurvivorsFitUnderIt(t *testing.T) {
	h := newTestHeap()
	h.SetThreshold(1) // collect immediately

	p := h.AllocPair(value.NewInteger(1), value.NewInteger(2))
	h.MaybeCollect(Roots{ValueStack: []value.Value{value.NewPointer(p)}})

	if h.Size() >= h.Threshold() {
		t.Fatalf("threshold %d did not grow past surviving size %d", h.Threshold(), h.Size())
	}
	if h.Threshold() <= 1 {
		t.Fatalf("threshold should have doubled at least once, got %d", h.Threshold())
	}
}
