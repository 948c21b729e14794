// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package heap implements the mark-sweep allocator from spec.md §4.1: a
// singly-linked list of every Object ever created, a running byte-size
// total, and a collection threshold that, after a collection, doubles until
// it exceeds the surviving size.
//
// Grounded in shape on the teacher's lang/vm.Memory (tracked allocations +
// byte counters + bounds-checked accessors), adapted from "alloc/free by
// address, no GC" into mark-sweep with a per-Object trace operation, since
// the teacher has no garbage collector at all. The clear/mark/sweep
// algorithm itself follows original_source/src/allocator.cpp.
package heap

import (
	"github.com/nojima/nscheme/internal/nslog"
	"github.com/nojima/nscheme/internal/value"
)

// InitialThreshold is the collection threshold a fresh Heap starts with
// (spec.md §4.1: "initially ~1 KiB").
const InitialThreshold = 1024

// Roots gathers exactly the four root sources spec.md §4.1 names: the
// value stack, the frame stack (whose parent chains are walked by
// Object.Trace on KindFrame), any named global table, and literal values
// embedded in the instruction stream.
type Roots struct {
	ValueStack   []value.Value
	FrameStack   []*value.Object
	Globals      *value.Object // the global frame; nil if not yet built
	LiteralPool  []value.Value
}

// Heap owns every heap Object for one interpreter run.
//
// The zero value is not usable; use New.
type Heap struct {
	head      *value.Object // most recently allocated object
	size      int           // running byte-size total
	threshold int
	live      int // object count, for logging only

	logger nslog.Logger
}

// New returns an empty Heap with spec.md's initial threshold.
func New(logger nslog.Logger) *Heap {
	if logger == nil {
		logger = nslog.Discard()
	}
	return &Heap{threshold: InitialThreshold, logger: logger}
}

// alloc links obj into the object list and accounts for its byte size. Every
// constructor below (AllocPair, AllocFrame, ...) funnels through this.
func (h *Heap) alloc(obj *value.Object, size int) *value.Object {
	obj.SetByteSize(size)
	obj.SetHeapNext(h.head)
	h.head = obj
	h.size += size
	h.live++
	return obj
}

// Approximate per-kind byte costs, used only to drive the adaptive
// threshold; they need not be exact.
const (
	sizeString   = 32
	sizeReal     = 16
	sizePair     = 24
	sizeVectorHd = 24
	sizeFrameHd  = 24
	sizeClosure  = 48
	sizeNative   = 32
	sizeCont     = 48
)

func (h *Heap) AllocString(s []byte) *value.Object {
	return h.alloc(value.NewStringObject(s), sizeString+len(s))
}

func (h *Heap) AllocReal(r float64) *value.Object {
	return h.alloc(value.NewRealObject(r), sizeReal)
}

func (h *Heap) AllocPair(car, cdr value.Value) *value.Object {
	return h.alloc(value.NewPairObject(car, cdr), sizePair)
}

func (h *Heap) AllocVector(elems []value.Value) *value.Object {
	return h.alloc(value.NewVectorObject(elems), sizeVectorHd+8*len(elems))
}

func (h *Heap) AllocFrame(parent *value.Object, size int) *value.Object {
	return h.alloc(value.NewFrameObject(parent, size), sizeFrameHd+8*size)
}

func (h *Heap) AllocClosure(entryLabel int, captured *value.Object, argCount, frameSize int, variadic bool, name string) *value.Object {
	return h.alloc(value.NewClosureObject(entryLabel, captured, argCount, frameSize, variadic, name), sizeClosure)
}

func (h *Heap) AllocNativeFunction(name string, fn value.NativeFunc) *value.Object {
	return h.alloc(value.NewNativeFunctionObject(name, fn), sizeNative)
}

func (h *Heap) AllocContinuation(ip int, valueStack []value.Value, controlStack []int, frameStack []*value.Object) *value.Object {
	size := sizeCont + 8*len(valueStack) + 8*len(controlStack) + 8*len(frameStack)
	return h.alloc(value.NewContinuationObject(ip, valueStack, controlStack, frameStack), size)
}

// Size returns the current running byte-size total.
func (h *Heap) Size() int { return h.size }

// Threshold returns the current collection threshold.
func (h *Heap) Threshold() int { return h.threshold }

// SetThreshold overrides the collection threshold, e.g. from a --config
// file's InitialGCThreshold (SPEC_FULL.md §6). Doubling on collection
// still applies from whatever value is set here.
func (h *Heap) SetThreshold(n int) { h.threshold = n }

// MaybeCollect runs a collection iff Size() >= Threshold(), per spec.md
// §4.1's maybe_collect contract; otherwise it is a no-op. After a
// collection that still leaves size >= threshold, threshold is doubled
// repeatedly until size < threshold (amortized constant overhead).
func (h *Heap) MaybeCollect(roots Roots) {
	if h.size < h.threshold {
		return
	}
	before := h.size
	beforeLive := h.live
	h.collect(roots)
	if h.threshold < 1 {
		h.threshold = 1
	}
	for h.size >= h.threshold {
		h.threshold *= 2
	}
	h.logger.Debug("gc: collected",
		"freed_bytes", before-h.size,
		"freed_objects", beforeLive-h.live,
		"live_bytes", h.size,
		"live_objects", h.live,
		"threshold", h.threshold)
}

// collect runs one full mark-sweep pass (spec.md §4.1's three steps).
func (h *Heap) collect(roots Roots) {
	// 1. Clear the mark bit on every object.
	for o := h.head; o != nil; o = o.HeapNext() {
		o.SetMarked(false)
	}

	// 2. Mark every object reachable from the roots.
	var mark func(v value.Value)
	mark = func(v value.Value) {
		if !v.IsPointer() {
			return
		}
		obj := v.AsPointer()
		if obj == nil || obj.Marked() {
			return
		}
		obj.SetMarked(true)
		obj.Trace(mark)
	}

	for _, v := range roots.ValueStack {
		mark(v)
	}
	for _, f := range roots.FrameStack {
		if f != nil {
			mark(value.NewPointer(f))
		}
	}
	if roots.Globals != nil {
		mark(value.NewPointer(roots.Globals))
	}
	for _, v := range roots.LiteralPool {
		mark(v)
	}

	// 3. Sweep: free every unmarked object, relinking survivors into a new
	// chain in the same relative order.
	var survivors []*value.Object
	freedBytes := 0
	freedCount := 0
	for o := h.head; o != nil; o = o.HeapNext() {
		if o.Marked() {
			survivors = append(survivors, o)
		} else {
			freedBytes += o.ByteSize()
			freedCount++
		}
	}

	var newHead *value.Object
	for i := len(survivors) - 1; i >= 0; i-- {
		survivors[i].SetHeapNext(newHead)
		newHead = survivors[i]
	}
	h.head = newHead
	h.size -= freedBytes
	h.live -= freedCount
}
