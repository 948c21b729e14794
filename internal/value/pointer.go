// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package value

import "unsafe"

// uintptrOf and pointerOf convert between *Object and the 64-bit word a
// pointer-tagged Value stores. This is the one place the tagged
// representation (spec.md §3) requires unsafe: the heap owns every Object
// through a real, typed *Object chain (heap.Heap's intrusive object list),
// so converting a copy of that pointer to an integer here never leaves an
// Object reachable only through a non-pointer integer — Go's collector
// still sees the heap's own chain.
func uintptrOf(obj *Object) uint64 {
	return uint64(uintptr(unsafe.Pointer(obj)))
}

func pointerOf(word uint64) *Object {
	return (*Object)(unsafe.Pointer(uintptr(word)))
}
