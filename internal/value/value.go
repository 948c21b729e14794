// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package value defines the tagged 64-bit Value word that is the single
// currency of the interpreter, and the closed set of heap Object variants
// a Value may point at.
package value

import (
	"fmt"

	"github.com/nojima/nscheme/internal/symbol"
)

// Value is a 64-bit word with a 2-bit low tag. See the package doc and
// SPEC_FULL.md §3 for the full tag layout.
type Value uint64

const (
	kShift        = 2
	kMask         = (1 << kShift) - 1
	kFlagInteger  = 1
	kFlagSymbol   = 2
	kFlagCharacter = 3
)

// Sentinel immediate values. These occupy the low tag 00 (pointer/immediate)
// and are distinguished from real heap pointers by being numerically below
// any valid heap address: a pointer Value holds its Object's address (see
// pointer.go), and no Go heap object lives at address 0, 4, 8 or 16, so the
// four reserved Value words never equal an encoded pointer.
const (
	Nil       Value = 0
	False     Value = 4
	True      Value = 8
	Undefined Value = 16
)

// NewInteger returns the Value representing the signed 62-bit integer n.
func NewInteger(n int64) Value {
	return Value((uint64(n) << kShift) | kFlagInteger)
}

// NewSymbol returns the Value representing sym.
func NewSymbol(sym symbol.Symbol) Value {
	return Value((uint64(sym) << kShift) | kFlagSymbol)
}

// NewCharacter returns the Value representing the Unicode code point c.
func NewCharacter(c rune) Value {
	return Value((uint64(uint32(c)) << kShift) | kFlagCharacter)
}

// NewPointer wraps a heap Object pointer as a Value. The caller guarantees
// obj is non-nil and owned by a heap.Heap.
func NewPointer(obj *Object) Value {
	return Value(uintptrOf(obj))
}

// tagOf returns the low 2 bits.
func tagOf(v Value) uint64 { return uint64(v) & kMask }

// IsInteger reports whether v is an immediate integer.
func (v Value) IsInteger() bool { return tagOf(v) == kFlagInteger }

// IsSymbol reports whether v is an immediate symbol.
func (v Value) IsSymbol() bool { return tagOf(v) == kFlagSymbol }

// IsCharacter reports whether v is an immediate character.
func (v Value) IsCharacter() bool { return tagOf(v) == kFlagCharacter }

// IsImmediateSentinel reports whether v is one of Nil/False/True/Undefined.
func (v Value) IsImmediateSentinel() bool {
	return tagOf(v) == 0 && (v == Nil || v == False || v == True || v == Undefined)
}

// IsPointer reports whether v is a heap pointer (tag 00, not a sentinel).
func (v Value) IsPointer() bool {
	return tagOf(v) == 0 && !v.IsImmediateSentinel()
}

// AsInteger returns the signed integer v encodes. Caller must check IsInteger.
func (v Value) AsInteger() int64 { return int64(v) >> kShift }

// AsSymbol returns the symbol.Symbol v encodes. Caller must check IsSymbol.
func (v Value) AsSymbol() symbol.Symbol { return symbol.Symbol(uint64(v) >> kShift) }

// AsCharacter returns the code point v encodes. Caller must check IsCharacter.
func (v Value) AsCharacter() rune { return rune(uint32(uint64(v) >> kShift)) }

// AsPointer returns the Object v points at. Caller must check IsPointer.
func (v Value) AsPointer() *Object { return pointerOf(uint64(v)) }

// IsTruthy implements the truthiness rule from spec.md §3: every value is
// truthy except False and Nil.
func (v Value) IsTruthy() bool { return v != False && v != Nil }

// Eq implements eq?: bitwise identity of the tagged word.
func (v Value) Eq(other Value) bool { return v == other }

func (v Value) String() string {
	switch {
	case v == Nil:
		return "()"
	case v == False:
		return "#f"
	case v == True:
		return "#t"
	case v == Undefined:
		return "#<undefined>"
	case v.IsInteger():
		return fmt.Sprintf("%d", v.AsInteger())
	case v.IsSymbol():
		return symbol.Name(v.AsSymbol())
	case v.IsCharacter():
		return formatCharacter(v.AsCharacter())
	case v.IsPointer():
		return v.AsPointer().String()
	default:
		return fmt.Sprintf("#<unknown 0x%x>", uint64(v))
	}
}
