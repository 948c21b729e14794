// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package value

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed set of heap Object variants (spec.md §3).
type Kind uint8

const (
	KindString Kind = iota
	KindReal
	KindPair
	KindVector
	KindFrame
	KindClosure
	KindNativeFunction
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindReal:
		return "real"
	case KindPair:
		return "pair"
	case KindVector:
		return "vector"
	case KindFrame:
		return "frame"
	case KindClosure:
		return "closure"
	case KindNativeFunction:
		return "native-function"
	case KindContinuation:
		return "continuation"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// NativeFunc is the signature every built-in procedure implements: consume
// args, produce one result or an error (spec.md §4.6).
type NativeFunc func(args []Value) (Value, error)

// Object is the single representation for all eight heap variants (spec.md
// §9's "closed sum type" design note). Only the fields relevant to Kind are
// populated; this mirrors the original's type-tagged Object but collapses
// the inheritance hierarchy into one Go struct with pattern-matching-by-Kind
// instead of virtual dispatch.
//
// heapNext links every Object ever allocated into the allocator's intrusive
// list (spec.md §4.1); mark is the collector's mark bit. Both fields are
// owned by package heap and must not be touched elsewhere.
type Object struct {
	Kind Kind

	heapNext *Object
	mark     bool
	byteSize int

	// KindString
	Str []byte

	// KindReal
	Real float64

	// KindPair
	Car, Cdr Value

	// KindVector
	Elems []Value

	// KindFrame
	Parent *Object // lexical parent Frame, nil for the global frame
	Slots  []Value

	// KindClosure
	EntryLabel     int // resolved index into the flat Inst slice
	CapturedFrame  *Object
	ArgCount       int
	Variadic       bool
	FrameSize      int
	ClosureName    string // for printing only, may be empty

	// KindNativeFunction
	Native NativeFunc
	NativeName string

	// KindContinuation — a snapshot of the three VM stacks plus IP. Stored
	// structurally (not as an opaque vm type) so this package needs no
	// dependency on package vm; package vm builds and reads these fields
	// directly.
	ContIP           int
	ContValueStack   []Value
	ContControlStack []int
	ContFrameStack   []*Object
}

// ByteSize returns the approximate size in bytes this Object counts toward
// the allocator's collection threshold (spec.md §4.1).
func (o *Object) ByteSize() int { return o.byteSize }

// SetByteSize is called once by the allocator at construction time.
func (o *Object) SetByteSize(n int) { o.byteSize = n }

// HeapNext/SetHeapNext/Marked/SetMarked are the allocator's hooks into the
// intrusive object list and mark bit. Exported so package heap (which must
// not live inside package value, to keep the dependency direction
// value → heap rather than a cycle) can manage them.
func (o *Object) HeapNext() *Object     { return o.heapNext }
func (o *Object) SetHeapNext(n *Object) { o.heapNext = n }
func (o *Object) Marked() bool          { return o.mark }
func (o *Object) SetMarked(m bool)      { o.mark = m }

// Trace calls mark on every Value this Object directly references, per
// spec.md §4.1 step 2 ("Each Object type implements a trace operation").
func (o *Object) Trace(mark func(Value)) {
	switch o.Kind {
	case KindPair:
		mark(o.Car)
		mark(o.Cdr)
	case KindVector:
		for _, e := range o.Elems {
			mark(e)
		}
	case KindFrame:
		if o.Parent != nil {
			mark(NewPointer(o.Parent))
		}
		for _, s := range o.Slots {
			mark(s)
		}
	case KindClosure:
		if o.CapturedFrame != nil {
			mark(NewPointer(o.CapturedFrame))
		}
	case KindContinuation:
		for _, v := range o.ContValueStack {
			mark(v)
		}
		for _, f := range o.ContFrameStack {
			if f != nil {
				mark(NewPointer(f))
			}
		}
	case KindString, KindReal, KindNativeFunction:
		// no Value references
	}
}

// Constructors. Each returns a freshly built Object; the caller (always
// package heap's Alloc) is responsible for linking it into the object list
// and accounting for its byte size.

func NewStringObject(s []byte) *Object   { return &Object{Kind: KindString, Str: s} }
func NewRealObject(r float64) *Object    { return &Object{Kind: KindReal, Real: r} }
func NewPairObject(car, cdr Value) *Object { return &Object{Kind: KindPair, Car: car, Cdr: cdr} }
func NewVectorObject(elems []Value) *Object { return &Object{Kind: KindVector, Elems: elems} }

func NewFrameObject(parent *Object, size int) *Object {
	slots := make([]Value, size)
	for i := range slots {
		slots[i] = Undefined
	}
	return &Object{Kind: KindFrame, Parent: parent, Slots: slots}
}

func NewClosureObject(entryLabel int, captured *Object, argCount, frameSize int, variadic bool, name string) *Object {
	return &Object{
		Kind:          KindClosure,
		EntryLabel:    entryLabel,
		CapturedFrame: captured,
		ArgCount:      argCount,
		FrameSize:     frameSize,
		Variadic:      variadic,
		ClosureName:   name,
	}
}

func NewNativeFunctionObject(name string, fn NativeFunc) *Object {
	return &Object{Kind: KindNativeFunction, Native: fn, NativeName: name}
}

func NewContinuationObject(ip int, valueStack []Value, controlStack []int, frameStack []*Object) *Object {
	return &Object{
		Kind:             KindContinuation,
		ContIP:           ip,
		ContValueStack:   valueStack,
		ContControlStack: controlStack,
		ContFrameStack:   frameStack,
	}
}

func (o *Object) String() string {
	switch o.Kind {
	case KindString:
		return quoteString(string(o.Str))
	case KindReal:
		return formatReal(o.Real)
	case KindPair:
		return formatPair(o)
	case KindVector:
		parts := make([]string, len(o.Elems))
		for i, e := range o.Elems {
			parts[i] = e.String()
		}
		return "#(" + strings.Join(parts, " ") + ")"
	case KindFrame:
		return "#<frame>"
	case KindClosure:
		if o.ClosureName != "" {
			return "<closure " + o.ClosureName + ">"
		}
		return "<closure>"
	case KindNativeFunction:
		return "<c_function " + o.NativeName + ">"
	case KindContinuation:
		return "<continuation>"
	default:
		return "#<object>"
	}
}
