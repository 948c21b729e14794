// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package inst defines the flat instruction set spec.md §4.3 compiles AST
// into: one Go struct per variant (Label, LoadLiteral, LoadLocal, ...),
// following the teacher's one-constructor-per-kind convention
// (lang/ir.Instruction/Terminator) but shaped as a stack-machine
// instruction set over a flat []Inst rather than an SSA IR.
package inst

import (
	"fmt"

	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

// Inst is implemented by every instruction variant.
type Inst interface {
	String() string
	inst()
}

// Label is a no-op that serves as a branch target. Its Index field is
// filled in by codegen's single label-resolution pass: the resolved
// location of a Label is simply its own index in the flat []Inst slice
// (spec.md §9's open question, resolved toward stable integers rather than
// pointers).
type Label struct {
	Name  string // for disassembly only
	Index int    // filled in after the full vector is assembled
}

func (*Label) inst() {}
func (l *Label) String() string { return fmt.Sprintf("%s:", l.Name) }

type LoadLiteral struct{ Value value.Value }

func (*LoadLiteral) inst() {}
func (i *LoadLiteral) String() string { return "load_literal " + i.Value.String() }

type LoadLocal struct{ Depth, Slot int }

func (*LoadLocal) inst() {}
func (i *LoadLocal) String() string { return fmt.Sprintf("load_local %d %d", i.Depth, i.Slot) }

type LoadNamed struct{ Name symbol.Symbol }

func (*LoadNamed) inst() {}
func (i *LoadNamed) String() string { return "load_named " + symbol.Name(i.Name) }

type LoadClosure struct {
	Label     *Label
	ArgCount  int
	FrameSize int
	Variadic  bool
	Name      string // for printing only
}

func (*LoadClosure) inst() {}
func (i *LoadClosure) String() string {
	return fmt.Sprintf("load_closure %s %d %d", i.Label.Name, i.ArgCount, i.FrameSize)
}

type StoreLocal struct{ Depth, Slot int }

func (*StoreLocal) inst() {}
func (i *StoreLocal) String() string { return fmt.Sprintf("store_local %d %d", i.Depth, i.Slot) }

type StoreNamed struct{ Name symbol.Symbol }

func (*StoreNamed) inst() {}
func (i *StoreNamed) String() string { return "store_named " + symbol.Name(i.Name) }

// Apply calls a callee with N args already on the value stack. TailApply is
// the peephole optimizer's rewrite of an Apply immediately followed (modulo
// labels) by a Return — see spec.md §4.4/§4.5.
type Apply struct{ N int }

func (*Apply) inst() {}
func (i *Apply) String() string { return fmt.Sprintf("apply %d", i.N) }

type TailApply struct{ N int }

func (*TailApply) inst() {}
func (i *TailApply) String() string { return fmt.Sprintf("tail_apply %d", i.N) }

type Return struct{}

func (*Return) inst() {}
func (*Return) String() string { return "return" }

type Discard struct{}

func (*Discard) inst() {}
func (*Discard) String() string { return "discard" }

type Jump struct{ Target *Label }

func (*Jump) inst() {}
func (i *Jump) String() string { return "jump " + i.Target.Name }

type JumpIf struct{ Target *Label }

func (*JumpIf) inst() {}
func (i *JumpIf) String() string { return "jump_if " + i.Target.Name }

type Quit struct{}

func (*Quit) inst() {}
func (*Quit) String() string { return "quit" }

// ResolveLabels performs spec.md §4.3's single post-assembly pass: set each
// Label's resolved location (Index) to its own slot in the vector.
func ResolveLabels(code []Inst) {
	for i, in := range code {
		if l, ok := in.(*Label); ok {
			l.Index = i
		}
	}
}
