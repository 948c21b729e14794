// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package optimize implements the peephole optimizer from spec.md §4.4:
// tail-call marking and jump threading, run to a fixpoint or a fixed
// maximum of 7 passes, whichever comes first.
//
// Grounded on the teacher's lang/ir.Optimize's fixpoint-loop structure
// (a changed bool driving repeated passes until nothing more rewrites),
// adapted from SSA constant-fold/DCE/CSE to this optimizer's two much
// simpler structural rewrites over a flat instruction slice.
package optimize

import "github.com/nojima/nscheme/internal/inst"

// MaxPasses is spec.md §4.4's cap ("the original caps at 7").
const MaxPasses = 7

// Run mutates code in place (labels are shared pointers so label targets
// stay valid across rewrites) and returns it, applying up to maxPasses
// (a value outside [1, MaxPasses] means MaxPasses) rounds of tail-call marking and jump
// threading, stopping early at a fixpoint.
func Run(code []inst.Inst, maxPasses int) []inst.Inst {
	if maxPasses <= 0 || maxPasses > MaxPasses {
		maxPasses = MaxPasses
	}
	for pass := 0; pass < maxPasses; pass++ {
		code, changedTail := markTailCalls(code)
		code, changedJump := threadJumps(code)
		if !changedTail && !changedJump {
			break
		}
	}
	return code
}

// firstNonLabel returns the index in code of the first instruction at or
// after i that is not a *inst.Label, or -1 if code runs out.
func firstNonLabel(code []inst.Inst, i int) int {
	for i < len(code) {
		if _, ok := code[i].(*inst.Label); !ok {
			return i
		}
		i++
	}
	return -1
}

// markTailCalls replaces Apply(n) with TailApply(n) whenever the next
// non-label instruction is a Return (spec.md §4.4).
func markTailCalls(code []inst.Inst) ([]inst.Inst, bool) {
	changed := false
	for i, in := range code {
		apply, ok := in.(*inst.Apply)
		if !ok {
			continue
		}
		j := firstNonLabel(code, i+1)
		if j == -1 {
			continue
		}
		if _, ok := code[j].(*inst.Return); ok {
			code[i] = &inst.TailApply{N: apply.N}
			changed = true
		}
	}
	return code, changed
}

// threadJumps follows a Jump(L)'s target across labels: if the first
// non-label instruction at L is a Return, the Jump becomes a Return; if it
// is another Jump(L'), the Jump is retargeted to L' (spec.md §4.4).
func threadJumps(code []inst.Inst) ([]inst.Inst, bool) {
	changed := false
	labelIndex := make(map[*inst.Label]int, len(code))
	for i, in := range code {
		if l, ok := in.(*inst.Label); ok {
			labelIndex[l] = i
		}
	}

	for i, in := range code {
		j, ok := in.(*inst.Jump)
		if !ok {
			continue
		}
		targetIdx, ok := labelIndex[j.Target]
		if !ok {
			continue
		}
		nextIdx := firstNonLabel(code, targetIdx)
		if nextIdx == -1 {
			continue
		}
		switch next := code[nextIdx].(type) {
		case *inst.Return:
			code[i] = &inst.Return{}
			changed = true
		case *inst.Jump:
			if next.Target != j.Target {
				code[i] = &inst.Jump{Target: next.Target}
				changed = true
			}
		}
	}
	return code, changed
}
