// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package vm implements the stack-based virtual machine from spec.md §4.5:
// a value stack, a control stack of return addresses, a frame stack of
// currently active call frames, proper tail calls, and first-class
// continuations via call/cc.
//
// Grounded on the teacher's lang/vm.VM fetch-dispatch loop and
// sentinel-error style (ErrStackUnderflow, ErrInvalidOpcode, ...),
// generalized from a fixed [256]uint64 register file with simple
// call/return (no continuation capture) to three untyped value.Value
// stacks with full first-class continuation support.
package vm

import (
	"errors"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/inst"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

// ErrStackUnderflow signals an internal invariant violation: an instruction
// tried to pop more values than were available. This indicates a codegen or
// optimizer bug, not a user-level error.
var ErrStackUnderflow = errors.New("vm: stack underflow")

// Step is passed to a StepHook before each instruction executes, to support
// spec.md §6's --trace flag. Presentation (table vs. plain) is a cmd/nscheme
// concern; the VM only exposes the data.
type Step struct {
	IP         int
	Inst       inst.Inst
	ValueStack []value.Value
	FrameSize  int
}

// StepHook is called once per executed instruction when non-nil.
type StepHook func(Step)

// VM holds all execution state for one program run.
type VM struct {
	heap *heap.Heap
	code []inst.Inst

	ip           int
	valueStack   []value.Value
	controlStack []int
	frameStack   []*value.Object

	globalFrame *value.Object
	globalNames map[symbol.Symbol]int
	literalPool []value.Value

	StepHook StepHook
}

// New constructs a VM ready to execute code starting at IP 0, with an
// initial top-level frame of size topFrameSize parented on globalFrame.
func New(h *heap.Heap, code []inst.Inst, globalFrame *value.Object, globalNames map[symbol.Symbol]int, topFrameSize int) *VM {
	vm := &VM{
		heap:        h,
		code:        code,
		globalFrame: globalFrame,
		globalNames: globalNames,
	}
	vm.literalPool = collectLiterals(code)

	topFrame := h.AllocFrame(globalFrame, topFrameSize)
	vm.frameStack = append(vm.frameStack, topFrame)
	return vm
}

func collectLiterals(code []inst.Inst) []value.Value {
	var pool []value.Value
	for _, in := range code {
		if lit, ok := in.(*inst.LoadLiteral); ok {
			pool = append(pool, lit.Value)
		}
	}
	return pool
}

func (vm *VM) push(v value.Value) { vm.valueStack = append(vm.valueStack, v) }

func (vm *VM) pop() (value.Value, error) {
	n := len(vm.valueStack)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	v := vm.valueStack[n-1]
	vm.valueStack = vm.valueStack[:n-1]
	return v, nil
}

func (vm *VM) currentFrame() *value.Object {
	return vm.frameStack[len(vm.frameStack)-1]
}

func (vm *VM) roots() heap.Roots {
	return heap.Roots{
		ValueStack:  vm.valueStack,
		FrameStack:  vm.frameStack,
		Globals:     vm.globalFrame,
		LiteralPool: vm.literalPool,
	}
}

// Run executes from the current IP until Quit or a fatal error. ErrQuit is
// returned (wrapped as nserr.ErrQuit is the sentinel itself) on a clean
// Quit; any other error is a run-time failure the caller should report per
// spec.md §7 and exit 1.
func (vm *VM) Run() error {
	for {
		if vm.ip < 0 || vm.ip >= len(vm.code) {
			return &nserr.RuntimeError{Message: "instruction pointer ran off the end of the program"}
		}
		in := vm.code[vm.ip]

		if vm.StepHook != nil {
			vm.StepHook(Step{
				IP:         vm.ip,
				Inst:       in,
				ValueStack: append([]value.Value(nil), vm.valueStack...),
				FrameSize:  len(vm.currentFrame().Slots),
			})
		}

		vm.ip++
		if err := vm.step(in); err != nil {
			return err
		}
	}
}

func (vm *VM) step(in inst.Inst) error {
	switch i := in.(type) {
	case *inst.Label:
		return nil

	case *inst.LoadLiteral:
		vm.push(i.Value)
		return nil

	case *inst.LoadLocal:
		frame := vm.currentFrame()
		for d := 0; d < i.Depth; d++ {
			frame = frame.Parent
		}
		vm.push(frame.Slots[i.Slot])
		return nil

	case *inst.LoadNamed:
		idx, ok := vm.globalNames[i.Name]
		if !ok {
			return &nserr.NameError{Name: symbol.Name(i.Name)}
		}
		vm.push(vm.globalFrame.Slots[idx])
		return nil

	case *inst.LoadClosure:
		vm.heap.MaybeCollect(vm.roots())
		closure := vm.heap.AllocClosure(i.Label.Index, vm.currentFrame(), i.ArgCount, i.FrameSize, i.Variadic, i.Name)
		vm.push(value.NewPointer(closure))
		return nil

	case *inst.StoreLocal:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		frame := vm.currentFrame()
		for d := 0; d < i.Depth; d++ {
			frame = frame.Parent
		}
		frame.Slots[i.Slot] = v
		vm.push(value.Nil)
		return nil

	case *inst.StoreNamed:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		idx, ok := vm.globalNames[i.Name]
		if !ok {
			return &nserr.NameError{Name: symbol.Name(i.Name)}
		}
		vm.globalFrame.Slots[idx] = v
		vm.push(value.Nil)
		return nil

	case *inst.Apply:
		return vm.apply(i.N, false)

	case *inst.TailApply:
		return vm.apply(i.N, true)

	case *inst.Return:
		if len(vm.frameStack) == 0 || len(vm.controlStack) == 0 {
			return &nserr.RuntimeError{Message: "return with no active call"}
		}
		vm.frameStack = vm.frameStack[:len(vm.frameStack)-1]
		retAddr := vm.controlStack[len(vm.controlStack)-1]
		vm.controlStack = vm.controlStack[:len(vm.controlStack)-1]
		vm.ip = retAddr
		return nil

	case *inst.Discard:
		_, err := vm.pop()
		return err

	case *inst.Jump:
		vm.ip = i.Target.Index
		return nil

	case *inst.JumpIf:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.IsTruthy() {
			vm.ip = i.Target.Index
		}
		return nil

	case *inst.Quit:
		return nserr.ErrQuit

	default:
		return &nserr.RuntimeError{Message: "unknown instruction"}
	}
}
