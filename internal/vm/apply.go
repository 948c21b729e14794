// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package vm

import (
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/value"
)

// apply implements spec.md §4.5's three-way Apply/TailApply dispatch.
//
// The collection safe point runs here, before the callee and its arguments
// are popped off the value stack: vm.roots() only looks at the stacks,
// globals, and literal pool as they stand right now, so a callee closure
// (and the frame it captured) or a freshly-built argument object would be
// invisible to mark-sweep if collection instead ran after popping them into
// local variables (spec.md §4.1's root-set/safe-point contract).
func (vm *VM) apply(n int, tail bool) error {
	vm.heap.MaybeCollect(vm.roots())

	callee, err := vm.pop()
	if err != nil {
		return err
	}
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	if !callee.IsPointer() {
		return &nserr.TypeError{Message: "cannot apply a non-procedure value: " + callee.String()}
	}
	obj := callee.AsPointer()

	switch obj.Kind {
	case value.KindClosure:
		return vm.applyClosure(obj, args, tail)
	case value.KindNativeFunction:
		if obj.NativeName == CallCCName {
			return vm.execCallCC(args)
		}
		if obj.NativeName == ApplyName {
			return vm.execApply(args, tail)
		}
		result, err := obj.Native(args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case value.KindContinuation:
		return vm.applyContinuation(obj, args)
	default:
		return &nserr.TypeError{Message: "cannot apply a non-procedure value: " + callee.String()}
	}
}

func (vm *VM) applyClosure(closure *value.Object, args []value.Value, tail bool) error {
	n := len(args)

	// The collection safe point already ran at the top of apply(), while
	// closure and args were still reachable from the value stack.
	newFrame := vm.heap.AllocFrame(closure.CapturedFrame, closure.FrameSize)

	if closure.Variadic {
		required := closure.ArgCount - 1
		if n < required {
			return &nserr.ArityError{Message: "too few arguments to variadic procedure"}
		}
		copy(newFrame.Slots[:required], args[:required])
		rest := value.Nil
		for i := n - 1; i >= required; i-- {
			pair := vm.heap.AllocPair(args[i], rest)
			rest = value.NewPointer(pair)
		}
		newFrame.Slots[required] = rest
	} else {
		if n != closure.ArgCount {
			return &nserr.ArityError{Message: "wrong number of arguments"}
		}
		copy(newFrame.Slots[:n], args)
	}

	if tail {
		vm.frameStack[len(vm.frameStack)-1] = newFrame
	} else {
		vm.controlStack = append(vm.controlStack, vm.ip)
		vm.frameStack = append(vm.frameStack, newFrame)
	}
	vm.ip = closure.EntryLabel
	return nil
}

// CallCCName is the sentinel NativeName the builtin registry gives the
// call/cc procedure so VM Apply can recognize it and capture a real
// Continuation instead of invoking an ordinary Go function (spec.md §4.5's
// call/cc needs access to the live VM stacks, which no plain
// value.NativeFunc signature carries). internal/builtin binds both
// `call/cc` and `call-with-current-continuation` to the very same
// NativeFunction object, so this is also the NativeName that object
// carries regardless of which name resolved it (spec.md §4.6's "same
// object" requirement).
const CallCCName = "call-with-current-continuation"

// execCallCC implements spec.md §4.5's call/cc: capture the current IP and
// three stacks into a Continuation, then synthesize a one-argument Apply of
// the callable argument to that continuation.
func (vm *VM) execCallCC(args []value.Value) error {
	if len(args) != 1 {
		return &nserr.ArityError{Message: "call/cc expects exactly 1 argument"}
	}
	callable := args[0]

	vm.heap.MaybeCollect(vm.roots())
	contObj := vm.heap.AllocContinuation(
		vm.ip,
		append([]value.Value(nil), vm.valueStack...),
		append([]int(nil), vm.controlStack...),
		append([]*value.Object(nil), vm.frameStack...),
	)
	contVal := value.NewPointer(contObj)

	vm.push(contVal)
	vm.push(callable)
	return vm.apply(1, false)
}

// ApplyName is the sentinel NativeName the builtin registry gives the
// supplemented `apply` procedure (original_source's builtin.cpp), so Apply
// can recognize it the same way it recognizes call/cc: the last argument is
// a list of further arguments to splice in, and the resulting call must be
// able to invoke an arbitrary Closure — something no plain value.NativeFunc
// can do on its own.
const ApplyName = "apply"

// execApply implements the supplemented `apply` procedure: (apply proc a b
// (list c d)) calls proc with arguments a, b, c, d.
func (vm *VM) execApply(args []value.Value, tail bool) error {
	if len(args) < 1 {
		return &nserr.ArityError{Message: "apply expects at least 1 argument"}
	}
	proc := args[0]
	var flat []value.Value
	if len(args) >= 2 {
		flat = append(flat, args[1:len(args)-1]...)
		rest := args[len(args)-1]
		for rest != value.Nil {
			if !rest.IsPointer() || rest.AsPointer().Kind != value.KindPair {
				return &nserr.TypeError{Message: "apply: last argument must be a proper list"}
			}
			p := rest.AsPointer()
			flat = append(flat, p.Car)
			rest = p.Cdr
		}
	}

	for _, v := range flat {
		vm.push(v)
	}
	vm.push(proc)
	return vm.apply(len(flat), tail)
}

// applyContinuation restores a captured continuation's stacks verbatim,
// pushing the invoking args on top of the restored value stack (spec.md
// §4.5).
func (vm *VM) applyContinuation(cont *value.Object, args []value.Value) error {
	newValueStack := append([]value.Value(nil), cont.ContValueStack...)
	newValueStack = append(newValueStack, args...)
	vm.valueStack = newValueStack
	vm.controlStack = append([]int(nil), cont.ContControlStack...)
	vm.frameStack = append([]*value.Object(nil), cont.ContFrameStack...)
	vm.ip = cont.ContIP
	return nil
}
