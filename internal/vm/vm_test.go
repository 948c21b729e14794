// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package vm

import (
	"testing"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/inst"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/nslog"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

func newTestVM(t *testing.T, code []inst.Inst, globals map[string]value.NativeFunc) *VM {
	t.Helper()
	inst.ResolveLabels(code)

	h := heap.New(nslog.Discard())
	names := make(map[symbol.Symbol]int, len(globals))
	frame := h.AllocFrame(nil, len(globals))
	i := 0
	for name, fn := range globals {
		sym := symbol.Intern(name)
		f := h.AllocNativeFunction(name, fn)
		frame.Slots[i] = value.NewPointer(f)
		names[sym] = i
		i++
	}
	return New(h, code, frame, names, 0)
}

func runToQuit(t *testing.T, m *VM) []value.Value {
	t.Helper()
	if err := m.Run(); err != nserr.ErrQuit {
		t.Fatalf("Run() = %v, want nserr.ErrQuit", err)
	}
	return m.valueStack
}

func TestRunLoadLiteralThenQuit(t *testing.T) {
	code := []inst.Inst{
		&inst.LoadLiteral{Value: value.NewInteger(42)},
		&inst.Quit{},
	}
	m := newTestVM(t, code, nil)
	stack := runToQuit(t, m)
	if len(stack) != 1 || stack[0].AsInteger() != 42 {
		t.Fatalf("got stack %v, want [42]", stack)
	}
}

func TestRunLoadNamedResolvesGlobal(t *testing.T) {
	adder := func(args []value.Value) (value.Value, error) {
		return value.NewInteger(args[0].AsInteger() + args[1].AsInteger()), nil
	}
	code := []inst.Inst{
		&inst.LoadLiteral{Value: value.NewInteger(3)},
		&inst.LoadLiteral{Value: value.NewInteger(4)},
		&inst.LoadNamed{Name: symbol.Intern("add")},
		&inst.Apply{N: 2},
		&inst.Quit{},
	}
	m := newTestVM(t, code, map[string]value.NativeFunc{"add": adder})
	stack := runToQuit(t, m)
	if len(stack) != 1 || stack[0].AsInteger() != 7 {
		t.Fatalf("got stack %v, want [7]", stack)
	}
}

func TestRunLoadNamedUnboundIsNameError(t *testing.T) {
	code := []inst.Inst{
		&inst.LoadNamed{Name: symbol.Intern("nope")},
		&inst.Quit{},
	}
	m := newTestVM(t, code, nil)
	err := m.Run()
	if _, ok := err.(*nserr.NameError); !ok {
		t.Fatalf("Run() = %v (%T), want *nserr.NameError", err, err)
	}
}

func TestApplyNonProcedureIsTypeError(t *testing.T) {
	code := []inst.Inst{
		&inst.LoadLiteral{Value: value.NewInteger(1)},
		&inst.Apply{N: 0},
		&inst.Quit{},
	}
	m := newTestVM(t, code, nil)
	err := m.Run()
	if _, ok := err.(*nserr.TypeError); !ok {
		t.Fatalf("Run() = %v (%T), want *nserr.TypeError", err, err)
	}
}

func TestApplyWrongArityIsArityError(t *testing.T) {
	label := &inst.Label{Name: "fn"}
	code := []inst.Inst{
		&inst.LoadLiteral{Value: value.NewInteger(1)},
		&inst.LoadClosure{Label: label, ArgCount: 2, FrameSize: 2},
		&inst.Apply{N: 1},
		&inst.Quit{},
		label,
		&inst.LoadLiteral{Value: value.NewInteger(0)},
		&inst.Return{},
	}
	m := newTestVM(t, code, nil)
	err := m.Run()
	if _, ok := err.(*nserr.ArityError); !ok {
		t.Fatalf("Run() = %v (%T), want *nserr.ArityError", err, err)
	}
}

func TestTailApplyReusesFrameWithoutGrowingControlStack(t *testing.T) {
	// A zero-argument closure is entered via TailApply and its body pushes
	// 99 and quits. The test verifies that after the TailApply the control
	// stack length is unchanged and the frame stack length is unchanged
	// too (frame swapped in place, not pushed).
	label := &inst.Label{Name: "fn"}
	code := []inst.Inst{
		&inst.LoadClosure{Label: label, ArgCount: 0, FrameSize: 0},
		&inst.TailApply{N: 0},
		label,
		&inst.LoadLiteral{Value: value.NewInteger(99)},
		&inst.Quit{},
	}
	m := newTestVM(t, code, nil)
	controlDepthBefore := len(m.controlStack)
	frameDepthBefore := len(m.frameStack)
	stack := runToQuit(t, m)
	if len(m.controlStack) != controlDepthBefore {
		t.Errorf("control stack grew on TailApply: %d -> %d", controlDepthBefore, len(m.controlStack))
	}
	if len(m.frameStack) != frameDepthBefore {
		t.Errorf("frame stack depth changed on TailApply: %d -> %d", frameDepthBefore, len(m.frameStack))
	}
	if len(stack) != 1 || stack[0].AsInteger() != 99 {
		t.Fatalf("got stack %v, want [99]", stack)
	}
}

func TestApplyThenReturnRestoresCaller(t *testing.T) {
	label := &inst.Label{Name: "fn"}
	code := []inst.Inst{
		&inst.LoadClosure{Label: label, ArgCount: 0, FrameSize: 0},
		&inst.Apply{N: 0},
		&inst.LoadLiteral{Value: value.NewInteger(1)}, // runs after Return comes back
		&inst.Quit{},
		label,
		&inst.LoadLiteral{Value: value.NewInteger(2)},
		&inst.Return{},
	}
	m := newTestVM(t, code, nil)
	stack := runToQuit(t, m)
	// Callee pushed 2, then caller pushed 1: [2, 1].
	if len(stack) != 2 || stack[0].AsInteger() != 2 || stack[1].AsInteger() != 1 {
		t.Fatalf("got stack %v, want [2 1]", stack)
	}
}

func TestJumpIfBranchesOnTruthy(t *testing.T) {
	target := &inst.Label{Name: "target"}
	code := []inst.Inst{
		&inst.LoadLiteral{Value: value.True},
		&inst.JumpIf{Target: target},
		&inst.LoadLiteral{Value: value.NewInteger(0)}, // skipped
		target,
		&inst.LoadLiteral{Value: value.NewInteger(1)},
		&inst.Quit{},
	}
	m := newTestVM(t, code, nil)
	stack := runToQuit(t, m)
	if len(stack) != 1 || stack[0].AsInteger() != 1 {
		t.Fatalf("got stack %v, want [1] (the skipped branch must not run)", stack)
	}
}

func TestCallCCEscapesOuterComputation(t *testing.T) {
	// (call/cc (lambda (k) (k 11) 999)) should yield 11: invoking the
	// continuation discards the rest of the lambda body.
	ccLambda := &inst.Label{Name: "cc-body"}
	code := []inst.Inst{
		&inst.LoadClosure{Label: ccLambda, ArgCount: 1, FrameSize: 1},
		&inst.LoadNamed{Name: symbol.Intern("call/cc")},
		&inst.Apply{N: 1},
		&inst.Quit{},
		ccLambda,
		// body: (k 11), then 999 (unreachable once k is invoked)
		&inst.LoadLiteral{Value: value.NewInteger(11)},
		&inst.LoadLocal{Depth: 0, Slot: 0}, // k
		&inst.Apply{N: 1},
		&inst.Discard{},
		&inst.LoadLiteral{Value: value.NewInteger(999)},
		&inst.Return{},
	}
	ccStub := func(args []value.Value) (value.Value, error) {
		return value.Undefined, &nserr.RuntimeError{Message: "call/cc invoked outside the VM"}
	}
	m := newTestVM(t, code, map[string]value.NativeFunc{"call/cc": ccStub})
	// newTestVM binds plain natives; we need the NativeName sentinel that
	// apply.go's dispatch special-cases, so patch it in directly.
	idx := m.globalNames[symbol.Intern("call/cc")]
	m.globalFrame.Slots[idx].AsPointer().NativeName = CallCCName

	stack := runToQuit(t, m)
	if len(stack) != 1 || stack[0].AsInteger() != 11 {
		t.Fatalf("got stack %v, want [11]", stack)
	}
}
