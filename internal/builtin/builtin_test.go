// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"testing"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/nslog"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
	"github.com/nojima/nscheme/internal/vm"
)

func findEntry(t *testing.T, h *heap.Heap, name string) value.NativeFunc {
	t.Helper()
	for _, e := range allEntries(h) {
		if e.name == name {
			return e.fn
		}
	}
	t.Fatalf("no builtin named %q", name)
	return nil
}

func ints(ns ...int64) []value.Value {
	vs := make([]value.Value, len(ns))
	for i, n := range ns {
		vs[i] = value.NewInteger(n)
	}
	return vs
}

func TestArithmeticEntries(t *testing.T) {
	h := heap.New(nslog.Discard())
	cases := []struct {
		name string
		args []value.Value
		want int64
	}{
		{"+", ints(1, 2, 3), 6},
		{"+", nil, 0},
		{"*", ints(2, 3, 4), 24},
		{"*", nil, 1},
		{"-", ints(5), -5},
		{"-", ints(10, 3, 2), 5},
		{"/", ints(20, 2, 5), 2},
	}
	for _, tc := range cases {
		fn := findEntry(t, h, tc.name)
		got, err := fn(tc.args)
		if err != nil {
			t.Fatalf("%s(%v): %v", tc.name, tc.args, err)
		}
		if got.AsInteger() != tc.want {
			t.Errorf("%s(%v) = %d, want %d", tc.name, tc.args, got.AsInteger(), tc.want)
		}
	}
}

func TestDivideByZeroErrorMentionsDivideByZero(t *testing.T) {
	h := heap.New(nslog.Discard())
	fn := findEntry(t, h, "/")
	_, err := fn(ints(1, 0))
	if err == nil {
		t.Fatal("expected an error from (/ 1 0)")
	}
	if got := err.Error(); got != "/: divide by zero" {
		t.Errorf("error = %q, want %q", got, "/: divide by zero")
	}
}

func TestComparisonEntriesChain(t *testing.T) {
	h := heap.New(nslog.Discard())
	lt := findEntry(t, h, "<")

	got, err := lt(ints(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got != value.True {
		t.Errorf("(< 1 2 3) = %v, want #t", got)
	}

	got, err = lt(ints(1, 3, 2))
	if err != nil {
		t.Fatal(err)
	}
	if got != value.False {
		t.Errorf("(< 1 3 2) = %v, want #f", got)
	}
}

func TestArithmeticWrongTypeIsTypeError(t *testing.T) {
	h := heap.New(nslog.Discard())
	fn := findEntry(t, h, "+")
	sym := value.NewSymbol(symbol.Intern("x"))
	_, err := fn([]value.Value{sym})
	if _, ok := err.(*nserr.TypeError); !ok {
		t.Fatalf("got %T, want *nserr.TypeError", err)
	}
}

func TestPairEntries(t *testing.T) {
	h := heap.New(nslog.Discard())
	cons := findEntry(t, h, "cons")
	car := findEntry(t, h, "car")
	cdr := findEntry(t, h, "cdr")
	pairP := findEntry(t, h, "pair?")
	nullP := findEntry(t, h, "null?")

	p, err := cons(ints(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := car([]value.Value{p}); v.AsInteger() != 1 {
		t.Errorf("car = %v, want 1", v)
	}
	if v, _ := cdr([]value.Value{p}); v.AsInteger() != 2 {
		t.Errorf("cdr = %v, want 2", v)
	}
	if v, _ := pairP([]value.Value{p}); v != value.True {
		t.Errorf("pair?(pair) = %v, want #t", v)
	}
	if v, _ := nullP([]value.Value{value.Nil}); v != value.True {
		t.Errorf("null?(Nil) = %v, want #t", v)
	}
	if v, _ := nullP([]value.Value{p}); v != value.False {
		t.Errorf("null?(pair) = %v, want #f", v)
	}
}

func TestCarOfNonPairIsTypeError(t *testing.T) {
	h := heap.New(nslog.Discard())
	car := findEntry(t, h, "car")
	_, err := car(ints(1))
	if _, ok := err.(*nserr.TypeError); !ok {
		t.Fatalf("got %T, want *nserr.TypeError", err)
	}
}

func TestListLengthAppendReverse(t *testing.T) {
	h := heap.New(nslog.Discard())
	list := findEntry(t, h, "list")
	length := findEntry(t, h, "length")
	reverse := findEntry(t, h, "reverse")
	appendFn := findEntry(t, h, "append")

	l, err := list(ints(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := length([]value.Value{l}); got.AsInteger() != 3 {
		t.Errorf("length = %v, want 3", got)
	}

	rev, err := reverse([]value.Value{l})
	if err != nil {
		t.Fatal(err)
	}
	if got := rev.String(); got != "(3 2 1)" {
		t.Errorf("reverse = %q, want (3 2 1)", got)
	}

	l2, _ := list(ints(4, 5))
	appended, err := appendFn([]value.Value{l, l2})
	if err != nil {
		t.Fatal(err)
	}
	if got := appended.String(); got != "(1 2 3 4 5)" {
		t.Errorf("append = %q, want (1 2 3 4 5)", got)
	}
}

func TestVectorEntries(t *testing.T) {
	h := heap.New(nslog.Discard())
	vector := findEntry(t, h, "vector")
	vref := findEntry(t, h, "vector-ref")
	vset := findEntry(t, h, "vector-set!")
	vlen := findEntry(t, h, "vector-length")

	vec, err := vector(ints(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := vlen([]value.Value{vec}); got.AsInteger() != 3 {
		t.Errorf("vector-length = %v, want 3", got)
	}
	if got, _ := vref([]value.Value{vec, value.NewInteger(1)}); got.AsInteger() != 2 {
		t.Errorf("vector-ref = %v, want 2", got)
	}
	if _, err := vset([]value.Value{vec, value.NewInteger(0), value.NewInteger(99)}); err != nil {
		t.Fatal(err)
	}
	if got, _ := vref([]value.Value{vec, value.NewInteger(0)}); got.AsInteger() != 99 {
		t.Errorf("vector-ref after set = %v, want 99", got)
	}
}

func TestVectorRefOutOfRangeIsError(t *testing.T) {
	h := heap.New(nslog.Discard())
	vector := findEntry(t, h, "vector")
	vref := findEntry(t, h, "vector-ref")
	vec, _ := vector(ints(1, 2))
	if _, err := vref([]value.Value{vec, value.NewInteger(5)}); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestPredicateEntries(t *testing.T) {
	h := heap.New(nslog.Discard())
	numberP := findEntry(t, h, "number?")
	stringP := findEntry(t, h, "string?")
	booleanP := findEntry(t, h, "boolean?")

	if v, _ := numberP([]value.Value{value.NewInteger(1)}); v != value.True {
		t.Errorf("number?(1) = %v, want #t", v)
	}
	if v, _ := stringP([]value.Value{value.NewInteger(1)}); v != value.False {
		t.Errorf("string?(1) = %v, want #f", v)
	}
	if v, _ := booleanP([]value.Value{value.True}); v != value.True {
		t.Errorf("boolean?(#t) = %v, want #t", v)
	}
}

func TestEqAndNot(t *testing.T) {
	h := heap.New(nslog.Discard())
	eq := findEntry(t, h, "eq?")
	not := findEntry(t, h, "not")

	if v, _ := eq(ints(7, 7)); v != value.True {
		t.Errorf("eq?(7, 7) = %v, want #t", v)
	}
	if v, _ := not([]value.Value{value.False}); v != value.True {
		t.Errorf("not(#f) = %v, want #t", v)
	}
}

func TestCallCCAliasesShareOneNativeFunctionObject(t *testing.T) {
	h := heap.New(nslog.Discard())
	reg := Install(h)

	shortIdx, ok := reg.GlobalNames[symbol.Intern("call/cc")]
	if !ok {
		t.Fatalf("GlobalNames missing entry for %q", "call/cc")
	}
	longIdx, ok := reg.GlobalNames[symbol.Intern(vm.CallCCName)]
	if !ok {
		t.Fatalf("GlobalNames missing entry for %q", vm.CallCCName)
	}

	shortObj := reg.GlobalFrame.Slots[shortIdx].AsPointer()
	longObj := reg.GlobalFrame.Slots[longIdx].AsPointer()
	if shortObj != longObj {
		t.Fatalf("call/cc and %s are bound to different objects; (eq? call/cc %s) would be #f", vm.CallCCName, vm.CallCCName)
	}
	if shortObj.NativeName != vm.CallCCName {
		t.Errorf("NativeName = %q, want %q so internal/vm's Apply dispatch recognizes it", shortObj.NativeName, vm.CallCCName)
	}
}

func TestInstallBindsEveryEntryIntoItsOwnSlot(t *testing.T) {
	h := heap.New(nslog.Discard())
	reg := Install(h)
	if len(reg.Names) != len(reg.GlobalFrame.Slots) {
		t.Fatalf("Names has %d entries but GlobalFrame has %d slots", len(reg.Names), len(reg.GlobalFrame.Slots))
	}
	for i, name := range reg.Names {
		idx, ok := reg.GlobalNames[symbol.Intern(name)]
		if !ok {
			t.Fatalf("GlobalNames missing entry for %q", name)
		}
		if idx != i {
			t.Errorf("GlobalNames[%q] = %d, want %d", name, idx, i)
		}
	}
}
