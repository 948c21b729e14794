// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package builtin seeds the global frame with native host procedures
// (spec.md §4.6): integer arithmetic, numeric comparison, pair operations,
// equality/printing, and call/cc.
//
// Grounded on the teacher's stdlib/math package's small arity-checked
// functional-primitive style (Map/Filter/Reduce over []Value), adapted from
// compiled VM array opcodes to plain native closures registered in a table,
// since this VM has no array-opcode layer of its own.
package builtin

import (
	"fmt"
	"sort"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
	"github.com/nojima/nscheme/internal/vm"
)

// entry pairs a procedure's name with its implementation.
type entry struct {
	name string
	fn   value.NativeFunc
}

// Registry holds the built in procedures and the global frame they were
// installed into.
type Registry struct {
	Names       []string          // sorted ascending; slot i holds Names[i]
	GlobalNames map[symbol.Symbol]int
	GlobalFrame *value.Object
}

// Install allocates a global Frame sized for every entry below, sorts the
// entries by name, and binds each into its alphabetical slot. The sort
// order only matters for readable trace/debug output; globals are resolved
// by name at run time (internal/vm's LoadNamed/StoreNamed against
// GlobalNames), so nothing downstream depends on slot i holding Names[i]
// specifically (spec.md §9's global-frame-ABI note, sidestepped rather than
// solved by never doing lexical address resolution against this frame).
func Install(h *heap.Heap) *Registry {
	entries := allEntries(h)
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	frame := h.AllocFrame(nil, len(entries))
	names := make([]string, len(entries))
	globalNames := make(map[symbol.Symbol]int, len(entries))

	// call/cc and call-with-current-continuation must resolve to the very
	// same object: a separately-allocated NativeFunction per name would
	// carry NativeName equal to its own registration name ("call/cc"),
	// which internal/vm's Apply dispatch (vm.CallCCName) would not
	// recognize, and would also break (eq? call/cc
	// call-with-current-continuation) (spec.md §4.6).
	var callCCObj *value.Object
	for i, e := range entries {
		sym := symbol.Intern(e.name)
		var obj *value.Object
		if e.name == "call/cc" || e.name == vm.CallCCName {
			if callCCObj == nil {
				callCCObj = h.AllocNativeFunction(vm.CallCCName, e.fn)
			}
			obj = callCCObj
		} else {
			obj = h.AllocNativeFunction(e.name, e.fn)
		}
		frame.Slots[i] = value.NewPointer(obj)
		names[i] = e.name
		globalNames[sym] = i
	}

	return &Registry{Names: names, GlobalNames: globalNames, GlobalFrame: frame}
}

func allEntries(h *heap.Heap) []entry {
	var entries []entry
	entries = append(entries, arithmeticEntries()...)
	entries = append(entries, comparisonEntries()...)
	entries = append(entries, pairEntries(h)...)
	entries = append(entries, genericEntries()...)
	entries = append(entries, listEntries(h)...)
	entries = append(entries, vectorEntries(h)...)
	entries = append(entries, predicateEntries()...)
	entries = append(entries, applyEntries()...)
	entries = append(entries, hashEntries(h)...)
	// call/cc is given no Go-level implementation at all: internal/vm's
	// Apply dispatch recognizes the sentinel NativeName below and
	// special-cases it, since a plain value.NativeFunc has no access to the
	// VM's stacks. Both names must resolve to the very same object: a
	// separately-allocated object per name would carry NativeName equal to
	// its own registration name ("call/cc"), which the dispatch would not
	// recognize, and would also break (eq? call/cc call-with-current-continuation).
	ccStub := func(args []value.Value) (value.Value, error) {
		return value.Undefined, &nserr.RuntimeError{Message: "call/cc invoked outside the VM"}
	}
	entries = append(entries, entry{"call/cc", ccStub})
	entries = append(entries, entry{vm.CallCCName, ccStub})
	return entries
}

func wrongType(proc string, v value.Value) error {
	return &nserr.TypeError{Message: fmt.Sprintf("%s: wrong argument type: %s", proc, v.String())}
}

func arity(proc string, got, want int) error {
	return &nserr.ArityError{Message: fmt.Sprintf("%s: expects %d argument(s), got %d", proc, want, got)}
}

func checkInteger(proc string, v value.Value) (int64, error) {
	if !v.IsInteger() {
		return 0, wrongType(proc, v)
	}
	return v.AsInteger(), nil
}
