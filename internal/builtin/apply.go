// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/value"
	"github.com/nojima/nscheme/internal/vm"
)

// applyEntries registers the supplemented `apply` procedure by name only:
// like call/cc, its real implementation lives in internal/vm (execApply),
// which recognizes this NativeName and gets VM stack access a plain
// value.NativeFunc does not have. `map`/`filter`/`fold-left`
// (SPEC_FULL.md §4.6's stdlib/math-derived Map/Filter/Reduce analogues)
// need the same ability to invoke an arbitrary caller-supplied procedure,
// but repeatedly across a whole list rather than once — instead of adding
// three more VM-level sentinels, internal/prelude defines them as ordinary
// recursive Scheme procedures over cons/car/cdr/null?, compiled by the same
// pipeline as user code.
func applyEntries() []entry {
	stub := func(args []value.Value) (value.Value, error) {
		return value.Undefined, &nserr.RuntimeError{Message: "apply invoked outside the VM"}
	}
	return []entry{{vm.ApplyName, stub}}
}
