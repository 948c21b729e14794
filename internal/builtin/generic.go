// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"fmt"
	"os"

	"github.com/nojima/nscheme/internal/value"
)

// genericEntries implements spec.md §4.6's required `eq? not print`.
func genericEntries() []entry {
	return []entry{
		{"eq?", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return 0, arity("eq?", len(args), 2)
			}
			return boolValue(args[0].Eq(args[1])), nil
		}},
		{"not", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("not", len(args), 1)
			}
			return boolValue(!args[0].IsTruthy()), nil
		}},
		{"print", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("print", len(args), 1)
			}
			fmt.Fprintln(os.Stdout, args[0].String())
			return value.Undefined, nil
		}},
		// Supplemented from original_source/src/builtin.cpp: display behaves
		// like print but without the trailing newline.
		{"display", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("display", len(args), 1)
			}
			fmt.Fprint(os.Stdout, args[0].String())
			return value.Undefined, nil
		}},
	}
}
