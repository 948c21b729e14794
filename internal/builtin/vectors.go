// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"fmt"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/value"
)

// vectorEntries supplements spec.md §4.6 with original_source's vector
// primitives (original_source/src/builtin.cpp): vector, vector-ref,
// vector-set!, vector-length.
func vectorEntries(h *heap.Heap) []entry {
	return []entry{
		{"vector", func(args []value.Value) (value.Value, error) {
			elems := make([]value.Value, len(args))
			copy(elems, args)
			return value.NewPointer(h.AllocVector(elems)), nil
		}},
		{"vector-ref", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return 0, arity("vector-ref", len(args), 2)
			}
			vec, err := requireVector("vector-ref", args[0])
			if err != nil {
				return 0, err
			}
			idx, err := checkInteger("vector-ref", args[1])
			if err != nil {
				return 0, err
			}
			if idx < 0 || int(idx) >= len(vec.Elems) {
				return 0, indexOutOfRange("vector-ref", idx, len(vec.Elems))
			}
			return vec.Elems[idx], nil
		}},
		{"vector-set!", func(args []value.Value) (value.Value, error) {
			if len(args) != 3 {
				return 0, arity("vector-set!", len(args), 3)
			}
			vec, err := requireVector("vector-set!", args[0])
			if err != nil {
				return 0, err
			}
			idx, err := checkInteger("vector-set!", args[1])
			if err != nil {
				return 0, err
			}
			if idx < 0 || int(idx) >= len(vec.Elems) {
				return 0, indexOutOfRange("vector-set!", idx, len(vec.Elems))
			}
			vec.Elems[idx] = args[2]
			return value.Undefined, nil
		}},
		{"vector-length", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("vector-length", len(args), 1)
			}
			vec, err := requireVector("vector-length", args[0])
			if err != nil {
				return 0, err
			}
			return value.NewInteger(int64(len(vec.Elems))), nil
		}},
	}
}

func requireVector(name string, v value.Value) (*value.Object, error) {
	if !v.IsPointer() || v.AsPointer().Kind != value.KindVector {
		return nil, wrongType(name, v)
	}
	return v.AsPointer(), nil
}

func indexOutOfRange(name string, idx int64, length int) error {
	return &nserr.RuntimeError{Message: fmt.Sprintf("%s: index %d out of range [0, %d)", name, idx, length)}
}
