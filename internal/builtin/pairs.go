// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/value"
)

// pairEntries implements spec.md §4.6's required `cons car cdr pair? null?`.
func pairEntries(h *heap.Heap) []entry {
	return []entry{
		{"cons", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return 0, arity("cons", len(args), 2)
			}
			p := h.AllocPair(args[0], args[1])
			return value.NewPointer(p), nil
		}},
		{"car", func(args []value.Value) (value.Value, error) {
			p, err := requirePair("car", args)
			if err != nil {
				return 0, err
			}
			return p.Car, nil
		}},
		{"cdr", func(args []value.Value) (value.Value, error) {
			p, err := requirePair("cdr", args)
			if err != nil {
				return 0, err
			}
			return p.Cdr, nil
		}},
		{"pair?", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("pair?", len(args), 1)
			}
			return boolValue(args[0].IsPointer() && args[0].AsPointer().Kind == value.KindPair), nil
		}},
		{"null?", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("null?", len(args), 1)
			}
			return boolValue(args[0] == value.Nil), nil
		}},
		{"set-car!", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return 0, arity("set-car!", len(args), 2)
			}
			p, err := requirePair("set-car!", args)
			if err != nil {
				return 0, err
			}
			p.Car = args[1]
			return value.Undefined, nil
		}},
		{"set-cdr!", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return 0, arity("set-cdr!", len(args), 2)
			}
			p, err := requirePair("set-cdr!", args)
			if err != nil {
				return 0, err
			}
			p.Cdr = args[1]
			return value.Undefined, nil
		}},
	}
}

func requirePair(name string, args []value.Value) (*value.Object, error) {
	if len(args) < 1 {
		return nil, arity(name, len(args), 1)
	}
	v := args[0]
	if !v.IsPointer() || v.AsPointer().Kind != value.KindPair {
		return nil, wrongType(name, v)
	}
	return v.AsPointer(), nil
}

func boolValue(b bool) value.Value {
	if b {
		return value.True
	}
	return value.False
}

// listEntries supplements spec.md §4.6 with the original implementation's
// larger list primitive set (original_source/src/builtin.cpp): list, length,
// append, reverse.
func listEntries(h *heap.Heap) []entry {
	return []entry{
		{"list", func(args []value.Value) (value.Value, error) {
			return consAll(h, args), nil
		}},
		{"length", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("length", len(args), 1)
			}
			n, err := listLength("length", args[0])
			if err != nil {
				return 0, err
			}
			return value.NewInteger(int64(n)), nil
		}},
		{"append", func(args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return value.Nil, nil
			}
			var elems []value.Value
			for _, lst := range args[:len(args)-1] {
				vs, err := listElements("append", lst)
				if err != nil {
					return 0, err
				}
				elems = append(elems, vs...)
			}
			result := args[len(args)-1]
			for i := len(elems) - 1; i >= 0; i-- {
				result = value.NewPointer(h.AllocPair(elems[i], result))
			}
			return result, nil
		}},
		{"reverse", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("reverse", len(args), 1)
			}
			vs, err := listElements("reverse", args[0])
			if err != nil {
				return 0, err
			}
			result := value.Nil
			for _, v := range vs {
				result = value.NewPointer(h.AllocPair(v, result))
			}
			return result, nil
		}},
	}
}

func consAll(h *heap.Heap, elems []value.Value) value.Value {
	result := value.Nil
	for i := len(elems) - 1; i >= 0; i-- {
		result = value.NewPointer(h.AllocPair(elems[i], result))
	}
	return result
}

func listLength(proc string, v value.Value) (int, error) {
	n := 0
	for v != value.Nil {
		if !v.IsPointer() || v.AsPointer().Kind != value.KindPair {
			return 0, wrongType(proc, v)
		}
		n++
		v = v.AsPointer().Cdr
	}
	return n, nil
}

func listElements(proc string, v value.Value) ([]value.Value, error) {
	var elems []value.Value
	for v != value.Nil {
		if !v.IsPointer() || v.AsPointer().Kind != value.KindPair {
			return nil, wrongType(proc, v)
		}
		p := v.AsPointer()
		elems = append(elems, p.Car)
		v = p.Cdr
	}
	return elems, nil
}
