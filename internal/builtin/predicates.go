// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import "github.com/nojima/nscheme/internal/value"

// predicateEntries supplements spec.md §4.6 with original_source's type
// predicates (original_source/src/builtin.cpp's type_id switch), exposed here
// as ordinary registry entries rather than a separate reflection mechanism.
func predicateEntries() []entry {
	return []entry{
		{"number?", kindPredicate(func(v value.Value) bool {
			return v.IsInteger() || (v.IsPointer() && v.AsPointer().Kind == value.KindReal)
		})},
		{"symbol?", kindPredicate(func(v value.Value) bool { return v.IsSymbol() })},
		{"string?", kindPredicate(func(v value.Value) bool {
			return v.IsPointer() && v.AsPointer().Kind == value.KindString
		})},
		{"vector?", kindPredicate(func(v value.Value) bool {
			return v.IsPointer() && v.AsPointer().Kind == value.KindVector
		})},
		{"boolean?", kindPredicate(func(v value.Value) bool { return v == value.True || v == value.False })},
		{"procedure?", kindPredicate(func(v value.Value) bool {
			if !v.IsPointer() {
				return false
			}
			switch v.AsPointer().Kind {
			case value.KindClosure, value.KindNativeFunction, value.KindContinuation:
				return true
			default:
				return false
			}
		})},
	}
}

func kindPredicate(pred func(value.Value) bool) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return 0, arity("predicate", len(args), 1)
		}
		return boolValue(pred(args[0])), nil
	}
}
