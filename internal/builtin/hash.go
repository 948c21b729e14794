// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Domain-stack enrichment (SPEC_FULL.md §4.6): optional hash and big-integer
// primitives built on the teacher's own crypto/numeric dependencies, wired
// in as additive built-ins rather than changes to the required arithmetic.
package builtin

import (
	"encoding/hex"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/value"
)

// hashEntries registers sha3-256 (string -> hex string) and a small
// arbitrary-precision family (big+, big*, bigint?) for integers that would
// overflow the 62-bit immediate representation.
func hashEntries(h *heap.Heap) []entry {
	return []entry{
		{"sha3-256", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("sha3-256", len(args), 1)
			}
			s, err := requireString("sha3-256", args[0])
			if err != nil {
				return 0, err
			}
			sum := sha3.Sum256(s.Str)
			return value.NewPointer(h.AllocString([]byte(hex.EncodeToString(sum[:])))), nil
		}},
		{"big+", bigOp(h, func(a, b *uint256.Int) *uint256.Int { return new(uint256.Int).Add(a, b) })},
		{"big*", bigOp(h, func(a, b *uint256.Int) *uint256.Int { return new(uint256.Int).Mul(a, b) })},
		{"bigint?", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return 0, arity("bigint?", len(args), 1)
			}
			return boolValue(args[0].IsPointer() && args[0].AsPointer().Kind == value.KindString && isBigIntString(args[0].AsPointer())), nil
		}},
	}
}

// Big integers are represented as heap Strings holding their decimal text:
// spec.md's closed eight-variant Object set is kept complete and sufficient
// without a BigInt kind (see SPEC_FULL.md §4.6), so this enrichment reuses
// KindString rather than adding a ninth variant.
const bigIntPrefix = "#big:"

func isBigIntString(o *value.Object) bool {
	return len(o.Str) > len(bigIntPrefix) && string(o.Str[:len(bigIntPrefix)]) == bigIntPrefix
}

func bigOp(h *heap.Heap, op func(a, b *uint256.Int) *uint256.Int) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return 0, arity("big-op", len(args), 2)
		}
		a, err := toBigInt("big-op", args[0])
		if err != nil {
			return 0, err
		}
		b, err := toBigInt("big-op", args[1])
		if err != nil {
			return 0, err
		}
		result := op(a, b)
		encoded := bigIntPrefix + result.Dec()
		return value.NewPointer(h.AllocString([]byte(encoded))), nil
	}
}

func toBigInt(proc string, v value.Value) (*uint256.Int, error) {
	if v.IsInteger() {
		n := v.AsInteger()
		if n < 0 {
			return nil, wrongType(proc, v)
		}
		return uint256.NewInt(uint64(n)), nil
	}
	if v.IsPointer() && v.AsPointer().Kind == value.KindString && isBigIntString(v.AsPointer()) {
		n, err := uint256.FromDecimal(string(v.AsPointer().Str[len(bigIntPrefix):]))
		if err != nil {
			return nil, wrongType(proc, v)
		}
		return n, nil
	}
	return nil, wrongType(proc, v)
}

func requireString(name string, v value.Value) (*value.Object, error) {
	if !v.IsPointer() || v.AsPointer().Kind != value.KindString {
		return nil, wrongType(name, v)
	}
	return v.AsPointer(), nil
}
