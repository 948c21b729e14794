// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package builtin

import (
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/value"
)

// arithmeticEntries implements spec.md §4.6's required `+ - * /`: variadic,
// over 62-bit immediate integers, `/` raising on a zero divisor.
func arithmeticEntries() []entry {
	return []entry{
		{"+", foldInts("+", 0, func(a, b int64) int64 { return a + b })},
		{"*", foldInts("*", 1, func(a, b int64) int64 { return a * b })},
		{"-", subtract},
		{"/", divide},
	}
}

func foldInts(name string, identity int64, op func(a, b int64) int64) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		acc := identity
		for _, a := range args {
			n, err := checkInteger(name, a)
			if err != nil {
				return 0, err
			}
			acc = op(acc, n)
		}
		return value.NewInteger(acc), nil
	}
}

// subtract follows Scheme's usual convention: (- x) negates, (- x y z...)
// subtracts the rest from the first.
func subtract(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return 0, arity("-", 0, 1)
	}
	first, err := checkInteger("-", args[0])
	if err != nil {
		return 0, err
	}
	if len(args) == 1 {
		return value.NewInteger(-first), nil
	}
	acc := first
	for _, a := range args[1:] {
		n, err := checkInteger("-", a)
		if err != nil {
			return 0, err
		}
		acc -= n
	}
	return value.NewInteger(acc), nil
}

func divide(args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return 0, arity("/", len(args), 2)
	}
	acc, err := checkInteger("/", args[0])
	if err != nil {
		return 0, err
	}
	for _, a := range args[1:] {
		n, err := checkInteger("/", a)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, &nserr.RuntimeError{Message: "/: divide by zero"}
		}
		acc /= n
	}
	return value.NewInteger(acc), nil
}

// comparisonEntries implements spec.md §4.6's required `= < > <= >=`:
// variadic chained comparison over integers.
func comparisonEntries() []entry {
	return []entry{
		{"=", chain("=", func(a, b int64) bool { return a == b })},
		{"<", chain("<", func(a, b int64) bool { return a < b })},
		{">", chain(">", func(a, b int64) bool { return a > b })},
		{"<=", chain("<=", func(a, b int64) bool { return a <= b })},
		{">=", chain(">=", func(a, b int64) bool { return a >= b })},
	}
}

func chain(name string, cmp func(a, b int64) bool) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) < 1 {
			return 0, arity(name, len(args), 1)
		}
		prev, err := checkInteger(name, args[0])
		if err != nil {
			return 0, err
		}
		for _, a := range args[1:] {
			n, err := checkInteger(name, a)
			if err != nil {
				return 0, err
			}
			if !cmp(prev, n) {
				return value.False, nil
			}
			prev = n
		}
		return value.True, nil
	}
}
