// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package parser

import (
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/token"
	"github.com/nojima/nscheme/internal/value"
)

// isPair reports whether v is a heap Pair.
func isPair(v value.Value) bool {
	return v.IsPointer() && v.AsPointer().Kind == value.KindPair
}

func carOf(v value.Value) value.Value { return v.AsPointer().Car }
func cdrOf(v value.Value) value.Value { return v.AsPointer().Cdr }

// headSymbol reports whether v is a list whose car is the symbol named
// name, e.g. to recognize `(lambda ...)` by its head.
func headSymbol(v value.Value, name string) bool {
	if !isPair(v) {
		return false
	}
	car := carOf(v)
	return car.IsSymbol() && symbol.Name(car.AsSymbol()) == name
}

// properList converts a proper list datum into a slice, or reports a
// ParseError at pos if v is not a proper list.
func properList(v value.Value, pos token.Position, context string) ([]value.Value, error) {
	var elems []value.Value
	for v != value.Nil {
		if !isPair(v) {
			return nil, &nserr.ParseError{Pos: pos, Message: context + ": expected a proper list"}
		}
		elems = append(elems, carOf(v))
		v = cdrOf(v)
	}
	return elems, nil
}

// tailAfter returns the elements of elems beyond the first n (a proper list is
// assumed, use after properList validated it), i.e. list[n:].
func tailAfter(elems []value.Value, n int) []value.Value {
	if n >= len(elems) {
		return nil
	}
	return elems[n:]
}
