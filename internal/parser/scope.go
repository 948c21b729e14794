// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package parser

import "github.com/nojima/nscheme/internal/symbol"

// scope is one entry in the chain of local-name tables spec.md §4.2
// describes: one per enclosing lambda (plus one for the top-level program),
// each a simple append-only list of names addressed by position.
type scope struct {
	names  []symbol.Symbol
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent}
}

// lookup walks the chain outward. The first hit yields (depth, slot); a
// miss (ok == false) means the parser must emit a NamedVarRef instead.
func (s *scope) lookup(sym symbol.Symbol) (depth, slot int, ok bool) {
	depth = 0
	for cur := s; cur != nil; cur = cur.parent {
		for i, n := range cur.names {
			if n == sym {
				return depth, i, true
			}
		}
		depth++
	}
	return 0, 0, false
}

// define appends sym to the innermost table, or returns its existing slot
// if the two-phase define pass already registered it.
func (s *scope) define(sym symbol.Symbol) int {
	for i, n := range s.names {
		if n == sym {
			return i
		}
	}
	s.names = append(s.names, sym)
	return len(s.names) - 1
}

func (s *scope) size() int { return len(s.names) }
