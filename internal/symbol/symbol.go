// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package symbol interns identifier strings into stable, comparable ids.
//
// A Symbol is cheap to copy, usable as a map key, and embeddable inside a
// tagged value.Value word. Two Symbols compare equal iff the strings they
// were interned from compare equal.
package symbol

import "sync"

// Symbol is the interned identity of a string.
type Symbol uint32

// Table interns strings to Symbols and back.
//
// The zero value is not usable; use NewTable.
type Table struct {
	mu      sync.Mutex
	byName  map[string]Symbol
	byID    []string
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]Symbol),
	}
}

// Intern returns the Symbol for name, creating a new one if name has not
// been seen before.
func (t *Table) Intern(name string) Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byName[name]; ok {
		return id
	}
	id := Symbol(len(t.byID))
	t.byID = append(t.byID, name)
	t.byName[name] = id
	return id
}

// Name returns the string a Symbol was interned from.
// Panics if sym was not produced by this table.
func (t *Table) Name(sym Symbol) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byID[sym]
}

// Len returns the number of distinct interned symbols.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// global is the process-wide table. A single nscheme invocation interprets
// exactly one program (spec.md §1), so one shared table for the run's
// lifetime is sufficient; there is no multi-tenant or concurrent use.
var global = NewTable()

// Intern interns name in the global table.
func Intern(name string) Symbol { return global.Intern(name) }

// Name returns the string sym was interned from in the global table.
func Name(sym Symbol) string { return global.Name(sym) }

