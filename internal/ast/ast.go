// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package ast defines the typed AST spec.md §4.2 lowers datums into.
//
// Grounded on the teacher's lang/ast package's marker-interface pattern
// (a Node interface with TokenLiteral()/String(), one concrete struct per
// node kind) — the node set itself is entirely replaced with spec.md's
// eight Scheme node kinds instead of PROBE's Rust-like grammar.
package ast

import (
	"fmt"
	"strings"

	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

// Node is implemented by every AST node.
type Node interface {
	String() string
	node()
}

// NamedVarRef references a name not resolved to a lexical address — either
// a forward reference the parser could not yet resolve, or (most commonly)
// a global.
type NamedVarRef struct {
	Name symbol.Symbol
}

func (n *NamedVarRef) node() {}
func (n *NamedVarRef) String() string { return symbol.Name(n.Name) }

// LocalVarRef is a resolved lexical address: walk Depth frame parents, read
// Slot.
type LocalVarRef struct {
	Depth int
	Slot  int
}

func (n *LocalVarRef) node() {}
func (n *LocalVarRef) String() string { return fmt.Sprintf("local(%d,%d)", n.Depth, n.Slot) }

// Literal is a self-evaluating or quoted datum.
type Literal struct {
	Value value.Value
}

func (n *Literal) node() {}
func (n *Literal) String() string { return n.Value.String() }

// Call is a procedure application.
type Call struct {
	Callee Node
	Args   []Node
}

func (n *Call) node() {}
func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s %s)", n.Callee, strings.Join(parts, " "))
}

// Lambda is an abstraction. FrameSize is always >= len(Args); the extra
// slots (FrameSize - len(Args)) hold this body's own `define`d locals.
type Lambda struct {
	Args      []symbol.Symbol
	Variadic  bool
	FrameSize int
	Body      []Node
}

func (n *Lambda) node() {}
func (n *Lambda) String() string { return "(lambda ...)" }

// If is always three-armed: spec.md requires an explicit else branch (the
// parser synthesizes Literal(Undefined) for a source-level two-armed if).
type If struct {
	Cond, Then, Else Node
}

func (n *If) node() {}
func (n *If) String() string { return fmt.Sprintf("(if %s %s %s)", n.Cond, n.Then, n.Else) }

// NamedAssign is `(set! name expr)` where name resolved to a global.
type NamedAssign struct {
	Name symbol.Symbol
	Expr Node
}

func (n *NamedAssign) node() {}
func (n *NamedAssign) String() string { return fmt.Sprintf("(set! %s %s)", symbol.Name(n.Name), n.Expr) }

// LocalAssign is `(set! name expr)` where name resolved to a lexical
// address.
type LocalAssign struct {
	Depth int
	Slot  int
	Expr  Node
}

func (n *LocalAssign) node() {}
func (n *LocalAssign) String() string {
	return fmt.Sprintf("(set! local(%d,%d) %s)", n.Depth, n.Slot, n.Expr)
}

// Define is only legal at body head; it always targets slot Slot of the
// immediately enclosing frame (depth 0).
type Define struct {
	Name symbol.Symbol
	Slot int
	Expr Node
}

func (n *Define) node() {}
func (n *Define) String() string { return fmt.Sprintf("(define %s %s)", symbol.Name(n.Name), n.Expr) }

// Program is the parsed top-level sequence of expressions.
type Program struct {
	Body      []Node
	FrameSize int // top-level locals beyond the global frame, if any
}
