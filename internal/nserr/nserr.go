// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package nserr defines the flat, non-hierarchical error kinds spec.md §7
// requires. Every kind is caught at the outer execution boundary
// (cmd/nscheme) and turned into a single-line diagnostic; none of them wrap
// or chain into each other.
package nserr

import (
	"errors"
	"fmt"

	"github.com/nojima/nscheme/internal/token"
)

// ErrQuit is the sentinel the Quit instruction raises to terminate
// execution cleanly (spec.md §7). It is not an error condition: cmd/nscheme
// treats it as a normal, exit-0 termination.
var ErrQuit = errors.New("quit")

// ArgumentError is raised by the CLI parser on a malformed command line.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

// ReadError is raised by the reader: unterminated list/vector, unexpected
// close paren, unknown escape, misplaced '.'.
type ReadError struct {
	Pos     token.Position
	Message string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ParseError is raised by the parser: malformed special form, non-symbol in
// binding position, improper list where a proper one is required, wrong
// arity to a special form.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// NameError is raised by the VM when a global name is referenced or
// assigned but not bound.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

// TypeError is raised by built-ins and the VM's Apply dispatch on a value of
// the wrong type.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

// ArityError is raised by the VM and built-ins on an argument-count
// mismatch.
type ArityError struct {
	Message string
}

func (e *ArityError) Error() string { return e.Message }

// RuntimeError covers everything else raised during execution, e.g.
// division by zero.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }
