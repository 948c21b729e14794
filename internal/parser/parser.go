// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package parser lowers reader data into the typed AST from spec.md §4.2:
// lexical address resolution via a chain of local-name tables, two-phase
// `define` parsing, and the five primitive special forms (`lambda`, `if`,
// `set!`, `quote`, `define`). The top-level program is parsed the same way
// as a lambda body, with its own implicit scope (spec.md §9's top-level
// pseudo-lambda treatment, carried into internal/vm's Program execution).
//
// Supplemented from original_source/src/analyzer.cpp: begin/and/or/cond/
// let/let*/quasiquote desugar to the five primitives plus Call before
// lexical resolution runs, as fixed, non-extensible rewrites (never a
// general define-syntax facility — spec.md's Non-goals exclude that).
//
// Grounded on the teacher's lang/parser.Parser error-accumulation style
// (position-carrying *ParseError values) and original_source/src/node.hpp's
// special-form dispatch table.
package parser

import (
	"fmt"

	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/token"
	"github.com/nojima/nscheme/internal/value"
)

// Parser lowers datums into ast.Node. The zero value is ready to use, with
// every ParseError reporting a zero Position; pass the reader's source map
// to New to get real positions in error messages.
type Parser struct {
	gensymCounter int
	sourceMap     map[*value.Object]token.Position
}

// New returns a ready Parser. sourceMap may be nil.
func New(sourceMap map[*value.Object]token.Position) *Parser {
	return &Parser{sourceMap: sourceMap}
}

// ParseProgram parses every top-level datum into a Program whose Body
// shares one implicit top-level scope (spec.md §9).
func (p *Parser) ParseProgram(data []value.Value) (*ast.Program, error) {
	top := newScope(nil)
	if err := p.collectDefines(data, top); err != nil {
		return nil, err
	}

	body := make([]ast.Node, 0, len(data))
	for _, d := range data {
		n, err := p.parseBodyExpr(d, top)
		if err != nil {
			return nil, err
		}
		body = append(body, n)
	}

	return &ast.Program{Body: body, FrameSize: top.size()}, nil
}

// collectDefines is phase one of spec.md §4.2's two-phase define parsing:
// scan a body for top-level `(define ...)` forms (not nested inside other
// expressions) and pre-register their names, so a later expression in the
// same body may reference a name defined after it (mutual recursion).
func (p *Parser) collectDefines(body []value.Value, sc *scope) error {
	for _, d := range body {
		if !headSymbol(d, "define") {
			continue
		}
		name, _, err := p.defineTarget(d)
		if err != nil {
			return err
		}
		sc.define(name)
	}
	return nil
}

// defineTarget extracts the name being defined and, for function-shorthand
// define, the raw (formals . body) datum.
func (p *Parser) defineTarget(d value.Value) (symbol.Symbol, value.Value, error) {
	pos := p.posOf(d)
	rest, err := properList(d, pos, "define")
	if err == nil && len(rest) < 2 {
		err = &nserr.ParseError{Pos: pos, Message: "define: missing binding target"}
	}
	if err != nil {
		return 0, 0, err
	}
	target := rest[1]
	if target.IsSymbol() {
		return target.AsSymbol(), 0, nil
	}
	if isPair(target) {
		head := carOf(target)
		if !head.IsSymbol() {
			return 0, 0, &nserr.ParseError{Pos: pos, Message: "define: function name must be a symbol"}
		}
		return head.AsSymbol(), target, nil
	}
	return 0, 0, &nserr.ParseError{Pos: pos, Message: "define: binding target must be a symbol or (name . formals)"}
}

func (p *Parser) parseExpr(d value.Value, sc *scope) (ast.Node, error) {
	if d.IsSymbol() {
		return p.resolveVar(d.AsSymbol(), sc), nil
	}
	if d == value.Nil {
		return nil, &nserr.ParseError{Pos: p.posOf(d), Message: "cannot call an empty list"}
	}
	if !isPair(d) {
		return &ast.Literal{Value: d}, nil
	}

	head := carOf(d)
	if head.IsSymbol() {
		switch symbol.Name(head.AsSymbol()) {
		case "quote":
			return p.parseQuote(d)
		case "lambda":
			return p.parseLambda(d, sc)
		case "if":
			return p.parseIf(d, sc)
		case "set!":
			return p.parseSet(d, sc)
		case "define":
			return nil, &nserr.ParseError{Pos: p.posOf(d), Message: "define is only legal at body head"}
		case "begin":
			return p.parseBegin(d, sc)
		case "and":
			return p.parseAnd(d, sc)
		case "or":
			return p.parseOr(d, sc)
		case "cond":
			return p.parseCond(d, sc)
		case "let":
			return p.parseLet(d, sc)
		case "let*":
			return p.parseLetStar(d, sc)
		case "quasiquote":
			return p.expandQuasiquote(cadr(d), 1, sc)
		}
	}
	return p.parseCall(d, sc)
}

func (p *Parser) resolveVar(sym symbol.Symbol, sc *scope) ast.Node {
	if depth, slot, ok := sc.lookup(sym); ok {
		return &ast.LocalVarRef{Depth: depth, Slot: slot}
	}
	return &ast.NamedVarRef{Name: sym}
}

func (p *Parser) parseCall(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "call")
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, &nserr.ParseError{Pos: pos, Message: "cannot call an empty list"}
	}
	callee, err := p.parseExpr(elems[0], sc)
	if err != nil {
		return nil, err
	}
	args := make([]ast.Node, 0, len(elems)-1)
	for _, a := range elems[1:] {
		n, err := p.parseExpr(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	return &ast.Call{Callee: callee, Args: args}, nil
}

// parseBody parses the statements of a lambda/let body, running the
// two-phase define pass first.
func (p *Parser) parseBody(body []value.Value, sc *scope, context string, pos token.Position) ([]ast.Node, error) {
	if len(body) == 0 {
		return nil, &nserr.ParseError{Pos: pos, Message: context + ": body must not be empty"}
	}
	if err := p.collectDefines(body, sc); err != nil {
		return nil, err
	}
	nodes := make([]ast.Node, 0, len(body))
	for _, d := range body {
		n, err := p.parseBodyExpr(d, sc)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseBodyExpr parses one body statement, allowing `define` only here (at
// body head, per spec.md §4.2 — "head" is interpreted as "anywhere in this
// body's own statement list", matching the two-phase collection above).
func (p *Parser) parseBodyExpr(d value.Value, sc *scope) (ast.Node, error) {
	if headSymbol(d, "define") {
		return p.parseDefine(d, sc)
	}
	return p.parseExpr(d, sc)
}

// gensym returns a symbol not reachable by any reader-produced name, for
// non-hygienic desugarings (or, let*) that need a throwaway binding.
func (p *Parser) gensym(base string) symbol.Symbol {
	p.gensymCounter++
	return symbol.Intern(fmt.Sprintf(" %s.%d", base, p.gensymCounter))
}

func cadr(d value.Value) value.Value { return carOf(cdrOf(d)) }

// posOf looks up d's recorded source position, or the zero Position if d
// is not a Pair/Vector the reader annotated (e.g. a synthetic datum built
// by a desugaring pass, or sourceMap is nil).
func (p *Parser) posOf(d value.Value) token.Position {
	if p.sourceMap == nil || !d.IsPointer() {
		return token.Position{}
	}
	return p.sourceMap[d.AsPointer()]
}
