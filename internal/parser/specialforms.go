// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package parser

import (
	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/token"
	"github.com/nojima/nscheme/internal/value"
)

// parseQuote handles `(quote datum)`: the datum is returned verbatim, never
// walked or re-parsed.
func (p *Parser) parseQuote(d value.Value) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "quote")
	if err != nil {
		return nil, err
	}
	if len(elems) != 2 {
		return nil, &nserr.ParseError{Pos: pos, Message: "quote: expected exactly one datum"}
	}
	return &ast.Literal{Value: elems[1]}, nil
}

// parseLambda handles `(lambda formals body...)`. formals is a symbol (a
// single rest-arg), a proper list (fixed arity), or an improper list (fixed
// args plus a rest arg).
func (p *Parser) parseLambda(d value.Value, outer *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "lambda")
	if err != nil {
		return nil, err
	}
	if len(elems) < 2 {
		return nil, &nserr.ParseError{Pos: pos, Message: "lambda: expected (lambda formals body...)"}
	}
	args, variadic, err := parseFormals(elems[1], pos)
	if err != nil {
		return nil, err
	}

	sc := newScope(outer)
	for _, a := range args {
		sc.define(a)
	}
	body, err := p.parseBody(elems[2:], sc, "lambda", pos)
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Args: args, Variadic: variadic, FrameSize: sc.size(), Body: body}, nil
}

// parseFormals decodes a lambda formals datum into the ordered argument
// names and whether the last one collects extra arguments into a list.
func parseFormals(formals value.Value, pos token.Position) ([]symbol.Symbol, bool, error) {
	if formals.IsSymbol() {
		return []symbol.Symbol{formals.AsSymbol()}, true, nil
	}

	var names []symbol.Symbol
	cur := formals
	for {
		if cur == value.Nil {
			return names, false, nil
		}
		if cur.IsSymbol() {
			names = append(names, cur.AsSymbol())
			return names, true, nil
		}
		if !isPair(cur) {
			return nil, false, &nserr.ParseError{Pos: pos, Message: "lambda: malformed formals list"}
		}
		head := carOf(cur)
		if !head.IsSymbol() {
			return nil, false, &nserr.ParseError{Pos: pos, Message: "lambda: formal parameter must be a symbol"}
		}
		names = append(names, head.AsSymbol())
		cur = cdrOf(cur)
	}
}

// parseIf handles both two-armed and three-armed `if`; a missing else
// branch becomes Literal(Undefined), matching ast.If's always-three-armed
// invariant.
func (p *Parser) parseIf(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "if")
	if err != nil {
		return nil, err
	}
	if len(elems) != 3 && len(elems) != 4 {
		return nil, &nserr.ParseError{Pos: pos, Message: "if: expected (if cond then [else])"}
	}
	cond, err := p.parseExpr(elems[1], sc)
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpr(elems[2], sc)
	if err != nil {
		return nil, err
	}
	if len(elems) == 3 {
		return &ast.If{Cond: cond, Then: then, Else: &ast.Literal{Value: value.Undefined}}, nil
	}
	els, err := p.parseExpr(elems[3], sc)
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els}, nil
}

// parseSet handles `(set! name expr)`, resolving name the same way a
// variable reference would.
func (p *Parser) parseSet(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "set!")
	if err != nil {
		return nil, err
	}
	if len(elems) != 3 {
		return nil, &nserr.ParseError{Pos: pos, Message: "set!: expected (set! name expr)"}
	}
	if !elems[1].IsSymbol() {
		return nil, &nserr.ParseError{Pos: pos, Message: "set!: target must be a symbol"}
	}
	name := elems[1].AsSymbol()
	expr, err := p.parseExpr(elems[2], sc)
	if err != nil {
		return nil, err
	}
	if depth, slot, ok := sc.lookup(name); ok {
		return &ast.LocalAssign{Depth: depth, Slot: slot, Expr: expr}, nil
	}
	return &ast.NamedAssign{Name: name, Expr: expr}, nil
}

// parseDefine handles both `(define name expr)` and function-shorthand
// `(define (name . formals) body...)`, legal only at body head. The name's
// slot was already registered by the enclosing collectDefines pass.
func (p *Parser) parseDefine(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	name, shorthand, err := p.defineTarget(d)
	if err != nil {
		return nil, err
	}
	_, slot, ok := sc.lookup(name)
	if !ok {
		return nil, &nserr.ParseError{Pos: pos, Message: "define: internal error, name not pre-registered"}
	}

	if isPair(shorthand) {
		lambdaFormals := cdrOf(shorthand)
		elems, err := properList(d, pos, "define")
		if err != nil {
			return nil, err
		}
		body := elems[2:]
		args, variadic, err := parseFormals(lambdaFormals, pos)
		if err != nil {
			return nil, err
		}
		inner := newScope(sc)
		for _, a := range args {
			inner.define(a)
		}
		innerBody, err := p.parseBody(body, inner, "define", pos)
		if err != nil {
			return nil, err
		}
		lambda := &ast.Lambda{Args: args, Variadic: variadic, FrameSize: inner.size(), Body: innerBody}
		return &ast.Define{Name: name, Slot: slot, Expr: lambda}, nil
	}

	elems, err := properList(d, pos, "define")
	if err != nil {
		return nil, err
	}
	if len(elems) != 3 {
		return nil, &nserr.ParseError{Pos: pos, Message: "define: expected (define name expr)"}
	}
	expr, err := p.parseExpr(elems[2], sc)
	if err != nil {
		return nil, err
	}
	return &ast.Define{Name: name, Slot: slot, Expr: expr}, nil
}
