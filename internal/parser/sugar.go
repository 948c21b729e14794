// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Supplemented forms: begin, and, or, cond, let, let*. Each desugars to the
// five primitive special forms plus Call before lexical resolution runs, so
// none of them needs its own ast.Node kind or vm instruction.
package parser

import (
	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/token"
	"github.com/nojima/nscheme/internal/value"
)

// parseBegin desugars (begin e1 e2 ... en) to an immediately-invoked 0-arg
// lambda, so it shares If/Call's tail-position behavior. A define nested
// inside a begin used mid-body is not hoisted by the enclosing two-phase
// pass; this is an accepted limitation of the expansion.
func (p *Parser) parseBegin(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "begin")
	if err != nil {
		return nil, err
	}
	body := elems[1:]
	if len(body) == 0 {
		return &ast.Literal{Value: value.Undefined}, nil
	}
	if len(body) == 1 {
		return p.parseExpr(body[0], sc)
	}
	inner := newScope(sc)
	innerBody, err := p.parseBody(body, inner, "begin", pos)
	if err != nil {
		return nil, err
	}
	lambda := &ast.Lambda{FrameSize: inner.size(), Body: innerBody}
	return &ast.Call{Callee: lambda}, nil
}

// parseAnd desugars (and e1 ... en): empty is #t, one operand is itself, and
// otherwise nested ifs short-circuit on the first falsy value.
func (p *Parser) parseAnd(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "and")
	if err != nil {
		return nil, err
	}
	operands := elems[1:]
	if len(operands) == 0 {
		return &ast.Literal{Value: value.True}, nil
	}
	return p.desugarAnd(operands, sc)
}

func (p *Parser) desugarAnd(operands []value.Value, sc *scope) (ast.Node, error) {
	head, err := p.parseExpr(operands[0], sc)
	if err != nil {
		return nil, err
	}
	if len(operands) == 1 {
		return head, nil
	}
	rest, err := p.desugarAnd(operands[1:], sc)
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: head, Then: rest, Else: &ast.Literal{Value: value.False}}, nil
}

// parseOr desugars (or e1 ... en): empty is #f, one operand is itself, and
// otherwise each operand is bound once to a gensym temp so it is evaluated
// at most once while still being usable as both the test and the result.
func (p *Parser) parseOr(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "or")
	if err != nil {
		return nil, err
	}
	operands := elems[1:]
	if len(operands) == 0 {
		return &ast.Literal{Value: value.False}, nil
	}
	return p.desugarOr(operands, sc)
}

func (p *Parser) desugarOr(operands []value.Value, sc *scope) (ast.Node, error) {
	if len(operands) == 1 {
		return p.parseExpr(operands[0], sc)
	}
	first, err := p.parseExpr(operands[0], sc)
	if err != nil {
		return nil, err
	}

	inner := newScope(sc)
	tmp := p.gensym("or")
	slot := inner.define(tmp)
	rest, err := p.desugarOr(operands[1:], inner)
	if err != nil {
		return nil, err
	}

	body := []ast.Node{
		&ast.If{
			Cond: &ast.LocalVarRef{Depth: 0, Slot: slot},
			Then: &ast.LocalVarRef{Depth: 0, Slot: slot},
			Else: rest,
		},
	}
	lambda := &ast.Lambda{Args: []symbol.Symbol{tmp}, FrameSize: inner.size(), Body: body}
	return &ast.Call{Callee: lambda, Args: []ast.Node{first}}, nil
}

// parseCond desugars (cond clause...) into a chain of ifs. A clause headed
// by `else` is unconditional; a clause with no result expressions uses its
// own test value as the result.
func (p *Parser) parseCond(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "cond")
	if err != nil {
		return nil, err
	}
	return p.desugarCond(elems[1:], sc, pos)
}

func (p *Parser) desugarCond(clauses []value.Value, sc *scope, pos token.Position) (ast.Node, error) {
	if len(clauses) == 0 {
		return &ast.Literal{Value: value.Undefined}, nil
	}
	clause := clauses[0]
	parts, err := properList(clause, pos, "cond clause")
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, &nserr.ParseError{Pos: pos, Message: "cond: empty clause"}
	}

	if parts[0].IsSymbol() && symbol.Name(parts[0].AsSymbol()) == "else" {
		return p.beginOf(parts[1:], sc, pos)
	}

	test, err := p.parseExpr(parts[0], sc)
	if err != nil {
		return nil, err
	}
	rest, err := p.desugarCond(clauses[1:], sc, pos)
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		inner := newScope(sc)
		tmp := p.gensym("cond")
		slot := inner.define(tmp)
		body := []ast.Node{
			&ast.If{
				Cond: &ast.LocalVarRef{Depth: 0, Slot: slot},
				Then: &ast.LocalVarRef{Depth: 0, Slot: slot},
				Else: rest,
			},
		}
		lambda := &ast.Lambda{Args: []symbol.Symbol{tmp}, FrameSize: inner.size(), Body: body}
		return &ast.Call{Callee: lambda, Args: []ast.Node{test}}, nil
	}
	then, err := p.beginOf(parts[1:], sc, pos)
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: test, Then: then, Else: rest}, nil
}

// beginOf parses a sequence of expressions as an implicit begin, without
// requiring an explicit (begin ...) wrapper in the source.
func (p *Parser) beginOf(exprs []value.Value, sc *scope, pos token.Position) (ast.Node, error) {
	if len(exprs) == 0 {
		return &ast.Literal{Value: value.Undefined}, nil
	}
	if len(exprs) == 1 {
		return p.parseExpr(exprs[0], sc)
	}
	inner := newScope(sc)
	body, err := p.parseBody(exprs, inner, "cond", pos)
	if err != nil {
		return nil, err
	}
	lambda := &ast.Lambda{FrameSize: inner.size(), Body: body}
	return &ast.Call{Callee: lambda}, nil
}

// parseLet desugars (let ((v1 e1) (v2 e2) ...) body...) into an immediate
// lambda application.
func (p *Parser) parseLet(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "let")
	if err != nil {
		return nil, err
	}
	if len(elems) < 2 {
		return nil, &nserr.ParseError{Pos: pos, Message: "let: expected (let bindings body...)"}
	}
	names, inits, err := p.parseBindings(elems[1], pos)
	if err != nil {
		return nil, err
	}

	initNodes := make([]ast.Node, len(inits))
	for i, e := range inits {
		n, err := p.parseExpr(e, sc)
		if err != nil {
			return nil, err
		}
		initNodes[i] = n
	}

	inner := newScope(sc)
	for _, n := range names {
		inner.define(n)
	}
	body, err := p.parseBody(elems[2:], inner, "let", pos)
	if err != nil {
		return nil, err
	}
	lambda := &ast.Lambda{Args: names, FrameSize: inner.size(), Body: body}
	return &ast.Call{Callee: lambda, Args: initNodes}, nil
}

// parseLetStar desugars (let* ((v1 e1) (v2 e2) ...) body...) into nested
// single-binding lets, so each init expression sees the previous bindings.
func (p *Parser) parseLetStar(d value.Value, sc *scope) (ast.Node, error) {
	pos := p.posOf(d)
	elems, err := properList(d, pos, "let*")
	if err != nil {
		return nil, err
	}
	if len(elems) < 2 {
		return nil, &nserr.ParseError{Pos: pos, Message: "let*: expected (let* bindings body...)"}
	}
	names, inits, err := p.parseBindings(elems[1], pos)
	if err != nil {
		return nil, err
	}
	return p.desugarLetStar(names, inits, elems[2:], sc, pos)
}

func (p *Parser) desugarLetStar(names []symbol.Symbol, inits []value.Value, body []value.Value, sc *scope, pos token.Position) (ast.Node, error) {
	if len(names) == 0 {
		inner := newScope(sc)
		parsedBody, err := p.parseBody(body, inner, "let*", pos)
		if err != nil {
			return nil, err
		}
		lambda := &ast.Lambda{FrameSize: inner.size(), Body: parsedBody}
		return &ast.Call{Callee: lambda}, nil
	}

	init, err := p.parseExpr(inits[0], sc)
	if err != nil {
		return nil, err
	}
	inner := newScope(sc)
	inner.define(names[0])
	rest, err := p.desugarLetStar(names[1:], inits[1:], body, inner, pos)
	if err != nil {
		return nil, err
	}
	lambda := &ast.Lambda{Args: names[:1], FrameSize: inner.size(), Body: []ast.Node{rest}}
	return &ast.Call{Callee: lambda, Args: []ast.Node{init}}, nil
}

// parseBindings decodes a let/let* binding list ((v1 e1) (v2 e2) ...) into
// parallel name and init-expression slices.
func (p *Parser) parseBindings(bindings value.Value, pos token.Position) ([]symbol.Symbol, []value.Value, error) {
	list, err := properList(bindings, pos, "let bindings")
	if err != nil {
		return nil, nil, err
	}
	names := make([]symbol.Symbol, 0, len(list))
	inits := make([]value.Value, 0, len(list))
	for _, b := range list {
		parts, err := properList(b, pos, "let binding")
		if err != nil {
			return nil, nil, err
		}
		if len(parts) != 2 || !parts[0].IsSymbol() {
			return nil, nil, &nserr.ParseError{Pos: pos, Message: "let: binding must be (name expr)"}
		}
		names = append(names, parts[0].AsSymbol())
		inits = append(inits, parts[1])
	}
	return names, inits, nil
}
