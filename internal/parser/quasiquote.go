// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Supplemented from original_source/src/analyzer.cpp: quasiquote expands to
// cons/list/append/vector Calls over NamedVarRefs at parse time, rather than
// a runtime quasiquote primitive — spec.md's builtin registry (§4.6) already
// provides cons/append/vector, so no new vm instruction or ast.Node kind is
// needed.
package parser

import (
	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

// expandQuasiquote expands datum, the content of a `(quasiquote datum)` or
// nested ``datum form, at the given nesting depth (starts at 1 for the
// outermost quasiquote; unquote/unquote-splicing only take effect at depth
// 1, and quasiquote/unquote both adjust depth for further nesting). sc is
// the lexical scope in force where the quasiquote form appears, so an
// unquoted expression resolves local bindings the same way any other
// expression there would.
func (p *Parser) expandQuasiquote(datum value.Value, depth int, sc *scope) (ast.Node, error) {
	if isPair(datum) {
		head := carOf(datum)
		if head.IsSymbol() {
			switch symbol.Name(head.AsSymbol()) {
			case "unquote":
				arg := cadr(datum)
				if depth == 1 {
					return p.parseExpr(arg, sc)
				}
				inner, err := p.expandQuasiquote(arg, depth-1, sc)
				if err != nil {
					return nil, err
				}
				return wrapTagged("unquote", inner), nil

			case "quasiquote":
				arg := cadr(datum)
				inner, err := p.expandQuasiquote(arg, depth+1, sc)
				if err != nil {
					return nil, err
				}
				return wrapTagged("quasiquote", inner), nil
			}
		}

		if isPair(head) && headSymbol(head, "unquote-splicing") && depth == 1 {
			spliced, err := p.parseExpr(cadr(head), sc)
			if err != nil {
				return nil, err
			}
			rest, err := p.expandQuasiquote(cdrOf(datum), depth, sc)
			if err != nil {
				return nil, err
			}
			return &ast.Call{Callee: &ast.NamedVarRef{Name: symbol.Intern("append")}, Args: []ast.Node{spliced, rest}}, nil
		}

		carNode, err := p.expandQuasiquote(head, depth, sc)
		if err != nil {
			return nil, err
		}
		cdrNode, err := p.expandQuasiquote(cdrOf(datum), depth, sc)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Callee: &ast.NamedVarRef{Name: symbol.Intern("cons")}, Args: []ast.Node{carNode, cdrNode}}, nil
	}

	if datum.IsPointer() && datum.AsPointer().Kind == value.KindVector {
		elems := datum.AsPointer().Elems
		args := make([]ast.Node, len(elems))
		for i, e := range elems {
			n, err := p.expandQuasiquote(e, depth, sc)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return &ast.Call{Callee: &ast.NamedVarRef{Name: symbol.Intern("vector")}, Args: args}, nil
	}

	return &ast.Literal{Value: datum}, nil
}

// wrapTagged builds the Call equivalent to (list 'tag inner), used to
// re-quote a nested quasiquote/unquote form that the outer expansion must
// leave for a later, less-deep quasiquote expansion to process.
func wrapTagged(tag string, inner ast.Node) ast.Node {
	return &ast.Call{
		Callee: &ast.NamedVarRef{Name: symbol.Intern("list")},
		Args:   []ast.Node{&ast.Literal{Value: value.NewSymbol(symbol.Intern(tag))}, inner},
	}
}
