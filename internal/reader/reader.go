// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package reader turns a token stream into Values: atoms, proper and
// improper lists, vectors, and the quote/quasiquote/unquote abbreviations
// (spec.md §4.2). Every Pair and Vector it builds is entered into a source
// map keyed by the Object pointer, for position-annotated error messages
// further down the pipeline; the map is not traced by the collector and is
// dropped once compilation finishes (spec.md §9's reader-source-map-lifetime
// note).
//
// Grounded on original_source/src/reader.cpp's production set (atoms, lists,
// vectors, quote abbreviations) combined with the teacher parser's
// single-token-lookahead style (lang/parser/parser.go's cur/peek fields).
package reader

import (
	"strconv"

	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nserr"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/token"
	"github.com/nojima/nscheme/internal/value"
)

// tokenSource is the minimal interface the reader needs from a scanner,
// kept narrow so tests can feed a hand-built token list.
type tokenSource interface {
	Next() (token.Token, error)
}

// Reader consumes tokens one at a time and builds Values.
type Reader struct {
	src tokenSource
	h   *heap.Heap

	cur token.Token

	// SourceMap maps every Pair/Vector this Reader has built to the
	// position of the token that introduced it (the opening paren).
	SourceMap map[*value.Object]token.Position
}

// New returns a Reader positioned at the first token, or an error if the
// very first token fails to scan.
func New(src tokenSource, h *heap.Heap) (*Reader, error) {
	r := &Reader{src: src, h: h, SourceMap: make(map[*value.Object]token.Position)}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) advance() error {
	t, err := r.src.Next()
	if err != nil {
		return err
	}
	r.cur = t
	return nil
}

// AtEOF reports whether the reader has consumed every token.
func (r *Reader) AtEOF() bool { return r.cur.Type == token.Eof }

// ReadAll reads every top-level datum until Eof.
func (r *Reader) ReadAll() ([]value.Value, error) {
	var data []value.Value
	for !r.AtEOF() {
		v, err := r.Read()
		if err != nil {
			return nil, err
		}
		data = append(data, v)
	}
	return data, nil
}

// Read reads one datum. Callers must check AtEOF before calling.
func (r *Reader) Read() (value.Value, error) {
	t := r.cur
	switch t.Type {
	case token.Eof:
		return 0, &nserr.ReadError{Pos: t.Pos, Message: "unexpected end of input"}

	case token.Identifier:
		if err := r.advance(); err != nil {
			return 0, err
		}
		return value.NewSymbol(symbol.Intern(t.Literal)), nil

	case token.True:
		if err := r.advance(); err != nil {
			return 0, err
		}
		return value.True, nil

	case token.False:
		if err := r.advance(); err != nil {
			return 0, err
		}
		return value.False, nil

	case token.Integer:
		if err := r.advance(); err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(t.Literal, 10, 62)
		if err != nil {
			return 0, &nserr.ReadError{Pos: t.Pos, Message: "malformed integer literal: " + t.Literal}
		}
		return value.NewInteger(n), nil

	case token.Real:
		if err := r.advance(); err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return 0, &nserr.ReadError{Pos: t.Pos, Message: "malformed real literal: " + t.Literal}
		}
		return value.NewPointer(r.h.AllocReal(f)), nil

	case token.Character:
		if err := r.advance(); err != nil {
			return 0, err
		}
		c, err := characterFromLiteral(t.Literal)
		if err != nil {
			return 0, &nserr.ReadError{Pos: t.Pos, Message: err.Error()}
		}
		return value.NewCharacter(c), nil

	case token.String:
		if err := r.advance(); err != nil {
			return 0, err
		}
		return value.NewPointer(r.h.AllocString([]byte(t.Literal))), nil

	case token.OpenParen:
		return r.readList(t.Pos)

	case token.SharpOpenParen:
		return r.readVector(t.Pos)

	case token.Quote:
		return r.readAbbreviation("quote", t.Pos)

	case token.BackQuote:
		return r.readAbbreviation("quasiquote", t.Pos)

	case token.Comma:
		return r.readAbbreviation("unquote", t.Pos)

	case token.CommaAt:
		return r.readAbbreviation("unquote-splicing", t.Pos)

	case token.CloseParen:
		return 0, &nserr.ReadError{Pos: t.Pos, Message: "unexpected close paren"}

	case token.Period:
		return 0, &nserr.ReadError{Pos: t.Pos, Message: "misplaced '.'"}

	default:
		return 0, &nserr.ReadError{Pos: t.Pos, Message: "unrecognized token"}
	}
}

// readAbbreviation implements 'x -> (quote x), `x -> (quasiquote x), etc.
func (r *Reader) readAbbreviation(head string, pos token.Position) (value.Value, error) {
	if err := r.advance(); err != nil { // consume the abbreviation token itself
		return 0, err
	}
	if r.AtEOF() {
		return 0, &nserr.ReadError{Pos: pos, Message: "expected a datum after '" + head + "' abbreviation"}
	}
	datum, err := r.Read()
	if err != nil {
		return 0, err
	}
	headSym := value.NewSymbol(symbol.Intern(head))
	tail := r.h.AllocPair(datum, value.Nil)
	r.SourceMap[tail] = pos
	list := r.h.AllocPair(headSym, value.NewPointer(tail))
	r.SourceMap[list] = pos
	return value.NewPointer(list), nil
}

// readList reads the proper or improper list following an already-consumed
// OpenParen token at pos.
func (r *Reader) readList(pos token.Position) (value.Value, error) {
	if err := r.advance(); err != nil { // consume '('
		return 0, err
	}

	var elems []value.Value
	tail := value.Value(value.Nil)

	for {
		if r.AtEOF() {
			return 0, &nserr.ReadError{Pos: pos, Message: "unterminated list"}
		}
		if r.cur.Type == token.CloseParen {
			if err := r.advance(); err != nil {
				return 0, err
			}
			break
		}
		if r.cur.Type == token.Period {
			periodPos := r.cur.Pos
			if err := r.advance(); err != nil { // consume '.'
				return 0, err
			}
			if r.AtEOF() || r.cur.Type == token.CloseParen {
				return 0, &nserr.ReadError{Pos: periodPos, Message: "expected a datum after '.'"}
			}
			v, err := r.Read()
			if err != nil {
				return 0, err
			}
			tail = v
			if r.AtEOF() || r.cur.Type != token.CloseParen {
				return 0, &nserr.ReadError{Pos: periodPos, Message: "expected ')' after dotted tail"}
			}
			if err := r.advance(); err != nil { // consume ')'
				return 0, err
			}
			break
		}
		v, err := r.Read()
		if err != nil {
			return 0, err
		}
		elems = append(elems, v)
	}

	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		p := r.h.AllocPair(elems[i], result)
		r.SourceMap[p] = pos
		result = value.NewPointer(p)
	}
	return result, nil
}

// readVector reads #(…) following an already-consumed SharpOpenParen token.
func (r *Reader) readVector(pos token.Position) (value.Value, error) {
	if err := r.advance(); err != nil { // consume '#('
		return 0, err
	}
	var elems []value.Value
	for {
		if r.AtEOF() {
			return 0, &nserr.ReadError{Pos: pos, Message: "unterminated vector"}
		}
		if r.cur.Type == token.CloseParen {
			if err := r.advance(); err != nil {
				return 0, err
			}
			break
		}
		v, err := r.Read()
		if err != nil {
			return 0, err
		}
		elems = append(elems, v)
	}
	obj := r.h.AllocVector(elems)
	r.SourceMap[obj] = pos
	return value.NewPointer(obj), nil
}
