// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package prelude supplies a small set of list procedures defined in
// nscheme itself rather than as VM-level natives (SPEC_FULL.md §4.6):
// map, filter, and fold-left. cmd/nscheme parses Source as the first part
// of every program's top-level body, ahead of the user's own forms, so
// these become ordinary top-level bindings resolved the same way any other
// forward-referenced top-level define is (internal/parser's two-phase
// define collection).
//
// Grounded on the teacher's stdlib/math package's small
// Map/Filter/Reduce-over-arrays style: the same three operations, recast
// here as recursive list procedures since spec.md's VM has no array-opcode
// layer for a Go-level implementation to target.
package prelude

// Source is parsed ahead of every user program. It must only use
// primitives spec.md/SPEC_FULL.md already define: cons, car, cdr, null?,
// pair?, eq?, lambda, if, define, cond, quote.
const Source = `
(define (map proc lst)
  (if (null? lst)
      '()
      (cons (proc (car lst)) (map proc (cdr lst)))))

(define (filter pred lst)
  (cond ((null? lst) '())
        ((pred (car lst)) (cons (car lst) (filter pred (cdr lst))))
        (else (filter pred (cdr lst)))))

(define (fold-left proc init lst)
  (if (null? lst)
      init
      (fold-left proc (proc init (car lst)) (cdr lst))))
`
