// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package codegen lowers an ast.Program into a single flat []inst.Inst, per
// spec.md §4.3: each lambda body is emitted as a contiguous block appended
// after the main stream, preceded by its entry Label.
//
// Grounded on the teacher's lang/codegen.Generator (labels map[string]int,
// patches []patchEntry, two-pass emit-then-patch), adapted from
// byte-encoded register-VM opcodes to a flat slice of inst.Inst values with
// Label objects resolved to stable slice indices by inst.ResolveLabels.
package codegen

import (
	"fmt"

	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/inst"
	"github.com/nojima/nscheme/internal/value"
)

type pendingLambda struct {
	label *inst.Label
	lam   *ast.Lambda
}

// Generator accumulates the main stream plus a FIFO queue of lambda bodies
// still to be emitted after it.
type Generator struct {
	code    []inst.Inst
	pending []pendingLambda
	nextID  int
}

// New returns a fresh Generator.
func New() *Generator {
	return &Generator{}
}

// Generate lowers prog and returns the fully assembled, label-resolved
// instruction vector.
func Generate(prog *ast.Program) []inst.Inst {
	g := New()

	// The top-level body is itself a pseudo-lambda body: its locals live in
	// a frame the VM allocates at program start (see internal/vm). No
	// LoadClosure is needed here since there is no enclosing call site —
	// codegen only emits the body.
	g.emitBody(prog.Body)
	g.code = append(g.code, &inst.Quit{})

	g.drainPending()

	inst.ResolveLabels(g.code)
	return g.code
}

// emitBody emits a lambda/program body: every expression but the last is
// followed by Discard; the last expression's value is left on the stack
// (spec.md §4.3's Lambda lowering rule, reused verbatim for the top level).
func (g *Generator) emitBody(body []ast.Node) {
	for i, expr := range body {
		g.emitExpr(expr)
		if i != len(body)-1 {
			g.code = append(g.code, &inst.Discard{})
		}
	}
	if len(body) == 0 {
		g.code = append(g.code, &inst.LoadLiteral{Value: value.Undefined})
	}
}

func (g *Generator) emitExpr(n ast.Node) {
	switch e := n.(type) {
	case *ast.Literal:
		g.code = append(g.code, &inst.LoadLiteral{Value: e.Value})

	case *ast.NamedVarRef:
		g.code = append(g.code, &inst.LoadNamed{Name: e.Name})

	case *ast.LocalVarRef:
		g.code = append(g.code, &inst.LoadLocal{Depth: e.Depth, Slot: e.Slot})

	case *ast.If:
		g.emitIf(e)

	case *ast.Call:
		g.emitCall(e)

	case *ast.Lambda:
		g.emitLambda(e)

	case *ast.NamedAssign:
		g.emitExpr(e.Expr)
		g.code = append(g.code, &inst.StoreNamed{Name: e.Name})

	case *ast.LocalAssign:
		g.emitExpr(e.Expr)
		g.code = append(g.code, &inst.StoreLocal{Depth: e.Depth, Slot: e.Slot})

	case *ast.Define:
		g.emitExpr(e.Expr)
		g.code = append(g.code, &inst.StoreLocal{Depth: 0, Slot: e.Slot})

	default:
		panic("codegen: unknown ast node")
	}
}

// emitIf follows spec.md §4.3 literally:
// ⟦c⟧; JumpIf then; ⟦e⟧; Jump end; then: ⟦t⟧; end:
func (g *Generator) emitIf(e *ast.If) {
	then := g.newLabel("if_then")
	end := g.newLabel("if_end")

	g.emitExpr(e.Cond)
	g.code = append(g.code, &inst.JumpIf{Target: then})
	g.emitExpr(e.Else)
	g.code = append(g.code, &inst.Jump{Target: end})
	g.code = append(g.code, then)
	g.emitExpr(e.Then)
	g.code = append(g.code, end)
}

// emitCall evaluates arguments left-to-right, then the callee, then Apply(n)
// (spec.md §4.3/§5's evaluation-order contract).
func (g *Generator) emitCall(e *ast.Call) {
	for _, a := range e.Args {
		g.emitExpr(a)
	}
	g.emitExpr(e.Callee)
	g.code = append(g.code, &inst.Apply{N: len(e.Args)})
}

func (g *Generator) emitLambda(e *ast.Lambda) {
	label := g.newLabel("lambda")
	g.code = append(g.code, &inst.LoadClosure{
		Label:     label,
		ArgCount:  len(e.Args),
		FrameSize: e.FrameSize,
		Variadic:  e.Variadic,
	})
	g.pending = append(g.pending, pendingLambda{label: label, lam: e})
}

// drainPending emits each queued lambda body as "Label: ⟦body⟧; Return",
// appended after the main stream. Processing the queue FIFO means a nested
// lambda discovered while emitting one body is appended after all bodies
// queued before it — still after the entire main stream, satisfying
// spec.md's "appended after the main stream" requirement even though sibling
// sub-blocks need not be contiguous with each other.
func (g *Generator) drainPending() {
	for len(g.pending) > 0 {
		p := g.pending[0]
		g.pending = g.pending[1:]

		g.code = append(g.code, p.label)
		g.emitBody(p.lam.Body)
		g.code = append(g.code, &inst.Return{})
	}
}

func (g *Generator) newLabel(name string) *inst.Label {
	g.nextID++
	return &inst.Label{Name: fmt.Sprintf("%s_%d", name, g.nextID)}
}
