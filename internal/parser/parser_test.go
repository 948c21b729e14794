// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package parser

import (
	"testing"

	"github.com/nojima/nscheme/internal/ast"
	"github.com/nojima/nscheme/internal/heap"
	"github.com/nojima/nscheme/internal/nslog"
	"github.com/nojima/nscheme/internal/reader"
	"github.com/nojima/nscheme/internal/scanner"
	"github.com/nojima/nscheme/internal/symbol"
	"github.com/nojima/nscheme/internal/value"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	h := heap.New(nslog.Discard())
	sc := scanner.New("<test>", []byte(src))
	rd, err := reader.New(sc, h)
	if err != nil {
		t.Fatalf("reader.New: %v", err)
	}
	data, err := rd.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	prog, err := New(rd.SourceMap).ParseProgram(data)
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", src, err)
	}
	return prog
}

func parseProgramErr(t *testing.T, src string) error {
	t.Helper()
	h := heap.New(nslog.Discard())
	sc := scanner.New("<test>", []byte(src))
	rd, err := reader.New(sc, h)
	if err != nil {
		t.Fatalf("reader.New: %v", err)
	}
	data, err := rd.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	_, err = New(rd.SourceMap).ParseProgram(data)
	return err
}

func TestParseLiteral(t *testing.T) {
	prog := parseProgram(t, "42")
	if len(prog.Body) != 1 {
		t.Fatalf("got %d body nodes, want 1", len(prog.Body))
	}
	lit, ok := prog.Body[0].(*ast.Literal)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Literal", prog.Body[0])
	}
	if lit.Value.AsInteger() != 42 {
		t.Errorf("Literal.Value = %v, want 42", lit.Value)
	}
}

func TestParseUnboundNameIsNamedVarRef(t *testing.T) {
	prog := parseProgram(t, "foo")
	if _, ok := prog.Body[0].(*ast.NamedVarRef); !ok {
		t.Fatalf("body[0] = %T, want *ast.NamedVarRef", prog.Body[0])
	}
}

func TestParseLambdaBindsParamsAsLocalVarRef(t *testing.T) {
	prog := parseProgram(t, "(lambda (x) x)")
	lam, ok := prog.Body[0].(*ast.Lambda)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Lambda", prog.Body[0])
	}
	if len(lam.Body) != 1 {
		t.Fatalf("lambda body has %d nodes, want 1", len(lam.Body))
	}
	ref, ok := lam.Body[0].(*ast.LocalVarRef)
	if !ok {
		t.Fatalf("lambda body[0] = %T, want *ast.LocalVarRef", lam.Body[0])
	}
	if ref.Depth != 0 || ref.Slot != 0 {
		t.Errorf("got LocalVarRef{%d,%d}, want {0,0}", ref.Depth, ref.Slot)
	}
}

func TestParseVariadicLambda(t *testing.T) {
	prog := parseProgram(t, "(lambda args args)")
	lam := prog.Body[0].(*ast.Lambda)
	if !lam.Variadic {
		t.Error("expected Variadic = true for a symbol-only formals list")
	}
	if len(lam.Args) != 1 {
		t.Errorf("got %d formal(s), want 1 (the rest parameter)", len(lam.Args))
	}
}

func TestParseImproperFormalsIsFixedPlusRest(t *testing.T) {
	prog := parseProgram(t, "(lambda (a b . rest) a)")
	lam := prog.Body[0].(*ast.Lambda)
	if !lam.Variadic {
		t.Fatal("expected Variadic = true")
	}
	if len(lam.Args) != 3 {
		t.Fatalf("got %d formals, want 3 (a, b, rest)", len(lam.Args))
	}
}

func TestParseIfWithoutElseSynthesizesUndefinedLiteral(t *testing.T) {
	prog := parseProgram(t, "(if #t 1)")
	n, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.If", prog.Body[0])
	}
	lit, ok := n.Else.(*ast.Literal)
	if !ok {
		t.Fatalf("If.Else = %T, want *ast.Literal", n.Else)
	}
	if lit.Value != value.Undefined {
		t.Errorf("If.Else literal = %v, want Undefined", lit.Value)
	}
}

func TestParseSetOnLocalProducesLocalAssign(t *testing.T) {
	prog := parseProgram(t, "(lambda (x) (set! x 1))")
	lam := prog.Body[0].(*ast.Lambda)
	if _, ok := lam.Body[0].(*ast.LocalAssign); !ok {
		t.Fatalf("body[0] = %T, want *ast.LocalAssign", lam.Body[0])
	}
}

func TestParseSetOnGlobalProducesNamedAssign(t *testing.T) {
	prog := parseProgram(t, "(set! foo 1)")
	if _, ok := prog.Body[0].(*ast.NamedAssign); !ok {
		t.Fatalf("body[0] = %T, want *ast.NamedAssign", prog.Body[0])
	}
}

func TestParseDefineFunctionShorthandBuildsNestedLambda(t *testing.T) {
	prog := parseProgram(t, "(define (f x) x)")
	def, ok := prog.Body[0].(*ast.Define)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Define", prog.Body[0])
	}
	if _, ok := def.Expr.(*ast.Lambda); !ok {
		t.Fatalf("Define.Expr = %T, want *ast.Lambda", def.Expr)
	}
}

func TestTwoPhaseDefineAllowsForwardReference(t *testing.T) {
	// even-ref forward-references odd? which is defined afterward.
	src := `(define (even-ref n) (odd? n))
	        (define (odd? n) n)`
	prog := parseProgram(t, src)
	if len(prog.Body) != 2 {
		t.Fatalf("got %d top-level forms, want 2", len(prog.Body))
	}
	evenDef := prog.Body[0].(*ast.Define)
	lam := evenDef.Expr.(*ast.Lambda)
	call := lam.Body[0].(*ast.Call)
	if _, ok := call.Callee.(*ast.NamedVarRef); ok {
		t.Fatal("forward reference to a top-level define should resolve lexically, not fall through to NamedVarRef")
	}
}

func TestParseBeginDesugarsToIIFE(t *testing.T) {
	prog := parseProgram(t, "(begin 1 2 3)")
	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Call (begin desugars to an IIFE)", prog.Body[0])
	}
	if _, ok := call.Callee.(*ast.Lambda); !ok {
		t.Fatalf("Call.Callee = %T, want *ast.Lambda", call.Callee)
	}
}

func TestParseAndDesugarsToNestedIf(t *testing.T) {
	prog := parseProgram(t, "(and 1 2)")
	if _, ok := prog.Body[0].(*ast.If); !ok {
		t.Fatalf("body[0] = %T, want *ast.If", prog.Body[0])
	}
}

func TestParseOrDesugarsToSingleEvaluationForm(t *testing.T) {
	prog := parseProgram(t, "(or 1 2)")
	// or desugars to ((lambda (t) (if t t 2)) 1): a Call whose Callee is a
	// Lambda, guaranteeing the first operand is evaluated exactly once.
	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Call", prog.Body[0])
	}
	if _, ok := call.Callee.(*ast.Lambda); !ok {
		t.Fatalf("Call.Callee = %T, want *ast.Lambda", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("got %d args, want 1 (the once-evaluated first operand)", len(call.Args))
	}
}

func TestParseCondDesugarsToNestedIf(t *testing.T) {
	prog := parseProgram(t, "(cond (#f 1) (#t 2) (else 3))")
	if _, ok := prog.Body[0].(*ast.If); !ok {
		t.Fatalf("body[0] = %T, want *ast.If", prog.Body[0])
	}
}

func TestParseLetBindsFormsAsLambdaApplication(t *testing.T) {
	prog := parseProgram(t, "(let ((x 1) (y 2)) (+ x y))")
	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Call", prog.Body[0])
	}
	lam, ok := call.Callee.(*ast.Lambda)
	if !ok {
		t.Fatalf("Call.Callee = %T, want *ast.Lambda", call.Callee)
	}
	if len(lam.Args) != 2 {
		t.Errorf("got %d lambda params, want 2", len(lam.Args))
	}
	if len(call.Args) != 2 {
		t.Errorf("got %d call args, want 2", len(call.Args))
	}
}

func TestParseLetStarDesugarsToNestedLet(t *testing.T) {
	prog := parseProgram(t, "(let* ((x 1) (y x)) y)")
	call, ok := prog.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Call", prog.Body[0])
	}
	lam := call.Callee.(*ast.Lambda)
	if len(lam.Args) != 1 {
		t.Fatalf("got %d params in outer let, want 1 (let* nests one binding per level)", len(lam.Args))
	}
}

func TestParseQuoteReturnsLiteralDatum(t *testing.T) {
	prog := parseProgram(t, "'(1 2 3)")
	lit, ok := prog.Body[0].(*ast.Literal)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Literal", prog.Body[0])
	}
	if got, want := lit.Value.String(), "(1 2 3)"; got != want {
		t.Errorf("quoted literal = %q, want %q", got, want)
	}
}

func TestParseQuasiquoteWithUnquoteResolvesLexically(t *testing.T) {
	prog := parseProgram(t, "(lambda (x) `(a ,x))")
	lam := prog.Body[0].(*ast.Lambda)
	// The unquoted x must resolve to a LocalVarRef, not a NamedVarRef,
	// proving the lexical scope is threaded through quasiquote expansion.
	call := lam.Body[0].(*ast.Call) // (cons 'a (cons x '()))
	found := false
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.LocalVarRef:
			found = true
		case *ast.Call:
			walk(v.Callee)
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(call)
	if !found {
		t.Fatal("expected a LocalVarRef somewhere in the expanded quasiquote form")
	}
}

func TestParseQuasiquoteUnquoteSplicing(t *testing.T) {
	prog := parseProgram(t, "(lambda (xs) `(a ,@xs))")
	lam := prog.Body[0].(*ast.Lambda)
	call := lam.Body[0].(*ast.Call)
	ref, ok := call.Callee.(*ast.NamedVarRef)
	if !ok || symbol.Name(ref.Name) != "cons" {
		t.Fatalf("expected the outer call to be to cons, got %+v", call.Callee)
	}
	tail, ok := call.Args[1].(*ast.Call)
	if !ok {
		t.Fatalf("expected the cdr to be a call, got %+v", call.Args[1])
	}
	ref, ok = tail.Callee.(*ast.NamedVarRef)
	if !ok || symbol.Name(ref.Name) != "append" {
		t.Fatalf("expected the spliced cdr to be a call to append, got %+v", tail.Callee)
	}
}

func TestParseDefineMissingTargetIsParseError(t *testing.T) {
	if err := parseProgramErr(t, "(define)"); err == nil {
		t.Fatal("expected a ParseError for (define)")
	}
}

func TestParseEmptyCallIsParseError(t *testing.T) {
	if err := parseProgramErr(t, "()"); err == nil {
		t.Fatal("expected a ParseError for an empty call")
	}
}

func TestParseSetNonSymbolTargetIsParseError(t *testing.T) {
	if err := parseProgramErr(t, "(set! 1 2)"); err == nil {
		t.Fatal("expected a ParseError for (set! 1 2)")
	}
}
