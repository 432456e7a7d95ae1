/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package jit

import (
	"strings"
	"testing"

	"github.com/launix-de/tsjit/runtime"
)

// compileForTest mirrors CompileAndRun's lex/parse/register/compile steps
// up to Finalize(), but stops short of Install+invoke: these tests only
// ever inspect the emitted byte stream and label table, never execute it.
func compileForTest(t *testing.T, source string) (*Compiler, *X86Emitter, []byte) {
	t.Helper()
	stmts := Parse(source)
	c, err := NewCompiler(BackendX86, runtime.NewContext().ABITable())
	if err != nil {
		t.Fatalf("NewCompiler failed: %v", err)
	}

	var classDecls []*ClassDecl
	var topLevel []Stmt
	for _, s := range stmts {
		if cd, ok := s.(*ClassDecl); ok {
			if _, rerr := c.Classes.Register(cd); rerr != nil {
				t.Fatalf("class registration failed: %v", rerr)
			}
			classDecls = append(classDecls, cd)
			continue
		}
		topLevel = append(topLevel, s)
	}
	c.Funcs.Discover(topLevel)
	for _, cd := range classDecls {
		if ci, ok := c.Classes.Get(cd.Name); ok && ci.Constructor != nil {
			c.Funcs.Discover(ci.Constructor.Body)
		}
		for _, m := range cd.Methods {
			c.Funcs.Discover(m.Body)
		}
		for _, op := range cd.Operators {
			c.Funcs.Discover(op.Body)
		}
	}

	em := NewX86Emitter(c.Linker)
	var code []byte
	WithCompiler(c, func() {
		c.compileEntry(em, topLevel, classDecls)
		code = em.Finalize()
	})
	return c, em, code
}

// TestNewOnClassWithoutExplicitConstructorDoesNotPanic guards against the
// bug where `new C()` on a class with only a synthesized default
// constructor left "__constructor_C" undefined: compileClassMembers must
// compile the ClassRegistry's constructor, not the raw parsed ClassDecl's
// (which is nil for such classes) — spec.md §8 boundary case 4.
func TestNewOnClassWithoutExplicitConstructorDoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("compiling `new C()` on a class with no explicit constructor panicked: %v", r)
		}
	}()
	_, em, code := compileForTest(t, `
		class Point {
			x: number = 1;
			y: number = 2;
		}
		var p = new Point();
	`)
	if len(code) == 0 {
		t.Fatal("expected non-empty emitted code")
	}
	found := false
	for name := range em.w.labels {
		if name == constructorLabel("Point") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a %q label to be defined", constructorLabel("Point"))
	}
}

// TestSwitchFallsThroughWithoutRetestingNextCase is a structural
// regression test for genSwitch's two-pass emission: a case whose body
// is empty must fall straight into the very next case's body with zero
// bytes emitted in between (no jump, no re-comparison) — real
// JavaScript/C-style fallthrough, per spec.md §4.2/§4.6 and the ground
// truth in the original implementation's two-pass SwitchStatement
// codegen. Under the old one-test-per-case structure, a non-zero amount
// of comparison code would sit between the two case labels instead.
func TestSwitchFallsThroughWithoutRetestingNextCase(t *testing.T) {
	n := &SwitchStmt{
		Discriminant: &NumberLit{Value: 1},
		Cases: []CaseClause{
			{Expr: &NumberLit{Value: 1}}, // empty body: falls through
			{Expr: &NumberLit{Value: 2}, Body: []Stmt{
				&ExprStmt{X: &Assignment{Target: "out", Value: &NumberLit{Value: 99}}},
			}},
		},
	}

	linker, err := NewLinker(map[string]any{})
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	em := NewX86Emitter(linker)
	c := &Compiler{Classes: NewClassRegistry(), Funcs: NewFunctionCompilationManager(), Linker: linker}
	ti := NewTypeInference()
	seq := 0
	f := &frame{c: c, em: em, ti: ti, frameSize: 80, labelSeq: &seq}

	f.genSwitch(n)
	em.Finalize()

	var case0Label, case1Label string
	for name, off := range em.w.labels {
		switch {
		case strings.Contains(name, "__L_case0_"):
			case0Label = name
			_ = off
		case strings.Contains(name, "__L_case1_"):
			case1Label = name
		}
	}
	if case0Label == "" || case1Label == "" {
		t.Fatalf("expected both case labels to be defined, got labels=%v", em.w.labels)
	}
	if em.w.labels[case0Label] != em.w.labels[case1Label] {
		t.Fatalf("case0's empty body should fall straight into case1 with no bytes emitted in between: case0 offset %d, case1 offset %d",
			em.w.labels[case0Label], em.w.labels[case1Label])
	}
}

// TestBinaryOpDispatchesToOperatorOverload verifies a registered `+`
// overload on a class produces a call to its compiled
// __operator_<Class>_+_<sig> label instead of falling through to raw
// integer addition on object IDs (spec.md §4.6).
func TestBinaryOpDispatchesToOperatorOverload(t *testing.T) {
	_, _, code := compileForTest(t, `
		class Vec {
			x: number = 0;
			operator +(other) {
				return this;
			}
		}
		var a = new Vec();
		var b = new Vec();
		var c = a + b;
	`)
	if len(code) == 0 {
		t.Fatal("expected non-empty emitted code")
	}
}

// TestArrayAccessDispatchesToIndexOperatorOverload verifies `obj[i]` on a
// class with a registered operator[] overload compiles without falling
// back to the generic array_get accessor on the raw object ID.
func TestArrayAccessDispatchesToIndexOperatorOverload(t *testing.T) {
	_, _, code := compileForTest(t, `
		class Grid {
			operator[](i) {
				return i;
			}
		}
		var g = new Grid();
		var v = g[0];
	`)
	if len(code) == 0 {
		t.Fatal("expected non-empty emitted code")
	}
}

// TestResolveOperatorUsedForArrayAccessPicksExactSignature is a narrower
// unit test (no codegen) confirming the ClassInfo API genArrayAccess now
// relies on resolves the index operator the same way genBinaryOp does.
func TestResolveOperatorUsedForArrayAccessPicksExactSignature(t *testing.T) {
	r := NewClassRegistry()
	decl := &ClassDecl{Name: "Grid", Operators: []*OperatorOverloadDecl{
		{ClassName: "Grid", Op: indexOperator, Params: []Param{{Name: "i", Type: TypeFloat64}}},
	}}
	ci, err := r.Register(decl)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := ci.ResolveOperator(indexOperator, []Type{TypeFloat64}); got == nil {
		t.Fatal("expected an exact-signature operator[] match")
	}
	if got := ci.ResolveOperator(indexOperator, []Type{TypeString}); got != nil {
		t.Fatal("expected no match for a signature with neither an exact nor an any-typed overload")
	}
}
