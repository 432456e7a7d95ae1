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

import "testing"

func TestClassRegistryFieldLookup(t *testing.T) {
	reg := NewClassRegistry()
	decl := &ClassDecl{
		Name: "Point",
		Fields: []FieldDecl{
			{Name: "x", Type: TypeFloat64},
			{Name: "y", Type: TypeFloat64},
		},
	}
	ci, err := reg.Register(decl)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	idx, ok := ci.FieldIndex("y")
	if !ok || idx != 1 {
		t.Fatalf("FieldIndex(y) = %d/%v, want 1/true", idx, ok)
	}
	if _, ok := ci.FieldIndex("z"); ok {
		t.Fatal("FieldIndex(z) should not be found")
	}
	f, ok := ci.FieldByName("x")
	if !ok || f.Type != TypeFloat64 {
		t.Fatalf("FieldByName(x) = %+v/%v, want TypeFloat64/true", f, ok)
	}
}

func TestClassRegistryDuplicateNameFails(t *testing.T) {
	reg := NewClassRegistry()
	decl := &ClassDecl{Name: "Dup"}
	if _, err := reg.Register(decl); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := reg.Register(decl); err == nil {
		t.Fatal("second Register of the same class name should fail")
	}
}

func TestClassRegistrySynthesizesDefaultConstructor(t *testing.T) {
	// spec.md §8 boundary case: a class with no declared constructor gets
	// one synthesized that assigns each field its Default (or zero value).
	reg := NewClassRegistry()
	decl := &ClassDecl{
		Name: "P",
		Fields: []FieldDecl{
			{Name: "x", Type: TypeFloat64, Default: &NumberLit{Value: 3}},
			{Name: "label", Type: TypeString},
		},
	}
	ci, err := reg.Register(decl)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if ci.Constructor == nil {
		t.Fatal("expected a synthesized constructor")
	}
	if len(ci.Constructor.Body) != 2 {
		t.Fatalf("synthesized constructor body has %d stmts, want 2", len(ci.Constructor.Body))
	}
	assignX := ci.Constructor.Body[0].(*ExprStmt).X.(*PropertyAssignment)
	if assignX.Property != "x" {
		t.Fatalf("first assignment targets %q, want x", assignX.Property)
	}
	if n, ok := assignX.Value.(*NumberLit); !ok || n.Value != 3 {
		t.Fatalf("x should default to its declared value 3, got %v", assignX.Value)
	}
	assignLabel := ci.Constructor.Body[1].(*ExprStmt).X.(*PropertyAssignment)
	if _, ok := assignLabel.Value.(*StringLit); !ok {
		t.Fatalf("label with no Default should zero-init to a StringLit, got %T", assignLabel.Value)
	}
}

func TestClassRegistryExplicitConstructorNotOverridden(t *testing.T) {
	reg := NewClassRegistry()
	ctor := &ConstructorDecl{}
	decl := &ClassDecl{Name: "Q", Constructor: ctor}
	ci, err := reg.Register(decl)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if ci.Constructor != ctor {
		t.Fatal("explicit constructor should not be replaced by a synthesized one")
	}
}

func TestResolveOperatorExactSignatureBeatsAnyFallback(t *testing.T) {
	ci := &ClassInfo{Name: "Vec"}
	exact := &OperatorOverloadDecl{Op: "+", Params: []Param{{Name: "o", Type: TypeFloat64}}}
	fallback := &OperatorOverloadDecl{Op: "+", Params: []Param{{Name: "o", Type: TypeUnknown}}}
	ci.RegisterOperator(fallback)
	ci.RegisterOperator(exact)

	got := ci.ResolveOperator("+", []Type{TypeFloat64})
	if got != exact {
		t.Fatal("exact parameter-type match should win over the any-typed fallback")
	}
	got = ci.ResolveOperator("+", []Type{TypeString})
	if got != fallback {
		t.Fatal("a non-matching signature should fall back to the any-typed overload")
	}
}

func TestResolveOperatorNoMatchReturnsNil(t *testing.T) {
	ci := &ClassInfo{Name: "Vec"}
	if got := ci.ResolveOperator("+", []Type{TypeFloat64}); got != nil {
		t.Fatalf("expected nil with no registered operators, got %v", got)
	}
}

func TestZeroValueExprByType(t *testing.T) {
	cases := []struct {
		t    Type
		want any
	}{
		{TypeString, &StringLit{}},
		{TypeBool, &BoolLit{}},
		{TypeFloat64, &NumberLit{}},
		{TypeClassInstance, &NullLit{}},
	}
	for _, c := range cases {
		got := zeroValueExpr(c.t)
		switch c.want.(type) {
		case *StringLit:
			if _, ok := got.(*StringLit); !ok {
				t.Errorf("zeroValueExpr(%v) = %T, want *StringLit", c.t, got)
			}
		case *BoolLit:
			if _, ok := got.(*BoolLit); !ok {
				t.Errorf("zeroValueExpr(%v) = %T, want *BoolLit", c.t, got)
			}
		case *NumberLit:
			if _, ok := got.(*NumberLit); !ok {
				t.Errorf("zeroValueExpr(%v) = %T, want *NumberLit", c.t, got)
			}
		case *NullLit:
			if _, ok := got.(*NullLit); !ok {
				t.Errorf("zeroValueExpr(%v) = %T, want *NullLit", c.t, got)
			}
		}
	}
}
