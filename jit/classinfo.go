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

import "fmt"

// ClassInfo is the registration record from spec.md §3: name, parent,
// ordered field list (property access lowers to an index against this
// order), method map, and optional constructor. No instance size is
// stored; code generation uses len(Fields) as the field count.
type ClassInfo struct {
	Name        string
	Parent      string
	HasParent   bool
	Fields      []FieldDecl
	Methods     map[string]*MethodDecl
	Constructor *ConstructorDecl
	// Operators is keyed by (operator token, parameter-type signature) —
	// spec.md §4.6's overload-signature dispatch.
	Operators map[operatorKey]*OperatorOverloadDecl
}

type operatorKey struct {
	Op  string
	Sig string // joined parameter type names
}

func signatureOf(params []Param) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ","
		}
		s += p.Type.String()
	}
	return s
}

// FieldByName returns the field with the given name and whether it was
// found; FieldIndex gives its declaration-order index.
func (ci *ClassInfo) FieldByName(name string) (FieldDecl, bool) {
	for _, f := range ci.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDecl{}, false
}

func (ci *ClassInfo) FieldIndex(name string) (int, bool) {
	for i, f := range ci.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// RegisterOperator adds an overload keyed on (op, param-type signature),
// per spec.md §4.2's "operator-overload declarations keyed by a token and
// a parameter-type signature".
func (ci *ClassInfo) RegisterOperator(decl *OperatorOverloadDecl) {
	if ci.Operators == nil {
		ci.Operators = make(map[operatorKey]*OperatorOverloadDecl)
	}
	ci.Operators[operatorKey{Op: decl.Op, Sig: signatureOf(decl.Params)}] = decl
}

// ResolveOperator implements spec.md §4.6's dispatch order: exact
// parameter-type match first, then an `any`-typed ("unknown") overload if
// present, then nil (caller falls back to a name-mangled default).
func (ci *ClassInfo) ResolveOperator(op string, argTypes []Type) *OperatorOverloadDecl {
	if ci.Operators == nil {
		return nil
	}
	sig := ""
	for i, t := range argTypes {
		if i > 0 {
			sig += ","
		}
		sig += t.String()
	}
	if d, ok := ci.Operators[operatorKey{Op: op, Sig: sig}]; ok {
		return d
	}
	anySig := ""
	for i := range argTypes {
		if i > 0 {
			anySig += ","
		}
		anySig += TypeUnknown.String()
	}
	if d, ok := ci.Operators[operatorKey{Op: op, Sig: anySig}]; ok {
		return d
	}
	return nil
}

// ClassRegistry accumulates ClassInfo records as class declarations are
// encountered. Classes with no explicit constructor get a synthesized
// default one that evaluates each field's default-value expression in
// declaration order, or zero-initializes fields with none — spec.md §8
// boundary case 4, and SPEC_FULL §4 item 6.
type ClassRegistry struct {
	classes map[string]*ClassInfo
}

func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]*ClassInfo)}
}

func (r *ClassRegistry) Get(name string) (*ClassInfo, bool) {
	ci, ok := r.classes[name]
	return ci, ok
}

func (r *ClassRegistry) All() map[string]*ClassInfo { return r.classes }

// Register converts a ClassDecl into a ClassInfo, synthesizing a default
// constructor when the declaration supplied none.
func (r *ClassRegistry) Register(decl *ClassDecl) (*ClassInfo, error) {
	if _, exists := r.classes[decl.Name]; exists {
		return nil, fmt.Errorf("class %q already declared", decl.Name)
	}
	ci := &ClassInfo{
		Name:      decl.Name,
		Parent:    decl.Parent,
		HasParent: decl.HasParent,
		Fields:    decl.Fields,
		Methods:   make(map[string]*MethodDecl),
	}
	for _, m := range decl.Methods {
		ci.Methods[m.Name] = m
	}
	for _, op := range decl.Operators {
		ci.RegisterOperator(op)
	}
	if decl.Constructor != nil {
		ci.Constructor = decl.Constructor
	} else {
		ci.Constructor = synthesizeDefaultConstructor(ci)
	}
	r.classes[decl.Name] = ci
	return ci, nil
}

// synthesizeDefaultConstructor builds a zero-argument constructor body
// that assigns every declared field its Default expression (evaluated in
// declaration order) or leaves it at its type's zero value.
func synthesizeDefaultConstructor(ci *ClassInfo) *ConstructorDecl {
	var body []Stmt
	for _, f := range ci.Fields {
		if f.IsStatic {
			continue
		}
		var value Expr
		if f.Default != nil {
			value = f.Default
		} else {
			value = zeroValueExpr(f.Type)
		}
		body = append(body, &ExprStmt{X: &PropertyAssignment{IsThis: true, Property: f.Name, Value: value}})
	}
	return &ConstructorDecl{Body: body}
}

func zeroValueExpr(t Type) Expr {
	switch {
	case t == TypeString:
		return &StringLit{Value: ""}
	case t == TypeBool:
		return &BoolLit{Value: false}
	case t.IsNumeric():
		return &NumberLit{Value: 0}
	default:
		return &NullLit{}
	}
}
