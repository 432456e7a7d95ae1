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
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// funcState is the per-FunctionInfo state machine of spec.md §4.6:
// discovered -> compiled -> address-bound.
type funcState int

const (
	stateDiscovered funcState = iota
	stateCompiled
	stateAddressBound
)

// FunctionInfo is the compilation record from spec.md §3. Node holds the
// function-expression AST directly (the arena-index redesign spec.md §9
// recommends is realized here simply by the fact that FunctionInfo is
// the only thing that outlives Phase 1 holding a reference to it — no
// separate raw-pointer registry exists, so "(arena_id, index)" collapses
// to "the FunctionInfo itself").
type FunctionInfo struct {
	Name       string
	Node       *FunctionExpr // set for function-expression bindings
	Decl       *FunctionDecl // set for top-level named function declarations
	ID         uint16
	CodeOffset int
	CodeSize   int
	Address    uint64
	state      funcState
}

func (fi *FunctionInfo) IsCompiled() bool     { return fi.state >= stateCompiled }
func (fi *FunctionInfo) IsAddressBound() bool { return fi.state >= stateAddressBound }

// Params and Body read through whichever of Node/Decl is populated, so
// the code generator can treat both kinds of callable uniformly.
func (fi *FunctionInfo) Params() []Param {
	if fi.Node != nil {
		return fi.Node.Params
	}
	return fi.Decl.Params
}

func (fi *FunctionInfo) Body() []Stmt {
	if fi.Node != nil {
		return fi.Node.Body
	}
	return fi.Decl.Body
}

// FunctionCompilationManager discovers nested function expressions,
// assigns stable names and IDs, compiles them innermost-first, and
// resolves their addresses — spec.md §4.5, "the heart of the core".
type FunctionCompilationManager struct {
	byName     map[string]*FunctionInfo
	byID       map[uint16]*FunctionInfo
	order      []*FunctionInfo // discovery order
	nextID     uint16
	anonCount  int
	nameCounts map[string]int
}

func NewFunctionCompilationManager() *FunctionCompilationManager {
	return &FunctionCompilationManager{
		byName:     make(map[string]*FunctionInfo),
		byID:       make(map[uint16]*FunctionInfo),
		nameCounts: make(map[string]int),
	}
}

func (m *FunctionCompilationManager) ByName(name string) (*FunctionInfo, bool) {
	fi, ok := m.byName[name]
	return fi, ok
}

func (m *FunctionCompilationManager) ByID(id uint16) (*FunctionInfo, bool) {
	fi, ok := m.byID[id]
	return fi, ok
}

// DiscoveryOrder returns functions in the order Phase 1 found them.
func (m *FunctionCompilationManager) DiscoveryOrder() []*FunctionInfo { return m.order }

// CompileOrder returns functions in the reverse-discovery ("innermost
// first") order Phase 2 compiles them in — spec.md §4.5.
func (m *FunctionCompilationManager) CompileOrder() []*FunctionInfo {
	out := make([]*FunctionInfo, len(m.order))
	for i, fi := range m.order {
		out[len(m.order)-1-i] = fi
	}
	return out
}

// ---- Phase 1: Discovery ----

// Discover walks every top-level statement in pre-order, registering a
// FunctionInfo for each FunctionExpr encountered (including ones nested
// inside goroutine-spawn arguments, member-call arguments, returns,
// binary operators, assignments, if-bodies — spec.md §4.5's explicit
// list of places discovery must not miss).
func (m *FunctionCompilationManager) Discover(stmts []Stmt) {
	for _, s := range stmts {
		m.discoverStmt(s)
	}
}

func (m *FunctionCompilationManager) discoverStmt(s Stmt) {
	switch n := s.(type) {
	case *FunctionDecl:
		m.registerDecl(n)
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *ConstructorDecl:
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *MethodDecl:
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *OperatorOverloadDecl:
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *ClassDecl:
		if n.Constructor != nil {
			m.discoverStmt(n.Constructor)
		}
		for _, meth := range n.Methods {
			m.discoverStmt(meth)
		}
		for _, op := range n.Operators {
			m.discoverStmt(op)
		}
		for _, f := range n.Fields {
			if f.Default != nil {
				m.discoverExpr(f.Default)
			}
		}
	case *IfStmt:
		m.discoverExpr(n.Cond)
		for _, st := range n.Then {
			m.discoverStmt(st)
		}
		for _, st := range n.Else {
			m.discoverStmt(st)
		}
	case *BlockStmt:
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *ForStmt:
		if n.Init != nil {
			m.discoverStmt(n.Init)
		}
		if n.Cond != nil {
			m.discoverExpr(n.Cond)
		}
		if n.Update != nil {
			m.discoverStmt(n.Update)
		}
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *ForEachStmt:
		m.discoverExpr(n.Iterable)
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *SwitchStmt:
		m.discoverExpr(n.Discriminant)
		for _, c := range n.Cases {
			if c.Expr != nil {
				m.discoverExpr(c.Expr)
			}
			for _, st := range c.Body {
				m.discoverStmt(st)
			}
		}
	case *ReturnStmt:
		if n.HasValue {
			m.discoverExpr(n.Value)
		}
	case *ExprStmt:
		m.discoverExpr(n.X)
	}
}

func (m *FunctionCompilationManager) discoverExpr(e Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *FunctionExpr:
		m.register(n)
		for _, st := range n.Body {
			m.discoverStmt(st)
		}
	case *BinaryOp:
		if n.Left != nil {
			m.discoverExpr(n.Left)
		}
		m.discoverExpr(n.Right)
	case *Ternary:
		m.discoverExpr(n.Cond)
		m.discoverExpr(n.Then)
		m.discoverExpr(n.Else)
	case *FunctionCall:
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
	case *MethodCall:
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
	case *ExprMethodCall:
		m.discoverExpr(n.Object)
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
	case *ExprPropertyAccess:
		m.discoverExpr(n.Object)
	case *ArrayLit:
		for _, el := range n.Elements {
			m.discoverExpr(el)
		}
	case *ObjectLit:
		for _, kv := range n.Entries {
			m.discoverExpr(kv.Value)
		}
	case *TypedArrayLit:
		for _, el := range n.Elements {
			m.discoverExpr(el)
		}
	case *ArrayAccess:
		m.discoverExpr(n.Object)
		if n.IsSlice {
			if n.Slice.StartSpecified {
				m.discoverExpr(n.Slice.Start)
			}
			if n.Slice.EndSpecified {
				m.discoverExpr(n.Slice.End)
			}
			if n.Slice.StepSpecified {
				m.discoverExpr(n.Slice.Step)
			}
		} else {
			m.discoverExpr(n.Index)
		}
	case *Assignment:
		m.discoverExpr(n.Value)
	case *PropertyAssignment:
		if n.Object != nil {
			m.discoverExpr(n.Object)
		}
		m.discoverExpr(n.Value)
	case *NewExpr:
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
		for _, a := range n.NamedArgs {
			m.discoverExpr(a.Value)
		}
	case *SuperCall:
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
	case *SuperMethodCall:
		for _, a := range n.Args {
			m.discoverExpr(a)
		}
	}
}

// register synthesizes the function's compilation name exactly once
// (spec.md §3 invariant), assigns it a stable 16-bit ID from the shared
// atomic-equivalent counter (single-threaded during compilation, so a
// plain field suffices), and writes the name back into the AST node.
func (m *FunctionCompilationManager) register(fe *FunctionExpr) *FunctionInfo {
	name := fe.Name
	if name == "" {
		name = fmt.Sprintf("__func_expr_%d", m.anonCount)
		m.anonCount++
	}
	if m.nameCounts[name] > 0 {
		name = fmt.Sprintf("%s_%d", name, m.nameCounts[name])
	}
	m.nameCounts[fe.Name]++

	fe.Name = name
	fe.AssignedID = m.nextID

	fi := &FunctionInfo{Name: name, Node: fe, ID: m.nextID, state: stateDiscovered}
	m.byName[name] = fi
	m.byID[m.nextID] = fi
	m.order = append(m.order, fi)
	m.nextID++
	return fi
}

// registerDecl registers a top-level named function declaration under
// its own declared name (never synthesized, unlike a FunctionExpr) so
// that ordinary calls `foo(args)` resolve to it by that exact label.
func (m *FunctionCompilationManager) registerDecl(fd *FunctionDecl) *FunctionInfo {
	name := fd.Name
	if m.nameCounts[name] > 0 {
		name = fmt.Sprintf("%s_%d", name, m.nameCounts[name])
	}
	m.nameCounts[fd.Name]++

	fi := &FunctionInfo{Name: name, Decl: fd, ID: m.nextID, state: stateDiscovered}
	m.byName[name] = fi
	m.byID[m.nextID] = fi
	m.order = append(m.order, fi)
	m.nextID++
	return fi
}

// ---- Phase 2: Compilation ----

// CompileFn compiles one function body. Reverse-discovery-order iteration
// (innermost first) is the caller's responsibility — see CompileOrder —
// so that when an outer function's generator needs to take the address
// of an inner function, the inner FunctionInfo is already `compiled` and
// has a known code offset (spec.md §4.5's direct-address fast path).
func (m *FunctionCompilationManager) CompileFn(fi *FunctionInfo, gen func(fi *FunctionInfo) (offset, size int)) {
	offset, size := gen(fi)
	fi.CodeOffset = offset
	fi.CodeSize = size
	fi.state = stateCompiled
}

// ---- Phase 3: Address binding ----

// BindAddresses computes every FunctionInfo's final address as
// base+code_offset and writes it into the ID-indexed registry — spec.md
// §4.5 Phase 3. Returns an error (a Compilation-manager error, spec.md §7)
// if any function reached this phase without being compiled.
func (m *FunctionCompilationManager) BindAddresses(base uint64) error {
	for _, name := range sortedKeys(m.byName) {
		fi := m.byName[name]
		if !fi.IsCompiled() {
			return fmt.Errorf("function %q reached Phase 3 without being compiled", fi.Name)
		}
		fi.Address = base + uint64(fi.CodeOffset)
		fi.state = stateAddressBound
	}
	return nil
}

func sortedKeys(m map[string]*FunctionInfo) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
