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

// Backend selects the code generator a Compiler targets. Only BackendX86
// is implemented; BackendWasm is kept as a visible, documented selector
// per SPEC_FULL §4 item 1 — the original C++ source draws this boundary
// with a CodeGenerator interface and a WasmCodeGen stub, and this module
// preserves that seam without building the second backend (out of scope,
// spec.md §1).
type Backend int

const (
	BackendX86 Backend = iota
	BackendWasm
)

// Compiler is the top-level object one CompileAndRun invocation
// constructs: the compilation unit's shared tables (function manager,
// class registry, linker), threaded explicitly through code generation.
// CurrentCompiler() can also return it inside WithCompiler, though no
// code generator calls it (spec.md §9).
type Compiler struct {
	Backend Backend
	Funcs   *FunctionCompilationManager
	Classes *ClassRegistry
	Linker  *Linker

	literalIDs map[string]uint32
}

// NewCompiler builds a compiler over a runtime ABI symbol table (see
// runtime.ABITable()).
func NewCompiler(backend Backend, abi map[string]any) (*Compiler, error) {
	linker, err := NewLinker(abi)
	if err != nil {
		return nil, err
	}
	return &Compiler{
		Backend:    backend,
		Funcs:      NewFunctionCompilationManager(),
		Classes:    NewClassRegistry(),
		Linker:     linker,
		literalIDs: make(map[string]uint32),
	}, nil
}

// InternLiteral registers a source-text literal (string/regex-pattern/
// class-name/property-name byte sequence — spec.md §3's "interned string
// literals... addressed by absolute pointer from emitted code") in the
// runtime's literal pool via the "__intern_literal" compile-time hook,
// and returns the stable small integer ID the runtime assigned. Equal
// byte sequences seen more than once in one compilation unit share an ID
// (spec.md §8's `intern(s) == intern(s)` round-trip), checked here first
// before ever calling into the hook.
func (c *Compiler) InternLiteral(s string) uint32 {
	if id, ok := c.literalIDs[s]; ok {
		return id
	}
	hook, ok := c.Linker.Hook("__intern_literal")
	if !ok {
		fail(KindLink, 0, 0, "runtime ABI table is missing the __intern_literal hook")
	}
	fn, ok := hook.(func(string) uint64)
	if !ok {
		fail(KindLink, 0, 0, "__intern_literal hook has the wrong signature")
	}
	id := uint32(fn(s))
	c.literalIDs[s] = id
	return id
}

// CompileAndRun is the single externally-safe entry point: lex+parse,
// register classes, discover/compile/bind every function, install the
// code page, and invoke __main. Every internal phase panics on failure
// (*CompileError, *LexError, *ParseError); this function is the
// outermost recover, matching the teacher's jitCompileExprBody shape
// (spec.md §7).
func CompileAndRun(source string, backend Backend, abi map[string]any) (exitCode int64, err error) {
	defer recoverCompile(&err)

	if backend != BackendX86 {
		return 0, ErrBackendUnsupported
	}

	stmts := Parse(source)

	c, cerr := NewCompiler(backend, abi)
	if cerr != nil {
		fail(KindLink, 0, 0, "%s", cerr.Error())
	}

	var classDecls []*ClassDecl
	var topLevel []Stmt
	for _, s := range stmts {
		if cd, ok := s.(*ClassDecl); ok {
			if _, rerr := c.Classes.Register(cd); rerr != nil {
				fail(KindType, 0, 0, "%s", rerr.Error())
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

	// register_class_inheritance is static for the whole compilation
	// unit, so it is announced once here through the compile-time hook
	// rather than emitted as a runtime call from generated code.
	if hook, ok := c.Linker.Hook("__register_class_inheritance_decl"); ok {
		if fn, ok := hook.(func(child, parent string)); ok {
			for _, cd := range classDecls {
				if cd.HasParent {
					fn(cd.Name, cd.Parent)
				}
			}
		}
	}

	em := NewX86Emitter(c.Linker)

	var entryOffset int
	WithCompiler(c, func() {
		entryOffset = c.compileEntry(em, topLevel, classDecls)
	})

	code := em.Finalize()

	unit, lerr := Install(code, entryOffset)
	if lerr != nil {
		return 0, lerr
	}

	// Phase 3 (spec.md §4.5): bind every FunctionInfo's final address now
	// that the code page has a fixed base, then publish the ID->address
	// table the lookup_function_by_id ABI helper reads for late-bound
	// function references (shape iii of §4.4's three-tier fallback).
	if err := c.Funcs.BindAddresses(unit.Base); err != nil {
		fail(KindCompilationManager, 0, 0, "%s", err.Error())
	}
	if hook, ok := c.Linker.Hook("__register_function_id"); ok {
		if fn, ok := hook.(func(id uint16, addr uint64)); ok {
			for _, fi := range c.Funcs.DiscoveryOrder() {
				fn(fi.ID, fi.Address)
			}
		}
	}

	WithCompiler(c, func() {
		exitCode = unit.Run()
	})
	return exitCode, nil
}
