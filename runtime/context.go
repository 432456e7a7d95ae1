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

// Package runtime implements the fixed set of C-callable ABI helper
// symbols emitted machine code calls by absolute address (spec.md §6).
// Every registry the original scattered across package-level globals
// (string interning, object instances, static properties, function
// lookup tables, timers, goroutines) is folded into one Context value,
// exactly the single-value consolidation SPEC_FULL §9/design note
// recommends in place of the source's raw-pointer globals.
package runtime

import (
	"sync"

	"github.com/jtolds/gls"
)

// Context owns every runtime registry a compiled program touches. One
// Context is created per CompileAndRun invocation (cmd/tsjit creates
// exactly one and threads its ABITable into jit.CompileAndRun); nothing
// here is a package-level global, addressing the "Global mutable
// registries" design note directly.
type Context struct {
	strings     *stringPool
	classes     classPool
	props       propPool
	regex       *regexPool
	objects     *objectRegistry
	arrays       *arrayRegistry
	typedArrays  *typedArrayRegistry
	simpleArrays *simpleArrayRegistry
	funcs        *functionRegistry
	timers      *timerTable
	sched       *scheduler
	promises    *promiseTable
	goMgr       *gls.ContextManager

	consoleMu sync.Mutex // serializes interleaved console writes across goroutines
}

// NewContext builds a fresh, empty runtime for one compilation unit.
func NewContext() *Context {
	return &Context{
		strings:  newStringPool(),
		classes:  newClassPool(),
		props:    newPropPool(),
		regex:       newRegexPool(),
		objects:     newObjectRegistry(),
		arrays:       newArrayRegistry(),
		typedArrays:  newTypedArrayRegistry(),
		simpleArrays: newSimpleArrayRegistry(),
		funcs:        newFunctionRegistry(),
		timers:      newTimerTable(),
		sched:       newScheduler(),
		promises:    newPromiseTable(),
		goMgr:       gls.NewContextManager(),
	}
}

// ABITable assembles the name->func-value table jit.NewLinker consumes.
// Every symbol from spec.md §6's grouped table is present; names not
// consumed by the current code generator (e.g. destroy, char_at) are
// still wired so the ABI surface is complete and independently testable.
//
// Three entries are not machine-code call targets at all but plain Go
// hooks the jit package looks up by convention and invokes directly from
// Go (never emitted as `call`): "__register_function_id" lets
// FunctionCompilationManager.BindAddresses publish a function's final
// address into the ID-indexed lookup table lookup_function_by_id reads,
// "__register_class_inheritance_decl" lets the compiler announce parent/
// child relationships once per class declaration instead of emitting a
// runtime call for something that is static for the whole compilation
// unit, and "__intern_literal" registers literal text in the literal pool.
func (c *Context) ABITable() map[string]any {
	t := map[string]any{}
	c.registerConsole(t)
	c.registerStrings(t)
	c.registerArrays(t)
	c.registerTypedArrays(t)
	c.registerSimpleArrays(t)
	c.registerObjects(t)
	c.registerMath(t)
	c.registerRegex(t)
	c.registerPromises(t)
	c.registerTimers(t)
	c.registerGoroutines(t)
	c.registerFunctionRegistry(t)

	t["__register_function_id"] = c.RegisterFunctionID
	t["__register_class_inheritance_decl"] = c.RegisterClassInheritance
	t["__intern_literal"] = c.InternLiteral
	return t
}

// InternLiteral is the "__intern_literal" compile-time hook.
func (c *Context) InternLiteral(s string) uint64 { return c.strings.internLiteral(s) }
