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
package runtime

import (
	"sort"
	"sync"
	"unsafe"

	"golang.org/x/exp/maps"
)

// functionRegistry is spec.md §3's "two parallel maps": name->code
// pointer (for symbolic-name call sites) and ID->code pointer (for
// value-carrying function references). Phase 3 of FunctionCompilationManager
// (jit/funcmanager.go's BindAddresses) publishes into the ID side through
// the "__register_function_id" compile-time hook; nothing in this
// module registers the name side automatically today (direct-label calls
// cover named functions within one compilation unit, shape i of spec.md
// §4.4) — register_function/register_function_fast exist for completeness
// and for embedding driver code (cmd/tsjit) that wants to expose a
// host-defined builtin under a symbolic name callable from script code.
type functionRegistry struct {
	mu     sync.Mutex
	byName map[string]uint64
	byID   map[uint16]uint64
	nextID uint16
}

func newFunctionRegistry() *functionRegistry {
	return &functionRegistry{byName: make(map[string]uint64), byID: make(map[uint16]uint64)}
}

func (r *functionRegistry) byNameGet(name string) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, ok := r.byName[name]
	return addr, ok
}

func (r *functionRegistry) byIDGet(id uint16) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr, ok := r.byID[id]
	return addr, ok
}

// --- ABI surface: spec.md §6 "Function registry" ---

func (c *Context) registerFunctionRegistry(t map[string]any) {
	t["register_function"] = c.registerFunction
	t["register_function_fast"] = c.registerFunctionFast
	t["lookup_function_fast"] = c.lookupFunctionFast
	t["lookup_function_by_id"] = c.lookupFunctionByID
}

// registerFunction publishes a symbolic name -> address binding. name is
// a literal ID (consistent with every other name-bearing ABI call in
// this package); ptr is the already-resolved absolute address.
func (c *Context) registerFunction(nameLiteralID, ptr uint64) uint64 {
	name, _ := c.strings.literalText(nameLiteralID)
	c.funcs.mu.Lock()
	c.funcs.byName[name] = ptr
	c.funcs.mu.Unlock()
	return 1
}

// registerFunctionFast assigns and returns a fresh 16-bit ID for ptr —
// argc/cc (argument count / calling-convention tag) are accepted for ABI
// shape parity with spec.md §6 but are not consulted: every callable in
// this module already uses one fixed SysV-subset convention (spec.md
// §4.4), so there is nothing to branch on.
func (c *Context) registerFunctionFast(ptr, argc, cc uint64) uint64 {
	c.funcs.mu.Lock()
	defer c.funcs.mu.Unlock()
	id := c.funcs.nextID
	c.funcs.nextID++
	c.funcs.byID[id] = ptr
	return uint64(id)
}

func (c *Context) lookupFunctionFast(id uint64) uint64 {
	addr, _ := c.funcs.byIDGet(uint16(id))
	return addr
}

// lookupFunctionByID is the helper genFunctionCall calls for a call
// through a variable of function type (spec.md §4.6's "Calls to
// identifiers whose stored type is function go through a function-ID-
// to-address lookup helper"). A miss returns 0 (null): spec.md §7 treats
// that as a runtime error the caller observes as a null indirect jump
// target, not a link-time failure.
func (c *Context) lookupFunctionByID(id uint64) uint64 {
	addr, _ := c.funcs.byIDGet(uint16(id))
	return addr
}

// RegisterFunctionID is the "__register_function_id" compile-time hook
// Phase 3 (jit.FunctionCompilationManager.BindAddresses) calls once per
// discovered function right after the code page's base address is known.
func (c *Context) RegisterFunctionID(id uint16, addr uint64) {
	c.funcs.mu.Lock()
	defer c.funcs.mu.Unlock()
	c.funcs.byID[id] = addr
}

// sortedSymbolNames returns every live function-registry name, sorted,
// in the same shape as jit.Linker's SymbolNames. Nothing in this module
// calls it.
func (r *functionRegistry) sortedSymbolNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := maps.Keys(r.byName)
	sort.Strings(names)
	return names
}

// callTrampoline6 invokes the compiled function at addr with up to six
// uint64 arguments, using the identical func-value-shape trick
// jit.LoadedUnit.Run uses to turn a bare code pointer into a callable Go
// value — the code at addr follows the same fixed SysV-subset calling
// convention every compiled function in this module does (spec.md §4.4).
func callTrampoline6(addr, a1, a2, a3, a4, a5, a6 uint64) uint64 {
	if addr == 0 {
		return 0
	}
	entry := unsafe.Pointer(uintptr(addr))
	fnval := unsafe.Pointer(&struct{ code unsafe.Pointer }{entry})
	fn := *(*func(uint64, uint64, uint64, uint64, uint64, uint64) uint64)(unsafe.Pointer(&fnval))
	return fn(a1, a2, a3, a4, a5, a6)
}

// callTrampolineN invokes a compiled function with the arguments in args
// (padded with zeros up to six — this module's fixed calling
// convention always passes six integer argument registers regardless of
// declared arity, spec.md §4.4); timer callbacks (timers.go) use it.
func callTrampolineN(addr uint64, args []uint64) uint64 {
	var a [6]uint64
	copy(a[:], args)
	return callTrampoline6(addr, a[0], a[1], a[2], a[3], a[4], a[5])
}
