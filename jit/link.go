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
	"reflect"
	"sort"

	"golang.org/x/exp/maps"
)

// Linker resolves runtime-helper names to absolute code addresses, the
// static name->pointer table spec.md §4.4 requires for `call(label)`.
// Addresses are obtained exactly the way the teacher's OptimizeForValues
// (scm/jit.go) resolves a Go func value's code pointer: reflect.Value.
// Pointer() on a func value yields the address of its entry trampoline.
// Entries are registered once at process start by runtime.ABITable();
// the symbol list tools/abigen derives from it is
// runtime/abi_symbols_gen.go (SPEC_FULL §2).
type Linker struct {
	symbols map[string]uintptr
	hooks   map[string]any
}

// NewLinker builds a Linker over a name->func-value table. Any value
// that is not a reflect.Func is rejected at registration time: a
// runtime-helper name resolving to a non-function is a Link error per
// spec.md §7.
//
// Names prefixed "__" are treated as compile-time Go hooks rather than
// emitted-code call targets (see Hook): the runtime package uses this for
// the literal-string pool and the function-ID/class-inheritance
// publication steps Phase 3 needs, none of which are ever reached by a
// `call` instruction.
func NewLinker(table map[string]any) (*Linker, error) {
	l := &Linker{symbols: make(map[string]uintptr, len(table)), hooks: make(map[string]any)}
	for name, fn := range table {
		if len(name) >= 2 && name[:2] == "__" {
			l.hooks[name] = fn
			continue
		}
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func {
			return nil, fmt.Errorf("link: symbol %q is not callable", name)
		}
		l.symbols[name] = v.Pointer()
	}
	return l, nil
}

// Hook returns a compile-time-only Go callback registered under a "__"
// name, for phases that need to call straight into the runtime package
// during compilation (not through emitted machine code).
func (l *Linker) Hook(name string) (any, bool) {
	v, ok := l.hooks[name]
	return v, ok
}

// Resolve returns the absolute address of a registered runtime-helper
// symbol. ok is false for names the manager should instead treat as
// user-defined functions resolved via label fixup or the function
// registry (spec.md §4.4 shapes ii/iii).
func (l *Linker) Resolve(name string) (uint64, bool) {
	addr, ok := l.symbols[name]
	return uint64(addr), ok
}

// Has reports whether name is a registered ABI symbol at all. Nothing in
// this package calls it: the emitter's Call uses Resolve, and a name that
// is neither a symbol nor a defined label fails in Finalize as an
// undefined label, not as a Link error.
func (l *Linker) Has(name string) bool {
	_, ok := l.symbols[name]
	return ok
}

// SymbolNames returns every registered symbol, sorted, for diagnostics
// (e.g. the Link-error message enumerating what was available).
func (l *Linker) SymbolNames() []string {
	names := maps.Keys(l.symbols)
	sort.Strings(names)
	return names
}
