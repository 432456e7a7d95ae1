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
	"reflect"
	"testing"
)

// TestABITableMatchesGeneratedSymbols guards against ABITable() and
// tools/abigen's static scan drifting apart: every name abigen found by
// walking registerXxx source must actually appear in the live table, and
// vice versa.
func TestABITableMatchesGeneratedSymbols(t *testing.T) {
	ctx := NewContext()
	table := ctx.ABITable()

	want := make(map[string]bool, len(ABISymbolNames))
	for _, n := range ABISymbolNames {
		want[n] = true
	}

	for _, n := range ABISymbolNames {
		if _, ok := table[n]; !ok {
			t.Errorf("ABISymbolNames has %q but ABITable() does not", n)
		}
	}
	for n := range table {
		if !want[n] {
			t.Errorf("ABITable() has %q but tools/abigen's static scan missed it; re-run abigen", n)
		}
	}
}

// TestABITableAllCallable ensures every non-hook symbol (the emitted-code
// call targets, as opposed to the "__"-prefixed compile-time hooks) is a
// real function value, matching jit.NewLinker's own rejection rule.
func TestABITableAllCallable(t *testing.T) {
	ctx := NewContext()
	table := ctx.ABITable()
	for name, v := range table {
		if v == nil {
			t.Errorf("symbol %q is nil", name)
			continue
		}
		if reflect.ValueOf(v).Kind() != reflect.Func {
			t.Errorf("symbol %q is not a function value", name)
		}
	}
}
