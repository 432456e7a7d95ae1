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

import "testing"

func TestRuntimePow(t *testing.T) {
	got := f64(runtimePow(bits(2), bits(10)))
	if got != 1024 {
		t.Fatalf("pow(2,10) = %v, want 1024", got)
	}
}

func TestRuntimeModuloFollowsDividendSign(t *testing.T) {
	// JS-style %: sign follows the dividend, unlike Euclidean mod.
	got := f64(runtimeModulo(bits(-7), bits(3)))
	if got != -1 {
		t.Fatalf("modulo(-7,3) = %v, want -1", got)
	}
}

func TestRuntimeDiv(t *testing.T) {
	got := f64(runtimeDiv(bits(7), bits(2)))
	if got != 3.5 {
		t.Fatalf("div(7,2) = %v, want 3.5", got)
	}
}

func TestRuntimeJSEqualSameTypeNumeric(t *testing.T) {
	c := NewContext()
	if c.runtimeJSEqual(bits(1), 11, bits(1), 11) != 1 {
		t.Fatal("identical float64-tagged values should be equal")
	}
	if c.runtimeJSEqual(bits(1), 11, bits(2), 11) != 0 {
		t.Fatal("distinct float64-tagged values should not be equal")
	}
}

func TestRuntimeJSEqualStringComparesByValue(t *testing.T) {
	c := NewContext()
	a := c.stringsFromLiteralID(c.InternLiteral("x"))
	b := c.stringsFromLiteralID(c.InternLiteral("x"))
	if c.runtimeJSEqual(a, jsTypeString, b, jsTypeString) != 1 {
		t.Fatal("equal string content under distinct interned IDs should compare equal")
	}
}

func TestRuntimeJSEqualBooleanVsStringIsAlwaysUnequal(t *testing.T) {
	// SPEC_FULL's decision on the spec.md §9 open question: standard
	// ECMAScript reading, no boolean/string coercion special case.
	c := NewContext()
	falseVal := boolToReg(false)
	strID := c.stringsFromLiteralID(c.InternLiteral("false"))
	if c.runtimeJSEqual(falseVal, jsTypeBool, strID, jsTypeString) != 0 {
		t.Fatal("boolean false and the string \"false\" must not be js_equal under the standard-ECMAScript reading")
	}
}

func TestRuntimeJSEqualCrossTypeNumericBoolean(t *testing.T) {
	c := NewContext()
	// different type tags, neither a string: compared as raw bit patterns.
	if c.runtimeJSEqual(1, jsTypeBool, bits(1), 11) != 0 {
		t.Fatal("a boolean register value and a float64 bit pattern for 1 differ as raw bits, so should compare unequal")
	}
}

func TestBoolToReg(t *testing.T) {
	if boolToReg(true) != 1 || boolToReg(false) != 0 {
		t.Fatal("boolToReg must map true->1, false->0")
	}
}
