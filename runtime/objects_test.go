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

func TestObjectCreateGetSetProperty(t *testing.T) {
	c := NewContext()
	classLit := c.InternLiteral("Point")
	id := c.objectCreate(classLit, 2)

	if c.objectSetProperty(id, 0, 42) != 1 {
		t.Fatal("set property 0 should succeed")
	}
	if got := c.objectGetProperty(id, 0); got != 42 {
		t.Fatalf("get property 0 = %d, want 42", got)
	}
	if got := c.objectGetProperty(id, 1); got != 0 {
		t.Fatalf("unset property should read back zero, got %d", got)
	}
}

func TestObjectSetPropertyOutOfBoundsFails(t *testing.T) {
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("C"), 1)
	if c.objectSetProperty(id, 5, 1) != 0 {
		t.Fatal("out-of-bounds property index should fail (return 0)")
	}
	if c.objectGetProperty(id, 5) != 0 {
		t.Fatal("out-of-bounds get should return 0, not panic")
	}
}

func TestObjectDestroyMakesFurtherAccessMiss(t *testing.T) {
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("C"), 1)
	c.objectSetProperty(id, 0, 7)
	if c.objectDestroy(id); c.objectSetProperty(id, 0, 8) != 0 {
		t.Fatal("setting a property on a destroyed object should fail")
	}
}

func TestObjectPropertyCountMatchesFieldCount(t *testing.T) {
	// spec.md §9's redesigned for-each-over-object bound: the registered
	// property count of the instance, not a fixed constant.
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("Wide"), 5)
	if got := c.objectPropertyCount(id); got != 5 {
		t.Fatalf("objectPropertyCount = %d, want 5", got)
	}
	if got := c.objectPropertyCount(999999); got != 0 {
		t.Fatalf("objectPropertyCount of a nonexistent object = %d, want 0", got)
	}
}

func TestObjectPropertyNamesRoundTrip(t *testing.T) {
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("C"), 1)
	nameLit := c.InternLiteral("x")
	if c.objectSetPropertyName(id, 0, nameLit) != 1 {
		t.Fatal("set property name should succeed")
	}
	nameID := c.objectGetPropertyName(id, 0)
	if c.strings.text(nameID) != "x" {
		t.Fatalf("property name = %q, want x", c.strings.text(nameID))
	}
}

func TestStaticPropertyRoundTrip(t *testing.T) {
	c := NewContext()
	classLit := c.InternLiteral("Counter")
	nameLit := c.InternLiteral("count")
	c.staticSetProperty(classLit, nameLit, 10)
	if got := c.staticGetProperty(classLit, nameLit); got != 10 {
		t.Fatalf("static property = %d, want 10", got)
	}
}

func TestRegisterClassInheritanceTracksParent(t *testing.T) {
	c := NewContext()
	c.RegisterClassInheritance("Dog", "Animal")
	c.classes.mu.Lock()
	parent := c.classes.parent["Dog"]
	c.classes.mu.Unlock()
	if parent != "Animal" {
		t.Fatalf("parent of Dog = %q, want Animal", parent)
	}
}

func TestRegisterClassInheritanceABIUsesLiteralIDs(t *testing.T) {
	c := NewContext()
	childLit := c.InternLiteral("Cat")
	parentLit := c.InternLiteral("Animal")
	if c.registerClassInheritanceABI(childLit, parentLit) != 1 {
		t.Fatal("registerClassInheritanceABI should report success")
	}
	c.classes.mu.Lock()
	parent := c.classes.parent["Cat"]
	c.classes.mu.Unlock()
	if parent != "Animal" {
		t.Fatalf("parent of Cat = %q, want Animal", parent)
	}
}

func TestSuperConstructorCallMissingParentReturnsZero(t *testing.T) {
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("Orphan"), 0)
	if got := c.superConstructorCall(id, 0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("super() with no registered parent should return 0, got %d", got)
	}
}

func TestSuperConstructorCallUnregisteredParentConstructorReturnsZero(t *testing.T) {
	c := NewContext()
	c.RegisterClassInheritance("Dog", "Animal")
	id := c.objectCreate(c.InternLiteral("Dog"), 0)
	if got := c.superConstructorCall(id, 0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("super() with a parent that has no registered constructor address should return 0, got %d", got)
	}
}

func TestSuperConstructorCallNullAddressIsSafe(t *testing.T) {
	// the parent constructor is registered but with a null address (as if
	// discovered but never linked) — the trampoline must not attempt to
	// jump through address 0.
	c := NewContext()
	c.RegisterClassInheritance("Dog", "Animal")
	c.funcs.mu.Lock()
	c.funcs.byName["__ctor__Animal"] = 0
	c.funcs.mu.Unlock()
	id := c.objectCreate(c.InternLiteral("Dog"), 0)
	if got := c.superConstructorCall(id, 1, 2, 3, 4, 5); got != 0 {
		t.Fatalf("super() through a null address should safely return 0, got %d", got)
	}
}
