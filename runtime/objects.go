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

import "sync"

// objectInstance is spec.md §3's ObjectInstance: a class name, a
// fixed-size property-value vector, and a parallel property-name vector
// for iteration (for-each over an object, spec.md §4.6).
type objectInstance struct {
	class     string
	values    []uint64
	names     []string
	destroyed bool
}

// objectRegistry is the process-wide, monotonic-ID-keyed object registry
// spec.md §3's Lifecycles section describes, "guarded by a runtime-layer
// lock" — a single sync.Mutex over a plain map, the same convention the
// teacher's storage/cachemap.go uses for its hot maps, scaled down: this
// table is expected to hold thousands of live instances, not the millions
// a storage shard does, so a single mutex (not per-shard striping) is the
// idiomatic fit.
type objectRegistry struct {
	mu      sync.Mutex
	next    uint64
	objects map[uint64]*objectInstance
}

func newObjectRegistry() *objectRegistry {
	return &objectRegistry{objects: make(map[uint64]*objectInstance)}
}

func (r *objectRegistry) create(class string, fieldCount int) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.objects[id] = &objectInstance{class: class, values: make([]uint64, fieldCount), names: make([]string, fieldCount)}
	return id
}

func (r *objectRegistry) get(id uint64) (*objectInstance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok || o.destroyed {
		return nil, false
	}
	return o, true
}

func (r *objectRegistry) destroy(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.objects[id]; ok {
		o.destroyed = true
	}
}

// classPool tracks registered classes and parent/child relationships —
// the minimal slice of spec.md §3's ClassInfo the runtime side needs
// (field layout and method dispatch stay in the jit package, which knows
// them at compile time; the runtime only needs inheritance for
// super_constructor_call).
type classPool struct {
	mu      sync.Mutex
	parent  map[string]string
	statics map[string]map[string]uint64
}

func newClassPool() classPool {
	return classPool{parent: make(map[string]string), statics: make(map[string]map[string]uint64)}
}

// propPool exists only to satisfy the spec's naming of a "property-name
// pool" as a distinct append-only pool alongside string/class-name pools
// (spec.md §3 Lifecycles); property names in this implementation are
// already content-addressed through the shared literal pool
// (stringPool.literalsByText), so propPool is a thin alias rather than a
// second NonLockingReadMap instance — duplicating the same append-only
// table under a different name would not add any behavior.
type propPool struct{}

func newPropPool() propPool { return propPool{} }

// --- ABI surface: spec.md §6 "Objects", "Static props", "Classes" ---

func (c *Context) registerObjects(t map[string]any) {
	t["object_create"] = c.objectCreate
	t["object_create_literal"] = c.objectCreateLiteral
	t["object_set_property"] = c.objectSetProperty
	t["object_get_property"] = c.objectGetProperty
	t["object_set_property_name"] = c.objectSetPropertyName
	t["object_get_property_name"] = c.objectGetPropertyName
	t["object_destroy"] = c.objectDestroy
	t["object_property_count"] = c.objectPropertyCount
	t["static_set_property"] = c.staticSetProperty
	t["static_get_property"] = c.staticGetProperty
	t["register_class_inheritance"] = c.registerClassInheritanceABI
	t["super_constructor_call"] = c.superConstructorCall
}

// objectCreate receives the class name as a literal ID (spec.md §4.6
// `new C(...)`'s `object_create(class_name, field_count)`; class_name
// here is the literal pool ID jit.Compiler.InternLiteral assigned to the
// class's name string, resolved back to text so later property-name
// errors and log_object can report the class).
func (c *Context) objectCreate(classLiteralID, fieldCount uint64) uint64 {
	class, _ := c.strings.literalText(classLiteralID)
	return c.objects.create(class, int(fieldCount))
}

func (c *Context) objectCreateLiteral(fieldCount uint64) uint64 {
	return c.objects.create("", int(fieldCount))
}

func (c *Context) objectSetProperty(id, index, value uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok || index >= uint64(len(o.values)) {
		return 0
	}
	o.values[index] = value
	return 1
}

func (c *Context) objectGetProperty(id, index uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok || index >= uint64(len(o.values)) {
		return 0
	}
	return o.values[index]
}

func (c *Context) objectSetPropertyName(id, index, nameLiteralID uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok || index >= uint64(len(o.names)) {
		return 0
	}
	name, _ := c.strings.literalText(nameLiteralID)
	o.names[index] = name
	return 1
}

func (c *Context) objectGetPropertyName(id, index uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok || index >= uint64(len(o.names)) {
		return 0
	}
	return c.strings.intern(o.names[index])
}

func (c *Context) objectDestroy(id uint64) uint64 {
	c.objects.destroy(id)
	return 0
}

// objectPropertyCount backs for-each-over-object iteration (spec.md §4.6
// and §9's open question: "iterate exactly the registered property count
// of the object instance", replacing the original's fixed bound of
// three).
func (c *Context) objectPropertyCount(id uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok {
		return 0
	}
	return uint64(len(o.values))
}

func (c *Context) staticSetProperty(classLiteralID, nameLiteralID, value uint64) uint64 {
	class, _ := c.strings.literalText(classLiteralID)
	name, _ := c.strings.literalText(nameLiteralID)
	c.classes.mu.Lock()
	defer c.classes.mu.Unlock()
	m := c.classes.statics[class]
	if m == nil {
		m = make(map[string]uint64)
		c.classes.statics[class] = m
	}
	m[name] = value
	return 1
}

func (c *Context) staticGetProperty(classLiteralID, nameLiteralID uint64) uint64 {
	class, _ := c.strings.literalText(classLiteralID)
	name, _ := c.strings.literalText(nameLiteralID)
	c.classes.mu.Lock()
	defer c.classes.mu.Unlock()
	return c.classes.statics[class][name]
}

// registerClassInheritanceABI is the emitted-code-callable counterpart of
// RegisterClassInheritance, taking literal IDs instead of plain strings
// (kept for ABI completeness even though the compiler currently prefers
// announcing inheritance once via the compile-time hook, see compiler.go).
func (c *Context) registerClassInheritanceABI(childLiteralID, parentLiteralID uint64) uint64 {
	child, _ := c.strings.literalText(childLiteralID)
	parent, _ := c.strings.literalText(parentLiteralID)
	c.RegisterClassInheritance(child, parent)
	return 1
}

// RegisterClassInheritance is the "__register_class_inheritance_decl"
// compile-time hook: the jit package calls this directly, once per class
// declaration with a parent, right after class registration.
func (c *Context) RegisterClassInheritance(child, parent string) {
	c.classes.mu.Lock()
	defer c.classes.mu.Unlock()
	c.classes.parent[child] = parent
}

// superConstructorCall implements `super(...)` when the compiler cannot
// call the parent constructor directly: look up the calling object's
// class's parent, then look up "__ctor__"+parent in the name-keyed
// function registry and invoke that address indirectly. Nothing in this
// module registers such names (see registry.go), so unless one was
// registered through register_function the lookup misses and the call
// returns 0.
func (c *Context) superConstructorCall(id, a1, a2, a3, a4, a5 uint64) uint64 {
	o, ok := c.objects.get(id)
	if !ok {
		return 0
	}
	c.classes.mu.Lock()
	parent, ok := c.classes.parent[o.class]
	c.classes.mu.Unlock()
	if !ok {
		return 0
	}
	fn, ok := c.funcs.byNameGet("__ctor__" + parent)
	if !ok {
		return 0
	}
	return callTrampoline6(fn, id, a1, a2, a3, a4, a5)
}
