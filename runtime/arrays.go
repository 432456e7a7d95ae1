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
	"sync"
	"unsafe"
)

// arrayInstance is a growable slice of raw register values (spec.md §3's
// "number[]"/mixed array): element meaning (number bits vs. string ID vs.
// object ID) is carried by the static type the compiler attached to the
// array variable, not stored per-element, matching the same
// register-value convention every other ABI group uses.
type arrayInstance struct {
	items []uint64
}

type arrayRegistry struct {
	mu     sync.Mutex
	next   uint64
	arrays map[uint64]*arrayInstance
}

func newArrayRegistry() *arrayRegistry {
	return &arrayRegistry{arrays: make(map[uint64]*arrayInstance)}
}

func (r *arrayRegistry) create() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.arrays[id] = &arrayInstance{}
	return id
}

func (r *arrayRegistry) get(id uint64) (*arrayInstance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.arrays[id]
	return a, ok
}

// typedArrayInstance backs spec.md §4.2's fixed-element-type arrays
// (Int8Array..Float64Array): kind names the element type (e.g. "int32")
// and is not used for storage, since every slot is stored as a full uint64 for
// the same reason arrayInstance is: the emitter has no sub-64-bit
// register moves (see jit/x86_emitter.go).
type typedArrayInstance struct {
	items []uint64
	kind  string
}

type typedArrayRegistry struct {
	mu     sync.Mutex
	next   uint64
	arrays map[uint64]*typedArrayInstance
}

func newTypedArrayRegistry() *typedArrayRegistry {
	return &typedArrayRegistry{arrays: make(map[uint64]*typedArrayInstance)}
}

func (r *typedArrayRegistry) create(kind string, length uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.arrays[id] = &typedArrayInstance{items: make([]uint64, length), kind: kind}
	return id
}

func (r *typedArrayRegistry) get(id uint64) (*typedArrayInstance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.arrays[id]
	return a, ok
}

// --- ABI surface: spec.md §6 "Arrays" group ---

func (c *Context) registerArrays(t map[string]any) {
	t["array_create"] = c.arrayCreate
	t["array_push"] = c.arrayPush
	t["array_pop"] = c.arrayPop
	t["array_get"] = c.arrayGet
	t["array_set"] = c.arraySet
	t["array_size"] = c.arraySize
	t["size"] = c.arraySize
	t["array_data"] = c.arrayData
	t["data"] = c.arrayData
	t["array_destroy"] = c.arrayDestroy
}

func (c *Context) arrayCreate() uint64 { return c.arrays.create() }

func (c *Context) arrayPush(id, value uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok {
		return 0
	}
	c.arrays.mu.Lock()
	a.items = append(a.items, value)
	c.arrays.mu.Unlock()
	return uint64(len(a.items))
}

func (c *Context) arrayPop(id uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok {
		return 0
	}
	c.arrays.mu.Lock()
	defer c.arrays.mu.Unlock()
	if len(a.items) == 0 {
		return 0
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last
}

func (c *Context) arrayGet(id, index uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok {
		return 0
	}
	c.arrays.mu.Lock()
	defer c.arrays.mu.Unlock()
	if index >= uint64(len(a.items)) {
		return 0
	}
	return a.items[index]
}

func (c *Context) arraySet(id, index, value uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok {
		return 0
	}
	c.arrays.mu.Lock()
	defer c.arrays.mu.Unlock()
	if index >= uint64(len(a.items)) {
		return 0
	}
	a.items[index] = value
	return 1
}

func (c *Context) arraySize(id uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok {
		return 0
	}
	c.arrays.mu.Lock()
	defer c.arrays.mu.Unlock()
	return uint64(len(a.items))
}

// arrayData returns the address of the backing store's first element, for
// raw memory access (the code generator emits no call to it); since Go
// slices can move under GC, this pins nothing
// and is only safe for the duration of the current call, same caveat the
// teacher's storage/column.go documents for its own RawBytes() accessor.
func (c *Context) arrayData(id uint64) uint64 {
	a, ok := c.arrays.get(id)
	if !ok || len(a.items) == 0 {
		return 0
	}
	return uint64(uintptrOf(&a.items[0]))
}

func (c *Context) arrayDestroy(id uint64) uint64 {
	c.arrays.mu.Lock()
	delete(c.arrays.arrays, id)
	c.arrays.mu.Unlock()
	return 0
}

// --- ABI surface: spec.md §6 "TypedArrays" group ---

var typedArrayKinds = []string{"int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64", "float32", "float64"}

func (c *Context) registerTypedArrays(t map[string]any) {
	for _, kind := range typedArrayKinds {
		t["typedarray_create_"+kind] = func(length uint64) uint64 { return c.typedArrays.create(kind, length) }
		t["typedarray_push_"+kind] = c.typedArrayPush
		t["typedarray_pop_"+kind] = c.typedArrayPop
		t["typedarray_get_"+kind] = c.typedArrayGet
		t["typedarray_set_"+kind] = c.typedArraySet
	}
	t["typedarray_size"] = c.typedArraySize
	t["typedarray_get_auto"] = c.typedArrayGet
	t["typedarray_raw_data"] = c.typedArrayRawData
}

func (c *Context) typedArrayPush(id, value uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok {
		return 0
	}
	c.typedArrays.mu.Lock()
	a.items = append(a.items, value)
	c.typedArrays.mu.Unlock()
	return uint64(len(a.items))
}

func (c *Context) typedArrayPop(id uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok {
		return 0
	}
	c.typedArrays.mu.Lock()
	defer c.typedArrays.mu.Unlock()
	if len(a.items) == 0 {
		return 0
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last
}

func (c *Context) typedArrayGet(id, index uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok {
		return 0
	}
	c.typedArrays.mu.Lock()
	defer c.typedArrays.mu.Unlock()
	if index >= uint64(len(a.items)) {
		return 0
	}
	return a.items[index]
}

func (c *Context) typedArraySet(id, index, value uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok {
		return 0
	}
	c.typedArrays.mu.Lock()
	defer c.typedArrays.mu.Unlock()
	if index >= uint64(len(a.items)) {
		return 0
	}
	a.items[index] = value
	return 1
}

func (c *Context) typedArraySize(id uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok {
		return 0
	}
	c.typedArrays.mu.Lock()
	defer c.typedArrays.mu.Unlock()
	return uint64(len(a.items))
}

func (c *Context) typedArrayRawData(id uint64) uint64 {
	a, ok := c.typedArrays.get(id)
	if !ok || len(a.items) == 0 {
		return 0
	}
	return uint64(uintptrOf(&a.items[0]))
}

func uintptrOf(p *uint64) uintptr { return uintptr(unsafe.Pointer(p)) }
