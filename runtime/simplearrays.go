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
	"math"
	"sync"
)

// simpleArrayInstance is the flat, always-float64 numeric vector SPEC_FULL
// §4 item 5 (LibTorch/tensor stub, supplemented from original_source/)
// calls for: no dtype tagging, no strides, a single contiguous []float64
// with a shape vector describing how a for-each or a print should read it.
// Anything beyond 1-D (matmul, broadcasting) is out of scope; shape exists
// only so simple_array_shape can report it back to script code.
type simpleArrayInstance struct {
	data  []float64
	shape []uint64
}

type simpleArrayRegistry struct {
	mu     sync.Mutex
	next   uint64
	arrays map[uint64]*simpleArrayInstance
}

func newSimpleArrayRegistry() *simpleArrayRegistry {
	return &simpleArrayRegistry{arrays: make(map[uint64]*simpleArrayInstance)}
}

// --- ABI surface: spec.md §6 "SimpleArrays" group ---

func (c *Context) registerSimpleArrays(t map[string]any) {
	t["simple_array_zeros"] = c.simpleArrayZeros
	t["simple_array_ones"] = c.simpleArrayOnes
	t["simple_array_arange"] = c.simpleArrayArange
	t["simple_array_linspace"] = c.simpleArrayLinspace
	t["simple_array_push"] = c.simpleArrayPush
	t["simple_array_pop"] = c.simpleArrayPop
	t["simple_array_slice"] = c.simpleArraySlice
	t["simple_array_slice_all"] = c.simpleArraySliceAll
	t["simple_array_get"] = c.simpleArrayGet
	t["simple_array_length"] = c.simpleArrayLength
	t["simple_array_shape"] = c.simpleArrayShape
	t["simple_array_sum"] = c.simpleArraySum
	t["simple_array_mean"] = c.simpleArrayMean
	t["simple_array_max"] = c.simpleArrayMax
	t["simple_array_min"] = c.simpleArrayMin
}

func (c *Context) simpleArrayStore(data []float64) uint64 {
	c.simpleArrays.mu.Lock()
	defer c.simpleArrays.mu.Unlock()
	c.simpleArrays.next++
	id := c.simpleArrays.next
	c.simpleArrays.arrays[id] = &simpleArrayInstance{data: data, shape: []uint64{uint64(len(data))}}
	return id
}

func (c *Context) simpleArrayZeros(n uint64) uint64 {
	return c.simpleArrayStore(make([]float64, n))
}

func (c *Context) simpleArrayOnes(n uint64) uint64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return c.simpleArrayStore(d)
}

func (c *Context) simpleArrayArange(startBits, stopBits, stepBits uint64) uint64 {
	start, stop, step := f64(startBits), f64(stopBits), f64(stepBits)
	if step == 0 {
		step = 1
	}
	var d []float64
	if step > 0 {
		for v := start; v < stop; v += step {
			d = append(d, v)
		}
	} else {
		for v := start; v > stop; v += step {
			d = append(d, v)
		}
	}
	return c.simpleArrayStore(d)
}

func (c *Context) simpleArrayLinspace(startBits, stopBits, countBits uint64) uint64 {
	start, stop, n := f64(startBits), f64(stopBits), uint64(f64(countBits))
	if n == 0 {
		return c.simpleArrayStore(nil)
	}
	if n == 1 {
		return c.simpleArrayStore([]float64{start})
	}
	step := (stop - start) / float64(n-1)
	d := make([]float64, n)
	for i := range d {
		d[i] = start + float64(i)*step
	}
	return c.simpleArrayStore(d)
}

func (c *Context) simpleArrayPush(id, valueBits uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok {
		return 0
	}
	a.data = append(a.data, f64(valueBits))
	a.shape = []uint64{uint64(len(a.data))}
	return uint64(len(a.data))
}

func (c *Context) simpleArrayPop(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || len(a.data) == 0 {
		return 0
	}
	last := a.data[len(a.data)-1]
	a.data = a.data[:len(a.data)-1]
	a.shape = []uint64{uint64(len(a.data))}
	return bits(last)
}

func (c *Context) simpleArraySlice(id, fromBits, toBits uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok {
		return c.simpleArrayStore(nil)
	}
	from, to := int(fromBits), int(toBits)
	if from < 0 {
		from = 0
	}
	if to > len(a.data) {
		to = len(a.data)
	}
	if from > to {
		from = to
	}
	cp := make([]float64, to-from)
	copy(cp, a.data[from:to])
	return c.simpleArrayStore(cp)
}

func (c *Context) simpleArraySliceAll(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok {
		return c.simpleArrayStore(nil)
	}
	return c.simpleArraySlice(id, 0, uint64(len(a.data)))
}

func (c *Context) simpleArrayGet(id, index uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || index >= uint64(len(a.data)) {
		return bits(math.NaN())
	}
	return bits(a.data[index])
}

func (c *Context) simpleArrayLength(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok {
		return 0
	}
	return uint64(len(a.data))
}

func (c *Context) simpleArrayShape(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

func (c *Context) simpleArraySum(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok {
		return bits(0)
	}
	var sum float64
	for _, v := range a.data {
		sum += v
	}
	return bits(sum)
}

func (c *Context) simpleArrayMean(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || len(a.data) == 0 {
		return bits(math.NaN())
	}
	var sum float64
	for _, v := range a.data {
		sum += v
	}
	return bits(sum / float64(len(a.data)))
}

func (c *Context) simpleArrayMax(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || len(a.data) == 0 {
		return bits(math.NaN())
	}
	m := a.data[0]
	for _, v := range a.data[1:] {
		if v > m {
			m = v
		}
	}
	return bits(m)
}

func (c *Context) simpleArrayMin(id uint64) uint64 {
	a, ok := c.simpleArrays.arrays[id]
	if !ok || len(a.data) == 0 {
		return bits(math.NaN())
	}
	m := a.data[0]
	for _, v := range a.data[1:] {
		if v < m {
			m = v
		}
	}
	return bits(m)
}
