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
	"testing"
)

func TestSimpleArrayZerosAndOnes(t *testing.T) {
	c := NewContext()
	z := c.simpleArrayZeros(3)
	if c.simpleArrayLength(z) != 3 || f64(c.simpleArrayGet(z, 0)) != 0 {
		t.Fatal("zeros(3) should be a length-3 array of 0.0")
	}
	o := c.simpleArrayOnes(3)
	if f64(c.simpleArrayGet(o, 2)) != 1 {
		t.Fatal("ones(3) should be all 1.0")
	}
}

func TestSimpleArrayArangeAscendingAndDescending(t *testing.T) {
	c := NewContext()
	up := c.simpleArrayArange(bits(0), bits(5), bits(1))
	if c.simpleArrayLength(up) != 5 {
		t.Fatalf("arange(0,5,1) length = %d, want 5", c.simpleArrayLength(up))
	}
	down := c.simpleArrayArange(bits(5), bits(0), bits(-1))
	if c.simpleArrayLength(down) != 5 {
		t.Fatalf("arange(5,0,-1) length = %d, want 5", c.simpleArrayLength(down))
	}
	if f64(c.simpleArrayGet(down, 0)) != 5 {
		t.Fatalf("arange(5,0,-1)[0] = %v, want 5", f64(c.simpleArrayGet(down, 0)))
	}
}

func TestSimpleArrayLinspaceEndpointsInclusive(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayLinspace(bits(0), bits(10), bits(5))
	if f64(c.simpleArrayGet(id, 0)) != 0 {
		t.Fatal("linspace should start at the given start value")
	}
	if f64(c.simpleArrayGet(id, 4)) != 10 {
		t.Fatal("linspace should end at the given stop value")
	}
}

func TestSimpleArrayLinspaceSingletonAndZero(t *testing.T) {
	c := NewContext()
	single := c.simpleArrayLinspace(bits(3), bits(9), bits(1))
	if c.simpleArrayLength(single) != 1 || f64(c.simpleArrayGet(single, 0)) != 3 {
		t.Fatal("linspace with count 1 should return just the start value")
	}
	zero := c.simpleArrayLinspace(bits(0), bits(1), bits(0))
	if c.simpleArrayLength(zero) != 0 {
		t.Fatal("linspace with count 0 should be empty")
	}
}

func TestSimpleArrayPushPop(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayZeros(0)
	c.simpleArrayPush(id, bits(1))
	c.simpleArrayPush(id, bits(2))
	if c.simpleArrayLength(id) != 2 {
		t.Fatalf("length after two pushes = %d, want 2", c.simpleArrayLength(id))
	}
	if f64(c.simpleArrayPop(id)) != 2 {
		t.Fatal("pop should return the most recently pushed value")
	}
	if c.simpleArrayLength(id) != 1 {
		t.Fatal("length after pop should decrease")
	}
}

func TestSimpleArraySliceAndSliceAll(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayArange(bits(0), bits(10), bits(1))
	sl := c.simpleArraySlice(id, 2, 5)
	if c.simpleArrayLength(sl) != 3 {
		t.Fatalf("slice(2,5) length = %d, want 3", c.simpleArrayLength(sl))
	}
	if f64(c.simpleArrayGet(sl, 0)) != 2 {
		t.Fatal("slice(2,5)[0] should be 2")
	}
	all := c.simpleArraySliceAll(id)
	if c.simpleArrayLength(all) != c.simpleArrayLength(id) {
		t.Fatal("slice_all should copy the whole array")
	}
}

func TestSimpleArraySliceClampsOutOfRangeBounds(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayArange(bits(0), bits(3), bits(1))
	sl := c.simpleArraySlice(id, 1, 999)
	if c.simpleArrayLength(sl) != 2 {
		t.Fatalf("slice(1,999) on a 3-length array should clamp to length 2, got %d", c.simpleArrayLength(sl))
	}
}

func TestSimpleArrayGetOutOfRangeIsNaN(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayZeros(1)
	if !math.IsNaN(f64(c.simpleArrayGet(id, 5))) {
		t.Fatal("out-of-range get should be NaN")
	}
}

func TestSimpleArrayReductions(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayStore([]float64{1, 2, 3, 4})
	if f64(c.simpleArraySum(id)) != 10 {
		t.Fatal("sum([1,2,3,4]) should be 10")
	}
	if f64(c.simpleArrayMean(id)) != 2.5 {
		t.Fatal("mean([1,2,3,4]) should be 2.5")
	}
	if f64(c.simpleArrayMax(id)) != 4 {
		t.Fatal("max([1,2,3,4]) should be 4")
	}
	if f64(c.simpleArrayMin(id)) != 1 {
		t.Fatal("min([1,2,3,4]) should be 1")
	}
}

func TestSimpleArrayReductionsOnEmptyAreNaNOrZero(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayZeros(0)
	if f64(c.simpleArraySum(id)) != 0 {
		t.Fatal("sum of an empty array should be 0")
	}
	if !math.IsNaN(f64(c.simpleArrayMean(id))) {
		t.Fatal("mean of an empty array should be NaN")
	}
	if !math.IsNaN(f64(c.simpleArrayMax(id))) {
		t.Fatal("max of an empty array should be NaN")
	}
}

func TestSimpleArrayShapeReflectsLength(t *testing.T) {
	c := NewContext()
	id := c.simpleArrayZeros(7)
	if c.simpleArrayShape(id) != 7 {
		t.Fatalf("shape = %d, want 7", c.simpleArrayShape(id))
	}
}
