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

func TestPromiseResolveAndAwait(t *testing.T) {
	// fn=0: callTrampoline6's null-address guard settles the promise with
	// 0 without jumping through any real address, keeping this test free
	// of actual generated machine code.
	c := NewContext()
	id := c.promiseResolve(0, 0, 0, 0, 0, 0)
	if got := c.promiseAwait(id); got != 0 {
		t.Fatalf("awaiting a null-callback promise should settle at 0, got %d", got)
	}
	c.sched.Wait()
}

func TestPromiseAwaitUnknownIDReturnsZero(t *testing.T) {
	c := NewContext()
	if c.promiseAwait(99999) != 0 {
		t.Fatal("awaiting an unknown promise ID should return 0, not block forever")
	}
}

func TestPromiseAllCollectsResultsInOrder(t *testing.T) {
	c := NewContext()
	ids := c.arrayCreate()
	p1 := c.promiseResolve(0, 0, 0, 0, 0, 0)
	p2 := c.promiseResolve(0, 0, 0, 0, 0, 0)
	c.arrayPush(ids, p1)
	c.arrayPush(ids, p2)

	results := c.promiseAll(ids)
	if c.arraySize(results) != 2 {
		t.Fatalf("promise_all should collect 2 results, got %d", c.arraySize(results))
	}
	c.sched.Wait()
}

func TestPromiseAllOnUnknownArrayReturnsEmptyArray(t *testing.T) {
	c := NewContext()
	results := c.promiseAll(424242)
	if c.arraySize(results) != 0 {
		t.Fatal("promise_all on a nonexistent id array should return an empty array")
	}
}
