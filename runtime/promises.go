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

	"golang.org/x/sync/errgroup"
)

// promiseState mirrors spec.md §5's minimal Promise: a one-shot box that
// is either still pending (value unset) or settled, backed by a plain
// channel close rather than a condition variable, the same "close to
// broadcast" idiom golang.org/x/sync/errgroup.Group's internal done
// channel uses.
type promiseState struct {
	done  chan struct{}
	value uint64
}

type promiseTable struct {
	mu       sync.Mutex
	next     uint64
	promises map[uint64]*promiseState
}

func newPromiseTable() *promiseTable {
	return &promiseTable{promises: make(map[uint64]*promiseState)}
}

func (p *promiseTable) create() (uint64, *promiseState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	id := p.next
	st := &promiseState{done: make(chan struct{})}
	p.promises[id] = st
	return id, st
}

func (p *promiseTable) get(id uint64) (*promiseState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.promises[id]
	return st, ok
}

func (st *promiseState) settle(value uint64) {
	st.value = value
	close(st.done)
}

// --- ABI surface: spec.md §6 "Promises" group ---

func (c *Context) registerPromises(t map[string]any) {
	t["promise_resolve"] = c.promiseResolve
	t["promise_await"] = c.promiseAwait
	t["promise_all"] = c.promiseAll
}

// promiseResolve wraps a goroutine-spawned function call in a promise:
// the callback runs immediately on a new goroutine (the same dispatch
// goroutine_spawn_with_args uses), and promise_await blocks on its
// completion. This keeps await's semantics simple: a promise is a handle
// to a goroutine's eventual return value, matching spec.md §5's "no
// microtask queue, no event loop" simplification.
func (c *Context) promiseResolve(fn, a1, a2, a3, a4, a5 uint64) uint64 {
	id, st := c.promises.create()
	c.sched.wg.Add(1)
	go func() {
		defer c.sched.wg.Done()
		st.settle(callTrampoline6(fn, a1, a2, a3, a4, a5, 0))
	}()
	return id
}

func (c *Context) promiseAwait(id uint64) uint64 {
	st, ok := c.promises.get(id)
	if !ok {
		return 0
	}
	<-st.done
	return st.value
}

// promiseAll blocks until every promise in ids has settled, returning an
// array holding their results in order (spec.md §5's Promise.all). The
// fan-out across pending awaits is an errgroup.Group rather than a plain
// WaitGroup, mirroring the same wait-group discipline scm/scheduler.go
// uses for its own background tasks but gaining errgroup's "first error
// wins" semantics for free if a future revision ever lets a promise
// settle with a failure value.
func (c *Context) promiseAll(idsArrayID uint64) uint64 {
	src, ok := c.arrays.get(idsArrayID)
	if !ok {
		return c.arrayCreate()
	}
	values := make([]uint64, len(src.items))
	var g errgroup.Group
	for i, id := range src.items {
		i, id := i, id
		g.Go(func() error {
			values[i] = c.promiseAwait(id)
			return nil
		})
	}
	g.Wait()
	results := c.arrayCreate()
	for _, v := range values {
		c.arrayPush(results, v)
	}
	return results
}
