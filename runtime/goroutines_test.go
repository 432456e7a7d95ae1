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

func TestGoroutineSpawnReturnsImmediatelyAndDrains(t *testing.T) {
	c := NewContext()
	if c.goroutineSpawnWithArgs(0, 1, 2, 3, 4, 5, 6) != 1 {
		t.Fatal("goroutine_spawn_with_args should report success")
	}
	c.sched.Wait() // must not hang: the null-address call returns immediately
}

func TestGoroutineSpawnNoArgsDelegates(t *testing.T) {
	c := NewContext()
	if c.goroutineSpawn(0) != 1 {
		t.Fatal("goroutine_spawn should report success")
	}
	c.sched.Wait()
}

func TestSchedulerWaitDrainsMultipleSpawns(t *testing.T) {
	c := NewContext()
	for i := 0; i < 20; i++ {
		c.goroutineSpawn(0)
	}
	c.sched.Wait()
}
