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
package jit

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/google/uuid"
)

// execBuf wraps one mmap'd region, the same shape as the teacher's
// scm/jit.go execBuf, generalized from a single specialization's machine
// code to a whole compilation unit's code page.
type execBuf struct {
	ptr unsafe.Pointer
	n   int
}

func allocExec(size int) (*execBuf, error) {
	page := syscall.Getpagesize()
	n := (size + page - 1) &^ (page - 1)
	b, err := syscall.Mmap(-1, 0, n, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &execBuf{ptr: unsafe.Pointer(&b[0]), n: n}, nil
}

func (e *execBuf) makeRX() error {
	data := (*[1 << 30]byte)(e.ptr)[:e.n:e.n]
	return syscall.Mprotect(data, syscall.PROT_READ|syscall.PROT_EXEC)
}

func (e *execBuf) free() {
	syscall.Munmap((*[1 << 30]byte)(e.ptr)[:e.n:e.n])
}

// LoadedUnit is one JIT-installed compilation unit: the code page (kept
// alive deliberately, never unmapped — spec.md §5, goroutine tasks may
// still reference trampolines inside it after the entry point returns)
// and its entry-point address.
type LoadedUnit struct {
	InstallID uuid.UUID // tags this installed unit; nothing else in the module reads it
	buf       *execBuf
	Base      uint64
	EntryAddr uint64
}

// Install page-aligns code in RW memory, writes it, then remaps to R-X —
// spec.md §5's resource-acquisition policy, directly mirroring the
// teacher's allocExec/makeRX pair. entryOffset is __main's code_offset
// from Phase 2/3 of FunctionCompilationManager.
func Install(code []byte, entryOffset int) (*LoadedUnit, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("jit: install: empty code buffer")
	}
	buf, err := allocExec(len(code))
	if err != nil {
		return nil, fmt.Errorf("jit: mmap: %w", err)
	}
	dst := (*[1 << 30]byte)(buf.ptr)[:len(code):len(code)]
	copy(dst, code)
	if err := buf.makeRX(); err != nil {
		buf.free()
		return nil, fmt.Errorf("jit: mprotect: %w", err)
	}
	base := uint64(uintptr(buf.ptr))
	return &LoadedUnit{
		InstallID: uuid.New(),
		buf:       buf,
		Base:      base,
		EntryAddr: base + uint64(entryOffset),
	}, nil
}

// Run casts the entry address to a zero-argument function returning
// int64 and invokes it — spec.md §6's "Entry point" description. The
// funcval-shaped wrapper is the teacher's own trick (scm/jit.go) for
// turning a bare code pointer into a callable Go func value: a Go func
// value is itself a pointer to a struct whose first field is the code
// address, so a single-pointer struct mimics that layout exactly.
func (u *LoadedUnit) Run() int64 {
	entry := unsafe.Pointer(uintptr(u.EntryAddr))
	fnval := unsafe.Pointer(&struct{ code unsafe.Pointer }{entry})
	fn := *(*func() int64)(unsafe.Pointer(&fnval))
	return fn()
}
