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
	"strings"

	"github.com/launix-de/NonLockingReadMap"
)

// literalEntry is one source-text byte sequence the compiler has baked
// into the emitted code as a small integer immediate (jit.Compiler.
// InternLiteral). It backs string/regex-pattern/class-name/property-name
// literals alike — spec.md §3 lists all four as "allocated with process
// lifetime and addressed by absolute pointer from emitted code"; here the
// "pointer" is this table's index, not a bare memory address, which is
// the memory-safe arena-index substitution SPEC_FULL §9 calls for.
type literalEntry struct {
	id   uint32
	text string
}

func (l *literalEntry) GetKey() string  { return l.text }
func (l *literalEntry) ComputeSize() uint { return uint(24 + len(l.text)) }

// stringEntry is a canonical, interned String object — spec.md §4.6's
// "canonical string object" genStringLit's strings_intern call returns.
// Distinct from literalEntry: multiple literal occurrences of the same
// text share one literalEntry AND, after interning, one stringEntry; the
// split exists because regex patterns and property/class names are
// literalEntry-only and never materialize a user-visible String object.
type stringEntry struct {
	id   uint64
	text string
}

func (s *stringEntry) GetKey() string   { return s.text }
func (s *stringEntry) ComputeSize() uint { return uint(24 + len(s.text)) }

// stringPool is the append-only literal/intern table SPEC_FULL §2 wires
// NonLockingReadMap into: literal registration happens once per distinct
// byte sequence during compilation (single-threaded), lookups happen
// constantly from many goroutines while the program runs, which is
// exactly NonLockingReadMap's "read often, write seldom" design point.
type stringPool struct {
	literalsByText NonLockingReadMap.NonLockingReadMap[literalEntry, string]
	literalsByID   []string // index == literal ID, append-only, guarded by same discipline as byText

	internedByText NonLockingReadMap.NonLockingReadMap[stringEntry, string]
	internedByID   map[uint64]string
	nextLiteralID  uint32
	nextStringID   uint64
}

func newStringPool() *stringPool {
	return &stringPool{
		literalsByText: NonLockingReadMap.New[literalEntry, string](),
		literalsByID:   []string{""}, // literal ID 0 is never assigned: helpers use 0 for "no result"
		internedByText: NonLockingReadMap.New[stringEntry, string](),
		internedByID:   make(map[uint64]string),
		nextLiteralID:  1,
	}
}

// internLiteral is the "__intern_literal" compile-time hook: it never
// runs from emitted machine code, only from jit.Compiler.InternLiteral
// while generating code for a literal.
func (p *stringPool) internLiteral(s string) uint64 {
	if e := p.literalsByText.Get(s); e != nil {
		return uint64(e.id)
	}
	id := p.nextLiteralID
	p.nextLiteralID++
	p.literalsByText.Set(&literalEntry{id: id, text: s})
	p.literalsByID = append(p.literalsByID, s)
	return uint64(id)
}

// literalText resolves a literal ID back to its source bytes. Used by
// every ABI helper that receives a literal ID from emitted code (string
// construction, regex pattern registration, class/property names).
func (p *stringPool) literalText(id uint64) (string, bool) {
	if id >= uint64(len(p.literalsByID)) {
		return "", false
	}
	return p.literalsByID[id], true
}

// intern returns the canonical String-object ID for s, creating one on
// first sight — spec.md §8's `intern(s) == intern(s)` round-trip.
func (p *stringPool) intern(s string) uint64 {
	if e := p.internedByText.Get(s); e != nil {
		return e.id
	}
	id := p.nextStringID
	p.nextStringID++
	p.internedByText.Set(&stringEntry{id: id, text: s})
	p.internedByID[id] = s
	return id
}

func (p *stringPool) text(id uint64) string {
	return p.internedByID[id]
}

// --- ABI surface: spec.md §6 "Strings" group ---

func (c *Context) registerStrings(t map[string]any) {
	t["strings_create_empty"] = c.stringsCreateEmpty
	t["strings_from_literal_id"] = c.stringsFromLiteralID
	t["strings_intern"] = c.stringsInternBits // legacy 8-byte-packed path, kept for ABI completeness
	t["strings_destroy"] = c.stringsDestroy
	t["strings_concat"] = c.stringsConcat
	t["strings_concat_cstr"] = c.stringsConcatCstr
	t["strings_concat_cstr_left"] = c.stringsConcatCstrLeft
	t["strings_equals"] = c.stringsEquals
	t["strings_compare"] = c.stringsCompare
	t["strings_length"] = c.stringsLength
	t["strings_char_at"] = c.stringsCharAt
}

func (c *Context) stringsCreateEmpty() uint64 { return c.strings.intern("") }

// stringsFromLiteralID materializes (or returns the existing) String
// object for a compile-time-registered literal — the call genStringLit
// emits after jit.Compiler.InternLiteral has baked the literal's ID as an
// immediate.
func (c *Context) stringsFromLiteralID(id uint64) uint64 {
	s, ok := c.strings.literalText(id)
	if !ok {
		return c.strings.intern("")
	}
	return c.strings.intern(s)
}

// stringsInternBits decodes up to 8 raw bytes packed little-endian into a
// register (the legacy path some callers may still use for very short
// ad-hoc strings) and interns them, trimming trailing NUL padding.
func (c *Context) stringsInternBits(bits uint64) uint64 {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	n := 8
	for n > 0 && buf[n-1] == 0 {
		n--
	}
	return c.strings.intern(string(buf[:n]))
}

func (c *Context) stringsDestroy(id uint64) uint64 {
	// Interning is append-only and process-lifetime per spec.md §3;
	// destroy is accepted for ABI completeness and is a documented no-op.
	return 0
}

func (c *Context) stringsConcat(a, b uint64) uint64 {
	return c.strings.intern(c.strings.text(a) + c.strings.text(b))
}

// stringsConcatCstr handles `leftStringID + rightCLiteralID` (right is a
// literal ID, not yet an interned String — the teacher's ABI distinguishes
// this from the all-String-objects path purely to skip one intern call).
func (c *Context) stringsConcatCstr(a, bLiteralID uint64) uint64 {
	rb, _ := c.strings.literalText(bLiteralID)
	return c.strings.intern(c.strings.text(a) + rb)
}

func (c *Context) stringsConcatCstrLeft(aLiteralID, b uint64) uint64 {
	la, _ := c.strings.literalText(aLiteralID)
	return c.strings.intern(la + c.strings.text(b))
}

func (c *Context) stringsEquals(a, b uint64) uint64 {
	if c.strings.text(a) == c.strings.text(b) {
		return 1
	}
	return 0
}

func (c *Context) stringsCompare(a, b uint64) uint64 {
	return uint64(int64(strings.Compare(c.strings.text(a), c.strings.text(b))))
}

func (c *Context) stringsLength(id uint64) uint64 {
	return uint64(len(c.strings.text(id)))
}

func (c *Context) stringsCharAt(id, index uint64) uint64 {
	s := c.strings.text(id)
	if index >= uint64(len(s)) {
		return 0
	}
	return c.strings.intern(string(s[index]))
}
