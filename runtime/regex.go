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
	"regexp"
	"sync"
)

// regexEntry is a compiled pattern plus the two flags script code can
// query back (global/ignoreCase) and the source text for toString.
// SPEC_FULL §4 item 4 authorizes using Go's standard regexp package
// directly (RE2 syntax is close enough to the subset spec.md §4.6 names)
// rather than hand-rolling a matcher, since no example repo in the pack
// carries a third-party regex engine.
type regexEntry struct {
	re         *regexp.Regexp
	source     string
	global     bool
	ignoreCase bool
}

type regexPool struct {
	mu      sync.Mutex
	next    uint64
	entries map[uint64]*regexEntry
}

func newRegexPool() *regexPool {
	return &regexPool{entries: make(map[uint64]*regexEntry)}
}

func (p *regexPool) get(id uint64) (*regexEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	return e, ok
}

// --- ABI surface: spec.md §6 "Regex" group ---

func (c *Context) registerRegex(t map[string]any) {
	t["register_regex_pattern"] = c.registerRegexPattern
	t["regex_create_by_id"] = c.regexCreateByID
	t["regex_test"] = c.regexTest
	t["regex_exec"] = c.regexExec
	t["regex_get_source"] = c.regexGetSource
	t["regex_get_global"] = c.regexGetGlobal
	t["regex_get_ignore_case"] = c.regexGetIgnoreCase
	t["string_match"] = c.stringMatch
	t["string_replace"] = c.stringReplace
	t["string_search"] = c.stringSearch
	t["string_split"] = c.stringSplit
}

// registerRegexPattern compiles a /pattern/flags literal and returns a
// new pattern ID; flagsLiteralID is a literal-pooled string like "gi".
// genRegexLit emits a call to it each time a regex literal is evaluated,
// so every evaluation compiles the pattern again under a fresh ID.
func (c *Context) registerRegexPattern(sourceLiteralID, flagsLiteralID uint64) uint64 {
	source, _ := c.strings.literalText(sourceLiteralID)
	flags, _ := c.strings.literalText(flagsLiteralID)
	global := containsByte(flags, 'g')
	ignoreCase := containsByte(flags, 'i')
	pattern := source
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = regexp.MustCompile(`$^`) // matches nothing; compile-time literal is assumed well-formed
	}
	c.regex.mu.Lock()
	defer c.regex.mu.Unlock()
	c.regex.next++
	id := c.regex.next
	c.regex.entries[id] = &regexEntry{re: re, source: source, global: global, ignoreCase: ignoreCase}
	return id
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

// regexCreateByID is the `new RegExp(...)`/literal-evaluation entry
// point: patternID was already compiled by registerRegexPattern, so this
// is just an identity passthrough kept as its own ABI symbol for
// consistency with the rest of the "create" family.
func (c *Context) regexCreateByID(patternID uint64) uint64 { return patternID }

func (c *Context) regexTest(patternID, strLiteralID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if !ok {
		return 0
	}
	s, _ := c.strings.literalText(strLiteralID)
	if e.re.MatchString(s) {
		return 1
	}
	return 0
}

// regexExec returns the literal ID of the first match, or 0 (empty
// string's ID is never 0 since IDs start at 1, so 0 doubles as "no
// match" per spec.md §4.6's null-on-no-match convention).
func (c *Context) regexExec(patternID, strLiteralID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if !ok {
		return 0
	}
	s, _ := c.strings.literalText(strLiteralID)
	m := e.re.FindString(s)
	if m == "" && !e.re.MatchString(s) {
		return 0
	}
	return c.strings.internLiteral(m)
}

func (c *Context) regexGetSource(patternID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if !ok {
		return c.strings.internLiteral("")
	}
	return c.strings.internLiteral(e.source)
}

func (c *Context) regexGetGlobal(patternID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if ok && e.global {
		return 1
	}
	return 0
}

func (c *Context) regexGetIgnoreCase(patternID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if ok && e.ignoreCase {
		return 1
	}
	return 0
}

func (c *Context) stringMatch(strLiteralID, patternID uint64) uint64 {
	return c.regexExec(patternID, strLiteralID)
}

func (c *Context) stringReplace(strLiteralID, patternID, replacementLiteralID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if !ok {
		return strLiteralID
	}
	s, _ := c.strings.literalText(strLiteralID)
	repl, _ := c.strings.literalText(replacementLiteralID)
	var out string
	if e.global {
		out = e.re.ReplaceAllString(s, repl)
	} else if loc := e.re.FindStringIndex(s); loc != nil {
		out = s[:loc[0]] + repl + s[loc[1]:]
	} else {
		out = s
	}
	return c.strings.internLiteral(out)
}

func (c *Context) stringSearch(strLiteralID, patternID uint64) uint64 {
	e, ok := c.regex.get(patternID)
	if !ok {
		return uint64(^uint64(0)) // -1 as uint64, "not found"
	}
	s, _ := c.strings.literalText(strLiteralID)
	loc := e.re.FindStringIndex(s)
	if loc == nil {
		return uint64(^uint64(0))
	}
	return uint64(loc[0])
}

func (c *Context) stringSplit(strLiteralID, patternID uint64) uint64 {
	s, _ := c.strings.literalText(strLiteralID)
	result := c.arrayCreate()
	e, ok := c.regex.get(patternID)
	var parts []string
	if ok {
		parts = e.re.Split(s, -1)
	} else {
		parts = []string{s}
	}
	for _, p := range parts {
		c.arrayPush(result, c.strings.internLiteral(p))
	}
	return result
}
