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

func TestRegisterRegexPatternAndTest(t *testing.T) {
	c := NewContext()
	srcLit := c.InternLiteral(`ab+c`)
	flagsLit := c.InternLiteral("")
	patternID := c.registerRegexPattern(srcLit, flagsLit)

	yes := c.InternLiteral("xabbbcy")
	no := c.InternLiteral("xyz")
	if c.regexTest(patternID, yes) != 1 {
		t.Fatal("pattern ab+c should match xabbbcy")
	}
	if c.regexTest(patternID, no) != 0 {
		t.Fatal("pattern ab+c should not match xyz")
	}
}

func TestRegisterRegexPatternIgnoreCaseFlag(t *testing.T) {
	c := NewContext()
	srcLit := c.InternLiteral("abc")
	flagsLit := c.InternLiteral("i")
	patternID := c.registerRegexPattern(srcLit, flagsLit)

	if c.regexGetIgnoreCase(patternID) != 1 {
		t.Fatal("ignore-case flag should be recorded")
	}
	upper := c.InternLiteral("ABC")
	if c.regexTest(patternID, upper) != 1 {
		t.Fatal("case-insensitive pattern should match uppercase input")
	}
}

func TestRegisterRegexPatternGlobalFlag(t *testing.T) {
	c := NewContext()
	srcLit := c.InternLiteral("a")
	flagsLit := c.InternLiteral("g")
	patternID := c.registerRegexPattern(srcLit, flagsLit)
	if c.regexGetGlobal(patternID) != 1 {
		t.Fatal("global flag should be recorded")
	}
}

func TestRegisterRegexPatternInvalidSyntaxDoesNotPanic(t *testing.T) {
	c := NewContext()
	srcLit := c.InternLiteral("(unclosed")
	flagsLit := c.InternLiteral("")
	patternID := c.registerRegexPattern(srcLit, flagsLit)
	input := c.InternLiteral("anything")
	if c.regexTest(patternID, input) != 0 {
		t.Fatal("an unparseable pattern should fall back to matching nothing")
	}
}

func TestRegexGetSourceRoundTrips(t *testing.T) {
	c := NewContext()
	srcLit := c.InternLiteral("hello")
	patternID := c.registerRegexPattern(srcLit, c.InternLiteral(""))
	gotLit := c.regexGetSource(patternID)
	text, ok := c.strings.literalText(gotLit)
	if !ok || text != "hello" {
		t.Fatalf("regex_get_source = %q/%v, want hello/true", text, ok)
	}
}

func TestRegexExecReturnsFirstMatch(t *testing.T) {
	c := NewContext()
	patternID := c.registerRegexPattern(c.InternLiteral(`\d+`), c.InternLiteral(""))
	input := c.InternLiteral("abc123def456")
	gotLit := c.regexExec(patternID, input)
	text, _ := c.strings.literalText(gotLit)
	if text != "123" {
		t.Fatalf("regex_exec = %q, want 123", text)
	}
}

func TestRegexExecNoMatchReturnsZero(t *testing.T) {
	c := NewContext()
	patternID := c.registerRegexPattern(c.InternLiteral(`\d+`), c.InternLiteral(""))
	input := c.InternLiteral("no digits here")
	if c.regexExec(patternID, input) != 0 {
		t.Fatal("regex_exec with no match should return 0")
	}
}

func TestStringReplaceGlobalVsFirstOnly(t *testing.T) {
	c := NewContext()
	input := c.InternLiteral("a-a-a")
	replacement := c.InternLiteral("X")

	firstOnlyPattern := c.registerRegexPattern(c.InternLiteral("a"), c.InternLiteral(""))
	firstOnly := c.stringReplace(input, firstOnlyPattern, replacement)
	firstText, _ := c.strings.literalText(firstOnly)
	if firstText != "X-a-a" {
		t.Fatalf("non-global replace = %q, want X-a-a", firstText)
	}

	globalPattern := c.registerRegexPattern(c.InternLiteral("a"), c.InternLiteral("g"))
	all := c.stringReplace(input, globalPattern, replacement)
	allText, _ := c.strings.literalText(all)
	if allText != "X-X-X" {
		t.Fatalf("global replace = %q, want X-X-X", allText)
	}
}

func TestStringSearchReturnsIndexOrMinusOne(t *testing.T) {
	c := NewContext()
	patternID := c.registerRegexPattern(c.InternLiteral("cd"), c.InternLiteral(""))
	found := c.InternLiteral("abcdef")
	if got := c.stringSearch(found, patternID); got != 2 {
		t.Fatalf("string_search = %d, want 2", got)
	}
	notFound := c.InternLiteral("xyz")
	if got := c.stringSearch(notFound, patternID); got != ^uint64(0) {
		t.Fatalf("string_search with no match should return -1 (as uint64), got %d", got)
	}
}

func TestStringSplitOnPattern(t *testing.T) {
	c := NewContext()
	patternID := c.registerRegexPattern(c.InternLiteral(","), c.InternLiteral(""))
	input := c.InternLiteral("a,b,c")
	resultID := c.stringSplit(input, patternID)
	if c.arraySize(resultID) != 3 {
		t.Fatalf("split(\"a,b,c\", \",\") should yield 3 parts, got %d", c.arraySize(resultID))
	}
	part0Lit := c.arrayGet(resultID, 0)
	text, _ := c.strings.literalText(part0Lit)
	if text != "a" {
		t.Fatalf("first split part = %q, want a", text)
	}
}

func TestRegexCreateByIDIsIdentity(t *testing.T) {
	c := NewContext()
	patternID := c.registerRegexPattern(c.InternLiteral("x"), c.InternLiteral(""))
	if c.regexCreateByID(patternID) != patternID {
		t.Fatal("regex_create_by_id should be an identity passthrough")
	}
}
