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

import "fmt"

// TokenKind is a closed enumeration of lexical categories.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokKeyword
	TokNumber
	TokString
	TokRegex
	TokPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "ident"
	case TokKeyword:
		return "keyword"
	case TokNumber:
		return "number"
	case TokString:
		return "string"
	case TokRegex:
		return "regex"
	case TokPunct:
		return "punct"
	default:
		return "?"
	}
}

// Token is the unit the lexer emits. Lexeme holds the raw source text for
// identifiers/keywords/punctuation; for strings it holds the *decoded*
// payload (escapes already resolved), for numbers the decimal text, and
// for regex literals the pattern body (flags are split into RegexFlags).
type Token struct {
	Kind       TokenKind
	Lexeme     string
	RegexFlags string
	Line, Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Col)
}

func (t Token) Is(kind TokenKind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// keywords is the fixed keyword table; anything else lexing as an
// identifier-shaped run of characters is TokIdent.
var keywords = map[string]bool{
	"var": true, "let": true, "const": true,
	"function": true, "return": true, "if": true, "else": true,
	"for": true, "in": true, "switch": true, "case": true, "default": true,
	"break": true, "class": true, "extends": true, "constructor": true,
	"static": true, "public": true, "private": true, "protected": true,
	"new": true, "this": true, "super": true, "true": true, "false": true,
	"null": true, "undefined": true, "go": true, "await": true,
	"import": true, "export": true, "from": true, "as": true, "operator": true,
}

// LexError carries a position so callers can print a source-annotated
// diagnostic, per spec.md §7 ("abort compilation with position").
type LexError struct {
	Msg       string
	Line, Col int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}
