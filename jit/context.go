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

import "github.com/jtolds/gls"

// compileMgr tags the goroutine-local slot carrying the "current break
// target" label and the "current compiler" pointer that spec.md §5/§9
// call out as the only thread-locals touched during compilation. Using
// gls instead of a bare mutable global directly resolves the §9 design
// note ("Current compiler global... should be a parameter passed through
// the code-generation call tree, not a mutable global") for the one
// piece of state (break targets nest with switch/for scoping) that is
// genuinely awkward to thread through every AST-node generator
// signature; everything else (TypeInference, ClassRegistry, Emitter) is
// passed explicitly as a parameter, per that same note.
var compileMgr = gls.NewContextManager()

const glsKeyBreakTarget = "tsjit.breakTarget"
const glsKeyCompiler = "tsjit.compiler"

// WithBreakTarget runs fn with label pushed as the current break target,
// restoring whatever was set before on return — mirrors spec.md §4.6's
// "thread-local current break target cell that is saved/restored around
// each switch [or loop]".
func WithBreakTarget(label string, fn func()) {
	compileMgr.SetValues(gls.Values{glsKeyBreakTarget: label}, fn)
}

// CurrentBreakTarget returns the innermost break target, or ("", false)
// if break appears outside any loop/switch. The parser does not reject
// such a break; genStmt emits no code for it.
func CurrentBreakTarget() (string, bool) {
	v, ok := compileMgr.GetValue(glsKeyBreakTarget)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// WithCompiler scopes the "current compiler" pointer (spec.md §9). The
// code generators take the compiler from their frame and do not call
// CurrentCompiler.
func WithCompiler(c *Compiler, fn func()) {
	compileMgr.SetValues(gls.Values{glsKeyCompiler: c}, fn)
}

// CurrentCompiler returns the compiler bound by the innermost WithCompiler,
// or nil if code generation is somehow invoked outside of one (a
// programmer error — every entry point in compiler.go wraps itself).
func CurrentCompiler() *Compiler {
	v, ok := compileMgr.GetValue(glsKeyCompiler)
	if !ok {
		return nil
	}
	return v.(*Compiler)
}
