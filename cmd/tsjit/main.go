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

// tsjit is the CLI entry point: it reads a source file, JIT-compiles it,
// and invokes the compiled __main. File I/O, module resolution, and the
// source-language surface itself are all the core's job (jit/runtime);
// this binary is the thin external collaborator spec.md §1 and §6 say it
// should be.
package main

import (
	"fmt"
	"os"

	"github.com/launix-de/tsjit/jit"
	"github.com/launix-de/tsjit/runtime"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <source-file>\n", os.Args[0])
		os.Exit(1)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsjit: %s\n", err)
		os.Exit(1)
	}

	ctx := runtime.NewContext()
	exitCode, err := jit.CompileAndRun(string(src), jit.BackendX86, ctx.ABITable())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsjit: %s\n", err)
		os.Exit(1)
	}
	os.Exit(int(exitCode))
}
