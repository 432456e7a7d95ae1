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

// abigen scans the runtime package's registerXxx(t map[string]any) methods
// and ABITable itself for `t["name"] = ...` assignments and regenerates
// the sorted symbol list
// runtime/abi_symbols_gen.go exports. It is the direct analogue of the
// teacher's tools/jitgen, which walks SSA to find Declare() call sites
// instead of ast.AssignStmt targets — same idea (derive a static table
// from source, don't hand-maintain it), simpler walk because the shape
// this module needs is "every literal string key ever assigned into an
// ABI table", not an operator's compiled closure.
//
// Two key shapes are recognized: a plain string literal index
// (`t["log_string"] = ...`), and a per-kind loop where the key is built as
// `"prefix_" + kind` inside `for _, kind := range someSlice` and someSlice
// is a package-level `[]string{...}` literal — the shape
// registerTypedArrays uses for the ten typed-array element kinds.
//
// Usage:
//
//	go run ./tools/abigen -pkg ./runtime -out runtime/abi_symbols_gen.go
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

func stringSliceLiterals(files []*ast.File) map[string][]string {
	out := map[string][]string{}
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.VAR {
				continue
			}
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || len(vs.Names) != 1 || len(vs.Values) != 1 {
					continue
				}
				cl, ok := vs.Values[0].(*ast.CompositeLit)
				if !ok {
					continue
				}
				var vals []string
				allStrings := true
				for _, elt := range cl.Elts {
					lit, ok := elt.(*ast.BasicLit)
					if !ok || lit.Kind != token.STRING {
						allStrings = false
						break
					}
					vals = append(vals, strings.Trim(lit.Value, `"`))
				}
				if allStrings && len(vals) > 0 {
					out[vs.Names[0].Name] = vals
				}
			}
		}
	}
	return out
}

func main() {
	pkgDir := flag.String("pkg", "./runtime", "package directory to scan")
	out := flag.String("out", "runtime/abi_symbols_gen.go", "output file")
	flag.Parse()

	cfg := &packages.Config{
		Mode: packages.NeedFiles | packages.NeedSyntax | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, *pkgDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abigen: load %s: %v\n", *pkgDir, err)
		os.Exit(1)
	}
	if len(pkgs) == 0 || len(pkgs[0].Errors) > 0 {
		fmt.Fprintf(os.Stderr, "abigen: no usable package at %s\n", *pkgDir)
		os.Exit(1)
	}

	names := map[string]bool{}
	for _, pkg := range pkgs {
		sliceLits := stringSliceLiterals(pkg.Syntax)

		for _, f := range pkg.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				fn, ok := n.(*ast.FuncDecl)
				if !ok || !(strings.HasPrefix(fn.Name.Name, "register") || fn.Name.Name == "ABITable") {
					return true
				}
				// loopVar -> slice-of-string-literals values, for the
				// `for _, kind := range typedArrayKinds` shape.
				loopVals := map[string][]string{}
				ast.Inspect(fn, func(n ast.Node) bool {
					rs, ok := n.(*ast.RangeStmt)
					if !ok {
						return true
					}
					ident, ok := rs.Value.(*ast.Ident)
					if !ok {
						return true
					}
					sliceIdent, ok := rs.X.(*ast.Ident)
					if !ok {
						return true
					}
					if vals, ok := sliceLits[sliceIdent.Name]; ok {
						loopVals[ident.Name] = vals
					}
					return true
				})

				ast.Inspect(fn, func(n ast.Node) bool {
					assign, ok := n.(*ast.AssignStmt)
					if !ok {
						return true
					}
					for _, lhs := range assign.Lhs {
						idx, ok := lhs.(*ast.IndexExpr)
						if !ok {
							continue
						}
						switch key := idx.Index.(type) {
						case *ast.BasicLit:
							if key.Kind == token.STRING {
								names[strings.Trim(key.Value, `"`)] = true
							}
						case *ast.BinaryExpr:
							if key.Op != token.ADD {
								continue
							}
							prefixLit, ok := key.X.(*ast.BasicLit)
							if !ok || prefixLit.Kind != token.STRING {
								continue
							}
							ident, ok := key.Y.(*ast.Ident)
							if !ok {
								continue
							}
							prefix := strings.Trim(prefixLit.Value, `"`)
							for _, suffix := range loopVals[ident.Name] {
								names[prefix+suffix] = true
							}
						}
					}
					return true
				})
				return true
			})
		}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString("// Code generated by tools/abigen. DO NOT EDIT.\n\n")
	sb.WriteString("package runtime\n\n")
	sb.WriteString("// ABISymbolNames lists every ABI symbol name the Context's register*\n")
	sb.WriteString("// methods and ABITable() itself publish, sorted. Used by abi_test.go to catch a\n")
	sb.WriteString("// registerXxx method that was added but never wired into ABITable, or a\n")
	sb.WriteString("// symbol renamed in one place and not the other.\n")
	sb.WriteString("var ABISymbolNames = []string{\n")
	for _, n := range sorted {
		fmt.Fprintf(&sb, "\t%q,\n", n)
	}
	sb.WriteString("}\n")

	if err := os.WriteFile(*out, []byte(sb.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "abigen: write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "abigen: wrote %d symbols to %s\n", len(sorted), *out)
}
