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

// frame is the per-function-body code generation context: the emitter,
// this function's TypeInference table, the class it belongs to (empty
// for plain functions), and the frame size its prologue/epilogue must
// agree on (spec.md §8's first invariant).
type frame struct {
	c         *Compiler
	em        Emitter
	ti        *TypeInference
	frameSize int32
	className string // "" for non-methods
	labelSeq  *int
}

func (f *frame) newLabel(prefix string) string {
	*f.labelSeq++
	return fmt.Sprintf("__L_%s_%d", prefix, *f.labelSeq)
}

// compileEntry lays out the compilation unit per spec.md §6: a forward
// jump over every function/method body, landing on __main. Top-level
// statements become __main's body; an implicit `return 0` closes it if
// the source never returns explicitly.
func (c *Compiler) compileEntry(em Emitter, topLevel []Stmt, classDecls []*ClassDecl) int {
	em.Jmp("__main")

	for _, fi := range c.Funcs.CompileOrder() {
		c.compileFunctionExpr(em, fi)
	}
	for _, cd := range classDecls {
		c.compileClassMembers(em, cd)
	}

	em.DefineLabel("__main")
	entryOffset := em.CurrentOffset()

	ti := NewTypeInference()
	frameSize := FrameSize(0, len(topLevel))
	em.Prologue(frameSize)

	seq := 0
	f := &frame{c: c, em: em, ti: ti, frameSize: frameSize, labelSeq: &seq}
	returned := f.genStmts(topLevel)
	if !returned {
		em.MovRegImm64(RAX, 0)
		em.Epilogue(frameSize)
	}
	return entryOffset
}

// compileFunctionExpr implements spec.md §4.5 Phase 2 for one function:
// record the offset, emit the label, prologue, spill the first six
// register arguments into their [-8..-48] stack slots, generate the
// body, and close with an implicit `return 0` if control falls off the
// end.
func (c *Compiler) compileFunctionExpr(em Emitter, fi *FunctionInfo) {
	c.Funcs.CompileFn(fi, func(fi *FunctionInfo) (int, int) {
		offset := em.CurrentOffset()
		em.DefineLabel(fi.Name)

		params := fi.Params()
		body := fi.Body()
		ti := NewTypeInference()
		for i, p := range params {
			ti.BindParam(p.Name, p.Type, i)
		}
		frameSize := FrameSize(len(params), len(body))
		em.Prologue(frameSize)
		spillParams(em, ti, params)

		seq := 0
		f := &frame{c: c, em: em, ti: ti, frameSize: frameSize, labelSeq: &seq}
		returned := f.genStmts(body)
		if !returned {
			em.MovRegImm64(RAX, 0)
			em.Epilogue(frameSize)
		}
		size := em.CurrentOffset() - offset
		return offset, size
	})
}

// spillParams moves the first six SysV integer argument registers into
// their fixed stack slots, per spec.md §4.5's "map argument registers
// into [-8..-48]".
func spillParams(em Emitter, ti *TypeInference, params []Param) {
	for i := range params {
		if i >= 6 {
			break
		}
		off, _ := ti.OffsetOf(params[i].Name)
		em.StoreBP(ArgRegs[i], off)
	}
}

// compileClassMembers compiles a class's constructor, methods, and
// operator overloads. Each gets an implicit `this` object ID bound at
// slot -8 (spec.md §4.6 "Property access... On this, uses the saved
// object ID at the constructor/method's -8 slot"); declared parameters
// shift one slot to account for it.
func (c *Compiler) compileClassMembers(em Emitter, cd *ClassDecl) {
	if ci, ok := c.Classes.Get(cd.Name); ok && ci.Constructor != nil {
		c.compileMember(em, constructorLabel(cd.Name), cd.Name, nil, ci.Constructor.Params, ci.Constructor.Body)
	}
	for _, m := range cd.Methods {
		c.compileMember(em, methodLabel(cd.Name, m.Name), cd.Name, nil, m.Params, m.Body)
	}
	for _, op := range cd.Operators {
		c.compileMember(em, operatorLabel(cd.Name, op.Op, signatureOf(op.Params)), cd.Name, nil, op.Params, op.Body)
	}
}

// indexOperator is the operator-overload key for `obj[i]` on a class
// instance (spec.md §4.6). The parser produces it from adjacent "[" "]"
// tokens right after the `operator` keyword (see parseOperatorOverload).
const indexOperator = "[]"

func constructorLabel(className string) string { return "__constructor_" + className }
func methodLabel(className, method string) string {
	return "__method_" + className + "_" + method
}
func operatorLabel(className, op, sig string) string {
	return "__operator_" + className + "_" + op + "_" + sig
}

func (c *Compiler) compileMember(em Emitter, label, className string, _ *FunctionInfo, params []Param, body []Stmt) {
	em.DefineLabel(label)
	ti := NewTypeInference()
	ti.SetType("this", TypeClassInstance)
	ti.varOffset["this"] = -8
	ti.SetClassName("this", className)
	for i, p := range params {
		ti.BindParam(p.Name, p.Type, i+1)
	}
	frameSize := FrameSize(len(params)+1, len(body))
	em.Prologue(frameSize)
	em.StoreBP(ArgRegs[0], -8)
	for i := range params {
		if i+1 >= 6 {
			break
		}
		off, _ := ti.OffsetOf(params[i].Name)
		em.StoreBP(ArgRegs[i+1], off)
	}

	seq := 0
	f := &frame{c: c, em: em, ti: ti, frameSize: frameSize, className: className, labelSeq: &seq}
	returned := f.genStmts(body)
	if !returned {
		em.MovRegImm64(RAX, 0)
		em.Epilogue(frameSize)
	}
}

// genStmts generates every statement in order, returning true if the
// block is guaranteed to have already executed an explicit return (so
// the caller can skip the implicit `return 0` epilogue).
func (f *frame) genStmts(stmts []Stmt) bool {
	for _, s := range stmts {
		if f.genStmt(s) {
			return true
		}
	}
	return false
}

func (f *frame) genStmt(s Stmt) bool {
	switch n := s.(type) {
	case *ExprStmt:
		InferExpr(n.X, f.ti, f.c.Classes.All())
		f.genExpr(n.X)
		return false
	case *ReturnStmt:
		if n.HasValue {
			InferExpr(n.Value, f.ti, f.c.Classes.All())
			f.genExpr(n.Value)
		} else {
			f.em.MovRegImm64(RAX, 0)
		}
		f.em.Epilogue(f.frameSize)
		return true
	case *BreakStmt:
		if label, ok := CurrentBreakTarget(); ok {
			f.em.Jmp(label)
		}
		return false
	case *BlockStmt:
		return f.genStmts(n.Body)
	case *IfStmt:
		return f.genIf(n)
	case *ForStmt:
		f.genFor(n)
		return false
	case *ForEachStmt:
		f.genForEach(n)
		return false
	case *SwitchStmt:
		f.genSwitch(n)
		return false
	case *FunctionDecl:
		// top-level named function declarations are discovered and
		// compiled like any other FunctionExpr binding; no code is
		// emitted at the declaration site itself.
		return false
	case *ImportStmt, *ExportStmt:
		// module resolution is external (spec.md §1); SPEC_FULL §4 item 2
		// keeps these as accepted no-ops; their specifiers are not checked.
		return false
	default:
		return false
	}
}

func (f *frame) genIf(n *IfStmt) bool {
	InferExpr(n.Cond, f.ti, f.c.Classes.All())
	elseLabel := f.newLabel("else")
	endLabel := f.newLabel("endif")
	f.genCondJumpFalse(n.Cond, elseLabel)
	thenReturned := f.genStmts(n.Then)
	if !thenReturned {
		f.em.Jmp(endLabel)
	}
	f.em.DefineLabel(elseLabel)
	elseReturned := false
	if n.HasElse {
		elseReturned = f.genStmts(n.Else)
	}
	if !thenReturned {
		f.em.DefineLabel(endLabel)
	}
	return thenReturned && elseReturned && n.HasElse
}

// genCondJumpFalse evaluates a boolean-valued condition into RAX and
// jumps to label when it is false (zero).
func (f *frame) genCondJumpFalse(cond Expr, label string) {
	f.genExpr(cond)
	f.em.MovRegImm64(RCX, 0)
	f.em.CmpRegReg(RAX, RCX)
	f.em.JmpIfCond(label, CondEqual)
}

func (f *frame) genFor(n *ForStmt) {
	startLabel := f.newLabel("forstart")
	endLabel := f.newLabel("forend")
	if n.Init != nil {
		f.genStmt(n.Init)
	}
	f.em.DefineLabel(startLabel)
	if n.Cond != nil {
		InferExpr(n.Cond, f.ti, f.c.Classes.All())
		f.genCondJumpFalse(n.Cond, endLabel)
	}
	WithBreakTarget(endLabel, func() {
		f.genStmts(n.Body)
	})
	if n.Update != nil {
		f.genStmt(n.Update)
	}
	f.em.Jmp(startLabel)
	f.em.DefineLabel(endLabel)
}

// genForEach implements spec.md §4.6: two scoped variables (index/key and
// value) walk an array via the typed or generic getter, or an object's
// properties up to its registered count (object_property_count).
func (f *frame) genForEach(n *ForEachStmt) {
	iterType := InferExpr(n.Iterable, f.ti, f.c.Classes.All())
	startLabel := f.newLabel("feachstart")
	endLabel := f.newLabel("feachend")

	idxOff := f.ti.AllocateVariable(n.IndexVar, TypeInt64)
	valOff := f.ti.AllocateVariable(n.ValueVar, TypeUnknown)

	f.genExpr(n.Iterable)
	arrOff := f.ti.AllocateVariable("__feach_arr", TypeUnknown)
	f.em.StoreBP(RAX, arrOff)

	f.em.MovRegImm64(RAX, 0)
	f.em.StoreBP(RAX, idxOff)

	f.em.DefineLabel(startLabel)
	f.em.LoadBP(RAX, idxOff)
	f.em.LoadBP(RCX, arrOff)
	getter := "size"
	if iterType == TypeTypedArray {
		getter = "typedarray_size"
	} else if iterType == TypeArray {
		getter = "array_size"
	} else {
		getter = "object_property_count"
	}
	f.em.MovRegReg(RDI, RCX)
	f.em.Call(getter)
	f.em.MovRegReg(RCX, RAX)
	f.em.LoadBP(RAX, idxOff)
	f.em.CmpRegReg(RAX, RCX)
	f.em.JmpIfCond(endLabel, CondGreaterEq)

	f.em.LoadBP(RDI, arrOff)
	f.em.LoadBP(RSI, idxOff)
	if iterType == TypeTypedArray {
		f.em.Call("typedarray_get_auto")
	} else if iterType == TypeArray {
		f.em.Call("array_get")
	} else {
		f.em.Call("object_get_property")
	}
	f.em.StoreBP(RAX, valOff)

	WithBreakTarget(endLabel, func() {
		f.genStmts(n.Body)
	})

	f.em.LoadBP(RAX, idxOff)
	f.em.MovRegImm64(RCX, 1)
	f.em.AddRegReg(RAX, RCX)
	f.em.StoreBP(RAX, idxOff)
	f.em.Jmp(startLabel)
	f.em.DefineLabel(endLabel)
}

// genSwitch implements spec.md §4.6's case dispatch with real JavaScript/
// C-style fallthrough: a first pass emits every case's comparison, each
// jumping straight to its own label (direct compare when both types are
// known and equal, skipped entirely when known and unequal, a js_equal
// helper call when either side is unknown), followed by one fallback
// jump to default/end. A second pass then emits every case body
// back-to-back with no re-testing, so a case that runs off the end of
// its body without an explicit break falls straight into the next
// case's body instead of re-evaluating its guard.
func (f *frame) genSwitch(n *SwitchStmt) {
	discType := InferExpr(n.Discriminant, f.ti, f.c.Classes.All())
	endLabel := f.newLabel("switchend")

	f.genExpr(n.Discriminant)
	discOff := f.ti.AllocateVariable(f.newLabel("__disc"), discType)
	f.em.StoreBP(RAX, discOff)

	WithBreakTarget(endLabel, func() {
		caseLabels := make([]string, len(n.Cases))
		defaultLabel := ""
		hasDefault := false

		for i, cs := range n.Cases {
			if cs.IsDefault {
				defaultLabel = f.newLabel(fmt.Sprintf("casedefault%d", i))
				caseLabels[i] = defaultLabel
				hasDefault = true
				continue
			}
			caseLabel := f.newLabel(fmt.Sprintf("case%d", i))
			caseLabels[i] = caseLabel
			caseType := InferExpr(cs.Expr, f.ti, f.c.Classes.All())
			switch {
			case discType != TypeUnknown && caseType != TypeUnknown && discType == caseType:
				f.genExpr(cs.Expr)
				f.em.MovRegReg(RCX, RAX)
				f.em.LoadBP(RAX, discOff)
				f.em.CmpRegReg(RAX, RCX)
				f.em.JmpIfCond(caseLabel, CondEqual)
			case discType != TypeUnknown && caseType != TypeUnknown && discType != caseType:
				// never equal; no jump, comparisons continue to the next case.
			default:
				f.em.LoadBP(RDI, discOff)
				f.em.MovRegImm64(RSI, uint64(discType))
				f.genExpr(cs.Expr)
				f.em.MovRegReg(RDX, RAX)
				f.em.MovRegImm64(RCX, uint64(caseType))
				f.em.Call("runtime_js_equal")
				f.em.MovRegImm64(RCX, 0)
				f.em.CmpRegReg(RAX, RCX)
				f.em.JmpIfCond(caseLabel, CondNotEqual)
			}
		}

		if hasDefault {
			f.em.Jmp(defaultLabel)
		} else {
			f.em.Jmp(endLabel)
		}

		for i, cs := range n.Cases {
			f.em.DefineLabel(caseLabels[i])
			f.genStmts(cs.Body)
		}
	})
	f.em.DefineLabel(endLabel)
}
