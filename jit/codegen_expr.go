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

import "math"

// genExpr emits code for e, leaving its result in RAX. ResultType must
// already be assigned (InferExpr runs ahead of genExpr at every
// statement boundary; genExpr itself never mutates ResultType).
func (f *frame) genExpr(e Expr) {
	switch n := e.(type) {
	case *NumberLit:
		f.em.MovRegImm64(RAX, math.Float64bits(n.Value))
	case *StringLit:
		f.genStringLit(n)
	case *BoolLit:
		if n.Value {
			f.em.MovRegImm64(RAX, 1)
		} else {
			f.em.MovRegImm64(RAX, 0)
		}
	case *NullLit:
		f.em.MovRegImm64(RAX, 0)
	case *RegexLit:
		f.genRegexLit(n)
	case *Identifier:
		f.genIdentifier(n)
	case *ThisExpr:
		f.em.LoadBP(RAX, -8)
	case *BinaryOp:
		f.genBinaryOp(n)
	case *Ternary:
		f.genTernary(n)
	case *FunctionCall:
		f.genFunctionCall(n)
	case *MethodCall:
		f.genMethodCall(n)
	case *ExprMethodCall:
		f.genExprMethodCall(n)
	case *PropertyAccess:
		f.genPropertyAccess(n)
	case *ExprPropertyAccess:
		f.genExpr(n.Object)
	case *ArrayLit:
		f.genArrayLit(n)
	case *ObjectLit:
		f.genObjectLit(n)
	case *TypedArrayLit:
		f.genTypedArrayLit(n)
	case *ArrayAccess:
		f.genArrayAccess(n)
	case *Assignment:
		f.genAssignment(n)
	case *PropertyAssignment:
		f.genPropertyAssignment(n)
	case *PostfixOp:
		f.genPostfixOp(n)
	case *NewExpr:
		f.genNewExpr(n)
	case *SuperCall:
		f.genSuperCall(n)
	case *SuperMethodCall:
		f.genSuperMethodCall(n)
	case *FunctionExpr:
		f.genFunctionExprRef(n)
	default:
		f.em.MovRegImm64(RAX, 0)
	}
}

func (f *frame) genStringLit(n *StringLit) {
	if n.Value == "" {
		f.em.Call("strings_create_empty")
		return
	}
	off := f.internString(n.Value)
	f.em.LoadBP(RDI, off)
	f.em.Call("strings_from_literal_id")
}

// internString registers s in the runtime's literal pool at compile time
// (jit.Compiler.InternLiteral, backed by the "__intern_literal" hook) and
// stashes the returned stable ID in a fresh stack slot, so later uses
// just reload the ID instead of re-registering the bytes. Equal string
// literals that appear more than once in one function — or in the whole
// compilation unit, since the pool itself dedups — share a slot/ID
// (spec.md §8's `intern(s) == intern(s)` round-trip).
func (f *frame) internString(s string) int32 {
	key := "__strlit_" + s
	if off, ok := f.ti.OffsetOf(key); ok {
		return off
	}
	id := f.c.InternLiteral(s)
	off := f.ti.AllocateVariable(key, TypeString)
	f.em.MovRegImm64(RDI, uint64(id))
	f.em.StoreBP(RDI, off)
	return off
}

// genRegexLit implements spec.md §4.6: register the pattern bytes in the
// runtime's pattern registry (returns a monotonic ID), then construct
// the regex object from that ID.
func (f *frame) genRegexLit(n *RegexLit) {
	patOff := f.internString(n.Pattern)
	flagOff := f.internString(n.Flags)
	f.em.LoadBP(RDI, patOff)
	f.em.LoadBP(RSI, flagOff)
	f.em.Call("register_regex_pattern")
	f.em.MovRegReg(RDI, RAX)
	f.em.Call("regex_create_by_id")
}

func (f *frame) genIdentifier(n *Identifier) {
	if off, ok := f.ti.OffsetOf(n.Name); ok {
		f.em.LoadBP(RAX, off)
		return
	}
	if fi, ok := f.c.Funcs.ByName(n.Name); ok {
		f.em.MovRegImm64(RAX, uint64(fi.ID))
		return
	}
	f.em.MovRegImm64(RAX, 0)
}

func (f *frame) genFunctionExprRef(n *FunctionExpr) {
	fi, ok := f.c.Funcs.ByName(n.Name)
	if !ok {
		f.em.MovRegImm64(RAX, 0)
		return
	}
	f.em.MovRegImm64(RAX, uint64(fi.ID))
}

func (f *frame) genTernary(n *Ternary) {
	elseLabel := f.newLabel("ternelse")
	endLabel := f.newLabel("ternend")
	f.genCondJumpFalse(n.Cond, elseLabel)
	f.genExpr(n.Then)
	f.em.Jmp(endLabel)
	f.em.DefineLabel(elseLabel)
	f.genExpr(n.Else)
	f.em.DefineLabel(endLabel)
}

// genBinaryOp implements spec.md §4.6: evaluate left, push, evaluate
// right, move right into RCX, pop left back into RAX, combine. Short-circuit &&/|| use forward
// labels instead. Unary forms (Left == nil) evaluate only Right.
func (f *frame) genBinaryOp(n *BinaryOp) {
	if n.Left == nil {
		f.genExpr(n.Right)
		switch n.Op {
		case "-":
			f.em.MovRegImm64(RCX, 0)
			f.em.SubRegReg(RCX, RAX)
			f.em.MovRegReg(RAX, RCX)
		case "!":
			f.em.MovRegImm64(RCX, 0)
			f.em.CmpRegReg(RAX, RCX)
			f.em.SetCC(RAX, CondEqual)
		}
		return
	}

	switch n.Op {
	case "&&":
		falseLabel := f.newLabel("andfalse")
		endLabel := f.newLabel("andend")
		f.genCondJumpFalse(n.Left, falseLabel)
		f.genCondJumpFalse(n.Right, falseLabel)
		f.em.MovRegImm64(RAX, 1)
		f.em.Jmp(endLabel)
		f.em.DefineLabel(falseLabel)
		f.em.MovRegImm64(RAX, 0)
		f.em.DefineLabel(endLabel)
		return
	case "||":
		trueLabel := f.newLabel("ortrue")
		endLabel := f.newLabel("orend")
		f.genExpr(n.Left)
		f.em.MovRegImm64(RCX, 0)
		f.em.CmpRegReg(RAX, RCX)
		f.em.JmpIfCond(trueLabel, CondNotEqual)
		f.genExpr(n.Right)
		f.em.MovRegImm64(RCX, 0)
		f.em.CmpRegReg(RAX, RCX)
		f.em.JmpIfCond(trueLabel, CondNotEqual)
		f.em.MovRegImm64(RAX, 0)
		f.em.Jmp(endLabel)
		f.em.DefineLabel(trueLabel)
		f.em.MovRegImm64(RAX, 1)
		f.em.DefineLabel(endLabel)
		return
	}

	leftType := n.Left.GetResultType()
	rightType := n.Right.GetResultType()

	if leftType == TypeClassInstance {
		if className, ok := f.classInstanceName(n.Left); ok {
			if ci, ok := f.c.Classes.Get(className); ok {
				if decl := ci.ResolveOperator(n.Op, []Type{rightType}); decl != nil {
					f.genExpr(n.Left)
					f.em.Push(RAX)
					f.genExpr(n.Right)
					f.em.MovRegReg(RSI, RAX)
					f.em.Pop(RDI)
					f.em.Call(operatorLabel(className, n.Op, signatureOf(decl.Params)))
					return
				}
			}
		}
	}

	f.genExpr(n.Left)
	f.em.Push(RAX)
	f.genExpr(n.Right)
	f.em.MovRegReg(RCX, RAX)
	f.em.Pop(RAX)

	switch n.Op {
	case "+":
		if leftType == TypeString || rightType == TypeString {
			f.em.MovRegReg(RDI, RAX)
			f.em.MovRegReg(RSI, RCX)
			switch {
			case leftType == TypeString && rightType == TypeString:
				f.em.Call("strings_concat")
			case leftType == TypeString:
				f.em.Call("strings_concat_cstr")
			default:
				f.em.Call("strings_concat_cstr_left")
			}
			return
		}
		f.em.AddRegReg(RAX, RCX)
	case "-":
		f.em.SubRegReg(RAX, RCX)
	case "*":
		f.em.MulRegReg(RAX, RCX)
	case "/":
		f.em.MovRegReg(RDI, RAX)
		f.em.MovRegReg(RSI, RCX)
		f.em.Call("runtime_div")
	case "%":
		f.em.MovRegReg(RDI, RAX)
		f.em.MovRegReg(RSI, RCX)
		f.em.Call("runtime_modulo")
	case "**":
		f.em.MovRegReg(RDI, RAX)
		f.em.MovRegReg(RSI, RCX)
		f.em.Call("runtime_pow")
	case "==", "===":
		f.genEquality(n, leftType, rightType, CondEqual)
	case "!=", "!==":
		f.genEquality(n, leftType, rightType, CondNotEqual)
	case "<":
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, CondLess)
	case ">":
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, CondGreater)
	case "<=":
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, CondLessEq)
	case ">=":
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, CondGreaterEq)
	}
}

// classInstanceName returns the class name backing e's runtime value, for
// the cases the code generator can resolve at compile time without a
// full dataflow pass: a variable bound to a class via TypeInference, an
// implicit `this`, or a fresh `new C(...)` used directly as an operand.
// Anything else (e.g. the result of a method call) can't be resolved
// this way, so operator dispatch falls back to the name-mangled default.
func (f *frame) classInstanceName(e Expr) (string, bool) {
	switch n := e.(type) {
	case *Identifier:
		return f.ti.ClassNameOf(n.Name)
	case *ThisExpr:
		if f.className == "" {
			return "", false
		}
		return f.className, true
	case *NewExpr:
		return n.ClassName, true
	default:
		return "", false
	}
}

// genEquality uses a direct cmp+setcc when both operand types are
// statically known; otherwise it calls the runtime_js_equal helper,
// per spec.md §4.6.
func (f *frame) genEquality(n *BinaryOp, leftType, rightType Type, cond Cond) {
	if leftType != TypeUnknown && rightType != TypeUnknown {
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, cond)
		return
	}
	f.em.MovRegReg(RDI, RAX)
	f.em.MovRegImm64(RSI, uint64(leftType))
	f.em.MovRegReg(RDX, RCX)
	f.em.MovRegImm64(RCX, uint64(rightType))
	f.em.Call("runtime_js_equal")
	if cond == CondNotEqual {
		f.em.MovRegImm64(RCX, 0)
		f.em.CmpRegReg(RAX, RCX)
		f.em.SetCC(RAX, CondEqual)
	}
}

// genFunctionCall implements spec.md §4.6: goroutine calls push an
// on-stack argument array and call the spawn helper; regular calls use
// the first six argument registers (overflow spills to the stack);
// awaited calls insert a promise-await helper after the call returns.
func (f *frame) genFunctionCall(n *FunctionCall) {
	if n.IsGoroutine {
		f.genGoroutineSpawn(n.Callee, n.Args)
		return
	}

	f.evalArgsIntoRegs(n.Args)
	if fi, ok := f.c.Funcs.ByName(n.Callee); ok {
		f.em.Call(fi.Name)
	} else if off, ok := f.ti.OffsetOf(n.Callee); ok && f.ti.varType[n.Callee] == TypeFunction {
		f.em.LoadBP(RDI, off)
		f.em.Call("lookup_function_by_id")
		f.em.CallIndirect(RAX)
	} else {
		f.em.Call(n.Callee)
	}

	if n.IsAwaited {
		f.em.MovRegReg(RDI, RAX)
		f.em.Call("promise_await")
	}
}

// evalArgsIntoRegs evaluates arguments leftmost-first; the first six go
// into the SysV integer argument registers, the rest are pushed in
// reverse order (spec.md §4.6).
func (f *frame) evalArgsIntoRegs(args []Expr) {
	n := len(args)
	tmpOffs := make([]int32, n)
	for i, a := range args {
		f.genExpr(a)
		off := f.ti.AllocateVariable(f.newLabel("__arg"), TypeUnknown)
		f.em.StoreBP(RAX, off)
		tmpOffs[i] = off
	}
	for i := n - 1; i >= 6; i-- {
		f.em.LoadBP(RAX, tmpOffs[i])
		f.em.Push(RAX)
	}
	for i := 0; i < n && i < 6; i++ {
		f.em.LoadBP(ArgRegs[i], tmpOffs[i])
	}
}

func (f *frame) genGoroutineSpawn(callee string, args []Expr) {
	for i := len(args) - 1; i >= 0; i-- {
		f.genExpr(args[i])
		f.em.Push(RAX)
	}
	off := f.internString(callee)
	f.em.LoadBP(RDI, off)
	f.em.MovRegImm64(RSI, uint64(len(args)))
	f.em.Call("goroutine_spawn_with_args")
}

// genMethodCall dispatches by (object, method) name per spec.md §4.6:
// console.log has a bespoke per-argument path; statics on Array/Promise
// are intercepted by name; everything else lowers to __method_<name>
// with the object ID in RDI.
func (f *frame) genMethodCall(n *MethodCall) {
	if n.ObjectName == "console" {
		f.genConsoleCall(n.MethodName, n.Args)
		return
	}
	if n.ObjectName == "Promise" && n.MethodName == "all" {
		f.genPromiseAll(n.Args)
		return
	}
	if n.ObjectName == "Array" {
		f.genArrayStatic(n.MethodName, n.Args)
		return
	}

	if off, ok := f.ti.OffsetOf(n.ObjectName); ok {
		f.evalArgsIntoRegsShifted(n.Args)
		f.em.LoadBP(RDI, off)
		className, _ := f.ti.ClassNameOf(n.ObjectName)
		f.em.Call(methodLabel(className, n.MethodName))
		if n.IsAwaited {
			f.em.MovRegReg(RDI, RAX)
			f.em.Call("promise_await")
		}
		return
	}
	f.em.Call("__static_" + n.ObjectName + "_" + n.MethodName)
}

func (f *frame) genExprMethodCall(n *ExprMethodCall) {
	f.genExpr(n.Object)
	off := f.ti.AllocateVariable(f.newLabel("__recv"), TypeUnknown)
	f.em.StoreBP(RAX, off)
	f.evalArgsIntoRegsShifted(n.Args)
	f.em.LoadBP(RDI, off)
	f.em.Call("__method_dynamic_" + n.MethodName)
	if n.IsAwaited {
		f.em.MovRegReg(RDI, RAX)
		f.em.Call("promise_await")
	}
}

// evalArgsIntoRegsShifted is evalArgsIntoRegs but reserves ArgRegs[0] for
// a receiver the caller loads afterward (instance/method dispatch).
func (f *frame) evalArgsIntoRegsShifted(args []Expr) {
	n := len(args)
	tmpOffs := make([]int32, n)
	for i, a := range args {
		f.genExpr(a)
		off := f.ti.AllocateVariable(f.newLabel("__arg"), TypeUnknown)
		f.em.StoreBP(RAX, off)
		tmpOffs[i] = off
	}
	for i := n - 1; i >= 5; i-- {
		f.em.LoadBP(RAX, tmpOffs[i])
		f.em.Push(RAX)
	}
	for i := 0; i < n && i < 5; i++ {
		f.em.LoadBP(ArgRegs[i+1], tmpOffs[i])
	}
}

func (f *frame) genConsoleCall(method string, args []Expr) {
	switch method {
	case "log":
		for i, a := range args {
			if i > 0 {
				f.em.Call("log_space")
			}
			f.genExpr(a)
			f.em.MovRegReg(RDI, RAX)
			switch a.GetResultType() {
			case TypeString:
				f.em.Call("log_string")
			case TypeFloat64, TypeInt64, TypeInt32, TypeInt16, TypeInt8,
				TypeUint64, TypeUint32, TypeUint16, TypeUint8, TypeBool:
				f.em.Call("log_number")
			case TypeArray, TypeTypedArray:
				f.em.Call("log_array")
			case TypeClassInstance:
				f.em.Call("log_object")
			default:
				f.em.Call("log_auto")
			}
		}
		f.em.Call("log_newline")
	case "time":
		f.evalArgsIntoRegs(args)
		f.em.Call("console_time")
	case "timeEnd":
		f.evalArgsIntoRegs(args)
		f.em.Call("console_timeEnd")
	}
}

func (f *frame) genPromiseAll(args []Expr) {
	f.evalArgsIntoRegs(args)
	f.em.Call("promise_all")
}

func (f *frame) genArrayStatic(method string, args []Expr) {
	f.evalArgsIntoRegs(args)
	f.em.Call("simple_array_" + method)
}

func (f *frame) genPropertyAccess(n *PropertyAccess) {
	if n.ObjectName == "this" {
		f.genThisFieldAccess(n.Property)
		return
	}
	if className, ok := f.ti.ClassNameOf(n.ObjectName); ok {
		if ci, ok := f.c.Classes.Get(className); ok {
			if idx, ok := ci.FieldIndex(n.Property); ok {
				off, _ := f.ti.OffsetOf(n.ObjectName)
				f.em.LoadBP(RDI, off)
				f.em.MovRegImm64(RSI, uint64(idx))
				f.em.Call("object_get_property")
				return
			}
		}
	}
	off := f.internString(n.ObjectName)
	f.em.LoadBP(RDI, off)
	soff := f.internString(n.Property)
	f.em.LoadBP(RSI, soff)
	f.em.Call("static_get_property")
}

func (f *frame) genThisFieldAccess(property string) {
	if f.className != "" {
		if ci, ok := f.c.Classes.Get(f.className); ok {
			if idx, ok := ci.FieldIndex(property); ok {
				f.em.LoadBP(RDI, -8)
				f.em.MovRegImm64(RSI, uint64(idx))
				f.em.Call("object_get_property")
				return
			}
		}
	}
	f.em.LoadBP(RDI, -8)
	soff := f.internString(property)
	f.em.LoadBP(RSI, soff)
	f.em.Call("object_get_property_name")
}

func (f *frame) genArrayLit(n *ArrayLit) {
	f.em.MovRegImm64(RDI, uint64(len(n.Elements)))
	f.em.Call("array_create")
	arrOff := f.ti.AllocateVariable(f.newLabel("__arrlit"), TypeArray)
	f.em.StoreBP(RAX, arrOff)
	for _, el := range n.Elements {
		f.genExpr(el)
		f.em.MovRegReg(RSI, RAX)
		f.em.LoadBP(RDI, arrOff)
		f.em.Call("array_push")
	}
	f.em.LoadBP(RAX, arrOff)
}

func (f *frame) genObjectLit(n *ObjectLit) {
	f.em.MovRegImm64(RDI, uint64(len(n.Entries)))
	f.em.Call("object_create_literal")
	objOff := f.ti.AllocateVariable(f.newLabel("__objlit"), TypeUnknown)
	f.em.StoreBP(RAX, objOff)
	for i, kv := range n.Entries {
		f.genExpr(kv.Value)
		f.em.MovRegReg(RDX, RAX)
		f.em.LoadBP(RDI, objOff)
		f.em.MovRegImm64(RSI, uint64(i))
		f.em.Call("object_set_property")
		soff := f.internString(kv.Key)
		f.em.LoadBP(RDI, objOff)
		f.em.MovRegImm64(RSI, uint64(i))
		f.em.LoadBP(RDX, soff)
		f.em.Call("object_set_property_name")
	}
	f.em.LoadBP(RAX, objOff)
}

func typedArraySuffix(t Type) string {
	switch t {
	case TypeInt8:
		return "i8"
	case TypeInt16:
		return "i16"
	case TypeInt32:
		return "i32"
	case TypeInt64:
		return "i64"
	case TypeUint8:
		return "u8"
	case TypeUint16:
		return "u16"
	case TypeUint32:
		return "u32"
	case TypeUint64:
		return "u64"
	case TypeFloat32:
		return "f32"
	default:
		return "f64"
	}
}

func (f *frame) genTypedArrayLit(n *TypedArrayLit) {
	suf := typedArraySuffix(n.ElemType)
	f.em.MovRegImm64(RDI, uint64(len(n.Elements)))
	f.em.Call("typedarray_create_" + suf)
	arrOff := f.ti.AllocateVariable(f.newLabel("__talit"), TypeTypedArray)
	f.em.StoreBP(RAX, arrOff)
	for _, el := range n.Elements {
		f.genExpr(el)
		f.em.MovRegReg(RSI, RAX)
		f.em.LoadBP(RDI, arrOff)
		f.em.Call("typedarray_push_" + suf)
	}
	f.em.LoadBP(RAX, arrOff)
}

func (f *frame) genArrayAccess(n *ArrayAccess) {
	objType := n.Object.GetResultType()
	f.genExpr(n.Object)
	objOff := f.ti.AllocateVariable(f.newLabel("__aaobj"), TypeUnknown)
	f.em.StoreBP(RAX, objOff)

	if n.IsSlice {
		f.genSliceAccess(n.Slice, objOff)
		return
	}

	// spec.md §4.6: array access on a class instance dispatches through
	// operator[] overload resolution (exact parameter-type match, then
	// an any-typed fallback) before ever falling back to the generic
	// array accessor.
	if objType == TypeClassInstance {
		if className, ok := f.classInstanceName(n.Object); ok {
			if ci, ok := f.c.Classes.Get(className); ok {
				indexType := n.Index.GetResultType()
				if decl := ci.ResolveOperator(indexOperator, []Type{indexType}); decl != nil {
					f.genExpr(n.Index)
					f.em.MovRegReg(RSI, RAX)
					f.em.LoadBP(RDI, objOff)
					f.em.Call(operatorLabel(className, indexOperator, signatureOf(decl.Params)))
					return
				}
			}
		}
	}

	f.genExpr(n.Index)
	f.em.MovRegReg(RSI, RAX)
	f.em.LoadBP(RDI, objOff)
	switch objType {
	case TypeTypedArray:
		f.em.Call("typedarray_get_auto")
	case TypeArray:
		f.em.Call("array_get")
	default:
		f.em.Call("array_get")
	}
}

func (f *frame) genSliceAccess(s *SliceExpr, objOff int32) {
	if s.StartSpecified {
		f.genExpr(s.Start)
	} else {
		f.em.MovRegImm64(RAX, 0)
	}
	startOff := f.ti.AllocateVariable(f.newLabel("__slstart"), TypeInt64)
	f.em.StoreBP(RAX, startOff)

	if s.EndSpecified {
		f.genExpr(s.End)
	} else {
		f.em.MovRegImm64(RAX, math.MaxInt64)
	}
	endOff := f.ti.AllocateVariable(f.newLabel("__slend"), TypeInt64)
	f.em.StoreBP(RAX, endOff)

	if s.StepSpecified {
		f.genExpr(s.Step)
	} else {
		f.em.MovRegImm64(RAX, 1)
	}

	f.em.MovRegReg(RCX, RAX)
	f.em.LoadBP(RDX, endOff)
	f.em.LoadBP(RSI, startOff)
	f.em.LoadBP(RDI, objOff)
	f.em.Call("simple_array_slice")
}

// genAssignment evaluates the value and stores it into the target
// variable's slot (allocated on first assignment by InferExpr's
// AllocateVariable call).
func (f *frame) genAssignment(n *Assignment) {
	f.genExpr(n.Value)
	off, ok := f.ti.OffsetOf(n.Target)
	if !ok {
		off = f.ti.AllocateVariable(n.Target, n.Value.GetResultType())
	}
	f.em.StoreBP(RAX, off)
}

// genPropertyAssignment implements `this.x = v` / `obj.x = v`: resolve
// the field index against the bound class, then call object_set_property.
func (f *frame) genPropertyAssignment(n *PropertyAssignment) {
	f.genExpr(n.Value)
	valOff := f.ti.AllocateVariable(f.newLabel("__passignval"), TypeUnknown)
	f.em.StoreBP(RAX, valOff)

	var objOff int32
	var className string
	if n.IsThis {
		objOff = -8
		className = f.className
	} else {
		f.genExpr(n.Object)
		objOff = f.ti.AllocateVariable(f.newLabel("__passignobj"), TypeUnknown)
		f.em.StoreBP(RAX, objOff)
	}

	if ci, ok := f.c.Classes.Get(className); ok {
		if idx, ok := ci.FieldIndex(n.Property); ok {
			f.em.LoadBP(RDX, valOff)
			f.em.MovRegImm64(RSI, uint64(idx))
			f.em.LoadBP(RDI, objOff)
			f.em.Call("object_set_property")
			f.em.LoadBP(RAX, valOff)
			return
		}
	}
	soff := f.internString(n.Property)
	f.em.LoadBP(RDX, valOff)
	f.em.LoadBP(RSI, soff)
	f.em.LoadBP(RDI, objOff)
	f.em.Call("object_set_property_name")
	f.em.LoadBP(RAX, valOff)
}

func (f *frame) genPostfixOp(n *PostfixOp) {
	off, _ := f.ti.OffsetOf(n.Target)
	f.em.LoadBP(RAX, off)
	f.em.MovRegReg(RCX, RAX)
	f.em.MovRegImm64(RAX, math.Float64bits(1))
	if n.Op == "--" {
		f.em.SubRegReg(RCX, RAX)
	} else {
		f.em.AddRegReg(RCX, RAX)
	}
	f.em.StoreBP(RCX, off)
	f.em.LoadBP(RAX, off)
}

// genNewExpr implements `new C(...)`/`new C{...}` per spec.md §4.6:
// object_create first, save the ID in a fixed slot, evaluate constructor
// arguments, restore the ID into RDI, call __constructor_<C>, then
// reload the ID as the expression's result.
func (f *frame) genNewExpr(n *NewExpr) {
	ci, hasClass := f.c.Classes.Get(n.ClassName)
	fieldCount := 0
	if hasClass {
		fieldCount = len(ci.Fields)
	}
	classOff := f.internString(n.ClassName)
	f.em.LoadBP(RDI, classOff)
	f.em.MovRegImm64(RSI, uint64(fieldCount))
	f.em.Call("object_create")
	idOff := f.ti.AllocateVariable(f.newLabel("__newid"), TypeClassInstance)
	f.em.StoreBP(RAX, idOff)

	if n.IsNamed {
		for i, a := range n.NamedArgs {
			f.genExpr(a.Value)
			if hasClass {
				if idx, ok := ci.FieldIndex(a.Name); ok {
					f.em.MovRegReg(RDX, RAX)
					f.em.MovRegImm64(RSI, uint64(idx))
					f.em.LoadBP(RDI, idOff)
					f.em.Call("object_set_property")
					continue
				}
			}
			_ = i
		}
	} else {
		f.evalArgsIntoRegsShifted(n.Args)
		f.em.LoadBP(RDI, idOff)
		f.em.Call(constructorLabel(n.ClassName))
	}
	f.em.LoadBP(RAX, idOff)
}

// genSuperCall implements bare `super(...)`: the parent class's
// constructor is another label in this same compilation unit, so it is
// reached by a direct relative call with the emitter's own label-fixup
// mechanism (spec.md §4.4 shape i, "zero-overhead") rather than through
// the runtime_js ABI — the runtime's super_constructor_call helper is
// kept for ABI completeness (a parent defined outside this compilation
// unit), but an in-unit super call never needs it.
func (f *frame) genSuperCall(n *SuperCall) {
	parent := f.parentClassName()
	if parent == "" {
		f.genSuperCallViaRuntime(n.Args)
		return
	}
	f.evalArgsIntoRegsShifted(n.Args)
	f.em.LoadBP(RDI, -8)
	f.em.Call(constructorLabel(parent))
}

// genSuperCallViaRuntime is the fallback used only when the parent class
// isn't registered in this compilation unit (spec.md §7: malformed
// `super` outside of a class body is already a parse error, so this path
// only fires for a genuinely external parent).
func (f *frame) genSuperCallViaRuntime(args []Expr) {
	f.em.LoadBP(RAX, -8)
	f.em.MovRegReg(RDI, RAX)
	regs := []Reg{RSI, RDX, RCX, R8, R9}
	for i, a := range args {
		if i >= len(regs) {
			break
		}
		f.genExpr(a)
		f.em.MovRegReg(regs[i], RAX)
	}
	f.em.Call("super_constructor_call")
}

func (f *frame) parentClassName() string {
	if f.className == "" {
		return ""
	}
	ci, ok := f.c.Classes.Get(f.className)
	if !ok || !ci.HasParent {
		return ""
	}
	return ci.Parent
}

// genSuperMethodCall implements `super.method(...)`: same direct-label
// reasoning as genSuperCall — the parent's method is a compiled label in
// this unit, addressed directly instead of through a name-mangled
// runtime dispatch helper.
func (f *frame) genSuperMethodCall(n *SuperMethodCall) {
	parent := f.parentClassName()
	f.evalArgsIntoRegsShifted(n.Args)
	f.em.LoadBP(RDI, -8)
	if parent == "" {
		f.em.Call("__method_super_" + n.MethodName)
		return
	}
	f.em.Call(methodLabel(parent, n.MethodName))
}
