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

// X86Emitter is the SysV x86-64 encoder. It implements Emitter directly
// as byte sequences (spec.md §4.4: "the emitter does no dataflow, no
// register allocation beyond a fixed convention, and no peephole"),
// following the teacher's jit_emit_amd64.go byte-at-a-time style.
type X86Emitter struct {
	w       *x86Writer
	linker  *Linker
	callSeq int
}

// NewX86Emitter builds an emitter that resolves runtime-helper call
// targets through linker.
func NewX86Emitter(linker *Linker) *X86Emitter {
	return &X86Emitter{w: newX86Writer(), linker: linker}
}

func rex(w, r, x, b bool) byte {
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

func ext(r Reg) bool { return r >= R8 }

func (e *X86Emitter) CurrentOffset() int { return e.w.offset() }

func (e *X86Emitter) MovRegReg(dst, src Reg) {
	e.w.emitByte(rex(true, ext(src), false, ext(dst)))
	e.w.emitBytes(0x89, modrm(3, byte(src), byte(dst)))
}

func (e *X86Emitter) MovRegImm64(dst Reg, imm uint64) {
	e.w.emitByte(rex(true, false, false, ext(dst)))
	e.w.emitByte(0xB8 + byte(dst)&7)
	e.w.emitU64(imm)
}

func (e *X86Emitter) AddRegReg(dst, src Reg) {
	e.w.emitByte(rex(true, ext(src), false, ext(dst)))
	e.w.emitBytes(0x01, modrm(3, byte(src), byte(dst)))
}

func (e *X86Emitter) SubRegReg(dst, src Reg) {
	e.w.emitByte(rex(true, ext(src), false, ext(dst)))
	e.w.emitBytes(0x29, modrm(3, byte(src), byte(dst)))
}

// MulRegReg computes dst = dst * src (signed) via IMUL r64, r/m64.
func (e *X86Emitter) MulRegReg(dst, src Reg) {
	e.w.emitByte(rex(true, ext(dst), false, ext(src)))
	e.w.emitBytes(0x0F, 0xAF, modrm(3, byte(dst), byte(src)))
}

// DivRegReg computes dst = dst / src (signed) via CQO + IDIV. RAX/RDX are
// clobbered by the division and are saved/restored around it unless they
// are themselves one of the operands — in which case the caller is
// expected to have arranged dst == RAX beforehand (the code generator's
// binary-op lowering always evaluates through RAX, see codegen_expr.go).
func (e *X86Emitter) DivRegReg(dst, src Reg) {
	saveRax := dst != RAX && src != RAX
	saveRdx := dst != RDX && src != RDX
	if saveRax {
		e.Push(RAX)
	}
	if saveRdx {
		e.Push(RDX)
	}
	if dst != RAX {
		e.MovRegReg(RAX, dst)
	}
	// CQO: sign-extend RAX into RDX:RAX
	e.w.emitBytes(rex(true, false, false, false), 0x99)
	// IDIV r/m64
	e.w.emitByte(rex(true, false, false, ext(src)))
	e.w.emitBytes(0xF7, modrm(3, 7, byte(src)))
	if dst != RAX {
		e.MovRegReg(dst, RAX)
	}
	if saveRdx {
		e.Pop(RDX)
	}
	if saveRax {
		e.Pop(RAX)
	}
}

func (e *X86Emitter) CmpRegReg(a, b Reg) {
	e.w.emitByte(rex(true, ext(b), false, ext(a)))
	e.w.emitBytes(0x39, modrm(3, byte(b), byte(a)))
}

func (e *X86Emitter) LoadBP(dst Reg, disp int32) {
	e.w.emitByte(rex(true, ext(dst), false, false))
	e.w.emitBytes(0x8B, modrm(2, byte(dst), 5))
	e.w.emitU32(uint32(disp))
}

func (e *X86Emitter) StoreBP(src Reg, disp int32) {
	e.w.emitByte(rex(true, ext(src), false, false))
	e.w.emitBytes(0x89, modrm(2, byte(src), 5))
	e.w.emitU32(uint32(disp))
}

func (e *X86Emitter) LoadSP(dst Reg, disp int32) {
	e.w.emitByte(rex(true, ext(dst), false, false))
	e.w.emitBytes(0x8B, modrm(2, byte(dst), 4), 0x24)
	e.w.emitU32(uint32(disp))
}

func (e *X86Emitter) StoreSP(src Reg, disp int32) {
	e.w.emitByte(rex(true, ext(src), false, false))
	e.w.emitBytes(0x89, modrm(2, byte(src), 4), 0x24)
	e.w.emitU32(uint32(disp))
}

func (e *X86Emitter) Push(src Reg) {
	if ext(src) {
		e.w.emitByte(rex(false, false, false, true))
	}
	e.w.emitByte(0x50 + byte(src)&7)
}

func (e *X86Emitter) Pop(dst Reg) {
	if ext(dst) {
		e.w.emitByte(rex(false, false, false, true))
	}
	e.w.emitByte(0x58 + byte(dst)&7)
}

var condCode = map[Cond]byte{
	CondLess: 0x9C, CondGreaterEq: 0x9D, CondLessEq: 0x9E, CondGreater: 0x9F,
	CondEqual: 0x94, CondNotEqual: 0x95,
}

// SetCC writes 0/1 into dst's full 64 bits: SETcc on the low byte,
// followed by MOVZX to clear the rest (the teacher's equivalent pattern
// lives in jit_emit_amd64.go's boolean materialization helpers).
func (e *X86Emitter) SetCC(dst Reg, cond Cond) {
	op := condCode[cond]
	e.w.emitByte(rex(false, false, false, ext(dst)))
	e.w.emitBytes(0x0F, op, modrm(3, 0, byte(dst)))
	e.w.emitByte(rex(true, ext(dst), false, ext(dst)))
	e.w.emitBytes(0x0F, 0xB6, modrm(3, byte(dst), byte(dst)))
}

func (e *X86Emitter) DefineLabel(name string) { e.w.defineLabel(name) }

func (e *X86Emitter) Jmp(label string) {
	e.w.emitByte(0xE9)
	e.w.emitU32(0)
	e.w.addFixup(label, true)
}

var jccCode = map[Cond]byte{
	CondLess: 0x8C, CondGreaterEq: 0x8D, CondLessEq: 0x8E, CondGreater: 0x8F,
	CondEqual: 0x84, CondNotEqual: 0x85,
}

func (e *X86Emitter) JmpIfCond(label string, cond Cond) {
	e.w.emitBytes(0x0F, jccCode[cond])
	e.w.emitU32(0)
	e.w.addFixup(label, true)
}

// Call resolves name to an absolute address through the Linker. Runtime
// ABI symbols become `mov rax, imm64; call rax`; unresolved names (i.e.
// compiled-but-not-yet-addressed user functions) fall back to a
// relative call with a fixup, per spec.md §4.4's priority order.
func (e *X86Emitter) Call(name string) {
	if addr, ok := e.linker.Resolve(name); ok {
		e.MovRegImm64(RAX, addr)
		e.CallIndirect(RAX)
		return
	}
	e.w.emitByte(0xE8)
	e.w.emitU32(0)
	e.w.addFixup(name, true)
}

func (e *X86Emitter) CallIndirect(reg Reg) {
	if ext(reg) {
		e.w.emitByte(rex(false, false, false, true))
	}
	e.w.emitBytes(0xFF, modrm(3, 2, byte(reg)))
}

// Prologue emits: push rbp; mov rbp,rsp; sub rsp,stackSize.
func (e *X86Emitter) Prologue(stackSize int32) {
	e.Push(RBP)
	e.MovRegReg(RBP, RSP)
	e.w.emitByte(rex(true, false, false, false))
	e.w.emitBytes(0x81, modrm(3, 5, byte(RSP)))
	e.w.emitU32(uint32(stackSize))
}

// Epilogue emits: add rsp,stackSize; pop rbp; ret. Every return path
// restores exactly the allocation the prologue made (spec.md §4.4,
// §8's first invariant).
func (e *X86Emitter) Epilogue(stackSize int32) {
	e.w.emitByte(rex(true, false, false, false))
	e.w.emitBytes(0x81, modrm(3, 0, byte(RSP)))
	e.w.emitU32(uint32(stackSize))
	e.Pop(RBP)
	e.w.emitByte(0xC3)
}

func (e *X86Emitter) Finalize() []byte {
	e.w.resolveFixups()
	return e.w.buf
}
