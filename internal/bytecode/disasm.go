package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders every instruction in the chunk, one per line, in the
// `%04d %4d %-20s a b` shape the teacher's disassembler uses: offset,
// source line (`   |` when unchanged from the previous instruction),
// mnemonic and operands.
func Disassemble(c *Chunk, constants *Constants) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", c.Name)
	lastLine := -1
	for offset := 0; offset < len(c.Code); offset++ {
		line := c.GetLine(offset)
		lineCol := "   |"
		if line != lastLine {
			lineCol = fmt.Sprintf("%4d", line)
			lastLine = line
		}
		fmt.Fprintf(&b, "%04d %s %s\n", offset, lineCol, disassembleInstruction(c.Code[offset], offset, constants))
	}
	return b.String()
}

func disassembleInstruction(ins Instruction, offset int, constants *Constants) string {
	switch ins.Op {
	case OpConstant:
		v := constants.Get(ins.A)
		return fmt.Sprintf("%-20s %4d '%s'", ins.Op, ins.A, v.Inspect())
	case OpDefineGlobal, OpGetGlobal, OpSetGlobal, OpGetLocal, OpSetLocal, OpGetNative,
		OpGetProperty, OpCall, OpCreateInstance:
		return fmt.Sprintf("%-20s %4d", ins.Op, ins.A)
	case OpGetGlobalProperty, OpGetLocalProperty, OpSetGlobalProperty, OpSetLocalProperty:
		return fmt.Sprintf("%-20s %4d %4d", ins.Op, ins.A, ins.B)
	case OpJump, OpJumpIfFalse, OpJumpIfTrue:
		target := offset + 1 + ins.A
		return fmt.Sprintf("%-20s %4d -> %d", ins.Op, ins.A, target)
	case OpJumpTo, OpLoop:
		return fmt.Sprintf("%-20s -> %d", ins.Op, ins.A)
	default:
		return ins.Op.String()
	}
}
