package cpu

import "fmt"

// registerName8 names the eight operand-index values CB opcodes and
// the base table's load/ALU groups share, for trace output and
// instruction mnemonics.
var registerName8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// InstructionSetCB holds the 256 CB-prefixed instructions. All eight
// groups (RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL, then BIT/RES/SET times
// eight bits) follow the same opcode & 7 source and opcode>>3 group
// shape, so the table is built once here rather than written out by
// hand 256 times.
var InstructionSetCB [256]Instruction

func init() {
	type cbOp struct {
		name string
		fn   func(c *CPU, v uint8) uint8
	}
	rotateShiftOps := [8]cbOp{
		{"RLC", func(c *CPU, v uint8) uint8 { return c.rotateLeft(v, true) }},
		{"RRC", func(c *CPU, v uint8) uint8 { return c.rotateRight(v, true) }},
		{"RL", func(c *CPU, v uint8) uint8 { return c.rotateLeftThroughCarry(v, true) }},
		{"RR", func(c *CPU, v uint8) uint8 { return c.rotateRightThroughCarry(v, true) }},
		{"SLA", func(c *CPU, v uint8) uint8 { return c.shiftLeft(v) }},
		{"SRA", func(c *CPU, v uint8) uint8 { return c.shiftRightArithmetic(v) }},
		{"SWAP", func(c *CPU, v uint8) uint8 { return c.swap(v) }},
		{"SRL", func(c *CPU, v uint8) uint8 { return c.shiftRightLogical(v) }},
	}

	for group := 0; group < 8; group++ {
		op := rotateShiftOps[group]
		for src := 0; src < 8; src++ {
			opcode := uint8(group<<3 | src)
			srcIndex := uint8(src)
			name := fmt.Sprintf("%s %s", op.name, registerName8[src])
			InstructionSetCB[opcode] = Instruction{name, func(c *CPU) {
				c.write8(srcIndex, op.fn(c, c.read8(srcIndex)))
			}}
		}
	}

	for bit := 0; bit < 8; bit++ {
		for src := 0; src < 8; src++ {
			bitN, srcIndex := uint8(bit), uint8(src)

			biOpcode := uint8(0x40 | bit<<3 | src)
			InstructionSetCB[biOpcode] = Instruction{
				fmt.Sprintf("BIT %d,%s", bit, registerName8[src]),
				func(c *CPU) { c.bitTest(c.read8(srcIndex), bitN) },
			}

			resOpcode := uint8(0x80 | bit<<3 | src)
			InstructionSetCB[resOpcode] = Instruction{
				fmt.Sprintf("RES %d,%s", bit, registerName8[src]),
				func(c *CPU) { c.write8(srcIndex, resetBit(c.read8(srcIndex), bitN)) },
			}

			setOpcode := uint8(0xC0 | bit<<3 | src)
			InstructionSetCB[setOpcode] = Instruction{
				fmt.Sprintf("SET %d,%s", bit, registerName8[src]),
				func(c *CPU) { c.write8(srcIndex, setBit(c.read8(srcIndex), bitN)) },
			}
		}
	}
}
