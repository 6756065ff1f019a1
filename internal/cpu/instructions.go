package cpu

import (
	"fmt"

	"github.com/thelolagemann/gomeboy/internal/registers"
)

// Instruction is one entry of the base or CB-prefixed opcode table.
type Instruction struct {
	name string
	fn   func(*CPU)
}

func disallowedOpcode(opcode uint8) Instruction {
	return Instruction{
		name: fmt.Sprintf("db 0x%02X", opcode),
		fn: func(c *CPU) {
			panic(fmt.Sprintf("cpu: opcode 0x%02X has no encoding on the LR35902 (at 0x%04X)", opcode, c.PC-1))
		},
	}
}

// pairName16 names the four groups LD rr,d16 / INC rr / DEC rr / ADD
// HL,rr address.
var pairName16 = [4]string{"BC", "DE", "HL", "SP"}

// stackName16 is the PUSH/POP variant, AF instead of SP.
var stackName16 = [4]string{"BC", "DE", "HL", "AF"}

// conditionName names the four branch conditions JR/JP/CALL/RET cc
// share.
var conditionName = [4]string{"NZ", "Z", "NC", "C"}

func (c *CPU) condition(group uint8) bool {
	switch group {
	case 0:
		return !c.Reg.Flag(registers.FlagZero)
	case 1:
		return c.Reg.Flag(registers.FlagZero)
	case 2:
		return !c.Reg.Flag(registers.FlagCarry)
	default:
		return c.Reg.Flag(registers.FlagCarry)
	}
}

// InstructionSet holds the 256 base instructions.
var InstructionSet [256]Instruction

func init() {
	for i := range InstructionSet {
		InstructionSet[i] = disallowedOpcode(uint8(i))
	}

	// 8-bit LD r,r' — 0x40-0x7F, except 0x76 which is HALT.
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			opcode := uint8(0x40 | dst<<3 | src)
			if opcode == 0x76 {
				continue
			}
			d, s := uint8(dst), uint8(src)
			InstructionSet[opcode] = Instruction{
				fmt.Sprintf("LD %s,%s", registerName8[dst], registerName8[src]),
				func(c *CPU) { c.write8(d, c.read8(s)) },
			}
		}
	}
	InstructionSet[0x76] = Instruction{"HALT", func(c *CPU) { c.Halt() }}

	// 8-bit ALU A,r — 0x80-0xBF.
	aluOps := [8]struct {
		name string
		fn   func(c *CPU, v uint8)
	}{
		{"ADD A,", func(c *CPU, v uint8) { c.Reg.A = c.add8(c.Reg.A, v, false) }},
		{"ADC A,", func(c *CPU, v uint8) { c.Reg.A = c.add8(c.Reg.A, v, true) }},
		{"SUB ", func(c *CPU, v uint8) { c.Reg.A = c.sub8(c.Reg.A, v, false) }},
		{"SBC A,", func(c *CPU, v uint8) { c.Reg.A = c.sub8(c.Reg.A, v, true) }},
		{"AND ", func(c *CPU, v uint8) { c.Reg.A = c.and8(c.Reg.A, v) }},
		{"XOR ", func(c *CPU, v uint8) { c.Reg.A = c.xor8(c.Reg.A, v) }},
		{"OR ", func(c *CPU, v uint8) { c.Reg.A = c.or8(c.Reg.A, v) }},
		{"CP ", func(c *CPU, v uint8) { c.cp8(c.Reg.A, v) }},
	}
	for group := 0; group < 8; group++ {
		op := aluOps[group]
		for src := 0; src < 8; src++ {
			opcode := uint8(0x80 | group<<3 | src)
			s := uint8(src)
			InstructionSet[opcode] = Instruction{
				op.name + registerName8[src],
				func(c *CPU) { op.fn(c, c.read8(s)) },
			}
		}
	}
	// ... and their immediate forms, 0xC6/0xCE/0xD6/0xDE/0xE6/0xEE/0xF6/0xFE.
	for group := 0; group < 8; group++ {
		op := aluOps[group]
		opcode := uint8(0xC6 | group<<3)
		InstructionSet[opcode] = Instruction{
			op.name + "d8",
			func(c *CPU) { op.fn(c, c.readOperand()) },
		}
	}

	// 8-bit LD r,d8 — 0x06,0x0E,0x16,0x1E,0x26,0x2E,0x36,0x3E.
	for dst := 0; dst < 8; dst++ {
		opcode := uint8(0x06 | dst<<3)
		d := uint8(dst)
		InstructionSet[opcode] = Instruction{
			fmt.Sprintf("LD %s,d8", registerName8[dst]),
			func(c *CPU) { c.write8(d, c.readOperand()) },
		}
	}

	// 8-bit INC/DEC r — 0x04/0x05 + 8*dst.
	for dst := 0; dst < 8; dst++ {
		incOp, decOp := uint8(0x04|dst<<3), uint8(0x05|dst<<3)
		d := uint8(dst)
		InstructionSet[incOp] = Instruction{
			"INC " + registerName8[dst],
			func(c *CPU) { c.write8(d, c.inc8(c.read8(d))) },
		}
		InstructionSet[decOp] = Instruction{
			"DEC " + registerName8[dst],
			func(c *CPU) { c.write8(d, c.dec8(c.read8(d))) },
		}
	}

	// 16-bit LD rr,d16 / INC rr / DEC rr / ADD HL,rr — groups of 4.
	for group := 0; group < 4; group++ {
		g := uint8(group)
		ldOpcode := uint8(0x01 | group<<4)
		incOpcode := uint8(0x03 | group<<4)
		decOpcode := uint8(0x0B | group<<4)
		addOpcode := uint8(0x09 | group<<4)

		InstructionSet[ldOpcode] = Instruction{
			"LD " + pairName16[group] + ",d16",
			func(c *CPU) { c.setPair(g, c.readOperand16()) },
		}
		InstructionSet[incOpcode] = Instruction{
			"INC " + pairName16[group],
			func(c *CPU) { c.setPair(g, c.pair(g)+1); c.internalDelay() },
		}
		InstructionSet[decOpcode] = Instruction{
			"DEC " + pairName16[group],
			func(c *CPU) { c.setPair(g, c.pair(g)-1); c.internalDelay() },
		}
		InstructionSet[addOpcode] = Instruction{
			"ADD HL," + pairName16[group],
			func(c *CPU) { c.addHL(c.pair(g)) },
		}
	}

	// PUSH/POP rr — groups of 4, AF instead of SP at index 3.
	for group := 0; group < 4; group++ {
		g := uint8(group)
		pushOpcode := uint8(0xC5 | group<<4)
		popOpcode := uint8(0xC1 | group<<4)
		InstructionSet[pushOpcode] = Instruction{
			"PUSH " + stackName16[group],
			func(c *CPU) { c.push(c.stackPair(g)) },
		}
		InstructionSet[popOpcode] = Instruction{
			"POP " + stackName16[group],
			func(c *CPU) { c.setStackPair(g, c.pop()) },
		}
	}

	// JR cc,r8 / JP cc,a16 / CALL cc,a16 / RET cc — groups of 4.
	for group := 0; group < 4; group++ {
		g := uint8(group)
		jrOpcode := uint8(0x20 | group<<3)
		jpOpcode := uint8(0xC2 | group<<3)
		callOpcode := uint8(0xC4 | group<<3)
		retOpcode := uint8(0xC0 | group<<3)

		InstructionSet[jrOpcode] = Instruction{
			"JR " + conditionName[group] + ",r8",
			func(c *CPU) {
				offset := int8(c.readOperand())
				if c.condition(g) {
					c.jumpRelative(offset)
				}
			},
		}
		InstructionSet[jpOpcode] = Instruction{
			"JP " + conditionName[group] + ",a16",
			func(c *CPU) {
				addr := c.readOperand16()
				if c.condition(g) {
					c.jump(addr)
				}
			},
		}
		InstructionSet[callOpcode] = Instruction{
			"CALL " + conditionName[group] + ",a16",
			func(c *CPU) {
				addr := c.readOperand16()
				if c.condition(g) {
					c.call(addr)
				}
			},
		}
		InstructionSet[retOpcode] = Instruction{
			"RET " + conditionName[group],
			func(c *CPU) {
				c.internalDelay()
				if c.condition(g) {
					c.ret()
				}
			},
		}
	}

	// RST n — 0xC7,0xCF,0xD7,0xDF,0xE7,0xEF,0xF7,0xFF.
	for n := 0; n < 8; n++ {
		opcode := uint8(0xC7 + n*8)
		vector := uint16(n * 8)
		InstructionSet[opcode] = Instruction{
			fmt.Sprintf("RST %02XH", vector),
			func(c *CPU) { c.rst(vector) },
		}
	}

	registerMiscInstructions()
}

// registerMiscInstructions fills in every opcode that doesn't belong to
// one of the regular groups above: NOP, the 16-bit/indirect loads,
// RLCA/RLA/RRCA/RRA, DAA/CPL/SCF/CCF, STOP/DI/EI, the remaining jump
// forms, and LDH.
func registerMiscInstructions() {
	InstructionSet[0x00] = Instruction{"NOP", func(c *CPU) {}}

	InstructionSet[0x02] = Instruction{"LD (BC),A", func(c *CPU) { c.writeByte(c.Reg.BC.Uint16(), c.Reg.A) }}
	InstructionSet[0x12] = Instruction{"LD (DE),A", func(c *CPU) { c.writeByte(c.Reg.DE.Uint16(), c.Reg.A) }}
	InstructionSet[0x0A] = Instruction{"LD A,(BC)", func(c *CPU) { c.Reg.A = c.readByte(c.Reg.BC.Uint16()) }}
	InstructionSet[0x1A] = Instruction{"LD A,(DE)", func(c *CPU) { c.Reg.A = c.readByte(c.Reg.DE.Uint16()) }}

	InstructionSet[0x22] = Instruction{"LD (HL+),A", func(c *CPU) { c.writeByte(c.Reg.HLPostIncrement(), c.Reg.A) }}
	InstructionSet[0x32] = Instruction{"LD (HL-),A", func(c *CPU) { c.writeByte(c.Reg.HLPostDecrement(), c.Reg.A) }}
	InstructionSet[0x2A] = Instruction{"LD A,(HL+)", func(c *CPU) { c.Reg.A = c.readByte(c.Reg.HLPostIncrement()) }}
	InstructionSet[0x3A] = Instruction{"LD A,(HL-)", func(c *CPU) { c.Reg.A = c.readByte(c.Reg.HLPostDecrement()) }}

	InstructionSet[0x08] = Instruction{"LD (a16),SP", func(c *CPU) {
		addr := c.readOperand16()
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
	}}
	InstructionSet[0xEA] = Instruction{"LD (a16),A", func(c *CPU) { c.writeByte(c.readOperand16(), c.Reg.A) }}
	InstructionSet[0xFA] = Instruction{"LD A,(a16)", func(c *CPU) { c.Reg.A = c.readByte(c.readOperand16()) }}

	InstructionSet[0xE0] = Instruction{"LDH (a8),A", func(c *CPU) { c.writeByte(0xFF00+uint16(c.readOperand()), c.Reg.A) }}
	InstructionSet[0xF0] = Instruction{"LDH A,(a8)", func(c *CPU) { c.Reg.A = c.readByte(0xFF00 + uint16(c.readOperand())) }}
	InstructionSet[0xE2] = Instruction{"LD (C),A", func(c *CPU) { c.writeByte(0xFF00+uint16(c.Reg.C), c.Reg.A) }}
	InstructionSet[0xF2] = Instruction{"LD A,(C)", func(c *CPU) { c.Reg.A = c.readByte(0xFF00 + uint16(c.Reg.C)) }}

	InstructionSet[0xF9] = Instruction{"LD SP,HL", func(c *CPU) { c.SP = c.Reg.HL.Uint16(); c.internalDelay() }}
	InstructionSet[0xF8] = Instruction{"LD HL,SP+r8", func(c *CPU) {
		e := int8(c.readOperand())
		c.Reg.HL.SetUint16(c.addSPSigned(e))
		c.internalDelay()
	}}
	InstructionSet[0xE8] = Instruction{"ADD SP,r8", func(c *CPU) {
		e := int8(c.readOperand())
		c.SP = c.addSPSigned(e)
		c.internalDelay()
		c.internalDelay()
	}}

	InstructionSet[0x07] = Instruction{"RLCA", func(c *CPU) { c.Reg.A = c.rotateLeft(c.Reg.A, false) }}
	InstructionSet[0x0F] = Instruction{"RRCA", func(c *CPU) { c.Reg.A = c.rotateRight(c.Reg.A, false) }}
	InstructionSet[0x17] = Instruction{"RLA", func(c *CPU) { c.Reg.A = c.rotateLeftThroughCarry(c.Reg.A, false) }}
	InstructionSet[0x1F] = Instruction{"RRA", func(c *CPU) { c.Reg.A = c.rotateRightThroughCarry(c.Reg.A, false) }}

	InstructionSet[0x27] = Instruction{"DAA", func(c *CPU) { c.daa() }}
	InstructionSet[0x2F] = Instruction{"CPL", func(c *CPU) { c.cpl() }}
	InstructionSet[0x37] = Instruction{"SCF", func(c *CPU) { c.scf() }}
	InstructionSet[0x3F] = Instruction{"CCF", func(c *CPU) { c.ccf() }}

	InstructionSet[0x18] = Instruction{"JR r8", func(c *CPU) { c.jumpRelative(int8(c.readOperand())) }}
	InstructionSet[0xC3] = Instruction{"JP a16", func(c *CPU) { c.jump(c.readOperand16()) }}
	InstructionSet[0xE9] = Instruction{"JP (HL)", func(c *CPU) { c.PC = c.Reg.HL.Uint16() }}
	InstructionSet[0xCD] = Instruction{"CALL a16", func(c *CPU) { c.call(c.readOperand16()) }}
	InstructionSet[0xC9] = Instruction{"RET", func(c *CPU) { c.ret() }}
	InstructionSet[0xD9] = Instruction{"RETI", func(c *CPU) { c.ret(); c.irq.IME = true }}

	InstructionSet[0x10] = Instruction{"STOP 0", func(c *CPU) { c.readOperand(); c.Stop() }}
	InstructionSet[0xF3] = Instruction{"DI", func(c *CPU) { c.DisableInterrupts() }}
	InstructionSet[0xFB] = Instruction{"EI", func(c *CPU) { c.EnableInterruptsDelayed() }}
}
