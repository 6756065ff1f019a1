// Package cpu implements the Sharp LR35902 instruction decoder and
// executor: the full base and CB-prefixed opcode tables, the interrupt
// dispatch sequence, and HALT/STOP handling.
package cpu

import (
	"fmt"

	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/mmu"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/registers"
	"github.com/thelolagemann/gomeboy/internal/timer"
)

// ClockSpeed is the Game Boy's CPU clock, in cycles per second.
const ClockSpeed = 4194304

// CPU is the Sharp LR35902 core: the register file, stack pointer,
// program counter, and a monotonic cycle counter advanced by every
// memory access an instruction performs.
type CPU struct {
	Reg *registers.File
	SP  uint16
	PC  uint16

	bus   *mmu.Bus
	irq   *interrupts.Controller
	timer *timer.Controller
	ppu   *ppu.PPU

	cycle uint64

	halted  bool
	stopped bool

	// imeDelay implements EI's documented one-instruction-delayed
	// enable: EI sets this to 1, and the next Step flips IME true before
	// executing its instruction, so the earliest dispatch comes after the
	// instruction that follows EI.
	imeDelay int

	Tracing bool
	trace   []string
}

// New returns a CPU wired to bus and the catch-up subsystems it must
// drive every step. Registers and PC are left zeroed; the caller (the
// emulator shell) sets the correct power-on or post-boot state.
func New(bus *mmu.Bus, irq *interrupts.Controller, t *timer.Controller, p *ppu.PPU) *CPU {
	return &CPU{
		Reg:   registers.New(),
		bus:   bus,
		irq:   irq,
		timer: t,
		ppu:   p,
	}
}

// Cycle returns the CPU's monotonic cycle counter.
func (c *CPU) Cycle() uint64 { return c.cycle }

// tick accounts for n cycles elapsed doing internal work or a memory
// access. It is the only place c.cycle advances.
func (c *CPU) tick(n uint64) {
	c.cycle += n
}

// readOperand fetches the next immediate byte and advances PC.
func (c *CPU) readOperand() uint8 {
	v := c.bus.Read(c.PC)
	c.tick(4)
	c.PC++
	return v
}

// readOperand16 fetches the next two immediate bytes, little-endian.
func (c *CPU) readOperand16() uint16 {
	lo := c.readOperand()
	hi := c.readOperand()
	return uint16(hi)<<8 | uint16(lo)
}

// readByte reads one byte from the bus, charging one memory access.
func (c *CPU) readByte(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.tick(4)
	return v
}

// writeByte writes one byte to the bus, charging one memory access.
func (c *CPU) writeByte(addr uint16, v uint8) {
	c.bus.Write(addr, v)
	c.tick(4)
}

// internalDelay charges one M-cycle of internal work that touches no
// memory (register-register 16-bit ALU, branch-taken penalties, and
// the like).
func (c *CPU) internalDelay() {
	c.tick(4)
}

// Step runs the PPU and timer catch-up, executes exactly one
// instruction (or one HALT/STOP cycle of inactivity), services at most
// one interrupt, and returns the number of cycles the step consumed.
func (c *CPU) Step() uint64 {
	before := c.cycle
	c.ppu.CatchUp(c.cycle)

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.irq.IME = true
		}
	}

	switch {
	case c.halted:
		if c.irq.Pending() {
			c.halted = false
		} else {
			c.tick(4)
		}
	case c.stopped:
		if c.irq.Pending() {
			c.stopped = false
		} else {
			c.tick(4)
		}
	default:
		c.execute()
	}

	c.timer.CatchUp(c.cycle)
	c.serviceInterrupt()

	return c.cycle - before
}

func (c *CPU) execute() {
	var pc uint16
	var before registerSnapshot
	if c.Tracing {
		pc = c.PC
		before = c.snapshotRegisters()
	}

	opcode := c.readOperand()
	var ins Instruction
	if opcode == 0xCB {
		ins = InstructionSetCB[c.readOperand()]
	} else {
		ins = InstructionSet[opcode]
	}
	ins.fn(c)

	if c.Tracing {
		c.recordTrace(pc, ins.name, before)
	}
}

// serviceInterrupt dispatches the single highest-priority pending,
// enabled interrupt if IME permits it, charging the documented 20
// cycles (5 M-cycles: two internal, two stack writes, one to load PC)
// for the dispatch.
func (c *CPU) serviceInterrupt() {
	flag, vector, ok := c.irq.Next()
	if !ok || !c.irq.IME {
		return
	}
	c.irq.Clear(flag)
	c.irq.IME = false

	c.internalDelay()
	c.internalDelay()
	c.SP--
	c.writeByte(c.SP, uint8(c.PC>>8))
	c.SP--
	c.writeByte(c.SP, uint8(c.PC))
	c.PC = vector
	c.internalDelay()
}

// registerIndex returns a pointer to one of the eight-bit registers
// addressed by a 3-bit field, in the standard B,C,D,E,H,L,(HL)/-,A
// order. Index 6, (HL) indirect, is handled by the caller since it is
// a memory access rather than a register.
func (c *CPU) registerIndex(index uint8) *uint8 {
	switch index {
	case 0:
		return &c.Reg.B
	case 1:
		return &c.Reg.C
	case 2:
		return &c.Reg.D
	case 3:
		return &c.Reg.E
	case 4:
		return &c.Reg.H
	case 5:
		return &c.Reg.L
	case 7:
		return &c.Reg.A
	}
	panic(fmt.Sprintf("cpu: invalid register index %d", index))
}

// read8 and write8 resolve one operand of an 8-bit opcode group,
// special-casing index 6, (HL), as a memory access.
func (c *CPU) read8(index uint8) uint8 {
	if index == 6 {
		return c.readByte(c.Reg.HL.Uint16())
	}
	return *c.registerIndex(index)
}

func (c *CPU) write8(index uint8, v uint8) {
	if index == 6 {
		c.writeByte(c.Reg.HL.Uint16(), v)
		return
	}
	*c.registerIndex(index) = v
}

// pair returns one of BC, DE, HL, SP by the 2-bit group used in LD
// rr,d16 / INC rr / DEC rr / ADD HL,rr.
func (c *CPU) pair(index uint8) uint16 {
	switch index {
	case 0:
		return c.Reg.BC.Uint16()
	case 1:
		return c.Reg.DE.Uint16()
	case 2:
		return c.Reg.HL.Uint16()
	case 3:
		return c.SP
	}
	panic(fmt.Sprintf("cpu: invalid register pair index %d", index))
}

func (c *CPU) setPair(index uint8, v uint16) {
	switch index {
	case 0:
		c.Reg.BC.SetUint16(v)
	case 1:
		c.Reg.DE.SetUint16(v)
	case 2:
		c.Reg.HL.SetUint16(v)
	case 3:
		c.SP = v
	default:
		panic(fmt.Sprintf("cpu: invalid register pair index %d", index))
	}
}

// stackPair is the PUSH/POP variant of pair, which addresses AF instead
// of SP at index 3.
func (c *CPU) stackPair(index uint8) uint16 {
	if index == 3 {
		return c.Reg.AF.Uint16()
	}
	return c.pair(index)
}

func (c *CPU) setStackPair(index uint8, v uint16) {
	if index == 3 {
		c.Reg.SetAF(v)
		return
	}
	c.setPair(index, v)
}

// Halt suspends instruction execution until an interrupt becomes
// pending. The documented HALT bug (PC failing to advance for the next
// fetch when IME is off and an interrupt is already pending) is not
// reproduced; this core always resumes normally.
func (c *CPU) Halt() { c.halted = true }

// Stop suspends the CPU identically to Halt for this core's purposes:
// the speed-switch and display-blanking side effects STOP has on later
// hardware revisions don't apply to the DMG.
func (c *CPU) Stop() { c.stopped = true }

// Halted reports whether the CPU is currently suspended in HALT.
func (c *CPU) Halted() bool { return c.halted }

// EnableInterruptsDelayed implements EI: IME flips true at the start of
// the next step rather than immediately, so the instruction following EI
// always runs before an interrupt can be dispatched.
func (c *CPU) EnableInterruptsDelayed() { c.imeDelay = 1 }

// DisableInterrupts implements DI: IME drops immediately, cancelling
// any EI still in its one-instruction delay window.
func (c *CPU) DisableInterrupts() {
	c.irq.IME = false
	c.imeDelay = 0
}
