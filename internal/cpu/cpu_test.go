package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/mmu"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/registers"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/pkg/log"
)

// testROM is shared between newTestCPU and load: cartridge.NewROMOnly
// keeps the slice it's given rather than copying it, so writing into
// this backing array is visible through the cartridge's Read path
// without reaching into any unexported field.
type testROM struct {
	bytes []byte
}

// newTestCPU wires a CPU against a full bus backed by a plain ROM
// cartridge whose image is a byte slice the test still holds, so test
// programs can be poked directly into 0x0000-0x7FFF via load. PC starts
// at 0x0100, the standard cartridge entry point.
func newTestCPU(t *testing.T) (*CPU, *testROM) {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00
	cart, err := cartridge.New(rom, log.NewNullLogger())
	require.NoError(t, err)

	irq := interrupts.NewController()
	video := ppu.New(irq, nil)
	tmr := timer.NewController(irq)
	ser := serial.NewController(irq)
	joy := joypad.New()
	bus := mmu.New(nil, cart, video, tmr, ser, joy, irq, log.NewNullLogger())

	c := New(bus, irq, tmr, video)
	c.PC = 0x0100
	return c, &testROM{bytes: rom}
}

// load pokes a little program directly into the backing ROM image.
func (r *testROM) load(addr uint16, bytes ...uint8) {
	copy(r.bytes[addr:], bytes)
}

func TestAddOverflowSetsZeroHalfCarryAndCarry(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.A = 1
	result := c.add8(c.Reg.A, 0xFF, false)
	assert.Equal(t, uint8(0), result)
	assert.True(t, c.Reg.Flag(registers.FlagZero))
	assert.True(t, c.Reg.Flag(registers.FlagHalfCarry))
	assert.True(t, c.Reg.Flag(registers.FlagCarry))
}

func TestDAAAfterBCDAddition(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.A = c.add8(c.Reg.A, 0x09, false)
	c.Reg.A = c.add8(c.Reg.A, 0x01, false)
	c.daa()
	assert.Equal(t, uint8(0x10), c.Reg.A)
}

func TestLDHLMinusUnderflows(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.HL.SetUint16(0xC000)
	c.Reg.A = 0x42
	InstructionSet[0x32].fn(c) // LD (HL-),A
	assert.Equal(t, uint16(0xBFFF), c.Reg.HL.Uint16())
	assert.Equal(t, uint8(0x42), c.bus.Read(0xC000))
}

func TestJRNegativeOffsetLoopsInPlace(t *testing.T) {
	c, rom := newTestCPU(t)
	c.PC = 0x0100
	rom.load(0x0100, 0x18, 0xFE) // JR -2
	c.execute()
	assert.Equal(t, uint16(0x0100), c.PC)
}

func TestIncDecPreserveCarryFlag(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.SetFlag(registers.FlagCarry, true)
	c.Reg.B = 0x0F
	c.Reg.B = c.inc8(c.Reg.B)
	assert.Equal(t, uint8(0x10), c.Reg.B)
	assert.True(t, c.Reg.Flag(registers.FlagCarry), "INC must not touch the carry flag")
	assert.True(t, c.Reg.Flag(registers.FlagHalfCarry))
}

func TestAddHLPreservesZeroFlag(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.SetFlag(registers.FlagZero, true)
	c.Reg.HL.SetUint16(0x0FFF)
	c.addHL(0x0001)
	assert.Equal(t, uint16(0x1000), c.Reg.HL.Uint16())
	assert.True(t, c.Reg.Flag(registers.FlagZero), "ADD HL,rr must not touch the zero flag")
	assert.True(t, c.Reg.Flag(registers.FlagHalfCarry))
}

func TestPopAFAlwaysZeroesLowNibble(t *testing.T) {
	c, _ := newTestCPU(t)
	c.SP = 0xFFF0
	c.bus.Write(0xFFF0, 0xFF)
	c.bus.Write(0xFFF1, 0x12)
	InstructionSet[0xF1].fn(c) // POP AF
	assert.Equal(t, uint8(0), c.Reg.F&0x0F)
}

func TestCBRotateSetsZeroFlagButRLCADoesNot(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.A = 0
	InstructionSet[0x07].fn(c) // RLCA
	assert.False(t, c.Reg.Flag(registers.FlagZero), "RLCA always clears Z")

	c.Reg.B = 0
	InstructionSetCB[0x00].fn(c) // RLC B
	assert.True(t, c.Reg.Flag(registers.FlagZero), "CB RLC sets Z per result")
}

func TestBitTestSetsZeroWhenBitClear(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Reg.B = 0x00
	InstructionSetCB[0x40].fn(c) // BIT 0,B
	assert.True(t, c.Reg.Flag(registers.FlagZero))
	assert.True(t, c.Reg.Flag(registers.FlagHalfCarry))
}

func TestHaltSuspendsUntilInterruptPending(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Halt()
	assert.True(t, c.Halted())
	before := c.PC
	c.Step()
	assert.True(t, c.Halted(), "stays halted with nothing pending")
	assert.Equal(t, before, c.PC)

	c.irq.Enable = 1
	c.irq.Request(interrupts.FlagVBlank)
	c.Step()
	assert.False(t, c.Halted())
}

func TestInterruptDispatchPushesPCAndSetsVector(t *testing.T) {
	c, _ := newTestCPU(t)
	c.PC = 0x1234
	c.SP = 0xFFFE
	c.irq.IME = true
	c.irq.Enable = 1 << interrupts.FlagVBlank
	c.irq.Request(interrupts.FlagVBlank)

	c.serviceInterrupt()

	assert.Equal(t, interrupts.VBlank, c.PC)
	assert.False(t, c.irq.IME)
	assert.Equal(t, uint16(0xFFFC), c.SP)
	lo := c.bus.Read(0xFFFC)
	hi := c.bus.Read(0xFFFD)
	assert.Equal(t, uint16(0x1234), uint16(hi)<<8|uint16(lo))
}

func TestInterruptPriorityServicesLowestVectorFirst(t *testing.T) {
	c, _ := newTestCPU(t)
	c.irq.IME = true
	c.irq.Enable = 0x1F
	c.irq.Request(interrupts.FlagTimer)
	c.irq.Request(interrupts.FlagVBlank)
	c.irq.Request(interrupts.FlagSerial)

	c.serviceInterrupt()
	assert.Equal(t, interrupts.VBlank, c.PC)
	assert.True(t, c.irq.Flag&(1<<interrupts.FlagTimer) != 0, "other pending interrupts wait for the next boundary")
}

func TestEIDelaysOneInstruction(t *testing.T) {
	c, rom := newTestCPU(t)
	c.PC = 0x0100
	rom.load(0x0100, 0xFB, 0x00, 0x00) // EI, NOP, NOP
	c.irq.Enable = 1 << interrupts.FlagVBlank
	c.irq.Request(interrupts.FlagVBlank)

	c.Step() // executes EI
	assert.False(t, c.irq.IME, "IME is still off right after EI")

	c.Step() // IME flips before the NOP after EI, and the pending vblank is dispatched after it
	assert.Equal(t, interrupts.VBlank, c.PC)
}
