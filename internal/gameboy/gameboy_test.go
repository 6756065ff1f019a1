package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
)

// plainROM returns a minimal, otherwise-blank cartridge image big enough
// to pass header validation, with the plain-ROM type (no MBC) at 0x147.
func plainROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = uint8(cartridge.TypeROM)
	return rom
}

func TestNewWithoutBootImageStartsAtCartridgeEntryWithPostBootState(t *testing.T) {
	e, err := New(plainROM(), nil, nil)
	require.NoError(t, err)

	reg := e.GetRegisters()
	assert.Equal(t, uint16(0x0100), e.cpu.PC)
	assert.Equal(t, uint16(0xFFFE), e.cpu.SP)
	assert.Equal(t, uint16(0x01B0), reg.AF.Uint16())
	assert.Equal(t, uint16(0x0013), reg.BC.Uint16())
	assert.Equal(t, uint16(0x00D8), reg.DE.Uint16())
	assert.Equal(t, uint16(0x014D), reg.HL.Uint16())
	assert.False(t, e.IsBootROMEnabled())
}

func TestNewWithBootImageRunsBootOverlayFirst(t *testing.T) {
	boot := make([]byte, 256)
	boot[0] = 0xAA

	e, err := New(plainROM(), boot, nil)
	require.NoError(t, err)

	assert.True(t, e.IsBootROMEnabled())
	assert.Equal(t, uint8(0xAA), e.ReadMemory(0x0000))
	// No post-boot register shortcut is taken; PC starts wherever the
	// CPU's zero value leaves it until the boot ROM itself runs.
	assert.Equal(t, uint16(0), e.cpu.PC)
}

func TestNewRejectsMalformedCartridge(t *testing.T) {
	_, err := New(make([]byte, 0x10), nil, nil)
	assert.Error(t, err)
}

func TestNewRejectsMalformedBootImage(t *testing.T) {
	_, err := New(plainROM(), make([]byte, 42), nil)
	assert.Error(t, err)
}

func TestTickAdvancesProgramCounter(t *testing.T) {
	rom := plainROM()
	// NOP at the cartridge entry point.
	rom[0x0100] = 0x00
	e, err := New(rom, nil, nil)
	require.NoError(t, err)

	before := e.cpu.PC
	e.Tick()
	assert.Equal(t, before+1, e.cpu.PC)
}

// countingHost stops Run after a fixed number of frames, recording every
// scanline it was handed along the way.
type countingHost struct {
	framesSeen int
	stopAfter  int
	lines      int
}

func (h *countingHost) DrawLine(pixels [ppu.ScreenWidth]uint8, ly uint8) {
	h.lines++
}

func (h *countingHost) Update() (joypad.Inputs, RunResult) {
	h.framesSeen++
	if h.framesSeen >= h.stopAfter {
		return joypad.Inputs{}, Stop
	}
	return joypad.Inputs{}, Continue
}

func TestRunStopsWhenHostReportsStop(t *testing.T) {
	rom := plainROM()
	for i := uint16(0); i < 0x4000; i++ {
		rom[0x0100+i] = 0x00 // NOP sled, plenty of instructions to tick through
	}
	e, err := New(rom, nil, nil)
	require.NoError(t, err)
	// Without a boot ROM nothing turns the LCD on, and frame boundaries
	// only occur while it is enabled.
	e.bus.Write(0xFF40, 0x91)

	host := &countingHost{stopAfter: 2}
	e.Run(host)

	assert.Equal(t, 2, host.framesSeen)
	assert.True(t, host.lines > 0, "DrawLine should have been called across the frames rendered")
}

func TestSetTracingRecordsExecutedInstructions(t *testing.T) {
	rom := plainROM()
	rom[0x0100] = 0x00 // NOP
	e, err := New(rom, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, e.Trace())
	e.SetTracing(true)
	e.Tick()
	assert.NotEmpty(t, e.Trace())
}

func TestSaveAndLoadCartridgeRAMRoundTrip(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x147] = uint8(cartridge.TypeMBC1RAMBattery)
	rom[0x149] = 0x02 // 8 KiB RAM

	e, err := New(rom, nil, nil)
	require.NoError(t, err)

	// enable RAM, write through the bus at a cartridge RAM address.
	e.bus.Write(0x0000, 0x0A)
	e.bus.Write(0xA000, 0x7E)

	snap := e.SaveCartridgeRAM()
	require.NotNil(t, snap)

	e.bus.Write(0xA000, 0x00)
	e.LoadCartridgeRAM(snap)
	assert.Equal(t, uint8(0x7E), e.bus.Read(0xA000))
}

func TestSaveCartridgeRAMReturnsNilWithoutBattery(t *testing.T) {
	e, err := New(plainROM(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, e.SaveCartridgeRAM())
}

func TestPostHaltInterruptAdvancesToVector(t *testing.T) {
	rom := plainROM()
	rom[0x0100] = 0x76 // HALT
	e, err := New(rom, nil, nil)
	require.NoError(t, err)

	e.irq.Enable = 1 << interrupts.FlagVBlank
	e.irq.IME = true
	e.Tick() // executes HALT, CPU suspends

	e.irq.Request(interrupts.FlagVBlank)
	e.Tick() // wakes and services the pending interrupt

	assert.Equal(t, interrupts.VBlank, e.cpu.PC)
}
