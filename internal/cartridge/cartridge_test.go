package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gomeboy/pkg/log"
)

// minimalROM returns a ROM image of size bytes with the given cartridge
// type and RAM-size code set in its header.
func minimalROM(size int, cartType Type, ramSizeCode uint8) []byte {
	rom := make([]byte, size)
	rom[0x147] = uint8(cartType)
	rom[0x148] = 0x00
	rom[0x149] = ramSizeCode
	copy(rom[0x134:], "TESTGAME")
	return rom
}

func TestNewRejectsShortROM(t *testing.T) {
	_, err := New(make([]byte, 0x10), log.NewNullLogger())
	assert.Error(t, err)
}

func TestNewRejectsUnsupportedCartridgeType(t *testing.T) {
	rom := minimalROM(0x8000, Type(0xFF), 0)
	_, err := New(rom, log.NewNullLogger())
	assert.Error(t, err)
}

func TestNewSelectsPlainROM(t *testing.T) {
	rom := minimalROM(0x8000, TypeROM, 0)
	cart, err := New(rom, log.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", cart.Title())
	assert.False(t, cart.HasBattery())
	assert.IsType(t, &ROMOnly{}, cart.MBC)
}

func TestNewSelectsMBC1WithBattery(t *testing.T) {
	rom := minimalROM(0x8000, TypeMBC1RAMBattery, 0x02)
	cart, err := New(rom, log.NewNullLogger())
	require.NoError(t, err)
	assert.True(t, cart.HasBattery())
	assert.IsType(t, &MBC1{}, cart.MBC)
}

func TestNewSelectsMBC2(t *testing.T) {
	rom := minimalROM(0x8000, TypeMBC2, 0)
	cart, err := New(rom, log.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &MBC2{}, cart.MBC)
}

func TestNewSelectsMBC3(t *testing.T) {
	rom := minimalROM(0x8000, TypeMBC3TimerRAMBatt, 0x02)
	cart, err := New(rom, log.NewNullLogger())
	require.NoError(t, err)
	assert.True(t, cart.HasBattery())
	assert.IsType(t, &MBC3{}, cart.MBC)
}

func TestMBC1BankSwitchingAndAliasing(t *testing.T) {
	rom := make([]byte, 0x80000) // 512 KiB, 32 banks
	for bank := 0; bank < 32; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	m := NewMBC1(rom, 0x8000)

	// bank register defaults to 1.
	assert.Equal(t, uint8(1), m.Read(0x4000))

	m.Write(0x2000, 0x05)
	assert.Equal(t, uint8(5), m.Read(0x4000))

	// writing 0 to the low 5 bits aliases to bank 1.
	m.Write(0x2000, 0x00)
	assert.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC1RAMEnableGatesAccess(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC1(rom, 0x2000)

	m.Write(0xA000, 0x42) // disabled: dropped
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))

	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0xA000))
}

func TestMBC1RAMRoundTrip(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC1(rom, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x99)

	snap := m.SnapshotRAM()
	m.Write(0xA000, 0x00)
	m.RestoreRAM(snap)
	assert.Equal(t, uint8(0x99), m.Read(0xA000))
}

func TestMBC2NibbleRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC2(rom)

	m.Write(0x0000, 0x0A) // address bit 8 clear: RAM enable
	m.Write(0xA000, 0xFF)
	assert.Equal(t, uint8(0x0F), m.Read(0xA000), "MBC2 RAM only stores the low nibble")
}

func TestMBC2ROMBankZeroCoercedToOne(t *testing.T) {
	rom := make([]byte, 0x40000)
	for bank := 0; bank < 16; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	m := NewMBC2(rom)
	m.Write(0x2100, 0x00) // address bit 8 set, value 0
	assert.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC3ROMBankSelection(t *testing.T) {
	rom := make([]byte, 0x80000)
	for bank := 0; bank < 32; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	m := NewMBC3(rom, 0x8000)
	m.Write(0x2000, 0x00) // coerced to 1
	assert.Equal(t, uint8(1), m.Read(0x4000))
	m.Write(0x2000, 0x11)
	assert.Equal(t, uint8(0x11), m.Read(0x4000))
}

func TestMBC3RTCLatchSequence(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC3(rom, 0x8000)
	m.Write(0x0000, 0x0A) // enable RAM/RTC
	m.Write(0x4000, 0x08) // select seconds register

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01) // 0->1 transition latches

	first := m.Read(0xA000)
	// a second latch read without another 0->1 transition stays frozen.
	second := m.Read(0xA000)
	assert.Equal(t, first, second)
}

func TestHeaderTypeString(t *testing.T) {
	assert.Equal(t, "MBC1", TypeMBC1.String())
	assert.Equal(t, "MBC2", TypeMBC2Battery.String())
	assert.Equal(t, "MBC3", TypeMBC3.String())
	assert.Equal(t, "ROM", TypeROM.String())
}
