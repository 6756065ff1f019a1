package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gomeboy/internal/boot"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/pkg/log"
)

func newTestBus(t *testing.T, bootROM *boot.ROM) (*Bus, *cartridge.Cartridge, *ppu.PPU, *interrupts.Controller) {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // plain ROM
	cart, err := cartridge.New(rom, log.NewNullLogger())
	require.NoError(t, err)

	irq := interrupts.NewController()
	video := ppu.New(irq, nil)
	tmr := timer.NewController(irq)
	ser := serial.NewController(irq)
	joy := joypad.New()

	bus := New(bootROM, cart, video, tmr, ser, joy, irq, log.NewNullLogger())
	return bus, cart, video, irq
}

func TestBootOverlayDisablesOnWrite(t *testing.T) {
	image := make([]byte, boot.Size)
	image[0] = 0xAA
	b, err := boot.Load(image)
	require.NoError(t, err)

	bus, _, _, _ := newTestBus(t, b)
	assert.True(t, bus.BootEnabled())
	assert.Equal(t, uint8(0xAA), bus.Read(0x0000))

	bus.Write(0xFF50, 0x01)
	assert.False(t, bus.BootEnabled())
}

func TestWorkRAMEchoMirrorsWrites(t *testing.T) {
	bus, _, _, _ := newTestBus(t, nil)
	bus.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), bus.Read(0xE010), "0xE000-0xFDFF echoes 0xC000-0xDDFF")

	bus.Write(0xE020, 0x99)
	assert.Equal(t, uint8(0x99), bus.Read(0xC020))
}

func TestUnusableRegionReadsFF(t *testing.T) {
	bus, _, _, _ := newTestBus(t, nil)
	assert.Equal(t, uint8(0xFF), bus.Read(0xFEA0))

	bus.Write(0xFEA5, 0x42) // dropped silently, no panic
	assert.Equal(t, uint8(0xFF), bus.Read(0xFEA5))
}

func TestHighRAMReadWrite(t *testing.T) {
	bus, _, _, _ := newTestBus(t, nil)
	bus.Write(0xFF80, 0x77)
	assert.Equal(t, uint8(0x77), bus.Read(0xFF80))
	bus.Write(0xFFFE, 0x11)
	assert.Equal(t, uint8(0x11), bus.Read(0xFFFE))
}

func TestInterruptEnableRegisterRoutedToController(t *testing.T) {
	bus, _, _, irq := newTestBus(t, nil)
	bus.Write(0xFFFF, 0x1F)
	assert.Equal(t, uint8(0x1F), irq.Enable)
	assert.Equal(t, uint8(0x1F), bus.Read(0xFFFF))
}

func TestDMACopiesOneHundredSixtyBytesIntoOAM(t *testing.T) {
	bus, _, video, _ := newTestBus(t, nil)
	for i := uint16(0); i < 0xA0; i++ {
		bus.Write(0xC000+i, uint8(i))
	}

	bus.Write(0xFF46, 0xC0) // source page 0xC000

	for i := uint16(0); i < 0xA0; i++ {
		assert.Equal(t, uint8(i), video.ReadOAM(0xFE00+i))
	}
}

func TestJoypadRegisterRoutedThroughBus(t *testing.T) {
	bus, _, _, _ := newTestBus(t, nil)
	bus.Write(0xFF00, 0x30) // select neither bank
	assert.Equal(t, uint8(0xFF), bus.Read(0xFF00))
}

func TestEveryWritableRAMAddressRoundTrips(t *testing.T) {
	bus, _, _, _ := newTestBus(t, nil)
	for _, addr := range []uint16{0xC000, 0xCFFF, 0xDFFF, 0xFF80, 0xFFFE} {
		bus.Write(addr, 0x5A)
		assert.Equal(t, uint8(0x5A), bus.Read(addr))
	}
}
