// Package mmu implements the Game Boy's 16-bit memory bus: the single
// address space the CPU sees, dispatching each access to boot ROM,
// cartridge, video RAM, work RAM, OAM, I/O registers, or high RAM, and
// performing OAM DMA transfers.
package mmu

import (
	"github.com/thelolagemann/gomeboy/internal/boot"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/pkg/log"
)

// Bus is the memory-mapped view every other component of the core reads
// and writes through.
type Bus struct {
	boot *boot.ROM
	cart *cartridge.Cartridge

	ppu    *ppu.PPU
	timer  *timer.Controller
	serial *serial.Controller
	joypad *joypad.State
	irq    *interrupts.Controller

	wram [0x2000]uint8 // 0xC000-0xDFFF
	hram [0x7F]uint8   // 0xFF80-0xFFFE

	// sound is the raw register bank for 0xFF10-0xFF26: latched
	// faithfully, but never drives a synthesizer.
	sound [0x17]uint8

	// dma is the last byte written to 0xFF46, which hardware reads back
	// verbatim even though the register is nominally write-only.
	dma uint8

	bootEnabled bool

	log log.Logger
}

// New returns a bus wired to the given cartridge and subsystems. bootROM
// may be nil, in which case the cartridge is visible at 0x0000 from the
// start (as if the boot sequence had already completed).
func New(bootROM *boot.ROM, cart *cartridge.Cartridge, video *ppu.PPU, t *timer.Controller, s *serial.Controller, j *joypad.State, irq *interrupts.Controller, logger log.Logger) *Bus {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &Bus{
		boot: bootROM, cart: cart,
		ppu: video, timer: t, serial: s, joypad: j, irq: irq,
		bootEnabled: bootROM != nil,
		log:         logger,
	}
}

// Read returns the byte visible at addr.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x0100 && b.bootEnabled:
		return b.boot.Read(addr)
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr < 0xA000:
		return b.ppu.ReadVRAM(addr)
	case addr < 0xC000:
		return b.cart.Read(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0xE000] // echo RAM
	case addr < 0xFEA0:
		return b.ppu.ReadOAM(addr)
	case addr < 0xFF00:
		b.log.Warnf("mmu.read.unusable", "addr", "read from unusable memory region at 0x%04X", addr)
		return 0xFF
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		return b.irq.Read(addr)
	}
}

// Write stores value at addr.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr < 0xA000:
		b.ppu.WriteVRAM(addr, value)
	case addr < 0xC000:
		b.cart.Write(addr, value)
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value // echo RAM
	case addr < 0xFEA0:
		b.ppu.WriteOAM(addr, value)
	case addr < 0xFF00:
		b.log.Warnf("mmu.write.unusable", "addr", "write to unusable memory region at 0x%04X", addr)
	case addr < 0xFF80:
		b.writeIO(addr, value)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default: // 0xFFFF
		b.irq.Write(addr, value)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF01 || addr == 0xFF02:
		return b.serial.Read(addr)
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.timer.Read(addr)
	case addr == 0xFF0F:
		return b.irq.Read(addr)
	case addr >= 0xFF10 && addr <= 0xFF26:
		return b.sound[addr-0xFF10]
	case addr == 0xFF46:
		return b.dma // hardware reads back the last byte written
	case addr == 0xFF50:
		if b.bootEnabled {
			return 0xFE
		}
		return 0xFF
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.ReadRegister(addr)
	default:
		b.log.Warnf("mmu.read.reserved", "addr", "read from reserved I/O register 0x%04X", addr)
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, value uint8) {
	switch {
	case addr == 0xFF00:
		b.joypad.Write(value)
	case addr == 0xFF01 || addr == 0xFF02:
		b.serial.Write(addr, value)
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.timer.Write(addr, value)
	case addr == 0xFF0F:
		b.irq.Write(addr, value)
	case addr >= 0xFF10 && addr <= 0xFF26:
		b.sound[addr-0xFF10] = value
	case addr == 0xFF46:
		b.dma = value
		b.performDMA(value)
	case addr == 0xFF50:
		// The boot ROM overlay is permanently disabled once software
		// writes here; there is no way back to it.
		b.bootEnabled = false
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.ppu.WriteRegister(addr, value)
	default:
		b.log.Warnf("mmu.write.reserved", "addr", "write to reserved I/O register 0x%04X", addr)
	}
}

// performDMA copies 160 bytes from (src<<8) into OAM. Real hardware
// spreads this over 160 cycles during which only HRAM is safely
// accessible; this core performs it as a single atomic step within the
// CPU instruction that triggered it, since no supported ROM depends on
// partial-transfer timing.
func (b *Bus) performDMA(src uint8) {
	base := uint16(src) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.ppu.WriteOAM(0xFE00+i, b.Read(base+i))
	}
}

// BootEnabled reports whether the boot ROM overlay is still mapped over
// 0x0000-0x00FF.
func (b *Bus) BootEnabled() bool { return b.bootEnabled }
