// Package ppu emulates the Game Boy's picture processing unit: the
// scanline state machine that drives LY and STAT, video RAM and the
// sprite attribute table, and the background/window/sprite renderer
// that produces one 160-pixel line at a time.
package ppu

import (
	"github.com/thelolagemann/gomeboy/internal/bits"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
)

const (
	// ScreenWidth is the width of the visible screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the number of visible scanlines.
	ScreenHeight = 144
	// totalLines is the number of scanlines per frame, including the
	// ten vblank lines.
	totalLines = 154
	// cyclesPerLine is the number of CPU cycles a single scanline, at
	// any mode, takes.
	cyclesPerLine = 456
)

// Mode is the PPU's current rendering mode, reflected in STAT's low two
// bits.
type Mode uint8

const (
	ModeHBlank   Mode = 0
	ModeVBlank   Mode = 1
	ModeOAM      Mode = 2
	ModeTransfer Mode = 3
)

// Host is the presentation surface the PPU delivers completed scanlines
// to.
type Host interface {
	// DrawLine delivers one completed, post-palette scanline. Each
	// pixel is 0-3 for background/window, or 4-11 for a sprite pixel
	// (palette and shade encoded together); the host flattens the
	// extended range before display.
	DrawLine(pixels [ScreenWidth]uint8, ly uint8)
}

// PPU owns video RAM, OAM, and the LCD registers, and drives the
// scanline/mode state machine that generates LY and STAT.
type PPU struct {
	irq  *interrupts.Controller
	host Host

	vram [0x2000]uint8 // 0x8000-0x9FFF
	oam  [0xA0]uint8   // 0xFE00-0xFE9F

	lcdc, stat, scy, scx, ly, lyc, wy, wx, bgp, obp0, obp1 uint8

	enabled      bool
	pendingAnchor bool
	anchor       uint64 // absolute cycle count at which the LCD was enabled
	elapsed      uint64 // cycles processed since anchor

	vblankEdge bool

	// tileWrites counts writes into each of the 384 possible tiles'
	// 16-byte tile-data block; the renderer compares this against what
	// it last drew to decide whether a canvas cell needs a redraw.
	tileWrites [384]uint32

	cache backgroundCache
}

// New returns a PPU with LCD disabled (as at power-on, before the boot
// ROM turns it on).
func New(irq *interrupts.Controller, host Host) *PPU {
	return &PPU{irq: irq, host: host}
}

// SetHost replaces the presentation surface (the core is constructed
// before a host is necessarily available).
func (p *PPU) SetHost(host Host) { p.host = host }

// ConsumeVBlankEdge reports whether LY has transitioned to 144 since
// the last call, and clears the flag. The emulator shell polls this to
// find frame boundaries.
func (p *PPU) ConsumeVBlankEdge() bool {
	edge := p.vblankEdge
	p.vblankEdge = false
	return edge
}

// LY returns the current scanline index.
func (p *PPU) LY() uint8 { return p.ly }

// mode returns the PPU's current mode, as a pure function of elapsed
// cycles since the anchor: LY(c) = ((c-c0)/456) mod 154, with no path
// dependence on how CatchUp was called to get there.
func (p *PPU) mode() Mode {
	if !p.enabled {
		return ModeHBlank
	}
	line := p.elapsed / cyclesPerLine
	if line%totalLines >= ScreenHeight {
		return ModeVBlank
	}
	switch offset := p.elapsed % cyclesPerLine; {
	case offset < 4:
		return ModeHBlank
	case offset < 84:
		return ModeOAM
	case offset < 256:
		return ModeTransfer
	default:
		return ModeHBlank
	}
}

// nextBoundary returns the smallest absolute elapsed-cycle value,
// strictly greater than elapsed, at which the mode or LY changes.
func nextBoundary(elapsed uint64) uint64 {
	line := elapsed / cyclesPerLine
	offset := elapsed % cyclesPerLine
	lineStart := line * cyclesPerLine
	for _, b := range [...]uint64{4, 84, 256, cyclesPerLine} {
		if b > offset {
			return lineStart + b
		}
	}
	return lineStart + cyclesPerLine
}

// CatchUp advances the PPU's scanline state machine to the given
// absolute CPU cycle count, rendering any scanlines that complete along
// the way and raising vblank/stat interrupt requests as their
// conditions are met. It is the only point at which the PPU emits
// scanlines or requests interrupts.
func (p *PPU) CatchUp(target uint64) {
	if !p.enabled {
		return
	}
	if p.pendingAnchor {
		p.anchor = target
		p.elapsed = 0
		p.pendingAnchor = false
		p.checkCoincidence()
	}
	if target < p.anchor {
		return
	}
	targetElapsed := target - p.anchor

	for p.elapsed < targetElapsed {
		boundary := nextBoundary(p.elapsed)
		if boundary > targetElapsed {
			boundary = targetElapsed
			p.elapsed = boundary
			break
		}
		p.elapsed = boundary
		p.onBoundary()
	}
	p.ly = uint8((p.elapsed / cyclesPerLine) % totalLines)
}

// onBoundary fires whatever event corresponds to having just reached
// p.elapsed, which is guaranteed to be an exact mode/LY boundary.
func (p *PPU) onBoundary() {
	line := (p.elapsed / cyclesPerLine)
	offset := p.elapsed % cyclesPerLine

	switch offset {
	case 0: // new line begins
		newLY := uint8(line % totalLines)
		p.ly = newLY
		p.checkCoincidence()
		if newLY == ScreenHeight {
			p.irq.Request(interrupts.FlagVBlank)
			p.vblankEdge = true
			if bits.Test(p.stat, 4) {
				p.irq.Request(interrupts.FlagStat)
			}
		}
	case 4: // mode 0 -> mode 2 (OAM scan)
		if bits.Test(p.stat, 5) {
			p.irq.Request(interrupts.FlagStat)
		}
	case 84: // mode 2 -> mode 3 (pixel transfer), no STAT source
	case 256: // mode 3 -> mode 0 (hblank): the completed scanline renders here
		ly := uint8(line % totalLines)
		if ly < ScreenHeight {
			p.renderLine(ly)
		}
		if bits.Test(p.stat, 3) {
			p.irq.Request(interrupts.FlagStat)
		}
	}
}

func (p *PPU) checkCoincidence() {
	coincident := p.ly == p.lyc
	p.stat = bits.SetIf(p.stat, 2, coincident)
	if coincident && bits.Test(p.stat, 6) {
		p.irq.Request(interrupts.FlagStat)
	}
}

// statValue composes the live STAT byte: the coincidence flag and
// interrupt-enable bits are stored directly in p.stat, the mode is
// derived.
func (p *PPU) statValue() uint8 {
	return p.stat&0xFC | uint8(p.mode()) | 0x80
}

// ReadRegister returns the value of one of the PPU's I/O registers.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.statValue()
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

// WriteRegister stores a value into one of the PPU's I/O registers.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := p.enabled
		p.lcdc = value
		p.enabled = bits.Test(value, 7)
		if p.enabled && !wasEnabled {
			p.pendingAnchor = true
			p.ly = 0
		} else if !p.enabled && wasEnabled {
			p.ly = 0
			p.stat &^= 0x03
		}
	case 0xFF41:
		p.stat = p.stat&0x07 | value&0xF8
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// writes reset the scanline counter
		p.ly = 0
	case 0xFF45:
		p.lyc = value
		p.stat = bits.SetIf(p.stat, 2, p.ly == p.lyc)
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

// ReadVRAM returns a byte of video RAM (tiles or tile maps).
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.vram[addr-0x8000]
}

// WriteVRAM stores a byte of video RAM, bumping the write counter for
// the affected tile if the write lands in the tile-data window
// (0x8000-0x97FF).
func (p *PPU) WriteVRAM(addr uint16, value uint8) {
	off := addr - 0x8000
	p.vram[off] = value
	if off < 0x1800 {
		p.tileWrites[off/16]++
	}
}

// ReadOAM returns a byte of the sprite attribute table.
func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr-0xFE00]
}

// WriteOAM stores a byte of the sprite attribute table.
func (p *PPU) WriteOAM(addr uint16, value uint8) {
	p.oam[addr-0xFE00] = value
}
