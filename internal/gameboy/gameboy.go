// Package gameboy wires the register file, cartridge, memory bus, CPU,
// PPU, timer, serial port, and joypad into a single runnable emulator,
// and drives the per-instruction loop: PPU catch-up, one CPU
// instruction, timer catch-up, at most one interrupt dispatch.
package gameboy

import (
	"github.com/thelolagemann/gomeboy/internal/boot"
	"github.com/thelolagemann/gomeboy/internal/cartridge"
	"github.com/thelolagemann/gomeboy/internal/cpu"
	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/joypad"
	"github.com/thelolagemann/gomeboy/internal/mmu"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/registers"
	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/timer"
	"github.com/thelolagemann/gomeboy/pkg/log"
)

// RunResult is what a Host's Update returns at a vblank boundary, to
// tell Run whether to keep going.
type RunResult uint8

const (
	Continue RunResult = iota
	Stop
)

// Host is the set of callbacks the emulator suspends into: one per
// completed scanline, and one per completed frame, at which point the
// host reports the button transitions it observed and whether the
// emulator should keep running.
type Host interface {
	ppu.Host
	Update() (joypad.Inputs, RunResult)
}

// Emulator is a fully wired Game Boy: every subsystem plus the CPU
// driving them via catch-up.
type Emulator struct {
	cpu     *cpu.CPU
	bus     *mmu.Bus
	ppu     *ppu.PPU
	timer   *timer.Controller
	serial  *serial.Controller
	joypad  *joypad.State
	irq     *interrupts.Controller
	cart    *cartridge.Cartridge
	bootROM *boot.ROM

	log log.Logger
}

// postBootRegisters are the well-known register values a DMG boot ROM
// leaves behind at 0x0100, used when no boot image is supplied so
// execution can start directly at cartridge entry.
type postBootRegisters struct{ a, f, b, c, d, e, h, l uint8 }

var postBoot = postBootRegisters{a: 0x01, f: 0xB0, b: 0x00, c: 0x13, d: 0x00, e: 0xD8, h: 0x01, l: 0x4D}

// New constructs an emulator for cartridgeROM. bootImage may be nil, in
// which case execution starts at 0x0100 with the standard post-boot
// register state instead of running the boot sequence. Both a bad
// cartridge image and a malformed boot image surface as an error here
// rather than a panic, since they are configuration mistakes the
// caller should be able to report.
func New(cartridgeROM []byte, bootImage []byte, logger log.Logger) (*Emulator, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}

	cart, err := cartridge.New(cartridgeROM, logger)
	if err != nil {
		return nil, err
	}

	var bootROM *boot.ROM
	if len(bootImage) > 0 {
		bootROM, err = boot.Load(bootImage)
		if err != nil {
			return nil, err
		}
	}

	irq := interrupts.NewController()
	joy := joypad.New()
	tmr := timer.NewController(irq)
	ser := serial.NewController(irq)
	video := ppu.New(irq, nil)
	bus := mmu.New(bootROM, cart, video, tmr, ser, joy, irq, logger)
	core := cpu.New(bus, irq, tmr, video)

	if bootROM == nil {
		core.PC = 0x0100
		core.SP = 0xFFFE
		core.Reg.A, core.Reg.F = postBoot.a, postBoot.f
		core.Reg.B, core.Reg.C = postBoot.b, postBoot.c
		core.Reg.D, core.Reg.E = postBoot.d, postBoot.e
		core.Reg.H, core.Reg.L = postBoot.h, postBoot.l
	}

	return &Emulator{
		cpu: core, bus: bus, ppu: video,
		timer: tmr, serial: ser, joypad: joy, irq: irq,
		cart: cart, bootROM: bootROM,
		log: logger,
	}, nil
}

// SetHost wires the presentation surface the PPU delivers scanlines to.
func (e *Emulator) SetHost(host ppu.Host) {
	e.ppu.SetHost(host)
}

// Tick executes exactly one CPU step (one instruction, or one HALT/STOP
// cycle of inactivity), and returns the number of cycles it consumed.
func (e *Emulator) Tick() uint64 {
	return e.cpu.Step()
}

// Run drives the emulator until host's Update callback returns Stop.
// Suspension happens exactly at frame boundaries (vblank edges); the
// per-line draw is delivered synchronously from inside Tick via the
// PPU's Host.
func (e *Emulator) Run(host Host) {
	e.SetHost(host)
	for {
		e.cpu.Step()
		if !e.ppu.ConsumeVBlankEdge() {
			continue
		}
		inputs, result := host.Update()
		if e.joypad.Apply(inputs) {
			e.irq.Request(interrupts.FlagJoypad)
		}
		if result == Stop {
			return
		}
	}
}

// GetRegisters returns the live CPU register file.
func (e *Emulator) GetRegisters() *registers.File { return e.cpu.Reg }

// GetSerialData returns everything transmitted over the serial port so
// far, as diagnostic ROMs report results.
func (e *Emulator) GetSerialData() string { return e.serial.Log() }

// SetTracing enables or disables per-instruction execution tracing.
func (e *Emulator) SetTracing(on bool) { e.cpu.Tracing = on }

// Trace returns the accumulated instruction trace, oldest first.
func (e *Emulator) Trace() []string { return e.cpu.Trace() }

// SaveCartridgeRAM returns a snapshot of the cartridge's battery-backed
// RAM, or nil if it has none.
func (e *Emulator) SaveCartridgeRAM() []byte {
	if !e.cart.HasBattery() {
		return nil
	}
	return e.cart.SnapshotRAM()
}

// LoadCartridgeRAM restores the cartridge's external RAM from a
// snapshot previously returned by SaveCartridgeRAM.
func (e *Emulator) LoadCartridgeRAM(data []byte) {
	e.cart.RestoreRAM(data)
}

// IsBootROMEnabled reports whether the boot ROM overlay is still mapped
// over 0x0000-0x00FF.
func (e *Emulator) IsBootROMEnabled() bool { return e.bus.BootEnabled() }

// ReadMemory returns the byte the CPU would see at addr, for
// diagnostics and tests.
func (e *Emulator) ReadMemory(addr uint16) uint8 { return e.bus.Read(addr) }

// Cartridge returns the loaded cartridge, for diagnostics (title, MBC
// type, header fields).
func (e *Emulator) Cartridge() *cartridge.Cartridge { return e.cart }
