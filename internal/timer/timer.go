// Package timer implements the Game Boy's timer: the free-running DIV
// register and the programmable TIMA/TMA/TAC counter, advanced by
// catch-up rather than a per-cycle tick so the CPU only needs to report
// how many cycles have elapsed since the timer was last consulted.
package timer

import "github.com/thelolagemann/gomeboy/internal/interrupts"

// tacDivisor maps TAC's low two bits to the number of CPU cycles between
// TIMA increments: 4096, 262144, 65536, 16384 Hz respectively, expressed
// as CPU cycles (4194304 Hz) per tick.
var tacDivisor = [4]uint64{1024, 16, 64, 256}

// Controller tracks DIV and TIMA/TMA/TAC against a cycle counter supplied
// by the caller; it owns no clock of its own.
type Controller struct {
	irq *interrupts.Controller

	// cycle is the cycle count as of the last CatchUp.
	cycle uint64

	// divCounter is the free-running internal counter DIV is the high
	// byte of; it increments every CPU cycle regardless of TAC.
	divCounter uint16

	tima uint8
	tma  uint8
	tac  uint8

	// timaAcc accumulates cycles towards the next TIMA increment so a
	// TAC speed change doesn't lose partial progress; a DIV write clears
	// it.
	timaAcc uint64
}

// NewController returns a timer bound to irq, with DIV already at its
// documented post-boot internal value.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, divCounter: 0xAB00}
}

// CatchUp advances the timer to match the given absolute cycle count,
// raising the timer interrupt on every TIMA overflow observed along
// the way.
func (c *Controller) CatchUp(target uint64) {
	delta := target - c.cycle
	c.cycle = target
	if delta == 0 {
		return
	}

	c.divCounter += uint16(delta)

	if c.tac&0x04 == 0 {
		return
	}

	c.timaAcc += delta
	period := tacDivisor[c.tac&0x03]
	for c.timaAcc >= period {
		c.timaAcc -= period
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	if c.tima == 0xFF {
		c.tima = c.tma
		c.irq.Request(interrupts.FlagTimer)
	} else {
		c.tima++
	}
}

// Read returns the value at DIV, TIMA, TMA, or TAC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return uint8(c.divCounter >> 8)
	case 0xFF05:
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write stores a value to DIV, TIMA, TMA, or TAC. Any write to DIV,
// regardless of value, resets it to zero.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		c.divCounter = 0
		c.timaAcc = 0
	case 0xFF05:
		c.tima = value
	case 0xFF06:
		c.tma = value
	case 0xFF07:
		c.tac = value & 0x07
	}
}
