// Package serial emulates the Game Boy's serial port far enough to
// support diagnostic ROMs: SB/SC are latched and a transfer-start write
// immediately "completes" (no link cable is modeled), appending the
// transferred byte to a log the host can read back as a UTF-8 string.
package serial

import "github.com/thelolagemann/gomeboy/internal/interrupts"

// Controller holds the SB (data) and SC (control) registers and
// accumulates every byte a ROM transmits, for diagnostic ROMs (Blargg's
// suite among them) that report pass/fail over the serial port.
type Controller struct {
	data    uint8
	control uint8

	irq *interrupts.Controller
	log []byte
}

// NewController returns a serial controller bound to irq.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, control: 0x7E}
}

// Read returns the value at SB or SC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF01:
		return c.data
	case 0xFF02:
		return c.control | 0x7E
	}
	return 0xFF
}

// Write stores a value to SB or SC. A write to SC with both the transfer
// (bit 7) and internal-clock (bit 0) bits set starts a transfer; since no
// peer is attached, it completes immediately: the byte is appended to the
// diagnostic log, the transfer bit is cleared, and the serial interrupt
// is requested, matching the timing a self-clocked, unconnected transfer
// would observe.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		c.data = value
	case 0xFF02:
		c.control = value
		if value&0x81 == 0x81 {
			c.log = append(c.log, c.data)
			c.irq.Request(interrupts.FlagSerial)
			c.control &^= 0x80
		}
	}
}

// Log returns the accumulated serial output as a string, for diagnostic
// ROMs that report results this way.
func (c *Controller) Log() string {
	return string(c.log)
}
