// Package interrupts implements the Game Boy's interrupt controller: the
// IF (request) and IE (enable) registers, the IME master-enable latch,
// and the fixed vblank/stat/timer/serial/joypad priority order.
package interrupts

// Address is the entry vector an interrupt dispatches to.
type Address = uint16

const (
	VBlank Address = 0x0040
	Stat   Address = 0x0048
	Timer  Address = 0x0050
	Serial Address = 0x0058
	Joypad Address = 0x0060
)

// Flag identifies an interrupt source by its bit position in IF/IE.
type Flag = uint8

const (
	FlagVBlank Flag = 0
	FlagStat   Flag = 1
	FlagTimer  Flag = 2
	FlagSerial Flag = 3
	FlagJoypad Flag = 4
)

const (
	// FlagRegister is IF, 0xFF0F.
	FlagRegister uint16 = 0xFF0F
	// EnableRegister is IE, 0xFFFF.
	EnableRegister uint16 = 0xFFFF
)

// vectors gives the dispatch address for each flag, indexed by its IF
// bit, in priority order: vblank is serviced before stat, stat before
// timer, and so on. Next consults this order.
var vectors = [5]Address{VBlank, Stat, Timer, Serial, Joypad}

// Controller is the Game Boy's interrupt controller: the IF and IE
// registers plus the IME master-enable latch.
type Controller struct {
	Flag   uint8
	Enable uint8
	IME    bool
}

// NewController returns a fresh, all-zero interrupt controller.
func NewController() *Controller {
	return &Controller{}
}

// Request raises the request bit for the given interrupt source. It is
// called by any subsystem (PPU, timer, serial, joypad) that wants to
// signal the CPU; none of them own IF directly.
func (c *Controller) Request(flag Flag) {
	c.Flag |= 1 << flag
}

// Clear lowers the request bit for the given interrupt source.
func (c *Controller) Clear(flag Flag) {
	c.Flag &^= 1 << flag
}

// Pending reports whether any interrupt is both requested and enabled,
// regardless of IME. HALT wakes on this condition even with IME
// disabled.
func (c *Controller) Pending() bool {
	return c.Flag&c.Enable&0x1F != 0
}

// Next returns the highest-priority pending interrupt's flag bit,
// request vector, and true, or (0, 0, false) if none is pending. Priority
// is strict: servicing one interrupt always defers the others to the
// next boundary.
func (c *Controller) Next() (flag Flag, vector Address, ok bool) {
	pending := c.Flag & c.Enable & 0x1F
	for bit := Flag(0); bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			return bit, vectors[bit], true
		}
	}
	return 0, 0, false
}

// Read returns the value of IF or IE. IF's top three bits always read
// back as 1 since the hardware does not implement them.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return c.Flag&0x1F | 0xE0
	case EnableRegister:
		return c.Enable
	}
	return 0xFF
}

// Write stores a value to IF or IE. Writing IF directly (as opposed to
// Request/Clear) is how software acknowledges or forces interrupts.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		c.Flag = value & 0x1F
	case EnableRegister:
		c.Enable = value
	}
}
