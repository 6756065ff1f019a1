package cpu

import "github.com/thelolagemann/gomeboy/internal/registers"

// rotateLeft rotates v left one bit; bit 7 moves into both the carry
// flag and bit 0. zeroFlag controls whether the result sets the zero
// flag (CB-prefixed RLC) or always clears it (RLCA).
func (c *CPU) rotateLeft(v uint8, zeroFlag bool) uint8 {
	carry := v&0x80 != 0
	result := v<<1 | v>>7
	c.Reg.SetFlags(zeroFlag && result == 0, false, false, carry)
	return result
}

// rotateLeftThroughCarry rotates v left one bit through the carry flag:
// the old carry becomes bit 0, and bit 7 becomes the new carry.
func (c *CPU) rotateLeftThroughCarry(v uint8, zeroFlag bool) uint8 {
	oldCarry := uint8(0)
	if c.Reg.Flag(registers.FlagCarry) {
		oldCarry = 1
	}
	carry := v&0x80 != 0
	result := v<<1 | oldCarry
	c.Reg.SetFlags(zeroFlag && result == 0, false, false, carry)
	return result
}

func (c *CPU) rotateRight(v uint8, zeroFlag bool) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | v<<7
	c.Reg.SetFlags(zeroFlag && result == 0, false, false, carry)
	return result
}

func (c *CPU) rotateRightThroughCarry(v uint8, zeroFlag bool) uint8 {
	oldCarry := uint8(0)
	if c.Reg.Flag(registers.FlagCarry) {
		oldCarry = 1
	}
	carry := v&0x01 != 0
	result := v>>1 | oldCarry<<7
	c.Reg.SetFlags(zeroFlag && result == 0, false, false, carry)
	return result
}
