package cpu

import "github.com/thelolagemann/gomeboy/internal/registers"

// bitTest sets the zero flag to the complement of bit n of v, per the
// BIT n,r instruction; half-carry is always set, carry untouched.
func (c *CPU) bitTest(v uint8, n uint8) {
	c.Reg.SetFlag(registers.FlagZero, v&(1<<n) == 0)
	c.Reg.SetFlag(registers.FlagSubtract, false)
	c.Reg.SetFlag(registers.FlagHalfCarry, true)
}

func setBit(v uint8, n uint8) uint8 {
	return v | 1<<n
}

func resetBit(v uint8, n uint8) uint8 {
	return v &^ (1 << n)
}
