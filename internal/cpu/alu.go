package cpu

import "github.com/thelolagemann/gomeboy/internal/registers"

// add8 adds b (and, for ADC, the carry flag) to a, setting all four
// flags, and returns the result.
func (c *CPU) add8(a, b uint8, withCarry bool) uint8 {
	carryIn := uint8(0)
	if withCarry && c.Reg.Flag(registers.FlagCarry) {
		carryIn = 1
	}
	result := uint16(a) + uint16(b) + uint16(carryIn)
	halfCarry := (a&0xF)+(b&0xF)+carryIn > 0xF
	c.Reg.SetFlags(uint8(result) == 0, false, halfCarry, result > 0xFF)
	return uint8(result)
}

// sub8 subtracts b (and, for SBC, the carry flag) from a, setting all
// four flags, and returns the result.
func (c *CPU) sub8(a, b uint8, withCarry bool) uint8 {
	carryIn := uint8(0)
	if withCarry && c.Reg.Flag(registers.FlagCarry) {
		carryIn = 1
	}
	result := int16(a) - int16(b) - int16(carryIn)
	halfCarry := int16(a&0xF)-int16(b&0xF)-int16(carryIn) < 0
	c.Reg.SetFlags(uint8(result) == 0, true, halfCarry, result < 0)
	return uint8(result)
}

func (c *CPU) and8(a, b uint8) uint8 {
	result := a & b
	c.Reg.SetFlags(result == 0, false, true, false)
	return result
}

func (c *CPU) or8(a, b uint8) uint8 {
	result := a | b
	c.Reg.SetFlags(result == 0, false, false, false)
	return result
}

func (c *CPU) xor8(a, b uint8) uint8 {
	result := a ^ b
	c.Reg.SetFlags(result == 0, false, false, false)
	return result
}

// inc8 increments a value, leaving the carry flag untouched as the
// hardware requires.
func (c *CPU) inc8(v uint8) uint8 {
	result := v + 1
	c.Reg.SetFlag(registers.FlagZero, result == 0)
	c.Reg.SetFlag(registers.FlagSubtract, false)
	c.Reg.SetFlag(registers.FlagHalfCarry, v&0xF == 0xF)
	return result
}

func (c *CPU) dec8(v uint8) uint8 {
	result := v - 1
	c.Reg.SetFlag(registers.FlagZero, result == 0)
	c.Reg.SetFlag(registers.FlagSubtract, true)
	c.Reg.SetFlag(registers.FlagHalfCarry, v&0xF == 0)
	return result
}

// addHL adds v to HL, leaving the zero flag untouched.
func (c *CPU) addHL(v uint16) {
	hl := c.Reg.HL.Uint16()
	result := uint32(hl) + uint32(v)
	halfCarry := (hl&0xFFF)+(v&0xFFF) > 0xFFF
	c.Reg.SetFlag(registers.FlagSubtract, false)
	c.Reg.SetFlag(registers.FlagHalfCarry, halfCarry)
	c.Reg.SetFlag(registers.FlagCarry, result > 0xFFFF)
	c.Reg.HL.SetUint16(uint16(result))
	c.internalDelay()
}

// addSPSigned computes SP + a signed 8-bit displacement, setting flags
// as if the low byte had been added unsigned (the documented, slightly
// surprising half-carry/carry rule both ADD SP,e and LDHL SP,e share).
func (c *CPU) addSPSigned(e int8) uint16 {
	sp := c.SP
	v := uint16(int16(e))
	result := sp + v
	halfCarry := (sp&0xF)+(v&0xF) > 0xF
	carry := (sp&0xFF)+(v&0xFF) > 0xFF
	c.Reg.SetFlags(false, false, halfCarry, carry)
	return result
}

// cp8 compares a against b (SUB discarding the result) for the CP
// instruction group.
func (c *CPU) cp8(a, b uint8) {
	c.sub8(a, b, false)
}

// daa adjusts A after a BCD addition or subtraction so it again holds
// two packed decimal digits.
func (c *CPU) daa() {
	a := c.Reg.A
	n := c.Reg.Flag(registers.FlagSubtract)
	h := c.Reg.Flag(registers.FlagHalfCarry)
	cy := c.Reg.Flag(registers.FlagCarry)

	var adjust uint8
	carry := cy
	if h || (!n && a&0xF > 9) {
		adjust |= 0x06
	}
	if cy || (!n && a > 0x99) {
		adjust |= 0x60
		carry = true
	}
	if n {
		a -= adjust
	} else {
		a += adjust
	}

	c.Reg.A = a
	c.Reg.SetFlag(registers.FlagZero, a == 0)
	c.Reg.SetFlag(registers.FlagHalfCarry, false)
	c.Reg.SetFlag(registers.FlagCarry, carry)
}

func (c *CPU) cpl() {
	c.Reg.A = ^c.Reg.A
	c.Reg.SetFlag(registers.FlagSubtract, true)
	c.Reg.SetFlag(registers.FlagHalfCarry, true)
}

func (c *CPU) ccf() {
	c.Reg.SetFlag(registers.FlagSubtract, false)
	c.Reg.SetFlag(registers.FlagHalfCarry, false)
	c.Reg.SetFlag(registers.FlagCarry, !c.Reg.Flag(registers.FlagCarry))
}

func (c *CPU) scf() {
	c.Reg.SetFlag(registers.FlagSubtract, false)
	c.Reg.SetFlag(registers.FlagHalfCarry, false)
	c.Reg.SetFlag(registers.FlagCarry, true)
}
