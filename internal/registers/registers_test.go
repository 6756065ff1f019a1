package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairAliasesUnderlyingRegisters(t *testing.T) {
	f := New()
	f.B, f.C = 0x12, 0x34
	assert.Equal(t, uint16(0x1234), f.BC.Uint16())

	f.HL.SetUint16(0xBEEF)
	assert.Equal(t, uint8(0xBE), f.H)
	assert.Equal(t, uint8(0xEF), f.L)
}

func TestSetAFMasksLowNibble(t *testing.T) {
	f := New()
	f.SetAF(0x1234)
	assert.Equal(t, uint8(0x12), f.A)
	assert.Equal(t, uint8(0x30), f.F)
}

func TestHLPostIncrementDecrement(t *testing.T) {
	f := New()
	f.HL.SetUint16(0xC000)

	got := f.HLPostIncrement()
	assert.Equal(t, uint16(0xC000), got)
	assert.Equal(t, uint16(0xC001), f.HL.Uint16())

	got = f.HLPostDecrement()
	assert.Equal(t, uint16(0xC001), got)
	assert.Equal(t, uint16(0xC000), f.HL.Uint16())
}

func TestFlags(t *testing.T) {
	f := New()
	for _, flag := range []uint8{FlagZero, FlagSubtract, FlagHalfCarry, FlagCarry} {
		f.SetFlag(flag, true)
		assert.True(t, f.Flag(flag))
		f.SetFlag(flag, false)
		assert.False(t, f.Flag(flag))
	}

	f.SetFlags(true, false, true, false)
	assert.Equal(t, uint8(FlagZero|FlagHalfCarry), f.F)
}
