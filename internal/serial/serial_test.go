package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thelolagemann/gomeboy/internal/interrupts"
)

func TestTransferCompletesImmediatelyAndLogs(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)

	c.Write(0xFF01, 'P')
	c.Write(0xFF02, 0x81)

	assert.Equal(t, "P", c.Log())
	assert.Equal(t, uint8(0), c.Read(0xFF02)&0x80, "transfer bit clears once complete")
	assert.NotZero(t, irq.Flag&(1<<interrupts.FlagSerial))
}

func TestWriteWithoutClockBitDoesNotTransfer(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)

	c.Write(0xFF01, 'X')
	c.Write(0xFF02, 0x80)

	assert.Equal(t, "", c.Log())
}

func TestLogAccumulatesAcrossTransfers(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)

	for _, b := range []byte("OK") {
		c.Write(0xFF01, b)
		c.Write(0xFF02, 0x81)
	}

	assert.Equal(t, "OK", c.Log())
}
