package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgcore/internal/interrupt"
)

func TestInternalClockTransferShiftsInIdleHighBits(t *testing.T) {
	irq := &interrupt.Registers{}
	s := New(irq)

	s.WriteRegister(0xFF01, 0x00)
	s.WriteRegister(0xFF02, 0x81) // start + internal clock

	for i := 0; i < 8*bitPeriod/4+1; i++ {
		s.Tick()
	}

	assert.Equal(t, uint8(0xFF), s.ReadRegister(0xFF01), "8 idle-high bits shifted in")
	assert.Equal(t, uint8(0), s.ReadRegister(0xFF02)&0x80, "start bit clears when the transfer completes")
	assert.NotZero(t, irq.Request&interrupt.FlagSerial)
}

func TestDrainReturnsAndClearsCompletedBytes(t *testing.T) {
	irq := &interrupt.Registers{}
	s := New(irq)
	s.WriteRegister(0xFF02, 0x81)
	for i := 0; i < 8*bitPeriod/4+1; i++ {
		s.Tick()
	}

	out := s.Drain()
	require.Len(t, out, 1)
	assert.Equal(t, uint8(0xFF), out[0])
	assert.Empty(t, s.Drain(), "second drain is empty")
}

func TestTickIsNoopWithoutActiveTransfer(t *testing.T) {
	irq := &interrupt.Registers{}
	s := New(irq)
	for i := 0; i < 10000; i++ {
		s.Tick()
	}
	assert.Equal(t, uint8(0), s.ReadRegister(0xFF01))
	assert.Empty(t, s.Drain())
}

func TestWriteSCWithoutInternalClockDoesNotStartTransfer(t *testing.T) {
	irq := &interrupt.Registers{}
	s := New(irq)
	s.WriteRegister(0xFF02, 0x80) // start bit set, external clock
	for i := 0; i < 8*bitPeriod; i++ {
		s.Tick()
	}
	assert.Empty(t, s.Drain(), "external clock transfer never completes on its own")
}
