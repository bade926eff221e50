package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgcore/internal/interrupt"
)

func TestReadRegisterDefaultsToNoButtonsPressed(t *testing.T) {
	j := New(&interrupt.Registers{})
	assert.Equal(t, uint8(0xFF), j.ReadRegister())
}

func TestSelectingDpadReflectsPressedButtons(t *testing.T) {
	j := New(&interrupt.Registers{})
	j.WriteRegister(0x20) // select dpad group (bit 4 = 0)
	j.SetButton(Up, true)
	assert.Equal(t, uint8(0xE0|0x0B), j.ReadRegister(), "bit 2 (Up) clear, others set")
}

func TestSelectingButtonsReflectsPressedButtons(t *testing.T) {
	j := New(&interrupt.Registers{})
	j.WriteRegister(0x10) // select button group (bit 5 = 0)
	j.SetButton(A, true)
	assert.Equal(t, uint8(0xD0|0x0E), j.ReadRegister())
}

func TestPressTransitionRaisesJoypadInterrupt(t *testing.T) {
	irq := &interrupt.Registers{}
	j := New(irq)
	j.WriteRegister(0x20)

	j.SetButton(Down, true)
	assert.NotZero(t, irq.Request&interrupt.FlagJoypad)
}

func TestUnselectedGroupNeverContributesBits(t *testing.T) {
	irq := &interrupt.Registers{}
	j := New(irq)
	j.WriteRegister(0x30) // neither group selected
	j.SetButton(A, true)
	j.SetButton(Up, true)
	assert.Equal(t, uint8(0xFF), j.ReadRegister(), "no group selected reads all high")
}

func TestEdgeRecording(t *testing.T) {
	j := New(&interrupt.Registers{})
	j.EnableEdgeRecording(true)
	j.SetButton(A, true)
	j.SetButton(A, false)

	edges := j.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, Edge{Button: A, Pressed: true}, edges[0])
	assert.Equal(t, Edge{Button: A, Pressed: false}, edges[1])

	j.EnableEdgeRecording(false)
	assert.Empty(t, j.Edges(), "disabling recording clears history")
}

func TestSetButtonNoopWhenUnchanged(t *testing.T) {
	irq := &interrupt.Registers{}
	j := New(irq)
	j.WriteRegister(0x20)
	j.SetButton(Up, false) // already released
	assert.Zero(t, irq.Request&interrupt.FlagJoypad)
}
