package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIEWriteIEMasksUnusedBits(t *testing.T) {
	r := &Registers{}
	r.WriteIE(0xFF)
	assert.Equal(t, uint8(0xFF), r.ReadIE(), "unused bits read back as 1")
	assert.Equal(t, Flags(0x1F), r.Enable)
}

func TestRaisePendingClear(t *testing.T) {
	r := &Registers{}
	assert.False(t, r.Pending())

	r.Raise(Timer)
	assert.False(t, r.Pending(), "requested but not enabled is not pending")

	r.WriteIE(uint8(FlagTimer))
	assert.True(t, r.Pending())

	r.Clear(Timer)
	assert.False(t, r.Pending())
}

func TestHighestRespectsFixedPriority(t *testing.T) {
	r := &Registers{}
	r.WriteIE(0xFF)
	r.Raise(Joypad)
	r.Raise(Timer)
	r.Raise(VBlank)

	kind, vector, ok := r.Highest()
	require.True(t, ok)
	assert.Equal(t, VBlank, kind, "VBlank outranks Timer and Joypad")
	assert.Equal(t, uint16(0x40), vector)
}

func TestHighestWithNothingPending(t *testing.T) {
	r := &Registers{}
	_, _, ok := r.Highest()
	assert.False(t, ok)
}

func TestVectorsMatchEachKind(t *testing.T) {
	r := &Registers{}
	r.WriteIE(0xFF)

	cases := []struct {
		kind   Kind
		vector uint16
	}{
		{VBlank, 0x40},
		{LCDStat, 0x48},
		{Timer, 0x50},
		{Serial, 0x58},
		{Joypad, 0x60},
	}
	for _, c := range cases {
		r.Request = 0
		r.Raise(c.kind)
		_, vector, ok := r.Highest()
		require.True(t, ok)
		assert.Equal(t, c.vector, vector)
	}
}
