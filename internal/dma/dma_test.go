package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mem    [0x10000]uint8
	writes []uint8
}

func (f *fakeBus) ReadRaw(addr uint16) uint8 { return f.mem[addr] }
func (f *fakeBus) WriteOAMDMA(index uint8, v uint8) {
	f.writes = append(f.writes, v)
}

func TestTransferCopies160BytesAfterStartupDelay(t *testing.T) {
	bus := &fakeBus{}
	for i := range bus.mem {
		bus.mem[i] = uint8(i >> 8)
	}
	d := New(bus)
	d.AttachSource(bus)

	d.WriteRegister(0xC0) // source base 0xC000
	require.True(t, d.Active())

	// 2 M-cycle startup: no bytes copied yet.
	d.Tick()
	d.Tick()
	assert.Empty(t, bus.writes)

	for i := 0; i < 160; i++ {
		d.Tick()
	}
	require.Len(t, bus.writes, 160)
	assert.Equal(t, uint8(0xC0), bus.writes[0])
	assert.False(t, d.Active())
}

func TestReadRegisterReturnsSourceHighByte(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus)
	d.AttachSource(bus)
	d.WriteRegister(0x80)
	assert.Equal(t, uint8(0x80), d.ReadRegister())
}

func TestHotRestartReplacesTransferImmediately(t *testing.T) {
	bus := &fakeBus{}
	for i := range bus.mem {
		bus.mem[i] = uint8(i >> 8)
	}
	d := New(bus)
	d.AttachSource(bus)

	d.WriteRegister(0xC0)
	d.Tick()
	d.Tick() // startup done, old transfer now actively conflicting
	d.Tick() // one byte copied from the old source

	d.WriteRegister(0xD0) // hot restart while active: old transfer is abandoned, not finished
	require.True(t, d.Active())
	assert.Equal(t, uint8(0xD0), d.ReadRegister())

	// The new transfer's own 2-M-cycle startup, not 158 more old bytes.
	d.Tick()
	d.Tick()
	assert.Len(t, bus.writes, 1, "no bytes from the old transfer's remainder ever land in OAM")

	d.Tick()
	require.Len(t, bus.writes, 2)
	assert.Equal(t, uint8(0xD0), bus.writes[1], "the second byte comes from the new source")
}

func TestHotRestartKeepsBusConflictActiveThroughNewStartup(t *testing.T) {
	bus := &fakeBus{}
	for i := range bus.mem {
		bus.mem[i] = uint8(i)
	}
	d := New(bus)
	d.AttachSource(bus)

	d.WriteRegister(0xC0)
	d.Tick()
	d.Tick() // old transfer past its own startup, conflicting on the external bus

	d.WriteRegister(0xD0) // hot restart: new source is also external bus
	_, conflict := d.ConflictRead(0xC500)
	assert.True(t, conflict, "a hot restart's own startup still conflicts, inherited from the transfer it cut off")
}

func TestColdStartHasNoBusConflictDuringStartup(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus)
	d.AttachSource(bus)

	d.WriteRegister(0xC0)
	_, conflict := d.ConflictRead(0xC500)
	assert.False(t, conflict, "a fresh transfer hasn't touched the bus yet during its startup")
}

func TestConflictReadAndBlocksWriteDuringVideoBusTransfer(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus)
	d.AttachSource(bus)

	d.WriteRegister(0x80) // source in VRAM (0x8000), video bus
	d.Tick()
	d.Tick() // startup complete, first transfer byte pending

	val, conflict := d.ConflictRead(0x9000)
	assert.True(t, conflict)
	assert.Equal(t, uint8(0), val)
	assert.True(t, d.ConflictBlocksWrite(0x9000))

	_, conflict = d.ConflictRead(0xC000)
	assert.False(t, conflict, "external bus address doesn't conflict with a video-bus transfer")
}
