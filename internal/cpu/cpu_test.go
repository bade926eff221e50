package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgcore/internal/interrupt"
)

// flatBus is a 64KB RAM-backed Bus stand-in, enough to drive the CPU
// in isolation from the rest of the memory map.
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read8(addr uint16) uint8     { return b.mem[addr] }
func (b *flatBus) Write8(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU() (*CPU, *flatBus, *interrupt.Registers) {
	bus := &flatBus{}
	irq := &interrupt.Registers{}
	c := New(bus, irq)
	c.PC = 0xC000
	return c, bus, irq
}

func TestNewSetsDMGPostBootromState(t *testing.T) {
	c, _, _ := newTestCPU()
	assert.Equal(t, uint8(0x01), c.Reg.A)
	assert.Equal(t, uint8(0xB0), c.Reg.F)
	assert.Equal(t, uint16(0xFFFE), c.SP)
}

func TestNOPConsumesOneCycleAndAdvancesPC(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0x00 // NOP
	cycles := c.Step()
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint16(0xC001), c.PC)
}

func TestLDBd8LoadsImmediateIntoB(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0x06 // LD B, d8
	bus.mem[0xC001] = 0x42
	c.Step()
	assert.Equal(t, uint8(0x42), c.Reg.B)
}

func TestXORASetsZeroFlagAndClearsA(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0xAF // XOR A
	c.Step()
	assert.Equal(t, uint8(0), c.Reg.A)
	assert.NotZero(t, c.Reg.F&flagZ)
	assert.Zero(t, c.Reg.F&flagC)
}

func TestINCBSetsHalfCarryOnNibbleOverflow(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.Reg.B = 0x0F
	bus.mem[0xC000] = 0x04 // INC B
	c.Step()
	assert.Equal(t, uint8(0x10), c.Reg.B)
	assert.NotZero(t, c.Reg.F&flagH)
}

func TestJRTakenAndNotTakenCycleCosts(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0x18 // JR always taken
	bus.mem[0xC001] = 0x05
	cycles := c.Step()
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0xC007), c.PC)

	bus.mem[0xC007] = 0x20 // JR NZ, not taken while Z is set
	bus.mem[0xC008] = 0x05
	c.Reg.F |= flagZ
	cycles = c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0xC009), c.PC)
}

func TestCallAndRetRoundTrip(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0xCD // CALL a16
	bus.mem[0xC001] = 0x00
	bus.mem[0xC002] = 0xD0
	c.Step()
	assert.Equal(t, uint16(0xD000), c.PC)
	assert.Equal(t, uint16(0xC003), c.bus.(*flatBus).mem16(c.SP))

	bus.mem[0xD000] = 0xC9 // RET
	c.Step()
	assert.Equal(t, uint16(0xC003), c.PC)
}

func (b *flatBus) mem16(addr uint16) uint16 {
	return uint16(b.mem[addr]) | uint16(b.mem[addr+1])<<8
}

func TestUndocumentedOpcodeLocksTheCPU(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0xC000] = 0xD3 // undocumented/illegal
	c.Step()
	require.True(t, c.Locked())

	pcAfterLock := c.PC
	for i := 0; i < 5; i++ {
		cycles := c.Step()
		assert.Equal(t, 1, cycles)
	}
	assert.Equal(t, pcAfterLock, c.PC, "a locked CPU never fetches again")
}

func TestHaltWithIMEDisabledAndPendingIRQTriggersHaltBug(t *testing.T) {
	c, bus, irq := newTestCPU()
	bus.mem[0xC000] = 0x76 // HALT
	irq.WriteIE(uint8(interrupt.FlagVBlank))
	irq.Raise(interrupt.VBlank)

	c.Step()
	assert.False(t, c.Halted)
	assert.True(t, c.haltBug)
}

func TestServiceInterruptPushesPCAndJumpsToVector(t *testing.T) {
	c, bus, irq := newTestCPU()
	bus.mem[0xC000] = 0x00 // NOP, so IME is already enabled before the interrupt
	c.ime = imeEnabled
	irq.WriteIE(uint8(interrupt.FlagTimer))
	irq.Raise(interrupt.Timer)

	cycles := c.Step()
	assert.Equal(t, 5, cycles)
	assert.Equal(t, uint16(0x50), c.PC)
	assert.False(t, c.IME())
	assert.Zero(t, irq.Request&interrupt.FlagTimer)
}

func TestSaveStateRoundTrip(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reg.A = 0x77
	c.SP = 0xDEAD
	snap := c.Snapshot()

	c.Reg.A = 0x00
	c.SP = 0x0000
	c.Restore(snap)

	assert.Equal(t, uint8(0x77), c.Reg.A)
	assert.Equal(t, uint16(0xDEAD), c.SP)
}
