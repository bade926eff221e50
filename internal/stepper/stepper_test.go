package stepper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgcore/internal/apu"
	"dmgcore/internal/cpu"
	"dmgcore/internal/dma"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/joypad"
	"dmgcore/internal/ppu"
	"dmgcore/internal/serial"
	"dmgcore/internal/timer"
)

type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read8(addr uint16) uint8     { return b.mem[addr] }
func (b *flatBus) Write8(addr uint16, v uint8) { b.mem[addr] = v }
func (b *flatBus) ReadRaw(addr uint16) uint8   { return b.mem[addr] }

func newTestStepper(bus *flatBus) (*Stepper, *ppu.PPU, *interrupt.Registers) {
	irq := &interrupt.Registers{}
	p := ppu.New(irq)
	a := apu.New()
	tm := timer.New(irq)
	s := serial.New(irq)
	d := dma.New(p)
	d.AttachSource(bus)
	j := joypad.New(irq)
	c := cpu.New(bus, irq)
	return New(c, tm, s, p, d, a, j), p, irq
}

func TestStepAdvancesTotalCyclesByMCycleCount(t *testing.T) {
	bus := &flatBus{}
	bus.mem[0x0100] = 0x00 // NOP, 1 M-cycle
	st, _, _ := newTestStepper(bus)

	cycles := st.Step()
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint64(1), st.TotalCycles)
}

func TestRunUntilFrameStepsUntilPPUReportsReady(t *testing.T) {
	bus := &flatBus{}
	for i := 0x0100; i < 0x10000; i++ {
		bus.mem[i] = 0x00 // NOP forever
	}
	st, p, _ := newTestStepper(bus)
	p.WriteRegister(0xFF40, 0x91) // turn the LCD on

	instructions := st.RunUntilFrame()
	require.True(t, p.FrameReady())
	assert.Greater(t, instructions, 0)
}
