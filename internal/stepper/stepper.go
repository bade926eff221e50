// Package stepper drives one CPU instruction at a time and fans the
// M-cycles it consumed out to every peripheral, the way the real chip
// runs CPU and peripherals off the same clock. It is the Go-native
// replacement for a scheduler keyed to an external oscillator: instead
// of ticking every component once per master-clock edge, it ticks each
// one the batch of cycles the CPU just spent, in a fixed per-cycle
// order.
package stepper

import (
	"dmgcore/internal/apu"
	"dmgcore/internal/cpu"
	"dmgcore/internal/dma"
	"dmgcore/internal/joypad"
	"dmgcore/internal/ppu"
	"dmgcore/internal/serial"
	"dmgcore/internal/timer"
)

const dotsPerMCycle = 4

// Stepper coordinates one CPU step with the peripherals it shares a
// clock with. It holds no state of its own beyond a running M-cycle
// counter (TotalCycles).
type Stepper struct {
	CPU    *cpu.CPU
	Timer  *timer.Timer
	Serial *serial.Serial
	PPU    *ppu.PPU
	DMA    *dma.DMA
	APU    *apu.APU
	Joypad *joypad.Joypad

	TotalCycles uint64
}

// New builds a Stepper over already-constructed, already-wired
// components.
func New(c *cpu.CPU, t *timer.Timer, s *serial.Serial, p *ppu.PPU, d *dma.DMA, a *apu.APU, j *joypad.Joypad) *Stepper {
	return &Stepper{CPU: c, Timer: t, Serial: s, PPU: p, DMA: d, APU: a, Joypad: j}
}

// Step runs exactly one CPU.Step() (one instruction, one interrupt
// dispatch, or one HALT idle cycle) and advances every peripheral by
// the M-cycles it cost. Returns the M-cycles consumed.
func (s *Stepper) Step() int {
	mCycles := s.CPU.Step()
	for i := 0; i < mCycles; i++ {
		s.Timer.Tick()
		s.Serial.Tick()
		s.DMA.Tick()
		s.PPU.Step(dotsPerMCycle)
		s.APU.Tick()
		s.TotalCycles++
	}
	return mCycles
}

// RunUntilFrame steps the CPU until the PPU has produced a new
// completed frame, returning the number of instructions executed.
// Callers read the frame out via PPU.ConsumeFrame/RenderRGB afterward.
func (s *Stepper) RunUntilFrame() int {
	instructions := 0
	for !s.PPU.FrameReady() {
		s.Step()
		instructions++
	}
	return instructions
}
