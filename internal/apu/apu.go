// Package apu implements the 4-channel audio processing unit: two
// pulse channels (one with frequency sweep), the programmable wave
// channel, the LFSR noise channel, the 512Hz frame sequencer driving
// length/envelope/sweep, and the NR50/NR51 stereo mixer.
package apu

import "dmgcore/internal/debug"

// APU owns all four channels and the registers that aren't private to
// one of them (NR50, NR51, NR52, wave RAM).
type APU struct {
	powered bool

	pulse1 pulseChannel
	pulse2 pulseChannel
	wave   waveChannel
	noise  noiseChannel

	nr50, nr51 uint8

	waveRAM [16]byte

	frameSeqStep  int
	frameSeqTimer int

	logger *debug.Logger
}

// New creates a powered-off APU. Call WriteRegister(0xFF26, 0x80) or
// equivalent to power it on, as a ROM's init code does.
func New() *APU {
	a := &APU{}
	a.pulse1.hasSweep = true
	a.wave.ram = &a.waveRAM
	return a
}

// AttachLogger wires a shared logger for channel trigger events. A
// nil logger (the zero value of an unwired APU) disables logging.
func (a *APU) AttachLogger(l *debug.Logger) {
	a.logger = l
}

// logTrigger records a channel trigger write (NRx4 bit 7) if a logger
// is attached and has the APU component enabled.
func (a *APU) logTrigger(channel string) {
	if a.logger == nil {
		return
	}
	a.logger.LogAPUf(debug.LogLevelDebug, "%s triggered", channel)
}

// Tick advances every channel and the frame sequencer by one M-cycle
// (4 T-cycles).
func (a *APU) Tick() {
	if !a.powered {
		return
	}
	for i := 0; i < 4; i++ {
		a.pulse1.tickFrequency()
		a.pulse2.tickFrequency()
		a.wave.tickFrequency()
		a.noise.tickFrequency()

		a.frameSeqTimer++
		if a.frameSeqTimer >= 8192 {
			a.frameSeqTimer = 0
			a.stepFrameSequencer()
		}
	}
}

func (a *APU) stepFrameSequencer() {
	switch a.frameSeqStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.clockSweep()
	case 7:
		a.clockEnvelope()
	}
	a.frameSeqStep = (a.frameSeqStep + 1) % 8
}

func (a *APU) clockLength() {
	a.pulse1.clockLength()
	a.pulse2.clockLength()
	a.wave.clockLength()
	a.noise.clockLength()
}

func (a *APU) clockEnvelope() {
	a.pulse1.envelope.clock()
	a.pulse2.envelope.clock()
	a.noise.envelope.clock()
}

func (a *APU) clockSweep() {
	a.pulse1.clockSweep()
}

// Sample renders the current instantaneous stereo mix in [-1, 1],
// applying NR50 master volume and NR51 per-channel panning. Hosts
// call this at their own output sample rate; the APU itself does no
// resampling or buffering.
func (a *APU) Sample() (left, right float32) {
	if !a.powered {
		return 0, 0
	}
	c1 := a.pulse1.output()
	c2 := a.pulse2.output()
	c3 := a.wave.output()
	c4 := a.noise.output()

	var l, r float32
	if a.nr51&0x10 != 0 {
		l += c1
	}
	if a.nr51&0x20 != 0 {
		l += c2
	}
	if a.nr51&0x40 != 0 {
		l += c3
	}
	if a.nr51&0x80 != 0 {
		l += c4
	}
	if a.nr51&0x01 != 0 {
		r += c1
	}
	if a.nr51&0x02 != 0 {
		r += c2
	}
	if a.nr51&0x04 != 0 {
		r += c3
	}
	if a.nr51&0x08 != 0 {
		r += c4
	}

	leftVol := float32((a.nr50>>4)&0x07+1) / 8
	rightVol := float32(a.nr50&0x07+1) / 8
	return (l / 4) * leftVol, (r / 4) * rightVol
}
