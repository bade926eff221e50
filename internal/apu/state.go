package apu

// EnvelopeState is the serializable snapshot of one volume envelope.
type EnvelopeState struct {
	InitialVolume uint8
	Increase      bool
	Period        uint8
	Volume        uint8
	Timer         uint8
}

func snapshotEnvelope(e envelope) EnvelopeState {
	return EnvelopeState{InitialVolume: e.initialVolume, Increase: e.increase, Period: e.period, Volume: e.volume, Timer: e.timer}
}

func restoreEnvelope(e *envelope, s EnvelopeState) {
	e.initialVolume, e.increase, e.period = s.InitialVolume, s.Increase, s.Period
	e.volume, e.timer = s.Volume, s.Timer
}

// PulseState is the serializable snapshot of a pulse channel (1 or 2).
type PulseState struct {
	Enabled, DACEnabled bool
	Duty                uint8
	DutyStep            int
	LengthCounter        int
	LengthEnabled        bool
	Freq                 uint16
	FreqTimer            int
	Envelope             EnvelopeState
	HasSweep             bool
	SweepPeriod          uint8
	SweepIncrease        bool
	SweepShift           uint8
	SweepTimer           uint8
	SweepEnabled         bool
	ShadowFreq           uint16
}

func snapshotPulse(p pulseChannel) PulseState {
	return PulseState{
		Enabled: p.enabled, DACEnabled: p.dacEnabled,
		Duty: p.duty, DutyStep: p.dutyStep,
		LengthCounter: p.lengthCounter, LengthEnabled: p.lengthEnabled,
		Freq: p.freq, FreqTimer: p.freqTimer,
		Envelope: snapshotEnvelope(p.envelope),
		HasSweep: p.hasSweep, SweepPeriod: p.sweepPeriod, SweepIncrease: p.sweepIncrease,
		SweepShift: p.sweepShift, SweepTimer: p.sweepTimer, SweepEnabled: p.sweepEnabled,
		ShadowFreq: p.shadowFreq,
	}
}

func restorePulse(p *pulseChannel, s PulseState) {
	p.enabled, p.dacEnabled = s.Enabled, s.DACEnabled
	p.duty, p.dutyStep = s.Duty, s.DutyStep
	p.lengthCounter, p.lengthEnabled = s.LengthCounter, s.LengthEnabled
	p.freq, p.freqTimer = s.Freq, s.FreqTimer
	restoreEnvelope(&p.envelope, s.Envelope)
	p.hasSweep, p.sweepPeriod, p.sweepIncrease = s.HasSweep, s.SweepPeriod, s.SweepIncrease
	p.sweepShift, p.sweepTimer, p.sweepEnabled = s.SweepShift, s.SweepTimer, s.SweepEnabled
	p.shadowFreq = s.ShadowFreq
}

// WaveState is the serializable snapshot of the wave channel, not
// including the shared wave RAM table (saved separately as State.WaveRAM).
type WaveState struct {
	Enabled, DACEnabled bool
	LengthCounter       int
	LengthEnabled       bool
	Freq                uint16
	FreqTimer           int
	VolumeShift         uint8
	Position            int
}

func snapshotWave(w waveChannel) WaveState {
	return WaveState{
		Enabled: w.enabled, DACEnabled: w.dacEnabled,
		LengthCounter: w.lengthCounter, LengthEnabled: w.lengthEnabled,
		Freq: w.freq, FreqTimer: w.freqTimer,
		VolumeShift: w.volumeShift, Position: w.position,
	}
}

func restoreWave(w *waveChannel, s WaveState) {
	w.enabled, w.dacEnabled = s.Enabled, s.DACEnabled
	w.lengthCounter, w.lengthEnabled = s.LengthCounter, s.LengthEnabled
	w.freq, w.freqTimer = s.Freq, s.FreqTimer
	w.volumeShift, w.position = s.VolumeShift, s.Position
}

// NoiseState is the serializable snapshot of the noise channel.
type NoiseState struct {
	Enabled, DACEnabled bool
	LengthCounter       int
	LengthEnabled       bool
	Envelope            EnvelopeState
	ClockShift          uint8
	WidthMode           uint8
	DivisorCode         uint8
	LFSR                uint16
	FreqTimer           int
}

func snapshotNoise(n noiseChannel) NoiseState {
	return NoiseState{
		Enabled: n.enabled, DACEnabled: n.dacEnabled,
		LengthCounter: n.lengthCounter, LengthEnabled: n.lengthEnabled,
		Envelope:    snapshotEnvelope(n.envelope),
		ClockShift:  n.clockShift, WidthMode: n.widthMode, DivisorCode: n.divisorCode,
		LFSR: n.lfsr, FreqTimer: n.freqTimer,
	}
}

func restoreNoise(n *noiseChannel, s NoiseState) {
	n.enabled, n.dacEnabled = s.Enabled, s.DACEnabled
	n.lengthCounter, n.lengthEnabled = s.LengthCounter, s.LengthEnabled
	restoreEnvelope(&n.envelope, s.Envelope)
	n.clockShift, n.widthMode, n.divisorCode = s.ClockShift, s.WidthMode, s.DivisorCode
	n.lfsr, n.freqTimer = s.LFSR, s.FreqTimer
}

// State is the serializable snapshot of the whole APU for save states.
type State struct {
	Powered       bool
	Pulse1        PulseState
	Pulse2        PulseState
	Wave          WaveState
	Noise         NoiseState
	NR50, NR51    uint8
	WaveRAM       [16]byte
	FrameSeqStep  int
	FrameSeqTimer int
}

// Snapshot captures the APU's current state.
func (a *APU) Snapshot() State {
	return State{
		Powered: a.powered,
		Pulse1:  snapshotPulse(a.pulse1),
		Pulse2:  snapshotPulse(a.pulse2),
		Wave:    snapshotWave(a.wave),
		Noise:   snapshotNoise(a.noise),
		NR50:    a.nr50, NR51: a.nr51,
		WaveRAM:       a.waveRAM,
		FrameSeqStep:  a.frameSeqStep,
		FrameSeqTimer: a.frameSeqTimer,
	}
}

// Restore replaces the APU's state with a previously captured Snapshot.
func (a *APU) Restore(s State) {
	a.powered = s.Powered
	restorePulse(&a.pulse1, s.Pulse1)
	restorePulse(&a.pulse2, s.Pulse2)
	restoreWave(&a.wave, s.Wave)
	restoreNoise(&a.noise, s.Noise)
	a.nr50, a.nr51 = s.NR50, s.NR51
	a.waveRAM = s.WaveRAM
	a.wave.ram = &a.waveRAM
	a.frameSeqStep, a.frameSeqTimer = s.FrameSeqStep, s.FrameSeqTimer
}
