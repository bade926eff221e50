package apu

var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{1, 0, 0, 0, 0, 0, 0, 1}, // 25%
	{1, 0, 0, 0, 0, 1, 1, 1}, // 50%
	{0, 1, 1, 1, 1, 1, 1, 0}, // 75%
}

var noiseDivisors = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

// envelope implements the volume-envelope block shared by the two
// pulse channels and the noise channel.
type envelope struct {
	initialVolume uint8
	increase      bool
	period        uint8

	volume uint8
	timer  uint8
}

func (e *envelope) trigger() {
	e.volume = e.initialVolume
	e.timer = e.period
}

func (e *envelope) clock() {
	if e.period == 0 {
		return
	}
	if e.timer > 0 {
		e.timer--
	}
	if e.timer == 0 {
		e.timer = e.period
		if e.increase && e.volume < 15 {
			e.volume++
		} else if !e.increase && e.volume > 0 {
			e.volume--
		}
	}
}

// pulseChannel implements channels 1 and 2. Channel 1 additionally
// carries the frequency sweep; channel 2 simply never has hasSweep
// set and so clockSweep is a no-op for it.
type pulseChannel struct {
	enabled    bool
	dacEnabled bool

	duty     uint8
	dutyStep int

	lengthCounter int
	lengthEnabled bool

	freq      uint16
	freqTimer int

	envelope envelope

	hasSweep       bool
	sweepPeriod    uint8
	sweepIncrease  bool
	sweepShift     uint8
	sweepTimer     uint8
	sweepEnabled   bool
	shadowFreq     uint16
}

func (p *pulseChannel) tickFrequency() {
	p.freqTimer--
	if p.freqTimer <= 0 {
		p.freqTimer = (2048 - int(p.freq)) * 4
		p.dutyStep = (p.dutyStep + 1) % 8
	}
}

func (p *pulseChannel) trigger() {
	if p.lengthCounter == 0 {
		p.lengthCounter = 64
	}
	p.freqTimer = (2048 - int(p.freq)) * 4
	p.envelope.trigger()
	p.enabled = p.dacEnabled

	if p.hasSweep {
		p.shadowFreq = p.freq
		p.sweepTimer = p.sweepPeriod
		if p.sweepTimer == 0 {
			p.sweepTimer = 8
		}
		p.sweepEnabled = p.sweepPeriod != 0 || p.sweepShift != 0
		if p.sweepShift != 0 {
			p.sweepCalc()
		}
	}
}

func (p *pulseChannel) sweepCalc() uint16 {
	delta := p.shadowFreq >> p.sweepShift
	var next uint16
	if p.sweepIncrease {
		next = p.shadowFreq + delta
	} else {
		next = p.shadowFreq - delta
	}
	if next > 2047 {
		p.enabled = false
	}
	return next
}

func (p *pulseChannel) clockSweep() {
	if !p.hasSweep || !p.sweepEnabled || p.sweepPeriod == 0 {
		return
	}
	if p.sweepTimer > 0 {
		p.sweepTimer--
	}
	if p.sweepTimer != 0 {
		return
	}
	p.sweepTimer = p.sweepPeriod
	next := p.sweepCalc()
	if next <= 2047 && p.sweepShift != 0 {
		p.shadowFreq = next
		p.freq = next
		p.sweepCalc()
	}
}

func (p *pulseChannel) clockLength() {
	if p.lengthEnabled && p.lengthCounter > 0 {
		p.lengthCounter--
		if p.lengthCounter == 0 {
			p.enabled = false
		}
	}
}

func (p *pulseChannel) output() float32 {
	if !p.enabled || !p.dacEnabled {
		return 0
	}
	if dutyTable[p.duty][p.dutyStep] == 0 {
		return 0
	}
	return float32(p.envelope.volume) / 15
}

// waveChannel implements channel 3: a 32-entry 4-bit sample table
// played back with a coarse volume shift instead of an envelope.
type waveChannel struct {
	enabled    bool
	dacEnabled bool

	lengthCounter int
	lengthEnabled bool

	freq      uint16
	freqTimer int

	volumeShift uint8
	position    int

	ram *[16]byte
}

func (w *waveChannel) tickFrequency() {
	w.freqTimer--
	if w.freqTimer <= 0 {
		w.freqTimer = (2048 - int(w.freq)) * 2
		w.position = (w.position + 1) % 32
	}
}

func (w *waveChannel) trigger() {
	if w.lengthCounter == 0 {
		w.lengthCounter = 256
	}
	w.freqTimer = (2048 - int(w.freq)) * 2
	w.position = 0
	w.enabled = w.dacEnabled
}

func (w *waveChannel) clockLength() {
	if w.lengthEnabled && w.lengthCounter > 0 {
		w.lengthCounter--
		if w.lengthCounter == 0 {
			w.enabled = false
		}
	}
}

func (w *waveChannel) shift() uint {
	switch w.volumeShift {
	case 1:
		return 0
	case 2:
		return 1
	case 3:
		return 2
	default:
		return 4
	}
}

func (w *waveChannel) output() float32 {
	if !w.enabled || !w.dacEnabled || w.ram == nil {
		return 0
	}
	b := w.ram[w.position/2]
	var sample uint8
	if w.position%2 == 0 {
		sample = b >> 4
	} else {
		sample = b & 0x0F
	}
	sample >>= w.shift()
	return float32(sample) / 15
}

// noiseChannel implements channel 4: a 15-bit (or 7-bit, in narrow
// mode) linear feedback shift register driven by a selectable divisor
// and clock shift.
type noiseChannel struct {
	enabled    bool
	dacEnabled bool

	lengthCounter int
	lengthEnabled bool

	envelope envelope

	clockShift  uint8
	widthMode   uint8
	divisorCode uint8

	lfsr      uint16
	freqTimer int
}

func (n *noiseChannel) tickFrequency() {
	n.freqTimer--
	if n.freqTimer <= 0 {
		n.freqTimer = noiseDivisors[n.divisorCode] << n.clockShift
		bit := (n.lfsr ^ (n.lfsr >> 1)) & 1
		n.lfsr = n.lfsr>>1 | bit<<14
		if n.widthMode == 1 {
			n.lfsr = n.lfsr&^(1<<6) | bit<<6
		}
	}
}

func (n *noiseChannel) trigger() {
	if n.lengthCounter == 0 {
		n.lengthCounter = 64
	}
	n.lfsr = 0x7FFF
	n.freqTimer = noiseDivisors[n.divisorCode] << n.clockShift
	n.envelope.trigger()
	n.enabled = n.dacEnabled
}

func (n *noiseChannel) clockLength() {
	if n.lengthEnabled && n.lengthCounter > 0 {
		n.lengthCounter--
		if n.lengthCounter == 0 {
			n.enabled = false
		}
	}
}

func (n *noiseChannel) output() float32 {
	if !n.enabled || !n.dacEnabled || n.lfsr&1 == 1 {
		return 0
	}
	return float32(n.envelope.volume) / 15
}
