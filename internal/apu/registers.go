package apu

// ReadRegister reads an APU register in FF10-FF26 or wave RAM in
// FF30-FF3F.
func (a *APU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF10:
		return 0x80 | a.pulse1.sweepPeriod<<4&0x70 | sweepDirectionBit(a.pulse1.sweepIncrease) | a.pulse1.sweepShift&0x07
	case 0xFF11:
		return a.pulse1.duty<<6 | 0x3F
	case 0xFF12:
		return envelopeRegister(a.pulse1.envelope)
	case 0xFF14:
		return 0xBF | boolBit(a.pulse1.lengthEnabled, 6)
	case 0xFF16:
		return a.pulse2.duty<<6 | 0x3F
	case 0xFF17:
		return envelopeRegister(a.pulse2.envelope)
	case 0xFF19:
		return 0xBF | boolBit(a.pulse2.lengthEnabled, 6)
	case 0xFF1A:
		return boolBit(a.wave.dacEnabled, 7) | 0x7F
	case 0xFF1C:
		return 0x9F | a.wave.volumeShift<<5
	case 0xFF1E:
		return 0xBF | boolBit(a.wave.lengthEnabled, 6)
	case 0xFF21:
		return envelopeRegister(a.noise.envelope)
	case 0xFF22:
		return a.noise.clockShift<<4 | a.noise.widthMode<<3 | a.noise.divisorCode
	case 0xFF23:
		return 0xBF | boolBit(a.noise.lengthEnabled, 6)
	case 0xFF24:
		return a.nr50
	case 0xFF25:
		return a.nr51
	case 0xFF26:
		return boolBit(a.powered, 7) | 0x70 |
			boolBit(a.pulse1.enabled, 0) | boolBit(a.pulse2.enabled, 1) |
			boolBit(a.wave.enabled, 2) | boolBit(a.noise.enabled, 3)
	default:
		if addr >= 0xFF30 && addr <= 0xFF3F {
			return a.waveRAM[addr-0xFF30]
		}
		return 0xFF
	}
}

func boolBit(b bool, shift uint) uint8 {
	if b {
		return 1 << shift
	}
	return 0
}

func sweepDirectionBit(increase bool) uint8 {
	if increase {
		return 0
	}
	return 0x08
}

func envelopeRegister(e envelope) uint8 {
	v := e.initialVolume << 4
	if e.increase {
		v |= 0x08
	}
	return v | e.period&0x07
}

// WriteRegister writes an APU register in FF10-FF26 or wave RAM.
func (a *APU) WriteRegister(addr uint16, v uint8) {
	if addr >= 0xFF30 && addr <= 0xFF3F {
		a.waveRAM[addr-0xFF30] = v
		return
	}
	if !a.powered {
		// DMG quirk: length-load portions of NRx1 stay writable even
		// while the APU is powered down.
		switch addr {
		case 0xFF11:
			a.pulse1.lengthCounter = 64 - int(v&0x3F)
			return
		case 0xFF16:
			a.pulse2.lengthCounter = 64 - int(v&0x3F)
			return
		case 0xFF1B:
			a.wave.lengthCounter = 256 - int(v)
			return
		case 0xFF20:
			a.noise.lengthCounter = 64 - int(v&0x3F)
			return
		case 0xFF26:
			// fall through to power-on handling below
		default:
			return
		}
	}

	switch addr {
	case 0xFF10:
		a.pulse1.sweepPeriod = (v >> 4) & 0x07
		a.pulse1.sweepIncrease = v&0x08 == 0
		a.pulse1.sweepShift = v & 0x07
	case 0xFF11:
		a.pulse1.duty = v >> 6
		a.pulse1.lengthCounter = 64 - int(v&0x3F)
	case 0xFF12:
		a.pulse1.dacEnabled = v&0xF8 != 0
		writeEnvelope(&a.pulse1.envelope, v)
		if !a.pulse1.dacEnabled {
			a.pulse1.enabled = false
		}
	case 0xFF13:
		a.pulse1.freq = a.pulse1.freq&0x700 | uint16(v)
	case 0xFF14:
		a.pulse1.freq = a.pulse1.freq&0xFF | uint16(v&0x07)<<8
		a.pulse1.lengthEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.pulse1.trigger()
			a.logTrigger("pulse1")
		}
	case 0xFF16:
		a.pulse2.duty = v >> 6
		a.pulse2.lengthCounter = 64 - int(v&0x3F)
	case 0xFF17:
		a.pulse2.dacEnabled = v&0xF8 != 0
		writeEnvelope(&a.pulse2.envelope, v)
		if !a.pulse2.dacEnabled {
			a.pulse2.enabled = false
		}
	case 0xFF18:
		a.pulse2.freq = a.pulse2.freq&0x700 | uint16(v)
	case 0xFF19:
		a.pulse2.freq = a.pulse2.freq&0xFF | uint16(v&0x07)<<8
		a.pulse2.lengthEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.pulse2.trigger()
			a.logTrigger("pulse2")
		}
	case 0xFF1A:
		a.wave.dacEnabled = v&0x80 != 0
		if !a.wave.dacEnabled {
			a.wave.enabled = false
		}
	case 0xFF1B:
		a.wave.lengthCounter = 256 - int(v)
	case 0xFF1C:
		a.wave.volumeShift = (v >> 5) & 0x03
	case 0xFF1D:
		a.wave.freq = a.wave.freq&0x700 | uint16(v)
	case 0xFF1E:
		a.wave.freq = a.wave.freq&0xFF | uint16(v&0x07)<<8
		a.wave.lengthEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.wave.trigger()
			a.logTrigger("wave")
		}
	case 0xFF20:
		a.noise.lengthCounter = 64 - int(v&0x3F)
	case 0xFF21:
		a.noise.dacEnabled = v&0xF8 != 0
		writeEnvelope(&a.noise.envelope, v)
		if !a.noise.dacEnabled {
			a.noise.enabled = false
		}
	case 0xFF22:
		a.noise.clockShift = v >> 4
		a.noise.widthMode = (v >> 3) & 0x01
		a.noise.divisorCode = v & 0x07
	case 0xFF23:
		a.noise.lengthEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.noise.trigger()
			a.logTrigger("noise")
		}
	case 0xFF24:
		a.nr50 = v
	case 0xFF25:
		a.nr51 = v
	case 0xFF26:
		wasPowered := a.powered
		a.powered = v&0x80 != 0
		if wasPowered && !a.powered {
			a.powerOff()
		}
	}
}

func writeEnvelope(e *envelope, v uint8) {
	e.initialVolume = v >> 4
	e.increase = v&0x08 != 0
	e.period = v & 0x07
}

// powerOff clears every register NR52 leaves under software control,
// matching the real chip's power-down behavior. Length counters
// survive the reset, the well-known DMG quirk.
func (a *APU) powerOff() {
	l1, l2, l3, l4 := a.pulse1.lengthCounter, a.pulse2.lengthCounter, a.wave.lengthCounter, a.noise.lengthCounter
	a.pulse1 = pulseChannel{hasSweep: true, lengthCounter: l1}
	a.pulse2 = pulseChannel{lengthCounter: l2}
	a.wave = waveChannel{ram: &a.waveRAM, lengthCounter: l3}
	a.noise = noiseChannel{lengthCounter: l4}
	a.nr50, a.nr51 = 0, 0
	a.frameSeqStep = 0
}
