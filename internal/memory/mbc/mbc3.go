package mbc

import "time"

// rtcRegister identifies one of the five latched real-time-clock
// registers selectable through the 0x08-0x0C RAM-bank-select range.
type rtcRegister int

const (
	rtcSeconds rtcRegister = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh
)

// MBC3 implements the 2MB ROM / 32KB RAM controller with an optional
// real-time clock. The RTC free-runs against wall time (via the
// injectable now func) rather than emulator dots: this mirrors how
// the real chip's oscillator runs independent of the CPU clock.
type MBC3 struct {
	rom []byte
	ram []byte

	romBanks int
	ramBanks int

	ramEnabled bool
	romBank    uint8
	bankOrRTC  uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register

	now func() time.Time

	seconds, minutes, hours uint8
	days                    uint16
	halted                  bool
	dayCarry                bool
	lastTick                time.Time

	latchState  uint8
	latched     bool
	latchSec    uint8
	latchMin    uint8
	latchHour   uint8
	latchDayLo  uint8
	latchDayHi  uint8
}

func newMBC3(cfg Config, ram []byte) *MBC3 {
	m := &MBC3{
		rom:      cfg.ROM,
		ram:      ram,
		romBanks: cfg.ROMBanks,
		ramBanks: cfg.RAMBanks,
		romBank:  1,
		now:      cfg.Now,
	}
	m.lastTick = m.now()
	return m
}

func (c *MBC3) advance() {
	if c.halted {
		c.lastTick = c.now()
		return
	}
	elapsed := c.now().Sub(c.lastTick)
	secs := int64(elapsed / time.Second)
	if secs <= 0 {
		return
	}
	c.lastTick = c.lastTick.Add(time.Duration(secs) * time.Second)

	total := int64(c.seconds) + int64(c.minutes)*60 + int64(c.hours)*3600 + int64(c.days)*86400 + secs
	c.seconds = uint8(total % 60)
	total /= 60
	c.minutes = uint8(total % 60)
	total /= 60
	c.hours = uint8(total % 24)
	total /= 24
	if total > 0x1FF {
		c.dayCarry = true
		total &= 0x1FF
	}
	c.days = uint16(total)
}

func (c *MBC3) current() int {
	bank := int(c.romBank)
	if bank == 0 {
		bank = 1
	}
	if c.romBanks > 0 {
		bank &= c.romBanks - 1
	}
	return bank
}

func (c *MBC3) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(c.rom, 0, 0x4000, int(addr))
	}
	return romBank(c.rom, c.current(), 0x4000, int(addr-0x4000))
}

func (c *MBC3) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		c.ramEnabled = v&0x0F == 0x0A
	case addr < 0x4000:
		c.romBank = v & 0x7F
	case addr < 0x6000:
		c.bankOrRTC = v
	default:
		c.advance()
		if c.latchState == 0x00 && v == 0x01 {
			c.latchSec, c.latchMin, c.latchHour = c.seconds, c.minutes, c.hours
			c.latchDayLo = uint8(c.days)
			dayHi := uint8(c.days>>8) & 0x01
			if c.halted {
				dayHi |= 0x40
			}
			if c.dayCarry {
				dayHi |= 0x80
			}
			c.latchDayHi = dayHi
			c.latched = true
		}
		c.latchState = v
	}
}

func (c *MBC3) usingRAMBank() bool {
	return c.bankOrRTC <= 0x03
}

func (c *MBC3) ReadRAM(addr uint16) uint8 {
	if !c.ramEnabled {
		return 0xFF
	}
	if c.usingRAMBank() {
		if len(c.ram) == 0 {
			return 0xFF
		}
		idx := int(c.bankOrRTC)&(c.ramBanks-1)*0x2000 + int(addr-0xA000)
		if idx >= len(c.ram) {
			return 0xFF
		}
		return c.ram[idx]
	}
	c.advance()
	switch rtcRegister(c.bankOrRTC - 0x08) {
	case rtcSeconds:
		return c.latchSec
	case rtcMinutes:
		return c.latchMin
	case rtcHours:
		return c.latchHour
	case rtcDayLow:
		return c.latchDayLo
	case rtcDayHigh:
		return c.latchDayHi
	default:
		return 0xFF
	}
}

func (c *MBC3) WriteRAM(addr uint16, v uint8) {
	if !c.ramEnabled {
		return
	}
	if c.usingRAMBank() {
		if len(c.ram) == 0 {
			return
		}
		idx := int(c.bankOrRTC)&(c.ramBanks-1)*0x2000 + int(addr-0xA000)
		if idx < len(c.ram) {
			c.ram[idx] = v
		}
		return
	}
	c.advance()
	switch rtcRegister(c.bankOrRTC - 0x08) {
	case rtcSeconds:
		c.seconds = v % 60
	case rtcMinutes:
		c.minutes = v % 60
	case rtcHours:
		c.hours = v % 24
	case rtcDayLow:
		c.days = c.days&0x100 | uint16(v)
	case rtcDayHigh:
		c.days = c.days&0xFF | uint16(v&0x01)<<8
		c.halted = v&0x40 != 0
		c.dayCarry = v&0x80 != 0
	}
}

func (c *MBC3) BatterySnapshot() []byte {
	c.advance()
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *MBC3) RestoreBattery(data []byte) {
	copy(c.ram, data)
}
