package mbc

// MBC7 implements the controller used by cartridges with a built-in
// 2-axis tilt sensor and a small EEPROM (Kirby Tilt 'n' Tumble and
// similar titles). The bit-serial 93LC56 EEPROM protocol is not
// modeled: of the 256 EEPROM bytes only the first is reachable from
// the bus, as a plain byte at 0xA080. All 256 bytes go through the
// same BatterySnapshot/RestoreBattery contract as every other variant.
type MBC7 struct {
	rom []byte

	romBanks int
	romBank  uint8

	enable1, enable2 bool

	eeprom [256]byte

	tiltX, tiltY int16 // centered at 0x8000, matches real sensor's idle reading
	latched      bool
}

func newMBC7(cfg Config) *MBC7 {
	m := &MBC7{rom: cfg.ROM, romBanks: cfg.ROMBanks, romBank: 1}
	m.tiltX, m.tiltY = 0x0000, 0x0000
	return m
}

// SetTilt lets a host surface feed real accelerometer input; idle
// carts simply never call it and read the centered default.
func (c *MBC7) SetTilt(x, y int16) {
	c.tiltX, c.tiltY = x, y
}

func (c *MBC7) current() int {
	bank := int(c.romBank & 0x7F)
	if bank == 0 {
		bank = 1
	}
	if c.romBanks > 0 {
		bank &= c.romBanks - 1
	}
	return bank
}

func (c *MBC7) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(c.rom, 0, 0x4000, int(addr))
	}
	return romBank(c.rom, c.current(), 0x4000, int(addr-0x4000))
}

func (c *MBC7) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		c.enable1 = v&0x0F == 0x0A
	case addr < 0x4000:
		c.romBank = v
	case addr < 0x6000:
		c.enable2 = v == 0x40
	}
}

func (c *MBC7) ramReady() bool {
	return c.enable1 && c.enable2
}

func (c *MBC7) ReadRAM(addr uint16) uint8 {
	if !c.ramReady() {
		return 0xFF
	}
	x := uint16(c.tiltX) + 0x8000
	y := uint16(c.tiltY) + 0x8000
	switch addr {
	case 0xA010:
		return uint8(x)
	case 0xA011:
		return uint8(x >> 8)
	case 0xA020:
		return uint8(y)
	case 0xA021:
		return uint8(y >> 8)
	case 0xA030:
		return 0x00
	case 0xA040:
		return 0xFF
	}
	if addr == 0xA080 {
		return c.eeprom[0]
	}
	return 0xFF
}

func (c *MBC7) WriteRAM(addr uint16, v uint8) {
	if !c.ramReady() {
		return
	}
	switch addr {
	case 0xA000:
		c.latched = v == 0x55 || v == 0xAA
	case 0xA080:
		c.eeprom[0] = v
	}
}

func (c *MBC7) BatterySnapshot() []byte {
	out := make([]byte, len(c.eeprom))
	copy(out, c.eeprom[:])
	return out
}

func (c *MBC7) RestoreBattery(data []byte) {
	copy(c.eeprom[:], data)
}
