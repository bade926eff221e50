package mbc

// MBC2 implements the 256KB ROM / built-in 512x4-bit RAM controller.
// The RAM and ROM control registers share the same address window;
// address bit 8 selects which register a given write targets.
type MBC2 struct {
	rom []byte
	ram [512]uint8 // lower nibble only is meaningful

	romBanks   int
	ramEnabled bool
	romBank    uint8 // 4 bits, 0 treated as 1
}

func newMBC2(cfg Config) *MBC2 {
	return &MBC2{rom: cfg.ROM, romBanks: cfg.ROMBanks, romBank: 1}
}

func (c *MBC2) current() int {
	bank := int(c.romBank & 0x0F)
	if bank == 0 {
		bank = 1
	}
	if c.romBanks > 0 {
		bank &= c.romBanks - 1
	}
	return bank
}

func (c *MBC2) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(c.rom, 0, 0x4000, int(addr))
	}
	return romBank(c.rom, c.current(), 0x4000, int(addr-0x4000))
}

func (c *MBC2) WriteROM(addr uint16, v uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x100 != 0 {
		c.romBank = v & 0x0F
	} else {
		c.ramEnabled = v&0x0F == 0x0A
	}
}

func (c *MBC2) ReadRAM(addr uint16) uint8 {
	if !c.ramEnabled {
		return 0xFF
	}
	idx := int(addr-0xA000) % len(c.ram)
	return c.ram[idx] | 0xF0
}

func (c *MBC2) WriteRAM(addr uint16, v uint8) {
	if !c.ramEnabled {
		return
	}
	idx := int(addr-0xA000) % len(c.ram)
	c.ram[idx] = v & 0x0F
}

func (c *MBC2) BatterySnapshot() []byte {
	out := make([]byte, len(c.ram))
	copy(out, c.ram[:])
	return out
}

func (c *MBC2) RestoreBattery(data []byte) {
	copy(c.ram[:], data)
}
