package mbc

// HuC1 banks like MBC1 but with a 6-bit ROM bank register, a 2-bit
// RAM bank register and no mode register, and additionally exposes an infrared LED/receiver pair
// through the RAM window when RAM is disabled. Games only ever used
// this for simple IR beaming, modeled here as a read-only idle line.
type HuC1 struct {
	rom []byte
	ram []byte

	romBanks int
	ramBanks int

	ramEnabled bool
	romBank    uint8
	ramBank    uint8
	irLED      bool
}

func newHuC1(cfg Config, ram []byte) *HuC1 {
	return &HuC1{rom: cfg.ROM, ram: ram, romBanks: cfg.ROMBanks, ramBanks: cfg.RAMBanks, romBank: 1}
}

func (c *HuC1) current() int {
	bank := int(c.romBank & 0x3F)
	if bank == 0 {
		bank = 1
	}
	if c.romBanks > 0 {
		bank &= c.romBanks - 1
	}
	return bank
}

func (c *HuC1) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return romBank(c.rom, 0, 0x4000, int(addr))
	}
	return romBank(c.rom, c.current(), 0x4000, int(addr-0x4000))
}

func (c *HuC1) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		c.ramEnabled = v&0x0F == 0x0A
		c.irLED = v&0x0F == 0x0E
	case addr < 0x4000:
		c.romBank = v & 0x3F
	case addr < 0x6000:
		c.ramBank = v & 0x03
	}
}

func (c *HuC1) ReadRAM(addr uint16) uint8 {
	if c.irLED {
		return 0xC0 // receiver idle: no incoming signal
	}
	if !c.ramEnabled || len(c.ram) == 0 {
		return 0xFF
	}
	idx := int(c.ramBank)&(c.ramBanks-1)*0x2000 + int(addr-0xA000)
	if idx >= len(c.ram) {
		return 0xFF
	}
	return c.ram[idx]
}

func (c *HuC1) WriteRAM(addr uint16, v uint8) {
	if c.irLED || !c.ramEnabled || len(c.ram) == 0 {
		return
	}
	idx := int(c.ramBank)&(c.ramBanks-1)*0x2000 + int(addr-0xA000)
	if idx < len(c.ram) {
		c.ram[idx] = v
	}
}

func (c *HuC1) BatterySnapshot() []byte {
	if len(c.ram) == 0 {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *HuC1) RestoreBattery(data []byte) {
	copy(c.ram, data)
}
