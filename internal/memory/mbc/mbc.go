// Package mbc implements the family of memory bank controllers found
// in Game Boy cartridges. Each variant is a distinct type satisfying
// Chip — a tagged-union-by-interface dispatch rather than a class
// hierarchy, matching how the rest of the core models hardware
// variants.
package mbc

import (
	"fmt"
	"time"
)

// Chip is the bank-switching contract every MBC variant implements.
// addr is always the full bus address (0x0000-0x7FFF for ROM space,
// 0xA000-0xBFFF for RAM space); each variant masks it down itself.
type Chip interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, v uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, v uint8)
}

// Persistable is implemented by variants with cartridge RAM or EEPROM
// worth saving across sessions. The snapshot holds that storage only;
// the MBC3/HuC3 RTC registers are not included.
type Persistable interface {
	BatterySnapshot() []byte
	RestoreBattery(data []byte)
}

// Config carries everything a variant constructor needs out of the
// parsed cartridge header.
type Config struct {
	Type        uint8
	ROM         []byte
	ROMBanks    int
	RAMBanks    int
	RAMBankSize int

	// Now is injectable so RTC-bearing variants (MBC3, HuC3) can be
	// driven by a fake clock in tests instead of wall time.
	Now func() time.Time
}

// New constructs the MBC variant matching cfg.Type's cartridge-type
// byte, per the standard header encoding.
func New(cfg Config) (Chip, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ram := make([]byte, cfg.RAMBanks*cfg.RAMBankSize)

	switch cfg.Type {
	case 0x00, 0x08, 0x09:
		return newNoMBC(cfg, ram), nil
	case 0x01, 0x02, 0x03:
		return newMBC1(cfg, ram), nil
	case 0x05, 0x06:
		return newMBC2(cfg), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return newMBC3(cfg, ram), nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return newMBC5(cfg, ram), nil
	case 0x20:
		return newMBC6(cfg, ram), nil
	case 0x22:
		return newMBC7(cfg), nil
	case 0xFF:
		return newHuC1(cfg, ram), nil
	case 0xFE:
		return newHuC3(cfg, ram), nil
	default:
		return nil, fmt.Errorf("unsupported cartridge type 0x%02X", cfg.Type)
	}
}

// romBank extracts bank data safely, returning 0xFF for reads past the
// end of a short or padded image instead of panicking.
func romBank(rom []byte, bank, size int, offset int) uint8 {
	idx := bank*size + offset
	if idx < 0 || idx >= len(rom) {
		return 0xFF
	}
	return rom[idx]
}
