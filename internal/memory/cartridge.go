// Package memory implements the address bus and cartridge loading for
// the emulated system: ROM header parsing, RAM/ROM sizing, and
// routing of every address range to the owning component.
package memory

import (
	"fmt"

	"dmgcore/internal/debug"
	"dmgcore/internal/memory/mbc"
)

// CartridgeError reports a malformed ROM image discovered while
// parsing the header, per the construction-time validation contract.
type CartridgeError struct {
	Offset int
	Reason string
}

func (e *CartridgeError) Error() string {
	return fmt.Sprintf("cartridge: invalid header at offset 0x%04X: %s", e.Offset, e.Reason)
}

const (
	headerTitleStart    = 0x0134
	headerTitleEnd      = 0x0143
	headerCartType      = 0x0147
	headerROMSize       = 0x0148
	headerRAMSize       = 0x0149
	headerOldLicensee   = 0x014B
	headerHeaderCheck   = 0x014D
	minROMSize          = 0x0150
)

// Header holds the decoded fields of the cartridge header.
type Header struct {
	Title          string
	CartridgeType  uint8
	ROMBanks       int
	RAMBanks       int
	RAMBankSize    int
	LicenseeCode   uint8
	HeaderChecksum uint8
}

// Cartridge owns the ROM image, the battery-backed RAM (if any), and
// the MBC variant that arbitrates bank switching for both.
type Cartridge struct {
	Header Header
	rom    []byte
	mbc    mbc.Chip
	logger *debug.Logger
}

// LoadCartridge parses rom and constructs the matching MBC variant.
// It returns a *CartridgeError if the image is too short or its
// header is internally inconsistent (ROM size byte disagreeing with
// the actual image length is tolerated — only truncation below the
// minimum header size is rejected).
func LoadCartridge(rom []byte) (*Cartridge, error) {
	if len(rom) < minROMSize {
		return nil, &CartridgeError{Offset: len(rom), Reason: "image shorter than header region"}
	}

	h := Header{
		Title:          decodeTitle(rom[headerTitleStart : headerTitleEnd+1]),
		CartridgeType:  rom[headerCartType],
		LicenseeCode:   rom[headerOldLicensee],
		HeaderChecksum: rom[headerHeaderCheck],
	}

	romBanks, err := romBankCount(rom[headerROMSize])
	if err != nil {
		return nil, &CartridgeError{Offset: headerROMSize, Reason: err.Error()}
	}
	h.ROMBanks = romBanks

	ramBanks, ramBankSize, err := ramBankCount(rom[headerRAMSize])
	if err != nil {
		return nil, &CartridgeError{Offset: headerRAMSize, Reason: err.Error()}
	}
	h.RAMBanks, h.RAMBankSize = ramBanks, ramBankSize

	chip, err := mbc.New(mbc.Config{
		Type:        h.CartridgeType,
		ROM:         rom,
		ROMBanks:    h.ROMBanks,
		RAMBanks:    h.RAMBanks,
		RAMBankSize: h.RAMBankSize,
	})
	if err != nil {
		return nil, &CartridgeError{Offset: headerCartType, Reason: err.Error()}
	}

	return &Cartridge{Header: h, rom: rom, mbc: chip}, nil
}

func decodeTitle(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}

func romBankCount(code uint8) (int, error) {
	if code > 0x08 {
		return 0, fmt.Errorf("unrecognized ROM size code 0x%02X", code)
	}
	return 2 << code, nil
}

func ramBankCount(code uint8) (banks int, bankSize int, err error) {
	switch code {
	case 0x00:
		return 0, 0, nil
	case 0x01:
		return 1, 2 * 1024, nil // unofficial 2KB variant, accepted for compatibility
	case 0x02:
		return 1, 8 * 1024, nil
	case 0x03:
		return 4, 8 * 1024, nil
	case 0x04:
		return 16, 8 * 1024, nil
	case 0x05:
		return 8, 8 * 1024, nil
	default:
		return 0, 0, fmt.Errorf("unrecognized RAM size code 0x%02X", code)
	}
}

// ReadROM reads a byte from cartridge ROM space (0x0000-0x7FFF) through
// the active MBC's bank mapping.
func (c *Cartridge) ReadROM(addr uint16) uint8 {
	return c.mbc.ReadROM(addr)
}

// WriteROM forwards a write in ROM space to the MBC, which treats it
// as a control-register write (bank select, RAM enable, mode select).
func (c *Cartridge) WriteROM(addr uint16, v uint8) {
	c.mbc.WriteROM(addr, v)
	if c.logger != nil {
		c.logger.LogMemoryf(debug.LogLevelTrace, "MBC control write 0x%04X=0x%02X", addr, v)
	}
}

// AttachLogger wires a shared logger for MBC control-register writes
// (bank selects, RAM enable, mode selects). A nil logger (the zero
// value of an unwired Cartridge) disables logging.
func (c *Cartridge) AttachLogger(l *debug.Logger) {
	c.logger = l
}

// ReadRAM reads a byte from cartridge RAM space (0xA000-0xBFFF).
func (c *Cartridge) ReadRAM(addr uint16) uint8 {
	return c.mbc.ReadRAM(addr)
}

// WriteRAM writes a byte to cartridge RAM space.
func (c *Cartridge) WriteRAM(addr uint16, v uint8) {
	c.mbc.WriteRAM(addr, v)
}

// BatterySnapshot returns a copy of the bank controller's saveable
// storage (cartridge RAM, or MBC7's EEPROM) suitable for persisting to
// a save file, or nil if the controller does not implement
// mbc.Persistable. The header's battery flag is not consulted, and
// the MBC3/HuC3 real-time clock is not part of the snapshot.
func (c *Cartridge) BatterySnapshot() []byte {
	if p, ok := c.mbc.(mbc.Persistable); ok {
		return p.BatterySnapshot()
	}
	return nil
}

// RestoreBattery loads previously saved battery-backed RAM contents.
func (c *Cartridge) RestoreBattery(data []byte) {
	if p, ok := c.mbc.(mbc.Persistable); ok {
		p.RestoreBattery(data)
	}
}
