package mbc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romOfSize(banks int, fill func(bank int, b []byte)) []byte {
	rom := make([]byte, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		b := rom[bank*0x4000 : (bank+1)*0x4000]
		if fill != nil {
			fill(bank, b)
		}
		b[0] = byte(bank) // bank 0's own tag byte at offset 0 too
	}
	return rom
}

func TestNewDispatchesOnCartridgeType(t *testing.T) {
	rom := romOfSize(2, nil)
	chip, err := New(Config{Type: 0x00, ROM: rom, ROMBanks: 2, Now: time.Now})
	require.NoError(t, err)
	_, ok := chip.(*NoMBC)
	assert.True(t, ok)

	chip, err = New(Config{Type: 0x01, ROM: rom, ROMBanks: 2, Now: time.Now})
	require.NoError(t, err)
	_, ok = chip.(*MBC1)
	assert.True(t, ok)

	_, err = New(Config{Type: 0xAB, ROM: rom, ROMBanks: 2})
	assert.Error(t, err, "unknown cartridge type byte must fail, not silently pick a default")
}

func TestNoMBCIgnoresROMWritesAndReadsFlat(t *testing.T) {
	rom := romOfSize(2, nil)
	chip, err := New(Config{Type: 0x00, ROM: rom, ROMBanks: 2})
	require.NoError(t, err)
	chip.WriteROM(0x2000, 0xFF) // no bank register to affect
	assert.Equal(t, rom[0x4000], chip.ReadROM(0x4000))
}

func TestMBC1BankZeroRemapsToOne(t *testing.T) {
	rom := romOfSize(4, nil)
	chip, err := New(Config{Type: 0x01, ROM: rom, ROMBanks: 4})
	require.NoError(t, err)

	chip.WriteROM(0x2000, 0x00) // select bank 0 -> hardware remaps to 1
	assert.Equal(t, rom[0x4000], chip.ReadROM(0x4000))
}

func TestMBC1SwitchesROMBank(t *testing.T) {
	rom := romOfSize(4, nil)
	chip, err := New(Config{Type: 0x01, ROM: rom, ROMBanks: 4})
	require.NoError(t, err)

	chip.WriteROM(0x2000, 0x03)
	assert.Equal(t, rom[3*0x4000], chip.ReadROM(0x4000))
}

func TestMBC1RAMRequiresEnableWrite(t *testing.T) {
	rom := romOfSize(2, nil)
	chip, err := New(Config{Type: 0x03, ROM: rom, ROMBanks: 2, RAMBanks: 1, RAMBankSize: 0x2000})
	require.NoError(t, err)

	chip.WriteRAM(0xA000, 0x55)
	assert.Equal(t, uint8(0xFF), chip.ReadRAM(0xA000), "disabled RAM reads open-bus")

	chip.WriteROM(0x0000, 0x0A) // enable RAM
	chip.WriteRAM(0xA000, 0x55)
	assert.Equal(t, uint8(0x55), chip.ReadRAM(0xA000))
}

func TestMBC1BatterySnapshotRoundTrip(t *testing.T) {
	rom := romOfSize(2, nil)
	chip, err := New(Config{Type: 0x03, ROM: rom, ROMBanks: 2, RAMBanks: 1, RAMBankSize: 0x2000})
	require.NoError(t, err)
	chip.WriteROM(0x0000, 0x0A)
	chip.WriteRAM(0xA000, 0x99)

	p, ok := chip.(Persistable)
	require.True(t, ok)
	snap := p.BatterySnapshot()

	chip2, err := New(Config{Type: 0x03, ROM: rom, ROMBanks: 2, RAMBanks: 1, RAMBankSize: 0x2000})
	require.NoError(t, err)
	chip2.WriteROM(0x0000, 0x0A)
	chip2.(Persistable).RestoreBattery(snap)
	assert.Equal(t, uint8(0x99), chip2.ReadRAM(0xA000))
}

func TestMBC3IsPersistable(t *testing.T) {
	rom := romOfSize(2, nil)
	chip, err := New(Config{Type: 0x10, ROM: rom, ROMBanks: 2, RAMBanks: 1, RAMBankSize: 0x2000, Now: time.Now})
	require.NoError(t, err)
	_, ok := chip.(Persistable)
	assert.True(t, ok, "MBC3 exposes its cartridge RAM for persistence")
}
