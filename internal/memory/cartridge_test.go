package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCartridgeRejectsTruncatedImage(t *testing.T) {
	_, err := LoadCartridge(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestLoadCartridgeParsesTitleAndType(t *testing.T) {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], []byte("TESTGAME"))
	rom[0x0147] = 0x01 // MBC1
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00

	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", cart.Header.Title)
	assert.Equal(t, uint8(0x01), cart.Header.CartridgeType)
}

func TestLoadCartridgeRejectsUnknownCartridgeType(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0xAB
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00

	_, err := LoadCartridge(rom)
	assert.Error(t, err)
}

func TestLoadCartridgeRejectsUnknownROMSizeCode(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00
	rom[0x0148] = 0xFF
	rom[0x0149] = 0x00

	_, err := LoadCartridge(rom)
	assert.Error(t, err)
}

func TestBatterySnapshotNilForCartsWithoutPersistence(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM-only, no RAM at all
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00

	cart, err := LoadCartridge(rom)
	require.NoError(t, err)
	assert.Nil(t, cart.BatterySnapshot())
}

func TestBatterySnapshotRoundTripsThroughCartridge(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0148] = 0x00
	rom[0x0149] = 0x02 // 8KB RAM

	cart, err := LoadCartridge(rom)
	require.NoError(t, err)

	cart.WriteROM(0x0000, 0x0A) // enable RAM
	cart.WriteRAM(0xA000, 0x7E)

	snap := cart.BatterySnapshot()
	require.NotNil(t, snap)

	cart2, err := LoadCartridge(rom)
	require.NoError(t, err)
	cart2.WriteROM(0x0000, 0x0A)
	cart2.RestoreBattery(snap)
	assert.Equal(t, uint8(0x7E), cart2.ReadRAM(0xA000))
}
