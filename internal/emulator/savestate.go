package emulator

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"dmgcore/internal/apu"
	"dmgcore/internal/cpu"
	"dmgcore/internal/dma"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/joypad"
	"dmgcore/internal/memory"
	"dmgcore/internal/ppu"
	"dmgcore/internal/serial"
	"dmgcore/internal/timer"
)

const saveStateVersion = 1

func init() {
	gob.Register(cpu.State{})
	gob.Register(ppu.State{})
	gob.Register(apu.State{})
	gob.Register(timer.State{})
	gob.Register(dma.State{})
	gob.Register(serial.State{})
	gob.Register(joypad.State{})
	gob.Register(memory.BusState{})
	gob.Register(interrupt.Registers{})
}

// SaveState is a complete, versioned emulator snapshot, gob-encoded
// for the host to write to disk or a save-slot store.
type SaveState struct {
	Version uint16

	CPU     cpu.State
	PPU     ppu.State
	APU     apu.State
	Timer   timer.State
	DMA     dma.State
	Serial  serial.State
	Joypad  joypad.State
	Bus     memory.BusState
	IRQ     interrupt.Registers
	Battery []byte

	Running bool
	Paused  bool
}

// SaveState serializes the current emulator state to a byte slice.
func (e *Emulator) SaveState() ([]byte, error) {
	state := SaveState{
		Version: saveStateVersion,
		CPU:     e.CPU.Snapshot(),
		PPU:     e.PPU.Snapshot(),
		APU:     e.APU.Snapshot(),
		Timer:   e.Timer.Snapshot(),
		DMA:     e.DMA.Snapshot(),
		Serial:  e.Serial.Snapshot(),
		Joypad:  e.Joypad.Snapshot(),
		Bus:     e.Bus.Snapshot(),
		IRQ:     *e.IRQ,
		Battery: e.Cartridge.BatterySnapshot(),
		Running: e.Running,
		Paused:  e.Paused,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode save state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a previously captured SaveState, leaving the
// already-loaded cartridge ROM and MBC type untouched.
func (e *Emulator) LoadState(data []byte) error {
	var state SaveState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("decode save state: %w", err)
	}
	if state.Version != saveStateVersion {
		return fmt.Errorf("unsupported save state version %d (expected %d)", state.Version, saveStateVersion)
	}

	e.CPU.Restore(state.CPU)
	e.PPU.Restore(state.PPU)
	e.APU.Restore(state.APU)
	e.Timer.Restore(state.Timer)
	e.DMA.Restore(state.DMA)
	e.Serial.Restore(state.Serial)
	e.Joypad.Restore(state.Joypad)
	e.Bus.Restore(state.Bus)
	*e.IRQ = state.IRQ
	e.Cartridge.RestoreBattery(state.Battery)
	e.Running = state.Running
	e.Paused = state.Paused
	return nil
}
