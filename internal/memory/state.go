package memory

// BusState is the serializable snapshot of work RAM and high RAM for
// save states. ROM and cartridge RAM are saved separately via the
// Cartridge's own Battery/MBC state.
type BusState struct {
	WRAM [0x2000]byte
	HRAM [0x7F]byte
}

// Snapshot captures the bus-owned RAM.
func (b *Bus) Snapshot() BusState {
	return BusState{WRAM: b.wram, HRAM: b.hram}
}

// Restore replaces the bus-owned RAM with a previously captured Snapshot.
func (b *Bus) Restore(s BusState) {
	b.wram = s.WRAM
	b.hram = s.HRAM
}
