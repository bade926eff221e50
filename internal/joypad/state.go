package joypad

// State is the serializable snapshot of Joypad state for save states.
// Edge-recording history is excluded; it is debug tooling, not
// emulated hardware state.
type State struct {
	Pressed    [8]bool
	SelectBits uint8
	LastNibble uint8
}

// Snapshot captures the Joypad's current state.
func (j *Joypad) Snapshot() State {
	return State{Pressed: j.pressed, SelectBits: j.selectBits, LastNibble: j.lastNibble}
}

// Restore replaces the Joypad's state with a previously captured Snapshot.
func (j *Joypad) Restore(s State) {
	j.pressed = s.Pressed
	j.selectBits = s.SelectBits
	j.lastNibble = s.LastNibble
}
