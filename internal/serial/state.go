package serial

// State is the serializable snapshot of Serial state for save states.
// The pending-output buffer is not included: it is drained by the host
// between calls and has no meaningful "saved" value.
type State struct {
	SB, SC        uint8
	ShiftCounter  int
	BitsRemaining int
}

// Snapshot captures the Serial unit's current state.
func (s *Serial) Snapshot() State {
	return State{SB: s.sb, SC: s.sc, ShiftCounter: s.shiftCounter, BitsRemaining: s.bitsRemaining}
}

// Restore replaces the Serial unit's state with a previously captured Snapshot.
func (s *Serial) Restore(st State) {
	s.sb = st.SB
	s.sc = st.SC
	s.shiftCounter = st.ShiftCounter
	s.bitsRemaining = st.BitsRemaining
}
