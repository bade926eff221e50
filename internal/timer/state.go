package timer

// State is the serializable snapshot of Timer state for save states.
type State struct {
	Counter         uint16
	TIMA, TMA, TAC  uint8
	LastANDBit      bool
	PendingOverflow bool
}

// Snapshot captures the Timer's current state.
func (t *Timer) Snapshot() State {
	return State{
		Counter:         t.counter,
		TIMA:            t.tima,
		TMA:             t.tma,
		TAC:             t.tac,
		LastANDBit:      t.lastANDBit,
		PendingOverflow: t.pendingOverflow,
	}
}

// Restore replaces the Timer's state with a previously captured Snapshot.
func (t *Timer) Restore(s State) {
	t.counter = s.Counter
	t.tima = s.TIMA
	t.tma = s.TMA
	t.tac = s.TAC
	t.lastANDBit = s.LastANDBit
	t.pendingOverflow = s.PendingOverflow
}
