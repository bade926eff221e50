package cpu

// State is the serializable snapshot of CPU state for save states.
type State struct {
	Reg     Registers
	SP, PC  uint16
	IME     imeState
	Halted  bool
	HaltBug bool
	Locked  bool
}

// Snapshot captures the CPU's current state.
func (c *CPU) Snapshot() State {
	return State{
		Reg:     c.Reg,
		SP:      c.SP,
		PC:      c.PC,
		IME:     c.ime,
		Halted:  c.Halted,
		HaltBug: c.haltBug,
		Locked:  c.locked,
	}
}

// Restore replaces the CPU's state with a previously captured Snapshot.
func (c *CPU) Restore(s State) {
	c.Reg = s.Reg
	c.SP = s.SP
	c.PC = s.PC
	c.ime = s.IME
	c.Halted = s.Halted
	c.haltBug = s.HaltBug
	c.locked = s.Locked
}
