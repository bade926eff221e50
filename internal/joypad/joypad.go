// Package joypad implements the P1/JOYP input matrix: the two
// button-row selection lines, the active-low input nibble, and the
// edge-triggered joypad interrupt.
package joypad

import "dmgcore/internal/interrupt"

// Button identifies one of the eight physical inputs.
type Button int

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Edge records a single press/release transition, kept for tooling
// that wants to replay or inspect input history rather than only the
// current instantaneous state.
type Edge struct {
	Button  Button
	Pressed bool
}

// Joypad models the P1 register and the 8-button matrix behind it.
type Joypad struct {
	pressed    [8]bool
	selectBits uint8 // raw bits 4-5 as last written (0 = that group selected)

	lastNibble uint8
	irq        *interrupt.Registers

	recording bool
	edges     []Edge
}

// New creates a Joypad that raises its interrupt through irq.
func New(irq *interrupt.Registers) *Joypad {
	j := &Joypad{irq: irq, selectBits: 0x30, lastNibble: 0x0F}
	return j
}

// EnableEdgeRecording turns on Edge history collection, used by
// replay/debug tooling rather than normal emulation.
func (j *Joypad) EnableEdgeRecording(enabled bool) {
	j.recording = enabled
	if !enabled {
		j.edges = nil
	}
}

// Edges returns the recorded press/release history, oldest first.
func (j *Joypad) Edges() []Edge {
	return j.edges
}

// SetButton updates one input's state and fires the joypad interrupt
// if doing so produces a high-to-low transition on the currently
// readable nibble.
func (j *Joypad) SetButton(b Button, pressed bool) {
	if j.pressed[b] == pressed {
		return
	}
	j.pressed[b] = pressed
	if j.recording {
		j.edges = append(j.edges, Edge{Button: b, Pressed: pressed})
	}
	j.refresh()
}

func (j *Joypad) dpadNibble() uint8 {
	n := uint8(0x0F)
	if j.pressed[Right] {
		n &^= 0x01
	}
	if j.pressed[Left] {
		n &^= 0x02
	}
	if j.pressed[Up] {
		n &^= 0x04
	}
	if j.pressed[Down] {
		n &^= 0x08
	}
	return n
}

func (j *Joypad) buttonNibble() uint8 {
	n := uint8(0x0F)
	if j.pressed[A] {
		n &^= 0x01
	}
	if j.pressed[B] {
		n &^= 0x02
	}
	if j.pressed[Select] {
		n &^= 0x04
	}
	if j.pressed[Start] {
		n &^= 0x08
	}
	return n
}

func (j *Joypad) nibble() uint8 {
	n := uint8(0x0F)
	if j.selectBits&0x10 == 0 {
		n &= j.dpadNibble()
	}
	if j.selectBits&0x20 == 0 {
		n &= j.buttonNibble()
	}
	return n
}

// refresh re-samples the nibble and raises the interrupt on any
// 1-to-0 bit transition, per the level-sensitive matrix design.
func (j *Joypad) refresh() {
	cur := j.nibble()
	if j.lastNibble&^cur != 0 {
		j.irq.Raise(interrupt.Joypad)
	}
	j.lastNibble = cur
}

// ReadRegister returns P1 as the CPU observes it: bits 6-7 fixed high,
// the select bits as last written, and the live input nibble.
func (j *Joypad) ReadRegister() uint8 {
	return 0xC0 | j.selectBits | j.nibble()
}

// WriteRegister stores the two group-select bits; bits 0-3 are
// read-only from the CPU's perspective.
func (j *Joypad) WriteRegister(v uint8) {
	j.selectBits = v & 0x30
	j.refresh()
}
