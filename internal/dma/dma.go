// Package dma implements the OAM DMA transfer unit: the 2-M-cycle
// startup, the 160-M-cycle byte-at-a-time copy into OAM, and the bus
// conflicts a concurrent CPU access can hit while a transfer is live.
package dma

import "dmgcore/internal/debug"

// Reader fetches a byte directly off the physical bus, bypassing the
// VRAM/OAM mode blocking the CPU-facing bus applies. The DMA unit's
// own source reads use this path since its dedicated address lines
// don't contend with themselves.
type Reader interface {
	ReadRaw(addr uint16) uint8
}

// OAMWriter receives the bytes a transfer copies into OAM.
type OAMWriter interface {
	WriteOAMDMA(index uint8, v uint8)
}

// busCategory names the two physical buses a Game Boy address can sit
// on; a CPU access on the same bus the DMA unit is currently driving
// observes the DMA's in-flight byte instead of its own target. OAM, I/O
// and high RAM (0xFE00-0xFFFF) sit on neither bus and never conflict.
type busCategory int

const (
	externalBus busCategory = iota
	videoBus
	noBus
)

func categoryOf(addr uint16) busCategory {
	if addr >= 0xFE00 {
		return noBus
	}
	if addr >= 0x8000 && addr < 0xA000 {
		return videoBus
	}
	return externalBus
}

// DMA is the OAM DMA controller.
type DMA struct {
	src  Reader
	dest OAMWriter

	active         bool
	sourceBase     uint16
	sourceBus      busCategory
	index          uint8
	currentByte    uint8
	delayRemaining int

	// coldStartup is true only while delayRemaining is counting down
	// a fresh (non-restart) transfer's 2-M-cycle startup, during
	// which real hardware hasn't touched the bus yet and OAM's bus
	// conflicts stay off. A restart that lands while a transfer is
	// already conflicting skips this: its own 2-M-cycle delay
	// inherits the conflict instead of clearing it.
	coldStartup bool

	logger *debug.Logger
}

// New creates a DMA unit writing into dest. The Reader source is
// attached later via AttachSource once the owning bus exists, since
// the bus itself depends on this DMA unit to construct.
func New(dest OAMWriter) *DMA {
	return &DMA{dest: dest}
}

// AttachSource wires the raw bus reader used for transfer source
// bytes.
func (d *DMA) AttachSource(r Reader) {
	d.src = r
}

// AttachLogger wires a shared logger for transfer-start events. A nil
// logger (the zero value of an unwired DMA) disables logging.
func (d *DMA) AttachLogger(l *debug.Logger) {
	d.logger = l
}

// ReadRegister returns the high byte of the last transfer's source
// address, as FF46 reads back on hardware.
func (d *DMA) ReadRegister() uint8 {
	return uint8(d.sourceBase >> 8)
}

// WriteRegister starts a new transfer from v<<8, aborting and
// replacing any transfer already in flight immediately: writing FF46
// mid-transfer never lets the old transfer finish copying its
// remaining bytes. What differs is the startup delay's kind. A fresh
// transfer gets a 2-M-cycle startup during which OAM's bus conflicts
// stay off, since nothing has driven the bus yet. A "hot" restart —
// one that cuts off a transfer already past its own startup — gets
// the same 2-M-cycle delay, but inherits that transfer's in-flight
// bus conflict through it rather than clearing it.
func (d *DMA) WriteRegister(v uint8) {
	base := uint16(v) << 8
	hot := d.conflictActive()

	d.sourceBase = base
	d.sourceBus = categoryOf(base)
	if d.sourceBus == noBus {
		// Sources from 0xFE00 up read through the external bus.
		d.sourceBus = externalBus
	}
	d.index = 0
	d.active = true
	d.delayRemaining = 2
	d.coldStartup = !hot

	if d.logger != nil {
		kind := "cold"
		if hot {
			kind = "hot restart"
		}
		d.logger.LogDMAf(debug.LogLevelDebug, "%s transfer starting from 0x%04X", kind, base)
	}
}

// Active reports whether a transfer (including its startup delay) is
// in flight. CPU OAM access is blocked for its whole duration.
func (d *DMA) Active() bool {
	return d.active
}

// conflictActive reports whether the DMA unit is currently driving
// its source bus, so a concurrent CPU access to the same bus
// category should observe the in-flight byte instead of its own
// target.
func (d *DMA) conflictActive() bool {
	if !d.active {
		return false
	}
	return !(d.coldStartup && d.delayRemaining > 0)
}

// Tick advances the DMA unit by one M-cycle. Call once per M-cycle
// regardless of whether a transfer is active; it is a no-op when idle.
func (d *DMA) Tick() {
	if !d.active {
		return
	}
	if d.delayRemaining > 0 {
		d.delayRemaining--
		return
	}
	addr := d.sourceBase + uint16(d.index)
	d.currentByte = d.src.ReadRaw(addr)
	d.dest.WriteOAMDMA(d.index, d.currentByte)
	d.index++
	if d.index == 160 {
		d.active = false
	}
}

// ConflictRead reports the value a CPU read of addr should observe if
// the DMA unit is currently driving the same bus category, and
// whether a conflict is in effect at all.
func (d *DMA) ConflictRead(addr uint16) (uint8, bool) {
	if !d.conflictActive() || categoryOf(addr) != d.sourceBus {
		return 0, false
	}
	return d.currentByte, true
}

// ConflictBlocksWrite reports whether a CPU write to addr is dropped
// because it shares the DMA unit's current bus.
func (d *DMA) ConflictBlocksWrite(addr uint16) bool {
	if !d.conflictActive() {
		return false
	}
	return categoryOf(addr) == d.sourceBus
}
