package dma

// State is the serializable snapshot of DMA state for save states.
type State struct {
	Active         bool
	SourceBase     uint16
	SourceBus      busCategory
	Index          uint8
	CurrentByte    uint8
	DelayRemaining int
	ColdStartup    bool
}

// Snapshot captures the DMA unit's current state.
func (d *DMA) Snapshot() State {
	return State{
		Active:         d.active,
		SourceBase:     d.sourceBase,
		SourceBus:      d.sourceBus,
		Index:          d.index,
		CurrentByte:    d.currentByte,
		DelayRemaining: d.delayRemaining,
		ColdStartup:    d.coldStartup,
	}
}

// Restore replaces the DMA unit's state with a previously captured Snapshot.
func (d *DMA) Restore(s State) {
	d.active = s.Active
	d.sourceBase = s.SourceBase
	d.sourceBus = s.SourceBus
	d.index = s.Index
	d.currentByte = s.CurrentByte
	d.delayRemaining = s.DelayRemaining
	d.coldStartup = s.ColdStartup
}
