package dma

// OamState is OamDma's gob-encodable snapshot mirror.
type OamState struct {
	Active         bool
	SourcePage     uint8
	CurrentOffset  uint8
	CurrentCycle   uint16
	NeedsAlignment bool
	Phase          OAMPhase

	LatchedByte uint8

	InterruptedByte    uint8
	InterruptedOffset  uint8
	OamAddrAtInterrupt uint8
	DuplicationPending bool
}

// Snapshot captures the transfer engine's in-flight state, including the
// paused-duplication ledger needed to resume a preempted transfer exactly.
func (d *OamDma) Snapshot() OamState {
	return OamState{
		Active: d.Active, SourcePage: d.SourcePage, CurrentOffset: d.CurrentOffset,
		CurrentCycle: d.CurrentCycle, NeedsAlignment: d.NeedsAlignment, Phase: d.Phase,
		LatchedByte: d.latchedByte,
		InterruptedByte: d.InterruptedByte, InterruptedOffset: d.InterruptedOffset,
		OamAddrAtInterrupt: d.OamAddrAtInterrupt, DuplicationPending: d.DuplicationPending,
	}
}

// Restore reinstates a previously captured snapshot.
func (d *OamDma) Restore(s OamState) {
	d.Active, d.SourcePage, d.CurrentOffset = s.Active, s.SourcePage, s.CurrentOffset
	d.CurrentCycle, d.NeedsAlignment, d.Phase = s.CurrentCycle, s.NeedsAlignment, s.Phase
	d.latchedByte = s.LatchedByte
	d.InterruptedByte, d.InterruptedOffset = s.InterruptedByte, s.InterruptedOffset
	d.OamAddrAtInterrupt, d.DuplicationPending = s.OamAddrAtInterrupt, s.DuplicationPending
}

// DmcState is DmcDma's gob-encodable snapshot mirror.
type DmcState struct {
	Active          bool
	CyclesRemaining uint8
	CurrentAddress  uint16
	PendingByte     uint8
	HasPendingByte  bool
}

// Snapshot captures the stall engine's in-flight state.
func (d *DmcDma) Snapshot() DmcState {
	return DmcState{
		Active: d.Active, CyclesRemaining: d.CyclesRemaining, CurrentAddress: d.CurrentAddress,
		PendingByte: d.pendingByte, HasPendingByte: d.hasPendingByte,
	}
}

// Restore reinstates a previously captured snapshot.
func (d *DmcDma) Restore(s DmcState) {
	d.Active, d.CyclesRemaining, d.CurrentAddress = s.Active, s.CyclesRemaining, s.CurrentAddress
	d.pendingByte, d.hasPendingByte = s.PendingByte, s.HasPendingByte
}
