// Package dma implements the OAM DMA and DMC DMA engines and their mutual
// preemption, per spec.md §4.5-§4.7 (the hardest subsystem in the core).
package dma

// OAMPhase is the OAM DMA engine's state, per spec.md §4.5/§4.7.
type OAMPhase int

const (
	OAMIdle OAMPhase = iota
	OAMAligning
	OAMReading
	OAMWriting
	OAMPausedDuringRead // paused with a byte already latched, pending write
	OAMPausedDuringWrite
)

// BusReader is the capability the OAM DMA engine needs to fetch source
// bytes; satisfied by *bus.Bus.
type BusReader interface {
	Read(addr uint16) uint8
}

// OAMWriter is the capability the PPU exposes for DMA-driven OAM writes:
// write the byte at the current OAMADDR and post-increment it, exactly as
// a CPU write to $2004 would, per spec.md §4.5.
type OAMWriter interface {
	WriteOAMDMAByte(value uint8)
}

// OamDma models the 256-byte $4014 transfer engine.
type OamDma struct {
	Active         bool
	SourcePage     uint8
	CurrentOffset  uint8
	CurrentCycle   uint16
	NeedsAlignment bool
	Phase          OAMPhase

	latchedByte uint8

	// Duplication ledger (spec.md §3 OamDma).
	InterruptedByte     uint8
	InterruptedOffset   uint8
	OamAddrAtInterrupt  uint8
	DuplicationPending  bool

	Bus BusReader
	OAM OAMWriter
}

// New constructs an idle OAM DMA engine. Bus/OAM are wired by the owning
// EmulationState.
func New(bus BusReader, oam OAMWriter) *OamDma {
	return &OamDma{Bus: bus, OAM: oam, Phase: OAMIdle}
}

// TriggerOAMDMA starts a transfer from $[page]00-$[page]FF, per the
// $4014-write contract of spec.md §4.1/§4.5. Every transfer spends one
// initial "get" cycle before the first read regardless of alignment;
// cpuCycleIsOdd adds one further alignment cycle on top of that, giving
// the 513 (even start) vs 514 (odd start) cycle totals.
func (d *OamDma) TriggerOAMDMA(page uint8, cpuCycleIsOdd bool) {
	d.Active = true
	d.SourcePage = page
	d.CurrentOffset = 0
	d.CurrentCycle = 0
	d.NeedsAlignment = cpuCycleIsOdd
	d.Phase = OAMAligning
}

// Pause freezes the engine for one DMC DMA fetch; called by the owning
// EmulationState when DMC DMA preempts OAM DMA mid-transfer.
func (d *OamDma) Pause() {
	switch d.Phase {
	case OAMReading:
		d.Phase = OAMPausedDuringWrite // nothing latched yet to duplicate
	case OAMWriting:
		d.InterruptedByte = d.latchedByte
		d.InterruptedOffset = d.CurrentOffset
		d.DuplicationPending = true
		d.Phase = OAMPausedDuringRead
	}
}

// Resume reactivates the engine after a DMC DMA fetch completes.
func (d *OamDma) Resume() {
	switch d.Phase {
	case OAMPausedDuringWrite:
		d.Phase = OAMReading
	case OAMPausedDuringRead:
		// Zero-cost duplication write: the source is stable RAM, so the
		// already-latched byte is reused rather than re-read, per
		// spec.md §3's "actually a re-read, same value written twice
		// because source is stable RAM".
		if d.DuplicationPending {
			d.OAM.WriteOAMDMAByte(d.InterruptedByte)
			d.DuplicationPending = false
		}
		d.Phase = OAMWriting
	}
}

// Step advances the engine by exactly one CPU cycle. It must not be called
// while DMC DMA is active (spec.md §4.7 priority: DMC always wins).
func (d *OamDma) Step() {
	if !d.Active {
		return
	}
	d.CurrentCycle++

	switch d.Phase {
	case OAMAligning:
		// This cycle is always the initial "get" cycle. On an odd-aligned
		// start, one extra alignment cycle must also be spent before the
		// first read; consume it here and stay in this phase one more Step.
		if d.NeedsAlignment {
			d.NeedsAlignment = false
			return
		}
		d.Phase = OAMReading
	case OAMReading:
		d.latchedByte = d.Bus.Read(uint16(d.SourcePage)<<8 | uint16(d.CurrentOffset))
		d.Phase = OAMWriting
	case OAMWriting:
		d.OAM.WriteOAMDMAByte(d.latchedByte)
		wrapped := d.CurrentOffset == 0xFF
		d.CurrentOffset++
		if wrapped {
			d.Active = false
			d.Phase = OAMIdle
			return
		}
		d.Phase = OAMReading
	}
}
