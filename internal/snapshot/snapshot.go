// Package snapshot implements save states: a versioned binary format that
// captures every component State struct needed to resume emulation exactly,
// per spec.md §6b.
package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/ramjac-digital/rambo/internal/apu"
	"github.com/ramjac-digital/rambo/internal/clock"
	"github.com/ramjac-digital/rambo/internal/cpu"
	"github.com/ramjac-digital/rambo/internal/dma"
	"github.com/ramjac-digital/rambo/internal/emulation"
	"github.com/ramjac-digital/rambo/internal/ppu"
)

// FormatVersion is bumped whenever the body's gob-encoded layout changes in
// a way that would misread an older save state's bytes.
const FormatVersion uint32 = 1

var magic = [4]byte{'R', 'M', 'B', 'O'}

// RejectReason enumerates why a save state failed to load, per spec.md §6b.
type RejectReason int

const (
	TruncatedSnapshot RejectReason = iota
	VersionMismatch
	UnsupportedMapper
	HashMismatch
)

func (r RejectReason) String() string {
	switch r {
	case TruncatedSnapshot:
		return "truncated snapshot"
	case VersionMismatch:
		return "version mismatch"
	case UnsupportedMapper:
		return "unsupported mapper"
	case HashMismatch:
		return "ROM hash mismatch"
	default:
		return "unknown rejection"
	}
}

// RejectError reports why Load refused a save-state blob.
type RejectError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("save state rejected: %s: %s", e.Reason, e.Detail)
}

// header is the leading part of a save-state file. It is gob-encoded
// together with the body as one value; after decoding, Load checks it field
// by field before applying the body, so a wrong magic, version, mapper or
// ROM checksum fails with a specific RejectReason. A blob that does not
// decode at all fails with TruncatedSnapshot.
type header struct {
	Magic        [4]byte
	FormatVersion uint32
	MapperID     uint16
	RegionTag    uint8
	ROMChecksum  [32]byte
}

// body composes every component snapshot needed to resume emulation.
type body struct {
	Clock   clock.State
	CPU     cpu.CPUState
	PPU     ppu.State
	APU     apu.State
	OamDma  dma.OamState
	DmcDma  dma.DmcState
	Mapper  []byte // opaque, mapper-specific blob from cartridge.Mapper.Snapshot
	InputP1 [8]bool
	InputP2 [8]bool
}

// file is the on-disk envelope: header then body, gob-encoded as one value
// so Save/Load never need to hand-roll offsets.
type file struct {
	Header header
	Body   body
}

// romChecksum hashes the cartridge's PRG+CHR ROM contents, used to reject a
// save state made against a different ROM image.
func romChecksum(prg, chr []byte) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(prg)
	h.Write(chr)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Save captures the full machine state into a gob-encoded blob. region is an
// opaque caller-assigned tag (e.g. NTSC=0, PAL=1) stored unchanged in the
// header; Load neither checks it nor returns it.
// s.CPU must be at an instruction boundary (spec.md §3's CpuState
// simplification); Save panics otherwise since this is a programmer error
// in the caller, not a runtime condition.
func Save(s *emulation.State, region uint8) ([]byte, error) {
	if !s.CPU.AtInstructionBoundary() {
		panic("snapshot: Save called mid-instruction")
	}

	mapperBlob, err := s.Cart.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("mapper snapshot: %w", err)
	}

	rom := s.LoadedROM()
	f := file{
		Header: header{
			Magic: magic, FormatVersion: FormatVersion,
			MapperID: uint16(rom.Header.Mapper), RegionTag: region,
			ROMChecksum: romChecksum(rom.PRG, rom.CHR),
		},
		Body: body{
			Clock: s.Clock.Snapshot(), CPU: s.CPU.Snapshot(), PPU: s.PPU.Snapshot(), APU: s.APU.Snapshot(),
			OamDma: s.OamDma.Snapshot(), DmcDma: s.DmcDma.Snapshot(), Mapper: mapperBlob,
			InputP1: s.Input.Controller1.Snapshot(), InputP2: s.Input.Controller2.Snapshot(),
		},
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encoding save state: %w", err)
	}
	return buf.Bytes(), nil
}

// Load restores s from blob, validating the header before touching any
// component state. On any rejection s is left untouched.
func Load(s *emulation.State, blob []byte) error {
	var f file
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&f); err != nil {
		return &RejectError{Reason: TruncatedSnapshot, Detail: err.Error()}
	}

	if f.Header.Magic != magic {
		return &RejectError{Reason: TruncatedSnapshot, Detail: "bad magic"}
	}
	if f.Header.FormatVersion != FormatVersion {
		return &RejectError{Reason: VersionMismatch, Detail: fmt.Sprintf("have %d, want %d", f.Header.FormatVersion, FormatVersion)}
	}

	rom := s.LoadedROM()
	if f.Header.MapperID != uint16(rom.Header.Mapper) {
		return &RejectError{Reason: UnsupportedMapper, Detail: fmt.Sprintf("save state is mapper %d, ROM is mapper %d", f.Header.MapperID, rom.Header.Mapper)}
	}
	if f.Header.ROMChecksum != romChecksum(rom.PRG, rom.CHR) {
		return &RejectError{Reason: HashMismatch, Detail: "save state does not match loaded ROM"}
	}

	if err := s.Cart.Restore(f.Body.Mapper); err != nil {
		return fmt.Errorf("mapper restore: %w", err)
	}
	s.Clock.Restore(f.Body.Clock)
	s.CPU.Restore(f.Body.CPU)
	s.PPU.Restore(f.Body.PPU)
	s.APU.Restore(f.Body.APU)
	s.OamDma.Restore(f.Body.OamDma)
	s.DmcDma.Restore(f.Body.DmcDma)
	s.Input.Controller1.RestoreButtons(f.Body.InputP1)
	s.Input.Controller2.RestoreButtons(f.Body.InputP2)
	return nil
}
