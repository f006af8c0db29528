package snapshot

import (
	"testing"

	"github.com/ramjac-digital/rambo/internal/emulation"
	"github.com/ramjac-digital/rambo/internal/loader"
)

func buildNROM(t *testing.T, program ...uint8) *loader.LoadedROM {
	t.Helper()

	data := make([]byte, 16+16384+8192)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1
	data[5] = 1

	prg := data[16 : 16+16384]
	copy(prg, program)
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	rom, err := loader.Load(data)
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	return rom
}

func TestSaveLoadRoundTripsCPUState(t *testing.T) {
	// LDA #$42 ; loop: JMP loop
	rom := buildNROM(t, 0xA9, 0x42, 0x4C, 0x02, 0x80)
	s := emulation.New(rom)
	s.PowerOn()

	for i := 0; i < 10; i++ {
		s.EmulateFrame()
	}

	blob, err := Save(s, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	wantPC, wantA := s.CPU.PC, s.CPU.A

	s2 := emulation.New(buildNROM(t, 0xA9, 0x42, 0x4C, 0x02, 0x80))
	s2.PowerOn()
	s2.EmulateFrame() // diverge from s before restoring

	if err := Load(s2, blob); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s2.CPU.PC != wantPC || s2.CPU.A != wantA {
		t.Fatalf("restored CPU state mismatch: got PC=%#x A=%#x, want PC=%#x A=%#x", s2.CPU.PC, s2.CPU.A, wantPC, wantA)
	}
}

func TestLoadRejectsWrongMapper(t *testing.T) {
	rom := buildNROM(t, 0xEA)
	s := emulation.New(rom)
	s.PowerOn()

	blob, err := Save(s, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Build a ROM with a different mapper ID (mapper 2, UxROM) so header
	// validation rejects the state before touching any component.
	data := make([]byte, 16+16384*2+8192)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 2
	data[5] = 1
	data[6] = 2 << 4
	other, err := loader.Load(data)
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	s2 := emulation.New(other)
	s2.PowerOn()

	err = Load(s2, blob)
	if err == nil {
		t.Fatal("expected Load to reject mismatched mapper ID")
	}
	var rejectErr *RejectError
	if !asRejectError(err, &rejectErr) || rejectErr.Reason != UnsupportedMapper {
		t.Fatalf("expected UnsupportedMapper rejection, got %v", err)
	}
}

func TestLoadRejectsCorruptBlob(t *testing.T) {
	rom := buildNROM(t, 0xEA)
	s := emulation.New(rom)
	s.PowerOn()

	err := Load(s, []byte("not a valid save state"))
	if err == nil {
		t.Fatal("expected Load to reject garbage input")
	}
}

func asRejectError(err error, target **RejectError) bool {
	re, ok := err.(*RejectError)
	if !ok {
		return false
	}
	*target = re
	return true
}
