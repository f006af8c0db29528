package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper0 implements NROM: no banking, 16 KiB PRG mirrored to fill the
// 32 KiB CPU window if the cartridge only has one bank, 8 KiB PRG RAM
// always present at $6000-$7FFF regardless of what the iNES header claims,
// per spec.md §3 invariants and §4.2.
type Mapper0 struct {
	prg    []byte
	chr    chrSpace
	prgRAM [8192]byte
	mirror Mirroring
}

func newMapper0(header INESHeader, prg, chr []byte, mirror Mirroring) *Mapper0 {
	return &Mapper0{
		prg:    prg,
		chr:    newCHRSpace(chr),
		mirror: mirror,
	}
}

func (m *Mapper0) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	default:
		return 0
	}
}

func (m *Mapper0) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr <= 0x7FFF {
		m.prgRAM[addr-0x6000] = value
	}
	// Writes to $8000-$FFFF are no-ops: NROM PRG is not banked.
}

func (m *Mapper0) PPURead(addr uint16) uint8    { return m.chr.read(addr) }
func (m *Mapper0) PPUWrite(addr uint16, v uint8) { m.chr.write(addr, v) }
func (m *Mapper0) Mirroring() Mirroring          { return m.mirror }
func (m *Mapper0) IRQLine() bool                 { return false }
func (m *Mapper0) TickIRQCounter()               {}

// mapper0State is Mapper0's gob-encodable mirror for Snapshot/Restore.
type mapper0State struct {
	PRGRAM  [8192]byte
	ChrRAM  []byte
	HasChrRAM bool
}

func (m *Mapper0) Snapshot() ([]byte, error) {
	state := mapper0State{PRGRAM: m.prgRAM}
	if ram, isRAM := m.chr.ramBytes(); isRAM {
		state.ChrRAM = append([]byte(nil), ram...)
		state.HasChrRAM = true
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Mapper0) Restore(blob []byte) error {
	var state mapper0State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.prgRAM = state.PRGRAM
	if state.HasChrRAM {
		if ram, isRAM := m.chr.ramBytes(); isRAM {
			copy(ram, state.ChrRAM)
		}
	}
	return nil
}
