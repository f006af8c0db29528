package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper2 implements UxROM: one bank-select register switches the 16 KiB
// low PRG bank at $8000-$BFFF; the high bank at $C000-$FFFF is fixed to the
// cartridge's last bank. CHR is always RAM in practice.
type Mapper2 struct {
	prg     []byte
	chr     chrSpace
	prgRAM  [8192]byte
	bank    uint8
	mirror  Mirroring
}

func newMapper2(prg, chr []byte, mirror Mirroring) *Mapper2 {
	return &Mapper2{prg: prg, chr: newCHRSpace(chr), mirror: mirror}
}

func (m *Mapper2) banks() int { return len(m.prg) / 0x4000 }

func (m *Mapper2) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000 && addr <= 0xBFFF:
		return m.prg[(int(m.bank)%m.banks())*0x4000+int(addr-0x8000)]
	case addr >= 0xC000:
		return m.prg[(m.banks()-1)*0x4000+int(addr-0xC000)]
	default:
		return 0
	}
}

func (m *Mapper2) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		m.prgRAM[addr-0x6000] = value
	case addr >= 0x8000:
		m.bank = value
	}
}

func (m *Mapper2) PPURead(addr uint16) uint8     { return m.chr.read(addr) }
func (m *Mapper2) PPUWrite(addr uint16, v uint8)  { m.chr.write(addr, v) }
func (m *Mapper2) Mirroring() Mirroring           { return m.mirror }
func (m *Mapper2) IRQLine() bool                  { return false }
func (m *Mapper2) TickIRQCounter()                {}

type mapper2State struct {
	PRGRAM    [8192]byte
	Bank      uint8
	ChrRAM    []byte
	HasChrRAM bool
}

func (m *Mapper2) Snapshot() ([]byte, error) {
	state := mapper2State{PRGRAM: m.prgRAM, Bank: m.bank}
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

func (m *Mapper2) Restore(blob []byte) error {
	var state mapper2State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.prgRAM, m.bank = state.PRGRAM, state.Bank
	if state.HasChrRAM {
		if ram, isRAM := m.chr.ramBytes(); isRAM {
			copy(ram, state.ChrRAM)
		}
	}
	return nil
}
