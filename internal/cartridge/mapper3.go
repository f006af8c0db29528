package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper3 implements CNROM: fixed NROM-style PRG, one bank-select register
// switches 8 KiB CHR banks. No IRQ.
type Mapper3 struct {
	prg     []byte
	chr     []byte
	chrIsRAM bool
	prgRAM  [8192]byte
	chrBank uint8
	mirror  Mirroring
}

func newMapper3(header INESHeader, prg, chr []byte, mirror Mirroring) *Mapper3 {
	c := chr
	isRAM := false
	if len(c) == 0 {
		c = make([]byte, 8192)
		isRAM = true
	}
	return &Mapper3{prg: prg, chr: c, chrIsRAM: isRAM, mirror: mirror}
}

func (m *Mapper3) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.prg[int(addr-0x8000)%len(m.prg)]
	default:
		return 0
	}
}

func (m *Mapper3) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		m.prgRAM[addr-0x6000] = value
	case addr >= 0x8000:
		m.chrBank = value & 0x03
	}
}

func (m *Mapper3) banks() int { return len(m.chr) / 0x2000 }

func (m *Mapper3) PPURead(addr uint16) uint8 {
	banks := m.banks()
	if banks == 0 {
		banks = 1
	}
	return m.chr[(int(m.chrBank)%banks)*0x2000+int(addr)]
}

func (m *Mapper3) PPUWrite(addr uint16, value uint8) {
	// CNROM CHR is ROM unless the header reported CHR size 0, in which
	// case we substitute CHR RAM, matching chrSpace's semantics.
	if m.chrIsRAM {
		m.chr[addr] = value
	}
}

func (m *Mapper3) Mirroring() Mirroring { return m.mirror }
func (m *Mapper3) IRQLine() bool        { return false }
func (m *Mapper3) TickIRQCounter()      {}

type mapper3State struct {
	PRGRAM  [8192]byte
	ChrBank uint8
	ChrRAM  []byte
}

func (m *Mapper3) Snapshot() ([]byte, error) {
	state := mapper3State{PRGRAM: m.prgRAM, ChrBank: m.chrBank}
	if m.chrIsRAM {
		state.ChrRAM = append([]byte(nil), m.chr...)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Mapper3) Restore(blob []byte) error {
	var state mapper3State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.prgRAM, m.chrBank = state.PRGRAM, state.ChrBank
	if m.chrIsRAM && state.ChrRAM != nil {
		copy(m.chr, state.ChrRAM)
	}
	return nil
}
