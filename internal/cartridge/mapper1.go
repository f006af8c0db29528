package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper1 implements MMC1: a 5-bit serial shift register loaded one bit per
// CPU write (LSB first), committed to an internal control/bank register
// every fifth write. Writing with bit 7 set resets the shift register and
// forces 16 KiB PRG mode with the high bank fixed, per spec.md §4.2a.
type Mapper1 struct {
	prg []byte
	chr chrSpace

	prgRAM [8192]byte

	shift      uint8
	shiftCount uint8

	control  uint8 // bit0-1 mirroring, bit2-3 PRG mode, bit4 CHR mode
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8
}

func newMapper1(prg, chr []byte, mirror Mirroring) *Mapper1 {
	m := &Mapper1{
		prg:     prg,
		chr:     newCHRSpace(chr),
		control: 0x0C, // power-on: PRG mode 3 (fix last bank high)
	}
	switch mirror {
	case MirrorVertical:
		m.control |= 0x02
	case MirrorHorizontal:
		m.control |= 0x03
	}
	return m
}

func (m *Mapper1) prgBankCount() int { return len(m.prg) / 0x4000 }

func (m *Mapper1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.prg[m.prgOffset(addr)]
	default:
		return 0
	}
}

func (m *Mapper1) prgOffset(addr uint16) int {
	mode := (m.control >> 2) & 0x03
	bank := int(m.prgBank & 0x0F)
	banks := m.prgBankCount()
	switch mode {
	case 0, 1: // 32 KiB switch, ignoring low bank bit
		base := (bank &^ 1) * 0x4000
		return (base + int(addr-0x8000)) % (banks * 0x4000)
	case 2: // fix first bank, switch 16 KiB at $C000
		if addr < 0xC000 {
			return int(addr - 0x8000)
		}
		return (bank%banks)*0x4000 + int(addr-0xC000)
	default: // mode 3: switch 16 KiB at $8000, fix last bank at $C000
		if addr < 0xC000 {
			return (bank%banks)*0x4000 + int(addr-0x8000)
		}
		return (banks-1)*0x4000 + int(addr-0xC000)
	}
}

func (m *Mapper1) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr <= 0x7FFF {
		m.prgRAM[addr-0x6000] = value
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (value & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	data := m.shift
	m.shift = 0
	m.shiftCount = 0

	switch {
	case addr <= 0x9FFF:
		m.control = data
	case addr <= 0xBFFF:
		m.chrBank0 = data
	case addr <= 0xDFFF:
		m.chrBank1 = data
	default:
		m.prgBank = data
	}
}

func (m *Mapper1) chrOffset(addr uint16) int {
	if m.chr.isRAM && len(m.chr.data) <= 0x2000 {
		return int(addr) % len(m.chr.data)
	}
	fourK := m.control&0x10 != 0
	banks := len(m.chr.data) / 0x1000
	if banks == 0 {
		banks = 1
	}
	if fourK {
		if addr < 0x1000 {
			return (int(m.chrBank0)%banks)*0x1000 + int(addr)
		}
		return (int(m.chrBank1)%banks)*0x1000 + int(addr-0x1000)
	}
	bank8 := int(m.chrBank0&^1) % banks
	return bank8*0x1000 + int(addr)
}

func (m *Mapper1) PPURead(addr uint16) uint8 {
	if m.chr.isRAM {
		return m.chr.data[int(addr)%len(m.chr.data)]
	}
	return m.chr.data[m.chrOffset(addr)%len(m.chr.data)]
}

func (m *Mapper1) PPUWrite(addr uint16, value uint8) {
	if !m.chr.isRAM {
		return
	}
	m.chr.data[int(addr)%len(m.chr.data)] = value
}

func (m *Mapper1) Mirroring() Mirroring {
	switch m.control & 0x03 {
	case 0:
		return MirrorSingleLower
	case 1:
		return MirrorSingleUpper
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *Mapper1) IRQLine() bool      { return false }
func (m *Mapper1) TickIRQCounter()    {}

type mapper1State struct {
	PRGRAM     [8192]byte
	Shift      uint8
	ShiftCount uint8
	Control    uint8
	ChrBank0   uint8
	ChrBank1   uint8
	PrgBank    uint8
	ChrRAM     []byte
	HasChrRAM  bool
}

func (m *Mapper1) Snapshot() ([]byte, error) {
	state := mapper1State{
		PRGRAM: m.prgRAM, Shift: m.shift, ShiftCount: m.shiftCount,
		Control: m.control, ChrBank0: m.chrBank0, ChrBank1: m.chrBank1, PrgBank: m.prgBank,
	}
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

func (m *Mapper1) Restore(blob []byte) error {
	var state mapper1State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.prgRAM = state.PRGRAM
	m.shift, m.shiftCount = state.Shift, state.ShiftCount
	m.control, m.chrBank0, m.chrBank1, m.prgBank = state.Control, state.ChrBank0, state.ChrBank1, state.PrgBank
	if state.HasChrRAM {
		if ram, isRAM := m.chr.ramBytes(); isRAM {
			copy(ram, state.ChrRAM)
		}
	}
	return nil
}
