package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper7 implements AxROM: a single register switches a 32 KiB PRG bank
// and selects single-screen mirroring (upper or lower nametable), the one
// mapper here that exercises single-screen mirroring end to end. CHR is
// always RAM. No IRQ.
type Mapper7 struct {
	prg    []byte
	chr    [8192]byte
	bank   uint8
	mirror Mirroring
}

func newMapper7(prg, chr []byte) *Mapper7 {
	m := &Mapper7{prg: prg, mirror: MirrorSingleLower}
	copy(m.chr[:], chr)
	return m
}

func (m *Mapper7) banks() int { return len(m.prg) / 0x8000 }

func (m *Mapper7) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	banks := m.banks()
	if banks == 0 {
		banks = 1
	}
	return m.prg[(int(m.bank&0x07)%banks)*0x8000+int(addr-0x8000)]
}

func (m *Mapper7) CPUWrite(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	m.bank = value & 0x07
	if value&0x10 != 0 {
		m.mirror = MirrorSingleUpper
	} else {
		m.mirror = MirrorSingleLower
	}
}

func (m *Mapper7) PPURead(addr uint16) uint8      { return m.chr[addr] }
func (m *Mapper7) PPUWrite(addr uint16, v uint8)  { m.chr[addr] = v }
func (m *Mapper7) Mirroring() Mirroring           { return m.mirror }
func (m *Mapper7) IRQLine() bool                  { return false }
func (m *Mapper7) TickIRQCounter()                {}

type mapper7State struct {
	Chr    [8192]byte
	Bank   uint8
	Mirror Mirroring
}

func (m *Mapper7) Snapshot() ([]byte, error) {
	state := mapper7State{Chr: m.chr, Bank: m.bank, Mirror: m.mirror}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Mapper7) Restore(blob []byte) error {
	var state mapper7State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.chr, m.bank, m.mirror = state.Chr, state.Bank, state.Mirror
	return nil
}
