package cartridge

import (
	"bytes"
	"encoding/gob"
)

// Mapper4 implements enough of MMC3's bank-select/PRG/CHR register surface
// for PRG and CHR banking to work; the scanline IRQ counter is a documented
// placeholder per spec.md §9's explicit "MMC3 IRQ acknowledge semantics are
// placeholders" open question — TickIRQCounter is intentionally a no-op and
// IRQLine always reports false.
type Mapper4 struct {
	prg    []byte
	chr    []byte
	prgRAM [8192]byte

	bankSelect uint8
	bankRegs   [8]uint8
	prgRAMProtect uint8

	mirror Mirroring

	irqLatch   uint8
	irqCounter uint8
	irqEnabled bool
}

func newMapper4(prg, chr []byte, mirror Mirroring) *Mapper4 {
	c := chr
	if len(c) == 0 {
		c = make([]byte, 8192)
	}
	return &Mapper4{prg: prg, chr: c, mirror: mirror}
}

func (m *Mapper4) prgBanks8K() int { return len(m.prg) / 0x2000 }

func (m *Mapper4) prgBankIndex(slot int) int {
	banks := m.prgBanks8K()
	fixedToSecondLast := m.bankSelect&0x40 != 0
	switch slot {
	case 0:
		if fixedToSecondLast {
			return banks - 2
		}
		return int(m.bankRegs[6]) % banks
	case 1:
		return int(m.bankRegs[7]) % banks
	case 2:
		if fixedToSecondLast {
			return int(m.bankRegs[6]) % banks
		}
		return banks - 2
	default:
		return banks - 1
	}
}

func (m *Mapper4) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		slot := int((addr - 0x8000) / 0x2000)
		off := int(addr) % 0x2000
		return m.prg[m.prgBankIndex(slot)*0x2000+off]
	default:
		return 0
	}
}

func (m *Mapper4) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF:
		m.prgRAM[addr-0x6000] = value
	case addr >= 0x8000 && addr <= 0x9FFF:
		if addr%2 == 0 {
			m.bankSelect = value
		} else {
			m.bankRegs[m.bankSelect&0x07] = value
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if addr%2 == 0 {
			if value&0x01 != 0 {
				m.mirror = MirrorHorizontal
			} else {
				m.mirror = MirrorVertical
			}
		} else {
			m.prgRAMProtect = value
		}
	case addr >= 0xC000 && addr <= 0xDFFF:
		if addr%2 == 0 {
			m.irqLatch = value
		}
		// odd address: IRQ reload request — left unimplemented, see
		// TickIRQCounter.
	case addr >= 0xE000:
		m.irqEnabled = addr%2 == 1
	}
}

func (m *Mapper4) chrBankIndex(slot int) int {
	banks := len(m.chr) / 0x0400
	if banks == 0 {
		banks = 1
	}
	invert := m.bankSelect&0x80 != 0
	order := [8]int{0, 0, 1, 1, 2, 3, 4, 5}
	regs := [8]uint8{
		m.bankRegs[0] &^ 1, m.bankRegs[0] | 1,
		m.bankRegs[1] &^ 1, m.bankRegs[1] | 1,
		m.bankRegs[2], m.bankRegs[3], m.bankRegs[4], m.bankRegs[5],
	}
	_ = order
	if invert {
		slot = (slot + 4) % 8
	}
	return int(regs[slot]) % banks
}

func (m *Mapper4) PPURead(addr uint16) uint8 {
	slot := int(addr / 0x0400)
	off := int(addr) % 0x0400
	return m.chr[m.chrBankIndex(slot)*0x0400+off]
}

func (m *Mapper4) PPUWrite(addr uint16, value uint8) {
	// CHR RAM variants would accept this; MMC3 carts are almost always
	// CHR ROM, so writes are dropped, matching chrSpace's ROM semantics.
}

func (m *Mapper4) Mirroring() Mirroring { return m.mirror }
func (m *Mapper4) IRQLine() bool        { return false }

// TickIRQCounter is a documented no-op: MMC3's scanline-counter reload and
// clock-on-A12-rising-edge semantics are an explicit open question this
// implementation leaves unresolved (spec.md §9).
func (m *Mapper4) TickIRQCounter() {}

type mapper4State struct {
	PRGRAM        [8192]byte
	BankSelect    uint8
	BankRegs      [8]uint8
	PrgRAMProtect uint8
	Mirror        Mirroring
	IrqLatch      uint8
	IrqCounter    uint8
	IrqEnabled    bool
	Chr           []byte
}

func (m *Mapper4) Snapshot() ([]byte, error) {
	state := mapper4State{
		PRGRAM: m.prgRAM, BankSelect: m.bankSelect, BankRegs: m.bankRegs,
		PrgRAMProtect: m.prgRAMProtect, Mirror: m.mirror,
		IrqLatch: m.irqLatch, IrqCounter: m.irqCounter, IrqEnabled: m.irqEnabled,
		Chr: append([]byte(nil), m.chr...),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Mapper4) Restore(blob []byte) error {
	var state mapper4State
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return err
	}
	m.prgRAM, m.bankSelect, m.bankRegs = state.PRGRAM, state.BankSelect, state.BankRegs
	m.prgRAMProtect, m.mirror = state.PrgRAMProtect, state.Mirror
	m.irqLatch, m.irqCounter, m.irqEnabled = state.IrqLatch, state.IrqCounter, state.IrqEnabled
	if len(state.Chr) == len(m.chr) {
		copy(m.chr, state.Chr)
	}
	return nil
}
