// Package bus routes CPU-visible loads and stores across the 16-bit
// address space and tracks the open-bus byte, per spec.md §4.1.
package bus

import "github.com/ramjac-digital/rambo/internal/cartridge"

// PPURegisters is the capability the PPU exposes to the bus for $2000-$2007
// (mirrored every 8 bytes through $3FFF) and the $4014 OAM DMA source read
// side-effect of touching OAMADDR.
type PPURegisters interface {
	ReadRegister(reg uint16) uint8
	WriteRegister(reg uint16, value uint8)
}

// APURegisters is the capability the APU exposes to the bus for
// $4000-$4013, $4015, and $4017.
type APURegisters interface {
	ReadStatus() uint8
	WriteRegister(addr uint16, value uint8)
}

// Controllers is the capability the input subsystem exposes for $4016/$4017
// reads and the $4016 strobe write.
type Controllers interface {
	ReadPort1() uint8
	ReadPort2() uint8
	Strobe(value uint8)
}

// OAMDMATrigger is the capability the DMA engines expose for the $4014
// write side effect.
type OAMDMATrigger interface {
	TriggerOAMDMA(page uint8, cpuCycleIsOdd bool)
}

// Bus owns the 2 KiB of CPU-visible work RAM and the open-bus byte, and
// dispatches everything else to the components wired in at construction.
type Bus struct {
	RAM     [2048]byte
	OpenBus uint8

	PPU         PPURegisters
	APU         APURegisters
	Controllers Controllers
	DMA         OAMDMATrigger
	Cart        cartridge.Mapper

	// CPUCycleIsOdd is set by the owning EmulationState before each CPU
	// read/write so a $4014 write can compute the correct 513/514 cycle
	// DMA alignment (spec.md §4.5) without the bus needing its own clock
	// reference.
	CPUCycleIsOdd bool

	// TestRAM, when non-nil, entirely replaces the $0000-$1FFF window for
	// unit tests that want to drive the bus without a cartridge or PPU
	// wired up (spec.md §3 BusState "optional test_ram buffer").
	TestRAM []byte
}

// New constructs a Bus. Components are wired in after construction via the
// exported fields, matching the pattern spec.md §9 calls out: EmulationState
// owns everything and wires cross-references once, with no singletons.
func New() *Bus {
	return &Bus{}
}

// Read performs a CPU-visible load and updates the open-bus byte, except
// for $4015 which spec.md §4.1 says must not touch open bus.
func (b *Bus) Read(addr uint16) uint8 {
	if addr == 0x4015 {
		if b.APU != nil {
			return b.APU.ReadStatus()
		}
		return b.OpenBus
	}

	value := b.readNoSideEffectOnOpenBus(addr)
	b.OpenBus = value
	return value
}

func (b *Bus) readNoSideEffectOnOpenBus(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		if b.TestRAM != nil {
			return b.TestRAM[addr&0x07FF]
		}
		return b.RAM[addr&0x07FF]
	case addr <= 0x3FFF:
		if b.PPU == nil {
			return b.OpenBus
		}
		return b.PPU.ReadRegister(0x2000 + (addr & 0x0007))
	case addr == 0x4016:
		if b.Controllers == nil {
			return b.OpenBus & 0xE0
		}
		return (b.Controllers.ReadPort1() & 0x01) | (b.OpenBus & 0xE0)
	case addr == 0x4017:
		if b.Controllers == nil {
			return b.OpenBus & 0xE0
		}
		return (b.Controllers.ReadPort2() & 0x01) | (b.OpenBus & 0xE0)
	case addr <= 0x4013, addr == 0x4014:
		// Write-only APU/OAMDMA registers: reads return open bus.
		return b.OpenBus
	case addr <= 0x401F:
		// Test registers, open bus.
		return b.OpenBus
	default:
		if b.Cart == nil {
			return b.OpenBus
		}
		return b.Cart.CPURead(addr)
	}
}

// Write performs a CPU-visible store and updates the open-bus byte.
func (b *Bus) Write(addr uint16, value uint8) {
	b.OpenBus = value

	switch {
	case addr <= 0x1FFF:
		if b.TestRAM != nil {
			b.TestRAM[addr&0x07FF] = value
			return
		}
		b.RAM[addr&0x07FF] = value
	case addr <= 0x3FFF:
		if b.PPU != nil {
			b.PPU.WriteRegister(0x2000+(addr&0x0007), value)
		}
	case addr == 0x4014:
		if b.DMA != nil {
			b.DMA.TriggerOAMDMA(value, b.CPUCycleIsOdd)
		}
	case addr == 0x4016:
		if b.Controllers != nil {
			b.Controllers.Strobe(value)
		}
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		if b.APU != nil {
			b.APU.WriteRegister(addr, value)
		}
	case addr <= 0x401F:
		// Test registers, open bus.
	default:
		if b.Cart != nil {
			b.Cart.CPUWrite(addr, value)
		}
	}
}
