// Package emulation owns every emulator component and drives them through
// a single tick() entry point, per spec.md §9's "global state replaced by
// explicit aggregation" design note.
package emulation

import (
	"github.com/ramjac-digital/rambo/internal/apu"
	"github.com/ramjac-digital/rambo/internal/bus"
	"github.com/ramjac-digital/rambo/internal/cartridge"
	"github.com/ramjac-digital/rambo/internal/clock"
	"github.com/ramjac-digital/rambo/internal/cpu"
	"github.com/ramjac-digital/rambo/internal/dma"
	"github.com/ramjac-digital/rambo/internal/input"
	"github.com/ramjac-digital/rambo/internal/loader"
	"github.com/ramjac-digital/rambo/internal/ppu"
)

// State is the aggregate spec.md §3 calls "Lifecycles": constructed once
// per ROM load, reinitialized in place by Reset/PowerOn rather than
// reallocated, so the hot tick() path never touches the heap.
type State struct {
	Clock *clock.Clock
	Bus   *bus.Bus
	Cart  cartridge.Mapper

	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	OamDma *dma.OamDma
	DmcDma *dma.DmcDma
	Input  *input.InputState

	rom *loader.LoadedROM

	// oamPreempted tracks whether the last cycle's DMC DMA activity has
	// paused an in-progress OAM DMA transfer, so the pause/resume edge is
	// signaled to OamDma exactly once per preemption window rather than
	// every cycle (spec.md §4.7).
	oamPreempted bool

	// FrameComplete is invoked once per frame, at scanline 241 dot 1, so
	// the owning render thread can copy the framebuffer out. Set by the
	// caller after New(); spec.md §5 routes this through FrameMailbox one
	// layer up rather than this package importing the mailbox package
	// directly (no import cycle, no mailbox dependency in the hot tick
	// path's own package).
	FrameComplete func()
}

// toPPUMirroring converts the cartridge package's Mirroring enum to the
// PPU's local copy; the two stay decoupled per spec.md §9's capability-
// polymorphism note ("the PPU never references the cartridge type
// directly") and this is the one place the conversion happens.
func toPPUMirroring(m cartridge.Mirroring) ppu.Mirroring {
	switch m {
	case cartridge.MirrorVertical:
		return ppu.MirrorVertical
	case cartridge.MirrorFourScreen:
		return ppu.MirrorFourScreen
	case cartridge.MirrorSingleLower:
		return ppu.MirrorSingleLower
	case cartridge.MirrorSingleUpper:
		return ppu.MirrorSingleUpper
	default:
		return ppu.MirrorHorizontal
	}
}

// chrAdapter satisfies ppu.ChrProvider by delegating to the cartridge
// mapper's PPURead/PPUWrite, keeping the PPU package free of any import of
// internal/cartridge.
type chrAdapter struct {
	cart cartridge.Mapper
}

func (a chrAdapter) PPURead(addr uint16) uint8        { return a.cart.PPURead(addr) }
func (a chrAdapter) PPUWrite(addr uint16, value uint8) { a.cart.PPUWrite(addr, value) }

// New constructs a fully wired State from an already-loaded ROM. Every
// cross-reference is wired exactly once here, matching the teacher's
// bus.New()-plus-exported-fields wiring pattern generalized across the
// whole aggregate instead of just the bus.
func New(rom *loader.LoadedROM) *State {
	s := &State{
		Clock: clock.New(),
		Bus:   bus.New(),
		Cart:  rom.Mapper,
		PPU:   ppu.New(),
		APU:   apu.New(),
		Input: input.NewInputState(),
		rom:   rom,
	}

	s.PPU.Chr = chrAdapter{cart: s.Cart}
	s.PPU.Mirroring = toPPUMirroring(s.Cart.Mirroring())

	s.OamDma = dma.New(s.Bus, s.PPU)
	s.DmcDma = dma.NewDmcDma(s.Bus)
	s.APU.SetDmcDMA(s.DmcDma)

	s.Bus.PPU = s.PPU
	s.Bus.APU = s.APU
	s.Bus.Controllers = s.Input
	s.Bus.DMA = s.OamDma
	s.Bus.Cart = s.Cart

	s.CPU = cpu.New(s.Bus)

	return s
}

// PowerOn resets the clock, PPU, APU, controllers and CPU to their power-up
// state, per spec.md §3's Lifecycles entry for EmulationState. CPU RAM, the
// DMA engines and the cartridge mapper are left as they are.
func (s *State) PowerOn() {
	s.Clock.Reset()
	s.PPU.Reset()
	s.APU.Reset()
	s.Input.Reset()
	s.CPU.Reset()
}

// Reset applies the CPU's reset (see cpu.CPU.Reset, which takes effect at
// once rather than over 7 cycles) without reinitializing PPU/APU/cartridge
// state, matching real NES reset-button behavior.
func (s *State) Reset() {
	s.CPU.Reset()
}

// tick advances the whole system by exactly one PPU dot, per spec.md §9's
// deterministic ordering: PPU dot -> every third dot, CPU cycle -> CPU
// cycle checks for pending OAM/DMC DMA -> APU frame counter tick on CPU
// cycles -> mapper IRQ sampled.
func (s *State) tick() {
	s.PPU.Step()
	s.Cart.TickIRQCounter()

	if s.PPU.NMILine() {
		s.CPU.SetNMILine(true)
	} else {
		s.CPU.SetNMILine(false)
	}

	if s.Clock.TickDot() {
		s.Bus.CPUCycleIsOdd = s.Clock.CPUCycles%2 != 0
		s.advanceCPUCycle()
		s.APU.Step()
		s.CPU.IRQLine = s.APU.IRQLine() || s.Cart.IRQLine()
	}

	if s.PPU.Scanline == 241 && s.PPU.Dot == 1 && s.FrameComplete != nil {
		s.FrameComplete()
	}
}

// advanceCPUCycle implements spec.md §4.7's DMA precedence: DMC DMA always
// wins over OAM DMA, which always wins over the CPU microstep engine. The
// rising/falling edge of DMC activity is signaled to OamDma via exactly
// one Pause()/Resume() call each, since that engine's duplicated-byte
// bookkeeping is edge-triggered, not level-triggered.
func (s *State) advanceCPUCycle() {
	if s.DmcDma.IsActive() {
		if s.OamDma.Active && !s.oamPreempted {
			s.OamDma.Pause()
			s.oamPreempted = true
		}
		s.DmcDma.Step()
		return
	}

	if s.oamPreempted {
		s.oamPreempted = false
		if s.OamDma.Active {
			s.OamDma.Resume()
		}
	}

	if s.OamDma.Active {
		s.OamDma.Step()
		return
	}

	s.CPU.Step()
}

// Tick advances the system by one PPU dot. Exported so internal/speed's
// frame-pacing loop and tests can drive the system without EmulationState
// exposing any other mutable surface.
func (s *State) Tick() {
	s.tick()
}

// EmulateFrame repeatedly ticks until the next scanline-241-dot-1 frame
// boundary, matching spec.md §5's emulateFrame() description.
func (s *State) EmulateFrame() {
	// Step past the current boundary first so a call made exactly at the
	// boundary doesn't return immediately without doing any work.
	s.tick()
	for !(s.PPU.Scanline == 241 && s.PPU.Dot == 1) {
		s.tick()
	}
}

// LoadedROM exposes the cartridge image backing this state, e.g. for
// snapshot ROM-checksum verification.
func (s *State) LoadedROM() *loader.LoadedROM {
	return s.rom
}
