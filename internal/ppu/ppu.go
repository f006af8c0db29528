// Package ppu implements the 2C02 Picture Processing Unit as a dot-stepped
// state machine, per spec.md §4.4: one Step() call advances exactly one PPU
// dot, with background/sprite pipelines, scroll latches, and a VBlank ledger
// that reconstructs race-window behavior around the set/clear boundary.
package ppu

// ChrProvider is the capability the PPU needs from the cartridge: pattern
// table reads/writes through $0000-$1FFF. Satisfied by cartridge.Mapper,
// which the PPU never references directly (spec.md §4.4's "the PPU never
// references the cartridge type directly").
type ChrProvider interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
}

// Mirroring folds the PPU's 4 logical nametables onto 2KiB of physical VRAM.
// Mirrors cartridge.Mirroring's values so callers can pass it through without
// this package importing cartridge.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
	MirrorSingleLower
	MirrorSingleUpper
)

func nametableIndex(addr uint16, m Mirroring) uint16 {
	addr &= 0x0FFF
	table := addr / 0x0400
	offset := addr % 0x0400
	switch m {
	case MirrorVertical:
		return (table%2)*0x0400 + offset
	case MirrorHorizontal:
		return (table/2)*0x0400 + offset
	case MirrorSingleLower:
		return offset
	case MirrorSingleUpper:
		return 0x0400 + offset
	default: // four-screen: only 2KiB of VRAM exists, so tables 2/3 alias 0/1
		return addr % 2048
	}
}

// backgroundPipeline holds the shift registers that feed one background
// pixel per dot, per spec.md §4.4's "8-dot cycle ... shifted into 16-bit
// shift registers".
type backgroundPipeline struct {
	patternLowShift  uint16
	patternHighShift uint16
	attribLowShift   uint16
	attribHighShift  uint16

	nextTileID     uint8
	nextAttribute  uint8
	nextPatternLow uint8
	nextPatternHi  uint8
}

// PPU is the 2C02 state machine.
type PPU struct {
	// CPU-visible register shadows.
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002
	oamAddr uint8 // $2003

	// Loopy scroll registers (spec.md §3 PpuState).
	v uint16 // current VRAM address, 15 bits
	t uint16 // temporary VRAM address / scroll latch
	x uint8  // fine X scroll, 3 bits
	w bool   // write toggle for $2005/$2006

	readBuffer uint8 // buffered $2007 read value

	// Timing.
	Scanline int16 // -1 (pre-render) .. 260 (NTSC) / 311 (PAL)
	Dot      uint16
	frameOdd bool
	frames   uint64

	ScanlinesPerFrame int16 // 262 NTSC, 312 PAL

	// VBlank ledger: the dot stamps of the most recent set/clear events
	// this frame, so a $2002 read landing on the exact set dot can
	// suppress the read (the real race window) while later reads in the
	// same VBlank still observe the flag, per spec.md §4.4.
	vblankSetAtDot   int32
	vblankClearAtDot int32
	globalDot        uint64

	sprite0Hit     bool
	spriteOverflow bool

	nmiAsserted bool // level: ctrl.bit7 && status.bit7, sampled by EmulationState

	// Memory.
	nametableRAM [2048]uint8
	paletteRAM   [32]uint8
	oam          [256]uint8
	secondaryOAM [32]uint8
	spriteIndex  [8]uint8 // original OAM index of each secondary-OAM slot

	spriteCount        uint8
	sprite0InSecondary bool

	// Per-sprite shift state for the current scanline's rendering pass.
	spritePatternLow  [8]uint8
	spritePatternHigh [8]uint8
	spriteX           [8]uint8
	spriteAttributes  [8]uint8

	bg backgroundPipeline

	Chr       ChrProvider
	Mirroring Mirroring

	FrameBuffer [256 * 240]uint32

	FrameCompleteCallback func()
}

// New constructs a PPU powered up at the pre-render scanline.
func New() *PPU {
	return &PPU{
		Scanline:          -1,
		ScanlinesPerFrame: 262,
	}
}

// Reset restores power-up register state (spec.md §3).
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.Scanline, p.Dot = -1, 0
	p.frameOdd = false
	p.sprite0Hit, p.spriteOverflow = false, false
	p.nmiAsserted = false
	p.vblankSetAtDot, p.vblankClearAtDot = -1, -1
	p.globalDot = 0
}

func (p *PPU) backgroundEnabled() bool { return p.mask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool    { return p.mask&0x10 != 0 }
func (p *PPU) renderingEnabled() bool  { return p.backgroundEnabled() || p.spritesEnabled() }

// NMILine reports the current level of the PPU's NMI output. EmulationState
// feeds this into cpu.SetNMILine every tick; the CPU itself latches the
// falling/rising edge (spec.md §4.1's "NMI is edge-triggered").
func (p *PPU) NMILine() bool { return p.nmiAsserted }

func (p *PPU) updateNMILine() {
	p.nmiAsserted = p.ctrl&0x80 != 0 && p.status&0x80 != 0
}

// ReadRegister services a CPU read of $2000-$2007.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2: // PPUSTATUS
		status := p.status
		if p.globalDot == uint64(p.vblankSetAtDot) {
			// Reading on the exact dot VBlank is set suppresses the bit
			// this read and also suppresses the NMI that dot would cause.
			status &^= 0x80
		}
		p.status &^= 0x80
		p.w = false
		p.updateNMILine()
		return status
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readPPUData()
	default: // write-only registers return open-bus-ish low status bits
		return p.status & 0x1F
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t & 0xF3FF) | (uint16(value&0x03) << 10)
		p.updateNMILine()
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		p.writeScroll(value)
	case 6: // PPUADDR
		p.writeAddr(value)
	case 7: // PPUDATA
		p.writePPUData(value)
	}
}

// WriteOAMDMAByte is the dma.OAMWriter capability: writes the byte at the
// current OAMADDR and post-increments it, exactly as a $2004 write would.
func (p *PPU) WriteOAMDMAByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t & 0xFFE0) | uint16(value>>3)
		p.x = value & 0x07
	} else {
		p.t = (p.t & 0x8FFF) | (uint16(value&0x07) << 12)
		p.t = (p.t & 0xFC1F) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t & 0x00FF) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) readPPUData() uint8 {
	var data uint8
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		data = p.readPalette(addr)
		p.readBuffer = p.readVRAM(addr & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.readVRAM(addr)
	}
	p.incrementVRAMAddr()
	return data
}

func (p *PPU) writePPUData(value uint8) {
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr, value)
	} else {
		p.writeVRAM(addr, value)
	}
	p.incrementVRAMAddr()
}

func (p *PPU) incrementVRAMAddr() {
	if p.ctrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

// readVRAM/writeVRAM route $0000-$3EFF: pattern tables through the
// cartridge's ChrProvider, nametables through local VRAM with mirroring.
func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Chr != nil {
			return p.Chr.PPURead(addr)
		}
		return 0
	default:
		return p.nametableRAM[nametableIndex(addr, p.Mirroring)]
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Chr != nil {
			p.Chr.PPUWrite(addr, value)
		}
	default:
		p.nametableRAM[nametableIndex(addr, p.Mirroring)] = value
	}
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.paletteRAM[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.paletteRAM[paletteIndex(addr)] = value & 0x3F
}

func paletteIndex(addr uint16) uint16 {
	i := addr & 0x1F
	// $3F10/$3F14/$3F18/$3F1C mirror the backdrop entries at $3F00/04/08/0C.
	if i >= 0x10 && i%4 == 0 {
		i -= 0x10
	}
	return i
}
