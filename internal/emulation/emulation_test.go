package emulation

import (
	"testing"

	"github.com/ramjac-digital/rambo/internal/loader"
)

// buildNROM assembles a minimal 1x16KiB PRG / 1x8KiB CHR mapper-0 iNES
// image with the given reset-vector program, for driving a full State end
// to end without a real game ROM.
func buildNROM(t *testing.T, program ...uint8) *loader.LoadedROM {
	t.Helper()

	data := make([]byte, 16+16384+8192)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1 // 1x16KiB PRG
	data[5] = 1 // 1x8KiB CHR

	prg := data[16 : 16+16384]
	copy(prg, program)
	// Reset vector -> $8000 (start of PRG bank).
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	rom, err := loader.Load(data)
	if err != nil {
		t.Fatalf("loader.Load: %v", err)
	}
	return rom
}

func TestPowerOnStartsCPUAtResetVector(t *testing.T) {
	rom := buildNROM(t, 0xEA) // NOP
	s := New(rom)
	s.PowerOn()
	if s.CPU.PC != 0x8000 {
		t.Fatalf("expected PC=$8000 after PowerOn, got %#x", s.CPU.PC)
	}
}

func TestEmulateFrameReachesVBlankBoundary(t *testing.T) {
	rom := buildNROM(t, 0xEA) // NOP, infinite no-op stream (zero-filled beyond is BRK/0)
	s := New(rom)
	s.PowerOn()

	s.EmulateFrame()

	if s.PPU.Scanline != 241 || s.PPU.Dot != 1 {
		t.Fatalf("expected to land exactly on scanline 241 dot 1, got scanline=%d dot=%d", s.PPU.Scanline, s.PPU.Dot)
	}
}

func TestFrameCompleteCallbackFiresOncePerFrame(t *testing.T) {
	rom := buildNROM(t, 0xEA)
	s := New(rom)
	s.PowerOn()

	count := 0
	s.FrameComplete = func() { count++ }

	s.EmulateFrame()
	s.EmulateFrame()

	if count != 2 {
		t.Fatalf("expected FrameComplete to fire exactly twice for two frames, got %d", count)
	}
}

func TestNMIFiresWhenEnabledDuringVBlank(t *testing.T) {
	// LDA #$80; STA $2000 (enable NMI generation), then NOP forever.
	rom := buildNROM(t, 0xA9, 0x80, 0x8D, 0x00, 0x20, 0xEA)
	s := New(rom)
	s.PowerOn()

	s.EmulateFrame()

	if !s.PPU.NMILine() {
		t.Fatalf("expected PPU NMI line asserted at frame boundary with NMI enabled")
	}
}

func TestOamDmaTransfersPageIntoOAM(t *testing.T) {
	rom := buildNROM(t,
		0xA9, 0x00, // LDA #$00
		0x8D, 0x03, 0x20, // STA $2003 (OAMADDR = 0)
		0xA9, 0x07, // LDA #$07 (source page = $0700)
		0x8D, 0x14, 0x40, // STA $4014 (trigger OAM DMA)
		0xEA,
	)
	s := New(rom)
	s.PowerOn()
	s.Bus.RAM[0x0700&0x07FF] = 0x55 // first byte of the source page

	// Run the CPU far enough to execute the 11-byte program and drain the
	// ~513-514 cycle DMA transfer; generous margin in PPU dots (3 dots per
	// CPU cycle).
	for i := 0; i < 20000; i++ {
		s.Tick()
	}

	s.PPU.WriteRegister(0x2003, 0x00) // OAMADDR = 0
	if got := s.PPU.ReadRegister(0x2004); got != 0x55 {
		t.Fatalf("expected OAM[0]=0x55 after DMA from $0700, got %#x", got)
	}
}
