package ppu

import "testing"

func stepN(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Step()
	}
}

func dotsUntil(scanline int16, dot uint16) int {
	// Dots from (scanline=-1, dot=0) until the given (scanline, dot).
	return int(scanline+1)*341 + int(dot)
}

func TestVBlankSetsAtScanline241Dot1(t *testing.T) {
	p := New()
	p.Reset()
	stepN(p, dotsUntil(241, 1))
	if p.status&0x80 == 0 {
		t.Fatalf("expected VBlank flag set at scanline 241 dot 1")
	}
}

func TestVBlankClearsAtPreRenderDot1(t *testing.T) {
	p := New()
	p.Reset()
	stepN(p, dotsUntil(241, 1))
	stepN(p, dotsUntil(262-1, 1)-dotsUntil(241, 1)) // advance to next pre-render dot 1
	if p.status&0x80 != 0 {
		t.Fatalf("expected VBlank flag clear at pre-render dot 1, got status=%#x scanline=%d dot=%d", p.status, p.Scanline, p.Dot)
	}
}

func TestNMIAssertsWhenCtrlEnabledDuringVBlank(t *testing.T) {
	p := New()
	p.Reset()
	p.WriteRegister(0x2000, 0x80) // enable NMI
	stepN(p, dotsUntil(241, 1))
	if !p.NMILine() {
		t.Fatalf("expected NMI line asserted at VBlank start with NMI enabled")
	}
}

func TestStatusReadClearsVBlankAndWriteToggle(t *testing.T) {
	p := New()
	p.Reset()
	stepN(p, dotsUntil(241, 1)+2)
	p.w = true
	status := p.ReadRegister(0x2002)
	if status&0x80 == 0 {
		t.Fatalf("expected VBlank bit set on read")
	}
	if p.status&0x80 != 0 {
		t.Fatalf("expected VBlank flag cleared by the read")
	}
	if p.w {
		t.Fatalf("expected write toggle cleared by $2002 read")
	}
}

func TestScrollAndAddrWriteToggleSequencing(t *testing.T) {
	p := New()
	p.Reset()
	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x08)
	if p.v != 0x2108 {
		t.Fatalf("expected v=$2108 after two PPUADDR writes, got %#x", p.v)
	}

	p.WriteRegister(0x2005, 0x7D) // X scroll
	p.WriteRegister(0x2005, 0x5E) // Y scroll
	if p.x != (0x7D & 0x07) {
		t.Fatalf("expected fine X = %#x, got %#x", 0x7D&0x07, p.x)
	}
}

func TestOAMDMAWriteAdvancesOamAddr(t *testing.T) {
	p := New()
	p.Reset()
	p.WriteRegister(0x2003, 0x10) // OAMADDR
	p.WriteOAMDMAByte(0x42)
	if p.oam[0x10] != 0x42 {
		t.Fatalf("expected OAM[0x10]=0x42, got %#x", p.oam[0x10])
	}
	if p.oamAddr != 0x11 {
		t.Fatalf("expected OAMADDR to post-increment to 0x11, got %#x", p.oamAddr)
	}
}

func TestPaletteMirroringAtBackdropIndices(t *testing.T) {
	p := New()
	p.Reset()
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x10)
	p.WriteRegister(0x2007, 0x0A)
	if p.paletteRAM[0x00] != 0x0A {
		t.Fatalf("expected $3F10 write to mirror to $3F00, got %#x", p.paletteRAM[0x00])
	}
}

func TestSpriteEvaluationFindsUpToEightSprites(t *testing.T) {
	p := New()
	p.Reset()
	p.mask = 0x18 // background + sprites enabled
	for i := 0; i < 10; i++ {
		p.oam[i*4] = 50 // Y, visible on scanline 51..58
	}
	p.Scanline = 51
	p.evaluateSprites()
	if p.spriteCount != 8 {
		t.Fatalf("expected 8 sprites evaluated (hardware cap), got %d", p.spriteCount)
	}
	if !p.spriteOverflow {
		t.Fatalf("expected sprite overflow flag set with 10 sprites in range")
	}
}
