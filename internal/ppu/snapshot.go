package ppu

// State is PPU's gob-encodable snapshot mirror: VRAM, palette RAM, primary
// OAM, register shadows, scroll latches, read buffer, scanline/dot/parity,
// and the VBlank ledger. Secondary OAM and the per-scanline sprite slots
// are not captured. CHR-provider handle and mirroring mode live outside
// this struct — they're wired by internal/emulation at load time, not
// captured per-snapshot.
type State struct {
	Ctrl, Mask, Status, OamAddr uint8
	V, T                        uint16
	X                           uint8
	W                           bool
	ReadBuffer                  uint8

	Scanline          int16
	Dot               uint16
	FrameOdd          bool
	Frames            uint64
	ScanlinesPerFrame int16

	VblankSetAtDot   int32
	VblankClearAtDot int32
	GlobalDot        uint64

	Sprite0Hit     bool
	SpriteOverflow bool
	NMIAsserted    bool

	NametableRAM [2048]uint8
	PaletteRAM   [32]uint8
	OAM          [256]uint8
}

// Snapshot captures the fields listed on State. The background shift
// registers, secondary OAM and sprite slots are not part of the snapshot;
// the fetch and sprite-evaluation cycles that follow a Restore refill them.
func (p *PPU) Snapshot() State {
	return State{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status, OamAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w, ReadBuffer: p.readBuffer,
		Scanline: p.Scanline, Dot: p.Dot, FrameOdd: p.frameOdd, Frames: p.frames,
		ScanlinesPerFrame: p.ScanlinesPerFrame,
		VblankSetAtDot:    p.vblankSetAtDot, VblankClearAtDot: p.vblankClearAtDot, GlobalDot: p.globalDot,
		Sprite0Hit: p.sprite0Hit, SpriteOverflow: p.spriteOverflow, NMIAsserted: p.nmiAsserted,
		NametableRAM: p.nametableRAM, PaletteRAM: p.paletteRAM, OAM: p.oam,
	}
}

// Restore reinstates a previously captured snapshot. The background
// pipeline is zeroed and refills as Step() resumes; secondary OAM and the
// sprite slots keep their previous contents until the next sprite
// evaluation (dot 65) and fetch (dot 257).
func (p *PPU) Restore(s State) {
	p.ctrl, p.mask, p.status, p.oamAddr = s.Ctrl, s.Mask, s.Status, s.OamAddr
	p.v, p.t, p.x, p.w, p.readBuffer = s.V, s.T, s.X, s.W, s.ReadBuffer
	p.Scanline, p.Dot, p.frameOdd, p.frames = s.Scanline, s.Dot, s.FrameOdd, s.Frames
	p.ScanlinesPerFrame = s.ScanlinesPerFrame
	p.vblankSetAtDot, p.vblankClearAtDot, p.globalDot = s.VblankSetAtDot, s.VblankClearAtDot, s.GlobalDot
	p.sprite0Hit, p.spriteOverflow, p.nmiAsserted = s.Sprite0Hit, s.SpriteOverflow, s.NMIAsserted
	p.nametableRAM, p.paletteRAM, p.oam = s.NametableRAM, s.PaletteRAM, s.OAM
	p.bg = backgroundPipeline{}
}
