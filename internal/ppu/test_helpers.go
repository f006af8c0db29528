package ppu

// fakeChr backs pattern-table access in tests with plain RAM.
type fakeChr struct {
	data [0x2000]byte
}

func (f *fakeChr) PPURead(addr uint16) uint8       { return f.data[addr&0x1FFF] }
func (f *fakeChr) PPUWrite(addr uint16, value uint8) { f.data[addr&0x1FFF] = value }
