// Package cartridge holds cartridge data and dispatches CPU/PPU bus
// accesses to the mapper variant named by the iNES header, per spec.md §4.2.
package cartridge

import "fmt"

// Mapper is the capability set every mapper variant implements. There is no
// vtable: Cartridge holds a single concrete *Mapper0/*Mapper1/... and the
// interface call is resolved once per cartridge load, not per access —
// Go's interface dispatch here plays the role spec.md §9 describes as
// "a tagged sum wraps the concrete variant".
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, value uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	Mirroring() Mirroring
	IRQLine() bool
	TickIRQCounter()

	// Snapshot and Restore round-trip the mapper's banking registers and
	// PRG/CHR RAM through an opaque gob-encoded blob, for
	// internal/snapshot's "mapper-blob" section (spec.md §6b). The blob is
	// opaque outside this package; each concrete mapper encodes its own
	// exported mirror struct.
	Snapshot() ([]byte, error)
	Restore(blob []byte) error
}

// UnsupportedMapperError reports an iNES mapper number this build does not
// implement. It is a LoaderError at ROM-load time and a SnapshotError if it
// surfaces while restoring a save state for an unrecognized mapper ID.
type UnsupportedMapperError struct {
	MapperNumber uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper number %d", e.MapperNumber)
}

// INESHeader is the parsed 16-byte iNES header (spec.md §6).
type INESHeader struct {
	PRGBanks16K uint8
	CHRBanks8K  uint8
	Mapper      uint8
	Mirroring   Mirroring
	Battery     bool
	FourScreen  bool
}

// New selects and constructs the mapper variant named by header.Mapper.
// PRG and CHR are the raw bank bytes already stripped of the 16-byte header
// and any trainer (loader's job, not the cartridge's).
func New(header INESHeader, prg, chr []byte) (Mapper, error) {
	mirroring := header.Mirroring
	if header.FourScreen {
		mirroring = MirrorFourScreen
	}

	switch header.Mapper {
	case 0:
		return newMapper0(header, prg, chr, mirroring), nil
	case 1:
		return newMapper1(prg, chr, mirroring), nil
	case 2:
		return newMapper2(prg, chr, mirroring), nil
	case 3:
		return newMapper3(header, prg, chr, mirroring), nil
	case 4:
		return newMapper4(prg, chr, mirroring), nil
	case 7:
		return newMapper7(prg, chr), nil
	default:
		return nil, &UnsupportedMapperError{MapperNumber: header.Mapper}
	}
}

// chrSpace backs a mapper's $0000-$1FFF PPU-space pattern memory: either
// read-only CHR ROM (iNES CHR size > 0) or writable CHR RAM (size == 0).
// The distinction is by header field, not by pointer mutability, per
// spec.md §4.2.
type chrSpace struct {
	data  []byte
	isRAM bool
}

func newCHRSpace(chr []byte) chrSpace {
	if len(chr) == 0 {
		return chrSpace{data: make([]byte, 8192), isRAM: true}
	}
	return chrSpace{data: chr, isRAM: false}
}

func (c *chrSpace) read(addr uint16) uint8 {
	return c.data[int(addr)%len(c.data)]
}

// ramBytes returns the backing slice and true when this chrSpace is CHR
// RAM (and therefore needs to be captured by Snapshot); ROM is immutable
// and is re-supplied from the cartridge file on Restore.
func (c *chrSpace) ramBytes() ([]byte, bool) {
	return c.data, c.isRAM
}

func (c *chrSpace) write(addr uint16, value uint8) {
	if c.isRAM {
		c.data[int(addr)%len(c.data)] = value
	}
}
