// Package loader parses iNES ROM images into a cartridge.Mapper, per
// spec.md §6/§7.
package loader

import (
	"errors"
	"fmt"

	"github.com/ramjac-digital/rambo/internal/cartridge"
)

// Error is a LoaderError per spec.md §7: fatal at startup, reported to the
// user, process exits non-zero.
type Error struct {
	Kind    ErrorKind
	Detail  string
	wrapped error
}

// ErrorKind enumerates the LoaderError variants named in spec.md §7.
type ErrorKind int

const (
	InvalidInesMagic ErrorKind = iota
	TruncatedRom
	UnsupportedInesVersion
)

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.wrapped }

func (k ErrorKind) String() string {
	switch k {
	case InvalidInesMagic:
		return "invalid iNES magic"
	case TruncatedRom:
		return "truncated ROM"
	case UnsupportedInesVersion:
		return "unsupported iNES version"
	default:
		return "unknown loader error"
	}
}

const (
	headerSize   = 16
	trainerSize  = 512
	prgBankSize  = 16384
	chrBankSize  = 8192
)

var magic = [4]byte{'N', 'E', 'S', 0x1A}

// LoadedROM bundles the parsed header and the constructed mapper.
type LoadedROM struct {
	Header cartridge.INESHeader
	Mapper cartridge.Mapper
	PRG    []byte
	CHR    []byte
}

// Load parses raw iNES bytes and constructs the mapper the header names.
// Errors are either *Error (loader-level) or *cartridge.UnsupportedMapperError.
func Load(data []byte) (*LoadedROM, error) {
	if len(data) < headerSize {
		return nil, &Error{Kind: TruncatedRom, Detail: "file shorter than 16-byte header"}
	}
	if data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return nil, &Error{Kind: InvalidInesMagic, Detail: "missing 'NES\\x1A' signature"}
	}

	flags6 := data[6]
	flags7 := data[7]

	// iNES 2.0 is signalled by bits 2-3 of flags7 == 0b10; we don't parse
	// the extended fields, but we don't misinterpret them as mapper bits
	// either.
	if flags7&0x0C == 0x08 {
		return nil, &Error{Kind: UnsupportedInesVersion, Detail: "iNES 2.0 header not supported"}
	}

	header := cartridge.INESHeader{
		PRGBanks16K: data[4],
		CHRBanks8K:  data[5],
		Mapper:      (flags7 & 0xF0) | (flags6 >> 4),
		Battery:     flags6&0x02 != 0,
		FourScreen:  flags6&0x08 != 0,
	}
	if flags6&0x01 != 0 {
		header.Mirroring = cartridge.MirrorVertical
	} else {
		header.Mirroring = cartridge.MirrorHorizontal
	}

	offset := headerSize
	if flags6&0x04 != 0 {
		offset += trainerSize // trainer present, skipped per spec.md §6
	}

	prgSize := int(header.PRGBanks16K) * prgBankSize
	chrSize := int(header.CHRBanks8K) * chrBankSize

	if len(data) < offset+prgSize {
		return nil, &Error{Kind: TruncatedRom, Detail: "file shorter than declared PRG ROM size"}
	}
	prg := data[offset : offset+prgSize]
	offset += prgSize

	var chr []byte
	if chrSize > 0 {
		if len(data) < offset+chrSize {
			return nil, &Error{Kind: TruncatedRom, Detail: "file shorter than declared CHR ROM size"}
		}
		chr = data[offset : offset+chrSize]
	}

	mapper, err := cartridge.New(header, prg, chr)
	if err != nil {
		var unsupported *cartridge.UnsupportedMapperError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("constructing mapper: %w", err)
	}

	return &LoadedROM{Header: header, Mapper: mapper, PRG: prg, CHR: chr}, nil
}
