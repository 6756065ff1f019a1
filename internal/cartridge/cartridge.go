// Package cartridge parses a Game Boy ROM image's header and wraps it in
// the correct memory bank controller (plain ROM, MBC1, MBC2, or MBC3),
// presenting a single Read/Write contract regardless of variant.
package cartridge

import (
	"fmt"

	"github.com/thelolagemann/gomeboy/pkg/log"
)

// MinLength is the shortest ROM image this package will parse: the
// header alone runs through 0x014F.
const MinLength = 0x150

// Cartridge wraps the selected MBC implementation and the parsed
// header.
type Cartridge struct {
	MBC
	header Header
}

// New parses rom's header and constructs the matching MBC. It returns
// an error for a short ROM or an unsupported cartridge-type byte: both
// are configuration mistakes the caller should be able to report, not
// programmed violations by emulated code.
func New(rom []byte, logger log.Logger) (*Cartridge, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	if len(rom) < MinLength {
		return nil, fmt.Errorf("cartridge: rom image too short: %d bytes (want at least %d)", len(rom), MinLength)
	}

	header := parseHeader(rom)

	var mbc MBC
	switch header.CartridgeType {
	case TypeROM:
		mbc = NewROMOnly(rom, logger)
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		mbc = NewMBC1(rom, header.RAMSize)
	case TypeMBC2, TypeMBC2Battery:
		mbc = NewMBC2(rom)
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		mbc = NewMBC3(rom, header.RAMSize)
	default:
		return nil, fmt.Errorf("cartridge: unsupported cartridge type 0x%02X", uint8(header.CartridgeType))
	}

	return &Cartridge{MBC: mbc, header: header}, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge's title as encoded in its header.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// HasBattery reports whether this cartridge's RAM survives power loss,
// i.e. whether SnapshotRAM/RestoreRAM are worth persisting to a save
// file.
func (c *Cartridge) HasBattery() bool {
	return c.header.CartridgeType.hasBattery()
}
