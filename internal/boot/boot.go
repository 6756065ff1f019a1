// Package boot provides the Game Boy boot ROM: the 256-byte image
// mapped over cartridge ROM bank 0 at power-on, which is responsible for
// scrolling the logo, verifying the cartridge checksum, and leaving the
// CPU and memory in the well-known state commercial games expect at
// 0x0100.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Size is the length of a DMG/MGB/SGB boot ROM. CGB boot ROMs (2304
// bytes) are not supported.
const Size = 256

// ROM is an immutable boot image.
type ROM struct {
	raw      [Size]byte
	checksum string
}

// Load validates and wraps a boot ROM image. It returns an error rather
// than panicking since a bad boot-image path is a configuration mistake
// the caller should be able to report, not a programmed violation by
// emulated code.
func Load(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("boot: invalid boot rom length: %d (want %d)", len(b), Size)
	}
	r := &ROM{}
	copy(r.raw[:], b)
	sum := md5.Sum(b)
	r.checksum = hex.EncodeToString(sum[:])
	return r, nil
}

// Read returns the byte at addr, which must be within [0, Size).
func (r *ROM) Read(addr uint16) uint8 {
	return r.raw[addr]
}

// Checksum returns the MD5 checksum of the boot image, used only for
// diagnostics (e.g. identifying which known boot ROM was supplied).
func (r *ROM) Checksum() string {
	if r == nil {
		return ""
	}
	return r.checksum
}

// knownChecksums maps the MD5 of well-known DMG/MGB/SGB boot ROMs to a
// human-readable model name, for diagnostic logging only.
var knownChecksums = map[string]string{
	"32fbbd84168d3482956eb3c5051637f5": "Game Boy (DMG-01)",
	"59c8598e1db7316f9cf4c4a5c2fd15d9": "Game Boy (DMG-0)",
	"e6dd7bf025f5a4dad67af4923ff20b22": "Game Boy Pocket (MGB)",
	"4ed31ec6b0b175bb109c0eb5fd3d193b": "Super Game Boy (SGB)",
}

// Model returns the known model name for this boot ROM's checksum, or
// "unknown" if it isn't recognized.
func (r *ROM) Model() string {
	if r == nil {
		return "none"
	}
	if model, ok := knownChecksums[r.checksum]; ok {
		return model
	}
	return "unknown"
}
