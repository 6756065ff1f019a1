package cartridge

import "github.com/thelolagemann/gomeboy/pkg/log"

// ROMOnly is a cartridge with no bank switching: a fixed 32 KiB ROM
// image and no external RAM. Writes into the ROM window are control
// writes for every other variant, but since there is no bank to switch
// they are simply dropped, with a rate-limited warning.
type ROMOnly struct {
	rom []byte
	log log.Logger
}

// NewROMOnly wraps rom, unpadded and untruncated, as a non-banked
// cartridge; reads past the end of the image return 0xFF.
func NewROMOnly(rom []byte, logger log.Logger) *ROMOnly {
	return &ROMOnly{rom: rom, log: logger}
}

func (r *ROMOnly) Read(addr uint16) uint8 {
	if int(addr) < len(r.rom) {
		return r.rom[addr]
	}
	return 0xFF
}

func (r *ROMOnly) Write(addr uint16, value uint8) {
	r.log.Warnf("cartridge", "rom-only", "write to ROM-only cartridge at 0x%04X ignored", addr)
}

func (r *ROMOnly) SnapshotRAM() []byte { return nil }
func (r *ROMOnly) RestoreRAM([]byte)   {}
