package cartridge

import "fmt"

// Type identifies the memory bank controller (and attached hardware)
// declared at ROM offset 0x0147.
type Type uint8

const (
	TypeROM              Type = 0x00
	TypeMBC1             Type = 0x01
	TypeMBC1RAM          Type = 0x02
	TypeMBC1RAMBattery   Type = 0x03
	TypeMBC2             Type = 0x05
	TypeMBC2Battery      Type = 0x06
	TypeMBC3TimerBattery Type = 0x0F
	TypeMBC3TimerRAMBatt Type = 0x10
	TypeMBC3             Type = 0x11
	TypeMBC3RAM          Type = 0x12
	TypeMBC3RAMBattery   Type = 0x13
)

// romSizeCodes maps ROM offset 0x0148 to a ROM size in bytes; every
// defined code is a power-of-two multiple of 32 KiB.
var romSizeCodes = map[uint8]int{
	0x00: 32 * 1024, 0x01: 64 * 1024, 0x02: 128 * 1024, 0x03: 256 * 1024,
	0x04: 512 * 1024, 0x05: 1024 * 1024, 0x06: 2048 * 1024, 0x07: 4096 * 1024, 0x08: 8192 * 1024,
}

// ramSizeCodes maps ROM offset 0x0149 to an external RAM size in bytes.
var ramSizeCodes = map[uint8]int{
	0x00: 0, 0x01: 2 * 1024, 0x02: 8 * 1024, 0x03: 32 * 1024, 0x04: 128 * 1024, 0x05: 64 * 1024,
}

// Header is the parsed cartridge header at ROM offsets 0x0100-0x014F.
// None of its fields beyond CartridgeType are load-bearing for emulation
// correctness; they are retained for diagnostics.
type Header struct {
	Title         string
	CartridgeType Type
	ROMSize       int
	RAMSize       int
}

// parseHeader reads the header out of a full ROM image. rom must be at
// least 0x150 bytes, the length of the header region.
func parseHeader(rom []byte) Header {
	title := make([]byte, 0, 16)
	for i := 0x134; i <= 0x143; i++ {
		if rom[i] == 0 {
			break
		}
		title = append(title, rom[i])
	}

	typeByte := rom[0x147]
	return Header{
		Title:         string(title),
		CartridgeType: Type(typeByte),
		ROMSize:       romSizeCodes[rom[0x148]],
		RAMSize:       ramSizeCodes[rom[0x149]],
	}
}

func (t Type) String() string {
	switch t {
	case TypeROM:
		return "ROM"
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return "MBC1"
	case TypeMBC2, TypeMBC2Battery:
		return "MBC2"
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		return "MBC3"
	}
	return fmt.Sprintf("unknown(0x%02X)", uint8(t))
}

// hasBattery reports whether the cartridge type retains RAM across
// power cycles, i.e. whether it has a save file worth persisting.
func (t Type) hasBattery() bool {
	switch t {
	case TypeMBC1RAMBattery, TypeMBC2Battery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt, TypeMBC3RAMBattery:
		return true
	}
	return false
}
