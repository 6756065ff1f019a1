package cartridge

// MBC is the contract every cartridge variant implements: reads and
// writes across both the ROM and external-RAM address windows, plus
// battery-RAM extraction for save files.
type MBC interface {
	// Read returns the byte visible at addr, which is in
	// [0x0000,0x7FFF] (ROM) or [0xA000,0xBFFF] (external RAM).
	Read(addr uint16) uint8
	// Write handles a write to addr. In the ROM window this is always
	// a control-register write (bank switch, RAM enable, mode select),
	// never a data write; in the RAM window it is a data write, honored
	// only while RAM is enabled.
	Write(addr uint16, value uint8)
	// SnapshotRAM returns a copy of the cartridge's external RAM (and
	// RTC state, where applicable), for battery-backed saves.
	SnapshotRAM() []byte
	// RestoreRAM replaces the cartridge's external RAM (and RTC state)
	// from a snapshot previously returned by SnapshotRAM.
	RestoreRAM([]byte)
}
