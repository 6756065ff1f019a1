package cartridge

import "time"

// rtcRegisterCount is the number of real-time-clock registers: seconds,
// minutes, hours, day-counter low byte, day-counter high byte (which
// also carries the halt and day-overflow flags).
const rtcRegisterCount = 5

const (
	rtcSeconds = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh
)

// MBC3 adds a 7-bit ROM bank register (banks 1-127), four RAM banks,
// and a five-register real-time clock addressed through the RAM-bank
// register once it holds 0x08-0x0C. The RTC is latched by a 0->1 write
// sequence to 0x6000-0x7FFF: reads while latched see a frozen copy rather
// than the live, still-ticking registers. A write to an RTC register
// ends the latch.
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8
	ramBank    uint8 // 0-3 selects RAM; 0x08-0x0C selects an RTC register

	rtc        [rtcRegisterCount]uint8
	latched    [rtcRegisterCount]uint8
	isLatched  bool
	lastLatch  uint8
	clockStart time.Time
}

// NewMBC3 wraps rom and allocates ramSize bytes of external RAM. The RTC
// clock starts running from construction time; nothing needs to tick it,
// since the running registers are derived lazily from wall time on every
// RAM-window read, which is sufficient since RTC drift is not part of
// what a save state needs to reproduce.
func NewMBC3(rom []byte, ramSize int) *MBC3 {
	return &MBC3{rom: rom, ram: make([]byte, ramSize), romBank: 1, clockStart: time.Now()}
}

func (m *MBC3) liveRegisters() [rtcRegisterCount]uint8 {
	elapsed := time.Since(m.clockStart)
	secs := int64(elapsed.Seconds())
	days := secs / 86400
	var out [rtcRegisterCount]uint8
	out[rtcSeconds] = uint8(secs % 60)
	out[rtcMinutes] = uint8((secs / 60) % 60)
	out[rtcHours] = uint8((secs / 3600) % 24)
	out[rtcDayLow] = uint8(days & 0xFF)
	dayHigh := uint8((days >> 8) & 0x01)
	if days > 0x1FF {
		dayHigh |= 0x80 // day-counter overflow/carry bit
	}
	out[rtcDayHigh] = dayHigh
	return out
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom[addr]
	case addr < 0x8000:
		off := int(m.romBank)*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	default: // 0xA000-0xBFFF
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			reg := m.ramBank - 0x08
			if m.isLatched {
				return m.latched[reg]
			}
			return m.liveRegisters()[reg]
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.ramBank = value
	case addr < 0x8000:
		// a 0->1 transition latches the live RTC registers into the
		// frozen copy; any other transition is a no-op.
		if m.lastLatch == 0 && value == 1 {
			m.rtc = m.liveRegisters()
			m.latched = m.rtc
			m.isLatched = true
		}
		m.lastLatch = value
	default: // 0xA000-0xBFFF
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			m.isLatched = false
			return
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) SnapshotRAM() []byte {
	out := make([]byte, len(m.ram)+rtcRegisterCount)
	copy(out, m.ram)
	copy(out[len(m.ram):], m.rtc[:])
	return out
}

func (m *MBC3) RestoreRAM(data []byte) {
	if len(data) < len(m.ram) {
		copy(m.ram, data)
		return
	}
	copy(m.ram, data[:len(m.ram)])
	copy(m.rtc[:], data[len(m.ram):])
}
