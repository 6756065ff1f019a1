// Package joypad emulates the Game Boy's joypad: four direction lines,
// four button lines, and the 2-bit selector that multiplexes them onto
// a single readable byte.
package joypad

import "github.com/thelolagemann/gomeboy/internal/bits"

// Button identifies a physical button.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

// State holds the current state of the joypad: which lines are pressed,
// and the register that selects which bank (directions or buttons) is
// exposed on the low nibble.
type State struct {
	// register is the raw P1/JOYP register (0xFF00). Bits 4 and 5 are
	// the selector; bits 0-3 are read-only from the CPU's perspective.
	register uint8

	// pressed tracks every line the host currently holds down,
	// regardless of which bank is selected.
	pressed Button
}

// New returns a joypad with P1 at 0xCF (both selector bits low, so both
// banks are selected) and nothing pressed, matching the power-on state
// of P1.
func New() *State {
	return &State{register: 0xCF}
}

// Read decodes P1 per the hardware's active-low convention: a selected
// bank's pressed buttons read as 0, everything else reads as 1.
func (s *State) Read() uint8 {
	lowNibble := uint8(0x0F)
	if !bits.Test(s.register, 4) {
		lowNibble &= ^(s.pressed >> 4)
	}
	if !bits.Test(s.register, 5) {
		lowNibble &= ^(s.pressed & 0x0F)
	}
	return s.register&0xF0 | lowNibble
}

// Write updates the selector bits (4 and 5); the low nibble is never
// writable.
func (s *State) Write(value uint8) {
	s.register = s.register&0xCF | value&0x30
}

// selected reports whether the bank key belongs to (buttons or
// directions) is currently exposed by the selector bits.
func (s *State) selected(key Button) bool {
	if key <= ButtonStart {
		return !bits.Test(s.register, 5)
	}
	return !bits.Test(s.register, 4)
}

// Press marks key as held. It returns true if this is a 1->0 transition
// on a line the selector currently exposes, since that is exactly the
// hardware condition that raises the joypad interrupt request.
func (s *State) Press(key Button) bool {
	wasUp := s.pressed&key == 0
	s.pressed |= key
	return wasUp && s.selected(key)
}

// Release marks key as no longer held.
func (s *State) Release(key Button) {
	s.pressed &^= key
}

// Inputs is a batch of button transitions delivered by the host at a
// vblank boundary, per the update(joypad) callback contract.
type Inputs struct {
	Pressed, Released []Button
}

// Apply applies a batch of transitions and reports whether any of them
// should raise the joypad interrupt request.
func (s *State) Apply(in Inputs) bool {
	interrupt := false
	for _, key := range in.Pressed {
		if s.Press(key) {
			interrupt = true
		}
	}
	for _, key := range in.Released {
		s.Release(key)
	}
	return interrupt
}
