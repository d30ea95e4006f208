package memory

import (
	"github.com/echoram/dotmatrix/dotmatrix/bit"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// Key is one of the eight joypad inputs.
type Key uint8

const (
	KeyRight Key = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// Joypad models the P1 register: bits 4-5 select which button group the
// low nibble reflects, with 0 meaning pressed. A high-to-low transition
// on any selected line raises the joypad interrupt.
type Joypad struct {
	buttons uint8 // A, B, Select, Start in bits 0-3
	dpad    uint8 // Right, Left, Up, Down in bits 0-3
	selects uint8 // writable bits 4-5 of P1

	irq interrupt.Requester
}

func NewJoypad(irq interrupt.Requester) *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F, selects: 0x30, irq: irq}
}

// Read assembles P1 from the selection bits and the live button state.
// Bits 6-7 are unwired and read as 1.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selects

	selectDpad := !bit.IsSet(4, j.selects)
	selectButtons := !bit.IsSet(5, j.selects)
	switch {
	case selectDpad && selectButtons:
		result |= j.dpad & j.buttons & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	default:
		result |= 0x0F
	}
	return result
}

// Write updates the selection bits; the low nibble is input-only.
func (j *Joypad) Write(value uint8) {
	j.selects = value & 0x30
}

func (j *Joypad) Press(key Key) {
	before := j.Read()
	if key < KeyA {
		j.dpad = bit.Clear(uint8(key), j.dpad)
	} else {
		j.buttons = bit.Clear(uint8(key-KeyA), j.buttons)
	}
	// interrupt on a selected line going low
	if before&0x0F&^(j.Read()&0x0F) != 0 {
		j.irq.Request(interrupt.Joypad)
	}
}

func (j *Joypad) Release(key Key) {
	if key < KeyA {
		j.dpad = bit.Set(uint8(key), j.dpad)
	} else {
		j.buttons = bit.Set(uint8(key-KeyA), j.buttons)
	}
}
