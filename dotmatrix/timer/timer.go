// Package timer implements the DMG timer subsystem: the free-running divider
// (DIV) and the configurable counter (TIMA/TMA/TAC).
package timer

import (
	"fmt"

	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/bit"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// tapBit maps the TAC rate select (bits 1-0) to the divider bit used as the
// counter's clock. TIMA increments on falling edges of the selected bit, so
// the four rates come out to 256, 4, 16 and 64 machine cycles per increment.
//
//	00 -> bit 9 (1024 T-cycles)
//	01 -> bit 3 (16 T-cycles)
//	10 -> bit 5 (64 T-cycles)
//	11 -> bit 7 (256 T-cycles)
var tapBit = [4]uint8{9, 3, 5, 7}

// Timer advances in lock-step with the CPU. The divider always counts; TIMA
// counts only while TAC bit 2 is set. A TIMA overflow spends 4 cycles in an
// overflow state before reloading from TMA and requesting the Timer
// interrupt, matching hardware's delayed reload.
type Timer struct {
	divider    uint16 // internal 16-bit counter, DIV is the upper byte
	lastTap    bool   // previous state of the selected divider bit
	overflowIn int    // cycles left until the pending reload happens
	irqDelayed bool   // interrupt fires one cycle after the reload

	tima uint8
	tma  uint8
	tac  uint8

	irq interrupt.Requester
}

// New returns a timer that raises Timer interrupt requests through irq.
func New(irq interrupt.Requester) *Timer {
	return &Timer{irq: irq}
}

// Advance moves the timer forward by the given number of clock cycles.
// Results are identical no matter how a cycle total is chunked across calls.
func (t *Timer) Advance(cycles int) {
	if cycles < 0 {
		panic(fmt.Sprintf("timer: negative cycle count %d", cycles))
	}
	for i := 0; i < cycles; i++ {
		if t.irqDelayed {
			t.irqDelayed = false
			t.irq.Request(interrupt.Timer)
		}

		t.divider++

		if t.overflowIn > 0 {
			t.overflowIn--
			if t.overflowIn == 0 {
				t.tima = t.tma
				t.irqDelayed = true
			}
			continue
		}

		if !bit.IsSet(2, t.tac) {
			t.lastTap = false
			continue
		}

		tap := bit.IsSet16(tapBit[t.tac&0x03], t.divider)
		if t.lastTap && !tap {
			t.incrementCounter()
		}
		t.lastTap = tap
	}
}

func (t *Timer) incrementCounter() {
	if t.tima == 0xFF {
		t.overflowIn = 4
	}
	t.tima++
}

// Read returns the register image for one of DIV/TIMA/TMA/TAC.
func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return uint8(t.divider >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

// Write stores to one of DIV/TIMA/TMA/TAC. Writing DIV resets the whole
// internal divider, which also perturbs the TIMA clock taps.
func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		t.divider = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}

// Divider exposes the internal counter for introspection.
func (t *Timer) Divider() uint16 {
	return t.divider
}
