// Package interrupt implements the DMG interrupt controller: a 5-bit enable
// mask (IE, 0xFFFF), a 5-bit request mask (IF, 0xFF0F) and fixed-priority
// resolution between them.
package interrupt

import "fmt"

// Source is one of the five interrupt sources, ordered by priority.
// The bit position in IE/IF and the vector address both derive from it.
type Source uint8

const (
	VBlank Source = iota
	Stat
	Timer
	Serial
	Joypad

	numSources
)

func (s Source) String() string {
	switch s {
	case VBlank:
		return "vblank"
	case Stat:
		return "stat"
	case Timer:
		return "timer"
	case Serial:
		return "serial"
	case Joypad:
		return "joypad"
	}
	return fmt.Sprintf("source(%d)", uint8(s))
}

// Vector returns the fixed service routine address for the source.
// Handlers sit 8 bytes apart starting at 0x40.
func (s Source) Vector() uint16 {
	return 0x40 + uint16(s)*8
}

// Requester is the capability handed to peripherals. It only allows setting
// request bits; reading or clearing masks stays with the CPU and the bus.
type Requester interface {
	Request(source Source)
}

// Controller owns the enable and request masks. A single instance is shared
// by reference between the CPU, the bus and every requesting peripheral.
type Controller struct {
	enable  uint8
	request uint8
}

func NewController() *Controller {
	return &Controller{}
}

// Request sets the request bit for a source. Safe to call from any
// peripheral at any cycle.
func (c *Controller) Request(source Source) {
	if source >= numSources {
		panic(fmt.Sprintf("interrupt: invalid source %d", source))
	}
	c.request |= 1 << source
}

// Acknowledge clears the request bit for a source. Only the servicing
// routine in the CPU calls this.
func (c *Controller) Acknowledge(source Source) {
	c.request &^= 1 << source
}

// Pending returns the highest-priority source that is both enabled and
// requested. Priority is fixed by vector order: VBlank > Stat > Timer >
// Serial > Joypad.
func (c *Controller) Pending() (Source, bool) {
	masked := c.enable & c.request & 0x1F
	if masked == 0 {
		return 0, false
	}
	for s := VBlank; s < numSources; s++ {
		if masked&(1<<s) != 0 {
			return s, true
		}
	}
	return 0, false
}

// HasPending reports whether any source is enabled and requested, without
// resolving priority. This is the HALT wake condition and is independent of
// the master enable flag.
func (c *Controller) HasPending() bool {
	return c.enable&c.request&0x1F != 0
}

// ReadEnable returns the IE register image.
func (c *Controller) ReadEnable() uint8 {
	return c.enable
}

// WriteEnable stores the IE register. All 8 bits are writable on hardware
// even though only the low 5 are meaningful.
func (c *Controller) WriteEnable(value uint8) {
	c.enable = value
}

// ReadRequest returns the IF register image. The upper 3 bits are unwired on
// hardware and always read as 1.
func (c *Controller) ReadRequest() uint8 {
	return c.request | 0xE0
}

// WriteRequest stores the IF register. The CPU may set or clear request bits
// directly through the bus.
func (c *Controller) WriteRequest(value uint8) {
	c.request = value & 0x1F
}
