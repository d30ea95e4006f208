package cpu

import "github.com/echoram/dotmatrix/dotmatrix/bit"

// Flag is one of the four significant bits of the F register.
type Flag uint8

const (
	flagZ Flag = 0x80 // zero
	flagN Flag = 0x40 // subtract
	flagH Flag = 0x20 // half carry
	flagC Flag = 0x10 // carry
)

func (c *CPU) setFlag(f Flag) {
	c.f |= uint8(f)
}

func (c *CPU) clearFlag(f Flag) {
	c.f &^= uint8(f)
}

func (c *CPU) flagSet(f Flag) bool {
	return c.f&uint8(f) != 0
}

func (c *CPU) setFlagIf(f Flag, cond bool) {
	if cond {
		c.setFlag(f)
	} else {
		c.clearFlag(f)
	}
}

// carryBit returns the carry flag as 0 or 1, for rotate-through-carry ops.
func (c *CPU) carryBit() uint8 {
	if c.flagSet(flagC) {
		return 1
	}
	return 0
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }
func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	// the low nibble of F does not exist in hardware
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }

// getR reads the 8-bit operand encoded by the standard ordering
// B, C, D, E, H, L, (HL), A used by both opcode tables. Index 6 goes
// through memory at HL.
func (c *CPU) getR(i uint8) uint8 {
	switch i & 7 {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

// setR writes the 8-bit operand encoded like getR.
func (c *CPU) setR(i uint8, v uint8) {
	switch i & 7 {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.bus.Write(c.getHL(), v)
	default:
		c.a = v
	}
}

// regName maps operand indices to their mnemonic spelling.
var regName = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// Introspection getters, enough for an external debugger to be built on.

func (c *CPU) A() uint8       { return c.a }
func (c *CPU) F() uint8       { return c.f }
func (c *CPU) BC() uint16     { return c.getBC() }
func (c *CPU) DE() uint16     { return c.getDE() }
func (c *CPU) HL() uint16     { return c.getHL() }
func (c *CPU) SP() uint16     { return c.sp }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) IME() bool      { return c.ime }
func (c *CPU) Halted() bool   { return c.halted }
func (c *CPU) Cycles() uint64 { return c.cycles }

// FlagString renders the F register the way debugger views usually do.
func (c *CPU) FlagString() string {
	s := []byte{'-', '-', '-', '-'}
	if c.flagSet(flagZ) {
		s[0] = 'Z'
	}
	if c.flagSet(flagN) {
		s[1] = 'N'
	}
	if c.flagSet(flagH) {
		s[2] = 'H'
	}
	if c.flagSet(flagC) {
		s[3] = 'C'
	}
	return string(s)
}
