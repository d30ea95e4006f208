package cpu

import "github.com/echoram/dotmatrix/dotmatrix/bit"

// Shared register/flag effects used by the opcode tables. Flag behavior
// follows the documented per-mnemonic outcomes.

func (c *CPU) pushWord(v uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(v))
	c.sp--
	c.bus.Write(c.sp, bit.Low(v))
}

func (c *CPU) popWord() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// add8 adds value (plus the carry flag when withCarry) into A.
func (c *CPU) add8(value uint8, withCarry bool) {
	var carryIn uint8
	if withCarry {
		carryIn = c.carryBit()
	}
	a := c.a
	result := uint16(a) + uint16(value) + uint16(carryIn)

	c.a = uint8(result)
	c.setFlagIf(flagZ, c.a == 0)
	c.clearFlag(flagN)
	c.setFlagIf(flagH, (a&0xF)+(value&0xF)+carryIn > 0xF)
	c.setFlagIf(flagC, result > 0xFF)
}

// sub8 subtracts value (plus the carry flag when withCarry) from A.
func (c *CPU) sub8(value uint8, withCarry bool) {
	var carryIn uint8
	if withCarry {
		carryIn = c.carryBit()
	}
	a := c.a
	result := int16(a) - int16(value) - int16(carryIn)

	c.a = uint8(result)
	c.setFlagIf(flagZ, c.a == 0)
	c.setFlag(flagN)
	c.setFlagIf(flagH, int16(a&0xF)-int16(value&0xF)-int16(carryIn) < 0)
	c.setFlagIf(flagC, result < 0)
}

// compare is SUB without storing the result.
func (c *CPU) compare(value uint8) {
	a := c.a
	c.sub8(value, false)
	c.a = a
}

func (c *CPU) and8(value uint8) {
	c.a &= value
	c.setFlagIf(flagZ, c.a == 0)
	c.clearFlag(flagN)
	c.setFlag(flagH)
	c.clearFlag(flagC)
}

func (c *CPU) or8(value uint8) {
	c.a |= value
	c.setFlagIf(flagZ, c.a == 0)
	c.clearFlag(flagN)
	c.clearFlag(flagH)
	c.clearFlag(flagC)
}

func (c *CPU) xor8(value uint8) {
	c.a ^= value
	c.setFlagIf(flagZ, c.a == 0)
	c.clearFlag(flagN)
	c.clearFlag(flagH)
	c.clearFlag(flagC)
}

// inc8 increments a value, leaving the carry flag alone.
func (c *CPU) inc8(value uint8) uint8 {
	result := value + 1
	c.setFlagIf(flagZ, result == 0)
	c.clearFlag(flagN)
	c.setFlagIf(flagH, value&0xF == 0xF)
	return result
}

// dec8 decrements a value, leaving the carry flag alone.
func (c *CPU) dec8(value uint8) uint8 {
	result := value - 1
	c.setFlagIf(flagZ, result == 0)
	c.setFlag(flagN)
	c.setFlagIf(flagH, value&0xF == 0)
	return result
}

// addHL adds a 16-bit value into HL. Zero flag is untouched; half carry is
// from bit 11.
func (c *CPU) addHL(value uint16) {
	hl := c.getHL()
	result := uint32(hl) + uint32(value)

	c.clearFlag(flagN)
	c.setFlagIf(flagH, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagIf(flagC, result > 0xFFFF)
	c.setHL(uint16(result))
}

// addSPRel computes SP plus a signed immediate, with the H/C flags taken
// from the unsigned low-byte addition. Used by ADD SP,n and LD HL,SP+n.
func (c *CPU) addSPRel(rel uint8) uint16 {
	sp := c.sp
	result := sp + uint16(int8(rel))

	c.clearFlag(flagZ)
	c.clearFlag(flagN)
	c.setFlagIf(flagH, (sp&0xF)+(uint16(rel)&0xF) > 0xF)
	c.setFlagIf(flagC, (sp&0xFF)+uint16(rel) > 0xFF)
	return result
}

// daa adjusts A back to packed BCD after an addition or subtraction.
func (c *CPU) daa() {
	a := uint16(c.a)
	if !c.flagSet(flagN) {
		if c.flagSet(flagH) || a&0x0F > 0x09 {
			a += 0x06
		}
		if c.flagSet(flagC) || a > 0x9F {
			a += 0x60
		}
	} else {
		if c.flagSet(flagH) {
			a = (a - 0x06) & 0xFF
		}
		if c.flagSet(flagC) {
			a -= 0x60
		}
	}
	if a&0x100 != 0 {
		c.setFlag(flagC)
	}
	a &= 0xFF
	c.setFlagIf(flagZ, a == 0)
	c.clearFlag(flagH)
	c.a = uint8(a)
}

// Rotates and shifts. The CB-prefixed forms set Z from the result; the four
// A-register forms (RLCA, RLA, RRCA, RRA) always clear it, which withZ
// selects.

func (c *CPU) rlc(value uint8, withZ bool) uint8 {
	result := value<<1 | value>>7
	c.setRotateFlags(result, value&0x80 != 0, withZ)
	return result
}

func (c *CPU) rl(value uint8, withZ bool) uint8 {
	result := value<<1 | c.carryBit()
	c.setRotateFlags(result, value&0x80 != 0, withZ)
	return result
}

func (c *CPU) rrc(value uint8, withZ bool) uint8 {
	result := value>>1 | value<<7
	c.setRotateFlags(result, value&1 != 0, withZ)
	return result
}

func (c *CPU) rr(value uint8, withZ bool) uint8 {
	result := value>>1 | c.carryBit()<<7
	c.setRotateFlags(result, value&1 != 0, withZ)
	return result
}

func (c *CPU) sla(value uint8) uint8 {
	result := value << 1
	c.setRotateFlags(result, value&0x80 != 0, true)
	return result
}

func (c *CPU) sra(value uint8) uint8 {
	result := value>>1 | value&0x80
	c.setRotateFlags(result, value&1 != 0, true)
	return result
}

func (c *CPU) srl(value uint8) uint8 {
	result := value >> 1
	c.setRotateFlags(result, value&1 != 0, true)
	return result
}

func (c *CPU) swap(value uint8) uint8 {
	result := value<<4 | value>>4
	c.setRotateFlags(result, false, true)
	return result
}

func (c *CPU) setRotateFlags(result uint8, carry, withZ bool) {
	c.setFlagIf(flagZ, withZ && result == 0)
	c.clearFlag(flagN)
	c.clearFlag(flagH)
	c.setFlagIf(flagC, carry)
}

// bitTest checks bit index of value without modifying it.
func (c *CPU) bitTest(index, value uint8) {
	c.setFlagIf(flagZ, !bit.IsSet(index, value))
	c.clearFlag(flagN)
	c.setFlag(flagH)
}

// Control flow. Each returns the documented cycle cost, which differs for
// taken and not-taken conditional branches.

func (c *CPU) jumpRel(cond bool) int {
	rel := int8(c.fetchByte())
	if !cond {
		return 8
	}
	c.pc += uint16(rel)
	return 12
}

func (c *CPU) jumpAbs(cond bool) int {
	target := c.fetchWord()
	if !cond {
		return 12
	}
	c.pc = target
	return 16
}

func (c *CPU) call(cond bool) int {
	target := c.fetchWord()
	if !cond {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func (c *CPU) ret(cond bool) int {
	if !cond {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

func (c *CPU) rst(vector uint16) int {
	c.pushWord(c.pc)
	c.pc = vector
	return 16
}
