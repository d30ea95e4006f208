package cpu

import "fmt"

// prefixByte introduces the second 256-entry opcode table.
const prefixByte = 0xCB

// opcodeFn executes one instruction's register/memory/flag effects and
// returns its cycle cost. Conditional instructions return the taken or
// not-taken cost as appropriate.
type opcodeFn func(*CPU) int

var (
	baseTable [256]opcodeFn
	baseNames [256]string
	cbTable   [256]opcodeFn
	cbNames   [256]string
)

// OpcodeName returns the mnemonic for an opcode byte, from the prefixed
// table when prefixed is set.
func OpcodeName(op uint8, prefixed bool) string {
	if prefixed {
		return cbNames[op]
	}
	return baseNames[op]
}

func def(op uint8, name string, fn opcodeFn) {
	if baseTable[op] != nil {
		panic(fmt.Sprintf("cpu: duplicate opcode 0x%02X", op))
	}
	baseTable[op] = fn
	baseNames[op] = name
}

func defIllegal(op uint8) {
	def(op, "ILLEGAL", func(c *CPU) int {
		panic(fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", op, c.pc-1))
	})
}

func init() {
	buildBaseTable()
	buildCBTable()
	for op := 0; op < 256; op++ {
		if baseTable[op] == nil || cbTable[op] == nil {
			panic(fmt.Sprintf("cpu: opcode table hole at 0x%02X", op))
		}
	}
}

func buildBaseTable() {
	// 0x00-0x3F: loads, 16-bit arithmetic, rotates on A, relative jumps.
	def(0x00, "NOP", func(c *CPU) int { return 4 })
	def(0x01, "LD BC,nn", func(c *CPU) int { c.setBC(c.fetchWord()); return 12 })
	def(0x02, "LD (BC),A", func(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 8 })
	def(0x03, "INC BC", func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 })
	def(0x04, "INC B", func(c *CPU) int { c.b = c.inc8(c.b); return 4 })
	def(0x05, "DEC B", func(c *CPU) int { c.b = c.dec8(c.b); return 4 })
	def(0x06, "LD B,n", func(c *CPU) int { c.b = c.fetchByte(); return 8 })
	def(0x07, "RLCA", func(c *CPU) int { c.a = c.rlc(c.a, false); return 4 })
	def(0x08, "LD (nn),SP", func(c *CPU) int {
		target := c.fetchWord()
		c.bus.Write(target, uint8(c.sp))
		c.bus.Write(target+1, uint8(c.sp>>8))
		return 20
	})
	def(0x09, "ADD HL,BC", func(c *CPU) int { c.addHL(c.getBC()); return 8 })
	def(0x0A, "LD A,(BC)", func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 })
	def(0x0B, "DEC BC", func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 })
	def(0x0C, "INC C", func(c *CPU) int { c.c = c.inc8(c.c); return 4 })
	def(0x0D, "DEC C", func(c *CPU) int { c.c = c.dec8(c.c); return 4 })
	def(0x0E, "LD C,n", func(c *CPU) int { c.c = c.fetchByte(); return 8 })
	def(0x0F, "RRCA", func(c *CPU) int { c.a = c.rrc(c.a, false); return 4 })

	def(0x10, "STOP", func(c *CPU) int {
		c.fetchByte() // second byte of the 2-byte encoding
		c.stopped = true
		return 4
	})
	def(0x11, "LD DE,nn", func(c *CPU) int { c.setDE(c.fetchWord()); return 12 })
	def(0x12, "LD (DE),A", func(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 8 })
	def(0x13, "INC DE", func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 })
	def(0x14, "INC D", func(c *CPU) int { c.d = c.inc8(c.d); return 4 })
	def(0x15, "DEC D", func(c *CPU) int { c.d = c.dec8(c.d); return 4 })
	def(0x16, "LD D,n", func(c *CPU) int { c.d = c.fetchByte(); return 8 })
	def(0x17, "RLA", func(c *CPU) int { c.a = c.rl(c.a, false); return 4 })
	def(0x18, "JR n", func(c *CPU) int { return c.jumpRel(true) })
	def(0x19, "ADD HL,DE", func(c *CPU) int { c.addHL(c.getDE()); return 8 })
	def(0x1A, "LD A,(DE)", func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 })
	def(0x1B, "DEC DE", func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 })
	def(0x1C, "INC E", func(c *CPU) int { c.e = c.inc8(c.e); return 4 })
	def(0x1D, "DEC E", func(c *CPU) int { c.e = c.dec8(c.e); return 4 })
	def(0x1E, "LD E,n", func(c *CPU) int { c.e = c.fetchByte(); return 8 })
	def(0x1F, "RRA", func(c *CPU) int { c.a = c.rr(c.a, false); return 4 })

	def(0x20, "JR NZ,n", func(c *CPU) int { return c.jumpRel(!c.flagSet(flagZ)) })
	def(0x21, "LD HL,nn", func(c *CPU) int { c.setHL(c.fetchWord()); return 12 })
	def(0x22, "LD (HL+),A", func(c *CPU) int {
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		return 8
	})
	def(0x23, "INC HL", func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 })
	def(0x24, "INC H", func(c *CPU) int { c.h = c.inc8(c.h); return 4 })
	def(0x25, "DEC H", func(c *CPU) int { c.h = c.dec8(c.h); return 4 })
	def(0x26, "LD H,n", func(c *CPU) int { c.h = c.fetchByte(); return 8 })
	def(0x27, "DAA", func(c *CPU) int { c.daa(); return 4 })
	def(0x28, "JR Z,n", func(c *CPU) int { return c.jumpRel(c.flagSet(flagZ)) })
	def(0x29, "ADD HL,HL", func(c *CPU) int { c.addHL(c.getHL()); return 8 })
	def(0x2A, "LD A,(HL+)", func(c *CPU) int {
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() + 1)
		return 8
	})
	def(0x2B, "DEC HL", func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 })
	def(0x2C, "INC L", func(c *CPU) int { c.l = c.inc8(c.l); return 4 })
	def(0x2D, "DEC L", func(c *CPU) int { c.l = c.dec8(c.l); return 4 })
	def(0x2E, "LD L,n", func(c *CPU) int { c.l = c.fetchByte(); return 8 })
	def(0x2F, "CPL", func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(flagN)
		c.setFlag(flagH)
		return 4
	})

	def(0x30, "JR NC,n", func(c *CPU) int { return c.jumpRel(!c.flagSet(flagC)) })
	def(0x31, "LD SP,nn", func(c *CPU) int { c.sp = c.fetchWord(); return 12 })
	def(0x32, "LD (HL-),A", func(c *CPU) int {
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		return 8
	})
	def(0x33, "INC SP", func(c *CPU) int { c.sp++; return 8 })
	def(0x34, "INC (HL)", func(c *CPU) int {
		c.bus.Write(c.getHL(), c.inc8(c.bus.Read(c.getHL())))
		return 12
	})
	def(0x35, "DEC (HL)", func(c *CPU) int {
		c.bus.Write(c.getHL(), c.dec8(c.bus.Read(c.getHL())))
		return 12
	})
	def(0x36, "LD (HL),n", func(c *CPU) int { c.bus.Write(c.getHL(), c.fetchByte()); return 12 })
	def(0x37, "SCF", func(c *CPU) int {
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.setFlag(flagC)
		return 4
	})
	def(0x38, "JR C,n", func(c *CPU) int { return c.jumpRel(c.flagSet(flagC)) })
	def(0x39, "ADD HL,SP", func(c *CPU) int { c.addHL(c.sp); return 8 })
	def(0x3A, "LD A,(HL-)", func(c *CPU) int {
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() - 1)
		return 8
	})
	def(0x3B, "DEC SP", func(c *CPU) int { c.sp--; return 8 })
	def(0x3C, "INC A", func(c *CPU) int { c.a = c.inc8(c.a); return 4 })
	def(0x3D, "DEC A", func(c *CPU) int { c.a = c.dec8(c.a); return 4 })
	def(0x3E, "LD A,n", func(c *CPU) int { c.a = c.fetchByte(); return 8 })
	def(0x3F, "CCF", func(c *CPU) int {
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.setFlagIf(flagC, !c.flagSet(flagC))
		return 4
	})

	// 0x40-0x7F: the LD r,r' block, with HALT in the (HL),(HL) slot.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst<<3 + src
			if op == 0x76 {
				continue
			}
			cost := 4
			if dst == 6 || src == 6 {
				cost = 8
			}
			d, s := dst, src
			def(op, "LD "+regName[dst]+","+regName[src], func(c *CPU) int {
				c.setR(d, c.getR(s))
				return cost
			})
		}
	}
	def(0x76, "HALT", func(c *CPU) int { c.halt(); return 4 })

	// 0x80-0xBF: the eight ALU operations against each operand.
	aluOps := [8]struct {
		name  string
		apply func(*CPU, uint8)
	}{
		{"ADD A,", func(c *CPU, v uint8) { c.add8(v, false) }},
		{"ADC A,", func(c *CPU, v uint8) { c.add8(v, true) }},
		{"SUB ", func(c *CPU, v uint8) { c.sub8(v, false) }},
		{"SBC A,", func(c *CPU, v uint8) { c.sub8(v, true) }},
		{"AND ", (*CPU).and8},
		{"XOR ", (*CPU).xor8},
		{"OR ", (*CPU).or8},
		{"CP ", (*CPU).compare},
	}
	for alu := uint8(0); alu < 8; alu++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x80 + alu<<3 + src
			cost := 4
			if src == 6 {
				cost = 8
			}
			apply, s := aluOps[alu].apply, src
			def(op, aluOps[alu].name+regName[src], func(c *CPU) int {
				apply(c, c.getR(s))
				return cost
			})
		}
	}

	// 0xC0-0xFF: control flow, stack, immediate ALU, high-page loads.
	def(0xC0, "RET NZ", func(c *CPU) int { return c.ret(!c.flagSet(flagZ)) })
	def(0xC1, "POP BC", func(c *CPU) int { c.setBC(c.popWord()); return 12 })
	def(0xC2, "JP NZ,nn", func(c *CPU) int { return c.jumpAbs(!c.flagSet(flagZ)) })
	def(0xC3, "JP nn", func(c *CPU) int { return c.jumpAbs(true) })
	def(0xC4, "CALL NZ,nn", func(c *CPU) int { return c.call(!c.flagSet(flagZ)) })
	def(0xC5, "PUSH BC", func(c *CPU) int { c.pushWord(c.getBC()); return 16 })
	def(0xC6, "ADD A,n", func(c *CPU) int { c.add8(c.fetchByte(), false); return 8 })
	def(0xC7, "RST 0x00", func(c *CPU) int { return c.rst(0x00) })
	def(0xC8, "RET Z", func(c *CPU) int { return c.ret(c.flagSet(flagZ)) })
	def(0xC9, "RET", func(c *CPU) int { c.pc = c.popWord(); return 16 })
	def(0xCA, "JP Z,nn", func(c *CPU) int { return c.jumpAbs(c.flagSet(flagZ)) })
	def(0xCB, "PREFIX", func(c *CPU) int {
		// dispatched directly in Step, never through this table
		panic("cpu: prefix byte reached the base table")
	})
	def(0xCC, "CALL Z,nn", func(c *CPU) int { return c.call(c.flagSet(flagZ)) })
	def(0xCD, "CALL nn", func(c *CPU) int { return c.call(true) })
	def(0xCE, "ADC A,n", func(c *CPU) int { c.add8(c.fetchByte(), true); return 8 })
	def(0xCF, "RST 0x08", func(c *CPU) int { return c.rst(0x08) })

	def(0xD0, "RET NC", func(c *CPU) int { return c.ret(!c.flagSet(flagC)) })
	def(0xD1, "POP DE", func(c *CPU) int { c.setDE(c.popWord()); return 12 })
	def(0xD2, "JP NC,nn", func(c *CPU) int { return c.jumpAbs(!c.flagSet(flagC)) })
	defIllegal(0xD3)
	def(0xD4, "CALL NC,nn", func(c *CPU) int { return c.call(!c.flagSet(flagC)) })
	def(0xD5, "PUSH DE", func(c *CPU) int { c.pushWord(c.getDE()); return 16 })
	def(0xD6, "SUB n", func(c *CPU) int { c.sub8(c.fetchByte(), false); return 8 })
	def(0xD7, "RST 0x10", func(c *CPU) int { return c.rst(0x10) })
	def(0xD8, "RET C", func(c *CPU) int { return c.ret(c.flagSet(flagC)) })
	def(0xD9, "RETI", func(c *CPU) int {
		c.pc = c.popWord()
		c.ime = true
		return 16
	})
	def(0xDA, "JP C,nn", func(c *CPU) int { return c.jumpAbs(c.flagSet(flagC)) })
	defIllegal(0xDB)
	def(0xDC, "CALL C,nn", func(c *CPU) int { return c.call(c.flagSet(flagC)) })
	defIllegal(0xDD)
	def(0xDE, "SBC A,n", func(c *CPU) int { c.sub8(c.fetchByte(), true); return 8 })
	def(0xDF, "RST 0x18", func(c *CPU) int { return c.rst(0x18) })

	def(0xE0, "LDH (n),A", func(c *CPU) int {
		c.bus.Write(0xFF00+uint16(c.fetchByte()), c.a)
		return 12
	})
	def(0xE1, "POP HL", func(c *CPU) int { c.setHL(c.popWord()); return 12 })
	def(0xE2, "LD (C),A", func(c *CPU) int {
		c.bus.Write(0xFF00+uint16(c.c), c.a)
		return 8
	})
	defIllegal(0xE3)
	defIllegal(0xE4)
	def(0xE5, "PUSH HL", func(c *CPU) int { c.pushWord(c.getHL()); return 16 })
	def(0xE6, "AND n", func(c *CPU) int { c.and8(c.fetchByte()); return 8 })
	def(0xE7, "RST 0x20", func(c *CPU) int { return c.rst(0x20) })
	def(0xE8, "ADD SP,n", func(c *CPU) int { c.sp = c.addSPRel(c.fetchByte()); return 16 })
	def(0xE9, "JP (HL)", func(c *CPU) int { c.pc = c.getHL(); return 4 })
	def(0xEA, "LD (nn),A", func(c *CPU) int { c.bus.Write(c.fetchWord(), c.a); return 16 })
	defIllegal(0xEB)
	defIllegal(0xEC)
	defIllegal(0xED)
	def(0xEE, "XOR n", func(c *CPU) int { c.xor8(c.fetchByte()); return 8 })
	def(0xEF, "RST 0x28", func(c *CPU) int { return c.rst(0x28) })

	def(0xF0, "LDH A,(n)", func(c *CPU) int {
		c.a = c.bus.Read(0xFF00 + uint16(c.fetchByte()))
		return 12
	})
	def(0xF1, "POP AF", func(c *CPU) int { c.setAF(c.popWord()); return 12 })
	def(0xF2, "LD A,(C)", func(c *CPU) int {
		c.a = c.bus.Read(0xFF00 + uint16(c.c))
		return 8
	})
	def(0xF3, "DI", func(c *CPU) int {
		c.ime = false
		c.eiPending = false
		return 4
	})
	defIllegal(0xF4)
	def(0xF5, "PUSH AF", func(c *CPU) int { c.pushWord(c.getAF()); return 16 })
	def(0xF6, "OR n", func(c *CPU) int { c.or8(c.fetchByte()); return 8 })
	def(0xF7, "RST 0x30", func(c *CPU) int { return c.rst(0x30) })
	def(0xF8, "LD HL,SP+n", func(c *CPU) int { c.setHL(c.addSPRel(c.fetchByte())); return 12 })
	def(0xF9, "LD SP,HL", func(c *CPU) int { c.sp = c.getHL(); return 8 })
	def(0xFA, "LD A,(nn)", func(c *CPU) int { c.a = c.bus.Read(c.fetchWord()); return 16 })
	def(0xFB, "EI", func(c *CPU) int {
		c.eiPending = true
		return 4
	})
	defIllegal(0xFC)
	defIllegal(0xFD)
	def(0xFE, "CP n", func(c *CPU) int { c.compare(c.fetchByte()); return 8 })
	def(0xFF, "RST 0x38", func(c *CPU) int { return c.rst(0x38) })
}
