package cpu

import "fmt"

// The 0xCB table decomposes cleanly: 0x00-0x3F are eight rotate/shift
// operations over the eight operands, then BIT, RES and SET over each
// bit/operand pair. The whole table is generated from that structure.

func defCB(op uint8, name string, fn opcodeFn) {
	if cbTable[op] != nil {
		panic(fmt.Sprintf("cpu: duplicate CB opcode 0x%02X", op))
	}
	cbTable[op] = fn
	cbNames[op] = name
}

func buildCBTable() {
	rotOps := [8]struct {
		name  string
		apply func(*CPU, uint8) uint8
	}{
		{"RLC", func(c *CPU, v uint8) uint8 { return c.rlc(v, true) }},
		{"RRC", func(c *CPU, v uint8) uint8 { return c.rrc(v, true) }},
		{"RL", func(c *CPU, v uint8) uint8 { return c.rl(v, true) }},
		{"RR", func(c *CPU, v uint8) uint8 { return c.rr(v, true) }},
		{"SLA", (*CPU).sla},
		{"SRA", (*CPU).sra},
		{"SWAP", (*CPU).swap},
		{"SRL", (*CPU).srl},
	}
	for rot := uint8(0); rot < 8; rot++ {
		for reg := uint8(0); reg < 8; reg++ {
			op := rot<<3 + reg
			cost := 8
			if reg == 6 {
				cost = 16
			}
			apply, r := rotOps[rot].apply, reg
			defCB(op, rotOps[rot].name+" "+regName[reg], func(c *CPU) int {
				c.setR(r, apply(c, c.getR(r)))
				return cost
			})
		}
	}

	for index := uint8(0); index < 8; index++ {
		for reg := uint8(0); reg < 8; reg++ {
			suffix := fmt.Sprintf(" %d,%s", index, regName[reg])
			i, r := index, reg

			// BIT reads only, so the (HL) form is cheaper than RES/SET.
			bitCost := 8
			if reg == 6 {
				bitCost = 12
			}
			defCB(0x40+index<<3+reg, "BIT"+suffix, func(c *CPU) int {
				c.bitTest(i, c.getR(r))
				return bitCost
			})

			cost := 8
			if reg == 6 {
				cost = 16
			}
			defCB(0x80+index<<3+reg, "RES"+suffix, func(c *CPU) int {
				c.setR(r, c.getR(r)&^(1<<i))
				return cost
			})
			defCB(0xC0+index<<3+reg, "SET"+suffix, func(c *CPU) int {
				c.setR(r, c.getR(r)|1<<i)
				return cost
			})
		}
	}
}
