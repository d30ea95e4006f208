// Package cpu implements the Sharp LR35902 instruction engine.
package cpu

import (
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// Bus is the memory interface the CPU executes against.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// interruptCycles is the fixed cost of entering an interrupt service
// routine: 5 machine cycles.
const interruptCycles = 20

// haltCycles is the fixed per-step cost reported while parked in HALT/STOP.
const haltCycles = 4

// CPU holds the register file and execution state. It never advances
// peripherals itself; the scheduler feeds the cycle counts Step returns into
// the timer and the pixel processor.
type CPU struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	ime       bool
	eiPending bool // EI takes effect after the following instruction
	halted    bool
	stopped   bool

	// haltBug makes the next opcode fetch skip the PC increment, so the
	// byte after HALT is executed twice. Set when HALT runs with IME clear
	// while an interrupt is already pending. Hardware quirk, kept as-is.
	haltBug bool

	cycles uint64

	bus Bus
	irq *interrupt.Controller
}

// New returns a CPU with the documented DMG post-boot register values,
// ready to execute from the cartridge entry point.
func New(bus Bus, irq *interrupt.Controller) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// NewAtBoot returns a CPU that starts from address 0x0000 with cleared
// registers, for machines running a boot ROM image. The boot sequence
// itself executes as ordinary instructions.
func NewAtBoot(bus Bus, irq *interrupt.Controller) *CPU {
	return &CPU{bus: bus, irq: irq, sp: 0x0000, pc: 0x0000}
}

// Step services a pending interrupt or executes one instruction, and
// returns the number of clock cycles consumed. It never returns zero.
func (c *CPU) Step() int {
	if c.ime {
		if source, ok := c.irq.Pending(); ok {
			c.halted = false
			c.stopped = false
			c.service(source)
			return interruptCycles
		}
	}

	if c.halted || c.stopped {
		// Wake on any enabled pending request, IME or not. With IME clear
		// execution just resumes after the halt.
		if !c.irq.HasPending() {
			c.cycles += haltCycles
			return haltCycles
		}
		c.halted = false
		c.stopped = false
	}

	enableIME := c.eiPending

	opcode := c.fetchOpcode()
	var cyclesTaken int
	if opcode == prefixByte {
		cyclesTaken = cbTable[c.fetchByte()](c)
	} else {
		cyclesTaken = baseTable[opcode](c)
	}
	c.cycles += uint64(cyclesTaken)

	if enableIME && c.eiPending {
		c.eiPending = false
		c.ime = true
	}

	return cyclesTaken
}

// service enters the handler for the given source: push PC, jump to the
// fixed vector, clear IME and the source's request bit.
func (c *CPU) service(source interrupt.Source) {
	c.ime = false
	c.irq.Acknowledge(source)
	c.pushWord(c.pc)
	c.pc = source.Vector()
	c.cycles += interruptCycles
}

// fetchOpcode reads the byte at PC. Under the halt bug the PC increment is
// skipped once, so the same byte is fetched again by the next step.
func (c *CPU) fetchOpcode() uint8 {
	op := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return op
}

// fetchByte reads the immediate operand at PC and advances past it.
func (c *CPU) fetchByte() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

// fetchWord reads a little-endian immediate word at PC and advances past it.
func (c *CPU) fetchWord() uint16 {
	low := c.fetchByte()
	high := c.fetchByte()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) halt() {
	if !c.ime && c.irq.HasPending() {
		// Halting with IME clear while a request is already pending does
		// not park the CPU; it corrupts the next fetch instead.
		c.haltBug = true
		return
	}
	c.halted = true
}
