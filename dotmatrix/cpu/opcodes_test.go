package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

func TestTablesHaveNoHoles(t *testing.T) {
	for op := 0; op < 256; op++ {
		assert.NotNil(t, baseTable[op], "base 0x%02X", op)
		assert.NotEmpty(t, baseNames[op], "base name 0x%02X", op)
		assert.NotNil(t, cbTable[op], "cb 0x%02X", op)
		assert.NotEmpty(t, cbNames[op], "cb name 0x%02X", op)
	}
}

func TestOpcodeName(t *testing.T) {
	assert.Equal(t, "NOP", OpcodeName(0x00, false))
	assert.Equal(t, "LD B,C", OpcodeName(0x41, false))
	assert.Equal(t, "HALT", OpcodeName(0x76, false))
	assert.Equal(t, "SWAP A", OpcodeName(0x37, true))
	assert.Equal(t, "BIT 7,(HL)", OpcodeName(0x7E, true))
	assert.Equal(t, "SET 0,B", OpcodeName(0xC0, true))
}

func TestIllegalOpcodesPanic(t *testing.T) {
	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		cpu, _, _ := newTestCPU(op)
		assert.Panics(t, func() { cpu.Step() }, "0x%02X", op)
	}
}

func TestCycleCosts(t *testing.T) {
	testCases := []struct {
		desc    string
		program []uint8
		setup   func(*CPU)
		cycles  int
	}{
		{desc: "NOP", program: []uint8{0x00}, cycles: 4},
		{desc: "LD B,n", program: []uint8{0x06, 0x42}, cycles: 8},
		{desc: "LD B,C", program: []uint8{0x41}, cycles: 4},
		{desc: "LD B,(HL)", program: []uint8{0x46}, cycles: 8},
		{desc: "LD (HL),B", program: []uint8{0x70}, cycles: 8},
		{desc: "ADD A,(HL)", program: []uint8{0x86}, cycles: 8},
		{desc: "LD (nn),SP", program: []uint8{0x08, 0x00, 0xC0}, cycles: 20},
		{desc: "PUSH BC", program: []uint8{0xC5}, cycles: 16},
		{desc: "POP BC", program: []uint8{0xC1}, cycles: 12},
		{desc: "JP nn", program: []uint8{0xC3, 0x00, 0x02}, cycles: 16},
		{desc: "JP (HL)", program: []uint8{0xE9}, cycles: 4},
		{desc: "RST 0x38", program: []uint8{0xFF}, cycles: 16},
		{desc: "ADD SP,n", program: []uint8{0xE8, 0x01}, cycles: 16},
		{desc: "LD HL,SP+n", program: []uint8{0xF8, 0x01}, cycles: 12},
		{
			desc:    "JR NZ taken",
			program: []uint8{0x20, 0x05},
			setup:   func(c *CPU) { c.clearFlag(flagZ) },
			cycles:  12,
		},
		{
			desc:    "JR NZ not taken",
			program: []uint8{0x20, 0x05},
			setup:   func(c *CPU) { c.setFlag(flagZ) },
			cycles:  8,
		},
		{
			desc:    "CALL Z taken",
			program: []uint8{0xCC, 0x00, 0x02},
			setup:   func(c *CPU) { c.setFlag(flagZ) },
			cycles:  24,
		},
		{
			desc:    "CALL Z not taken",
			program: []uint8{0xCC, 0x00, 0x02},
			setup:   func(c *CPU) { c.clearFlag(flagZ) },
			cycles:  12,
		},
		{
			desc:    "RET C taken",
			program: []uint8{0xD8},
			setup:   func(c *CPU) { c.setFlag(flagC) },
			cycles:  20,
		},
		{
			desc:    "RET C not taken",
			program: []uint8{0xD8},
			setup:   func(c *CPU) { c.clearFlag(flagC) },
			cycles:  8,
		},
		{desc: "SWAP A", program: []uint8{0xCB, 0x37}, cycles: 8},
		{desc: "SWAP (HL)", program: []uint8{0xCB, 0x36}, cycles: 16},
		{desc: "BIT 0,B", program: []uint8{0xCB, 0x40}, cycles: 8},
		{desc: "BIT 0,(HL)", program: []uint8{0xCB, 0x46}, cycles: 12},
		{desc: "SET 3,(HL)", program: []uint8{0xCB, 0xDE}, cycles: 16},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, _, _ := newTestCPU(tC.program...)
			cpu.setHL(0xC000)
			cpu.sp = 0xFFFE
			if tC.setup != nil {
				tC.setup(cpu)
			}
			assert.Equal(t, tC.cycles, cpu.Step())
		})
	}
}

func TestLoadImmediateAndMoves(t *testing.T) {
	// LD A,n; LD B,A; LD (HL),B; LD C,(HL)
	cpu, bus, _ := newTestCPU(0x3E, 0x5A, 0x47, 0x70, 0x4E)
	cpu.setHL(0xC123)

	cpu.Step()
	assert.Equal(t, uint8(0x5A), cpu.a)
	cpu.Step()
	assert.Equal(t, uint8(0x5A), cpu.b)
	cpu.Step()
	assert.Equal(t, uint8(0x5A), bus.mem[0xC123])
	cpu.Step()
	assert.Equal(t, uint8(0x5A), cpu.c)
}

func TestSixteenBitLoads(t *testing.T) {
	// LD SP,nn; LD (nn),SP; LD HL,nn; LD SP,HL
	cpu, bus, _ := newTestCPU(
		0x31, 0xFE, 0xDF,
		0x08, 0x00, 0xC0,
		0x21, 0x34, 0x12,
		0xF9,
	)
	cpu.Step()
	assert.Equal(t, uint16(0xDFFE), cpu.sp)
	cpu.Step()
	assert.Equal(t, uint8(0xFE), bus.mem[0xC000])
	assert.Equal(t, uint8(0xDF), bus.mem[0xC001])
	cpu.Step()
	assert.Equal(t, uint16(0x1234), cpu.getHL())
	cpu.Step()
	assert.Equal(t, uint16(0x1234), cpu.sp)
}

func TestLoadAndIncrementDecrement(t *testing.T) {
	// LD (HL+),A then LD (HL-),A
	cpu, bus, _ := newTestCPU(0x22, 0x32)
	cpu.a = 0x99
	cpu.setHL(0xC000)

	cpu.Step()
	assert.Equal(t, uint8(0x99), bus.mem[0xC000])
	assert.Equal(t, uint16(0xC001), cpu.getHL())

	cpu.Step()
	assert.Equal(t, uint8(0x99), bus.mem[0xC001])
	assert.Equal(t, uint16(0xC000), cpu.getHL())
}

func TestHighRAMLoads(t *testing.T) {
	// LDH (n),A; LD (C),A; LDH A,(n)
	cpu, bus, _ := newTestCPU(0xE0, 0x80, 0xE2, 0xF0, 0x81)
	cpu.a = 0x42
	cpu.c = 0x81

	cpu.Step()
	assert.Equal(t, uint8(0x42), bus.mem[0xFF80])
	cpu.Step()
	assert.Equal(t, uint8(0x42), bus.mem[0xFF81])

	bus.mem[0xFF81] = 0x77
	cpu.Step()
	assert.Equal(t, uint8(0x77), cpu.a)
}

func TestCallAndReturn(t *testing.T) {
	// CALL 0x0200, then RET back from there.
	cpu, bus, _ := newTestCPU(0xCD, 0x00, 0x02)
	bus.mem[0x0200] = 0xC9
	cpu.sp = 0xFFFE

	cpu.Step()
	assert.Equal(t, uint16(0x0200), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)
	// return address is the byte after the CALL operand
	assert.Equal(t, uint8(0x03), bus.mem[0xFFFC])
	assert.Equal(t, uint8(0x01), bus.mem[0xFFFD])

	cpu.Step()
	assert.Equal(t, uint16(0x0103), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestJumpRelativeBackwards(t *testing.T) {
	// JR -2 loops back onto itself.
	cpu, _, _ := newTestCPU(0x18, 0xFE)
	cpu.Step()
	assert.Equal(t, uint16(0x0100), cpu.pc)
}

func TestPushPopAFMasksLowNibble(t *testing.T) {
	cpu, _, _ := newTestCPU(0xF5, 0xF1)
	cpu.sp = 0xFFFE
	cpu.a = 0x12
	cpu.f = 0xF0

	cpu.Step()
	cpu.a, cpu.f = 0, 0
	cpu.Step()
	assert.Equal(t, uint8(0x12), cpu.a)
	assert.Equal(t, uint8(0xF0), cpu.f)

	// a POP AF with junk in the low nibble on the stack keeps F masked
	cpu2, bus2, _ := newTestCPU(0xF1)
	cpu2.sp = 0xFFFC
	bus2.mem[0xFFFC] = 0xFF
	bus2.mem[0xFFFD] = 0x34
	cpu2.Step()
	assert.Equal(t, uint8(0x34), cpu2.a)
	assert.Equal(t, uint8(0xF0), cpu2.f)
}

func TestComplementAndCarryOps(t *testing.T) {
	// CPL; SCF; CCF
	cpu, _, _ := newTestCPU(0x2F, 0x37, 0x3F)
	cpu.a = 0xF0
	cpu.f = 0

	cpu.Step()
	assert.Equal(t, uint8(0x0F), cpu.a)
	assert.True(t, cpu.flagSet(flagN))
	assert.True(t, cpu.flagSet(flagH))

	cpu.Step()
	assert.True(t, cpu.flagSet(flagC))
	assert.False(t, cpu.flagSet(flagN))
	assert.False(t, cpu.flagSet(flagH))

	cpu.Step()
	assert.False(t, cpu.flagSet(flagC))
}

func TestStopParksUntilInterrupt(t *testing.T) {
	// STOP consumes its padding byte and parks like HALT.
	cpu, _, irq := newTestCPU(0x10, 0x00, 0x04)
	cpu.Step()
	assert.Equal(t, uint16(0x0102), cpu.pc)

	assert.Equal(t, 4, cpu.Step())
	assert.Equal(t, uint16(0x0102), cpu.pc)

	irq.WriteEnable(0x01)
	irq.Request(interrupt.VBlank)
	cpu.Step() // wakes, executes INC B
	assert.Equal(t, uint8(0x01), cpu.b)
}

func TestStepNeverReturnsZero(t *testing.T) {
	cpu, _, _ := newTestCPU(0x00)
	require.Greater(t, cpu.Step(), 0)
}
