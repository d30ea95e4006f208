package cpu

import (
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// flatBus is a plain 64KB RAM with no routing, enough to execute programs
// against in tests.
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read(address uint16) uint8 {
	return b.mem[address]
}

func (b *flatBus) Write(address uint16, value uint8) {
	b.mem[address] = value
}

// newTestCPU returns a post-boot CPU with the program loaded at the entry
// point 0x0100.
func newTestCPU(program ...uint8) (*CPU, *flatBus, *interrupt.Controller) {
	bus := &flatBus{}
	copy(bus.mem[0x0100:], program)
	irq := interrupt.NewController()
	return New(bus, irq), bus, irq
}
