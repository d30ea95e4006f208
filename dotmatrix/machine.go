// Package dotmatrix wires the DMG core together: CPU, bus, timer, pixel
// processor and interrupt controller, advanced in lock-step.
package dotmatrix

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/echoram/dotmatrix/dotmatrix/cpu"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
	"github.com/echoram/dotmatrix/dotmatrix/memory"
	"github.com/echoram/dotmatrix/dotmatrix/serial"
	"github.com/echoram/dotmatrix/dotmatrix/timer"
	"github.com/echoram/dotmatrix/dotmatrix/video"
)

// Machine is one emulated unit. It owns every component and is the only
// type external callers need.
type Machine struct {
	cpu   *cpu.CPU
	bus   *memory.Bus
	timer *timer.Timer
	ppu   *video.PPU
	irq   *interrupt.Controller

	instructions uint64
	cycles       uint64
}

type Option func(*config)

type config struct {
	bootROM []uint8
	serial  memory.SerialPort
	onFrame func(*video.FrameBuffer)
}

// WithBootROM powers the machine on at 0x0000 with the image overlaid,
// instead of the post-boot register state.
func WithBootROM(image []uint8) Option {
	return func(c *config) { c.bootROM = image }
}

// WithSerialPort replaces the default logging serial sink.
func WithSerialPort(port memory.SerialPort) Option {
	return func(c *config) { c.serial = port }
}

// WithFrameHandler installs a callback invoked once per completed frame.
func WithFrameHandler(fn func(*video.FrameBuffer)) Option {
	return func(c *config) { c.onFrame = fn }
}

// New builds a machine with no cartridge, equivalent to powering on with
// the slot empty.
func New(opts ...Option) *Machine {
	return build(nil, opts)
}

// NewWithROM builds a machine with the given ROM image inserted.
func NewWithROM(data []byte, opts ...Option) (*Machine, error) {
	cart, err := memory.NewCartridge(data)
	if err != nil {
		return nil, err
	}
	if !cart.HeaderChecksumOK() {
		slog.Warn("cartridge header checksum mismatch", "title", cart.Title())
	}
	slog.Info("cartridge loaded",
		"title", cart.Title(),
		"romBanks", cart.ROMBanks(),
		"ramBanks", cart.RAMBanks())
	return build(cart, opts), nil
}

// NewWithFile loads a ROM image from disk.
func NewWithFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	return NewWithROM(data, opts...)
}

func build(cart *memory.Cartridge, opts []Option) *Machine {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	irq := interrupt.NewController()
	ppu := video.New(irq)
	tmr := timer.New(irq)

	if cfg.serial == nil {
		cfg.serial = serial.NewLogSink(irq)
	}
	busOpts := []memory.BusOption{memory.WithSerialPort(cfg.serial)}
	if cart != nil {
		busOpts = append(busOpts, memory.WithCartridge(cart))
	}
	if cfg.bootROM != nil {
		busOpts = append(busOpts, memory.WithBootROM(cfg.bootROM))
	}
	bus := memory.NewBus(irq, ppu, tmr, busOpts...)

	if cfg.onFrame != nil {
		ppu.SetFrameHandler(cfg.onFrame)
	}

	m := &Machine{
		bus:   bus,
		timer: tmr,
		ppu:   ppu,
		irq:   irq,
	}
	if cfg.bootROM != nil {
		m.cpu = cpu.NewAtBoot(bus, irq)
	} else {
		m.cpu = cpu.New(bus, irq)
	}
	return m
}

// Step executes one CPU step and advances the peripherals by exactly the
// cycles it consumed, in that order, before the next step can observe
// anything.
func (m *Machine) Step() int {
	cycles := m.cpu.Step()
	m.timer.Advance(cycles)
	m.ppu.Tick(cycles)
	m.bus.Tick(cycles)

	m.instructions++
	m.cycles += uint64(cycles)
	return cycles
}

// RunCycles steps the machine until at least n cycles have elapsed and
// returns the exact count, which may overshoot by one instruction.
func (m *Machine) RunCycles(n int) int {
	if n < 0 {
		panic(fmt.Sprintf("machine: negative cycle count %d", n))
	}
	total := 0
	for total < n {
		total += m.Step()
	}
	return total
}

// RunFrame steps the machine until the pixel processor hands off the next
// completed frame. With the LCD disabled no frame ever completes, so the
// run is capped at one frame's worth of cycles.
func (m *Machine) RunFrame() *video.FrameBuffer {
	target := m.ppu.Frames() + 1
	elapsed := 0
	for m.ppu.Frames() < target && elapsed < video.FrameCycles {
		elapsed += m.Step()
	}
	return m.ppu.Frame()
}

func (m *Machine) Press(key memory.Key)   { m.bus.Joypad.Press(key) }
func (m *Machine) Release(key memory.Key) { m.bus.Joypad.Release(key) }

// Frame returns the last completed frame.
func (m *Machine) Frame() *video.FrameBuffer { return m.ppu.Frame() }

func (m *Machine) CPU() *cpu.CPU { return m.cpu }
func (m *Machine) PPU() *video.PPU { return m.ppu }
func (m *Machine) Bus() *memory.Bus { return m.bus }

func (m *Machine) Instructions() uint64 { return m.instructions }
func (m *Machine) Cycles() uint64 { return m.cycles }
