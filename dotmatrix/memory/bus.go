// Package memory implements the address bus, cartridge mappers and the
// memory-mapped peripherals that are not big enough for their own package.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/audio"
	"github.com/echoram/dotmatrix/dotmatrix/bit"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
	"github.com/echoram/dotmatrix/dotmatrix/timer"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// maxAudioEvents caps the bus-owned recorder: a front end that never
// drains it only ever holds the most recent writes.
const maxAudioEvents = 4096

// regionMap resolves the high address byte to a region in one lookup.
var regionMap [256]region

func init() {
	for i := 0x00; i <= 0x7F; i++ {
		regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		regionMap[i] = regionEcho
	}
	regionMap[0xFE] = regionOAM
	regionMap[0xFF] = regionIO
}

// VideoUnit is the pixel processor as seen from the bus. The Read/Write
// methods are the CPU-side accessors and enforce mode gating; LoadOAM
// bypasses the gate for DMA transfers.
type VideoUnit interface {
	ReadVRAM(address uint16) uint8
	WriteVRAM(address uint16, value uint8)
	ReadOAM(address uint16) uint8
	WriteOAM(address uint16, value uint8)
	LoadOAM(address uint16, value uint8)
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// SerialPort is a device wired to SB/SC. Implementations only accept
// those two addresses.
type SerialPort interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(cycles int)
}

// Bus routes every CPU access to the owning component. Reads from
// contended or unmapped locations return 0xFF, writes there are dropped;
// nothing on the bus ever faults.
type Bus struct {
	cart   *Cartridge
	video  VideoUnit
	timer  *timer.Timer
	serial SerialPort
	irq    *interrupt.Controller

	Joypad *Joypad
	Audio  *audio.Recorder

	wram [0x2000]uint8
	hram [0x7F]uint8

	boot       []uint8
	bootLocked bool

	dma   uint8
	clock uint64
}

type BusOption func(*Bus)

// WithCartridge plugs a parsed cartridge into the ROM and external RAM
// ranges.
func WithCartridge(cart *Cartridge) BusOption {
	return func(b *Bus) { b.cart = cart }
}

// WithBootROM overlays image over 0x0000 until a write to 0xFF50 unmaps
// it.
func WithBootROM(image []uint8) BusOption {
	return func(b *Bus) { b.boot = image }
}

// WithSerialPort replaces the default logging sink.
func WithSerialPort(port SerialPort) BusOption {
	return func(b *Bus) { b.serial = port }
}

func NewBus(irq *interrupt.Controller, video VideoUnit, tmr *timer.Timer, opts ...BusOption) *Bus {
	b := &Bus{
		video:  video,
		timer:  tmr,
		irq:    irq,
		Joypad: NewJoypad(irq),
		Audio:  audio.NewRecorder(maxAudioEvents),
	}
	b.bootLocked = true
	for _, opt := range opts {
		opt(b)
	}
	if b.boot != nil {
		b.bootLocked = false
	}
	return b
}

// Tick advances the bus-owned peripherals and the cycle stamp used for
// audio events.
func (b *Bus) Tick(cycles int) {
	b.clock += uint64(cycles)
	if b.serial != nil {
		b.serial.Tick(cycles)
	}
}

// BootROMMapped reports whether the overlay still shadows 0x0000-0x00FF.
func (b *Bus) BootROMMapped() bool {
	return !b.bootLocked
}

func (b *Bus) Read(address uint16) uint8 {
	switch regionMap[address>>8] {
	case regionROM:
		if !b.bootLocked && int(address) < len(b.boot) {
			return b.boot[address]
		}
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(address)
	case regionVRAM:
		return b.video.ReadVRAM(address)
	case regionExtRAM:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(address)
	case regionWRAM:
		return b.wram[address-0xC000]
	case regionEcho:
		return b.wram[address-0xE000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return b.video.ReadOAM(address)
		}
		return 0xFF
	case regionIO:
		return b.readIO(address)
	default:
		panic(fmt.Sprintf("memory: unmapped read at 0x%04X", address))
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch regionMap[address>>8] {
	case regionROM:
		if b.cart != nil {
			b.cart.Write(address, value)
		}
	case regionVRAM:
		b.video.WriteVRAM(address, value)
	case regionExtRAM:
		if b.cart != nil {
			b.cart.Write(address, value)
		}
	case regionWRAM:
		b.wram[address-0xC000] = value
	case regionEcho:
		b.wram[address-0xE000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			b.video.WriteOAM(address, value)
		}
	case regionIO:
		b.writeIO(address, value)
	default:
		panic(fmt.Sprintf("memory: unmapped write at 0x%04X", address))
	}
}

// Read16 reads a little-endian word through two byte accesses.
func (b *Bus) Read16(address uint16) uint16 {
	return bit.Combine(b.Read(address+1), b.Read(address))
}

// Write16 stores a little-endian word through two byte accesses.
func (b *Bus) Write16(address uint16, value uint16) {
	b.Write(address, bit.Low(value))
	b.Write(address+1, bit.High(value))
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		if b.serial == nil {
			return 0xFF
		}
		return b.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.timer.Read(address)
	case address == addr.IF:
		return b.irq.ReadRequest()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.Audio.Read(address)
	case address == addr.DMA:
		return b.dma
	case address >= addr.LCDC && address <= addr.WX:
		return b.video.ReadRegister(address)
	case address >= 0xFF80 && address < addr.IE:
		return b.hram[address-0xFF80]
	case address == addr.IE:
		return b.irq.ReadEnable()
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		if b.serial != nil {
			b.serial.Write(address, value)
		}
	case address >= addr.DIV && address <= addr.TAC:
		b.timer.Write(address, value)
	case address == addr.IF:
		b.irq.WriteRequest(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.Audio.Write(address, value, b.clock)
	case address == addr.DMA:
		b.dma = value
		b.dmaTransfer(uint16(value) << 8)
	case address >= addr.LCDC && address <= addr.WX:
		b.video.WriteRegister(address, value)
	case address == addr.BootLock:
		if !b.bootLocked && value != 0 {
			b.bootLocked = true
			slog.Debug("boot ROM unmapped")
		}
	case address >= 0xFF80 && address < addr.IE:
		b.hram[address-0xFF80] = value
	case address == addr.IE:
		b.irq.WriteEnable(value)
	}
}

// dmaTransfer copies 160 bytes into OAM, bypassing the mode gate the CPU
// accessors enforce.
func (b *Bus) dmaTransfer(source uint16) {
	for i := uint16(0); i < 160; i++ {
		b.video.LoadOAM(addr.OAMStart+i, b.Read(source+i))
	}
}
