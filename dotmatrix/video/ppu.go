package video

import (
	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/bit"
	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

// Mode is the pixel processor state, numbered as reported in STAT bits
// 1-0.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOamSearch
	ModePixelTransfer
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOamSearch:
		return "OamSearch"
	case ModePixelTransfer:
		return "PixelTransfer"
	default:
		return "Unknown"
	}
}

const (
	oamSearchDots = 80
	lineDots      = 456
	totalLines    = 154

	// spriteStallDots is the fixed fetch cost charged per sprite overlay.
	spriteStallDots = 6

	// FrameCycles is the total dot count of one full frame.
	FrameCycles = lineDots * totalLines
)

// PPU owns video RAM, object attribute memory and the LCD registers, and
// runs the per-scanline mode machine. CPU access to its memories goes
// through the mode-gated accessors; the PPU itself reads them freely.
type PPU struct {
	irq *interrupt.Controller

	vram [0x2000]uint8
	oam  [0xA0]uint8

	lcdc uint8
	stat uint8 // only the interrupt enable bits 3-6 are stored
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	mode Mode
	dot  int // position within the current line

	// pixel transfer state
	fifo    pixelFIFO
	fetch   fetcher
	x       int
	discard int // SCX fine-scroll pixels to drop at line start
	stall   int
	sprites []ObjectEntry

	// window state
	windowLine   int
	windowActive bool

	back   *FrameBuffer
	front  *FrameBuffer
	frames uint64

	onFrame func(*FrameBuffer)
}

// New returns a PPU in the post-boot state: LCD on, at the start of the
// first scanline.
func New(irq *interrupt.Controller) *PPU {
	p := &PPU{
		irq:   irq,
		lcdc:  0x91,
		bgp:   0xFC,
		obp0:  0xFF,
		obp1:  0xFF,
		mode:  ModeOamSearch,
		back:  NewFrameBuffer(),
		front: NewFrameBuffer(),
	}
	p.fetch.ppu = p
	p.fetch.fifo = &p.fifo
	return p
}

// SetFrameHandler installs a callback invoked at every VBlank entry with
// the completed frame. The buffer is only valid until the next frame
// completes.
func (p *PPU) SetFrameHandler(fn func(*FrameBuffer)) {
	p.onFrame = fn
}

// Frame returns the last completed frame.
func (p *PPU) Frame() *FrameBuffer { return p.front }

func (p *PPU) Mode() Mode     { return p.mode }
func (p *PPU) Line() uint8    { return p.ly }
func (p *PPU) Frames() uint64 { return p.frames }

func (p *PPU) lcdEnabled() bool { return bit.IsSet(7, p.lcdc) }

// Tick advances the mode machine by the given number of dots. With the
// LCD disabled the machine is frozen and dots are discarded.
func (p *PPU) Tick(cycles int) {
	if !p.lcdEnabled() {
		return
	}
	for i := 0; i < cycles; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++

	switch p.mode {
	case ModeOamSearch:
		if p.dot == oamSearchDots {
			p.beginPixelTransfer()
		}
	case ModePixelTransfer:
		p.tickTransfer()
	case ModeHBlank:
		if p.dot == lineDots {
			p.dot = 0
			p.setLine(p.ly + 1)
			if p.ly == Height {
				p.beginVBlank()
			} else {
				p.setMode(ModeOamSearch)
			}
		}
	case ModeVBlank:
		if p.dot == lineDots {
			p.dot = 0
			if p.ly == totalLines-1 {
				p.setLine(0)
				p.windowLine = 0
				p.setMode(ModeOamSearch)
			} else {
				p.setLine(p.ly + 1)
			}
		}
	}
}

func (p *PPU) beginPixelTransfer() {
	p.setMode(ModePixelTransfer)

	p.x = 0
	p.discard = int(p.scx & 7)
	p.stall = 0
	p.windowActive = false
	p.fifo.clear()

	tall := bit.IsSet(2, p.lcdc)
	p.sprites = scanObjects(&p.oam, int(p.ly), tall)

	y := p.ly + p.scy
	p.fetch.start(p.bgMapBase(), y>>3, p.scx>>3, y&7)
}

func (p *PPU) tickTransfer() {
	if p.stall > 0 {
		p.stall--
		return
	}

	if i := p.pendingSprite(); i >= 0 {
		if p.fifo.len() < 8 {
			// the overlay needs a full row queued; keep fetching
			p.fetch.tick()
			return
		}
		s := p.sprites[i]
		p.sprites = append(p.sprites[:i], p.sprites[i+1:]...)
		p.fifo.overlay(p.spriteRow(s), s.Palette1(), s.BehindBG())
		p.stall = spriteStallDots - 1
		return
	}

	if p.maybeStartWindow() {
		return
	}

	p.fetch.tick()

	px, ok := p.fifo.pop()
	if !ok {
		return
	}
	if p.discard > 0 {
		p.discard--
		return
	}

	p.back.Set(p.x, int(p.ly), p.composeShade(px))
	p.x++
	if p.x == Width {
		if p.windowActive {
			p.windowLine++
		}
		p.setMode(ModeHBlank)
	}
}

// pendingSprite returns the index of the first unconsumed object whose
// left edge has been reached, in OAM order, or -1.
func (p *PPU) pendingSprite() int {
	if !bit.IsSet(1, p.lcdc) {
		return -1
	}
	for i := range p.sprites {
		if p.sprites[i].ScreenX() <= p.x {
			return i
		}
	}
	return -1
}

// spriteRow builds the eight overlay colors for the FIFO slice starting
// at the current column. Columns outside the sprite come out transparent.
func (p *PPU) spriteRow(s ObjectEntry) [8]uint8 {
	height := 8
	tile := s.Tile
	if bit.IsSet(2, p.lcdc) {
		height = 16
		tile &= 0xFE
	}

	line := int(p.ly) - s.ScreenY()
	if s.FlipY() {
		line = height - 1 - line
	}

	base := addr.TileDataUnsigned + uint16(tile)*16 + uint16(line)*2
	low := p.vramByte(base)
	high := p.vramByte(base + 1)

	var row [8]uint8
	for i := 0; i < 8; i++ {
		col := p.x + i - s.ScreenX()
		if col < 0 || col > 7 {
			continue
		}
		if s.FlipX() {
			col = 7 - col
		}
		shift := uint8(7 - col)
		row[i] = bit.Value(shift, high)<<1 | bit.Value(shift, low)
	}
	return row
}

// maybeStartWindow switches the fetcher onto the window map when the
// window's top-left corner is reached. The switch costs a fetcher
// restart; the dot is consumed.
func (p *PPU) maybeStartWindow() bool {
	if p.windowActive || !bit.IsSet(5, p.lcdc) || !bit.IsSet(0, p.lcdc) {
		return false
	}
	if int(p.ly) < int(p.wy) || p.x < int(p.wx)-7 {
		return false
	}

	p.windowActive = true
	p.fifo.clear()
	p.discard = 0
	line := uint8(p.windowLine)
	p.fetch.start(p.windowMapBase(), line>>3, 0, line&7)
	return true
}

func (p *PPU) bgMapBase() uint16 {
	if bit.IsSet(3, p.lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

func (p *PPU) windowMapBase() uint16 {
	if bit.IsSet(6, p.lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

func (p *PPU) composeShade(px pixel) Shade {
	if px.sprite {
		if px.behind && px.bgColor != 0 {
			return paletteShade(p.bgp, px.bgColor)
		}
		pal := p.obp0
		if px.objPal1 {
			pal = p.obp1
		}
		return paletteShade(pal, px.color)
	}
	return paletteShade(p.bgp, px.color)
}

func paletteShade(palette, color uint8) Shade {
	return Shade(palette >> (color * 2) & 3)
}

// setMode switches modes and raises the matching STAT interrupt when its
// enable bit is set.
func (p *PPU) setMode(mode Mode) {
	if p.mode == mode {
		return
	}
	p.mode = mode

	var enableBit uint8
	switch mode {
	case ModeHBlank:
		enableBit = 3
	case ModeVBlank:
		enableBit = 4
	case ModeOamSearch:
		enableBit = 5
	default:
		return // no STAT source for pixel transfer
	}
	if bit.IsSet(enableBit, p.stat) {
		p.irq.Request(interrupt.Stat)
	}
}

// setLine updates LY and re-evaluates the LYC comparison.
func (p *PPU) setLine(line uint8) {
	p.ly = line
	if p.ly == p.lyc && bit.IsSet(6, p.stat) {
		p.irq.Request(interrupt.Stat)
	}
}

func (p *PPU) beginVBlank() {
	p.setMode(ModeVBlank)
	p.irq.Request(interrupt.VBlank)

	p.back.CopyInto(p.front)
	p.frames++
	if p.onFrame != nil {
		p.onFrame(p.front)
	}
}

// vramByte is the PPU's own ungated VRAM access.
func (p *PPU) vramByte(address uint16) uint8 {
	return p.vram[address-0x8000]
}

// CPU-side accessors. VRAM is unreadable during pixel transfer, OAM
// during both search and transfer; blocked reads see 0xFF and blocked
// writes vanish. The gates lift whenever the LCD is off.

func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.lcdEnabled() && p.mode == ModePixelTransfer {
		return 0xFF
	}
	return p.vram[address-0x8000]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.lcdEnabled() && p.mode == ModePixelTransfer {
		return
	}
	p.vram[address-0x8000] = value
}

func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.lcdEnabled() && (p.mode == ModeOamSearch || p.mode == ModePixelTransfer) {
		return 0xFF
	}
	return p.oam[address-addr.OAMStart]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.lcdEnabled() && (p.mode == ModeOamSearch || p.mode == ModePixelTransfer) {
		return
	}
	p.oam[address-addr.OAMStart] = value
}

// LoadOAM is the DMA path; it bypasses the mode gate.
func (p *PPU) LoadOAM(address uint16, value uint8) {
	p.oam[address-addr.OAMStart] = value
}

func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		v := 0x80 | p.stat | uint8(p.mode)
		if p.ly == p.lyc {
			v = bit.Set(2, v)
		}
		return v
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		p.writeLCDC(value)
	case addr.STAT:
		// mode and coincidence bits are read-only
		p.stat = value & 0x78
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// read-only
	case addr.LYC:
		p.lyc = value
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

// writeLCDC handles the display enable bit: turning the LCD off freezes
// the machine at line 0 in HBlank, turning it back on restarts the frame
// from OAM search.
func (p *PPU) writeLCDC(value uint8) {
	wasEnabled := p.lcdEnabled()
	p.lcdc = value

	switch {
	case wasEnabled && !p.lcdEnabled():
		p.ly = 0
		p.dot = 0
		p.mode = ModeHBlank
		p.windowLine = 0
		p.back.Fill(White)
	case !wasEnabled && p.lcdEnabled():
		p.dot = 0
		p.mode = ModeOamSearch
		p.setLine(0)
	}
}
