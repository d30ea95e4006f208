// Package addr collects the memory-mapped register addresses of the DMG.
package addr

// joypad
const (
	// P1 selects and reads the joypad button matrix.
	P1 uint16 = 0xFF00
)

// serial I/O
const (
	// SB holds the byte being shifted out (and, after a transfer, the byte
	// shifted in; 0xFF when no peer is connected).
	SB uint16 = 0xFF01
	// SC controls serial transfers. Bit 7 starts a transfer and is cleared by
	// hardware on completion, bit 0 selects the internal clock.
	SC uint16 = 0xFF02
)

// timer
const (
	// DIV is the visible upper byte of the free-running 16-bit divider.
	// Writing any value resets the whole divider.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter. Overflow reloads it from TMA and requests
	// the Timer interrupt.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo, loaded into TIMA on overflow.
	TMA uint16 = 0xFF06
	// TAC enables the timer (bit 2) and selects the prescaler rate (bits 1-0).
	TAC uint16 = 0xFF07
)

// pixel processor registers
const (
	// LCDC is the LCD control register.
	LCDC uint16 = 0xFF40
	// STAT is the LCD status register: mode bits, LYC coincidence and the
	// four STAT interrupt enables.
	STAT uint16 = 0xFF41
	// SCY is the background vertical scroll.
	SCY uint16 = 0xFF42
	// SCX is the background horizontal scroll.
	SCX uint16 = 0xFF43
	// LY is the current scanline (read-only).
	LY uint16 = 0xFF44
	// LYC is the scanline compare value.
	LYC uint16 = 0xFF45
	// DMA starts a 160-byte OAM transfer from value<<8.
	DMA uint16 = 0xFF46
	// BGP is the background/window palette.
	BGP uint16 = 0xFF47
	// OBP0 is object palette 0.
	OBP0 uint16 = 0xFF48
	// OBP1 is object palette 1.
	OBP1 uint16 = 0xFF49
	// WY is the window top coordinate.
	WY uint16 = 0xFF4A
	// WX is the window left coordinate plus 7.
	WX uint16 = 0xFF4B
)

// sound I/O range. The core performs no synthesis; writes in this range are
// observable as timed events (see the audio package).
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F
)

// boot ROM
const (
	// BootLock unmaps the boot ROM overlay. Any nonzero write is permanent
	// until power-on.
	BootLock uint16 = 0xFF50
)

// interrupts
const (
	// IF is the interrupt request register.
	IF uint16 = 0xFF0F
	// IE is the interrupt enable register.
	IE uint16 = 0xFFFF
)

// object attribute memory
const (
	// OAMStart is the first byte of OAM (40 entries, 4 bytes each).
	OAMStart uint16 = 0xFE00
	// OAMEnd is the last byte of OAM.
	OAMEnd uint16 = 0xFE9F
)

// tile data and tile maps
const (
	// TileDataUnsigned is the base of 0x8000-addressed tile data.
	TileDataUnsigned uint16 = 0x8000
	// TileDataSigned is the base of 0x8800/0x9000 signed-addressed tile data.
	TileDataSigned uint16 = 0x9000

	// TileMap0 is background/window tile map 0.
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1.
	TileMap1 uint16 = 0x9C00
)
