package video

import (
	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/bit"
)

type fetchState uint8

const (
	fetchTileNo fetchState = iota
	fetchLow
	fetchHigh
	fetchPush
)

// fetcher is the background/window half of the fetch pipeline. It is
// re-entrant at dot granularity: each of the read states takes two dots,
// the push state retries every dot until the FIFO has room for a row.
type fetcher struct {
	ppu  *PPU
	fifo *pixelFIFO

	state     fetchState
	secondDot bool

	mapBase uint16
	mapRow  uint8 // tile row in the map, 0..31
	tileX   uint8 // map column, wraps at 32
	fineY   uint8 // line within the tile

	tileNo    uint8
	low, high uint8
}

// start resets the pipeline onto a tile map row. Called at the beginning
// of pixel transfer and again when the window takes over mid-line.
func (f *fetcher) start(mapBase uint16, mapRow, tileX, fineY uint8) {
	f.state = fetchTileNo
	f.secondDot = false
	f.mapBase = mapBase
	f.mapRow = mapRow & 31
	f.tileX = tileX & 31
	f.fineY = fineY & 7
}

// tick advances the pipeline by one dot.
func (f *fetcher) tick() {
	if f.state != fetchPush {
		f.secondDot = !f.secondDot
		if f.secondDot {
			return
		}
	}

	switch f.state {
	case fetchTileNo:
		f.tileNo = f.ppu.vramByte(f.mapBase + uint16(f.mapRow)*32 + uint16(f.tileX))
		f.state = fetchLow
	case fetchLow:
		f.low = f.ppu.vramByte(f.dataAddress())
		f.state = fetchHigh
	case fetchHigh:
		f.high = f.ppu.vramByte(f.dataAddress() + 1)
		f.state = fetchPush
	case fetchPush:
		if !f.fifo.room() {
			return
		}
		f.pushRow()
		f.tileX = (f.tileX + 1) & 31
		f.state = fetchTileNo
	}
}

// dataAddress resolves the tile data location under the LCDC addressing
// mode: unsigned from 0x8000 or signed around 0x9000.
func (f *fetcher) dataAddress() uint16 {
	line := uint16(f.fineY) * 2
	if bit.IsSet(4, f.ppu.lcdc) {
		return addr.TileDataUnsigned + uint16(f.tileNo)*16 + line
	}
	return uint16(int32(addr.TileDataSigned) + int32(int8(f.tileNo))*16 + int32(line))
}

// pushRow decodes the fetched tile row into eight FIFO pixels. With the
// background layer disabled the row degrades to color 0.
func (f *fetcher) pushRow() {
	bgEnabled := bit.IsSet(0, f.ppu.lcdc)
	for px := uint8(8); px > 0; px-- {
		var color uint8
		if bgEnabled {
			color = bit.Value(px-1, f.high)<<1 | bit.Value(px-1, f.low)
		}
		f.fifo.push(pixel{color: color})
	}
}
