package video

import "github.com/echoram/dotmatrix/dotmatrix/bit"

// maxObjectsPerLine is the hardware limit on sprites per scanline.
const maxObjectsPerLine = 10

// ObjectEntry is one decoded OAM slot. The stored coordinates keep the
// hardware offsets: Y is screen line + 16, X is screen column + 8.
type ObjectEntry struct {
	Y    uint8
	X    uint8
	Tile uint8
	attr uint8
}

// BehindBG makes the sprite show only over background color 0.
func (e ObjectEntry) BehindBG() bool { return bit.IsSet(7, e.attr) }
func (e ObjectEntry) FlipY() bool    { return bit.IsSet(6, e.attr) }
func (e ObjectEntry) FlipX() bool    { return bit.IsSet(5, e.attr) }
func (e ObjectEntry) Palette1() bool { return bit.IsSet(4, e.attr) }

// ScreenX is the left edge in screen coordinates; negative for sprites
// hanging off the left side.
func (e ObjectEntry) ScreenX() int { return int(e.X) - 8 }

// ScreenY is the top edge in screen coordinates.
func (e ObjectEntry) ScreenY() int { return int(e.Y) - 16 }

// scanObjects walks OAM in address order and selects the entries that
// intersect the given line, up to the per-line limit. Order is preserved:
// earlier entries win later pixel overlaps.
func scanObjects(oam *[0xA0]uint8, line int, tall bool) []ObjectEntry {
	height := 8
	if tall {
		height = 16
	}

	var selected []ObjectEntry
	for i := 0; i < 40 && len(selected) < maxObjectsPerLine; i++ {
		e := ObjectEntry{
			Y:    oam[i*4],
			X:    oam[i*4+1],
			Tile: oam[i*4+2],
			attr: oam[i*4+3],
		}
		top := e.ScreenY()
		if line >= top && line < top+height {
			selected = append(selected, e)
		}
	}
	return selected
}
