// Package video implements the pixel processor: the per-scanline mode
// machine, the tile fetch pipeline and the composited frame buffer.
package video

// Screen dimensions in pixels.
const (
	Width  = 160
	Height = 144
)

// Shade is a final monochrome pixel value after palette lookup.
type Shade uint8

const (
	White Shade = iota
	LightGray
	DarkGray
	Black
)

// FrameBuffer holds one composited frame in raster order.
type FrameBuffer struct {
	pixels [Width * Height]Shade
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) At(x, y int) Shade {
	return fb.pixels[y*Width+x]
}

func (fb *FrameBuffer) Set(x, y int, s Shade) {
	fb.pixels[y*Width+x] = s
}

// Pixels exposes the raw raster-order buffer; callers must not hold the
// slice across frames.
func (fb *FrameBuffer) Pixels() []Shade {
	return fb.pixels[:]
}

func (fb *FrameBuffer) CopyInto(dst *FrameBuffer) {
	dst.pixels = fb.pixels
}

// Fill paints the whole buffer one shade, used when the LCD is disabled.
func (fb *FrameBuffer) Fill(s Shade) {
	for i := range fb.pixels {
		fb.pixels[i] = s
	}
}
