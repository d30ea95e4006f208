package video

// pixel is one entry of the pixel FIFO. Background pixels carry only a
// color index; a sprite overlay rewrites the entry in place and keeps the
// background index around for behind-background priority.
type pixel struct {
	color   uint8 // 2-bit tile color index
	sprite  bool
	objPal1 bool  // sprite uses OBP1 instead of OBP0
	behind  bool  // sprite drawn only over background color 0
	bgColor uint8 // background index underneath a sprite pixel
}

const fifoCap = 16

// pixelFIFO is a fixed ring of pixel descriptors. The fetcher pushes
// eight at a time, the transfer loop pops one per dot.
type pixelFIFO struct {
	buf  [fifoCap]pixel
	head int
	size int
}

func (q *pixelFIFO) clear() {
	q.head, q.size = 0, 0
}

func (q *pixelFIFO) len() int {
	return q.size
}

// room reports whether a full tile row fits.
func (q *pixelFIFO) room() bool {
	return q.size <= fifoCap-8
}

func (q *pixelFIFO) push(p pixel) {
	if q.size == fifoCap {
		panic("video: pixel FIFO overflow")
	}
	q.buf[(q.head+q.size)%fifoCap] = p
	q.size++
}

func (q *pixelFIFO) pop() (pixel, bool) {
	if q.size == 0 {
		return pixel{}, false
	}
	p := q.buf[q.head]
	q.head = (q.head + 1) % fifoCap
	q.size--
	return p, true
}

// overlay merges a sprite row onto the first eight queued pixels.
// Transparent sprite pixels (color 0) never overlay, and a slot already
// claimed by an earlier sprite keeps it: the first object found during
// the scan wins overlaps.
func (q *pixelFIFO) overlay(row [8]uint8, objPal1, behind bool) {
	n := min(q.size, 8)
	for i := 0; i < n; i++ {
		if row[i] == 0 {
			continue
		}
		p := &q.buf[(q.head+i)%fifoCap]
		if p.sprite {
			continue
		}
		*p = pixel{
			color:   row[i],
			sprite:  true,
			objPal1: objPal1,
			behind:  behind,
			bgColor: p.color,
		}
	}
}
