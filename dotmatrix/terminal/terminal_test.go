package terminal

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoram/dotmatrix/dotmatrix"
	"github.com/echoram/dotmatrix/dotmatrix/addr"
	"github.com/echoram/dotmatrix/dotmatrix/memory"
	"github.com/echoram/dotmatrix/dotmatrix/video"
)

// newTestRenderer builds a renderer without a screen; the machine and
// input state are exercised directly.
func newTestRenderer() *Renderer {
	return &Renderer{
		machine: dotmatrix.New(),
		keys:    make(chan memory.Key, 8),
		quit:    make(chan struct{}),
		held:    make(map[memory.Key]int),
	}
}

func TestPressAndAutoRelease(t *testing.T) {
	r := newTestRenderer()
	bus := r.machine.Bus()
	bus.Write(addr.P1, 0x10) // select buttons

	r.pressKey(memory.KeyA)
	assert.Equal(t, uint8(0xDE), bus.Read(addr.P1))
	assert.Equal(t, keyHoldTime, r.held[memory.KeyA])

	for i := 0; i < keyHoldTime; i++ {
		r.releaseExpired()
	}
	assert.Equal(t, uint8(0xDF), bus.Read(addr.P1), "expired key released")
	assert.Empty(t, r.held)
}

func TestRepressResetsHoldTimer(t *testing.T) {
	r := newTestRenderer()

	r.pressKey(memory.KeyStart)
	r.releaseExpired()
	r.pressKey(memory.KeyStart)
	assert.Equal(t, keyHoldTime, r.held[memory.KeyStart])
}

func TestKeyMap(t *testing.T) {
	testCases := []struct {
		desc string
		ev   *tcell.EventKey
		key  memory.Key
		ok   bool
	}{
		{desc: "up arrow", ev: tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), key: memory.KeyUp, ok: true},
		{desc: "enter is start", ev: tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key: memory.KeyStart, ok: true},
		{desc: "a button", ev: tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), key: memory.KeyA, ok: true},
		{desc: "q is select", ev: tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), key: memory.KeySelect, ok: true},
		{desc: "unmapped rune", ev: tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ok: false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			key, ok := mapKey(tC.ev)
			assert.Equal(t, tC.ok, ok)
			if tC.ok {
				assert.Equal(t, tC.key, key)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	frame := video.NewFrameBuffer()
	frame.Fill(video.Black)
	frame.Set(0, 0, video.White)

	path := filepath.Join(t.TempDir(), "frame.txt")
	require.NoError(t, Snapshot(frame, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lines := 0
	for scanner.Scan() {
		runes := []rune(scanner.Text())
		require.Len(t, runes, video.Width)
		if lines == 0 {
			assert.Equal(t, shadeChars[video.White], runes[0])
			assert.Equal(t, shadeChars[video.Black], runes[1])
		}
		lines++
	}
	assert.Equal(t, video.Height, lines)
}
