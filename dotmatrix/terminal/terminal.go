// Package terminal renders frames into a tcell screen, with keyboard
// input mapped onto the joypad.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/echoram/dotmatrix/dotmatrix"
	"github.com/echoram/dotmatrix/dotmatrix/memory"
	"github.com/echoram/dotmatrix/dotmatrix/video"
)

const (
	scaleX    = 2 // terminal cells are taller than wide
	frameTime = time.Second / 60
)

// shadeChars maps shades light to dark onto block characters.
var shadeChars = [4]rune{'░', '▒', '▓', '█'}

// keyHoldTime approximates a release for terminals, which only report
// key-down events.
const keyHoldTime = 6 // frames

// Renderer drives the machine and the screen from a single goroutine.
// The tcell event poller runs separately and only forwards key presses
// over a channel; it never touches the machine or the held map.
type Renderer struct {
	screen  tcell.Screen
	machine *dotmatrix.Machine

	keys chan memory.Key
	quit chan struct{}

	held map[memory.Key]int
}

func NewRenderer(machine *dotmatrix.Machine) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}

	return &Renderer{
		screen:  screen,
		machine: machine,
		keys:    make(chan memory.Key, 8),
		quit:    make(chan struct{}),
		held:    make(map[memory.Key]int),
	}, nil
}

// Run drives the machine at ~60 frames per second until interrupted.
func (r *Renderer) Run() error {
	defer r.screen.Fini()

	r.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	r.screen.Clear()

	go r.pollInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			frame := r.machine.RunFrame()
			r.releaseExpired()
			r.draw(frame)
			r.screen.Show()
		case key := <-r.keys:
			r.pressKey(key)
		case <-r.quit:
			return nil
		case <-signals:
			slog.Info("stopping renderer")
			return nil
		}
	}
}

func (r *Renderer) pollInput() {
	for {
		switch ev := r.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				close(r.quit)
				return
			}
			if key, ok := mapKey(ev); ok {
				select {
				case r.keys <- key:
				default: // input arriving faster than frames, drop it
				}
			}
		case *tcell.EventResize:
			r.screen.Sync()
		case nil:
			// screen finalized
			return
		}
	}
}

func mapKey(ev *tcell.EventKey) (memory.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return memory.KeyUp, true
	case tcell.KeyDown:
		return memory.KeyDown, true
	case tcell.KeyLeft:
		return memory.KeyLeft, true
	case tcell.KeyRight:
		return memory.KeyRight, true
	case tcell.KeyEnter:
		return memory.KeyStart, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a':
			return memory.KeyA, true
		case 's':
			return memory.KeyB, true
		case 'q':
			return memory.KeySelect, true
		}
	}
	return 0, false
}

func (r *Renderer) pressKey(key memory.Key) {
	r.machine.Press(key)
	r.held[key] = keyHoldTime
}

func (r *Renderer) releaseExpired() {
	for key, frames := range r.held {
		if frames <= 1 {
			r.machine.Release(key)
			delete(r.held, key)
			continue
		}
		r.held[key] = frames - 1
	}
}

func (r *Renderer) draw(frame *video.FrameBuffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			char := shadeChars[frame.At(x, y)]
			for sx := 0; sx < scaleX; sx++ {
				r.screen.SetContent(x*scaleX+sx, y, char, nil, style)
			}
		}
	}
}

// Snapshot writes a text rendering of a frame, one rune per pixel.
func Snapshot(frame *video.FrameBuffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for y := 0; y < video.Height; y++ {
		line := make([]rune, video.Width)
		for x := 0; x < video.Width; x++ {
			line[x] = shadeChars[frame.At(x, y)]
		}
		if _, err := fmt.Fprintln(file, string(line)); err != nil {
			return err
		}
	}
	return nil
}
