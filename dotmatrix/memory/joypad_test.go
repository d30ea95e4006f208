package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echoram/dotmatrix/dotmatrix/interrupt"
)

func newTestJoypad() (*Joypad, *interrupt.Controller) {
	irq := interrupt.NewController()
	irq.WriteEnable(0xFF)
	return NewJoypad(irq), irq
}

func TestJoypadIdleReads(t *testing.T) {
	j, _ := newTestJoypad()

	j.Write(0x00) // neither group selected
	assert.Equal(t, uint8(0xCF), j.Read())

	j.Write(0x30)
	assert.Equal(t, uint8(0xFF), j.Read())
}

func TestJoypadGroupSelection(t *testing.T) {
	j, _ := newTestJoypad()
	j.Press(KeyA)
	j.Press(KeyDown)

	j.Write(0x20) // d-pad
	assert.Equal(t, uint8(0xE7), j.Read())

	j.Write(0x10) // buttons
	assert.Equal(t, uint8(0xDE), j.Read())

	j.Write(0x00) // both: lines AND together
	assert.Equal(t, uint8(0xC6), j.Read())
}

func TestJoypadReleaseRestoresLine(t *testing.T) {
	j, _ := newTestJoypad()
	j.Write(0x10)

	j.Press(KeyStart)
	assert.Equal(t, uint8(0xD7), j.Read())
	j.Release(KeyStart)
	assert.Equal(t, uint8(0xDF), j.Read())
}

func TestJoypadInterruptOnSelectedPress(t *testing.T) {
	j, irq := newTestJoypad()

	j.Write(0x10) // buttons selected
	j.Press(KeyB)
	source, ok := irq.Pending()
	assert.True(t, ok)
	assert.Equal(t, interrupt.Joypad, source)
}

func TestJoypadNoInterruptOnUnselectedPress(t *testing.T) {
	j, irq := newTestJoypad()

	j.Write(0x10) // buttons selected, press a direction
	j.Press(KeyUp)
	_, ok := irq.Pending()
	assert.False(t, ok)
}

func TestJoypadLowNibbleWriteIgnored(t *testing.T) {
	j, _ := newTestJoypad()
	j.Write(0x3F)
	assert.Equal(t, uint8(0xFF), j.Read())
}
