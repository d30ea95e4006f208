package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingPriority(t *testing.T) {
	testCases := []struct {
		desc    string
		enable  uint8
		request []Source
		want    Source
		ok      bool
	}{
		{desc: "nothing requested", enable: 0x1F, request: nil, ok: false},
		{desc: "nothing enabled", enable: 0x00, request: []Source{Timer}, ok: false},
		{desc: "single source", enable: 0x1F, request: []Source{Serial}, want: Serial, ok: true},
		{desc: "vblank beats timer", enable: 0x1F, request: []Source{Timer, VBlank}, want: VBlank, ok: true},
		{desc: "stat beats joypad", enable: 0x1F, request: []Source{Joypad, Stat}, want: Stat, ok: true},
		{desc: "masked vblank yields timer", enable: 0x1F &^ (1 << VBlank), request: []Source{Timer, VBlank}, want: Timer, ok: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := NewController()
			c.WriteEnable(tC.enable)
			for _, s := range tC.request {
				c.Request(s)
			}
			got, ok := c.Pending()
			assert.Equal(t, tC.ok, ok)
			if tC.ok {
				assert.Equal(t, tC.want, got)
			}
		})
	}
}

func TestAcknowledgeClearsSingleSource(t *testing.T) {
	c := NewController()
	c.WriteEnable(0x1F)
	c.Request(VBlank)
	c.Request(Timer)

	c.Acknowledge(VBlank)

	got, ok := c.Pending()
	assert.True(t, ok)
	assert.Equal(t, Timer, got)
}

func TestRequestRegisterUpperBitsReadAsOne(t *testing.T) {
	c := NewController()
	assert.Equal(t, uint8(0xE0), c.ReadRequest())

	c.Request(Joypad)
	assert.Equal(t, uint8(0xF0), c.ReadRequest())

	// writes only keep the low 5 bits
	c.WriteRequest(0xFF)
	assert.Equal(t, uint8(0xFF), c.ReadRequest())
	c.WriteRequest(0x00)
	assert.Equal(t, uint8(0xE0), c.ReadRequest())
}

func TestHasPendingIgnoresPriority(t *testing.T) {
	c := NewController()
	assert.False(t, c.HasPending())
	c.Request(Joypad)
	assert.False(t, c.HasPending(), "not enabled yet")
	c.WriteEnable(1 << Joypad)
	assert.True(t, c.HasPending())
}

func TestVectors(t *testing.T) {
	assert.Equal(t, uint16(0x40), VBlank.Vector())
	assert.Equal(t, uint16(0x48), Stat.Vector())
	assert.Equal(t, uint16(0x50), Timer.Vector())
	assert.Equal(t, uint16(0x58), Serial.Vector())
	assert.Equal(t, uint16(0x60), Joypad.Vector())
}
