package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineHighLow(t *testing.T) {
	testCases := []struct {
		desc      string
		high, low uint8
		want      uint16
	}{
		{desc: "zero", high: 0x00, low: 0x00, want: 0x0000},
		{desc: "high only", high: 0xAB, low: 0x00, want: 0xAB00},
		{desc: "low only", high: 0x00, low: 0xCD, want: 0x00CD},
		{desc: "both", high: 0x12, low: 0x34, want: 0x1234},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			combined := Combine(tC.high, tC.low)
			assert.Equal(t, tC.want, combined)
			assert.Equal(t, tC.high, High(combined))
			assert.Equal(t, tC.low, Low(combined))
		})
	}
}

func TestSetClear(t *testing.T) {
	var b uint8
	for i := uint8(0); i < 8; i++ {
		b = Set(i, b)
		assert.True(t, IsSet(i, b))
		assert.Equal(t, uint8(1), Value(i, b))
	}
	assert.Equal(t, uint8(0xFF), b)
	for i := uint8(0); i < 8; i++ {
		b = Clear(i, b)
		assert.False(t, IsSet(i, b))
	}
	assert.Equal(t, uint8(0), b)
}

func TestIsSet16(t *testing.T) {
	assert.True(t, IsSet16(9, 1<<9))
	assert.False(t, IsSet16(9, 1<<8))
	assert.True(t, IsSet16(15, 0x8000))
}
