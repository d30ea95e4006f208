package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bankedROM(banks int) []uint8 {
	rom := make([]uint8, banks*0x4000)
	for i := range rom {
		rom[i] = uint8(i / 0x4000)
	}
	return rom
}

func TestROMOnly(t *testing.T) {
	rom := make([]uint8, 0x8000)
	rom[0x1234] = 0x42
	m := newROMOnly(rom)

	assert.Equal(t, uint8(0x42), m.Read(0x1234))

	m.Write(0x1234, 0x99)
	assert.Equal(t, uint8(0x42), m.Read(0x1234), "ROM writes dropped")
}

func TestMBC1BankSwitching(t *testing.T) {
	m := newMBC1(bankedROM(8), 0)

	assert.Equal(t, uint8(0), m.Read(0x0000), "bank 0 fixed")
	assert.Equal(t, uint8(1), m.Read(0x4000), "bank 1 selected at reset")

	m.Write(0x2000, 0x03)
	assert.Equal(t, uint8(3), m.Read(0x4000))
	assert.Equal(t, uint8(0), m.Read(0x0000), "bank 0 unaffected")
}

func TestMBC1BankZeroRemap(t *testing.T) {
	m := newMBC1(bankedROM(4), 0)
	m.Write(0x2000, 0x00)
	assert.Equal(t, uint8(1), m.Read(0x4000), "selecting bank 0 yields bank 1")
}

func TestMBC1BankWrapsPastROMEnd(t *testing.T) {
	m := newMBC1(bankedROM(4), 0)
	m.Write(0x2000, 0x05) // only banks 0-3 exist
	assert.Equal(t, uint8(1), m.Read(0x4000))
}

func TestMBC1RAM(t *testing.T) {
	m := newMBC1(bankedROM(2), 4)

	assert.Equal(t, uint8(0xFF), m.Read(0xA000), "RAM disabled at reset")
	m.Write(0xA000, 0x42)

	m.Write(0x0000, 0x0A) // enable
	assert.Equal(t, uint8(0x00), m.Read(0xA000), "write while disabled was dropped")

	m.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0xA000))

	// switch RAM bank in mode 1
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x01)
	assert.Equal(t, uint8(0x00), m.Read(0xA000), "bank 1 is fresh")
	m.Write(0x4000, 0x00)
	assert.Equal(t, uint8(0x42), m.Read(0xA000), "bank 0 kept its data")

	m.Write(0x0000, 0x00) // disable again
	assert.Equal(t, uint8(0xFF), m.Read(0xA000))
}

func TestMBC1UpperBankBits(t *testing.T) {
	m := newMBC1(bankedROM(64), 0)

	m.Write(0x2000, 0x01)
	m.Write(0x4000, 0x01) // mode 0: bits 5-6 of the ROM bank
	assert.Equal(t, uint8(0x21), m.Read(0x4000))
}
