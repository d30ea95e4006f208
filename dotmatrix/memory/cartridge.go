package memory

import (
	"fmt"
	"strings"
	"unicode"
)

// Cartridge header field offsets.
const (
	titleAddress         = 0x0134
	titleLength          = 16
	cartridgeTypeAddress = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
	versionAddress       = 0x014C
	checksumAddress      = 0x014D

	headerEnd = 0x0150
)

// Cartridge is a parsed ROM image with its banking chip.
type Cartridge struct {
	mapper Mapper

	title    string
	cartType uint8
	version  uint8
	romBanks int
	ramBanks int
}

// ramBankCounts maps the header RAM size code to 8KB bank counts.
var ramBankCounts = [6]int{0, 0, 1, 4, 16, 8}

// NewCartridge parses a ROM image header and wires up the matching banking
// chip. Only unbanked carts and MBC1 variants are supported.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("cartridge: image too small (%d bytes)", len(data))
	}

	romSizeCode := data[romSizeAddress]
	if romSizeCode > 8 {
		return nil, fmt.Errorf("cartridge: unknown ROM size code 0x%02X", romSizeCode)
	}
	romBanks := 2 << romSizeCode
	if want := romBanks * 0x4000; len(data) < want {
		return nil, fmt.Errorf("cartridge: header declares %d banks but image is %d bytes", romBanks, len(data))
	}

	ramSizeCode := data[ramSizeAddress]
	if int(ramSizeCode) >= len(ramBankCounts) {
		return nil, fmt.Errorf("cartridge: unknown RAM size code 0x%02X", ramSizeCode)
	}
	ramBanks := ramBankCounts[ramSizeCode]

	c := &Cartridge{
		title:    cleanTitle(data[titleAddress : titleAddress+titleLength]),
		cartType: data[cartridgeTypeAddress],
		version:  data[versionAddress],
		romBanks: romBanks,
		ramBanks: ramBanks,
	}

	// bank arithmetic in the mappers relies on the image being exactly the
	// declared size; trailing bytes past the last bank are dropped
	rom := make([]uint8, romBanks*0x4000)
	copy(rom, data)

	switch c.cartType {
	case 0x00, 0x08, 0x09:
		c.mapper = newROMOnly(rom)
	case 0x01, 0x02, 0x03:
		c.mapper = newMBC1(rom, ramBanks)
	default:
		return nil, fmt.Errorf("cartridge: unsupported mapper type 0x%02X", c.cartType)
	}

	return c, nil
}

// HeaderChecksumOK recomputes the 0x0134-0x014C checksum and compares it
// to the stored byte, the same check the boot ROM performs.
func (c *Cartridge) HeaderChecksumOK() bool {
	var sum uint8
	for address := uint16(titleAddress); address < checksumAddress; address++ {
		sum = sum - c.mapper.Read(address) - 1
	}
	return sum == c.mapper.Read(checksumAddress)
}

func (c *Cartridge) Title() string { return c.title }
func (c *Cartridge) Version() uint8 { return c.version }
func (c *Cartridge) ROMBanks() int { return c.romBanks }
func (c *Cartridge) RAMBanks() int { return c.ramBanks }

func (c *Cartridge) Read(address uint16) uint8 {
	return c.mapper.Read(address)
}

func (c *Cartridge) Write(address uint16, value uint8) {
	c.mapper.Write(address, value)
}

// cleanTitle turns the raw header bytes into something printable: null
// padding becomes spaces, anything unprintable becomes '?'.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	return strings.TrimSpace(string(runes))
}
