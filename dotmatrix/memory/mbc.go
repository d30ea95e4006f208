package memory

// Mapper handles cartridge-space accesses: ROM at 0x0000-0x7FFF and
// external RAM at 0xA000-0xBFFF. Bank switching happens through writes
// into the ROM range.
type Mapper interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// romOnly maps a 32KB image straight into the ROM range. No banking, no
// external RAM.
type romOnly struct {
	rom []uint8
}

func newROMOnly(rom []uint8) *romOnly {
	return &romOnly{rom: rom}
}

func (m *romOnly) Read(address uint16) uint8 {
	if int(address) < len(m.rom) {
		return m.rom[address]
	}
	return 0xFF
}

func (m *romOnly) Write(address uint16, value uint8) {}

// mbc1 implements the most common banking chip: up to 2MB of ROM in 16KB
// banks and up to 32KB of RAM in 8KB banks. Bank 0 is fixed at
// 0x0000-0x3FFF, the selected bank appears at 0x4000-0x7FFF.
type mbc1 struct {
	rom []uint8
	ram []uint8

	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	mode       uint8 // 0 = ROM banking, 1 = RAM banking
}

func newMBC1(rom []uint8, ramBanks int) *mbc1 {
	return &mbc1{
		rom:     rom,
		ram:     make([]uint8, ramBanks*0x2000),
		romBank: 1,
	}
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(address-0x4000)]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[m.ramOffset(address)]
	default:
		return 0xFF
	}
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = m.romBank&0x60 | bank
	case address <= 0x5FFF:
		if m.mode == 0 {
			m.romBank = m.romBank&0x1F | value&0x03<<5
		} else {
			m.ramBank = value & 0x03
		}
	case address <= 0x7FFF:
		m.mode = value & 0x01
		if m.mode == 1 {
			m.romBank &= 0x1F
		}
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		m.ram[m.ramOffset(address)] = value
	}
}

func (m *mbc1) ramOffset(address uint16) uint32 {
	offset := uint32(m.ramBank) * 0x2000
	if offset >= uint32(len(m.ram)) {
		offset %= uint32(len(m.ram))
	}
	return offset + uint32(address-0xA000)
}
