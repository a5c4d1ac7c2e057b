package mapper

import "github.com/nescore/gones/pkg/logger"

// Mapper1 implements MMC1: a single serial-shift-register port at
// $8000-$FFFF feeds four internal registers (control, two CHR banks, one
// PRG bank) one bit at a time, five writes per register. Any write with
// bit 7 set resets the shift register and forces PRG mode 3 regardless of
// how many bits had already been shifted in.
type Mapper1 struct {
	data *CartridgeData

	shiftReg   uint8 // accumulates 5 bits before committing to a register
	shiftCount uint8

	control  uint8 // $8000-$9FFF: mirroring/prgMode/chrMode packed together
	chrBank0 uint8 // $A000-$BFFF
	chrBank1 uint8 // $C000-$DFFF
	prgBank  uint8 // $E000-$FFFF

	prgMode   uint8 // 0/1: 32KB switchable; 2: fix low, switch high; 3: fix high, switch low
	chrMode   uint8 // 0: 8KB switchable; 1: two independent 4KB banks
	mirroring uint8
}

// NewMapper1 creates a new Mapper1 instance
func NewMapper1(data *CartridgeData) *Mapper1 {
	return &Mapper1{
		data:    data,
		control: 0x0C,
		prgMode: 3,
	}
}

// ReadPRG reads from PRG ROM/RAM according to the current banking mode.
func (m *Mapper1) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		if addr >= 0x6000 && len(m.data.PRGRAM) > 0 && m.prgRAMEnabled() {
			offset := addr - 0x6000
			if int(offset) < len(m.data.PRGRAM) {
				return m.data.PRGRAM[offset]
			}
		}
		return 0
	}

	offset := addr - 0x8000
	prgSize := len(m.data.PRGROM)

	switch m.prgMode {
	case 0, 1: // 32KB: ignore the low bit of the bank register
		bank := uint32(m.prgBank >> 1)
		idx := bank*0x8000 + uint32(offset)
		if int(idx) < prgSize {
			return m.data.PRGROM[idx]
		}

	case 2: // first bank fixed at $8000, switchable bank at $C000
		if offset < 0x4000 {
			if int(offset) < prgSize {
				return m.data.PRGROM[offset]
			}
		} else {
			bank := uint32(m.prgBank & 0x0F)
			idx := bank*0x4000 + uint32(offset-0x4000)
			if int(idx) < prgSize {
				return m.data.PRGROM[idx]
			}
		}

	case 3: // switchable bank at $8000, last bank fixed at $C000
		if offset < 0x4000 {
			bank := uint32(m.prgBank & 0x0F)
			idx := bank*0x4000 + uint32(offset)
			if int(idx) < prgSize {
				return m.data.PRGROM[idx]
			}
		} else {
			lastBank := uint32(prgSize/0x4000) - 1
			idx := lastBank*0x4000 + uint32(offset-0x4000)
			if int(idx) < prgSize {
				return m.data.PRGROM[idx]
			}
		}
	}
	return 0
}

// prgRAMEnabled reports whether PRG RAM is readable/writable; the PRG bank
// register's bit 4 disables it on boards that wire it up that way.
func (m *Mapper1) prgRAMEnabled() bool {
	return m.prgBank&0x10 == 0
}

// WritePRG feeds the serial port one bit at a time, or writes PRG RAM below
// $8000.
func (m *Mapper1) WritePRG(addr uint16, value uint8) {
	if addr < 0x8000 {
		if addr >= 0x6000 && len(m.data.PRGRAM) > 0 && m.prgRAMEnabled() {
			offset := addr - 0x6000
			if int(offset) < len(m.data.PRGRAM) {
				m.data.PRGRAM[offset] = value
			}
		}
		return
	}

	if value&0x80 != 0 {
		m.shiftReg = 0
		m.shiftCount = 0
		m.control |= 0x0C
		m.prgMode = 3
		return
	}

	m.shiftReg = (m.shiftReg >> 1) | ((value & 1) << 4)
	m.shiftCount++
	if m.shiftCount != 5 {
		return
	}

	m.commitRegister(addr, m.shiftReg)
	m.shiftReg = 0
	m.shiftCount = 0
}

// commitRegister latches a completed 5-bit shift into one of MMC1's four
// registers, selected by which $8000-aligned quadrant the fifth write fell in.
func (m *Mapper1) commitRegister(addr uint16, value uint8) {
	switch {
	case addr <= 0x9FFF:
		m.control = value
		m.mirroring = value & 3
		m.prgMode = (value >> 2) & 3
		m.chrMode = (value >> 4) & 1
		logger.LogMapper("MMC1 control=%#02x prgMode=%d chrMode=%d mirroring=%d", value, m.prgMode, m.chrMode, m.mirroring)

	case addr <= 0xBFFF:
		m.chrBank0 = value

	case addr <= 0xDFFF:
		m.chrBank1 = value

	default:
		m.prgBank = value
		logger.LogMapper("MMC1 PRG bank=%#02x", value)
	}
}

// ReadCHR reads from CHR ROM/RAM with the current 8KB-or-4KB+4KB banking.
func (m *Mapper1) ReadCHR(addr uint16) uint8 {
	if len(m.data.CHRROM) > 0 {
		chrSize := len(m.data.CHRROM)
		var offset uint32

		if m.chrMode == 0 {
			bank := uint32(m.chrBank0 >> 1)
			offset = bank*0x2000 + uint32(addr)
		} else if addr < 0x1000 {
			offset = uint32(m.chrBank0)*0x1000 + uint32(addr)
		} else {
			offset = uint32(m.chrBank1)*0x1000 + uint32(addr-0x1000)
		}

		if int(offset) < chrSize {
			return m.data.CHRROM[offset]
		}
		return 0
	}

	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		return m.data.CHRRAM[addr]
	}
	return 0
}

// WriteCHR writes to CHR RAM; CHR ROM carts ignore it.
func (m *Mapper1) WriteCHR(addr uint16, value uint8) {
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		m.data.CHRRAM[addr] = value
	}
}

// Step is a no-op: MMC1 has no IRQ line.
func (m *Mapper1) Step() {}

// IsIRQPending is always false: MMC1 never generates mapper IRQs.
func (m *Mapper1) IsIRQPending() bool {
	return false
}

// ClearIRQ is a no-op.
func (m *Mapper1) ClearIRQ() {}

// GetMirroringMode returns the nametable mirroring mode selected by the
// control register (0: one-screen lower, 1: one-screen upper, 2: vertical,
// 3: horizontal), picked up by Cartridge.GetMirroring's dynamic-mirroring
// check the same way it already picks up Mapper4's.
func (m *Mapper1) GetMirroringMode() uint8 {
	return m.mirroring
}
