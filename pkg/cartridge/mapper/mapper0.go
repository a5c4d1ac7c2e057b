package mapper

import "github.com/nescore/gones/pkg/logger"

// Mapper0 implements NROM: no bank switching at all. PRG ROM is either
// 16KB (mirrored across both halves of $8000-$FFFF) or 32KB (mapped
// straight through), and CHR is whatever ROM or RAM the cartridge shipped
// with, also mapped straight through.
type Mapper0 struct {
	data *CartridgeData
}

// NewMapper0 creates a new Mapper0 instance
func NewMapper0(data *CartridgeData) *Mapper0 {
	logger.LogMapper("NROM: PRG=%dKB CHR=%dKB", len(data.PRGROM)/1024, len(data.CHRROM)/1024)
	return &Mapper0{data: data}
}

// ReadPRG reads from PRG ROM, or PRG RAM below $8000 if the cartridge has any.
func (m *Mapper0) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		offset := addr - 0x8000
		if len(m.data.PRGROM) == 16*1024 {
			offset %= 16 * 1024 // NROM-128: $C000-$FFFF mirrors $8000-$BFFF
		}
		if int(offset) < len(m.data.PRGROM) {
			return m.data.PRGROM[offset]
		}

	case addr >= 0x6000 && len(m.data.PRGRAM) > 0:
		offset := addr - 0x6000
		if int(offset) < len(m.data.PRGRAM) {
			return m.data.PRGRAM[offset]
		}
	}
	return 0
}

// WritePRG writes to PRG RAM; NROM has no registers, so writes into ROM space
// are simply discarded.
func (m *Mapper0) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.data.PRGRAM) > 0 {
		offset := addr - 0x6000
		if int(offset) < len(m.data.PRGRAM) {
			m.data.PRGRAM[offset] = value
		}
	}
}

// ReadCHR reads from CHR ROM if present, else CHR RAM.
func (m *Mapper0) ReadCHR(addr uint16) uint8 {
	if len(m.data.CHRROM) > 0 {
		if int(addr) < len(m.data.CHRROM) {
			return m.data.CHRROM[addr]
		}
		return 0
	}
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		return m.data.CHRRAM[addr]
	}
	return 0
}

// WriteCHR writes to CHR RAM. Writes to CHR ROM carts are ignored.
func (m *Mapper0) WriteCHR(addr uint16, value uint8) {
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		m.data.CHRRAM[addr] = value
	}
}

// Step is a no-op: NROM has no IRQ or banking state to advance.
func (m *Mapper0) Step() {}

// IsIRQPending is always false: NROM carts never generate mapper IRQs.
func (m *Mapper0) IsIRQPending() bool {
	return false
}

// ClearIRQ is a no-op.
func (m *Mapper0) ClearIRQ() {}
