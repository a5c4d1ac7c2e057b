package mapper

import "github.com/nescore/gones/pkg/logger"

// Mapper2 implements UxROM: a single 16KB switchable bank at $8000-$BFFF,
// with $C000-$FFFF fixed to the last bank in the ROM so the reset/IRQ
// vectors always resolve regardless of which bank is selected. CHR is
// always RAM on UxROM boards (some clones wire up CHR ROM instead, which
// this also serves, just without banking).
type Mapper2 struct {
	data *CartridgeData

	bank      uint8
	bankCount uint8
}

// NewMapper2 creates a new Mapper2 instance
func NewMapper2(data *CartridgeData) *Mapper2 {
	bankCount := uint8(len(data.PRGROM) / (16 * 1024))
	logger.LogMapper("UxROM: %d 16KB PRG banks", bankCount)
	return &Mapper2{data: data, bankCount: bankCount}
}

// ReadPRG reads from the switchable low bank, the fixed high bank, or PRG RAM.
func (m *Mapper2) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		bank := uint32(m.bank % m.bankCount)
		idx := bank*16384 + uint32(addr-0x8000)
		if idx < uint32(len(m.data.PRGROM)) {
			return m.data.PRGROM[idx]
		}

	case addr >= 0xC000:
		lastBank := uint32(m.bankCount - 1)
		idx := lastBank*16384 + uint32(addr-0xC000)
		if idx < uint32(len(m.data.PRGROM)) {
			return m.data.PRGROM[idx]
		}

	case addr >= 0x6000 && len(m.data.PRGRAM) > 0:
		offset := addr - 0x6000
		if int(offset) < len(m.data.PRGRAM) {
			return m.data.PRGRAM[offset]
		}
	}
	return 0
}

// WritePRG selects the low bank on any write to $8000-$FFFF, or writes PRG RAM.
func (m *Mapper2) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.bank = value & 0x0F
		logger.LogMapper("UxROM bank select=%d", m.bank)

	case addr >= 0x6000 && addr < 0x8000 && len(m.data.PRGRAM) > 0:
		offset := addr - 0x6000
		if int(offset) < len(m.data.PRGRAM) {
			m.data.PRGRAM[offset] = value
		}
	}
}

// ReadCHR reads CHR RAM, falling back to CHR ROM for UxROM clones that ship it.
func (m *Mapper2) ReadCHR(addr uint16) uint8 {
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		return m.data.CHRRAM[addr]
	}
	if len(m.data.CHRROM) > 0 && int(addr) < len(m.data.CHRROM) {
		return m.data.CHRROM[addr]
	}
	return 0
}

// WriteCHR writes to CHR RAM.
func (m *Mapper2) WriteCHR(addr uint16, value uint8) {
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		m.data.CHRRAM[addr] = value
	}
}

// Step is a no-op: UxROM has no per-cycle state.
func (m *Mapper2) Step() {}

// CurrentBank returns the currently selected low PRG bank, for debugging.
func (m *Mapper2) CurrentBank() uint8 {
	return m.bank
}

// IsIRQPending is always false: UxROM never generates mapper IRQs.
func (m *Mapper2) IsIRQPending() bool {
	return false
}

// ClearIRQ is a no-op.
func (m *Mapper2) ClearIRQ() {}
