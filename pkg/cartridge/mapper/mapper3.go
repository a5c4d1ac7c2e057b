package mapper

import "github.com/nescore/gones/pkg/logger"

// busConflictMode describes how a CNROM board resolves the bus conflict
// between the CPU driving a value onto $8000-$FFFF and the PRG ROM driving
// its own contents onto the same lines at the same time.
type busConflictMode uint8

const (
	busConflictUnknown busConflictMode = iota
	busConflictNone                    // submapper 1: CPU value wins outright
	busConflictAND                     // submapper 2: effective value is value & romContents
)

// Mapper3 implements CNROM: PRG ROM is fixed (32KB mapped straight through,
// or mirrored if only 16KB), and any write to $8000-$FFFF selects one of up
// to four 8KB CHR banks.
type Mapper3 struct {
	data *CartridgeData

	chrBank      uint8
	chrBankCount uint8
	conflictMode busConflictMode
}

// NewMapper3 creates a new Mapper3 instance
func NewMapper3(data *CartridgeData) *Mapper3 {
	m := &Mapper3{
		data:         data,
		conflictMode: busConflictNone,
	}
	if len(data.CHRROM) > 0 {
		m.chrBankCount = uint8(len(data.CHRROM) / 8192)
	}
	logger.LogMapper("CNROM: %d 8KB CHR banks", m.chrBankCount)
	return m
}

// ReadPRG reads from the fixed PRG ROM mapping, or PRG RAM below $8000.
func (m *Mapper3) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		offset := addr - 0x8000
		if len(m.data.PRGROM) == 16*1024 {
			offset %= 16 * 1024 // $C000-$FFFF mirrors $8000-$BFFF
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

// WritePRG selects the CHR bank on any write to $8000-$FFFF, applying the
// board's bus conflict behavior, or writes PRG RAM below $8000.
func (m *Mapper3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		effective := value
		if m.conflictMode == busConflictAND {
			effective = value & m.ReadPRG(addr)
		}
		m.chrBank = effective & 0x03
		logger.LogMapper("CNROM CHR bank select=%d", m.chrBank)

	case addr >= 0x6000 && addr < 0x8000 && len(m.data.PRGRAM) > 0:
		offset := addr - 0x6000
		if int(offset) < len(m.data.PRGRAM) {
			m.data.PRGRAM[offset] = value
		}
	}
}

// ReadCHR reads from the selected 8KB CHR ROM bank, or CHR RAM for variants
// that have it instead.
func (m *Mapper3) ReadCHR(addr uint16) uint8 {
	if len(m.data.CHRROM) > 0 {
		bank := uint32(m.chrBank % m.chrBankCount)
		idx := bank*8192 + uint32(addr)
		if idx < uint32(len(m.data.CHRROM)) {
			return m.data.CHRROM[idx]
		}
		return 0
	}
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		return m.data.CHRRAM[addr]
	}
	return 0
}

// WriteCHR writes to CHR RAM on variants that have it; CHR ROM is read-only.
func (m *Mapper3) WriteCHR(addr uint16, value uint8) {
	if len(m.data.CHRRAM) > 0 && int(addr) < len(m.data.CHRRAM) {
		m.data.CHRRAM[addr] = value
	}
}

// Step is a no-op: CNROM has no per-cycle state.
func (m *Mapper3) Step() {}

// GetCurrentCHRBank returns the current CHR bank, for debugging.
func (m *Mapper3) GetCurrentCHRBank() uint8 {
	return m.chrBank
}

// IsIRQPending is always false: CNROM never generates mapper IRQs.
func (m *Mapper3) IsIRQPending() bool {
	return false
}

// ClearIRQ is a no-op.
func (m *Mapper3) ClearIRQ() {}

// SetBusConflictMode configures how $8000-$FFFF writes resolve against the
// value PRG ROM itself is driving onto the bus: 0 unknown (treated as no
// conflict), 1 no conflict, 2 AND-type conflict.
func (m *Mapper3) SetBusConflictMode(mode uint8) {
	if mode <= 2 {
		m.conflictMode = busConflictMode(mode)
	}
}
