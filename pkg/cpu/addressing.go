package cpu

// AddressingMode represents different addressing modes for 6502 instructions
type AddressingMode int

const (
	AddrImplied AddressingMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrRelative
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndexedIndirect
	AddrIndirectIndexed
)

// AddressingInfo contains information about an addressing mode
type AddressingInfo struct {
	Mode   AddressingMode
	Length int // Instruction length in bytes, including the opcode
	Cycles int // Base cycle count, not counting page-cross/branch penalties
}

// addressingTable covers all 256 opcodes, official and illegal, so that every
// entry dispatch in instructions.go has a matching length/cycle record for
// disassembly and logging. Illegal immediate-mode opcodes (ANC/ALR/ARR/LAX-imm/
// AXS/XAA) are two bytes, and JAM/KIL is one byte (opcode only, CPU halts) -
// some third-party 6502 tables record these as zero-length, which is wrong.
var addressingTable = [256]AddressingInfo{
	// 0x00-0x0F
	{AddrImplied, 1, 7}, {AddrIndexedIndirect, 2, 6}, {AddrImplied, 1, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 3}, {AddrImmediate, 2, 2}, {AddrAccumulator, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0x10-0x1F
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
	// 0x20-0x2F
	{AddrAbsolute, 3, 6}, {AddrIndexedIndirect, 2, 6}, {AddrImplied, 1, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 4}, {AddrImmediate, 2, 2}, {AddrAccumulator, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0x30-0x3F
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
	// 0x40-0x4F
	{AddrImplied, 1, 6}, {AddrIndexedIndirect, 2, 6}, {AddrImplied, 1, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 3}, {AddrImmediate, 2, 2}, {AddrAccumulator, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 3}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0x50-0x5F
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
	// 0x60-0x6F
	{AddrImplied, 1, 6}, {AddrIndexedIndirect, 2, 6}, {AddrImplied, 1, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 4}, {AddrImmediate, 2, 2}, {AddrAccumulator, 1, 2}, {AddrImmediate, 2, 2},
	{AddrIndirect, 3, 5}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0x70-0x7F
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
	// 0x80-0x8F
	{AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6}, {AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3},
	{AddrImplied, 1, 2}, {AddrImmediate, 2, 2}, {AddrImplied, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4},
	// 0x90-0x9F
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 6}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 6},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageY, 2, 4}, {AddrZeroPageY, 2, 4},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 5}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 5},
	{AddrAbsoluteX, 3, 5}, {AddrAbsoluteX, 3, 5}, {AddrAbsoluteY, 3, 5}, {AddrAbsoluteY, 3, 5},
	// 0xA0-0xAF
	{AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6}, {AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3},
	{AddrImplied, 1, 2}, {AddrImmediate, 2, 2}, {AddrImplied, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4},
	// 0xB0-0xBF
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 5},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageY, 2, 4}, {AddrZeroPageY, 2, 4},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteY, 3, 4}, {AddrAbsoluteY, 3, 4},
	// 0xC0-0xCF
	{AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6}, {AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 2}, {AddrImmediate, 2, 2}, {AddrImplied, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0xD0-0xDF
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
	// 0xE0-0xEF
	{AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 6}, {AddrImmediate, 2, 2}, {AddrIndexedIndirect, 2, 8},
	{AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 3}, {AddrZeroPage, 2, 5}, {AddrZeroPage, 2, 5},
	{AddrImplied, 1, 2}, {AddrImmediate, 2, 2}, {AddrImplied, 1, 2}, {AddrImmediate, 2, 2},
	{AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 4}, {AddrAbsolute, 3, 6}, {AddrAbsolute, 3, 6},
	// 0xF0-0xFF
	{AddrRelative, 2, 2}, {AddrIndirectIndexed, 2, 5}, {AddrImplied, 1, 2}, {AddrIndirectIndexed, 2, 8},
	{AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 4}, {AddrZeroPageX, 2, 6}, {AddrZeroPageX, 2, 6},
	{AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 4}, {AddrImplied, 1, 2}, {AddrAbsoluteY, 3, 7},
	{AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 4}, {AddrAbsoluteX, 3, 7}, {AddrAbsoluteX, 3, 7},
}

// jamOpcodes lists the opcodes that hang the CPU on real silicon (KIL/JAM).
var jamOpcodes = map[uint8]bool{
	0x02: true, 0x12: true, 0x22: true, 0x32: true, 0x42: true, 0x52: true,
	0x62: true, 0x72: true, 0x92: true, 0xB2: true, 0xD2: true, 0xF2: true,
}

// getAddressingInfo returns addressing mode information for an opcode.
func getAddressingInfo(opcode uint8) AddressingInfo {
	return addressingTable[opcode]
}

// getOperandAddress resolves the operand address for an addressing mode
func (c *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	pageCrossed := false

	switch mode {
	case AddrImplied:
		return 0, false

	case AddrAccumulator:
		return 0, false

	case AddrImmediate:
		addr := c.PC
		c.PC++
		return addr, false

	case AddrZeroPage:
		addr := uint16(c.read(c.PC))
		c.PC++
		return addr, false

	case AddrZeroPageX:
		addr := uint16(c.read(c.PC) + c.X)
		c.PC++
		return addr & 0xFF, false

	case AddrZeroPageY:
		addr := uint16(c.read(c.PC) + c.Y)
		c.PC++
		return addr & 0xFF, false

	case AddrRelative:
		offset := int8(c.read(c.PC))
		c.PC++
		addr := uint16(int32(c.PC) + int32(offset))
		pageCrossed = (c.PC & 0xFF00) != (addr & 0xFF00)
		return addr, pageCrossed

	case AddrAbsolute:
		addr := c.read16(c.PC)
		c.PC += 2
		return addr, false

	case AddrAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		pageCrossed = (base & 0xFF00) != (addr & 0xFF00)

		// Perform dummy read if page boundary is crossed
		if pageCrossed {
			// Dummy read from (base + X) without carry
			dummyAddr := (base & 0xFF00) | ((base + uint16(c.X)) & 0xFF)
			c.read(dummyAddr)
		}

		return addr, pageCrossed

	case AddrAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		pageCrossed = (base & 0xFF00) != (addr & 0xFF00)

		// Perform dummy read if page boundary is crossed
		if pageCrossed {
			// Dummy read from (base + Y) without carry
			dummyAddr := (base & 0xFF00) | ((base + uint16(c.Y)) & 0xFF)
			c.read(dummyAddr)
		}

		return addr, pageCrossed

	case AddrIndirect:
		// Used only by JMP - has page boundary bug
		ptr := c.read16(c.PC)
		c.PC += 2
		if ptr&0xFF == 0xFF {
			// Bug: crosses page boundary
			lo := c.read(ptr)
			hi := c.read(ptr & 0xFF00)
			return uint16(hi)<<8 | uint16(lo), false
		}
		return c.read16(ptr), false

	case AddrIndexedIndirect: // (zp,X)
		base := c.read(c.PC)
		c.PC++
		ptr := (uint16(base) + uint16(c.X)) & 0xFF
		lo := c.read(ptr)
		hi := c.read((ptr + 1) & 0xFF)
		addr := uint16(hi)<<8 | uint16(lo)
		return addr, false

	case AddrIndirectIndexed: // (zp),Y
		base := c.read(c.PC)
		c.PC++
		lo := c.read(uint16(base))
		hi := c.read((uint16(base) + 1) & 0xFF)
		baseAddr := uint16(hi)<<8 | uint16(lo)
		addr := baseAddr + uint16(c.Y)
		pageCrossed = (baseAddr & 0xFF00) != (addr & 0xFF00)

		// Perform dummy read if page boundary is crossed
		if pageCrossed {
			// Dummy read from (baseAddr + Y) without carry
			dummyAddr := (baseAddr & 0xFF00) | ((baseAddr + uint16(c.Y)) & 0xFF)
			c.read(dummyAddr)
		}
		return addr, pageCrossed
	}

	return 0, false
}

// getOperand gets the operand value for an addressing mode
func (c *CPU) getOperand(mode AddressingMode) (uint8, bool) {
	switch mode {
	case AddrAccumulator:
		return c.A, false

	case AddrImmediate:
		addr, _ := c.getOperandAddress(mode)
		return c.read(addr), false

	default:
		addr, pageCrossed := c.getOperandAddress(mode)
		return c.read(addr), pageCrossed
	}
}
