package bus

import (
	"github.com/nescore/gones/pkg/logger"
)

// Bus is the NES system bus: CPU work RAM, PPU/APU register windows,
// cartridge PRG space, and the controller ports. The CPU owns a *Bus rather
// than the other way around - nothing here calls back into the CPU.
type Bus struct {
	RAM [2048]uint8

	// HighMem backs 0x6000-0xFFFF when no cartridge is attached, for tests
	// that drive the bus directly without a ROM.
	HighMem [0xA000]uint8

	PPU interface {
		ReadRegister(addr uint16) uint8
		WriteRegister(addr uint16, value uint8)
	}

	APU interface {
		ReadRegister(addr uint16) uint8
		WriteRegister(addr uint16, value uint8)
	}

	Cartridge interface {
		ReadPRG(addr uint16) uint8
		WritePRG(addr uint16, value uint8)
	}

	// Input1 is wired at $4016, Input2 at $4017 read. Both see every $4016
	// strobe write, matching real hardware where the strobe line runs to
	// both controller shift registers.
	Input1 interface {
		Read() uint8
		Write(value uint8)
	}
	Input2 interface {
		Read() uint8
		Write(value uint8)
	}

	// lastValue is the last byte driven onto the bus by any read or write,
	// returned for reads of addresses nothing claims (open-bus behavior).
	lastValue uint8
}

// New creates an empty Bus. Collaborators are attached with the Set*
// methods once they exist.
func New() *Bus {
	return &Bus{}
}

func (b *Bus) SetCartridge(cart interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}) {
	b.Cartridge = cart
}

func (b *Bus) SetPPU(ppu interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}) {
	b.PPU = ppu
}

func (b *Bus) SetAPU(apu interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}) {
	b.APU = apu
}

// SetInput1 wires the first controller, read at $4016.
func (b *Bus) SetInput1(input interface {
	Read() uint8
	Write(value uint8)
}) {
	b.Input1 = input
}

// SetInput2 wires the second controller, read at $4017.
func (b *Bus) SetInput2(input interface {
	Read() uint8
	Write(value uint8)
}) {
	b.Input2 = input
}

// Read reads a byte from the given address. Unmapped regions return the
// last byte driven onto the bus rather than a bare zero, matching the NES's
// open-bus behavior that a handful of test ROMs probe for.
func (b *Bus) Read(addr uint16) uint8 {
	var value uint8
	mapped := true

	switch {
	case addr < 0x2000:
		value = b.RAM[addr&0x7FF]

	case addr < 0x4000:
		if b.PPU != nil {
			value = b.PPU.ReadRegister(0x2000 + (addr & 0x7))
		} else {
			mapped = false
		}

	case addr == 0x4016:
		// Only D0 is driven by the shift register; D1-D4 read back 0, D5-D7
		// are open bus.
		if b.Input1 != nil {
			value = (b.lastValue & 0xE0) | (b.Input1.Read() & 0x01)
		} else {
			mapped = false
		}

	case addr == 0x4017:
		if b.Input2 != nil {
			value = (b.lastValue & 0xE0) | (b.Input2.Read() & 0x01)
		} else if b.APU != nil {
			value = b.APU.ReadRegister(addr)
		} else {
			mapped = false
		}

	case addr < 0x4020:
		if b.APU != nil {
			value = b.APU.ReadRegister(addr)
		} else {
			mapped = false
		}

	case addr >= 0x4020:
		if b.Cartridge != nil {
			value = b.Cartridge.ReadPRG(addr)
		} else if addr >= 0x6000 {
			index := addr - 0x6000
			if int(index) < len(b.HighMem) {
				value = b.HighMem[index]
			} else {
				mapped = false
			}
		} else {
			mapped = false
		}
	}

	if mapped {
		b.lastValue = value
	}
	logger.LogBus("read $%04X = $%02X (mapped=%v)", addr, value, mapped)
	return b.lastValue
}

// Write writes a byte to the given address.
func (b *Bus) Write(addr uint16, value uint8) {
	b.lastValue = value

	switch {
	case addr < 0x2000:
		b.RAM[addr&0x7FF] = value

	case addr < 0x4000:
		if b.PPU != nil {
			b.PPU.WriteRegister(0x2000+(addr&0x7), value)
		}

	case addr == 0x4014:
		b.performOAMDMA(value)

	case addr == 0x4016:
		// Strobe runs to both controller shift registers.
		if b.Input1 != nil {
			b.Input1.Write(value)
		}
		if b.Input2 != nil {
			b.Input2.Write(value)
		}

	case addr < 0x4020:
		if b.APU != nil {
			b.APU.WriteRegister(addr, value)
		}

	case addr >= 0x4020:
		if b.Cartridge != nil {
			b.Cartridge.WritePRG(addr, value)
		} else if addr >= 0x6000 {
			index := addr - 0x6000
			if int(index) < len(b.HighMem) {
				b.HighMem[index] = value
			}
		}
	}
}

// performOAMDMA copies 256 bytes starting at page<<8 into PPU OAM through
// $2004. The CPU's own write() wrapper accounts for the 513/514-cycle stall
// this causes; the bus only performs the instantaneous byte copy.
func (b *Bus) performOAMDMA(page uint8) {
	baseAddr := uint16(page) << 8
	for i := 0; i < 256; i++ {
		value := b.Read(baseAddr + uint16(i))
		if b.PPU != nil {
			b.PPU.WriteRegister(0x2004, value)
		}
	}
}
