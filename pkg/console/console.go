// Package console wires the CPU, PPU, APU, cartridge, and controllers into a
// runnable system and drives them through the NTSC dot-stepped loop.
package console

import (
	"fmt"
	"io"

	"github.com/nescore/gones/pkg/apu"
	"github.com/nescore/gones/pkg/bus"
	"github.com/nescore/gones/pkg/cartridge"
	"github.com/nescore/gones/pkg/cpu"
	"github.com/nescore/gones/pkg/input"
	"github.com/nescore/gones/pkg/ppu"
)

// Console is the top-level NES system. The CPU owns the bus; Console's only
// job is to step everything in lockstep and expose the host-facing surface
// a driver (cmd/gones) needs.
type Console struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	APU        *apu.APU
	Bus        *bus.Bus
	Cartridge  *cartridge.Cartridge
	Input1     *input.Controller
	Input2     *input.Controller

	Frame  uint64
	Cycles uint64 // total CPU cycles elapsed, mirrors CPU.Cycles

	frameReady bool
	dotCount   uint64 // PPU dots elapsed; CPU ticks every 3rd one (NTSC 3:1 ratio)
}

// New creates a Console with no cartridge loaded. Use NewFromROM to load
// and power on in one step, or LoadCartridge + PowerOn for finer control.
func New() *Console {
	c := &Console{
		Bus:    bus.New(),
		PPU:    ppu.New(),
		APU:    apu.New(),
		Input1: input.New(),
		Input2: input.New(),
	}
	c.CPU = cpu.New(c.Bus)

	c.Bus.SetPPU(c.PPU)
	c.Bus.SetAPU(c.APU)
	c.Bus.SetInput1(c.Input1)
	c.Bus.SetInput2(c.Input2)
	c.APU.SetMemory(c.Bus)

	return c
}

// NewFromROM creates a Console, loads an iNES ROM from r, and powers on.
func NewFromROM(r io.Reader) (*Console, error) {
	cart, err := cartridge.LoadFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("load cartridge: %w", err)
	}
	c := New()
	c.LoadCartridge(cart)
	c.PowerOn()
	return c, nil
}

// LoadCartridge attaches a cartridge to the bus and PPU.
func (c *Console) LoadCartridge(cart *cartridge.Cartridge) {
	c.Cartridge = cart
	c.Bus.SetCartridge(cart)
	c.PPU.SetCartridge(cart)
}

// PowerOn brings the console up from a cold start.
func (c *Console) PowerOn() {
	c.CPU.PowerOn()
	c.PPU.Reset()
	c.APU.Reset()
	c.Frame = 0
}

// Reset performs a soft reset, as if the NES's reset button were pressed.
func (c *Console) Reset() {
	c.CPU.Reset()
	c.PPU.Reset()
	c.APU.Reset()
}

// SetController1 updates controller 1's button state. button is one of the
// input.ButtonMask* bit positions (0-7: A,B,Select,Start,Up,Down,Left,Right).
func (c *Console) SetController1(button int, pressed bool) {
	c.Input1.SetButton(button, pressed)
}

// SetController2 updates controller 2's button state.
func (c *Console) SetController2(button int, pressed bool) {
	c.Input2.SetButton(button, pressed)
}

// Step advances the system by exactly one PPU dot. The CPU consumes one of
// every three dots (NTSC's 3:1 PPU:CPU clock ratio) and the APU steps once
// per CPU cycle, matching spec's per-dot interleaving: PPU dot, then CPU
// cycle on every third dot, then APU cycle.
func (c *Console) Step() {
	c.PPU.Step()

	if c.PPU.NMIRequested {
		c.CPU.TriggerNMI()
		c.PPU.NMIRequested = false
	}

	c.dotCount++
	if c.dotCount%3 == 0 {
		c.CPU.Tick()
		c.Cycles = c.CPU.Cycles
		c.APU.Step()

		mapperIRQ := c.PPU.IsMapperIRQPending()
		c.CPU.SetIRQLine(c.APU.FrameIRQ || mapperIRQ)
		if mapperIRQ {
			c.PPU.ClearMapperIRQ()
		}
	}

	if c.PPU.FrameComplete {
		c.PPU.FrameComplete = false
		c.Frame = c.PPU.Frame
		c.frameReady = true
	}
}

// FrameReady reports whether a full frame has been rendered since the last
// TakeFrame call.
func (c *Console) FrameReady() bool {
	return c.frameReady
}

// TakeFrame returns the current framebuffer as RGBA bytes and clears the
// frame-ready flag.
func (c *Console) TakeFrame() []uint8 {
	c.frameReady = false
	return c.PPU.GetFramebuffer()
}

// AudioSamples drains and returns the APU's pending output samples.
func (c *Console) AudioSamples() []float32 {
	samples := c.APU.Output
	c.APU.Output = nil
	return samples
}

// StepFrame runs Step until a full frame has completed, for callers (tests,
// the headless driver) that want frame-granularity rather than dot-by-dot
// control. maxDots bounds the loop so a stuck ROM can't hang the caller.
func (c *Console) StepFrame(maxDots int) {
	for i := 0; i < maxDots && !c.frameReady; i++ {
		c.Step()
	}
}
