package apu

// dutyCycles holds the four pulse duty waveforms, 8 steps each.
var dutyCycles = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25%, negated
}

// triangleSequence is the 32-step triangle waveform: a descending then
// ascending ramp through the 4-bit range.
var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noisePeriods maps a $400E period index to its NTSC timer reload value.
var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// dmcRates maps a $4010 rate index to its NTSC sample-bit period, in CPU cycles.
var dmcRates = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// stepPulse clocks a pulse channel's timer, advancing its duty sequence
// every time the timer reloads.
func (a *APU) stepPulse(pulse *PulseChannel) {
	if !pulse.Enabled {
		return
	}

	if pulse.Timer > 0 {
		pulse.Timer--
		return
	}
	pulse.Timer = pulse.TimerValue
	pulse.Sequence = (pulse.Sequence + 1) % 8
}

// stepTriangle clocks the triangle channel's timer. The sequence only
// advances while both the length counter and linear counter are nonzero,
// which is what lets $400B writes silence the channel immediately.
func (a *APU) stepTriangle() {
	t := &a.Triangle
	if !t.Enabled {
		return
	}

	if t.Timer > 0 {
		t.Timer--
		return
	}
	t.Timer = t.TimerValue
	if t.Length.Value > 0 && t.LinearCounter > 0 {
		t.Sequence = (t.Sequence + 1) % 32
	}
}

// noiseTapBits selects which two shift-register bits feed back into bit 14
// for the current LFSR mode: bits 0/1 normally, bits 0/6 in "mode 1" for a
// shorter, metallic-sounding period.
func noiseTapBits(shiftReg uint16, mode bool) uint16 {
	if mode {
		return (shiftReg & 1) ^ ((shiftReg >> 6) & 1)
	}
	return (shiftReg & 1) ^ ((shiftReg >> 1) & 1)
}

// stepNoise clocks the noise channel's timer and, on reload, shifts the
// 15-bit LFSR one step.
func (a *APU) stepNoise() {
	n := &a.Noise
	if !n.Enabled {
		return
	}

	if n.Timer > 0 {
		n.Timer--
		return
	}
	n.Timer = n.TimerValue
	feedback := noiseTapBits(n.ShiftReg, n.Mode)
	n.ShiftReg = (n.ShiftReg >> 1) | (feedback << 14)
}

// stepDMC clocks the DMC's output unit at the rate selected by its 4-bit
// rate index. The period comes from dmcRates, in CPU cycles, and a.Cycles
// is checked against it directly rather than maintaining a separate
// countdown timer.
func (a *APU) stepDMC() {
	if !a.DMC.Enabled || a.DMC.Rate == 0 {
		return
	}
	period := dmcRates[a.DMC.Rate&0x0F]
	if a.Cycles%uint64(period) == 0 {
		a.clockDMCOutputUnit()
	}
}

// clockDMCOutputUnit refills the sample buffer from memory when it runs dry
// and the DMA reader has bytes left, then shifts one bit out of the 8-bit
// shift register into the 7-bit output level (LoadCounter).
func (a *APU) clockDMCOutputUnit() {
	if a.DMC.BufferEmpty && a.DMC.CurrentLength > 0 && a.Memory != nil {
		a.DMC.SampleBuffer = a.Memory.Read(a.DMC.CurrentAddress)
		a.DMC.BufferEmpty = false
		a.DMC.CurrentAddress++
		if a.DMC.CurrentAddress == 0 {
			a.DMC.CurrentAddress = 0x8000 // DMC sample addresses live in ROM space
		}
		a.DMC.CurrentLength--

		if a.DMC.CurrentLength == 0 {
			if a.DMC.Loop {
				a.DMC.CurrentLength = a.DMC.SampleLength
				a.DMC.CurrentAddress = a.DMC.SampleAddress
			}
			// a.DMC.IRQEnabled && CurrentLength == 0 is surfaced directly by
			// ReadRegister's $4015 status bit rather than a latched flag here.
		}
	}

	if a.DMC.BitsRemaining == 0 {
		a.DMC.BitsRemaining = 8
		if !a.DMC.BufferEmpty {
			a.DMC.Buffer = a.DMC.SampleBuffer
			a.DMC.BufferEmpty = true
			a.DMC.Silence = false
		} else {
			a.DMC.Silence = true
		}
	}

	if a.DMC.BitsRemaining > 0 && !a.DMC.Silence {
		a.DMC.BitsRemaining--
		bit := (a.DMC.Buffer >> a.DMC.BitsRemaining) & 1

		const dmcStep = 2
		if bit == 1 && a.DMC.LoadCounter <= 125 {
			a.DMC.LoadCounter += dmcStep
		} else if bit == 0 && a.DMC.LoadCounter >= dmcStep {
			a.DMC.LoadCounter -= dmcStep
		}
	}
}

// stepEnvelope clocks one channel's volume envelope: a divider ticking at
// the channel's volume-register rate, decrementing a 4-bit decay counter
// each time it fires, optionally looping back to 15.
func (a *APU) stepEnvelope(env *EnvelopeGenerator) {
	if env.Start {
		env.Start = false
		env.Counter = 15
		env.Divider = env.Volume
		return
	}

	if env.Divider > 0 {
		env.Divider--
		return
	}
	env.Divider = env.Volume
	if env.Counter > 0 {
		env.Counter--
	} else if env.Loop {
		env.Counter = 15
	}
}

// stepLengthCounter decrements a length counter once per half-frame clock,
// unless it's disabled or held at its current value by the halt flag.
func (a *APU) stepLengthCounter(lc *LengthCounter) {
	if lc.Enabled && !lc.Halt && lc.Value > 0 {
		lc.Value--
	}
}

// stepSweep clocks a pulse channel's sweep unit: the divider reloads and
// fires immediately on a reload request, otherwise it counts down and fires
// on reaching zero.
func (a *APU) stepSweep(pulse *PulseChannel, sweep *SweepUnit, isPulse1 bool) {
	if sweep.Reload {
		sweep.Counter = sweep.Period
		sweep.Reload = false
		if sweep.Enabled && sweep.Period == 0 {
			a.applySweep(pulse, sweep, isPulse1)
		}
		return
	}

	if sweep.Counter > 0 {
		sweep.Counter--
		return
	}
	sweep.Counter = sweep.Period
	if sweep.Enabled {
		a.applySweep(pulse, sweep, isPulse1)
	}
}

// sweepTargetPeriod computes the period a sweep unit would move the pulse
// channel to, without applying it. Pulse 1's negate mode subtracts one
// extra (one's complement); pulse 2's does not (two's complement) - a
// quirk of how the two channels' adders are wired on real hardware.
func sweepTargetPeriod(timerValue uint16, sweep *SweepUnit, isPulse1 bool) uint16 {
	change := timerValue >> sweep.Shift
	if !sweep.Negate {
		return timerValue + change
	}
	if isPulse1 {
		return timerValue - change - 1
	}
	return timerValue - change
}

// applySweep commits a sweep adjustment to the channel's timer period if it
// lands in the valid range.
func (a *APU) applySweep(pulse *PulseChannel, sweep *SweepUnit, isPulse1 bool) {
	target := sweepTargetPeriod(pulse.TimerValue, sweep, isPulse1)
	if target >= 8 && target <= 0x7FF {
		pulse.TimerValue = target
	}
}

// isSweepMuting reports whether the sweep unit would silence the channel
// right now: either because its target period is already out of range, or
// because a pulse-2-style subtraction would underflow before clamping.
func (a *APU) isSweepMuting(pulse *PulseChannel, sweep *SweepUnit) bool {
	if !sweep.Enabled {
		return false
	}

	change := pulse.TimerValue >> sweep.Shift
	var target uint16
	if sweep.Negate {
		if change > pulse.TimerValue {
			return true
		}
		target = pulse.TimerValue - change
	} else {
		target = pulse.TimerValue + change
	}

	return target < 8 || target > 0x7FF
}

// getPulseOutput returns a pulse channel's current 4-bit volume, or 0 if
// it's disabled, silenced by its length counter, out of the sweep unit's
// valid timer range, or sitting on a zero in its duty cycle.
func (a *APU) getPulseOutput(pulse *PulseChannel) uint8 {
	if !pulse.Enabled || pulse.Length.Value == 0 {
		return 0
	}
	if pulse.TimerValue < 8 || pulse.TimerValue > 0x7FF {
		return 0
	}
	if a.isSweepMuting(pulse, &pulse.Sweep) {
		return 0
	}
	if dutyCycles[pulse.DutyCycle][pulse.Sequence] == 0 {
		return 0
	}

	if pulse.Envelope.Constant {
		return pulse.Volume
	}
	return pulse.Envelope.Counter
}

// getTriangleOutput returns the triangle channel's current 4-bit level.
func (a *APU) getTriangleOutput() uint8 {
	t := &a.Triangle
	if !t.Enabled || t.Length.Value == 0 || t.LinearCounter == 0 {
		return 0
	}
	return triangleSequence[t.Sequence]
}

// getNoiseOutput returns the noise channel's current 4-bit volume. Bit 0 of
// the LFSR gates the output: when it's set the channel is silent regardless
// of envelope or length counter state.
func (a *APU) getNoiseOutput() uint8 {
	n := &a.Noise
	if !n.Enabled || n.Length.Value == 0 {
		return 0
	}
	if n.ShiftReg&1 != 0 {
		return 0
	}

	if n.Envelope.Constant {
		return n.Volume
	}
	return n.Envelope.Counter
}

// getDMCOutput returns the DMC's 7-bit output level directly; DMC has no
// separate volume/envelope stage, the output unit's LoadCounter is the level.
func (a *APU) getDMCOutput() uint8 {
	if !a.DMC.Enabled {
		return 0
	}
	return a.DMC.LoadCounter
}

// NES non-linear mixing coefficients, from the nesdev wiki's APU Mixer page.
const (
	pulseMixNumerator  = 95.52
	pulseMixDenomConst = 8128.0
	pulseMixDenomBias  = 100.0

	tndTriangleDiv = 8227.0
	tndNoiseDiv    = 12241.0
	tndDMCDiv      = 22638.0
	tndMixNumer    = 159.79
	tndMixBias     = 100.0
)

// mixChannels combines all five channels into one sample using the NES's
// non-linear pulse and TND (triangle/noise/DMC) mixing formulas, then scales
// the result into [-1.0, 1.0].
func (a *APU) mixChannels() float32 {
	pulseSum := a.getPulseOutput(&a.Pulse1) + a.getPulseOutput(&a.Pulse2)
	var pulseOut float32
	if pulseSum > 0 {
		pulseOut = pulseMixNumerator / ((pulseMixDenomConst / float32(pulseSum)) + pulseMixDenomBias)
	}

	tndSum := float32(a.getTriangleOutput())/tndTriangleDiv +
		float32(a.getNoiseOutput())/tndNoiseDiv +
		float32(a.getDMCOutput())/tndDMCDiv
	var tndOut float32
	if tndSum > 0 {
		tndOut = tndMixNumer / (1.0/tndSum + tndMixBias)
	}

	output := (pulseOut + tndOut) * 2.0
	switch {
	case output > 1.0:
		return 1.0
	case output < -1.0:
		return -1.0
	default:
		return output
	}
}

// stepLinearCounter clocks the triangle channel's linear counter on every
// quarter-frame tick: reload takes priority over decrementing, and the
// control flag (shared with the length counter's halt flag) clears the
// reload request once applied, except while it's also holding length
// counter decrements off.
func (a *APU) stepLinearCounter() {
	t := &a.Triangle
	if t.LinearControl {
		t.LinearCounter = t.LinearReload
	} else if t.LinearCounter > 0 {
		t.LinearCounter--
	}

	if !t.Length.Halt {
		t.LinearControl = false
	}
}
