package apu

import "github.com/hollow-byte/gbcore/internal/clock"

// sequencerPeriod is the CPU-cycle period of the 512Hz frame sequencer
// (4194304 / 512).
const sequencerPeriod = 8192

// APU is the top-level audio processing unit: four channels, the frame
// sequencer that clocks their length/envelope/sweep sub-units, and the
// stereo mixer.
type APU struct {
	enabled bool

	ch1 *channel1
	ch2 *channel2
	ch3 *channel3
	ch4 *channel4

	mix mixer

	seqClock *clock.Divider
	seqStep  uint8

	// firstHalfOfLengthPeriod tracks which half of the 256Hz length period
	// the sequencer is currently in; trigger/NRx4 writes consult it to
	// reproduce the extra-length-clock glitch documented on the Game Boy
	// sound hardware wiki.
	firstHalfOfLengthPeriod bool

	sampleClock *clock.Divider
}

// sampleRate is the host sample rate the mixer resamples down to.
const sampleRate = 44100

// New returns a powered-off APU.
func New() *APU {
	a := &APU{
		ch1:         newChannel1(),
		ch2:         newChannel2(),
		ch3:         newChannel3(),
		ch4:         newChannel4(),
		seqClock:    clock.New(sequencerPeriod),
		sampleClock: clock.New(4194304 / sampleRate),
	}
	return a
}

// Step advances every channel and the frame sequencer by cycles CPU clocks,
// producing mixed samples at the host sample rate.
func (a *APU) Step(cycles uint32) {
	if !a.enabled {
		return
	}
	remaining := int32(cycles)
	const chunk = 64
	for remaining > 0 {
		step := remaining
		if step > chunk {
			step = chunk
		}
		remaining -= step
		a.ch1.step(step)
		a.ch2.step(step)
		a.ch3.step(step)
		a.ch4.step(step)
	}

	seqTicks := a.seqClock.Tick(cycles)
	for i := uint32(0); i < seqTicks; i++ {
		a.stepSequencer()
	}
	sampleTicks := a.sampleClock.Tick(cycles)
	for i := uint32(0); i < sampleTicks; i++ {
		a.mix.mix(a.ch1.amplitude(), a.ch2.amplitude(), a.ch3.amplitude(), a.ch4.amplitude())
	}
}

// stepSequencer advances the 8-step 512Hz frame sequencer, clocking length
// counters on every even step, the sweep unit on steps 2 and 6, and the
// envelopes on step 7, matching real hardware's timing table.
func (a *APU) stepSequencer() {
	a.firstHalfOfLengthPeriod = a.seqStep%2 == 0
	switch a.seqStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.ch1.clockSweep()
	case 7:
		a.ch1.env.clock()
		a.ch2.env.clock()
		a.ch4.env.clock()
	}
	a.seqStep = (a.seqStep + 1) % 8
}

func (a *APU) clockLength() {
	a.ch1.clockLength()
	a.ch2.clockLength()
	a.ch3.clockLength()
	a.ch4.clockLength()
}

// Drain copies up to len(dst) queued stereo samples into dst.
func (a *APU) Drain(dst []Sample) int { return a.mix.Drain(dst) }

// Read returns the byte mapped at the given APU register address.
func (a *APU) Read(address uint16) uint8 {
	switch {
	case address >= 0xFF30 && address <= 0xFF3F:
		return a.ch3.readWave(address)
	}
	switch address {
	case 0xFF10:
		return a.ch1.readNR10()
	case 0xFF11:
		return a.ch1.readNR11()
	case 0xFF12:
		return a.ch1.readNR12()
	case 0xFF13:
		return 0xFF
	case 0xFF14:
		return a.ch1.readNR14()
	case 0xFF16:
		return a.ch2.readNR21()
	case 0xFF17:
		return a.ch2.readNR22()
	case 0xFF18:
		return 0xFF
	case 0xFF19:
		return a.ch2.readNR24()
	case 0xFF1A:
		return a.ch3.readNR30()
	case 0xFF1B:
		return 0xFF
	case 0xFF1C:
		return a.ch3.readNR32()
	case 0xFF1D:
		return 0xFF
	case 0xFF1E:
		return a.ch3.readNR34()
	case 0xFF20:
		return 0xFF
	case 0xFF21:
		return a.ch4.readNR42()
	case 0xFF22:
		return a.ch4.readNR43()
	case 0xFF23:
		return a.ch4.readNR44()
	case 0xFF24:
		return a.mix.readNR50()
	case 0xFF25:
		return a.mix.readNR51()
	case 0xFF26:
		return a.readNR52()
	}
	return 0xFF
}

// Write dispatches a bus write to the given APU register address.
func (a *APU) Write(address uint16, value uint8) {
	if address >= 0xFF30 && address <= 0xFF3F {
		a.ch3.writeWave(address, value)
		return
	}
	if address == 0xFF26 {
		a.writeNR52(value)
		return
	}
	if !a.enabled {
		return
	}
	switch address {
	case 0xFF10:
		a.ch1.writeNR10(value)
	case 0xFF11:
		a.ch1.writeNR11(value)
	case 0xFF12:
		a.ch1.writeNR12(value)
	case 0xFF13:
		a.ch1.writeNR13(value)
	case 0xFF14:
		a.ch1.writeNR14(value, a.firstHalfOfLengthPeriod)
	case 0xFF16:
		a.ch2.writeNR21(value)
	case 0xFF17:
		a.ch2.writeNR22(value)
	case 0xFF18:
		a.ch2.writeNR23(value)
	case 0xFF19:
		a.ch2.writeNR24(value, a.firstHalfOfLengthPeriod)
	case 0xFF1A:
		a.ch3.writeNR30(value)
	case 0xFF1B:
		a.ch3.writeNR31(value)
	case 0xFF1C:
		a.ch3.writeNR32(value)
	case 0xFF1D:
		a.ch3.writeNR33(value)
	case 0xFF1E:
		a.ch3.writeNR34(value, a.firstHalfOfLengthPeriod)
	case 0xFF20:
		a.ch4.writeNR41(value)
	case 0xFF21:
		a.ch4.writeNR42(value)
	case 0xFF22:
		a.ch4.writeNR43(value)
	case 0xFF23:
		a.ch4.writeNR44(value, a.firstHalfOfLengthPeriod)
	case 0xFF24:
		a.mix.writeNR50(value)
	case 0xFF25:
		a.mix.writeNR51(value)
	}
}

func (a *APU) readNR52() uint8 {
	v := uint8(0x70)
	if a.enabled {
		v |= 0x80
	}
	if a.ch1.enabled {
		v |= 0x01
	}
	if a.ch2.enabled {
		v |= 0x02
	}
	if a.ch3.enabled {
		v |= 0x04
	}
	if a.ch4.enabled {
		v |= 0x08
	}
	return v
}

// writeNR52 handles the master power switch; powering off clears every
// register (NR52 itself excepted), matching the documented hardware
// behavior that length counters survive the off-state on DMG but not CGB.
// This implementation clears unconditionally for simplicity.
func (a *APU) writeNR52(value uint8) {
	wasEnabled := a.enabled
	a.enabled = value&0x80 != 0
	if wasEnabled && !a.enabled {
		a.ch1 = newChannel1()
		a.ch2 = newChannel2()
		wave := a.ch3.wave // wave RAM survives power-off
		a.ch3 = newChannel3()
		a.ch3.wave = wave
		a.ch4 = newChannel4()
		a.mix.writeNR50(0)
		a.mix.writeNR51(0)
		a.seqStep = 0
		a.seqClock.Reset()
	}
}
