package apu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSquareChannelTriggerProducesAlternatingAmplitude(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80) // power on
	a.Write(0xFF11, 0x80) // NR11: duty 2
	a.Write(0xFF12, 0xF0) // NR12: max volume, no envelope sweep
	a.Write(0xFF13, 0x00) // NR13: frequency low byte
	a.Write(0xFF14, 0x87) // NR14: trigger, frequency high bits

	require.True(t, a.ch1.enabled)

	seen := map[int8]bool{}
	// 64 steps cover one frame-sequencer period (8192 cycles), eight duty
	// steps of 1024 cycles each at frequency 0x700.
	for i := 0; i < 64; i++ {
		a.ch1.step(sequencerPeriod / 64)
		seen[a.ch1.amplitude()] = true
	}
	require.True(t, len(seen) >= 2, "duty cycle should produce more than one amplitude level")
	require.Contains(t, seen, int8(15))
	require.Contains(t, seen, int8(0))
}

func TestSweepOverflowDisablesChannel(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.Write(0xFF12, 0xF0) // DAC on
	a.Write(0xFF13, 0xFF) // frequency near max
	a.Write(0xFF14, 0x07)
	a.Write(0xFF10, 0x71) // sweep period 7, shift 1 (no negate): will overflow on trigger check
	a.Write(0xFF14, 0x87) // trigger

	require.False(t, a.ch1.enabled, "sweep overflow on trigger should disable the channel")
}

func TestLengthCounterDisablesChannelAtZero(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF11, 0x3F) // length load = 63, one tick from expiry
	a.Write(0xFF14, 0xC0) // trigger, length enable, no frequency bits

	require.True(t, a.ch1.enabled)
	a.ch1.clockLength()
	require.False(t, a.ch1.enabled, "length counter reaching zero disables the channel")
}

func TestNoiseLFSRPeriodNarrowVsWide(t *testing.T) {
	wide := &channel4{lfsr: 0x7FFF}
	period := lfsrPeriod(wide, false)
	require.Equal(t, 32767, period)

	narrow := &channel4{lfsr: 0x7FFF, widthMode7: true}
	periodNarrow := lfsrPeriod(narrow, true)
	require.Equal(t, 127, periodNarrow)
}

// lfsrPeriod clocks c's LFSR until it returns to its initial all-ones state,
// counting the number of distinct steps - the LFSR's period.
func lfsrPeriod(c *channel4, narrow bool) int {
	initial := c.lfsr
	steps := 0
	for {
		bit := (c.lfsr ^ (c.lfsr >> 1)) & 1
		c.lfsr = c.lfsr>>1 | bit<<14
		if narrow {
			c.lfsr = c.lfsr&^(1<<6) | bit<<6
		}
		steps++
		if c.lfsr == initial || steps > 40000 {
			break
		}
	}
	return steps
}

// TestEnvelopeZombieModeNudgesRunningVolume exercises the "zombie mode"
// glitch: writing NR12 while channel 1 is already running perturbs the
// current volume using the old envelope settings before the new ones apply,
// instead of simply resetting it.
func TestEnvelopeZombieModeNudgesRunningVolume(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.Write(0xFF12, 0x08) // volume 0, envelope period 0, add mode
	a.Write(0xFF14, 0x87) // trigger: starting volume 0, env.updating true

	require.True(t, a.ch1.enabled)
	require.Equal(t, uint8(0), a.ch1.env.volume)

	a.Write(0xFF12, 0x08) // rewrite NR12 while running, same add mode
	require.Equal(t, uint8(1), a.ch1.env.volume, "zombie mode should increment the running volume by one")
}

// TestLengthEnableInFirstHalfClocksImmediately exercises the length-counter
// glitch where enabling the counter while the frame sequencer sits in the
// first half of the 256Hz length period clocks it once right away.
func TestLengthEnableInFirstHalfClocksImmediately(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.firstHalfOfLengthPeriod = true
	a.Write(0xFF12, 0xF0)
	a.Write(0xFF11, 0x3F) // length load 63 -> counter = 1
	a.Write(0xFF14, 0x40) // enable length without triggering: counter hits 0, channel disabled

	require.Equal(t, uint16(0), a.ch1.length.counter)
	require.False(t, a.ch1.enabled)
}

func TestMixerPansChannelsPerNR51(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.Write(0xFF24, 0x77) // full volume both sides
	a.Write(0xFF25, 0x11) // channel 1 only, both sides

	a.mix.mix(15, 0, 0, 0)
	dst := make([]Sample, 1)
	n := a.mix.Drain(dst)
	require.Equal(t, 1, n)
	// 15/15 summed over four channels, scaled by master volume (7+1)/8.
	require.Equal(t, Sample{Left: 0.25, Right: 0.25}, dst[0])
}

func TestRingBufferDropsOldestOnOverflow(t *testing.T) {
	var r ringBuffer
	for i := 0; i < ringBufferSamples+10; i++ {
		r.push(Sample{Left: float32(i)})
	}
	dst := make([]Sample, ringBufferSamples)
	n := r.drain(dst)
	require.Equal(t, ringBufferSamples, n)
	require.Equal(t, float32(10), dst[0].Left, "oldest 10 samples should have been dropped")
}
