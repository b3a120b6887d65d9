package timer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollow-byte/gbcore/internal/interrupt"
)

func TestTIMAAdvancesAtConfiguredFrequency(t *testing.T) {
	irq := interrupt.NewController()
	c := New(irq)
	c.Write(0xFF07, 0x05) // enable, frequency select 01 -> period 16

	c.Step(16)
	require.Equal(t, uint8(1), c.Read(0xFF05))
}

func TestTIMAOverflowReloadsAndRaisesInterrupt(t *testing.T) {
	irq := interrupt.NewController()
	c := New(irq)
	c.Write(0xFF07, 0x05) // enable, period 16 (before TIMA: a frequency change reloads it)
	c.Write(0xFF06, 0xAB) // TMA
	c.Write(0xFF05, 0xFF) // TIMA

	c.Step(16)
	require.Equal(t, uint8(0xAB), c.Read(0xFF05))
	require.Equal(t, uint8(1<<interrupt.Timer), irq.Flag)
}

func TestDIVResetsOnAnyWrite(t *testing.T) {
	irq := interrupt.NewController()
	c := New(irq)
	c.Step(256)
	require.Equal(t, uint8(1), c.Read(0xFF04))
	c.Write(0xFF04, 0x99)
	require.Equal(t, uint8(0), c.Read(0xFF04))
}

func TestTACFrequencyChangeResetsAccumulatorAndReloadsTIMA(t *testing.T) {
	irq := interrupt.NewController()
	c := New(irq)
	c.Write(0xFF06, 0x10)
	c.Write(0xFF07, 0x05) // period 16
	c.Step(10)            // accumulate 10 of 16 cycles, TIMA still 0x10
	c.Write(0xFF05, 0x20)
	c.Write(0xFF07, 0x06) // change frequency selection -> period 64
	require.Equal(t, uint8(0x10), c.Read(0xFF05), "frequency change reloads TIMA from TMA")

	c.Step(60) // 60 < 64, but 10+60 would tick if the stale accumulator carried over
	require.Equal(t, uint8(0x10), c.Read(0xFF05))
}
