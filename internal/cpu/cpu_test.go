package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollow-byte/gbcore/internal/interrupt"
)

// flatBus is a 64KiB array bus used only by tests.
type flatBus [0x10000]uint8

func (b *flatBus) Read(addr uint16) uint8          { return b[addr] }
func (b *flatBus) Write(addr uint16, v uint8)      { b[addr] = v }

func loadProgram(b *flatBus, at uint16, bytes ...uint8) {
	for i, v := range bytes {
		b[at+uint16(i)] = v
	}
}

func TestHaltAfterImmediateLoad(t *testing.T) {
	irq := interrupt.NewController()
	c := New(DMG, irq)
	c.PC = 0x0100

	var bus flatBus
	loadProgram(&bus, 0x0100, 0x3E, 0x42, 0x76) // LD A,0x42 ; HALT

	total := uint16(0)
	cycles, err := c.Step(&bus)
	require.NoError(t, err)
	total += cycles

	cycles, err = c.Step(&bus)
	require.NoError(t, err)
	total += cycles

	require.Equal(t, uint16(12), total)
	require.Equal(t, uint8(0x42), c.A)
	require.True(t, c.halted)

	cycles, err = c.Step(&bus)
	require.NoError(t, err)
	require.Equal(t, uint16(4), cycles, "halted CPU idles for 4 clocks per step")
}

func TestInvalidOpcodeFails(t *testing.T) {
	irq := interrupt.NewController()
	c := New(DMG, irq)
	c.PC = 0x0100

	var bus flatBus
	loadProgram(&bus, 0x0100, 0xD3) // invalid

	_, err := c.Step(&bus)
	require.Error(t, err)
	var opErr *InvalidOpcodeError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, uint8(0xD3), opErr.Opcode)
}

func TestInterruptDispatchPriorityAndEIDelay(t *testing.T) {
	irq := interrupt.NewController()
	c := New(DMG, irq)
	c.PC = 0x0100
	c.SP = 0xFFFE

	var bus flatBus
	// EI ; NOP ; NOP
	loadProgram(&bus, 0x0100, 0xFB, 0x00, 0x00)

	irq.Enable = 0x1F
	irq.Request(interrupt.Timer)
	irq.Request(interrupt.VBlank) // lower bit, higher priority

	// EI: IME does not take effect until after the following instruction.
	_, err := c.Step(&bus)
	require.NoError(t, err)
	require.False(t, irq.IME)

	// NOP immediately following EI: IME is still false during this step.
	_, err = c.Step(&bus)
	require.NoError(t, err)
	require.False(t, irq.IME)

	// This step is where IME takes effect, and dispatch happens in the
	// same step since a pending interrupt is already waiting. VBlank (bit
	// 0) wins over Timer (bit 2).
	cycles, err := c.Step(&bus)
	require.NoError(t, err)
	require.Equal(t, uint16(16), cycles)
	require.Equal(t, interrupt.Vector(interrupt.VBlank), c.PC)
	require.False(t, irq.IME)
	require.Equal(t, uint8(1<<interrupt.Timer), irq.Flag)
}

func TestHaltedCPUWakesOnPendingInterrupt(t *testing.T) {
	irq := interrupt.NewController()
	c := New(DMG, irq)
	c.PC = 0x0100
	c.halted = true

	var bus flatBus
	irq.Enable = 0x1F
	irq.Request(interrupt.Joypad)

	_, err := c.Step(&bus)
	require.NoError(t, err)
	require.False(t, c.halted)
}
