// Package timer implements the DIV/TIMA/TMA/TAC timer unit: a free-running
// divider and a configurable-frequency counter that raises the Timer
// interrupt on overflow.
package timer

import (
	"github.com/hollow-byte/gbcore/internal/clock"
	"github.com/hollow-byte/gbcore/internal/interrupt"
)

// timaPeriods maps TAC's low two bits to the TIMA clock's period in CPU
// cycles: {4096, 262144, 65536, 16384} Hz become {1024, 16, 64, 256}.
var timaPeriods = [4]uint32{1024, 16, 64, 256}

// Controller is the timer/divider unit.
type Controller struct {
	div  uint8
	tima uint8
	tma  uint8
	tac  uint8

	divClock  *clock.Divider
	timaClock *clock.Divider

	irq *interrupt.Controller
}

// New returns a Controller wired to irq for raising the Timer interrupt.
func New(irq *interrupt.Controller) *Controller {
	return &Controller{
		divClock:  clock.New(256),
		timaClock: clock.New(timaPeriods[0]),
		irq:       irq,
	}
}

// Step advances the timer by cycles CPU clocks.
func (c *Controller) Step(cycles uint32) {
	divTicks := c.divClock.Tick(cycles)
	for i := uint32(0); i < divTicks; i++ {
		c.div++
	}
	if c.tac&0x04 == 0 {
		return
	}
	timaTicks := c.timaClock.Tick(cycles)
	for i := uint32(0); i < timaTicks; i++ {
		c.tima++
		if c.tima == 0 {
			c.tima = c.tma
			c.irq.Request(interrupt.Timer)
		}
	}
}

// Read returns the byte mapped at the given timer register address.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return c.div
	case 0xFF05:
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write dispatches a bus write to the given timer register address.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		// any write to DIV resets its internal counter to zero
		c.div = 0
		c.divClock.Reset()
	case 0xFF05:
		c.tima = value
	case 0xFF06:
		c.tma = value
	case 0xFF07:
		newPeriod := timaPeriods[value&0x03]
		if newPeriod != c.timaClock.Period() {
			// a frequency change resets the accumulator and reloads TIMA
			// from TMA; this is an observable simplification of this
			// implementation rather than exact hardware glitch behavior.
			c.timaClock.Reset()
			c.timaClock.SetPeriod(newPeriod)
			c.tima = c.tma
		}
		c.tac = value & 0x07
	}
}
