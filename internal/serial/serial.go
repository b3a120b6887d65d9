// Package serial provides the minimal register stubs for the link-cable
// port. Link-cable peering is out of scope (spec.md §1); this package only
// holds SB/SC state and raises the Serial interrupt after a transfer
// started with the internal clock completes, so that software polling for
// "transfer done" does not hang forever waiting on a cable that is never
// connected.
package serial

import "github.com/hollow-byte/gbcore/internal/interrupt"

const transferCycles = 8 * 512 // roughly one 8-bit transfer at the internal 8192 Hz clock

// Controller is the serial port's register shell.
type Controller struct {
	sb uint8
	sc uint8

	transferring bool
	remaining    int

	irq *interrupt.Controller
}

// New returns a Controller wired to irq.
func New(irq *interrupt.Controller) *Controller {
	return &Controller{irq: irq}
}

// Step advances any in-progress internally-clocked transfer.
func (c *Controller) Step(cycles uint32) {
	if !c.transferring {
		return
	}
	c.remaining -= int(cycles)
	if c.remaining <= 0 {
		c.transferring = false
		c.sc &^= 0x80
		c.sb = 0xFF // no peer connected: shift in all 1s
		c.irq.Request(interrupt.Serial)
	}
}

// Read returns the byte mapped at the given serial register address.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF01:
		return c.sb
	case 0xFF02:
		return c.sc | 0x7E
	}
	return 0xFF
}

// Write dispatches a bus write to the given serial register address.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		c.sb = value
	case 0xFF02:
		c.sc = value
		if value&0x81 == 0x81 { // start transfer, internal clock
			c.transferring = true
			c.remaining = transferCycles
		}
	}
}
