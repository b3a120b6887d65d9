// Package joypad implements the 8-key input matrix exposed at 0xFF00.
package joypad

import "github.com/hollow-byte/gbcore/internal/interrupt"

// Key identifies one of the eight physical buttons.
type Key int

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Controller tracks the pressed/released state of all eight keys and the
// host-selected nibble (direction vs action buttons).
type Controller struct {
	selectDirection bool
	selectAction    bool

	// active-low key state: bit set means "not pressed"
	direction uint8 // bit0 right, bit1 left, bit2 up, bit3 down
	action    uint8 // bit0 A, bit1 B, bit2 select, bit3 start

	irq *interrupt.Controller
}

// New returns a Controller with no keys pressed, wired to irq.
func New(irq *interrupt.Controller) *Controller {
	return &Controller{direction: 0x0F, action: 0x0F, irq: irq}
}

// KeyDown presses a key, raising the Joypad interrupt.
func (c *Controller) KeyDown(k Key) {
	switch {
	case k <= Down:
		c.direction &^= 1 << uint(k)
	default:
		c.action &^= 1 << uint(k-A)
	}
	c.irq.Request(interrupt.Joypad)
}

// KeyUp releases a key.
func (c *Controller) KeyUp(k Key) {
	switch {
	case k <= Down:
		c.direction |= 1 << uint(k)
	default:
		c.action |= 1 << uint(k-A)
	}
}

// Read returns the P1/JOYP register (0xFF00): the selector bits the host
// last wrote, OR-ed with whichever nibble is currently selected.
func (c *Controller) Read() uint8 {
	v := uint8(0xC0)
	lower := uint8(0x0F)
	if c.selectDirection {
		v |= 0x10
	} else {
		lower &= c.direction
	}
	if c.selectAction {
		v |= 0x20
	} else {
		lower &= c.action
	}
	return v | lower
}

// Write updates the selector bits from a CPU write to P1. Only bits 4-5
// are writable.
func (c *Controller) Write(value uint8) {
	c.selectDirection = value&0x10 != 0
	c.selectAction = value&0x20 != 0
}
