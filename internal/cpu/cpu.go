// Package cpu implements the Sharp LR35902 instruction interpreter: the
// register file, the 256 primary and 256 CB-prefixed opcodes, and
// interrupt dispatch. The CPU never stores a reference to the bus between
// Step calls (spec.md §9); it borrows one for the duration of a single
// instruction.
package cpu

import "github.com/hollow-byte/gbcore/internal/interrupt"

// Bus is the minimal contract the CPU needs from its memory system. The
// motherboard's bus implementation satisfies it.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is the Sharp LR35902 interpreter.
type CPU struct {
	Registers
	SP, PC uint16

	halted  bool
	imeStep int // counts down to 0, then IME is enabled (EI's one-instruction delay)

	irq *interrupt.Controller

	ticks uint16 // accumulated clock cycles for the in-progress Step
}

// New returns a CPU initialized to the documented post-boot register state
// for model, wired to irq for interrupt dispatch.
func New(model Model, irq *interrupt.Controller) *CPU {
	c := &CPU{irq: irq}
	a, f, b, cc, d, e, h, l, sp, pc := postBoot(model)
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = a, f, b, cc, d, e, h, l
	c.SP, c.PC = sp, pc
	return c
}

// Step executes one interrupt dispatch or instruction and returns the
// number of clock cycles consumed (machine cycles × 4).
func (c *CPU) Step(bus Bus) (uint16, error) {
	if c.imeStep > 0 {
		c.imeStep--
		if c.imeStep == 0 {
			c.irq.IME = true
		}
	}

	pending := c.irq.Pending()
	if pending != 0 {
		c.halted = false
		if c.irq.IME {
			return c.dispatchInterrupt(bus, pending), nil
		}
	}

	if c.halted {
		return 4, nil
	}

	c.ticks = 0
	opcode := c.fetch(bus)
	if invalidOpcodes[opcode] {
		return 0, &InvalidOpcodeError{Opcode: opcode, PC: c.PC - 1}
	}
	if err := c.execute(bus, opcode); err != nil {
		return 0, err
	}
	return c.ticks, nil
}

func lowestBit(mask uint8) interrupt.Line {
	for n := interrupt.Line(0); n < 5; n++ {
		if mask&(1<<n) != 0 {
			return n
		}
	}
	return 0
}

func (c *CPU) dispatchInterrupt(bus Bus, pending uint8) uint16 {
	c.irq.IME = false
	n := lowestBit(pending)
	c.irq.Clear(n)

	c.SP--
	bus.Write(c.SP, uint8(c.PC>>8))
	c.SP--
	bus.Write(c.SP, uint8(c.PC))

	c.PC = interrupt.Vector(n)
	return 16
}

// tick accounts for one machine cycle (4 clocks) of bus activity or
// internal delay.
func (c *CPU) tick() {
	c.ticks += 4
}

func (c *CPU) fetch(bus Bus) uint8 {
	c.tick()
	v := bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) readByte(bus Bus, addr uint16) uint8 {
	c.tick()
	return bus.Read(addr)
}

func (c *CPU) writeByte(bus Bus, addr uint16, v uint8) {
	c.tick()
	bus.Write(addr, v)
}

func (c *CPU) readWord(bus Bus, addr uint16) uint16 {
	lo := c.readByte(bus, addr)
	hi := c.readByte(bus, addr+1)
	return uint16(hi)<<8 | uint16(lo)
}

// imm8 fetches the next byte as an immediate operand.
func (c *CPU) imm8(bus Bus) uint8 {
	return c.fetch(bus)
}

// imm16 fetches the next two bytes, little-endian, as an immediate operand.
func (c *CPU) imm16(bus Bus) uint16 {
	lo := c.fetch(bus)
	hi := c.fetch(bus)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(bus Bus, v uint16) {
	c.tick() // internal delay before the first write
	c.SP--
	c.writeByte(bus, c.SP, uint8(v>>8))
	c.SP--
	c.writeByte(bus, c.SP, uint8(v))
}

func (c *CPU) pop(bus Bus) uint16 {
	lo := c.readByte(bus, c.SP)
	c.SP++
	hi := c.readByte(bus, c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Halt is invoked by the HALT instruction handler.
func (c *CPU) halt() {
	c.halted = true
}

// AtPC reports the opcode at the current PC without consuming a cycle,
// used by the motherboard to detect the STOP opcode before stepping.
func (c *CPU) AtPC(bus Bus) uint8 {
	return bus.Read(c.PC)
}
