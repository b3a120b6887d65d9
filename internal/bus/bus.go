// Package bus implements the memory management unit: the 16-bit address
// decoder that fans out to the cartridge, PPU, APU, timer, joypad, serial,
// and HDMA engine, and owns WRAM, HRAM, and the interrupt registers
// described in spec.md §4.2.
package bus

import (
	"github.com/hollow-byte/gbcore/internal/apu"
	"github.com/hollow-byte/gbcore/internal/cartridge"
	"github.com/hollow-byte/gbcore/internal/gblog"
	"github.com/hollow-byte/gbcore/internal/interrupt"
	"github.com/hollow-byte/gbcore/internal/joypad"
	"github.com/hollow-byte/gbcore/internal/ppu"
	"github.com/hollow-byte/gbcore/internal/serial"
	"github.com/hollow-byte/gbcore/internal/timer"
)

// Bus is the memory management unit. It owns every device except the CPU.
type Bus struct {
	cart *cartridge.Cartridge

	wram     [8][0x1000]uint8
	wramBank uint8

	hram [0x80]uint8

	PPU    *ppu.PPU
	APU    *apu.APU
	Timer  *timer.Controller
	Joypad *joypad.Controller
	Serial *serial.Controller

	irq *interrupt.Controller

	cgb       bool
	key0      uint8 // CGB KEY0: compatibility-mode latch, informational only
	key1      uint8 // CGB KEY1: speed-switch armed bit and current-speed flag
	doubleSpeed bool

	vramStall uint32 // pending GPU-rate cycles owed for a completed GDMA transfer

	log gblog.Logger
}

// New returns a Bus wired to cart, with every sub-device constructed and
// initialized to its documented post-boot register state.
func New(cart *cartridge.Cartridge, cgb bool, log gblog.Logger) *Bus {
	irq := interrupt.NewController()
	b := &Bus{
		cart:     cart,
		wramBank: 1,
		PPU:      ppu.New(irq, cgb),
		APU:      apu.New(),
		Timer:    timer.New(irq),
		Joypad:   joypad.New(irq),
		Serial:   serial.New(irq),
		irq:      irq,
		cgb:      cgb,
		log:      log.With("bus"),
	}
	b.APU.Write(0xFF26, 0x80) // power the APU on so NRxx writes take effect
	b.log.Debugf("bus initialized cgb=%v", cgb)
	return b
}

// Interrupts returns the shared interrupt controller, for the CPU to poll
// and service.
func (b *Bus) Interrupts() *interrupt.Controller { return b.irq }

// Read returns the byte mapped at address, decoding the full 16-bit space
// per the documented layout. Out-of-range reads return 0xFF rather than
// failing.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return b.cart.Read(address)
	case address <= 0x9FFF:
		return b.PPU.ReadVRAM(address)
	case address <= 0xBFFF:
		return b.cart.Read(address)
	case address <= 0xCFFF:
		return b.wram[0][address-0xC000]
	case address <= 0xDFFF:
		return b.wram[b.wramBank][address-0xD000]
	case address <= 0xEFFF:
		return b.wram[0][address-0xE000]
	case address <= 0xFDFF:
		return b.wram[b.wramBank][address-0xF000]
	case address <= 0xFE9F:
		return b.PPU.ReadOAM(address)
	case address <= 0xFEFF:
		return 0x00
	case address == 0xFF00:
		return b.Joypad.Read()
	case address == 0xFF01, address == 0xFF02:
		return b.Serial.Read(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return b.Timer.Read(address)
	case address == 0xFF0F:
		return b.irq.ReadIF()
	case address >= 0xFF10 && address <= 0xFF3F:
		return b.APU.Read(address)
	case address >= 0xFF40 && address <= 0xFF4B:
		return b.PPU.Read(address)
	case address == 0xFF4D:
		return b.readKEY1()
	case address == 0xFF4F:
		return b.PPU.Read(address)
	case address >= 0xFF51 && address <= 0xFF55:
		return b.PPU.ReadHDMA(address)
	case address >= 0xFF68 && address <= 0xFF6B:
		return b.PPU.Read(address)
	case address == 0xFF70:
		return b.readSVBK()
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	case address == 0xFFFF:
		return b.irq.ReadIE()
	}
	return 0xFF
}

// Write dispatches a write to address, decoding the full 16-bit space.
// Out-of-range writes are silently ignored.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.cart.Write(address, value)
	case address <= 0x9FFF:
		b.PPU.WriteVRAM(address, value)
	case address <= 0xBFFF:
		b.cart.Write(address, value)
	case address <= 0xCFFF:
		b.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		b.wram[b.wramBank][address-0xD000] = value
	case address <= 0xEFFF:
		b.wram[0][address-0xE000] = value
	case address <= 0xFDFF:
		b.wram[b.wramBank][address-0xF000] = value
	case address <= 0xFE9F:
		b.PPU.WriteOAM(address, value)
	case address <= 0xFEFF:
		// unmapped, writes ignored
	case address == 0xFF00:
		b.Joypad.Write(value)
	case address == 0xFF01, address == 0xFF02:
		b.Serial.Write(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		b.Timer.Write(address, value)
	case address == 0xFF0F:
		b.irq.WriteIF(value)
	case address == 0xFF46:
		b.runOAMDMA(value)
	case address >= 0xFF10 && address <= 0xFF3F:
		b.APU.Write(address, value)
	case address >= 0xFF40 && address <= 0xFF4B:
		b.PPU.Write(address, value)
	case address == 0xFF4D:
		b.writeKEY1(value)
	case address == 0xFF4F:
		b.PPU.Write(address, value)
	case address >= 0xFF51 && address <= 0xFF55:
		b.PPU.WriteHDMA(address, value)
		if b.PPU.HDMAActive() && b.PPU.HDMAIsGDMA() {
			blocks := b.PPU.RunGDMA(b.Read)
			b.vramStall += uint32(blocks) * 8
		}
	case address >= 0xFF68 && address <= 0xFF6B:
		b.PPU.Write(address, value)
	case address == 0xFF70:
		b.writeSVBK(value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	case address == 0xFFFF:
		b.irq.WriteIE(value)
	}
}

func (b *Bus) readSVBK() uint8 {
	if !b.cgb {
		return 0xFF
	}
	return b.wramBank | 0xF8
}

func (b *Bus) writeSVBK(value uint8) {
	if !b.cgb {
		return
	}
	bank := value & 0x07
	if bank == 0 {
		bank = 1
	}
	b.wramBank = bank
}

// runOAMDMA performs the synchronous 160-byte OAM transfer triggered by a
// write to 0xFF46. Values above 0xF1 are out of range on hardware and
// ignored here.
func (b *Bus) runOAMDMA(value uint8) {
	if value > 0xF1 {
		return
	}
	src := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		b.PPU.WriteOAM(0xFE00+i, b.Read(src+i))
	}
}

func (b *Bus) readKEY1() uint8 {
	if !b.cgb {
		return 0xFF
	}
	v := b.key1 & 0x01
	if b.doubleSpeed {
		v |= 0x80
	}
	return v | 0x7E
}

func (b *Bus) writeKEY1(value uint8) {
	if !b.cgb {
		return
	}
	b.key1 = b.key1&^0x01 | value&0x01
}

// SpeedSwitchArmed reports whether KEY1 bit 0 is set, meaning the next STOP
// opcode should toggle double-speed mode.
func (b *Bus) SpeedSwitchArmed() bool { return b.cgb && b.key1&0x01 != 0 }

// ToggleSpeed flips double-speed mode and clears the armed bit, called by
// the motherboard when the CPU encounters STOP with the switch armed.
func (b *Bus) ToggleSpeed() {
	b.doubleSpeed = !b.doubleSpeed
	b.key1 &^= 0x01
	b.log.Debugf("speed switch double_speed=%v", b.doubleSpeed)
}

// DoubleSpeed reports the current CGB speed mode.
func (b *Bus) DoubleSpeed() bool { return b.doubleSpeed }

// Step advances every device owned by the bus by C CPU cycles, scaling
// PPU/APU to GPU rate (half of CPU rate in double-speed mode) and running
// any pending HDMA block on h-blank entry, per the cycle fan-out in
// spec.md §4.2.
// Step fans the raw, unhalved CPU cycle count cycles out to every
// sub-device. Timer runs at CPU rate; PPU and APU run at GPU rate
// (cycles/2 in double-speed mode), plus any VRAM-DMA stall owed from a
// GDMA transfer completed since the last Step.
func (b *Bus) Step(cycles uint32) {
	b.Timer.Step(cycles)
	b.Serial.Step(cycles)

	gpuCycles := cycles
	if b.doubleSpeed {
		gpuCycles /= 2
	}
	gpuCycles += b.vramStall
	b.vramStall = 0

	b.APU.Step(gpuCycles)
	b.PPU.Step(uint16(gpuCycles))
	if b.PPU.HBlankPending() {
		b.PPU.ConsumeHBlank()
		if b.PPU.HDMAActive() && !b.PPU.HDMAIsGDMA() {
			b.PPU.RunHDMABlock(b.Read)
		}
	}
}
