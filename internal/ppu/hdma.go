package ppu

// HDMA modes.
const (
	modeGDMA = iota
	modeHDMA
)

// hdma is the CGB VRAM-copy engine. It is driven entirely by the bus
// (spec.md §4.2): the bus supplies a read callback over its own address
// decode (so banked ROM is honored), and copyBlock writes each byte read
// through it into VRAM via WriteVRAM.
type hdma struct {
	src, dst uint16
	active   bool
	mode     int
	remain   uint8 // 0x7F = 128 blocks left, 0 = 1 block left
}

// ReadHDMA returns the byte mapped at 0xFF51-0xFF55. Only 0xFF55 is
// readable; the source/destination registers are write-only on hardware.
func (p *PPU) ReadHDMA(address uint16) uint8 {
	if address != 0xFF55 {
		return 0xFF
	}
	if !p.hdma.active {
		return 0xFF
	}
	return p.hdma.remain
}

// WriteHDMA dispatches a bus write to 0xFF51-0xFF55.
func (p *PPU) WriteHDMA(address uint16, value uint8) {
	switch address {
	case 0xFF51:
		p.hdma.src = uint16(value)<<8 | p.hdma.src&0x00FF
	case 0xFF52:
		p.hdma.src = p.hdma.src&0xFF00 | uint16(value&0xF0)
	case 0xFF53:
		p.hdma.dst = 0x8000 | uint16(value&0x1F)<<8 | p.hdma.dst&0x00F0
	case 0xFF54:
		p.hdma.dst = p.hdma.dst&0xFF00 | uint16(value&0xF0)
	case 0xFF55:
		if p.hdma.active && value&0x80 == 0 {
			// a write with bit 7 clear while HDMA is active aborts it
			p.hdma.active = false
			return
		}
		p.hdma.remain = value & 0x7F
		if value&0x80 == 0 {
			p.hdma.mode = modeGDMA
			p.hdma.active = true
		} else {
			p.hdma.mode = modeHDMA
			p.hdma.active = true
		}
	}
}

// HDMAActive reports whether a transfer is armed or in progress.
func (p *PPU) HDMAActive() bool { return p.hdma.active }

// HDMAIsGDMA reports whether the current transfer mode is GDMA.
func (p *PPU) HDMAIsGDMA() bool { return p.hdma.mode == modeGDMA }

// RunGDMA performs an entire general-purpose transfer immediately,
// returning the number of 16-byte blocks copied (for GPU-cycle accounting
// by the bus: 8 GPU cycles per block).
func (p *PPU) RunGDMA(read func(uint16) uint8) int {
	if !p.hdma.active || p.hdma.mode != modeGDMA {
		return 0
	}
	blocks := int(p.hdma.remain) + 1
	for i := 0; i < blocks; i++ {
		p.copyBlock(read)
	}
	p.hdma.active = false
	return blocks
}

// RunHDMABlock copies one 16-byte block, called by the bus on each PPU
// h-blank while an HDMA (as opposed to GDMA) transfer is armed.
func (p *PPU) RunHDMABlock(read func(uint16) uint8) {
	if !p.hdma.active || p.hdma.mode != modeHDMA {
		return
	}
	p.copyBlock(read)
	if p.hdma.remain == 0 {
		p.hdma.remain = 0x7F
		p.hdma.active = false
		return
	}
	p.hdma.remain--
}

func (p *PPU) copyBlock(read func(uint16) uint8) {
	for i := 0; i < 16; i++ {
		v := read(p.hdma.src)
		p.WriteVRAM(p.hdma.dst, v)
		p.hdma.src++
		p.hdma.dst++
		if p.hdma.dst >= 0xA000 {
			p.hdma.dst = 0x8000
		}
	}
}
