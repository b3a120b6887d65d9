// Package ppu implements the pixel processing unit: the scanline renderer,
// mode state machine, OAM, CGB-banked VRAM, and palettes described in
// spec.md §4.4.
package ppu

import (
	"github.com/hollow-byte/gbcore/internal/interrupt"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	modeOAMScan  = 2
	modeTransfer = 3
	modeHBlank   = 0
	modeVBlank   = 1
)

// LCDC bit positions.
const (
	lcdcBGEnable       = 1 << 0
	lcdcObjEnable      = 1 << 1
	lcdcObjSize        = 1 << 2
	lcdcBGMapSelect    = 1 << 3
	lcdcTileDataSelect = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowMapSel   = 1 << 6
	lcdcEnable         = 1 << 7
)

// STAT bit positions.
const (
	statLYCEqualsLY = 1 << 2
	statHBlankIRQ   = 1 << 3
	statVBlankIRQ   = 1 << 4
	statOAMIRQ      = 1 << 5
	statLYCIRQ      = 1 << 6
)

// pixelInfo records, per background/window pixel, the data the sprite
// compositor needs to resolve priority.
type pixelInfo struct {
	bgPriority bool // CGB BG-to-OBJ priority attribute bit
	colorIndex uint8
}

// PPU is the pixel processing unit.
type PPU struct {
	cgb bool

	vram    [2][0x2000]uint8
	vramBank uint8
	oam     [160]uint8

	lcdc, stat         uint8
	scy, scx           uint8
	ly, lyc            uint8
	bgp, obp0, obp1    uint8
	wy, wx             uint8

	bcps, ocps uint8 // auto-increment flag in bit 7, index in bits 0-5
	bgPalette  [64]uint8
	objPalette [64]uint8

	dots uint16
	mode uint8

	statLine bool // STAT interrupt line, used to detect 0->1 edges

	frame     [ScreenHeight][ScreenWidth][3]uint8
	scanline  [ScreenWidth]pixelInfo
	vBlankLatch bool
	hBlankLatch bool

	windowLine uint8 // internal window line counter, only advances when the window is drawn

	hdma hdma

	irq *interrupt.Controller
}

// New returns a PPU wired to irq. cgb selects Game Boy Color palette and
// VRAM-bank semantics.
func New(irq *interrupt.Controller, cgb bool) *PPU {
	p := &PPU{irq: irq, cgb: cgb}
	p.lcdc = 0x91
	p.bgp = 0xFC
	p.obp0 = 0xFF
	p.obp1 = 0xFF
	return p
}

// Enabled reports whether LCDC bit 7 is set.
func (p *PPU) Enabled() bool { return p.lcdc&lcdcEnable != 0 }

// Frame returns the completed 160x144 RGB frame buffer.
func (p *PPU) Frame() *[ScreenHeight][ScreenWidth][3]uint8 { return &p.frame }

// VBlankPending reports whether a frame has completed since the last call
// to ConsumeVBlank.
func (p *PPU) VBlankPending() bool { return p.vBlankLatch }

// ConsumeVBlank clears the vblank-pending latch.
func (p *PPU) ConsumeVBlank() { p.vBlankLatch = false }

// HBlankPending reports whether mode 0 was just entered, for the HDMA
// engine to consume.
func (p *PPU) HBlankPending() bool { return p.hBlankLatch }

// ConsumeHBlank clears the hblank-pending latch.
func (p *PPU) ConsumeHBlank() { p.hBlankLatch = false }

// Step advances the PPU by the given number of GPU-rate cycles.
func (p *PPU) Step(cycles uint16) {
	if !p.Enabled() {
		return
	}
	remaining := cycles
	for remaining > 0 {
		step := remaining
		if step > 80 {
			step = 80
		}
		remaining -= step
		p.advance(step)
	}
}

func (p *PPU) advance(cycles uint16) {
	p.dots += cycles
	if p.ly < 144 {
		p.updateMode()
	}
	for p.dots >= 456 {
		p.dots -= 456
		p.ly++
		if p.ly == 154 {
			p.ly = 0
			p.windowLine = 0
		}
		p.onLYChanged()
	}
	if p.ly < 144 {
		p.updateMode()
	} else if p.mode != modeVBlank {
		p.enterMode(modeVBlank)
	}
}

// updateMode recomputes mode 2/3/0 from the dot counter within a visible
// scanline and fires the documented transition side effects.
func (p *PPU) updateMode() {
	var next uint8
	switch {
	case p.dots < 80:
		next = modeOAMScan
	case p.dots < 252:
		next = modeTransfer
	default:
		next = modeHBlank
	}
	if next != p.mode {
		p.enterMode(next)
	}
}

func (p *PPU) enterMode(mode uint8) {
	prev := p.mode
	p.mode = mode
	switch mode {
	case modeHBlank:
		if prev == modeTransfer {
			p.renderScanline()
		}
		p.hBlankLatch = true
		p.checkStatIRQ(p.stat&statHBlankIRQ != 0)
	case modeVBlank:
		p.vBlankLatch = true
		p.irq.Request(interrupt.VBlank)
		p.checkStatIRQ(p.stat&statVBlankIRQ != 0)
	case modeOAMScan:
		p.checkStatIRQ(p.stat&statOAMIRQ != 0)
	case modeTransfer:
	}
}

func (p *PPU) onLYChanged() {
	coincidence := p.ly == p.lyc
	p.stat = p.stat&^statLYCEqualsLY | boolBit(coincidence, statLYCEqualsLY)
	p.checkStatIRQ(coincidence && p.stat&statLYCIRQ != 0)
}

// checkStatIRQ requests LCDStat only on a false->true transition of the
// STAT line. The line holds only the condition passed by the most recent
// call; enabled sources are not ORed together.
func (p *PPU) checkStatIRQ(condition bool) {
	if condition && !p.statLine {
		p.irq.Request(interrupt.LCDStat)
	}
	p.statLine = condition
}

func boolBit(cond bool, bit uint8) uint8 {
	if cond {
		return bit
	}
	return 0
}

// Disable resets dot/LY/mode state and clears the frame buffer to white, as
// spec.md §4.4 documents for LCDC bit 7 going low.
func (p *PPU) disable() {
	p.dots = 0
	p.ly = 0
	p.mode = modeHBlank
	p.statLine = false
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			p.frame[y][x] = [3]uint8{0xFF, 0xFF, 0xFF}
		}
	}
}
