package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollow-byte/gbcore/internal/interrupt"
)

func TestBackgroundScanlinePixelColor(t *testing.T) {
	irq := interrupt.NewController()
	p := New(irq, false)

	p.Write(0xFF40, 0x91) // LCDC: enable, BG enable, tile data at 0x8000
	p.Write(0xFF47, 0xE4) // BGP: identity palette, index 3 -> black

	// Tile 0's first row is all color-index-3 pixels.
	p.WriteVRAM(0x8000, 0xFF)
	p.WriteVRAM(0x8001, 0xFF)
	// tilemap (0,0) already defaults to tile index 0.

	p.ly = 0
	p.renderScanline()

	for x := 0; x < 8; x++ {
		require.Equal(t, [3]uint8{0x00, 0x00, 0x00}, p.frame[0][x], "pixel %d", x)
	}
}

func TestLYCCoincidenceRaisesStatOnEdge(t *testing.T) {
	irq := interrupt.NewController()
	p := New(irq, false)
	p.Write(0xFF40, 0x91)
	p.Write(0xFF45, 5) // LYC = 5
	p.Write(0xFF41, 0x40) // enable LYC STAT interrupt

	p.ly = 4
	p.onLYChanged()
	require.Equal(t, uint8(0), irq.Flag, "no coincidence yet")

	p.ly = 5
	p.onLYChanged()
	require.Equal(t, uint8(1<<interrupt.LCDStat), irq.Flag, "coincidence raises STAT")
}

func TestVBlankEntryRaisesVBlankInterrupt(t *testing.T) {
	irq := interrupt.NewController()
	p := New(irq, false)
	p.Write(0xFF40, 0x91)

	// Drive exactly one full frame's worth of dots (154 lines * 456 dots).
	for i := 0; i < 154; i++ {
		p.Step(456)
	}

	require.Equal(t, uint8(1<<interrupt.VBlank), irq.Flag&(1<<interrupt.VBlank))
	require.True(t, p.VBlankPending())
}

func TestHDMAGDMACopiesBlocks(t *testing.T) {
	irq := interrupt.NewController()
	p := New(irq, true)

	src := [0x20]byte{}
	for i := range src {
		src[i] = byte(i + 1)
	}
	read := func(addr uint16) uint8 { return src[addr-0xC000] }

	p.WriteHDMA(0xFF51, 0xC0)
	p.WriteHDMA(0xFF52, 0x00)
	p.WriteHDMA(0xFF53, 0x80)
	p.WriteHDMA(0xFF54, 0x00)
	p.WriteHDMA(0xFF55, 0x01) // 2 blocks (32 bytes), GDMA (bit 7 clear)

	blocks := p.RunGDMA(read)
	require.Equal(t, 2, blocks)
	require.False(t, p.HDMAActive())
	for i := 0; i < 0x20; i++ {
		require.Equal(t, src[i], p.ReadVRAM(0x8000+uint16(i)))
	}
}
