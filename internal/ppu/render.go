package ppu

// renderScanline composites the background/window and sprite layers for
// the scanline that just finished mode 3, on the mode-3->0 transition.
func (p *PPU) renderScanline() {
	y := p.ly
	if y >= ScreenHeight {
		return
	}
	if p.lcdc&lcdcBGEnable != 0 || p.cgb {
		p.renderBackground(y)
	} else {
		for x := 0; x < ScreenWidth; x++ {
			p.scanline[x] = pixelInfo{}
			p.frame[y][x] = [3]uint8{0xFF, 0xFF, 0xFF}
		}
	}
	if p.lcdc&lcdcObjEnable != 0 {
		p.renderSprites(y)
	}
}

func (p *PPU) renderBackground(y uint8) {
	usedWindow := false
	windowEnabled := p.lcdc&lcdcWindowEnable != 0 && p.wy <= y

	for x := 0; x < ScreenWidth; x++ {
		useWindow := windowEnabled && int(x) >= int(p.wx)-7

		var tx, ty uint8
		var mapBase uint16
		if useWindow {
			usedWindow = true
			tx = uint8(int(x) - (int(p.wx) - 7))
			ty = p.windowLine
			if p.lcdc&lcdcWindowMapSel != 0 {
				mapBase = 0x9C00
			} else {
				mapBase = 0x9800
			}
		} else {
			tx = p.scx + uint8(x)
			ty = p.scy + y
			if p.lcdc&lcdcBGMapSelect != 0 {
				mapBase = 0x9C00
			} else {
				mapBase = 0x9800
			}
		}

		mapOffset := mapBase + uint16(ty/8)*32 + uint16(tx/8) - 0x8000
		tileIndex := p.vram[0][mapOffset]

		var attr uint8
		if p.cgb {
			attr = p.vram[1][mapOffset]
		}
		bank := (attr >> 3) & 1
		yflip := attr&0x40 != 0
		xflip := attr&0x20 != 0
		bgPalette := attr & 0x07
		priority := attr&0x80 != 0

		row := ty % 8
		if yflip {
			row = 7 - row
		}

		var tileAddr uint16
		if p.lcdc&lcdcTileDataSelect != 0 {
			tileAddr = 0x8000 + uint16(tileIndex)*16
		} else {
			tileAddr = 0x9000 + uint16(int16(int8(tileIndex)))*16
		}
		tileAddr += uint16(row) * 2

		lo := p.vram[bank][tileAddr-0x8000]
		hi := p.vram[bank][tileAddr-0x8000+1]

		col := tx % 8
		bit := col
		if !xflip {
			bit = 7 - col
		}
		colorIndex := (hi>>bit)&1<<1 | (lo>>bit)&1

		var color [3]uint8
		if p.cgb {
			color = cgbColor(&p.bgPalette, bgPalette, colorIndex)
		} else {
			color = dmgColor(p.bgp, colorIndex)
		}

		p.scanline[x] = pixelInfo{bgPriority: priority, colorIndex: colorIndex}
		p.frame[y][x] = color
	}

	if usedWindow {
		p.windowLine++
	}
}

// maxSpritesPerScanline is the hardware OAM-scan limit: the PPU stops
// searching OAM for this scanline once 10 matching entries are found, so
// any sprite beyond the 10th in OAM order simply never appears.
const maxSpritesPerScanline = 10

func (p *PPU) renderSprites(y uint8) {
	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	drawn := [ScreenWidth]bool{}

	matched := 0
	for i := 0; i < 40 && matched < maxSpritesPerScanline; i++ {
		base := i * 4
		spriteY := int(p.oam[base]) - 16
		spriteX := int(p.oam[base+1]) - 8
		tile := p.oam[base+2]
		attr := p.oam[base+3]

		if int(y) < spriteY || int(y) >= spriteY+int(height) {
			continue
		}
		matched++
		if spriteX <= -8 || spriteX >= ScreenWidth {
			continue
		}

		if height == 16 {
			tile &^= 0x01
		}
		row := uint8(int(y) - spriteY)
		if attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}

		bank := uint8(0)
		if p.cgb && attr&0x08 != 0 {
			bank = 1
		}
		tileAddr := uint16(tile)*16 + uint16(row)*2
		lo := p.vram[bank][tileAddr]
		hi := p.vram[bank][tileAddr+1]

		xflip := attr&0x20 != 0
		behindBG := attr&0x80 != 0
		dmgPaletteHigh := attr&0x10 != 0
		cgbPalette := attr & 0x07

		for col := uint8(0); col < 8; col++ {
			screenX := spriteX + int(col)
			if screenX < 0 || screenX >= ScreenWidth || drawn[screenX] {
				continue
			}
			bit := col
			if !xflip {
				bit = 7 - col
			}
			colorIndex := (hi>>bit)&1<<1 | (lo>>bit)&1
			if colorIndex == 0 {
				continue
			}

			bg := p.scanline[screenX]
			if p.cgb && p.lcdc&lcdcBGEnable == 0 {
				// master priority off: sprites always on top
			} else if p.cgb {
				if bg.bgPriority && bg.colorIndex != 0 {
					continue
				}
				if behindBG && bg.colorIndex != 0 {
					continue
				}
			} else if behindBG && bg.colorIndex != 0 {
				continue
			}

			var color [3]uint8
			if p.cgb {
				color = cgbColor(&p.objPalette, cgbPalette, colorIndex)
			} else if dmgPaletteHigh {
				color = dmgColor(p.obp1, colorIndex)
			} else {
				color = dmgColor(p.obp0, colorIndex)
			}

			p.frame[y][screenX] = color
			drawn[screenX] = true
		}
	}
}
