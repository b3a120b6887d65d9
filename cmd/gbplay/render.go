package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/hollow-byte/gbcore/gbcore"
)

// shadeOf collapses an RGB triple to one of four gray levels for half-block
// terminal rendering, using a simple weighted-luminance bucket.
func shadeOf(c [3]uint8) int {
	lum := int(c[0])*3 + int(c[1])*6 + int(c[2])
	switch {
	case lum > 1500:
		return 3
	case lum > 900:
		return 2
	case lum > 300:
		return 1
	default:
		return 0
	}
}

var shadeColor = [4]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorGray,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// drawFrame renders frame into screen using Unicode half-block characters,
// pairing each even/odd row of Game Boy pixels into one terminal cell.
func drawFrame(screen tcell.Screen, frame gbcore.Frame) {
	for y := 0; y < 144; y += 2 {
		for x := 0; x < 160; x++ {
			top := shadeOf(frame[y][x])
			bottom := top
			if y+1 < 144 {
				bottom = shadeOf(frame[y+1][x])
			}
			style := tcell.StyleDefault.Foreground(shadeColor[top]).Background(shadeColor[bottom])
			screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}
