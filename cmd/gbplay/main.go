// Command gbplay is a minimal terminal preview host exercising the public
// gbcore API end to end: it loads a ROM, steps the motherboard until a
// frame completes, draws it with tcell, and persists battery RAM/RTC state
// on exit.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/hollow-byte/gbcore/gbcore"
	"github.com/hollow-byte/gbcore/internal/romutil"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbplay"
	app.Usage = "terminal preview for the gbcore emulation core"
	app.ArgsUsage = "<rom>"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "a", Usage: "enable audio meter in the side panel"},
		cli.IntFlag{Name: "x", Value: 1, Usage: "speed multiplier: 1, 2, 4, or 8"},
		cli.BoolFlag{Name: "cgb", Usage: "run in Game Boy Color mode"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	romPath := c.Args().First()
	if romPath == "" {
		return fmt.Errorf("gbplay: missing ROM path")
	}
	speed := c.Int("x")
	switch speed {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("gbplay: -x must be 1, 2, 4, or 8, got %d", speed)
	}

	rom, err := romutil.Load(romPath)
	if err != nil {
		return err
	}

	model := gbcore.ModelDMG
	if c.Bool("cgb") {
		model = gbcore.ModelCGB
	}

	persister := newFilePersister(romPath)
	mb, err := gbcore.New(rom, gbcore.Config{Model: model, Persister: persister})
	if err != nil {
		return fmt.Errorf("gbplay: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("gbplay: terminal init: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("gbplay: terminal init: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))

	quit := make(chan struct{})
	go pollInput(screen, mb, quit)

	audio := make([]gbcore.Sample, 1024)
	showMeter := c.Bool("a")

	for {
		select {
		case <-quit:
			return mb.Save(context.Background())
		default:
		}

		if _, err := mb.Next(); err != nil {
			screen.Fini()
			return fmt.Errorf("gbplay: %w", err)
		}

		n := mb.DrainAudio(audio)
		if showMeter && n > 0 {
			drawMeter(screen, audio[:n])
		}

		if mb.FrameReady() {
			frame := mb.ConsumeFrame()
			drawFrame(screen, frame)
			screen.Show()
			time.Sleep(time.Second / time.Duration(60*speed))
		}
	}
}

func pollInput(screen tcell.Screen, mb *gbcore.Motherboard, quit chan struct{}) {
	keymap := map[tcell.Key]gbcore.Key{
		tcell.KeyUp:    gbcore.KeyUp,
		tcell.KeyDown:  gbcore.KeyDown,
		tcell.KeyLeft:  gbcore.KeyLeft,
		tcell.KeyRight: gbcore.KeyRight,
		tcell.KeyEnter: gbcore.KeyStart,
	}
	runemap := map[rune]gbcore.Key{
		'z': gbcore.KeyA,
		'x': gbcore.KeyB,
		' ': gbcore.KeySelect,
	}
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				close(quit)
				return
			}
			if k, ok := keymap[ev.Key()]; ok {
				mb.KeyDown(k)
			} else if k, ok := runemap[ev.Rune()]; ok {
				mb.KeyDown(k)
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// drawMeter renders a coarse RMS bar for the drained samples in the
// terminal's top-right corner.
func drawMeter(screen tcell.Screen, samples []gbcore.Sample) {
	var sum float32
	for _, s := range samples {
		sum += s.Left*s.Left + s.Right*s.Right
	}
	rms := sum / float32(len(samples)*2)
	bars := int(rms * 400)
	if bars > 20 {
		bars = 20
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for i := 0; i < 20; i++ {
		ch := ' '
		if i < bars {
			ch = '█'
		}
		screen.SetContent(162+i, 0, ch, nil, style)
	}
}
