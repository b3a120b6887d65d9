package gbcore

import (
	"context"

	"github.com/hollow-byte/gbcore/internal/apu"
	"github.com/hollow-byte/gbcore/internal/bus"
	"github.com/hollow-byte/gbcore/internal/cartridge"
	"github.com/hollow-byte/gbcore/internal/cpu"
	"github.com/hollow-byte/gbcore/internal/gblog"
	"github.com/hollow-byte/gbcore/internal/joypad"
)

// stopOpcode is the CPU opcode the motherboard watches for before stepping,
// to implement the CGB speed switch at the point spec.md §4.6 documents.
const stopOpcode = 0x10

// Motherboard owns the CPU and bus and drives the emulation loop one CPU
// step at a time. It is the sole public entry point into the core.
type Motherboard struct {
	cpu  *cpu.CPU
	bus  *bus.Bus
	cart *cartridge.Cartridge

	persister Persister

	log gblog.Logger
}

// New loads rom and returns a Motherboard ready to run. The cartridge
// header decides bank-controller dispatch; cfg.Model decides CPU post-boot
// state and whether CGB features (double speed, VRAM bank 1, HDMA, palette
// RAM) are active.
func New(rom []byte, cfg Config) (*Motherboard, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}

	log := gblog.Stderr()

	persister := cfg.Persister
	if persister == nil {
		persister = NopPersister{}
	}

	cgb := cfg.Model == ModelCGB
	b := bus.New(cart, cgb, log)
	c := cpu.New(cfg.Model, b.Interrupts())

	m := &Motherboard{
		cpu:       c,
		bus:       b,
		cart:      cart,
		persister: persister,
		log:       log.With("motherboard"),
	}

	if err := m.loadPersistedState(context.Background()); err != nil {
		return nil, err
	}

	m.log.Infof("cartridge loaded title=%q cgb=%v digest=%x", cart.Title(), cgb, cart.Digest())
	return m, nil
}

func (m *Motherboard) loadPersistedState(ctx context.Context) error {
	if m.cart.HasBattery() {
		data, err := m.persister.LoadRAM(ctx)
		if err != nil {
			return &PersistenceError{Op: "load_ram", Err: err}
		}
		if data != nil {
			m.cart.LoadRAM(data)
		}
	}
	if m.cart.HasRTC() {
		data, err := m.persister.LoadRTC(ctx)
		if err != nil {
			return &PersistenceError{Op: "load_rtc", Err: err}
		}
		if data != nil {
			m.cart.LoadRTCState(data)
		}
	}
	return nil
}

// Next advances the emulation by exactly one CPU step (one instruction, one
// interrupt dispatch, or 4 idle clocks while halted), fanning the resulting
// cycle count out to every sub-device, and returns the cycle count consumed.
func (m *Motherboard) Next() (uint32, error) {
	if m.bus.SpeedSwitchArmed() && m.cpu.AtPC(m.bus) == stopOpcode {
		m.bus.ToggleSpeed()
	}

	cycles, err := m.cpu.Step(m.bus)
	if err != nil {
		m.log.Errorf("cpu fault: %v", err)
		return 0, err
	}

	c := uint32(cycles)
	m.bus.Step(c)
	return c, nil
}

// FrameReady reports whether a new video frame has completed since the last
// ConsumeFrame.
func (m *Motherboard) FrameReady() bool { return m.bus.PPU.VBlankPending() }

// ConsumeFrame returns the completed frame buffer and clears the
// frame-ready latch.
func (m *Motherboard) ConsumeFrame() Frame {
	m.bus.PPU.ConsumeVBlank()
	return m.bus.PPU.Frame()
}

// DrainAudio copies up to len(dst) queued stereo samples into dst and
// returns how many were copied.
func (m *Motherboard) DrainAudio(dst []Sample) int {
	buf := make([]apu.Sample, len(dst))
	n := m.bus.APU.Drain(buf)
	for i := 0; i < n; i++ {
		dst[i] = Sample(buf[i])
	}
	return n
}

// KeyDown registers a button press.
func (m *Motherboard) KeyDown(k Key) { m.bus.Joypad.KeyDown(joypad.Key(k)) }

// KeyUp registers a button release.
func (m *Motherboard) KeyUp(k Key) { m.bus.Joypad.KeyUp(joypad.Key(k)) }

// Save persists battery RAM and (for MBC3) RTC state through the configured
// Persister. It is a no-op for cartridges with neither.
func (m *Motherboard) Save(ctx context.Context) error {
	if m.cart.HasBattery() {
		if err := m.persister.SaveRAM(ctx, m.cart.RAM()); err != nil {
			return &PersistenceError{Op: "save_ram", Err: err}
		}
	}
	if m.cart.HasRTC() {
		if err := m.persister.SaveRTC(ctx, m.cart.RTCState()); err != nil {
			return &PersistenceError{Op: "save_rtc", Err: err}
		}
	}
	m.log.Debugf("state persisted")
	return nil
}

// CartridgeTitle returns the cartridge's title field, for host UI.
func (m *Motherboard) CartridgeTitle() string { return m.cart.Title() }
