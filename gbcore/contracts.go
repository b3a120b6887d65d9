// Package gbcore ties together the CPU, bus, and every sub-device into a
// single motherboard, exposing the host-facing API described in spec.md §6:
// a frame sink, an audio sink, a joypad input source, and a persistence
// sink, with no host dependency (filesystem, display, audio device) reaching
// into the package itself.
package gbcore

import "context"

// Key identifies one of the eight joypad buttons.
type Key = uint8

// Key values, matching joypad.Key.
const (
	KeyRight Key = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// Frame is a completed 160x144 RGB video frame, row-major, one [3]uint8 per
// pixel.
type Frame = *[144][160][3]uint8

// Sample is one interleaved stereo audio frame in the range [-1, 1].
type Sample struct {
	Left, Right float32
}

// Persister is the host-supplied persistence sink. SaveRAM and SaveRTC are
// called from Motherboard.Save; LoadRAM/LoadRTC are called once at
// construction if non-nil data is returned. The core never touches the
// filesystem directly.
type Persister interface {
	SaveRAM(ctx context.Context, data []byte) error
	LoadRAM(ctx context.Context) ([]byte, error)
	SaveRTC(ctx context.Context, data []byte) error
	LoadRTC(ctx context.Context) ([]byte, error)
}

// NopPersister discards saves and returns no prior state. Useful for
// cartridges with no battery, or hosts that do not want persistence.
type NopPersister struct{}

func (NopPersister) SaveRAM(context.Context, []byte) error         { return nil }
func (NopPersister) LoadRAM(context.Context) ([]byte, error)       { return nil, nil }
func (NopPersister) SaveRTC(context.Context, []byte) error         { return nil }
func (NopPersister) LoadRTC(context.Context) ([]byte, error)       { return nil, nil }
