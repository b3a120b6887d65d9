package gbcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

func makeROM(size int, cartType uint8) []byte {
	rom := make([]byte, size)
	copy(rom[0x0104:0x0134], nintendoLogo[:])
	rom[0x0147] = cartType
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	return rom
}

func TestMotherboardRunsInstructionsAndProducesFrames(t *testing.T) {
	rom := makeROM(0x8000, 0x00)
	rom[0x0100] = 0x00 // NOP, then fall through to whatever follows (0x00 repeated)

	mb, err := New(rom, Config{})
	require.NoError(t, err)

	var total uint32
	for !mb.FrameReady() && total < 10_000_000 {
		c, err := mb.Next()
		require.NoError(t, err)
		total += c
	}
	require.True(t, mb.FrameReady(), "a frame should complete within one frame's worth of cycles")

	frame := mb.ConsumeFrame()
	require.NotNil(t, frame)
	require.False(t, mb.FrameReady(), "ConsumeFrame should clear the latch")
}

type memPersister struct {
	ram, rtc []byte
}

func (p *memPersister) SaveRAM(_ context.Context, data []byte) error {
	p.ram = append([]byte(nil), data...)
	return nil
}
func (p *memPersister) LoadRAM(context.Context) ([]byte, error) { return p.ram, nil }
func (p *memPersister) SaveRTC(_ context.Context, data []byte) error {
	p.rtc = append([]byte(nil), data...)
	return nil
}
func (p *memPersister) LoadRTC(context.Context) ([]byte, error) { return p.rtc, nil }

func TestSavePersistsBatteryRAM(t *testing.T) {
	rom := makeROM(0x8000, 0x03) // MBC1+RAM+BATT
	rom[0x0149] = 0x02           // 8 KiB RAM
	rom[0x014D] -= 0x02          // keep the header checksum valid
	persister := &memPersister{}

	mb, err := New(rom, Config{Persister: persister})
	require.NoError(t, err)

	require.NoError(t, mb.Save(context.Background()))
	require.NotNil(t, persister.ram)
}

func TestInvalidOpcodeSurfacesAsError(t *testing.T) {
	rom := makeROM(0x8000, 0x00)
	rom[0x0100] = 0xD3 // invalid opcode

	mb, err := New(rom, Config{})
	require.NoError(t, err)

	_, err = mb.Next()
	require.Error(t, err)
}
