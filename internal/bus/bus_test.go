package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollow-byte/gbcore/internal/cartridge"
	"github.com/hollow-byte/gbcore/internal/gblog"
)

func makeROM(size int) []byte {
	rom := make([]byte, size)
	logo := [48]byte{
		0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
		0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
		0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
	}
	copy(rom[0x0104:0x0134], logo[:])
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	return rom
}

func newTestBus(t *testing.T) *Bus {
	cart, err := cartridge.New(makeROM(0x8000))
	require.NoError(t, err)
	return New(cart, false, gblog.Null())
}

func TestWRAMEchoMirror(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	require.Equal(t, uint8(0x42), b.Read(0xE010), "echo region mirrors WRAM bank 0")

	b.Write(0xE020, 0x24)
	require.Equal(t, uint8(0x24), b.Read(0xC020))
}

func TestOAMDMACopiesSynchronously(t *testing.T) {
	b := newTestBus(t)
	for i := uint16(0); i < 0xA0; i++ {
		b.Write(0xC000+i, uint8(i))
	}
	b.Write(0xFF46, 0xC0)

	for i := uint16(0); i < 0xA0; i++ {
		require.Equal(t, uint8(i), b.Read(0xFE00+i))
	}
}

func TestUnmappedRegionReadsZero(t *testing.T) {
	b := newTestBus(t)
	require.Equal(t, uint8(0x00), b.Read(0xFEA0))
}

func TestWRAMBankSelectDMGAlwaysBank1(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF70, 0x03) // selector write is ignored on DMG
	b.Write(0xD000, 0x77)
	require.Equal(t, uint8(0x77), b.Read(0xD000))
	require.Equal(t, uint8(0xFF), b.Read(0xFF70))
}

func TestIFUpperBitsReadAsSet(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF0F, 0x01)
	require.Equal(t, uint8(0xE1), b.Read(0xFF0F))
}
