package cartridge

import "fmt"

// Type is the cartridge hardware type, read from header byte 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	HUC1              Type = 0xFF
)

// hasBattery reports whether a cartridge type persists its RAM contents.
func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBATT, MBC2BATT, MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3RAMBATT, MBC5RAMBATT, MBC5RUMBLERAMBATT:
		return true
	}
	return false
}

// hasRTC reports whether a cartridge type carries an MBC3 real-time clock.
func (t Type) hasRTC() bool {
	return t == MBC3TIMERBATT || t == MBC3TIMERRAMBATT
}

// nintendoLogo is the canonical 48-byte logo bitmap every cartridge header
// must reproduce at 0x0104-0x0133.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// ramSizes maps header byte 0x0149 to the size of external cartridge RAM.
var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed contents of a cartridge's 0x0100-0x014F header block.
type Header struct {
	Title           string
	CGBFlag         uint8
	CartridgeType   Type
	ROMBanks        int
	RAMSize         int
	HeaderChecksum  uint8
}

// romBanks maps header byte 0x0148 to a bank count. Each bank is 16 KiB.
func romBanks(code uint8) (int, error) {
	switch code {
	case 0x52:
		return 72, nil
	case 0x53:
		return 80, nil
	case 0x54:
		return 96, nil
	}
	if code > 8 {
		return 0, fmt.Errorf("%w: rom size code 0x%02X", ErrUnsupportedCartridge, code)
	}
	return 2 << code, nil
}

// parseHeader reads and validates the header embedded in rom. It returns a
// *LoadError for any of the violations spec.md §3 and §7 name as fatal at
// startup.
func parseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x150 {
		return nil, &LoadError{Reason: TruncatedHeader}
	}

	var logo [48]byte
	copy(logo[:], rom[0x0104:0x0134])
	if logo != nintendoLogo {
		return nil, &LoadError{Reason: BadLogo}
	}

	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	if sum != rom[0x014D] {
		return nil, &LoadError{Reason: BadChecksum}
	}

	cgbFlag := rom[0x0143]
	titleEnd := 0x0144
	if cgbFlag&0x80 != 0 {
		titleEnd = 0x013F
	}
	title := string(rom[0x0134:titleEnd])
	for i, r := range title {
		if r == 0 {
			title = title[:i]
			break
		}
	}

	banks, err := romBanks(rom[0x0148])
	if err != nil {
		return nil, &LoadError{Reason: UnsupportedRomSize, Byte: rom[0x0148]}
	}

	ramSize, ok := ramSizes[rom[0x0149]]
	if !ok {
		return nil, &LoadError{Reason: UnsupportedRamSize, Byte: rom[0x0149]}
	}

	return &Header{
		Title:          title,
		CGBFlag:        cgbFlag,
		CartridgeType:  Type(rom[0x0147]),
		ROMBanks:       banks,
		RAMSize:        ramSize,
		HeaderChecksum: rom[0x014D],
	}, nil
}
