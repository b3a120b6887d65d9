package cartridge

// HuC1 wraps MBC1's banking logic unchanged; spec.md §4.3 documents HuC1
// (header byte 0xFF) as behaving like MBC1 for this emulator's purposes.
// The HuC1 IR blaster is a host peripheral with no contract defined by this
// core and is therefore not modeled.
type HuC1 struct {
	*MBC1
}

func newHuC1(rom []byte, h *Header) *HuC1 {
	return &HuC1{MBC1: newMBC1(rom, h)}
}
