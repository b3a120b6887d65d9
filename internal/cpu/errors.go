package cpu

import "fmt"

// InvalidOpcodeError is returned by Step when the fetched opcode has no
// defined behavior on real hardware (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB,
// 0xEC, 0xED, 0xF4, 0xFC, 0xFD). It is fatal: no well-formed ROM ever
// triggers it.
type InvalidOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("cpu: invalid opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

var invalidOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}
