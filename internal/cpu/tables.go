package cpu

// OpCycles and CBCycles give the base machine-cycle (1 = 4 clocks) cost of
// every primary and CB-prefixed opcode, not including the conditional-taken
// bonus documented in spec.md §4.1 (+1 for taken JR cc, +3 for taken
// RET cc/CALL cc, +1 for taken JP cc). They are filled once at init time
// from a hand-written table (baseOpCycles) kept separate from the
// interpreter; nothing in the emulator reads them to count cycles, since
// CPU.Step counts the bus accesses each instruction actually makes.
var (
	OpCycles [256]uint8
	CBCycles [256]uint8
)

func init() {
	for op := 0; op < 256; op++ {
		OpCycles[op] = baseOpCycles(uint8(op))
	}
	for cb := 0; cb < 256; cb++ {
		reg := uint8(cb) & 0x07
		switch {
		case cb < 0x40:
			if reg == 6 {
				CBCycles[cb] = 4
			} else {
				CBCycles[cb] = 2
			}
		case cb < 0x80: // BIT
			if reg == 6 {
				CBCycles[cb] = 3
			} else {
				CBCycles[cb] = 2
			}
		default: // RES, SET
			if reg == 6 {
				CBCycles[cb] = 4
			} else {
				CBCycles[cb] = 2
			}
		}
	}
}

func baseOpCycles(op uint8) uint8 {
	switch {
	case op == 0xCB:
		return 1 // prefix fetch only; CBCycles[next byte] applies
	case op >= 0x40 && op <= 0x7F && op != 0x76:
		dst, src := (op>>3)&0x07, op&0x07
		if dst == 6 || src == 6 {
			return 2
		}
		return 1
	case op >= 0x80 && op <= 0xBF:
		if op&0x07 == 6 {
			return 2
		}
		return 1
	}

	switch op {
	case 0x00, 0x76, 0xF3, 0xFB, 0x27, 0x2F, 0x37, 0x3F:
		return 1
	case 0x10: // STOP is a two-byte NOP
		return 2
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E:
		return 2
	case 0x36:
		return 3
	case 0x02, 0x12, 0x0A, 0x1A, 0x22, 0x32, 0x2A, 0x3A:
		return 2
	case 0xEA, 0xFA:
		return 4
	case 0xE0, 0xF0:
		return 3
	case 0xE2, 0xF2:
		return 2
	case 0x01, 0x11, 0x21, 0x31:
		return 3
	case 0x08:
		return 5
	case 0xF9:
		return 2
	case 0xF8:
		return 3
	case 0xC5, 0xD5, 0xE5, 0xF5:
		return 4
	case 0xC1, 0xD1, 0xE1, 0xF1:
		return 3
	case 0x09, 0x19, 0x29, 0x39, 0x03, 0x13, 0x23, 0x33, 0x0B, 0x1B, 0x2B, 0x3B:
		return 2
	case 0xE8:
		return 4
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C:
		return 1
	case 0x34:
		return 3
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D:
		return 1
	case 0x35:
		return 3
	case 0x07, 0x17, 0x0F, 0x1F:
		return 1
	case 0x18:
		return 3
	case 0x20, 0x28, 0x30, 0x38:
		return 2 // +1 when taken
	case 0xC3:
		return 4
	case 0xC2, 0xCA, 0xD2, 0xDA:
		return 3 // +1 when taken
	case 0xE9:
		return 1
	case 0xCD:
		return 6
	case 0xC4, 0xCC, 0xD4, 0xDC:
		return 3 // +3 when taken
	case 0xC9:
		return 4
	case 0xD9:
		return 4
	case 0xC0, 0xC8, 0xD0, 0xD8:
		return 2 // +3 when taken
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		return 4
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		return 2
	}
	return 0 // invalid opcodes; never looked up (filtered before dispatch)
}
