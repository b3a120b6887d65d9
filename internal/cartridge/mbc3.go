package cartridge

import (
	"encoding/binary"
	"time"
)

// rtc holds the MBC3 real-time clock registers plus the UNIX-epoch anchor
// used to compute the current time: the emulator never keeps its own
// ticking goroutine, it recomputes seconds/minutes/hours/day from the gap
// between wall-clock time and the anchor on every recompute.
type rtc struct {
	seconds, minutes, hours uint8
	dayLow                  uint8
	dayHigh                 uint8 // bit 0 = day counter bit 8, bit 6 = halt, bit 7 = day carry

	anchor int64 // unix seconds at which the registers read as all-zero
}

// totalSeconds returns the number of seconds represented by the current
// register values, the inverse of recompute.
func (r *rtc) totalSeconds() int64 {
	days := int64(r.dayLow) | int64(r.dayHigh&1)<<8
	return int64(r.seconds) + int64(r.minutes)*60 + int64(r.hours)*3600 + days*86400
}

// recompute derives the registers from the elapsed wall-clock time since
// anchor. It is a no-op while halted, so an explicit register write made
// during a halt is preserved until the clock resumes.
func (r *rtc) recompute(now int64) {
	if r.dayHigh&0x40 != 0 {
		return
	}
	d := now - r.anchor
	if d < 0 {
		d = 0
	}
	r.seconds = uint8(d % 60)
	d /= 60
	r.minutes = uint8(d % 60)
	d /= 60
	r.hours = uint8(d % 24)
	d /= 24
	if d > 0x1FF {
		r.dayHigh |= 0x80 // day counter carry
		d %= 0x200
	}
	r.dayLow = uint8(d)
	r.dayHigh = r.dayHigh&0xFE | uint8((d>>8)&1)
}

// MBC3 adds a 7-bit ROM bank, a RAM/RTC selector, and an optional
// real-time clock to the basic bank-switching scheme.
type MBC3 struct {
	rom []byte
	ram []byte

	romBank uint8
	ramBank uint8 // 0-3 selects RAM, 8-C selects an RTC register
	enabled bool

	clock        rtc
	latched      rtc
	latchPending bool
}

func newMBC3(rom []byte, h *Header) *MBC3 {
	return &MBC3{
		rom:     rom,
		ram:     make([]byte, h.RAMSize),
		romBank: 1,
		clock:   rtc{anchor: time.Now().Unix()},
	}
}

func (m *MBC3) romByte(off int) uint8 {
	if off >= 0 && off < len(m.rom) {
		return m.rom[off]
	}
	return 0xFF
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romByte(int(address))
	case address < 0x8000:
		return m.romByte(int(m.romBank)*0x4000 + int(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 {
			off := int(m.ramBank)*0x2000 + int(address-0xA000)
			if off < len(m.ram) {
				return m.ram[off]
			}
			return 0xFF
		}
		return m.rtcRegister(&m.latched)
	}
	return 0xFF
}

func (m *MBC3) rtcRegister(r *rtc) uint8 {
	switch m.ramBank {
	case 0x08:
		return r.seconds
	case 0x09:
		return r.minutes
	case 0x0A:
		return r.hours
	case 0x0B:
		return r.dayLow
	case 0x0C:
		return r.dayHigh
	}
	return 0xFF
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.enabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case address < 0x6000:
		m.ramBank = value
	case address < 0x8000:
		if value == 0x00 {
			m.latchPending = true
		} else if value == 0x01 && m.latchPending {
			m.Tic()
			m.latched = m.clock
			m.latchPending = false
		} else {
			m.latchPending = false
		}
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled {
			return
		}
		if m.ramBank <= 0x03 {
			off := int(m.ramBank)*0x2000 + int(address-0xA000)
			if off < len(m.ram) {
				m.ram[off] = value
			}
			return
		}
		m.writeRTCRegister(value)
	}
}

func (m *MBC3) writeRTCRegister(value uint8) {
	switch m.ramBank {
	case 0x08:
		m.clock.seconds = value
	case 0x09:
		m.clock.minutes = value
	case 0x0A:
		m.clock.hours = value
	case 0x0B:
		m.clock.dayLow = value
	case 0x0C:
		now := time.Now().Unix()
		wasHalted := m.clock.dayHigh&0x40 != 0
		if !wasHalted {
			m.clock.recompute(now)
		}
		isHalted := value&0x40 != 0
		m.clock.dayHigh = value
		if wasHalted && !isHalted {
			m.clock.anchor = now - m.clock.totalSeconds()
		}
	}
}

func (m *MBC3) RAM() []byte { return m.ram }

func (m *MBC3) LoadRAM(data []byte) { copy(m.ram, data) }

// Tic refreshes the running clock from current host wall-clock time. It
// does not touch the latched snapshot Read returns; a game must latch
// (write 0x00 then 0x01 to 0x6000-0x7FFF) to observe the new value.
func (m *MBC3) Tic() {
	m.clock.recompute(time.Now().Unix())
}

// RTCState returns the 8-byte big-endian UNIX-epoch anchor persisted to the
// `<rom>.rtc` file alongside the five raw clock register bytes.
func (m *MBC3) RTCState() []byte {
	out := make([]byte, 13)
	out[0] = m.clock.seconds
	out[1] = m.clock.minutes
	out[2] = m.clock.hours
	out[3] = m.clock.dayLow
	out[4] = m.clock.dayHigh
	binary.BigEndian.PutUint64(out[5:], uint64(m.clock.anchor))
	return out
}

// LoadRTCState restores a previously persisted anchor.
func (m *MBC3) LoadRTCState(data []byte) {
	if len(data) < 13 {
		return
	}
	m.clock.seconds = data[0]
	m.clock.minutes = data[1]
	m.clock.hours = data[2]
	m.clock.dayLow = data[3]
	m.clock.dayHigh = data[4]
	m.clock.anchor = int64(binary.BigEndian.Uint64(data[5:]))
}
