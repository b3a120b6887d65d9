// Package cartridge parses a Game Boy ROM image's header and dispatches to
// the matching bank-controller implementation. It owns ROM and optional
// cartridge RAM/RTC state and persists battery-backed RAM and RTC state
// only when explicitly asked to.
package cartridge

import (
	"github.com/cespare/xxhash"
)

// Cartridge is the polymorphic cartridge object: header metadata plus the
// concrete BankController selected at load time.
type Cartridge struct {
	header *Header
	bank   BankController
	digest uint64
}

// New parses rom's header and constructs the matching bank controller. It
// returns a *LoadError for any header violation spec.md §3/§7 names.
func New(rom []byte) (*Cartridge, error) {
	header, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}

	var bank BankController
	switch header.CartridgeType {
	case ROM:
		bank = newROMOnly(rom)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		bank = newMBC1(rom, header)
	case MBC2, MBC2BATT:
		bank = newMBC2(rom)
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		bank = newMBC3(rom, header)
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		bank = newMBC5(rom, header)
	case HUC1:
		bank = newHuC1(rom, header)
	default:
		return nil, &LoadError{Reason: UnsupportedType, Byte: uint8(header.CartridgeType)}
	}

	return &Cartridge{
		header: header,
		bank:   bank,
		digest: xxhash.Sum64(rom),
	}, nil
}

// Title returns the cartridge's title as parsed from the header.
func (c *Cartridge) Title() string { return c.header.Title }

// HasBattery reports whether the cartridge persists RAM across power-downs.
func (c *Cartridge) HasBattery() bool { return c.header.CartridgeType.hasBattery() }

// HasRTC reports whether the cartridge carries an MBC3 real-time clock.
func (c *Cartridge) HasRTC() bool { return c.header.CartridgeType.hasRTC() }

// Digest returns a stable, non-cryptographic identity hash of the ROM
// image. The motherboard logs it at load time; save/RTC file names do not
// use it.
func (c *Cartridge) Digest() uint64 { return c.digest }

// Read dispatches a bus read in 0x0000-0x7FFF or 0xA000-0xBFFF to the bank
// controller.
func (c *Cartridge) Read(address uint16) uint8 { return c.bank.Read(address) }

// Write dispatches a bus write in the same ranges; the ROM image itself is
// never mutated.
func (c *Cartridge) Write(address uint16, value uint8) { c.bank.Write(address, value) }

// RAM returns the current battery-backed RAM contents for persistence, or
// nil if this cartridge has none.
func (c *Cartridge) RAM() []byte { return c.bank.RAM() }

// LoadRAM restores previously persisted RAM contents.
func (c *Cartridge) LoadRAM(data []byte) {
	if len(data) > 0 {
		c.bank.LoadRAM(data)
	}
}

// Tic refreshes the cartridge's real-time clock, if it has one, from
// current host wall-clock time. It is a no-op for cartridges without an
// RTC and safe to call as often as the host likes.
func (c *Cartridge) Tic() {
	if r, ok := c.bank.(RTCController); ok {
		r.Tic()
	}
}

// RTCState returns the persisted RTC anchor bytes, or nil if this
// cartridge has no real-time clock.
func (c *Cartridge) RTCState() []byte {
	if r, ok := c.bank.(RTCController); ok {
		return r.RTCState()
	}
	return nil
}

// LoadRTCState restores a previously persisted RTC anchor.
func (c *Cartridge) LoadRTCState(data []byte) {
	if r, ok := c.bank.(RTCController); ok && len(data) > 0 {
		r.LoadRTCState(data)
	}
}
