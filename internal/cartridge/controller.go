package cartridge

// BankController is the interface every cartridge hardware variant
// implements: a closed sum type dispatched once at load time from the
// header's cartridge-type byte (spec.md §9, replacing runtime-dynamic
// method tables with an explicit switch in New).
type BankController interface {
	// Read returns the byte mapped at address, which is always inside
	// 0x0000-0x7FFF (ROM) or 0xA000-0xBFFF (RAM/RTC).
	Read(address uint16) uint8
	// Write routes a CPU write in the same two ranges to the controller's
	// bank-select or RAM logic; it never writes through to ROM.
	Write(address uint16, value uint8)
	// RAM returns the controller's battery-backed RAM for persistence, or
	// nil if the variant has none.
	RAM() []byte
	// LoadRAM restores previously persisted RAM bytes.
	LoadRAM(data []byte)
}

// RTCController is implemented additionally by MBC3 when the header names
// an RTC-carrying cartridge type.
type RTCController interface {
	BankController
	// Tic refreshes the real-time clock's registers from host wall-clock
	// time against the stored anchor. It is called internally on a latch
	// write; it takes no argument because the clock is never driven by
	// emulated CPU cycles.
	Tic()
	// RTCState returns the 13-byte blob persisted to the `<rom>.rtc` file:
	// the five clock register bytes (S, M, H, DL, DH) followed by the 8-byte
	// big-endian anchor.
	RTCState() []byte
	// LoadRTCState restores a blob written by RTCState. Data shorter than
	// 13 bytes, such as a bare 8-byte anchor, is ignored.
	LoadRTCState(data []byte)
}
