package apu

// dutyTable gives each duty cycle's 8-step high/low pattern, high bit
// first (NR11/NR21 bits 7-6 select the row).
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

// square is the shared square-wave generator behind channel 1 and 2.
type square struct {
	duty    uint8
	dutyPos uint8

	freq  uint16
	timer int32

	length lengthCounter
	env    envelope

	enabled bool
	dacOn   bool

	hasSweep bool
	swp      sweep
}

func (s *square) period() int32 {
	return 4 * int32(2048-s.freq)
}

// step advances the frequency timer by cycles CPU clocks, rotating the
// duty phase on each period expiry.
func (s *square) step(cycles int32) {
	s.timer -= cycles
	for s.timer <= 0 {
		s.timer += s.period()
		s.dutyPos = (s.dutyPos + 1) % 8
	}
}

// amplitude returns the channel's current signed output, or 0 if silent.
func (s *square) amplitude() int8 {
	if !s.enabled || !s.dacOn {
		return 0
	}
	if dutyTable[s.duty][s.dutyPos] == 0 {
		return 0
	}
	return int8(s.env.volume)
}

func (s *square) trigger(firstHalf bool) {
	s.enabled = s.dacOn
	if s.timer <= 0 {
		s.timer = s.period()
	}
	s.length.triggerReload(firstHalf)
	s.env.trigger()
	if s.hasSweep {
		if s.swp.trigger(s.freq) {
			s.enabled = false
		}
	}
}

func (s *square) clockLength() {
	if s.length.clock() {
		s.enabled = false
	}
}

func (s *square) clockSweep() {
	if !s.hasSweep {
		return
	}
	next, disable := s.swp.clock(s.freq)
	if disable {
		s.enabled = false
		return
	}
	s.freq = next
}
