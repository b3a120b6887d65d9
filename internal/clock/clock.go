// Package clock provides the reusable "tick every N cycles" divider used by
// the timer and by the APU's frame sequencer and sample clock to turn a
// stream of CPU cycles into periodic events.
package clock

// Divider accumulates cycles and reports how many whole periods have
// elapsed since it last reported. It carries its remainder forward, so
// accumulated cycles are never lost across calls to Tick.
type Divider struct {
	period uint32
	n      uint32
}

// New returns a Divider that emits one tick every period cycles.
func New(period uint32) *Divider {
	return &Divider{period: period}
}

// Tick advances the divider by cycles and returns the number of completed
// periods.
func (d *Divider) Tick(cycles uint32) uint32 {
	d.n += cycles
	ticks := d.n / d.period
	d.n %= d.period
	return ticks
}

// Reset zeroes the accumulator without changing the period.
func (d *Divider) Reset() {
	d.n = 0
}

// SetPeriod changes the period. The accumulator is left untouched, matching
// hardware where a frequency-select change does not itself reset the
// running counter.
func (d *Divider) SetPeriod(period uint32) {
	d.period = period
}

// Period reports the current period.
func (d *Divider) Period() uint32 {
	return d.period
}
