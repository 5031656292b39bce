package catalog

import "time"

// DefaultDebounce is the trailing-edge delay before an authoritative
// reload.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces bursts of keystrokes for an event loop that
// schedules its own timers.  Each keystroke takes a tag from Next and
// arms a timer carrying it; when the timer fires, Fire reports whether
// that tag is still the latest, so only the last keystroke of a burst
// reaches the network.
type Debouncer struct {
	Delay time.Duration
	seq   uint64
}

// NewDebouncer returns a debouncer with delay, or DefaultDebounce when
// delay is not positive.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{Delay: delay}
}

// Next invalidates every outstanding tag and returns a fresh one.
func (d *Debouncer) Next() uint64 {
	d.seq++
	return d.seq
}

// Fire reports whether tag is the most recent one handed out.
func (d *Debouncer) Fire(tag uint64) bool {
	return tag == d.seq
}
