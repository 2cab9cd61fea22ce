package previewsync

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid successive triggers into a single callback after
// a quiet period. Reschedule is cancel-if-pending then schedule-new; a
// sequence number defuses timer callbacks that fire after a newer trigger or
// a cancel.
//
// All methods are safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending bool
	seq     uint64
	fn      func()
}

// NewDebouncer creates a debouncer that invokes fn once no new trigger has
// arrived for delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the callback, replacing any pending schedule.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != seq || d.fn == nil {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.fn()
	})
}

// Cancel discards any pending schedule. A timer already in flight becomes a
// no-op.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
