package form

import (
	"sync"
	"time"

	"github.com/dyluth/catalog/internal/clock"
)

// Debouncer runs only the last of a burst of triggers, once the delay has
// passed without another trigger.
type Debouncer struct {
	mu      sync.Mutex
	clock   clock.Clock
	delay   time.Duration
	timer   clock.Timer
	stopped bool
}

// NewDebouncer creates a debouncer. A delay of zero or less runs triggers immediately.
func NewDebouncer(c clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: c, delay: delay}
}

// Trigger schedules f, replacing any pending call.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		f()
		return
	}
	d.timer = d.clock.AfterFunc(d.delay, f)
	d.mu.Unlock()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels the pending call and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
