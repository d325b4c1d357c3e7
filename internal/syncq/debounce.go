package syncq

import (
	"sync"
	"time"

	"github.com/gravityplanner/gravity/internal/remote"
)

// Debouncer coalesces bursts of settings changes into a single remote write.
// Each new change resets the quiet-period timer, but a pending patch is never
// held past the max wait, so a steady stream of changes cannot starve the
// flush forever.
type Debouncer struct {
	mu      sync.Mutex
	pending remote.SettingsPatch
	timer   *time.Timer
	first   time.Time

	delay   time.Duration
	maxWait time.Duration
	flush   func(remote.SettingsPatch)
}

// NewDebouncer constructs a debouncer. flush is invoked off the caller's
// goroutine with the merged patch.
func NewDebouncer(delay, maxWait time.Duration, flush func(remote.SettingsPatch)) *Debouncer {
	return &Debouncer{delay: delay, maxWait: maxWait, flush: flush}
}

// Add merges a patch into the pending set and (re)arms the timer.
func (d *Debouncer) Add(patch remote.SettingsPatch) {
	if patch.IsZero() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending.IsZero() {
		d.first = time.Now()
	}
	d.pending = d.pending.Merge(patch)

	delay := d.delay
	if remaining := d.maxWait - time.Since(d.first); remaining < delay {
		delay = remaining
		if delay < 0 {
			delay = 0
		}
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, d.fire)
}

// Flush pushes any pending patch immediately. Called on shutdown.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	patch := d.pending
	d.pending = remote.SettingsPatch{}
	d.timer = nil
	d.mu.Unlock()

	if !patch.IsZero() {
		d.flush(patch)
	}
}
