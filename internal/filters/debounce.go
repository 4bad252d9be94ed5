package filters

import (
	"sync"
	"time"
)

// Debouncer publishes the last value written to it once no new value has
// arrived for the configured delay. The query builder reads the published
// value, so a burst of keystrokes produces one search.
type Debouncer struct {
	delay time.Duration

	mu        sync.Mutex
	pending   string
	published string
	timer     *time.Timer
	gen       uint64
	onPublish func(string)
}

// NewDebouncer returns a Debouncer with the given quiet period. onPublish,
// when non-nil, is called from the timer goroutine with each published value.
func NewDebouncer(delay time.Duration, onPublish func(string)) *Debouncer {
	return &Debouncer{delay: delay, onPublish: onPublish}
}

// Set records a new raw value and restarts the quiet period.
func (d *Debouncer) Set(v string) {
	d.mu.Lock()
	d.pending = v
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.publish()
		return
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			// Superseded by a later Set, Flush or Stop.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.publish()
	})
	d.mu.Unlock()
}

// Value returns the last published value.
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.published
}

// Flush publishes the pending value immediately and returns it.
func (d *Debouncer) Flush() string {
	d.mu.Lock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.pending
	d.publish()
	return v
}

// Stop cancels a pending publish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// publish is called with d.mu held and releases it before running the
// callback.
func (d *Debouncer) publish() {
	changed := d.published != d.pending
	d.published = d.pending
	v, cb := d.published, d.onPublish
	d.mu.Unlock()

	if changed && cb != nil {
		cb(v)
	}
}
