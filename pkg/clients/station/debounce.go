package station

import (
	"sync"
	"time"

	"github.com/mamadbah2/station/internal/service/reporting"
)

// DefaultDebounce is the quiet period after the last window change.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays window changes until the user stops changing the window.
// Nothing fires while the date picker is open, and nothing fires until the
// window first differs from the initial one.
type Debouncer struct {
	delay time.Duration
	fire  func(reporting.Window)

	mu         sync.Mutex
	timer      *time.Timer
	seq        uint64
	applied    reporting.Window
	pending    reporting.Window
	dirty      bool
	pickerOpen bool
	stopped    bool
}

// NewDebouncer builds a debouncer starting from the initial window.
func NewDebouncer(initial reporting.Window, delay time.Duration, fire func(reporting.Window)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fire: fire, applied: initial, pending: initial}
}

// Change records a new window and restarts the quiet period.
func (d *Debouncer) Change(w reporting.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = w
	d.dirty = !sameWindow(w, d.applied)
	d.reschedule()
}

// SetPickerOpen suspends firing while the picker is open. Closing it restarts
// the quiet period for any pending change.
func (d *Debouncer) SetPickerOpen(open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pickerOpen = open
	d.reschedule()
}

// Stop cancels any pending change.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) reschedule() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if !d.dirty || d.pickerOpen || d.stopped {
		return
	}
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.flush(seq) })
}

func (d *Debouncer) flush(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.dirty || d.pickerOpen || d.stopped {
		d.mu.Unlock()
		return
	}
	w := d.pending
	d.applied = w
	d.dirty = false
	d.timer = nil
	d.mu.Unlock()

	d.fire(w)
}

func sameWindow(a, b reporting.Window) bool {
	return a.Range == b.Range && a.Start.Equal(b.Start) && a.End.Equal(b.End)
}
