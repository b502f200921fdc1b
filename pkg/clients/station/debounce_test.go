package station

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/station/internal/service/reporting"
)

type recorder struct {
	mu    sync.Mutex
	fired []reporting.Window
}

func (r *recorder) fire(w reporting.Window) {
	r.mu.Lock()
	r.fired = append(r.fired, w)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func (r *recorder) last() reporting.Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fired[len(r.fired)-1]
}

const testDelay = 20 * time.Millisecond

func TestDebouncerCoalescesChanges(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(reporting.NamedWindow(reporting.RangeMonth), testDelay, rec.fire)
	defer d.Stop()

	d.Change(reporting.NamedWindow(reporting.RangeWeek))
	d.Change(reporting.NamedWindow(reporting.RangeToday))
	d.Change(reporting.NamedWindow(reporting.RangeYear))

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, reporting.RangeYear, rec.last().Range)
	time.Sleep(3 * testDelay)
	assert.Equal(t, 1, rec.count())
}

func TestDebouncerIgnoresInitialWindow(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(reporting.NamedWindow(reporting.RangeMonth), testDelay, rec.fire)
	defer d.Stop()

	d.Change(reporting.NamedWindow(reporting.RangeMonth))
	time.Sleep(3 * testDelay)
	assert.Equal(t, 0, rec.count())
}

func TestDebouncerWaitsForPickerToClose(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(reporting.NamedWindow(reporting.RangeMonth), testDelay, rec.fire)
	defer d.Stop()

	d.SetPickerOpen(true)
	d.Change(reporting.CustomWindow(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{}))
	time.Sleep(3 * testDelay)
	assert.Equal(t, 0, rec.count())

	d.SetPickerOpen(false)
	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, reporting.RangeCustom, rec.last().Range)
}

func TestDebouncerStop(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(reporting.NamedWindow(reporting.RangeMonth), testDelay, rec.fire)
	d.Change(reporting.NamedWindow(reporting.RangeWeek))
	d.Stop()
	time.Sleep(3 * testDelay)
	assert.Equal(t, 0, rec.count())
}
