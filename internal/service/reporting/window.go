package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

// Range names a window relative to the current time.
type Range string

const (
	RangeToday   Range = "today"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
	RangeYear    Range = "year"
	RangeAll     Range = "all"
	RangeCustom  Range = "custom"
)

// DefaultRange is used when a caller does not pick a window.
const DefaultRange = RangeMonth

// Window is either a named relative range or an explicit start/end pair.
// A zero Start or End in a custom window leaves that side open.
type Window struct {
	Range Range
	Start time.Time
	End   time.Time
}

// NamedWindow builds a relative window.
func NamedWindow(r Range) Window {
	return Window{Range: r}
}

// CustomWindow builds an explicit window, inclusive at both ends.
func CustomWindow(start, end time.Time) Window {
	return Window{Range: RangeCustom, Start: start, End: end}
}

// ParseWindow reads a window from request parameters. Explicit dates take
// precedence over a named range; start snaps to the beginning and end to the
// close of their calendar days.
func ParseWindow(rangeName, start, end string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}

	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start != "" || end != "" {
		w := Window{Range: RangeCustom}
		if start != "" {
			d, err := models.ParseDate(start, loc)
			if err != nil {
				return Window{}, fmt.Errorf("start: %v: %w", err, models.ErrValidation)
			}
			w.Start = query.StartOfDay(d.Time, loc)
		}
		if end != "" {
			d, err := models.ParseDate(end, loc)
			if err != nil {
				return Window{}, fmt.Errorf("end: %v: %w", err, models.ErrValidation)
			}
			w.End = query.EndOfDay(d.Time, loc)
		}
		if !w.Start.IsZero() && !w.End.IsZero() && w.Start.After(w.End) {
			return Window{}, fmt.Errorf("start is after end: %w", models.ErrValidation)
		}
		return w, nil
	}

	switch r := Range(strings.ToLower(strings.TrimSpace(rangeName))); r {
	case "":
		return NamedWindow(DefaultRange), nil
	case RangeToday, RangeWeek, RangeMonth, RangeQuarter, RangeYear, RangeAll:
		return NamedWindow(r), nil
	default:
		return Window{}, fmt.Errorf("unknown range %q: %w", rangeName, models.ErrValidation)
	}
}

// Bounds is a resolved, absolute time interval. Zero values are open ends.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the interval, inclusive at both ends.
func (b Bounds) Contains(t time.Time) bool {
	if !b.Start.IsZero() && t.Before(b.Start) {
		return false
	}
	if !b.End.IsZero() && t.After(b.End) {
		return false
	}
	return true
}

// Resolve turns w into absolute bounds relative to now. Named ranges start at
// the beginning of the day the trailing period begins on and end at the close
// of today.
func (w Window) Resolve(now time.Time, loc *time.Location) Bounds {
	if loc == nil {
		loc = time.Local
	}
	endOfToday := query.EndOfDay(now, loc)

	switch w.Range {
	case RangeToday:
		return Bounds{Start: query.StartOfDay(now, loc), End: endOfToday}
	case RangeWeek:
		return Bounds{Start: query.StartOfDay(now.AddDate(0, 0, -7), loc), End: endOfToday}
	case RangeMonth:
		return Bounds{Start: query.StartOfDay(now.AddDate(0, -1, 0), loc), End: endOfToday}
	case RangeQuarter:
		return Bounds{Start: query.StartOfDay(now.AddDate(0, -3, 0), loc), End: endOfToday}
	case RangeYear:
		return Bounds{Start: query.StartOfDay(now.AddDate(-1, 0, 0), loc), End: endOfToday}
	case RangeCustom:
		return Bounds{Start: w.Start, End: w.End}
	default:
		return Bounds{}
	}
}

// FilterByDate keeps the records whose date falls inside b. Records without a
// date are always dropped.
func FilterByDate[T any](records []T, b Bounds, dateOf func(T) models.Date) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		d := dateOf(r)
		if !d.Valid() || !b.Contains(d.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SaleDate is the FilterByDate accessor for sales.
func SaleDate(s models.Sale) models.Date { return s.Date }

// ExpenseDate is the FilterByDate accessor for expenses.
func ExpenseDate(e models.Expense) models.Date { return e.Date }

// InventoryDate is the FilterByDate accessor for inventory items.
func InventoryDate(i models.InventoryItem) models.Date { return i.Date }

// EmployeeDate is the FilterByDate accessor for employees.
func EmployeeDate(e models.Employee) models.Date { return e.DateAdded }
