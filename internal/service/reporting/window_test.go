package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/station/internal/domain/models"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("", "", "", testLoc)
	require.NoError(t, err)
	assert.Equal(t, NamedWindow(RangeMonth), w)

	w, err = ParseWindow("Quarter", "", "", testLoc)
	require.NoError(t, err)
	assert.Equal(t, RangeQuarter, w.Range)

	_, err = ParseWindow("decade", "", "", testLoc)
	require.ErrorIs(t, err, models.ErrValidation)

	w, err = ParseWindow("week", "2024-03-01", "2024-03-05", testLoc)
	require.NoError(t, err)
	assert.Equal(t, RangeCustom, w.Range)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc), w.Start)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999999999, testLoc), w.End)

	_, err = ParseWindow("", "2024-03-05", "2024-03-01", testLoc)
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = ParseWindow("", "yesterday", "", testLoc)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveNamedRanges(t *testing.T) {
	now := time.Date(2024, 5, 31, 15, 4, 0, 0, testLoc)
	endOfToday := time.Date(2024, 5, 31, 23, 59, 59, 999999999, testLoc)

	cases := map[Range]time.Time{
		RangeToday:   time.Date(2024, 5, 31, 0, 0, 0, 0, testLoc),
		RangeWeek:    time.Date(2024, 5, 24, 0, 0, 0, 0, testLoc),
		RangeMonth:   time.Date(2024, 5, 1, 0, 0, 0, 0, testLoc),
		RangeQuarter: time.Date(2024, 3, 2, 0, 0, 0, 0, testLoc),
		RangeYear:    time.Date(2023, 5, 31, 0, 0, 0, 0, testLoc),
	}
	for r, start := range cases {
		b := NamedWindow(r).Resolve(now, testLoc)
		assert.Equal(t, start, b.Start, r)
		assert.Equal(t, endOfToday, b.End, r)
	}

	assert.Equal(t, Bounds{}, NamedWindow(RangeAll).Resolve(now, testLoc))
}

func TestFilterByDateInclusiveEnds(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc)
	end := time.Date(2024, 3, 5, 23, 59, 59, 999999999, testLoc)
	b := CustomWindow(start, end).Resolve(time.Now(), testLoc)

	sales := []models.Sale{
		{Product: "start", Date: models.NewDate(start)},
		{Product: "end-day-evening", Date: day(2024, 3, 5, 22)},
		{Product: "after", Date: day(2024, 3, 6, 0)},
		{Product: "before", Date: models.NewDate(start.Add(-time.Second))},
		{Product: "missing"},
	}

	got := FilterByDate(sales, b, SaleDate)
	require.Len(t, got, 2)
	assert.Equal(t, "start", got[0].Product)
	assert.Equal(t, "end-day-evening", got[1].Product)
}

func TestFilterByDateOpenEndedAndUnbounded(t *testing.T) {
	employees := []models.Employee{
		{Name: "old", DateAdded: day(2020, 1, 1, 0)},
		{Name: "new", DateAdded: day(2024, 1, 1, 0)},
		{Name: "undated"},
	}

	got := FilterByDate(employees, Bounds{Start: time.Date(2023, 1, 1, 0, 0, 0, 0, testLoc)}, EmployeeDate)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name)

	got = FilterByDate(employees, Bounds{}, EmployeeDate)
	assert.Len(t, got, 2)
}

func TestEngineBoundsUsesCurrentTime(t *testing.T) {
	calls := 0
	e := NewEngine(testLoc, nil)
	e.now = func() time.Time {
		calls++
		return time.Date(2024, 1, 10+calls, 8, 0, 0, 0, testLoc)
	}

	first := e.Bounds(NamedWindow(RangeToday))
	second := e.Bounds(NamedWindow(RangeToday))
	assert.True(t, second.Start.After(first.Start))
}
