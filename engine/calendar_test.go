/*
calendar_test.go - Calendar primitive tests

Shared test helpers for the engine package tests live here: date and hour
constructors and a standard Mon-Fri work week.
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/timeline-engine/engine"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func date(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

func hrs(v float64) engine.Hours {
	return engine.NewHours(v)
}

func span(start, end engine.Date) engine.DateRange {
	return engine.DateRange{Start: start, End: end}
}

// =============================================================================
// WORKING-DAY PREDICATES
// =============================================================================

func TestIsWorkingDay_WeekendExcluded(t *testing.T) {
	week := engine.DefaultWeeklyWorkHours()

	// 2025-01-06 is a Monday, 2025-01-11 a Saturday.
	assert.True(t, engine.IsWorkingDay(date(2025, time.January, 6), week, nil))
	assert.False(t, engine.IsWorkingDay(date(2025, time.January, 11), week, nil))
	assert.False(t, engine.IsWorkingDay(date(2025, time.January, 12), week, nil))
}

func TestIsWorkingDay_HolidayExcluded(t *testing.T) {
	week := engine.DefaultWeeklyWorkHours()
	holidays := []engine.Holiday{
		{ID: "h1", Title: "Winter break", Start: date(2025, time.January, 6), End: date(2025, time.January, 8)},
	}

	assert.False(t, engine.IsWorkingDay(date(2025, time.January, 7), week, holidays))
	assert.True(t, engine.IsWorkingDay(date(2025, time.January, 9), week, holidays))
}

func TestWorkingDaysIn_FullWeek(t *testing.T) {
	week := engine.DefaultWeeklyWorkHours()

	// Mon Jan 6 through Sun Jan 12: five working days.
	days := engine.WorkingDaysIn(span(date(2025, time.January, 6), date(2025, time.January, 12)), week, nil)

	assert.Len(t, days, 5)
	assert.Equal(t, date(2025, time.January, 6), days[0])
	assert.Equal(t, date(2025, time.January, 10), days[4])
}

func TestDailyCapacity_DefaultWeek(t *testing.T) {
	week := engine.DefaultWeeklyWorkHours()

	assert.True(t, hrs(8).Equal(engine.DailyCapacity(date(2025, time.January, 6), week)))
	assert.True(t, engine.DailyCapacity(date(2025, time.January, 11), week).IsZero())
}

func TestDailyCapacity_SplitSlots(t *testing.T) {
	morning := engine.TimeSlot{Start: engine.ClockTime{Hour: 9}, End: engine.ClockTime{Hour: 12}}
	afternoon := engine.TimeSlot{Start: engine.ClockTime{Hour: 13}, End: engine.ClockTime{Hour: 17, Minute: 30}}
	week := engine.WeeklyWorkHours{time.Monday: {morning, afternoon}}

	assert.True(t, hrs(7.5).Equal(engine.DailyCapacity(date(2025, time.January, 6), week)))
}

// =============================================================================
// DATE ARITHMETIC
// =============================================================================

func TestNthWeekdayOfMonth(t *testing.T) {
	// February 2025 Mondays: 3, 10, 17, 24.
	assert.Equal(t, date(2025, time.February, 3), engine.NthWeekdayOfMonth(2025, time.February, time.Monday, 1))
	assert.Equal(t, date(2025, time.February, 24), engine.NthWeekdayOfMonth(2025, time.February, time.Monday, 4))

	// Week 5 means "last occurrence", which always exists.
	assert.Equal(t, date(2025, time.February, 24), engine.NthWeekdayOfMonth(2025, time.February, time.Monday, 5))
	assert.Equal(t, date(2025, time.January, 27), engine.NthWeekdayOfMonth(2025, time.January, time.Monday, 5))

	// Out-of-range week index has no date.
	assert.True(t, engine.NthWeekdayOfMonth(2025, time.February, time.Monday, 0).IsZero())
	assert.True(t, engine.NthWeekdayOfMonth(2025, time.February, time.Monday, 6).IsZero())
}

func TestDateRange_OverlapsClosedInterval(t *testing.T) {
	a := span(date(2025, time.January, 1), date(2025, time.January, 10))
	b := span(date(2025, time.January, 10), date(2025, time.January, 20))
	c := span(date(2025, time.January, 11), date(2025, time.January, 20))

	// Sharing a single boundary day is an overlap; adjacency is not.
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestDateRange_ShiftPreservesDuration(t *testing.T) {
	r := span(date(2025, time.January, 6), date(2025, time.January, 10))
	shifted := r.Shift(7)

	assert.Equal(t, date(2025, time.January, 13), shifted.Start)
	assert.Equal(t, r.LengthDays(), shifted.LengthDays())
}

func TestDaysInMonth_LeapYear(t *testing.T) {
	assert.Equal(t, 28, engine.DaysInMonth(2025, time.February))
	assert.Equal(t, 29, engine.DaysInMonth(2024, time.February))
	assert.Equal(t, 31, engine.DaysInMonth(2025, time.January))
}
