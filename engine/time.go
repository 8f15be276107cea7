package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Day-granularity point in time
// =============================================================================

// Date is a calendar day, normalized to midnight UTC. All scheduling math in
// this engine is day-granular; wall-clock times only appear in work slots and
// calendar events.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day (UTC).
func DateOf(t time.Time) Date {
	return NewDate(t.UTC().Year(), t.UTC().Month(), t.UTC().Day())
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, s)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns the number of calendar days from a to b (negative when
// b precedes a).
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time).Hours() / 24)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// NthWeekdayOfMonth returns the nth (1..4) occurrence of weekday in the month,
// or the last occurrence when n is 5. Returns a zero Date when the month has
// no such occurrence.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) Date {
	if n < 1 || n > 5 {
		return Date{}
	}
	first := NewDate(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	if n == 5 {
		// Last occurrence: walk back from the end of the month.
		last := NewDate(year, month, DaysInMonth(year, month))
		back := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDays(-back)
	}
	candidate := first.AddDays(offset + (n-1)*7)
	if candidate.Month() != month {
		return Date{}
	}
	return candidate
}

// =============================================================================
// DATE RANGE - Inclusive, closed interval of days
// =============================================================================

// DateRange is an inclusive [Start, End] day interval. All project, phase,
// holiday, and occurrence windows are closed intervals.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether the day falls within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Overlaps reports whether two closed intervals share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(r.End)
}

// Days returns every day in the range in order.
func (r DateRange) Days() []Date {
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// LengthDays returns the number of days in the closed interval.
func (r DateRange) LengthDays() int { return DaysBetween(r.Start, r.End) + 1 }

// Shift moves both bounds by n days, preserving duration.
func (r DateRange) Shift(n int) DateRange {
	return DateRange{Start: r.Start.AddDays(n), End: r.End.AddDays(n)}
}

// IsValid reports Start <= End with both bounds set.
func (r DateRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.BeforeOrEqual(r.End)
}

func (r DateRange) String() string { return "[" + r.Start.String() + ", " + r.End.String() + "]" }

// =============================================================================
// WALL-CLOCK TIME - Slots within a working day
// =============================================================================

// ClockTime is a wall-clock time of day with no date attached.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses a "15:04" wall-clock string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: bad clock time %q", ErrInvalidInput, s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// TimeSlot is a [Start, End) working window within a day.
type TimeSlot struct {
	Start ClockTime
	End   ClockTime
}

// Hours returns the slot duration in hours.
func (s TimeSlot) Hours() Hours {
	mins := s.End.Minutes() - s.Start.Minutes()
	if mins < 0 {
		mins = 0
	}
	return Hours{Value: decimal.NewFromInt(int64(mins)).Div(decimal.NewFromInt(60))}
}

// =============================================================================
// WEEKLY WORK HOURS - Per-weekday slot calendar
// =============================================================================

// WeeklyWorkHours maps each weekday to its ordered work slots. A weekday with
// no slots is non-working.
type WeeklyWorkHours map[time.Weekday][]TimeSlot

// DefaultWeeklyWorkHours is a Mon-Fri 09:00-17:00 calendar.
func DefaultWeeklyWorkHours() WeeklyWorkHours {
	slot := TimeSlot{Start: ClockTime{Hour: 9}, End: ClockTime{Hour: 17}}
	week := WeeklyWorkHours{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		week[wd] = []TimeSlot{slot}
	}
	return week
}

// IsWorkingWeekday reports whether the weekday has any work slots.
func (w WeeklyWorkHours) IsWorkingWeekday(wd time.Weekday) bool {
	return len(w[wd]) > 0
}
