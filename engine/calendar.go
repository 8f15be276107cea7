/*
calendar.go - Calendar primitives

PURPOSE:
  Pure date predicates shared by the estimate calculator, the validators,
  and the drag coordinator: is a date a holiday, is it a working day given
  the weekly hours calendar, and which wall-clock slots exist on it.

  No side effects. The only failure mode is invalid (zero) date input,
  rejected with ErrInvalidInput by the exported entry points that take
  external input.

SEE ALSO:
  - time.go: Date, DateRange, WeeklyWorkHours
  - estimate.go: Main consumer of these predicates
*/
package engine

// =============================================================================
// HOLIDAY AND WORKING-DAY PREDICATES
// =============================================================================

// IsHoliday reports whether the date falls inside any holiday range.
func IsHoliday(d Date, holidays []Holiday) bool {
	for _, h := range holidays {
		if h.Window().Contains(d) {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether the date is a working day: not a holiday, and
// its weekday has at least one work slot.
func IsWorkingDay(d Date, week WeeklyWorkHours, holidays []Holiday) bool {
	if !week.IsWorkingWeekday(d.Weekday()) {
		return false
	}
	return !IsHoliday(d, holidays)
}

// WorkSlotsForDay returns the ordered work slots for the date's weekday.
// Used to convert an hour count into concrete event-like blocks.
func WorkSlotsForDay(d Date, week WeeklyWorkHours) []TimeSlot {
	return week[d.Weekday()]
}

// DailyCapacity returns the total slot hours available on the date's weekday.
func DailyCapacity(d Date, week WeeklyWorkHours) Hours {
	total := ZeroHours()
	for _, slot := range week[d.Weekday()] {
		total = total.Add(slot.Hours())
	}
	return total
}

// WorkingDaysIn returns every working day within the range, in order.
func WorkingDaysIn(r DateRange, week WeeklyWorkHours, holidays []Holiday) []Date {
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		if IsWorkingDay(d, week, holidays) {
			days = append(days, d)
		}
	}
	return days
}
