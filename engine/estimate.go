/*
estimate.go - Per-day hour estimates for a project

PURPOSE:
  Produces one hour value per (date, source) pair for a project over a date
  range. Three sources, in strict precedence order per date:

    1. event      An explicit calendar event covers the date. Events fully
                  determine their dates; no further allocation happens there.
    2. allocation The date falls inside a phase window (or a recurring
                  occurrence window). The phase's hours are spread evenly
                  over the window's working days.
    3. auto       The date is covered only by the project-level budget. The
                  unallocated remainder spreads evenly over the remaining
                  working days.

EXACT SUMS:
  Per-day spreads truncate to 0.01h and the LAST working day of each window
  absorbs the remainder, so the total across a window's working days equals
  the declared allocation exactly.

DETERMINISM:
  Identical inputs yield identical output. The only time inputs are the
  caller-supplied range and Today (used to scope auto-estimates to days that
  are still ahead); there is no hidden wall-clock dependency.

SEE ALSO:
  - calendar.go: Working-day predicates
  - recurrence.go: Occurrence windows for recurring templates
  - budget.go: TotalAllocated, which defines the auto-estimate remainder
*/
package engine

import (
	"fmt"
	"sort"
)

// =============================================================================
// INPUT
// =============================================================================

// EstimateInput bundles everything the calculator reads. Nothing is mutated.
type EstimateInput struct {
	Project  Project
	Phases   []Phase
	Week     WeeklyWorkHours
	Holidays []Holiday
	Events   []CalendarEvent
	Range    DateRange

	// Today scopes auto-estimates: remaining budget spreads only over days
	// on or after it. Zero means "spread over the whole project window".
	Today Date
}

type eventCover struct {
	hours     Hours
	completed bool // all events on the day completed
}

// =============================================================================
// COMPUTATION
// =============================================================================

// ComputeDayEstimates computes the per-day estimates for the requested range.
// Days with no hours are omitted. Output is sorted by date.
func ComputeDayEstimates(in EstimateInput) ([]DayEstimate, error) {
	if !in.Range.IsValid() {
		return nil, fmt.Errorf("%w: estimate range %s..%s", ErrInvalidInput, in.Range.Start, in.Range.End)
	}
	if in.Project.Start.IsZero() {
		return nil, fmt.Errorf("%w: project %s has no start date", ErrInvalidInput, in.Project.ID)
	}
	week := in.Week
	if week == nil {
		week = DefaultWeeklyWorkHours()
	}

	events := coverEvents(in.Project, in.Events)

	// Phase windows claim working days in phase order; each day belongs to at
	// most one window so window sums stay exact.
	claimed := map[Date]Hours{}
	phases := append([]Phase(nil), in.Phases...)
	sort.Slice(phases, func(i, j int) bool {
		if phases[i].Order != phases[j].Order {
			return phases[i].Order < phases[j].Order
		}
		if !phases[i].Start.Equal(phases[j].Start) {
			return phases[i].Start.Before(phases[j].Start)
		}
		return phases[i].ID < phases[j].ID
	})

	for _, ph := range phases {
		windows, err := phaseWindows(in.Project, ph)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			distribute(w, ph.Allocation, week, in.Holidays, events, nil, claimed)
		}
	}

	// Remaining project budget spreads over the uncovered working days still
	// ahead of Today.
	auto := map[Date]Hours{}
	remaining := in.Project.EstimatedHours.Sub(TotalAllocated(in.Phases, ""))
	if remaining.IsPositive() {
		window := in.Project.Window()
		if !in.Today.IsZero() && in.Today.After(window.Start) {
			window.Start = in.Today
		}
		if window.IsValid() {
			distribute(window, remaining, week, in.Holidays, events, claimed, auto)
		}
	}

	var out []DayEstimate
	for d := in.Range.Start; d.BeforeOrEqual(in.Range.End); d = d.AddDays(1) {
		if cover, ok := events[d]; ok {
			out = append(out, DayEstimate{
				Date:             d,
				Hours:            cover.hours,
				Source:           SourceEvent,
				IsPlannedEvent:   true,
				IsCompletedEvent: cover.completed,
			})
			continue
		}
		if hours, ok := claimed[d]; ok && hours.IsPositive() {
			out = append(out, DayEstimate{Date: d, Hours: hours, Source: SourceAllocation})
			continue
		}
		if hours, ok := auto[d]; ok && hours.IsPositive() {
			out = append(out, DayEstimate{Date: d, Hours: hours, Source: SourceAutoEstimate})
		}
	}
	return out, nil
}

// coverEvents aggregates per-day event hours for events attached to the
// project (or unattached). A day is "completed" only when every event
// touching it is completed.
func coverEvents(p Project, events []CalendarEvent) map[Date]eventCover {
	covers := map[Date]eventCover{}
	for _, ev := range events {
		if ev.ProjectID != "" && ev.ProjectID != p.ID {
			continue
		}
		if !ev.End.After(ev.Start) {
			continue
		}
		last := DateOf(ev.End.Add(-1))
		for d := DateOf(ev.Start); d.BeforeOrEqual(last); d = d.AddDays(1) {
			h := ev.HoursOnDay(d)
			if !h.IsPositive() {
				continue
			}
			cover, seen := covers[d]
			if !seen {
				cover.completed = true
			}
			cover.hours = cover.hours.Add(h)
			cover.completed = cover.completed && ev.Completed
			covers[d] = cover
		}
	}
	return covers
}

// phaseWindows returns the concrete windows a phase covers: its own range
// for split phases, the expanded occurrences for recurring templates.
func phaseWindows(p Project, ph Phase) ([]DateRange, error) {
	if !ph.IsRecurring() {
		return []DateRange{ph.Window()}, nil
	}
	return ExpandRecurrence(ph, ph.Start, RecurrenceUpperBound(p))
}

// distribute spreads hours evenly over the window's working days that are
// not covered by events, not in exclude, and not already in target.
// Truncated to 0.01h per day; the last day absorbs the remainder so the
// window total is exact.
func distribute(window DateRange, hours Hours, week WeeklyWorkHours, holidays []Holiday,
	events map[Date]eventCover, exclude, target map[Date]Hours) {

	if !hours.IsPositive() {
		return
	}
	var days []Date
	for _, d := range WorkingDaysIn(window, week, holidays) {
		if _, covered := events[d]; covered {
			continue
		}
		if _, taken := exclude[d]; taken {
			continue
		}
		if _, taken := target[d]; taken {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return
	}
	per := hours.Div(len(days)).Truncate()
	assigned := ZeroHours()
	for i, d := range days {
		if i == len(days)-1 {
			target[d] = hours.Sub(assigned)
			break
		}
		target[d] = per
		assigned = assigned.Add(per)
	}
}
