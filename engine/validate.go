/*
validate.go - Structural validation and auto-adjustment

PURPOSE:
  Validates phases against their owning project (window containment,
  recurring/split exclusivity) and holidays against each other (no overlap,
  with a suggested non-conflicting range on rejection).

  Violations are returned as structured results with human-readable
  reasons; calling code decides whether to block the save or offer the
  auto-adjustment. Nothing here mutates state, and a conflicting save is
  never silently adjusted.

SEE ALSO:
  - budget.go: Allocation-vs-budget validation
  - errors.go: HolidayOverlapError for error-shaped callers
*/
package engine

import "fmt"

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult is a non-fatal validation outcome. Suggested carries an
// auto-adjusted range when one exists; applying it requires explicit caller
// confirmation.
type ValidationResult struct {
	OK        bool
	Reasons   []string
	Suggested *DateRange
}

func valid() ValidationResult { return ValidationResult{OK: true} }

func invalid(reasons ...string) ValidationResult {
	return ValidationResult{Reasons: reasons}
}

// =============================================================================
// PHASE VALIDATION
// =============================================================================

// ValidatePhase checks a candidate phase against its project and the
// project's existing phases: non-negative allocation, window containment
// (continuous projects exempt the upper bound), at most one recurring
// template, and recurring/split mutual exclusivity.
func ValidatePhase(project Project, candidate Candidate[Phase], existing []Phase) ValidationResult {
	ph := candidate.Value
	var reasons []string

	if ph.Allocation.IsNegative() {
		reasons = append(reasons, "time allocation must not be negative")
	}
	if ph.Start.IsZero() || ph.End.Before(ph.Start) {
		reasons = append(reasons, "phase end date must not precede its start date")
	} else if !ph.IsRecurring() {
		if ph.Start.Before(project.Start) {
			reasons = append(reasons, fmt.Sprintf("phase starts %s, before the project start %s", ph.Start, project.Start))
		}
		if !project.Continuous && ph.End.After(project.End) {
			reasons = append(reasons, fmt.Sprintf("phase ends %s, after the project end %s", ph.End, project.End))
		}
	}

	for _, other := range existing {
		if !candidate.Draft && other.ID == ph.ID {
			continue
		}
		if ph.IsRecurring() && other.IsRecurring() {
			reasons = append(reasons, "project already has a recurring phase")
			break
		}
		if ph.IsRecurring() != other.IsRecurring() {
			reasons = append(reasons, "recurring and split phases cannot coexist on one project")
			break
		}
	}

	if ph.IsRecurring() && ph.Recurring.Precomputed == nil {
		if err := validatePattern(ph.Recurring.Pattern); err != nil {
			reasons = append(reasons, err.Error())
		}
	}

	if len(reasons) > 0 {
		return invalid(reasons...)
	}
	return valid()
}

// =============================================================================
// HOLIDAY VALIDATION + AUTO-ADJUSTMENT
// =============================================================================

// ValidateHoliday checks a candidate holiday against the existing ones.
// Date ranges are inclusive, closed intervals; any shared day is a conflict.
// On conflict the result carries a suggested range shifted forward until it
// is clear of every existing holiday, duration preserved.
func ValidateHoliday(candidate Candidate[Holiday], existing []Holiday) ValidationResult {
	h := candidate.Value
	if h.Start.IsZero() || h.End.Before(h.Start) {
		return invalid("holiday end date must not precede its start date")
	}

	window := h.Window()
	var others, conflicts []Holiday
	for _, other := range existing {
		if !candidate.Draft && other.ID == h.ID {
			continue
		}
		others = append(others, other)
		if window.Overlaps(other.Window()) {
			conflicts = append(conflicts, other)
		}
	}
	if len(conflicts) == 0 {
		return valid()
	}

	suggested := SuggestHolidayShift(window, others)
	result := invalid()
	for _, c := range conflicts {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("overlaps holiday %q (%s)", c.Title, c.Window()))
	}
	result.Suggested = &suggested
	return result
}

// SuggestHolidayShift returns the candidate window shifted forward, duration
// preserved, until it overlaps none of the given holidays. Every shift lands
// on the day after a blocking holiday's end, so the walk terminates once the
// window clears the latest one.
func SuggestHolidayShift(window DateRange, others []Holiday) DateRange {
	shifted := window
	for moved := true; moved; {
		moved = false
		for _, o := range others {
			if shifted.Overlaps(o.Window()) {
				shifted = shifted.Shift(DaysBetween(shifted.Start, o.End.AddDays(1)))
				moved = true
			}
		}
	}
	return shifted
}

// =============================================================================
// PROJECT VALIDATION
// =============================================================================

// ValidateProject checks the project's own invariants: a start date, a
// non-negative budget, and start <= end unless continuous.
func ValidateProject(p Project) ValidationResult {
	var reasons []string
	if p.Start.IsZero() {
		reasons = append(reasons, "project needs a start date")
	}
	if !p.Continuous && p.End.Before(p.Start) {
		reasons = append(reasons, "project end date must not precede its start date")
	}
	if p.EstimatedHours.IsNegative() {
		reasons = append(reasons, "estimated hours must not be negative")
	}
	if len(reasons) > 0 {
		return invalid(reasons...)
	}
	return valid()
}
