/*
recurrence.go - Recurring phase expansion

PURPOSE:
  Turns a recurring-phase template into a deterministic, restartable, finite
  sequence of concrete occurrence windows. A template stores one record; the
  expander derives the many date ranges it implies, each preserving the
  template's duration.

PATTERNS:
  Daily            every IntervalDays calendar days
  Weekly           every IntervalWeeks weeks, snapped to a weekday
  MonthlyByDate    every IntervalMonths months on a day-of-month
                   (clamped in shorter months)
  MonthlyByWeekday every IntervalMonths months on the Nth weekday
                   (WeekOfMonth 5 means "last")

  The pattern union is sealed; the expander matches exhaustively. An
  occurrence whose computed start does not exist (an unreachable Nth
  weekday) is skipped, never substituted.

BOUNDS:
  The sequence is bounded below by the project/phase start and above by the
  project end; open-ended (continuous) projects cap the bound at
  DefaultHorizonDays past the lower bound so iteration stays finite.

SEE ALSO:
  - estimate.go: Distributes allocation over each occurrence window
  - types.go: Phase, DefaultHorizonDays
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// PATTERN - Sealed recurrence variant union
// =============================================================================

// Pattern is the discriminated recurrence variant. The interface is sealed:
// only the types in this file implement it, so type switches are exhaustive.
type Pattern interface {
	pattern()
}

type Daily struct {
	IntervalDays int
}

type Weekly struct {
	IntervalWeeks int
	Weekday       time.Weekday
}

type MonthlyByDate struct {
	IntervalMonths int
	DayOfMonth     int // 1..31, clamped to shorter months
}

type MonthlyByWeekday struct {
	IntervalMonths int
	WeekOfMonth    int // 1..5, 5 means "last"
	Weekday        time.Weekday
}

func (Daily) pattern()            {}
func (Weekly) pattern()           {}
func (MonthlyByDate) pattern()    {}
func (MonthlyByWeekday) pattern() {}

// RecurrenceConfig is the recurrence part of a phase template. Precomputed,
// when set, replays a previously expanded occurrence list verbatim instead
// of re-deriving it, for deterministic replay across schema changes.
type RecurrenceConfig struct {
	Pattern     Pattern
	Precomputed []DateRange
}

func validatePattern(p Pattern) error {
	switch v := p.(type) {
	case Daily:
		if v.IntervalDays < 1 {
			return fmt.Errorf("%w: daily interval %d", ErrInvalidRecurrence, v.IntervalDays)
		}
	case Weekly:
		if v.IntervalWeeks < 1 {
			return fmt.Errorf("%w: weekly interval %d", ErrInvalidRecurrence, v.IntervalWeeks)
		}
	case MonthlyByDate:
		if v.IntervalMonths < 1 || v.DayOfMonth < 1 || v.DayOfMonth > 31 {
			return fmt.Errorf("%w: monthly-by-date interval %d day %d",
				ErrInvalidRecurrence, v.IntervalMonths, v.DayOfMonth)
		}
	case MonthlyByWeekday:
		if v.IntervalMonths < 1 || v.WeekOfMonth < 1 || v.WeekOfMonth > 5 {
			return fmt.Errorf("%w: monthly-by-weekday interval %d week %d",
				ErrInvalidRecurrence, v.IntervalMonths, v.WeekOfMonth)
		}
	default:
		return fmt.Errorf("%w: no pattern", ErrInvalidRecurrence)
	}
	return nil
}

// =============================================================================
// OCCURRENCE ITERATOR - Lazy, restartable expansion
// =============================================================================

// OccurrenceIter lazily yields the concrete occurrence windows of a recurring
// template. Recreating (or Resetting) an iterator with identical inputs
// yields the identical sequence.
type OccurrenceIter struct {
	cfg      RecurrenceConfig
	anchor   Date // template start
	duration int  // occurrence length - 1, in days
	lower    Date
	upper    Date

	step   int // next pattern step to evaluate
	replay int // next precomputed index, when replaying
}

// NewOccurrenceIter builds an iterator over [lower, upper]. A zero lower
// falls back to the template start; a zero upper is capped at
// DefaultHorizonDays past the lower bound (continuous projects).
func NewOccurrenceIter(template Phase, lower, upper Date) (*OccurrenceIter, error) {
	if template.Recurring == nil {
		return nil, fmt.Errorf("%w: phase %s is not recurring", ErrInvalidRecurrence, template.ID)
	}
	if template.Recurring.Precomputed == nil {
		if err := validatePattern(template.Recurring.Pattern); err != nil {
			return nil, err
		}
	}
	if template.Start.IsZero() || template.End.Before(template.Start) {
		return nil, fmt.Errorf("%w: template window %s..%s", ErrInvalidInput, template.Start, template.End)
	}
	if lower.IsZero() {
		lower = template.Start
	}
	if lower.Before(template.Start) {
		lower = template.Start
	}
	if upper.IsZero() {
		upper = lower.AddDays(DefaultHorizonDays)
	}
	return &OccurrenceIter{
		cfg:      *template.Recurring,
		anchor:   template.Start,
		duration: DaysBetween(template.Start, template.End),
		lower:    lower,
		upper:    upper,
	}, nil
}

// Reset restarts the sequence from the beginning.
func (it *OccurrenceIter) Reset() {
	it.step = 0
	it.replay = 0
}

// Next yields the next occurrence window, or false when the sequence is
// exhausted. Unreachable steps are skipped.
func (it *OccurrenceIter) Next() (DateRange, bool) {
	if it.cfg.Precomputed != nil {
		return it.nextReplay()
	}
	for {
		start, ok := it.startForStep(it.step)
		it.step++
		if !ok {
			// Unreachable occurrence in this step; skip, don't substitute.
			continue
		}
		if start.After(it.upper) {
			return DateRange{}, false
		}
		if start.Before(it.lower) {
			continue
		}
		return DateRange{Start: start, End: start.AddDays(it.duration)}, true
	}
}

func (it *OccurrenceIter) nextReplay() (DateRange, bool) {
	for it.replay < len(it.cfg.Precomputed) {
		occ := it.cfg.Precomputed[it.replay]
		it.replay++
		if occ.Start.After(it.upper) {
			return DateRange{}, false
		}
		if occ.Start.Before(it.lower) {
			continue
		}
		return occ, true
	}
	return DateRange{}, false
}

// startForStep computes the start of occurrence k. The second return is
// false when the step has no valid date (only possible for monthly-by-weekday).
func (it *OccurrenceIter) startForStep(k int) (Date, bool) {
	switch v := it.cfg.Pattern.(type) {
	case Daily:
		return it.anchor.AddDays(k * v.IntervalDays), true

	case Weekly:
		// Snap the anchor forward to the configured weekday, then step by
		// whole week intervals.
		offset := (int(v.Weekday) - int(it.anchor.Weekday()) + 7) % 7
		base := it.anchor.AddDays(offset)
		return base.AddDays(k * 7 * v.IntervalWeeks), true

	case MonthlyByDate:
		monthStart := NewDate(it.anchor.Year(), it.anchor.Month(), 1).AddMonths(k * v.IntervalMonths)
		day := v.DayOfMonth
		if max := DaysInMonth(monthStart.Year(), monthStart.Month()); day > max {
			day = max
		}
		return NewDate(monthStart.Year(), monthStart.Month(), day), true

	case MonthlyByWeekday:
		monthStart := NewDate(it.anchor.Year(), it.anchor.Month(), 1).AddMonths(k * v.IntervalMonths)
		d := NthWeekdayOfMonth(monthStart.Year(), monthStart.Month(), v.Weekday, v.WeekOfMonth)
		if d.IsZero() {
			return Date{}, false
		}
		return d, true
	}
	return Date{}, false
}

// =============================================================================
// EXPANSION - Eager convenience over the iterator
// =============================================================================

// ExpandRecurrence drains the iterator into a slice of occurrence windows.
func ExpandRecurrence(template Phase, lower, upper Date) ([]DateRange, error) {
	it, err := NewOccurrenceIter(template, lower, upper)
	if err != nil {
		return nil, err
	}
	var occurrences []DateRange
	for {
		occ, ok := it.Next()
		if !ok {
			return occurrences, nil
		}
		occurrences = append(occurrences, occ)
	}
}

// RecurrenceUpperBound returns the expansion bound for a project: its end
// date, or the synthetic horizon for continuous projects.
func RecurrenceUpperBound(p Project) Date {
	return p.Window().End
}
