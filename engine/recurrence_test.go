/*
recurrence_test.go - Recurring phase expansion tests

The expansion must be deterministic, restartable, and finite: identical
inputs always yield the identical occurrence list, and continuous projects
are capped at the synthetic horizon.
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeline-engine/engine"
)

func weeklyTemplate(anchor engine.Date, wd time.Weekday) engine.Phase {
	return engine.Phase{
		ID:        "tpl",
		ProjectID: "p1",
		Start:     anchor,
		End:       anchor,
		Recurring: &engine.RecurrenceConfig{
			Pattern: engine.Weekly{IntervalWeeks: 1, Weekday: wd},
		},
	}
}

// =============================================================================
// WEEKLY
// =============================================================================

func TestExpandRecurrence_WeeklySnapsToWeekday(t *testing.T) {
	// GIVEN: A weekly Monday template anchored on Wed Jan 1 2025
	tpl := weeklyTemplate(date(2025, time.January, 1), time.Monday)

	// WHEN: Expanding within January
	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	// THEN: The anchor snaps forward to Mon Jan 6, then steps by whole weeks
	require.Len(t, occs, 4)
	assert.Equal(t, date(2025, time.January, 6), occs[0].Start)
	assert.Equal(t, date(2025, time.January, 13), occs[1].Start)
	assert.Equal(t, date(2025, time.January, 20), occs[2].Start)
	assert.Equal(t, date(2025, time.January, 27), occs[3].Start)
}

func TestExpandRecurrence_WeeklyEveryOtherWeek(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 6), time.Monday)
	tpl.Recurring.Pattern = engine.Weekly{IntervalWeeks: 2, Weekday: time.Monday}

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 6), date(2025, time.February, 28))
	require.NoError(t, err)

	require.Len(t, occs, 4)
	assert.Equal(t, date(2025, time.January, 6), occs[0].Start)
	assert.Equal(t, date(2025, time.January, 20), occs[1].Start)
	assert.Equal(t, date(2025, time.February, 3), occs[2].Start)
	assert.Equal(t, date(2025, time.February, 17), occs[3].Start)
}

func TestExpandRecurrence_DurationPreserved(t *testing.T) {
	// GIVEN: A two-day template (Mon-Tue)
	tpl := weeklyTemplate(date(2025, time.January, 6), time.Monday)
	tpl.End = date(2025, time.January, 7)

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 6), date(2025, time.January, 20))
	require.NoError(t, err)

	// THEN: Every occurrence keeps the template's duration
	require.Len(t, occs, 3)
	for _, occ := range occs {
		assert.Equal(t, 2, occ.LengthDays())
	}
	assert.Equal(t, date(2025, time.January, 14), occs[1].End)
}

// =============================================================================
// DAILY AND MONTHLY
// =============================================================================

func TestExpandRecurrence_DailyInterval(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 1), time.Monday)
	tpl.Recurring.Pattern = engine.Daily{IntervalDays: 3}

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 1), date(2025, time.January, 10))
	require.NoError(t, err)

	require.Len(t, occs, 4)
	assert.Equal(t, date(2025, time.January, 1), occs[0].Start)
	assert.Equal(t, date(2025, time.January, 4), occs[1].Start)
	assert.Equal(t, date(2025, time.January, 10), occs[3].Start)
}

func TestExpandRecurrence_MonthlyByDateClampsShortMonths(t *testing.T) {
	// GIVEN: "The 31st of every month" anchored in January
	tpl := weeklyTemplate(date(2025, time.January, 31), time.Monday)
	tpl.End = tpl.Start
	tpl.Recurring.Pattern = engine.MonthlyByDate{IntervalMonths: 1, DayOfMonth: 31}

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 1), date(2025, time.April, 30))
	require.NoError(t, err)

	// THEN: Shorter months clamp to their last day instead of skipping
	require.Len(t, occs, 4)
	assert.Equal(t, date(2025, time.January, 31), occs[0].Start)
	assert.Equal(t, date(2025, time.February, 28), occs[1].Start)
	assert.Equal(t, date(2025, time.March, 31), occs[2].Start)
	assert.Equal(t, date(2025, time.April, 30), occs[3].Start)
}

func TestExpandRecurrence_MonthlyLastWeekday(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 1), time.Monday)
	tpl.Recurring.Pattern = engine.MonthlyByWeekday{IntervalMonths: 1, WeekOfMonth: 5, Weekday: time.Monday}

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 1), date(2025, time.March, 31))
	require.NoError(t, err)

	require.Len(t, occs, 3)
	assert.Equal(t, date(2025, time.January, 27), occs[0].Start)
	assert.Equal(t, date(2025, time.February, 24), occs[1].Start)
	assert.Equal(t, date(2025, time.March, 31), occs[2].Start)
}

// =============================================================================
// ITERATOR BEHAVIOR
// =============================================================================

func TestOccurrenceIter_ResetReplaysIdentically(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 1), time.Monday)
	it, err := engine.NewOccurrenceIter(tpl, date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	var first []engine.DateRange
	for {
		occ, ok := it.Next()
		if !ok {
			break
		}
		first = append(first, occ)
	}

	it.Reset()
	var second []engine.DateRange
	for {
		occ, ok := it.Next()
		if !ok {
			break
		}
		second = append(second, occ)
	}

	assert.Equal(t, first, second)
}

func TestOccurrenceIter_LowerBoundSkipsEarlierOccurrences(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 1), time.Monday)

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 15), date(2025, time.January, 31))
	require.NoError(t, err)

	require.Len(t, occs, 2)
	assert.Equal(t, date(2025, time.January, 20), occs[0].Start)
	assert.Equal(t, date(2025, time.January, 27), occs[1].Start)
}

func TestOccurrenceIter_ZeroUpperCapsAtHorizon(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 6), time.Monday)

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 6), engine.Date{})
	require.NoError(t, err)

	// 365-day horizon: weekly occurrences stay finite, roughly one per week.
	assert.NotEmpty(t, occs)
	assert.LessOrEqual(t, len(occs), 53)
	last := occs[len(occs)-1]
	assert.False(t, last.Start.After(date(2025, time.January, 6).AddDays(engine.DefaultHorizonDays)))
}

func TestOccurrenceIter_PrecomputedReplaysVerbatim(t *testing.T) {
	stored := []engine.DateRange{
		span(date(2025, time.January, 6), date(2025, time.January, 6)),
		span(date(2025, time.January, 14), date(2025, time.January, 14)), // off-pattern on purpose
		span(date(2025, time.January, 20), date(2025, time.January, 20)),
	}
	tpl := weeklyTemplate(date(2025, time.January, 6), time.Monday)
	tpl.Recurring.Precomputed = stored

	occs, err := engine.ExpandRecurrence(tpl, date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, stored, occs)
}

func TestNewOccurrenceIter_RejectsInvalidPatterns(t *testing.T) {
	tpl := weeklyTemplate(date(2025, time.January, 6), time.Monday)

	tpl.Recurring.Pattern = engine.Daily{IntervalDays: 0}
	_, err := engine.NewOccurrenceIter(tpl, engine.Date{}, engine.Date{})
	assert.ErrorIs(t, err, engine.ErrInvalidRecurrence)

	tpl.Recurring.Pattern = engine.MonthlyByDate{IntervalMonths: 1, DayOfMonth: 32}
	_, err = engine.NewOccurrenceIter(tpl, engine.Date{}, engine.Date{})
	assert.ErrorIs(t, err, engine.ErrInvalidRecurrence)

	tpl.Recurring.Pattern = engine.MonthlyByWeekday{IntervalMonths: 1, WeekOfMonth: 6, Weekday: time.Monday}
	_, err = engine.NewOccurrenceIter(tpl, engine.Date{}, engine.Date{})
	assert.ErrorIs(t, err, engine.ErrInvalidRecurrence)
}

func TestNewOccurrenceIter_RejectsNonRecurringPhase(t *testing.T) {
	plain := engine.Phase{ID: "ph", Start: date(2025, time.January, 6), End: date(2025, time.January, 10)}

	_, err := engine.NewOccurrenceIter(plain, engine.Date{}, engine.Date{})
	assert.ErrorIs(t, err, engine.ErrInvalidRecurrence)
}
