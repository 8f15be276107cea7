/*
validate_test.go - Structural validation tests

Covers phase-vs-project containment, recurring/split exclusivity, and
holiday overlap with the suggested auto-adjustment.
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeline-engine/engine"
)

func boundedProject() engine.Project {
	return engine.Project{
		ID:             "p1",
		Start:          date(2025, time.January, 6),
		End:            date(2025, time.January, 31),
		EstimatedHours: hrs(100),
	}
}

// =============================================================================
// PHASE VALIDATION
// =============================================================================

func TestValidatePhase_InsideWindowOK(t *testing.T) {
	ph := engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: date(2025, time.January, 8), End: date(2025, time.January, 15),
		Allocation: hrs(10),
	}

	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(ph), nil)

	assert.True(t, res.OK)
	assert.Empty(t, res.Reasons)
}

func TestValidatePhase_OutsideProjectWindowRejected(t *testing.T) {
	ph := engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: date(2025, time.January, 1), End: date(2025, time.February, 5),
		Allocation: hrs(10),
	}

	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(ph), nil)

	assert.False(t, res.OK)
	// Both bound violations are reported.
	assert.Len(t, res.Reasons, 2)
}

func TestValidatePhase_ContinuousProjectExemptsUpperBound(t *testing.T) {
	p := boundedProject()
	p.Continuous = true
	ph := engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: date(2025, time.January, 8), End: date(2026, time.June, 1),
		Allocation: hrs(10),
	}

	res := engine.ValidatePhase(p, engine.NewDraft(ph), nil)

	assert.True(t, res.OK)
}

func TestValidatePhase_NegativeAllocationRejected(t *testing.T) {
	ph := engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: date(2025, time.January, 8), End: date(2025, time.January, 10),
		Allocation: hrs(-1),
	}

	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(ph), nil)

	assert.False(t, res.OK)
}

func TestValidatePhase_InvertedWindowRejected(t *testing.T) {
	ph := engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: date(2025, time.January, 10), End: date(2025, time.January, 8),
	}

	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(ph), nil)

	assert.False(t, res.OK)
}

func TestValidatePhase_RecurringAndSplitExclusive(t *testing.T) {
	recurring := engine.Phase{
		ID: "rec", ProjectID: "p1",
		Start: date(2025, time.January, 6), End: date(2025, time.January, 6),
		Recurring: &engine.RecurrenceConfig{
			Pattern: engine.Weekly{IntervalWeeks: 1, Weekday: time.Monday},
		},
	}
	split := engine.Phase{
		ID: "split", ProjectID: "p1",
		Start: date(2025, time.January, 8), End: date(2025, time.January, 10),
	}

	// Adding a split phase where a recurring template exists: rejected.
	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(split), []engine.Phase{recurring})
	assert.False(t, res.OK)

	// And the reverse direction.
	res = engine.ValidatePhase(boundedProject(), engine.NewDraft(recurring), []engine.Phase{split})
	assert.False(t, res.OK)
}

func TestValidatePhase_SecondRecurringTemplateRejected(t *testing.T) {
	existing := engine.Phase{
		ID: "rec1", ProjectID: "p1",
		Start: date(2025, time.January, 6), End: date(2025, time.January, 6),
		Recurring: &engine.RecurrenceConfig{
			Pattern: engine.Weekly{IntervalWeeks: 1, Weekday: time.Monday},
		},
	}
	candidate := existing
	candidate.ID = "rec2"

	res := engine.ValidatePhase(boundedProject(), engine.NewDraft(candidate), []engine.Phase{existing})

	assert.False(t, res.OK)
}

func TestValidatePhase_PersistedPhaseNotConflictingWithItself(t *testing.T) {
	// Updating the only recurring template must not trip the exclusivity
	// check against its own stored copy.
	stored := engine.Phase{
		ID: "rec", ProjectID: "p1",
		Start: date(2025, time.January, 6), End: date(2025, time.January, 6),
		Recurring: &engine.RecurrenceConfig{
			Pattern: engine.Weekly{IntervalWeeks: 1, Weekday: time.Monday},
		},
	}

	res := engine.ValidatePhase(boundedProject(), engine.NewPersisted(stored), []engine.Phase{stored})

	assert.True(t, res.OK)
}

// =============================================================================
// HOLIDAY VALIDATION
// =============================================================================

func TestValidateHoliday_NoOverlapOK(t *testing.T) {
	existing := []engine.Holiday{
		{ID: "h1", Title: "Ski week", Start: date(2025, time.January, 6), End: date(2025, time.January, 10)},
	}
	candidate := engine.Holiday{
		ID: "h2", Title: "City trip",
		Start: date(2025, time.January, 13), End: date(2025, time.January, 15),
	}

	res := engine.ValidateHoliday(engine.NewDraft(candidate), existing)

	assert.True(t, res.OK)
	assert.Nil(t, res.Suggested)
}

func TestValidateHoliday_OverlapRejectedWithSuggestion(t *testing.T) {
	// GIVEN: An existing holiday Jan 6-10
	existing := []engine.Holiday{
		{ID: "h1", Title: "Ski week", Start: date(2025, time.January, 6), End: date(2025, time.January, 10)},
	}
	// WHEN: A five-day candidate starting inside it
	candidate := engine.Holiday{
		ID: "h2", Title: "City trip",
		Start: date(2025, time.January, 8), End: date(2025, time.January, 12),
	}

	res := engine.ValidateHoliday(engine.NewDraft(candidate), existing)

	// THEN: Rejected, with a same-duration suggestion starting right after
	// the conflict. The suggestion is advisory; nothing was saved.
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Reasons)
	require.NotNil(t, res.Suggested)
	assert.Equal(t, date(2025, time.January, 11), res.Suggested.Start)
	assert.Equal(t, date(2025, time.January, 15), res.Suggested.End)
}

func TestValidateHoliday_SuggestionClearsLatestConflict(t *testing.T) {
	// Two overlapping holidays; the suggestion must clear BOTH.
	existing := []engine.Holiday{
		{ID: "h1", Title: "First", Start: date(2025, time.January, 6), End: date(2025, time.January, 10)},
		{ID: "h2", Title: "Second", Start: date(2025, time.January, 12), End: date(2025, time.January, 16)},
	}
	candidate := engine.Holiday{
		ID: "h3", Title: "Long trip",
		Start: date(2025, time.January, 8), End: date(2025, time.January, 13),
	}

	res := engine.ValidateHoliday(engine.NewDraft(candidate), existing)

	assert.False(t, res.OK)
	assert.Len(t, res.Reasons, 2)
	require.NotNil(t, res.Suggested)
	assert.Equal(t, date(2025, time.January, 17), res.Suggested.Start)
	assert.Equal(t, 6, res.Suggested.LengthDays())
}

func TestValidateHoliday_SuggestionClearsBackToBackHolidays(t *testing.T) {
	// Shifting past the first conflict lands exactly on the next holiday;
	// the suggestion must keep walking until the window is actually free.
	existing := []engine.Holiday{
		{ID: "h1", Title: "First", Start: date(2025, time.January, 13), End: date(2025, time.January, 15)},
		{ID: "h2", Title: "Second", Start: date(2025, time.January, 16), End: date(2025, time.January, 18)},
	}
	candidate := engine.Holiday{
		ID: "h3", Title: "Weekend away",
		Start: date(2025, time.January, 12), End: date(2025, time.January, 14),
	}

	res := engine.ValidateHoliday(engine.NewDraft(candidate), existing)

	assert.False(t, res.OK)
	require.NotNil(t, res.Suggested)
	assert.Equal(t, date(2025, time.January, 19), res.Suggested.Start)
	assert.Equal(t, date(2025, time.January, 21), res.Suggested.End)
	for _, h := range existing {
		assert.False(t, res.Suggested.Overlaps(h.Window()), "suggestion overlaps %q", h.Title)
	}
}

func TestValidateHoliday_PersistedExcludesItself(t *testing.T) {
	stored := engine.Holiday{
		ID: "h1", Title: "Ski week",
		Start: date(2025, time.January, 6), End: date(2025, time.January, 10),
	}
	moved := stored
	moved.End = date(2025, time.January, 12)

	res := engine.ValidateHoliday(engine.NewPersisted(moved), []engine.Holiday{stored})

	assert.True(t, res.OK)
}

func TestValidateHoliday_InvertedRangeRejected(t *testing.T) {
	candidate := engine.Holiday{
		ID: "h1", Start: date(2025, time.January, 10), End: date(2025, time.January, 8),
	}

	res := engine.ValidateHoliday(engine.NewDraft(candidate), nil)

	assert.False(t, res.OK)
}

// =============================================================================
// PROJECT VALIDATION
// =============================================================================

func TestValidateProject(t *testing.T) {
	ok := boundedProject()
	assert.True(t, engine.ValidateProject(ok).OK)

	inverted := ok
	inverted.End = date(2025, time.January, 1)
	assert.False(t, engine.ValidateProject(inverted).OK)

	// Continuous projects ignore the end date entirely.
	continuous := inverted
	continuous.Continuous = true
	assert.True(t, engine.ValidateProject(continuous).OK)

	negative := ok
	negative.EstimatedHours = hrs(-10)
	assert.False(t, engine.ValidateProject(negative).OK)

	var noStart engine.Project
	assert.False(t, engine.ValidateProject(noStart).OK)
}
