/*
override_test.go - Week-scoped override store tests
*/
package drag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/timeline-engine/drag"
	"github.com/warp/timeline-engine/engine"
)

func TestWeekStart_SnapsBackToMonday(t *testing.T) {
	// Jan 6 2025 is a Monday.
	assert.Equal(t, day(6), drag.WeekStart(day(6)))
	assert.Equal(t, day(6), drag.WeekStart(day(8)))  // Wednesday
	assert.Equal(t, day(6), drag.WeekStart(day(12))) // Sunday
	assert.Equal(t, day(13), drag.WeekStart(day(13)))
}

func TestOverrideStore_SetAndGetShareWeekKey(t *testing.T) {
	s := drag.NewOverrideStore()
	s.Set(day(8), engine.NewHours(2))

	// Any day of the same week resolves the same override.
	got, ok := s.Get(day(10))
	assert.True(t, ok)
	assert.True(t, engine.NewHours(2).Equal(got))

	_, ok = s.Get(day(13))
	assert.False(t, ok, "next week has no override")
}

func TestOverrideStore_ApplyOnlyTouchesAllocations(t *testing.T) {
	s := drag.NewOverrideStore()
	s.Set(day(6), engine.NewHours(2))

	estimates := []engine.DayEstimate{
		{Date: day(6), Hours: engine.NewHours(8), Source: engine.SourceAllocation},
		{Date: day(7), Hours: engine.NewHours(3), Source: engine.SourceEvent},
		{Date: day(8), Hours: engine.NewHours(5), Source: engine.SourceAutoEstimate},
	}

	out := s.Apply(estimates)

	assert.True(t, engine.NewHours(2).Equal(out[0].Hours), "allocation overridden")
	assert.True(t, engine.NewHours(3).Equal(out[1].Hours), "event untouched")
	assert.True(t, engine.NewHours(5).Equal(out[2].Hours), "auto untouched")

	// The input slice is not mutated.
	assert.True(t, engine.NewHours(8).Equal(estimates[0].Hours))
}

func TestOverrideStore_ApplyWithNoOverridesReturnsInput(t *testing.T) {
	s := drag.NewOverrideStore()
	estimates := []engine.DayEstimate{
		{Date: day(6), Hours: engine.NewHours(8), Source: engine.SourceAllocation},
	}

	assert.Equal(t, estimates, s.Apply(estimates))
}

func TestOverrideStore_PruneBeforeDropsFinishedWeeks(t *testing.T) {
	s := drag.NewOverrideStore()
	s.Set(day(6), engine.NewHours(2))  // week Jan 6-12
	s.Set(day(13), engine.NewHours(4)) // week Jan 13-19

	// Cutoff Jan 13: the first week ended Jan 12, so it goes.
	dropped := s.PruneBefore(day(13))

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(day(13))
	assert.True(t, ok)
}

func TestOverrideStore_ClearEmpties(t *testing.T) {
	s := drag.NewOverrideStore()
	s.Set(day(6), engine.NewHours(2))

	s.Clear()

	assert.Equal(t, 0, s.Len())
}
