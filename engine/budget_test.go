/*
budget_test.go - Allocation-vs-budget validation tests
*/
package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/timeline-engine/engine"
)

func phase(id string, alloc float64) engine.Phase {
	return engine.Phase{
		ID:         engine.PhaseID(id),
		ProjectID:  "p1",
		Start:      date(2025, time.January, 6),
		End:        date(2025, time.January, 10),
		Allocation: hrs(alloc),
	}
}

func TestValidateAllocation_OverBudget(t *testing.T) {
	// GIVEN: A 40h budget with 50h allocated across two phases
	phases := []engine.Phase{phase("a", 30), phase("b", 20)}

	bv := engine.ValidateAllocation(phases, hrs(40), "")

	// THEN: Invalid, with the exact overage and utilization reported
	assert.False(t, bv.IsValid)
	assert.True(t, hrs(50).Equal(bv.TotalAllocated))
	assert.True(t, hrs(10).Equal(bv.Overage))
	assert.True(t, decimal.NewFromInt(125).Equal(bv.UtilizationPercent))
}

func TestValidateAllocation_ExactFitIsValid(t *testing.T) {
	phases := []engine.Phase{phase("a", 25), phase("b", 15)}

	bv := engine.ValidateAllocation(phases, hrs(40), "")

	assert.True(t, bv.IsValid)
	assert.True(t, bv.Overage.IsZero())
	assert.True(t, decimal.NewFromInt(100).Equal(bv.UtilizationPercent))
}

func TestValidateAllocation_ExcludeOnePhase(t *testing.T) {
	phases := []engine.Phase{phase("a", 30), phase("b", 20)}

	// "What if phase b were deleted": only a's 30h remain.
	bv := engine.ValidateAllocation(phases, hrs(40), "b")

	assert.True(t, bv.IsValid)
	assert.True(t, hrs(30).Equal(bv.TotalAllocated))
}

func TestSimulateAllocation_ChangeExistingPhase(t *testing.T) {
	phases := []engine.Phase{phase("a", 30), phase("b", 5)}

	// Raising b from 5h to 15h: 30 + 15 = 45 > 40.
	bv := engine.SimulateAllocation(phases, hrs(40), "b", hrs(15))

	assert.False(t, bv.IsValid)
	assert.True(t, hrs(45).Equal(bv.TotalAllocated))
	assert.True(t, hrs(5).Equal(bv.Overage))
}

func TestSimulateAllocation_NewPhaseAdds(t *testing.T) {
	phases := []engine.Phase{phase("a", 30)}

	// A phase ID not among the existing ones simulates an addition.
	bv := engine.SimulateAllocation(phases, hrs(40), "new", hrs(10))

	assert.True(t, bv.IsValid)
	assert.True(t, hrs(40).Equal(bv.TotalAllocated))
}

func TestValidateAllocation_RecurringTemplateCountsOnce(t *testing.T) {
	// A recurring template implies many occurrences but its declared
	// allocation is the per-occurrence rate, counted once.
	recurring := phase("r", 10)
	recurring.Recurring = &engine.RecurrenceConfig{
		Pattern: engine.Weekly{IntervalWeeks: 1, Weekday: time.Monday},
	}

	bv := engine.ValidateAllocation([]engine.Phase{recurring}, hrs(40), "")

	assert.True(t, bv.IsValid)
	assert.True(t, hrs(10).Equal(bv.TotalAllocated))
}

func TestValidateAllocation_ZeroBudget(t *testing.T) {
	phases := []engine.Phase{phase("a", 10)}

	bv := engine.ValidateAllocation(phases, engine.ZeroHours(), "")

	// Any allocation against a zero budget is pure overage; utilization
	// stays 0 rather than dividing by zero.
	assert.False(t, bv.IsValid)
	assert.True(t, hrs(10).Equal(bv.Overage))
	assert.True(t, bv.UtilizationPercent.IsZero())
}

func TestValidateAllocation_NoPhases(t *testing.T) {
	bv := engine.ValidateAllocation(nil, hrs(40), "")

	assert.True(t, bv.IsValid)
	assert.True(t, bv.TotalAllocated.IsZero())
	assert.True(t, bv.UtilizationPercent.IsZero())
}
