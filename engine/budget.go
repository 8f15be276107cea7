/*
budget.go - Phase allocation validation against the project budget

PURPOSE:
  Sums phase/milestone allocations and compares against the project's
  estimated-hours budget. Pure predicates: validation never fails with an
  error; callers turn IsValid=false into a user-facing rejection.

RECURRING TEMPLATES:
  A recurring template's declared allocation is counted ONCE, as the
  per-occurrence rate. It is never multiplied by occurrence count: total
  recurring cost is open-ended by design, so multiplying would make every
  continuous project invalid.

SEE ALSO:
  - validate.go: Structural phase validation (window, exclusivity)
  - estimate.go: Uses TotalAllocated to derive the remaining auto-budget
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// BUDGET VALIDATION RESULT
// =============================================================================

// BudgetValidation reports whether phase allocations fit the project budget.
type BudgetValidation struct {
	IsValid            bool
	TotalAllocated     Hours
	Overage            Hours
	UtilizationPercent decimal.Decimal
}

// =============================================================================
// VALIDATION
// =============================================================================

// TotalAllocated sums phase allocations, excluding the phase with excludeID
// (pass "" to exclude nothing). Recurring templates count once.
func TotalAllocated(phases []Phase, excludeID PhaseID) Hours {
	total := ZeroHours()
	for _, ph := range phases {
		if excludeID != "" && ph.ID == excludeID {
			continue
		}
		total = total.Add(ph.Allocation)
	}
	return total
}

// ValidateAllocation checks that the summed allocations fit within the
// project budget. excludeID removes one phase from the sum, for "what if this
// phase were deleted" checks.
func ValidateAllocation(phases []Phase, budget Hours, excludeID PhaseID) BudgetValidation {
	total := TotalAllocated(phases, excludeID)
	return buildValidation(total, budget)
}

// SimulateAllocation answers "what would the total be if phase changedID had
// newHours" without mutating anything. A changedID not present among the
// phases is treated as a new phase being added.
func SimulateAllocation(phases []Phase, budget Hours, changedID PhaseID, newHours Hours) BudgetValidation {
	total := TotalAllocated(phases, changedID).Add(newHours)
	return buildValidation(total, budget)
}

func buildValidation(total, budget Hours) BudgetValidation {
	overage := total.Sub(budget)
	if overage.IsNegative() {
		overage = ZeroHours()
	}
	// Utilization stays 0 for a zero budget: any allocation there is already
	// reported fully through Overage.
	utilization := decimal.Zero
	if !budget.IsZero() {
		utilization = total.Value.Div(budget.Value).Mul(decimal.NewFromInt(100))
	}
	return BudgetValidation{
		IsValid:            !total.GreaterThan(budget),
		TotalAllocated:     total,
		Overage:            overage,
		UtilizationPercent: utilization,
	}
}
