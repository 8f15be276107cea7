/*
Package engine provides the timeline planning core.

PURPOSE:
  This package contains the types and algorithms for planning projects
  against calendar time: distributing an hour budget over working days,
  expanding recurring phases into concrete occurrences, validating phase
  allocations against a project budget, and packing overlapping projects
  into non-overlapping visual rows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: An hour quantity backed by decimal.Decimal
  - Project: A date-bounded (or continuous) plan with an hour budget
  - Phase: A sub-interval with its own allocation, optionally recurring
  - Holiday: A non-working closed date interval
  - CalendarEvent: A concrete timed block that overrides estimates
  - DayEstimate: The derived per-day hour value (never persisted)

DESIGN PRINCIPLES:
  1. Determinism: identical inputs always produce identical estimates
  2. Precision: decimal.Decimal everywhere, no float drift in sums
  3. Type safety: distinct ID types for each entity kind
  4. Purity: the engine computes and proposes; it never owns persistence

SEE ALSO:
  - estimate.go: Day estimate computation
  - recurrence.go: Recurring phase expansion
  - budget.go: Allocation validation
  - layout.go: Visual row packing
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Hour quantity with decimal precision
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(v float64) Hours       { return Hours{Value: decimal.NewFromFloat(v)} }
func NewHoursFromInt(v int) Hours    { return Hours{Value: decimal.NewFromInt(int64(v))} }
func ZeroHours() Hours               { return Hours{Value: decimal.Zero} }

func (h Hours) Add(o Hours) Hours          { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours          { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Div(n int) Hours            { return Hours{Value: h.Value.Div(decimal.NewFromInt(int64(n)))} }
func (h Hours) IsZero() bool               { return h.Value.IsZero() }
func (h Hours) IsNegative() bool           { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool           { return h.Value.IsPositive() }
func (h Hours) GreaterThan(o Hours) bool   { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool      { return h.Value.LessThan(o.Value) }
func (h Hours) Equal(o Hours) bool         { return h.Value.Equal(o.Value) }
func (h Hours) Float64() float64           { f, _ := h.Value.Float64(); return f }
func (h Hours) String() string             { return h.Value.String() }

// Truncate rounds toward zero to two decimal places. Used for per-day
// spreads; the last working day absorbs the remainder.
func (h Hours) Truncate() Hours { return Hours{Value: h.Value.Truncate(2)} }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProjectID string
type PhaseID string
type HolidayID string
type EventID string
type GroupID string

// =============================================================================
// PROJECT
// =============================================================================

// DefaultHorizonDays caps open-ended sequences for continuous projects: a
// synthetic far-future end keeps iteration finite even though the project is
// conceptually unbounded.
const DefaultHorizonDays = 365

// Project is a plan with an hour budget to distribute over working days.
// End is ignored when Continuous is set; layout and estimation use a
// synthetic horizon instead.
type Project struct {
	ID             ProjectID
	Name           string
	Start          Date
	End            Date
	Continuous     bool
	EstimatedHours Hours
	GroupID        GroupID
	Color          string
}

// Window returns the project's effective date range. Continuous projects get
// a synthetic end DefaultHorizonDays past their start.
func (p Project) Window() DateRange {
	if p.Continuous {
		return DateRange{Start: p.Start, End: p.Start.AddDays(DefaultHorizonDays)}
	}
	return DateRange{Start: p.Start, End: p.End}
}

// =============================================================================
// PHASE - Sub-interval with its own allocation (a.k.a. milestone)
// =============================================================================

// Phase is a sub-interval of a project with its own hour allocation.
// A phase with a non-nil Recurring config is a recurring template: a single
// record implying many occurrences. Recurring templates and plain ("split")
// phases are mutually exclusive on the same project.
type Phase struct {
	ID         PhaseID
	ProjectID  ProjectID
	Name       string
	Start      Date
	End        Date
	Allocation Hours
	Order      int
	Recurring  *RecurrenceConfig
}

func (ph Phase) IsRecurring() bool { return ph.Recurring != nil }

func (ph Phase) Window() DateRange { return DateRange{Start: ph.Start, End: ph.End} }

// =============================================================================
// HOLIDAY
// =============================================================================

// Holiday is a closed, non-working date interval. No two holidays for the
// same user may overlap.
type Holiday struct {
	ID    HolidayID
	Title string
	Start Date
	End   Date
}

func (h Holiday) Window() DateRange { return DateRange{Start: h.Start, End: h.End} }

// =============================================================================
// CALENDAR EVENT - Concrete timed block
// =============================================================================

// CalendarEvent is an explicitly scheduled block. Events always take priority
// over phase allocations and auto-estimates for the dates they cover.
type CalendarEvent struct {
	ID        EventID
	ProjectID ProjectID // empty when unattached
	Start     time.Time
	End       time.Time
	Completed bool
}

// HoursOnDay returns the event duration overlapping the given calendar day.
func (e CalendarEvent) HoursOnDay(d Date) Hours {
	dayStart := d.Time
	dayEnd := dayStart.Add(24 * time.Hour)
	start := e.Start
	if start.Before(dayStart) {
		start = dayStart
	}
	end := e.End
	if end.After(dayEnd) {
		end = dayEnd
	}
	if !end.After(start) {
		return ZeroHours()
	}
	mins := int64(end.Sub(start).Minutes())
	return Hours{Value: decimal.NewFromInt(mins).Div(decimal.NewFromInt(60))}
}

// =============================================================================
// DAY ESTIMATE - Derived per-day hour value (never persisted)
// =============================================================================

type EstimateSource string

const (
	SourceEvent        EstimateSource = "event"
	SourceAllocation   EstimateSource = "milestone-allocation"
	SourceAutoEstimate EstimateSource = "project-auto-estimate"
)

// DayEstimate is one hour value for one (date, source) pair. Recomputed on
// demand whenever any input changes.
type DayEstimate struct {
	Date             Date
	Hours            Hours
	Source           EstimateSource
	IsPlannedEvent   bool
	IsCompletedEvent bool
}

// =============================================================================
// CANDIDATE - Draft vs persisted entities
// =============================================================================

// Candidate wraps an entity that may not have been saved yet. Validation
// logic operates uniformly over drafts and persisted entities; the only
// difference is that a persisted entity is excluded from conflict checks
// against itself.
type Candidate[T any] struct {
	Value T
	Draft bool
}

func NewDraft[T any](v T) Candidate[T]     { return Candidate[T]{Value: v, Draft: true} }
func NewPersisted[T any](v T) Candidate[T] { return Candidate[T]{Value: v} }
