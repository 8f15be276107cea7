/*
Package drag coordinates interactive drag/resize sessions on the timeline.

PURPOSE:
  Translates pointer deltas into tentative date changes for move/resize
  operations on projects, phases, and holidays, and commits validated final
  dates on release.

STATE MACHINE:
  idle → dragging → committing → idle

  Begin   captures the entity's original dates (idle → dragging)
  Update  re-entrant on every pointer move; derives tentative dates,
          recomputes visual feedback at most once per frame, and writes
          silent provisional dates at a coarser throttle
  End     validates the final dates (overlap for holidays, window+budget
          for phases), commits on success, rolls back on failure
  Cancel  clears the session unconditionally (pointer-cancel / escape)

CONCURRENCY:
  Only one drag session is active at a time; Begin fails with ErrDragActive
  while one is in flight. Mid-drag persistence is fire-and-forget: errors
  are logged, not surfaced, because the state is provisional. The final
  commit is awaited and its failure triggers a rollback.

SEE ALSO:
  - engine/store.go: DateWriter write modes (propose vs commit)
  - engine/estimate.go, engine/layout.go: Visual recompute
*/
package drag

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/warp/timeline-engine/engine"
)

// =============================================================================
// ACTIONS AND RESULTS
// =============================================================================

type Action string

const (
	ActionMove        Action = "move"
	ActionResizeStart Action = "resize-start"
	ActionResizeEnd   Action = "resize-end"
)

// Tentative is the visual feedback for the current pointer position.
// Estimates and Layout are only populated on frame-aligned updates.
type Tentative struct {
	Range     engine.DateRange
	DayDelta  int
	Estimates []engine.DayEstimate
	Layout    *engine.RowLayout
}

// Result reports the outcome of ending a drag session.
type Result struct {
	Committed  bool
	RolledBack bool
	Final      engine.DateRange
	Reasons    []string
	Suggested  *engine.DateRange
}

// Store is what the coordinator needs from persistence: entity reads for
// validation plus the two-mode date writer.
type Store interface {
	engine.Repository
	engine.DateWriter
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Config tunes the session throttles. Zero values pick the defaults: one
// visual recompute per ~16ms frame, one silent persist per 75ms.
type Config struct {
	DayWidthPx   float64
	FramesPerSec float64
	PersistEvery time.Duration
}

// Coordinator owns the single current-drag-state slot.
type Coordinator struct {
	store     Store
	overrides *OverrideStore
	log       zerolog.Logger

	dayWidth float64
	frame    *rate.Limiter
	persist  *rate.Limiter

	mu      sync.Mutex
	session *session
}

type session struct {
	ref       engine.EntityRef
	action    Action
	original  engine.DateRange
	tentative engine.DateRange
	delta     int
}

// New builds a coordinator. The override store is injected and
// lifecycle-scoped by the caller; the coordinator never creates global state.
func New(store Store, overrides *OverrideStore, log zerolog.Logger, cfg Config) *Coordinator {
	if cfg.DayWidthPx <= 0 {
		cfg.DayWidthPx = 24
	}
	if cfg.FramesPerSec <= 0 {
		cfg.FramesPerSec = 60
	}
	if cfg.PersistEvery <= 0 {
		cfg.PersistEvery = 75 * time.Millisecond
	}
	return &Coordinator{
		store:     store,
		overrides: overrides,
		log:       log.With().Str("component", "drag").Logger(),
		dayWidth:  cfg.DayWidthPx,
		frame:     rate.NewLimiter(rate.Limit(cfg.FramesPerSec), 1),
		persist:   rate.NewLimiter(rate.Every(cfg.PersistEvery), 1),
	}
}

// Overrides exposes the injected week-scoped override store so callers can
// adjust a recurring occurrence during the session without rewriting the
// template.
func (c *Coordinator) Overrides() *OverrideStore { return c.overrides }

// =============================================================================
// BEGIN - idle → dragging
// =============================================================================

// Begin starts a drag on the referenced entity and captures its original
// dates. Fails with ErrDragActive while another session is in flight.
func (c *Coordinator) Begin(ctx context.Context, ref engine.EntityRef, action Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return engine.ErrDragActive
	}

	original, err := c.loadDates(ctx, ref)
	if err != nil {
		return err
	}
	c.session = &session{ref: ref, action: action, original: original, tentative: original}
	c.log.Debug().
		Str("kind", string(ref.Kind)).Str("id", ref.ID).Str("action", string(action)).
		Stringer("original", original).
		Msg("drag started")
	return nil
}

// =============================================================================
// UPDATE - re-entrant while dragging
// =============================================================================

// Update folds a cumulative pixel delta into tentative dates. Visual
// recompute is frame-aligned; silent persistence runs at a coarser throttle
// and its failures are logged, never surfaced.
func (c *Coordinator) Update(ctx context.Context, pixelDelta float64) (Tentative, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Tentative{}, engine.ErrNoDragSession
	}
	s := c.session
	s.delta = int(math.Round(pixelDelta / c.dayWidth))
	s.tentative = applyAction(s.original, s.action, s.delta)

	out := Tentative{Range: s.tentative, DayDelta: s.delta}
	if c.frame.Allow() {
		c.recompute(ctx, s, &out)
	}
	if c.persist.Allow() {
		if err := c.store.ProposeDates(ctx, s.ref, s.tentative); err != nil {
			// Provisional state: keep the interaction alive, keep the trace.
			c.log.Warn().Err(err).
				Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).
				Msg("silent write-through failed during drag")
		}
	}
	return out, nil
}

// applyAction derives tentative dates from the day delta, clamping resizes
// so the range never inverts.
func applyAction(original engine.DateRange, action Action, delta int) engine.DateRange {
	switch action {
	case ActionResizeStart:
		start := original.Start.AddDays(delta)
		if start.After(original.End) {
			start = original.End
		}
		return engine.DateRange{Start: start, End: original.End}
	case ActionResizeEnd:
		end := original.End.AddDays(delta)
		if end.Before(original.Start) {
			end = original.Start
		}
		return engine.DateRange{Start: original.Start, End: end}
	default:
		return original.Shift(delta)
	}
}

// recompute refreshes the visual feedback for the tentative dates: day
// estimates for the affected project and, for project drags, the group's
// row layout. Read failures degrade to date-only feedback.
func (c *Coordinator) recompute(ctx context.Context, s *session, out *Tentative) {
	switch s.ref.Kind {
	case engine.KindProject:
		project, err := c.store.GetProject(ctx, engine.ProjectID(s.ref.ID))
		if err != nil {
			return
		}
		project.Start, project.End = s.tentative.Start, s.tentative.End
		group, err := c.store.ListProjectsByGroup(ctx, project.GroupID)
		if err != nil {
			return
		}
		for i := range group {
			if group[i].ID == project.ID {
				group[i] = project
			}
		}
		layout := engine.LayoutRows(group)
		out.Layout = &layout
		out.Estimates = c.estimatesFor(ctx, project)
	case engine.KindPhase:
		ph, err := c.store.GetPhase(ctx, engine.PhaseID(s.ref.ID))
		if err != nil {
			return
		}
		project, err := c.store.GetProject(ctx, ph.ProjectID)
		if err != nil {
			return
		}
		out.Estimates = c.estimatesFor(ctx, project)
	}
}

func (c *Coordinator) estimatesFor(ctx context.Context, project engine.Project) []engine.DayEstimate {
	phases, err := c.store.FindPhasesByProject(ctx, project.ID)
	if err != nil {
		return nil
	}
	holidays, err := c.store.ListHolidays(ctx)
	if err != nil {
		return nil
	}
	events, err := c.store.ListEventsByProject(ctx, project.ID)
	if err != nil {
		return nil
	}
	week, err := c.store.GetWeeklyWorkHours(ctx)
	if err != nil {
		return nil
	}
	estimates, err := engine.ComputeDayEstimates(engine.EstimateInput{
		Project:  project,
		Phases:   phases,
		Week:     week,
		Holidays: holidays,
		Events:   events,
		Range:    project.Window(),
	})
	if err != nil {
		return nil
	}
	return c.overrides.Apply(estimates)
}

// =============================================================================
// END - dragging → committing → idle
// =============================================================================

// End validates and commits the final dates. A zero net delta commits
// nothing; a finished session makes End a no-op. On validation or commit
// failure the entity snaps back to its original dates.
func (c *Coordinator) End(ctx context.Context) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		// Second release with the same final state: nothing to do.
		return Result{}, nil
	}
	c.session = nil

	if s.delta == 0 ||
		(s.tentative.Start.Equal(s.original.Start) && s.tentative.End.Equal(s.original.End)) {
		// The persist throttle may have written an intermediate range along
		// the way; restore the original dates before going idle.
		c.rollback(ctx, s)
		return Result{Final: s.original}, nil
	}

	if reasons, suggested := c.validateFinal(ctx, s); len(reasons) > 0 {
		c.rollback(ctx, s)
		c.log.Info().
			Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).
			Strs("reasons", reasons).
			Msg("drag rejected, snapped back")
		return Result{RolledBack: true, Final: s.original, Reasons: reasons, Suggested: suggested}, nil
	}

	if err := c.store.CommitDates(ctx, s.ref, s.tentative); err != nil {
		c.rollback(ctx, s)
		c.log.Error().Err(err).
			Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).
			Msg("drag commit failed, snapped back")
		return Result{RolledBack: true, Final: s.original, Reasons: []string{"saving the new dates failed"}}, err
	}

	c.log.Info().
		Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).
		Stringer("final", s.tentative).
		Msg("drag committed")
	return Result{Committed: true, Final: s.tentative}, nil
}

// Cancel aborts the session unconditionally and undoes any silent mid-drag
// writes. Safe to call without an active session.
func (c *Coordinator) Cancel(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	c.session = nil
	if s == nil {
		return
	}
	c.rollback(ctx, s)
	c.log.Debug().Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).Msg("drag cancelled")
}

// validateFinal re-checks the invariants that a drag can break.
func (c *Coordinator) validateFinal(ctx context.Context, s *session) ([]string, *engine.DateRange) {
	switch s.ref.Kind {
	case engine.KindHoliday:
		h, err := c.store.GetHoliday(ctx, engine.HolidayID(s.ref.ID))
		if err != nil {
			return []string{"holiday no longer exists"}, nil
		}
		h.Start, h.End = s.tentative.Start, s.tentative.End
		existing, err := c.store.ListHolidays(ctx)
		if err != nil {
			return []string{"could not check holiday overlap"}, nil
		}
		// The entity itself may already carry tentative dates from silent
		// write-through; exclusion by ID handles that.
		if res := engine.ValidateHoliday(engine.NewPersisted(h), existing); !res.OK {
			return res.Reasons, res.Suggested
		}
	case engine.KindPhase:
		ph, err := c.store.GetPhase(ctx, engine.PhaseID(s.ref.ID))
		if err != nil {
			return []string{"phase no longer exists"}, nil
		}
		ph.Start, ph.End = s.tentative.Start, s.tentative.End
		project, err := c.store.GetProject(ctx, ph.ProjectID)
		if err != nil {
			return []string{"owning project no longer exists"}, nil
		}
		siblings, err := c.store.FindPhasesByProject(ctx, ph.ProjectID)
		if err != nil {
			return []string{"could not load the project's phases"}, nil
		}
		if res := engine.ValidatePhase(project, engine.NewPersisted(ph), siblings); !res.OK {
			return res.Reasons, res.Suggested
		}
		if bv := engine.SimulateAllocation(siblings, project.EstimatedHours, ph.ID, ph.Allocation); !bv.IsValid {
			return []string{"phase allocations exceed the project budget by " + bv.Overage.String() + "h"}, nil
		}
	case engine.KindProject:
		if !s.tentative.IsValid() {
			return []string{"project end date must not precede its start date"}, nil
		}
	}
	return nil, nil
}

// rollback restores the original dates after silent mid-drag writes. Uses
// the silent mode: the rollback itself is not a user-confirmed change.
func (c *Coordinator) rollback(ctx context.Context, s *session) {
	if err := c.store.ProposeDates(ctx, s.ref, s.original); err != nil {
		c.log.Error().Err(err).
			Str("kind", string(s.ref.Kind)).Str("id", s.ref.ID).
			Msg("rollback to original dates failed")
	}
}

func (c *Coordinator) loadDates(ctx context.Context, ref engine.EntityRef) (engine.DateRange, error) {
	switch ref.Kind {
	case engine.KindProject:
		p, err := c.store.GetProject(ctx, engine.ProjectID(ref.ID))
		if err != nil {
			return engine.DateRange{}, err
		}
		return engine.DateRange{Start: p.Start, End: p.End}, nil
	case engine.KindPhase:
		ph, err := c.store.GetPhase(ctx, engine.PhaseID(ref.ID))
		if err != nil {
			return engine.DateRange{}, err
		}
		return ph.Window(), nil
	case engine.KindHoliday:
		h, err := c.store.GetHoliday(ctx, engine.HolidayID(ref.ID))
		if err != nil {
			return engine.DateRange{}, err
		}
		return h.Window(), nil
	}
	return engine.DateRange{}, engine.ErrInvalidInput
}
