/*
scheduler.go - Background maintenance job

PURPOSE:
  Runs periodic housekeeping on a cron schedule:
  1. Recompute and persist the row layout snapshot for every group, so
     clients get a warm first paint without computing layout themselves.
  2. Prune week-scoped recurring-occurrence overrides whose week has long
     passed; they can never affect a visible estimate again.

SCHEDULING:
  Uses robfig/cron with a standard 5-field cron expression from config.
  RunNow executes one maintenance pass synchronously, for startup warmup
  and for tests.

SEE ALSO:
  - store/sqlite/sqlite.go: Layout snapshot persistence
  - drag/override.go: Override pruning
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/warp/timeline-engine/drag"
	"github.com/warp/timeline-engine/engine"
)

// SnapshotStore persists precomputed row layouts. The in-memory store does
// not implement it; snapshots are skipped when it is nil.
type SnapshotStore interface {
	SaveLayoutSnapshot(ctx context.Context, group engine.GroupID, layout engine.RowLayout) error
}

// MaintenanceScheduler runs the periodic maintenance pass.
type MaintenanceScheduler struct {
	store     drag.Store
	snapshots SnapshotStore
	overrides *drag.OverrideStore
	log       zerolog.Logger

	retainDays int
	cron       *cron.Cron
}

// NewMaintenanceScheduler builds the scheduler. snapshots may be nil.
func NewMaintenanceScheduler(store drag.Store, snapshots SnapshotStore, overrides *drag.OverrideStore,
	retainDays int, log zerolog.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		store:      store,
		snapshots:  snapshots,
		overrides:  overrides,
		log:        log.With().Str("component", "maintenance").Logger(),
		retainDays: retainDays,
	}
}

// Start schedules the maintenance pass with the given cron expression.
func (m *MaintenanceScheduler) Start(spec string) error {
	m.cron = cron.New()
	if _, err := m.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		m.RunNow(ctx)
	}); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info().Str("schedule", spec).Msg("maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (m *MaintenanceScheduler) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

// RunNow executes one maintenance pass synchronously.
func (m *MaintenanceScheduler) RunNow(ctx context.Context) {
	start := time.Now()
	groups := m.refreshLayouts(ctx)
	dropped := 0
	if m.overrides != nil {
		cutoff := engine.DateOf(time.Now()).AddDays(-m.retainDays)
		dropped = m.overrides.PruneBefore(cutoff)
	}
	m.log.Info().
		Int("groups", groups).
		Int("overrides_pruned", dropped).
		Dur("took", time.Since(start)).
		Msg("maintenance pass complete")
}

// refreshLayouts recomputes and persists the row layout for every group.
// Returns the number of groups processed.
func (m *MaintenanceScheduler) refreshLayouts(ctx context.Context) int {
	groups, err := m.store.ListGroups(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to list groups")
		return 0
	}
	processed := 0
	for _, group := range groups {
		projects, err := m.store.ListProjectsByGroup(ctx, group)
		if err != nil {
			m.log.Error().Err(err).Str("group", string(group)).Msg("failed to list projects")
			continue
		}
		layout := engine.LayoutRows(projects)
		if m.snapshots != nil {
			if err := m.snapshots.SaveLayoutSnapshot(ctx, group, layout); err != nil {
				m.log.Error().Err(err).Str("group", string(group)).Msg("failed to save layout snapshot")
				continue
			}
		}
		processed++
	}
	return processed
}
