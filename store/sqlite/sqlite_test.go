/*
sqlite_test.go - SQLite store tests

Runs against an in-memory database. Focus is on what the SQL layer adds
over the domain contracts: column codecs, cascading deletes, and the
snapshot table used by the maintenance job.
*/
package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeline-engine/engine"
	"github.com/warp/timeline-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) engine.Date {
	return engine.NewDate(2025, time.January, d)
}

func seedProject(t *testing.T, s *sqlite.Store, id string) engine.Project {
	t.Helper()
	p := engine.Project{
		ID:             engine.ProjectID(id),
		Name:           "release",
		Start:          day(6),
		End:            day(17),
		EstimatedHours: engine.NewHours(50),
		GroupID:        "g1",
		Color:          "#3b82f6",
	}
	require.NoError(t, s.CreateProject(context.Background(), p))
	return p
}

func TestSQLite_ProjectRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedProject(t, s, "p1")

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Start, got.Start)
	assert.True(t, p.EstimatedHours.Equal(got.EstimatedHours))
	assert.Equal(t, p.Color, got.Color)

	p.Name = "release v2"
	require.NoError(t, s.UpdateProject(ctx, p))

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	assert.ErrorIs(t, s.UpdateProject(ctx, p), engine.ErrNotFound)
}

func TestSQLite_PhaseRecurrenceRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedProject(t, s, "p1")

	ph := engine.Phase{
		ID: "rec", ProjectID: "p1", Name: "standup",
		Start: day(6), End: day(6),
		Allocation: engine.NewHours(8),
		Recurring: &engine.RecurrenceConfig{
			Pattern: engine.Weekly{IntervalWeeks: 2, Weekday: time.Monday},
			Precomputed: []engine.DateRange{
				{Start: day(6), End: day(6)},
				{Start: day(20), End: day(20)},
			},
		},
	}
	require.NoError(t, s.CreatePhase(ctx, ph))

	got, err := s.GetPhase(ctx, "rec")
	require.NoError(t, err)
	require.NotNil(t, got.Recurring)
	assert.Equal(t, engine.Weekly{IntervalWeeks: 2, Weekday: time.Monday}, got.Recurring.Pattern)
	require.Len(t, got.Recurring.Precomputed, 2)
	assert.Equal(t, day(20), got.Recurring.Precomputed[1].Start)

	// Plain phases come back without a config.
	plain := engine.Phase{
		ID: "plain", ProjectID: "p1",
		Start: day(8), End: day(10),
		Allocation: engine.NewHours(10),
	}
	require.NoError(t, s.CreatePhase(ctx, plain))
	got, err = s.GetPhase(ctx, "plain")
	require.NoError(t, err)
	assert.Nil(t, got.Recurring)
}

func TestSQLite_DeleteProjectCascadesPhases(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedProject(t, s, "p1")
	require.NoError(t, s.CreatePhase(ctx, engine.Phase{
		ID: "ph1", ProjectID: "p1",
		Start: day(6), End: day(10),
		Allocation: engine.NewHours(10),
	}))

	require.NoError(t, s.DeleteProject(ctx, "p1"))

	_, err := s.GetPhase(ctx, "ph1")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestSQLite_EventsIncludeUnattached(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	start := time.Date(2025, time.January, 7, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateEvent(ctx, engine.CalendarEvent{
		ID: "e1", ProjectID: "p1", Start: start, End: start.Add(3 * time.Hour), Completed: true,
	}))
	require.NoError(t, s.CreateEvent(ctx, engine.CalendarEvent{
		ID: "e2", Start: start.Add(24 * time.Hour), End: start.Add(27 * time.Hour),
	}))
	require.NoError(t, s.CreateEvent(ctx, engine.CalendarEvent{
		ID: "e3", ProjectID: "p-other", Start: start, End: start.Add(time.Hour),
	}))

	events, err := s.ListEventsByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, start, events[0].Start)
	assert.True(t, events[0].Completed)
}

func TestSQLite_WeeklyWorkHoursRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// Unset: the built-in default week.
	week, err := s.GetWeeklyWorkHours(ctx)
	require.NoError(t, err)
	assert.True(t, week.IsWorkingWeekday(time.Monday))
	assert.False(t, week.IsWorkingWeekday(time.Saturday))

	custom := engine.WeeklyWorkHours{
		time.Monday: {
			{Start: engine.ClockTime{Hour: 8}, End: engine.ClockTime{Hour: 12}},
			{Start: engine.ClockTime{Hour: 13}, End: engine.ClockTime{Hour: 16, Minute: 30}},
		},
	}
	require.NoError(t, s.SaveWeeklyWorkHours(ctx, custom))

	got, err := s.GetWeeklyWorkHours(ctx)
	require.NoError(t, err)
	require.Len(t, got[time.Monday], 2)
	assert.Equal(t, engine.ClockTime{Hour: 16, Minute: 30}, got[time.Monday][1].End)
	assert.False(t, got.IsWorkingWeekday(time.Tuesday))

	// Saving again overwrites the single settings row.
	require.NoError(t, s.SaveWeeklyWorkHours(ctx, engine.DefaultWeeklyWorkHours()))
	got, err = s.GetWeeklyWorkHours(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsWorkingWeekday(time.Tuesday))
}

func TestSQLite_ProposeIsSilentCommitNotifies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedProject(t, s, "p1")

	ch := make(chan engine.ChangeEvent, 16)
	cancel := s.Subscribe(ch)
	defer cancel()

	ref := engine.EntityRef{Kind: engine.KindProject, ID: string(p.ID)}
	shifted := engine.DateRange{Start: day(8), End: day(19)}

	require.NoError(t, s.ProposeDates(ctx, ref, shifted))
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, day(8), got.Start)
	assert.Empty(t, drainEvents(ch))

	require.NoError(t, s.CommitDates(ctx, ref, shifted))
	events := drainEvents(ch)
	require.Len(t, events, 1)
	assert.Equal(t, engine.OpUpdated, events[0].Op)

	err = s.ProposeDates(ctx, engine.EntityRef{Kind: engine.KindEvent, ID: "e1"}, shifted)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestSQLite_LayoutSnapshotReplacesPerGroup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveLayoutSnapshot(ctx, "g1", engine.RowLayout{
		Rows:     map[engine.ProjectID]int{"p1": 0, "p2": 1},
		RowCount: 2,
	}))
	require.NoError(t, s.SaveLayoutSnapshot(ctx, "g1", engine.RowLayout{
		Rows:     map[engine.ProjectID]int{"p1": 0},
		RowCount: 1,
	}))

	got, err := s.GetLayoutSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, map[engine.ProjectID]int{"p1": 0}, got)

	empty, err := s.GetLayoutSnapshot(ctx, "g-empty")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func drainEvents(ch chan engine.ChangeEvent) []engine.ChangeEvent {
	var events []engine.ChangeEvent
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}
