/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the engine's Repository and DateWriter contracts plus the
  change-notification source using SQLite. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.Repository:   CRUD for projects, phases, holidays, events, settings
  engine.DateWriter:   Silent proposals and confirmed commits of date ranges
  engine.ChangeSource: Best-effort, unordered change notifications

KEY TABLES:
  projects:         Plans with hour budgets and group membership
  phases:           Sub-intervals, recurrence config stored as tagged JSON
  holidays:         Closed non-working intervals
  events:           Concrete timed calendar blocks
  settings:         Weekly work-hours calendar (single row, JSON)
  layout_snapshots: Persisted per-group row assignments (maintenance job)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/timeline.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/timeline-engine/engine"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[int]chan<- engine.ChangeEvent
	next int
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, subs: make(map[int]chan<- engine.ChangeEvent)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		continuous INTEGER NOT NULL DEFAULT 0,
		estimated_hours TEXT NOT NULL,
		group_id TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_group ON projects(group_id);

	CREATE TABLE IF NOT EXISTS phases (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		allocation_hours TEXT NOT NULL,
		phase_order INTEGER NOT NULL DEFAULT 0,
		recurrence_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_start ON holidays(start_date);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS layout_snapshots (
		group_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (group_id, project_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func storageErr(op string, err error) error {
	return &engine.StorageError{Op: op, Err: err}
}

func (s *Store) notify(ev engine.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a change listener; the returned cancel removes it.
func (s *Store) Subscribe(ch chan<- engine.ChangeEvent) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = ch
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// =============================================================================
// JSON CODECS - Recurrence config and weekly work hours
// =============================================================================

type recurrenceJSON struct {
	Kind        string      `json:"kind"`
	Interval    int         `json:"interval"`
	Weekday     int         `json:"weekday,omitempty"`
	DayOfMonth  int         `json:"day_of_month,omitempty"`
	WeekOfMonth int         `json:"week_of_month,omitempty"`
	Occurrences []rangeJSON `json:"occurrences,omitempty"`
}

type rangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func marshalRecurrence(cfg *engine.RecurrenceConfig) (sql.NullString, error) {
	if cfg == nil {
		return sql.NullString{}, nil
	}
	var rj recurrenceJSON
	switch p := cfg.Pattern.(type) {
	case engine.Daily:
		rj = recurrenceJSON{Kind: "daily", Interval: p.IntervalDays}
	case engine.Weekly:
		rj = recurrenceJSON{Kind: "weekly", Interval: p.IntervalWeeks, Weekday: int(p.Weekday)}
	case engine.MonthlyByDate:
		rj = recurrenceJSON{Kind: "monthly_by_date", Interval: p.IntervalMonths, DayOfMonth: p.DayOfMonth}
	case engine.MonthlyByWeekday:
		rj = recurrenceJSON{Kind: "monthly_by_weekday", Interval: p.IntervalMonths,
			WeekOfMonth: p.WeekOfMonth, Weekday: int(p.Weekday)}
	default:
		return sql.NullString{}, fmt.Errorf("%w: unknown pattern type", engine.ErrInvalidRecurrence)
	}
	for _, occ := range cfg.Precomputed {
		rj.Occurrences = append(rj.Occurrences, rangeJSON{Start: occ.Start.String(), End: occ.End.String()})
	}
	raw, err := json.Marshal(rj)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalRecurrence(raw sql.NullString) (*engine.RecurrenceConfig, error) {
	if !raw.Valid {
		return nil, nil
	}
	var rj recurrenceJSON
	if err := json.Unmarshal([]byte(raw.String), &rj); err != nil {
		return nil, err
	}
	cfg := &engine.RecurrenceConfig{}
	switch rj.Kind {
	case "daily":
		cfg.Pattern = engine.Daily{IntervalDays: rj.Interval}
	case "weekly":
		cfg.Pattern = engine.Weekly{IntervalWeeks: rj.Interval, Weekday: time.Weekday(rj.Weekday)}
	case "monthly_by_date":
		cfg.Pattern = engine.MonthlyByDate{IntervalMonths: rj.Interval, DayOfMonth: rj.DayOfMonth}
	case "monthly_by_weekday":
		cfg.Pattern = engine.MonthlyByWeekday{IntervalMonths: rj.Interval,
			WeekOfMonth: rj.WeekOfMonth, Weekday: time.Weekday(rj.Weekday)}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", engine.ErrInvalidRecurrence, rj.Kind)
	}
	for _, occ := range rj.Occurrences {
		start, err := engine.ParseDate(occ.Start)
		if err != nil {
			return nil, err
		}
		end, err := engine.ParseDate(occ.End)
		if err != nil {
			return nil, err
		}
		cfg.Precomputed = append(cfg.Precomputed, engine.DateRange{Start: start, End: end})
	}
	return cfg, nil
}

type slotJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func marshalWeek(week engine.WeeklyWorkHours) (string, error) {
	wj := make(map[string][]slotJSON, len(week))
	for wd, slots := range week {
		key := fmt.Sprintf("%d", int(wd))
		for _, slot := range slots {
			wj[key] = append(wj[key], slotJSON{Start: slot.Start.String(), End: slot.End.String()})
		}
	}
	raw, err := json.Marshal(wj)
	return string(raw), err
}

func unmarshalWeek(raw string) (engine.WeeklyWorkHours, error) {
	var wj map[string][]slotJSON
	if err := json.Unmarshal([]byte(raw), &wj); err != nil {
		return nil, err
	}
	week := engine.WeeklyWorkHours{}
	for key, slots := range wj {
		var wd int
		if _, err := fmt.Sscanf(key, "%d", &wd); err != nil {
			return nil, err
		}
		for _, slot := range slots {
			start, err := engine.ParseClock(slot.Start)
			if err != nil {
				return nil, err
			}
			end, err := engine.ParseClock(slot.End)
			if err != nil {
				return nil, err
			}
			week[time.Weekday(wd)] = append(week[time.Weekday(wd)], engine.TimeSlot{Start: start, End: end})
		}
	}
	return week, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) CreateProject(ctx context.Context, p engine.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, start_date, end_date, continuous, estimated_hours, group_id, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Start.String(), p.End.String(), boolToInt(p.Continuous),
		p.EstimatedHours.String(), p.GroupID, p.Color, nowStamp())
	if err != nil {
		return storageErr("create project", err)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(p.ID), Op: engine.OpCreated})
	return nil
}

func (s *Store) GetProject(ctx context.Context, id engine.ProjectID) (engine.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, continuous, estimated_hours, group_id, color
		FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (s *Store) UpdateProject(ctx context.Context, p engine.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, start_date = ?, end_date = ?, continuous = ?,
			estimated_hours = ?, group_id = ?, color = ? WHERE id = ?`,
		p.Name, p.Start.String(), p.End.String(), boolToInt(p.Continuous),
		p.EstimatedHours.String(), p.GroupID, p.Color, p.ID)
	if err != nil {
		return storageErr("update project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", p.ID, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(p.ID), Op: engine.OpUpdated})
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id engine.ProjectID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (s *Store) ListProjectsByGroup(ctx context.Context, group engine.GroupID) ([]engine.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_date, end_date, continuous, estimated_hours, group_id, color
		FROM projects WHERE group_id = ? ORDER BY start_date, id`, group)
	if err != nil {
		return nil, storageErr("list projects", err)
	}
	defer rows.Close()

	var out []engine.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListGroups(ctx context.Context) ([]engine.GroupID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT group_id FROM projects ORDER BY group_id`)
	if err != nil {
		return nil, storageErr("list groups", err)
	}
	defer rows.Close()

	var out []engine.GroupID
	for rows.Next() {
		var g engine.GroupID
		if err := rows.Scan(&g); err != nil {
			return nil, storageErr("scan group", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (engine.Project, error) {
	var p engine.Project
	var start, end, hours string
	var continuous int
	err := row.Scan(&p.ID, &p.Name, &start, &end, &continuous, &hours, &p.GroupID, &p.Color)
	if err == sql.ErrNoRows {
		return engine.Project{}, fmt.Errorf("project: %w", engine.ErrNotFound)
	}
	if err != nil {
		return engine.Project{}, storageErr("scan project", err)
	}
	if p.Start, err = engine.ParseDate(start); err != nil {
		return engine.Project{}, err
	}
	if p.End, err = engine.ParseDate(end); err != nil {
		return engine.Project{}, err
	}
	p.Continuous = continuous != 0
	p.EstimatedHours, err = parseHours(hours)
	return p, err
}

// =============================================================================
// PHASES
// =============================================================================

func (s *Store) CreatePhase(ctx context.Context, ph engine.Phase) error {
	rec, err := marshalRecurrence(ph.Recurring)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO phases (id, project_id, name, start_date, end_date, allocation_hours, phase_order, recurrence_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ph.ID, ph.ProjectID, ph.Name, ph.Start.String(), ph.End.String(),
		ph.Allocation.String(), ph.Order, rec, nowStamp())
	if err != nil {
		return storageErr("create phase", err)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(ph.ID), Op: engine.OpCreated})
	return nil
}

func (s *Store) GetPhase(ctx context.Context, id engine.PhaseID) (engine.Phase, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, start_date, end_date, allocation_hours, phase_order, recurrence_json
		FROM phases WHERE id = ?`, id)
	return scanPhase(row)
}

func (s *Store) UpdatePhase(ctx context.Context, ph engine.Phase) error {
	rec, err := marshalRecurrence(ph.Recurring)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE phases SET project_id = ?, name = ?, start_date = ?, end_date = ?,
			allocation_hours = ?, phase_order = ?, recurrence_json = ? WHERE id = ?`,
		ph.ProjectID, ph.Name, ph.Start.String(), ph.End.String(),
		ph.Allocation.String(), ph.Order, rec, ph.ID)
	if err != nil {
		return storageErr("update phase", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("phase %s: %w", ph.ID, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(ph.ID), Op: engine.OpUpdated})
	return nil
}

func (s *Store) DeletePhase(ctx context.Context, id engine.PhaseID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM phases WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete phase", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("phase %s: %w", id, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (s *Store) FindPhasesByProject(ctx context.Context, project engine.ProjectID) ([]engine.Phase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, start_date, end_date, allocation_hours, phase_order, recurrence_json
		FROM phases WHERE project_id = ? ORDER BY phase_order, start_date, id`, project)
	if err != nil {
		return nil, storageErr("find phases", err)
	}
	defer rows.Close()

	var out []engine.Phase
	for rows.Next() {
		ph, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ph)
	}
	return out, rows.Err()
}

func scanPhase(row rowScanner) (engine.Phase, error) {
	var ph engine.Phase
	var start, end, hours string
	var rec sql.NullString
	err := row.Scan(&ph.ID, &ph.ProjectID, &ph.Name, &start, &end, &hours, &ph.Order, &rec)
	if err == sql.ErrNoRows {
		return engine.Phase{}, fmt.Errorf("phase: %w", engine.ErrNotFound)
	}
	if err != nil {
		return engine.Phase{}, storageErr("scan phase", err)
	}
	if ph.Start, err = engine.ParseDate(start); err != nil {
		return engine.Phase{}, err
	}
	if ph.End, err = engine.ParseDate(end); err != nil {
		return engine.Phase{}, err
	}
	if ph.Allocation, err = parseHours(hours); err != nil {
		return engine.Phase{}, err
	}
	ph.Recurring, err = unmarshalRecurrence(rec)
	return ph, err
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) CreateHoliday(ctx context.Context, h engine.Holiday) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, title, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Title, h.Start.String(), h.End.String(), nowStamp())
	if err != nil {
		return storageErr("create holiday", err)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(h.ID), Op: engine.OpCreated})
	return nil
}

func (s *Store) GetHoliday(ctx context.Context, id engine.HolidayID) (engine.Holiday, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, start_date, end_date FROM holidays WHERE id = ?`, id)
	return scanHoliday(row)
}

func (s *Store) UpdateHoliday(ctx context.Context, h engine.Holiday) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE holidays SET title = ?, start_date = ?, end_date = ? WHERE id = ?`,
		h.Title, h.Start.String(), h.End.String(), h.ID)
	if err != nil {
		return storageErr("update holiday", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", h.ID, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(h.ID), Op: engine.OpUpdated})
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, id engine.HolidayID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete holiday", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", id, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start_date, end_date FROM holidays ORDER BY start_date, id`)
	if err != nil {
		return nil, storageErr("list holidays", err)
	}
	defer rows.Close()

	var out []engine.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanHoliday(row rowScanner) (engine.Holiday, error) {
	var h engine.Holiday
	var start, end string
	err := row.Scan(&h.ID, &h.Title, &start, &end)
	if err == sql.ErrNoRows {
		return engine.Holiday{}, fmt.Errorf("holiday: %w", engine.ErrNotFound)
	}
	if err != nil {
		return engine.Holiday{}, storageErr("scan holiday", err)
	}
	if h.Start, err = engine.ParseDate(start); err != nil {
		return engine.Holiday{}, err
	}
	h.End, err = engine.ParseDate(end)
	return h, err
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) CreateEvent(ctx context.Context, e engine.CalendarEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, project_id, start_time, end_time, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProjectID, e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
		boolToInt(e.Completed), nowStamp())
	if err != nil {
		return storageErr("create event", err)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindEvent, ID: string(e.ID), Op: engine.OpCreated})
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id engine.EventID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, engine.ErrNotFound)
	}
	s.notify(engine.ChangeEvent{Kind: engine.KindEvent, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (s *Store) ListEventsByProject(ctx context.Context, project engine.ProjectID) ([]engine.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, start_time, end_time, completed
		FROM events WHERE project_id = ? OR project_id = '' ORDER BY start_time, id`, project)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer rows.Close()

	var out []engine.CalendarEvent
	for rows.Next() {
		var e engine.CalendarEvent
		var start, end string
		var completed int
		if err := rows.Scan(&e.ID, &e.ProjectID, &start, &end, &completed); err != nil {
			return nil, storageErr("scan event", err)
		}
		if e.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, storageErr("parse event start", err)
		}
		if e.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, storageErr("parse event end", err)
		}
		e.Completed = completed != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

const weekSettingsKey = "weekly_work_hours"

func (s *Store) GetWeeklyWorkHours(ctx context.Context) (engine.WeeklyWorkHours, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value_json FROM settings WHERE key = ?`, weekSettingsKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return engine.DefaultWeeklyWorkHours(), nil
	}
	if err != nil {
		return nil, storageErr("get settings", err)
	}
	return unmarshalWeek(raw)
}

func (s *Store) SaveWeeklyWorkHours(ctx context.Context, week engine.WeeklyWorkHours) error {
	raw, err := marshalWeek(week)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at`,
		weekSettingsKey, raw, nowStamp())
	if err != nil {
		return storageErr("save settings", err)
	}
	return nil
}

// =============================================================================
// DATE WRITER - Propose (silent) vs Commit (notified)
// =============================================================================

func (s *Store) ProposeDates(ctx context.Context, ref engine.EntityRef, r engine.DateRange) error {
	return s.writeDates(ctx, ref, r, false)
}

func (s *Store) CommitDates(ctx context.Context, ref engine.EntityRef, r engine.DateRange) error {
	return s.writeDates(ctx, ref, r, true)
}

func (s *Store) writeDates(ctx context.Context, ref engine.EntityRef, r engine.DateRange, confirm bool) error {
	var table string
	switch ref.Kind {
	case engine.KindProject:
		table = "projects"
	case engine.KindPhase:
		table = "phases"
	case engine.KindHoliday:
		table = "holidays"
	default:
		return fmt.Errorf("%w: cannot write dates for entity kind %q", engine.ErrInvalidInput, ref.Kind)
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET start_date = ?, end_date = ? WHERE id = ?`, table),
		r.Start.String(), r.End.String(), ref.ID)
	if err != nil {
		return storageErr("write dates", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", ref.Kind, ref.ID, engine.ErrNotFound)
	}
	if confirm {
		s.notify(engine.ChangeEvent{Kind: ref.Kind, ID: ref.ID, Op: engine.OpUpdated})
	}
	return nil
}

// =============================================================================
// LAYOUT SNAPSHOTS - Maintenance job output
// =============================================================================

// SaveLayoutSnapshot replaces the persisted row assignment for a group.
func (s *Store) SaveLayoutSnapshot(ctx context.Context, group engine.GroupID, layout engine.RowLayout) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin layout snapshot", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_snapshots WHERE group_id = ?`, group); err != nil {
		return storageErr("clear layout snapshot", err)
	}
	now := nowStamp()
	for projectID, row := range layout.Rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO layout_snapshots (group_id, project_id, row_index, computed_at)
			VALUES (?, ?, ?, ?)`, group, projectID, row, now); err != nil {
			return storageErr("insert layout snapshot", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit layout snapshot", err)
	}
	return nil
}

// GetLayoutSnapshot loads the persisted row assignment for a group.
func (s *Store) GetLayoutSnapshot(ctx context.Context, group engine.GroupID) (map[engine.ProjectID]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, row_index FROM layout_snapshots WHERE group_id = ?`, group)
	if err != nil {
		return nil, storageErr("get layout snapshot", err)
	}
	defer rows.Close()

	out := map[engine.ProjectID]int{}
	for rows.Next() {
		var id engine.ProjectID
		var row int
		if err := rows.Scan(&id, &row); err != nil {
			return nil, storageErr("scan layout snapshot", err)
		}
		out[id] = row
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseHours(raw string) (engine.Hours, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return engine.Hours{}, storageErr("parse hours", err)
	}
	return engine.Hours{Value: d}, nil
}
