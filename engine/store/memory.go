// Package store provides Repository implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/timeline-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	projects map[engine.ProjectID]engine.Project
	phases   map[engine.PhaseID]engine.Phase
	holidays map[engine.HolidayID]engine.Holiday
	events   map[engine.EventID]engine.CalendarEvent
	week     engine.WeeklyWorkHours

	subs map[int]chan<- engine.ChangeEvent
	next int
}

func NewMemory() *Memory {
	return &Memory{
		projects: make(map[engine.ProjectID]engine.Project),
		phases:   make(map[engine.PhaseID]engine.Phase),
		holidays: make(map[engine.HolidayID]engine.Holiday),
		events:   make(map[engine.EventID]engine.CalendarEvent),
		week:     engine.DefaultWeeklyWorkHours(),
		subs:     make(map[int]chan<- engine.ChangeEvent),
	}
}

// notify delivers a change event to every subscriber without blocking a
// slow consumer. Delivery is best-effort at-least-once; readers must treat
// the repository as authoritative.
func (m *Memory) notify(ev engine.ChangeEvent) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a change listener. The returned cancel removes it.
func (m *Memory) Subscribe(ch chan<- engine.ChangeEvent) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.subs[id] = ch
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// =============================================================================
// PROJECTS
// =============================================================================

func (m *Memory) CreateProject(_ context.Context, p engine.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	m.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(p.ID), Op: engine.OpCreated})
	return nil
}

func (m *Memory) GetProject(_ context.Context, id engine.ProjectID) (engine.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return engine.Project{}, fmt.Errorf("project %s: %w", id, engine.ErrNotFound)
	}
	return p, nil
}

func (m *Memory) UpdateProject(_ context.Context, p engine.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return fmt.Errorf("project %s: %w", p.ID, engine.ErrNotFound)
	}
	m.projects[p.ID] = p
	m.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(p.ID), Op: engine.OpUpdated})
	return nil
}

// DeleteProject removes the project and cascades to its phases.
func (m *Memory) DeleteProject(_ context.Context, id engine.ProjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, engine.ErrNotFound)
	}
	delete(m.projects, id)
	for phID, ph := range m.phases {
		if ph.ProjectID == id {
			delete(m.phases, phID)
		}
	}
	m.notify(engine.ChangeEvent{Kind: engine.KindProject, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (m *Memory) ListProjectsByGroup(_ context.Context, group engine.GroupID) ([]engine.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Project
	for _, p := range m.projects {
		if p.GroupID == group {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) ListGroups(_ context.Context) ([]engine.GroupID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[engine.GroupID]bool{}
	var out []engine.GroupID
	for _, p := range m.projects {
		if !seen[p.GroupID] {
			seen[p.GroupID] = true
			out = append(out, p.GroupID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// =============================================================================
// PHASES
// =============================================================================

func (m *Memory) CreatePhase(_ context.Context, ph engine.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases[ph.ID] = ph
	m.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(ph.ID), Op: engine.OpCreated})
	return nil
}

func (m *Memory) GetPhase(_ context.Context, id engine.PhaseID) (engine.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ph, ok := m.phases[id]
	if !ok {
		return engine.Phase{}, fmt.Errorf("phase %s: %w", id, engine.ErrNotFound)
	}
	return ph, nil
}

func (m *Memory) UpdatePhase(_ context.Context, ph engine.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.phases[ph.ID]; !ok {
		return fmt.Errorf("phase %s: %w", ph.ID, engine.ErrNotFound)
	}
	m.phases[ph.ID] = ph
	m.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(ph.ID), Op: engine.OpUpdated})
	return nil
}

func (m *Memory) DeletePhase(_ context.Context, id engine.PhaseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.phases[id]; !ok {
		return fmt.Errorf("phase %s: %w", id, engine.ErrNotFound)
	}
	delete(m.phases, id)
	m.notify(engine.ChangeEvent{Kind: engine.KindPhase, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (m *Memory) FindPhasesByProject(_ context.Context, project engine.ProjectID) ([]engine.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Phase
	for _, ph := range m.phases {
		if ph.ProjectID == project {
			out = append(out, ph)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) CreateHoliday(_ context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	m.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(h.ID), Op: engine.OpCreated})
	return nil
}

func (m *Memory) GetHoliday(_ context.Context, id engine.HolidayID) (engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.holidays[id]
	if !ok {
		return engine.Holiday{}, fmt.Errorf("holiday %s: %w", id, engine.ErrNotFound)
	}
	return h, nil
}

func (m *Memory) UpdateHoliday(_ context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[h.ID]; !ok {
		return fmt.Errorf("holiday %s: %w", h.ID, engine.ErrNotFound)
	}
	m.holidays[h.ID] = h
	m.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(h.ID), Op: engine.OpUpdated})
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id engine.HolidayID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return fmt.Errorf("holiday %s: %w", id, engine.ErrNotFound)
	}
	delete(m.holidays, id)
	m.notify(engine.ChangeEvent{Kind: engine.KindHoliday, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (m *Memory) CreateEvent(_ context.Context, e engine.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	m.notify(engine.ChangeEvent{Kind: engine.KindEvent, ID: string(e.ID), Op: engine.OpCreated})
	return nil
}

func (m *Memory) DeleteEvent(_ context.Context, id engine.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, engine.ErrNotFound)
	}
	delete(m.events, id)
	m.notify(engine.ChangeEvent{Kind: engine.KindEvent, ID: string(id), Op: engine.OpDeleted})
	return nil
}

func (m *Memory) ListEventsByProject(_ context.Context, project engine.ProjectID) ([]engine.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.CalendarEvent
	for _, e := range m.events {
		if e.ProjectID == project || e.ProjectID == "" {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) GetWeeklyWorkHours(_ context.Context) (engine.WeeklyWorkHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	week := make(engine.WeeklyWorkHours, len(m.week))
	for wd, slots := range m.week {
		week[wd] = append([]engine.TimeSlot(nil), slots...)
	}
	return week, nil
}

func (m *Memory) SaveWeeklyWorkHours(_ context.Context, week engine.WeeklyWorkHours) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.week = week
	return nil
}

// =============================================================================
// DATE WRITER - Propose (silent) vs Commit (notified)
// =============================================================================

func (m *Memory) ProposeDates(ctx context.Context, ref engine.EntityRef, r engine.DateRange) error {
	return m.writeDates(ref, r, false)
}

func (m *Memory) CommitDates(ctx context.Context, ref engine.EntityRef, r engine.DateRange) error {
	return m.writeDates(ref, r, true)
}

func (m *Memory) writeDates(ref engine.EntityRef, r engine.DateRange, confirm bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch ref.Kind {
	case engine.KindProject:
		p, ok := m.projects[engine.ProjectID(ref.ID)]
		if !ok {
			return fmt.Errorf("project %s: %w", ref.ID, engine.ErrNotFound)
		}
		p.Start, p.End = r.Start, r.End
		m.projects[p.ID] = p
	case engine.KindPhase:
		ph, ok := m.phases[engine.PhaseID(ref.ID)]
		if !ok {
			return fmt.Errorf("phase %s: %w", ref.ID, engine.ErrNotFound)
		}
		ph.Start, ph.End = r.Start, r.End
		m.phases[ph.ID] = ph
	case engine.KindHoliday:
		h, ok := m.holidays[engine.HolidayID(ref.ID)]
		if !ok {
			return fmt.Errorf("holiday %s: %w", ref.ID, engine.ErrNotFound)
		}
		h.Start, h.End = r.Start, r.End
		m.holidays[h.ID] = h
	default:
		return fmt.Errorf("%w: cannot write dates to %s", engine.ErrInvalidInput, ref.Kind)
	}
	if confirm {
		m.notify(engine.ChangeEvent{Kind: ref.Kind, ID: ref.ID, Op: engine.OpUpdated})
	}
	return nil
}
