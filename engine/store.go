/*
store.go - Boundary contracts: repository, date writes, change notifications

PURPOSE:
  Defines the interfaces between the engine and its external collaborators.
  The engine reads entities in, computes over them, and proposes updates; it
  never owns persistence. Implementations live in engine/store (memory) and
  store/sqlite (production).

WRITE MODES:
  Date changes during a drag come in two explicit modes rather than a
  boolean flag threaded through call sites:
  - ProposeDates: silent, throttled, mid-drag. Failures are provisional and
    may be swallowed by the caller. No change notification is emitted.
  - CommitDates:  the confirmed final write on drag release. Awaited,
    surfaced on failure, and notified to subscribers.

CHANGE NOTIFICATIONS:
  ChangeSource delivers {Kind, ID, Op} with at-least-once, unordered
  semantics. Consumers must treat the latest repository read as
  authoritative and tolerate duplicates.

SEE ALSO:
  - engine/store/memory.go: In-memory implementation for tests/dev
  - store/sqlite/sqlite.go: SQLite implementation
*/
package engine

import "context"

// =============================================================================
// REPOSITORY - CRUD per entity kind
// =============================================================================

type ProjectStore interface {
	CreateProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id ProjectID) (Project, error)
	UpdateProject(ctx context.Context, p Project) error
	// DeleteProject cascades to the project's phases.
	DeleteProject(ctx context.Context, id ProjectID) error
	ListProjectsByGroup(ctx context.Context, group GroupID) ([]Project, error)
	ListGroups(ctx context.Context) ([]GroupID, error)
}

type PhaseStore interface {
	CreatePhase(ctx context.Context, ph Phase) error
	GetPhase(ctx context.Context, id PhaseID) (Phase, error)
	UpdatePhase(ctx context.Context, ph Phase) error
	DeletePhase(ctx context.Context, id PhaseID) error
	FindPhasesByProject(ctx context.Context, project ProjectID) ([]Phase, error)
}

type HolidayStore interface {
	CreateHoliday(ctx context.Context, h Holiday) error
	GetHoliday(ctx context.Context, id HolidayID) (Holiday, error)
	UpdateHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id HolidayID) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, e CalendarEvent) error
	DeleteEvent(ctx context.Context, id EventID) error
	ListEventsByProject(ctx context.Context, project ProjectID) ([]CalendarEvent, error)
}

type SettingsStore interface {
	GetWeeklyWorkHours(ctx context.Context) (WeeklyWorkHours, error)
	SaveWeeklyWorkHours(ctx context.Context, week WeeklyWorkHours) error
}

// Repository is the full persistence contract the engine is backed by.
// All calls may fail with a *StorageError.
type Repository interface {
	ProjectStore
	PhaseStore
	HolidayStore
	EventStore
	SettingsStore
}

// =============================================================================
// ENTITY REFERENCES - Drag targets
// =============================================================================

type EntityKind string

const (
	KindProject EntityKind = "project"
	KindPhase   EntityKind = "phase"
	KindHoliday EntityKind = "holiday"
	KindEvent   EntityKind = "event"
)

// EntityRef names a draggable entity.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// =============================================================================
// DATE WRITER - Two explicit write modes
// =============================================================================

// DateWriter applies date-range changes to a draggable entity.
type DateWriter interface {
	// ProposeDates is the silent mid-drag write-through. No notification.
	ProposeDates(ctx context.Context, ref EntityRef, r DateRange) error

	// CommitDates is the confirmed final write. Notifies subscribers.
	CommitDates(ctx context.Context, ref EntityRef, r DateRange) error
}

// =============================================================================
// CHANGE NOTIFICATIONS
// =============================================================================

type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

// ChangeEvent is a repository change notification. Delivery is at-least-once
// with no ordering guarantee.
type ChangeEvent struct {
	Kind EntityKind
	ID   string
	Op   ChangeOp
}

// ChangeSource lets consumers subscribe to change notifications. The
// returned function cancels the subscription.
type ChangeSource interface {
	Subscribe(ch chan<- ChangeEvent) (cancel func())
}
