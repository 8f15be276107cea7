/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Validation outcomes that callers are expected to handle (budget overage,
  holiday overlap) are result values, not errors; the errors here cover
  malformed input, missing entities, and storage failures.

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, engine.ErrHolidayOverlap) {
        var overlap *engine.HolidayOverlapError
        errors.As(err, &overlap)
        // offer overlap.Suggested to the user
    }

SEE ALSO:
  - validate.go: Produces the structured validation errors
  - store.go: StorageError contract
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed dates, clock times, or ranges.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRecurrence is returned when a recurrence config cannot produce
	// occurrences (interval < 1, day-of-month or week-of-month out of range).
	ErrInvalidRecurrence = errors.New("invalid recurrence config")

	// ErrHolidayOverlap is returned when a holiday would overlap an existing one.
	ErrHolidayOverlap = errors.New("holiday overlaps an existing holiday")

	// ErrPhaseOutsideProject is returned when a phase window leaves the
	// owning project's window.
	ErrPhaseOutsideProject = errors.New("phase outside project window")

	// ErrRecurringSplitConflict is returned when a recurring template and
	// split phases would coexist on the same project.
	ErrRecurringSplitConflict = errors.New("recurring and split phases are mutually exclusive")

	// ErrNotFound is returned when a referenced entity doesn't exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStorage wraps repository-level failures.
	ErrStorage = errors.New("storage error")

	// ErrDragActive is returned when a drag session is already in progress.
	ErrDragActive = errors.New("drag session already active")

	// ErrNoDragSession is returned when updating or ending without a session.
	ErrNoDragSession = errors.New("no active drag session")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HolidayOverlapError reports the conflicting holiday and a suggested
// non-conflicting range. The suggestion is never applied silently; callers
// must confirm it explicitly.
type HolidayOverlapError struct {
	Conflict  Holiday
	Suggested DateRange
}

func (e *HolidayOverlapError) Error() string {
	return fmt.Sprintf("holiday overlaps %q %s; suggested %s",
		e.Conflict.Title, e.Conflict.Window(), e.Suggested)
}

func (e *HolidayOverlapError) Unwrap() error { return ErrHolidayOverlap }

// StorageError wraps a storage failure with the operation that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// rather than an engine or storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidRecurrence) ||
		errors.Is(err, ErrHolidayOverlap) ||
		errors.Is(err, ErrPhaseOutsideProject) ||
		errors.Is(err, ErrRecurringSplitConflict)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict returns true for state conflicts that map to HTTP 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrHolidayOverlap) ||
		errors.Is(err, ErrRecurringSplitConflict) ||
		errors.Is(err, ErrDragActive)
}
