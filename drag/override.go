/*
override.go - Week-scoped recurring-occurrence overrides

PURPOSE:
  Lets a user temporarily adjust the hours of a recurring occurrence
  without rewriting the template. Overrides are keyed by week-start date
  (Monday) and applied on top of computed day estimates.

  The store is explicitly injected and lifecycle-scoped: created by the
  owner, passed by reference, torn down with Clear. It is consistent within
  a single commit but not designed for concurrent writers.
*/
package drag

import (
	"sync"
	"time"

	"github.com/warp/timeline-engine/engine"
)

// OverrideStore holds per-week hour overrides for recurring occurrences.
type OverrideStore struct {
	mu sync.Mutex
	m  map[engine.Date]engine.Hours
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{m: make(map[engine.Date]engine.Hours)}
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d engine.Date) engine.Date {
	back := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return d.AddDays(-back)
}

// Set records an override for the week containing day.
func (s *OverrideStore) Set(day engine.Date, hours engine.Hours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[WeekStart(day)] = hours
}

// Get returns the override for the week containing day, if any.
func (s *OverrideStore) Get(day engine.Date) (engine.Hours, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.m[WeekStart(day)]
	return h, ok
}

// Apply replaces allocation-sourced estimate hours with the override of
// their week, where one exists. Event and auto-estimate days are untouched.
func (s *OverrideStore) Apply(estimates []engine.DayEstimate) []engine.DayEstimate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.m) == 0 {
		return estimates
	}
	out := make([]engine.DayEstimate, len(estimates))
	copy(out, estimates)
	for i, est := range out {
		if est.Source != engine.SourceAllocation {
			continue
		}
		if h, ok := s.m[WeekStart(est.Date)]; ok {
			out[i].Hours = h
		}
	}
	return out
}

// PruneBefore drops overrides for weeks that ended before cutoff.
func (s *OverrideStore) PruneBefore(cutoff engine.Date) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for week := range s.m {
		if week.AddDays(6).Before(cutoff) {
			delete(s.m, week)
			dropped++
		}
	}
	return dropped
}

// Clear tears the store down at the end of its lifecycle.
func (s *OverrideStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[engine.Date]engine.Hours)
}

// Len returns the number of stored week overrides.
func (s *OverrideStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
