/*
handlers.go - HTTP API handlers for the timeline planning engine

PURPOSE:
  Exposes the planning engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Projects:
    GET    /api/projects?group={g}        List projects in a group
    POST   /api/projects                  Create project
    GET    /api/projects/{id}             Get project
    PUT    /api/projects/{id}             Update project
    DELETE /api/projects/{id}             Delete project (cascades phases)
    GET    /api/projects/{id}/phases      List phases
    POST   /api/projects/{id}/phases      Create phase
    GET    /api/projects/{id}/estimates   Per-day hour estimates
    GET    /api/projects/{id}/budget      Allocation-vs-budget validation
    POST   /api/projects/{id}/budget/simulate  What-if allocation change

  Phases:
    PUT    /api/phases/{id}               Update phase
    DELETE /api/phases/{id}               Delete phase
    GET    /api/phases/{id}/occurrences   Expand a recurring phase (?until=)

  Holidays:
    GET    /api/holidays                  List holidays
    POST   /api/holidays                  Create (409 + suggestion on overlap)
    PUT    /api/holidays/{id}             Update (same conflict handling)
    DELETE /api/holidays/{id}             Delete

  Events:
    POST   /api/events                    Create calendar event
    DELETE /api/events/{id}               Delete calendar event

  Layout:
    GET    /api/groups                    List group IDs
    GET    /api/groups/{group}/layout     Row assignment for a group

  Drag:
    POST   /api/drag/begin                Start a drag session
    POST   /api/drag/update               Fold in a pointer delta
    POST   /api/drag/end                  Validate + commit or roll back
    POST   /api/drag/cancel               Abort the session
    POST   /api/drag/overrides            Set a week-scoped hour override

  Settings:
    GET    /api/settings/week             Weekly work-hours calendar
    PUT    /api/settings/week             Replace the calendar

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Entity not found
  - 409: Conflict (holiday overlap, drag already active)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/timeline-engine/drag"
	"github.com/warp/timeline-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store drag.Store
	Drag  *drag.Coordinator
	Log   zerolog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewHandler creates a new handler with the given store and drag coordinator.
func NewHandler(store drag.Store, coordinator *drag.Coordinator, log zerolog.Logger) *Handler {
	return &Handler{
		Store: store,
		Drag:  coordinator,
		Log:   log.With().Str("component", "api").Logger(),
		now:   time.Now,
	}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	group := engine.GroupID(r.URL.Query().Get("group"))
	projects, err := h.Store.ListProjectsByGroup(r.Context(), group)
	if err != nil {
		h.writeDomainError(w, "failed to list projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	p, err := req.toProject(engine.ProjectID(uuid.NewString()))
	if err != nil {
		h.writeDomainError(w, "invalid project", err)
		return
	}
	if res := engine.ValidateProject(p); !res.OK {
		writeValidation(w, "invalid project", res)
		return
	}
	if err := h.Store.CreateProject(r.Context(), p); err != nil {
		h.writeDomainError(w, "failed to create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(p))
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProject(r.Context(), engine.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	p, err := req.toProject(engine.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "invalid project", err)
		return
	}
	if res := engine.ValidateProject(p); !res.OK {
		writeValidation(w, "invalid project", res)
		return
	}
	if err := h.Store.UpdateProject(r.Context(), p); err != nil {
		h.writeDomainError(w, "failed to update project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProject(r.Context(), engine.ProjectID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PHASE HANDLERS
// =============================================================================

func (h *Handler) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := h.Store.FindPhasesByProject(r.Context(), engine.ProjectID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	dtos := make([]PhaseDTO, len(phases))
	for i, ph := range phases {
		dtos[i] = toPhaseDTO(ph)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := engine.ProjectID(chi.URLParam(r, "id"))

	var req SavePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	ph, err := req.toPhase(engine.PhaseID(uuid.NewString()), projectID)
	if err != nil {
		h.writeDomainError(w, "invalid phase", err)
		return
	}

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	siblings, err := h.Store.FindPhasesByProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	if res := engine.ValidatePhase(project, engine.NewDraft(ph), siblings); !res.OK {
		writeValidation(w, "invalid phase", res)
		return
	}
	if bv := engine.SimulateAllocation(siblings, project.EstimatedHours, "", ph.Allocation); !bv.IsValid {
		writeError(w, http.StatusBadRequest,
			"phase allocations exceed the project budget by "+bv.Overage.String()+"h", nil)
		return
	}

	if err := h.Store.CreatePhase(ctx, ph); err != nil {
		h.writeDomainError(w, "failed to create phase", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPhaseDTO(ph))
}

func (h *Handler) UpdatePhase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := engine.PhaseID(chi.URLParam(r, "id"))

	current, err := h.Store.GetPhase(ctx, id)
	if err != nil {
		h.writeDomainError(w, "failed to get phase", err)
		return
	}

	var req SavePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	ph, err := req.toPhase(id, current.ProjectID)
	if err != nil {
		h.writeDomainError(w, "invalid phase", err)
		return
	}

	project, err := h.Store.GetProject(ctx, ph.ProjectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	siblings, err := h.Store.FindPhasesByProject(ctx, ph.ProjectID)
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	if res := engine.ValidatePhase(project, engine.NewPersisted(ph), siblings); !res.OK {
		writeValidation(w, "invalid phase", res)
		return
	}
	if bv := engine.SimulateAllocation(siblings, project.EstimatedHours, ph.ID, ph.Allocation); !bv.IsValid {
		writeError(w, http.StatusBadRequest,
			"phase allocations exceed the project budget by "+bv.Overage.String()+"h", nil)
		return
	}

	if err := h.Store.UpdatePhase(ctx, ph); err != nil {
		h.writeDomainError(w, "failed to update phase", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhaseDTO(ph))
}

// ListOccurrences expands a recurring phase's occurrence windows. The
// optional until query param caps the expansion; it defaults to the owning
// project's window end.
func (h *Handler) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ph, err := h.Store.GetPhase(ctx, engine.PhaseID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "failed to get phase", err)
		return
	}
	project, err := h.Store.GetProject(ctx, ph.ProjectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}

	until := project.Window().End
	if raw := r.URL.Query().Get("until"); raw != "" {
		if until, err = engine.ParseDate(raw); err != nil {
			h.writeDomainError(w, "invalid until date", err)
			return
		}
	}

	occurrences, err := engine.ExpandRecurrence(ph, ph.Start, until)
	if err != nil {
		h.writeDomainError(w, "failed to expand recurrence", err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceDTOs(occurrences))
}

func (h *Handler) DeletePhase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePhase(r.Context(), engine.PhaseID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "failed to delete phase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ESTIMATE AND BUDGET HANDLERS
// =============================================================================

// GetEstimates computes the per-day hour estimates for a project.
// Optional query params: from, to (date range), today (auto-estimate clamp).
func (h *Handler) GetEstimates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := engine.ProjectID(chi.URLParam(r, "id"))

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	phases, err := h.Store.FindPhasesByProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		h.writeDomainError(w, "failed to list holidays", err)
		return
	}
	events, err := h.Store.ListEventsByProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to list events", err)
		return
	}
	week, err := h.Store.GetWeeklyWorkHours(ctx)
	if err != nil {
		h.writeDomainError(w, "failed to load work hours", err)
		return
	}

	window := project.Window()
	if raw := r.URL.Query().Get("from"); raw != "" {
		if window.Start, err = engine.ParseDate(raw); err != nil {
			h.writeDomainError(w, "invalid from date", err)
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if window.End, err = engine.ParseDate(raw); err != nil {
			h.writeDomainError(w, "invalid to date", err)
			return
		}
	}
	today := engine.DateOf(h.now())
	if raw := r.URL.Query().Get("today"); raw != "" {
		if today, err = engine.ParseDate(raw); err != nil {
			h.writeDomainError(w, "invalid today date", err)
			return
		}
	}

	estimates, err := engine.ComputeDayEstimates(engine.EstimateInput{
		Project:  project,
		Phases:   phases,
		Week:     week,
		Holidays: holidays,
		Events:   events,
		Range:    window,
		Today:    today,
	})
	if err != nil {
		h.writeDomainError(w, "failed to compute estimates", err)
		return
	}
	writeJSON(w, http.StatusOK, toEstimateDTOs(h.Drag.Overrides().Apply(estimates)))
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := engine.ProjectID(chi.URLParam(r, "id"))

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	phases, err := h.Store.FindPhasesByProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(engine.ValidateAllocation(phases, project.EstimatedHours, "")))
}

// SimulateBudget answers "would this allocation change still fit" without
// touching stored state.
func (h *Handler) SimulateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := engine.ProjectID(chi.URLParam(r, "id"))

	var req SimulateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	newHours, err := parseHoursField(req.NewHours, "new_hours")
	if err != nil {
		h.writeDomainError(w, "invalid hours", err)
		return
	}

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to get project", err)
		return
	}
	phases, err := h.Store.FindPhasesByProject(ctx, projectID)
	if err != nil {
		h.writeDomainError(w, "failed to list phases", err)
		return
	}
	bv := engine.SimulateAllocation(phases, project.EstimatedHours, engine.PhaseID(req.PhaseID), newHours)
	writeJSON(w, http.StatusOK, toBudgetDTO(bv))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.writeDomainError(w, "failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	h.saveHoliday(w, r, engine.HolidayID(uuid.NewString()), true)
}

func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	h.saveHoliday(w, r, engine.HolidayID(chi.URLParam(r, "id")), false)
}

// saveHoliday validates against existing holidays and, on overlap, answers
// 409 with a suggested non-conflicting range. The suggestion is never applied
// without the client re-submitting it.
func (h *Handler) saveHoliday(w http.ResponseWriter, r *http.Request, id engine.HolidayID, create bool) {
	ctx := r.Context()

	var req SaveHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	holiday, err := req.toHoliday(id)
	if err != nil {
		h.writeDomainError(w, "invalid holiday", err)
		return
	}

	existing, err := h.Store.ListHolidays(ctx)
	if err != nil {
		h.writeDomainError(w, "failed to list holidays", err)
		return
	}
	candidate := engine.NewPersisted(holiday)
	if create {
		candidate = engine.NewDraft(holiday)
	}
	if res := engine.ValidateHoliday(candidate, existing); !res.OK {
		status := http.StatusBadRequest
		if res.Suggested != nil {
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{
			Error:     "holiday dates conflict",
			Reasons:   res.Reasons,
			Suggested: toSuggestedDTO(res.Suggested),
		})
		return
	}

	if create {
		err = h.Store.CreateHoliday(ctx, holiday)
	} else {
		err = h.Store.UpdateHoliday(ctx, holiday)
	}
	if err != nil {
		h.writeDomainError(w, "failed to save holiday", err)
		return
	}
	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	writeJSON(w, status, toHolidayDTO(holiday))
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), engine.HolidayID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req SaveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	event, err := req.toEvent(engine.EventID(uuid.NewString()))
	if err != nil {
		h.writeDomainError(w, "invalid event", err)
		return
	}
	if !event.End.After(event.Start) {
		writeError(w, http.StatusBadRequest, "event end must be after its start", nil)
		return
	}
	if err := h.Store.CreateEvent(r.Context(), event); err != nil {
		h.writeDomainError(w, "failed to create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEvent(r.Context(), engine.EventID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, "failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LAYOUT HANDLERS
// =============================================================================

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.ListGroups(r.Context())
	if err != nil {
		h.writeDomainError(w, "failed to list groups", err)
		return
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetGroupLayout(w http.ResponseWriter, r *http.Request) {
	group := engine.GroupID(chi.URLParam(r, "group"))
	projects, err := h.Store.ListProjectsByGroup(r.Context(), group)
	if err != nil {
		h.writeDomainError(w, "failed to list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, toLayoutDTO(engine.LayoutRows(projects)))
}

// =============================================================================
// DRAG HANDLERS
// =============================================================================

func (h *Handler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	var req BeginDragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	ref := engine.EntityRef{Kind: engine.EntityKind(req.Kind), ID: req.ID}
	if err := h.Drag.Begin(r.Context(), ref, drag.Action(req.Action)); err != nil {
		h.writeDomainError(w, "failed to begin drag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateDrag(w http.ResponseWriter, r *http.Request) {
	var req UpdateDragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	tentative, err := h.Drag.Update(r.Context(), req.PixelDelta)
	if err != nil {
		h.writeDomainError(w, "failed to update drag", err)
		return
	}
	dto := TentativeDTO{
		StartDate: tentative.Range.Start.String(),
		EndDate:   tentative.Range.End.String(),
		DayDelta:  tentative.DayDelta,
		Estimates: toEstimateDTOs(tentative.Estimates),
	}
	if tentative.Layout != nil {
		layout := toLayoutDTO(*tentative.Layout)
		dto.Layout = &layout
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) EndDrag(w http.ResponseWriter, r *http.Request) {
	result, err := h.Drag.End(r.Context())
	if err != nil {
		h.writeDomainError(w, "failed to commit drag", err)
		return
	}
	dto := DragResultDTO{
		Committed:  result.Committed,
		RolledBack: result.RolledBack,
		Reasons:    result.Reasons,
		Suggested:  toSuggestedDTO(result.Suggested),
	}
	if !result.Final.Start.IsZero() {
		dto.StartDate = result.Final.Start.String()
		dto.EndDate = result.Final.End.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) CancelDrag(w http.ResponseWriter, r *http.Request) {
	h.Drag.Cancel(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SetOverride records a week-scoped hour override for recurring occurrences.
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req SetOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	day, err := engine.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, "invalid date", err)
		return
	}
	hours, err := parseHoursField(req.Hours, "hours")
	if err != nil {
		h.writeDomainError(w, "invalid hours", err)
		return
	}
	h.Drag.Overrides().Set(day, hours)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.Store.GetWeeklyWorkHours(r.Context())
	if err != nil {
		h.writeDomainError(w, "failed to load work hours", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekDTO(week))
}

func (h *Handler) SaveWeek(w http.ResponseWriter, r *http.Request) {
	var dto WeekDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	week, err := dto.toWeek()
	if err != nil {
		h.writeDomainError(w, "invalid work hours", err)
		return
	}
	if err := h.Store.SaveWeeklyWorkHours(r.Context(), week); err != nil {
		h.writeDomainError(w, "failed to save work hours", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekDTO(week))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeValidation(w http.ResponseWriter, message string, res engine.ValidationResult) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     message,
		Reasons:   res.Reasons,
		Suggested: toSuggestedDTO(res.Suggested),
	})
}

// writeDomainError maps domain error classes to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
