/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES AND HOURS:
  Dates travel as "2006-01-02" strings; hour quantities as decimal strings
  so clients never see float drift.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/timeline-engine/engine"
)

// =============================================================================
// PROJECTS
// =============================================================================

type ProjectDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	Continuous     bool   `json:"continuous"`
	EstimatedHours string `json:"estimated_hours"`
	GroupID        string `json:"group_id"`
	Color          string `json:"color,omitempty"`
}

type SaveProjectRequest struct {
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Continuous     bool   `json:"continuous"`
	EstimatedHours string `json:"estimated_hours"`
	GroupID        string `json:"group_id"`
	Color          string `json:"color"`
}

func toProjectDTO(p engine.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		StartDate:      p.Start.String(),
		Continuous:     p.Continuous,
		EstimatedHours: p.EstimatedHours.String(),
		GroupID:        string(p.GroupID),
		Color:          p.Color,
	}
	if !p.Continuous {
		dto.EndDate = p.End.String()
	}
	return dto
}

func (req SaveProjectRequest) toProject(id engine.ProjectID) (engine.Project, error) {
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		return engine.Project{}, err
	}
	p := engine.Project{
		ID:         id,
		Name:       req.Name,
		Start:      start,
		Continuous: req.Continuous,
		GroupID:    engine.GroupID(req.GroupID),
		Color:      req.Color,
	}
	if !req.Continuous {
		if p.End, err = engine.ParseDate(req.EndDate); err != nil {
			return engine.Project{}, err
		}
	} else {
		p.End = start
	}
	if p.EstimatedHours, err = parseHoursField(req.EstimatedHours, "estimated_hours"); err != nil {
		return engine.Project{}, err
	}
	return p, nil
}

// =============================================================================
// PHASES
// =============================================================================

type RecurrenceDTO struct {
	Kind        string `json:"kind"`
	Interval    int    `json:"interval"`
	Weekday     int    `json:"weekday,omitempty"`
	DayOfMonth  int    `json:"day_of_month,omitempty"`
	WeekOfMonth int    `json:"week_of_month,omitempty"`
}

type PhaseDTO struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id"`
	Name       string         `json:"name"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Allocation string         `json:"allocation_hours"`
	Order      int            `json:"order"`
	Recurrence *RecurrenceDTO `json:"recurrence,omitempty"`
}

type SavePhaseRequest struct {
	Name       string         `json:"name"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Allocation string         `json:"allocation_hours"`
	Order      int            `json:"order"`
	Recurrence *RecurrenceDTO `json:"recurrence,omitempty"`
}

func toPhaseDTO(ph engine.Phase) PhaseDTO {
	dto := PhaseDTO{
		ID:         string(ph.ID),
		ProjectID:  string(ph.ProjectID),
		Name:       ph.Name,
		StartDate:  ph.Start.String(),
		EndDate:    ph.End.String(),
		Allocation: ph.Allocation.String(),
		Order:      ph.Order,
	}
	if ph.IsRecurring() {
		dto.Recurrence = toRecurrenceDTO(ph.Recurring.Pattern)
	}
	return dto
}

func toRecurrenceDTO(p engine.Pattern) *RecurrenceDTO {
	switch v := p.(type) {
	case engine.Daily:
		return &RecurrenceDTO{Kind: "daily", Interval: v.IntervalDays}
	case engine.Weekly:
		return &RecurrenceDTO{Kind: "weekly", Interval: v.IntervalWeeks, Weekday: int(v.Weekday)}
	case engine.MonthlyByDate:
		return &RecurrenceDTO{Kind: "monthly_by_date", Interval: v.IntervalMonths, DayOfMonth: v.DayOfMonth}
	case engine.MonthlyByWeekday:
		return &RecurrenceDTO{Kind: "monthly_by_weekday", Interval: v.IntervalMonths,
			WeekOfMonth: v.WeekOfMonth, Weekday: int(v.Weekday)}
	}
	return nil
}

func (dto *RecurrenceDTO) toPattern() (engine.Pattern, error) {
	switch dto.Kind {
	case "daily":
		return engine.Daily{IntervalDays: dto.Interval}, nil
	case "weekly":
		return engine.Weekly{IntervalWeeks: dto.Interval, Weekday: time.Weekday(dto.Weekday)}, nil
	case "monthly_by_date":
		return engine.MonthlyByDate{IntervalMonths: dto.Interval, DayOfMonth: dto.DayOfMonth}, nil
	case "monthly_by_weekday":
		return engine.MonthlyByWeekday{IntervalMonths: dto.Interval,
			WeekOfMonth: dto.WeekOfMonth, Weekday: time.Weekday(dto.Weekday)}, nil
	}
	return nil, fmt.Errorf("%w: unknown recurrence kind %q", engine.ErrInvalidRecurrence, dto.Kind)
}

func (req SavePhaseRequest) toPhase(id engine.PhaseID, project engine.ProjectID) (engine.Phase, error) {
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		return engine.Phase{}, err
	}
	end, err := engine.ParseDate(req.EndDate)
	if err != nil {
		return engine.Phase{}, err
	}
	ph := engine.Phase{
		ID:        id,
		ProjectID: project,
		Name:      req.Name,
		Start:     start,
		End:       end,
		Order:     req.Order,
	}
	if ph.Allocation, err = parseHoursField(req.Allocation, "allocation_hours"); err != nil {
		return engine.Phase{}, err
	}
	if req.Recurrence != nil {
		pattern, err := req.Recurrence.toPattern()
		if err != nil {
			return engine.Phase{}, err
		}
		ph.Recurring = &engine.RecurrenceConfig{Pattern: pattern}
	}
	return ph, nil
}

type OccurrenceDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toOccurrenceDTOs(occurrences []engine.DateRange) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, len(occurrences))
	for i, occ := range occurrences {
		dtos[i] = OccurrenceDTO{StartDate: occ.Start.String(), EndDate: occ.End.String()}
	}
	return dtos
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SaveHolidayRequest struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toHolidayDTO(h engine.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        string(h.ID),
		Title:     h.Title,
		StartDate: h.Start.String(),
		EndDate:   h.End.String(),
	}
}

func (req SaveHolidayRequest) toHoliday(id engine.HolidayID) (engine.Holiday, error) {
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		return engine.Holiday{}, err
	}
	end, err := engine.ParseDate(req.EndDate)
	if err != nil {
		return engine.Holiday{}, err
	}
	return engine.Holiday{ID: id, Title: req.Title, Start: start, End: end}, nil
}

// =============================================================================
// EVENTS
// =============================================================================

type EventDTO struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Completed bool   `json:"completed"`
}

type SaveEventRequest struct {
	ProjectID string `json:"project_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Completed bool   `json:"completed"`
}

func toEventDTO(e engine.CalendarEvent) EventDTO {
	return EventDTO{
		ID:        string(e.ID),
		ProjectID: string(e.ProjectID),
		Start:     e.Start.UTC().Format(time.RFC3339),
		End:       e.End.UTC().Format(time.RFC3339),
		Completed: e.Completed,
	}
}

func (req SaveEventRequest) toEvent(id engine.EventID) (engine.CalendarEvent, error) {
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return engine.CalendarEvent{}, fmt.Errorf("%w: bad event start %q", engine.ErrInvalidInput, req.Start)
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return engine.CalendarEvent{}, fmt.Errorf("%w: bad event end %q", engine.ErrInvalidInput, req.End)
	}
	return engine.CalendarEvent{
		ID:        id,
		ProjectID: engine.ProjectID(req.ProjectID),
		Start:     start,
		End:       end,
		Completed: req.Completed,
	}, nil
}

// =============================================================================
// ESTIMATES, BUDGET, LAYOUT
// =============================================================================

type DayEstimateDTO struct {
	Date             string `json:"date"`
	Hours            string `json:"hours"`
	Source           string `json:"source"`
	IsPlannedEvent   bool   `json:"is_planned_event,omitempty"`
	IsCompletedEvent bool   `json:"is_completed_event,omitempty"`
}

func toEstimateDTOs(estimates []engine.DayEstimate) []DayEstimateDTO {
	dtos := make([]DayEstimateDTO, len(estimates))
	for i, est := range estimates {
		dtos[i] = DayEstimateDTO{
			Date:             est.Date.String(),
			Hours:            est.Hours.String(),
			Source:           string(est.Source),
			IsPlannedEvent:   est.IsPlannedEvent,
			IsCompletedEvent: est.IsCompletedEvent,
		}
	}
	return dtos
}

type BudgetValidationDTO struct {
	IsValid            bool   `json:"is_valid"`
	TotalAllocated     string `json:"total_allocated"`
	Overage            string `json:"overage"`
	UtilizationPercent string `json:"utilization_percent"`
}

func toBudgetDTO(bv engine.BudgetValidation) BudgetValidationDTO {
	return BudgetValidationDTO{
		IsValid:            bv.IsValid,
		TotalAllocated:     bv.TotalAllocated.String(),
		Overage:            bv.Overage.String(),
		UtilizationPercent: bv.UtilizationPercent.StringFixed(1),
	}
}

type SimulateAllocationRequest struct {
	PhaseID  string `json:"phase_id"`
	NewHours string `json:"new_hours"`
}

type RowLayoutDTO struct {
	Rows     map[string]int `json:"rows"`
	RowCount int            `json:"row_count"`
}

func toLayoutDTO(layout engine.RowLayout) RowLayoutDTO {
	rows := make(map[string]int, len(layout.Rows))
	for id, row := range layout.Rows {
		rows[string(id)] = row
	}
	return RowLayoutDTO{Rows: rows, RowCount: layout.RowCount}
}

// =============================================================================
// DRAG
// =============================================================================

type BeginDragRequest struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Action string `json:"action"`
}

type UpdateDragRequest struct {
	PixelDelta float64 `json:"pixel_delta"`
}

type TentativeDTO struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	DayDelta  int              `json:"day_delta"`
	Estimates []DayEstimateDTO `json:"estimates,omitempty"`
	Layout    *RowLayoutDTO    `json:"layout,omitempty"`
}

type SuggestedRangeDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type DragResultDTO struct {
	Committed  bool               `json:"committed"`
	RolledBack bool               `json:"rolled_back"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Reasons    []string           `json:"reasons,omitempty"`
	Suggested  *SuggestedRangeDTO `json:"suggested,omitempty"`
}

type SetOverrideRequest struct {
	Date  string `json:"date"`
	Hours string `json:"hours"`
}

// =============================================================================
// SETTINGS
// =============================================================================

type TimeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekDTO maps weekday names to work slots; absent days are non-working.
type WeekDTO map[string][]TimeSlotDTO

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

func toWeekDTO(week engine.WeeklyWorkHours) WeekDTO {
	dto := WeekDTO{}
	for name, wd := range weekdayNames {
		for _, slot := range week[wd] {
			dto[name] = append(dto[name], TimeSlotDTO{Start: slot.Start.String(), End: slot.End.String()})
		}
	}
	return dto
}

func (dto WeekDTO) toWeek() (engine.WeeklyWorkHours, error) {
	week := engine.WeeklyWorkHours{}
	for name, slots := range dto {
		wd, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", engine.ErrInvalidInput, name)
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
			week[wd] = append(week[wd], engine.TimeSlot{Start: start, End: end})
		}
	}
	return week, nil
}

// =============================================================================
// SHARED
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error     string             `json:"error"`
	Details   string             `json:"details,omitempty"`
	Reasons   []string           `json:"reasons,omitempty"`
	Suggested *SuggestedRangeDTO `json:"suggested,omitempty"`
}

func parseHoursField(raw, field string) (engine.Hours, error) {
	if raw == "" {
		return engine.ZeroHours(), nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return engine.Hours{}, fmt.Errorf("%w: bad %s %q", engine.ErrInvalidInput, field, raw)
	}
	return engine.Hours{Value: d}, nil
}

func toSuggestedDTO(r *engine.DateRange) *SuggestedRangeDTO {
	if r == nil {
		return nil
	}
	return &SuggestedRangeDTO{StartDate: r.Start.String(), EndDate: r.End.String()}
}
