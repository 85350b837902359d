/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVENTIONS:
  - Dates are "YYYY-MM-DD" strings
  - Clock times are "HH:MM" strings
  - Hour quantities are decimal strings rounded to one decimal place
    ("8.5"); signed balances carry an explicit sign ("+12.5", "-3.0")

VALIDATION:
  Validation is done in handlers and domain services, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: The domain types these mirror
*/
package api

import (
	"time"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email,omitempty"`
	StartDate           string  `json:"start_date"`
	PlannedWeeklyHours  string  `json:"planned_weekly_hours"`
	WorkdaysPerWeek     int     `json:"workdays_per_week"`
	WorkdayHours        string  `json:"workday_hours"`
	VacationDaysPerYear int     `json:"vacation_days_per_year"`
	WorkdayHoursSource  *string `json:"workday_hours_override,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	StartDate            string  `json:"start_date"`
	PlannedWeeklyHours   string  `json:"planned_weekly_hours"`
	WorkdaysPerWeek      int     `json:"workdays_per_week"`
	WorkdayHoursOverride *string `json:"workday_hours_override"`
	VacationDaysPerYear  int     `json:"vacation_days_per_year"`
}

// BreakDTO is one break inside a time entry, clock times as "HH:MM".
type BreakDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeEntryDTO represents a logged work interval.
type TimeEntryDTO struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employee_id"`
	ProjectID        int64      `json:"project_id,omitempty"`
	Date             string     `json:"date"`
	Start            string     `json:"start"`
	End              string     `json:"end"`
	Breaks           []BreakDTO `json:"breaks"`
	Title            string     `json:"title,omitempty"`
	WorkedHours      string     `json:"worked_hours"`
	Billable         bool       `json:"billable"`
	Invoiced         bool       `json:"invoiced"`
	NightSurcharge   bool       `json:"night_surcharge,omitempty"`
	WeekendSurcharge bool       `json:"weekend_surcharge,omitempty"`
	HolidaySurcharge bool       `json:"holiday_surcharge,omitempty"`
	TravelMinutes    int        `json:"travel_minutes,omitempty"`
	WaitingMinutes   int        `json:"waiting_minutes,omitempty"`
	DisposalCost     string     `json:"disposal_cost,omitempty"`
	Approved         bool       `json:"approved"`
	ApproverID       int64      `json:"approver_id,omitempty"`
	ApprovedAt       *string    `json:"approved_at,omitempty"`
}

// SaveTimeEntryRequest creates or updates a time entry.
type SaveTimeEntryRequest struct {
	EmployeeID       int64      `json:"employee_id"`
	ProjectID        int64      `json:"project_id"`
	Date             string     `json:"date"`
	Start            string     `json:"start"`
	End              string     `json:"end"`
	Breaks           []BreakDTO `json:"breaks"`
	Title            string     `json:"title"`
	Billable         bool       `json:"billable"`
	NightSurcharge   bool       `json:"night_surcharge"`
	WeekendSurcharge bool       `json:"weekend_surcharge"`
	HolidaySurcharge bool       `json:"holiday_surcharge"`
	TravelMinutes    int        `json:"travel_minutes"`
	WaitingMinutes   int        `json:"waiting_minutes"`
	DisposalCost     string     `json:"disposal_cost"`
}

// ApproveRangeRequest approves every entry of an employee in a date range.
type ApproveRangeRequest struct {
	EmployeeID int64  `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	ApproverID int64  `json:"approver_id"`
}

// ApproveRangeResponse reports per-entry failures alongside successes.
type ApproveRangeResponse struct {
	Approved []TimeEntryDTO   `json:"approved"`
	Failures map[int64]string `json:"failures,omitempty"`
}

// AbsenceDTO represents an absence request.
type AbsenceDTO struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	TypeID     int64   `json:"type_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     string  `json:"reason,omitempty"`
	Status     string  `json:"status"`
	ApproverID int64   `json:"approver_id,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`
}

// CreateAbsenceRequest submits a new absence request.
type CreateAbsenceRequest struct {
	EmployeeID int64  `json:"employee_id"`
	TypeCode   string `json:"type_code"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// OverrideAbsenceResponse is returned by the forced-create endpoint.
type OverrideAbsenceResponse struct {
	Created   AbsenceDTO   `json:"created"`
	Cancelled []AbsenceDTO `json:"cancelled"`
}

// ConflictResponse is the 409 body when an absence overlaps existing ones.
type ConflictResponse struct {
	Error     string       `json:"error"`
	Conflicts []AbsenceDTO `json:"conflicts"`
}

// ApprovalRequest carries the approver for approve/reject actions.
type ApprovalRequest struct {
	ApproverID int64 `json:"approver_id"`
}

// DailySummaryDTO is one classified calendar day with its hour accounting.
type DailySummaryDTO struct {
	Date              string         `json:"date"`
	Category          string         `json:"category"`
	IsWeekend         bool           `json:"is_weekend"`
	IsPublicHoliday   bool           `json:"is_public_holiday"`
	PublicHolidayName string         `json:"public_holiday_name,omitempty"`
	AbsenceTypeCode   string         `json:"absence_type_code,omitempty"`
	AbsenceApproved   bool           `json:"absence_approved,omitempty"`
	ExpectedHours     string         `json:"expected_hours"`
	WorkedHours       string         `json:"worked_hours"`
	Delta             string         `json:"delta"`
	Entries           []TimeEntryDTO `json:"entries"`
	DataQuality       []string       `json:"data_quality,omitempty"`
}

// WeeklySummaryDTO aggregates one ISO week.
type WeeklySummaryDTO struct {
	EmployeeID    int64              `json:"employee_id"`
	Year          int                `json:"year"`
	Week          int                `json:"week"`
	From          string             `json:"from"`
	To            string             `json:"to"`
	TotalWorked   string             `json:"total_worked"`
	TotalExpected string             `json:"total_expected"`
	Overtime      string             `json:"overtime"`
	Undertime     string             `json:"undertime"`
	Balance       string             `json:"balance"`
	Vacation      VacationBalanceDTO `json:"vacation"`
	Days          []DailySummaryDTO  `json:"days"`
}

// CumulativeBalanceDTO is the running overtime account up to a week.
type CumulativeBalanceDTO struct {
	EmployeeID    int64  `json:"employee_id"`
	Year          int    `json:"year"`
	UpToWeek      int    `json:"up_to_week"`
	From          string `json:"from"`
	To            string `json:"to"`
	WorkedHours   string `json:"worked_hours"`
	ExpectedHours string `json:"expected_hours"`
	Balance       string `json:"balance"`
}

// VacationBalanceDTO is the vacation day account.
type VacationBalanceDTO struct {
	EmployeeID int64  `json:"employee_id"`
	AsOf       string `json:"as_of"`
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
}

// HolidayTypeDTO represents an absence type catalog row.
type HolidayTypeDTO struct {
	ID                    int64  `json:"id"`
	Code                  string `json:"code"`
	DisplayName           string `json:"display_name"`
	Factor                string `json:"factor"`
	IsSystemType          bool   `json:"is_system_type"`
	Active                bool   `json:"active"`
	SortOrder             int    `json:"sort_order"`
	CountsAgainstVacation bool   `json:"counts_against_vacation"`
}

// SaveHolidayTypeRequest creates or updates a catalog row.
type SaveHolidayTypeRequest struct {
	Code                  string `json:"code"`
	DisplayName           string `json:"display_name"`
	Factor                string `json:"factor"`
	SortOrder             int    `json:"sort_order"`
	CountsAgainstVacation bool   `json:"counts_against_vacation"`
}

// HolidayDefinitionDTO represents one public-holiday calendar row.
type HolidayDefinitionDTO struct {
	ID         int64  `json:"id"`
	Year       int    `json:"year"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Kind       string `json:"kind,omitempty"`
	Canton     string `json:"canton,omitempty"`
	IsWorkFree bool   `json:"is_work_free"`
	Active     bool   `json:"active"`
	IsFixed    bool   `json:"is_fixed"`
	IsEditable bool   `json:"is_editable"`
}

// GenerateHolidaysRequest asks for the standard set of one year.
type GenerateHolidaysRequest struct {
	Year   int    `json:"year"`
	Canton string `json:"canton"`
}

// SaveHolidayDefinitionRequest updates a single calendar row.
type SaveHolidayDefinitionRequest struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Canton     string `json:"canton"`
	IsWorkFree bool   `json:"is_work_free"`
	Active     bool   `json:"active"`
}

// =============================================================================
// DOMAIN -> DTO CONVERSIONS
// =============================================================================

func toEmployeeDTO(e *engine.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                  e.ID,
		Name:                e.Name,
		Email:               e.Email,
		StartDate:           e.StartDate.String(),
		PlannedWeeklyHours:  e.PlannedWeeklyHours.String(),
		WorkdaysPerWeek:     e.Workdays(),
		WorkdayHours:        e.DefaultWorkdayHours().String(),
		VacationDaysPerYear: e.VacationAllotment(),
	}
	if e.WorkdayHoursOverride != nil {
		v := e.WorkdayHoursOverride.String()
		dto.WorkdayHoursSource = &v
	}
	return dto
}

func toTimeEntryDTO(e *engine.TimeEntry) TimeEntryDTO {
	breaks := make([]BreakDTO, 0, len(e.Breaks))
	for _, b := range e.Breaks {
		breaks = append(breaks, BreakDTO{Start: b.Start.String(), End: b.End.String()})
	}
	dto := TimeEntryDTO{
		ID:               e.ID,
		EmployeeID:       e.EmployeeID,
		ProjectID:        e.ProjectID,
		Date:             e.Date.String(),
		Start:            e.Start.String(),
		End:              e.End.String(),
		Breaks:           breaks,
		Title:            e.Title,
		WorkedHours:      e.WorkedHours().String(),
		Billable:         e.Billable,
		Invoiced:         e.Invoiced,
		NightSurcharge:   e.NightSurcharge,
		WeekendSurcharge: e.WeekendSurcharge,
		HolidaySurcharge: e.HolidaySurcharge,
		TravelMinutes:    e.TravelMinutes,
		WaitingMinutes:   e.WaitingMinutes,
		Approved:         e.Approval.Approved,
		ApproverID:       e.Approval.ApproverID,
		ApprovedAt:       formatTimePtr(e.Approval.ApprovedAt),
	}
	if !e.DisposalCost.IsZero() {
		dto.DisposalCost = e.DisposalCost.String()
	}
	return dto
}

func toAbsenceDTO(a *engine.Absence) AbsenceDTO {
	return AbsenceDTO{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		TypeID:     a.TypeID,
		StartDate:  a.StartDate.String(),
		EndDate:    a.EndDate.String(),
		Reason:     a.Reason,
		Status:     string(a.Status),
		ApproverID: a.ApproverID,
		ApprovedAt: formatTimePtr(a.ApprovedAt),
	}
}

func toAbsenceDTOs(absences []engine.Absence) []AbsenceDTO {
	out := make([]AbsenceDTO, 0, len(absences))
	for i := range absences {
		out = append(out, toAbsenceDTO(&absences[i]))
	}
	return out
}

func toDailySummaryDTO(d *engine.DailySummary) DailySummaryDTO {
	entries := make([]TimeEntryDTO, 0, len(d.Entries))
	for i := range d.Entries {
		entries = append(entries, toTimeEntryDTO(&d.Entries[i]))
	}
	return DailySummaryDTO{
		Date:              d.Date.String(),
		Category:          string(d.Category),
		IsWeekend:         d.IsWeekend,
		IsPublicHoliday:   d.IsPublicHoliday,
		PublicHolidayName: d.PublicHolidayName,
		AbsenceTypeCode:   d.AbsenceTypeCode,
		AbsenceApproved:   d.AbsenceApproved,
		ExpectedHours:     d.Expected.String(),
		WorkedHours:       d.Worked.String(),
		Delta:             d.Delta.Signed(),
		Entries:           entries,
		DataQuality:       d.DataQuality,
	}
}

func toDailySummaryDTOs(days []engine.DailySummary) []DailySummaryDTO {
	out := make([]DailySummaryDTO, 0, len(days))
	for i := range days {
		out = append(out, toDailySummaryDTO(&days[i]))
	}
	return out
}

func toWeeklySummaryDTO(w *engine.WeeklySummary) WeeklySummaryDTO {
	return WeeklySummaryDTO{
		EmployeeID:    w.EmployeeID,
		Year:          w.Year,
		Week:          w.Week,
		From:          w.Period.Start.String(),
		To:            w.Period.End.String(),
		TotalWorked:   w.TotalWorked.String(),
		TotalExpected: w.TotalExpected.String(),
		Overtime:      w.Overtime.String(),
		Undertime:     w.Undertime.String(),
		Balance:       w.Balance.Signed(),
		Vacation:      toVacationBalanceDTO(&w.Vacation),
		Days:          toDailySummaryDTOs(w.Days),
	}
}

func toCumulativeBalanceDTO(c *engine.CumulativeAccount) CumulativeBalanceDTO {
	return CumulativeBalanceDTO{
		EmployeeID:    c.EmployeeID,
		Year:          c.Year,
		UpToWeek:      c.UpToWeek,
		From:          c.Period.Start.String(),
		To:            c.Period.End.String(),
		WorkedHours:   c.WorkedHours.String(),
		ExpectedHours: c.ExpectedHours.String(),
		Balance:       c.Formatted,
	}
}

func toVacationBalanceDTO(v *engine.VacationBalance) VacationBalanceDTO {
	return VacationBalanceDTO{
		EmployeeID: v.EmployeeID,
		AsOf:       v.AsOf.String(),
		Total:      v.Total,
		Used:       v.Used,
		Remaining:  v.Remaining,
	}
}

func toHolidayTypeDTO(t *engine.HolidayType) HolidayTypeDTO {
	return HolidayTypeDTO{
		ID:                    t.ID,
		Code:                  t.Code,
		DisplayName:           t.DisplayName,
		Factor:                t.Factor.String(),
		IsSystemType:          t.IsSystemType,
		Active:                t.Active,
		SortOrder:             t.SortOrder,
		CountsAgainstVacation: t.CountsAgainstVacation,
	}
}

func toHolidayDefinitionDTO(d *engine.HolidayDefinition) HolidayDefinitionDTO {
	return HolidayDefinitionDTO{
		ID:         d.ID,
		Year:       d.Year,
		Date:       d.Date.String(),
		Name:       d.Name,
		Kind:       d.Kind,
		Canton:     d.Canton,
		IsWorkFree: d.IsWorkFree,
		Active:     d.Active,
		IsFixed:    d.IsFixed,
		IsEditable: d.IsEditable,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}
