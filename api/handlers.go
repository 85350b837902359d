/*
handlers.go - HTTP API handlers for the timekeeping engine

PURPOSE:
  Exposes the timekeeping engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                        List all employees
    POST   /api/employees                        Create employee
    GET    /api/employees/{id}                   Get employee details
    GET    /api/employees/{id}/days              Daily summaries for a range
    GET    /api/employees/{id}/weeks/{year}/{week}    Weekly summary
    GET    /api/employees/{id}/months/{year}/{month}  Monthly day summaries
    GET    /api/employees/{id}/balance           Cumulative overtime account
    GET    /api/employees/{id}/vacation          Vacation day balance
    GET    /api/employees/{id}/absences          Absences of one employee

  Time entries:
    GET    /api/time-entries                     List by employee and range
    POST   /api/time-entries                     Create entry
    GET    /api/time-entries/{id}                Get entry
    PUT    /api/time-entries/{id}                Update entry
    DELETE /api/time-entries/{id}                Delete entry
    POST   /api/time-entries/{id}/approve        Approve one entry
    POST   /api/time-entries/approve-range       Approve a date range

  Absences:
    POST   /api/absences                         Submit request (409 on overlap)
    POST   /api/absences/override                Submit, cancelling conflicts
    GET    /api/absences/{id}                    Get request
    POST   /api/absences/{id}/approve            Approve
    POST   /api/absences/{id}/reject             Reject
    POST   /api/absences/{id}/cancel             Cancel

  Holiday catalog:
    GET    /api/holiday-types                    List absence types
    POST   /api/holiday-types                    Create custom type
    PUT    /api/holiday-types/{id}               Update type
    POST   /api/holiday-types/{id}/deactivate    Soft-deactivate
    POST   /api/holiday-types/{id}/activate      Reactivate

  Holiday calendar:
    GET    /api/holidays                         List definitions of a year
    POST   /api/holidays/generate                Generate standard set
    PUT    /api/holidays/{id}                    Update definition
    DELETE /api/holidays/{id}                    Delete definition

  Dev tooling:
    GET    /api/scenarios                        List demo scenarios
    GET    /api/scenarios/current                Currently loaded scenario
    POST   /api/scenarios/load                   Reset and load a scenario
    POST   /api/reset                            Wipe all mutable data

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Absence overlap, invalid state transition
  - 500: Internal errors
  Overlap conflicts carry the conflicting absences in the body so
  clients can offer the override flow.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Resetter is implemented by stores that support wiping all data (dev only).
type Resetter interface {
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.Store
	Absences *engine.AbsenceService
	Entries  *engine.TimeEntryService
	Types    *engine.HolidayTypeService
	Calendar *engine.HolidayDefinitionService
	Balance  *engine.BalanceAggregator
	Vacation *engine.VacationLedger

	currentScenario string
}

// NewHandler wires the domain services around the given store. The canton
// scopes which regional public holidays count as work-free.
func NewHandler(store engine.Store, canton string) *Handler {
	return &Handler{
		Store:    store,
		Absences: engine.NewAbsenceService(store),
		Entries:  engine.NewTimeEntryService(store),
		Types:    engine.NewHolidayTypeService(store),
		Calendar: engine.NewHolidayDefinitionService(store),
		Balance:  engine.NewBalanceAggregator(store, canton),
		Vacation: engine.NewVacationLedger(store),
	}
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for i := range employees {
		dtos = append(dtos, toEmployeeDTO(&employees[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	planned, err := decimal.NewFromString(req.PlannedWeeklyHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid planned_weekly_hours", err)
		return
	}

	emp := &engine.Employee{
		Name:                req.Name,
		Email:               req.Email,
		StartDate:           startDate,
		PlannedWeeklyHours:  engine.Hours{Value: planned},
		WorkdaysPerWeek:     req.WorkdaysPerWeek,
		VacationDaysPerYear: req.VacationDaysPerYear,
	}
	if req.WorkdayHoursOverride != nil {
		override, err := decimal.NewFromString(*req.WorkdayHoursOverride)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid workday_hours_override", err)
			return
		}
		emp.WorkdayHoursOverride = &engine.Hours{Value: override}
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns one employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetDays returns daily summaries for a date range.
// GET /api/employees/{id}/days?from=2026-01-05&to=2026-01-11
func (h *Handler) GetDays(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	from, to, ok := rangeParams(w, r)
	if !ok {
		return
	}

	days, err := h.Balance.DailySummaries(r.Context(), id, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySummaryDTOs(days))
}

// GetWeek returns the weekly summary for one ISO week.
// GET /api/employees/{id}/weeks/{year}/{week}
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	year, ok := intURLParam(w, r, "year")
	if !ok {
		return
	}
	week, ok := intURLParam(w, r, "week")
	if !ok {
		return
	}

	summary, err := h.Balance.WeeklySummary(r.Context(), id, year, week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklySummaryDTO(summary))
}

// GetMonth returns daily summaries for one calendar month.
// GET /api/employees/{id}/months/{year}/{month}
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	year, ok := intURLParam(w, r, "year")
	if !ok {
		return
	}
	month, ok := intURLParam(w, r, "month")
	if !ok {
		return
	}
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12", nil)
		return
	}

	days, err := h.Balance.MonthlySummaries(r.Context(), id, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySummaryDTOs(days))
}

// GetBalance returns the cumulative overtime account through a week.
// GET /api/employees/{id}/balance?year=2026&week=10
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	year, ok := intQueryParam(w, r, "year")
	if !ok {
		return
	}
	week, ok := intQueryParam(w, r, "week")
	if !ok {
		return
	}

	account, err := h.Balance.CumulativeBalance(r.Context(), id, year, week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCumulativeBalanceDTO(account))
}

// GetVacation returns the vacation balance as of a date (default today).
// GET /api/employees/{id}/vacation?as_of=2026-06-30
func (h *Handler) GetVacation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	asOf := engine.Today()
	if v := r.URL.Query().Get("as_of"); v != "" {
		var err error
		if asOf, err = engine.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of", err)
			return
		}
	}

	balance, err := h.Vacation.Balance(r.Context(), id, asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationBalanceDTO(balance))
}

// ListEmployeeAbsences returns the absences of one employee, optionally
// filtered by status.
// GET /api/employees/{id}/absences?status=pending
func (h *Handler) ListEmployeeAbsences(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var statuses []engine.AbsenceStatus
	if v := r.URL.Query().Get("status"); v != "" {
		statuses = append(statuses, engine.AbsenceStatus(v))
	}

	absences, err := h.Store.AbsencesByEmployee(r.Context(), id, statuses...)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTOs(absences))
}

// =============================================================================
// TIME ENTRY ENDPOINTS
// =============================================================================

// ListTimeEntries returns entries of one employee in a date range.
// GET /api/time-entries?employee_id=1&from=2026-01-01&to=2026-01-31
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := intQueryParam(w, r, "employee_id")
	if !ok {
		return
	}
	from, to, ok := rangeParams(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.TimeEntriesInRange(r.Context(), int64(employeeID), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]TimeEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toTimeEntryDTO(&entries[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTimeEntry logs a new work interval.
// POST /api/time-entries
func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := decodeTimeEntry(w, r, 0)
	if !ok {
		return
	}

	created, err := h.Entries.Create(r.Context(), entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeEntryDTO(created))
}

// GetTimeEntry returns one entry.
// GET /api/time-entries/{id}
func (h *Handler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	entry, err := h.Store.GetTimeEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeEntryDTO(entry))
}

// UpdateTimeEntry replaces the editable fields of an entry.
// PUT /api/time-entries/{id}
func (h *Handler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	entry, ok := decodeTimeEntry(w, r, id)
	if !ok {
		return
	}

	updated, err := h.Entries.Update(r.Context(), entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeEntryDTO(updated))
}

// DeleteTimeEntry removes an entry unless it is invoiced.
// DELETE /api/time-entries/{id}
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Entries.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ApproveTimeEntry approves one entry. Approving twice is a no-op.
// POST /api/time-entries/{id}/approve
func (h *Handler) ApproveTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.Entries.Approve(r.Context(), id, req.ApproverID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeEntryDTO(entry))
}

// ApproveTimeEntryRange approves every entry in a date range. Individual
// failures do not roll back earlier approvals; they are reported per entry.
// POST /api/time-entries/approve-range
func (h *Handler) ApproveTimeEntryRange(w http.ResponseWriter, r *http.Request) {
	var req ApproveRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	from, err := engine.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from", err)
		return
	}
	to, err := engine.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to", err)
		return
	}

	approved, err := h.Entries.ApproveRange(r.Context(), req.EmployeeID, from, to, req.ApproverID)

	resp := ApproveRangeResponse{Approved: make([]TimeEntryDTO, 0, len(approved))}
	for i := range approved {
		resp.Approved = append(resp.Approved, toTimeEntryDTO(&approved[i]))
	}

	var batchErr *engine.BatchApprovalError
	if errors.As(err, &batchErr) {
		resp.Failures = make(map[int64]string, len(batchErr.Failures))
		for entryID, cause := range batchErr.Failures {
			resp.Failures[entryID] = cause.Error()
		}
		// Partial success: report 207-style via 200 with failure map
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeTimeEntry(w http.ResponseWriter, r *http.Request, id int64) (*engine.TimeEntry, bool) {
	var req SaveTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return nil, false
	}
	start, err := engine.ParseMinuteOfDay(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start", err)
		return nil, false
	}
	end, err := engine.ParseMinuteOfDay(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end", err)
		return nil, false
	}

	entry := &engine.TimeEntry{
		ID:               id,
		EmployeeID:       req.EmployeeID,
		ProjectID:        req.ProjectID,
		Date:             date,
		Start:            start,
		End:              end,
		Title:            req.Title,
		Billable:         req.Billable,
		NightSurcharge:   req.NightSurcharge,
		WeekendSurcharge: req.WeekendSurcharge,
		HolidaySurcharge: req.HolidaySurcharge,
		TravelMinutes:    req.TravelMinutes,
		WaitingMinutes:   req.WaitingMinutes,
	}
	for _, b := range req.Breaks {
		bs, err := engine.ParseMinuteOfDay(b.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid break start", err)
			return nil, false
		}
		be, err := engine.ParseMinuteOfDay(b.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid break end", err)
			return nil, false
		}
		entry.Breaks = append(entry.Breaks, engine.BreakInterval{Start: bs, End: be})
	}
	if req.DisposalCost != "" {
		cost, err := decimal.NewFromString(req.DisposalCost)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid disposal_cost", err)
			return nil, false
		}
		entry.DisposalCost = cost
	}
	return entry, true
}

// =============================================================================
// ABSENCE ENDPOINTS
// =============================================================================

// CreateAbsence submits a new absence request. Overlaps with pending or
// approved absences are rejected with 409 and the conflict list.
// POST /api/absences
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeAbsenceInput(w, r)
	if !ok {
		return
	}

	absence, err := h.Absences.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAbsenceDTO(absence))
}

// OverrideAbsence submits a request and cancels every conflicting one.
// POST /api/absences/override
func (h *Handler) OverrideAbsence(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeAbsenceInput(w, r)
	if !ok {
		return
	}

	created, cancelled, err := h.Absences.CreateWithOverride(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, OverrideAbsenceResponse{
		Created:   toAbsenceDTO(created),
		Cancelled: toAbsenceDTOs(cancelled),
	})
}

// GetAbsence returns one absence request.
// GET /api/absences/{id}
func (h *Handler) GetAbsence(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	absence, err := h.Store.GetAbsence(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTO(absence))
}

// ApproveAbsence approves a pending request. Re-approving is a no-op.
// POST /api/absences/{id}/approve
func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	h.transitionAbsence(w, r, engine.AbsenceApproved)
}

// RejectAbsence rejects a pending request.
// POST /api/absences/{id}/reject
func (h *Handler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	h.transitionAbsence(w, r, engine.AbsenceRejected)
}

// CancelAbsence cancels a pending or approved request.
// POST /api/absences/{id}/cancel
func (h *Handler) CancelAbsence(w http.ResponseWriter, r *http.Request) {
	h.transitionAbsence(w, r, engine.AbsenceCancelled)
}

func (h *Handler) transitionAbsence(w http.ResponseWriter, r *http.Request, target engine.AbsenceStatus) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ApprovalRequest
	if r.Body != nil {
		// Body is optional for cancel
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var (
		absence *engine.Absence
		err     error
	)
	switch target {
	case engine.AbsenceApproved:
		absence, err = h.Absences.Approve(r.Context(), id, req.ApproverID)
	case engine.AbsenceRejected:
		absence, err = h.Absences.Reject(r.Context(), id, req.ApproverID)
	default:
		absence, err = h.Absences.Cancel(r.Context(), id)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTO(absence))
}

func decodeAbsenceInput(w http.ResponseWriter, r *http.Request) (engine.CreateInput, bool) {
	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return engine.CreateInput{}, false
	}

	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return engine.CreateInput{}, false
	}
	end, err := engine.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return engine.CreateInput{}, false
	}
	return engine.CreateInput{
		EmployeeID: req.EmployeeID,
		TypeCode:   req.TypeCode,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}, true
}

// =============================================================================
// HOLIDAY TYPE ENDPOINTS
// =============================================================================

// ListHolidayTypes returns the absence type catalog.
// GET /api/holiday-types?include_inactive=true
func (h *Handler) ListHolidayTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	types, err := h.Store.ListHolidayTypes(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holiday types", err)
		return
	}

	dtos := make([]HolidayTypeDTO, 0, len(types))
	for i := range types {
		dtos = append(dtos, toHolidayTypeDTO(&types[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHolidayType adds a custom absence type.
// POST /api/holiday-types
func (h *Handler) CreateHolidayType(w http.ResponseWriter, r *http.Request) {
	t, ok := decodeHolidayType(w, r)
	if !ok {
		return
	}

	created, err := h.Types.Create(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayTypeDTO(created))
}

// UpdateHolidayType updates a custom absence type. System types are
// immutable.
// PUT /api/holiday-types/{id}
func (h *Handler) UpdateHolidayType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	t, ok := decodeHolidayType(w, r)
	if !ok {
		return
	}
	t.ID = id

	updated, err := h.Types.Update(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayTypeDTO(updated))
}

// DeactivateHolidayType soft-deactivates a custom type. Historical
// absences keep referencing it.
// POST /api/holiday-types/{id}/deactivate
func (h *Handler) DeactivateHolidayType(w http.ResponseWriter, r *http.Request) {
	h.setHolidayTypeActive(w, r, false)
}

// ActivateHolidayType reactivates a custom type.
// POST /api/holiday-types/{id}/activate
func (h *Handler) ActivateHolidayType(w http.ResponseWriter, r *http.Request) {
	h.setHolidayTypeActive(w, r, true)
}

func (h *Handler) setHolidayTypeActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var (
		t   *engine.HolidayType
		err error
	)
	if active {
		t, err = h.Types.Activate(r.Context(), id)
	} else {
		t, err = h.Types.Deactivate(r.Context(), id)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayTypeDTO(t))
}

func decodeHolidayType(w http.ResponseWriter, r *http.Request) (*engine.HolidayType, bool) {
	var req SaveHolidayTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	factor := decimal.Zero
	if req.Factor != "" {
		var err error
		if factor, err = decimal.NewFromString(req.Factor); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid factor", err)
			return nil, false
		}
	}
	return &engine.HolidayType{
		Code:                  req.Code,
		DisplayName:           req.DisplayName,
		Factor:                factor,
		SortOrder:             req.SortOrder,
		CountsAgainstVacation: req.CountsAgainstVacation,
	}, true
}

// =============================================================================
// HOLIDAY DEFINITION ENDPOINTS
// =============================================================================

// ListHolidays returns the public-holiday definitions of one year.
// GET /api/holidays?year=2026
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := intQueryParam(w, r, "year")
	if !ok {
		return
	}

	defs, err := h.Store.HolidayDefinitionsByYear(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDefinitionDTO, 0, len(defs))
	for i := range defs {
		dtos = append(dtos, toHolidayDefinitionDTO(&defs[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GenerateHolidays creates the standard holiday set for one year.
// Existing rows on the same dates are left untouched.
// POST /api/holidays/generate
func (h *Handler) GenerateHolidays(w http.ResponseWriter, r *http.Request) {
	var req GenerateHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1900 || req.Year > 2200 {
		writeError(w, http.StatusBadRequest, "year out of range", nil)
		return
	}

	created, err := h.Calendar.GenerateYear(r.Context(), req.Year, req.Canton)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"year":    req.Year,
		"canton":  req.Canton,
		"created": len(created),
	}).Info("holiday set generated")

	dtos := make([]HolidayDefinitionDTO, 0, len(created))
	for i := range created {
		dtos = append(dtos, toHolidayDefinitionDTO(&created[i]))
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// UpdateHoliday updates one holiday definition.
// PUT /api/holidays/{id}
func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req SaveHolidayDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	updated, err := h.Calendar.Update(r.Context(), &engine.HolidayDefinition{
		ID:         id,
		Date:       date,
		Name:       req.Name,
		Kind:       req.Kind,
		Canton:     req.Canton,
		IsWorkFree: req.IsWorkFree,
		Active:     req.Active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDefinitionDTO(updated))
}

// DeleteHoliday removes one holiday definition.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Calendar.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// ResetDatabase wipes all mutable data. Dev/demo only.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	resetter, ok := h.Store.(Resetter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Store does not support reset", nil)
		return
	}
	if err := resetter.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
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

// writeDomainError maps engine errors to HTTP statuses. Overlap conflicts
// get a body that carries the conflicting absences.
func writeDomainError(w http.ResponseWriter, err error) {
	var overlap *engine.OverlapError
	if errors.As(err, &overlap) {
		writeJSON(w, http.StatusConflict, ConflictResponse{
			Error:     overlap.Error(),
			Conflicts: toAbsenceDTOs(overlap.Conflicts),
		})
		return
	}

	switch {
	case errors.Is(err, engine.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "Invalid state transition", err)
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func intURLParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return v, true
}

func intQueryParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid "+name, err)
		return 0, false
	}
	return v, true
}

func rangeParams(w http.ResponseWriter, r *http.Request) (engine.Date, engine.Date, bool) {
	from, err := engine.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid from", err)
		return engine.Date{}, engine.Date{}, false
	}
	to, err := engine.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid to", err)
		return engine.Date{}, engine.Date{}, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "from must not be after to", engine.ErrInvalidDateRange)
		return engine.Date{}, engine.Date{}, false
	}
	return from, to, true
}
