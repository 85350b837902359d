/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, the holiday
	calendar, time entries, and absences that demonstrate specific features.

AVAILABLE SCENARIOS:

	small-team:        Two employees with a logged week and an approved vacation
	overtime-week:     One employee with overtime and undertime days
	absence-conflicts: Pending, approved, and cancelled absence requests
	part-time:         Four-day week with a workday hours override

HOW SCENARIOS WORK:
 1. Reset database (clear all mutable data, system types survive)
 2. Generate the public-holiday calendar
 3. Create employees
 4. Log time entries and submit absences
 5. Approve a subset to show both lifecycle states

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "small-team"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase shares the same Resetter requirement
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

// demoYear keeps scenario data deterministic instead of drifting with the
// wall clock.
const demoYear = 2026

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Two employees, a fully logged week, and an approved vacation",
	},
	{
		ID:          "overtime-week",
		Name:        "Overtime Week",
		Description: "Long Monday, short Tuesday: overtime and undertime side by side",
	},
	{
		ID:          "absence-conflicts",
		Name:        "Absence Conflicts",
		Description: "Pending, approved, and cancelled requests around the same weeks",
	},
	{
		ID:          "part-time",
		Name:        "Part-Time",
		Description: "Four-day week with a workday hours override",
	},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads one demo scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resetter, ok := h.Store.(Resetter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Store does not support reset", nil)
		return
	}

	ctx := r.Context()
	if err := resetter.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "small-team":
		err = h.loadSmallTeamScenario(ctx)
	case "overtime-week":
		err = h.loadOvertimeWeekScenario(ctx)
	case "absence-conflicts":
		err = h.loadAbsenceConflictsScenario(ctx)
	case "part-time":
		err = h.loadPartTimeScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	logrus.WithField("scenario", req.ScenarioID).Info("demo scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadSmallTeamScenario: two employees, the Mia week fully logged, one
// approved vacation for Jonas.
func (h *Handler) loadSmallTeamScenario(ctx context.Context) error {
	if _, err := h.Calendar.GenerateYear(ctx, demoYear, ""); err != nil {
		return err
	}

	mia, err := h.demoEmployee(ctx, "Mia Keller", "mia@example.ch", 42.5)
	if err != nil {
		return err
	}
	jonas, err := h.demoEmployee(ctx, "Jonas Frei", "jonas@example.ch", 40)
	if err != nil {
		return err
	}

	// ISO week 2, Mon-Fri 08:00-17:00 with lunch
	for _, d := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		if err := h.demoEntry(ctx, mia.ID, d, "08:00", "17:00"); err != nil {
			return err
		}
	}

	vacation, err := h.demoAbsence(ctx, jonas.ID, engine.TypeVacation, "2026-02-09", "2026-02-13", "Ski week")
	if err != nil {
		return err
	}
	_, err = h.Absences.Approve(ctx, vacation.ID, mia.ID)
	return err
}

// loadOvertimeWeekScenario: a 10.5h Monday and a 6.5h Tuesday so the weekly
// summary shows overtime and undertime without netting.
func (h *Handler) loadOvertimeWeekScenario(ctx context.Context) error {
	if _, err := h.Calendar.GenerateYear(ctx, demoYear, ""); err != nil {
		return err
	}
	mia, err := h.demoEmployee(ctx, "Mia Keller", "mia@example.ch", 42.5)
	if err != nil {
		return err
	}

	days := []struct{ date, start, end string }{
		{"2026-01-05", "07:00", "18:00"}, // 10.5h
		{"2026-01-06", "09:00", "16:00"}, // 6.5h
		{"2026-01-07", "08:00", "17:00"},
		{"2026-01-08", "08:00", "17:00"},
		{"2026-01-09", "08:00", "17:00"},
	}
	for _, d := range days {
		if err := h.demoEntry(ctx, mia.ID, d.date, d.start, d.end); err != nil {
			return err
		}
	}
	return nil
}

// loadAbsenceConflictsScenario: one approved vacation, one pending sickness,
// and a cancelled request whose range is free again.
func (h *Handler) loadAbsenceConflictsScenario(ctx context.Context) error {
	if _, err := h.Calendar.GenerateYear(ctx, demoYear, ""); err != nil {
		return err
	}
	mia, err := h.demoEmployee(ctx, "Mia Keller", "mia@example.ch", 42.5)
	if err != nil {
		return err
	}

	vacation, err := h.demoAbsence(ctx, mia.ID, engine.TypeVacation, "2026-04-27", "2026-05-01", "Spring break")
	if err != nil {
		return err
	}
	if _, err := h.Absences.Approve(ctx, vacation.ID, 1); err != nil {
		return err
	}

	if _, err := h.demoAbsence(ctx, mia.ID, engine.TypeSickness, "2026-03-16", "2026-03-17", ""); err != nil {
		return err
	}

	cancelled, err := h.demoAbsence(ctx, mia.ID, engine.TypeVacation, "2026-06-08", "2026-06-12", "Changed plans")
	if err != nil {
		return err
	}
	_, err = h.Absences.Cancel(ctx, cancelled.ID)
	return err
}

// loadPartTimeScenario: 80% pensum, Monday through Thursday, with an
// explicit workday hours override.
func (h *Handler) loadPartTimeScenario(ctx context.Context) error {
	if _, err := h.Calendar.GenerateYear(ctx, demoYear, ""); err != nil {
		return err
	}

	override := engine.NewHours(8.5)
	emp := &engine.Employee{
		Name:                 "Lea Brunner",
		Email:                "lea@example.ch",
		StartDate:            engine.NewDate(demoYear-2, 1, 1),
		PlannedWeeklyHours:   engine.NewHours(34),
		WorkdaysPerWeek:      4,
		WorkdayHoursOverride: &override,
		VacationDaysPerYear:  20,
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}

	for _, d := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08"} {
		if err := h.demoEntry(ctx, emp.ID, d, "08:00", "17:00"); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func (h *Handler) demoEmployee(ctx context.Context, name, email string, weeklyHours float64) (*engine.Employee, error) {
	emp := &engine.Employee{
		Name:               name,
		Email:              email,
		StartDate:          engine.NewDate(demoYear-2, 1, 1),
		PlannedWeeklyHours: engine.NewHours(weeklyHours),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (h *Handler) demoEntry(ctx context.Context, employeeID int64, date, start, end string) error {
	d, err := engine.ParseDate(date)
	if err != nil {
		return err
	}
	s, err := engine.ParseMinuteOfDay(start)
	if err != nil {
		return err
	}
	e, err := engine.ParseMinuteOfDay(end)
	if err != nil {
		return err
	}

	_, err = h.Entries.Create(ctx, &engine.TimeEntry{
		EmployeeID: employeeID,
		Date:       d,
		Start:      s,
		End:        e,
		Breaks: []engine.BreakInterval{
			{Start: engine.MinuteOfDay(12 * 60), End: engine.MinuteOfDay(12*60 + 30)},
		},
	})
	return err
}

func (h *Handler) demoAbsence(ctx context.Context, employeeID int64, typeCode, start, end, reason string) (*engine.Absence, error) {
	s, err := engine.ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := engine.ParseDate(end)
	if err != nil {
		return nil, err
	}
	return h.Absences.Create(ctx, engine.CreateInput{
		EmployeeID: employeeID,
		TypeCode:   typeCode,
		StartDate:  s,
		EndDate:    e,
		Reason:     reason,
	})
}
