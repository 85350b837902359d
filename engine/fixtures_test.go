package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
	"github.com/erdemkoca/baunex-timekeeping/engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newMemory(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory()
}

func day(t *testing.T, s string) engine.Date {
	t.Helper()
	d, err := engine.ParseDate(s)
	require.NoError(t, err)
	return d
}

func clock(t *testing.T, s string) engine.MinuteOfDay {
	t.Helper()
	m, err := engine.ParseMinuteOfDay(s)
	require.NoError(t, err)
	return m
}

// seedEmployee creates the standard test employee: 42.5h per week over
// five days, so 8.5h per workday, employed since 2024-01-01.
func seedEmployee(t *testing.T, m *store.Memory) *engine.Employee {
	t.Helper()
	emp := &engine.Employee{
		Name:               "Mia Keller",
		Email:              "mia@example.com",
		StartDate:          day(t, "2024-01-01"),
		PlannedWeeklyHours: engine.NewHours(42.5),
	}
	require.NoError(t, m.SaveEmployee(context.Background(), emp))
	return emp
}

func typeIDByCode(t *testing.T, m *store.Memory, code string) int64 {
	t.Helper()
	ht, err := m.GetHolidayTypeByCode(context.Background(), code)
	require.NoError(t, err)
	return ht.ID
}

// seedHoliday adds one active work-free holiday definition.
func seedHoliday(t *testing.T, m *store.Memory, date, name, canton string) *engine.HolidayDefinition {
	t.Helper()
	d := day(t, date)
	def := &engine.HolidayDefinition{
		Year:       d.Year(),
		Date:       d,
		Name:       name,
		Kind:       "national",
		Canton:     canton,
		IsWorkFree: true,
		Active:     true,
		IsFixed:    true,
		IsEditable: true,
	}
	require.NoError(t, m.SaveHolidayDefinition(context.Background(), def))
	return def
}

// seedAbsence inserts an absence directly, bypassing service validation.
func seedAbsence(t *testing.T, m *store.Memory, employeeID int64, typeCode, start, end string, status engine.AbsenceStatus) *engine.Absence {
	t.Helper()
	a := &engine.Absence{
		EmployeeID: employeeID,
		TypeID:     typeIDByCode(t, m, typeCode),
		StartDate:  day(t, start),
		EndDate:    day(t, end),
		Status:     engine.AbsencePending,
	}
	require.NoError(t, m.CreateExclusive(context.Background(), a))
	if status != engine.AbsencePending {
		a.Status = status
		require.NoError(t, m.SaveAbsence(context.Background(), a))
	}
	return a
}

// seedEntry inserts a time entry directly.
func seedEntry(t *testing.T, m *store.Memory, employeeID int64, date, start, end string, breaks ...engine.BreakInterval) *engine.TimeEntry {
	t.Helper()
	e := &engine.TimeEntry{
		EmployeeID: employeeID,
		Date:       day(t, date),
		Start:      clock(t, start),
		End:        clock(t, end),
		Breaks:     breaks,
	}
	require.NoError(t, m.SaveTimeEntry(context.Background(), e))
	return e
}

func lunch(t *testing.T, start, end string) engine.BreakInterval {
	t.Helper()
	return engine.BreakInterval{Start: clock(t, start), End: clock(t, end)}
}
