package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

func TestVacationLedger_DefaultAllotment(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-06-30"))
	require.NoError(t, err)

	assert.Equal(t, 25, b.Total)
	assert.Equal(t, 0, b.Used)
	assert.Equal(t, 25, b.Remaining)
}

func TestVacationLedger_ApprovedVacationDeducts(t *testing.T) {
	// GIVEN: An approved Monday-to-Friday vacation
	// WHEN: Reading the balance after it
	// THEN: Five calendar days are used

	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedAbsence(t, m, emp.ID, engine.TypeVacation, "2026-07-06", "2026-07-10", engine.AbsenceApproved)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-12-31"))
	require.NoError(t, err)

	assert.Equal(t, 5, b.Used)
	assert.Equal(t, 20, b.Remaining)
}

func TestVacationLedger_PendingDoesNotDeduct(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedAbsence(t, m, emp.ID, engine.TypeVacation, "2026-07-06", "2026-07-10", engine.AbsencePending)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-12-31"))
	require.NoError(t, err)

	assert.Equal(t, 0, b.Used)
}

func TestVacationLedger_SicknessDoesNotDeduct(t *testing.T) {
	// Only types that count against vacation consume the allotment.

	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedAbsence(t, m, emp.ID, engine.TypeSickness, "2026-07-06", "2026-07-10", engine.AbsenceApproved)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-12-31"))
	require.NoError(t, err)

	assert.Equal(t, 0, b.Used)
}

func TestVacationLedger_AsOfClampsTheRange(t *testing.T) {
	// Days of an approved vacation after the asOf date are not yet used.

	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedAbsence(t, m, emp.ID, engine.TypeVacation, "2026-07-06", "2026-07-10", engine.AbsenceApproved)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-07-08"))
	require.NoError(t, err)

	assert.Equal(t, 3, b.Used, "only Mon-Wed have elapsed")
	assert.Equal(t, 22, b.Remaining)
}

func TestVacationLedger_OtherYearIgnored(t *testing.T) {
	// The allotment resets per year; last year's vacation does not count
	// against this year's balance.

	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedAbsence(t, m, emp.ID, engine.TypeVacation, "2025-07-07", "2025-07-11", engine.AbsenceApproved)
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-06-30"))
	require.NoError(t, err)

	assert.Equal(t, 0, b.Used)
}

func TestVacationLedger_CustomAllotment(t *testing.T) {
	m := newMemory(t)
	emp := &engine.Employee{
		Name:                "Sara Vogel",
		StartDate:           day(t, "2024-01-01"),
		PlannedWeeklyHours:  engine.NewHours(34.0),
		WorkdaysPerWeek:     4,
		VacationDaysPerYear: 30,
	}
	require.NoError(t, m.SaveEmployee(context.Background(), emp))
	ledger := engine.NewVacationLedger(m)

	b, err := ledger.Balance(context.Background(), emp.ID, day(t, "2026-06-30"))
	require.NoError(t, err)

	assert.Equal(t, 30, b.Total)
}
