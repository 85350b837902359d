package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
	"github.com/erdemkoca/baunex-timekeeping/store/sqlite"
)

// newStore opens a fresh file-backed store in a per-test temp dir. A file
// beats ":memory:" here: database/sql pools connections and each in-memory
// connection would see its own empty database.
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(t *testing.T, s string) engine.Date {
	t.Helper()
	d, err := engine.ParseDate(s)
	require.NoError(t, err)
	return d
}

func addEmployee(t *testing.T, s *sqlite.Store, name string) *engine.Employee {
	t.Helper()
	emp := &engine.Employee{
		Name:               name,
		Email:              name + "@example.ch",
		StartDate:          date(t, "2024-01-01"),
		PlannedWeeklyHours: engine.NewHours(42.5),
	}
	require.NoError(t, s.SaveEmployee(context.Background(), emp))
	require.NotZero(t, emp.ID)
	return emp
}

func TestMigrationSeedsSystemTypes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	types, err := s.ListHolidayTypes(ctx, true)
	require.NoError(t, err)
	require.Len(t, types, 5)

	vac, err := s.GetHolidayTypeByCode(ctx, engine.TypeVacation)
	require.NoError(t, err)
	assert.True(t, vac.IsSystemType)
	assert.True(t, vac.CountsAgainstVacation)

	// reopening the same file must not duplicate the seed
	s2, err := sqlite.New(filepath.Join(t.TempDir(), "reopen.db"))
	require.NoError(t, err)
	defer s2.Close()
	again, err := s2.ListHolidayTypes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, again, 5)
}

func TestEmployeeRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	override := engine.NewHours(8)
	emp := &engine.Employee{
		Name:                 "Mia Keller",
		Email:                "mia@example.ch",
		StartDate:            date(t, "2024-01-01"),
		PlannedWeeklyHours:   engine.NewHours(42.5),
		WorkdaysPerWeek:      5,
		WorkdayHoursOverride: &override,
		VacationDaysPerYear:  30,
	}
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mia Keller", got.Name)
	assert.Equal(t, "2024-01-01", got.StartDate.String())
	assert.True(t, got.PlannedWeeklyHours.Value.Equal(decimal.NewFromFloat(42.5)))
	require.NotNil(t, got.WorkdayHoursOverride)
	assert.True(t, got.WorkdayHoursOverride.Value.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 30, got.VacationDaysPerYear)

	got.Name = "Mia Keller-Brunner"
	got.WorkdayHoursOverride = nil
	require.NoError(t, s.SaveEmployee(ctx, got))

	updated, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mia Keller-Brunner", updated.Name)
	assert.Nil(t, updated.WorkdayHoursOverride)

	_, err = s.GetEmployee(ctx, 9999)
	assert.ErrorIs(t, err, engine.ErrEmployeeNotFound)
}

func TestListEmployees_SortedByName(t *testing.T) {
	s := newStore(t)

	addEmployee(t, s, "Zoe Steiner")
	addEmployee(t, s, "Andrea Huber")

	list, err := s.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Andrea Huber", list[0].Name)
	assert.Equal(t, "Zoe Steiner", list[1].Name)
}

func TestTimeEntryRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")

	approvedAt := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	entry := &engine.TimeEntry{
		EmployeeID: emp.ID,
		ProjectID:  12,
		Date:       date(t, "2026-01-05"),
		Start:      engine.MinuteOfDay(480),
		End:        engine.MinuteOfDay(1020),
		Breaks: []engine.BreakInterval{
			{Start: engine.MinuteOfDay(720), End: engine.MinuteOfDay(750)},
		},
		Title:        "Panel wiring",
		Billable:     true,
		DisposalCost: decimal.NewFromFloat(12.50),
		Approval: engine.Approval{
			Approved:   true,
			ApproverID: 7,
			ApprovedAt: &approvedAt,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.SaveTimeEntry(ctx, entry))

	got, err := s.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", got.Date.String())
	assert.Equal(t, "08:00", got.Start.String())
	assert.Equal(t, "17:00", got.End.String())
	require.Len(t, got.Breaks, 1)
	assert.Equal(t, 30, got.Breaks[0].Minutes())
	assert.Equal(t, "8.5", got.WorkedHours().String())
	assert.True(t, got.Billable)
	assert.True(t, got.DisposalCost.Equal(decimal.NewFromFloat(12.50)))
	assert.True(t, got.Approval.Approved)
	require.NotNil(t, got.Approval.ApprovedAt)
	assert.True(t, got.Approval.ApprovedAt.Equal(approvedAt))

	got.End = engine.MinuteOfDay(960)
	require.NoError(t, s.SaveTimeEntry(ctx, got))
	updated, err := s.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "16:00", updated.End.String())
}

func TestTimeEntriesInRange(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	other := addEmployee(t, s, "Jonas Frei")

	save := func(day string, start engine.MinuteOfDay, employeeID int64) {
		require.NoError(t, s.SaveTimeEntry(ctx, &engine.TimeEntry{
			EmployeeID: employeeID,
			Date:       date(t, day),
			Start:      start,
			End:        start + 240,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}))
	}
	save("2026-01-06", 780, emp.ID)
	save("2026-01-05", 480, emp.ID)
	save("2026-01-05", 840, emp.ID)
	save("2026-01-12", 480, emp.ID) // outside range
	save("2026-01-05", 480, other.ID)

	entries, err := s.TimeEntriesInRange(ctx, emp.ID, date(t, "2026-01-05"), date(t, "2026-01-11"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// date ascending, then start minute ascending
	assert.Equal(t, "2026-01-05", entries[0].Date.String())
	assert.Equal(t, engine.MinuteOfDay(480), entries[0].Start)
	assert.Equal(t, engine.MinuteOfDay(840), entries[1].Start)
	assert.Equal(t, "2026-01-06", entries[2].Date.String())
}

func TestDeleteTimeEntry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")

	entry := &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       date(t, "2026-01-05"),
		Start:      engine.MinuteOfDay(480),
		End:        engine.MinuteOfDay(720),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.SaveTimeEntry(ctx, entry))

	require.NoError(t, s.DeleteTimeEntry(ctx, entry.ID))
	assert.ErrorIs(t, s.DeleteTimeEntry(ctx, entry.ID), engine.ErrNotFound)
	_, err := s.GetTimeEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCreateExclusive_RejectsOverlap(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	vac, err := s.GetHolidayTypeByCode(ctx, engine.TypeVacation)
	require.NoError(t, err)

	first := &engine.Absence{
		EmployeeID: emp.ID,
		TypeID:     vac.ID,
		StartDate:  date(t, "2026-07-06"),
		EndDate:    date(t, "2026-07-10"),
		Status:     engine.AbsencePending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateExclusive(ctx, first))
	require.NotZero(t, first.ID)

	second := &engine.Absence{
		EmployeeID: emp.ID,
		TypeID:     vac.ID,
		StartDate:  date(t, "2026-07-10"), // shares the last day
		EndDate:    date(t, "2026-07-14"),
		Status:     engine.AbsencePending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	err = s.CreateExclusive(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrAbsenceOverlap)

	var overlap *engine.OverlapError
	require.ErrorAs(t, err, &overlap)
	require.Len(t, overlap.Conflicts, 1)
	assert.Equal(t, first.ID, overlap.Conflicts[0].ID)
	assert.Zero(t, second.ID, "rejected absence is not inserted")
}

func TestCreateExclusive_ConcurrentCreates(t *testing.T) {
	// GIVEN: Eight goroutines racing to create the same absence period
	// WHEN: All call CreateExclusive simultaneously
	// THEN: Exactly one insert wins; the rest get the overlap error

	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	vac, err := s.GetHolidayTypeByCode(ctx, engine.TypeVacation)
	require.NoError(t, err)

	start := date(t, "2026-07-06")
	end := date(t, "2026-07-10")

	const workers = 8
	errs := make([]error, workers)
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-release
			errs[i] = s.CreateExclusive(ctx, &engine.Absence{
				EmployeeID: emp.ID,
				TypeID:     vac.ID,
				StartDate:  start,
				EndDate:    end,
				Status:     engine.AbsencePending,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			})
		}(i)
	}
	close(release)
	wg.Wait()

	inserted := 0
	for _, e := range errs {
		if e == nil {
			inserted++
		} else {
			assert.ErrorIs(t, e, engine.ErrAbsenceOverlap)
		}
	}
	assert.Equal(t, 1, inserted, "exactly one racing create wins")

	stored, err := s.AbsencesByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateExclusive_IgnoresTerminalStatuses(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	vac, err := s.GetHolidayTypeByCode(ctx, engine.TypeVacation)
	require.NoError(t, err)

	cancelled := &engine.Absence{
		EmployeeID: emp.ID,
		TypeID:     vac.ID,
		StartDate:  date(t, "2026-07-06"),
		EndDate:    date(t, "2026-07-10"),
		Status:     engine.AbsencePending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateExclusive(ctx, cancelled))
	cancelled.Status = engine.AbsenceCancelled
	require.NoError(t, s.SaveAbsence(ctx, cancelled))

	replacement := &engine.Absence{
		EmployeeID: emp.ID,
		TypeID:     vac.ID,
		StartDate:  date(t, "2026-07-06"),
		EndDate:    date(t, "2026-07-10"),
		Status:     engine.AbsencePending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	assert.NoError(t, s.CreateExclusive(ctx, replacement))
}

func TestAbsencesByEmployee_StatusFilter(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	vac, err := s.GetHolidayTypeByCode(ctx, engine.TypeVacation)
	require.NoError(t, err)

	add := func(start, end string, status engine.AbsenceStatus) {
		a := &engine.Absence{
			EmployeeID: emp.ID,
			TypeID:     vac.ID,
			StartDate:  date(t, start),
			EndDate:    date(t, end),
			Status:     engine.AbsencePending,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		require.NoError(t, s.CreateExclusive(ctx, a))
		if status != engine.AbsencePending {
			a.Status = status
			require.NoError(t, s.SaveAbsence(ctx, a))
		}
	}
	add("2026-03-02", "2026-03-06", engine.AbsenceApproved)
	add("2026-04-06", "2026-04-10", engine.AbsencePending)
	add("2026-05-04", "2026-05-08", engine.AbsenceRejected)

	all, err := s.AbsencesByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	blocking, err := s.AbsencesByEmployee(ctx, emp.ID, engine.AbsencePending, engine.AbsenceApproved)
	require.NoError(t, err)
	require.Len(t, blocking, 2)
	assert.Equal(t, "2026-03-02", blocking[0].StartDate.String(), "sorted by start date")
	assert.Equal(t, "2026-04-06", blocking[1].StartDate.String())
}

func TestSaveAbsence_UnknownID(t *testing.T) {
	s := newStore(t)
	err := s.SaveAbsence(context.Background(), &engine.Absence{
		ID:        9999,
		StartDate: date(t, "2026-07-06"),
		EndDate:   date(t, "2026-07-10"),
		Status:    engine.AbsenceApproved,
		UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestHolidayDefinitionRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	def := &engine.HolidayDefinition{
		Year:       2026,
		Date:       date(t, "2026-08-01"),
		Name:       "National Day",
		Kind:       "national",
		Canton:     "ZH",
		IsWorkFree: true,
		Active:     true,
		IsFixed:    true,
		IsEditable: true,
	}
	require.NoError(t, s.SaveHolidayDefinition(ctx, def))
	require.NotZero(t, def.ID)

	got, err := s.GetHolidayDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "National Day", got.Name)
	assert.Equal(t, "ZH", got.Canton)

	byYear, err := s.HolidayDefinitionsByYear(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, byYear, 1)
	empty, err := s.HolidayDefinitionsByYear(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.DeleteHolidayDefinition(ctx, def.ID))
	assert.ErrorIs(t, s.DeleteHolidayDefinition(ctx, def.ID), engine.ErrNotFound)
}

func TestReset_KeepsSystemTypes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	emp := addEmployee(t, s, "Mia Keller")
	require.NoError(t, s.SaveHolidayDefinition(ctx, &engine.HolidayDefinition{
		Year: 2026, Date: date(t, "2026-08-01"), Name: "National Day", Active: true,
	}))

	require.NoError(t, s.Reset(ctx))

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	_, err = s.GetEmployee(ctx, emp.ID)
	assert.ErrorIs(t, err, engine.ErrEmployeeNotFound)

	defs, err := s.HolidayDefinitionsByYear(ctx, 2026)
	require.NoError(t, err)
	assert.Empty(t, defs)

	types, err := s.ListHolidayTypes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, types, 5)
}
