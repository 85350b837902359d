package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

func newTestEntryService(t *testing.T) (*engine.TimeEntryService, *engine.Employee) {
	t.Helper()
	m := newMemory(t)
	emp := seedEmployee(t, m)
	return engine.NewTimeEntryService(m), emp
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestTimeEntryService_Create_Valid(t *testing.T) {
	svc, emp := newTestEntryService(t)

	created, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "17:00"),
		Breaks:     []engine.BreakInterval{lunch(t, "12:00", "12:30")},
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.False(t, created.Approval.Approved, "new entries start unapproved")
	assert.Equal(t, "8.5", created.WorkedHours().String())
}

func TestTimeEntryService_Create_EndBeforeStart(t *testing.T) {
	svc, emp := newTestEntryService(t)

	_, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "17:00"),
		End:        clock(t, "08:00"),
	})
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

func TestTimeEntryService_Create_BreakOutsideSpan(t *testing.T) {
	svc, emp := newTestEntryService(t)

	_, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "12:00"),
		Breaks:     []engine.BreakInterval{lunch(t, "12:00", "12:30")},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidHours)
}

func TestTimeEntryService_Create_OverlappingBreaks(t *testing.T) {
	svc, emp := newTestEntryService(t)

	_, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "17:00"),
		Breaks: []engine.BreakInterval{
			lunch(t, "12:00", "13:00"),
			lunch(t, "12:30", "14:00"),
		},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidHours)
}

func TestTimeEntryService_Create_FullyConsumedByBreak(t *testing.T) {
	svc, emp := newTestEntryService(t)

	_, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "09:00"),
		Breaks:     []engine.BreakInterval{lunch(t, "08:00", "09:00")},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidHours)
}

func TestTimeEntryService_Create_UnknownEmployee(t *testing.T) {
	svc, _ := newTestEntryService(t)

	_, err := svc.Create(context.Background(), &engine.TimeEntry{
		EmployeeID: 999,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "17:00"),
	})
	assert.ErrorIs(t, err, engine.ErrEmployeeNotFound)
}

// =============================================================================
// UPDATE / DELETE
// =============================================================================

func TestTimeEntryService_Update_PreservesApprovalAndInvoiced(t *testing.T) {
	// GIVEN: An approved entry
	// WHEN: Editing its hours
	// THEN: The edit succeeds and the approval state survives

	m := newMemory(t)
	emp := seedEmployee(t, m)
	svc := engine.NewTimeEntryService(m)
	ctx := context.Background()

	created, err := svc.Create(ctx, &engine.TimeEntry{
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "17:00"),
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, created.ID, 42)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &engine.TimeEntry{
		ID:         created.ID,
		EmployeeID: emp.ID,
		Date:       day(t, "2026-01-05"),
		Start:      clock(t, "08:00"),
		End:        clock(t, "16:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "8.0", updated.WorkedHours().String())
	assert.True(t, updated.Approval.Approved)
	assert.Equal(t, int64(42), updated.Approval.ApproverID)
}

func TestTimeEntryService_Delete(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	svc := engine.NewTimeEntryService(m)
	ctx := context.Background()

	entry := seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "12:00")
	require.NoError(t, svc.Delete(ctx, entry.ID))

	_, err := m.GetTimeEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestTimeEntryService_Delete_InvoicedRejected(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	svc := engine.NewTimeEntryService(m)
	ctx := context.Background()

	entry := seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "12:00")
	entry.Invoiced = true
	require.NoError(t, m.SaveTimeEntry(ctx, entry))

	err := svc.Delete(ctx, entry.ID)
	assert.ErrorIs(t, err, engine.ErrEntryInvoiced)

	_, err = m.GetTimeEntry(ctx, entry.ID)
	assert.NoError(t, err, "invoiced entry must survive the delete attempt")
}

// =============================================================================
// APPROVAL
// =============================================================================

func TestTimeEntryService_Approve_Idempotent(t *testing.T) {
	// Approving twice keeps the first approver and timestamp.

	m := newMemory(t)
	emp := seedEmployee(t, m)
	svc := engine.NewTimeEntryService(m)
	ctx := context.Background()

	entry := seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "12:00")

	first, err := svc.Approve(ctx, entry.ID, 7)
	require.NoError(t, err)
	require.True(t, first.Approval.Approved)

	second, err := svc.Approve(ctx, entry.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(7), second.Approval.ApproverID, "second approval is a no-op")
	assert.Equal(t, first.Approval.ApprovedAt, second.Approval.ApprovedAt)
}

func TestTimeEntryService_ApproveRange(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	svc := engine.NewTimeEntryService(m)
	ctx := context.Background()

	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "12:00")
	seedEntry(t, m, emp.ID, "2026-01-06", "08:00", "12:00")
	outside := seedEntry(t, m, emp.ID, "2026-01-12", "08:00", "12:00")

	approved, err := svc.ApproveRange(ctx, emp.ID, day(t, "2026-01-05"), day(t, "2026-01-11"), 7)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	got, err := m.GetTimeEntry(ctx, outside.ID)
	require.NoError(t, err)
	assert.False(t, got.Approval.Approved, "entry outside the range stays untouched")
}

func TestTimeEntryService_ApproveRange_InvertedRange(t *testing.T) {
	svc, emp := newTestEntryService(t)

	_, err := svc.ApproveRange(context.Background(), emp.ID, day(t, "2026-01-11"), day(t, "2026-01-05"), 7)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}
