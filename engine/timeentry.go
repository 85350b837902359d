/*
timeentry.go - Time entry CRUD and approval

PURPOSE:
  Validates and persists logged work intervals, and runs the entry
  approval flag's one-way state machine (unapproved -> approved; no
  reject or cancel exists for entries).

VALIDATION (fail closed, before any mutation):
  - end time strictly after start time
  - breaks ordered, pairwise non-overlapping, contained in the span
  - net minutes positive and within a single day
  - deletion refused while the entry is referenced by a published invoice

EDIT AFTER APPROVAL:
  Editing an approved entry is allowed - matching the observed system -
  but logged, since it can silently drift worked hours away from what was
  approved.
*/
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// TimeEntryService persists and approves time entries.
type TimeEntryService struct {
	Store Store
	Now   func() time.Time
}

func NewTimeEntryService(store Store) *TimeEntryService {
	return &TimeEntryService{Store: store, Now: time.Now}
}

// ValidateEntry checks the interval invariants of an entry without touching
// storage: valid clock times, end after start, ordered in-span breaks, and a
// positive net duration.
func ValidateEntry(e *TimeEntry) error {
	if e.EmployeeID == 0 {
		return &MissingFieldError{Field: "employeeId"}
	}
	if e.Date.IsZero() {
		return &MissingFieldError{Field: "date"}
	}
	if !e.Start.Valid() || !e.End.Valid() {
		return &InvalidHoursError{EntryID: e.ID, Minutes: e.SpanMinutes(), Detail: "clock time out of range"}
	}
	if e.End <= e.Start {
		return fmt.Errorf("%w: end %s not after start %s", ErrInvalidDateRange, e.End, e.Start)
	}

	prevEnd := e.Start
	for _, b := range e.Breaks {
		if b.End <= b.Start {
			return &InvalidHoursError{EntryID: e.ID, Minutes: b.Minutes(), Detail: "break end not after break start"}
		}
		if b.Start < prevEnd {
			return &InvalidHoursError{EntryID: e.ID, Minutes: b.Minutes(), Detail: "breaks overlap or are out of order"}
		}
		if b.Start < e.Start || b.End > e.End {
			return &InvalidHoursError{EntryID: e.ID, Minutes: b.Minutes(), Detail: "break outside entry span"}
		}
		prevEnd = b.End
	}

	if net := e.NetMinutes(); net <= 0 {
		return &InvalidHoursError{EntryID: e.ID, Minutes: net, Detail: "no worked time after break subtraction"}
	}
	return nil
}

// Create inserts a new entry as unapproved.
func (s *TimeEntryService) Create(ctx context.Context, e *TimeEntry) (*TimeEntry, error) {
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}
	if _, err := s.Store.GetEmployee(ctx, e.EmployeeID); err != nil {
		return nil, err
	}

	now := s.Now()
	e.ID = 0
	e.Approval = Approval{}
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.Store.SaveTimeEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the mutable fields of an existing entry. Approval state
// survives the edit; edits after approval are permitted but logged.
func (s *TimeEntryService) Update(ctx context.Context, e *TimeEntry) (*TimeEntry, error) {
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}

	existing, err := s.Store.GetTimeEntry(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if existing.Approval.Approved {
		logrus.WithFields(logrus.Fields{
			"entry_id":    e.ID,
			"employee_id": e.EmployeeID,
		}).Warn("editing an approved time entry")
	}

	e.Approval = existing.Approval
	e.Invoiced = existing.Invoiced
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = s.Now()
	if err := s.Store.SaveTimeEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete hard-deletes an entry unless an invoice references it.
func (s *TimeEntryService) Delete(ctx context.Context, id int64) error {
	e, err := s.Store.GetTimeEntry(ctx, id)
	if err != nil {
		return err
	}
	if e.Invoiced {
		return fmt.Errorf("entry %d: %w", id, ErrEntryInvoiced)
	}
	return s.Store.DeleteTimeEntry(ctx, id)
}

// =============================================================================
// APPROVAL - one-way flag
// =============================================================================

// Approve sets the entry's approval flag. Re-approval is idempotent and
// keeps the original approver and timestamp.
func (s *TimeEntryService) Approve(ctx context.Context, entryID, approverID int64) (*TimeEntry, error) {
	e, err := s.Store.GetTimeEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.Approval.Approved {
		return e, nil
	}

	now := s.Now()
	e.Approval = Approval{Approved: true, ApproverID: approverID, ApprovedAt: &now}
	e.UpdatedAt = now
	if err := s.Store.SaveTimeEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ApproveRange approves every entry of the employee in [from, to],
// iterating sequentially. Individual failures are collected and reported
// as a *BatchApprovalError; entries approved before a failure stay approved.
func (s *TimeEntryService) ApproveRange(ctx context.Context, employeeID int64, from, to Date, approverID int64) ([]TimeEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, from, to)
	}

	entries, err := s.Store.TimeEntriesInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	failures := make(map[int64]error)
	var approved []TimeEntry
	for _, e := range entries {
		updated, err := s.Approve(ctx, e.ID, approverID)
		if err != nil {
			failures[e.ID] = err
			continue
		}
		approved = append(approved, *updated)
	}

	if len(failures) > 0 {
		return approved, &BatchApprovalError{Failures: failures}
	}
	return approved, nil
}
