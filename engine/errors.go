/*
errors.go - Centralized error types for the accounting engine

PURPOSE:
  All engine error kinds in one place. Callers use errors.Is/errors.As;
  the API layer maps kinds to transport status codes.

ERROR CATEGORIES:
  1. Lookup errors  - unknown ids
  2. State errors   - illegal lifecycle transitions
  3. Input errors   - invalid ranges, missing fields, implausible hours
  4. Conflict errors - absence overlap, carrying the conflicting rows

SEE ALSO:
  - absence.go:   raises OverlapError and StateTransitionError
  - timeentry.go: raises the input validation errors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmployeeNotFound is returned when an employee id is unknown.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidStateTransition is returned when approve/reject/cancel is
	// attempted from a state that does not allow it.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrAbsenceOverlap is returned when a proposed absence overlaps an
	// existing pending or approved one.
	ErrAbsenceOverlap = errors.New("absence period overlaps existing request")

	// ErrInvalidDateRange is returned when endDate < startDate, or a time
	// entry's end time is not after its start time.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidHours is returned for non-positive or implausible worked
	// hours after break subtraction.
	ErrInvalidHours = errors.New("invalid worked hours")

	// ErrEntryInvoiced is returned on attempts to delete a time entry that
	// a published invoice references.
	ErrEntryInvoiced = errors.New("time entry is referenced by an invoice")

	// ErrSystemType is returned on attempts to edit or deactivate a
	// system holiday type.
	ErrSystemType = errors.New("system holiday type cannot be modified")

	// ErrDuplicateCode is returned when a holiday type code is already
	// taken.
	ErrDuplicateCode = errors.New("code already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OverlapError carries the conflicting absences so the caller can drive an
// explicit override flow.
type OverlapError struct {
	EmployeeID int64
	Start      Date
	End        Date
	Conflicts  []Absence
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("absence %s..%s for employee %d overlaps %d existing request(s)",
		e.Start, e.End, e.EmployeeID, len(e.Conflicts))
}

func (e *OverlapError) Unwrap() error { return ErrAbsenceOverlap }

// StateTransitionError reports an illegal lifecycle move.
type StateTransitionError struct {
	AbsenceID int64
	From      AbsenceStatus
	To        AbsenceStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("absence %d: cannot transition from %s to %s", e.AbsenceID, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrInvalidStateTransition }

// MissingFieldError names the absent field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// InvalidHoursError reports implausible interval arithmetic on a time entry.
type InvalidHoursError struct {
	EntryID int64
	Minutes int
	Detail  string
}

func (e *InvalidHoursError) Error() string {
	return fmt.Sprintf("invalid hours (%d minutes): %s", e.Minutes, e.Detail)
}

func (e *InvalidHoursError) Unwrap() error { return ErrInvalidHours }

// BatchApprovalError collects per-entry failures of a range approval.
// The successful entries remain approved; the caller decides whether to retry.
type BatchApprovalError struct {
	Failures map[int64]error // entry id -> cause
}

func (e *BatchApprovalError) Error() string {
	return fmt.Sprintf("range approval failed for %d entries", len(e.Failures))
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is caused by invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAbsenceOverlap) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidHours) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrEntryInvoiced) ||
		errors.Is(err, ErrSystemType) ||
		errors.Is(err, ErrDuplicateCode)
}

// IsNotFound reports whether the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmployeeNotFound)
}
