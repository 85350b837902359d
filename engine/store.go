/*
store.go - Persistence interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the accounting logic and the database.
  The engine is request-scoped and stateless: every operation re-reads
  by id or date range and recomputes derived values fresh. No repository
  hands out long-lived references.

INVARIANT ENFORCEMENT:
  The conflict detector is a fast pre-check for user feedback. The
  AUTHORITATIVE non-overlap guard is CreateExclusive on AbsenceStore:
  the insert and the overlap re-check run atomically (one DB transaction,
  or one lock), so two racing requests cannot both commit.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - engine/store: in-memory store for tests and dev

SEE ALSO:
  - conflict.go: uses AbsenceStore for the pre-check
  - balance.go:  reads through all repositories per computation
*/
package engine

import "context"

// EmployeeStore reads employee master data (owned by the HR collaborator).
type EmployeeStore interface {
	// GetEmployee returns ErrEmployeeNotFound for unknown ids.
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, e *Employee) error
}

// TimeEntryStore persists logged work intervals.
type TimeEntryStore interface {
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)

	// TimeEntriesInRange returns entries for the employee with
	// from <= date <= to, ordered by date then start time.
	TimeEntriesInRange(ctx context.Context, employeeID int64, from, to Date) ([]TimeEntry, error)

	// SaveTimeEntry inserts when ID is zero, updates otherwise.
	// The assigned id is written back to the entry.
	SaveTimeEntry(ctx context.Context, e *TimeEntry) error

	DeleteTimeEntry(ctx context.Context, id int64) error
}

// AbsenceStore persists absence requests.
type AbsenceStore interface {
	GetAbsence(ctx context.Context, id int64) (*Absence, error)

	// AbsencesByEmployee returns the employee's absences, optionally
	// filtered by status, ordered by start date ascending.
	AbsencesByEmployee(ctx context.Context, employeeID int64, statuses ...AbsenceStatus) ([]Absence, error)

	// CreateExclusive inserts the absence iff no pending/approved absence
	// of the same employee overlaps its range. The check and the insert
	// are atomic; on conflict it returns an *OverlapError.
	CreateExclusive(ctx context.Context, a *Absence) error

	// SaveAbsence updates status/approval fields of an existing row.
	SaveAbsence(ctx context.Context, a *Absence) error
}

// HolidayTypeStore persists the absence-type catalog.
type HolidayTypeStore interface {
	GetHolidayType(ctx context.Context, id int64) (*HolidayType, error)
	GetHolidayTypeByCode(ctx context.Context, code string) (*HolidayType, error)
	ListHolidayTypes(ctx context.Context, activeOnly bool) ([]HolidayType, error)
	SaveHolidayType(ctx context.Context, t *HolidayType) error
}

// HolidayDefinitionStore persists the public-holiday calendar.
type HolidayDefinitionStore interface {
	GetHolidayDefinition(ctx context.Context, id int64) (*HolidayDefinition, error)
	HolidayDefinitionsByYear(ctx context.Context, year int) ([]HolidayDefinition, error)
	SaveHolidayDefinition(ctx context.Context, d *HolidayDefinition) error
	DeleteHolidayDefinition(ctx context.Context, id int64) error
}

// Store bundles every repository the engine consumes.
type Store interface {
	EmployeeStore
	TimeEntryStore
	AbsenceStore
	HolidayTypeStore
	HolidayDefinitionStore
}
