/*
absence.go - Absence request lifecycle

PURPOSE:
  Governs the life of an absence request:

    created   -> pending   (after the conflict check passes)
    pending   -> approved | rejected | cancelled
    approved  -> cancelled
    rejected, cancelled: terminal

  Re-approving an approved request (or re-rejecting a rejected one) is
  idempotent-safe: the terminal record is returned unchanged, without
  re-applying side effects. That tolerates double-submission from UI
  retries; it is not a concurrent-approver protocol.

CONFLICT HANDLING:
  Creation is gated twice. FindConflicts gives the caller the overlapping
  rows up front; CreateExclusive re-checks atomically at insert time so two
  racing requests cannot both commit. The override flow cancels conflicting
  rows explicitly (each cancellation logged) and then retries - conflicts
  are never silently destroyed.

SEE ALSO:
  - conflict.go: the pre-check
  - calendar.go: consumes approval status for expected hours
*/
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// AbsenceService orchestrates creation and approval of absence requests.
type AbsenceService struct {
	Store     Store
	Conflicts *ConflictDetector

	// Now is injected for tests; defaults to time.Now.
	Now func() time.Time
}

func NewAbsenceService(store Store) *AbsenceService {
	return &AbsenceService{
		Store:     store,
		Conflicts: NewConflictDetector(store),
		Now:       time.Now,
	}
}

// CreateInput is the caller's proposal for a new absence request.
type CreateInput struct {
	EmployeeID int64
	TypeCode   string
	StartDate  Date
	EndDate    Date
	Reason     string
}

func (in *CreateInput) validate() error {
	if in.EmployeeID == 0 {
		return &MissingFieldError{Field: "employeeId"}
	}
	if in.TypeCode == "" {
		return &MissingFieldError{Field: "holidayType"}
	}
	if in.StartDate.IsZero() {
		return &MissingFieldError{Field: "startDate"}
	}
	if in.EndDate.IsZero() {
		return &MissingFieldError{Field: "endDate"}
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, in.StartDate, in.EndDate)
	}
	return nil
}

// Create validates the proposal, runs the conflict pre-check, and inserts
// the request as pending. On overlap it returns an *OverlapError carrying
// the conflicting rows.
func (s *AbsenceService) Create(ctx context.Context, in CreateInput) (*Absence, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Store.GetEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	holidayType, err := s.Store.GetHolidayTypeByCode(ctx, in.TypeCode)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.Conflicts.FindConflicts(ctx, in.EmployeeID, in.StartDate, in.EndDate, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &OverlapError{
			EmployeeID: in.EmployeeID,
			Start:      in.StartDate,
			End:        in.EndDate,
			Conflicts:  conflicts,
		}
	}

	now := s.Now()
	a := &Absence{
		EmployeeID: in.EmployeeID,
		TypeID:     holidayType.ID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Reason:     in.Reason,
		Status:     AbsencePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Authoritative guard: the store re-checks the overlap inside the
	// insert transaction, closing the check-then-create race.
	if err := s.Store.CreateExclusive(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateWithOverride cancels every conflicting request and then creates the
// new one. Cancellations are explicit and logged; this is the deliberate
// two-step alternative to automatic overriding.
func (s *AbsenceService) CreateWithOverride(ctx context.Context, in CreateInput) (*Absence, []Absence, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	conflicts, err := s.Conflicts.FindConflicts(ctx, in.EmployeeID, in.StartDate, in.EndDate, 0)
	if err != nil {
		return nil, nil, err
	}

	var cancelled []Absence
	for _, c := range conflicts {
		updated, err := s.Cancel(ctx, c.ID)
		if err != nil {
			return nil, cancelled, fmt.Errorf("cancelling conflicting absence %d: %w", c.ID, err)
		}
		logrus.WithFields(logrus.Fields{
			"absence_id":  c.ID,
			"employee_id": c.EmployeeID,
			"range":       c.StartDate.String() + ".." + c.EndDate.String(),
		}).Info("absence cancelled by override")
		cancelled = append(cancelled, *updated)
	}

	created, err := s.Create(ctx, in)
	if err != nil {
		return nil, cancelled, err
	}
	return created, cancelled, nil
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// Approve moves a pending request to approved. Re-approving an approved
// request returns it unchanged.
func (s *AbsenceService) Approve(ctx context.Context, absenceID, approverID int64) (*Absence, error) {
	return s.transition(ctx, absenceID, approverID, AbsenceApproved)
}

// Reject moves a pending request to rejected. Idempotent on rejected.
func (s *AbsenceService) Reject(ctx context.Context, absenceID, approverID int64) (*Absence, error) {
	return s.transition(ctx, absenceID, approverID, AbsenceRejected)
}

// Cancel is allowed from pending or approved and frees the date range for
// future requests. Idempotent on cancelled.
func (s *AbsenceService) Cancel(ctx context.Context, absenceID int64) (*Absence, error) {
	return s.transition(ctx, absenceID, 0, AbsenceCancelled)
}

func (s *AbsenceService) transition(ctx context.Context, absenceID, approverID int64, target AbsenceStatus) (*Absence, error) {
	a, err := s.Store.GetAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	// Idempotent retry of a terminal action: no side effects, no error.
	if a.Status == target {
		return a, nil
	}

	if !transitionAllowed(a.Status, target) {
		return nil, &StateTransitionError{AbsenceID: absenceID, From: a.Status, To: target}
	}

	now := s.Now()
	a.Status = target
	a.UpdatedAt = now
	if target == AbsenceApproved || target == AbsenceRejected {
		a.ApproverID = approverID
		a.ApprovedAt = &now
	}

	if err := s.Store.SaveAbsence(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func transitionAllowed(from, to AbsenceStatus) bool {
	switch from {
	case AbsencePending:
		return to == AbsenceApproved || to == AbsenceRejected || to == AbsenceCancelled
	case AbsenceApproved:
		return to == AbsenceCancelled
	default:
		// rejected and cancelled are terminal
		return false
	}
}
