/*
conflict.go - Absence overlap detection

PURPOSE:
  Finds existing pending/approved absences that overlap a proposed period.
  This is the fast pre-check that gives callers the conflicting rows for
  user feedback and the explicit override flow. The authoritative guard
  against racing creates lives in AbsenceStore.CreateExclusive.
*/
package engine

import (
	"context"
	"fmt"
	"sort"
)

// ConflictDetector finds overlapping absence requests.
type ConflictDetector struct {
	Absences AbsenceStore
}

func NewConflictDetector(absences AbsenceStore) *ConflictDetector {
	return &ConflictDetector{Absences: absences}
}

// FindConflicts returns every pending or approved absence of the employee
// whose inclusive range overlaps [start, end], ordered by start date.
// excludeID lets an in-place edit ignore its own row; pass 0 otherwise.
func (c *ConflictDetector) FindConflicts(ctx context.Context, employeeID int64, start, end Date, excludeID int64) ([]Absence, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, start, end)
	}

	existing, err := c.Absences.AbsencesByEmployee(ctx, employeeID, AbsencePending, AbsenceApproved)
	if err != nil {
		return nil, err
	}

	var conflicts []Absence
	for _, a := range existing {
		if a.ID == excludeID {
			continue
		}
		if a.Overlaps(start, end) {
			conflicts = append(conflicts, a)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].StartDate.Before(conflicts[j].StartDate)
	})
	return conflicts, nil
}
