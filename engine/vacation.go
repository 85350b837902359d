/*
vacation.go - Vacation day ledger

PURPOSE:
  Tracks allotted, consumed, and remaining vacation days per employee.
  Consumption counts calendar days covered by APPROVED absences whose type
  is configured to deduct from the allotment (CountsAgainstVacation); sick
  leave modeled as non-deductive and unpaid leave never deduct. Like every
  other derived figure, the balance is recomputed fresh from source rows.
*/
package engine

import "context"

// VacationBalance is the employee's allotment picture as of a date.
type VacationBalance struct {
	EmployeeID int64
	AsOf       Date
	Total      int
	Used       int
	Remaining  int
}

type VacationLedger struct {
	Store Store
}

func NewVacationLedger(store Store) *VacationLedger {
	return &VacationLedger{Store: store}
}

// Balance computes {total, used, remaining} as of the given date. Only the
// days of approved, deducting absences that fall within the asOf year and
// on or before asOf are counted.
func (v *VacationLedger) Balance(ctx context.Context, employeeID int64, asOf Date) (*VacationBalance, error) {
	emp, err := v.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	absences, err := v.Store.AbsencesByEmployee(ctx, employeeID, AbsenceApproved)
	if err != nil {
		return nil, err
	}

	deducting := make(map[int64]bool)
	types, err := v.Store.ListHolidayTypes(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		deducting[t.ID] = t.CountsAgainstVacation
	}

	yearStart := StartOfYear(asOf.Year())
	used := 0
	for _, a := range absences {
		if !deducting[a.TypeID] {
			continue
		}
		// Clamp to [yearStart, asOf]; ranges can straddle both edges.
		start := MaxDate(a.StartDate, yearStart)
		end := a.EndDate
		if end.After(asOf) {
			end = asOf
		}
		if end.Before(start) {
			continue
		}
		used += DaysBetween(start, end) + 1
	}

	total := emp.VacationAllotment()
	return &VacationBalance{
		EmployeeID: employeeID,
		AsOf:       asOf,
		Total:      total,
		Used:       used,
		Remaining:  total - used,
	}, nil
}
