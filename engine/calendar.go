/*
calendar.go - Day classification and expected hours

PURPOSE:
  Resolves, for one employee and one date, the day's category and its
  expected-hours value. This is a pure function of the underlying rows:
  resolving the same day twice with unchanged data yields the same result.

PRECEDENCE:
  The original system buried the precedence in cascading if/else. Here it
  is an explicit ordered rule chain, evaluated top to bottom, first match
  wins:

    1. active work-free holiday definition (matching canton) -> PublicHoliday
    2. approved absence covering the date                    -> ApprovedAbsence
    3. pending absence covering the date                     -> PendingAbsence
    4. weekday outside the employee's working week           -> Weekend
    5. otherwise                                             -> Workday

EXPECTED HOURS:
  Workday          defaultWorkdayHours (override or planned/workdays)
  Weekend          0
  PublicHoliday    0
  ApprovedAbsence  defaultWorkdayHours * type.factor
  PendingAbsence   defaultWorkdayHours (no relief until approved)

SEE ALSO:
  - balance.go: iterates the resolver over periods
*/
package engine

import (
	"context"
	"fmt"
)

// =============================================================================
// DAY CLASSIFICATION
// =============================================================================

type DayCategory string

const (
	DayWorkday         DayCategory = "workday"
	DayWeekend         DayCategory = "weekend"
	DayPublicHoliday   DayCategory = "public_holiday"
	DayApprovedAbsence DayCategory = "approved_absence"
	DayPendingAbsence  DayCategory = "pending_absence"
)

// DayClassification is the resolved category and expected hours of one day.
type DayClassification struct {
	Date     Date
	Category DayCategory
	Expected Hours

	// Set for public holidays.
	HolidayName string

	// Set for absence days.
	AbsenceID       int64
	AbsenceTypeCode string
	AbsenceApproved bool
}

// =============================================================================
// CALENDAR RESOLVER
// =============================================================================

// CalendarResolver classifies days. It reads but never writes.
type CalendarResolver struct {
	Employees   EmployeeStore
	Absences    AbsenceStore
	Types       HolidayTypeStore
	Definitions HolidayDefinitionStore

	// Canton restricts holiday definitions; empty accepts all.
	Canton string

	rules []classifierRule
}

func NewCalendarResolver(store Store, canton string) *CalendarResolver {
	r := &CalendarResolver{
		Employees:   store,
		Absences:    store,
		Types:       store,
		Definitions: store,
		Canton:      canton,
	}
	// Priority order is the contract. Do not reorder.
	r.rules = []classifierRule{
		r.classifyPublicHoliday,
		r.classifyApprovedAbsence,
		r.classifyPendingAbsence,
		r.classifyWeekend,
	}
	return r
}

// dayContext carries the rows a resolution reads, so a caller iterating a
// whole period can prefetch them once instead of per day.
type dayContext struct {
	employee    *Employee
	absences    []Absence // blocking statuses only
	definitions map[string]*HolidayDefinition // keyed by date string
	types       map[int64]*HolidayType
}

type classifierRule func(ctx *dayContext, d Date) (*DayClassification, error)

// Resolve classifies a single day for an employee.
func (r *CalendarResolver) Resolve(ctx context.Context, employeeID int64, d Date) (*DayClassification, error) {
	dc, err := r.loadDayContext(ctx, employeeID, d, d)
	if err != nil {
		return nil, err
	}
	return r.resolveWith(dc, d)
}

// ResolveRange classifies every day in [from, to] with one set of reads.
func (r *CalendarResolver) ResolveRange(ctx context.Context, employeeID int64, from, to Date) ([]DayClassification, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, from, to)
	}
	dc, err := r.loadDayContext(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	var out []DayClassification
	for cur := from; cur.BeforeOrEqual(to); cur = cur.AddDays(1) {
		c, err := r.resolveWith(dc, cur)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *CalendarResolver) resolveWith(dc *dayContext, d Date) (*DayClassification, error) {
	for _, rule := range r.rules {
		c, err := rule(dc, d)
		if err != nil {
			return nil, err
		}
		if c != nil {
			c.Date = d
			return c, nil
		}
	}
	// No rule matched: a plain workday.
	return &DayClassification{
		Date:     d,
		Category: DayWorkday,
		Expected: dc.employee.DefaultWorkdayHours(),
	}, nil
}

func (r *CalendarResolver) loadDayContext(ctx context.Context, employeeID int64, from, to Date) (*dayContext, error) {
	emp, err := r.Employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	absences, err := r.Absences.AbsencesByEmployee(ctx, employeeID, AbsencePending, AbsenceApproved)
	if err != nil {
		return nil, err
	}
	var covering []Absence
	for _, a := range absences {
		if a.Overlaps(from, to) {
			covering = append(covering, a)
		}
	}

	defs := make(map[string]*HolidayDefinition)
	for year := from.Year(); year <= to.Year(); year++ {
		rows, err := r.Definitions.HolidayDefinitionsByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			def := &rows[i]
			if def.Active && def.IsWorkFree && def.AppliesTo(r.Canton) {
				defs[def.Date.String()] = def
			}
		}
	}

	types := make(map[int64]*HolidayType)
	allTypes, err := r.Types.ListHolidayTypes(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range allTypes {
		types[allTypes[i].ID] = &allTypes[i]
	}

	return &dayContext{employee: emp, absences: covering, definitions: defs, types: types}, nil
}

// =============================================================================
// CLASSIFIER RULES
// =============================================================================

func (r *CalendarResolver) classifyPublicHoliday(dc *dayContext, d Date) (*DayClassification, error) {
	def, ok := dc.definitions[d.String()]
	if !ok {
		return nil, nil
	}
	return &DayClassification{
		Category:    DayPublicHoliday,
		Expected:    Hours{},
		HolidayName: def.Name,
	}, nil
}

func (r *CalendarResolver) classifyApprovedAbsence(dc *dayContext, d Date) (*DayClassification, error) {
	return r.classifyAbsence(dc, d, AbsenceApproved)
}

func (r *CalendarResolver) classifyPendingAbsence(dc *dayContext, d Date) (*DayClassification, error) {
	return r.classifyAbsence(dc, d, AbsencePending)
}

func (r *CalendarResolver) classifyAbsence(dc *dayContext, d Date, status AbsenceStatus) (*DayClassification, error) {
	for i := range dc.absences {
		a := &dc.absences[i]
		if a.Status != status || !a.Covers(d) {
			continue
		}
		t, ok := dc.types[a.TypeID]
		if !ok {
			return nil, fmt.Errorf("holiday type %d: %w", a.TypeID, ErrNotFound)
		}

		c := &DayClassification{
			AbsenceID:       a.ID,
			AbsenceTypeCode: t.Code,
		}
		if status == AbsenceApproved {
			c.Category = DayApprovedAbsence
			c.AbsenceApproved = true
			c.Expected = dc.employee.DefaultWorkdayHours().Mul(t.Factor)
		} else {
			// Pending absences give no hours relief until approved.
			c.Category = DayPendingAbsence
			c.Expected = dc.employee.DefaultWorkdayHours()
		}
		return c, nil
	}
	return nil, nil
}

func (r *CalendarResolver) classifyWeekend(dc *dayContext, d Date) (*DayClassification, error) {
	if dc.employee.IsWorkday(d) {
		return nil, nil
	}
	return &DayClassification{Category: DayWeekend, Expected: Hours{}}, nil
}
