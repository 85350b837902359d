/*
Package engine implements the time and absence accounting core.

PURPOSE:
  This package turns raw attendance facts (logged work intervals, declared
  absences, the public-holiday calendar, per-employee schedules) into
  authoritative balances: daily/weekly/cumulative worked-vs-expected deltas,
  remaining vacation days, and approval state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A decimal quantity of hours (minute-precise internally)
  - Employee, TimeEntry, Absence, HolidayType, HolidayDefinition: the
    persisted entities, keyed by surrogate numeric ids
  - Absence status lifecycle: pending -> approved/rejected/cancelled

DESIGN PRINCIPLES:
  1. Recompute-always: derived summaries are never persisted; every balance
     is rebuilt from source rows so repeated computation is idempotent
  2. Precision: decimal.Decimal for hours, minute arithmetic underneath
  3. Fail closed: validation happens before any mutation is attempted
  4. Pure classification: resolving a day has no side effects

SEE ALSO:
  - calendar.go:  day classification and expected hours
  - worklog.go:   summing logged intervals into worked hours
  - conflict.go:  absence overlap detection
  - absence.go:   absence request lifecycle
  - balance.go:   daily/weekly/cumulative aggregation
  - vacation.go:  vacation day ledger
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Decimal hour quantity
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(v float64) Hours { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFromInt(v int) Hours { return Hours{Value: decimal.NewFromInt(int64(v))} }

// HoursFromMinutes converts whole minutes to hours without float error.
func HoursFromMinutes(minutes int) Hours {
	return Hours{Value: decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))}
}

func (h Hours) Add(o Hours) Hours             { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours             { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Mul(f decimal.Decimal) Hours   { return Hours{Value: h.Value.Mul(f)} }
func (h Hours) Div(f decimal.Decimal) Hours   { return Hours{Value: h.Value.Div(f)} }
func (h Hours) Neg() Hours                    { return Hours{Value: h.Value.Neg()} }
func (h Hours) IsZero() bool                  { return h.Value.IsZero() }
func (h Hours) IsNegative() bool              { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool              { return h.Value.IsPositive() }
func (h Hours) GreaterThan(o Hours) bool      { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool         { return h.Value.LessThan(o.Value) }
func (h Hours) Float64() float64              { f, _ := h.Value.Float64(); return f }

// Round1 rounds to one decimal place for display. Internal computation stays
// at minute precision; rounding happens only at the reporting edge.
func (h Hours) Round1() Hours { return Hours{Value: h.Value.Round(1)} }

func (h Hours) String() string { return h.Value.Round(1).StringFixed(1) }

// Signed formats the quantity with an explicit sign: "+12.5" / "-3.0".
func (h Hours) Signed() string {
	s := h.Value.Round(1).StringFixed(1)
	if !h.IsNegative() {
		return "+" + s
	}
	return s
}

// =============================================================================
// EMPLOYEE - Read-only HR entity
// =============================================================================

// Employee is owned by the HR collaborator; the engine treats it as
// read-only input.
type Employee struct {
	ID                   int64
	Name                 string
	Email                string
	StartDate            Date
	PlannedWeeklyHours   Hours
	WorkdaysPerWeek      int    // 0 means the company default of 5
	WorkdayHoursOverride *Hours // employee-level override, resolved before the company default
	VacationDaysPerYear  int    // 0 means the default allotment of 25
}

const (
	DefaultWorkdaysPerWeek     = 5
	DefaultVacationDaysPerYear = 25
)

// DefaultWorkdayHours resolves the expected hours of a plain workday:
// the employee override if present, otherwise plannedWeeklyHours/workdaysPerWeek.
func (e *Employee) DefaultWorkdayHours() Hours {
	if e.WorkdayHoursOverride != nil {
		return *e.WorkdayHoursOverride
	}
	return e.PlannedWeeklyHours.Div(decimal.NewFromInt(int64(e.Workdays())))
}

func (e *Employee) Workdays() int {
	if e.WorkdaysPerWeek <= 0 {
		return DefaultWorkdaysPerWeek
	}
	return e.WorkdaysPerWeek
}

func (e *Employee) VacationAllotment() int {
	if e.VacationDaysPerYear <= 0 {
		return DefaultVacationDaysPerYear
	}
	return e.VacationDaysPerYear
}

// IsWorkday reports whether the weekday is in the employee's configured
// working week. The working week starts Monday: 5 workdays means Mon-Fri,
// 6 means Mon-Sat.
func (e *Employee) IsWorkday(d Date) bool {
	idx := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return idx < e.Workdays()
}

// =============================================================================
// TIME ENTRY - One logged work interval
// =============================================================================

type BreakInterval struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

func (b BreakInterval) Minutes() int { return int(b.End) - int(b.Start) }

// Approval is the approval sub-record of a time entry.
type Approval struct {
	Approved   bool
	ApproverID int64
	ApprovedAt *time.Time
}

// TimeEntry is one logged work interval for one employee on one date.
// Worked hours are always recomputed from span minus breaks, never trusted
// from client input.
type TimeEntry struct {
	ID         int64
	EmployeeID int64
	ProjectID  int64
	Date       Date
	Start      MinuteOfDay
	End        MinuteOfDay
	Breaks     []BreakInterval
	Title      string
	Billable   bool
	Invoiced   bool

	// Surcharge flags and cost fields are pass-through for the billing
	// collaborator; the engine never interprets them.
	NightSurcharge   bool
	WeekendSurcharge bool
	HolidaySurcharge bool
	TravelMinutes    int
	WaitingMinutes   int
	DisposalCost     decimal.Decimal

	Approval  Approval
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *TimeEntry) SpanMinutes() int { return int(t.End) - int(t.Start) }

func (t *TimeEntry) BreakMinutes() int {
	total := 0
	for _, b := range t.Breaks {
		total += b.Minutes()
	}
	return total
}

func (t *TimeEntry) NetMinutes() int { return t.SpanMinutes() - t.BreakMinutes() }

func (t *TimeEntry) WorkedHours() Hours { return HoursFromMinutes(t.NetMinutes()) }

// OverlapsEntry reports whether two [start,end) spans on the same day overlap.
func (t *TimeEntry) OverlapsEntry(o *TimeEntry) bool {
	return t.Date.Equal(o.Date) && t.Start < o.End && o.Start < t.End
}

// =============================================================================
// HOLIDAY TYPE - Absence type catalog entry
// =============================================================================

// HolidayType classifies absences. Factor multiplies the employee's default
// workday hours to yield the expected hours on a day of this type:
// factor 0 = fully credited absence, factor 1 = unpaid leave (no credit).
type HolidayType struct {
	ID           int64
	Code         string
	DisplayName  string
	Factor       decimal.Decimal // in [0,1]
	IsSystemType bool
	Active       bool
	SortOrder    int

	// CountsAgainstVacation controls whether approved days of this type
	// consume the vacation allotment. Configuration, not hard-coded:
	// sick leave is typically non-deductive, unpaid leave never deducts.
	CountsAgainstVacation bool
}

// Well-known system type codes seeded at migration.
const (
	TypeVacation    = "VACATION"
	TypeSickness    = "SICKNESS"
	TypeUnpaidLeave = "UNPAID_LEAVE"
	TypeAccident    = "ACCIDENT"
	TypeMilitary    = "MILITARY"
)

// =============================================================================
// ABSENCE - An absence request over an inclusive date range
// =============================================================================

type AbsenceStatus string

const (
	AbsencePending   AbsenceStatus = "pending"
	AbsenceApproved  AbsenceStatus = "approved"
	AbsenceRejected  AbsenceStatus = "rejected"
	AbsenceCancelled AbsenceStatus = "cancelled"
)

// Terminal reports whether no further transition except cancellation of an
// approved absence is allowed.
func (s AbsenceStatus) Terminal() bool {
	return s == AbsenceRejected || s == AbsenceCancelled
}

// Blocking reports whether the absence occupies its date range for
// conflict-detection purposes.
func (s AbsenceStatus) Blocking() bool {
	return s == AbsencePending || s == AbsenceApproved
}

type Absence struct {
	ID         int64
	EmployeeID int64
	TypeID     int64
	StartDate  Date
	EndDate    Date // inclusive
	Reason     string
	Status     AbsenceStatus
	ApproverID int64
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Overlaps applies the inclusive-date overlap test:
// start1 <= end2 AND start2 <= end1.
func (a *Absence) Overlaps(start, end Date) bool {
	return a.StartDate.BeforeOrEqual(end) && start.BeforeOrEqual(a.EndDate)
}

// Covers reports whether the date falls inside the absence range.
func (a *Absence) Covers(d Date) bool {
	return a.StartDate.BeforeOrEqual(d) && d.BeforeOrEqual(a.EndDate)
}

// CalendarDays returns the inclusive day count of the range.
func (a *Absence) CalendarDays() int {
	return DaysBetween(a.StartDate, a.EndDate) + 1
}

// =============================================================================
// HOLIDAY DEFINITION - Public/company holiday calendar row
// =============================================================================

// HolidayDefinition is one public-holiday calendar entry. Rows are bulk
// generated per year and remain individually editable afterwards.
type HolidayDefinition struct {
	ID         int64
	Year       int
	Date       Date
	Name       string
	Kind       string // descriptive: "national", "religious", "company"
	Canton     string // empty = applies everywhere
	IsWorkFree bool
	Active     bool
	IsFixed    bool
	IsEditable bool
}

// AppliesTo reports whether the definition restricts the given canton.
func (h *HolidayDefinition) AppliesTo(canton string) bool {
	return h.Canton == "" || canton == "" || h.Canton == canton
}
