/*
balance.go - Daily, weekly, and cumulative balance aggregation

PURPOSE:
  Composes the calendar resolver, the work aggregator, and the vacation
  ledger into the balance structures the API serves. This is the densest
  part of the engine.

ORDER INDEPENDENCE:
  Cumulative balances are reproducible regardless of the order entries and
  absences were created, edited, or approved, because every computation
  walks the calendar fresh from source rows. Nothing is incrementally
  updated and nothing derived is persisted.

WEEK DEFINITION:
  ISO-8601: week 1 contains the year's first Thursday, weeks run Monday
  through Sunday.
*/
package engine

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// DERIVED STRUCTURES
// =============================================================================

// Data-quality flags surfaced on daily summaries.
const (
	FlagCalendarMissing  = "calendar-missing"  // workday with expected hours but no entries
	FlagOverlappingSpans = "overlapping-spans" // logged intervals overlap; worked hours may be overstated
)

// DailySummary is the resolved picture of one employee day. Derived on
// demand, never persisted.
type DailySummary struct {
	Date              Date
	EmployeeID        int64
	Category          DayCategory
	IsWeekend         bool
	IsPublicHoliday   bool
	PublicHolidayName string
	AbsenceTypeCode   string
	AbsenceApproved   bool
	Expected          Hours
	Worked            Hours
	Delta             Hours
	Entries           []TimeEntry
	DataQuality       []string
}

// WeeklySummary aggregates one ISO week.
type WeeklySummary struct {
	EmployeeID    int64
	Year          int
	Week          int
	Period        Period
	TotalWorked   Hours
	TotalExpected Hours
	// Overtime and Undertime are summed per day, not netted: a +2h Monday
	// and a -2h Tuesday yield overtime 2.0 and undertime 2.0.
	Overtime  Hours
	Undertime Hours
	Balance   Hours // signed net of the week
	Vacation  VacationBalance
	Days      []DailySummary
}

// CumulativeAccount is the running balance from the employee's start date
// (or the year start, whichever is later) through a target week.
type CumulativeAccount struct {
	EmployeeID    int64
	Year          int
	UpToWeek      int
	Period        Period
	WorkedHours   Hours
	ExpectedHours Hours
	Balance       Hours
	// Formatted is the signed display string, e.g. "+12.5" or "-3.0".
	Formatted string
}

// =============================================================================
// BALANCE AGGREGATOR
// =============================================================================

type BalanceAggregator struct {
	Store    Store
	Resolver *CalendarResolver
	Work     *WorkAggregator
	Vacation *VacationLedger
}

func NewBalanceAggregator(store Store, canton string) *BalanceAggregator {
	return &BalanceAggregator{
		Store:    store,
		Resolver: NewCalendarResolver(store, canton),
		Work:     NewWorkAggregator(store),
		Vacation: NewVacationLedger(store),
	}
}

// DailySummaries resolves every day of [from, to] for the employee.
func (b *BalanceAggregator) DailySummaries(ctx context.Context, employeeID int64, from, to Date) ([]DailySummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, from, to)
	}

	classifications, err := b.Resolver.ResolveRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	// One range read for the entries, bucketed per day.
	entries, err := b.Store.TimeEntriesInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string][]TimeEntry)
	for _, e := range entries {
		k := e.Date.String()
		byDay[k] = append(byDay[k], e)
	}

	summaries := make([]DailySummary, 0, len(classifications))
	for _, c := range classifications {
		dayEntries := byDay[c.Date.String()]
		minutes, overlapping := SumNetMinutes(dayEntries)
		worked := HoursFromMinutes(minutes)

		s := DailySummary{
			Date:              c.Date,
			EmployeeID:        employeeID,
			Category:          c.Category,
			IsWeekend:         c.Category == DayWeekend,
			IsPublicHoliday:   c.Category == DayPublicHoliday,
			PublicHolidayName: c.HolidayName,
			AbsenceTypeCode:   c.AbsenceTypeCode,
			AbsenceApproved:   c.AbsenceApproved,
			Expected:          c.Expected,
			Worked:            worked,
			Delta:             worked.Sub(c.Expected),
			Entries:           dayEntries,
		}
		if overlapping {
			s.DataQuality = append(s.DataQuality, FlagOverlappingSpans)
		}
		if len(dayEntries) == 0 && c.Expected.IsPositive() {
			s.DataQuality = append(s.DataQuality, FlagCalendarMissing)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// WeeklySummary aggregates one ISO week, with vacation figures as of the
// week's last day.
func (b *BalanceAggregator) WeeklySummary(ctx context.Context, employeeID int64, year, week int) (*WeeklySummary, error) {
	if week < 1 || week > ISOWeeksInYear(year) {
		return nil, fmt.Errorf("%w: week %d of %d", ErrInvalidDateRange, week, year)
	}
	period := ISOWeekPeriod(year, week)

	days, err := b.DailySummaries(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	w := &WeeklySummary{
		EmployeeID: employeeID,
		Year:       year,
		Week:       week,
		Period:     period,
		Days:       days,
	}
	for _, d := range days {
		w.TotalWorked = w.TotalWorked.Add(d.Worked)
		w.TotalExpected = w.TotalExpected.Add(d.Expected)
		w.Balance = w.Balance.Add(d.Delta)
		if d.Delta.IsPositive() {
			w.Overtime = w.Overtime.Add(d.Delta)
		} else if d.Delta.IsNegative() {
			w.Undertime = w.Undertime.Add(d.Delta.Neg())
		}
	}

	vac, err := b.Vacation.Balance(ctx, employeeID, period.End)
	if err != nil {
		return nil, err
	}
	w.Vacation = *vac
	return w, nil
}

// CumulativeBalance walks every calendar day from the later of the
// employee's start date and Jan 1 of the year, through the Sunday of the
// target week, and reports the running worked-minus-expected total.
// Recomputing with unchanged data always yields the same value.
func (b *BalanceAggregator) CumulativeBalance(ctx context.Context, employeeID int64, year, upToWeek int) (*CumulativeAccount, error) {
	if upToWeek < 1 || upToWeek > ISOWeeksInYear(year) {
		return nil, fmt.Errorf("%w: week %d of %d", ErrInvalidDateRange, upToWeek, year)
	}

	emp, err := b.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	from := MaxDate(StartOfYear(year), emp.StartDate)
	to := ISOWeekPeriod(year, upToWeek).End
	acct := &CumulativeAccount{
		EmployeeID: employeeID,
		Year:       year,
		UpToWeek:   upToWeek,
		Period:     Period{Start: from, End: to},
	}

	if to.Before(from) {
		// Employee starts after the target week: an empty account.
		acct.Formatted = acct.Balance.Signed()
		return acct, nil
	}

	days, err := b.DailySummaries(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		acct.WorkedHours = acct.WorkedHours.Add(d.Worked)
		acct.ExpectedHours = acct.ExpectedHours.Add(d.Expected)
		acct.Balance = acct.Balance.Add(d.Delta)
	}
	acct.Formatted = acct.Balance.Signed()
	return acct, nil
}

// MonthlySummaries resolves a whole calendar month, one summary per day.
func (b *BalanceAggregator) MonthlySummaries(ctx context.Context, employeeID int64, year int, month int) ([]DailySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidDateRange, month)
	}
	p := MonthPeriod(year, time.Month(month))
	return b.DailySummaries(ctx, employeeID, p.Start, p.End)
}
