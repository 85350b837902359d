package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar-day abstraction (the engine accounts in whole days)
// =============================================================================

// Date is a calendar day, normalized to midnight UTC. Time-of-day lives on
// TimeEntry as minutes, never on Date.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// ISOWeek returns the ISO-8601 year and week number for this date.
// Week 1 is the week containing the year's first Thursday; weeks run
// Monday through Sunday.
func (d Date) ISOWeek() (year, week int) { return d.t.ISOWeek() }

func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [Start, End] date range. Balances are always
// computed over a period, never at a bare point in time.
type Period struct {
	Start Date
	End   Date
}

func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day of the period in order.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// ISOWeekPeriod returns the Monday-to-Sunday period of an ISO week.
// Jan 4 is always inside ISO week 1, which anchors the calculation.
func ISOWeekPeriod(year, week int) Period {
	jan4 := NewDate(year, time.January, 4)
	offset := (int(jan4.Weekday()) + 6) % 7 // Monday = 0
	week1Monday := jan4.AddDays(-offset)
	monday := week1Monday.AddDays((week - 1) * 7)
	return Period{Start: monday, End: monday.AddDays(6)}
}

// ISOWeeksInYear returns 52 or 53.
func ISOWeeksInYear(year int) int {
	// Dec 28 is always in the last ISO week of its year.
	_, w := NewDate(year, time.December, 28).ISOWeek()
	return w
}

// MonthPeriod returns the first-to-last-day period of a calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// =============================================================================
// MINUTE OF DAY - Clock time for work intervals
// =============================================================================

// MinuteOfDay is a clock time expressed as minutes since midnight (0..1439).
type MinuteOfDay int

// ParseMinuteOfDay parses an HH:MM clock string.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) Valid() bool { return m >= 0 && m < 24*60 }
