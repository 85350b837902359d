/*
worklog.go - Summing logged work intervals

PURPOSE:
  Aggregates a day's time entries into worked hours. Arithmetic stays at
  minute precision; only the reporting edge rounds to one decimal place.

DATA QUALITY:
  The persistence layer does not reject overlapping spans for the same
  employee/day at write time. The aggregator therefore sums spans as given
  and surfaces the overlap as a data-quality flag instead of failing.
*/
package engine

import (
	"context"

	"github.com/sirupsen/logrus"
)

// WorkAggregator sums logged work intervals per employee and day.
type WorkAggregator struct {
	Entries TimeEntryStore
}

func NewWorkAggregator(entries TimeEntryStore) *WorkAggregator {
	return &WorkAggregator{Entries: entries}
}

// EntriesFor returns the employee's time entries for one date.
func (w *WorkAggregator) EntriesFor(ctx context.Context, employeeID int64, d Date) ([]TimeEntry, error) {
	return w.Entries.TimeEntriesInRange(ctx, employeeID, d, d)
}

// WorkedHours sums (end-start)-breaks across the day's entries.
func (w *WorkAggregator) WorkedHours(ctx context.Context, employeeID int64, d Date) (Hours, error) {
	entries, err := w.EntriesFor(ctx, employeeID, d)
	if err != nil {
		return Hours{}, err
	}
	minutes, _ := SumNetMinutes(entries)
	return HoursFromMinutes(minutes), nil
}

// SumNetMinutes totals the net minutes of the given entries and reports
// whether any two [start,end) spans overlap. Overlaps overstate worked
// hours; callers flag them rather than reject.
func SumNetMinutes(entries []TimeEntry) (minutes int, overlapping bool) {
	for i := range entries {
		minutes += entries[i].NetMinutes()
		for j := i + 1; j < len(entries); j++ {
			if entries[i].OverlapsEntry(&entries[j]) {
				overlapping = true
			}
		}
	}
	if overlapping && len(entries) > 0 {
		logrus.WithFields(logrus.Fields{
			"employee_id": entries[0].EmployeeID,
			"date":        entries[0].Date.String(),
		}).Warn("overlapping time entry spans; worked hours may be overstated")
	}
	return minutes, overlapping
}
