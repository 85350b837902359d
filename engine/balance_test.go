package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
	"github.com/erdemkoca/baunex-timekeeping/engine/store"
)

func newTestAggregator(t *testing.T) (*engine.BalanceAggregator, *store.Memory, *engine.Employee) {
	t.Helper()
	m := newMemory(t)
	emp := seedEmployee(t, m)
	return engine.NewBalanceAggregator(m, ""), m, emp
}

// =============================================================================
// DAILY SUMMARIES
// =============================================================================

func TestBalanceAggregator_DailySummary_ExactDay(t *testing.T) {
	// A full 8.5h day against an 8.5h expectation nets to zero.

	agg, m, emp := newTestAggregator(t)
	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "17:00", lunch(t, "12:00", "12:30"))

	days, err := agg.DailySummaries(context.Background(), emp.ID, day(t, "2026-01-05"), day(t, "2026-01-05"))
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.Equal(t, "8.5", d.Expected.String())
	assert.Equal(t, "8.5", d.Worked.String())
	assert.True(t, d.Delta.IsZero())
	assert.Empty(t, d.DataQuality)
	assert.Len(t, d.Entries, 1)
}

func TestBalanceAggregator_DailySummary_CalendarMissingFlag(t *testing.T) {
	// GIVEN: A workday with expected hours but no entries at all
	// WHEN: Summarizing the day
	// THEN: Full undertime plus the calendar-missing flag

	agg, _, emp := newTestAggregator(t)

	days, err := agg.DailySummaries(context.Background(), emp.ID, day(t, "2026-01-05"), day(t, "2026-01-05"))
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.Equal(t, "-8.5", d.Delta.Signed())
	assert.Contains(t, d.DataQuality, engine.FlagCalendarMissing)
}

func TestBalanceAggregator_DailySummary_WeekendNotFlagged(t *testing.T) {
	// Zero expected hours means an empty day is unremarkable.

	agg, _, emp := newTestAggregator(t)

	days, err := agg.DailySummaries(context.Background(), emp.ID, day(t, "2026-01-10"), day(t, "2026-01-10"))
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.True(t, days[0].IsWeekend)
	assert.Empty(t, days[0].DataQuality)
}

func TestBalanceAggregator_DailySummary_OverlappingSpansFlag(t *testing.T) {
	agg, m, emp := newTestAggregator(t)
	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "12:00")
	seedEntry(t, m, emp.ID, "2026-01-05", "10:00", "14:00")

	days, err := agg.DailySummaries(context.Background(), emp.ID, day(t, "2026-01-05"), day(t, "2026-01-05"))
	require.NoError(t, err)
	require.Len(t, days, 1)

	assert.Contains(t, days[0].DataQuality, engine.FlagOverlappingSpans)
	assert.Equal(t, "8.0", days[0].Worked.String(), "overlapping spans still sum as-is")
}

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

func TestBalanceAggregator_WeeklySummary_OvertimeNotNetted(t *testing.T) {
	// GIVEN: +2h on Monday, -2h on Tuesday, exact days otherwise
	// WHEN: Summarizing the week
	// THEN: Overtime 2.0 AND undertime 2.0, balance 0

	agg, m, emp := newTestAggregator(t)
	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "18:30")                            // 10.5h
	seedEntry(t, m, emp.ID, "2026-01-06", "08:00", "14:30")                            // 6.5h
	seedEntry(t, m, emp.ID, "2026-01-07", "08:00", "17:00", lunch(t, "12:00", "12:30")) // 8.5h
	seedEntry(t, m, emp.ID, "2026-01-08", "08:00", "17:00", lunch(t, "12:00", "12:30"))
	seedEntry(t, m, emp.ID, "2026-01-09", "08:00", "17:00", lunch(t, "12:00", "12:30"))

	w, err := agg.WeeklySummary(context.Background(), emp.ID, 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, "42.5", w.TotalWorked.String())
	assert.Equal(t, "42.5", w.TotalExpected.String())
	assert.Equal(t, "2.0", w.Overtime.String())
	assert.Equal(t, "2.0", w.Undertime.String())
	assert.True(t, w.Balance.IsZero())
	assert.Len(t, w.Days, 7)
}

func TestBalanceAggregator_WeeklySummary_WeekBounds(t *testing.T) {
	agg, _, emp := newTestAggregator(t)
	ctx := context.Background()

	_, err := agg.WeeklySummary(ctx, emp.ID, 2026, 0)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)

	// 2026 has 53 ISO weeks, 2025 only 52.
	_, err = agg.WeeklySummary(ctx, emp.ID, 2025, 53)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

// =============================================================================
// CUMULATIVE BALANCE
// =============================================================================

func TestBalanceAggregator_CumulativeBalance_Recompute(t *testing.T) {
	// Recomputing over unchanged data returns the identical account.

	agg, m, emp := newTestAggregator(t)
	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "18:30") // +2h over a week of otherwise empty days
	ctx := context.Background()

	first, err := agg.CumulativeBalance(ctx, emp.ID, 2026, 2)
	require.NoError(t, err)
	second, err := agg.CumulativeBalance(ctx, emp.ID, 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBalanceAggregator_CumulativeBalance_MatchesWeeklySums(t *testing.T) {
	// GIVEN: A year whose first ISO week starts on January 1st (2024) and a
	//        mix of exact, over-, and under-time days spread over six weeks
	// WHEN: Summing the weekly balances of weeks 1..6
	// THEN: The sum equals the cumulative account through week 6

	agg, m, emp := newTestAggregator(t)
	ctx := context.Background()

	seedEntry(t, m, emp.ID, "2024-01-01", "08:00", "17:00", lunch(t, "12:00", "12:30")) // exact
	seedEntry(t, m, emp.ID, "2024-01-09", "08:00", "19:00", lunch(t, "12:00", "12:30")) // +2h
	seedEntry(t, m, emp.ID, "2024-01-17", "08:00", "14:30")                             // -2h
	seedEntry(t, m, emp.ID, "2024-02-02", "07:00", "18:00", lunch(t, "12:00", "13:00")) // +1.5h

	const upToWeek = 6
	var weeklySum engine.Hours
	for week := 1; week <= upToWeek; week++ {
		w, err := agg.WeeklySummary(ctx, emp.ID, 2024, week)
		require.NoError(t, err)
		weeklySum = weeklySum.Add(w.Balance)
	}

	acct, err := agg.CumulativeBalance(ctx, emp.ID, 2024, upToWeek)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Value.Equal(weeklySum.Value),
		"cumulative %s, weekly sum %s", acct.Balance, weeklySum)
}

func TestBalanceAggregator_CumulativeBalance_SignedFormat(t *testing.T) {
	agg, m, emp := newTestAggregator(t)
	ctx := context.Background()

	// Cover weeks 1-2 exactly, then 2 extra hours on the last Friday.
	for _, date := range []string{
		"2025-12-29", "2025-12-30", "2025-12-31", "2026-01-01", "2026-01-02",
		"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08",
	} {
		seedEntry(t, m, emp.ID, date, "08:00", "17:00", lunch(t, "12:00", "12:30"))
	}
	seedEntry(t, m, emp.ID, "2026-01-09", "08:00", "19:00", lunch(t, "12:00", "12:30"))

	acct, err := agg.CumulativeBalance(ctx, emp.ID, 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, "+2.0", acct.Formatted)
	assert.Equal(t, "+2.0", acct.Balance.Signed())
}

func TestBalanceAggregator_CumulativeBalance_ClampsToStartDate(t *testing.T) {
	// GIVEN: An employee joining mid-year
	// WHEN: Computing the cumulative balance for that year
	// THEN: Days before the start date owe nothing

	agg, m, _ := newTestAggregator(t)
	ctx := context.Background()

	latecomer := &engine.Employee{
		Name:               "Jonas Frei",
		StartDate:          day(t, "2026-03-02"),
		PlannedWeeklyHours: engine.NewHours(42.5),
	}
	require.NoError(t, m.SaveEmployee(ctx, latecomer))

	acct, err := agg.CumulativeBalance(ctx, latecomer.ID, 2026, 10)
	require.NoError(t, err)

	assert.Equal(t, day(t, "2026-03-02"), acct.Period.Start)
	// One workweek owed (week 10 is Mar 2-8), nothing worked.
	assert.Equal(t, "-42.5", acct.Balance.Signed())
}

func TestBalanceAggregator_CumulativeBalance_BeforeEmployment(t *testing.T) {
	agg, m, _ := newTestAggregator(t)
	ctx := context.Background()

	future := &engine.Employee{
		Name:               "Lea Brunner",
		StartDate:          day(t, "2026-09-01"),
		PlannedWeeklyHours: engine.NewHours(42.5),
	}
	require.NoError(t, m.SaveEmployee(ctx, future))

	acct, err := agg.CumulativeBalance(ctx, future.ID, 2026, 2)
	require.NoError(t, err)

	assert.True(t, acct.Balance.IsZero())
	assert.Equal(t, "+0.0", acct.Formatted)
}

// =============================================================================
// MONTHLY SUMMARIES
// =============================================================================

func TestBalanceAggregator_MonthlySummaries(t *testing.T) {
	agg, _, emp := newTestAggregator(t)

	days, err := agg.MonthlySummaries(context.Background(), emp.ID, 2026, 2)
	require.NoError(t, err)
	assert.Len(t, days, 28)

	_, err = agg.MonthlySummaries(context.Background(), emp.ID, 2026, 13)
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}
