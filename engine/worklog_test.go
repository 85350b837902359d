package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdemkoca/baunex-timekeeping/engine"
)

func TestTimeEntry_WorkedHours_BreakSubtracted(t *testing.T) {
	// 08:00-17:00 with a 12:00-12:30 lunch is exactly 8.5 hours.
	e := &engine.TimeEntry{
		Start:  clock(t, "08:00"),
		End:    clock(t, "17:00"),
		Breaks: []engine.BreakInterval{lunch(t, "12:00", "12:30")},
	}

	assert.Equal(t, 540, e.SpanMinutes())
	assert.Equal(t, 30, e.BreakMinutes())
	assert.Equal(t, 510, e.NetMinutes())
	assert.Equal(t, "8.5", e.WorkedHours().String())
}

func TestTimeEntry_WorkedHours_NoBreaks(t *testing.T) {
	e := &engine.TimeEntry{Start: clock(t, "07:15"), End: clock(t, "11:45")}
	assert.Equal(t, "4.5", e.WorkedHours().String())
}

func TestSumNetMinutes_DisjointSpans(t *testing.T) {
	entries := []engine.TimeEntry{
		{Start: clock(t, "08:00"), End: clock(t, "12:00")},
		{Start: clock(t, "13:00"), End: clock(t, "17:00")},
	}

	minutes, overlapping := engine.SumNetMinutes(entries)
	assert.Equal(t, 480, minutes)
	assert.False(t, overlapping)
}

func TestSumNetMinutes_OverlappingSpansFlagged(t *testing.T) {
	// GIVEN: Two entries sharing 10:00-12:00 on the same day
	// WHEN: Summing their net minutes
	// THEN: Both are counted as-is and the overlap is flagged

	d := day(t, "2026-01-05")
	entries := []engine.TimeEntry{
		{Date: d, Start: clock(t, "08:00"), End: clock(t, "12:00")},
		{Date: d, Start: clock(t, "10:00"), End: clock(t, "14:00")},
	}

	minutes, overlapping := engine.SumNetMinutes(entries)
	assert.Equal(t, 480, minutes)
	assert.True(t, overlapping)
}

func TestWorkAggregator_WorkedHours(t *testing.T) {
	m := newMemory(t)
	emp := seedEmployee(t, m)
	seedEntry(t, m, emp.ID, "2026-01-05", "08:00", "17:00", lunch(t, "12:00", "12:30"))
	seedEntry(t, m, emp.ID, "2026-01-06", "08:00", "12:00")
	// Outside the queried range
	seedEntry(t, m, emp.ID, "2026-01-12", "08:00", "17:00")

	work := engine.NewWorkAggregator(m)
	monday, err := work.WorkedHours(context.Background(), emp.ID, day(t, "2026-01-05"))
	require.NoError(t, err)
	assert.Equal(t, "8.5", monday.String())

	tuesday, err := work.WorkedHours(context.Background(), emp.ID, day(t, "2026-01-06"))
	require.NoError(t, err)
	assert.Equal(t, "4.0", tuesday.String())

	// The next Monday's entry does not leak into either day.
	sunday, err := work.WorkedHours(context.Background(), emp.ID, day(t, "2026-01-11"))
	require.NoError(t, err)
	assert.True(t, sunday.IsZero())
}
