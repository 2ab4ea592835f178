package entity

import (
	"testing"
	"time"

	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseRangeKey(t *testing.T) {
	for _, k := range RangeKeys {
		got, err := ParseRangeKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	for _, bad := range []string{"Next week", "", "today", "This Month", " Today"} {
		_, err := ParseRangeKey(bad)
		assert.ErrorIs(t, err, types.ErrInvalidRangeKey, bad)
	}
}

func TestRangeKey_Resolve(t *testing.T) {
	now := time.Date(2026, time.March, 15, 17, 42, 5, 0, time.Local)

	tests := []struct {
		key   RangeKey
		start time.Time
		end   time.Time
	}{
		{RangeToday, date(2026, time.March, 15), date(2026, time.March, 15)},
		{RangeYesterday, date(2026, time.March, 14), date(2026, time.March, 14)},
		{RangeThisMonth, date(2026, time.March, 1), date(2026, time.March, 15)},
		{RangeLastMonth, date(2026, time.February, 1), date(2026, time.February, 28)},
		{RangeThisYear, date(2026, time.January, 1), date(2026, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			span := tt.key.Resolve(now)
			assert.True(t, span.Start.Equal(tt.start), "start: got %s want %s", span.Start, tt.start)
			assert.True(t, span.End.Equal(tt.end), "end: got %s want %s", span.End, tt.end)
		})
	}
}

func TestRangeKey_Resolve_CalendarEdges(t *testing.T) {
	t.Run("yesterday on the first of the year", func(t *testing.T) {
		span := RangeYesterday.Resolve(time.Date(2026, time.January, 1, 0, 5, 0, 0, time.Local))
		assert.Equal(t, "2025/12/31", span.StartText())
		assert.Equal(t, "2025/12/31", span.EndText())
	})

	t.Run("last month in january", func(t *testing.T) {
		span := RangeLastMonth.Resolve(time.Date(2026, time.January, 20, 9, 0, 0, 0, time.Local))
		assert.Equal(t, "2025/12/01", span.StartText())
		assert.Equal(t, "2025/12/31", span.EndText())
	})

	t.Run("last month ending in a leap february", func(t *testing.T) {
		span := RangeLastMonth.Resolve(time.Date(2028, time.March, 31, 23, 59, 0, 0, time.Local))
		assert.Equal(t, "2028/02/01", span.StartText())
		assert.Equal(t, "2028/02/29", span.EndText())
	})

	t.Run("this month on the first", func(t *testing.T) {
		span := RangeThisMonth.Resolve(time.Date(2026, time.October, 1, 8, 0, 0, 0, time.Local))
		assert.Equal(t, span.Start, span.End)
	})
}

func TestRangeKey_Resolve_StartNotAfterEnd(t *testing.T) {
	start := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.Local)
	for day := 0; day < 3*366; day++ {
		now := start.AddDate(0, 0, day)
		for _, k := range RangeKeys {
			span := k.Resolve(now)
			require.False(t, span.Start.After(span.End), "%s on %s", k, now.Format("2006-01-02"))
			require.False(t, span.End.After(now), "%s on %s", k, now.Format("2006-01-02"))
		}
	}
}

func TestDateSpan_Text(t *testing.T) {
	span := DateSpan{Start: date(2026, time.October, 1), End: date(2026, time.October, 18)}

	assert.Equal(t, "2026/10/01", span.StartText())
	assert.Equal(t, "2026/10/18", span.EndText())
	assert.Equal(t, "Report dates: 2026/10/01 - 2026/10/18", span.FilterText())
}
