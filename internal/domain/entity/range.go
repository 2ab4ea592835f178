package entity

import (
	"fmt"
	"time"

	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// RangeKey selects a reporting period relative to the day of invocation.
type RangeKey string

const (
	RangeToday     RangeKey = "Today"
	RangeYesterday RangeKey = "Yesterday"
	RangeThisMonth RangeKey = "This month"
	RangeLastMonth RangeKey = "Last month"
	RangeThisYear  RangeKey = "This year"
)

// RangeKeys lists every accepted key in display order.
var RangeKeys = []RangeKey{RangeToday, RangeYesterday, RangeThisMonth, RangeLastMonth, RangeThisYear}

const spanDateLayout = "2006/01/02"

// ParseRangeKey validates s against the fixed key set. Matching is exact.
func ParseRangeKey(s string) (RangeKey, error) {
	for _, k := range RangeKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %v)", types.ErrInvalidRangeKey, s, RangeKeys)
}

// DateSpan is an inclusive calendar date range. Both ends are midnight in the
// location of the instant they were resolved from.
type DateSpan struct {
	Start time.Time
	End   time.Time
}

// Resolve maps the key to a concrete span relative to now, using now's location.
func (k RangeKey) Resolve(now time.Time) DateSpan {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch k {
	case RangeYesterday:
		yesterday := time.Date(y, m, d-1, 0, 0, 0, 0, loc)
		return DateSpan{Start: yesterday, End: yesterday}
	case RangeThisMonth:
		return DateSpan{Start: time.Date(y, m, 1, 0, 0, 0, 0, loc), End: today}
	case RangeLastMonth:
		// day 0 of the current month normalizes to the last day of the previous one
		return DateSpan{
			Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc),
			End:   time.Date(y, m, 0, 0, 0, 0, 0, loc),
		}
	case RangeThisYear:
		return DateSpan{Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc), End: today}
	default:
		return DateSpan{Start: today, End: today}
	}
}

// StartText renders the start date as YYYY/MM/DD.
func (s DateSpan) StartText() string {
	return s.Start.Format(spanDateLayout)
}

// EndText renders the end date as YYYY/MM/DD.
func (s DateSpan) EndText() string {
	return s.End.Format(spanDateLayout)
}

// FilterText is the text the report portal expects in its date range widget.
func (s DateSpan) FilterText() string {
	return fmt.Sprintf("Report dates: %s - %s", s.StartText(), s.EndText())
}

func (s DateSpan) String() string {
	return s.StartText() + " - " + s.EndText()
}
