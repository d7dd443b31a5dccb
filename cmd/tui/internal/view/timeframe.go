package view

import "time"

// Timeframe is a predefined date range used to narrow the jobs list.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth

	timeframeCount
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Range returns the inclusive day range of t relative to now.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// ISO weeks start on Monday.
	offset := int(today.Weekday())
	if offset == 0 {
		offset = 7
	}

	monday := today.AddDate(0, 0, -offset+1)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch t {
	case TimeframeThisWeek:
		return monday, today
	case TimeframeLastWeek:
		return monday.AddDate(0, 0, -7), monday.AddDate(0, 0, -1)
	case TimeframeThisMonth:
		return firstOfMonth, today
	case TimeframeLastMonth:
		start := firstOfMonth.AddDate(0, -1, 0)
		return start, firstOfMonth.AddDate(0, 0, -1)
	}

	return time.Time{}, time.Time{}
}

// Contains reports whether a YYYY-MM-DD date falls in t. Dates that do not
// parse only match TimeframeAll.
func (t Timeframe) Contains(date string, now time.Time) bool {
	if t == TimeframeAll {
		return true
	}

	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return false
	}

	start, end := t.Range(now)

	return !d.Before(start) && !d.After(end)
}
