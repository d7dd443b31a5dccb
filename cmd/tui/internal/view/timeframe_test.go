package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_Contains(t *testing.T) {
	// Wednesday
	now := time.Date(2024, time.March, 13, 15, 4, 5, 0, time.UTC)

	type testCase struct {
		name string
		tf   Timeframe
		date string
		want bool
	}

	tests := []testCase{
		{name: "all matches garbage", tf: TimeframeAll, date: "someday", want: true},
		{name: "this week monday", tf: TimeframeThisWeek, date: "2024-03-11", want: true},
		{name: "this week today", tf: TimeframeThisWeek, date: "2024-03-13", want: true},
		{name: "this week tomorrow", tf: TimeframeThisWeek, date: "2024-03-14", want: false},
		{name: "last week sunday", tf: TimeframeLastWeek, date: "2024-03-10", want: true},
		{name: "last week monday", tf: TimeframeLastWeek, date: "2024-03-04", want: true},
		{name: "last week too early", tf: TimeframeLastWeek, date: "2024-03-03", want: false},
		{name: "this month first", tf: TimeframeThisMonth, date: "2024-03-01", want: true},
		{name: "last month leap day", tf: TimeframeLastMonth, date: "2024-02-29", want: true},
		{name: "last month excludes this month", tf: TimeframeLastMonth, date: "2024-03-01", want: false},
		{name: "unparsable date", tf: TimeframeThisMonth, date: "13/03/2024", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tf.Contains(tc.date, now))
		})
	}
}

func TestTimeframe_NextWraps(t *testing.T) {
	assert.Equal(t, TimeframeThisWeek, TimeframeAll.Next())
	assert.Equal(t, TimeframeAll, TimeframeLastMonth.Next())
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "19%", FormatRate(dec("0.19")))
	assert.Equal(t, "7.5%", FormatRate(dec("0.075")))
	assert.Equal(t, "12.50", FormatMoney(dec("12.5")))
}
