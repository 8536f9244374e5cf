package taxcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		date    time.Time
		year    int
		quarter int
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 2025, 1},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), 2025, 1},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 2025, 2},
		{time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), 2025, 2},
		{time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), 2025, 3},
		{time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), 2025, 4},
	}
	for _, tc := range tests {
		got := QuarterOf(tc.date)
		assert.Equal(t, tc.year, got.Year, tc.date.String())
		assert.Equal(t, tc.quarter, got.Quarter, tc.date.String())
	}
}

func TestQuarterOfTimezoneIndependence(t *testing.T) {
	// 2025-04-01T00:00:00Z is March 31 in US timezones. Quarter derivation
	// must stay on the UTC side of the boundary.
	loc, err := time.LoadLocation("America/Los_Angeles")
	assert.NoError(t, err)

	utcMidnight := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	local := utcMidnight.In(loc)
	assert.Equal(t, time.March, local.Month())

	assert.Equal(t, YearQuarter{Year: 2025, Quarter: 2}, QuarterOf(local))
}

func TestQuarterRange(t *testing.T) {
	start := QuarterStart(2025, 2)
	end := QuarterEnd(2025, 2)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), end)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), QuarterEnd(2025, 4))
}

func TestMonthOfQuarter(t *testing.T) {
	q2 := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range q2 {
		assert.Equal(t, tc.want, MonthOfQuarter(tc.date, 2025, 2), tc.date.String())
	}
}

func TestMonthPositionInQuarter(t *testing.T) {
	assert.Equal(t, 1, MonthPositionInQuarter(4, 2))
	assert.Equal(t, 3, MonthPositionInQuarter(6, 2))
	assert.Equal(t, 0, MonthPositionInQuarter(7, 2))
	assert.Equal(t, 0, MonthPositionInQuarter(3, 2))
	assert.Equal(t, 2, MonthPositionInQuarter(11, 4))
}

func TestDueDates(t *testing.T) {
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), MonthlyDepositDueDate(2025, 4))
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), MonthlyDepositDueDate(2025, 12))

	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), QuarterlyDueDate(2025, 2))
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), QuarterlyDueDate(2025, 4))

	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), AnnualFilingDueDate(2025))
}
