// Package taxcal maps instants to statutory tax periods and due dates.
//
// Every calendar field is derived from UTC components. Pay dates are stored
// as UTC midnight, so deriving month or quarter from a local timezone would
// shift boundary dates into the wrong bucket.
package taxcal

import "time"

// YearQuarter identifies one fiscal quarter.
type YearQuarter struct {
	Year    int
	Quarter int
}

// QuarterOf resolves a date to its calendar quarter using UTC fields.
func QuarterOf(t time.Time) YearQuarter {
	u := t.UTC()
	return YearQuarter{
		Year:    u.Year(),
		Quarter: (int(u.Month())-1)/3 + 1,
	}
}

// QuarterMonths returns the three calendar months of a quarter.
func QuarterMonths(quarter int) [3]int {
	first := (quarter-1)*3 + 1
	return [3]int{first, first + 1, first + 2}
}

// QuarterStart returns the first instant of the quarter (UTC midnight).
func QuarterStart(year, quarter int) time.Time {
	return time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// QuarterEnd returns the first instant after the quarter. Ranges are
// half-open: a pay date belongs to the quarter iff start <= d < end.
func QuarterEnd(year, quarter int) time.Time {
	return QuarterStart(year, quarter).AddDate(0, 3, 0)
}

// YearStart returns January 1 of the year (UTC midnight).
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns January 1 of the following year.
func YearEnd(year int) time.Time {
	return YearStart(year + 1)
}

// MonthStart returns the first instant of the month (UTC midnight).
func MonthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the first instant of the following month.
func MonthEnd(year, month int) time.Time {
	return MonthStart(year, month).AddDate(0, 1, 0)
}

// MonthOfQuarter returns the 1-based position (1..3) of the date's UTC
// month within the given quarter, or 0 when the date falls outside it.
func MonthOfQuarter(t time.Time, year, quarter int) int {
	u := t.UTC()
	if u.Year() != year {
		return 0
	}
	first := (quarter-1)*3 + 1
	offset := int(u.Month()) - first
	if offset < 0 || offset > 2 {
		return 0
	}
	return offset + 1
}

// MonthPositionInQuarter returns the 1-based slot of a calendar month
// within a quarter, or 0 when the month is not part of the quarter.
// Aggregates must be keyed by this derived slot, never by array order.
func MonthPositionInQuarter(month, quarter int) int {
	first := (quarter-1)*3 + 1
	offset := month - first
	if offset < 0 || offset > 2 {
		return 0
	}
	return offset + 1
}

// MonthlyDepositDueDate returns the statutory due date for a monthly
// deposit obligation: the 15th of the following month.
func MonthlyDepositDueDate(year, month int) time.Time {
	return MonthStart(year, month).AddDate(0, 1, 14)
}

// QuarterlyDueDate returns the statutory due date for quarterly
// obligations and filings: the last day of the month following quarter end.
func QuarterlyDueDate(year, quarter int) time.Time {
	// First day of the second month after quarter end, minus one day.
	return QuarterEnd(year, quarter).AddDate(0, 1, 0).AddDate(0, 0, -1)
}

// AnnualFilingDueDate returns the Form 940 due date: January 31 of the
// following year.
func AnnualFilingDueDate(year int) time.Time {
	return time.Date(year+1, time.January, 31, 0, 0, 0, 0, time.UTC)
}
