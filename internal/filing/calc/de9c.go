package calc

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/snowflake"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
)

// De9cInput carries only the quarter's approved payroll.
type De9cInput struct {
	Year    int
	Quarter int

	Payrolls []payrolldomain.PayrollRecord
}

// De9cResult holds the per-employee wage detail and monthly headcounts.
type De9cResult struct {
	Rows           []filingdomain.EmployeeWageRow
	MonthEmployees [3]int

	TotalSubjectWages int64
	TotalPITWages     int64
	TotalPITWithheld  int64

	PayrollIDs []snowflake.ID
}

// ComputeDe9c builds the wage detail continuation. One row per employee,
// sorted by last name; the headcount for each month of the quarter
// counts employees with a pay period ending in that month.
func ComputeDe9c(in De9cInput) *De9cResult {
	res := &De9cResult{}

	rows := make(map[snowflake.ID]*filingdomain.EmployeeWageRow)
	var monthEmployees [3]map[snowflake.ID]struct{}
	for i := range monthEmployees {
		monthEmployees[i] = make(map[snowflake.ID]struct{})
	}

	for i := range in.Payrolls {
		rec := &in.Payrolls[i]
		yq := taxcal.QuarterOf(rec.PayDate)
		if yq.Year != in.Year || yq.Quarter != in.Quarter {
			continue
		}

		res.PayrollIDs = append(res.PayrollIDs, rec.ID)
		res.TotalSubjectWages += rec.GrossPay
		res.TotalPITWages += rec.GrossPay
		res.TotalPITWithheld += rec.CAPIT

		row, ok := rows[rec.EmployeeID]
		if !ok {
			row = &filingdomain.EmployeeWageRow{
				EmployeeID:   rec.EmployeeID,
				FirstName:    rec.EmployeeFirstName,
				LastName:     rec.EmployeeLastName,
				SSN:          FormatSSN(rec.EmployeeSSN),
				WagePlanCode: rec.WagePlanCode,
			}
			rows[rec.EmployeeID] = row
		}
		row.SubjectWages += rec.GrossPay
		row.PITWages += rec.GrossPay
		row.PITWithheld += rec.CAPIT

		if slot := taxcal.MonthOfQuarter(rec.PeriodEnd, in.Year, in.Quarter); slot >= 1 && slot <= 3 {
			monthEmployees[slot-1][rec.EmployeeID] = struct{}{}
		}
	}

	res.Rows = make([]filingdomain.EmployeeWageRow, 0, len(rows))
	for _, row := range rows {
		res.Rows = append(res.Rows, *row)
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i], res.Rows[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.EmployeeID < b.EmployeeID
	})
	for i := range monthEmployees {
		res.MonthEmployees[i] = len(monthEmployees[i])
	}
	return res
}

// FormatSSN renders a raw 9-digit SSN as XXX-XX-XXXX. Anything else is
// returned unchanged.
func FormatSSN(ssn string) string {
	if len(ssn) != 9 {
		return ssn
	}
	for _, r := range ssn {
		if r < '0' || r > '9' {
			return ssn
		}
	}
	return fmt.Sprintf("%s-%s-%s", ssn[:3], ssn[3:5], ssn[5:])
}
