package calc

import (
	"testing"

	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDe9c(t *testing.T) {
	named := func(first, last, ssn string) func(*payrolldomain.PayrollRecord) {
		return func(r *payrolldomain.PayrollRecord) {
			r.EmployeeFirstName = first
			r.EmployeeLastName = last
			r.EmployeeSSN = ssn
		}
	}
	pit := func(v int64) func(*payrolldomain.PayrollRecord) {
		return func(r *payrolldomain.PayrollRecord) { r.CAPIT = v }
	}

	in := De9cInput{
		Year:    2025,
		Quarter: 3,
		Payrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 7, 15), 4_000_00, named("Maria", "Zamora", "123456789"), pit(40_00)),
			testRecord(2, 10, date(2025, 8, 15), 4_000_00, named("Maria", "Zamora", "123456789"), pit(40_00)),
			testRecord(3, 11, date(2025, 8, 15), 3_000_00, named("Ken", "Abe", "987654321"), pit(25_00)),
		},
	}

	res := ComputeDe9c(in)

	require.Len(t, res.Rows, 2)
	// Rows sort by last name.
	assert.Equal(t, "Abe", res.Rows[0].LastName)
	assert.Equal(t, "987-65-4321", res.Rows[0].SSN)
	assert.Equal(t, int64(3_000_00), res.Rows[0].SubjectWages)
	assert.Equal(t, "Zamora", res.Rows[1].LastName)
	assert.Equal(t, int64(8_000_00), res.Rows[1].SubjectWages)
	assert.Equal(t, int64(80_00), res.Rows[1].PITWithheld)

	assert.Equal(t, int64(11_000_00), res.TotalSubjectWages)
	assert.Equal(t, int64(11_000_00), res.TotalPITWages)
	assert.Equal(t, int64(105_00), res.TotalPITWithheld)
	assert.Len(t, res.PayrollIDs, 3)
}

func TestComputeDe9cMonthlyHeadcount(t *testing.T) {
	endOn := func(end int) func(*payrolldomain.PayrollRecord) {
		return func(r *payrolldomain.PayrollRecord) {
			r.PeriodEnd = date(2025, end, 14)
			r.PeriodStart = r.PeriodEnd.AddDate(0, 0, -13)
		}
	}
	in := De9cInput{
		Year:    2025,
		Quarter: 1,
		Payrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 1, 20), 2_000_00, endOn(1)),
			testRecord(2, 11, date(2025, 1, 20), 2_000_00, endOn(1)),
			testRecord(3, 10, date(2025, 3, 20), 2_000_00, endOn(3)),
		},
	}

	res := ComputeDe9c(in)

	assert.Equal(t, [3]int{2, 0, 1}, res.MonthEmployees)
}

func TestFormatSSN(t *testing.T) {
	assert.Equal(t, "123-45-6789", FormatSSN("123456789"))
	assert.Equal(t, "123-45-6789", FormatSSN("123-45-6789"))
	assert.Equal(t, "12345", FormatSSN("12345"))
	assert.Equal(t, "12345678a", FormatSSN("12345678a"))
}
