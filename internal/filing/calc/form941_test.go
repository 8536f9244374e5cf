package calc

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testRecord(id, employee int64, payDate time.Time, gross int64, mut ...func(*payrolldomain.PayrollRecord)) payrolldomain.PayrollRecord {
	rec := payrolldomain.PayrollRecord{
		ID:                snowflake.ID(id),
		CompanyID:         snowflake.ID(1),
		EmployeeID:        snowflake.ID(employee),
		EmployeeFirstName: "Pat",
		EmployeeLastName:  "Doe",
		EmployeeSSN:       "123456789",
		WagePlanCode:      "S",
		PeriodStart:       payDate.AddDate(0, 0, -14),
		PeriodEnd:         payDate.AddDate(0, 0, -1),
		PayDate:           payDate,
		PeriodType:        withholding.PeriodBiweekly,
		RegularPay:        gross,
		GrossPay:          gross,
		ApprovalStatus:    payrolldomain.ApprovalStatusApproved,
	}
	for _, m := range mut {
		m(&rec)
	}
	return rec
}

func ficaExempt(rec *payrolldomain.PayrollRecord) {
	rec.Elections = datatypes.NewJSONType(withholding.ElectionSnapshot{
		Exemptions: withholding.Exemptions{FICA: true},
	})
}

func TestComputeForm941MonthBuckets(t *testing.T) {
	// Midnight-UTC pay dates on month boundaries must land in the month
	// they name, and the buckets must sum to the total tax.
	in := Form941Input{
		Year:    2025,
		Quarter: 2,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 4, 1), 50_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 10_00
			}),
			testRecord(2, 10, date(2025, 5, 1), 50_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 20_00
			}),
			testRecord(3, 10, date(2025, 6, 1), 50_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 30_00
			}),
		},
	}

	res := ComputeForm941(in)

	assert.Equal(t, int64(10_00), res.MonthLiabilities[0])
	assert.Equal(t, int64(20_00), res.MonthLiabilities[1])
	assert.Equal(t, int64(30_00), res.MonthLiabilities[2])
	assert.Equal(t, res.TotalTax, res.MonthLiabilities[0]+res.MonthLiabilities[1]+res.MonthLiabilities[2])
	assert.Equal(t, 1, res.NumEmployees)
	assert.Equal(t, filingdomain.DepositScheduleMonthly, res.DepositSchedule)
}

func TestComputeForm941DepositsKeyedByMonth(t *testing.T) {
	in := Form941Input{
		Year:    2025,
		Quarter: 3,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 7, 15), 40_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 17_00_00
			}),
		},
		// Calendar months of Q3; no deposit was made in August.
		DepositsByMonth: map[int]int64{7: 8_00_00, 9: 9_00_00},
	}

	res := ComputeForm941(in)

	assert.Equal(t, int64(8_00_00), res.MonthDeposits[0])
	assert.Equal(t, int64(0), res.MonthDeposits[1])
	assert.Equal(t, int64(9_00_00), res.MonthDeposits[2])
	assert.Equal(t, int64(17_00_00), res.TotalDeposits)
	assert.Equal(t, int64(0), res.BalanceDue)
	assert.Equal(t, int64(0), res.Overpayment)
}

func TestComputeForm941FractionsOfCents(t *testing.T) {
	// Gross of $1,000.50: the per-payroll employee and employer halves
	// each round up, the aggregate recomputation rounds once. The
	// fractions line absorbs the difference so the bucket-sum invariant
	// survives rounding.
	in := Form941Input{
		Year:    2025,
		Quarter: 1,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 2, 14), 1_000_50, func(r *payrolldomain.PayrollRecord) {
				r.SocialSecurity = 62_03
				r.EmployerSocialSecurity = 62_03
				r.Medicare = 14_51
				r.EmployerMedicare = 14_51
			}),
		},
	}

	res := ComputeForm941(in)

	assert.Equal(t, int64(1_000_50), res.SocialSecurityWages)
	assert.Equal(t, int64(124_06), res.SocialSecurityTax)
	assert.Equal(t, int64(1_000_50), res.MedicareWages)
	assert.Equal(t, int64(29_01), res.MedicareTax)
	assert.Equal(t, int64(1), res.FractionsOfCents)
	assert.Equal(t, int64(153_08), res.TotalTax)
	assert.Equal(t, res.TotalTax, res.MonthLiabilities[0]+res.MonthLiabilities[1]+res.MonthLiabilities[2])
}

func TestComputeForm941WageBaseReplay(t *testing.T) {
	// The employee crosses the Social Security wage base mid-quarter:
	// only the wages under the cap are taxable, regardless of the order
	// the records arrive in.
	in := Form941Input{
		Year:    2025,
		Quarter: 2,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(2, 10, date(2025, 4, 15), 100_000_00),
			testRecord(1, 10, date(2025, 2, 15), 150_000_00),
		},
	}

	res := ComputeForm941(in)

	// 176,100 base minus 150,000 already paid leaves 26,100 taxable.
	assert.Equal(t, int64(26_100_00), res.SocialSecurityWages)
	assert.Equal(t, int64(100_000_00), res.MedicareWages)
	// 150,000 prior wages leave 50,000 under the 200,000 surtax floor.
	assert.Equal(t, int64(50_000_00), res.AdditionalMedicareWages)
	assert.Equal(t, int64(100_000_00), res.TotalWages)
	require.Len(t, res.PayrollIDs, 1)
	assert.Equal(t, snowflake.ID(2), res.PayrollIDs[0])
}

func TestComputeForm941SemiweeklySchedule(t *testing.T) {
	in := Form941Input{
		Year:    2025,
		Quarter: 1,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 1, 10), 10_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 1_500_00
			}),
			testRecord(2, 11, date(2025, 1, 10), 10_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 1_200_00
			}),
			testRecord(3, 10, date(2025, 1, 24), 10_000_00, ficaExempt, func(r *payrolldomain.PayrollRecord) {
				r.FederalIncomeTax = 1_500_00
			}),
		},
		LookbackLiability: 50_000_01,
	}

	res := ComputeForm941(in)

	assert.Equal(t, filingdomain.DepositScheduleSemiweekly, res.DepositSchedule)
	require.Len(t, res.SemiweeklySchedule, 2)
	assert.Equal(t, date(2025, 1, 10), res.SemiweeklySchedule[0].Date)
	assert.Equal(t, int64(2_700_00), res.SemiweeklySchedule[0].Amount)
	assert.Equal(t, date(2025, 1, 24), res.SemiweeklySchedule[1].Date)
	assert.Equal(t, int64(1_500_00), res.SemiweeklySchedule[1].Amount)
	assert.Equal(t, 2, res.NumEmployees)
}

func TestComputeForm941Empty(t *testing.T) {
	res := ComputeForm941(Form941Input{Year: 2025, Quarter: 4})

	assert.Zero(t, res.TotalTax)
	assert.Zero(t, res.NumEmployees)
	assert.Empty(t, res.PayrollIDs)
	assert.Equal(t, filingdomain.DepositScheduleMonthly, res.DepositSchedule)
}
