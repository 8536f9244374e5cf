package calc

import (
	"testing"

	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func futaExempt(rec *payrolldomain.PayrollRecord) {
	rec.Elections = datatypes.NewJSONType(withholding.ElectionSnapshot{
		Exemptions: withholding.Exemptions{FUTA: true},
	})
}

func TestComputeForm940WageCapReplay(t *testing.T) {
	// 6,000 then 3,000 for the same employee: the second record only has
	// 1,000 left under the 7,000 base.
	in := Form940Input{
		Year: 2025,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(2, 10, date(2025, 4, 15), 3_000_00),
			testRecord(1, 10, date(2025, 1, 15), 6_000_00),
		},
	}

	res := ComputeForm940(in)

	assert.Equal(t, int64(9_000_00), res.TotalWages)
	assert.Equal(t, int64(7_000_00), res.FUTATaxableWages)
	assert.Equal(t, int64(2_000_00), res.ExcessWages)
	// 0.6% of 6,000 in Q1, 0.6% of the remaining 1,000 in Q2.
	assert.Equal(t, int64(36_00), res.QuarterLiabilities[0])
	assert.Equal(t, int64(6_00), res.QuarterLiabilities[1])
	assert.Equal(t, int64(42_00), res.FUTALiability)
	assert.Equal(t, res.FUTALiability, res.QuarterLiabilities[0]+res.QuarterLiabilities[1]+res.QuarterLiabilities[2]+res.QuarterLiabilities[3])
	assert.False(t, res.RequiresQuarterlyDeposits)
}

func TestComputeForm940ExemptWages(t *testing.T) {
	in := Form940Input{
		Year: 2025,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 3, 15), 5_000_00),
			testRecord(2, 11, date(2025, 3, 15), 5_000_00, futaExempt),
		},
	}

	res := ComputeForm940(in)

	assert.Equal(t, int64(10_000_00), res.TotalWages)
	assert.Equal(t, int64(5_000_00), res.ExemptWages)
	assert.Equal(t, int64(5_000_00), res.FUTATaxableWages)
	assert.Equal(t, int64(30_00), res.FUTALiability)
}

func TestComputeForm940CreditReduction(t *testing.T) {
	in := Form940Input{
		Year: 2025,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 2, 1), 7_000_00),
		},
		CreditReductionRate: 0.003,
	}

	res := ComputeForm940(in)

	assert.Equal(t, int64(42_00), res.FUTALiability)
	assert.Equal(t, int64(21_00), res.CreditReduction)
	assert.Equal(t, int64(63_00), res.TotalTax)
}

func TestComputeForm940BalanceAgainstDeposits(t *testing.T) {
	in := Form940Input{
		Year: 2025,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 2, 1), 7_000_00),
		},
		DepositsByQuarter: map[int]int64{1: 30_00},
	}

	res := ComputeForm940(in)

	assert.Equal(t, int64(30_00), res.TotalDeposits)
	assert.Equal(t, int64(12_00), res.BalanceDue)
	assert.Equal(t, int64(0), res.Overpayment)
}

func TestFUTADepositsDue(t *testing.T) {
	tests := []struct {
		name        string
		liabilities [4]int64
		want        [4]bool
	}{
		{
			name:        "never exceeds threshold",
			liabilities: [4]int64{100_00, 100_00, 100_00, 100_00},
			want:        [4]bool{false, false, false, false},
		},
		{
			name:        "carryover triggers second quarter then resets",
			liabilities: [4]int64{400_00, 200_00, 100_00, 100_00},
			want:        [4]bool{false, true, false, false},
		},
		{
			name:        "every quarter over threshold",
			liabilities: [4]int64{600_00, 600_00, 600_00, 600_00},
			want:        [4]bool{true, true, true, true},
		},
		{
			name:        "exactly at threshold does not trigger",
			liabilities: [4]int64{500_00, 0, 0, 0},
			want:        [4]bool{false, false, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FUTADepositsDue(tt.liabilities))
		})
	}
}
