package calc

import (
	"testing"

	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestQuarterlyUITaxableWages(t *testing.T) {
	tests := []struct {
		name    string
		prior   int64
		quarter int64
		want    int64
	}{
		{"fresh employee under the limit", 0, 5_000_00, 5_000_00},
		{"straddles the limit", 6_500_00, 1_000_00, 500_00},
		{"limit already reached", 7_000_00, 2_000_00, 0},
		{"prior wages beyond the limit", 9_000_00, 1_000_00, 0},
		{"exactly fills the limit", 6_000_00, 1_000_00, 1_000_00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuarterlyUITaxableWages(tt.prior, tt.quarter, 7_000_00))
		})
	}
}

func TestComputeDe9(t *testing.T) {
	withheld := func(pit, sdi int64) func(*payrolldomain.PayrollRecord) {
		return func(r *payrolldomain.PayrollRecord) {
			r.CAPIT = pit
			r.CASDI = sdi
		}
	}
	in := De9Input{
		Year:    2025,
		Quarter: 2,
		YearPayrolls: []payrolldomain.PayrollRecord{
			// Q1 wages push employee 10 near the UI wage base.
			testRecord(1, 10, date(2025, 2, 15), 6_500_00, withheld(80_00, 78_00)),
			testRecord(2, 10, date(2025, 4, 15), 1_000_00, withheld(12_00, 12_00)),
			testRecord(3, 11, date(2025, 5, 15), 5_000_00, withheld(60_00, 60_00)),
		},
		UIRate:       0.034,
		ETTSubject:   true,
		DepositsPaid: 100_00,
	}

	res := ComputeDe9(in)

	assert.Equal(t, int64(6_000_00), res.TotalSubjectWages)
	// 500 left under the base for employee 10, all 5,000 for employee 11.
	assert.Equal(t, int64(5_500_00), res.UITaxableWages)
	assert.Equal(t, int64(187_00), res.UIContributions)
	assert.Equal(t, int64(5_50), res.ETTContributions)
	assert.Equal(t, int64(6_000_00), res.SDITaxableWages)
	assert.Equal(t, int64(72_00), res.SDIWithheld)
	assert.Equal(t, int64(72_00), res.PITWithheld)
	assert.Equal(t, res.UIContributions+res.ETTContributions+res.SDIWithheld+res.PITWithheld, res.Subtotal)
	assert.Equal(t, res.Subtotal-100_00, res.BalanceDue)
	assert.Equal(t, int64(0), res.Overpayment)
	assert.Len(t, res.PayrollIDs, 2)
}

func TestComputeDe9ETTNotSubject(t *testing.T) {
	in := De9Input{
		Year:    2025,
		Quarter: 1,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 1, 15), 4_000_00),
		},
		UIRate: 0.034,
	}

	res := ComputeDe9(in)

	assert.Equal(t, int64(136_00), res.UIContributions)
	assert.Equal(t, int64(0), res.ETTContributions)
}

func TestComputeDe9Exemptions(t *testing.T) {
	exempt := func(r *payrolldomain.PayrollRecord) {
		r.Elections = datatypes.NewJSONType(withholding.ElectionSnapshot{
			Exemptions: withholding.Exemptions{SUIETT: true, SDI: true},
		})
	}
	in := De9Input{
		Year:    2025,
		Quarter: 1,
		YearPayrolls: []payrolldomain.PayrollRecord{
			testRecord(1, 10, date(2025, 1, 15), 4_000_00, exempt),
			testRecord(2, 11, date(2025, 1, 15), 3_000_00),
		},
		UIRate:     0.034,
		ETTSubject: true,
	}

	res := ComputeDe9(in)

	// Exempt wages stay in subject wages but out of the UI/SDI bases.
	assert.Equal(t, int64(7_000_00), res.TotalSubjectWages)
	assert.Equal(t, int64(3_000_00), res.UITaxableWages)
	assert.Equal(t, int64(3_000_00), res.SDITaxableWages)
}
