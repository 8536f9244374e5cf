package withholding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseElections() ElectionSnapshot {
	return ElectionSnapshot{
		EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		W4:            &W4Elections{FilingStatus: FilingStatusSingle},
		DE4:           &DE4Elections{FilingStatus: FilingStatusSingle, Allowances: 1},
	}
}

func TestComputeStandardBiweekly(t *testing.T) {
	res, err := Compute(Input{
		Gross:          200000, // $2,000.00
		PeriodType:     PeriodBiweekly,
		YTDGrossBefore: 0,
		Elections:      baseElections(),
		UIRate:         0.034,
		ETTSubject:     true,
	})
	require.NoError(t, err)

	// Annualized $52,000 single: $5,233.50 tentative tax / 26 periods.
	assert.Equal(t, int64(20129), res.Employee.FederalIncomeTax)
	assert.Equal(t, int64(12400), res.Employee.SocialSecurity)
	assert.Equal(t, int64(2900), res.Employee.Medicare)
	assert.Equal(t, int64(5145), res.Employee.CAPIT)
	assert.Equal(t, int64(2400), res.Employee.CASDI)

	assert.Equal(t, int64(12400), res.Employer.SocialSecurity)
	assert.Equal(t, int64(2900), res.Employer.Medicare)
	assert.Equal(t, int64(1200), res.Employer.FUTA)
	assert.Equal(t, int64(6800), res.Employer.CASUI)
	assert.Equal(t, int64(200), res.Employer.CAETT)

	assert.Equal(t, int64(157026), res.NetPay)
}

func TestComputeWageBaseStraddle(t *testing.T) {
	// $6,500 already taxed; only $500 of this $1,000 period remains under
	// the $7,000 FUTA/SUI wage base.
	res, err := Compute(Input{
		Gross:          100000,
		PeriodType:     PeriodBiweekly,
		YTDGrossBefore: 650000,
		Elections:      baseElections(),
		UIRate:         0.034,
		ETTSubject:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300), res.Employer.FUTA)  // 0.6% of $500
	assert.Equal(t, int64(1700), res.Employer.CASUI) // 3.4% of $500
	assert.Equal(t, int64(50), res.Employer.CAETT)   // 0.1% of $500
}

func TestComputeWageBaseReached(t *testing.T) {
	res, err := Compute(Input{
		Gross:          100000,
		PeriodType:     PeriodBiweekly,
		YTDGrossBefore: 900000,
		Elections:      baseElections(),
		UIRate:         0.034,
		ETTSubject:     true,
	})
	require.NoError(t, err)

	assert.Zero(t, res.Employer.FUTA)
	assert.Zero(t, res.Employer.CASUI)
	assert.Zero(t, res.Employer.CAETT)
	// SDI is uncapped and still applies.
	assert.Equal(t, int64(1200), res.Employee.CASDI)
}

func TestComputeSocialSecurityCap(t *testing.T) {
	// $175,600 YTD: only $500 of this period is under the $176,100 base.
	res, err := Compute(Input{
		Gross:          100000,
		PeriodType:     PeriodBiweekly,
		YTDGrossBefore: 17_560_000,
		Elections:      baseElections(),
		UIRate:         0.034,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3100), res.Employee.SocialSecurity)
	assert.Equal(t, int64(3100), res.Employer.SocialSecurity)
}

func TestComputeAdditionalMedicare(t *testing.T) {
	// $199,500 YTD: $500 of this period crosses the $200,000 threshold.
	res, err := Compute(Input{
		Gross:          100000,
		PeriodType:     PeriodBiweekly,
		YTDGrossBefore: 19_950_000,
		Elections:      baseElections(),
		UIRate:         0.034,
	})
	require.NoError(t, err)

	// 1.45% of $1,000 plus 0.9% of $500; no employer match on the surtax.
	assert.Equal(t, int64(1450+450), res.Employee.Medicare)
	assert.Equal(t, int64(1450), res.Employer.Medicare)
}

func TestComputeExemptions(t *testing.T) {
	el := baseElections()
	el.Exemptions = Exemptions{FUTA: true, FICA: true, SUIETT: true, SDI: true}

	res, err := Compute(Input{
		Gross:      200000,
		PeriodType: PeriodBiweekly,
		Elections:  el,
		UIRate:     0.034,
		ETTSubject: true,
	})
	require.NoError(t, err)

	assert.Zero(t, res.Employee.SocialSecurity)
	assert.Zero(t, res.Employee.Medicare)
	assert.Zero(t, res.Employee.CASDI)
	assert.Zero(t, res.Employer.SocialSecurity)
	assert.Zero(t, res.Employer.Medicare)
	assert.Zero(t, res.Employer.FUTA)
	assert.Zero(t, res.Employer.CASUI)
	assert.Zero(t, res.Employer.CAETT)

	// Income taxes still apply.
	assert.Positive(t, res.Employee.FederalIncomeTax)
}

func TestComputeExtraWithholding(t *testing.T) {
	el := baseElections()
	el.W4.ExtraWithholding = 5000
	el.DE4.ExtraWithholding = 2500

	base, err := Compute(Input{
		Gross:      200000,
		PeriodType: PeriodBiweekly,
		Elections:  baseElections(),
		UIRate:     0.034,
	})
	require.NoError(t, err)

	extra, err := Compute(Input{
		Gross:      200000,
		PeriodType: PeriodBiweekly,
		Elections:  el,
		UIRate:     0.034,
	})
	require.NoError(t, err)

	assert.Equal(t, base.Employee.FederalIncomeTax+5000, extra.Employee.FederalIncomeTax)
	assert.Equal(t, base.Employee.CAPIT+2500, extra.Employee.CAPIT)
}

func TestComputeMissingConfiguration(t *testing.T) {
	el := baseElections()
	el.W4 = nil
	_, err := Compute(Input{Gross: 100000, PeriodType: PeriodBiweekly, Elections: el, UIRate: 0.034})
	assert.ErrorIs(t, err, ErrMissingElections)

	_, err = Compute(Input{Gross: 100000, PeriodType: PeriodBiweekly, Elections: baseElections()})
	assert.ErrorIs(t, err, ErrMissingRates)

	_, err = Compute(Input{Gross: 100000, PeriodType: "fortnightly", Elections: baseElections(), UIRate: 0.034})
	assert.ErrorIs(t, err, ErrInvalidPeriodType)
}

func TestComputeLowIncomeExemption(t *testing.T) {
	// $300/week annualizes to $15,600, under the CA low income exemption:
	// no PIT withheld.
	res, err := Compute(Input{
		Gross:      30000,
		PeriodType: PeriodWeekly,
		Elections:  baseElections(),
		UIRate:     0.034,
	})
	require.NoError(t, err)
	assert.Zero(t, res.Employee.CAPIT)
}

func TestComputeNetPayDeductions(t *testing.T) {
	res, err := Compute(Input{
		Gross:           200000,
		PeriodType:      PeriodBiweekly,
		Elections:       baseElections(),
		UIRate:          0.034,
		OtherDeductions: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, 200000-res.Employee.Total()-int64(10000), res.NetPay)
}
