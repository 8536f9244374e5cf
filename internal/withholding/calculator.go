// Package withholding computes one pay period's employee and employer
// taxes from gross pay, YTD wages and the employee's tax elections.
package withholding

import (
	"errors"

	"github.com/smallbiznis/taxrail/internal/taxmath"
)

var (
	ErrMissingElections   = errors.New("missing_tax_elections")
	ErrMissingRates       = errors.New("missing_company_tax_rates")
	ErrInvalidPeriodType  = errors.New("invalid_period_type")
	ErrNegativeGross      = errors.New("negative_gross_pay")
	ErrNegativeDeductions = errors.New("negative_deductions")
)

// Input is everything needed to compute one period.
type Input struct {
	Gross           int64
	PeriodType      PeriodType
	YTDGrossBefore  int64 // employee's approved gross for the year, before this period
	Elections       ElectionSnapshot
	UIRate          float64 // company CA UI rate, fraction
	ETTSubject      bool    // company is ETT-subject (rate is the statutory CAETTRate)
	OtherDeductions int64
}

// EmployeeTaxes are amounts withheld from the employee.
type EmployeeTaxes struct {
	FederalIncomeTax int64
	SocialSecurity   int64
	Medicare         int64
	CAPIT            int64
	CASDI            int64
}

func (t EmployeeTaxes) Total() int64 {
	return t.FederalIncomeTax + t.SocialSecurity + t.Medicare + t.CAPIT + t.CASDI
}

// EmployerTaxes are amounts owed by the employer on top of gross.
type EmployerTaxes struct {
	SocialSecurity int64
	Medicare       int64
	FUTA           int64
	CASUI          int64
	CAETT          int64
}

func (t EmployerTaxes) Total() int64 {
	return t.SocialSecurity + t.Medicare + t.FUTA + t.CASUI + t.CAETT
}

// Result is the computed withholding for one period.
type Result struct {
	Employee EmployeeTaxes
	Employer EmployerTaxes
	NetPay   int64
}

// Compute calculates one pay period. Callers must not approve payroll
// without valid elections and company rates; missing configuration is a
// hard error, returned before anything is written.
func Compute(in Input) (*Result, error) {
	if in.Gross < 0 {
		return nil, ErrNegativeGross
	}
	if in.OtherDeductions < 0 {
		return nil, ErrNegativeDeductions
	}
	if in.Elections.W4 == nil || in.Elections.DE4 == nil {
		return nil, ErrMissingElections
	}
	if in.UIRate <= 0 {
		return nil, ErrMissingRates
	}
	periods, err := PeriodsPerYear(in.PeriodType)
	if err != nil {
		return nil, err
	}

	var res Result
	ex := in.Elections.Exemptions

	res.Employee.FederalIncomeTax, err = federalIncomeTax(in.Gross, periods, *in.Elections.W4)
	if err != nil {
		return nil, err
	}
	res.Employee.CAPIT, err = caPIT(in.Gross, periods, *in.Elections.DE4)
	if err != nil {
		return nil, err
	}

	if !ex.FICA {
		ssTaxable := taxmath.CappedTaxable(in.Gross, in.YTDGrossBefore, SocialSecurityWageBase)
		res.Employee.SocialSecurity = taxmath.PercentOf(ssTaxable, SocialSecurityRate)
		res.Employer.SocialSecurity = taxmath.PercentOf(ssTaxable, SocialSecurityRate)

		res.Employee.Medicare = taxmath.PercentOf(in.Gross, MedicareRate)
		res.Employer.Medicare = taxmath.PercentOf(in.Gross, MedicareRate)

		// Additional Medicare applies only to the portion of wages above
		// the YTD threshold and is employee-only with no employer match.
		addlTaxable := additionalMedicareTaxable(in.Gross, in.YTDGrossBefore)
		res.Employee.Medicare += taxmath.PercentOf(addlTaxable, AdditionalMedicareRate)
	}

	if !ex.SDI {
		// SDI has no wage base: the full gross is taxable.
		res.Employee.CASDI = taxmath.PercentOf(in.Gross, CASDIRate)
	}

	if !ex.FUTA {
		futaTaxable := taxmath.CappedTaxable(in.Gross, in.YTDGrossBefore, FUTAWageBase)
		res.Employer.FUTA = taxmath.PercentOf(futaTaxable, FUTARate)
	}

	if !ex.SUIETT {
		suiTaxable := taxmath.CappedTaxable(in.Gross, in.YTDGrossBefore, CASUIWageBase)
		res.Employer.CASUI = taxmath.PercentOf(suiTaxable, in.UIRate)
		if in.ETTSubject {
			res.Employer.CAETT = taxmath.PercentOf(suiTaxable, CAETTRate)
		}
	}

	res.NetPay = taxmath.Clamp0(in.Gross - res.Employee.Total() - in.OtherDeductions)
	return &res, nil
}

// additionalMedicareTaxable returns the slice of this period's wages that
// falls above the additional-Medicare YTD threshold.
func additionalMedicareTaxable(gross, ytdBefore int64) int64 {
	ytdAfter := ytdBefore + gross
	if ytdAfter <= AdditionalMedicareYTDFloor {
		return 0
	}
	over := ytdAfter - AdditionalMedicareYTDFloor
	if over > gross {
		return gross
	}
	return over
}

// federalIncomeTax applies the annualized percentage method over the W-4
// bracket tables.
func federalIncomeTax(gross int64, periods int, w4 W4Elections) (int64, error) {
	table, ok := federalBrackets[w4.FilingStatus]
	if !ok {
		return 0, ErrMissingElections
	}

	annual := gross*int64(periods) + w4.OtherIncome - w4.Deductions
	if w4.MultipleJobs {
		// Step 2 checkbox halves the brackets; approximated by doubling
		// the wage walked through the standard table and halving the tax.
		annual *= 2
	}

	annualTax := walkBrackets(annual, table)
	if w4.MultipleJobs {
		annualTax /= 2
	}

	annualTax -= w4.DependentsCredit
	perPeriod := taxmath.RoundCents(float64(taxmath.Clamp0(annualTax)) / float64(periods))
	return taxmath.Clamp0(perPeriod + w4.ExtraWithholding), nil
}

// caPIT applies the DE-4 method: annualize, subtract the standard
// deduction, walk the schedule, subtract allowance credits.
func caPIT(gross int64, periods int, de4 DE4Elections) (int64, error) {
	table, ok := caBrackets[de4.FilingStatus]
	if !ok {
		return 0, ErrMissingElections
	}

	annual := gross * int64(periods)

	lowIncome := caLowIncomeExemptionSingle
	deduction := caStandardDeductionSingle
	if de4.FilingStatus == FilingStatusMarried || de4.FilingStatus == FilingStatusHeadOfHousehold {
		lowIncome = caLowIncomeExemptionJoint
		deduction = caStandardDeductionMarried
	}
	if annual <= lowIncome {
		return taxmath.Clamp0(de4.ExtraWithholding), nil
	}

	taxable := taxmath.Clamp0(annual - deduction)
	annualTax := walkBrackets(taxable, table)
	annualTax -= int64(de4.Allowances) * caAllowanceCredit

	perPeriod := taxmath.RoundCents(float64(taxmath.Clamp0(annualTax)) / float64(periods))
	return taxmath.Clamp0(perPeriod + de4.ExtraWithholding), nil
}

// walkBrackets computes tax on an annual amount from a base+rate table.
func walkBrackets(annual int64, table []bracket) int64 {
	if annual <= 0 {
		return 0
	}
	row := table[0]
	for _, b := range table {
		if annual < b.Floor {
			break
		}
		row = b
	}
	return row.Base + taxmath.PercentOf(annual-row.Floor, row.Rate)
}
