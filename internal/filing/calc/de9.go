package calc

import (
	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/taxmath"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
)

// De9Input carries the year's payroll through the end of the quarter.
type De9Input struct {
	Year    int
	Quarter int

	// YearPayrolls holds the year's approved payroll with pay dates
	// before the end of the quarter, in any order. Earlier quarters
	// feed the per-employee UI wage cap.
	YearPayrolls []payrolldomain.PayrollRecord

	UIRate     float64
	ETTSubject bool

	// DepositsPaid is the cents already paid toward the quarter's
	// contributions and withholdings.
	DepositsPaid int64
}

// De9Result mirrors the computed lines of the contribution return.
type De9Result struct {
	TotalSubjectWages int64
	UITaxableWages    int64
	UIContributions   int64
	ETTContributions  int64
	SDITaxableWages   int64
	SDIWithheld       int64
	PITWithheld       int64
	Subtotal          int64
	TotalDeposits     int64
	BalanceDue        int64
	Overpayment       int64

	PayrollIDs []snowflake.ID
}

// QuarterlyUITaxableWages applies the annual UI wage base to one
// employee's quarter: only the part of the quarter's wages that fits
// under the limit after the year's earlier wages is taxable.
func QuarterlyUITaxableWages(priorYearWages, quarterWages, limit int64) int64 {
	remaining := taxmath.Clamp0(limit - priorYearWages)
	if quarterWages < remaining {
		return taxmath.Clamp0(quarterWages)
	}
	return remaining
}

// ComputeDe9 builds the quarterly contribution return. UI and ETT run
// on capped wages per employee; SDI and PIT come straight off the
// quarter's withheld amounts.
func ComputeDe9(in De9Input) *De9Result {
	res := &De9Result{}

	priorWages := make(map[snowflake.ID]int64)
	quarterWages := make(map[snowflake.ID]int64)

	for i := range in.YearPayrolls {
		rec := &in.YearPayrolls[i]
		yq := taxcal.QuarterOf(rec.PayDate)
		if yq.Year != in.Year || yq.Quarter > in.Quarter {
			continue
		}
		exempt := rec.Elections.Data().Exemptions

		if yq.Quarter < in.Quarter {
			if !exempt.SUIETT {
				priorWages[rec.EmployeeID] += rec.GrossPay
			}
			continue
		}

		res.PayrollIDs = append(res.PayrollIDs, rec.ID)
		res.TotalSubjectWages += rec.GrossPay
		res.PITWithheld += rec.CAPIT
		if !exempt.SDI {
			res.SDITaxableWages += rec.GrossPay
		}
		res.SDIWithheld += rec.CASDI
		if !exempt.SUIETT {
			quarterWages[rec.EmployeeID] += rec.GrossPay
		}
	}

	for employeeID, wages := range quarterWages {
		res.UITaxableWages += QuarterlyUITaxableWages(priorWages[employeeID], wages, withholding.CASUIWageBase)
	}
	res.UIContributions = taxmath.PercentOf(res.UITaxableWages, in.UIRate)
	if in.ETTSubject {
		res.ETTContributions = taxmath.PercentOf(res.UITaxableWages, withholding.CAETTRate)
	}

	res.Subtotal = res.UIContributions + res.ETTContributions + res.SDIWithheld + res.PITWithheld
	res.TotalDeposits = in.DepositsPaid
	res.BalanceDue = taxmath.Clamp0(res.Subtotal - res.TotalDeposits)
	res.Overpayment = taxmath.Clamp0(res.TotalDeposits - res.Subtotal)
	return res
}
