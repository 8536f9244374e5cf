package calc

import (
	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/taxmath"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
)

// FUTADepositThreshold is the accumulated liability above which a
// quarterly federal unemployment deposit becomes due.
const FUTADepositThreshold = int64(500_00)

// Form940Input carries a full year of approved payroll.
type Form940Input struct {
	Year int

	// YearPayrolls holds every approved record whose pay date falls in
	// the year, in any order.
	YearPayrolls []payrolldomain.PayrollRecord

	// CreditReductionRate is the state's credit reduction rate, zero
	// when the state has no outstanding federal loan.
	CreditReductionRate float64

	// DepositsByQuarter maps quarter (1..4) to cents already deposited.
	DepositsByQuarter map[int]int64
}

// Form940Result mirrors the computed lines of the annual return.
type Form940Result struct {
	TotalWages       int64
	ExemptWages      int64
	ExcessWages      int64
	FUTATaxableWages int64
	FUTALiability    int64
	CreditReduction  int64
	TotalTax         int64

	QuarterLiabilities        [4]int64
	RequiresQuarterlyDeposits bool

	TotalDeposits int64
	BalanceDue    int64
	Overpayment   int64

	PayrollIDs []snowflake.ID
}

// ComputeForm940 builds the annual return by replaying the year's
// payroll in pay-date order. The wage cap runs per employee against
// running year-to-date gross, which makes the whole result a function
// of the record set alone.
func ComputeForm940(in Form940Input) *Form940Result {
	records := sortedByPayDate(in.YearPayrolls)

	res := &Form940Result{}
	ytdGross := make(map[snowflake.ID]int64)

	for i := range records {
		rec := &records[i]
		if rec.PayDate.UTC().Year() != in.Year {
			continue
		}
		ytdBefore := ytdGross[rec.EmployeeID]
		ytdGross[rec.EmployeeID] = ytdBefore + rec.GrossPay

		res.PayrollIDs = append(res.PayrollIDs, rec.ID)
		res.TotalWages += rec.GrossPay

		if rec.Elections.Data().Exemptions.FUTA {
			res.ExemptWages += rec.GrossPay
			continue
		}

		taxable := taxmath.CappedTaxable(rec.GrossPay, ytdBefore, withholding.FUTAWageBase)
		res.ExcessWages += rec.GrossPay - taxable
		res.FUTATaxableWages += taxable

		liability := taxmath.PercentOf(taxable, withholding.FUTARate)
		res.FUTALiability += liability
		res.QuarterLiabilities[taxcal.QuarterOf(rec.PayDate).Quarter-1] += liability
	}

	for _, due := range FUTADepositsDue(res.QuarterLiabilities) {
		if due {
			res.RequiresQuarterlyDeposits = true
			break
		}
	}

	res.CreditReduction = taxmath.PercentOf(res.FUTATaxableWages, in.CreditReductionRate)
	res.TotalTax = res.FUTALiability + res.CreditReduction

	for q := 1; q <= 4; q++ {
		res.TotalDeposits += in.DepositsByQuarter[q]
	}
	res.BalanceDue = taxmath.Clamp0(res.TotalTax - res.TotalDeposits)
	res.Overpayment = taxmath.Clamp0(res.TotalDeposits - res.TotalTax)
	return res
}

// FUTADepositsDue reports, quarter by quarter, whether a deposit is due:
// liability accumulates until it exceeds the threshold, a deposit falls
// due, and the accumulator resets.
func FUTADepositsDue(quarterLiabilities [4]int64) [4]bool {
	var due [4]bool
	var accrued int64
	for q := 0; q < 4; q++ {
		accrued += quarterLiabilities[q]
		if accrued > FUTADepositThreshold {
			due[q] = true
			accrued = 0
		}
	}
	return due
}
