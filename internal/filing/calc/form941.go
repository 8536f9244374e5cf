// Package calc holds the pure filing calculators. Every function here
// re-derives a return from approved payroll records with no I/O, so a
// recompute is always idempotent: same records in, same lines out.
package calc

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	filingdomain "github.com/smallbiznis/taxrail/internal/filing/domain"
	payrolldomain "github.com/smallbiznis/taxrail/internal/payroll/domain"
	"github.com/smallbiznis/taxrail/internal/taxmath"
	"github.com/smallbiznis/taxrail/internal/withholding"
	"github.com/smallbiznis/taxrail/pkg/taxcal"
)

// SemiweeklyLookbackThreshold is the lookback-period liability above
// which a filer must deposit on the semiweekly schedule.
const SemiweeklyLookbackThreshold = int64(50_000_00)

// Form941Input carries everything the quarterly federal return needs.
type Form941Input struct {
	Year    int
	Quarter int

	// YearPayrolls holds the year's approved payroll with pay dates
	// before the end of the quarter, in any order. Records outside the
	// quarter only feed the wage-base replay.
	YearPayrolls []payrolldomain.PayrollRecord

	// LookbackLiability is the total 941 liability across the four
	// quarters ending June 30 of the prior year.
	LookbackLiability int64

	// DepositsByMonth maps calendar month to cents already deposited.
	DepositsByMonth map[int]int64
}

// Form941Result mirrors the computed lines of the return.
type Form941Result struct {
	NumEmployees             int
	TotalWages               int64
	FederalIncomeTaxWithheld int64
	SocialSecurityWages      int64
	SocialSecurityTax        int64
	MedicareWages            int64
	MedicareTax              int64
	AdditionalMedicareWages  int64
	AdditionalMedicareTax    int64
	FractionsOfCents         int64
	TotalTax                 int64

	DepositSchedule    filingdomain.DepositScheduleType
	MonthLiabilities   [3]int64
	SemiweeklySchedule []filingdomain.DepositLiability

	MonthDeposits [3]int64
	TotalDeposits int64
	BalanceDue    int64
	Overpayment   int64

	PayrollIDs []snowflake.ID
}

// ComputeForm941 builds the quarter's return. Taxable Social Security
// and additional Medicare wages are replayed against each employee's
// running year-to-date gross rather than read off stored tax amounts,
// so the result stays correct no matter the order approvals happened
// in. The fractions-of-cents line absorbs the difference between the
// per-payroll rounded FICA amounts and the aggregate recomputation, so
// total tax always equals the sum of the monthly liability buckets.
func ComputeForm941(in Form941Input) *Form941Result {
	records := sortedByPayDate(in.YearPayrolls)

	res := &Form941Result{DepositSchedule: filingdomain.DepositScheduleMonthly}
	if in.LookbackLiability > SemiweeklyLookbackThreshold {
		res.DepositSchedule = filingdomain.DepositScheduleSemiweekly
	}

	ytdGross := make(map[snowflake.ID]int64)
	employees := make(map[snowflake.ID]struct{})
	liabilityByDate := make(map[time.Time]int64)
	var perRecordFICA int64

	for i := range records {
		rec := &records[i]
		ytdBefore := ytdGross[rec.EmployeeID]
		ytdGross[rec.EmployeeID] = ytdBefore + rec.GrossPay

		yq := taxcal.QuarterOf(rec.PayDate)
		if yq.Year != in.Year || yq.Quarter != in.Quarter {
			continue
		}

		employees[rec.EmployeeID] = struct{}{}
		res.PayrollIDs = append(res.PayrollIDs, rec.ID)
		res.TotalWages += rec.GrossPay
		res.FederalIncomeTaxWithheld += rec.FederalIncomeTax

		if !rec.Elections.Data().Exemptions.FICA {
			res.SocialSecurityWages += taxmath.CappedTaxable(rec.GrossPay, ytdBefore, withholding.SocialSecurityWageBase)
			res.MedicareWages += rec.GrossPay

			addl := rec.GrossPay - taxmath.Clamp0(withholding.AdditionalMedicareYTDFloor-ytdBefore)
			res.AdditionalMedicareWages += taxmath.Clamp0(addl)
		}
		perRecordFICA += rec.SocialSecurity + rec.EmployerSocialSecurity +
			rec.Medicare + rec.EmployerMedicare

		liability := rec.Federal941Liability()
		if slot := taxcal.MonthOfQuarter(rec.PayDate, in.Year, in.Quarter); slot >= 1 && slot <= 3 {
			res.MonthLiabilities[slot-1] += liability
		}
		day := rec.PayDate.UTC().Truncate(24 * time.Hour)
		liabilityByDate[day] += liability
	}

	res.NumEmployees = len(employees)
	res.SocialSecurityTax = taxmath.PercentOf(res.SocialSecurityWages, 2*withholding.SocialSecurityRate)
	res.MedicareTax = taxmath.PercentOf(res.MedicareWages, 2*withholding.MedicareRate)
	res.AdditionalMedicareTax = taxmath.PercentOf(res.AdditionalMedicareWages, withholding.AdditionalMedicareRate)
	res.FractionsOfCents = perRecordFICA - (res.SocialSecurityTax + res.MedicareTax + res.AdditionalMedicareTax)
	res.TotalTax = res.FederalIncomeTaxWithheld + perRecordFICA

	if res.DepositSchedule == filingdomain.DepositScheduleSemiweekly {
		res.SemiweeklySchedule = depositSchedule(liabilityByDate)
	}

	for _, month := range taxcal.QuarterMonths(in.Quarter) {
		slot := taxcal.MonthPositionInQuarter(month, in.Quarter)
		res.MonthDeposits[slot-1] = in.DepositsByMonth[month]
		res.TotalDeposits += in.DepositsByMonth[month]
	}
	res.BalanceDue = taxmath.Clamp0(res.TotalTax - res.TotalDeposits)
	res.Overpayment = taxmath.Clamp0(res.TotalDeposits - res.TotalTax)
	return res
}

func sortedByPayDate(records []payrolldomain.PayrollRecord) []payrolldomain.PayrollRecord {
	out := make([]payrolldomain.PayrollRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PayDate.Equal(out[j].PayDate) {
			return out[i].PayDate.Before(out[j].PayDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func depositSchedule(liabilityByDate map[time.Time]int64) []filingdomain.DepositLiability {
	out := make([]filingdomain.DepositLiability, 0, len(liabilityByDate))
	for day, amount := range liabilityByDate {
		out = append(out, filingdomain.DepositLiability{Date: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
