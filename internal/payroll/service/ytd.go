package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxrail/internal/payroll/domain"
)

// YTD sums the employee's approved payroll from January 1 of the cutoff's
// year up to (exclusive) the cutoff. An employee with no prior approved
// records gets the zero struct back, never an error: first-payroll wage
// base math starts from zero.
func (s *Service) YTD(ctx context.Context, companyID, employeeID snowflake.ID, cutoff time.Time) (domain.YTDTotals, error) {
	recs, err := s.repo.ListApprovedForEmployeeBefore(ctx, companyID, employeeID, cutoff)
	if err != nil {
		return domain.YTDTotals{}, err
	}

	var totals domain.YTDTotals
	for i := range recs {
		rec := &recs[i]
		totals.Gross += rec.GrossPay
		totals.FederalIncomeTax += rec.FederalIncomeTax
		totals.SocialSecurity += rec.SocialSecurity
		totals.Medicare += rec.Medicare
		totals.CAPIT += rec.CAPIT
		totals.CASDI += rec.CASDI
		totals.EmployerTaxes += rec.EmployerTaxTotal()
		totals.OtherDeductions += rec.OtherDeductions
		totals.NetPay += rec.NetPay
	}
	return totals, nil
}
